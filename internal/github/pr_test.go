package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gilbert09031/CatchUp-Github-Worker/pkg/types"
)

func newPRServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/pulls/5", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"number": 5,
			"title": "Add retry logic",
			"body": "Retries transient fetch failures with backoff.",
			"state": "closed",
			"user": {"login": "octocat"},
			"base": {"ref": "main"},
			"head": {"ref": "feature/retry"},
			"created_at": "2024-01-15T10:00:00Z",
			"updated_at": "2024-01-16T12:30:00Z",
			"merged_at": "2024-01-16T12:30:00Z",
			"closed_at": "2024-01-16T12:30:00Z",
			"labels": [{"name": "bug"}, {"name": "backend"}],
			"milestone": {"title": "v1.0"},
			"html_url": "https://github.com/acme/widgets/pull/5"
		}`))
	})
	mux.HandleFunc("/repos/acme/widgets/pulls/5/files", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"filename": "internal/retry.go", "additions": 120, "deletions": 8},
			{"filename": "internal/retry_test.go", "additions": 85, "deletions": 0}
		]`))
	})
	mux.HandleFunc("/repos/acme/widgets/pulls/5/commits", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"commit": {"message": "Add retry helper"}},
			{"commit": {"message": "Wire retry into fetcher"}}
		]`))
	})
	return httptest.NewServer(mux)
}

func newTestPRClient(t *testing.T, srv *httptest.Server) *PRClient {
	t.Helper()

	c := NewPRClient("", nil)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	c.client.BaseURL = base
	return c
}

func TestPRClient_FetchPRMetadata_CollectsAllFields(t *testing.T) {
	srv := newPRServer(t)
	defer srv.Close()

	c := newTestPRClient(t, srv)
	meta, err := c.FetchPRMetadata(context.Background(), "acme", "widgets", 5)
	require.NoError(t, err)

	assert.Equal(t, 5, meta.Number)
	assert.Equal(t, "Add retry logic", meta.Title)
	assert.Equal(t, "Retries transient fetch failures with backoff.", meta.Body)
	assert.Equal(t, "closed", meta.State)
	assert.Equal(t, "octocat", meta.Author)
	assert.Equal(t, "main", meta.BaseBranch)
	assert.Equal(t, "feature/retry", meta.HeadBranch)

	created := time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC).Unix()
	updated := time.Date(2024, time.January, 16, 12, 30, 0, 0, time.UTC).Unix()
	assert.Equal(t, created, meta.CreatedAt)
	assert.Equal(t, updated, meta.UpdatedAt)
	require.NotNil(t, meta.MergedAt)
	assert.Equal(t, updated, *meta.MergedAt)
	require.NotNil(t, meta.ClosedAt)
	assert.Equal(t, updated, *meta.ClosedAt)

	assert.Equal(t, []string{"Add retry helper", "Wire retry into fetcher"}, meta.CommitMessages)
	assert.Equal(t, []string{"internal/retry.go", "internal/retry_test.go"}, meta.ChangedFiles)
	assert.Equal(t, 205, meta.Additions)
	assert.Equal(t, 8, meta.Deletions)
	assert.Equal(t, []string{"bug", "backend"}, meta.Labels)
	assert.Equal(t, "v1.0", meta.Milestone)
	assert.Equal(t, "https://github.com/acme/widgets/pull/5", meta.HTMLURL)
}

func TestPRClient_FetchPRMetadata_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found"}`))
	}))
	defer srv.Close()

	c := newTestPRClient(t, srv)
	_, err := c.FetchPRMetadata(context.Background(), "acme", "widgets", 999)
	assert.ErrorIs(t, err, types.ErrPRNotFound)
}

func TestPRClient_FetchPRMetadata_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-RateLimit-Limit", "60")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", "1705312800")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message": "API rate limit exceeded"}`))
	}))
	defer srv.Close()

	c := newTestPRClient(t, srv)
	_, err := c.FetchPRMetadata(context.Background(), "acme", "widgets", 5)
	assert.ErrorIs(t, err, types.ErrRateLimited)
}

func TestPRClient_FetchPRMetadata_OpenPRHasNilMergedAt(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/pulls/7", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"number": 7,
			"title": "WIP",
			"state": "open",
			"user": {"login": "octocat"},
			"base": {"ref": "main"},
			"head": {"ref": "wip"},
			"created_at": "2024-02-01T08:00:00Z",
			"updated_at": "2024-02-01T08:00:00Z",
			"html_url": "https://github.com/acme/widgets/pull/7"
		}`))
	})
	mux.HandleFunc("/repos/acme/widgets/pulls/7/files", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/repos/acme/widgets/pulls/7/commits", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestPRClient(t, srv)
	meta, err := c.FetchPRMetadata(context.Background(), "acme", "widgets", 7)
	require.NoError(t, err)

	assert.Nil(t, meta.MergedAt)
	assert.Nil(t, meta.ClosedAt)
	assert.Empty(t, meta.ChangedFiles)
	assert.Empty(t, meta.CommitMessages)
	assert.Empty(t, meta.Labels)
	assert.Empty(t, meta.Milestone)
}
