package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gilbert09031/CatchUp-Github-Worker/pkg/types"
)

// newAdaptiveServer serves the same repository over both download paths:
// the zipball contains pkg/from_archive.py while the tree API exposes
// pkg/from_tree.py, so the visited paths reveal which strategy ran.
func newAdaptiveServer(t *testing.T, archive []byte, headSize string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/zipball/main", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Length", headSize)
			return
		}
		_, _ = w.Write(archive)
	})
	mux.HandleFunc("/repos/acme/widgets/git/trees/main", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"sha": "main",
			"tree": [{"path": "pkg/from_tree.py", "type": "blob", "sha": "sha-tree"}],
			"truncated": false
		}`))
	})
	mux.HandleFunc("/repos/acme/widgets/git/blobs/sha-tree", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("came_from = \"tree\"\n"))
	})
	return httptest.NewServer(mux)
}

func newTestAdaptiveFetcher(t *testing.T, srv *httptest.Server) *AdaptiveFetcher {
	t.Helper()

	f := NewAdaptiveFetcher("", 50, nil)
	f.archive.apiBase = srv.URL
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	f.tree.client.BaseURL = base
	return f
}

func TestAdaptiveFetcher_FetchFiles_SmallArchiveUsesArchiveMode(t *testing.T) {
	archive := writeTestArchive(t, []archiveEntry{
		{"widgets-main-abc123/pkg/from_archive.py", "came_from = \"archive\"\n"},
	})
	srv := newAdaptiveServer(t, archive, strconv.Itoa(len(archive)))
	defer srv.Close()

	f := newTestAdaptiveFetcher(t, srv)

	var visited []types.FileRecord
	err := f.FetchFiles(context.Background(), "acme", "widgets", "main", collectFiles(&visited))
	require.NoError(t, err)

	require.Len(t, visited, 1)
	assert.Equal(t, "pkg/from_archive.py", visited[0].Path)
	assert.Equal(t, "came_from = \"archive\"\n", visited[0].Content)
}

func TestAdaptiveFetcher_FetchFiles_OversizedArchiveUsesTreeMode(t *testing.T) {
	archive := writeTestArchive(t, []archiveEntry{
		{"widgets-main-abc123/pkg/from_archive.py", "came_from = \"archive\"\n"},
	})
	srv := newAdaptiveServer(t, archive, strconv.Itoa(len(archive)))
	defer srv.Close()

	f := newTestAdaptiveFetcher(t, srv)
	f.archive.maxZipBytes = 1

	var visited []types.FileRecord
	err := f.FetchFiles(context.Background(), "acme", "widgets", "main", collectFiles(&visited))
	require.NoError(t, err)

	require.Len(t, visited, 1)
	assert.Equal(t, "pkg/from_tree.py", visited[0].Path)
	assert.Equal(t, "came_from = \"tree\"\n", visited[0].Content)
}

func TestAdaptiveFetcher_FetchFiles_FallsBackToTreeWhenHeadUnderreports(t *testing.T) {
	archive := writeTestArchive(t, []archiveEntry{
		{"widgets-main-abc123/pkg/from_archive.py", "came_from = \"archive\"\n"},
	})
	require.Greater(t, len(archive), 64)

	// The size check sees 10 bytes and picks archive mode, but the real
	// download blows the limit, so the fetch retries with the tree API.
	srv := newAdaptiveServer(t, archive, "10")
	defer srv.Close()

	f := newTestAdaptiveFetcher(t, srv)
	f.archive.maxZipBytes = 64

	var visited []types.FileRecord
	err := f.FetchFiles(context.Background(), "acme", "widgets", "main", collectFiles(&visited))
	require.NoError(t, err)

	require.Len(t, visited, 1)
	assert.Equal(t, "pkg/from_tree.py", visited[0].Path)
}
