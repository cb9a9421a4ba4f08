package worker

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gilbert09031/CatchUp-Github-Worker/internal/embedder"
	"github.com/gilbert09031/CatchUp-Github-Worker/pkg/types"
)

func pyFile(path, content string) types.FileRecord {
	return types.FileRecord{
		Path:     path,
		Content:  content,
		Language: "python",
		Size:     int64(len(content)),
	}
}

// Small files stay whole, so each fixture file below yields exactly one
// chunk and batch boundaries are easy to predict.
func TestServer_SyncRepository_BatchesAndFlushesRemainder(t *testing.T) {
	fetcher := &fakeFetcher{files: []types.FileRecord{
		pyFile("src/alpha.py", "alpha = 1\n"),
		pyFile("src/beta.py", "beta = 2\n"),
		pyFile("src/gamma.py", "gamma = 3\n"),
	}}
	emb := &fakeEmbedder{}
	ix := &fakeIndexer{}
	srv, _ := newTestServer(fetcher, emb, ix, &fakePRFetcher{})

	req := types.RepoSyncRequest{RepositoryID: 42, Owner: "acme", RepoName: "widgets", Branch: "main"}
	require.NoError(t, srv.syncRepository(context.Background(), req))

	assert.Equal(t, []string{"widgets_main_code"}, ix.ensured)
	require.Len(t, ix.batches, 2, "two full documents then the remainder")
	assert.Len(t, ix.batches[0], 2)
	assert.Len(t, ix.batches[1], 1)
	require.Len(t, emb.calls, 2)
	assert.Len(t, emb.calls[0], 2)

	first := ix.batches[0][0]
	assert.Equal(t, "src/alpha.py", first.FilePath)
	assert.Equal(t, types.CategoryCode, first.Category)
	assert.Equal(t, "widgets@main", first.Source)
	assert.Equal(t, int64(42), first.RepositoryID)
	assert.Equal(t, "acme", first.Owner)
	assert.Equal(t, "python", first.Language)
	assert.True(t, strings.HasPrefix(first.Text, "File: src/alpha.py\n\n"))

	remainder := ix.batches[1][0]
	assert.Equal(t, "src/gamma.py", remainder.FilePath)
}

func TestServer_SyncRepository_AttachesVectorsToEveryDocument(t *testing.T) {
	fetcher := &fakeFetcher{files: []types.FileRecord{
		pyFile("a.py", "a = 1\n"),
		pyFile("b.py", "bb = 22\n"),
	}}
	emb := &fakeEmbedder{}
	ix := &fakeIndexer{}
	srv, _ := newTestServer(fetcher, emb, ix, &fakePRFetcher{})

	req := types.RepoSyncRequest{RepositoryID: 7, Owner: "acme", RepoName: "widgets", Branch: "main"}
	require.NoError(t, srv.syncRepository(context.Background(), req))

	require.Len(t, ix.batches, 1)
	for _, doc := range ix.batches[0] {
		vector, ok := doc.Vectors["default"]
		require.True(t, ok, "document %s has no default vector", doc.ID)
		require.Len(t, vector, 1)
		assert.Equal(t, float32(len(doc.Text)), vector[0])
	}
}

func TestServer_SyncRepository_ExactBatchFitSkipsEmptyFlush(t *testing.T) {
	fetcher := &fakeFetcher{files: []types.FileRecord{
		pyFile("a.py", "a = 1\n"),
		pyFile("b.py", "b = 2\n"),
	}}
	emb := &fakeEmbedder{}
	ix := &fakeIndexer{}
	srv, _ := newTestServer(fetcher, emb, ix, &fakePRFetcher{})

	req := types.RepoSyncRequest{RepositoryID: 7, Owner: "acme", RepoName: "widgets", Branch: "main"}
	require.NoError(t, srv.syncRepository(context.Background(), req))

	assert.Len(t, ix.batches, 1)
	assert.Len(t, emb.calls, 1)
}

func TestServer_SyncRepository_BlankFilesYieldNoDocuments(t *testing.T) {
	fetcher := &fakeFetcher{files: []types.FileRecord{
		pyFile("empty.py", "   \n\t\n"),
	}}
	emb := &fakeEmbedder{}
	ix := &fakeIndexer{}
	srv, _ := newTestServer(fetcher, emb, ix, &fakePRFetcher{})

	req := types.RepoSyncRequest{RepositoryID: 7, Owner: "acme", RepoName: "widgets", Branch: "main"}
	require.NoError(t, srv.syncRepository(context.Background(), req))

	assert.Empty(t, ix.batches)
	assert.Empty(t, emb.calls)
}

func TestServer_SyncRepository_EnsureIndexFailureSkipsFetch(t *testing.T) {
	fetcher := &fakeFetcher{}
	ix := &fakeIndexer{ensureErr: types.ErrIndexingFailed}
	srv, _ := newTestServer(fetcher, &fakeEmbedder{}, ix, &fakePRFetcher{})

	req := types.RepoSyncRequest{RepositoryID: 7, Owner: "acme", RepoName: "widgets", Branch: "main"}
	err := srv.syncRepository(context.Background(), req)

	require.ErrorIs(t, err, types.ErrIndexingFailed)
	assert.False(t, fetcher.called)
	assert.False(t, dropDelivery(err), "index failures should requeue")
}

func TestServer_SyncRepository_EmbedderFailureAbortsFetch(t *testing.T) {
	fetcher := &fakeFetcher{files: []types.FileRecord{
		pyFile("a.py", "a = 1\n"),
		pyFile("b.py", "b = 2\n"),
		pyFile("c.py", "c = 3\n"),
	}}
	emb := &fakeEmbedder{err: embedder.ErrEmbeddingFailed}
	ix := &fakeIndexer{}
	srv, _ := newTestServer(fetcher, emb, ix, &fakePRFetcher{})

	req := types.RepoSyncRequest{RepositoryID: 7, Owner: "acme", RepoName: "widgets", Branch: "main"}
	err := srv.syncRepository(context.Background(), req)

	require.ErrorIs(t, err, embedder.ErrEmbeddingFailed)
	assert.Contains(t, err.Error(), "embed batch")
	assert.Empty(t, ix.batches)
	assert.False(t, dropDelivery(err))
}

func TestServer_ProcessRepoMessage_MalformedJSONIsInvalid(t *testing.T) {
	srv, _ := newTestServer(&fakeFetcher{}, &fakeEmbedder{}, &fakeIndexer{}, &fakePRFetcher{})

	err := srv.processRepoMessage(context.Background(), []byte(`{"owner": `))

	require.ErrorIs(t, err, types.ErrInvalidMessage)
	assert.True(t, dropDelivery(err))
}

func TestServer_ProcessRepoMessage_MissingFieldsAreInvalid(t *testing.T) {
	srv, _ := newTestServer(&fakeFetcher{}, &fakeEmbedder{}, &fakeIndexer{}, &fakePRFetcher{})

	err := srv.processRepoMessage(context.Background(), []byte(`{"repository_id": 7, "owner": "acme"}`))

	require.ErrorIs(t, err, types.ErrInvalidMessage)
	assert.Contains(t, err.Error(), "repo_name")
}

func TestServer_ProcessRepoMessage_DefaultsBranchToMain(t *testing.T) {
	fetcher := &fakeFetcher{}
	ix := &fakeIndexer{}
	srv, _ := newTestServer(fetcher, &fakeEmbedder{}, ix, &fakePRFetcher{})

	body := []byte(`{"repository_id": 7, "owner": "acme", "repo_name": "widgets"}`)
	require.NoError(t, srv.processRepoMessage(context.Background(), body))

	assert.Equal(t, "main", fetcher.branch)
	assert.Equal(t, []string{"widgets_main_code"}, ix.ensured)
}

func TestServer_ProcessRepoMessage_TokenSelection(t *testing.T) {
	tests := []struct {
		name      string
		msgToken  string
		wantToken string
	}{
		{"message token wins", "user-token", "user-token"},
		{"fallback when absent", "", "fallback-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{}
			srv, token := newTestServer(fetcher, &fakeEmbedder{}, &fakeIndexer{}, &fakePRFetcher{})

			req := types.RepoSyncRequest{
				RepositoryID: 7,
				Owner:        "acme",
				RepoName:     "widgets",
				Branch:       "main",
				GithubToken:  tt.msgToken,
			}
			require.NoError(t, srv.syncRepository(context.Background(), req))

			assert.Equal(t, tt.wantToken, *token)
		})
	}
}
