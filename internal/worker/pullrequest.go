package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gilbert09031/CatchUp-Github-Worker/internal/indexer"
	"github.com/gilbert09031/CatchUp-Github-Worker/pkg/types"
)

// processPRMessage decodes a pull-request sync request and indexes the
// pull request's metadata document.
func (s *Server) processPRMessage(ctx context.Context, body []byte) error {
	var req types.PRSyncRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return fmt.Errorf("%w: decode pull request request: %v", types.ErrInvalidMessage, err)
	}
	if err := req.Validate(); err != nil {
		return err
	}
	return s.syncPullRequest(ctx, req)
}

func (s *Server) syncPullRequest(ctx context.Context, req types.PRSyncRequest) error {
	log := s.log.With("owner", req.Owner, "repo", req.RepoName, "pr", req.PRNumber)

	indexName := indexer.PRIndexName(req.RepoName, req.Branch)
	if err := s.indexer.EnsureIndex(ctx, indexName); err != nil {
		return fmt.Errorf("ensure index %s: %w", indexName, err)
	}

	token := req.GithubToken
	if token == "" {
		token = s.cfg.GithubToken
	}
	client := s.newPRClient(token)

	meta, err := client.FetchPRMetadata(ctx, req.Owner, req.RepoName, req.PRNumber)
	if err != nil {
		return fmt.Errorf("fetch pull request #%d: %w", req.PRNumber, err)
	}

	doc := types.NewPRDocument(meta, req.RepositoryID, req.Owner, req.RepoName)
	if err := s.indexer.AddPRDocument(ctx, indexName, doc); err != nil {
		return fmt.Errorf("index pull request #%d: %w", req.PRNumber, err)
	}

	log.Info("pull request synced",
		"index", indexName,
		"state", meta.State,
		"files", len(meta.ChangedFiles),
	)
	return nil
}
