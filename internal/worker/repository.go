package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gilbert09031/CatchUp-Github-Worker/internal/indexer"
	"github.com/gilbert09031/CatchUp-Github-Worker/pkg/types"
)

type syncStats struct {
	files     int
	chunks    int
	documents int
}

// processRepoMessage decodes a repository sync request and runs the full
// fetch, chunk, embed, index pipeline for it.
func (s *Server) processRepoMessage(ctx context.Context, body []byte) error {
	var req types.RepoSyncRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return fmt.Errorf("%w: decode repository request: %v", types.ErrInvalidMessage, err)
	}
	if err := req.Validate(); err != nil {
		return err
	}
	return s.syncRepository(ctx, req)
}

func (s *Server) syncRepository(ctx context.Context, req types.RepoSyncRequest) error {
	log := s.log.With("owner", req.Owner, "repo", req.RepoName, "branch", req.Branch)
	start := time.Now()

	indexName := indexer.IndexName(req.RepoName, req.Branch)
	if err := s.indexer.EnsureIndex(ctx, indexName); err != nil {
		return fmt.Errorf("ensure index %s: %w", indexName, err)
	}

	token := req.GithubToken
	if token == "" {
		token = s.cfg.GithubToken
	}
	fetcher := s.newFetcher(token)

	var stats syncStats
	buffer := make([]types.CodeDocument, 0, s.cfg.BatchSize)

	flush := func() error {
		if len(buffer) == 0 {
			return nil
		}
		if err := s.indexBatch(ctx, indexName, buffer); err != nil {
			return err
		}
		stats.documents += len(buffer)
		buffer = buffer[:0]
		return nil
	}

	err := fetcher.FetchFiles(ctx, req.Owner, req.RepoName, req.Branch, func(file types.FileRecord) error {
		stats.files++
		chunks := s.chunker.ChunkFile(file, req.RepositoryID)
		stats.chunks += len(chunks)
		for i, chunk := range chunks {
			buffer = append(buffer, types.NewCodeDocument(chunk, i, req.RepositoryID, req.Owner, req.RepoName, req.Branch))
			if len(buffer) >= s.cfg.BatchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("fetch repository files: %w", err)
	}
	if err := flush(); err != nil {
		return err
	}

	log.Info("repository synced",
		"index", indexName,
		"files", stats.files,
		"chunks", stats.chunks,
		"documents", stats.documents,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// indexBatch embeds the batch texts, attaches the vectors, and writes the
// documents to the search engine.
func (s *Server) indexBatch(ctx context.Context, indexName string, docs []types.CodeDocument) error {
	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed batch of %d: %w", len(docs), err)
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("embed batch of %d: got %d vectors", len(docs), len(vectors))
	}
	for i := range docs {
		docs[i].Vectors = map[string][]float32{"default": vectors[i]}
	}

	if err := s.indexer.AddCodeDocuments(ctx, indexName, docs); err != nil {
		return fmt.Errorf("index batch of %d: %w", len(docs), err)
	}
	return nil
}
