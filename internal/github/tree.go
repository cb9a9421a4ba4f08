package github

import (
	"context"
	"fmt"
	"unicode/utf8"

	gogithub "github.com/google/go-github/v68/github"

	"github.com/gilbert09031/CatchUp-Github-Worker/pkg/logger"
	"github.com/gilbert09031/CatchUp-Github-Worker/pkg/types"
)

// TreeFetcher downloads repository files one blob at a time via the Git data
// API. Slow but memory-flat, so it handles repositories whose archive would
// not fit in memory. Individual blob failures are logged and skipped.
type TreeFetcher struct {
	client *gogithub.Client
	log    logger.Logger
}

// NewTreeFetcher creates a tree-walking fetcher. The token may be empty for
// public repositories.
func NewTreeFetcher(token string, log logger.Logger) *TreeFetcher {
	if log == nil {
		log = logger.Nop()
	}
	return &TreeFetcher{client: newAPIClient(token), log: log}
}

// FetchFiles lists the branch tree recursively, then downloads and visits
// every supported blob. Files that fail to download or are not valid UTF-8
// are skipped; a visitor error aborts the walk.
func (f *TreeFetcher) FetchFiles(ctx context.Context, owner, repo, branch string, visit FileVisitor) error {
	tree, _, err := f.client.Git.GetTree(ctx, owner, repo, branch, true)
	if err != nil {
		return fmt.Errorf("fetch repository tree %s/%s@%s: %w", owner, repo, branch, err)
	}

	var blobs []*gogithub.TreeEntry
	for _, entry := range tree.Entries {
		if entry.GetType() == "blob" && IsSupported(entry.GetPath()) {
			blobs = append(blobs, entry)
		}
	}
	f.log.Info("repository tree listed",
		"repo", owner+"/"+repo, "branch", branch, "files", len(blobs))

	for i, entry := range blobs {
		if i > 0 && i%100 == 0 {
			f.log.Info("tree fetch progress",
				"repo", owner+"/"+repo, "fetched", i, "total", len(blobs))
		}

		raw, _, err := f.client.Git.GetBlobRaw(ctx, owner, repo, entry.GetSHA())
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			f.log.Error("fetch blob failed", "path", entry.GetPath(), "error", err)
			continue
		}
		if !utf8.Valid(raw) {
			f.log.Warn("skipping non-UTF-8 file", "path", entry.GetPath())
			continue
		}

		record := types.FileRecord{
			Path:     entry.GetPath(),
			Content:  string(raw),
			Language: DetectLanguage(entry.GetPath()),
			Size:     int64(len(raw)),
		}
		if err := visit(record); err != nil {
			return err
		}
	}

	return nil
}
