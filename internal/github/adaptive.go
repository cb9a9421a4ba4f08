package github

import (
	"context"
	"errors"
	"fmt"

	"github.com/gilbert09031/CatchUp-Github-Worker/pkg/logger"
	"github.com/gilbert09031/CatchUp-Github-Worker/pkg/types"
)

// AdaptiveFetcher picks a download strategy per repository: the archive
// fetcher when the zipball fits the size limit, the tree fetcher when it
// does not.
type AdaptiveFetcher struct {
	archive *ArchiveFetcher
	tree    *TreeFetcher
	log     logger.Logger
}

// NewAdaptiveFetcher creates an adaptive fetcher sharing one token and size
// limit across both strategies.
func NewAdaptiveFetcher(token string, maxZipSizeMB int, log logger.Logger) *AdaptiveFetcher {
	if log == nil {
		log = logger.Nop()
	}
	return &AdaptiveFetcher{
		archive: NewArchiveFetcher(token, maxZipSizeMB, log),
		tree:    NewTreeFetcher(token, log),
		log:     log,
	}
}

// FetchFiles checks the archive size with a HEAD request and routes to the
// right strategy. An unknown size tries the archive first. If the archive
// path reports types.ErrArchiveTooLarge the fetch falls back to the tree
// strategy; that error surfaces before any file is visited, so the fallback
// cannot re-deliver files.
func (f *AdaptiveFetcher) FetchFiles(ctx context.Context, owner, repo, branch string, visit FileVisitor) error {
	size, known := f.archive.contentLength(ctx, f.archive.archiveURL(owner, repo, branch))
	switch {
	case !known:
		f.log.Warn("archive size unknown, trying archive mode", "repo", owner+"/"+repo)
	case size > f.archive.maxZipBytes:
		f.log.Info("using tree mode",
			"repo", owner+"/"+repo,
			"archive_mb", fmt.Sprintf("%.2f", float64(size)/bytesPerMB),
			"limit_mb", f.archive.maxZipBytes/bytesPerMB)
		return f.tree.FetchFiles(ctx, owner, repo, branch, visit)
	default:
		f.log.Info("using archive mode",
			"repo", owner+"/"+repo,
			"archive_mb", fmt.Sprintf("%.2f", float64(size)/bytesPerMB))
	}

	err := f.archive.FetchFiles(ctx, owner, repo, branch, visit)
	if err != nil && errors.Is(err, types.ErrArchiveTooLarge) {
		f.log.Warn("archive too large, falling back to tree mode",
			"repo", owner+"/"+repo, "error", err)
		return f.tree.FetchFiles(ctx, owner, repo, branch, visit)
	}
	return err
}
