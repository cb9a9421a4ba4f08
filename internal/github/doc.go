// Package github fetches repository content and pull-request metadata from
// the GitHub API for indexing.
//
// # Repository Fetchers
//
// Three fetchers implement the Fetcher interface, all streaming files to a
// visitor callback:
//
//   - ArchiveFetcher downloads the branch zipball in one request and walks
//     it in memory. Fastest, but refuses archives over its size limit.
//   - TreeFetcher lists the branch tree recursively and downloads blobs one
//     by one. Slow and API-hungry, but memory use stays flat.
//   - AdaptiveFetcher checks the archive size with a HEAD request and picks
//     between the two, falling back from archive to tree when the limit
//     trips.
//
//	fetcher := github.NewAdaptiveFetcher(token, 50, log)
//	err := fetcher.FetchFiles(ctx, "owner", "repo", "main", func(f types.FileRecord) error {
//	    return pipeline.Process(f)
//	})
//
// All fetchers apply the same filter: hidden paths (any segment starting
// with a dot) are skipped, only files whose language DetectLanguage knows
// are visited, and non-UTF-8 content is dropped with a log line.
//
// # Pull Requests
//
// PRClient gathers a pull request's record, changed files with line counts,
// and commit messages into one types.PRMetadata. Missing PRs and exhausted
// API quotas surface as types.ErrPRNotFound and types.ErrRateLimited so the
// queue consumer can decide between dropping and requeueing a message.
package github
