// Package types provides shared type definitions for the CatchUp GitHub worker.
//
// This package defines domain types used across multiple components of the
// worker, including fetched files, chunks, search documents, and queue
// messages.
//
// # Core Types
//
// FileRecord represents a single source file streamed out of a GitHub
// repository by one of the fetchers:
//
//	file := types.FileRecord{
//	    Path:     "src/main/java/App.java",
//	    Content:  sourceText,
//	    Language: "java",
//	    Size:     int64(len(sourceText)),
//	}
//
// Chunk represents one semantically bounded piece of a file, produced by the
// chunking engine and ready for embedding:
//
//	chunk := types.Chunk{
//	    ID:       "repo_42_src/main/java/App.java_0",
//	    FilePath: "src/main/java/App.java",
//	    Content:  "File: src/main/java/App.java\n\npublic class App { ... }",
//	    Language: "java",
//	    Metadata: map[string]string{types.MetadataClassName: "App"},
//	}
//
// Chunk.Content always carries the injected "File: <path>" header line so the
// embedding model sees the file location alongside the code.
//
// # Search Documents
//
// CodeDocument is the Meilisearch document built from a chunk. Its ID is
// deterministic for a given (repository, path, chunk index) triple, so
// re-syncing a repository overwrites documents in place instead of
// duplicating them:
//
//	id := types.CodeDocumentID(42, "src/App.java", 0)
//	// "repo_42_App_java_0_<md5 prefix>"
//
// PRDocument captures pull-request metadata (title, body, state, commits,
// changed files) for the companion "_pr" index.
//
// # Queue Messages
//
// RepoSyncRequest and PRSyncRequest are the JSON payloads consumed from the
// repository and pull-request queues. Both carry an optional per-request
// GitHub token for private repositories.
//
// All message types implement Validate, which the worker calls before doing
// any remote work:
//
//	var req types.RepoSyncRequest
//	if err := json.Unmarshal(body, &req); err != nil { ... }
//	if err := req.Validate(); err != nil { ... }
package types
