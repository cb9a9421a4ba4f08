// Package indexer provisions Meilisearch indexes and writes documents to them.
//
// Every repository branch gets its own pair of indexes: one for code chunks
// and one for pull requests. Index uids are derived from the repository and
// branch names with special characters flattened to underscores:
//
//	indexer.IndexName("Progress-Tracker", "feature/new-ui")
//	// "Progress_Tracker_feature_new_ui_code"
//	indexer.PRIndexName("Progress-Tracker", "feature/new-ui")
//	// "Progress_Tracker_feature_new_ui_code_pr"
//
// # Provisioning
//
// EnsureIndex creates the index with primary key "id" and applies the
// search settings: filterable attributes for repository/language/metadata
// filtering, searchable attributes over chunk text and symbol names, and a
// userProvided embedder named "default" matching the vectors the documents
// carry. Creating an index that already exists is not an error; settings
// are re-applied either way.
//
// # Writing documents
//
//	ix := indexer.New(indexer.Config{Host: cfg.MeiliURL, APIKey: cfg.MeiliKey}, log)
//	name := indexer.IndexName(repo, branch)
//	if err := ix.EnsureIndex(ctx, name); err != nil {
//	    return err
//	}
//	if err := ix.AddCodeDocuments(ctx, name, docs); err != nil {
//	    return err
//	}
//
// AddCodeDocuments and AddPRDocument enqueue the write and wait up to 30
// seconds for the task to finish. A task that does not succeed surfaces as
// types.ErrIndexingFailed carrying the task's error code.
package indexer
