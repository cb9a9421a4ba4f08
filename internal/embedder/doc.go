// Package embedder generates vector embeddings for chunk texts.
//
// The production provider calls the OpenAI embeddings API with
// text-embedding-3-small at 1536 dimensions; a mock provider produces
// deterministic vectors for tests and offline runs. Both batch, and the
// OpenAI provider caches and retries.
//
// # Basic Usage
//
//	emb, err := embedder.New(embedder.Config{
//	    Provider:  "openai",
//	    APIKey:    cfg.OpenAIAPIKey,
//	    CacheSize: 10000,
//	})
//	if err != nil {
//	    return err
//	}
//	defer emb.Close()
//
//	vectors, err := emb.EmbedBatch(ctx, texts)
//	// vectors[i] belongs to texts[i]
//
// # Batching
//
// EmbedBatch embeds every text in a single API call, up to MaxBatchSize
// inputs. The indexing pipeline flushes in batches well below that limit,
// so one flush is one request.
//
// # Caching
//
// With a positive Config.CacheSize the OpenAI provider keeps an LRU of
// vectors keyed by the SHA-256 of the text. Re-indexing a branch whose
// files mostly did not change then skips most of the API traffic. Cached
// entries are copied on both store and load, so callers can mutate the
// returned vectors freely.
//
// # Error Handling
//
// Rate limits (429), server errors (5xx), and transport failures retry up
// to three times with exponential backoff and jitter. Other API statuses
// fail immediately. Failures surface wrapped in ErrEmbeddingFailed:
//
//	vectors, err := emb.EmbedBatch(ctx, texts)
//	if errors.Is(err, embedder.ErrEmbeddingFailed) {
//	    // requeue the message and let the broker redeliver
//	}
package embedder
