// Package worker consumes repository and pull-request sync requests from
// RabbitMQ and turns them into searchable Meilisearch documents.
//
// # Queues
//
// The server consumes two durable queues, each on its own channel with a
// prefetch of one so a slow repository sync never starves the other queue:
//
//   - github_repository_queue: full repository syncs. The handler fetches
//     every supported file, chunks it, embeds the chunk texts in batches,
//     and writes the documents to the repository's code index.
//   - github_pull_request_queue: single pull requests. The handler fetches
//     the PR metadata from the GitHub API and writes one document to the
//     repository's PR index.
//
// # Acknowledgement
//
// Messages are acknowledged manually after the handler returns. Failures
// fall into two classes:
//
//   - Permanent: malformed JSON, requests missing required fields, and
//     pull requests that do not exist. Redelivery cannot fix these, so the
//     message is acknowledged and dropped with an error log.
//   - Transient: GitHub rate limits, embedding API failures, search engine
//     failures, and network errors. The message is negatively acknowledged
//     with requeue so a later delivery can retry it.
//
// # Lifecycle
//
// Serve blocks until the context is canceled or the broker connection
// drops. Cancellation waits for the in-flight handler on each queue to
// settle its delivery before the consume loop exits, so a shutdown never
// abandons an unacknowledged message.
package worker
