package indexer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/meilisearch/meilisearch-go"

	"github.com/gilbert09031/CatchUp-Github-Worker/pkg/logger"
	"github.com/gilbert09031/CatchUp-Github-Worker/pkg/types"
)

const (
	// taskTimeout bounds how long one Meilisearch task may stay pending.
	taskTimeout      = 30 * time.Second
	taskPollInterval = 50 * time.Millisecond

	defaultDimensions = 1536

	errCodeIndexExists = "index_already_exists"

	// embedderName is the key documents carry their vectors under.
	embedderName = "default"
)

// Index settings. Metadata fields are dotted paths into the nested chunk
// metadata object.
var (
	filterableAttributes = []string{
		"repository_id",
		"owner",
		"language",
		"category",
		"source",
		"metadata.class_name",
		"metadata.function_name",
	}
	searchableAttributes = []string{
		"text",
		"file_path",
		"metadata.class_name",
		"metadata.function_name",
	}
	sortableAttributes = []string{
		"repository_id",
	}
)

// IndexName builds the per-branch code index uid. Meilisearch uids allow
// only [a-zA-Z0-9_-], so repository dots and dashes and branch slashes all
// become underscores.
func IndexName(repo, branch string) string {
	safeRepo := strings.NewReplacer("-", "_", ".", "_").Replace(repo)
	safeBranch := strings.NewReplacer("/", "_", "-", "_").Replace(branch)
	return fmt.Sprintf("%s_%s_code", safeRepo, safeBranch)
}

// PRIndexName builds the pull-request index uid for the same branch
func PRIndexName(repo, branch string) string {
	return IndexName(repo, branch) + "_pr"
}

// Config holds Meilisearch connection settings
type Config struct {
	Host       string
	APIKey     string
	Dimensions int // vector length for the userProvided embedder, default 1536
}

// Indexer provisions per-repository indexes and writes documents to them
type Indexer struct {
	client meilisearch.ServiceManager
	dims   int
	log    logger.Logger
}

// New creates an indexer connected to the configured Meilisearch instance
func New(cfg Config, log logger.Logger) *Indexer {
	if log == nil {
		log = logger.Nop()
	}
	dims := cfg.Dimensions
	if dims <= 0 {
		dims = defaultDimensions
	}

	var opts []meilisearch.Option
	if cfg.APIKey != "" {
		opts = append(opts, meilisearch.WithAPIKey(cfg.APIKey))
	}
	return &Indexer{
		client: meilisearch.New(cfg.Host, opts...),
		dims:   dims,
		log:    log,
	}
}

// EnsureIndex creates the index if needed and applies the search settings.
// An index that already exists is reused; its settings are re-applied so
// older indexes pick up attribute changes.
func (ix *Indexer) EnsureIndex(ctx context.Context, name string) error {
	info, err := ix.client.CreateIndexWithContext(ctx, &meilisearch.IndexConfig{
		Uid:        name,
		PrimaryKey: "id",
	})
	if err != nil {
		return fmt.Errorf("create index %s: %w", name, err)
	}

	task, err := ix.waitForTask(ctx, info.TaskUID)
	if err != nil {
		return fmt.Errorf("create index %s: %w", name, err)
	}
	switch {
	case task.Status == meilisearch.TaskStatusSucceeded:
		ix.log.Info("index created", "index", name)
	case task.Error.Code == errCodeIndexExists:
		ix.log.Debug("index already exists", "index", name)
	default:
		return fmt.Errorf("%w: create index %s: %s (%s)",
			types.ErrIndexingFailed, name, task.Error.Message, task.Error.Code)
	}

	idx := ix.client.Index(name)
	if _, err := idx.UpdateFilterableAttributesWithContext(ctx, &filterableAttributes); err != nil {
		return fmt.Errorf("configure index %s filterable attributes: %w", name, err)
	}
	if _, err := idx.UpdateSearchableAttributesWithContext(ctx, &searchableAttributes); err != nil {
		return fmt.Errorf("configure index %s searchable attributes: %w", name, err)
	}
	if _, err := idx.UpdateSortableAttributesWithContext(ctx, &sortableAttributes); err != nil {
		return fmt.Errorf("configure index %s sortable attributes: %w", name, err)
	}

	embedders := map[string]meilisearch.Embedder{
		embedderName: {
			Source:     "userProvided",
			Dimensions: ix.dims,
		},
	}
	if _, err := idx.UpdateEmbeddersWithContext(ctx, embedders); err != nil {
		return fmt.Errorf("configure index %s embedders: %w", name, err)
	}

	ix.log.Info("index configured", "index", name, "dimensions", ix.dims)
	return nil
}

// AddCodeDocuments indexes one batch of code documents. Empty batches are
// a no-op.
func (ix *Indexer) AddCodeDocuments(ctx context.Context, indexName string, docs []types.CodeDocument) error {
	if len(docs) == 0 {
		return nil
	}
	return ix.addDocuments(ctx, indexName, docs, len(docs))
}

// AddPRDocument indexes a single pull-request document
func (ix *Indexer) AddPRDocument(ctx context.Context, indexName string, doc types.PRDocument) error {
	return ix.addDocuments(ctx, indexName, []types.PRDocument{doc}, 1)
}

func (ix *Indexer) addDocuments(ctx context.Context, indexName string, documents any, count int) error {
	info, err := ix.client.Index(indexName).AddDocumentsWithContext(ctx, documents)
	if err != nil {
		return fmt.Errorf("add documents to %s: %w", indexName, err)
	}
	ix.log.Debug("documents enqueued",
		"index", indexName, "count", count, "task", info.TaskUID)

	task, err := ix.waitForTask(ctx, info.TaskUID)
	if err != nil {
		return fmt.Errorf("add documents to %s: %w", indexName, err)
	}
	if task.Status != meilisearch.TaskStatusSucceeded {
		return fmt.Errorf("%w: task %s on %s: %s (%s)",
			types.ErrIndexingFailed, task.Status, indexName, task.Error.Message, task.Error.Code)
	}

	ix.log.Info("documents indexed", "index", indexName, "count", count)
	return nil
}

func (ix *Indexer) waitForTask(ctx context.Context, taskUID int64) (*meilisearch.Task, error) {
	waitCtx, cancel := context.WithTimeout(ctx, taskTimeout)
	defer cancel()

	task, err := ix.client.WaitForTaskWithContext(waitCtx, taskUID, taskPollInterval)
	if err != nil {
		return nil, fmt.Errorf("wait for task %d: %w", taskUID, err)
	}
	return task, nil
}
