package worker

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"

	"github.com/gilbert09031/CatchUp-Github-Worker/internal/chunking"
	"github.com/gilbert09031/CatchUp-Github-Worker/internal/github"
	"github.com/gilbert09031/CatchUp-Github-Worker/pkg/logger"
	"github.com/gilbert09031/CatchUp-Github-Worker/pkg/types"
)

// Queue names shared with the publishing side
const (
	RepoQueue = "github_repository_queue"
	PRQueue   = "github_pull_request_queue"
)

const defaultBatchSize = 20

// Embedder is the slice of the embedding API the pipeline uses
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Indexer is the slice of the search engine API the pipeline uses
type Indexer interface {
	EnsureIndex(ctx context.Context, name string) error
	AddCodeDocuments(ctx context.Context, indexName string, docs []types.CodeDocument) error
	AddPRDocument(ctx context.Context, indexName string, doc types.PRDocument) error
}

// PRFetcher collects pull-request metadata from GitHub
type PRFetcher interface {
	FetchPRMetadata(ctx context.Context, owner, repo string, number int) (types.PRMetadata, error)
}

// FetcherFactory builds a repository fetcher for one message's token.
// Messages may carry a user token for private repositories.
type FetcherFactory func(token string) github.Fetcher

// PRClientFactory builds a pull-request client for one message's token
type PRClientFactory func(token string) PRFetcher

// Config holds the worker's queue and pipeline settings
type Config struct {
	AMQPURL     string
	BatchSize   int    // documents per embed+index batch
	GithubToken string // fallback when the message carries no token
}

// Dependencies are the pipeline components the server dispatches into
type Dependencies struct {
	Chunker     *chunking.Chunker
	Embedder    Embedder
	Indexer     Indexer
	NewFetcher  FetcherFactory
	NewPRClient PRClientFactory
}

// Server consumes sync requests from RabbitMQ and runs the indexing
// pipeline for each one. One consume loop per queue, prefetch 1, manual
// acknowledgement.
type Server struct {
	cfg  Config
	conn *amqp.Connection

	chunker     *chunking.Chunker
	embedder    Embedder
	indexer     Indexer
	newFetcher  FetcherFactory
	newPRClient PRClientFactory

	log logger.Logger
}

// NewServer connects to the broker and prepares the consume pipeline
func NewServer(cfg Config, deps Dependencies, log logger.Logger) (*Server, error) {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}

	conn, err := amqp.Dial(cfg.AMQPURL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	return &Server{
		cfg:         cfg,
		conn:        conn,
		chunker:     deps.Chunker,
		embedder:    deps.Embedder,
		indexer:     deps.Indexer,
		newFetcher:  deps.NewFetcher,
		newPRClient: deps.NewPRClient,
		log:         log,
	}, nil
}

// Serve consumes both queues until the context is canceled or the broker
// connection drops. Context cancellation is a normal shutdown and returns
// nil; a dropped connection returns the broker error.
func (s *Server) Serve(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	closed := s.conn.NotifyClose(make(chan *amqp.Error, 1))
	g.Go(func() error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case amqpErr, ok := <-closed:
			if !ok || amqpErr == nil {
				return nil
			}
			return fmt.Errorf("rabbitmq connection closed: %w", amqpErr)
		}
	})

	g.Go(func() error { return s.consume(ctx, RepoQueue, s.processRepoMessage) })
	g.Go(func() error { return s.consume(ctx, PRQueue, s.processPRMessage) })

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Close shuts the broker connection, closing all channels with it
func (s *Server) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

type handlerFunc func(ctx context.Context, body []byte) error

// consume runs one queue's delivery loop on its own channel. The current
// delivery is always settled before the loop observes cancellation.
func (s *Server) consume(ctx context.Context, queue string, handle handlerFunc) error {
	ch, err := s.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel for %s: %w", queue, err)
	}
	defer func() {
		_ = ch.Close()
	}()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set prefetch on %s: %w", queue, err)
	}

	deliveries, err := ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", queue, err)
	}
	s.log.Info("consuming", "queue", queue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery stream for %s closed", queue)
			}
			s.handleDelivery(ctx, queue, delivery, handle)
		}
	}
}

// handleDelivery runs the handler and settles the message. Failures that
// redelivery cannot fix are dropped; everything else is requeued.
func (s *Server) handleDelivery(ctx context.Context, queue string, delivery amqp.Delivery, handle handlerFunc) {
	err := handle(ctx, delivery.Body)
	switch {
	case err == nil:
		if ackErr := delivery.Ack(false); ackErr != nil {
			s.log.Error("ack failed", "queue", queue, "error", ackErr)
		}
	case dropDelivery(err):
		s.log.Error("dropping message", "queue", queue, "error", err)
		if ackErr := delivery.Ack(false); ackErr != nil {
			s.log.Error("ack failed", "queue", queue, "error", ackErr)
		}
	default:
		s.log.Error("requeueing message", "queue", queue, "error", err)
		if nackErr := delivery.Nack(false, true); nackErr != nil {
			s.log.Error("nack failed", "queue", queue, "error", nackErr)
		}
	}
}

// dropDelivery reports failures no redelivery can fix: malformed or
// invalid messages, and pull requests that do not exist.
func dropDelivery(err error) bool {
	return errors.Is(err, types.ErrInvalidMessage) || errors.Is(err, types.ErrPRNotFound)
}
