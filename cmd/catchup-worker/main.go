package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gilbert09031/CatchUp-Github-Worker/internal/chunking"
	"github.com/gilbert09031/CatchUp-Github-Worker/internal/config"
	"github.com/gilbert09031/CatchUp-Github-Worker/internal/embedder"
	"github.com/gilbert09031/CatchUp-Github-Worker/internal/github"
	"github.com/gilbert09031/CatchUp-Github-Worker/internal/indexer"
	"github.com/gilbert09031/CatchUp-Github-Worker/internal/worker"
	"github.com/gilbert09031/CatchUp-Github-Worker/pkg/logger"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// shutdownGrace bounds how long a signal waits for the in-flight message
// to finish before the process exits anyway.
const shutdownGrace = 30 * time.Second

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("CatchUp GitHub Worker\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.LogLevel(cfg.LogLevel)
	logCfg.JSON = cfg.LogJSON
	log := logger.New(logCfg)

	log.Info("catchup worker starting", "version", version, "env", cfg.AppEnv)

	if err := run(cfg, log); err != nil {
		log.Error("worker stopped", "error", err)
		os.Exit(1)
	}
	log.Info("worker stopped")
}

func run(cfg *config.Config, log logger.Logger) error {
	emb, err := embedder.New(embedder.Config{
		Provider:  embedder.ProviderOpenAI,
		APIKey:    cfg.OpenAIAPIKey,
		CacheSize: cfg.EmbedCacheSize,
	})
	if err != nil {
		return fmt.Errorf("create embedder: %w", err)
	}
	defer func() {
		_ = emb.Close()
	}()

	ix := indexer.New(indexer.Config{
		Host:       cfg.MeiliURL,
		APIKey:     cfg.MeiliMasterKey,
		Dimensions: emb.Dimensions(),
	}, log)

	chunker := chunking.New(chunking.DefaultConfig(), log)

	deps := worker.Dependencies{
		Chunker:  chunker,
		Embedder: emb,
		Indexer:  ix,
		NewFetcher: func(token string) github.Fetcher {
			return github.NewAdaptiveFetcher(token, cfg.MaxZipSizeMB, log)
		},
		NewPRClient: func(token string) worker.PRFetcher {
			return github.NewPRClient(token, log)
		},
	}

	srv, err := worker.NewServer(worker.Config{
		AMQPURL:     cfg.RabbitMQURL,
		BatchSize:   cfg.BatchSize,
		GithubToken: cfg.GithubToken,
	}, deps, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Serve(ctx)
	}()

	select {
	case sig := <-sigChan:
		log.Info("shutting down", "signal", sig)
		cancel()
		select {
		case err = <-errChan:
		case <-time.After(shutdownGrace):
			log.Warn("shutdown grace period expired")
		}
	case err = <-errChan:
	}

	if closeErr := srv.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
