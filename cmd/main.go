package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/api"
	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/config"
	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/events"
	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/metrics"
	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/pipeline"
	"github.com/CrixusVolcanic/DEngineering-Practice---Get-Meta-Comments/storage"
)

const version = "1.0.0"

func main() {
	// Optional .env for local runs
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("Configuration error: %v", err)
		os.Exit(2)
	}

	os.Exit(run(cfg))
}

func run(cfg *config.Config) int {
	metrics.Init("meta-comments-pipeline", version, cfg.Environment)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A signal stops pagination; pairs wind down and the summary still prints
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-quit
		log.Printf("Received %v, stopping extraction", sig)
		cancel()
	}()

	sink, err := openSink(ctx, cfg)
	if err != nil {
		log.Printf("Failed to open sink: %v", err)
		return 1
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer closeCancel()
		if err := sink.Close(closeCtx); err != nil {
			log.Printf("Sink close: %v", err)
		}
	}()

	var publisher *events.NATSPublisher
	if cfg.NATSUrl != "" {
		publisher, err = events.NewNATSPublisher(cfg.NATSUrl)
		if err != nil {
			log.Printf("NATS unavailable, continuing without events: %v", err)
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	orchestrator := pipeline.NewOrchestrator(cfg, sink, publisher)

	if cfg.StatusAddr != "" {
		statusServer := api.NewServer(cfg.StatusAddr, orchestrator.Snapshot)
		go statusServer.Start()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			statusServer.Shutdown(shutdownCtx)
		}()
	}

	summary := orchestrator.Run(ctx)

	if summary.Succeeded == 0 {
		log.Println("No pair fully succeeded")
		return 1
	}
	return 0
}

func openSink(ctx context.Context, cfg *config.Config) (storage.Sink, error) {
	if cfg.PostgresDSN != "" {
		return storage.NewPostgresSink(ctx, cfg.PostgresDSN)
	}
	return storage.NewMongoSink(ctx, cfg.MongoURI, cfg.MongoDatabase)
}
