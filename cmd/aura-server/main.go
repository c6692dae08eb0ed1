// Package main provides the standalone concierge server.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/raphaelgruber/aura-go/internal/config"
	"github.com/raphaelgruber/aura-go/internal/conversation"
	"github.com/raphaelgruber/aura-go/internal/db"
	"github.com/raphaelgruber/aura-go/internal/fleet"
	"github.com/raphaelgruber/aura-go/internal/intent"
	"github.com/raphaelgruber/aura-go/internal/llm"
	"github.com/raphaelgruber/aura-go/internal/metrics"
	"github.com/raphaelgruber/aura-go/internal/models"
	"github.com/raphaelgruber/aura-go/internal/server"
)

const version = "0.1.0"

// transcriptArchiver titles transcripts by end time before saving them.
type transcriptArchiver struct {
	client *db.Client
}

func (a transcriptArchiver) SaveTranscript(ctx context.Context, turns []models.Turn) error {
	title := "Conversation " + time.Now().Format("2006-01-02 15:04")
	return a.client.SaveTranscript(ctx, title, turns)
}

func main() {
	wipeDB := flag.Bool("wipe", false, "wipe all data from database on startup (testing only)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()

	// Setup logger (dual output: stderr text + file JSON)
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()

	logger.Info("aura-server starting",
		"version", version,
		"addr", cfg.ServerAddr,
		"provider", cfg.Provider,
		"persistent", cfg.Persistent(),
	)

	// Create context cancelled on shutdown signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	collector := metrics.NewCollector()

	// Connect to database when configured; in-memory otherwise
	var dbClient *db.Client
	if cfg.Persistent() {
		dbCfg := db.Config{
			URL:       cfg.SurrealDBURL,
			Namespace: cfg.SurrealDBNamespace,
			Database:  cfg.SurrealDBDatabase,
			Username:  cfg.SurrealDBUser,
			Password:  cfg.SurrealDBPass,
			AuthLevel: cfg.SurrealDBAuthLevel,
		}

		var err error
		dbClient, err = db.NewClient(ctx, dbCfg, logger, collector)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer func() {
			logger.Info("closing database connection")
			_ = dbClient.Close(context.Background())
		}()

		if *wipeDB || os.Getenv("AURA_WIPE_DB") == "true" {
			if err := dbClient.WipeData(ctx); err != nil {
				logger.Error("failed to wipe database", "error", err)
				os.Exit(1)
			}
		}

		if err := dbClient.InitSchema(ctx); err != nil {
			logger.Error("failed to initialize database schema", "error", err)
			os.Exit(1)
		}
	}

	// Fleet data, seeded into the database on first run
	fleetSvc := fleet.NewService(dbClient, logger)
	if dbClient != nil {
		if err := fleetSvc.SyncToDB(ctx); err != nil {
			logger.Error("failed to sync fleet data", "error", err)
			os.Exit(1)
		}
	}

	// Responder: rule-based by default, LLM-backed when configured
	var responder conversation.Responder
	if cfg.Provider == config.ProviderMock {
		responder = intent.NewResponder()
	} else {
		model, err := llm.NewModel(ctx, cfg)
		if err != nil {
			logger.Error("failed to initialize llm", "error", err)
			os.Exit(1)
		}
		responder = llm.NewResponder(model)
		logger.Info("llm responder initialized", "provider", cfg.Provider)
	}

	mgrCfg := conversation.ManagerConfig{
		MinLatency: cfg.MinLatency,
		MaxLatency: cfg.MaxLatency,
		Metrics:    collector,
	}
	if dbClient != nil {
		mgrCfg.Archiver = transcriptArchiver{client: dbClient}
	}

	store := conversation.NewStore()
	manager := conversation.NewManager(store, responder, logger, mgrCfg)

	srv := server.New(cfg.ServerAddr, manager, fleetSvc, collector, logger)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
