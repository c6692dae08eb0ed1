// Package cli provides the command-line interface for the Aura concierge.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/raphaelgruber/aura-go/internal/config"
	"github.com/raphaelgruber/aura-go/internal/conversation"
	"github.com/raphaelgruber/aura-go/internal/db"
	"github.com/raphaelgruber/aura-go/internal/fleet"
	"github.com/raphaelgruber/aura-go/internal/intent"
	"github.com/raphaelgruber/aura-go/internal/llm"
	"github.com/raphaelgruber/aura-go/internal/metrics"
	"github.com/raphaelgruber/aura-go/internal/models"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config and db client
	cfg      config.Config
	dbClient *db.Client
	logger   *slog.Logger
	logClose func() error

	collector = metrics.NewCollector()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "aura",
	Short: "Aura vehicle concierge",
	Long: `Aura is a conversational concierge for electric vehicle owners.

Chat about your fleet, book service appointments, schedule test drives and
look up vehicle details. Runs fully offline with a built-in rule-based
concierge, or against an LLM backend when one is configured.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}

		// The chat TUI owns the terminal; its logger goes to file only.
		if cmd.Name() == "chat" {
			logger, logClose = config.SetupFileLogger(cfg.LogFile, cfg.LogLevel)
		} else {
			logger, logClose = config.SetupLogger(cfg.LogFile, cfg.LogLevel)
		}
		slog.SetDefault(logger)

		// Connect to the database only when one is configured; the concierge
		// is fully functional in memory.
		if cfg.Persistent() {
			ctx := context.Background()
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
				return fmt.Errorf("connect to database: %w", err)
			}

			if err := dbClient.InitSchema(ctx); err != nil {
				return fmt.Errorf("initialize schema: %w", err)
			}
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if dbClient != nil {
			if err := dbClient.Close(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
			}
		}
		if logClose != nil {
			_ = logClose()
		}
	},
}

// newFleetService builds the fleet service, syncing the demo dataset into
// the database when one is connected.
func newFleetService(ctx context.Context) (*fleet.Service, error) {
	svc := fleet.NewService(dbClient, logger)
	if dbClient != nil {
		if err := svc.SyncToDB(ctx); err != nil {
			return nil, fmt.Errorf("sync fleet: %w", err)
		}
	}
	return svc, nil
}

// newManager wires the conversation manager with the configured responder.
func newManager(ctx context.Context) (*conversation.Manager, error) {
	var responder conversation.Responder
	if cfg.Provider == config.ProviderMock {
		responder = intent.NewResponder()
	} else {
		model, err := llm.NewModel(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("init llm: %w", err)
		}
		responder = llm.NewResponder(model)
	}

	mgrCfg := conversation.ManagerConfig{
		MinLatency: cfg.MinLatency,
		MaxLatency: cfg.MaxLatency,
		Metrics:    collector,
	}
	if dbClient != nil {
		mgrCfg.Archiver = &transcriptArchiver{client: dbClient}
	}

	store := conversation.NewStore()
	return conversation.NewManager(store, responder, logger, mgrCfg), nil
}

// transcriptArchiver titles transcripts by end time before saving them.
type transcriptArchiver struct {
	client *db.Client
}

func (a *transcriptArchiver) SaveTranscript(ctx context.Context, turns []models.Turn) error {
	title := "Conversation " + time.Now().Format("2006-01-02 15:04")
	return a.client.SaveTranscript(ctx, title, turns)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(fleetCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("aura", Version)
	},
}

// exitWithError prints an error message and exits with code 1.
func exitWithError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
