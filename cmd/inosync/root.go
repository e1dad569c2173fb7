// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads config, sets up logging, and lazily opens the activity log database

package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/harper/inosync/internal/config"
	"github.com/harper/inosync/internal/content"
	"github.com/harper/inosync/internal/db"
	"github.com/harper/inosync/internal/fetch"
	"github.com/harper/inosync/internal/inoreader"
	"github.com/harper/inosync/internal/sync"
	"github.com/harper/inosync/internal/vault"
)

var (
	cfgPath  string
	dbPath   string
	logLevel string
	cfg      *config.Config
	dbConn   *sql.DB
	logger   *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "inosync",
	Short: "Mirror Inoreader tags into a Markdown vault",
	Long: `
██╗███╗   ██╗ ██████╗ ███████╗██╗   ██╗███╗   ██╗ ██████╗
██║████╗  ██║██╔═══██╗██╔════╝╚██╗ ██╔╝████╗  ██║██╔════╝
██║██╔██╗ ██║██║   ██║███████╗ ╚████╔╝ ██╔██╗ ██║██║
██║██║╚██╗██║██║   ██║╚════██║  ╚██╔╝  ██║╚██╗██║██║
██║██║ ╚████║╚██████╔╝███████║   ██║   ██║ ╚████║╚██████╗
╚═╝╚═╝  ╚═══╝ ╚═════╝ ╚══════╝   ╚═╝   ╚═╝  ╚═══╝ ╚═════╝

Fetch public Inoreader tag streams and write one Markdown note
per item into your vault, for humans and AI agents.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = newLogger(logLevel)
		if err != nil {
			return err
		}

		cfg, err = config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if dbConn != nil {
			if err := dbConn.Close(); err != nil {
				return fmt.Errorf("failed to close database: %w", err)
			}
			dbConn = nil
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default: ~/.config/inosync/config.json)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "activity log database path (default: ~/.local/share/inosync/inosync.db)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "diagnostic log level (debug, info, warn, error)")
}

func newLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", level, err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		Prefix:          "inosync",
	}), nil
}

// openDB opens the activity log on first use.
func openDB() (*sql.DB, error) {
	if dbConn != nil {
		return dbConn, nil
	}
	path := dbPath
	if path == "" {
		path = db.GetDefaultDBPath()
	}
	conn, err := db.InitDB(path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	dbConn = conn
	return dbConn, nil
}

func saveConfig() error {
	if cfg == nil {
		return fmt.Errorf("config not loaded")
	}
	if err := cfg.Save(cfgPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

func openVault() *vault.Vault {
	return vault.New(cfg.GetVaultDir())
}

// newSource returns the live tag source, or placeholders when offline.
func newSource(offline bool) inoreader.Source {
	if offline {
		return inoreader.Offline{}
	}
	fetcher := fetch.NewClient(
		fetch.WithUserAgent(cfg.GetUserAgent()),
		fetch.WithTimeout(config.DefaultHTTPTimeout),
		fetch.WithInterval(cfg.RequestInterval()),
	)
	return inoreader.NewClient(cfg.GetHost(), fetcher)
}

// newSyncer wires a Syncer from the loaded config. conn may be nil to skip
// the activity log.
func newSyncer(v *vault.Vault, conn *sql.DB, offline bool) (*sync.Syncer, error) {
	conv, err := content.NewConverter(cfg.GetConverter())
	if err != nil {
		return nil, err
	}
	tmpl, err := cfg.GetTemplate()
	if err != nil {
		return nil, err
	}

	return sync.NewSyncer(cfg, sync.Options{
		Source:    newSource(offline),
		Vault:     v,
		Converter: conv,
		Template:  tmpl,
		DB:        conn,
		Logger:    logger,
	}), nil
}
