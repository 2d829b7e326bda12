// Package cmd implements the wordhunt command line.
package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/austinraben/wordhunt/internal/config"
	"github.com/austinraben/wordhunt/internal/daily"
	"github.com/austinraben/wordhunt/internal/db"
	"github.com/austinraben/wordhunt/internal/game"
)

var (
	cfgPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "wordhunt",
	Short: "Word Hunt server and maintenance tools",
	Long: `wordhunt runs the Word Hunt game server: a 4x4 letter grid, one per
language per day, where players trace adjacent letters to spell words.

Configuration comes from wordhunt.yaml (or --config), a .env file and
environment variables such as PORT, DATABASE_PATH and JWT_SECRET.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		setupLogging(c.Log)
		cfg = c
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath, "Path to the YAML config file")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func setupLogging(lc config.LogConfig) {
	if lvl, err := zerolog.ParseLevel(lc.Level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", lc.Level).Msg("unknown log level, keeping default")
	}
	if lc.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// openDB opens the configured database and applies migrations.
func openDB() (*sql.DB, error) {
	conn, err := db.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return conn, nil
}

// newDailyService builds the daily grid service over conn.
func newDailyService(conn *sql.DB) *daily.Service {
	return daily.NewService(daily.NewStore(conn), game.NewGenerator(nil), cfg.Game.AutoGenerate)
}
