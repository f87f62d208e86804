package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"itinerary-route-service/internal/adapters/cache"
	"itinerary-route-service/internal/config"
	"itinerary-route-service/internal/platform/db"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	dialect string
	dsn     string
	ttl     time.Duration

	rootCmd = &cobra.Command{
		Use:   "dbtool",
		Short: "Maintain the place search cache",
		Long:  `Creates and prunes the place_cache table in SQLite or Postgres.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotenv(); err != nil {
				slog.Warn("reading .env failed", "err", err)
			}
			return nil
		},
		SilenceUsage: true,
	}
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Create the place cache schema",
		RunE:  runInit,
	}
	purgeCmd = &cobra.Command{
		Use:   "purge",
		Short: "Delete cached searches older than --ttl",
		RunE:  runPurge,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dialect, "dialect", "", "sqlite or postgres (default from PLACE_CACHE)")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "sqlite path or postgres URL (default from SQLITE_PATH or DATABASE_URL)")
	purgeCmd.Flags().DurationVar(&ttl, "ttl", 7*24*time.Hour, "maximum age of a cached search")

	rootCmd.AddCommand(initCmd, purgeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	conn, d, err := open()
	if err != nil {
		return err
	}
	defer conn.Close()

	slog.Info("initializing place cache schema", "dialect", d)
	if err := cache.InitSchema(cmd.Context(), conn, d); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	slog.Info("schema ready")
	return nil
}

func runPurge(cmd *cobra.Command, args []string) error {
	conn, d, err := open()
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	n, err := cache.Purge(ctx, conn, d, ttl)
	if err != nil {
		return fmt.Errorf("purge failed: %w", err)
	}
	slog.Info("purge complete", "removed", n, "ttl", ttl)
	return nil
}

func open() (*sql.DB, cache.Dialect, error) {
	d := strings.ToLower(dialect)
	if d == "" {
		d = strings.ToLower(config.Get("PLACE_CACHE", "sqlite"))
	}

	switch cache.Dialect(d) {
	case cache.DialectSqlite:
		path := dsn
		if path == "" {
			path = config.Get("SQLITE_PATH", "data/places.db")
		}
		conn, err := db.OpenSqlite(path)
		return conn, cache.DialectSqlite, err
	case cache.DialectPostgres:
		url := dsn
		if url == "" {
			url = config.Get("DATABASE_URL", "")
		}
		if url == "" {
			return nil, "", errors.New("DATABASE_URL is required for postgres")
		}
		conn, err := db.Open(url)
		return conn, cache.DialectPostgres, err
	}
	return nil, "", fmt.Errorf("unsupported dialect %q", d)
}
