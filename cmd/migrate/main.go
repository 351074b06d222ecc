// Command migrate applies every migrations/*.sql file in lexical order.
// Migrations are plain SQL and idempotent (CREATE IF NOT EXISTS style), so
// re-running is safe.
package main

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/thejaskrizzz/business-managerpro/internal/config"
	"github.com/thejaskrizzz/business-managerpro/internal/db"
	"github.com/thejaskrizzz/business-managerpro/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.IsDevelopment())

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	files, err := filepath.Glob("migrations/*.sql")
	if err != nil {
		log.Fatal().Err(err).Msg("list migrations")
	}
	sort.Strings(files)

	for _, file := range files {
		sql, err := os.ReadFile(file)
		if err != nil {
			log.Fatal().Err(err).Str("file", file).Msg("read migration")
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			log.Fatal().Err(err).Str("file", file).Msg("apply migration")
		}
		log.Info().Str("file", file).Msg("applied")
	}
	log.Info().Int("count", len(files)).Msg("migrations complete")
}
