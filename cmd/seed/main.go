// Command seed creates a demo company with an admin user for local
// development. Safe to re-run: it skips seeding when the company already
// exists.
package main

import (
	"context"
	"os"

	"github.com/thejaskrizzz/business-managerpro/internal/config"
	"github.com/thejaskrizzz/business-managerpro/internal/core"
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

	const companyName = "Demo Trading Co"

	var existing int
	err = pool.QueryRow(ctx, "SELECT COUNT(*) FROM companies WHERE name = $1", companyName).Scan(&existing)
	if err != nil {
		log.Fatal().Err(err).Msg("check existing company")
	}
	if existing > 0 {
		log.Info().Str("company", companyName).Msg("already seeded, nothing to do")
		return
	}

	var companyID int
	err = pool.QueryRow(ctx, `
		INSERT INTO companies (name, email, currency, default_tax_rate, quote_validity_days)
		VALUES ($1, $2, 'USD', 10, 30)
		RETURNING id`,
		companyName, "billing@demo-trading.example").Scan(&companyID)
	if err != nil {
		log.Fatal().Err(err).Msg("create company")
	}

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
		log.Warn().Msg("SEED_ADMIN_PASSWORD not set, using default password")
	}

	users := core.NewUserService(pool)
	admin, err := users.CreateUser(ctx, companyID, "admin", "admin@demo-trading.example", password, "admin")
	if err != nil {
		log.Fatal().Err(err).Msg("create admin user")
	}

	categories := core.NewCategoryService(pool)
	for _, c := range []struct {
		name string
		kind core.CategoryKind
	}{
		{"General", core.CategoryProduct},
		{"Office", core.CategoryExpense},
		{"Travel", core.CategoryExpense},
	} {
		if _, err := categories.CreateCategory(ctx, companyID, c.name, c.kind); err != nil {
			log.Fatal().Err(err).Str("category", c.name).Msg("create category")
		}
	}

	log.Info().
		Int("company_id", companyID).
		Str("username", admin.Username).
		Msg("seed complete")
}
