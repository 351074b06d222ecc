package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thejaskrizzz/business-managerpro/internal/adapters/web"
	"github.com/thejaskrizzz/business-managerpro/internal/config"
	"github.com/thejaskrizzz/business-managerpro/internal/core"
	"github.com/thejaskrizzz/business-managerpro/internal/db"
	"github.com/thejaskrizzz/business-managerpro/internal/logger"
	"github.com/thejaskrizzz/business-managerpro/internal/notify"
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

	notifier := notify.NewLogNotifier(log)

	services := web.Services{
		Users:      core.NewUserService(pool),
		Company:    core.NewCompanyService(pool),
		Customers:  core.NewCustomerService(pool),
		Vendors:    core.NewVendorService(pool),
		Categories: core.NewCategoryService(pool),
		Taxes:      core.NewTaxService(pool),
		Products:   core.NewProductService(pool),
		Quotes:     core.NewQuoteService(pool, notifier),
		Invoices:   core.NewInvoiceService(pool, notifier),
		Orders:     core.NewPurchaseOrderService(pool, notifier),
		Sales:      core.NewSaleService(pool),
		Expenses:   core.NewExpenseService(pool),
		Reports:    core.NewReportingService(pool),
	}

	handler := web.NewHandler(services, cfg.AllowedOrigins, cfg.JWTSecret, cfg.MaxBodyBytes, log)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
