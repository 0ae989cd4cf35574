package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pasvilla-invoicing/internal/application/service"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/entity"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/invoicing"
	"github.com/sangkips/pasvilla-invoicing/internal/logger"
	"github.com/sangkips/pasvilla-invoicing/internal/presentation/http/handler"
	"github.com/sangkips/pasvilla-invoicing/internal/presentation/http/routes"
	"github.com/sangkips/pasvilla-invoicing/pkg/printer"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Example: `  # Serve from Postgres using .env settings
  pasvilla serve

  # Serve from an in-memory store seeded with the default catalog
  pasvilla serve --store memory`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("main")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	s, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	// Initialize services
	ids := invoicing.NewIDGenerator(cfg.Invoice.IDPrefix, cfg.Invoice.IDWidth, cfg.Invoice.IDSeed)
	invoiceService := service.NewInvoiceService(
		s.invoices,
		s.products,
		invoicing.NewBuilder(ids, time.Now),
		invoicing.NewLifecycle(time.Now),
		cfg.Invoice.CreateAttempts,
	)
	productService := service.NewProductService(s.products)

	// Initialize thermal printer
	printerCfg := printer.Config{
		Type:    cfg.Printer.Type,
		USBPath: cfg.Printer.USBPath,
		Address: cfg.Printer.Address,
	}
	thermalPrinter, err := printer.New(printerCfg)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize printer, receipts will not be printed")
		printerCfg = printer.Config{Type: "none"}
		thermalPrinter, _ = printer.New(printerCfg)
	}
	printerService := service.NewPrinterService(thermalPrinter, s.invoices, printerCfg, entity.ReceiptHeader{
		StoreName: cfg.Printer.StoreName,
		Address:   cfg.Printer.StoreAddress,
		Phone:     cfg.Printer.StorePhone,
	}, cfg.Printer.CharWidth)

	// Initialize handlers
	handlers := &routes.Handlers{
		Invoice: handler.NewInvoiceHandler(invoiceService),
		Product: handler.NewProductHandler(productService),
		Printer: handler.NewPrinterHandler(printerService),
	}

	router := routes.Setup(ctx, handlers, &routes.Deps{
		Cfg:             cfg,
		IdempotencyRepo: s.idempotency,
	})

	go purgeIdempotencyKeys(ctx, s)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("service", cfg.App.Name).
			Str("env", cfg.App.Env).
			Str("port", port).
			Str("store", cfg.Store.Driver).
			Msg("Starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// purgeIdempotencyKeys drops expired replay entries once an hour
func purgeIdempotencyKeys(ctx context.Context, s *stores) {
	log := logger.WithComponent("idempotency")
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.idempotency.DeleteExpired(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to purge expired idempotency keys")
			}
		}
	}
}
