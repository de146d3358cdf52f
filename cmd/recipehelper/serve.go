package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	httpDelivery "github.com/recipehelper/backend/internal/delivery/http"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the recipe engine over a JSON HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "override HTTP listen port (e.g. 8080)")
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	if servePort != "" {
		a.cfg.Server.Port = servePort
	}

	handler := httpDelivery.NewHandler(a.recipes, a.logger, version)
	router := httpDelivery.SetupRouter(a.cfg, handler, a.metrics, a.logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", a.cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("environment", a.cfg.Server.Environment),
			zap.String("cache", a.cfg.Cache.Type),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	a.logger.Info("server stopped")
	return nil
}
