package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/croptrack/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "github.com/h4ks-com/croptrack/docs"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	gin.SetMode(cfg.GinMode)

	svc := server.NewServices(db, cfg)
	if purged, err := svc.Tokens.PurgeExpired(); err != nil {
		log.Warn("Failed to purge expired tokens", zap.Error(err))
	} else if purged > 0 {
		log.Info("Purged expired tokens", zap.Int64("count", purged))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           server.NewRouter(cfg, svc, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting croptrack server",
			zap.String("addr", srv.Addr),
			zap.String("timezone", cfg.Location.String()))
		if cfg.TestMode {
			log.Warn("Test mode enabled, callers are identified by the X-Test-Username header")
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
