package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"apartment-search/internal/config"
	"apartment-search/internal/handler"
)

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the search API server",
		Long: `Start the HTTP search API.

The database is probed once at startup. While it is unreachable the server
answers from sample data and keeps re-probing in the background.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	rt, err := a.newRuntime(ctx, nil)
	if err != nil {
		return err
	}
	defer rt.close()

	cfg := a.cfg.Server
	gin.SetMode(cfg.Mode)

	h := &handler.ListingHandler{Search: rt.search, Compiler: rt.compiler, Log: rt.log}
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.NewRouter(h, cfg, rt.log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go rt.search.Watch(ctx, config.Duration(a.cfg.Store.ProbeInterval, 30*time.Second))

	errCh := make(chan error, 1)
	go func() {
		rt.log.Info("search API listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	rt.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.Duration(cfg.ShutdownTimeout, 10*time.Second))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
