package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/mortgage-agent/internal/kb"
	"github.com/sells-group/mortgage-agent/internal/officers"
	"github.com/sells-group/mortgage-agent/internal/server"
	"github.com/sells-group/mortgage-agent/pkg/anthropic"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the websocket chat server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Anthropic.Key == "" {
			return eris.New("anthropic key not configured (set MORTGAGE_ANTHROPIC_KEY)")
		}
		client := anthropic.NewClient(cfg.Anthropic.Key, cfg.Anthropic.RatePerSec)

		store, err := kb.Open(cfg.KB.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Migrate(ctx); err != nil {
			return err
		}

		pool, err := officers.LoadPool()
		if err != nil {
			return err
		}

		if servePort != 0 {
			cfg.Server.Port = servePort
		}

		srv := server.New(*cfg, client, store, pool)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
