package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/abhisek/mathjudge/internal/server"
	"github.com/abhisek/mathjudge/internal/store"
	"github.com/abhisek/mathjudge/internal/verify"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the verification HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		var repo store.EventRepo
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			logger.Warn("event log disabled", "error", err)
		} else {
			s, err := store.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer s.Close()
			repo = s.EventRepo()
			logger.Info("event log enabled", "path", dbPath)
		}

		var cache *server.ResultCache
		if redisAddr := os.Getenv("MATHJUDGE_REDIS_ADDR"); redisAddr != "" {
			rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
			if err := rdb.Ping(cmd.Context()).Err(); err != nil {
				logger.Warn("result cache disabled", "error", err)
			} else {
				cache = server.NewResultCache(rdb, 10*time.Minute, logger)
				logger.Info("result cache enabled", "addr", redisAddr)
			}
			defer rdb.Close()
		}

		verifier := verify.New(openOracle(cmd, repo))
		srv := &http.Server{
			Addr:    addr,
			Handler: server.New(verifier, server.Options{Repo: repo, Cache: cache, Logger: logger}).Router(),
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", "addr", addr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			return fmt.Errorf("serve: %w", err)
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address")
}
