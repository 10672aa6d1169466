// Package serve implements the serve CLI command: it runs the HTTP
// evaluation API until interrupted.
package serve

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"trust-shield/internal/common"
	"trust-shield/internal/pipeline"
	"trust-shield/models"
	"trust-shield/pkg/api"
)

const shutdownGrace = 10 * time.Second

func ServeAction(c *cli.Context) error {
	logger := common.NewLogger(c.Bool("quiet"))

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return cli.Exit("", 2)
	}
	applyFlags(cfg, c)

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		logger.Error("failed to assemble pipeline", "error", err)
		return cli.Exit("", 2)
	}
	defer p.Close()

	router := api.NewRouter(api.NewHandler(p.Evaluator, logger))
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.ListenAddr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			return cli.Exit("", 1)
		}
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown failed", "error", err)
			return cli.Exit("", 1)
		}
	}

	return nil
}

// applyFlags lets CLI flags override file and environment config.
func applyFlags(cfg *models.Config, c *cli.Context) {
	if v := c.String("listen"); v != "" {
		cfg.ListenAddr = v
	}
	if v := c.String("cache"); v != "" {
		cfg.CachePath = v
	}
	if v := c.String("policy"); v != "" {
		cfg.Policy = v
	}
	if v := c.String("policy-file"); v != "" {
		cfg.PolicyFile = v
	}
}
