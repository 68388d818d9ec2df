package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/soliskit/pinto/internal/adapters/http"
	wssignal "github.com/soliskit/pinto/internal/adapters/signal"
	"github.com/soliskit/pinto/internal/app"
	"github.com/soliskit/pinto/internal/app/orch"
	"github.com/soliskit/pinto/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Mode == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	policy, err := app.PolicyFromString(cfg.SlowPeerPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("bad slow peer policy")
	}

	o := orch.New(orch.Options{
		MaxIDAttempts:    cfg.MaxIDAttempts,
		HeartbeatTimeout: cfg.HeartbeatTimeout,
		Policy:           policy,
	})
	go o.RunReaper(ctx, cfg.ReapInterval)

	ctrl := wssignal.NewSignalWSController(o, cfg)
	r := router.SetupRouter(cfg, o, ctrl)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Str("key", cfg.Key).Msg("pinto server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := o.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("peers left connected")
	}
	ctrl.Wait()
	log.Info().Msg("Server exited gracefully")
}
