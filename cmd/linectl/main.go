package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/danmuck/linectl/internal/console"
	"github.com/danmuck/linectl/internal/endpoint"
	"github.com/danmuck/linectl/internal/logging"
	"github.com/danmuck/linectl/internal/observability"
	"github.com/danmuck/linectl/internal/session"
	"github.com/rs/zerolog/log"
)

func main() {
	var configPath string
	var metricsAddr string
	flag.StringVar(&configPath, "config", "", "optional TOML config file")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "serve /metrics and /health on this address")
	flag.Parse()

	cfg, cfgErr := loadClientConfig(configPath)
	logging.ConfigureRuntime(cfg.LogLevel)
	if cfgErr != nil {
		log.Error().Err(cfgErr).Msg("linectl")
		os.Exit(1)
	}
	if strings.TrimSpace(metricsAddr) != "" {
		cfg.MetricsAddr = strings.TrimSpace(metricsAddr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := run(ctx, cfg, os.Stdin, os.Stdout); err != nil {
		stop()
		log.Error().Err(err).Msg("linectl")
		os.Exit(1)
	}
}

// run reads the endpoint, connects and drives one session. Only startup
// failures come back as errors; an interrupt before connecting is not one.
func run(ctx context.Context, cfg clientConfig, stdin io.Reader, stdout io.Writer) (session.Termination, error) {
	if cfg.MetricsAddr != "" {
		listener, err := observability.Listen(cfg.MetricsAddr)
		if err != nil {
			return session.Termination{}, err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = listener.Close(shutdownCtx)
		}()
	}

	in := console.NewReader(stdin)
	defer in.Close()

	ep, err := endpoint.Read(ctx, in)
	if err != nil {
		if ctx.Err() != nil {
			return session.Termination{Reason: session.ReasonInterrupted}, nil
		}
		return session.Termination{}, err
	}

	s := session.New(cfg.sessionConfig(observability.NewRecorder()), in, stdout)
	defer s.Close()
	if err := s.Start(ctx, ep); err != nil {
		if ctx.Err() != nil {
			return session.Termination{Reason: session.ReasonInterrupted}, nil
		}
		return session.Termination{}, err
	}
	return s.Run(ctx), nil
}
