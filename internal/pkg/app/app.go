package app

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"golang.org/x/net/proxy"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
	"vimeometa/internal/app/adapters/csv_writer"
	"vimeometa/internal/app/adapters/metrics"
	"vimeometa/internal/app/adapters/platform/vimeo/api"
	"vimeometa/internal/app/infrastructure/config"
	"vimeometa/pkg/logger"
)

const (
	ConfigPath = "config.json"
	EnvPath    = ".env"
)

type Options struct {
	ConfigPath string
	EnvPath    string
	Stdout     io.Writer
}

// Run performs one fetch -> transform -> write pass. A fetch that stops on an
// API error still writes what it got and returns a nil error.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.ConfigPath == "" {
		opts.ConfigPath = ConfigPath
	}

	manager, err := config.New(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := manager.Get()

	log := logger.New(logger.Options{Stdout: opts.Stdout, File: cfg.App.LogFile}).With(slog.String("run_id", uuid.NewString()))
	log.SetLogLevel(cfg.App.LogLevel)

	started := time.Now()
	log.Info("Starting Vimeo metadata extraction...")

	if err := manager.LoadToken(opts.EnvPath); err != nil {
		log.Error("Configuration error", err)
		return nil, err
	}

	client, err := newHTTPClient(cfg)
	if err != nil {
		log.Error("Error creating HTTP client", err)
		return nil, err
	}

	p := NewPipeline(
		log,
		cfg,
		api.NewVimeo(logger.NewComponentLogger(log, "vimeo"), cfg, client),
		csv_writer.New(logger.NewComponentLogger(log, "csv")),
	)

	res, err := p.Run(ctx)
	flushMetrics(log, cfg, res, err)
	if err != nil {
		log.Error("Process failed", err, slog.Duration("elapsed", time.Since(started)))
		return nil, err
	}

	log.Info("Process completed.",
		slog.String("path", res.Path),
		slog.Int("records", res.Records),
		slog.Int("rows", res.Rows),
		slog.Bool("partial", res.Partial),
		slog.Duration("elapsed", time.Since(started)),
	)
	return res, nil
}

func newHTTPClient(cfg *config.Config) (*http.Client, error) {
	client := &http.Client{
		Timeout:   cfg.API.Timeout(),
		Transport: http.DefaultTransport,
	}

	if cfg.Proxy != nil && cfg.Proxy.Address != "" && cfg.Proxy.Port != 0 {
		dialer, err := proxy.SOCKS5("tcp", fmt.Sprintf("%s:%d", cfg.Proxy.Address, cfg.Proxy.Port), nil, proxy.Direct)
		if err != nil {
			return nil, err
		}

		client.Transport = &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				if cd, ok := dialer.(proxy.ContextDialer); ok {
					return cd.DialContext(ctx, network, addr)
				}
				return dialer.Dial(network, addr)
			},
		}
	}

	return client, nil
}

func flushMetrics(log logger.Logger, cfg *config.Config, res *Result, runErr error) {
	if cfg.Output.MetricsFile == "" {
		return
	}

	metrics.LastRunTimestamp.SetToCurrentTime()
	metrics.LastRunSuccess.Set(map[bool]float64{true: 1, false: 0}[runErr == nil && res != nil && !res.Partial])

	if err := metrics.WriteTextfile(cfg.Output.MetricsFile); err != nil {
		log.Warn("Failed to write metrics file", slog.String("path", cfg.Output.MetricsFile), slog.String("error", err.Error()))
	}
}
