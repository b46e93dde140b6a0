package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	appcontainer "xprem/internal/application/container"
	"xprem/internal/application/usecase/monitor"
	"xprem/internal/infrastructure/config"
	"xprem/internal/infrastructure/container"
	"xprem/internal/infrastructure/logger"
	"xprem/internal/interfaces/console"

	"github.com/rs/zerolog/log"
)

func main() {
	logger.Setup("info", nil)

	configPath := flag.String("config", "configs/config.toml", "path to config.toml")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("load config failed")
	}

	var logOut io.Writer
	if cfg.App.LogFile != "" {
		f, err := os.OpenFile(cfg.App.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatal().Err(err).Str("log_file", cfg.App.LogFile).Msg("open log file failed")
		}
		defer f.Close()
		logOut = f
	}
	logger.Setup(cfg.App.LogLevel, logOut)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	infra, err := container.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init container failed")
	}
	defer infra.Close()

	app := appcontainer.New(monitor.ServiceDeps{
		Adapters:        infra,
		Streams:         infra.Streams(),
		Prefs:           infra.Prefs(),
		Wallets:         infra.Wallets(),
		Sink:            console.NewSink(os.Stdout),
		PublishInterval: cfg.PublishInterval(),
		RenderEvery:     cfg.RenderEvery(),
		SnapshotEvery:   cfg.SnapshotEvery(),
		Reference:       cfg.Pair.Reference,
		Threshold:       cfg.App.HighlightPct / 100,
	})
	defer app.Close()

	svc := app.Monitor()
	p := cfg.Pair
	if err := svc.SwitchPair(ctx, p.ExchangeA, p.QuoteA, p.ExchangeB, p.QuoteB); err != nil {
		log.Fatal().Err(err).Msg("select market pair failed")
	}

	log.Info().
		Str("config", *configPath).
		Str("pair", p.ExchangeA+":"+p.QuoteA+" vs "+p.ExchangeB+":"+p.QuoteB).
		Strs("exchanges", infra.Exchanges()).
		Int("publish_interval_ms", cfg.App.PublishIntervalMs).
		Msg("xprem started")

	go func() {
		if err := console.NewCommands(svc, stop).Run(ctx, os.Stdin); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn().Err(err).Msg("command input closed")
		}
	}()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("monitor service exited")
	}
}

// loadConfig falls back to defaults when the file does not exist.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		log.Warn().Str("config", path).Msg("config file not found, using defaults")
		return config.Default(), nil
	}
	return config.Load(path)
}
