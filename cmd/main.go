package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"antarctic-dashboard/internal/cache"
	"antarctic-dashboard/internal/config"
	"antarctic-dashboard/internal/feed"
	"antarctic-dashboard/internal/fetch"
	"antarctic-dashboard/internal/logging"
	"antarctic-dashboard/internal/publish"
	"antarctic-dashboard/internal/server"
	"antarctic-dashboard/internal/stream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log, logCloser := logging.New(cfg.LogLevel, cfg.LogFile)
	defer logCloser.Close()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("service failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	log.Info("starting antarctic dashboard",
		"addr", cfg.HTTPAddr,
		"interval", cfg.UpdateInterval,
		"window", cfg.WindowSize,
		"range", []float64{cfg.TempMin, cfg.TempMax})

	// One-shot dataset fetch. A failure leaves the table empty.
	fetchCtx, cancelFetch := context.WithTimeout(ctx, cfg.FetchTimeout)
	fetcher := fetch.NewFetcher(cfg.DatasetURL, cfg.DatasetUserAgent, cfg.FetchTimeout)
	dataset := fetch.Load(fetchCtx, fetcher, log.With("component", "fetch"))
	cancelFetch()

	var opts []feed.GeneratorOption
	if cfg.Seed != 0 {
		opts = append(opts, feed.WithSeed(cfg.Seed))
	}
	readings := feed.New(cfg.WindowSize, feed.NewUniformGenerator(cfg.TempMin, cfg.TempMax, opts...))
	scheduler := feed.NewScheduler(readings, cfg.UpdateInterval, log.With("component", "feed"))

	hub := stream.NewHub(stream.DefaultConfig(), log.With("component", "stream"))
	srv := server.New(readings, scheduler, hub, dataset, log.With("component", "http"))

	scheduler.AddListener(srv)
	scheduler.AddListener(hub)

	if cfg.RedisAddr != "" {
		mirror, err := cache.NewRedisMirror(ctx, cfg.RedisAddr, cfg.WindowSize, log.With("component", "redis"))
		if err != nil {
			log.Warn("redis mirror disabled", "addr", cfg.RedisAddr, "error", err)
		} else {
			defer mirror.Close()
			scheduler.AddListener(mirror)
			log.Info("mirroring readings to redis", "addr", cfg.RedisAddr)
		}
	}

	if cfg.MQTTBroker != "" {
		mqttLog := log.With("component", "mqtt")
		client, err := publish.Connect(publish.ClientConfig{Broker: cfg.MQTTBroker, ClientID: cfg.MQTTClientID}, mqttLog)
		if err != nil {
			log.Warn("mqtt publishing disabled", "broker", cfg.MQTTBroker, "error", err)
		} else {
			publisher := publish.NewPublisher(client, cfg.MQTTTopic, mqttLog)
			defer publisher.Close()
			scheduler.AddListener(publisher)
			log.Info("publishing readings over mqtt", "broker", cfg.MQTTBroker, "topic", cfg.MQTTTopic)
		}
	}

	go scheduler.Run(ctx)

	return srv.Run(ctx, cfg.HTTPAddr)
}
