package main

import (
	"flag"
	"log/slog"

	"class-notifier/internal/components/chrono"
	"class-notifier/internal/components/telemetry"
	"class-notifier/internal/config"
	"class-notifier/internal/db"
	"class-notifier/internal/metrics"
	"class-notifier/internal/notifier"
	"class-notifier/internal/notify"
	"class-notifier/internal/registry"
	"class-notifier/internal/schedule"
	"class-notifier/internal/service"
	"class-notifier/internal/timetable"
	"class-notifier/lib/serviceutil"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	configPath := flag.String("config", config.FileName, "Path to the config file.")
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	noCron := flag.Bool("no-cron", false, "Serve the http api without scheduling notifications.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	cfg, err := config.Read(*configPath)
	if err != nil {
		serviceutil.Fatal("read config", err)
	}

	shutdown := InitTelemetry(ctx, cfg, *verbose)
	defer shutdown()

	tel := telemetry.SlogAPI{}

	clock, err := chrono.NewStandardImpl(cfg.Timezone)
	if err != nil {
		serviceutil.Fatal("load timezone", err)
	}

	sqldb, err := db.Open(ctx, cfg.Database)
	if err != nil {
		serviceutil.Fatal("open db", err)
	}
	defer sqldb.Close()

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(promRegistry)

	users := registry.New(sqldb, tel)
	fetcher := timetable.NewClient(cfg.ClientOptions(), tel)
	dispatcher := notify.NewNtfyClient(cfg.NtfyOptions(), tel)
	pipeline := notifier.NewService(
		users,
		fetcher,
		dispatcher,
		clock,
		cfg.NotifierOptions(),
		notifier.WithMetrics(collector),
		notifier.WithTelemetry(tel),
	)

	if !*noCron {
		cron := chrono.NewStandardCron(clock, tel)
		defer cron.Stop()

		err = schedule.Register(ctx, cron, pipeline, cfg.Schedule, tel)
		if err != nil {
			serviceutil.Fatal("register schedule", err)
		}
		slog.Info("notifications scheduled", "entries", len(cfg.Schedule), "timezone", cfg.Timezone)
	}

	server := service.New(pipeline, dispatcher, users, service.Options{
		DemoUserID: cfg.DemoUserID,
		LogFile:    cfg.LogFile,
		Location:   clock.Location(),
		Metrics:    metrics.Handler(promRegistry),
		Requests:   collector,
	}, tel)

	err = serviceutil.StartHttpServer(ctx, cfg.Port, server.Router())
	if err != nil {
		slog.Error("http server", "err", err)
	}
}
