// Command trafficaqi runs the traffic/air-quality Lambda pipeline: the
// Ingestion Poller, the Speed Layer, the Batch Layer's scheduled jobs, and
// the Serving Layer's read surface, all wired through the Bus and Store
// adapters.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/zap"

	"trafficaqi/internal/batch"
	"trafficaqi/internal/bus"
	"trafficaqi/internal/config"
	"trafficaqi/internal/health"
	"trafficaqi/internal/ingestion"
	"trafficaqi/internal/locations"
	"trafficaqi/internal/model"
	"trafficaqi/internal/scheduler"
	"trafficaqi/internal/serving"
	"trafficaqi/internal/speed"
	"trafficaqi/internal/store"
	"trafficaqi/internal/upstream"
	pkghealth "trafficaqi/pkg/health"
)

// shutdownGrace and shutdownHardDeadline implement §5's cooperative
// shutdown: finish in-flight work under a grace period, then terminate
// anyway at a hard deadline.
const (
	shutdownGrace        = 30 * time.Second
	shutdownHardDeadline = 60 * time.Second
)

func main() {
	zapLogger, err := newZapLogger()
	if err != nil {
		panic(err)
	}
	defer zapLogger.Sync() //nolint:errcheck
	log := zapLogger.Sugar()

	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	cfg, err := config.Load(nil)
	if err != nil {
		// ConfigError (§7): fatal at startup, the process refuses to run.
		log.Fatalw("invalid configuration", "error", err)
	}

	locs, err := locations.Load(cfg.LocationsFile)
	if err != nil {
		log.Fatalw("failed to load monitored locations", "error", err)
	}

	clock := model.NewLocalClock(cfg.LocalOffsetHours, cfg.PeakHoursLocal)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.DefaultConfig(cfg.StorePath))
	if err != nil {
		log.Fatalw("failed to open store", "error", err)
	}
	defer st.Close()

	b := bus.New(bus.DefaultOptions(), log)
	defer b.Close()

	httpFeed := upstream.NewHTTPClient(cfg.TrafficUpstreamURL, cfg.AQIUpstreamURL, cfg.UpstreamRatePerSecond)
	feed := upstream.NewBreakerFeed(httpFeed, upstream.DefaultBreakerConfig())

	sched := scheduler.New(zlog)

	poller := ingestion.NewPoller(feed, b, st, locs, clock, cfg.BusTopic,
		cfg.UpstreamTimeout(), cfg.FanoutConcurrency, log)
	pollerLiveness := health.NewSchedulerLivenessProbe("ingestion_poller", cfg.PollInterval(), 3)

	sched.Every(ctx, "ingestion_poll", cfg.PollInterval(), func(taskCtx context.Context) {
		poller.RunCycle(taskCtx)
		pollerLiveness.MarkRun()
	})

	consumer := speed.NewConsumer(st, clock, log)
	if err := b.Subscribe(ctx, cfg.BusTopic, "speed-layer", consumer.Handle); err != nil {
		log.Fatalw("failed to subscribe speed layer consumer", "error", err)
	}

	evictor := speed.NewEvictor(st, cfg.RealtimeRetention(), log)
	evictionLiveness := health.NewSchedulerLivenessProbe("realtime_eviction", cfg.RealtimeEvictionInterval(), 3)
	sched.Every(ctx, "realtime_eviction", cfg.RealtimeEvictionInterval(), func(taskCtx context.Context) {
		evictor.Run(taskCtx)
		evictionLiveness.MarkRun()
	})

	jobs := batch.NewJobs(st, clock, log)
	hourlyLiveness := health.NewSchedulerLivenessProbe("batch_hourly", time.Hour, 2)
	sched.Cron(ctx, "batch_hourly", scheduler.NextHourlyAtMinute(cfg.LocalOffsetHours, cfg.BatchHourlyMinute), func(taskCtx context.Context) {
		jobs.HourlyJob(taskCtx)
		hourlyLiveness.MarkRun()
	})
	dailyLiveness := health.NewSchedulerLivenessProbe("batch_daily", 24*time.Hour, 2)
	sched.Cron(ctx, "batch_daily", scheduler.NextDailyAt(cfg.LocalOffsetHours, cfg.BatchDailyHourLocal, 0), func(taskCtx context.Context) {
		jobs.DailyJob(taskCtx)
		dailyLiveness.MarkRun()
	})
	peakLiveness := health.NewSchedulerLivenessProbe("batch_peak", 24*time.Hour, 2)
	sched.Cron(ctx, "batch_peak", scheduler.NextDailyAt(cfg.LocalOffsetHours, cfg.BatchPeakHourLocal, 0), func(taskCtx context.Context) {
		jobs.PeakHourJob(taskCtx)
		peakLiveness.MarkRun()
	})

	view, err := serving.NewView(st, log, 1)
	if err != nil {
		log.Fatalw("failed to construct serving view", "error", err)
	}

	liveness := pkghealth.NewAggregator(
		pollerLiveness,
		evictionLiveness,
		hourlyLiveness,
		dailyLiveness,
		peakLiveness,
	)
	readiness := pkghealth.NewAggregator(
		health.NewPingerProbe("store", st.Ping),
		health.NewPingerProbe("bus", b.Ping),
	)

	e := health.NewServer(liveness, readiness)
	view.RegisterRoutes(e)

	go func() {
		if err := e.Start(cfg.HealthAddr); err != nil && err != http.ErrServerClosed {
			log.Errorw("health/serving http server stopped", "error", err)
		}
	}()

	log.Infow("trafficaqi pipeline started",
		"locations", locs.Names(),
		"poll_interval", cfg.PollInterval(),
		"health_addr", cfg.HealthAddr,
	)

	<-ctx.Done()
	log.Infow("shutdown signal received, stopping gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownHardDeadline)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Warnw("health/serving http server shutdown error", "error", err)
	}

	sched.Shutdown(shutdownGrace)
	log.Infow("trafficaqi pipeline stopped")
}

func newZapLogger() (*zap.Logger, error) {
	if os.Getenv("ENV") == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
