package internal

import (
	"auroscope/internal/bot"
	"auroscope/internal/providers"
	"auroscope/internal/schedule/interfaces"
	"auroscope/internal/structures"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	WebServer *http.Server
	conf      *structures.Config
	logger    providers.Logger
	scheduler interfaces.SchedulerInterface
	bot       *bot.Bot
	updates   bot.UpdatesSourceInterface
}

// NewHandler puts the routes behind access logging and gzip, with /metrics outside the access log.
func NewHandler(conf *structures.Config, logger providers.Logger, router providers.RouterProviderInterface, metrics providers.MetricsProviderInterface) http.Handler {
	// Inner mux: API routes
	apiMux := http.NewServeMux()
	router.Mount(apiMux)
	instrumentedAPI := providers.AccessMiddleware(metrics, logger, apiMux)

	// Outer mux: infrastructure + instrumented API
	mux := http.NewServeMux()
	if conf.Metrics.Enabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}
	mux.Handle("/", instrumentedAPI)

	return gzhttp.GzipHandler(mux)
}

func NewApp(
	conf *structures.Config,
	logger providers.Logger,
	router providers.RouterProviderInterface,
	metrics providers.MetricsProviderInterface,
	scheduler interfaces.SchedulerInterface,
	telegram *bot.Bot,
	updates bot.UpdatesSourceInterface,
) (*App, error) {
	if err := os.MkdirAll(conf.Reports.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create reports dir: %w", err)
	}

	return &App{
		WebServer: &http.Server{
			Addr:              conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:           NewHandler(conf, logger, router, metrics),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       5 * time.Second,
			WriteTimeout:      5 * time.Minute,
			IdleTimeout:       60 * time.Second,
		},
		conf:      conf,
		logger:    logger,
		scheduler: scheduler,
		bot:       telegram,
		updates:   updates,
	}, nil
}

// Run blocks until SIGINT/SIGTERM or until the HTTP server fails.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Infof(providers.TypeApp, "Starting %s", a.conf.AppName)
	if err := a.scheduler.Restore(); err != nil {
		a.logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}
	if err := a.scheduler.Init(); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Infof(providers.TypeApp, "Listening HTTP clients on %s", a.WebServer.Addr)
		if err := a.WebServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return a.bot.Run(gctx, a.updates)
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Infof(providers.TypeApp, "Shutdown signal received")
		a.scheduler.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.WebServer.Shutdown(shutdownCtx)
	})

	return a.release(g.Wait())
}

// release persists scheduler state and closes the state codec and log files.
func (a *App) release(err error) error {
	if perr := a.scheduler.Persist(); perr != nil {
		err = errors.Join(err, perr)
	}
	a.scheduler.Close()

	if err != nil {
		a.logger.Errorf(providers.TypeApp, "stopped with error: %v", err)
	} else {
		a.logger.Infof(providers.TypeApp, "gracefully stopped")
	}
	a.logger.Close()
	return err
}
