package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/joris-vdw/StyleCast/internal/adapter/httpapi"
	"github.com/joris-vdw/StyleCast/internal/adapter/litellm"
	"github.com/joris-vdw/StyleCast/internal/adapter/memindex"
	"github.com/joris-vdw/StyleCast/internal/adapter/openweather"
	oteladapter "github.com/joris-vdw/StyleCast/internal/adapter/otel"
	"github.com/joris-vdw/StyleCast/internal/adapter/postgres"
	"github.com/joris-vdw/StyleCast/internal/adapter/ristretto"
	"github.com/joris-vdw/StyleCast/internal/adapter/ws"
	"github.com/joris-vdw/StyleCast/internal/config"
	"github.com/joris-vdw/StyleCast/internal/logger"
	"github.com/joris-vdw/StyleCast/internal/resilience"
	"github.com/joris-vdw/StyleCast/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Logging)
	log.Info("starting stylecast", "port", cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := oteladapter.Init(ctx, cfg.Logging.Service, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Warn("telemetry shutdown", "error", err)
		}
	}()

	metrics, err := oteladapter.NewMetrics()
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()
	store := postgres.NewStore(pool)

	weatherCache, err := ristretto.New(cfg.Cache.MaxSizeMB << 20)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}
	defer weatherCache.Close()

	llmClient := litellm.NewClient(cfg.LiteLLM.URL, cfg.LiteLLM.MasterKey)
	llmClient.SetBreaker(resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout))

	weatherClient := openweather.NewClient(cfg.OpenWeather)
	weatherClient.SetBreaker(resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout))

	index := memindex.New()
	hub := ws.NewHub()

	wardrobeSvc := service.NewWardrobeService(store, index, log)
	if n, err := wardrobeSvc.WarmIndex(ctx); err != nil {
		return fmt.Errorf("warm index: %w", err)
	} else {
		log.Info("catalog loaded", "items", n)
	}

	st := cfg.Stylist
	weatherSvc := service.NewWeatherService(weatherClient, llmClient, weatherCache, cfg.Cache.WeatherTTL, st.Model, st.Temperature, log)
	stylist := service.NewStylistService(
		service.NewRouterService(llmClient, st.RouterModel, st.RouterTemperature, log),
		weatherSvc,
		service.NewSelectorService(index, llmClient, st.Model, st.Temperature, st.SelectorMaxRounds, log),
		service.NewComposerService(llmClient, st.Model, st.Temperature, log),
		service.NewResponderService(llmClient, st.Model, st.Temperature, log),
		hub,
		metrics,
		st.RequestTimeout,
		log,
	)

	handlers := &httpapi.Handlers{
		Stylist:  stylist,
		Wardrobe: wardrobeSvc,
		Weather:  weatherSvc,
		Logger:   log,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(httpapi.RequestLogger(log))
	r.Use(httpapi.CORS(cfg.Server.CORSOrigin))
	r.Use(oteladapter.HTTPMiddleware(cfg.Logging.Service))

	r.Get("/health", httpapi.Health())
	r.Get("/ws", hub.HandleWS)
	r.Group(func(r chi.Router) {
		// Keeps the timeout off the long-lived /ws connection.
		r.Use(middleware.Timeout(2 * time.Minute))
		handlers.MountRoutes(r)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	log.Info("stylecast stopped")
	return nil
}
