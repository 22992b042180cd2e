package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/cardstock/pricing-engine/internal/api/handlers"
	"github.com/cardstock/pricing-engine/internal/api/middleware"
	"github.com/cardstock/pricing-engine/internal/cache"
	"github.com/cardstock/pricing-engine/internal/config"
	"github.com/cardstock/pricing-engine/internal/currency"
	"github.com/cardstock/pricing-engine/internal/engine"
	"github.com/cardstock/pricing-engine/internal/ingest"
	"github.com/cardstock/pricing-engine/internal/store"
	"github.com/cardstock/pricing-engine/internal/tcg"
	"github.com/cardstock/pricing-engine/pkg/logger"
	"github.com/cardstock/pricing-engine/pkg/pricing"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	_ = godotenv.Load() // loads .env if present

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cliLog := log.NewWithOptions(os.Stderr, log.Options{
		Level: parseLogLevel(cfg.Logging.Level),
	})
	slogger := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx := context.Background()

	st, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer st.Close()

	// Marketplace client with OAuth tokens and rate limiting.
	tokens := tcg.NewBearerTokenProvider(
		cfg.Market.ClientID,
		cfg.Market.ClientSecret,
		tcg.WithTokenURL(cfg.Market.TokenURL),
	)
	limiter := tcg.NewRateLimiter(
		cfg.Market.RateLimit.PerSecond,
		cfg.Market.RateLimit.Burst,
		cfg.Market.RateLimit.DailyLimit,
	)
	market := tcg.NewMarketplaceClient(
		tokens,
		tcg.WithBaseURL(cfg.Market.BaseURL),
		tcg.WithRateLimiter(limiter),
	)

	// Store currency. Marketplace prices are USD; a non-USD store
	// currency gets a periodically refreshed conversion rate.
	converter := currency.NewConverter(cfg.Currency.Code)
	if cfg.Currency.Code != "USD" {
		providerOpts := []currency.HTTPProviderOption{}
		if cfg.Currency.RatesURL != "" {
			providerOpts = append(providerOpts, currency.WithRatesURL(cfg.Currency.RatesURL))
		}
		provider := currency.NewHTTPProvider(providerOpts...)

		refresher, err := currency.NewRefresher(
			provider, converter, cfg.Currency.RefreshInterval, slogger,
		)
		if err != nil {
			return fmt.Errorf("creating currency refresher: %w", err)
		}
		refresher.Start()
		defer refresher.Stop()
	}

	eng := engine.New(
		market,
		st,
		pricing.New(),
		converter,
		engine.WithLogger(slogger),
		engine.WithConcurrency(cfg.Engine.Concurrency),
	)

	searchCache, err := buildCache(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("connecting to cache: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(middleware.RequestLog(slogger))
	e.Use(middleware.Metrics())
	e.Use(middleware.Recovery(slogger))

	health := handlers.NewHealthHandler(st)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("Card Pricing Engine API", Version))
	handlers.RegisterSearchRoutes(api, handlers.NewSearchHandler(eng, searchCache, cfg.Cache.TTL))
	handlers.RegisterProductRoutes(api, handlers.NewProductHandler(eng))
	handlers.RegisterQuoteRoutes(api, handlers.NewQuoteHandler(eng))
	handlers.RegisterUploadRoutes(api, handlers.NewUploadHandler(ingest.NewParser(slogger), st))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	cliLog.Info("starting server", "addr", addr, "currency", cfg.Currency.Code)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cliLog.Error("server error", "err", err)
		}
	}()

	// Wait for interrupt signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cliLog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	cliLog.Info("server stopped")
	return nil
}

func buildCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		c := cache.NewRedis(rdb)
		if err := c.Ping(ctx); err != nil {
			return nil, fmt.Errorf("pinging redis: %w", err)
		}
		return c, nil
	case "none":
		return cache.Nop{}, nil
	default:
		return cache.NewMemory(), nil
	}
}

func parseLogLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
