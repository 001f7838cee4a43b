package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/macrolens/foodcore/config"
	httpDelivery "github.com/macrolens/foodcore/internal/delivery/http"
	"github.com/macrolens/foodcore/internal/domain"
	"github.com/macrolens/foodcore/internal/infrastructure/cache"
	"github.com/macrolens/foodcore/internal/infrastructure/openfoodfacts"
	"github.com/macrolens/foodcore/internal/infrastructure/openrouter"
	"github.com/macrolens/foodcore/internal/infrastructure/usda"
	"github.com/macrolens/foodcore/internal/pkg/logger"
	"github.com/macrolens/foodcore/internal/usecase"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.Server.LogLevel, cfg.Server.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync() //nolint:errcheck

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting foodcore",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cache", cfg.Cache.Type),
	)

	store, closeStore, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer closeStore()

	// Upstream clients
	usdaClient := usda.NewClient(usda.ClientConfig{
		APIKey:          cfg.USDA.APIKey,
		BaseURL:         cfg.USDA.BaseURL,
		Timeout:         cfg.USDA.Timeout,
		RequestsPerHour: cfg.RateLimit.USDA,
		CacheTTL:        cfg.Cache.TTL,
		NotFoundTTL:     cfg.Cache.NotFoundTTL,
	}, store, logger)
	if !usdaClient.Configured() {
		logger.Warn("USDA API key not configured, USDA results will be empty")
	}

	offClient := openfoodfacts.NewClient(openfoodfacts.ClientConfig{
		BaseURL:     cfg.OpenFoodFacts.BaseURL,
		UserAgent:   cfg.OpenFoodFacts.UserAgent,
		Timeout:     cfg.OpenFoodFacts.Timeout,
		CacheTTL:    cfg.Cache.TTL,
		NotFoundTTL: cfg.Cache.NotFoundTTL,
	}, store, logger)

	usdaSource := usda.NewSource(usdaClient)
	offSource := openfoodfacts.NewSource(offClient)

	// Usecases. USDA comes first: it wins duplicate names in search and is
	// tried first for barcodes.
	searchService := usecase.NewSearchService(
		[]domain.FoodSource{usdaSource, offSource},
		offSource,
		usecase.SearchConfig{
			DefaultLimit:          cfg.Search.DefaultLimit,
			MaxLimit:              cfg.Search.MaxLimit,
			FetchMultiplier:       cfg.Search.FetchMultiplier,
			MaxFetchLimit:         cfg.Search.MaxFetchLimit,
			EnrichmentConcurrency: cfg.Search.EnrichmentConcurrency,
		},
		logger,
	)
	barcodeService := usecase.NewBarcodeService(
		[]domain.BarcodeSource{usdaSource, offSource},
		offSource,
		logger,
	)

	var analyzer domain.ImageAnalyzer
	visionClient := openrouter.NewClient(openrouter.ClientConfig{
		APIKey:    cfg.Vision.APIKey,
		BaseURL:   cfg.Vision.BaseURL,
		Model:     cfg.Vision.Model,
		MaxTokens: cfg.Vision.MaxTokens,
		Timeout:   cfg.Vision.Timeout,
		Title:     "foodcore",
	}, logger)
	if visionClient.Configured() {
		analyzer = visionClient
	} else {
		logger.Warn("vision API key not configured, image analysis disabled")
	}
	analysisService := usecase.NewAnalysisService(analyzer, logger)

	handler := httpDelivery.NewHandler(searchService, barcodeService, analysisService, logger)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newCache builds the configured cache backend and its cleanup func
func newCache(ctx context.Context, cfg config.CacheConfig) (domain.CacheRepository, func(), error) {
	if cfg.Type == "redis" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return redisCache, func() { _ = redisCache.Close() }, nil
	}
	return cache.NewMemoryCache(), func() {}, nil
}
