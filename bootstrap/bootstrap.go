// Package bootstrap wires configuration into the running service graph
// shared by the server and the command line tools.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"casevalue-backend/cache"
	"casevalue-backend/config"
	"casevalue-backend/gemini"
	"casevalue-backend/metrics"
	"casevalue-backend/repository"
	"casevalue-backend/retrieval"
	"casevalue-backend/service"
	"casevalue-backend/storage"

	"github.com/google/generative-ai-go/genai"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// ErrMissingDatabaseURL is returned when no database is configured.
var ErrMissingDatabaseURL = errors.New("database_url is required")

const memoryCacheEntries = 10000

// App holds the initialized collaborators. Close releases them in reverse order.
type App struct {
	Config   *config.Config
	DB       *pgxpool.Pool
	Metrics  *metrics.Manager
	Archive  storage.Storage
	Cases    *repository.CaseRepository
	Analyses *repository.AnalysisRepository
	Service  *service.AnalysisService

	log     *logrus.Entry
	closers []func()
}

// New connects to Postgres and Gemini and assembles the analysis service.
func New(ctx context.Context, cfg *config.Config, log *logrus.Entry) (*App, error) {
	if log == nil {
		log = logrus.WithField("component", "bootstrap")
	}
	app := &App{Config: cfg, log: log}

	if err := app.init(ctx); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) init(ctx context.Context) error {
	cfg := a.Config

	a.Metrics = metrics.NewManager(metrics.WithMetricsEnabled(cfg.MetricsEnabled))

	db, err := initPostgres(ctx, cfg.DatabaseURL, a.log)
	if err != nil {
		return fmt.Errorf("failed to initialize Postgres: %w", err)
	}
	a.DB = db
	a.closers = append(a.closers, db.Close)

	a.Archive, err = storage.NewStorage(ctx, cfg.Storage())
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	if a.Archive != nil {
		a.log.WithField("type", cfg.StorageType).Info("Report archive initialized")
	}

	client, err := initGemini(ctx, cfg.GeminiAPIKey, a.log)
	if err != nil {
		return fmt.Errorf("failed to initialize Gemini: %w", err)
	}
	a.closers = append(a.closers, func() { _ = client.Close() })

	var embedder service.Embedder = gemini.NewEmbedder(cfg.GeminiAPIKey,
		gemini.EmbedWithModel(cfg.EmbeddingModel),
		gemini.EmbedWithEndpoint(cfg.EmbeddingEndpoint),
		gemini.EmbedWithDimension(cfg.EmbeddingDimension),
		gemini.EmbedWithRetry(cfg.MaxRetries, cfg.RetryBackoff),
		gemini.EmbedWithLogger(a.log.WithField("component", "embedder")),
	)
	cacheClient, err := a.initCache(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	if cacheClient != nil {
		embedder = cache.NewEmbeddingCache(embedder, cacheClient,
			cache.WithTTL(cfg.CacheTTL),
			cache.WithModel(cfg.EmbeddingModel),
			cache.WithRecorder(a.Metrics),
			cache.WithLogger(a.log.WithField("component", "embedding_cache")),
		)
	}

	generator := gemini.NewGenerator(client,
		gemini.GenerateWithModel(cfg.GenerationModel),
		gemini.GenerateWithTemperature(float32(cfg.Temperature)),
		gemini.GenerateWithMaxTokens(int32(cfg.MaxTokens)),
		gemini.GenerateWithLogger(a.log.WithField("component", "generator")),
	)

	a.Cases = repository.NewCaseRepository(db, cfg.EmbeddingDimension)
	a.Analyses = repository.NewAnalysisRepository(db)

	svc, err := service.NewAnalysisService(
		service.WithEmbedder(embedder),
		service.WithCaseSearcher(a.Cases),
		service.WithCaseIndexer(a.Cases),
		service.WithGenerator(generator),
		service.WithAnalysisStore(a.Analyses),
		service.WithArchive(a.Archive),
		service.WithReranker(retrieval.NewReranker(retrieval.WithAlpha(cfg.RerankAlpha))),
		service.WithMetrics(a.Metrics),
		service.WithLogger(a.log.WithField("component", "analysis_service")),
		service.WithTopK(cfg.TopK),
		service.WithRetry(cfg.MaxRetries, cfg.RetryBackoff),
	)
	if err != nil {
		return err
	}
	a.Service = svc
	return nil
}

func (a *App) initCache(ctx context.Context) (cache.Client, error) {
	switch a.Config.CacheType {
	case config.CacheMemory:
		a.log.Info("Using in-memory embedding cache")
		return cache.NewMemoryClient(memoryCacheEntries), nil
	case config.CacheRedis:
		client, err := cache.NewRedisClient(ctx, a.Config.Redis())
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		a.log.WithField("addr", a.Config.RedisAddr).Info("Using Redis embedding cache")
		return client, nil
	default:
		return nil, nil
	}
}

// Close releases every opened resource.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func initPostgres(ctx context.Context, connString string, log *logrus.Entry) (*pgxpool.Pool, error) {
	if connString == "" {
		return nil, ErrMissingDatabaseURL
	}

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	// Enable pgvector extension
	if _, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		log.WithError(err).Warn("Failed to create pgvector extension; it may already be installed or need superuser privileges")
	}

	log.Info("Postgres connection established with pgvector support")
	return pool, nil
}

func initGemini(ctx context.Context, apiKey string, log *logrus.Entry) (*genai.Client, error) {
	if apiKey == "" {
		return nil, gemini.ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	log.Info("Gemini client initialized")
	return client, nil
}
