package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/role-readiness/internal/cache"
	"github.com/spigell/role-readiness/internal/catalog"
	"github.com/spigell/role-readiness/internal/extract"
	"github.com/spigell/role-readiness/internal/extract/gemini"
	"github.com/spigell/role-readiness/internal/history"
	"github.com/spigell/role-readiness/internal/readiness"
	"github.com/spigell/role-readiness/internal/secrets"
)

// loadCatalog returns the configured catalog or the embedded default.
func loadCatalog(config *Config) (*catalog.Catalog, error) {
	if path := strings.TrimSpace(config.CatalogFile); path != "" {
		return catalog.Load(path)
	}
	return catalog.Default()
}

// cacheKeyPrefix namespaces shared cache entries by catalog content, so an
// edited catalog never reads results computed against its previous revision.
func cacheKeyPrefix(cat *catalog.Catalog) string {
	version := cat.Version()
	if version == "" {
		version = "unversioned"
	}
	return fmt.Sprintf("readiness:%s:%s:", version, cat.Fingerprint()[:16])
}

// newEngine wires the catalog and cache tiers into an engine. The returned
// cache must be closed by the caller.
func newEngine(config *Config, logger *zap.Logger) (*readiness.Engine, *cache.Cache, error) {
	cat, err := loadCatalog(config)
	if err != nil {
		return nil, nil, fmt.Errorf("load catalog: %w", err)
	}

	store, err := cache.New(cache.Config{
		MaxEntries: config.Cache.MaxEntries,
		TTL:        config.Cache.TTL,
		RedisURL:   strings.TrimSpace(config.Cache.RedisURL),
		KeyPrefix:  cacheKeyPrefix(cat),
	}, logger.Named("cache"))
	if err != nil {
		return nil, nil, fmt.Errorf("create cache: %w", err)
	}

	logger.Debug("catalog loaded",
		zap.String("version", cat.Version()),
		zap.Int("roles", cat.Len()),
	)

	engine := readiness.New(cat,
		readiness.WithStore(store),
		readiness.WithLogger(logger.Named("engine")),
		readiness.WithTopRoles(config.TopRoles),
	)

	return engine, store, nil
}

// newExtractor builds the resume skill extractor. A nil extractor with a nil
// error means extraction is disabled.
func newExtractor(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (extract.SkillExtractor, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != gemini.Provider {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Value: cfg.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.With(
		zap.String("provider", gemini.Provider),
		zap.String("model", cfg.Gemini.Model),
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewExtractor(generator, logger, cfg.Gemini.MaxLogLength), nil
}

// openHistory opens the assessment log, or returns nil when it is disabled.
func openHistory(cfg *HistoryConfig) (*history.Store, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}
	return history.Open(cfg.Path)
}
