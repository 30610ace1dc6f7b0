package cache

import (
	"context"

	"go.uber.org/zap"

	"querybridge/internal/metrics"
	"querybridge/internal/translator"
	"querybridge/pkg/logging"
)

// LoggingCache decorates a TranslationCache with debug logging and lookup
// metrics. Backend errors are logged and reported as misses so a flaky
// backend never fails a translation.
type LoggingCache struct {
	inner TranslationCache
}

// WithLogging wraps a cache with logging and metrics.
func WithLogging(inner TranslationCache) *LoggingCache {
	return &LoggingCache{inner: inner}
}

func (c *LoggingCache) Get(ctx context.Context, key Key) (*translator.Result, bool, error) {
	result, ok, err := c.inner.Get(ctx, key)
	if err != nil {
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		logging.FromContext(ctx).Warn("cache lookup failed",
			zap.String("source_lang", key.SourceLang),
			zap.String("target_lang", key.TargetLang),
			zap.Error(err),
		)
		return nil, false, nil
	}
	if ok {
		metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
		logging.FromContext(ctx).Debug("cache hit",
			zap.String("source_lang", key.SourceLang),
			zap.String("target_lang", key.TargetLang),
		)
	} else {
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
	}
	return result, ok, nil
}

func (c *LoggingCache) Set(ctx context.Context, key Key, result *translator.Result) error {
	if err := c.inner.Set(ctx, key, result); err != nil {
		logging.FromContext(ctx).Warn("cache store failed",
			zap.String("source_lang", key.SourceLang),
			zap.String("target_lang", key.TargetLang),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (c *LoggingCache) EvictExpired(ctx context.Context) (int, error) {
	removed, err := c.inner.EvictExpired(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("cache eviction failed", zap.Error(err))
		return removed, err
	}
	if removed > 0 {
		logging.FromContext(ctx).Info("evicted expired cache entries", zap.Int("removed", removed))
	}
	return removed, nil
}

func (c *LoggingCache) Stats(ctx context.Context) (Stats, error) {
	return c.inner.Stats(ctx)
}

func (c *LoggingCache) Close() error {
	return c.inner.Close()
}
