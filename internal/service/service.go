// Package service wires the preprocessing, cache, translation, and
// evaluation components into the single process-query operation.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"querybridge/internal/cache"
	"querybridge/internal/evaluate"
	"querybridge/internal/metrics"
	"querybridge/internal/monitor"
	"querybridge/internal/preprocess"
	"querybridge/internal/report"
	"querybridge/internal/translator"
)

// TranslationEngine is the translator surface the pipeline depends on.
type TranslationEngine interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) *translator.Result
	HealthCheck(ctx context.Context) translator.Health
	SupportedLanguages() map[string]string
}

// QualityEvaluator scores successful translations.
type QualityEvaluator interface {
	Evaluate(ctx context.Context, original, translation, sourceLang string) *evaluate.Result
}

// QueryResult is the combined outcome the operational surface returns.
type QueryResult struct {
	*translator.Result
	Evaluation *evaluate.Result     `json:"evaluation,omitempty"`
	QueryType  preprocess.QueryType `json:"query_type"`
	FromCache  bool                 `json:"from_cache"`
}

// Statistics is the aggregate system view behind /v1/stats and the REPL.
type Statistics struct {
	Performance   monitor.Summary            `json:"performance"`
	Languages     monitor.LanguageStatistics `json:"languages"`
	Cache         cache.Stats                `json:"cache"`
	RecentQueries []QueryLogEntry            `json:"recent_queries"`
	QualityReport *report.Report             `json:"quality_report,omitempty"`
}

// Options configure the pipeline.
type Options struct {
	MaxQueryLength int
	DefaultTarget  string
}

func (o Options) withDefaults() Options {
	if o.MaxQueryLength <= 0 {
		o.MaxQueryLength = 1000
	}
	if o.DefaultTarget == "" {
		o.DefaultTarget = "English"
	}
	return o
}

// Service orchestrates one translate-and-evaluate pass per query. All
// dependencies are injected at construction.
type Service struct {
	translator TranslationEngine
	evaluator  QualityEvaluator
	monitor    *monitor.Monitor
	reporter   *report.Reporter
	cache      cache.TranslationCache
	queries    *queryLog
	opts       Options
	logger     *zap.Logger
	now        func() time.Time
}

func New(
	engine TranslationEngine,
	evaluator QualityEvaluator,
	mon *monitor.Monitor,
	reporter *report.Reporter,
	translationCache cache.TranslationCache,
	opts Options,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		translator: engine,
		evaluator:  evaluator,
		monitor:    mon,
		reporter:   reporter,
		cache:      translationCache,
		queries:    newQueryLog(queryLogSize),
		opts:       opts.withDefaults(),
		logger:     logger,
		now:        time.Now,
	}
}

// ProcessQuery runs the full pipeline: preprocess, classify, cache lookup,
// translate, record, evaluate, cache store. Failures come back as data on
// the embedded Result, never as an error.
func (s *Service) ProcessQuery(ctx context.Context, text, sourceLang, targetLang string) *QueryResult {
	start := s.now()

	if sourceLang == "" {
		sourceLang = "auto"
	}
	if targetLang == "" {
		targetLang = s.opts.DefaultTarget
	}

	processed := preprocess.Preprocess(text, s.opts.MaxQueryLength)
	queryType := preprocess.ClassifyQueryType(processed)

	key := cache.Key{Text: processed, SourceLang: sourceLang, TargetLang: targetLang}

	if cached, ok, _ := s.cache.Get(ctx, key); ok {
		elapsed := s.now().Sub(start)
		s.monitor.Record(cached.Success, elapsed, cached.SourceLang, "", true)
		s.logQuery(processed, sourceLang, targetLang, cached, elapsed)
		s.logger.Debug("query served from cache",
			zap.String("source_lang", cached.SourceLang),
			zap.String("query_type", string(queryType)),
		)
		return &QueryResult{Result: cached, QueryType: queryType, FromCache: true}
	}

	result := s.translator.Translate(ctx, processed, sourceLang, targetLang)
	elapsed := s.now().Sub(start)

	errorType := ""
	outcome := "success"
	if !result.Success {
		outcome = "failure"
		if result.Error != nil {
			errorType = string(result.Error.Kind)
		}
	}
	s.monitor.Record(result.Success, elapsed, result.SourceLang, errorType, false)
	metrics.TranslationsTotal.WithLabelValues(outcome).Inc()
	metrics.TranslationLatencySeconds.Observe(elapsed.Seconds())

	out := &QueryResult{Result: result, QueryType: queryType}

	if result.Success {
		out.Evaluation = s.evaluator.Evaluate(ctx, processed, result.Translation, result.SourceLang)
		s.reporter.Append(out.Evaluation)
		metrics.LastQualityScore.Set(out.Evaluation.OverallScore)

		if err := s.cache.Set(ctx, key, result); err != nil {
			s.logger.Warn("failed to cache translation", zap.Error(err))
		}
	}

	s.logQuery(processed, sourceLang, targetLang, result, elapsed)

	s.logger.Info("query processed",
		zap.Bool("success", result.Success),
		zap.String("source_lang", result.SourceLang),
		zap.String("target_lang", result.TargetLang),
		zap.String("query_type", string(queryType)),
		zap.Duration("elapsed", elapsed),
	)

	return out
}

func (s *Service) logQuery(text, sourceLang, targetLang string, result *translator.Result, elapsed time.Duration) {
	entry := QueryLogEntry{
		Timestamp:      s.now(),
		TextPreview:    preview(text),
		SourceLang:     sourceLang,
		TargetLang:     targetLang,
		Success:        result.Success,
		ProcessingTime: elapsed,
	}
	if result.Error != nil {
		entry.Error = result.Error.Message
	}
	s.queries.Append(entry)
}

// Statistics aggregates the monitor, cache, query log, and a 24h quality
// report into one view.
func (s *Service) Statistics(ctx context.Context) Statistics {
	stats := Statistics{
		Performance:   s.monitor.Summary(),
		Languages:     s.monitor.LanguageStatistics(),
		RecentQueries: s.queries.Recent(10),
		QualityReport: s.reporter.GenerateReport(24),
	}

	if cacheStats, err := s.cache.Stats(ctx); err == nil {
		stats.Cache = cacheStats
	} else {
		s.logger.Warn("failed to read cache stats", zap.Error(err))
	}

	return stats
}

// Report generates a quality report over the trailing window. Nil means no
// evaluations fell inside the window.
func (s *Service) Report(windowHours int) *report.Report {
	return s.reporter.GenerateReport(windowHours)
}

// HealthCheck runs the translator canary.
func (s *Service) HealthCheck(ctx context.Context) translator.Health {
	return s.translator.HealthCheck(ctx)
}

// SupportedLanguages exposes the language table.
func (s *Service) SupportedLanguages() map[string]string {
	return s.translator.SupportedLanguages()
}

// EvictExpired sweeps the cache; used by the periodic cleanup loop.
func (s *Service) EvictExpired(ctx context.Context) (int, error) {
	return s.cache.EvictExpired(ctx)
}

// Reset clears monitor counters and the query log.
func (s *Service) Reset() {
	s.monitor.Reset()
	s.queries.Clear()
}
