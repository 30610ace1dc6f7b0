package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"querybridge/internal/cache"
	"querybridge/internal/evaluate"
	"querybridge/internal/monitor"
	"querybridge/internal/report"
	"querybridge/internal/translator"
)

type fakeEngine struct {
	result *translator.Result
	health translator.Health
	calls  int
}

func (f *fakeEngine) Translate(ctx context.Context, text, sourceLang, targetLang string) *translator.Result {
	f.calls++
	return f.result
}

func (f *fakeEngine) HealthCheck(ctx context.Context) translator.Health {
	return f.health
}

func (f *fakeEngine) SupportedLanguages() map[string]string {
	return map[string]string{"en": "English", "es": "Spanish"}
}

type fakeEvaluator struct {
	calls int
}

func (f *fakeEvaluator) Evaluate(ctx context.Context, original, translation, sourceLang string) *evaluate.Result {
	f.calls++
	return &evaluate.Result{
		Timestamp:    time.Now(),
		SourceLang:   sourceLang,
		OverallScore: 8,
	}
}

func successResult() *translator.Result {
	return &translator.Result{
		Success:     true,
		Translation: "I need help with my account.",
		SourceLang:  "es",
		TargetLang:  "English",
		ModelUsed:   "test-model",
	}
}

func newTestService(t *testing.T, engine TranslationEngine, ev QualityEvaluator) (*Service, *monitor.Monitor, *report.Reporter) {
	t.Helper()
	mon := monitor.New()
	rep := report.New(mon)
	svc := New(engine, ev, mon, rep, cache.NewMemoryCache(time.Hour, 100), Options{}, zaptest.NewLogger(t))
	return svc, mon, rep
}

func TestProcessQuerySuccess(t *testing.T) {
	engine := &fakeEngine{result: successResult()}
	ev := &fakeEvaluator{}
	svc, mon, rep := newTestService(t, engine, ev)

	out := svc.ProcessQuery(context.Background(), "Necesito ayuda con mi cuenta", "auto", "")

	if !out.Success {
		t.Fatalf("expected success, got %+v", out.Result)
	}
	if out.FromCache {
		t.Fatalf("first query cannot be a cache hit")
	}
	if out.QueryType == "" {
		t.Fatalf("expected a query type classification")
	}
	if out.Evaluation == nil || out.Evaluation.OverallScore != 8 {
		t.Fatalf("expected evaluation attached, got %+v", out.Evaluation)
	}
	if ev.calls != 1 {
		t.Fatalf("evaluator calls = %d, want 1", ev.calls)
	}
	if rep.HistoryLen() != 1 {
		t.Fatalf("evaluation must be appended to the reporter")
	}
	if s := mon.Summary(); s.TotalRequests != 1 || s.SuccessRate != 100 {
		t.Fatalf("unexpected monitor summary: %+v", s)
	}
}

func TestProcessQueryCacheHit(t *testing.T) {
	engine := &fakeEngine{result: successResult()}
	ev := &fakeEvaluator{}
	svc, mon, _ := newTestService(t, engine, ev)

	first := svc.ProcessQuery(context.Background(), "Necesito ayuda", "es", "English")
	second := svc.ProcessQuery(context.Background(), "Necesito ayuda", "es", "English")

	if first.FromCache {
		t.Fatalf("first query must miss")
	}
	if !second.FromCache {
		t.Fatalf("second identical query must hit the cache")
	}
	if second.Translation != first.Translation {
		t.Fatalf("cache hit must return the stored translation")
	}
	if engine.calls != 1 {
		t.Fatalf("engine calls = %d, want 1", engine.calls)
	}
	// Cache hits are not re-evaluated.
	if ev.calls != 1 {
		t.Fatalf("evaluator calls = %d, want 1", ev.calls)
	}
	if s := mon.Summary(); s.CacheHitRate != 50 {
		t.Fatalf("cache hit rate = %v, want 50", s.CacheHitRate)
	}
}

func TestProcessQueryFailure(t *testing.T) {
	engine := &fakeEngine{result: &translator.Result{
		Success:    false,
		SourceLang: "fr",
		TargetLang: "English",
		Error:      &translator.ResultError{Kind: translator.KindExternalService, Message: "upstream down"},
	}}
	ev := &fakeEvaluator{}
	svc, mon, rep := newTestService(t, engine, ev)

	out := svc.ProcessQuery(context.Background(), "Bonjour le monde", "fr", "English")

	if out.Success {
		t.Fatalf("expected failure")
	}
	if out.Evaluation != nil {
		t.Fatalf("failed translations are not evaluated")
	}
	if ev.calls != 0 {
		t.Fatalf("evaluator must not run on failure")
	}
	if rep.HistoryLen() != 0 {
		t.Fatalf("nothing should reach the reporter on failure")
	}
	if s := mon.Summary(); s.ErrorBreakdown["external_service"] != 1 {
		t.Fatalf("error breakdown missing kind: %+v", s.ErrorBreakdown)
	}

	// Failures are never cached; a retry consults the engine again.
	svc.ProcessQuery(context.Background(), "Bonjour le monde", "fr", "English")
	if engine.calls != 2 {
		t.Fatalf("engine calls = %d, want 2", engine.calls)
	}
}

func TestProcessQueryDefaults(t *testing.T) {
	engine := &fakeEngine{result: successResult()}
	svc, _, _ := newTestService(t, engine, &fakeEvaluator{})

	out := svc.ProcessQuery(context.Background(), "Necesito ayuda", "", "")
	if !out.Success {
		t.Fatalf("expected success")
	}
	// Empty source/target default to auto/English without erroring.
	if out.TargetLang != "English" {
		t.Fatalf("unexpected target: %q", out.TargetLang)
	}
}

func TestQueryLogPreviewTruncation(t *testing.T) {
	engine := &fakeEngine{result: successResult()}
	svc, _, _ := newTestService(t, engine, &fakeEvaluator{})

	long := strings.Repeat("palabra ", 40) // well over 100 chars, no "." boundary
	svc.ProcessQuery(context.Background(), long, "es", "English")

	stats := svc.Statistics(context.Background())
	if len(stats.RecentQueries) != 1 {
		t.Fatalf("expected one logged query, got %d", len(stats.RecentQueries))
	}
	previewText := stats.RecentQueries[0].TextPreview
	if !strings.HasSuffix(previewText, "...") {
		t.Fatalf("long preview must end with ellipsis: %q", previewText)
	}
	if len([]rune(previewText)) != previewMaxLength+3 {
		t.Fatalf("preview length = %d, want %d", len([]rune(previewText)), previewMaxLength+3)
	}
}

func TestStatistics(t *testing.T) {
	engine := &fakeEngine{result: successResult()}
	svc, _, _ := newTestService(t, engine, &fakeEvaluator{})

	svc.ProcessQuery(context.Background(), "Necesito ayuda", "es", "English")

	stats := svc.Statistics(context.Background())
	if stats.Performance.TotalRequests != 1 {
		t.Fatalf("performance missing request: %+v", stats.Performance)
	}
	if stats.Cache.TotalEntries != 1 {
		t.Fatalf("cache stats missing entry: %+v", stats.Cache)
	}
	if stats.QualityReport == nil || stats.QualityReport.TotalEvaluations != 1 {
		t.Fatalf("quality report missing evaluation: %+v", stats.QualityReport)
	}
	if len(stats.RecentQueries) != 1 {
		t.Fatalf("recent queries = %d, want 1", len(stats.RecentQueries))
	}
}

func TestReset(t *testing.T) {
	engine := &fakeEngine{result: successResult()}
	svc, mon, _ := newTestService(t, engine, &fakeEvaluator{})

	svc.ProcessQuery(context.Background(), "Necesito ayuda", "es", "English")
	svc.Reset()

	if s := mon.Summary(); s.TotalRequests != 0 {
		t.Fatalf("reset did not clear monitor: %+v", s)
	}
	if q := svc.Statistics(context.Background()); len(q.RecentQueries) != 0 {
		t.Fatalf("reset did not clear query log")
	}
}

func TestHealthPassthrough(t *testing.T) {
	engine := &fakeEngine{
		result: successResult(),
		health: translator.Health{Status: "healthy", Model: "test-model"},
	}
	svc, _, _ := newTestService(t, engine, &fakeEvaluator{})

	if h := svc.HealthCheck(context.Background()); h.Status != "healthy" {
		t.Fatalf("unexpected health: %+v", h)
	}
	if langs := svc.SupportedLanguages(); langs["es"] != "Spanish" {
		t.Fatalf("unexpected languages: %v", langs)
	}
}
