package report

import (
	"math"
	"strings"
	"testing"
	"time"

	"querybridge/internal/evaluate"
	"querybridge/internal/monitor"
	"querybridge/internal/translator"
)

func evalAt(ts time.Time, lang string, overall float64) *evaluate.Result {
	return &evaluate.Result{
		Timestamp:    ts,
		SourceLang:   lang,
		OverallScore: overall,
		Length:       evaluate.LengthAnalysis{Score: overall},
		Judge:        translator.JudgeScores{Accuracy: overall, Fluency: overall},
		Language:     evaluate.LanguageCheck{IsEnglish: true, Score: 10},
	}
}

func TestRingFIFO(t *testing.T) {
	r := newRing[int](3)
	for i := 1; i <= 5; i++ {
		r.Append(i)
	}

	if r.Len() != 3 {
		t.Fatalf("len = %d, want 3", r.Len())
	}
	got := r.Snapshot()
	want := []int{3, 4, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("snapshot = %v, want %v", got, want)
		}
	}
}

func TestGenerateReportEmptyHistory(t *testing.T) {
	r := New(monitor.New())
	if report := r.GenerateReport(24); report != nil {
		t.Fatalf("empty history must yield the nil sentinel, got %+v", report)
	}
}

func TestGenerateReportWindowFiltering(t *testing.T) {
	r := New(monitor.New())
	current := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return current }

	r.Append(evalAt(current.Add(-48*time.Hour), "es", 9))
	r.Append(evalAt(current.Add(-1*time.Hour), "es", 5))

	report := r.GenerateReport(24)
	if report == nil {
		t.Fatalf("expected a report")
	}
	if report.TotalEvaluations != 1 {
		t.Fatalf("stale entry must be filtered, got %d evaluations", report.TotalEvaluations)
	}
	if report.OverallQuality.AverageScore != 5 {
		t.Fatalf("average = %v, want 5", report.OverallQuality.AverageScore)
	}
}

func TestOverallQualityStatistics(t *testing.T) {
	r := New(monitor.New())
	current := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return current }

	for i, score := range []float64{4, 6, 8} {
		r.Append(evalAt(current.Add(time.Duration(-3+i)*time.Minute), "es", score))
	}

	report := r.GenerateReport(24)
	q := report.OverallQuality
	if q.AverageScore != 6 || q.MedianScore != 6 || q.MinScore != 4 || q.MaxScore != 8 {
		t.Fatalf("unexpected quality stats: %+v", q)
	}
	if math.Abs(q.StandardDeviation-2) > 1e-9 {
		t.Fatalf("stdev = %v, want 2", q.StandardDeviation)
	}
}

func TestStdevSingleSampleIsZero(t *testing.T) {
	r := New(monitor.New())
	current := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return current }
	r.Append(evalAt(current.Add(-time.Minute), "es", 7))

	report := r.GenerateReport(24)
	if report.OverallQuality.StandardDeviation != 0 {
		t.Fatalf("single sample stdev must be 0, got %v", report.OverallQuality.StandardDeviation)
	}
}

func TestLanguageAnalysis(t *testing.T) {
	r := New(monitor.New())
	current := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return current }

	r.Append(evalAt(current.Add(-3*time.Minute), "es", 8))
	r.Append(evalAt(current.Add(-2*time.Minute), "es", 6))
	r.Append(evalAt(current.Add(-1*time.Minute), "fr", 4))

	report := r.GenerateReport(24)
	es := report.LanguageAnalysis["es"]
	if es.Count != 2 || es.AverageScore != 7 || es.MedianScore != 7 {
		t.Fatalf("unexpected es analysis: %+v", es)
	}
	if report.LanguageAnalysis["fr"].Count != 1 {
		t.Fatalf("unexpected fr analysis: %+v", report.LanguageAnalysis["fr"])
	}
}

func TestTrendImproving(t *testing.T) {
	scores := []float64{3, 4, 5, 6, 7}
	analysis := analyzeTrends(scores)

	if analysis.Trend != TrendImproving {
		t.Fatalf("trend = %q, want improving", analysis.Trend)
	}
	if analysis.ScoreChange != 4 {
		t.Fatalf("score change = %v, want 4", analysis.ScoreChange)
	}
	if analysis.FirstScore != 3 || analysis.LatestScore != 7 {
		t.Fatalf("first/latest = %v/%v", analysis.FirstScore, analysis.LatestScore)
	}
}

func TestTrendDeclining(t *testing.T) {
	if got := analyzeTrends([]float64{9, 8, 7, 5, 4, 3}); got.Trend != TrendDeclining {
		t.Fatalf("trend = %q, want declining", got.Trend)
	}
}

func TestTrendStable(t *testing.T) {
	if got := analyzeTrends([]float64{6, 6.2, 5.9, 6.1, 6, 6.1}); got.Trend != TrendStable {
		t.Fatalf("trend = %q, want stable", got.Trend)
	}
}

func TestTrendInsufficientData(t *testing.T) {
	one := analyzeTrends([]float64{7})
	if one.Trend != TrendInsufficientData {
		t.Fatalf("trend = %q, want insufficient_data", one.Trend)
	}
	if one.FirstScore != 7 || one.LatestScore != 7 || one.ScoreChange != 0 {
		t.Fatalf("single sample still reports scores: %+v", one)
	}

	// Under 5 samples the delta is reported but no trend is classified.
	four := analyzeTrends([]float64{3, 4, 5, 6})
	if four.Trend != TrendInsufficientData {
		t.Fatalf("trend = %q, want insufficient_data", four.Trend)
	}
	if four.ScoreChange != 3 {
		t.Fatalf("score change = %v, want 3", four.ScoreChange)
	}
}

func TestExportText(t *testing.T) {
	r := New(monitor.New())
	current := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return current }
	r.Append(evalAt(current.Add(-time.Minute), "es", 7.5))

	text := ExportText(r.GenerateReport(24))

	for _, want := range []string{
		"=== Translation Quality Report ===",
		"Time Range: 24 hours",
		"Total Evaluations: 1",
		"Average Score: 7.50/10",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("text export missing %q:\n%s", want, text)
		}
	}
}

func TestExportTextNoData(t *testing.T) {
	text := ExportText(nil)
	if !strings.Contains(text, "No evaluations found") {
		t.Fatalf("expected no-data message, got:\n%s", text)
	}
}

func TestExportJSON(t *testing.T) {
	r := New(monitor.New())
	current := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return current }
	r.Append(evalAt(current.Add(-time.Minute), "es", 7.5))

	out, err := ExportJSON(r.GenerateReport(24))
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(out, `"total_evaluations": 1`) {
		t.Fatalf("unexpected JSON:\n%s", out)
	}
}

func TestHistoryBounded(t *testing.T) {
	r := New(monitor.New())
	current := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return current }

	for i := 0; i < 1100; i++ {
		r.Append(evalAt(current, "es", 5))
	}
	if r.HistoryLen() != 1000 {
		t.Fatalf("history len = %d, want 1000", r.HistoryLen())
	}
}
