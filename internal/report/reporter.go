// Package report aggregates evaluation history into windowed quality
// reports with trend analysis.
package report

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"querybridge/internal/evaluate"
	"querybridge/internal/monitor"
)

const defaultHistorySize = 1000

// Trend classifications.
const (
	TrendImproving        = "improving"
	TrendDeclining        = "declining"
	TrendStable           = "stable"
	TrendInsufficientData = "insufficient_data"
)

// OverallQuality summarizes overall scores within the window.
type OverallQuality struct {
	AverageScore      float64 `json:"average_score"`
	MedianScore       float64 `json:"median_score"`
	MinScore          float64 `json:"min_score"`
	MaxScore          float64 `json:"max_score"`
	StandardDeviation float64 `json:"standard_deviation"`
}

// MetricBreakdown averages the individual sub-scores within the window.
type MetricBreakdown struct {
	LengthAnalysisAvg float64 `json:"length_analysis_avg"`
	LLMAccuracyAvg    float64 `json:"llm_accuracy_avg"`
	LLMFluencyAvg     float64 `json:"llm_fluency_avg"`
	LanguageCheckAvg  float64 `json:"language_check_avg"`
}

// LanguageQuality summarizes one source language within the window.
type LanguageQuality struct {
	Count        int     `json:"count"`
	AverageScore float64 `json:"average_score"`
	MedianScore  float64 `json:"median_score"`
}

// TrendAnalysis classifies the quality direction over the window.
type TrendAnalysis struct {
	Trend       string  `json:"trend"`
	LatestScore float64 `json:"latest_score"`
	FirstScore  float64 `json:"first_score"`
	ScoreChange float64 `json:"score_change"`
}

// Report is a windowed quality report. GenerateReport returns nil instead
// of a zero-filled Report when the window is empty; callers must branch.
type Report struct {
	TimeRangeHours   int                        `json:"time_range_hours"`
	TotalEvaluations int                        `json:"total_evaluations"`
	OverallQuality   OverallQuality             `json:"overall_quality"`
	MetricBreakdown  MetricBreakdown            `json:"metric_breakdown"`
	LanguageAnalysis map[string]LanguageQuality `json:"language_analysis"`
	Performance      monitor.Summary            `json:"performance_summary"`
	Trends           TrendAnalysis              `json:"quality_trends"`
}

// Reporter keeps a bounded evaluation history. Safe for concurrent use.
type Reporter struct {
	mu      sync.Mutex
	history *ring[*evaluate.Result]
	monitor *monitor.Monitor
	now     func() time.Time
}

func New(mon *monitor.Monitor) *Reporter {
	return &Reporter{
		history: newRing[*evaluate.Result](defaultHistorySize),
		monitor: mon,
		now:     time.Now,
	}
}

// Append adds an evaluation to the history, dropping the oldest past 1000.
func (r *Reporter) Append(result *evaluate.Result) {
	r.mu.Lock()
	r.history.Append(result)
	r.mu.Unlock()
}

// HistoryLen reports the number of retained evaluations.
func (r *Reporter) HistoryLen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.history.Len()
}

// GenerateReport aggregates evaluations within the trailing window.
// Returns nil when the window holds no evaluations.
func (r *Reporter) GenerateReport(windowHours int) *Report {
	r.mu.Lock()
	snapshot := r.history.Snapshot()
	r.mu.Unlock()

	cutoff := r.now().Add(-time.Duration(windowHours) * time.Hour)
	recent := make([]*evaluate.Result, 0, len(snapshot))
	for _, eval := range snapshot {
		if eval.Timestamp.After(cutoff) {
			recent = append(recent, eval)
		}
	}

	if len(recent) == 0 {
		return nil
	}

	sort.Slice(recent, func(i, j int) bool {
		return recent[i].Timestamp.Before(recent[j].Timestamp)
	})

	scores := make([]float64, len(recent))
	for i, eval := range recent {
		scores[i] = eval.OverallScore
	}

	report := &Report{
		TimeRangeHours:   windowHours,
		TotalEvaluations: len(recent),
		OverallQuality: OverallQuality{
			AverageScore:      meanOf(scores),
			MedianScore:       medianOf(scores),
			MinScore:          minOf(scores),
			MaxScore:          maxOf(scores),
			StandardDeviation: stdevOf(scores),
		},
		MetricBreakdown:  breakdownOf(recent),
		LanguageAnalysis: analyzeByLanguage(recent),
		Trends:           analyzeTrends(scores),
	}
	if r.monitor != nil {
		report.Performance = r.monitor.Summary()
	}

	return report
}

func breakdownOf(evals []*evaluate.Result) MetricBreakdown {
	length := make([]float64, len(evals))
	accuracy := make([]float64, len(evals))
	fluency := make([]float64, len(evals))
	language := make([]float64, len(evals))
	for i, eval := range evals {
		length[i] = eval.Length.Score
		accuracy[i] = eval.Judge.Accuracy
		fluency[i] = eval.Judge.Fluency
		language[i] = eval.Language.Score
	}
	return MetricBreakdown{
		LengthAnalysisAvg: meanOf(length),
		LLMAccuracyAvg:    meanOf(accuracy),
		LLMFluencyAvg:     meanOf(fluency),
		LanguageCheckAvg:  meanOf(language),
	}
}

func analyzeByLanguage(evals []*evaluate.Result) map[string]LanguageQuality {
	groups := make(map[string][]float64)
	for _, eval := range evals {
		groups[eval.SourceLang] = append(groups[eval.SourceLang], eval.OverallScore)
	}

	out := make(map[string]LanguageQuality, len(groups))
	for lang, scores := range groups {
		out[lang] = LanguageQuality{
			Count:        len(scores),
			AverageScore: meanOf(scores),
			MedianScore:  medianOf(scores),
		}
	}
	return out
}

// analyzeTrends compares early and recent moving averages. Fewer than 5
// samples cannot produce a stable signal and classify as insufficient data,
// though the first/latest delta is still reported.
func analyzeTrends(scores []float64) TrendAnalysis {
	analysis := TrendAnalysis{Trend: TrendInsufficientData}
	if len(scores) == 0 {
		return analysis
	}

	analysis.FirstScore = scores[0]
	analysis.LatestScore = scores[len(scores)-1]
	if len(scores) >= 2 {
		analysis.ScoreChange = analysis.LatestScore - analysis.FirstScore
	}

	if len(scores) < 5 {
		return analysis
	}

	windowSize := min(5, len(scores)/3)
	movingAverages := make([]float64, 0, len(scores)-windowSize+1)
	for i := windowSize - 1; i < len(scores); i++ {
		movingAverages = append(movingAverages, meanOf(scores[i-windowSize+1:i+1]))
	}

	if len(movingAverages) < 2 {
		return analysis
	}

	recentAvg := meanOf(lastN(movingAverages, 3))
	earlyAvg := meanOf(firstN(movingAverages, 3))

	switch {
	case recentAvg > earlyAvg+0.5:
		analysis.Trend = TrendImproving
	case recentAvg < earlyAvg-0.5:
		analysis.Trend = TrendDeclining
	default:
		analysis.Trend = TrendStable
	}
	return analysis
}

// ExportJSON renders the report as indented JSON.
func ExportJSON(report *Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	return string(data), nil
}

// ExportText renders the report as human-readable text. A nil report
// renders the no-data message.
func ExportText(report *Report) string {
	var b strings.Builder
	b.WriteString("=== Translation Quality Report ===\n\n")

	if report == nil {
		b.WriteString("No evaluations found in the specified time range\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Time Range: %d hours\n", report.TimeRangeHours)
	fmt.Fprintf(&b, "Total Evaluations: %d\n\n", report.TotalEvaluations)

	overall := report.OverallQuality
	b.WriteString("Overall Quality:\n")
	fmt.Fprintf(&b, "  Average Score: %.2f/10\n", overall.AverageScore)
	fmt.Fprintf(&b, "  Median Score: %.2f/10\n", overall.MedianScore)
	fmt.Fprintf(&b, "  Range: %.2f - %.2f\n\n", overall.MinScore, overall.MaxScore)

	metrics := report.MetricBreakdown
	b.WriteString("Quality Metrics:\n")
	fmt.Fprintf(&b, "  Length Analysis: %.2f/10\n", metrics.LengthAnalysisAvg)
	fmt.Fprintf(&b, "  LLM Accuracy: %.2f/10\n", metrics.LLMAccuracyAvg)
	fmt.Fprintf(&b, "  LLM Fluency: %.2f/10\n", metrics.LLMFluencyAvg)
	fmt.Fprintf(&b, "  Language Check: %.2f/10\n\n", metrics.LanguageCheckAvg)

	perf := report.Performance
	b.WriteString("Performance:\n")
	fmt.Fprintf(&b, "  Success Rate: %.1f%%\n", perf.SuccessRate)
	fmt.Fprintf(&b, "  Average Response Time: %.2fs\n", perf.AverageResponseTime)
	fmt.Fprintf(&b, "  Cache Hit Rate: %.1f%%\n\n", perf.CacheHitRate)

	return b.String()
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func medianOf(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func minOf(values []float64) float64 {
	out := values[0]
	for _, v := range values[1:] {
		if v < out {
			out = v
		}
	}
	return out
}

func maxOf(values []float64) float64 {
	out := values[0]
	for _, v := range values[1:] {
		if v > out {
			out = v
		}
	}
	return out
}

// stdevOf is the sample standard deviation, 0 for fewer than 2 samples.
func stdevOf(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := meanOf(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func firstN(values []float64, n int) []float64 {
	if len(values) < n {
		return values
	}
	return values[:n]
}

func lastN(values []float64, n int) []float64 {
	if len(values) < n {
		return values
	}
	return values[len(values)-n:]
}
