// Package monitor keeps in-process performance counters for the translation
// pipeline. Prometheus covers scraping; this package backs the /v1/stats
// surface and the REPL, which need point-in-time aggregates.
package monitor

import (
	"sort"
	"sync"
	"time"
)

// Summary is a point-in-time aggregate of all recorded requests.
type Summary struct {
	UptimeSeconds       float64        `json:"uptime_seconds"`
	TotalRequests       int            `json:"total_requests"`
	SuccessRate         float64        `json:"success_rate"`
	AverageResponseTime float64        `json:"average_response_time"`
	MedianResponseTime  float64        `json:"median_response_time"`
	MinResponseTime     float64        `json:"min_response_time"`
	MaxResponseTime     float64        `json:"max_response_time"`
	RequestsPerMinute   float64        `json:"requests_per_minute"`
	LanguagesProcessed  map[string]int `json:"languages_processed"`
	CacheHitRate        float64        `json:"cache_hit_rate"`
	ErrorBreakdown      map[string]int `json:"error_breakdown"`
}

// LanguageStats describes one language's share of successful requests.
type LanguageStats struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// LanguageStatistics is the per-language breakdown.
type LanguageStatistics struct {
	TotalLanguages       int                      `json:"total_languages"`
	LanguageDistribution map[string]LanguageStats `json:"language_distribution"`
	MostCommonLanguage   string                   `json:"most_common_language,omitempty"`
}

// Monitor records request outcomes. Safe for concurrent use.
type Monitor struct {
	mu sync.Mutex

	totalRequests      int
	successfulRequests int
	failedRequests     int
	responseTimes      []float64
	languagesProcessed map[string]int
	errorsByType       map[string]int
	cacheHits          int
	cacheMisses        int
	startTime          time.Time

	now func() time.Time
}

func New() *Monitor {
	m := &Monitor{now: time.Now}
	m.resetLocked()
	return m
}

// Record registers one request. Response time and source language are only
// counted for successes; the cache flag is counted either way.
func (m *Monitor) Record(success bool, responseTime time.Duration, sourceLang, errorType string, cacheHit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalRequests++

	if success {
		m.successfulRequests++
		m.responseTimes = append(m.responseTimes, responseTime.Seconds())
		m.languagesProcessed[sourceLang]++
	} else {
		m.failedRequests++
		if errorType != "" {
			m.errorsByType[errorType]++
		}
	}

	if cacheHit {
		m.cacheHits++
	} else {
		m.cacheMisses++
	}
}

// Summary computes the aggregate view.
func (m *Monitor) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	uptime := m.now().Sub(m.startTime)

	s := Summary{
		UptimeSeconds:      uptime.Seconds(),
		TotalRequests:      m.totalRequests,
		SuccessRate:        float64(m.successfulRequests) / float64(max(m.totalRequests, 1)) * 100,
		RequestsPerMinute:  float64(m.totalRequests) / max(uptime.Minutes(), 1),
		LanguagesProcessed: copyCounts(m.languagesProcessed),
		CacheHitRate:       float64(m.cacheHits) / float64(max(m.cacheHits+m.cacheMisses, 1)) * 100,
		ErrorBreakdown:     copyCounts(m.errorsByType),
	}

	if len(m.responseTimes) > 0 {
		s.AverageResponseTime = meanOf(m.responseTimes)
		s.MedianResponseTime = medianOf(m.responseTimes)
		s.MinResponseTime = minOf(m.responseTimes)
		s.MaxResponseTime = maxOf(m.responseTimes)
	}

	return s
}

// LanguageStatistics computes the per-language percentage breakdown over
// successful requests.
func (m *Monitor) LanguageStatistics() LanguageStatistics {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, count := range m.languagesProcessed {
		total += count
	}

	stats := LanguageStatistics{
		TotalLanguages:       len(m.languagesProcessed),
		LanguageDistribution: make(map[string]LanguageStats, len(m.languagesProcessed)),
	}

	best := 0
	for lang, count := range m.languagesProcessed {
		stats.LanguageDistribution[lang] = LanguageStats{
			Count:      count,
			Percentage: float64(count) / float64(max(total, 1)) * 100,
		}
		if count > best {
			best = count
			stats.MostCommonLanguage = lang
		}
	}

	return stats
}

// Reset clears all counters and restarts the uptime clock.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
}

func (m *Monitor) resetLocked() {
	m.totalRequests = 0
	m.successfulRequests = 0
	m.failedRequests = 0
	m.responseTimes = nil
	m.languagesProcessed = make(map[string]int)
	m.errorsByType = make(map[string]int)
	m.cacheHits = 0
	m.cacheMisses = 0
	m.startTime = m.now()
}

func copyCounts(src map[string]int) map[string]int {
	dst := make(map[string]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func meanOf(values []float64) float64 {
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
