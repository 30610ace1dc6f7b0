package service

import (
	"sync"
	"time"
	"unicode/utf8"
)

const (
	queryLogSize     = 1000
	previewMaxLength = 100
)

// QueryLogEntry is one processed query, retained for recent-activity views.
type QueryLogEntry struct {
	Timestamp      time.Time     `json:"timestamp"`
	TextPreview    string        `json:"text_preview"`
	SourceLang     string        `json:"source_lang"`
	TargetLang     string        `json:"target_lang"`
	Success        bool          `json:"success"`
	ProcessingTime time.Duration `json:"processing_time"`
	Error          string        `json:"error,omitempty"`
}

// queryLog is a fixed-capacity FIFO of recent queries. Safe for concurrent use.
type queryLog struct {
	mu    sync.Mutex
	buf   []QueryLogEntry
	head  int
	count int
}

func newQueryLog(capacity int) *queryLog {
	if capacity <= 0 {
		capacity = queryLogSize
	}
	return &queryLog{buf: make([]QueryLogEntry, capacity)}
}

func (l *queryLog) Append(entry QueryLogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.count < len(l.buf) {
		l.buf[(l.head+l.count)%len(l.buf)] = entry
		l.count++
		return
	}
	l.buf[l.head] = entry
	l.head = (l.head + 1) % len(l.buf)
}

// Recent returns up to limit entries, newest last.
func (l *queryLog) Recent(limit int) []QueryLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := min(limit, l.count)
	out := make([]QueryLogEntry, n)
	for i := 0; i < n; i++ {
		out[i] = l.buf[(l.head+l.count-n+i)%len(l.buf)]
	}
	return out
}

func (l *queryLog) Clear() {
	l.mu.Lock()
	l.head = 0
	l.count = 0
	l.mu.Unlock()
}

// preview truncates text to 100 runes with an ellipsis marker.
func preview(text string) string {
	if utf8.RuneCountInString(text) <= previewMaxLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:previewMaxLength]) + "..."
}
