package preprocess

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestClean(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Hello   world!!!", "Hello world!"},
		{"What???", "What?"},
		{"Done...", "Done."},
		{"Wait?!", "Wait?!"}, // mixed marks are not a repeat run
		{"¿Qué??? ¡Hola!!!", "¿Qué? ¡Hola!"},
		{"“quoted” and ‘single’", `"quoted" and 'single'`},
		{"", ""},
		{"   ", ""},
	}

	for _, tc := range cases {
		if got := Clean(tc.in); got != tc.want {
			t.Errorf("Clean(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncateShortTextUnchanged(t *testing.T) {
	if got := Truncate("short", 20); got != "short" {
		t.Fatalf("expected unchanged text, got %q", got)
	}
}

func TestTruncateSentenceBoundary(t *testing.T) {
	text := "First part. Second part. Third part that is quite long."
	got := Truncate(text, 26)

	if got != "First part. Second part." {
		t.Fatalf("expected sentence-boundary truncation, got %q", got)
	}
}

func TestTruncateHardFallback(t *testing.T) {
	text := strings.Repeat("x", 100)
	got := Truncate(text, 20)

	if len(got) > 23 {
		t.Fatalf("truncated text too long: %d chars", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis suffix, got %q", got)
	}
}

func TestTruncateCountsRunesNotBytes(t *testing.T) {
	// 9 characters, 27 bytes: within a 10-character limit it must pass through.
	text := "你好我需要帮助谢谢"
	if got := Truncate(text, 10); got != text {
		t.Fatalf("expected unchanged text, got %q", got)
	}
}

func TestTruncateKeepsRuneBoundaries(t *testing.T) {
	got := Truncate(strings.Repeat("é", 20), 10)

	if !utf8.ValidString(got) {
		t.Fatalf("truncated text is not valid UTF-8: %q", got)
	}
	if got != strings.Repeat("é", 7)+"..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
}

func TestTruncateCJKHardFallback(t *testing.T) {
	got := Truncate("这是一个没有句号分隔的很长的查询文本", 10)

	if !utf8.ValidString(got) {
		t.Fatalf("truncated text is not valid UTF-8: %q", got)
	}
	if utf8.RuneCountInString(got) != 10 {
		t.Fatalf("expected 10 characters, got %d (%q)", utf8.RuneCountInString(got), got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis suffix, got %q", got)
	}
}

func TestTruncateTinyLimit(t *testing.T) {
	if got := Truncate("hello world", 2); got != "..." {
		t.Fatalf("expected bare ellipsis for tiny limit, got %q", got)
	}
}

func TestClassifyQueryType(t *testing.T) {
	cases := []struct {
		in   string
		want QueryType
	}{
		{"I need help with my account login", QueryCustomerSupport},
		{"Hello, how are you?", QueryGreeting},
		{"What is your refund policy?", QueryCustomerSupport}, // "refund" outranks "what"
		{"What time do you open?", QueryQuestion},
		{"The sky is blue today", QueryGeneral},
		{"hello, I need help", QueryCustomerSupport}, // support list checked first
	}

	for _, tc := range cases {
		if got := ClassifyQueryType(tc.in); got != tc.want {
			t.Errorf("ClassifyQueryType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPreprocess(t *testing.T) {
	got := Preprocess("  Hello   world!!!", 100)
	if got != "Hello world!" {
		t.Fatalf("Preprocess = %q", got)
	}
}
