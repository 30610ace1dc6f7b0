// Package preprocess cleans, truncates, and classifies customer queries
// before they reach the translation pipeline.
package preprocess

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// QueryType labels the rough intent of a query.
type QueryType string

const (
	QueryCustomerSupport QueryType = "customer_support"
	QueryGreeting        QueryType = "greeting"
	QueryQuestion        QueryType = "question"
	QueryGeneral         QueryType = "general"
)

// repeatedPunct matches runs of the same sentence mark. RE2 has no
// backreferences, so each mark gets its own alternative; mixed runs like
// "?!" stay untouched.
var (
	repeatedPunct = regexp.MustCompile(`!{2,}|\?{2,}|\.{2,}`)
	doubleQuotes  = regexp.MustCompile("[“”„]")
	singleQuotes  = regexp.MustCompile("[‘’]")
)

// Classification vocabularies, checked in priority order. A query containing
// both "help" and "hello" classifies as customer_support because that list
// is tested first.
var (
	supportTerms = []string{
		"help", "support", "problem", "issue", "error", "broken", "not working",
		"refund", "return", "cancel", "order", "delivery", "shipping",
		"account", "login", "password", "billing", "payment",
	}
	greetingTerms = []string{
		"hello", "hi", "hey", "good morning", "good afternoon", "good evening",
		"how are you", "what's up",
	}
	questionTerms = []string{
		"what", "how", "when", "where", "why", "who", "which", "can you",
		"could you", "would you", "do you", "are you", "is it",
	}
)

// Clean normalizes whitespace, collapses repeated sentence punctuation, and
// straightens curly quotes.
func Clean(text string) string {
	if text == "" {
		return ""
	}

	cleaned := strings.Join(strings.Fields(text), " ")
	cleaned = repeatedPunct.ReplaceAllStringFunc(cleaned, func(run string) string {
		return run[:1]
	})
	cleaned = doubleQuotes.ReplaceAllString(cleaned, `"`)
	cleaned = singleQuotes.ReplaceAllString(cleaned, "'")

	return strings.TrimSpace(cleaned)
}

// Truncate limits text to maxLen characters, preferring sentence boundaries.
// When no full sentence fits, it hard-truncates and appends an ellipsis.
// Lengths are counted in runes, not bytes, so multibyte scripts get the full
// configured budget and cuts never split a character.
func Truncate(text string, maxLen int) string {
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}

	sentences := strings.Split(text, ". ")
	var truncated strings.Builder
	used := 0

	for _, sentence := range sentences {
		n := utf8.RuneCountInString(sentence)
		if used+n+2 <= maxLen {
			truncated.WriteString(sentence)
			truncated.WriteString(". ")
			used += n + 2
		} else {
			break
		}
	}

	if used > 0 {
		return strings.TrimSpace(truncated.String())
	}

	keep := max(maxLen-3, 0)
	return string([]rune(text)[:keep]) + "..."
}

// ClassifyQueryType assigns a QueryType by scanning for known vocabulary,
// support terms first, then greetings, then question words.
func ClassifyQueryType(text string) QueryType {
	lower := strings.ToLower(text)

	if containsAny(lower, supportTerms) {
		return QueryCustomerSupport
	}
	if containsAny(lower, greetingTerms) {
		return QueryGreeting
	}
	if containsAny(lower, questionTerms) {
		return QueryQuestion
	}
	return QueryGeneral
}

// Preprocess is the pipeline entry point: clean then truncate.
func Preprocess(text string, maxLen int) string {
	return Truncate(Clean(text), maxLen)
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
