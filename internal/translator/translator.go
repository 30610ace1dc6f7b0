// Package translator adapts the upstream chat-completion model into a
// structured translation service. Failures are always returned as data on
// the Result, never as faults crossing the package boundary.
package translator

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"querybridge/internal/detect"
	"querybridge/internal/llm"
)

// detectionConfidenceFloor is the minimum confidence accepted from the
// ranked detector before falling back to the simple detector.
const detectionConfidenceFloor = 0.3

// boilerplatePrefixes are lead-ins models tend to add despite instructions.
var boilerplatePrefixes = []string{
	"Translation:",
	"English Translation:",
	"Translated text:",
	"The translation is:",
	"Here is the translation:",
	"Translation to English:",
}

// terminalPunctuation covers ASCII and CJK sentence-ending marks.
var terminalPunctuation = []string{".", "!", "?", "。", "！", "？"}

// LanguageDetector is the subset of the detector used here; it exists so
// tests can substitute a deterministic implementation.
type LanguageDetector interface {
	Detect(text string) (string, bool)
	DetectWithConfidence(text string) (*detect.Detection, bool)
}

// Options tune the translator adapter.
type Options struct {
	Model          string
	MaxQueryLength int
	Temperature    float32
	MaxTokens      int
	Register       Register
}

func (o Options) withDefaults() Options {
	if o.MaxQueryLength <= 0 {
		o.MaxQueryLength = 1000
	}
	if o.Temperature == 0 {
		// Low temperature for consistent translations.
		o.Temperature = 0.1
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = 1000
	}
	if o.Register == "" {
		o.Register = RegisterSupport
	}
	return o
}

// Translator turns free text into a target language via the upstream model.
type Translator struct {
	llm      llm.Client
	detector LanguageDetector
	opts     Options
	logger   *zap.Logger
}

// New creates a Translator. The llm client and detector are required.
func New(client llm.Client, detector LanguageDetector, opts Options, logger *zap.Logger) *Translator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Translator{
		llm:      client,
		detector: detector,
		opts:     opts.withDefaults(),
		logger:   logger.Named("translator"),
	}
}

// Translate translates text from sourceLang ("auto" to detect) into
// targetLang (ISO code or display name; default English handled upstream).
// The returned Result always carries a concrete source language and elapsed
// time; external faults come back as Success=false, never as an error.
func (t *Translator) Translate(ctx context.Context, text, sourceLang, targetLang string) *Result {
	start := time.Now()
	targetName := targetDisplayName(targetLang)

	if strings.TrimSpace(text) == "" {
		return failure(KindValidation, "empty text", sourceLang, targetName, start)
	}
	if utf8.RuneCountInString(text) > t.opts.MaxQueryLength {
		msg := fmt.Sprintf("text too long (max %d characters)", t.opts.MaxQueryLength)
		return failure(KindValidation, msg, sourceLang, targetName, start)
	}

	detected := false
	if sourceLang == "auto" {
		sourceLang = t.resolveSourceLanguage(text)
		detected = true
	}

	// Already in the target language: skip the external call entirely.
	if sourceLang == "en" && targetName == "English" {
		return &Result{
			Success:        true,
			Translation:    strings.TrimSpace(text),
			SourceLang:     "en",
			TargetLang:     targetName,
			Detected:       detected,
			ProcessingTime: time.Since(start),
			Note:           "text was already in English",
		}
	}

	translation, err := t.translateWithLLM(ctx, text, sourceLang, targetName)
	if err != nil {
		t.logger.Error("translation failed",
			zap.String("source_lang", sourceLang),
			zap.String("target_lang", targetName),
			zap.Error(err),
		)
		return failure(KindExternalService, err.Error(), sourceLang, targetName, start)
	}

	t.logger.Info("translation completed",
		zap.String("source_lang", sourceLang),
		zap.String("target_lang", targetName),
		zap.Duration("duration", time.Since(start)),
	)

	return &Result{
		Success:        true,
		Translation:    translation,
		SourceLang:     sourceLang,
		TargetLang:     targetName,
		Detected:       detected,
		ProcessingTime: time.Since(start),
		ModelUsed:      t.opts.Model,
	}
}

// resolveSourceLanguage guarantees a concrete language for an "auto" hint:
// confidence-aware detection, then simple detection, then English. Detection
// failures degrade silently; they never fail the request.
func (t *Translator) resolveSourceLanguage(text string) string {
	if det, ok := t.detector.DetectWithConfidence(text); ok && det.Confidence > detectionConfidenceFloor {
		t.logger.Info("auto-detected language",
			zap.String("language", det.Language),
			zap.Float64("confidence", det.Confidence),
			zap.Bool("corrected", det.Corrected),
		)
		return det.Language
	}

	if code, ok := t.detector.Detect(text); ok {
		t.logger.Info("fallback detection", zap.String("language", code))
		return code
	}

	t.logger.Info("detection unavailable, defaulting to english",
		zap.String("error_kind", string(KindDetectionUnavailable)),
	)
	return "en"
}

func (t *Translator) translateWithLLM(ctx context.Context, text, sourceLang, targetName string) (string, error) {
	sourceName := detect.LanguageName(sourceLang)
	prompt := buildPrompt(t.opts.Register, sourceName, targetName, text)

	resp, err := t.llm.ChatCompletion(ctx, &llm.ChatRequest{
		Model: t.opts.Model,
		Messages: []llm.ChatMessage{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: prompt},
		},
		Temperature: t.opts.Temperature,
		MaxTokens:   t.opts.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("translation service error: %w", err)
	}

	return postProcess(resp.Text()), nil
}

// postProcess strips model boilerplate, collapses whitespace, and ensures a
// terminal punctuation mark.
func postProcess(translation string) string {
	cleaned := strings.TrimSpace(translation)

	lower := strings.ToLower(cleaned)
	for _, prefix := range boilerplatePrefixes {
		if strings.HasPrefix(lower, strings.ToLower(prefix)) {
			cleaned = strings.TrimSpace(cleaned[len(prefix):])
			break
		}
	}

	cleaned = strings.Join(strings.Fields(cleaned), " ")

	if cleaned != "" && !hasTerminalPunctuation(cleaned) {
		cleaned += "."
	}

	return cleaned
}

func hasTerminalPunctuation(s string) bool {
	for _, mark := range terminalPunctuation {
		if strings.HasSuffix(s, mark) {
			return true
		}
	}
	return false
}

// targetDisplayName maps an ISO code to its display name; anything else is
// taken as a display name already.
func targetDisplayName(target string) string {
	trimmed := strings.TrimSpace(target)
	if trimmed == "" {
		return "English"
	}
	if name, ok := detect.SupportedLanguages()[strings.ToLower(trimmed)]; ok {
		return name
	}
	// Normalize capitalization of known names ("english" -> "English").
	for _, name := range detect.SupportedLanguages() {
		if strings.EqualFold(name, trimmed) {
			return name
		}
	}
	return trimmed
}

// SupportedLanguages returns the common language table for UI display.
func (t *Translator) SupportedLanguages() map[string]string {
	return detect.CommonLanguages()
}

// Health reports the outcome of a live canary translation.
type Health struct {
	Status          string        `json:"status"`
	Model           string        `json:"model,omitempty"`
	TestTranslation string        `json:"test_translation,omitempty"`
	ResponseTime    time.Duration `json:"response_time,omitempty"`
	Error           string        `json:"error,omitempty"`
}

// HealthCheck performs a live test translation rather than a static check.
func (t *Translator) HealthCheck(ctx context.Context) Health {
	result := t.Translate(ctx, "Hello", "en", "Spanish")

	if result.Success {
		return Health{
			Status:          "healthy",
			Model:           t.opts.Model,
			TestTranslation: "Hello -> " + result.Translation,
			ResponseTime:    result.ProcessingTime,
		}
	}

	h := Health{Status: "unhealthy"}
	if result.Error != nil {
		h.Error = result.Error.Message
	}
	return h
}
