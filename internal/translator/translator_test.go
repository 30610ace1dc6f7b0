package translator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"querybridge/internal/detect"
	"querybridge/internal/llm"
)

type fakeLLM struct {
	responses []string
	err       error
	calls     int
	lastReq   *llm.ChatRequest
}

func (f *fakeLLM) ChatCompletion(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	content := "ok."
	if len(f.responses) > 0 {
		content = f.responses[0]
		if len(f.responses) > 1 {
			f.responses = f.responses[1:]
		}
	}
	return &llm.ChatResponse{
		Choices: []llm.ChatChoice{
			{Message: llm.ChatMessage{Role: llm.RoleAssistant, Content: content}},
		},
	}, nil
}

type fakeDetector struct {
	code       string
	confidence float64
	ok         bool
}

func (f *fakeDetector) Detect(text string) (string, bool) {
	return f.code, f.ok
}

func (f *fakeDetector) DetectWithConfidence(text string) (*detect.Detection, bool) {
	if !f.ok {
		return nil, false
	}
	return &detect.Detection{Language: f.code, Confidence: f.confidence}, true
}

func newTestTranslator(t *testing.T, client llm.Client, det LanguageDetector) *Translator {
	t.Helper()
	return New(client, det, Options{Model: "test-model", MaxQueryLength: 1000}, zaptest.NewLogger(t))
}

func TestTranslateEmptyText(t *testing.T) {
	fake := &fakeLLM{}
	tr := newTestTranslator(t, fake, &fakeDetector{})

	result := tr.Translate(context.Background(), "   ", "auto", "English")

	if result.Success {
		t.Fatalf("expected failure for empty text")
	}
	if result.Error == nil || result.Error.Kind != KindValidation {
		t.Fatalf("expected validation error, got %+v", result.Error)
	}
	if result.Error.Message != "empty text" {
		t.Fatalf("unexpected message: %q", result.Error.Message)
	}
	if result.Translation != "" {
		t.Fatalf("expected empty translation")
	}
	if fake.calls != 0 {
		t.Fatalf("external model must not be contacted")
	}
}

func TestTranslateTooLong(t *testing.T) {
	fake := &fakeLLM{}
	tr := New(fake, &fakeDetector{}, Options{Model: "m", MaxQueryLength: 10}, zaptest.NewLogger(t))

	result := tr.Translate(context.Background(), strings.Repeat("a", 11), "en", "Spanish")

	if result.Success {
		t.Fatalf("expected failure for over-length text")
	}
	if result.Error == nil || result.Error.Kind != KindValidation {
		t.Fatalf("expected validation error, got %+v", result.Error)
	}
	if !strings.Contains(result.Error.Message, "too long") {
		t.Fatalf("unexpected message: %q", result.Error.Message)
	}
	if fake.calls != 0 {
		t.Fatalf("external model must not be contacted")
	}
}

func TestTranslateEnglishShortCircuit(t *testing.T) {
	fake := &fakeLLM{}
	tr := newTestTranslator(t, fake, &fakeDetector{})

	result := tr.Translate(context.Background(), "  Hello there  ", "en", "English")

	if !result.Success {
		t.Fatalf("expected success, got %+v", result.Error)
	}
	if result.Translation != "Hello there" {
		t.Fatalf("expected trimmed input back, got %q", result.Translation)
	}
	if result.Note == "" {
		t.Fatalf("expected a note that no translation occurred")
	}
	if fake.calls != 0 {
		t.Fatalf("external model must not be contacted for en->English")
	}
}

func TestTranslateAutoDetectHighConfidence(t *testing.T) {
	fake := &fakeLLM{responses: []string{"I need help with my account."}}
	det := &fakeDetector{code: "es", confidence: 0.9, ok: true}
	tr := newTestTranslator(t, fake, det)

	result := tr.Translate(context.Background(), "Necesito ayuda con mi cuenta", "auto", "English")

	if !result.Success {
		t.Fatalf("expected success, got %+v", result.Error)
	}
	if result.SourceLang != "es" {
		t.Fatalf("expected detected source es, got %q", result.SourceLang)
	}
	if !result.Detected {
		t.Fatalf("expected Detected flag")
	}
	if result.ModelUsed != "test-model" {
		t.Fatalf("expected model recorded, got %q", result.ModelUsed)
	}
	if fake.lastReq == nil || !strings.Contains(fake.lastReq.Messages[1].Content, "Spanish") {
		t.Fatalf("prompt should embed the source display name")
	}
}

func TestTranslateAutoDetectFallsBackToEnglish(t *testing.T) {
	fake := &fakeLLM{}
	tr := newTestTranslator(t, fake, &fakeDetector{ok: false})

	result := tr.Translate(context.Background(), "zzz qqq", "auto", "English")

	if !result.Success {
		t.Fatalf("expected success, got %+v", result.Error)
	}
	// Fallback chain bottoms out at English, which short-circuits.
	if result.SourceLang != "en" {
		t.Fatalf("expected en fallback, got %q", result.SourceLang)
	}
	if fake.calls != 0 {
		t.Fatalf("en->English must skip the external call")
	}
}

func TestTranslateExternalFailureIsData(t *testing.T) {
	fake := &fakeLLM{err: errors.New("upstream exploded")}
	tr := newTestTranslator(t, fake, &fakeDetector{})

	result := tr.Translate(context.Background(), "Bonjour tout le monde", "fr", "English")

	if result.Success {
		t.Fatalf("expected failure")
	}
	if result.Error == nil || result.Error.Kind != KindExternalService {
		t.Fatalf("expected external_service kind, got %+v", result.Error)
	}
	if !strings.Contains(result.Error.Message, "upstream exploded") {
		t.Fatalf("expected upstream message preserved, got %q", result.Error.Message)
	}
}

func TestPostProcess(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Translation: Hello there.", "Hello there."},
		{"here is the translation: Hi!", "Hi!"},
		{"Hello   world", "Hello world."},
		{"已经完成。", "已经完成。"},
		{"Done", "Done."},
		{"", ""},
	}

	for _, tc := range cases {
		if got := postProcess(tc.in); got != tc.want {
			t.Errorf("postProcess(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseScore(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"8", 8},
		{"Score: 9/10", 9},
		{"I'd rate this 15", 10}, // clamped
		{"0", 1},                 // clamped
		{"no score here", 5},
	}

	for _, tc := range cases {
		if got := parseScore(tc.in); got != tc.want {
			t.Errorf("parseScore(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestScoreTranslation(t *testing.T) {
	fake := &fakeLLM{responses: []string{"8", "6"}}
	tr := newTestTranslator(t, fake, &fakeDetector{})

	scores := tr.ScoreTranslation(context.Background(), "Hola", "Hello", "es")

	if scores.Accuracy != 8 || scores.Fluency != 6 {
		t.Fatalf("unexpected scores: %+v", scores)
	}
	if scores.Overall != 7 {
		t.Fatalf("overall should be the mean, got %v", scores.Overall)
	}
	if scores.Degraded {
		t.Fatalf("scores should not be degraded")
	}
}

func TestScoreTranslationDegrades(t *testing.T) {
	fake := &fakeLLM{err: errors.New("judge down")}
	tr := newTestTranslator(t, fake, &fakeDetector{})

	scores := tr.ScoreTranslation(context.Background(), "Hola", "Hello", "es")

	if scores.Accuracy != 5 || scores.Fluency != 5 || scores.Overall != 5 {
		t.Fatalf("expected neutral scores, got %+v", scores)
	}
	if !scores.Degraded {
		t.Fatalf("expected degraded flag")
	}
}

func TestHealthCheck(t *testing.T) {
	fake := &fakeLLM{responses: []string{"Hola."}}
	tr := newTestTranslator(t, fake, &fakeDetector{})

	health := tr.HealthCheck(context.Background())
	if health.Status != "healthy" {
		t.Fatalf("expected healthy, got %+v", health)
	}
	if !strings.Contains(health.TestTranslation, "Hola.") {
		t.Fatalf("expected canary translation in status, got %q", health.TestTranslation)
	}

	broken := newTestTranslator(t, &fakeLLM{err: errors.New("down")}, &fakeDetector{})
	health = broken.HealthCheck(context.Background())
	if health.Status != "unhealthy" || health.Error == "" {
		t.Fatalf("expected unhealthy with error, got %+v", health)
	}
}

func TestTargetDisplayName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"es", "Spanish"},
		{"english", "English"},
		{"Spanish", "Spanish"},
		{"", "English"},
		{"Klingon", "Klingon"},
	}
	for _, tc := range cases {
		if got := targetDisplayName(tc.in); got != tc.want {
			t.Errorf("targetDisplayName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
