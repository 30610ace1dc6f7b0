// Package detect wraps the lingua-go classifier with heuristics tuned for
// short customer-support fragments.
package detect

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pemistahl/lingua-go"
	"go.uber.org/zap"
)

// minTextLength is the minimum rune count for a reliable classification.
// Shorter text fails detection rather than returning a guess.
const minTextLength = 8

var (
	urlPattern      = regexp.MustCompile(`https?://\S+`)
	nonWordPattern  = regexp.MustCompile(`[^\p{L}\p{N}_\s.,!?-]`)
	englishLangCode = "en"
)

// Alternative is a ranked candidate from the classifier.
type Alternative struct {
	Language    string  `json:"language"`
	Probability float64 `json:"probability"`
}

// Detection is a confidence-aware detection result.
type Detection struct {
	Language     string        `json:"language"`
	Confidence   float64       `json:"confidence"`
	Alternatives []Alternative `json:"alternatives,omitempty"`
	Corrected    bool          `json:"corrected"`
}

// Heuristic holds the tunable parameters of the short-text correction.
// General-purpose classifiers frequently misfire on short English fragments,
// reporting minority languages with moderate confidence; when that happens
// and the text contains common English function words, the result is
// overridden to English.
type Heuristic struct {
	ConfusableLangs map[string]bool
	Indicators      []string
	MaxConfidence   float64 // apply only below this confidence
	ConfidenceBoost float64
	ConfidenceCap   float64
	MinMatches      int
}

// DefaultHeuristic returns the tuning observed to work for support traffic.
func DefaultHeuristic() Heuristic {
	return Heuristic{
		ConfusableLangs: map[string]bool{
			"cy": true, "ga": true, "mt": true, "is": true, "eu": true, "ca": true,
		},
		Indicators: []string{
			"the", "and", "or", "is", "are", "was", "were", "have", "has", "had",
			"will", "would", "could", "should", "can", "may", "might", "must",
			"this", "that", "these", "those", "with", "from", "they", "them",
			"what", "when", "where", "why", "how", "who", "which", "hello", "hi",
			"please", "thank", "help", "need", "want", "like", "know", "think",
		},
		MaxConfidence:   0.85,
		ConfidenceBoost: 0.3,
		ConfidenceCap:   0.8,
		MinMatches:      1,
	}
}

// Detector classifies the language of free text.
type Detector struct {
	detector lingua.LanguageDetector
	heur     Heuristic
	logger   *zap.Logger
}

// NewDetector builds a detector over all lingua languages with the default
// correction heuristic.
func NewDetector(logger *zap.Logger) *Detector {
	return NewDetectorWithHeuristic(logger, DefaultHeuristic())
}

// NewDetectorWithHeuristic builds a detector with custom heuristic tuning.
func NewDetectorWithHeuristic(logger *zap.Logger, heur Heuristic) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}

	detector := lingua.NewLanguageDetectorBuilder().
		FromAllLanguages().
		Build()

	return &Detector{
		detector: detector,
		heur:     heur,
		logger:   logger.Named("detect"),
	}
}

// Detect returns the ISO 639-1 code of the text's language, or false when
// the text is too short or the classifier cannot decide.
func (d *Detector) Detect(text string) (string, bool) {
	if tooShort(text) {
		d.logger.Debug("text too short for detection",
			zap.Int("length", utf8.RuneCountInString(strings.TrimSpace(text))),
		)
		return "", false
	}

	clean := cleanForDetection(text)

	language, ok := d.detector.DetectLanguageOf(clean)
	if !ok {
		d.logger.Debug("classifier could not decide", zap.String("text_preview", preview(clean)))
		return "", false
	}

	code := isoCode(language)
	d.logger.Debug("language detected",
		zap.String("language", code),
		zap.String("text_preview", preview(clean)),
	)
	return code, true
}

// DetectWithConfidence runs the classifier's ranked-candidates mode and
// applies the English correction heuristic.
func (d *Detector) DetectWithConfidence(text string) (*Detection, bool) {
	if tooShort(text) {
		return nil, false
	}

	clean := cleanForDetection(text)

	values := d.detector.ComputeLanguageConfidenceValues(clean)
	if len(values) == 0 {
		return nil, false
	}

	best := values[0]
	bestCode := isoCode(best.Language())
	bestConf := best.Value()

	if d.heur.ConfusableLangs[bestCode] && bestConf < d.heur.MaxConfidence {
		if d.countIndicators(clean) >= d.heur.MinMatches {
			corrected := &Detection{
				Language:   englishLangCode,
				Confidence: min(d.heur.ConfidenceCap, bestConf+d.heur.ConfidenceBoost),
				Corrected:  true,
			}
			corrected.Alternatives = append(
				[]Alternative{{Language: englishLangCode, Probability: d.heur.ConfidenceCap}},
				alternatives(values, 2)...,
			)

			d.logger.Debug("confusable detection corrected to english",
				zap.String("original_language", bestCode),
				zap.Float64("original_confidence", bestConf),
				zap.Float64("confidence", corrected.Confidence),
			)
			return corrected, true
		}
	}

	return &Detection{
		Language:     bestCode,
		Confidence:   bestConf,
		Alternatives: alternatives(values, 3),
		Corrected:    false,
	}, true
}

// IsEnglish reports whether the text detects as English.
func (d *Detector) IsEnglish(text string) bool {
	code, ok := d.Detect(text)
	return ok && code == englishLangCode
}

// countIndicators counts whole-word matches of English function words,
// bounded by spaces or string edges.
func (d *Detector) countIndicators(text string) int {
	padded := " " + strings.ToLower(text) + " "
	count := 0
	for _, word := range d.heur.Indicators {
		if strings.Contains(padded, " "+word+" ") {
			count++
		}
	}
	return count
}

func tooShort(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) < minTextLength
}

// cleanForDetection strips URLs and punctuation noise that skews n-gram
// classification.
func cleanForDetection(text string) string {
	cleaned := strings.Join(strings.Fields(text), " ")
	cleaned = urlPattern.ReplaceAllString(cleaned, "")
	cleaned = nonWordPattern.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

func alternatives(values []lingua.ConfidenceValue, n int) []Alternative {
	if len(values) < n {
		n = len(values)
	}
	alts := make([]Alternative, 0, n)
	for _, v := range values[:n] {
		alts = append(alts, Alternative{
			Language:    isoCode(v.Language()),
			Probability: v.Value(),
		})
	}
	return alts
}

func isoCode(language lingua.Language) string {
	return strings.ToLower(language.IsoCode639_1().String())
}

func preview(text string) string {
	const max = 50
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max]) + "..."
}
