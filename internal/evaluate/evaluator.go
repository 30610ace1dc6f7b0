// Package evaluate scores translation quality after the fact. It combines
// cheap text heuristics with LLM-as-judge scores into a single 0-10 result.
package evaluate

import (
	"context"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"querybridge/internal/translator"
)

var (
	digitRuns = regexp.MustCompile(`\d+`)
	urlTokens = regexp.MustCompile(`https?://\S+`)
)

// LengthAnalysis scores the translation/original length ratio.
type LengthAnalysis struct {
	Ratio          float64 `json:"ratio"`
	Score          float64 `json:"score"`
	Interpretation string  `json:"interpretation"`
}

// LanguageCheck records whether the translation landed in English.
type LanguageCheck struct {
	IsEnglish    bool    `json:"is_english"`
	Confidence   float64 `json:"confidence"`
	DetectedLang string  `json:"detected_lang"`
	Score        float64 `json:"score"`
}

// ContentPreservation holds the three content-overlap checks.
type ContentPreservation struct {
	WordPreservationRatio float64 `json:"word_preservation_ratio"`
	WordPreservationScore float64 `json:"word_preservation_score"`
	NumbersPreserved      int     `json:"numbers_preserved"`
	NumbersTotal          int     `json:"numbers_total"`
	NumbersScore          float64 `json:"numbers_score"`
	URLsPreserved         int     `json:"urls_preserved"`
	URLsTotal             int     `json:"urls_total"`
	URLsScore             float64 `json:"urls_score"`
}

// Feedback is the human-readable side of an evaluation.
type Feedback struct {
	Summary             string   `json:"summary"`
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areas_for_improvement"`
	Recommendations     []string `json:"recommendations"`
}

// Result is one full quality evaluation. Immutable once produced.
type Result struct {
	Timestamp         time.Time              `json:"timestamp"`
	OriginalLength    int                    `json:"original_length"`
	TranslationLength int                    `json:"translation_length"`
	SourceLang        string                 `json:"source_lang"`
	LengthRatio       float64                `json:"length_ratio"`
	Length            LengthAnalysis         `json:"length_analysis"`
	Judge             translator.JudgeScores `json:"llm_evaluation"`
	Language          LanguageCheck          `json:"language_check"`
	Content           ContentPreservation    `json:"content_preservation"`
	OverallScore      float64                `json:"overall_score"`
	Feedback          Feedback               `json:"feedback"`
}

// Evaluator computes quality evaluations. The judge and detector are
// injected so tests can substitute deterministic implementations.
type Evaluator struct {
	judge    translator.Judge
	detector translator.LanguageDetector
	logger   *zap.Logger
	now      func() time.Time
}

func New(judge translator.Judge, detector translator.LanguageDetector, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{
		judge:    judge,
		detector: detector,
		logger:   logger,
		now:      time.Now,
	}
}

// Evaluate scores a translation across seven sub-scores: length ratio,
// judge accuracy, judge fluency, language match, and word/number/URL
// preservation. The overall score is their unweighted mean.
func (e *Evaluator) Evaluate(ctx context.Context, original, translation, sourceLang string) *Result {
	origLen := utf8.RuneCountInString(original)
	transLen := utf8.RuneCountInString(translation)

	result := &Result{
		Timestamp:         e.now(),
		OriginalLength:    origLen,
		TranslationLength: transLen,
		SourceLang:        sourceLang,
		LengthRatio:       float64(transLen) / float64(max(origLen, 1)),
	}

	result.Length = analyzeLength(origLen, transLen)
	result.Judge = e.judge.ScoreTranslation(ctx, original, translation, sourceLang)
	result.Language = e.checkLanguage(translation)
	result.Content = analyzeContentPreservation(original, translation)

	subScores := []float64{
		result.Length.Score,
		result.Judge.Accuracy,
		result.Judge.Fluency,
		result.Language.Score,
		result.Content.WordPreservationScore,
		result.Content.NumbersScore,
		result.Content.URLsScore,
	}
	result.OverallScore = mean(subScores)
	result.Feedback = buildFeedback(result)

	e.logger.Debug("translation evaluated",
		zap.String("source_lang", sourceLang),
		zap.Float64("overall_score", result.OverallScore),
		zap.Bool("judge_degraded", result.Judge.Degraded),
	)

	return result
}

func analyzeLength(origLen, transLen int) LengthAnalysis {
	if origLen == 0 {
		return LengthAnalysis{Ratio: 0, Score: 0}
	}

	ratio := float64(transLen) / float64(origLen)

	var score float64
	switch {
	case ratio >= 0.5 && ratio <= 2.0:
		score = 10
	case (ratio >= 0.3 && ratio < 0.5) || (ratio > 2.0 && ratio <= 3.0):
		score = 7
	case (ratio >= 0.2 && ratio < 0.3) || (ratio > 3.0 && ratio <= 4.0):
		score = 5
	default:
		score = 2
	}

	return LengthAnalysis{
		Ratio:          ratio,
		Score:          score,
		Interpretation: interpretLengthRatio(ratio),
	}
}

// interpretLengthRatio buckets the ratio with tighter thresholds than the
// score, purely for the feedback text.
func interpretLengthRatio(ratio float64) string {
	switch {
	case ratio >= 0.8 && ratio <= 1.2:
		return "Excellent - Similar length"
	case (ratio >= 0.5 && ratio < 0.8) || (ratio > 1.2 && ratio <= 2.0):
		return "Good - Acceptable length difference"
	case (ratio >= 0.3 && ratio < 0.5) || (ratio > 2.0 && ratio <= 3.0):
		return "Fair - Notable length difference"
	default:
		return "Poor - Significant length difference"
	}
}

func (e *Evaluator) checkLanguage(translation string) LanguageCheck {
	detection, ok := e.detector.DetectWithConfidence(translation)
	if !ok {
		// Undetectable text gets no credit rather than the formula's
		// 10-for-zero-confidence result.
		return LanguageCheck{DetectedLang: "unknown"}
	}

	check := LanguageCheck{
		IsEnglish:    detection.Language == "en",
		Confidence:   detection.Confidence,
		DetectedLang: detection.Language,
	}
	if check.IsEnglish {
		check.Score = 10
	} else {
		check.Score = math.Max(0, 10-detection.Confidence*10)
	}
	return check
}

func analyzeContentPreservation(original, translation string) ContentPreservation {
	origWords := wordSet(original)
	transWords := wordSet(translation)

	common := 0
	for w := range origWords {
		if _, ok := transWords[w]; ok {
			common++
		}
	}
	ratio := float64(common) / float64(max(len(origWords), 1))

	origNumbers := tokenSet(digitRuns.FindAllString(original, -1))
	transNumbers := tokenSet(digitRuns.FindAllString(translation, -1))
	origURLs := tokenSet(urlTokens.FindAllString(original, -1))
	transURLs := tokenSet(urlTokens.FindAllString(translation, -1))

	cp := ContentPreservation{
		WordPreservationRatio: ratio,
		WordPreservationScore: math.Min(10, ratio*10),
		NumbersTotal:          len(origNumbers),
		URLsTotal:             len(origURLs),
	}

	for n := range origNumbers {
		if _, ok := transNumbers[n]; ok {
			cp.NumbersPreserved++
		}
	}
	for u := range origURLs {
		if _, ok := transURLs[u]; ok {
			cp.URLsPreserved++
		}
	}

	// Default to a full score when the original has nothing to preserve.
	cp.NumbersScore = 10
	if cp.NumbersTotal > 0 {
		cp.NumbersScore = float64(cp.NumbersPreserved) / float64(cp.NumbersTotal) * 10
	}
	cp.URLsScore = 10
	if cp.URLsTotal > 0 {
		cp.URLsScore = float64(cp.URLsPreserved) / float64(cp.URLsTotal) * 10
	}

	return cp
}

func buildFeedback(result *Result) Feedback {
	fb := Feedback{
		Strengths:           []string{},
		AreasForImprovement: []string{},
		Recommendations:     []string{},
	}

	switch {
	case result.OverallScore >= 8:
		fb.Summary = "Excellent translation quality"
	case result.OverallScore >= 6:
		fb.Summary = "Good translation quality"
	case result.OverallScore >= 4:
		fb.Summary = "Fair translation quality"
	default:
		fb.Summary = "Poor translation quality - needs improvement"
	}

	if result.Language.IsEnglish {
		fb.Strengths = append(fb.Strengths, "Successfully translated to English")
	}
	if result.Length.Score >= 8 {
		fb.Strengths = append(fb.Strengths, "Appropriate length preservation")
	}
	if result.Content.WordPreservationScore >= 7 {
		fb.Strengths = append(fb.Strengths, "Good content preservation")
	}

	if !result.Language.IsEnglish {
		fb.AreasForImprovement = append(fb.AreasForImprovement, "Translation not in English")
	}
	if result.Length.Score < 6 {
		fb.AreasForImprovement = append(fb.AreasForImprovement, "Length significantly different from original")
	}
	if result.Content.WordPreservationScore < 5 {
		fb.AreasForImprovement = append(fb.AreasForImprovement, "Poor content preservation")
	}

	if result.OverallScore < 6 {
		fb.Recommendations = append(fb.Recommendations, "Consider re-translating with more specific context")
	}
	if result.Judge.Accuracy < 5 {
		fb.Recommendations = append(fb.Recommendations, "Accuracy could be improved - check for domain-specific terms")
	}
	if result.Judge.Fluency < 5 {
		fb.Recommendations = append(fb.Recommendations, "Fluency issues - consider simplifying the original text")
	}

	return fb
}

func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = struct{}{}
	}
	return set
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
