package translator

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"go.uber.org/zap"

	"querybridge/internal/llm"
)

// JudgeScores are 1-10 quality scores produced by the LLM-as-judge.
type JudgeScores struct {
	Accuracy float64 `json:"accuracy"`
	Fluency  float64 `json:"fluency"`
	Overall  float64 `json:"overall"`
	// Degraded marks scores that were substituted with neutral defaults
	// because the judge call failed.
	Degraded bool `json:"degraded,omitempty"`
}

// Judge scores translation quality. The translator implements it against the
// live model; tests substitute a deterministic implementation.
type Judge interface {
	ScoreTranslation(ctx context.Context, original, translation, sourceLang string) JudgeScores
}

const neutralScore = 5.0

var firstInteger = regexp.MustCompile(`\d+`)

// ScoreTranslation issues two independent scoring requests (accuracy and
// fluency) to the same model that performed the translation. A failed call
// or unparseable response degrades to the neutral score instead of failing
// the evaluation.
func (t *Translator) ScoreTranslation(ctx context.Context, original, translation, sourceLang string) JudgeScores {
	accuracy, accErr := t.score(ctx, fmt.Sprintf(accuracyPrompt, original, translation))
	fluency, fluErr := t.score(ctx, fmt.Sprintf(fluencyPrompt, original, translation))

	degraded := accErr != nil || fluErr != nil
	if degraded {
		t.logger.Warn("translation scoring degraded",
			zap.String("error_kind", string(KindEvaluationDegraded)),
			zap.String("source_lang", sourceLang),
			zap.NamedError("accuracy_error", accErr),
			zap.NamedError("fluency_error", fluErr),
		)
	}

	return JudgeScores{
		Accuracy: accuracy,
		Fluency:  fluency,
		Overall:  (accuracy + fluency) / 2,
		Degraded: degraded,
	}
}

func (t *Translator) score(ctx context.Context, prompt string) (float64, error) {
	resp, err := t.llm.ChatCompletion(ctx, &llm.ChatRequest{
		Model: t.opts.Model,
		Messages: []llm.ChatMessage{
			{Role: llm.RoleUser, Content: prompt},
		},
		Temperature: t.opts.Temperature,
		MaxTokens:   t.opts.MaxTokens,
	})
	if err != nil {
		return neutralScore, err
	}
	return parseScore(resp.Text()), nil
}

// parseScore extracts the first integer from a judge response, clamped to
// [1,10]; a response with no integer scores neutral.
func parseScore(content string) float64 {
	match := firstInteger.FindString(content)
	if match == "" {
		return neutralScore
	}
	score, err := strconv.Atoi(match)
	if err != nil {
		return neutralScore
	}
	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}
	return float64(score)
}
