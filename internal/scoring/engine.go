// Package scoring converts a finished answer set into category scores, an
// overall score, and narrative insights. It is a pure function of its inputs:
// the same assessment and answer set always produce the same results.
package scoring

import (
	"math"

	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/assessments/domain"
)

// Category names are fixed product vocabulary.
const (
	CategoryReadiness  = "readiness"
	CategoryConfidence = "confidence"
	CategoryClarity    = "clarity"
)

// CategoryScores holds the three named sub-scores, each 0-100.
type CategoryScores struct {
	Readiness  int `json:"readiness"`
	Confidence int `json:"confidence"`
	Clarity    int `json:"clarity"`
}

// Results is the outcome of scoring one traversal. Ephemeral; the caller
// folds it into a Lead record for persistence.
type Results struct {
	OverallScore   int            `json:"overallScore"`
	CategoryScores CategoryScores `json:"categoryScores"`
	CompletionRate int            `json:"completionRate"`
	Insights       []string       `json:"insights"`
}

// categoryWeights distributes one answer's contribution across the three
// categories, keyed by question type. Weights per type sum to 1.
type categoryWeights struct {
	readiness  float64
	confidence float64
	clarity    float64
}

var weightsByType = map[domain.QuestionType]categoryWeights{
	domain.QuestionTypeYesNo:          {readiness: 0.6, confidence: 0.3, clarity: 0.1},
	domain.QuestionTypeRating:         {readiness: 0.3, confidence: 0.5, clarity: 0.2},
	domain.QuestionTypeThisThat:       {readiness: 0.2, confidence: 0.2, clarity: 0.6},
	domain.QuestionTypeMultipleChoice: {readiness: 0.2, confidence: 0.3, clarity: 0.5},
	domain.QuestionTypeDesires:        {readiness: 0.4, confidence: 0.2, clarity: 0.4},
	domain.QuestionTypePainAvoidance:  {readiness: 0.3, confidence: 0.4, clarity: 0.3},
}

// ComputeResults scores the answer set against the assessment's questions.
// Unanswered questions contribute nothing; the completion rate reflects them.
func ComputeResults(questions []domain.Question, answers map[int]domain.Answer) Results {
	total := len(questions)
	answered := 0

	var sums, weights [3]float64

	for _, q := range questions {
		answer, ok := answers[q.ID]
		if !ok || !answer.Complete() {
			continue
		}
		answered++

		contribution := answerContribution(q, answer)
		w, ok := weightsByType[q.Type]
		if !ok {
			continue
		}

		sums[0] += w.readiness * contribution
		sums[1] += w.confidence * contribution
		sums[2] += w.clarity * contribution
		weights[0] += w.readiness
		weights[1] += w.confidence
		weights[2] += w.clarity
	}

	categories := CategoryScores{
		Readiness:  categoryScore(sums[0], weights[0]),
		Confidence: categoryScore(sums[1], weights[1]),
		Clarity:    categoryScore(sums[2], weights[2]),
	}

	overall := clampScore(roundMean(categories.Readiness, categories.Confidence, categories.Clarity))

	completionRate := 0
	if total > 0 {
		completionRate = int(math.Round(100 * float64(answered) / float64(total)))
	}

	return Results{
		OverallScore:   overall,
		CategoryScores: categories,
		CompletionRate: completionRate,
		Insights:       buildInsights(overall, categories),
	}
}

// answerContribution maps an answer to a 0-100 contribution value.
// The exact weighting is an implementation choice layered on free-form
// question content; what matters is determinism.
func answerContribution(q domain.Question, a domain.Answer) float64 {
	switch q.Type {
	case domain.QuestionTypeYesNo:
		if a.Value == "yes" {
			return 100
		}
		return 40

	case domain.QuestionTypeRating:
		return float64(a.Rating) * 10

	case domain.QuestionTypeThisThat, domain.QuestionTypeMultipleChoice:
		// Earlier options rank higher; authors order options from the
		// strongest signal down.
		n := len(q.Options)
		if n == 0 {
			return 0
		}
		for i, opt := range q.Options {
			if opt == a.Value {
				return 100 * float64(n-i) / float64(n)
			}
		}
		return 0

	case domain.QuestionTypeDesires, domain.QuestionTypePainAvoidance:
		// Breadth of selection signals engagement with the prompt.
		if len(q.Options) == 0 {
			return 0
		}
		return 100 * float64(len(a.Values)) / float64(len(q.Options))
	}

	return 0
}

func categoryScore(sum, weight float64) int {
	if weight == 0 {
		// No answered question fed this category; neutral midpoint keeps the
		// three-category shape intact.
		return 50
	}
	return clampScore(int(math.Round(sum / weight)))
}

func roundMean(values ...int) int {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return int(math.Round(float64(sum) / float64(len(values))))
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
