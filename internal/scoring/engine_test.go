package scoring

import (
	"reflect"
	"testing"

	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/assessments/domain"
)

func threeQuestionAssessment() []domain.Question {
	return []domain.Question{
		{ID: 1, Type: domain.QuestionTypeYesNo, Question: "Are you ready to invest in yourself?"},
		{ID: 2, Type: domain.QuestionTypeRating, Question: "How motivated are you?"},
		{ID: 3, Type: domain.QuestionTypeMultipleChoice, Question: "Timeline?", Options: []string{"now", "later"}},
	}
}

func TestComputeResultsDeterminism(t *testing.T) {
	questions := threeQuestionAssessment()
	answers := map[int]domain.Answer{
		1: {Type: domain.QuestionTypeYesNo, Value: "yes"},
		2: {Type: domain.QuestionTypeRating, Rating: 7},
		3: {Type: domain.QuestionTypeMultipleChoice, Value: "later"},
	}

	first := ComputeResults(questions, answers)
	second := ComputeResults(questions, answers)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("scoring is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestComputeResultsCompleteTraversal(t *testing.T) {
	questions := threeQuestionAssessment()
	answers := map[int]domain.Answer{
		1: {Type: domain.QuestionTypeYesNo, Value: "yes"},
		2: {Type: domain.QuestionTypeRating, Rating: 7},
		3: {Type: domain.QuestionTypeMultipleChoice, Value: "later"},
	}

	results := ComputeResults(questions, answers)

	if results.CompletionRate != 100 {
		t.Fatalf("expected completion rate 100, got %d", results.CompletionRate)
	}
	if results.OverallScore < 0 || results.OverallScore > 100 {
		t.Fatalf("overall score %d out of range", results.OverallScore)
	}
	for name, score := range map[string]int{
		"readiness":  results.CategoryScores.Readiness,
		"confidence": results.CategoryScores.Confidence,
		"clarity":    results.CategoryScores.Clarity,
	} {
		if score < 0 || score > 100 {
			t.Fatalf("category %s score %d out of range", name, score)
		}
	}
	if len(results.Insights) < 1 {
		t.Fatal("expected at least one insight")
	}
}

func TestComputeResultsPartialTraversal(t *testing.T) {
	questions := threeQuestionAssessment()
	answers := map[int]domain.Answer{
		2: {Type: domain.QuestionTypeRating, Rating: 5},
	}

	results := ComputeResults(questions, answers)

	if results.CompletionRate != 33 {
		t.Fatalf("expected completion rate 33, got %d", results.CompletionRate)
	}
	if len(results.Insights) < 1 {
		t.Fatal("expected at least one insight even for partial answers")
	}
}

func TestComputeResultsEmpty(t *testing.T) {
	results := ComputeResults(nil, nil)

	if results.CompletionRate != 0 {
		t.Fatalf("expected completion rate 0, got %d", results.CompletionRate)
	}
	// No signal: all categories sit at the neutral midpoint.
	if results.CategoryScores.Readiness != 50 || results.CategoryScores.Confidence != 50 || results.CategoryScores.Clarity != 50 {
		t.Fatalf("expected neutral category scores, got %+v", results.CategoryScores)
	}
	if results.OverallScore != 50 {
		t.Fatalf("expected neutral overall score, got %d", results.OverallScore)
	}
}

func TestInsightOrdering(t *testing.T) {
	// readiness far above confidence, confidence below the low threshold:
	// band message first, then the comparison, then the low call-out.
	insights := buildInsights(62, CategoryScores{Readiness: 90, Confidence: 30, Clarity: 66})

	if len(insights) != 4 {
		t.Fatalf("expected 4 insights, got %d: %v", len(insights), insights)
	}
	if insights[0] != rules.Bands[1].Message {
		t.Fatalf("expected 60-band message first, got %q", insights[0])
	}
	if insights[1] != rules.Comparisons[0].Message {
		t.Fatalf("expected readiness>confidence comparison second, got %q", insights[1])
	}
	if insights[2] != rules.Comparisons[2].Message {
		t.Fatalf("expected clarity>confidence comparison third, got %q", insights[2])
	}
	if insights[3] != rules.Low[1].Message {
		t.Fatalf("expected low-confidence call-out last, got %q", insights[3])
	}
}

func TestAnswerContributionOptionPosition(t *testing.T) {
	q := domain.Question{ID: 1, Type: domain.QuestionTypeThisThat, Question: "A or B?", Options: []string{"A", "B"}}

	first := answerContribution(q, domain.Answer{Type: q.Type, Value: "A"})
	second := answerContribution(q, domain.Answer{Type: q.Type, Value: "B"})

	if first <= second {
		t.Fatalf("expected earlier option to contribute more: A=%v B=%v", first, second)
	}
	if first != 100 {
		t.Fatalf("expected first option to contribute 100, got %v", first)
	}
}
