package domain

import "testing"

func ratingQuestion(id int) Question {
	return Question{ID: id, Type: QuestionTypeRating, Question: "How ready are you?"}
}

func choiceQuestion(id int, options ...string) Question {
	return Question{ID: id, Type: QuestionTypeMultipleChoice, Question: "Pick one", Options: options}
}

func TestParseAnswerShapes(t *testing.T) {
	yesNo := Question{ID: 1, Type: QuestionTypeYesNo, Question: "Ready?"}
	thisThat := Question{ID: 2, Type: QuestionTypeThisThat, Question: "A or B?", Options: []string{"A", "B"}}
	multi := Question{ID: 3, Type: QuestionTypeDesires, Question: "What do you want?", Options: []string{"growth", "freedom", "income"}}

	tests := []struct {
		name    string
		q       Question
		raw     any
		wantErr bool
	}{
		{"yes accepted", yesNo, "yes", false},
		{"no accepted", yesNo, "no", false},
		{"maybe rejected", yesNo, "maybe", true},
		{"non-string rejected", yesNo, 1, true},
		{"member option accepted", thisThat, "B", false},
		{"non-member rejected", thisThat, "C", true},
		{"rating in range", ratingQuestion(4), 7, false},
		{"rating float from json", ratingQuestion(4), float64(10), false},
		{"rating zero rejected", ratingQuestion(4), 0, true},
		{"rating eleven rejected", ratingQuestion(4), 11, true},
		{"rating fraction rejected", ratingQuestion(4), 7.5, true},
		{"multi subset accepted", multi, []any{"growth", "income"}, false},
		{"multi empty rejected", multi, []any{}, true},
		{"multi non-member rejected", multi, []any{"growth", "fame"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			answer, err := ParseAnswer(tc.q, tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseAnswer(%v) expected error, got %+v", tc.raw, answer)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAnswer(%v) unexpected error: %v", tc.raw, err)
			}
			if !answer.Complete() {
				t.Fatalf("ParseAnswer(%v) produced incomplete answer %+v", tc.raw, answer)
			}
		})
	}
}

func TestParseAnswerDedupesMultiSelect(t *testing.T) {
	multi := Question{ID: 1, Type: QuestionTypePainAvoidance, Question: "Avoid?", Options: []string{"stress", "debt"}}

	answer, err := ParseAnswer(multi, []any{"stress", "stress", "debt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(answer.Values) != 2 {
		t.Fatalf("expected 2 deduped values, got %v", answer.Values)
	}
}

func TestValidateQuestionSet(t *testing.T) {
	if err := ValidateQuestionSet([]Question{ratingQuestion(1), choiceQuestion(2, "x", "y")}); err != nil {
		t.Fatalf("valid set rejected: %v", err)
	}

	if err := ValidateQuestionSet([]Question{ratingQuestion(1), ratingQuestion(1)}); err == nil {
		t.Fatal("duplicate ids accepted")
	}

	missingOptions := Question{ID: 1, Type: QuestionTypeThisThat, Question: "A or B?"}
	if err := ValidateQuestionSet([]Question{missingOptions}); err == nil {
		t.Fatal("this-that without options accepted")
	}

	if err := ValidateQuestionSet([]Question{{ID: 1, Type: QuestionTypeRating}}); err == nil {
		t.Fatal("empty question text accepted")
	}
}

func TestAudienceNormalize(t *testing.T) {
	if Audience("business").Normalize() != AudienceBusiness {
		t.Fatal("business not preserved")
	}
	for _, raw := range []string{"individual", "", "company", "Business"} {
		if Audience(raw).Normalize() != AudienceIndividual {
			t.Fatalf("audience %q should fold to individual", raw)
		}
	}
}
