// Package domain provides core business rules for the assessments bounded context.
package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/apperr"
)

// QuestionType identifies the answer shape a question expects.
type QuestionType string

const (
	QuestionTypeYesNo          QuestionType = "yes-no"
	QuestionTypeThisThat       QuestionType = "this-that"
	QuestionTypeMultipleChoice QuestionType = "multiple-choice"
	QuestionTypeRating         QuestionType = "rating"
	QuestionTypeDesires        QuestionType = "desires"
	QuestionTypePainAvoidance  QuestionType = "pain-avoidance"
)

// RatingMin and RatingMax bound rating answers.
const (
	RatingMin = 1
	RatingMax = 10
)

// Valid reports whether the question type is one of the known kinds.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeYesNo, QuestionTypeThisThat, QuestionTypeMultipleChoice,
		QuestionTypeRating, QuestionTypeDesires, QuestionTypePainAvoidance:
		return true
	}
	return false
}

// RequiresOptions reports whether questions of this type must carry a
// non-empty options list.
func (t QuestionType) RequiresOptions() bool {
	switch t {
	case QuestionTypeThisThat, QuestionTypeMultipleChoice,
		QuestionTypeDesires, QuestionTypePainAvoidance:
		return true
	}
	return false
}

// MultiSelect reports whether answers are a set of options rather than a
// single value.
func (t QuestionType) MultiSelect() bool {
	return t == QuestionTypeDesires || t == QuestionTypePainAvoidance
}

// Question is one prompt in an assessment. IDs are unique within an
// assessment and stable across edits; reordering does not change them.
type Question struct {
	ID          int          `json:"id"`
	Type        QuestionType `json:"type"`
	Question    string       `json:"question"`
	VoiceScript string       `json:"voiceScript,omitempty"`
	Options     []string     `json:"options,omitempty"`
	AudioURL    *string      `json:"audio,omitempty"`
}

// Validate checks the question's own invariants.
func (q Question) Validate() error {
	if !q.Type.Valid() {
		return apperr.Validation(fmt.Sprintf("question %d: unknown type %q", q.ID, q.Type))
	}
	if strings.TrimSpace(q.Question) == "" {
		return apperr.Validation(fmt.Sprintf("question %d: question text is required", q.ID))
	}
	if q.Type.RequiresOptions() && len(q.Options) == 0 {
		return apperr.Validation(fmt.Sprintf("question %d: type %q requires options", q.ID, q.Type))
	}
	return nil
}

// HasOption reports whether value is a member of the question's options.
func (q Question) HasOption(value string) bool {
	for _, opt := range q.Options {
		if opt == value {
			return true
		}
	}
	return false
}

// ValidateQuestionSet checks cross-question invariants: IDs must be unique
// within the assessment.
func ValidateQuestionSet(questions []Question) error {
	seen := make(map[int]bool, len(questions))
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return err
		}
		if seen[q.ID] {
			return apperr.Validation(fmt.Sprintf("duplicate question id %d", q.ID))
		}
		seen[q.ID] = true
	}
	return nil
}

// Answer is a respondent's response to one question, modeled as a tagged
// union keyed by the question's declared type. Exactly one of Value, Values,
// or Rating carries the response depending on Type.
type Answer struct {
	Type   QuestionType `json:"type"`
	Value  string       `json:"value,omitempty"`
	Values []string     `json:"values,omitempty"`
	Rating int          `json:"rating,omitempty"`
}

// ParseAnswer validates raw respondent input against the question's type
// contract and returns the typed answer. The error names the offending
// constraint so the UI can keep the respondent on the same question.
func ParseAnswer(q Question, raw any) (Answer, error) {
	switch q.Type {
	case QuestionTypeYesNo:
		value, ok := raw.(string)
		if !ok || (value != "yes" && value != "no") {
			return Answer{}, apperr.Validation(fmt.Sprintf("question %d: answer must be \"yes\" or \"no\"", q.ID))
		}
		return Answer{Type: q.Type, Value: value}, nil

	case QuestionTypeThisThat, QuestionTypeMultipleChoice:
		value, ok := raw.(string)
		if !ok || !q.HasOption(value) {
			return Answer{}, apperr.Validation(fmt.Sprintf("question %d: answer must be one of the question's options", q.ID))
		}
		return Answer{Type: q.Type, Value: value}, nil

	case QuestionTypeRating:
		rating, ok := toInt(raw)
		if !ok || rating < RatingMin || rating > RatingMax {
			return Answer{}, apperr.Validation(fmt.Sprintf("question %d: rating must be an integer between %d and %d", q.ID, RatingMin, RatingMax))
		}
		return Answer{Type: q.Type, Rating: rating}, nil

	case QuestionTypeDesires, QuestionTypePainAvoidance:
		values, ok := toStringSlice(raw)
		if !ok || len(values) == 0 {
			return Answer{}, apperr.Validation(fmt.Sprintf("question %d: answer must be a non-empty selection", q.ID))
		}
		deduped := dedupe(values)
		for _, value := range deduped {
			if !q.HasOption(value) {
				return Answer{}, apperr.Validation(fmt.Sprintf("question %d: %q is not one of the question's options", q.ID, value))
			}
		}
		sort.Strings(deduped)
		return Answer{Type: q.Type, Values: deduped}, nil
	}

	return Answer{}, apperr.Validation(fmt.Sprintf("question %d: unknown question type %q", q.ID, q.Type))
}

// Complete reports whether the answer satisfies the shape contract for its
// own type. A zero Answer is never complete.
func (a Answer) Complete() bool {
	switch a.Type {
	case QuestionTypeYesNo:
		return a.Value == "yes" || a.Value == "no"
	case QuestionTypeThisThat, QuestionTypeMultipleChoice:
		return a.Value != ""
	case QuestionTypeRating:
		return a.Rating >= RatingMin && a.Rating <= RatingMax
	case QuestionTypeDesires, QuestionTypePainAvoidance:
		return len(a.Values) > 0
	}
	return false
}

// toInt accepts the integer encodings JSON decoding can produce.
func toInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func toStringSlice(raw any) ([]string, bool) {
	switch v := raw.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			text, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, text)
		}
		return out, true
	}
	return nil, false
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if !seen[value] {
			seen[value] = true
			out = append(out, value)
		}
	}
	return out
}
