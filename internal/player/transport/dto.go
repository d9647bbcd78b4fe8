// Package transport defines request DTOs for the public player API.
package transport

import "github.com/google/uuid"

// StartSessionRequest opens a respondent session for an assessment.
type StartSessionRequest struct {
	AssessmentID uuid.UUID `json:"assessmentId" validate:"required"`
	Source       string    `json:"source" validate:"omitempty,oneof=website email referral social-media event other"`
}

// ContactRequest submits the intro contact form.
type ContactRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"max=40"`
	AgeRange string `json:"ageRange" validate:"max=40"`
	Gender   string `json:"gender" validate:"max=40"`
}

// AnswerRequest records an answer for one question. Value's shape depends on
// the question type: string, number, or array of strings.
type AnswerRequest struct {
	QuestionID int `json:"questionId" validate:"required,gt=0"`
	Value      any `json:"value" validate:"required"`
}

// NarrationRequest replays a narration slot.
type NarrationRequest struct {
	Kind string `json:"kind" validate:"required,oneof=welcome question keep-going congratulations contact-form"`
}

// ProgressResponse reports progress after recording an answer.
type ProgressResponse struct {
	Progress int `json:"progress"`
}
