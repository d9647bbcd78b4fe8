// Package transport defines request/response DTOs for the assessments API.
package transport

import (
	"time"

	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/assessments/domain"

	"github.com/google/uuid"
)

// QuestionPayload carries one question in create/update requests.
type QuestionPayload struct {
	ID          int      `json:"id" validate:"required,gt=0"`
	Type        string   `json:"type" validate:"required,oneof=yes-no this-that multiple-choice rating desires pain-avoidance"`
	Question    string   `json:"question" validate:"required"`
	VoiceScript string   `json:"voiceScript"`
	Options     []string `json:"options"`
	AudioURL    *string  `json:"audio" validate:"omitempty,url"`
}

// CreateAssessmentRequest creates a new assessment.
type CreateAssessmentRequest struct {
	Title       string            `json:"title" validate:"required,max=200"`
	Description string            `json:"description" validate:"max=2000"`
	Audience    string            `json:"audience" validate:"omitempty,oneof=individual business"`
	Tags        []string          `json:"tags" validate:"dive,max=60"`
	Questions   []QuestionPayload `json:"questions" validate:"required,min=1,dive"`
}

// UpdateAssessmentRequest replaces an assessment's content.
type UpdateAssessmentRequest struct {
	Title       string            `json:"title" validate:"required,max=200"`
	Description string            `json:"description" validate:"max=2000"`
	Audience    string            `json:"audience" validate:"omitempty,oneof=individual business"`
	Tags        []string          `json:"tags" validate:"dive,max=60"`
	Questions   []QuestionPayload `json:"questions" validate:"required,min=1,dive"`
}

// AssessmentResponse is the admin-facing representation.
type AssessmentResponse struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Audience    string            `json:"audience"`
	Tags        []string          `json:"tags"`
	Questions   []QuestionPayload `json:"questions"`
	ShareURL    string            `json:"shareUrl"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// PublicAssessmentResponse is the respondent-facing intro representation.
// Question content is delivered one at a time by the player flow.
type PublicAssessmentResponse struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Audience      string    `json:"audience"`
	QuestionCount int       `json:"questionCount"`
}

// VoiceAssetResponse describes one uploaded narration clip.
type VoiceAssetResponse struct {
	ID          uuid.UUID `json:"id"`
	Kind        string    `json:"kind"`
	QuestionID  int       `json:"questionId,omitempty"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToDomain converts a request payload into the domain model.
func ToDomain(title, description, audience string, tags []string, questions []QuestionPayload) domain.Assessment {
	qs := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		qs = append(qs, domain.Question{
			ID:          q.ID,
			Type:        domain.QuestionType(q.Type),
			Question:    q.Question,
			VoiceScript: q.VoiceScript,
			Options:     q.Options,
			AudioURL:    q.AudioURL,
		})
	}
	return domain.Assessment{
		Title:       title,
		Description: description,
		Audience:    domain.Audience(audience).Normalize(),
		Tags:        tags,
		Questions:   qs,
	}
}

// FromDomain converts a domain assessment into the admin response.
func FromDomain(a domain.Assessment, shareURL string) AssessmentResponse {
	qs := make([]QuestionPayload, 0, len(a.Questions))
	for _, q := range a.Questions {
		qs = append(qs, QuestionPayload{
			ID:          q.ID,
			Type:        string(q.Type),
			Question:    q.Question,
			VoiceScript: q.VoiceScript,
			Options:     q.Options,
			AudioURL:    q.AudioURL,
		})
	}
	return AssessmentResponse{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Audience:    string(a.Audience),
		Tags:        a.Tags,
		Questions:   qs,
		ShareURL:    shareURL,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// FromDomainPublic converts a domain assessment into the public response.
func FromDomainPublic(a domain.Assessment) PublicAssessmentResponse {
	return PublicAssessmentResponse{
		ID:            a.ID,
		Title:         a.Title,
		Description:   a.Description,
		Audience:      string(a.Audience),
		QuestionCount: len(a.Questions),
	}
}
