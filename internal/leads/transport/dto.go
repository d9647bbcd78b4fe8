// Package transport defines request/response DTOs for the leads API.
package transport

import (
	"time"

	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/leads/domain"

	"github.com/google/uuid"
)

// UpdateLeadStatusRequest moves a lead through the follow-up pipeline.
type UpdateLeadStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new contacted qualified converted"`
}

// LeadResponse is the admin-facing lead representation.
type LeadResponse struct {
	ID           uuid.UUID   `json:"id"`
	AssessmentID uuid.UUID   `json:"assessmentId"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone,omitempty"`
	AgeRange     string      `json:"ageRange,omitempty"`
	Gender       string      `json:"gender,omitempty"`
	Source       string      `json:"source"`
	Status       string      `json:"status"`
	Score        *int        `json:"score"`
	Responses    map[int]any `json:"responses,omitempty"`
	CompletedAt  *time.Time  `json:"completedAt"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// FromDomain converts a domain lead into the response shape.
func FromDomain(lead domain.Lead) LeadResponse {
	return LeadResponse{
		ID:           lead.ID,
		AssessmentID: lead.AssessmentID,
		Name:         lead.Name,
		Email:        lead.Email,
		Phone:        lead.Phone,
		AgeRange:     lead.AgeRange,
		Gender:       lead.Gender,
		Source:       string(lead.Source),
		Status:       string(lead.Status),
		Score:        lead.Score,
		Responses:    lead.Responses,
		CompletedAt:  lead.CompletedAt,
		CreatedAt:    lead.CreatedAt,
		UpdatedAt:    lead.UpdatedAt,
	}
}

// FromDomainList converts a list of leads.
func FromDomainList(leads []domain.Lead) []LeadResponse {
	resp := make([]LeadResponse, 0, len(leads))
	for _, lead := range leads {
		resp = append(resp, FromDomain(lead))
	}
	return resp
}
