// Package events defines the domain events exchanged between modules.
package events

import (
	"time"

	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/events"

	"github.com/google/uuid"
)

// Bus re-exports the platform bus so modules only import this package.
type Bus = events.Bus

// Handler re-exports the platform handler interface.
type Handler = events.Handler

// HandlerFunc re-exports the platform handler adapter.
type HandlerFunc = events.HandlerFunc

// LeadCaptured is published when a lead row is persisted, whether from a
// completed traversal or an abandoned session with contact captured.
type LeadCaptured struct {
	events.BaseEvent
	LeadID       uuid.UUID
	AssessmentID uuid.UUID
	OwnerID      uuid.UUID
	Email        string
	Score        *int
	Completed    bool
}

// NewLeadCaptured creates the event with its occurrence time set.
func NewLeadCaptured(leadID, assessmentID, ownerID uuid.UUID, email string, score *int, completed bool) LeadCaptured {
	return LeadCaptured{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       leadID,
		AssessmentID: assessmentID,
		OwnerID:      ownerID,
		Email:        email,
		Score:        score,
		Completed:    completed,
	}
}

// EventName identifies the event type on the bus.
func (LeadCaptured) EventName() string { return "leads.captured" }

// AssessmentCompleted is published when a respondent finishes a traversal.
type AssessmentCompleted struct {
	events.BaseEvent
	SessionID    uuid.UUID
	AssessmentID uuid.UUID
	OverallScore int
	CompletedAt  time.Time
}

// NewAssessmentCompleted creates the event with its occurrence time set.
func NewAssessmentCompleted(sessionID, assessmentID uuid.UUID, overallScore int, completedAt time.Time) AssessmentCompleted {
	return AssessmentCompleted{
		BaseEvent:    events.NewBaseEvent(),
		SessionID:    sessionID,
		AssessmentID: assessmentID,
		OverallScore: overallScore,
		CompletedAt:  completedAt,
	}
}

// EventName identifies the event type on the bus.
func (AssessmentCompleted) EventName() string { return "player.completed" }
