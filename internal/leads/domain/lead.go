// Package domain defines the lead model for the leads bounded context.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Source is the acquisition channel a lead arrived through.
type Source string

const (
	SourceWebsite     Source = "website"
	SourceEmail       Source = "email"
	SourceReferral    Source = "referral"
	SourceSocialMedia Source = "social-media"
	SourceEvent       Source = "event"
	SourceOther       Source = "other"
)

// Normalize folds unknown values into "other" so aggregation keys stay
// bounded.
func (s Source) Normalize() Source {
	switch s {
	case SourceWebsite, SourceEmail, SourceReferral, SourceSocialMedia, SourceEvent:
		return s
	}
	return SourceOther
}

// Status is the follow-up pipeline stage of a lead.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusConverted Status = "converted"
)

// Valid reports whether the status is a known pipeline stage.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusConverted:
		return true
	}
	return false
}

// Lead is one captured respondent. Score and CompletedAt are nil for leads
// captured from abandoned sessions.
type Lead struct {
	ID           uuid.UUID
	AssessmentID uuid.UUID
	OwnerID      uuid.UUID
	Name         string
	Email        string
	Phone        string
	AgeRange     string
	Gender       string
	Source       Source
	Status       Status
	Score        *int
	Responses    map[int]any
	CompletedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
