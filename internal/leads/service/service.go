// Package service implements lead capture and management.
package service

import (
	"context"

	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/events"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/leads/domain"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/leads/repository"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/apperr"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/logger"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/phone"

	"github.com/google/uuid"
)

type Service struct {
	repo     *repository.Repository
	eventBus events.Bus
	log      *logger.Logger
}

func New(repo *repository.Repository, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, eventBus: eventBus, log: log}
}

// Capture persists a lead and publishes LeadCaptured. Called by the player
// on traversal completion (full score) and on abandonment with contact
// captured (nil score, nil completedAt). The phone number is normalized to
// E.164 when it parses; an unparseable phone is kept verbatim rather than
// losing the lead.
func (s *Service) Capture(ctx context.Context, lead domain.Lead) (domain.Lead, error) {
	if lead.Name == "" || lead.Email == "" {
		return domain.Lead{}, apperr.Validation("lead requires name and email")
	}

	lead.ID = uuid.New()
	lead.Source = lead.Source.Normalize()
	lead.Status = domain.StatusNew
	lead.Phone = phone.NormalizeE164(lead.Phone)

	created, err := s.repo.Create(ctx, lead)
	if err != nil {
		return domain.Lead{}, err
	}

	score := 0
	if created.Score != nil {
		score = *created.Score
	}
	s.log.LeadEvent("captured", created.ID.String(), score)

	s.eventBus.Publish(ctx, events.NewLeadCaptured(
		created.ID, created.AssessmentID, created.OwnerID,
		created.Email, created.Score, created.CompletedAt != nil))

	return created, nil
}

func (s *Service) GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.Lead, error) {
	return s.repo.GetByID(ctx, ownerID, id)
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID, assessmentID *uuid.UUID, status *domain.Status) ([]domain.Lead, error) {
	if status != nil && !status.Valid() {
		return nil, apperr.Validation("unknown lead status")
	}
	return s.repo.ListByOwner(ctx, ownerID, assessmentID, status)
}

func (s *Service) UpdateStatus(ctx context.Context, ownerID, id uuid.UUID, status domain.Status) (domain.Lead, error) {
	if !status.Valid() {
		return domain.Lead{}, apperr.Validation("unknown lead status")
	}
	return s.repo.UpdateStatus(ctx, ownerID, id, status)
}

func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.Delete(ctx, ownerID, id)
}
