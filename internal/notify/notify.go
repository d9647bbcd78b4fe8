// Package notify bridges domain events to background notification tasks.
package notify

import (
	"context"
	"fmt"

	assessdomain "github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/assessments/domain"
	authrepo "github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/auth/repository"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/events"
	leaddomain "github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/leads/domain"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/scheduler"
	pevents "github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/events"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/logger"

	"github.com/google/uuid"
)

type LeadSource interface {
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (leaddomain.Lead, error)
}

type AssessmentSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (assessdomain.Assessment, error)
}

type OwnerSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (authrepo.User, error)
}

// LeadNotificationSubscriber turns LeadCaptured events into queued email
// tasks for the assessment owner.
type LeadNotificationSubscriber struct {
	leads       LeadSource
	assessments AssessmentSource
	owners      OwnerSource
	notifier    scheduler.LeadNotifier
	log         *logger.Logger
}

func NewLeadNotificationSubscriber(
	leads LeadSource,
	assessments AssessmentSource,
	owners OwnerSource,
	notifier scheduler.LeadNotifier,
	log *logger.Logger,
) *LeadNotificationSubscriber {
	return &LeadNotificationSubscriber{
		leads:       leads,
		assessments: assessments,
		owners:      owners,
		notifier:    notifier,
		log:         log,
	}
}

// Register subscribes the handler on the bus. No-op when no notifier is
// configured, so the API runs fine without Redis.
func (s *LeadNotificationSubscriber) Register(bus events.Bus) {
	if s.notifier == nil {
		s.log.Info("lead notifications disabled: no task queue configured")
		return
	}
	bus.Subscribe(events.LeadCaptured{}.EventName(), events.HandlerFunc(s.handle))
}

func (s *LeadNotificationSubscriber) handle(ctx context.Context, event pevents.Event) error {
	captured, ok := event.(events.LeadCaptured)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	owner, err := s.owners.GetByID(ctx, captured.OwnerID)
	if err != nil {
		return fmt.Errorf("lead notification owner lookup: %w", err)
	}

	lead, err := s.leads.GetByID(ctx, captured.OwnerID, captured.LeadID)
	if err != nil {
		return fmt.Errorf("lead notification lead lookup: %w", err)
	}

	a, err := s.assessments.GetByID(ctx, captured.AssessmentID)
	if err != nil {
		return fmt.Errorf("lead notification assessment lookup: %w", err)
	}

	payload := scheduler.LeadNotificationPayload{
		LeadID:          captured.LeadID.String(),
		OwnerEmail:      owner.Email,
		OwnerName:       owner.Name,
		LeadName:        lead.Name,
		LeadEmail:       lead.Email,
		LeadPhone:       lead.Phone,
		AssessmentTitle: a.Title,
		Score:           captured.Score,
		Completed:       captured.Completed,
	}

	if err := s.notifier.EnqueueLeadNotification(ctx, payload); err != nil {
		return fmt.Errorf("enqueue lead notification: %w", err)
	}

	s.log.Info("lead notification queued", "leadId", captured.LeadID, "owner", owner.Email)
	return nil
}
