package notify

import (
	"context"
	"testing"

	assessdomain "github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/assessments/domain"
	authrepo "github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/auth/repository"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/events"
	leaddomain "github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/leads/domain"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/scheduler"
	pevents "github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/events"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/logger"

	"github.com/google/uuid"
)

type fakeLeads struct {
	lead leaddomain.Lead
}

func (f *fakeLeads) GetByID(_ context.Context, _, _ uuid.UUID) (leaddomain.Lead, error) {
	return f.lead, nil
}

type fakeAssessments struct {
	assessment assessdomain.Assessment
}

func (f *fakeAssessments) GetByID(_ context.Context, _ uuid.UUID) (assessdomain.Assessment, error) {
	return f.assessment, nil
}

type fakeOwners struct {
	user authrepo.User
}

func (f *fakeOwners) GetByID(_ context.Context, _ uuid.UUID) (authrepo.User, error) {
	return f.user, nil
}

type fakeNotifier struct {
	payloads []scheduler.LeadNotificationPayload
}

func (f *fakeNotifier) EnqueueLeadNotification(_ context.Context, payload scheduler.LeadNotificationPayload) error {
	f.payloads = append(f.payloads, payload)
	return nil
}

func TestLeadCapturedEnqueuesNotification(t *testing.T) {
	log := logger.New("test")
	ownerID := uuid.New()
	leadID := uuid.New()
	assessmentID := uuid.New()
	score := 82

	notifier := &fakeNotifier{}
	sub := NewLeadNotificationSubscriber(
		&fakeLeads{lead: leaddomain.Lead{
			ID:    leadID,
			Name:  "Jamie Doe",
			Email: "jamie@example.com",
			Phone: "+14155552671",
		}},
		&fakeAssessments{assessment: assessdomain.Assessment{
			ID:    assessmentID,
			Title: "Leadership Readiness",
		}},
		&fakeOwners{user: authrepo.User{
			ID:    ownerID,
			Email: "owner@example.com",
			Name:  "Morgan Vale",
		}},
		notifier,
		log,
	)

	bus := pevents.NewInMemoryBus(log)
	sub.Register(bus)

	event := events.NewLeadCaptured(leadID, assessmentID, ownerID, "jamie@example.com", &score, true)
	if err := bus.PublishSync(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if len(notifier.payloads) != 1 {
		t.Fatalf("expected 1 queued notification, got %d", len(notifier.payloads))
	}
	payload := notifier.payloads[0]
	if payload.OwnerEmail != "owner@example.com" {
		t.Errorf("OwnerEmail = %q", payload.OwnerEmail)
	}
	if payload.LeadName != "Jamie Doe" {
		t.Errorf("LeadName = %q", payload.LeadName)
	}
	if payload.AssessmentTitle != "Leadership Readiness" {
		t.Errorf("AssessmentTitle = %q", payload.AssessmentTitle)
	}
	if payload.Score == nil || *payload.Score != 82 {
		t.Errorf("Score = %v, want 82", payload.Score)
	}
	if !payload.Completed {
		t.Error("Completed = false, want true")
	}
}

func TestRegisterWithoutNotifierIsNoop(t *testing.T) {
	log := logger.New("test")
	sub := NewLeadNotificationSubscriber(&fakeLeads{}, &fakeAssessments{}, &fakeOwners{}, nil, log)

	bus := pevents.NewInMemoryBus(log)
	sub.Register(bus)

	event := events.NewLeadCaptured(uuid.New(), uuid.New(), uuid.New(), "a@b.c", nil, false)
	if err := bus.PublishSync(context.Background(), event); err != nil {
		t.Fatalf("publish: %v", err)
	}
}
