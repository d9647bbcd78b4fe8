package service

import (
	"context"
	"testing"
	"time"

	assessments "github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/assessments/domain"
	assessmentsvc "github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/assessments/service"
	leadsdomain "github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/leads/domain"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/player/domain"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/player/session"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/apperr"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/events"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/logger"

	"github.com/google/uuid"
)

type fakeAssessments struct {
	byID map[uuid.UUID]assessments.Assessment
}

func (f *fakeAssessments) GetByID(_ context.Context, id uuid.UUID) (assessments.Assessment, error) {
	a, ok := f.byID[id]
	if !ok {
		return assessments.Assessment{}, apperr.NotFound("assessment not found")
	}
	return a, nil
}

type fakeLeads struct {
	captured []leadsdomain.Lead
}

func (f *fakeLeads) Capture(_ context.Context, lead leadsdomain.Lead) (leadsdomain.Lead, error) {
	lead.ID = uuid.New()
	f.captured = append(f.captured, lead)
	return lead, nil
}

type noClips struct{}

func (noClips) ResolveClip(context.Context, uuid.UUID, assessments.NarrationKind, int) (string, bool, error) {
	return "", false, nil
}

// prefetchingClips resolves no playable clip but reports a fixed slot
// resolution pass for session-start preloading.
type prefetchingClips struct {
	noClips
	resolved []assessmentsvc.ResolvedClip
}

func (p *prefetchingClips) ResolveAll(context.Context, assessments.Assessment) ([]assessmentsvc.ResolvedClip, error) {
	return p.resolved, nil
}

func fixtureAssessment() assessments.Assessment {
	return assessments.Assessment{
		ID:       uuid.New(),
		OwnerID:  uuid.New(),
		Title:    "Path to Growth",
		Audience: assessments.AudienceIndividual,
		Questions: []assessments.Question{
			{ID: 1, Type: assessments.QuestionTypeYesNo, Question: "Are you ready?"},
			{ID: 2, Type: assessments.QuestionTypeRating, Question: "How motivated are you?"},
			{ID: 3, Type: assessments.QuestionTypeMultipleChoice, Question: "When?", Options: []string{"now", "soon", "someday"}},
		},
	}
}

func newTestService(t *testing.T, a assessments.Assessment) (*Service, *fakeLeads) {
	t.Helper()
	leads := &fakeLeads{}
	svc := New(
		&fakeAssessments{byID: map[uuid.UUID]assessments.Assessment{a.ID: a}},
		session.NewMemoryStore(time.Hour),
		leads,
		noClips{},
		events.NewInMemoryBus(logger.New("test")),
		false,
		logger.New("test"),
	)
	return svc, leads
}

// Full traversal: start, identify, answer each question, advance to
// completion, and verify the captured lead carries the computed score.
func TestFullTraversalCapturesScoredLead(t *testing.T) {
	a := fixtureAssessment()
	svc, leads := newTestService(t, a)
	ctx := context.Background()

	view, err := svc.Start(ctx, a.ID, "website")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if view.QuestionCount != 3 {
		t.Fatalf("expected 3 questions, got %d", view.QuestionCount)
	}
	if view.Narration == nil || view.Narration.Kind != "welcome" {
		t.Fatalf("expected welcome narration directive, got %+v", view.Narration)
	}

	q, err := svc.SubmitContact(ctx, view.SessionID, contact())
	if err != nil {
		t.Fatalf("contact failed: %v", err)
	}
	if q.Question.ID != 1 || q.Index != 0 {
		t.Fatalf("expected first question, got %+v", q)
	}

	answers := map[int]any{1: "yes", 2: 8, 3: "now"}
	var final AdvanceView
	for i := 0; i < 3; i++ {
		current, err := svc.CurrentQuestion(ctx, view.SessionID)
		if err != nil {
			t.Fatalf("current question failed: %v", err)
		}
		if _, err := svc.RecordAnswer(ctx, view.SessionID, current.Question.ID, answers[current.Question.ID]); err != nil {
			t.Fatalf("answer %d failed: %v", current.Question.ID, err)
		}
		final, err = svc.Advance(ctx, view.SessionID)
		if err != nil {
			t.Fatalf("advance failed: %v", err)
		}
	}

	if !final.Completed {
		t.Fatal("expected completion after last advance")
	}
	if final.Results == nil || final.Results.CompletionRate != 100 {
		t.Fatalf("expected full completion rate, got %+v", final.Results)
	}
	if final.Narration == nil || final.Narration.Kind != "congratulations" {
		t.Fatalf("expected congratulations narration, got %+v", final.Narration)
	}

	if len(leads.captured) != 1 {
		t.Fatalf("expected one captured lead, got %d", len(leads.captured))
	}
	lead := leads.captured[0]
	if lead.Score == nil || *lead.Score != final.Results.OverallScore {
		t.Fatalf("lead score %v does not match results %d", lead.Score, final.Results.OverallScore)
	}
	if lead.CompletedAt == nil {
		t.Fatal("completed lead missing completedAt")
	}
	if lead.OwnerID != a.OwnerID {
		t.Fatal("lead not scoped to assessment owner")
	}
	if len(lead.Responses) != 3 {
		t.Fatalf("expected 3 recorded responses, got %d", len(lead.Responses))
	}

	results, err := svc.Results(ctx, view.SessionID)
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if results.OverallScore != final.Results.OverallScore {
		t.Fatalf("results not stable: %d != %d", results.OverallScore, final.Results.OverallScore)
	}
}

// A retried advance on a finished traversal, e.g. a double-clicked Next or a
// replayed POST, must not capture the lead again. It returns the recomputed
// results and nothing else.
func TestRepeatedAdvanceAfterCompletionCapturesOnce(t *testing.T) {
	a := fixtureAssessment()
	svc, leads := newTestService(t, a)
	ctx := context.Background()

	view, err := svc.Start(ctx, a.ID, "website")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := svc.SubmitContact(ctx, view.SessionID, contact()); err != nil {
		t.Fatalf("contact failed: %v", err)
	}

	answers := map[int]any{1: "yes", 2: 8, 3: "now"}
	var final AdvanceView
	for _, q := range a.Questions {
		if _, err := svc.RecordAnswer(ctx, view.SessionID, q.ID, answers[q.ID]); err != nil {
			t.Fatalf("answer %d failed: %v", q.ID, err)
		}
		final, err = svc.Advance(ctx, view.SessionID)
		if err != nil {
			t.Fatalf("advance failed: %v", err)
		}
	}
	if !final.Completed || final.Results == nil {
		t.Fatalf("expected completion, got %+v", final)
	}

	again, err := svc.Advance(ctx, view.SessionID)
	if err != nil {
		t.Fatalf("retried advance failed: %v", err)
	}
	if !again.Completed || again.Advanced {
		t.Fatalf("retried advance must report completion without movement, got %+v", again)
	}
	if again.Results == nil || again.Results.OverallScore != final.Results.OverallScore {
		t.Fatalf("retried advance results drifted: %+v vs %+v", again.Results, final.Results)
	}
	if again.Narration != nil {
		t.Fatal("retried advance must not re-cue the congratulations narration")
	}
	if len(leads.captured) != 1 {
		t.Fatalf("expected exactly 1 captured lead, got %d", len(leads.captured))
	}
}

func TestAdvanceWithoutAnswerDoesNotMove(t *testing.T) {
	a := fixtureAssessment()
	svc, leads := newTestService(t, a)
	ctx := context.Background()

	view, _ := svc.Start(ctx, a.ID, "website")
	if _, err := svc.SubmitContact(ctx, view.SessionID, contact()); err != nil {
		t.Fatalf("contact failed: %v", err)
	}

	out, err := svc.Advance(ctx, view.SessionID)
	if err != nil {
		t.Fatalf("advance errored instead of blocking: %v", err)
	}
	if out.Advanced || out.Completed {
		t.Fatalf("advance moved without an answer: %+v", out)
	}
	if out.Question == nil || out.Question.Index != 0 {
		t.Fatalf("expected to stay on question 0, got %+v", out.Question)
	}
	if len(leads.captured) != 0 {
		t.Fatal("no lead should be captured yet")
	}
}

func TestAbandonMidTraversalCapturesPartialLead(t *testing.T) {
	a := fixtureAssessment()
	svc, leads := newTestService(t, a)
	ctx := context.Background()

	view, _ := svc.Start(ctx, a.ID, "referral")
	if _, err := svc.SubmitContact(ctx, view.SessionID, contact()); err != nil {
		t.Fatalf("contact failed: %v", err)
	}
	if _, err := svc.RecordAnswer(ctx, view.SessionID, 1, "no"); err != nil {
		t.Fatalf("answer failed: %v", err)
	}

	if err := svc.Abandon(ctx, view.SessionID); err != nil {
		t.Fatalf("abandon failed: %v", err)
	}

	if len(leads.captured) != 1 {
		t.Fatalf("expected one partial lead, got %d", len(leads.captured))
	}
	partial := leads.captured[0]
	if partial.Score != nil || partial.CompletedAt != nil {
		t.Fatalf("partial lead must have no score or completion time: %+v", partial)
	}
	if partial.Source != leadsdomain.SourceReferral {
		t.Fatalf("expected referral source, got %s", partial.Source)
	}

	// The session is gone afterwards.
	if _, err := svc.CurrentQuestion(ctx, view.SessionID); !apperr.Is(err, apperr.KindGone) {
		t.Fatalf("expected gone session, got %v", err)
	}
}

func TestAbandonBeforeContactCapturesNothing(t *testing.T) {
	a := fixtureAssessment()
	svc, leads := newTestService(t, a)
	ctx := context.Background()

	view, _ := svc.Start(ctx, a.ID, "website")
	if err := svc.Abandon(ctx, view.SessionID); err != nil {
		t.Fatalf("abandon failed: %v", err)
	}
	if len(leads.captured) != 0 {
		t.Fatalf("expected no lead without contact, got %d", len(leads.captured))
	}
}

func TestResultsBeforeCompletionRejected(t *testing.T) {
	a := fixtureAssessment()
	svc, _ := newTestService(t, a)
	ctx := context.Background()

	view, _ := svc.Start(ctx, a.ID, "website")
	if _, err := svc.SubmitContact(ctx, view.SessionID, contact()); err != nil {
		t.Fatalf("contact failed: %v", err)
	}

	if _, err := svc.Results(ctx, view.SessionID); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("expected conflict for early results, got %v", err)
	}
}

func TestUnknownSessionIsGone(t *testing.T) {
	a := fixtureAssessment()
	svc, _ := newTestService(t, a)

	if _, err := svc.CurrentQuestion(context.Background(), uuid.New()); !apperr.Is(err, apperr.KindGone) {
		t.Fatalf("expected gone for unknown session, got %v", err)
	}
}

// Without clips and with the speech fallback disabled, every narration
// directive degrades to silence but the flow never stalls.
func TestNarrationDegradesToSilence(t *testing.T) {
	a := fixtureAssessment()
	svc, _ := newTestService(t, a)
	ctx := context.Background()

	view, _ := svc.Start(ctx, a.ID, "website")
	if view.Narration.Backend != "none" {
		t.Fatalf("expected silent narration backend, got %q", view.Narration.Backend)
	}

	q, err := svc.SubmitContact(ctx, view.SessionID, contact())
	if err != nil {
		t.Fatalf("contact failed: %v", err)
	}
	if q.Narration == nil || q.Narration.Backend != "none" {
		t.Fatalf("expected silent question narration, got %+v", q.Narration)
	}
}

// Narration pacing runs server-side and outlives the request that cued it:
// canceling the originating context must not interrupt playback, and a later
// pause/resume request must still find it active.
func TestNarrationOutlivesRequestContext(t *testing.T) {
	a := fixtureAssessment()
	a.Description = "Welcome to your path to growth."
	svc := New(
		&fakeAssessments{byID: map[uuid.UUID]assessments.Assessment{a.ID: a}},
		session.NewMemoryStore(time.Hour),
		&fakeLeads{},
		noClips{},
		events.NewInMemoryBus(logger.New("test")),
		true,
		logger.New("test"),
	)

	reqCtx, cancel := context.WithCancel(context.Background())
	view, err := svc.Start(reqCtx, a.ID, "website")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if view.Narration == nil || view.Narration.Backend != "speech" {
		t.Fatalf("expected synthesized welcome narration, got %+v", view.Narration)
	}

	// The handler returned; its context is gone.
	cancel()
	time.Sleep(20 * time.Millisecond)

	if err := svc.PauseNarration(view.SessionID); err != nil {
		t.Fatalf("pause after the cueing request ended failed: %v", err)
	}
	if err := svc.ResumeNarration(context.Background(), view.SessionID); err != nil {
		t.Fatalf("resume after the cueing request ended failed: %v", err)
	}

	if err := svc.Abandon(context.Background(), view.SessionID); err != nil {
		t.Fatalf("abandon failed: %v", err)
	}
}

// Session start resolves every narration slot once and hands the client the
// clips it can fetch ahead of playback. Unresolved slots stay out of the list.
func TestStartPreloadsResolvedClips(t *testing.T) {
	a := fixtureAssessment()
	resolver := &prefetchingClips{resolved: []assessmentsvc.ResolvedClip{
		{Kind: assessments.NarrationWelcome, URL: "https://cdn/welcome.mp3", Found: true},
		{Kind: assessments.NarrationKeepGoing, Found: false},
		{Kind: assessments.NarrationQuestion, QuestionID: 2, URL: "https://cdn/q2.mp3", Found: true},
	}}
	svc := New(
		&fakeAssessments{byID: map[uuid.UUID]assessments.Assessment{a.ID: a}},
		session.NewMemoryStore(time.Hour),
		&fakeLeads{},
		resolver,
		events.NewInMemoryBus(logger.New("test")),
		false,
		logger.New("test"),
	)

	view, err := svc.Start(context.Background(), a.ID, "website")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if len(view.Preload) != 2 {
		t.Fatalf("expected 2 preloadable clips, got %+v", view.Preload)
	}
	if view.Preload[0].Kind != "welcome" || view.Preload[0].URL != "https://cdn/welcome.mp3" {
		t.Fatalf("unexpected first preload entry: %+v", view.Preload[0])
	}
	if view.Preload[1].QuestionID != 2 {
		t.Fatalf("expected question 2 clip, got %+v", view.Preload[1])
	}
}

// A resolver without the slot-resolution pass produces no preload list.
func TestStartWithoutPrefetcherHasNoPreload(t *testing.T) {
	a := fixtureAssessment()
	svc, _ := newTestService(t, a)

	view, err := svc.Start(context.Background(), a.ID, "website")
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if view.Preload != nil {
		t.Fatalf("expected no preload list, got %+v", view.Preload)
	}
}

func TestRetreatReplaysNarration(t *testing.T) {
	a := fixtureAssessment()
	svc, _ := newTestService(t, a)
	ctx := context.Background()

	view, _ := svc.Start(ctx, a.ID, "website")
	if _, err := svc.SubmitContact(ctx, view.SessionID, contact()); err != nil {
		t.Fatalf("contact failed: %v", err)
	}
	if _, err := svc.RecordAnswer(ctx, view.SessionID, 1, "yes"); err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	if _, err := svc.Advance(ctx, view.SessionID); err != nil {
		t.Fatalf("advance failed: %v", err)
	}

	out, err := svc.Retreat(ctx, view.SessionID)
	if err != nil {
		t.Fatalf("retreat failed: %v", err)
	}
	if !out.Advanced || out.Question == nil || out.Question.Index != 0 {
		t.Fatalf("expected retreat to question 0, got %+v", out)
	}
	if out.Question.Narration == nil || out.Question.Narration.QuestionID != 1 {
		t.Fatalf("expected narration for question 1, got %+v", out.Question.Narration)
	}
	if out.Question.Progress == 0 {
		t.Fatal("retreat should keep recorded answers in progress")
	}
}

func contact() domain.Contact {
	return domain.Contact{Name: "Jamie Doe", Email: "jamie@example.com", Phone: "+14155552671"}
}
