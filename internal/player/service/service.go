// Package service orchestrates the respondent player flow: session
// lifecycle, answer recording, narration directives, and the completion
// handoff to scoring and lead capture.
package service

import (
	"context"
	"sync"

	assessments "github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/assessments/domain"
	assessmentsvc "github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/assessments/service"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/events"
	leadsdomain "github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/leads/domain"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/player/domain"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/player/session"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/scoring"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/voice"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/apperr"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/logger"

	"github.com/google/uuid"
)

// AssessmentSource is the read surface the player needs from assessments.
type AssessmentSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (assessments.Assessment, error)
}

// LeadSink receives captured leads on completion or abandonment.
type LeadSink interface {
	Capture(ctx context.Context, lead leadsdomain.Lead) (leadsdomain.Lead, error)
}

// ClipPrefetcher is the optional resolver surface that resolves every
// narration slot of an assessment in one pass. Resolvers without it simply
// produce sessions with no preload list.
type ClipPrefetcher interface {
	ResolveAll(ctx context.Context, assessment assessments.Assessment) ([]assessmentsvc.ResolvedClip, error)
}

// NarrationPreload points the client at a narration clip it can fetch before
// the slot is cued.
type NarrationPreload struct {
	Kind       string `json:"kind"`
	QuestionID int    `json:"questionId,omitempty"`
	URL        string `json:"url"`
}

// Narration is the playback directive returned to the client for one cue.
type Narration struct {
	Kind       string `json:"kind"`
	QuestionID int    `json:"questionId,omitempty"`
	Backend    string `json:"backend"`
	URL        string `json:"url,omitempty"`
	Text       string `json:"text,omitempty"`
}

// QuestionView is the player's view of the current question.
type QuestionView struct {
	Question   assessments.Question `json:"question"`
	Index      int                  `json:"index"`
	Total      int                  `json:"total"`
	Progress   int                  `json:"progress"`
	CanRetreat bool                 `json:"canRetreat"`
	Narration  *Narration           `json:"narration,omitempty"`
}

// SessionView describes a freshly started session.
type SessionView struct {
	SessionID     uuid.UUID          `json:"sessionId"`
	AssessmentID  uuid.UUID          `json:"assessmentId"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Audience      string             `json:"audience"`
	QuestionCount int                `json:"questionCount"`
	Narration     *Narration         `json:"narration,omitempty"`
	Preload       []NarrationPreload `json:"preload,omitempty"`
}

// AdvanceView is the outcome of an advance attempt.
type AdvanceView struct {
	Advanced  bool             `json:"advanced"`
	Completed bool             `json:"completed"`
	Question  *QuestionView    `json:"question,omitempty"`
	Results   *scoring.Results `json:"results,omitempty"`
	Narration *Narration       `json:"narration,omitempty"`
}

// coordinatorRegistry tracks one voice coordinator per live session in this
// process. Coordinators hold in-flight playback state and are not persisted;
// a session migrating to another instance simply gets a fresh coordinator.
type coordinatorRegistry struct {
	mu    sync.Mutex
	items map[uuid.UUID]*voice.Coordinator
}

func (r *coordinatorRegistry) getOrCreate(sessionID uuid.UUID, build func() *voice.Coordinator) *voice.Coordinator {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.items[sessionID]; ok {
		return c
	}
	c := build()
	r.items[sessionID] = c
	return c
}

func (r *coordinatorRegistry) drop(sessionID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.items[sessionID]; ok {
		c.StopAll()
		delete(r.items, sessionID)
	}
}

type Service struct {
	assessments     AssessmentSource
	store           session.Store
	leads           LeadSink
	resolver        voice.ClipResolver
	eventBus        events.Bus
	fallbackEnabled bool
	coordinators    *coordinatorRegistry
	log             *logger.Logger
}

func New(source AssessmentSource, store session.Store, leads LeadSink, resolver voice.ClipResolver, eventBus events.Bus, fallbackEnabled bool, log *logger.Logger) *Service {
	return &Service{
		assessments:     source,
		store:           store,
		leads:           leads,
		resolver:        resolver,
		eventBus:        eventBus,
		fallbackEnabled: fallbackEnabled,
		coordinators:    &coordinatorRegistry{items: make(map[uuid.UUID]*voice.Coordinator)},
		log:             log,
	}
}

func (s *Service) coordinator(sessionID uuid.UUID) *voice.Coordinator {
	return s.coordinators.getOrCreate(sessionID, func() *voice.Coordinator {
		return voice.New(sessionID.String(), s.resolver, &voice.TimedClipPlayer{}, &voice.ScriptSynthesizer{}, s.fallbackEnabled, s.log)
	})
}

// Start opens a session in the intro phase and cues the welcome narration.
func (s *Service) Start(ctx context.Context, assessmentID uuid.UUID, source string) (SessionView, error) {
	assessment, err := s.assessments.GetByID(ctx, assessmentID)
	if err != nil {
		return SessionView{}, err
	}
	if len(assessment.Questions) == 0 {
		return SessionView{}, apperr.Conflict("assessment has no questions")
	}

	traversal := domain.NewTraversal(assessmentID, source)
	if err := s.store.Save(ctx, traversal); err != nil {
		return SessionView{}, err
	}

	narration := s.play(ctx, traversal.SessionID, voice.Cue{
		AssessmentID: assessmentID,
		Kind:         assessments.NarrationWelcome,
		Text:         assessment.Description,
	})

	view := SessionView{
		SessionID:     traversal.SessionID,
		AssessmentID:  assessment.ID,
		Title:         assessment.Title,
		Description:   assessment.Description,
		Audience:      string(assessment.Audience),
		QuestionCount: len(assessment.Questions),
		Narration:     narration,
	}
	if prefetcher, ok := s.resolver.(ClipPrefetcher); ok {
		view.Preload = s.preloadClips(ctx, prefetcher, assessment)
	}
	return view, nil
}

// preloadClips resolves every narration slot once so the client can fetch
// clip audio ahead of playback. Best effort: a failed pass means no preload
// list, never a failed session start.
func (s *Service) preloadClips(ctx context.Context, prefetcher ClipPrefetcher, assessment assessments.Assessment) []NarrationPreload {
	resolved, err := prefetcher.ResolveAll(ctx, assessment)
	if err != nil {
		s.log.Error("narration preload failed", "error", err, "assessmentId", assessment.ID)
		return nil
	}
	preload := make([]NarrationPreload, 0, len(resolved))
	for _, clip := range resolved {
		if !clip.Found {
			continue
		}
		preload = append(preload, NarrationPreload{
			Kind:       string(clip.Kind),
			QuestionID: clip.QuestionID,
			URL:        clip.URL,
		})
	}
	if len(preload) == 0 {
		return nil
	}
	return preload
}

// SubmitContact records the lead identity and moves to the first question.
func (s *Service) SubmitContact(ctx context.Context, sessionID uuid.UUID, contact domain.Contact) (QuestionView, error) {
	traversal, assessment, err := s.load(ctx, sessionID)
	if err != nil {
		return QuestionView{}, err
	}

	if err := traversal.Start(contact); err != nil {
		return QuestionView{}, err
	}
	if err := s.store.Save(ctx, traversal); err != nil {
		return QuestionView{}, err
	}

	return s.questionView(ctx, traversal, assessment, true)
}

// CurrentQuestion returns the question at the session's index without
// touching narration, so reloading the page does not restart audio.
func (s *Service) CurrentQuestion(ctx context.Context, sessionID uuid.UUID) (QuestionView, error) {
	traversal, assessment, err := s.load(ctx, sessionID)
	if err != nil {
		return QuestionView{}, err
	}
	view, err := s.questionView(ctx, traversal, assessment, false)
	if err != nil {
		return QuestionView{}, err
	}
	// CurrentQuestion can clamp the phase when the question list shrank.
	if err := s.store.Save(ctx, traversal); err != nil {
		return QuestionView{}, err
	}
	return view, nil
}

// RecordAnswer validates and stores an answer. The index never moves.
func (s *Service) RecordAnswer(ctx context.Context, sessionID uuid.UUID, questionID int, raw any) (int, error) {
	traversal, assessment, err := s.load(ctx, sessionID)
	if err != nil {
		return 0, err
	}

	if err := traversal.RecordAnswer(assessment.Questions, questionID, raw); err != nil {
		return 0, err
	}
	if err := s.store.Save(ctx, traversal); err != nil {
		return 0, err
	}
	return traversal.Progress(assessment.Questions), nil
}

// Advance moves to the next question or completes the traversal. Completion
// triggers scoring, lead capture, events, and the congratulations narration.
func (s *Service) Advance(ctx context.Context, sessionID uuid.UUID) (AdvanceView, error) {
	traversal, assessment, err := s.load(ctx, sessionID)
	if err != nil {
		return AdvanceView{}, err
	}

	wasComplete := traversal.Phase == domain.PhaseComplete
	advanced, completed := traversal.Advance(assessment.Questions)
	if err := s.store.Save(ctx, traversal); err != nil {
		return AdvanceView{}, err
	}

	if completed {
		if wasComplete {
			// Retried or duplicated advance on a finished traversal. Scoring
			// is deterministic, so recompute the results without capturing the
			// lead or publishing completion again.
			results := scoring.ComputeResults(assessment.Questions, traversal.Answers)
			return AdvanceView{Completed: true, Results: &results}, nil
		}
		results, err := s.finalize(ctx, traversal, assessment)
		if err != nil {
			return AdvanceView{}, err
		}
		narration := s.play(ctx, sessionID, voice.Cue{
			AssessmentID: assessment.ID,
			Kind:         assessments.NarrationCongratulations,
			Text:         "Congratulations, you finished the assessment. Your results are ready.",
		})
		return AdvanceView{Advanced: advanced, Completed: true, Results: &results, Narration: narration}, nil
	}

	if !advanced {
		// Gate is closed: no complete answer for the current question. Not an
		// error; the UI keeps Next disabled.
		view, err := s.questionView(ctx, traversal, assessment, false)
		if err != nil {
			return AdvanceView{}, err
		}
		return AdvanceView{Question: &view}, nil
	}

	if atEncouragementPoint(traversal.Index, len(assessment.Questions)) {
		narration := s.play(ctx, sessionID, voice.Cue{
			AssessmentID: assessment.ID,
			Kind:         assessments.NarrationKeepGoing,
			Text:         "You're doing great. Keep going!",
		})
		view, err := s.questionView(ctx, traversal, assessment, false)
		if err != nil {
			return AdvanceView{}, err
		}
		view.Narration = narration
		return AdvanceView{Advanced: true, Question: &view}, nil
	}

	view, err := s.questionView(ctx, traversal, assessment, true)
	if err != nil {
		return AdvanceView{}, err
	}
	return AdvanceView{Advanced: true, Question: &view}, nil
}

// Retreat steps back one question and replays its narration.
func (s *Service) Retreat(ctx context.Context, sessionID uuid.UUID) (AdvanceView, error) {
	traversal, assessment, err := s.load(ctx, sessionID)
	if err != nil {
		return AdvanceView{}, err
	}

	moved := traversal.Retreat()
	if err := s.store.Save(ctx, traversal); err != nil {
		return AdvanceView{}, err
	}

	view, err := s.questionView(ctx, traversal, assessment, moved)
	if err != nil {
		return AdvanceView{}, err
	}
	return AdvanceView{Advanced: moved, Question: &view}, nil
}

// Results recomputes the score for a completed traversal. Scoring is
// deterministic, so recomputation always matches what was captured.
func (s *Service) Results(ctx context.Context, sessionID uuid.UUID) (scoring.Results, error) {
	traversal, assessment, err := s.load(ctx, sessionID)
	if err != nil {
		return scoring.Results{}, err
	}
	if traversal.Phase != domain.PhaseComplete {
		return scoring.Results{}, apperr.Conflict("assessment is not complete")
	}
	return scoring.ComputeResults(assessment.Questions, traversal.Answers), nil
}

// Abandon tears the session down. If the respondent identified themselves
// but never finished, the contact is still captured as a partial lead.
func (s *Service) Abandon(ctx context.Context, sessionID uuid.UUID) error {
	s.coordinators.drop(sessionID)

	traversal, err := s.store.Load(ctx, sessionID)
	if apperr.Is(err, apperr.KindGone) {
		return nil
	}
	if err != nil {
		return err
	}

	if traversal.Phase == domain.PhaseInProgress && !traversal.Contact.Empty() {
		assessment, err := s.assessments.GetByID(ctx, traversal.AssessmentID)
		if err == nil {
			if _, err := s.leads.Capture(ctx, buildLead(traversal, assessment, nil)); err != nil {
				s.log.Error("failed to capture abandoned lead", "error", err, "sessionId", sessionID)
			}
		}
	}

	return s.store.Delete(ctx, sessionID)
}

// ReplayNarration re-cues a narration slot on request, e.g. a replay button
// or the contact form voice-over.
func (s *Service) ReplayNarration(ctx context.Context, sessionID uuid.UUID, kind assessments.NarrationKind) (*Narration, error) {
	traversal, assessment, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, apperr.Validation("unknown narration kind")
	}

	cue := voice.Cue{AssessmentID: assessment.ID, Kind: kind}
	switch kind {
	case assessments.NarrationWelcome:
		cue.Text = assessment.Description
	case assessments.NarrationContactForm:
		cue.Text = "Tell us who you are so we can share your results."
	case assessments.NarrationQuestion:
		question, err := traversal.CurrentQuestion(assessment.Questions)
		if err != nil {
			return nil, err
		}
		cue.QuestionID = question.ID
		cue.Text = narrationText(question)
	case assessments.NarrationKeepGoing:
		cue.Text = "You're doing great. Keep going!"
	case assessments.NarrationCongratulations:
		cue.Text = "Congratulations, you finished the assessment."
	}

	return s.play(ctx, sessionID, cue), nil
}

// PauseNarration suspends the in-flight narration.
func (s *Service) PauseNarration(sessionID uuid.UUID) error {
	return s.coordinator(sessionID).Pause()
}

// ResumeNarration continues paused narration. Like play, the restarted
// playback must outlive the resume request.
func (s *Service) ResumeNarration(ctx context.Context, sessionID uuid.UUID) error {
	return s.coordinator(sessionID).Resume(context.WithoutCancel(ctx))
}

// AutoplayDenied records that the client could not start audio unprompted.
func (s *Service) AutoplayDenied(sessionID uuid.UUID) {
	s.coordinator(sessionID).MarkAutoplayDenied()
}

func (s *Service) load(ctx context.Context, sessionID uuid.UUID) (*domain.Traversal, assessments.Assessment, error) {
	traversal, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, assessments.Assessment{}, err
	}
	assessment, err := s.assessments.GetByID(ctx, traversal.AssessmentID)
	if err != nil {
		return nil, assessments.Assessment{}, err
	}
	return traversal, assessment, nil
}

func (s *Service) questionView(ctx context.Context, traversal *domain.Traversal, assessment assessments.Assessment, narrate bool) (QuestionView, error) {
	question, err := traversal.CurrentQuestion(assessment.Questions)
	if err != nil {
		return QuestionView{}, err
	}

	view := QuestionView{
		Question:   question,
		Index:      traversal.Index,
		Total:      len(assessment.Questions),
		Progress:   traversal.Progress(assessment.Questions),
		CanRetreat: traversal.Index > 0,
	}
	if narrate {
		view.Narration = s.play(ctx, traversal.SessionID, voice.Cue{
			AssessmentID: assessment.ID,
			Kind:         assessments.NarrationQuestion,
			QuestionID:   question.ID,
			Text:         narrationText(question),
		})
	}
	return view, nil
}

// play requests playback and translates the resulting backend choice into a
// client directive. Playback pacing runs server-side and must outlive the
// HTTP request that cued it, so the coordinator gets a detached context;
// cancellation happens through the interrupt policy and StopAll, not through
// handler return.
func (s *Service) play(ctx context.Context, sessionID uuid.UUID, cue voice.Cue) *Narration {
	playback := s.coordinator(sessionID).RequestPlay(context.WithoutCancel(ctx), cue)
	return &Narration{
		Kind:       string(cue.Kind),
		QuestionID: cue.QuestionID,
		Backend:    playback.Backend(),
		URL:        playback.URL(),
		Text:       playback.Text(),
	}
}

func (s *Service) finalize(ctx context.Context, traversal *domain.Traversal, assessment assessments.Assessment) (scoring.Results, error) {
	results := scoring.ComputeResults(assessment.Questions, traversal.Answers)

	lead, err := s.leads.Capture(ctx, buildLead(traversal, assessment, &results))
	if err != nil {
		return scoring.Results{}, err
	}
	s.log.LeadEvent("completed", lead.ID.String(), results.OverallScore)

	s.eventBus.Publish(ctx, events.NewAssessmentCompleted(
		traversal.SessionID, assessment.ID, results.OverallScore, *traversal.CompletedAt))

	return results, nil
}

func buildLead(traversal *domain.Traversal, assessment assessments.Assessment, results *scoring.Results) leadsdomain.Lead {
	lead := leadsdomain.Lead{
		AssessmentID: assessment.ID,
		OwnerID:      assessment.OwnerID,
		Name:         traversal.Contact.Name,
		Email:        traversal.Contact.Email,
		Phone:        traversal.Contact.Phone,
		AgeRange:     traversal.Contact.AgeRange,
		Gender:       traversal.Contact.Gender,
		Source:       leadsdomain.Source(traversal.Source),
		Responses:    responsesFromAnswers(traversal.Answers),
	}
	if results != nil {
		score := results.OverallScore
		lead.Score = &score
		lead.CompletedAt = traversal.CompletedAt
	}
	return lead
}

func responsesFromAnswers(answers map[int]assessments.Answer) map[int]any {
	responses := make(map[int]any, len(answers))
	for id, answer := range answers {
		switch {
		case answer.Type.MultiSelect():
			responses[id] = answer.Values
		case answer.Type == assessments.QuestionTypeRating:
			responses[id] = answer.Rating
		default:
			responses[id] = answer.Value
		}
	}
	return responses
}

func narrationText(q assessments.Question) string {
	if q.VoiceScript != "" {
		return q.VoiceScript
	}
	return q.Question
}

// atEncouragementPoint marks the halfway question of longer assessments for
// the keep-going narration.
func atEncouragementPoint(index, total int) bool {
	return total >= 4 && index == total/2
}
