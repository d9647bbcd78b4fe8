// Package domain provides the respondent traversal state machine for the
// player bounded context. A Traversal walks one respondent through an
// assessment's questions in order, one at a time, and cannot advance past a
// question without a complete answer for it.
package domain

import (
	"math"
	"strings"
	"time"

	assessments "github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/assessments/domain"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/apperr"

	"github.com/google/uuid"
)

// Phase is the traversal lifecycle state.
type Phase string

const (
	// PhaseIntro: the contact form has not been submitted yet.
	PhaseIntro Phase = "intro"
	// PhaseInProgress: the respondent is answering questions.
	PhaseInProgress Phase = "in-progress"
	// PhaseComplete is terminal for a single traversal instance.
	PhaseComplete Phase = "complete"
)

// Contact is the lead identity captured on the intro screen. Field-level
// validation (email format etc.) happens at the transport boundary; the
// traversal only refuses to start with no identity at all.
type Contact struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	AgeRange string `json:"ageRange,omitempty"`
	Gender   string `json:"gender,omitempty"`
}

// Empty reports whether the contact carries no usable identity.
func (c Contact) Empty() bool {
	return strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Email) == ""
}

// Traversal is one respondent's pass through an assessment. It is serialized
// as-is into the session store between HTTP requests.
type Traversal struct {
	SessionID    uuid.UUID                 `json:"sessionId"`
	AssessmentID uuid.UUID                 `json:"assessmentId"`
	Source       string                    `json:"source"`
	Phase        Phase                     `json:"phase"`
	Index        int                       `json:"index"`
	Contact      Contact                   `json:"contact"`
	Answers      map[int]assessments.Answer `json:"answers"`
	StartedAt    time.Time                 `json:"startedAt"`
	CompletedAt  *time.Time                `json:"completedAt,omitempty"`
}

// NewTraversal creates a traversal in the intro phase.
func NewTraversal(assessmentID uuid.UUID, source string) *Traversal {
	return &Traversal{
		SessionID:    uuid.New(),
		AssessmentID: assessmentID,
		Source:       source,
		Phase:        PhaseIntro,
		Answers:      make(map[int]assessments.Answer),
		StartedAt:    time.Now().UTC(),
	}
}

// Start captures the contact identity and moves Intro -> InProgress(0).
func (t *Traversal) Start(contact Contact) error {
	if t.Phase != PhaseIntro {
		return apperr.Conflict("traversal already started")
	}
	if contact.Empty() {
		return apperr.Validation("name and email are required to start the assessment")
	}
	t.Contact = contact
	t.Phase = PhaseInProgress
	t.Index = 0
	return nil
}

// CurrentQuestion returns the question at the traversal's index. Fails when
// the traversal is not in progress. If an admin shrank the question list
// mid-traversal, the out-of-range index clamps the traversal to Complete.
func (t *Traversal) CurrentQuestion(questions []assessments.Question) (assessments.Question, error) {
	if t.Phase == PhaseIntro {
		return assessments.Question{}, apperr.Conflict("assessment has not started")
	}
	if t.Phase == PhaseComplete {
		return assessments.Question{}, apperr.Conflict("assessment is complete")
	}
	if t.Index >= len(questions) {
		t.complete()
		return assessments.Question{}, apperr.Conflict("assessment is complete")
	}
	return questions[t.Index], nil
}

// RecordAnswer validates the raw value against the question's type contract
// and stores it, overwriting any previous answer for that question.
// Last-write-wins; recording never moves the index.
func (t *Traversal) RecordAnswer(questions []assessments.Question, questionID int, raw any) error {
	if t.Phase != PhaseInProgress {
		return apperr.Conflict("assessment is not in progress")
	}

	var question assessments.Question
	found := false
	for _, q := range questions {
		if q.ID == questionID {
			question = q
			found = true
			break
		}
	}
	if !found {
		return apperr.NotFound("question not found")
	}

	answer, err := assessments.ParseAnswer(question, raw)
	if err != nil {
		return err
	}

	t.Answers[questionID] = answer
	return nil
}

// Advance moves to the next question when the current one has a complete
// answer. Without one it blocks silently: no state change, advanced=false.
// The UI disables "Next" rather than surfacing an error. Advancing past the
// last question completes the traversal.
func (t *Traversal) Advance(questions []assessments.Question) (advanced bool, completed bool) {
	if t.Phase != PhaseInProgress {
		return false, t.Phase == PhaseComplete
	}
	if t.Index >= len(questions) {
		t.complete()
		return false, true
	}

	current := questions[t.Index]
	answer, ok := t.Answers[current.ID]
	if !ok || !answer.Complete() {
		return false, false
	}

	if t.Index == len(questions)-1 {
		t.complete()
		return true, true
	}

	t.Index++
	return true, false
}

// Retreat moves back one question. Always permitted while in progress with
// index > 0; never clears the answer for the question being left.
func (t *Traversal) Retreat() bool {
	if t.Phase != PhaseInProgress || t.Index == 0 {
		return false
	}
	t.Index--
	return true
}

// Progress returns the rounded percentage of questions answered. Any
// recorded complete answer counts, not just those up to the current index:
// backtracking can leave later answers in place.
func (t *Traversal) Progress(questions []assessments.Question) int {
	if len(questions) == 0 {
		return 0
	}
	answered := 0
	for _, q := range questions {
		if answer, ok := t.Answers[q.ID]; ok && answer.Complete() {
			answered++
		}
	}
	return int(math.Round(100 * float64(answered) / float64(len(questions))))
}

func (t *Traversal) complete() {
	if t.Phase == PhaseComplete {
		return
	}
	t.Phase = PhaseComplete
	now := time.Now().UTC()
	t.CompletedAt = &now
}
