package domain

import (
	"time"

	"github.com/google/uuid"
)

// Audience is the assessment's target segment.
type Audience string

const (
	AudienceIndividual Audience = "individual"
	AudienceBusiness   Audience = "business"
)

// Normalize folds any value other than "business" into "individual".
// Unknown values never form a third audience.
func (a Audience) Normalize() Audience {
	if a == AudienceBusiness {
		return AudienceBusiness
	}
	return AudienceIndividual
}

// NarrationKind identifies which narration slot of an assessment a clip
// belongs to. Question narration additionally carries the question ID.
type NarrationKind string

const (
	NarrationWelcome         NarrationKind = "welcome"
	NarrationQuestion        NarrationKind = "question"
	NarrationKeepGoing       NarrationKind = "keep-going"
	NarrationCongratulations NarrationKind = "congratulations"
	NarrationContactForm     NarrationKind = "contact-form"
)

// Valid reports whether the narration kind is known.
func (k NarrationKind) Valid() bool {
	switch k {
	case NarrationWelcome, NarrationQuestion, NarrationKeepGoing,
		NarrationCongratulations, NarrationContactForm:
		return true
	}
	return false
}

// Assessment is a named, ordered list of questions plus metadata.
// Read-only during respondent traversal; edited only by admins.
type Assessment struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Title       string
	Description string
	Audience    Audience
	Tags        []string
	Questions   []Question
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// QuestionByID returns the question with the given id.
func (a Assessment) QuestionByID(id int) (Question, bool) {
	for _, q := range a.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
