package service

import (
	"context"
	"net/http"
	"time"

	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/assessments/domain"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/assessments/repository"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/apperr"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ClipURLSource presigns and probes stored clip objects.
type ClipURLSource interface {
	Exists(ctx context.Context, objectKey string) (bool, error)
	PresignedGetURL(ctx context.Context, objectKey string) (string, error)
}

// VoiceResolver maps a narration slot to a playable clip URL. Resolution
// order: a per-question audio URL override on the question itself, then the
// uploaded voice asset for the slot. Both are probed before being handed to
// the player, so a configured-but-missing clip reads as "no clip" and the
// fallback chain takes over.
type VoiceResolver struct {
	repo  *repository.Repository
	clips ClipURLSource // nil when MinIO is not configured
	probe *http.Client
	log   *logger.Logger
}

func NewVoiceResolver(repo *repository.Repository, clips ClipURLSource, log *logger.Logger) *VoiceResolver {
	return &VoiceResolver{
		repo:  repo,
		clips: clips,
		probe: &http.Client{Timeout: 5 * time.Second},
		log:   log,
	}
}

// ResolveClip implements the coordinator's clip lookup.
func (r *VoiceResolver) ResolveClip(ctx context.Context, assessmentID uuid.UUID, kind domain.NarrationKind, questionID int) (string, bool, error) {
	if kind == domain.NarrationQuestion {
		assessment, err := r.repo.GetByID(ctx, assessmentID)
		if err != nil {
			return "", false, err
		}
		question, ok := assessment.QuestionByID(questionID)
		if !ok {
			return "", false, nil
		}
		if question.AudioURL != nil && *question.AudioURL != "" {
			if r.urlReachable(ctx, *question.AudioURL) {
				return *question.AudioURL, true, nil
			}
			r.log.PlaybackFallback("", "question audio URL unreachable", "voice-asset")
		}
	}

	if r.clips == nil {
		return "", false, nil
	}

	asset, err := r.repo.GetVoiceAsset(ctx, assessmentID, kind, slotQuestionID(kind, questionID))
	if apperr.Is(err, apperr.KindNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	exists, err := r.clips.Exists(ctx, asset.ObjectKey)
	if err != nil {
		return "", false, err
	}
	if !exists {
		// Configured but the object is gone.
		r.log.PlaybackFallback("", "voice asset object missing: "+asset.ObjectKey, "speech")
		return "", false, nil
	}

	url, err := r.clips.PresignedGetURL(ctx, asset.ObjectKey)
	if err != nil {
		return "", false, err
	}
	return url, true, nil
}

// ResolvedClip is one narration slot's resolution result.
type ResolvedClip struct {
	Kind       domain.NarrationKind
	QuestionID int
	URL        string
	Found      bool
}

// ResolveAll resolves every narration slot of an assessment concurrently.
// Used to prefetch the narration directive map when a session starts.
func (r *VoiceResolver) ResolveAll(ctx context.Context, assessment domain.Assessment) ([]ResolvedClip, error) {
	slots := []ResolvedClip{
		{Kind: domain.NarrationWelcome},
		{Kind: domain.NarrationKeepGoing},
		{Kind: domain.NarrationCongratulations},
		{Kind: domain.NarrationContactForm},
	}
	for _, q := range assessment.Questions {
		slots = append(slots, ResolvedClip{Kind: domain.NarrationQuestion, QuestionID: q.ID})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := range slots {
		g.Go(func() error {
			url, found, err := r.ResolveClip(gctx, assessment.ID, slots[i].Kind, slots[i].QuestionID)
			if err != nil {
				return err
			}
			slots[i].URL = url
			slots[i].Found = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *VoiceResolver) urlReachable(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := r.probe.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// slotQuestionID normalizes the question id for non-question slots.
func slotQuestionID(kind domain.NarrationKind, questionID int) int {
	if kind == domain.NarrationQuestion {
		return questionID
	}
	return 0
}
