// Package service implements assessment management: admin CRUD, share links,
// and narration clip management.
package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/assessments/domain"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/assessments/repository"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/apperr"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/logger"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

// ClipStore is the object storage surface the service needs.
type ClipStore interface {
	ValidateUpload(contentType string, sizeBytes int64) error
	Upload(ctx context.Context, folder, fileName, contentType string, reader io.Reader, size int64) (string, error)
	Delete(ctx context.Context, objectKey string) error
}

type Service struct {
	repo          *repository.Repository
	clips         ClipStore // nil when MinIO is not configured
	publicBaseURL string
	log           *logger.Logger
}

func New(repo *repository.Repository, clips ClipStore, publicBaseURL string, log *logger.Logger) *Service {
	return &Service{
		repo:          repo,
		clips:         clips,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		log:           log,
	}
}

func (s *Service) Create(ctx context.Context, a domain.Assessment) (domain.Assessment, error) {
	if err := validate(a); err != nil {
		return domain.Assessment{}, err
	}
	a.ID = uuid.New()
	a.Audience = a.Audience.Normalize()
	return s.repo.Create(ctx, a)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (domain.Assessment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Assessment, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *Service) Update(ctx context.Context, ownerID uuid.UUID, a domain.Assessment) (domain.Assessment, error) {
	existing, err := s.repo.GetByID(ctx, a.ID)
	if err != nil {
		return domain.Assessment{}, err
	}
	if existing.OwnerID != ownerID {
		return domain.Assessment{}, apperr.Forbidden("assessment belongs to another user")
	}
	if err := validate(a); err != nil {
		return domain.Assessment{}, err
	}
	a.OwnerID = existing.OwnerID
	a.Audience = a.Audience.Normalize()
	return s.repo.Update(ctx, a)
}

func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.OwnerID != ownerID {
		return apperr.Forbidden("assessment belongs to another user")
	}
	return s.repo.Delete(ctx, id)
}

// ShareURL is the public player link for an assessment.
func (s *Service) ShareURL(id uuid.UUID) string {
	return fmt.Sprintf("%s/assessment/%s", s.publicBaseURL, id)
}

// ShareQR renders the public player link as a QR PNG.
func (s *Service) ShareQR(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(s.ShareURL(id), qrcode.Medium, 512)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "encode qr", err)
	}
	return png, nil
}

// UploadVoiceAsset stores a narration clip for one slot of an assessment and
// records it, replacing any previous clip for that slot.
func (s *Service) UploadVoiceAsset(ctx context.Context, ownerID, assessmentID uuid.UUID, kind domain.NarrationKind, questionID int, fileName, contentType string, reader io.Reader, size int64) (repository.VoiceAsset, error) {
	if s.clips == nil {
		return repository.VoiceAsset{}, apperr.Conflict("voice asset storage is not configured")
	}
	if !kind.Valid() {
		return repository.VoiceAsset{}, apperr.Validation(fmt.Sprintf("unknown narration kind %q", kind))
	}

	assessment, err := s.repo.GetByID(ctx, assessmentID)
	if err != nil {
		return repository.VoiceAsset{}, err
	}
	if assessment.OwnerID != ownerID {
		return repository.VoiceAsset{}, apperr.Forbidden("assessment belongs to another user")
	}

	if kind == domain.NarrationQuestion {
		if _, ok := assessment.QuestionByID(questionID); !ok {
			return repository.VoiceAsset{}, apperr.NotFound("question not found")
		}
	} else {
		questionID = 0
	}

	if err := s.clips.ValidateUpload(contentType, size); err != nil {
		return repository.VoiceAsset{}, apperr.Validation(err.Error())
	}

	folder := fmt.Sprintf("assessments/%s/%s", assessmentID, kind)
	objectKey, err := s.clips.Upload(ctx, folder, fileName, contentType, reader, size)
	if err != nil {
		return repository.VoiceAsset{}, apperr.Wrap(apperr.KindInternal, "store voice asset", err)
	}

	asset, err := s.repo.UpsertVoiceAsset(ctx, repository.VoiceAsset{
		ID:           uuid.New(),
		AssessmentID: assessmentID,
		Kind:         kind,
		QuestionID:   questionID,
		ObjectKey:    objectKey,
		ContentType:  contentType,
		SizeBytes:    size,
	})
	if err != nil {
		return repository.VoiceAsset{}, err
	}

	s.log.Info("voice asset uploaded", "assessmentId", assessmentID, "kind", string(kind), "questionId", questionID)
	return asset, nil
}

func (s *Service) ListVoiceAssets(ctx context.Context, ownerID, assessmentID uuid.UUID) ([]repository.VoiceAsset, error) {
	assessment, err := s.repo.GetByID(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if assessment.OwnerID != ownerID {
		return nil, apperr.Forbidden("assessment belongs to another user")
	}
	return s.repo.ListVoiceAssets(ctx, assessmentID)
}

func (s *Service) DeleteVoiceAsset(ctx context.Context, ownerID, assessmentID, assetID uuid.UUID) error {
	assessment, err := s.repo.GetByID(ctx, assessmentID)
	if err != nil {
		return err
	}
	if assessment.OwnerID != ownerID {
		return apperr.Forbidden("assessment belongs to another user")
	}

	asset, err := s.repo.DeleteVoiceAsset(ctx, assessmentID, assetID)
	if err != nil {
		return err
	}
	if s.clips != nil {
		if err := s.clips.Delete(ctx, asset.ObjectKey); err != nil {
			// Row is gone; an orphaned object is harmless and logged.
			s.log.Error("failed to delete voice asset object", "error", err, "objectKey", asset.ObjectKey)
		}
	}
	return nil
}

func validate(a domain.Assessment) error {
	if strings.TrimSpace(a.Title) == "" {
		return apperr.Validation("title is required")
	}
	return domain.ValidateQuestionSet(a.Questions)
}
