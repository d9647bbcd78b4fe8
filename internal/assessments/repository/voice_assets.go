package repository

import (
	"context"
	"errors"
	"time"

	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/assessments/domain"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// VoiceAsset is an uploaded narration clip bound to one narration slot of an
// assessment. QuestionID is 0 for non-question slots.
type VoiceAsset struct {
	ID           uuid.UUID
	AssessmentID uuid.UUID
	Kind         domain.NarrationKind
	QuestionID   int
	ObjectKey    string
	ContentType  string
	SizeBytes    int64
	CreatedAt    time.Time
}

// UpsertVoiceAsset replaces any existing clip for the same narration slot.
func (r *Repository) UpsertVoiceAsset(ctx context.Context, asset VoiceAsset) (VoiceAsset, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO voice_assets (id, assessment_id, kind, question_id, object_key, content_type, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (assessment_id, kind, question_id)
		DO UPDATE SET object_key = EXCLUDED.object_key,
			content_type = EXCLUDED.content_type,
			size_bytes = EXCLUDED.size_bytes
		RETURNING id, created_at
	`, asset.ID, asset.AssessmentID, asset.Kind, asset.QuestionID,
		asset.ObjectKey, asset.ContentType, asset.SizeBytes)

	if err := row.Scan(&asset.ID, &asset.CreatedAt); err != nil {
		return VoiceAsset{}, apperr.Wrap(apperr.KindInternal, "upsert voice asset", err)
	}
	return asset, nil
}

// GetVoiceAsset looks up the clip for one narration slot.
func (r *Repository) GetVoiceAsset(ctx context.Context, assessmentID uuid.UUID, kind domain.NarrationKind, questionID int) (VoiceAsset, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, assessment_id, kind, question_id, object_key, content_type, size_bytes, created_at
		FROM voice_assets
		WHERE assessment_id = $1 AND kind = $2 AND question_id = $3
	`, assessmentID, kind, questionID)

	var asset VoiceAsset
	err := row.Scan(&asset.ID, &asset.AssessmentID, &asset.Kind, &asset.QuestionID,
		&asset.ObjectKey, &asset.ContentType, &asset.SizeBytes, &asset.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return VoiceAsset{}, apperr.NotFound("voice asset not found")
	}
	if err != nil {
		return VoiceAsset{}, apperr.Wrap(apperr.KindInternal, "get voice asset", err)
	}
	return asset, nil
}

// ListVoiceAssets returns all clips for an assessment.
func (r *Repository) ListVoiceAssets(ctx context.Context, assessmentID uuid.UUID) ([]VoiceAsset, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, assessment_id, kind, question_id, object_key, content_type, size_bytes, created_at
		FROM voice_assets
		WHERE assessment_id = $1
		ORDER BY kind, question_id
	`, assessmentID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list voice assets", err)
	}
	defer rows.Close()

	items := make([]VoiceAsset, 0)
	for rows.Next() {
		var asset VoiceAsset
		if err := rows.Scan(&asset.ID, &asset.AssessmentID, &asset.Kind, &asset.QuestionID,
			&asset.ObjectKey, &asset.ContentType, &asset.SizeBytes, &asset.CreatedAt); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "scan voice asset", err)
		}
		items = append(items, asset)
	}
	if rows.Err() != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list voice assets", rows.Err())
	}
	return items, nil
}

// DeleteVoiceAsset removes one clip row and returns it so the caller can
// clean up the stored object.
func (r *Repository) DeleteVoiceAsset(ctx context.Context, assessmentID, assetID uuid.UUID) (VoiceAsset, error) {
	row := r.pool.QueryRow(ctx, `
		DELETE FROM voice_assets
		WHERE id = $1 AND assessment_id = $2
		RETURNING id, assessment_id, kind, question_id, object_key, content_type, size_bytes, created_at
	`, assetID, assessmentID)

	var asset VoiceAsset
	err := row.Scan(&asset.ID, &asset.AssessmentID, &asset.Kind, &asset.QuestionID,
		&asset.ObjectKey, &asset.ContentType, &asset.SizeBytes, &asset.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return VoiceAsset{}, apperr.NotFound("voice asset not found")
	}
	if err != nil {
		return VoiceAsset{}, apperr.Wrap(apperr.KindInternal, "delete voice asset", err)
	}
	return asset, nil
}
