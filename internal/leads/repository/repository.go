// Package repository persists leads.
package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/leads/domain"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Create(ctx context.Context, lead domain.Lead) (domain.Lead, error) {
	responses, err := json.Marshal(lead.Responses)
	if err != nil {
		return domain.Lead{}, apperr.Wrap(apperr.KindInternal, "encode responses", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (id, assessment_id, owner_id, name, email, phone, age_range, gender,
			source, status, score, responses, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`, lead.ID, lead.AssessmentID, lead.OwnerID, lead.Name, lead.Email, lead.Phone,
		lead.AgeRange, lead.Gender, lead.Source, lead.Status, lead.Score, responses, lead.CompletedAt)

	if err := row.Scan(&lead.CreatedAt, &lead.UpdatedAt); err != nil {
		return domain.Lead{}, apperr.Wrap(apperr.KindInternal, "create lead", err)
	}
	return lead, nil
}

func (r *Repository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, assessment_id, owner_id, name, email, phone, age_range, gender,
			source, status, score, responses, completed_at, created_at, updated_at
		FROM leads
		WHERE id = $1 AND owner_id = $2
	`, id, ownerID)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, apperr.NotFound("lead not found")
	}
	if err != nil {
		return domain.Lead{}, apperr.Wrap(apperr.KindInternal, "get lead", err)
	}
	return lead, nil
}

// ListByOwner returns the owner's leads, newest first. Optional filters
// narrow by assessment and status.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID, assessmentID *uuid.UUID, status *domain.Status) ([]domain.Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, assessment_id, owner_id, name, email, phone, age_range, gender,
			source, status, score, responses, completed_at, created_at, updated_at
		FROM leads
		WHERE owner_id = $1
			AND ($2::uuid IS NULL OR assessment_id = $2)
			AND ($3::text IS NULL OR status = $3)
		ORDER BY created_at DESC
	`, ownerID, assessmentID, status)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list leads", err)
	}
	defer rows.Close()

	items := make([]domain.Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "scan lead", err)
		}
		items = append(items, lead)
	}
	if rows.Err() != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list leads", rows.Err())
	}
	return items, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, ownerID, id uuid.UUID, status domain.Status) (domain.Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads
		SET status = $3, updated_at = now()
		WHERE id = $1 AND owner_id = $2
		RETURNING id, assessment_id, owner_id, name, email, phone, age_range, gender,
			source, status, score, responses, completed_at, created_at, updated_at
	`, id, ownerID, status)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Lead{}, apperr.NotFound("lead not found")
	}
	if err != nil {
		return domain.Lead{}, apperr.Wrap(apperr.KindInternal, "update lead status", err)
	}
	return lead, nil
}

func (r *Repository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "delete lead", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("lead not found")
	}
	return nil
}

func scanLead(row pgx.Row) (domain.Lead, error) {
	var (
		lead      domain.Lead
		responses []byte
	)
	if err := row.Scan(&lead.ID, &lead.AssessmentID, &lead.OwnerID, &lead.Name, &lead.Email,
		&lead.Phone, &lead.AgeRange, &lead.Gender, &lead.Source, &lead.Status, &lead.Score,
		&responses, &lead.CompletedAt, &lead.CreatedAt, &lead.UpdatedAt); err != nil {
		return domain.Lead{}, err
	}
	if len(responses) > 0 {
		if err := json.Unmarshal(responses, &lead.Responses); err != nil {
			return domain.Lead{}, err
		}
	}
	return lead, nil
}
