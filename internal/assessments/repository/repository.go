// Package repository persists assessments and their voice assets.
package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/assessments/domain"
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

func (r *Repository) Create(ctx context.Context, a domain.Assessment) (domain.Assessment, error) {
	questions, err := json.Marshal(a.Questions)
	if err != nil {
		return domain.Assessment{}, apperr.Wrap(apperr.KindInternal, "encode questions", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO assessments (id, owner_id, title, description, audience, tags, questions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, a.ID, a.OwnerID, a.Title, a.Description, a.Audience, a.Tags, questions)

	if err := row.Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		return domain.Assessment{}, apperr.Wrap(apperr.KindInternal, "create assessment", err)
	}
	return a, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (domain.Assessment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, owner_id, title, description, audience, tags, questions, created_at, updated_at
		FROM assessments
		WHERE id = $1
	`, id)

	assessment, err := scanAssessment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Assessment{}, apperr.NotFound("assessment not found")
	}
	if err != nil {
		return domain.Assessment{}, apperr.Wrap(apperr.KindInternal, "get assessment", err)
	}
	return assessment, nil
}

func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Assessment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, owner_id, title, description, audience, tags, questions, created_at, updated_at
		FROM assessments
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list assessments", err)
	}
	defer rows.Close()

	items := make([]domain.Assessment, 0)
	for rows.Next() {
		assessment, err := scanAssessment(rows)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "scan assessment", err)
		}
		items = append(items, assessment)
	}
	if rows.Err() != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list assessments", rows.Err())
	}
	return items, nil
}

func (r *Repository) Update(ctx context.Context, a domain.Assessment) (domain.Assessment, error) {
	questions, err := json.Marshal(a.Questions)
	if err != nil {
		return domain.Assessment{}, apperr.Wrap(apperr.KindInternal, "encode questions", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE assessments
		SET title = $2, description = $3, audience = $4, tags = $5, questions = $6, updated_at = now()
		WHERE id = $1
		RETURNING created_at, updated_at
	`, a.ID, a.Title, a.Description, a.Audience, a.Tags, questions)

	if err := row.Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Assessment{}, apperr.NotFound("assessment not found")
		}
		return domain.Assessment{}, apperr.Wrap(apperr.KindInternal, "update assessment", err)
	}
	return a, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM assessments WHERE id = $1`, id)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "delete assessment", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("assessment not found")
	}
	return nil
}

func scanAssessment(row pgx.Row) (domain.Assessment, error) {
	var (
		a         domain.Assessment
		questions []byte
	)
	if err := row.Scan(&a.ID, &a.OwnerID, &a.Title, &a.Description, &a.Audience,
		&a.Tags, &questions, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return domain.Assessment{}, err
	}
	if err := json.Unmarshal(questions, &a.Questions); err != nil {
		return domain.Assessment{}, err
	}
	return a, nil
}
