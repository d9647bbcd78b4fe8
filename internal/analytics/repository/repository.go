// Package repository fetches lead records for aggregation.
package repository

import (
	"context"

	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/analytics/domain"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// FetchLeadsForAnalytics pre-joins assessment title and audience in SQL so
// the pipeline never performs per-record lookups. A lead whose assessment
// was deleted joins as an empty title and is skipped by the pipeline.
func (r *Repository) FetchLeadsForAnalytics(ctx context.Context, ownerID uuid.UUID) ([]domain.LeadRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT l.score, l.completed_at, l.created_at, l.source,
			COALESCE(a.title, ''), COALESCE(a.audience, 'individual')
		FROM leads l
		LEFT JOIN assessments a ON a.id = l.assessment_id
		WHERE l.owner_id = $1
		ORDER BY l.created_at ASC
	`, ownerID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "fetch analytics leads", err)
	}
	defer rows.Close()

	records := make([]domain.LeadRecord, 0)
	for rows.Next() {
		var record domain.LeadRecord
		if err := rows.Scan(&record.Score, &record.CompletedAt, &record.CreatedAt,
			&record.Source, &record.AssessmentTitle, &record.Audience); err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "scan analytics lead", err)
		}
		records = append(records, record)
	}
	if rows.Err() != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "fetch analytics leads", rows.Err())
	}
	return records, nil
}
