// Package service assembles the analytics snapshot.
package service

import (
	"context"

	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/analytics/domain"

	"github.com/google/uuid"
)

// RecordSource fetches joined lead records for one owner.
type RecordSource interface {
	FetchLeadsForAnalytics(ctx context.Context, ownerID uuid.UUID) ([]domain.LeadRecord, error)
}

type Service struct {
	records RecordSource
}

func New(records RecordSource) *Service {
	return &Service{records: records}
}

// Snapshot builds the owner's dashboard snapshot from live lead data.
func (s *Service) Snapshot(ctx context.Context, ownerID uuid.UUID) (domain.Snapshot, error) {
	records, err := s.records.FetchLeadsForAnalytics(ctx, ownerID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return domain.BuildSnapshot(records), nil
}
