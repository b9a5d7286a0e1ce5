package ports

import (
	"context"

	"github.com/authgate/resource-api/internal/core/domain"
)

// RecordRepository persists generic resource records, partitioned by model.
type RecordRepository interface {
	Create(ctx context.Context, r *domain.Record) (*domain.Record, error)
	List(ctx context.Context, model string) ([]*domain.Record, error)
	// FindByID returns domain.ErrRecordNotFound when no record matches.
	FindByID(ctx context.Context, model, id string) (*domain.Record, error)
	Update(ctx context.Context, model, id string, data map[string]any) (*domain.Record, error)
	// Delete returns the number of records removed (0 or 1).
	Delete(ctx context.Context, model, id string) (int64, error)
}
