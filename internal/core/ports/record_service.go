package ports

import (
	"context"

	"github.com/authgate/resource-api/internal/core/domain"
)

// RecordService exposes CRUD over the configured resource models. It never
// performs authorization; callers must pass the authorization gate first.
type RecordService interface {
	Create(ctx context.Context, model string, data map[string]any) (*domain.Record, error)
	List(ctx context.Context, model string) ([]*domain.Record, error)
	Get(ctx context.Context, model, id string) (*domain.Record, error)
	Update(ctx context.Context, model, id string, data map[string]any) (*domain.Record, error)
	Delete(ctx context.Context, model, id string) (int64, error)
}
