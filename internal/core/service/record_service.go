package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/authgate/resource-api/internal/core/domain"
	"github.com/authgate/resource-api/internal/core/ports"
)

// RecordService implements CRUD over a fixed set of resource models.
type RecordService struct {
	repo   ports.RecordRepository
	models map[string]struct{}
	logger zerolog.Logger
}

func NewRecordService(repo ports.RecordRepository, models []string, logger zerolog.Logger) *RecordService {
	set := make(map[string]struct{}, len(models))
	for _, m := range models {
		set[m] = struct{}{}
	}
	return &RecordService{repo: repo, models: set, logger: logger}
}

func (s *RecordService) checkModel(model string) error {
	if _, ok := s.models[model]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownModel, model)
	}
	return nil
}

// Create stores data as a new record. A client-supplied "id" field is ignored.
func (s *RecordService) Create(ctx context.Context, model string, data map[string]any) (*domain.Record, error) {
	if err := s.checkModel(model); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Record{
		Model:     model,
		Data:      sanitize(data),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("model", model).Msg("failed to create record")
		return nil, err
	}
	s.logger.Info().Str("model", model).Str("id", created.ID).Msg("record created")
	return created, nil
}

func (s *RecordService) List(ctx context.Context, model string) ([]*domain.Record, error) {
	if err := s.checkModel(model); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, model)
}

func (s *RecordService) Get(ctx context.Context, model, id string) (*domain.Record, error) {
	if err := s.checkModel(model); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, model, id)
}

// Update replaces the data of an existing record.
func (s *RecordService) Update(ctx context.Context, model, id string, data map[string]any) (*domain.Record, error) {
	if err := s.checkModel(model); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, model, id, sanitize(data))
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("model", model).Str("id", id).Msg("record updated")
	return updated, nil
}

func (s *RecordService) Delete(ctx context.Context, model, id string) (int64, error) {
	if err := s.checkModel(model); err != nil {
		return 0, err
	}
	n, err := s.repo.Delete(ctx, model, id)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Str("model", model).Str("id", id).Int64("deleted", n).Msg("record deleted")
	return n, nil
}

func sanitize(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if k == "id" || k == "_id" {
			continue
		}
		out[k] = v
	}
	return out
}
