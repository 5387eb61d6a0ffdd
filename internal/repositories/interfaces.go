package repositories

import (
	"context"

	"github.com/chrisdamba/traveltime/internal/models"
)

type PredictionRepository interface {
	Create(ctx context.Context, record *models.PredictionRecord) error
	BulkCreate(ctx context.Context, records []*models.PredictionRecord) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.PredictionRecord, error)
	Count(ctx context.Context) (int, error)
}
