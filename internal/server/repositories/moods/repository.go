package moods

import (
	"context"

	"github.com/dmitrijs2005/mindease/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, entry *models.MoodEntry) (*models.MoodEntry, error)
	// ListByUser returns at most limit entries owned by userID, newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]models.MoodEntry, error)
}
