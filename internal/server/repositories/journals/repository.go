package journals

import (
	"context"

	"github.com/dmitrijs2005/mindease/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, entry *models.JournalEntry) (*models.JournalEntry, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]models.JournalEntry, error)
}
