package journals

import (
	"context"

	"github.com/dmitrijs2005/mindease/internal/dbx"
	"github.com/dmitrijs2005/mindease/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, entry *models.JournalEntry) (*models.JournalEntry, error) {
	query :=
		`INSERT INTO journals (user_id, content)
         VALUES ($1, $2)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, entry.UserID, entry.Content).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return entry, nil
}

// ListByUser returns the newest entries owned by userID. Entries of other
// users are never read.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.JournalEntry, error) {
	query :=
		`SELECT id, user_id, content, created_at FROM journals
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	result := make([]models.JournalEntry, 0)
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Content, &e.CreatedAt); err != nil {
			return nil, dbx.Classify(err)
		}
		result = append(result, e)
	}

	if err := rows.Err(); err != nil {
		return nil, dbx.Classify(err)
	}

	return result, nil
}
