package moods

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

func (r *PostgresRepository) Create(ctx context.Context, entry *models.MoodEntry) (*models.MoodEntry, error) {
	query :=
		`INSERT INTO moods (user_id, mood, note)
         VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, entry.UserID, string(entry.Mood), entry.Note).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	return entry, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.MoodEntry, error) {
	query :=
		`SELECT id, user_id, mood, note, created_at FROM moods
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, dbx.Classify(err)
	}
	defer rows.Close()

	result := make([]models.MoodEntry, 0)
	for rows.Next() {
		var e models.MoodEntry
		var mood string
		if err := rows.Scan(&e.ID, &e.UserID, &mood, &e.Note, &e.CreatedAt); err != nil {
			return nil, dbx.Classify(err)
		}
		e.Mood = models.Mood(mood)
		result = append(result, e)
	}

	if err := rows.Err(); err != nil {
		return nil, dbx.Classify(err)
	}

	return result, nil
}
