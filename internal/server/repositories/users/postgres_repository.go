package users

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/mindease/internal/common"
	"github.com/dmitrijs2005/mindease/internal/dbx"
	"github.com/dmitrijs2005/mindease/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts user and fills in ID and CreatedAt. Uniqueness of
// username and email is left to the table constraints; a collision comes
// back as common.ErrDuplicateKey naming the field.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.PasswordDirty() || user.PasswordHash == "" {
		return nil, errors.New("user password must be hashed before it is stored")
	}
	if user.Avatar == "" {
		user.Avatar = "default"
	}

	query :=
		`INSERT INTO users (username, email, password_hash, avatar)
         VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.UserName, user.Email, user.PasswordHash, user.Avatar).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return nil, duplicateField(dbx.Classify(err))
	}

	return user, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, username, email, password_hash, avatar, created_at FROM users
		 WHERE email = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, username, email, password_hash, avatar, created_at FROM users
		 WHERE id = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.UserName, &user.Email, &user.PasswordHash, &user.Avatar, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, dbx.Classify(err)
	}
	return user, nil
}

// duplicateField turns a classified unique violation into a client-facing
// message. Other errors pass through.
func duplicateField(err error) error {
	if !errors.Is(err, common.ErrDuplicateKey) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.ConstraintName {
		case "users_username_key":
			return common.WithMessage(common.ErrDuplicateKey, "username is already taken")
		case "users_email_key":
			return common.WithMessage(common.ErrDuplicateKey, "email is already registered")
		}
	}
	return common.WithMessage(common.ErrDuplicateKey, "user already exists")
}
