package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mysterymessage/internal/common"
	"github.com/dmitrijs2005/mysterymessage/internal/dbx"
	"github.com/dmitrijs2005/mysterymessage/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, username, email, password, dob, is_verified, verify_code, verify_code_expiry, is_accepting_messages, created_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.DOB, &u.IsVerified,
		&u.VerifyCode, &u.VerifyCodeExpiry, &u.IsAcceptingMessages, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (username, email, password, dob, is_verified, verify_code, verify_code_expiry, is_accepting_messages)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.Password, user.DOB, user.IsVerified,
		user.VerifyCode, user.VerifyCodeExpiry, user.IsAcceptingMessages).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err, "") {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrInvalidID
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 OR username = $1 LIMIT 1`
	return scanUser(r.db.QueryRowContext(ctx, query, identifier))
}

func (r *PostgresRepository) UpdateRegistration(ctx context.Context, user *models.User) error {
	query :=
		`UPDATE users SET password = $2, dob = $3, verify_code = $4, verify_code_expiry = $5
		 WHERE id = $1
		 `
	return r.execOne(ctx, query, user.ID, user.Password, user.DOB, user.VerifyCode, user.VerifyCodeExpiry)
}

func (r *PostgresRepository) MarkVerified(ctx context.Context, id string) error {
	query := `UPDATE users SET is_verified = TRUE, verify_code = '' WHERE id = $1`
	return r.execOne(ctx, query, id)
}

func (r *PostgresRepository) SetAcceptingMessages(ctx context.Context, id string, accept bool) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrInvalidID
	}
	query := `UPDATE users SET is_accepting_messages = $2 WHERE id = $1`
	return r.execOne(ctx, query, id, accept)
}

// execOne runs an update that must touch exactly one user row.
func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) ListPublic(ctx context.Context) ([]models.PublicUser, error) {
	query :=
		`SELECT u.id, u.username, u.is_verified, u.is_accepting_messages, COUNT(m.id)
		 FROM users u LEFT JOIN messages m ON m.user_id = u.id
		 GROUP BY u.id
		 ORDER BY u.username
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]models.PublicUser, 0)
	for rows.Next() {
		var p models.PublicUser
		if err := rows.Scan(&p.ID, &p.Username, &p.IsVerified, &p.IsAcceptingMessages, &p.MessageCount); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}
