package messages

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
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// newID is a seam for tests.
var newID = uuid.NewString

func (r *PostgresRepository) Add(ctx context.Context, username string, msg *models.Message) (*models.Message, error) {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var userID string
		var accepting bool

		query := `SELECT id, is_accepting_messages FROM users WHERE username = $1 FOR UPDATE`
		err := tx.QueryRowContext(ctx, query, username).Scan(&userID, &accepting)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("db error: %w", err)
		}
		if !accepting {
			return common.ErrNotAcceptingMessages
		}

		id := newID()
		query =
			`INSERT INTO messages (id, user_id, content, created_at)
			 VALUES ($1, $2, $3, $4)
			 `
		if _, err := tx.ExecContext(ctx, query, id, userID, msg.Content, msg.CreatedAt); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		msg.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Message, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, common.ErrInvalidID
	}

	query :=
		`SELECT id, content, created_at FROM messages
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]models.Message, 0)
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, messageID string) error {
	if _, err := uuid.Parse(userID); err != nil {
		return common.ErrInvalidID
	}
	if _, err := uuid.Parse(messageID); err != nil {
		return common.ErrInvalidID
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = $1 AND user_id = $2`, messageID, userID)
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
