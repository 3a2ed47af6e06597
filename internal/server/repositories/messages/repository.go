// Package messages stores the anonymous messages owned by users.
package messages

import (
	"context"

	"github.com/dmitrijs2005/mysterymessage/internal/server/models"
)

// Repository manages a user's messages. Every mutation is a single atomic
// store operation scoped by the owner.
type Repository interface {
	// Add appends msg to the user named username, assigning msg.ID. It fails
	// with common.ErrorNotFound for an unknown user and
	// common.ErrNotAcceptingMessages when the user has turned messages off.
	Add(ctx context.Context, username string, msg *models.Message) (*models.Message, error)
	// ListByUser returns the owner's messages in no particular order.
	ListByUser(ctx context.Context, userID string) ([]models.Message, error)
	// Delete removes messageID only if it belongs to userID; otherwise it
	// returns common.ErrorNotFound. Malformed ids give common.ErrInvalidID.
	Delete(ctx context.Context, userID, messageID string) error
}
