package messages

import (
	"context"

	"github.com/dmitrijs2005/mysterymessage/internal/common"
	"github.com/dmitrijs2005/mysterymessage/internal/server/models"
	"github.com/dmitrijs2005/mysterymessage/internal/server/repositories/memstore"
	"github.com/google/uuid"
)

type MemoryRepository struct {
	store *memstore.Store
}

func NewMemoryRepository(store *memstore.Store) *MemoryRepository {
	return &MemoryRepository{store: store}
}

func (r *MemoryRepository) Add(ctx context.Context, username string, msg *models.Message) (*models.Message, error) {
	err := r.store.Write(func(users map[string]*models.User) error {
		for _, u := range users {
			if u.Username != username {
				continue
			}
			if !u.IsAcceptingMessages {
				return common.ErrNotAcceptingMessages
			}
			msg.ID = uuid.NewString()
			u.Messages = append(u.Messages, *msg)
			return nil
		}
		return common.ErrorNotFound
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (r *MemoryRepository) ListByUser(ctx context.Context, userID string) ([]models.Message, error) {
	var out []models.Message
	err := r.store.Read(func(users map[string]*models.User) error {
		u, ok := users[userID]
		if !ok {
			return common.ErrorNotFound
		}
		out = append(make([]models.Message, 0, len(u.Messages)), u.Messages...)
		return nil
	})
	return out, err
}

func (r *MemoryRepository) Delete(ctx context.Context, userID, messageID string) error {
	if _, err := uuid.Parse(messageID); err != nil {
		return common.ErrInvalidID
	}

	return r.store.Write(func(users map[string]*models.User) error {
		u, ok := users[userID]
		if !ok {
			return common.ErrorNotFound
		}
		for i, m := range u.Messages {
			if m.ID == messageID {
				u.Messages = append(u.Messages[:i:i], u.Messages[i+1:]...)
				return nil
			}
		}
		return common.ErrorNotFound
	})
}
