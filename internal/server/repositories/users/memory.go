package users

import (
	"context"
	"sort"
	"time"

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

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	err := r.store.Write(func(users map[string]*models.User) error {
		for _, u := range users {
			if u.Username == user.Username || u.Email == user.Email {
				return common.ErrorAlreadyExists
			}
		}
		user.ID = uuid.NewString()
		user.CreatedAt = time.Now().UTC()
		users[user.ID] = memstore.Clone(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *MemoryRepository) find(match func(u *models.User) bool) (*models.User, error) {
	var found *models.User
	err := r.store.Read(func(users map[string]*models.User) error {
		for _, u := range users {
			if match(u) {
				found = memstore.Clone(u)
				found.Messages = nil
				return nil
			}
		}
		return common.ErrorNotFound
	})
	return found, err
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrInvalidID
	}
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r *MemoryRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Username == username })
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == email })
}

func (r *MemoryRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.Email == identifier || u.Username == identifier })
}

func (r *MemoryRepository) update(id string, fn func(u *models.User)) error {
	return r.store.Write(func(users map[string]*models.User) error {
		u, ok := users[id]
		if !ok {
			return common.ErrorNotFound
		}
		fn(u)
		return nil
	})
}

func (r *MemoryRepository) UpdateRegistration(ctx context.Context, user *models.User) error {
	return r.update(user.ID, func(u *models.User) {
		u.Password = user.Password
		u.DOB = user.DOB
		u.VerifyCode = user.VerifyCode
		u.VerifyCodeExpiry = user.VerifyCodeExpiry
	})
}

func (r *MemoryRepository) MarkVerified(ctx context.Context, id string) error {
	return r.update(id, func(u *models.User) {
		u.IsVerified = true
		u.VerifyCode = ""
	})
}

func (r *MemoryRepository) SetAcceptingMessages(ctx context.Context, id string, accept bool) error {
	return r.update(id, func(u *models.User) {
		u.IsAcceptingMessages = accept
	})
}

func (r *MemoryRepository) ListPublic(ctx context.Context) ([]models.PublicUser, error) {
	out := make([]models.PublicUser, 0)
	_ = r.store.Read(func(users map[string]*models.User) error {
		for _, u := range users {
			out = append(out, u.Public())
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}
