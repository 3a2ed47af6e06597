// Package users holds the user store: the Repository interface and its
// MongoDB, PostgreSQL and in-memory implementations.
package users

import (
	"context"

	"github.com/dmitrijs2005/mysterymessage/internal/server/models"
)

// Repository persists user accounts. Lookups return common.ErrorNotFound when
// nothing matches; Create returns common.ErrorAlreadyExists when the username
// or email is taken. Returned users never carry messages.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByIdentifier matches either the email or the username.
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	// UpdateRegistration rewrites password, dob and verification code of an
	// existing account, used when an unverified user signs up again.
	UpdateRegistration(ctx context.Context, user *models.User) error
	MarkVerified(ctx context.Context, id string) error
	SetAcceptingMessages(ctx context.Context, id string, accept bool) error
	ListPublic(ctx context.Context) ([]models.PublicUser, error)
}
