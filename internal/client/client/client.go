package client

import (
	"context"

	"github.com/dmitrijs2005/mysterymessage/internal/client/models"
)

type Client interface {
	SignUp(ctx context.Context, req models.SignUp) (string, error)
	VerifyCode(ctx context.Context, username, code string) (string, error)
	CheckUsername(ctx context.Context, username string) (bool, string, error)
	SignIn(ctx context.Context, identifier, password string) (*models.Identity, error)
	SignOut(ctx context.Context) error
	Session(ctx context.Context) (*models.Identity, error)
	Profile(ctx context.Context, username string) (*models.Profile, error)
	SendMessage(ctx context.Context, username, content string) error
	Messages(ctx context.Context) ([]models.Message, error)
	DeleteMessage(ctx context.Context, id string) error
	AcceptMessages(ctx context.Context) (bool, error)
	SetAcceptMessages(ctx context.Context, accept bool) error
	Suggest(ctx context.Context) (*models.Suggestions, error)
	Export(ctx context.Context) (string, error)
	Users(ctx context.Context) ([]models.PublicUser, error)
	SignedIn() bool
}
