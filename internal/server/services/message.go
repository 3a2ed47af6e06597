package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/mysterymessage/internal/common"
	"github.com/dmitrijs2005/mysterymessage/internal/logging"
	"github.com/dmitrijs2005/mysterymessage/internal/server/config"
	"github.com/dmitrijs2005/mysterymessage/internal/server/models"
	"github.com/dmitrijs2005/mysterymessage/internal/server/repositories/messages"
	"github.com/dmitrijs2005/mysterymessage/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/mysterymessage/internal/server/repositories/users"
)

const (
	minMessageLength = 10
	maxMessageLength = 300
)

// MessageService covers the public send path and the owner-only operations.
// Owner operations take the caller's user id from the session identity.
type MessageService struct {
	users    users.Repository
	messages messages.Repository
	logger   logging.Logger
	config   *config.Config
	now      func() time.Time
}

func NewMessageService(m repomanager.Manager, logger logging.Logger, cfg *config.Config) *MessageService {
	return &MessageService{
		users:    m.Users(),
		messages: m.Messages(),
		logger:   logger.With("module", "messages"),
		config:   cfg,
		now:      time.Now,
	}
}

// ValidateContent trims content and checks its length in characters.
func ValidateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	n := utf8.RuneCountInString(content)
	if n < minMessageLength || n > maxMessageLength {
		return "", common.ErrorValidation
	}
	return content, nil
}

// Send stores an anonymous message for username.
func (s *MessageService) Send(ctx context.Context, username, content string) (*models.Message, error) {
	content, err := ValidateContent(content)
	if err != nil {
		return nil, err
	}

	msg, err := s.messages.Add(ctx, username, &models.Message{
		Content:   content,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, s.translate(ctx, "adding message failed", err)
	}
	return msg, nil
}

// List returns the owner's messages, newest first.
func (s *MessageService) List(ctx context.Context, userID string) ([]models.Message, error) {
	out, err := s.messages.ListByUser(ctx, userID)
	if err != nil {
		return nil, s.translate(ctx, "listing messages failed", err)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Delete removes one of the owner's messages.
func (s *MessageService) Delete(ctx context.Context, userID, messageID string) error {
	if err := s.messages.Delete(ctx, userID, messageID); err != nil {
		return s.translate(ctx, "deleting message failed", err)
	}
	s.logger.Debug(ctx, "message deleted", "user_id", userID, "message_id", messageID)
	return nil
}

func (s *MessageService) GetAcceptingMessages(ctx context.Context, userID string) (bool, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, s.translate(ctx, "reading accept flag failed", err)
	}
	return u.IsAcceptingMessages, nil
}

func (s *MessageService) SetAcceptingMessages(ctx context.Context, userID string, accept bool) error {
	if err := s.users.SetAcceptingMessages(ctx, userID, accept); err != nil {
		return s.translate(ctx, "updating accept flag failed", err)
	}
	return nil
}

// translate passes domain sentinels through and hides everything else
// behind common.ErrorInternal.
func (s *MessageService) translate(ctx context.Context, msg string, err error) error {
	for _, known := range []error{
		common.ErrorNotFound,
		common.ErrInvalidID,
		common.ErrNotAcceptingMessages,
	} {
		if errors.Is(err, known) {
			return known
		}
	}
	s.logger.Error(ctx, msg, "error", err)
	return common.ErrorInternal
}
