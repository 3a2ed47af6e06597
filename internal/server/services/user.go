// Package services contains server-side business logic. This file implements
// UserService: sign-up with e-mail verification, credential checks and session
// issuance.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrijs2005/mysterymessage/internal/common"
	"github.com/dmitrijs2005/mysterymessage/internal/logging"
	"github.com/dmitrijs2005/mysterymessage/internal/server/auth"
	"github.com/dmitrijs2005/mysterymessage/internal/server/config"
	"github.com/dmitrijs2005/mysterymessage/internal/server/mailer"
	"github.com/dmitrijs2005/mysterymessage/internal/server/models"
	"github.com/dmitrijs2005/mysterymessage/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/mysterymessage/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

const (
	verifyCodeDigits  = 6
	minPasswordLength = 6
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{2,20}$`)

// bcryptCost is lowered by tests.
var bcryptCost = bcrypt.DefaultCost

// SignUpInput is the registration form.
type SignUpInput struct {
	Username string
	Email    string
	Password string
	DOB      time.Time
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Identity  *models.Identity
}

type UserService struct {
	users                      users.Repository
	mailer                     mailer.Mailer
	logger                     logging.Logger
	jwtSecret                  []byte
	sessionValidityDuration    time.Duration
	verifyCodeValidityDuration time.Duration
	now                        func() time.Time

	// compared against when the account does not exist
	dummyHash []byte
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(m repomanager.Manager, ml mailer.Mailer, logger logging.Logger, cfg *config.Config) (*UserService, error) {
	dummyHash, err := bcrypt.GenerateFromPassword(common.GenerateRandByteArray(16), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("dummy password hash: %w", err)
	}

	return &UserService{
		users:                      m.Users(),
		mailer:                     ml,
		logger:                     logger.With("module", "users"),
		jwtSecret:                  []byte(cfg.SecretKey),
		sessionValidityDuration:    cfg.SessionValidityDuration,
		verifyCodeValidityDuration: cfg.VerifyCodeValidityDuration,
		now:                        time.Now,
		dummyHash:                  dummyHash,
	}, nil
}

// ValidateUsername checks the username format.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return common.ErrorValidation
	}
	return nil
}

func validateSignUp(in *SignUpInput) error {
	if err := ValidateUsername(in.Username); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return common.ErrorValidation
	}
	if len(in.Password) < minPasswordLength {
		return common.ErrorValidation
	}
	if in.DOB.IsZero() {
		return common.ErrorValidation
	}
	return nil
}

// SignUp registers a user or refreshes a pending (unverified) registration
// for the same e-mail, then mails a fresh verification code.
func (s *UserService) SignUp(ctx context.Context, in SignUpInput) error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := validateSignUp(&in); err != nil {
		return err
	}

	byName, err := s.users.GetByUsername(ctx, in.Username)
	switch {
	case err == nil && byName.IsVerified:
		return common.ErrUsernameTaken
	case err != nil && !errors.Is(err, common.ErrorNotFound):
		s.logger.Error(ctx, "lookup by username failed", "error", err)
		return common.ErrorInternal
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return common.ErrorInternal
	}

	code, err := common.MakeVerifyCode(verifyCodeDigits)
	if err != nil {
		return common.ErrorInternal
	}
	expiry := s.now().Add(s.verifyCodeValidityDuration).UTC()

	byEmail, err := s.users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil && byEmail.IsVerified:
		return common.ErrorAlreadyExists
	case err == nil:
		byEmail.Password = string(hash)
		byEmail.DOB = in.DOB
		byEmail.VerifyCode = code
		byEmail.VerifyCodeExpiry = expiry
		if err := s.users.UpdateRegistration(ctx, byEmail); err != nil {
			s.logger.Error(ctx, "updating registration failed", "error", err)
			return common.ErrorInternal
		}
		in.Username = byEmail.Username
	case errors.Is(err, common.ErrorNotFound):
		_, err := s.users.Create(ctx, &models.User{
			Username:            in.Username,
			Email:               in.Email,
			Password:            string(hash),
			DOB:                 in.DOB,
			VerifyCode:          code,
			VerifyCodeExpiry:    expiry,
			IsAcceptingMessages: true,
		})
		if errors.Is(err, common.ErrorAlreadyExists) {
			return common.ErrUsernameTaken
		}
		if err != nil {
			s.logger.Error(ctx, "creating user failed", "error", err)
			return common.ErrorInternal
		}
	default:
		s.logger.Error(ctx, "lookup by email failed", "error", err)
		return common.ErrorInternal
	}

	if err := s.mailer.SendVerificationCode(ctx, in.Email, in.Username, code); err != nil {
		s.logger.Error(ctx, "sending verification code failed", "error", err)
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "user signed up", "username", in.Username)
	return nil
}

// VerifyCode confirms a pending registration.
func (s *UserService) VerifyCode(ctx context.Context, username, code string) error {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		s.logger.Error(ctx, "lookup by username failed", "error", err)
		return common.ErrorInternal
	}

	if u.IsVerified {
		return nil
	}
	if u.VerifyCode == "" || u.VerifyCode != strings.TrimSpace(code) {
		return common.ErrInvalidCode
	}
	if !s.now().Before(u.VerifyCodeExpiry) {
		return common.ErrCodeExpired
	}

	if err := s.users.MarkVerified(ctx, u.ID); err != nil {
		s.logger.Error(ctx, "marking user verified failed", "error", err)
		return common.ErrorInternal
	}
	return nil
}

// CheckUsernameUnique reports whether username is free, i.e. not held by a
// verified account.
func (s *UserService) CheckUsernameUnique(ctx context.Context, username string) (bool, error) {
	if err := ValidateUsername(username); err != nil {
		return false, err
	}

	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, common.ErrorNotFound) {
		return true, nil
	}
	if err != nil {
		s.logger.Error(ctx, "lookup by username failed", "error", err)
		return false, common.ErrorInternal
	}
	return !u.IsVerified, nil
}

// Authenticate checks identifier (email or username) and password. Unknown
// identifiers and wrong passwords both yield common.ErrorUnauthorized and cost
// the same bcrypt comparison.
func (s *UserService) Authenticate(ctx context.Context, identifier, password string) (*models.Identity, error) {
	u, err := s.users.GetByIdentifier(ctx, strings.TrimSpace(identifier))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "lookup by identifier failed", "error", err)
		return nil, common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, common.ErrorUnauthorized
	}

	return u.Identity(), nil
}

// Login authenticates and issues a new session token.
func (s *UserService) Login(ctx context.Context, identifier, password string) (*Session, error) {
	identity, err := s.Authenticate(ctx, identifier, password)
	if err != nil {
		return nil, err
	}

	token, err := auth.GenerateToken(identity, s.jwtSecret, s.sessionValidityDuration)
	if err != nil {
		s.logger.Error(ctx, "token generation failed", "error", err)
		return nil, common.ErrorInternal
	}

	return &Session{
		Token:     token,
		ExpiresAt: s.now().Add(s.sessionValidityDuration),
		Identity:  identity,
	}, nil
}

// ParseSession validates a session token.
func (s *UserService) ParseSession(token string) (*models.Identity, error) {
	return auth.ParseToken(token, s.jwtSecret)
}

// SessionValidity is the lifetime of tokens issued by Login.
func (s *UserService) SessionValidity() time.Duration {
	return s.sessionValidityDuration
}

// Profile returns the public view of username.
func (s *UserService) Profile(ctx context.Context, username string) (*models.PublicUser, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "lookup by username failed", "error", err)
		return nil, common.ErrorInternal
	}
	p := u.Public()
	return &p, nil
}

// ListUsers returns public projections of every account.
func (s *UserService) ListUsers(ctx context.Context) ([]models.PublicUser, error) {
	out, err := s.users.ListPublic(ctx)
	if err != nil {
		s.logger.Error(ctx, "listing users failed", "error", err)
		return nil, common.ErrorInternal
	}
	return out, nil
}
