package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/mysterymessage/internal/logging"
	"github.com/dmitrijs2005/mysterymessage/internal/server/config"
	"github.com/dmitrijs2005/mysterymessage/internal/server/models"
	"github.com/dmitrijs2005/mysterymessage/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

type sentCode struct {
	email, username, code string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentCode
	err  error
}

func (m *recordingMailer) SendVerificationCode(ctx context.Context, email, username, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentCode{email, username, code})
	return nil
}

func (m *recordingMailer) last(t *testing.T) sentCode {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "no verification mail sent")
	return m.sent[len(m.sent)-1]
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	return cfg
}

type fixture struct {
	manager  repomanager.Manager
	mailer   *recordingMailer
	users    *UserService
	messages *MessageService
	cfg      *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	m := repomanager.NewMemoryManager()
	ml := &recordingMailer{}
	cfg := testConfig()
	us, err := NewUserService(m, ml, logging.Nop{}, cfg)
	require.NoError(t, err)
	return &fixture{
		manager:  m,
		mailer:   ml,
		users:    us,
		messages: NewMessageService(m, logging.Nop{}, cfg),
		cfg:      cfg,
	}
}

// registerVerified signs a user up and verifies them, returning their identity.
func (f *fixture) registerVerified(t *testing.T, username, password string) *models.Identity {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.users.SignUp(ctx, SignUpInput{
		Username: username,
		Email:    username + "@example.com",
		Password: password,
		DOB:      time.Date(1995, 5, 17, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, f.users.VerifyCode(ctx, username, f.mailer.last(t).code))

	id, err := f.users.Authenticate(ctx, username, password)
	require.NoError(t, err)
	return id
}
