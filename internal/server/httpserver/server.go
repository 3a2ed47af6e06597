// Package httpserver exposes the Mystery Message JSON API over HTTP using gin.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/mysterymessage/internal/logging"
	"github.com/dmitrijs2005/mysterymessage/internal/server/models"
	"github.com/dmitrijs2005/mysterymessage/internal/server/services"
	"github.com/gin-gonic/gin"
)

// UserService is what the auth and profile handlers need.
type UserService interface {
	SignUp(ctx context.Context, in services.SignUpInput) error
	VerifyCode(ctx context.Context, username, code string) error
	CheckUsernameUnique(ctx context.Context, username string) (bool, error)
	Login(ctx context.Context, identifier, password string) (*services.Session, error)
	ParseSession(token string) (*models.Identity, error)
	Profile(ctx context.Context, username string) (*models.PublicUser, error)
	ListUsers(ctx context.Context) ([]models.PublicUser, error)
}

// MessageService is what the message handlers need.
type MessageService interface {
	Send(ctx context.Context, username, content string) (*models.Message, error)
	List(ctx context.Context, userID string) ([]models.Message, error)
	Delete(ctx context.Context, userID, messageID string) error
	GetAcceptingMessages(ctx context.Context, userID string) (bool, error)
	SetAcceptingMessages(ctx context.Context, userID string, accept bool) error
	Export(ctx context.Context, identity *models.Identity) (string, error)
}

type SuggestionService interface {
	Suggest(ctx context.Context) services.Suggestion
}

type HTTPServer struct {
	address         string
	baseURL         string
	shutdownTimeout time.Duration
	logger          logging.Logger
	users           UserService
	messages        MessageService
	suggestions     SuggestionService
	engine          *gin.Engine
}

func NewHTTPServer(address, baseURL string, shutdownTimeout time.Duration, l logging.Logger,
	us UserService, ms MessageService, ss SuggestionService) *HTTPServer {
	s := &HTTPServer{
		address:         address,
		baseURL:         strings.TrimRight(baseURL, "/"),
		shutdownTimeout: shutdownTimeout,
		logger:          l.With("module", "http_server"),
		users:           us,
		messages:        ms,
		suggestions:     ss,
	}
	s.engine = s.routes()
	return s
}

// Handler returns the routed gin engine.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

func (s *HTTPServer) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := r.Group("/api")
	{
		public.POST("/sign-up", s.signUp)
		public.POST("/verify-code", s.verifyCode)
		public.GET("/check-username-unique", s.checkUsernameUnique)
		public.POST("/sign-in", s.signIn)
		public.POST("/sign-out", s.signOut)
		public.GET("/u/:username", s.profile)
		public.POST("/u/:username/messages", s.sendToProfile)
		public.POST("/send-message", s.sendMessage)
		public.POST("/suggest-messages", s.suggestMessages)
	}

	protected := r.Group("/api")
	protected.Use(s.sessionRequired())
	{
		protected.GET("/session", s.session)
		protected.GET("/accept-messages", s.getAcceptMessages)
		protected.POST("/accept-messages", s.setAcceptMessages)
		protected.GET("/get-messages", s.getMessages)
		protected.DELETE("/messages/:id", s.deleteMessage)
		protected.POST("/messages/export", s.exportMessages)
		protected.GET("/users", s.listUsers)
	}

	return r
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *HTTPServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on listen until ctx is cancelled. It returns only after
// in-flight requests have finished or the shutdown timeout has expired, so
// callers may release shared resources afterwards.
func (s *HTTPServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	// Serve returns as soon as Shutdown starts; wait for the drain.
	<-drained
	return nil
}
