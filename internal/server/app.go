// Package server initializes and runs the Mystery Message server: it opens
// the store, wires services into the HTTP API and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/mysterymessage/internal/logging"
	"github.com/dmitrijs2005/mysterymessage/internal/server/config"
	"github.com/dmitrijs2005/mysterymessage/internal/server/httpserver"
	"github.com/dmitrijs2005/mysterymessage/internal/server/mailer"
	"github.com/dmitrijs2005/mysterymessage/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/mysterymessage/internal/server/services"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	manager repomanager.Manager
	server  *httpserver.HTTPServer
}

// openManager is a seam for tests.
var openManager = repomanager.Open

// logOutput receives the server's JSON log stream.
var logOutput io.Writer = os.Stdout

// NewApp connects to the store and prepares its schema. Failure here is
// fatal for the process.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(logOutput, c.LogLevel)

	if c.InsecureSecret() {
		logger.Warn(ctx, "default secret key in use with a persistent store; set SECRET_KEY", "database_uri_scheme", uriScheme(c.DatabaseURI))
	}

	m, err := openManager(ctx, c.DatabaseURI, c.DatabaseName)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := m.RunMigrations(ctx); err != nil {
		_ = m.Close(ctx)
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	us, err := services.NewUserService(m, mailer.New(c, logger), logger, c)
	if err != nil {
		_ = m.Close(ctx)
		return nil, fmt.Errorf("user service init error: %w", err)
	}
	ms := services.NewMessageService(m, logger, c)
	ss := services.NewSuggestionService(logger, c)

	srv := httpserver.NewHTTPServer(c.EndpointAddrHTTP, c.BaseURL, c.ShutdownTimeout, logger, us, ms, ss)

	return &App{config: c, logger: logger, manager: m, server: srv}, nil
}

// uriScheme keeps credentials out of the log.
func uriScheme(uri string) string {
	scheme, _, _ := strings.Cut(uri, "://")
	return scheme
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a termination signal arrives or ctx is cancelled, then
// closes the store.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.manager.Close(context.WithoutCancel(ctx)); err != nil {
		app.logger.Error(ctx, "closing store", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
