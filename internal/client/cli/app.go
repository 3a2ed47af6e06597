package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/dmitrijs2005/mysterymessage/internal/client/client"
	"github.com/dmitrijs2005/mysterymessage/internal/client/config"
	"github.com/dmitrijs2005/mysterymessage/internal/client/models"
)

type App struct {
	config *config.Config
	api    client.Client
	// download fetches export archives from storage; it never carries the
	// session token.
	download *http.Client
	reader   *bufio.Reader
	out      io.Writer
	now      func() time.Time

	identity *models.Identity
	// pendingUsername remembers the last sign-up so verify can default to it.
	pendingUsername string
}

func NewApp(c *config.Config) (*App, error) {
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q", c.ServerURL)
	}

	return &App{
		config:   c,
		api:      client.NewHTTPClient(c.ServerURL, c.RequestTimeout),
		download: &http.Client{Timeout: c.RequestTimeout},
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		now:      time.Now,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	fmt.Fprintf(a.out, "Mystery Message client, server %s (type 'help' for commands)\n", a.config.ServerURL)
	runREPL(ctx, a, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.identity != nil
}

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		return client.ErrNotSignedIn
	}
	return nil
}
