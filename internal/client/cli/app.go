package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/heartlink/internal/client/client"
	"github.com/dmitrijs2005/heartlink/internal/client/config"
	"github.com/dmitrijs2005/heartlink/internal/client/session"
)

// apiClient is client.Client plus the token plumbing the CLI needs.
type apiClient interface {
	client.Client
	UseTokens(client.Tokens)
	Tokens() client.Tokens
	OnTokens(func(client.Tokens))
}

// dial is a test seam.
var dial = func(addr string) (apiClient, error) {
	return client.NewGRPCClient(addr)
}

// App carries what every command needs. It is built once per invocation
// after flags are parsed.
type App struct {
	config *config.Config
	store  *session.FileStore
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer
}

func NewApp(cfg *config.Config, in io.Reader, out, errOut io.Writer) *App {
	return &App{
		config: cfg,
		store:  session.NewFileStore(cfg.SessionFile),
		in:     bufio.NewReader(in),
		out:    out,
		errOut: errOut,
	}
}

// connect opens a client. With auth set it restores the saved session and
// writes refreshed tokens back to it.
func (a *App) connect(auth bool) (apiClient, error) {
	var sess *session.Session
	if auth {
		var err error
		if sess, err = a.store.Load(); err != nil {
			return nil, err
		}
	}

	c, err := dial(a.config.ServerEndpointAddr)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", a.config.ServerEndpointAddr, err)
	}

	if sess != nil {
		c.UseTokens(client.Tokens{AccessToken: sess.AccessToken, RefreshToken: sess.RefreshToken})
		c.OnTokens(func(t client.Tokens) {
			sess.AccessToken, sess.RefreshToken = t.AccessToken, t.RefreshToken
			if err := a.store.Save(sess); err != nil {
				fmt.Fprintf(a.errOut, "warning: could not save session: %v\n", err)
			}
		})
	}
	return c, nil
}

// withTimeout bounds one command's server calls.
func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

// authed runs fn with a client bound to the saved session.
func (a *App) authed(ctx context.Context, fn func(ctx context.Context, c apiClient) error) error {
	c, err := a.connect(true)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	err = fn(ctx, c)
	if errors.Is(err, client.ErrUnauthorized) {
		return fmt.Errorf("%w; your session may have expired, run \"heartctl login\"", err)
	}
	return err
}

// saveSession stores the tokens c currently holds.
func (a *App) saveSession(c apiClient, email, userID string) error {
	t := c.Tokens()
	return a.store.Save(&session.Session{
		Server:       a.config.ServerEndpointAddr,
		Email:        email,
		UserID:       userID,
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
	})
}
