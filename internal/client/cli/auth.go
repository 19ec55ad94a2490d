package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/heartlink/internal/client/session"
	"github.com/spf13/cobra"
)

func newPingCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().Ping(cmd.Context())
		},
	}
}

func (a *App) Ping(ctx context.Context) error {
	c, err := a.connect(false)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := c.Ping(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "server %s is up\n", a.config.ServerEndpointAddr)
	return nil
}

func newSignupCommand(app func() *App) *cobra.Command {
	var username, email string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().Signup(cmd.Context(), username, email)
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "display name shown on your proposals")
	cmd.Flags().StringVarP(&email, "email", "e", "", "email address")
	return cmd
}

// Signup prompts for whatever was not given on the command line.
func (a *App) Signup(ctx context.Context, username, email string) error {
	username, err := valueOrPrompt(username, a.in, "Your name", a.out)
	if err != nil {
		return err
	}
	email, err = valueOrPrompt(email, a.in, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.in, a.out)
	if err != nil {
		return err
	}

	c, err := a.connect(false)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	userID, err := c.Signup(ctx, username, email, password)
	if err != nil {
		return err
	}
	if err := a.saveSession(c, email, userID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s! You are signed in.\n", username)
	return nil
}

func newLoginCommand(app func() *App) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().Login(cmd.Context(), email)
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "email address")
	return cmd
}

func (a *App) Login(ctx context.Context, email string) error {
	email, err := valueOrPrompt(email, a.in, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.in, a.out)
	if err != nil {
		return err
	}

	c, err := a.connect(false)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := c.Login(ctx, email, password); err != nil {
		return err
	}
	if err := a.saveSession(c, email, ""); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s.\n", email)
	return nil
}

func newLogoutCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().Logout()
		},
	}
}

func (a *App) Logout() error {
	_, err := a.store.Load()
	if errors.Is(err, session.ErrNotLoggedIn) {
		fmt.Fprintln(a.out, "Not signed in.")
		return nil
	}
	if err := a.store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}
