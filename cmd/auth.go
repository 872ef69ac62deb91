package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/desertthunder/cocktailparty/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// prompt reads one line for label. Secrets are read without echo when stdin is a terminal.
func (r *Runner) prompt(label string, secret bool) (string, error) {
	r.writePlain("%s: ", label)

	if f, ok := r.stdin.(*os.File); ok && secret && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		r.writePlain("\n")
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
		}
		return string(b), nil
	}

	line, err := r.input.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, strings.ToLower(label))
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// flagOrPrompt returns the flag value, prompting when it is empty.
func (r *Runner) flagOrPrompt(cmd *cli.Command, flag, label string, secret bool) (string, error) {
	if v := cmd.String(flag); v != "" {
		return v, nil
	}
	return r.prompt(label, secret)
}

// AuthLogin signs in with email and password.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email, err := r.flagOrPrompt(cmd, "email", "Email", false)
	if err != nil {
		return err
	}
	password, err := r.flagOrPrompt(cmd, "password", "Password", true)
	if err != nil {
		return err
	}
	if err := shared.ValidateLogin(email, password); err != nil {
		return err
	}

	store, err := r.Store(ctx)
	if err != nil {
		return err
	}
	if err := store.Login(ctx, email, password); err != nil {
		return err
	}

	user := store.User()
	return r.writePlain("✓ Signed in as %s (%d favorites)\n", user.Name, len(store.Favorites()))
}

// AuthRegister creates an account after applying the sign-up form rules.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	name, err := r.flagOrPrompt(cmd, "name", "Full name", false)
	if err != nil {
		return err
	}
	email, err := r.flagOrPrompt(cmd, "email", "Email", false)
	if err != nil {
		return err
	}

	reg := shared.Registration{Name: name, Email: email}
	if p := cmd.String("password"); p != "" {
		reg.Password, reg.Confirm = p, p
	} else {
		if reg.Password, err = r.prompt("Password", true); err != nil {
			return err
		}
		if reg.Confirm, err = r.prompt("Confirm password", true); err != nil {
			return err
		}
	}
	if err := reg.Validate(); err != nil {
		return err
	}

	store, err := r.Store(ctx)
	if err != nil {
		return err
	}
	if err := store.Register(ctx, reg.Name, reg.Email, reg.Password); err != nil {
		return err
	}

	user := store.User()
	r.logger.Info("account created", "account", user.ID)
	return r.writePlain("✓ Welcome, %s! You are signed in as %s\n", user.Name, user.Email)
}

// AuthLogout ends the session. Accounts and favorites stay.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	store, err := r.Store(ctx)
	if err != nil {
		return err
	}
	if store.User() == nil {
		return r.writePlain("Not signed in\n")
	}
	if err := store.Logout(ctx); err != nil {
		return err
	}
	return r.writePlain("✓ Signed out\n")
}

// AuthStatus shows the signed-in account.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	store, err := r.Store(ctx)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(store.Snapshot(), true)
	}

	user := store.User()
	if user == nil {
		return r.writePlain("✗ Not signed in\n")
	}
	r.writePlain("✓ Signed in\n")
	r.writePlain("Name:      %s\n", user.Name)
	r.writePlain("Email:     %s\n", user.Email)
	r.writePlain("Favorites: %d\n", len(store.Favorites()))
	return nil
}
