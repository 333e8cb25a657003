package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/smartnotes/internal/client/api"
	"github.com/dmitrijs2005/smartnotes/internal/common"
)

// getSimpleText, getPassword and getPin are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getPin = GetPin

// describe turns a command error into the line shown to the user.
func describe(err error) string {
	var apiErr *api.Error
	switch {
	case errors.Is(err, api.ErrUnavailable):
		return "server unavailable, try again later"
	case errors.Is(err, common.ErrPinRequired):
		return "this item is locked, run 'unlock' first"
	case errors.As(err, &apiErr):
		return apiErr.Message
	default:
		return err.Error()
	}
}

// Register prompts for an email and password and creates an account.
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.api.Register(ctx, email, string(password)); err != nil {
		return err
	}

	printlnFn("Account created, you can login now")
	return nil
}

// Login prompts for credentials and opens a session. The token is kept in
// the local store so the next run starts signed in.
func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, common.NormalizeEmail(email), string(password)); err != nil {
		return err
	}

	printlnFn("Signed in as", a.session.Email())
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	printlnFn("Signed out")
	return nil
}

func (a *App) PinStatus(ctx context.Context, _ []string) error {
	has, err := a.api.PinStatus(ctx)
	if err != nil {
		return err
	}
	if has {
		printlnFn("PIN is set")
	} else {
		printlnFn("No PIN set")
	}
	return nil
}

// SetPin asks for the new PIN twice.
func (a *App) SetPin(ctx context.Context, _ []string) error {
	pin, err := getPin(a.out)
	if err != nil {
		return err
	}
	again, err := getPin(a.out)
	if err != nil {
		return err
	}
	if pin != again {
		return errors.New("PINs do not match")
	}

	if err := a.api.SetPin(ctx, pin); err != nil {
		return err
	}
	printlnFn("PIN saved")
	return nil
}

func (a *App) ClearPin(ctx context.Context, _ []string) error {
	pin, err := getPin(a.out)
	if err != nil {
		return err
	}
	if err := a.api.ClearPin(ctx, pin); err != nil {
		return err
	}
	a.session.Lock()
	printlnFn("PIN removed")
	return nil
}

// Unlock verifies the PIN and shows locked notes and tasks until the
// session is locked again or ends.
func (a *App) Unlock(ctx context.Context, _ []string) error {
	pin, err := getPin(a.out)
	if err != nil {
		return err
	}
	if err := a.session.Unlock(ctx, pin); err != nil {
		if errors.Is(err, common.ErrInvalidPin) {
			return errors.New("wrong PIN")
		}
		return err
	}
	printlnFn("Unlocked")
	return nil
}

func (a *App) Lock(_ context.Context, _ []string) error {
	a.session.Lock()
	printlnFn("Locked")
	return nil
}

func (a *App) getStatus() string {
	if !a.session.LoggedIn() {
		return fmt.Sprintf("[%s]", a.Mode)
	}
	lock := "locked"
	if a.session.Unlocked() {
		lock = "unlocked"
	}
	return fmt.Sprintf("[%s %s %s]", a.Mode, a.session.Email(), lock)
}
