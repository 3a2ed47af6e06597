package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/mysterymessage/internal/client/models"
	"github.com/dmitrijs2005/mysterymessage/internal/common"
)

var errUsernameTaken = errors.New("username is not available")

// SignUp registers a new account. The server mails a verification code that
// is then entered with `verify`.
func (a *App) SignUp(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Choose a username", a.out)
	if err != nil {
		return err
	}

	unique, msg, err := a.api.CheckUsername(ctx, username)
	if err != nil {
		return err
	}
	if !unique {
		fmt.Fprintln(a.out, msg)
		return errUsernameTaken
	}

	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	dob, err := GetSimpleText(a.reader, "Date of birth (YYYY-MM-DD)", a.out)
	if err != nil {
		return err
	}
	if _, err := time.Parse(time.DateOnly, dob); err != nil {
		return fmt.Errorf("date of birth must look like 2000-01-31")
	}

	msg, err = a.api.SignUp(ctx, models.SignUp{
		Username: username,
		Email:    email,
		Password: string(password),
		DOB:      dob,
	})
	if err != nil {
		return err
	}

	a.pendingUsername = username
	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) Verify(ctx context.Context) error {
	username, err := GetTextWithDefault(a.reader, "Username", a.pendingUsername, a.out)
	if err != nil {
		return err
	}
	code, err := GetSimpleText(a.reader, "Verification code", a.out)
	if err != nil {
		return err
	}

	msg, err := a.api.VerifyCode(ctx, username, code)
	if err != nil {
		return err
	}

	a.pendingUsername = ""
	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	identifier, err := GetSimpleText(a.reader, "Email or username", a.out)
	if err != nil {
		return err
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	id, err := a.api.SignIn(ctx, identifier, string(password))
	if err != nil {
		return err
	}

	a.identity = id
	fmt.Fprintf(a.out, "Signed in as %s\n", id.Username)
	return nil
}

// Logout drops the local session even when the server cannot be reached.
func (a *App) Logout(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	err := a.api.SignOut(ctx)
	a.identity = nil
	fmt.Fprintln(a.out, "Signed out")
	return err
}

func (a *App) WhoAmI(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	id, err := a.api.Session(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s <%s> id=%s\n", id.Username, id.Email, id.ID)
	return nil
}
