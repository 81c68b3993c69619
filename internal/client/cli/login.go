package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/client/client"
	"github.com/dmitrijs2005/authkeeper/internal/common"
)

// Login prompts for credentials and exchanges them for a token.
func (a *App) Login(ctx context.Context) error {

	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorInvalidCredentials):
			fmt.Fprintln(a.out, "Invalid email or password")
		case errors.Is(err, client.ErrUnavailable):
			fmt.Fprintln(a.out, "Server unavailable, try again later")
		default:
			fmt.Fprintf(a.out, "Login unsuccessful: %v\n", err)
		}
		return err
	}

	a.token = res.Token
	a.email = email
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout drops the session token.
func (a *App) Logout(ctx context.Context) error {
	a.token = ""
	a.email = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
