package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/common"
)

// Register prompts for account details, creates the account on the server
// and stores the issued token so the session is immediately authenticated.
func (a *App) Register(ctx context.Context) error {

	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return err
	}

	name, err := GetSimpleText(a.reader, "Enter display name", a.out)
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

	res, err := a.api.Register(ctx, email, string(password), name)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorEmailAlreadyExists):
			fmt.Fprintln(a.out, "An account with this email already exists")
		default:
			fmt.Fprintf(a.out, "Registration unsuccessful: %v\n", err)
		}
		return err
	}

	a.token = res.Token
	a.email = email
	fmt.Fprintln(a.out, "Registration successful")
	return nil
}
