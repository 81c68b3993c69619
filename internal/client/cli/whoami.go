package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/authkeeper/internal/common"
)

// Whoami fetches the authenticated user's profile from the server.
func (a *App) Whoami(ctx context.Context) error {

	user, err := a.api.CurrentUser(ctx, a.token)
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) {
			fmt.Fprintln(a.out, "Session expired, please log in again")
			a.token = ""
			a.email = ""
		} else {
			fmt.Fprintf(a.out, "error: %v\n", err)
		}
		return err
	}

	fmt.Fprintf(a.out, "ID:    %s\n", user.ID)
	fmt.Fprintf(a.out, "Email: %s\n", user.Email)
	fmt.Fprintf(a.out, "Name:  %s\n", user.Name)
	fmt.Fprintf(a.out, "Since: %s\n", user.CreatedAt.Format("2006-01-02"))
	return nil
}
