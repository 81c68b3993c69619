// Package cli implements the interactive AuthKeeper command line client.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/authkeeper/internal/client/client"
	"github.com/dmitrijs2005/authkeeper/internal/client/config"
)

// App holds the state of an interactive CLI session. The token obtained on
// login or registration is kept in memory only and discarded on logout.
type App struct {
	config *config.Config
	api    *client.Client
	token  string
	email  string
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		api:    client.New(c.ServerBaseURL),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}

func (a *App) isLoggedIn() bool {
	return a.token != ""
}

func (a *App) getStatus() string {
	if a.email == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.email)
}

// Run starts the interactive loop and returns when the user quits
// or stdin is exhausted.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to AuthKeeper CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin), a.out)
}
