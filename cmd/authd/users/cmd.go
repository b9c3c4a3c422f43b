package users

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/andrebq/authd/auth"
	"github.com/andrebq/authd/internal/cmdflags"
	"github.com/andrebq/authd/internal/config"
	"github.com/andrebq/authd/userstore"
	"github.com/urfave/cli/v2"
)

func Cmd(cfg *config.Config) *cli.Command {
	var manager *auth.Manager
	var store *userstore.Store
	return &cli.Command{
		Name:  "users",
		Usage: "Manage users directly in the store",
		Flags: cmdflags.Store(cfg),
		Before: func(ctx *cli.Context) error {
			var err error
			manager, store, err = cmdflags.OpenManager(ctx.Context, cfg)
			return err
		},
		After: func(ctx *cli.Context) error {
			if store == nil {
				return nil
			}
			return store.Close()
		},
		Subcommands: []*cli.Command{
			registerCmd(&manager),
			resetTokenCmd(&manager),
		},
	}
}

func registerCmd(manager **auth.Manager) *cli.Command {
	var email string
	return &cli.Command{
		Name:  "register",
		Usage: "Register a new user (password is read from stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "email",
				Aliases:     []string{"e"},
				Usage:       "Email of the user to register",
				Destination: &email,
				Required:    true,
			},
		},
		Action: func(ctx *cli.Context) error {
			sc := bufio.NewScanner(ctx.App.Reader)
			if !sc.Scan() {
				if sc.Err() != nil {
					return sc.Err()
				}
				return errors.New("missing password from stdin")
			}
			password := strings.TrimSpace(sc.Text())
			if len(password) == 0 {
				return errors.New("missing password from stdin")
			}
			u, err := (*manager).RegisterUser(ctx.Context, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(ctx.App.Writer, "user %v created with id %v\n", u.Email, u.ID)
			return nil
		},
	}
}

func resetTokenCmd(manager **auth.Manager) *cli.Command {
	var email string
	return &cli.Command{
		Name:  "reset-token",
		Usage: "Issue a password reset token, any previous token stops working",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "email",
				Aliases:     []string{"e"},
				Usage:       "Email of the user",
				Destination: &email,
				Required:    true,
			},
		},
		Action: func(ctx *cli.Context) error {
			token, err := (*manager).ResetPasswordToken(ctx.Context, email)
			if err != nil {
				return err
			}
			fmt.Fprintln(ctx.App.Writer, token)
			return nil
		},
	}
}
