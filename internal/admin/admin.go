// Package admin implements the operator commands of waulty-admin: creating
// accounts from the terminal and applying schema migrations.
package admin

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/waulty/internal/server/models"
)

var (
	errEmptyPassword    = errors.New("password must not be empty")
	errPasswordMismatch = errors.New("passwords do not match")
	ErrUnknownCommand   = errors.New("unknown command")
)

const usage = `usage: waulty-admin [config flags] <command> [args]

commands:
  create-user -email EMAIL -name NAME [-role ADMIN|MANAGER]
  migrate`

// UserCreator is satisfied by *services.UserService.
type UserCreator interface {
	Create(ctx context.Context, nu models.NewUser) (*models.User, error)
}

// CLI dispatches a single admin command.
type CLI struct {
	users   UserCreator
	migrate func(ctx context.Context) error
	in      *bufio.Reader
	out     io.Writer
}

func NewCLI(users UserCreator, migrate func(ctx context.Context) error, in io.Reader, out io.Writer) *CLI {
	return &CLI{users: users, migrate: migrate, in: bufio.NewReader(in), out: out}
}

// Commands lists the names understood by Run.
var Commands = []string{"create-user", "migrate", "help"}

// SplitCommand finds the first command name in args and returns it with the
// arguments that follow. Anything before it belongs to the config layer.
func SplitCommand(args []string) (string, []string) {
	for i, a := range args {
		for _, c := range Commands {
			if a == c {
				return a, args[i+1:]
			}
		}
	}
	return "", nil
}

func (c *CLI) Run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "create-user":
		return c.createUser(ctx, args)
	case "migrate":
		if err := c.migrate(ctx); err != nil {
			return fmt.Errorf("migration error: %w", err)
		}
		fmt.Fprintln(c.out, "migrations applied")
		return nil
	case "help", "":
		fmt.Fprintln(c.out, usage)
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}

func (c *CLI) createUser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	fs.SetOutput(c.out)
	email := fs.String("email", "", "account email")
	name := fs.String("name", "", "display name")
	role := fs.String("role", string(models.RoleManager), "ADMIN or MANAGER")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var err error
	if *email == "" {
		if *email, err = promptLine(c.in, "Email", c.out); err != nil {
			return err
		}
	}
	if *name == "" {
		if *name, err = promptLine(c.in, "Name", c.out); err != nil {
			return err
		}
	}

	r := models.Role(strings.ToUpper(*role))
	if !r.IsValid() {
		return fmt.Errorf("unknown role %q", *role)
	}

	password, err := newPassword(c.out)
	if err != nil {
		return err
	}

	u, err := c.users.Create(ctx, models.NewUser{Email: *email, Name: *name, Password: password, Role: r})
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	fmt.Fprintf(c.out, "created %s %s (%s)\n", u.Role, u.Email, u.ID)
	return nil
}
