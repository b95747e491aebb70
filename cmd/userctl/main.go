// Command userctl administers the user store: list, clear and add accounts.
//
//	userctl list
//	userctl clear -yes
//	userctl add -username alice -email alice@example.com
//
// It reads the same environment as the server. JWT_SECRET must be set even
// though userctl never issues tokens.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"github.com/uploadgate/upload-gateway/internal/bootstrap"
	"github.com/uploadgate/upload-gateway/internal/core/ports"
	"github.com/uploadgate/upload-gateway/internal/core/service"
	"github.com/uploadgate/upload-gateway/internal/pkg/config"
	"github.com/uploadgate/upload-gateway/pkg/logger"
)

// readPassword reads a line from a terminal without echoing it.
var readPassword = func(in *os.File) ([]byte, error) {
	return term.ReadPassword(int(in.Fd()))
}

const usage = `usage: userctl <command> [flags]

commands:
  list                              print every stored user
  clear -yes                        delete every stored user
  add -username NAME -email EMAIL   register a user, prompting for the password
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.Init(logger.Options{Level: "warn", Pretty: true, Output: os.Stderr})

	ctx, cancel := context.WithCancel(context.Background())
	repo, closeRepo, err := bootstrap.OpenUserRepository(ctx, cfg, log)
	if err != nil {
		cancel()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	a := &app{
		users:  service.NewUserService(repo, log),
		auth:   service.NewAuthService(repo, service.NewBcryptHasher(cfg.Auth.BcryptCost), service.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL), log),
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}
	err = a.run(ctx, os.Args[1:])

	_ = closeRepo()
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, "userctl:", err)
		os.Exit(1)
	}
}

type app struct {
	users  ports.UserService
	auth   ports.AuthService
	stdin  *os.File
	stdout io.Writer
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.stdout, usage)
		return errors.New("missing command")
	}

	switch args[0] {
	case "list":
		return a.list(ctx)
	case "clear":
		return a.clear(ctx, args[1:])
	case "add":
		return a.add(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(a.stdout, usage)
		return nil
	}
	fmt.Fprint(a.stdout, usage)
	return fmt.Errorf("unknown command %q", args[0])
}

func (a *app) list(ctx context.Context) error {
	users, err := a.users.ListWithHash(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tEMAIL\tCREATED")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, u.CreatedAt.Format(time.RFC3339))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%d user(s)\n", len(users))
	return nil
}

func (a *app) clear(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("clear", flag.ContinueOnError)
	fs.SetOutput(a.stdout)
	yes := fs.Bool("yes", false, "confirm deletion of every user")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*yes {
		return errors.New("refusing to clear without -yes")
	}

	if err := a.users.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "user store cleared")
	return nil
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(a.stdout)
	username := fs.String("username", "", "username")
	email := fs.String("email", "", "email address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	password, err := a.promptPassword()
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	user, err := a.auth.Register(ctx, ports.RegisterInput{
		Username: *username,
		Email:    *email,
		Password: password,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "created user %d (%s)\n", user.ID, user.Username)
	return nil
}

// promptPassword reads without echo from a terminal, or one line otherwise.
func (a *app) promptPassword() (string, error) {
	if term.IsTerminal(int(a.stdin.Fd())) {
		fmt.Fprint(a.stdout, "Password: ")
		b, err := readPassword(a.stdin)
		fmt.Fprintln(a.stdout)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
