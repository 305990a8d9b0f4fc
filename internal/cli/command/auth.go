package command

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"
)

// LoginCommand returns the login command.
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Log in and store the session token",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "username",
				Aliases: []string{"u"},
				Usage:   "Username (prompted when omitted)",
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Password (prompted when omitted)",
			},
		},
		Action: login,
	}
}

// LogoutCommand returns the logout command.
func LogoutCommand() *cli.Command {
	return &cli.Command{
		Name:   "logout",
		Usage:  "Discard the stored session",
		Action: logout,
	}
}

// WhoamiCommand returns the whoami command.
func WhoamiCommand() *cli.Command {
	return &cli.Command{
		Name:   "whoami",
		Usage:  "Show the logged in user",
		Action: whoami,
	}
}

func login(c *cli.Context) error {
	env, err := GetEnv(c)
	if err != nil {
		return err
	}

	username := c.String("username")
	if username == "" {
		if username, err = env.prompt(c, "Username: "); err != nil {
			return err
		}
	}
	password := c.String("password")
	if password == "" {
		if password, err = env.prompt(c, "Password: "); err != nil {
			return err
		}
	}

	mgr, err := env.Manager()
	if err != nil {
		return err
	}
	env.restored = true

	ctx, cancel := requestContext(c, env)
	defer cancel()

	spinner := startSpinner(c, "Logging in...")
	err = mgr.Login(ctx, strings.TrimSpace(username), password)
	stopSpinner(spinner)
	if err != nil {
		return err
	}

	id := mgr.Snapshot().Identity
	fmt.Fprintf(c.App.Writer, "Logged in as %s (%s)\n", id.Username, id.Role)
	return nil
}

func logout(c *cli.Context) error {
	env, err := GetEnv(c)
	if err != nil {
		return err
	}
	mgr, err := env.Manager()
	if err != nil {
		return err
	}
	env.restored = true

	ctx, cancel := requestContext(c, env)
	defer cancel()
	mgr.Logout(ctx)

	fmt.Fprintln(c.App.Writer, "Logged out")
	return nil
}

func whoami(c *cli.Context) error {
	env, err := GetEnv(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c, env)
	defer cancel()

	_, id, err := env.Authenticated(ctx)
	if err != nil {
		return err
	}

	f, _, err := formatter(c, env)
	if err != nil {
		return err
	}
	return f.Format(c.App.Writer, id)
}

// prompt reads one line from the app's input.
func (e *Env) prompt(c *cli.Context, label string) (string, error) {
	if e.input == nil {
		e.input = bufio.NewReader(c.App.Reader)
	}
	fmt.Fprint(c.App.ErrWriter, label)
	line, err := e.input.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(strings.TrimSuffix(label, ": ")), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// confirm asks a yes/no question unless force is set.
func (e *Env) confirm(c *cli.Context, question string) (bool, error) {
	if c.Bool("force") {
		return true, nil
	}
	answer, err := e.prompt(c, question+" [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func forceFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "force",
		Aliases: []string{"f"},
		Usage:   "Skip confirmation",
	}
}
