package command

import (
	"bufio"
	"context"
	"errors"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/taskadmin-go/internal/cli/repl"
)

// historyFile is the shell history file name inside the data directory.
const historyFile = "history"

// ShellCommand returns the interactive shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:   "shell",
		Usage:  "Start an interactive shell",
		Action: shell,
	}
}

func shell(c *cli.Context) error {
	env, err := GetEnv(c)
	if err != nil {
		return err
	}
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	// Verify the stored session once so the prompt shows who is logged in.
	restoreCtx, cancel := requestContext(c, env)
	mgr, err := env.Session(restoreCtx)
	cancel()
	if err != nil {
		return err
	}

	history := repl.NewHistory("", repl.DefaultHistorySize)
	if !env.ephemeral {
		history = repl.NewHistory(filepath.Join(env.Config.DataDir, historyFile), repl.DefaultHistorySize)
	}
	if err := history.Load(); err != nil {
		env.Log.Warn("load shell history", "error", err)
	}

	if env.input == nil {
		env.input = bufio.NewReader(c.App.Reader)
	}

	r := repl.New(repl.Config{
		Input:  env.input,
		Output: c.App.Writer,
		Prompt: func() string {
			if s := mgr.Snapshot(); s.Authenticated() {
				return "taskadmin(" + s.Identity.Username + ")> "
			}
			return "taskadmin> "
		},
		Execute: func(ctx context.Context, args []string) error {
			if len(args) > 0 && args[0] == "shell" {
				return errors.New("already in a shell")
			}
			if err := c.App.RunContext(ctx, append([]string{c.App.Name}, args...)); err != nil {
				return shellError{err}
			}
			return nil
		},
		Completer: repl.NewCompleter(commandPaths(c.App.Commands, "")),
		History:   history,
	})

	runErr := r.Run(ctx)
	if err := history.Save(); err != nil {
		env.Log.Warn("save shell history", "error", err)
	}
	return runErr
}

// shellError prints like the top-level error output.
type shellError struct{ err error }

func (e shellError) Error() string { return FormatError(e.err) }
func (e shellError) Unwrap() error { return e.err }

// commandPaths lists every command as a space separated path.
func commandPaths(cmds []*cli.Command, prefix string) []string {
	var out []string
	for _, cmd := range cmds {
		if cmd.Hidden {
			continue
		}
		path := cmd.Name
		if prefix != "" {
			path = prefix + " " + cmd.Name
		}
		out = append(out, path)
		out = append(out, commandPaths(cmd.Subcommands, path)...)
	}
	return out
}
