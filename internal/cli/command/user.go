package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/taskadmin-go/internal/cli/output"
	"github.com/yndnr/taskadmin-go/internal/cli/view"
	"github.com/yndnr/taskadmin-go/internal/core/domain"
)

// UserCommand returns the user subcommand group.
func UserCommand() *cli.Command {
	return &cli.Command{
		Name:    "user",
		Aliases: []string{"users"},
		Usage:   "User management",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List users",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "search",
						Aliases: []string{"q"},
						Usage:   "Only users whose name contains this text",
					},
				},
				Action: userList,
			},
			{
				Name:      "create",
				Usage:     "Create a user",
				ArgsUsage: "<username>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Initial password (prompted when omitted)",
					},
					&cli.StringFlag{
						Name:    "role",
						Aliases: []string{"r"},
						Usage:   "Role: admin or user",
						Value:   string(domain.RoleUser),
					},
				},
				Action: userCreate,
			},
			{
				Name:      "update",
				Usage:     "Change a user's role or password",
				ArgsUsage: "<user-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "role",
						Aliases: []string{"r"},
						Usage:   "New role: admin or user",
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "New password",
					},
				},
				Action: userUpdate,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a user",
				ArgsUsage: "<user-id>",
				Flags:     []cli.Flag{forceFlag()},
				Action:    userDelete,
			},
		},
	}
}

// userRows renders users as a table.
type userRows []*domain.User

func (r userRows) Table(wide bool) *output.Table {
	t := &output.Table{}
	if wide {
		t.SetHeaders("ID", "USERNAME", "ROLE", "CREATED", "LAST LOGIN")
	} else {
		t.SetHeaders("ID", "USERNAME", "ROLE", "CREATED")
	}
	for _, u := range r {
		cells := []string{u.ID, u.Username, string(u.Role), u.CreatedAt.String()}
		if wide {
			cells = append(cells, u.LastLogin.String())
		}
		t.AddRow(cells...)
	}
	return t
}

// usersView mounts the users view for an admin session.
func usersView(c *cli.Context) (*view.Users, *Env, error) {
	env, err := GetEnv(c)
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := requestContext(c, env)
	defer cancel()

	client, err := env.Admin(ctx)
	if err != nil {
		return nil, nil, err
	}
	v := view.NewUsers(client, view.WithNotifier(successPrinter(c)))

	spinner := startSpinner(c, "Loading users...")
	err = v.Mount(ctx)
	stopSpinner(spinner)
	if err != nil {
		return nil, nil, err
	}
	return v, env, nil
}

func userList(c *cli.Context) error {
	v, env, err := usersView(c)
	if err != nil {
		return err
	}
	defer v.Dispose()

	v.SetFilter(c.String("search"))

	f, _, err := formatter(c, env)
	if err != nil {
		return err
	}
	return f.Format(c.App.Writer, userRows(v.Visible()))
}

func userCreate(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: user create <username> [--role admin|user] [--password ...]")
	}
	env, err := GetEnv(c)
	if err != nil {
		return err
	}

	req := domain.UserCreate{
		Username: c.Args().First(),
		Password: c.String("password"),
		Role:     domain.Role(c.String("role")),
	}
	if req.Password == "" {
		if req.Password, err = env.prompt(c, "Password: "); err != nil {
			return err
		}
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}

	v, _, err := usersView(c)
	if err != nil {
		return err
	}
	defer v.Dispose()

	ctx, cancel := requestContext(c, env)
	defer cancel()
	return v.Create(ctx, req)
}

func userUpdate(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: user update <user-id> [--role admin|user] [--password ...]")
	}
	var req domain.UserUpdate
	if c.IsSet("role") {
		role := domain.Role(c.String("role"))
		req.Role = &role
	}
	if c.IsSet("password") {
		password := c.String("password")
		req.Password = &password
	}
	if err := req.Validate(); err != nil {
		return err
	}

	v, env, err := usersView(c)
	if err != nil {
		return err
	}
	defer v.Dispose()

	ctx, cancel := requestContext(c, env)
	defer cancel()
	return v.Update(ctx, c.Args().First(), req)
}

func userDelete(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: user delete <user-id> [--force]")
	}
	id := c.Args().First()

	v, env, err := usersView(c)
	if err != nil {
		return err
	}
	defer v.Dispose()

	name := id
	for _, u := range v.All() {
		if u.ID == id {
			name = u.Username
			break
		}
	}
	ok, err := env.confirm(c, fmt.Sprintf("Delete user %s?", name))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(c.App.Writer, "Aborted")
		return nil
	}

	ctx, cancel := requestContext(c, env)
	defer cancel()
	return v.Delete(ctx, id)
}

// successPrinter writes success notices to stdout. Failures are returned
// by the command and printed once by the caller.
func successPrinter(c *cli.Context) view.Notifier {
	return view.NotifierFunc(func(n view.Notice) {
		if n.Level == view.LevelSuccess {
			fmt.Fprintln(c.App.Writer, n.Message)
		}
	})
}
