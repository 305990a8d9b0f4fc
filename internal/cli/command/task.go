package command

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/taskadmin-go/internal/cli/output"
	"github.com/yndnr/taskadmin-go/internal/cli/view"
	"github.com/yndnr/taskadmin-go/internal/core/domain"
)

// TaskCommand returns the task subcommand group.
func TaskCommand() *cli.Command {
	return &cli.Command{
		Name:    "task",
		Aliases: []string{"tasks"},
		Usage:   "Task monitoring",
		Subcommands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List tasks",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "status",
						Usage: "Filter by status: all, pending, in_progress, completed, failed",
						Value: view.StatusAll,
					},
					&cli.StringFlag{
						Name:  "type",
						Usage: "Filter by type: all, summarization, translation, code_generation",
						Value: view.TypeAll,
					},
					&cli.StringFlag{
						Name:    "search",
						Aliases: []string{"q"},
						Usage:   "Only tasks whose type, user id or username contains this text",
					},
				},
				Action: taskList,
			},
			{
				Name:      "get",
				Usage:     "Show one task",
				ArgsUsage: "<task-id>",
				Action:    taskGet,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a task",
				ArgsUsage: "<task-id>",
				Flags:     []cli.Flag{forceFlag()},
				Action:    taskDelete,
			},
		},
	}
}

// taskRows renders tasks as a table.
type taskRows []*domain.Task

func (r taskRows) Table(wide bool) *output.Table {
	t := &output.Table{}
	if wide {
		t.SetHeaders("ID", "TYPE", "STATUS", "USER", "CREATED", "COMPLETED", "RESULT")
	} else {
		t.SetHeaders("ID", "TYPE", "STATUS", "USER", "CREATED")
	}
	for _, task := range r {
		user := task.UserID
		if task.Username != "" {
			user = task.Username
		}
		cells := []string{task.ID, task.TaskType, string(task.Status), user, task.CreatedAt.String()}
		if wide {
			cells = append(cells, task.CompletedAt.String(), outcome(task))
		}
		t.AddRow(cells...)
	}
	return t
}

func outcome(t *domain.Task) string {
	switch {
	case t.Error != nil:
		return "error: " + truncate(*t.Error, 40)
	case t.Result != nil:
		return truncate(*t.Result, 40)
	default:
		return "-"
	}
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func validStatusFilter(status string) error {
	if status == view.StatusAll || domain.TaskStatus(status).Valid() {
		return nil
	}
	return fmt.Errorf("unknown status %q (want all, pending, in_progress, completed or failed)", status)
}

func validTypeFilter(taskType string) error {
	if taskType == view.TypeAll {
		return nil
	}
	for _, known := range domain.TaskTypes {
		if taskType == known {
			return nil
		}
	}
	return fmt.Errorf("unknown task type %q (want all, %s)", taskType, strings.Join(domain.TaskTypes, ", "))
}

// tasksView mounts the tasks view for an admin session.
func tasksView(c *cli.Context) (*view.Tasks, *Env, error) {
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
	v := view.NewTasks(client, view.WithNotifier(successPrinter(c)))

	spinner := startSpinner(c, "Loading tasks...")
	err = v.Mount(ctx)
	stopSpinner(spinner)
	if err != nil {
		return nil, nil, err
	}
	return v, env, nil
}

func taskList(c *cli.Context) error {
	status := strings.ToLower(c.String("status"))
	if err := validStatusFilter(status); err != nil {
		return err
	}
	taskType := strings.ToLower(c.String("type"))
	if err := validTypeFilter(taskType); err != nil {
		return err
	}

	v, env, err := tasksView(c)
	if err != nil {
		return err
	}
	defer v.Dispose()

	v.SetStatusFilter(status)
	v.SetTypeFilter(taskType)
	v.SetSearch(c.String("search"))

	f, _, err := formatter(c, env)
	if err != nil {
		return err
	}
	return f.Format(c.App.Writer, taskRows(v.Visible()))
}

func taskGet(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: task get <task-id>")
	}
	env, err := GetEnv(c)
	if err != nil {
		return err
	}
	ctx, cancel := requestContext(c, env)
	defer cancel()

	client, err := env.Admin(ctx)
	if err != nil {
		return err
	}
	task, err := client.GetTask(ctx, c.Args().First())
	if err != nil {
		return err
	}

	f, _, err := formatter(c, env)
	if err != nil {
		return err
	}
	return f.Format(c.App.Writer, task)
}

func taskDelete(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: task delete <task-id> [--force]")
	}
	id := c.Args().First()

	env, err := GetEnv(c)
	if err != nil {
		return err
	}
	ok, err := env.confirm(c, fmt.Sprintf("Delete task %s?", id))
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(c.App.Writer, "Aborted")
		return nil
	}

	v, _, err := tasksView(c)
	if err != nil {
		return err
	}
	defer v.Dispose()

	ctx, cancel := requestContext(c, env)
	defer cancel()
	return v.Delete(ctx, id)
}
