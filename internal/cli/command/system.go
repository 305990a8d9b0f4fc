package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/taskadmin-go/internal/cli/output"
	"github.com/yndnr/taskadmin-go/internal/infra/buildinfo"
)

// SystemCommand returns the system subcommand group.
func SystemCommand() *cli.Command {
	return &cli.Command{
		Name:    "system",
		Aliases: []string{"sys"},
		Usage:   "Server and client information",
		Subcommands: []*cli.Command{
			{
				Name:   "health",
				Usage:  "Check server health",
				Action: systemHealth,
			},
			{
				Name:   "version",
				Usage:  "Show client build information",
				Action: systemVersion,
			},
			{
				Name:   "metrics",
				Usage:  "Show API call counters for this process",
				Action: systemMetrics,
			},
		},
	}
}

func systemHealth(c *cli.Context) error {
	env, err := GetEnv(c)
	if err != nil {
		return err
	}
	client, err := env.Client()
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c, env)
	defer cancel()

	health, err := client.Health(ctx)
	if err != nil {
		return err
	}

	f, format, err := formatter(c, env)
	if err != nil {
		return err
	}
	if format != output.FormatTable {
		return f.Format(c.App.Writer, health)
	}

	fmt.Fprintf(c.App.Writer, "Server:    %s\n", client.BaseURL())
	fmt.Fprintf(c.App.Writer, "Status:    %s\n", health.Status)
	if health.Version != "" {
		fmt.Fprintf(c.App.Writer, "Version:   %s\n", health.Version)
	}
	if health.Uptime != "" {
		fmt.Fprintf(c.App.Writer, "Uptime:    %s\n", health.Uptime)
	}
	fmt.Fprintf(c.App.Writer, "Timestamp: %s\n", health.Timestamp)
	return nil
}

func systemVersion(c *cli.Context) error {
	env, err := GetEnv(c)
	if err != nil {
		return err
	}
	f, _, err := formatter(c, env)
	if err != nil {
		return err
	}
	return f.Format(c.App.Writer, buildinfo.Get())
}

type metricRow struct {
	Name   string  `json:"name"`
	Labels string  `json:"labels"`
	Value  float64 `json:"value"`
}

func systemMetrics(c *cli.Context) error {
	env, err := GetEnv(c)
	if err != nil {
		return err
	}
	samples, err := env.Metrics.Snapshot("taskadmin_")
	if err != nil {
		return err
	}
	rows := make([]metricRow, len(samples))
	for i, s := range samples {
		rows[i] = metricRow{Name: s.Name, Labels: s.LabelString(), Value: s.Value}
	}

	f, _, err := formatter(c, env)
	if err != nil {
		return err
	}
	return f.Format(c.App.Writer, rows)
}
