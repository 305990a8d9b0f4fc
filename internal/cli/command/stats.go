package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/taskadmin-go/internal/cli/output"
	"github.com/yndnr/taskadmin-go/internal/cli/view"
	"github.com/yndnr/taskadmin-go/internal/core/domain"
)

// StatsCommand returns the stats command.
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show task statistics",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "width",
				Usage: "Chart width in cells",
				Value: output.DefaultChartWidth,
			},
		},
		Action: stats,
	}
}

type statsReport struct {
	Total    int                       `json:"total"`
	ByStatus *domain.TaskStatsByStatus `json:"by_status"`
	ByType   domain.TaskStatsByType    `json:"by_type"`
}

func stats(c *cli.Context) error {
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
	v := view.NewStatistics(client)
	defer v.Dispose()

	spinner := startSpinner(c, "Loading statistics...")
	err = v.Mount(ctx)
	stopSpinner(spinner)
	if err != nil {
		return err
	}

	f, format, err := formatter(c, env)
	if err != nil {
		return err
	}
	if format != output.FormatTable {
		return f.Format(c.App.Writer, statsReport{
			Total:    v.Total(),
			ByStatus: v.ByStatus(),
			ByType:   v.ByType(),
		})
	}

	fmt.Fprintf(c.App.Writer, "Total tasks: %d\n\n", v.Total())
	charts := []*output.Chart{
		{Title: "Tasks by status", Bars: chartBars(v.StatusBars()), Width: c.Int("width")},
		{Title: "Tasks by type", Bars: chartBars(v.TypeBars()), Width: c.Int("width")},
	}
	for i, chart := range charts {
		if i > 0 {
			fmt.Fprintln(c.App.Writer)
		}
		if err := chart.Render(c.App.Writer); err != nil {
			return err
		}
	}
	return nil
}

func chartBars(bars []view.Bar) []output.ChartBar {
	out := make([]output.ChartBar, len(bars))
	for i, b := range bars {
		out[i] = output.ChartBar{Label: b.Label, Count: b.Count, Percent: b.Percent}
	}
	return out
}
