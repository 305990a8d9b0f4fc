package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/taskadmin-go/internal/cli/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "CLI configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration",
				Action: configShow,
			},
			{
				Name:      "get",
				Usage:     "Print one configuration value",
				ArgsUsage: "<key>",
				Action:    configGet,
			},
			{
				Name:      "set",
				Usage:     "Change a value in the config file",
				ArgsUsage: "<key> <value>",
				Action:    configSet,
			},
			{
				Name:   "path",
				Usage:  "Print the config file path",
				Action: configPath,
			},
		},
	}
}

func configValues(cfg *config.CLIConfig) map[string]string {
	out := make(map[string]string)
	for _, key := range config.Keys() {
		v, _ := config.Get(cfg, key)
		out[key] = v
	}
	return out
}

func configShow(c *cli.Context) error {
	env, err := GetEnv(c)
	if err != nil {
		return err
	}
	f, _, err := formatter(c, env)
	if err != nil {
		return err
	}
	return f.Format(c.App.Writer, configValues(env.Config))
}

func configGet(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: config get <key>")
	}
	env, err := GetEnv(c)
	if err != nil {
		return err
	}
	v, err := config.Get(env.Config, c.Args().First())
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, v)
	return nil
}

func configSet(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: config set <key> <value>")
	}
	env, err := GetEnv(c)
	if err != nil {
		return err
	}
	key, value := c.Args().Get(0), c.Args().Get(1)

	stored, err := config.LoadFile(env.ConfigPath)
	if err != nil {
		return err
	}
	if err := config.Set(stored, key, value); err != nil {
		return err
	}
	if err := config.Save(stored, env.ConfigPath); err != nil {
		return err
	}

	// Later commands in a shell see the new value unless a flag or the
	// environment overrides it.
	_ = config.Set(env.Config, key, value)

	fmt.Fprintf(c.App.Writer, "Set %s = %s\n", key, value)
	return nil
}

func configPath(c *cli.Context) error {
	env, err := GetEnv(c)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, env.ConfigPath)
	return nil
}
