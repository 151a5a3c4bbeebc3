package main

import (
	"github.com/shandysiswandi/gocrm/internal/app"
	"github.com/shandysiswandi/gocrm/internal/pkg/config"
	"github.com/urfave/cli/v3"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:                  "crmctl",
		Usage:                 "Operate the CRM service",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the service config file",
				Sources: cli.EnvVars("CONFIG_PATH"),
			},
		},
		Commands: []*cli.Command{
			validateCmd(),
			migrateCmd(),
			tokenCmd(),
		},
	}
}

// loadConfig reads --config, or the file the service itself would load, with
// the same environment overrides.
func loadConfig(cmd *cli.Command) (*config.Viper, error) {
	path := cmd.String("config")
	if path == "" {
		path = app.ConfigPath()
	}
	return config.NewViper(path, config.WithEnvPrefix(app.EnvPrefix))
}
