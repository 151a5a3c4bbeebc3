package main

import (
	"context"
	"fmt"

	"github.com/shandysiswandi/gocrm/internal/app"
	"github.com/shandysiswandi/gocrm/internal/pkg/migration"
	"github.com/urfave/cli/v3"
)

func migrateCmd() *cli.Command {
	run := func(fn func(ctx context.Context, cmd *cli.Command, m migrator) error) cli.ActionFunc {
		return func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer cfg.Close()

			pool, err := app.ConnectDatabase(ctx, cfg)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pool.Close()

			return fn(ctx, cmd, migrator{
				up:      func() error { return migration.Up(ctx, pool) },
				down:    func() error { return migration.Down(ctx, pool) },
				status:  func() error { return migration.Status(ctx, pool) },
				version: func() (int64, error) { return migration.Version(ctx, pool) },
			})
		}
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the database schema",
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply all pending migrations",
				Action: run(func(_ context.Context, cmd *cli.Command, m migrator) error {
					if err := m.up(); err != nil {
						return err
					}
					return m.printVersion(cmd)
				}),
			},
			{
				Name:  "down",
				Usage: "Roll back the most recent migration",
				Action: run(func(_ context.Context, cmd *cli.Command, m migrator) error {
					if err := m.down(); err != nil {
						return err
					}
					return m.printVersion(cmd)
				}),
			},
			{
				Name:  "status",
				Usage: "Show the state of every migration",
				Action: run(func(_ context.Context, _ *cli.Command, m migrator) error {
					return m.status()
				}),
			},
		},
	}
}

type migrator struct {
	up      func() error
	down    func() error
	status  func() error
	version func() (int64, error)
}

func (m migrator) printVersion(cmd *cli.Command) error {
	v, err := m.version()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.Root().Writer, "schema version %d\n", v)
	return err
}
