package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shandysiswandi/gocrm/internal/pkg/clock"
	"github.com/shandysiswandi/gocrm/internal/pkg/config"
	"github.com/shandysiswandi/gocrm/internal/pkg/jwt"
	"github.com/shandysiswandi/gocrm/internal/pkg/uid"
	"github.com/urfave/cli/v3"
)

var errUserIDRequired = errors.New("--user-id must be positive")

func tokenCmd() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Issue an access token signed with the service secret",
		Description: `Useful for smoke tests and service accounts. The role must match one of the
authorization roles (viewer, sales, manager, admin).

  crmctl token --user-id 1 --email ops@crm.local --role admin`,
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "user-id", Required: true, Usage: "Subject user id"},
			&cli.StringFlag{Name: "email", Usage: "Subject email"},
			&cli.StringFlag{Name: "role", Value: "viewer", Usage: "Authorization role"},
			&cli.DurationFlag{Name: "ttl", Usage: "Token lifetime, defaults to jwt.ttl_minutes"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer cfg.Close()

			token, err := issueToken(cfg, jwt.Subject{
				UserID: cmd.Int64("user-id"),
				Email:  cmd.String("email"),
				Role:   cmd.String("role"),
			}, cmd.Duration("ttl"))
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.Root().Writer, token)
			return err
		},
	}
}

func issueToken(cfg config.Config, sub jwt.Subject, ttl time.Duration) (string, error) {
	if sub.UserID <= 0 {
		return "", errUserIDRequired
	}
	if ttl <= 0 {
		ttl = cfg.GetMinute("jwt.ttl_minutes")
	}

	j, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(cfg.GetString("jwt.secret")),
		Issuer:    cfg.GetString("jwt.issuer"),
		Audiences: cfg.GetArray("jwt.audiences"),
		TTL:       ttl,
		Clock:     clock.New(),
		UUID:      uid.NewUUID(),
	})
	if err != nil {
		return "", err
	}

	return j.Generate(sub)
}
