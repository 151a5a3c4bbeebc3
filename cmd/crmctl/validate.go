package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shandysiswandi/gocrm/internal/account/entity"
	"github.com/shandysiswandi/gocrm/internal/pkg/fieldrule"
	"github.com/urfave/cli/v3"
)

var (
	errRecordInvalid   = errors.New("record is invalid")
	errRecordNotObject = errors.New("record must be a JSON object")
)

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check an account record against the field rules",
		ArgsUsage: "[FILE]",
		Description: `Reads one JSON object from FILE, or stdin when FILE is "-" or missing, and
prints every violation in rule order. The exit status is non-zero when the
record is invalid.

  crmctl validate account.json
  echo '{"AccountName":"Acme","email":"sales@acme.com"}' | crmctl validate`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "rules",
				Usage: "Print the rule set as JSON instead of validating",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			out := cmd.Root().Writer

			if cmd.Bool("rules") {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entity.AccountRules)
			}

			in := cmd.Root().Reader
			if name := cmd.Args().First(); name != "" && name != "-" {
				f, err := os.Open(name) //nolint:gosec // operator supplied path
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			return validateRecord(in, out)
		},
	}
}

func validateRecord(in io.Reader, out io.Writer) error {
	dec := json.NewDecoder(in)
	dec.UseNumber()

	var rec fieldrule.Record
	if err := dec.Decode(&rec); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if rec == nil {
		return errRecordNotObject
	}

	violations, err := entity.AccountRules.Validate(rec)
	if err != nil {
		return err
	}

	if len(violations) == 0 {
		_, err := fmt.Fprintln(out, "record is valid")
		return err
	}

	for _, fe := range violations {
		if _, err := fmt.Fprintf(out, "%s: %s\n", fe.Field, fe.Message); err != nil {
			return err
		}
	}
	return errRecordInvalid
}
