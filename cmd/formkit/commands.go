package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"formkit/internal/app"
	"formkit/internal/config"
	"formkit/internal/service"
)

const (
	formatText = "text"
	formatJSON = "json"
)

func newCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:     "formkit",
		Usage:    "Format and validate Brazilian form fields",
		Version:  "1.0.0",
		Writer:   out,
		Commands: append(getFieldCommands(out), getSystemCommands(out)...),
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   formatText,
		Usage:   "Output format: 'text' or 'json'",
	}
}

func getFieldCommands(out io.Writer) []*cli.Command {
	return []*cli.Command{
		{
			Name:      "format",
			Usage:     "Apply the input mask for cpf, cnpj, cep, phone or birthdate",
			ArgsUsage: "<kind> <value>",
			Flags: []cli.Flag{
				outputFlag(),
				&cli.BoolFlag{
					Name:  "pivot-year",
					Usage: "Expand two-digit birth years against the current year",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				kind, value, err := kindAndValue(cmd)
				if err != nil {
					return err
				}
				svc := newFieldService(cmd.Bool("pivot-year"), time.Now)
				return runFormat(out, svc, kind, value, cmd.String("format"))
			},
		},
		{
			Name:      "validate",
			Usage:     "Check an email, phone, cpf, cnpj, cep or date value",
			ArgsUsage: "<kind> <value>",
			Flags:     []cli.Flag{outputFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				kind, value, err := kindAndValue(cmd)
				if err != nil {
					return err
				}
				return runValidate(out, newFieldService(false, time.Now), kind, value, cmd.String("format"))
			},
		},
		{
			Name:      "age",
			Usage:     "Compute the age in full years for a DD/MM/YYYY birth date",
			ArgsUsage: "<birth-date>",
			Flags: []cli.Flag{
				outputFlag(),
				&cli.StringFlag{
					Name:  "today",
					Usage: "Reference date as DD/MM/YYYY instead of the current date",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				if cmd.Args().Len() != 1 {
					return fmt.Errorf("expected exactly one birth date argument")
				}
				clock, err := referenceClock(cmd.String("today"))
				if err != nil {
					return err
				}
				return runAge(out, newFieldService(false, clock), cmd.Args().First(), cmd.String("format"))
			},
		},
		{
			Name:      "field",
			Usage:     "Evaluate a value against required, length, pattern and validator rules",
			ArgsUsage: "<value>",
			Flags: []cli.Flag{
				outputFlag(),
				&cli.BoolFlag{Name: "required", Usage: "Reject empty values"},
				&cli.IntFlag{Name: "min", Usage: "Minimum length in characters"},
				&cli.IntFlag{Name: "max", Usage: "Maximum length in characters"},
				&cli.StringFlag{Name: "pattern", Usage: "Regular expression the value must match"},
				&cli.StringFlag{Name: "validator", Usage: "Built-in check: email, phone or cpf"},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				if cmd.Args().Len() > 1 {
					return fmt.Errorf("expected at most one value argument")
				}
				input := service.EvaluateFieldInput{
					Value: cmd.Args().First(),
					Rules: service.RulesInput{
						Required:  cmd.Bool("required"),
						MinLength: int(cmd.Int("min")),
						MaxLength: int(cmd.Int("max")),
						Pattern:   cmd.String("pattern"),
						Validator: cmd.String("validator"),
					},
				}
				return runField(ctx, out, newFieldService(false, time.Now), input, cmd.String("format"))
			},
		},
	}
}

func getSystemCommands(out io.Writer) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				return app.RunServer(ctx, cfg)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
				version, err := app.RunMigrations(ctx, cfg, logger)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "database at migration version %d\n", version)
				return err
			},
		},
	}
}

func newFieldService(pivotYear bool, clock func() time.Time) *service.Service {
	return service.New(nil, service.WithPivotYear(pivotYear), service.WithClock(clock))
}

func kindAndValue(cmd *cli.Command) (string, string, error) {
	if cmd.Args().Len() != 2 {
		return "", "", fmt.Errorf("expected <kind> <value>, got %d arguments", cmd.Args().Len())
	}
	return cmd.Args().Get(0), cmd.Args().Get(1), nil
}

func referenceClock(today string) (func() time.Time, error) {
	if today == "" {
		return time.Now, nil
	}
	ref, err := time.ParseInLocation("02/01/2006", today, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid --today %q: %w", today, err)
	}
	return func() time.Time { return ref }, nil
}

func runFormat(out io.Writer, svc *service.Service, kind string, value string, format string) error {
	output, err := svc.Format(kind, value)
	if err != nil {
		return err
	}
	return render(out, format, output, output.Value)
}

func runValidate(out io.Writer, svc *service.Service, kind string, value string, format string) error {
	output, err := svc.ValidateValue(kind, value)
	if err != nil {
		return err
	}
	text := "valid"
	if !output.Valid {
		text = "invalid: " + output.Message
	}
	return render(out, format, output, text)
}

func runAge(out io.Writer, svc *service.Service, birthDate string, format string) error {
	output, err := svc.Age(birthDate)
	if err != nil {
		return err
	}
	return render(out, format, output, fmt.Sprintf("%d", output.Age))
}

func runField(ctx context.Context, out io.Writer, svc *service.Service, input service.EvaluateFieldInput, format string) error {
	output, err := svc.EvaluateField(ctx, input)
	if err != nil {
		return err
	}
	text := "ok"
	if !output.Valid {
		text = output.Error
	}
	return render(out, format, output, text)
}

func render(out io.Writer, format string, value any, text string) error {
	switch format {
	case formatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(value)
	case formatText, "":
		_, err := fmt.Fprintln(out, text)
		return err
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
