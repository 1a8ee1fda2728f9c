// Package main provides the tricipher-cli command line interface.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	tricipher "github.com/BackendStack21/tricipher-go"
	"github.com/BackendStack21/tricipher-go/internal/config"
)

const appName = "tricipher-cli"

// app carries the dependencies shared by every command.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	in     io.Reader
	out    io.Writer
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFormat == config.FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func newCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:    appName,
		Usage:   "Composite substitution / Hill / transposition cipher",
		Version: tricipher.Version,
		Reader:  a.in,
		Writer:  a.out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (text or json); overrides TRICIPHER_OUTPUT_FORMAT",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if f := cmd.String("format"); f != "" {
				a.cfg.OutputFormat = f
				if err := a.cfg.Validate(); err != nil {
					return ctx, fmt.Errorf("invalid --format: %w", err)
				}
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			keygenCommand(a),
			encodeCommand(a),
			decodeCommand(a),
			keyCommand(a),
			interactiveCommand(a),
			versionCommand(a),
		},
	}
}

func versionCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the library version",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return a.print(map[string]string{"version": tricipher.Version}, func(p *printer) {
				p.line("%s %s", appName, tricipher.Version)
			})
		},
	}
}

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}
	a := &app{
		cfg:    cfg,
		logger: newLogger(cfg, os.Stderr),
		in:     os.Stdin,
		out:    os.Stdout,
	}

	if err := newCommand(a).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
