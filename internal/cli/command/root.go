package command

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/miniredis-go/internal/cli/connection"
	"github.com/yndnr/miniredis-go/internal/cli/output"
	"github.com/yndnr/miniredis-go/internal/cli/repl"
	"github.com/yndnr/miniredis-go/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:      "miniredis-cli",
		Usage:     "Send commands to a miniredis server",
		UsageText: "miniredis-cli [global options] [command [args...]]",
		Version:   buildinfo.String(),
		Flags:     globalFlags(),
		Action:    run,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "addr",
			Aliases: []string{"a"},
			Usage:   "miniredis server address",
			EnvVars: []string{"MINIREDIS_ADDR"},
			Value:   connection.DefaultAddr,
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Aliases: []string{"t"},
			Usage:   "dial and request timeout",
			Value:   connection.DefaultTimeout,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: text, raw, json, yaml",
			Value:   string(output.FormatText),
		},
		&cli.BoolFlag{
			Name:  "raw",
			Usage: "shorthand for --output raw",
		},
		&cli.StringFlag{
			Name:    "history-file",
			Usage:   "REPL history file (default ~/.miniredis_history)",
			EnvVars: []string{"MINIREDIS_HISTFILE"},
		},
	}
}

// Options are the resolved settings for one invocation.
type Options struct {
	Addr        string
	Format      output.Format
	HistoryFile string
}

// parseOptions validates the global flags.
func parseOptions(c *cli.Context) (*Options, error) {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return nil, err
	}
	if c.Bool("raw") {
		format = output.FormatRaw
	}
	return &Options{
		Addr:        c.String("addr"),
		Format:      format,
		HistoryFile: c.String("history-file"),
	}, nil
}

func run(c *cli.Context) error {
	opts, err := parseOptions(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}

	client := connection.NewClient(opts.Addr, c.Duration("timeout"))
	if err := client.Connect(ctx); err != nil {
		return cli.Exit(fmt.Sprintf("could not connect to miniredis at %s: %v", opts.Addr, err), 1)
	}
	defer client.Close()

	formatter := output.NewFormatter(opts.Format)
	out := c.App.Writer
	if out == nil {
		out = os.Stdout
	}

	if c.NArg() > 0 {
		r, err := client.Do(ctx, c.Args().Slice()...)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		if err := formatter.Format(out, r); err != nil {
			return err
		}
		if r.IsError() {
			return cli.Exit("", 1)
		}
		return nil
	}

	return runREPL(ctx, c.App.Reader, out, client, formatter, opts)
}

func runREPL(ctx context.Context, in io.Reader, out io.Writer, client *connection.Client, f output.Formatter, opts *Options) error {
	if in == nil {
		in = os.Stdin
	}

	history := repl.NewHistory()
	if opts.HistoryFile != "" {
		history = repl.NewHistoryFile(opts.HistoryFile)
	}

	exec := func(ctx context.Context, args []string) error {
		// Reconnect after a transport failure dropped the connection.
		if err := client.Connect(ctx); err != nil {
			return err
		}
		r, err := client.Do(ctx, args...)
		if err != nil {
			return err
		}
		return f.Format(out, r)
	}

	r := repl.New(exec,
		repl.WithIO(in, out),
		repl.WithPrompt(opts.Addr+"> "),
		repl.WithHistory(history),
	)
	return r.Run(ctx)
}
