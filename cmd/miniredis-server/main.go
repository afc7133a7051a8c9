// Package main provides the entry point for miniredis-server.
//
// miniredis-server serves an in-memory key/value store over the Redis
// serialization protocol, with an optional HTTP listener for health
// probes and Prometheus metrics.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/miniredis-go/internal/infra/buildinfo"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "miniredis-server",
		Usage:   "In-memory key/value server speaking the Redis protocol",
		Version: buildinfo.String(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to configuration file",
				EnvVars: []string{"MINIREDIS_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "RESP listen address (overrides server.redis.addr)",
			},
			&cli.StringFlag{
				Name:  "http-addr",
				Usage: "HTTP listen address for health and metrics (overrides server.http.addr)",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level: debug, info, warn, error (overrides log.level)",
			},
		},
		Action: func(c *cli.Context) error {
			overrides := map[string]any{}
			if c.IsSet("addr") {
				overrides["server.redis.addr"] = c.String("addr")
			}
			if c.IsSet("http-addr") {
				overrides["server.http.addr"] = c.String("http-addr")
			}
			if c.IsSet("log-level") {
				overrides["log.level"] = c.String("log-level")
			}

			ctx := c.Context
			if ctx == nil {
				ctx = context.Background()
			}
			return run(ctx, c.String("config"), overrides)
		},
	}
}
