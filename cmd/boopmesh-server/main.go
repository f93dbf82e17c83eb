package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/boopmesh/internal/infra/buildinfo"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "boopmesh-server",
		Usage:     "Presence-aware boop relay",
		Version:   buildinfo.String(),
		ArgsUsage: "[clients_file] [addr]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to a YAML configuration file",
				EnvVars: []string{"BOOPMESH_CONFIG"},
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "log at debug level",
			},
			&cli.StringFlag{
				Name:    "cert",
				Aliases: []string{"c"},
				Usage:   "PEM certificate for the boop listener",
			},
			&cli.StringFlag{
				Name:    "key",
				Aliases: []string{"k"},
				Usage:   "PEM private key for the boop listener",
			},
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "serve plain TCP without TLS",
			},
		},
		Action: serveAction,
		Commands: []*cli.Command{
			hashCommand(),
			gencertCommand(),
		},
	}
}

// flagOverrides maps flags and positional arguments onto config keys.
// Only flags the user actually set are returned, so that file and
// environment values survive.
func flagOverrides(c *cli.Context) (map[string]any, error) {
	if c.NArg() > 2 {
		return nil, fmt.Errorf("too many arguments: want at most [clients_file] [addr]")
	}

	o := map[string]any{}
	if c.Bool("debug") {
		o["log.level"] = "debug"
	}
	if c.IsSet("cert") {
		o["server.boop.tls_cert_file"] = c.String("cert")
	}
	if c.IsSet("key") {
		o["server.boop.tls_key_file"] = c.String("key")
	}
	if c.IsSet("plain") {
		o["server.boop.plain"] = c.Bool("plain")
	}
	if f := c.Args().Get(0); f != "" {
		o["credentials.file"] = f
	}
	if addr := c.Args().Get(1); addr != "" {
		o["server.boop.addr"] = addr
	}
	return o, nil
}
