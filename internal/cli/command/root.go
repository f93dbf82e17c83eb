package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/boopmesh/internal/client"
	"github.com/yndnr/boopmesh/internal/cli/output"
	"github.com/yndnr/boopmesh/internal/infra/buildinfo"
	"github.com/yndnr/boopmesh/internal/infra/tlsroots"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "boopmesh-cli",
		Usage:   "Boop other people on a boopmesh server",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			PingCommand(),
			BoopCommand(),
			AytCommand(),
			ListenCommand(),
		},
		Before: func(c *cli.Context) error {
			_, err := output.ParseFormat(c.String("output"))
			return err
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "boopmesh server address",
			EnvVars: []string{"BOOPMESH_SERVER"},
			Value:   "localhost:5274",
		},
		&cli.StringFlag{
			Name:    "key",
			Aliases: []string{"k"},
			Usage:   "identity key to authenticate as",
			EnvVars: []string{"BOOPMESH_KEY"},
		},
		&cli.StringFlag{
			Name:    "password",
			Aliases: []string{"p"},
			Usage:   "password for --key",
			EnvVars: []string{"BOOPMESH_PASSWORD"},
		},
		&cli.StringFlag{
			Name:  "ca-file",
			Usage: "PEM file with extra CA certificates to trust",
		},
		&cli.StringFlag{
			Name:  "server-name",
			Usage: "override the TLS server name",
		},
		&cli.BoolFlag{
			Name:  "insecure",
			Usage: "skip TLS certificate verification",
		},
		&cli.BoolFlag{
			Name:  "plain",
			Usage: "connect without TLS",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "timeout for dialing and each request",
			Value: 10 * time.Second,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: table, json, yaml",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "log protocol details to stderr",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Server   string
	Key      string
	Password string

	CAFile     string
	ServerName string
	Insecure   bool
	Plain      bool

	Timeout time.Duration
	Output  output.Format
	Verbose bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	format, _ := output.ParseFormat(c.String("output"))
	return &GlobalFlags{
		Server:     c.String("server"),
		Key:        c.String("key"),
		Password:   c.String("password"),
		CAFile:     c.String("ca-file"),
		ServerName: c.String("server-name"),
		Insecure:   c.Bool("insecure"),
		Plain:      c.Bool("plain"),
		Timeout:    c.Duration("timeout"),
		Output:     format,
		Verbose:    c.Bool("verbose"),
	}
}

var errNoCredentials = errors.New("--key and --password are required")

// dial connects to --server and, when auth is set, authenticates.
func dial(c *cli.Context, auth bool) (*client.Client, *GlobalFlags, error) {
	flags := ParseGlobalFlags(c)
	if auth && (flags.Key == "" || flags.Password == "") {
		return nil, nil, errNoCredentials
	}

	opts := client.Options{
		Addr:        flags.Server,
		DialTimeout: flags.Timeout,
		Logger:      cliLogger(flags.Verbose),
	}
	if !flags.Plain {
		tlsCfg, err := tlsroots.ClientConfig(tlsroots.ClientOptions{
			CAFile:     flags.CAFile,
			ServerName: flags.ServerName,
			Insecure:   flags.Insecure,
		})
		if err != nil {
			return nil, nil, err
		}
		opts.TLS = tlsCfg
	}

	ctx, cancel := context.WithTimeout(c.Context, flags.Timeout)
	defer cancel()

	cl, err := client.Dial(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	if auth {
		if err := cl.Connect(ctx, flags.Key, flags.Password); err != nil {
			cl.Close()
			return nil, nil, fmt.Errorf("authenticate as %s: %w", flags.Key, err)
		}
	}
	return cl, flags, nil
}

// hangUp ends an authenticated session with DISCONNECT; an unauthenticated
// one is simply closed since DISCONNECT is only valid after CONNECT.
func hangUp(ctx context.Context, cl *client.Client, timeout time.Duration, authed bool) error {
	if !authed {
		return cl.Close()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := cl.Disconnect(ctx); err != nil && !errors.Is(err, client.ErrClosed) {
		return err
	}
	return nil
}

func cliLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func render(c *cli.Context, flags *GlobalFlags, data any) error {
	return output.NewFormatter(flags.Output).Format(c.App.Writer, data)
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
