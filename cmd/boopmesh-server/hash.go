package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/boopmesh/internal/core/domain"
	"github.com/yndnr/boopmesh/internal/core/service"
	"github.com/yndnr/boopmesh/internal/infra/tlsroots"
)

func hashCommand() *cli.Command {
	defaults := service.DefaultArgon2Params()
	return &cli.Command{
		Name:      "hash",
		Usage:     "Print an argon2id hash for a password (read from stdin if not given)",
		ArgsUsage: "[password]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "key",
				Usage: "print a full credential record for this identity key",
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "display name for the credential record",
			},
			&cli.UintFlag{Name: "memory", Usage: "argon2 memory in KiB", Value: uint(defaults.Memory)},
			&cli.UintFlag{Name: "time", Usage: "argon2 iterations", Value: uint(defaults.Time)},
			&cli.UintFlag{Name: "threads", Usage: "argon2 parallelism", Value: uint(defaults.Threads)},
		},
		Action: hashAction,
	}
}

func hashAction(c *cli.Context) error {
	password := c.Args().First()
	if password == "" {
		var err error
		if password, err = readPassword(os.Stdin); err != nil {
			return err
		}
	}

	p := service.DefaultArgon2Params()
	p.Memory = uint32(c.Uint("memory"))
	p.Time = uint32(c.Uint("time"))
	p.Threads = uint8(c.Uint("threads"))
	if p.Memory == 0 || p.Time == 0 || p.Threads == 0 {
		return fmt.Errorf("hash: --memory, --time and --threads must be positive")
	}

	hash, err := service.HashPassword(password, p)
	if err != nil {
		return err
	}

	w := c.App.Writer
	if c.String("key") == "" {
		_, err = fmt.Fprintln(w, hash)
		return err
	}

	cred := domain.Credential{Key: c.String("key"), Name: c.String("name"), Hash: hash}
	if err := cred.Validate(); err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(cred)
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", fmt.Errorf("hash: empty password")
	}
	return line, nil
}

func gencertCommand() *cli.Command {
	return &cli.Command{
		Name:  "gencert",
		Usage: "Write a self-signed certificate and key for testing",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "cert", Value: "cert.pem", Usage: "certificate output path"},
			&cli.StringFlag{Name: "key", Value: "key.pem", Usage: "private key output path"},
			&cli.StringSliceFlag{Name: "host", Value: cli.NewStringSlice("localhost", "127.0.0.1"), Usage: "DNS names or IPs"},
			&cli.DurationFlag{Name: "valid-for", Value: 365 * 24 * time.Hour, Usage: "validity period"},
		},
		Action: func(c *cli.Context) error {
			if err := tlsroots.WriteSelfSigned(c.String("cert"), c.String("key"),
				c.StringSlice("host"), c.Duration("valid-for")); err != nil {
				return err
			}
			_, err := fmt.Fprintf(c.App.Writer, "wrote %s and %s\n", c.String("cert"), c.String("key"))
			return err
		},
	}
}
