package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/boopmesh/internal/client"
	"github.com/yndnr/boopmesh/internal/cli/output"
)

// BoopEvent is one line of listen output.
type BoopEvent struct {
	From string    `json:"from" yaml:"from"`
	At   time.Time `json:"at" yaml:"at"`
}

// ListenCommand returns the listen command.
func ListenCommand() *cli.Command {
	return &cli.Command{
		Name:  "listen",
		Usage: "Stay online and print incoming boops until interrupted",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "keepalive",
				Usage: "interval between PINGs; must be below the server's idle timeout",
				Value: 10 * time.Second,
			},
		},
		Action: listenAction,
	}
}

func listenAction(c *cli.Context) error {
	keepalive := c.Duration("keepalive")
	if keepalive <= 0 {
		return fmt.Errorf("listen: --keepalive must be positive")
	}

	cl, flags, err := dial(c, true)
	if err != nil {
		return err
	}

	printer := eventPrinter(c, flags)
	ticker := time.NewTicker(keepalive)
	defer ticker.Stop()

	for {
		select {
		case <-c.Context.Done():
			return hangUp(context.Background(), cl, flags.Timeout, true)

		case ev, ok := <-cl.Events():
			if !ok {
				<-cl.Done()
				if err := cl.Err(); err != nil && !errors.Is(err, client.ErrClosed) {
					return err
				}
				return client.ErrClosed
			}
			if ev.Kind == client.EventNotAvailable {
				return client.ErrNotAvailable
			}
			if err := printer(BoopEvent{From: ev.From, At: ev.At}); err != nil {
				cl.Close()
				return err
			}

		case <-ticker.C:
			ctx, cancel := withTimeout(c, flags)
			_, err := cl.Ping(ctx)
			cancel()
			if err != nil {
				if c.Context.Err() != nil {
					return hangUp(context.Background(), cl, flags.Timeout, true)
				}
				cl.Close()
				return fmt.Errorf("keepalive: %w", err)
			}
		}
	}
}

// eventPrinter writes one event per line in the selected format.
func eventPrinter(c *cli.Context, flags *GlobalFlags) func(BoopEvent) error {
	w := c.App.Writer
	switch flags.Output {
	case output.FormatJSON:
		f := &output.JSONFormatter{Compact: true}
		return func(ev BoopEvent) error { return f.Format(w, ev) }
	case output.FormatYAML:
		f := &output.YAMLFormatter{}
		return func(ev BoopEvent) error {
			if _, err := fmt.Fprintln(w, "---"); err != nil {
				return err
			}
			return f.Format(w, ev)
		}
	default:
		return func(ev BoopEvent) error {
			_, err := fmt.Fprintf(w, "%s  BOOP from %s\n", ev.At.Format(time.TimeOnly), ev.From)
			return err
		}
	}
}

func withTimeout(c *cli.Context, flags *GlobalFlags) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Context, flags.Timeout)
}
