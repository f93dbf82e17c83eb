package command

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/boopmesh/internal/cli/output"
)

// PingResult is the output of ping.
type PingResult struct {
	Server string        `json:"server" yaml:"server"`
	RTT    time.Duration `json:"rtt_ns" yaml:"rtt_ns"`
}

// Table implements output.Tabler.
func (r PingResult) Table() *output.Table {
	t := output.NewTable("SERVER", "RTT")
	t.AddRow(r.Server, r.RTT.Round(time.Microsecond).String())
	return t
}

// PresenceResult is one row of ayt output.
type PresenceResult struct {
	Key    string `json:"key" yaml:"key"`
	Online bool   `json:"online" yaml:"online"`
}

// PresenceList is the output of ayt.
type PresenceList []PresenceResult

// Table implements output.Tabler.
func (l PresenceList) Table() *output.Table {
	t := output.NewTable("KEY", "STATUS")
	for _, r := range l {
		status := "afk"
		if r.Online {
			status = "online"
		}
		t.AddRow(r.Key, status)
	}
	return t
}

// BoopResult is the output of boop.
type BoopResult struct {
	Sent []string `json:"sent" yaml:"sent"`
}

// Table implements output.Tabler.
func (r BoopResult) Table() *output.Table {
	t := output.NewTable("BOOPED")
	for _, k := range r.Sent {
		t.AddRow(k)
	}
	return t
}

// PingCommand returns the ping command.
func PingCommand() *cli.Command {
	return &cli.Command{
		Name:  "ping",
		Usage: "Check that the server answers (authenticates first if --key is set)",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Usage:   "number of pings",
				Value:   1,
			},
		},
		Action: pingAction,
	}
}

func pingAction(c *cli.Context) error {
	authed := c.String("key") != ""
	cl, flags, err := dial(c, authed)
	if err != nil {
		return err
	}
	defer hangUp(c.Context, cl, flags.Timeout, authed)

	for i := 0; i < c.Int("count"); i++ {
		ctx, cancel := withTimeout(c, flags)
		rtt, err := cl.Ping(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("ping: %w", err)
		}
		if err := render(c, flags, PingResult{Server: flags.Server, RTT: rtt}); err != nil {
			return err
		}
	}
	return nil
}

// BoopCommand returns the boop command.
func BoopCommand() *cli.Command {
	return &cli.Command{
		Name:      "boop",
		Usage:     "Boop one or more identity keys",
		ArgsUsage: "KEY [KEY...]",
		Action:    boopAction,
	}
}

func boopAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("boop: at least one KEY is required")
	}
	cl, flags, err := dial(c, true)
	if err != nil {
		return err
	}

	res := BoopResult{}
	for _, key := range c.Args().Slice() {
		if err := cl.Boop(key); err != nil {
			cl.Close()
			return fmt.Errorf("boop %s: %w", key, err)
		}
		res.Sent = append(res.Sent, key)
	}

	// BYE only arrives after the server has handled every boop before it.
	if err := hangUp(c.Context, cl, flags.Timeout, true); err != nil {
		return err
	}
	return render(c, flags, res)
}

// AytCommand returns the ayt command.
func AytCommand() *cli.Command {
	return &cli.Command{
		Name:      "ayt",
		Usage:     "Ask whether identity keys are online",
		ArgsUsage: "KEY [KEY...]",
		Action:    aytAction,
	}
}

func aytAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("ayt: at least one KEY is required")
	}
	cl, flags, err := dial(c, true)
	if err != nil {
		return err
	}
	defer hangUp(c.Context, cl, flags.Timeout, true)

	var list PresenceList
	for _, key := range c.Args().Slice() {
		ctx, cancel := withTimeout(c, flags)
		online, err := cl.Ayt(ctx, key)
		cancel()
		if err != nil {
			return fmt.Errorf("ayt %s: %w", key, err)
		}
		list = append(list, PresenceResult{Key: key, Online: online})
	}
	return render(c, flags, list)
}
