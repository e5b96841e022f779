package main

import (
	"context"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/transducer/adapter"
	"github.com/mklimuk/transducer/cmd/transducer/console"
	"github.com/mklimuk/transducer/snsctx"
)

var mcp2221Cmd = cli.Command{
	Name:  "mcp2221",
	Usage: "MCP2221 bridge maintenance",
	Subcommands: cli.Commands{
		&mcp2221StatusCmd,
		&mcp2221ReleaseCmd,
	},
}

var indexFlag = &cli.StringFlag{
	Name:    "index",
	Aliases: []string{"i"},
	Usage:   "adapter index as listed by usb detect",
}

func newMCP2221(c *cli.Context) (*adapter.MCP2221, error) {
	if c.String("index") == "" {
		return adapter.NewMCP2221(), nil
	}
	id, err := strconv.Atoi(c.String("index"))
	if err != nil {
		return nil, err
	}
	return adapter.NewMCP2221(id), nil
}

var mcp2221StatusCmd = cli.Command{
	Name:  "status",
	Flags: []cli.Flag{indexFlag},
	Action: func(c *cli.Context) error {
		a, err := newMCP2221(c)
		if err != nil {
			return console.Exit(1, "invalid index: %s", console.Red(err))
		}
		ctx := snsctx.SetVerbose(context.Background(), c.Bool("verbose"))
		status, err := a.Status(ctx)
		if err != nil {
			return console.Exit(1, "adapter communication error: %s", console.Red(err))
		}
		return encodeStatus(status)
	},
}

var mcp2221ReleaseCmd = cli.Command{
	Name:  "release",
	Usage: "cancel the current transfer and free the bus",
	Flags: []cli.Flag{
		indexFlag,
		&cli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "do not ask for confirmation",
		},
	},
	Action: func(c *cli.Context) error {
		if !c.Bool("yes") {
			answer, err := console.YesOrNo("cancel the current I2C transfer?")
			if err != nil {
				return console.Exit(1, "prompt error: %s", console.Red(err))
			}
			if answer != console.Yes {
				console.PInfof(console.PictoStop, "aborted")
				return nil
			}
		}
		a, err := newMCP2221(c)
		if err != nil {
			return console.Exit(1, "invalid index: %s", console.Red(err))
		}
		ctx := snsctx.SetVerbose(context.Background(), c.Bool("verbose"))
		status, err := a.ReleaseBus(ctx)
		if err != nil {
			return console.Exit(1, "adapter communication error: %s", console.Red(err))
		}
		return encodeStatus(status)
	},
}

func encodeStatus(status *adapter.MCP2221Status) error {
	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	if err := enc.Encode(status); err != nil {
		return console.Exit(1, "encoding error: %s", console.Red(err))
	}
	return nil
}
