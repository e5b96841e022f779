package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/transducer/config"
)

var busFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "adapter",
		Aliases: []string{"a"},
		Value:   config.AdapterMCP2221,
		Usage:   "i2c transport: mcp2221, generic, nanopi or sim",
	},
	&cli.StringFlag{
		Name:    "device",
		Aliases: []string{"d"},
		Usage:   "periph bus name, gobot bus number or MCP2221 index",
	},
	&cli.UintFlag{
		Name:  "address",
		Value: 0x28,
		Usage: "7-bit sensor address",
	},
	&cli.IntFlag{
		Name:  "speed",
		Usage: "i2c clock in Hz (0 keeps the current setting)",
	},
}

// busConfig overlays the bus flags on cfg.
func busConfig(c *cli.Context, cfg config.BusConfig) (config.BusConfig, error) {
	if c.IsSet("adapter") {
		cfg.Adapter = c.String("adapter")
	}
	if c.IsSet("device") {
		cfg.Device = c.String("device")
	}
	if c.IsSet("address") {
		addr := c.Uint("address")
		if addr > 0x7F {
			return cfg, fmt.Errorf("address %#x is not a 7-bit address", addr)
		}
		cfg.Address = uint8(addr)
	}
	if c.IsSet("speed") {
		cfg.SpeedHz = c.Int("speed")
	}
	return cfg, nil
}
