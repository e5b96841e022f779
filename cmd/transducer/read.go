package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/transducer/cmd/transducer/console"
	"github.com/mklimuk/transducer/config"
	"github.com/mklimuk/transducer/pressure"
	"github.com/mklimuk/transducer/snsctx"
)

var readCmd = cli.Command{
	Name:    "read",
	Aliases: []string{"rd"},
	Usage:   "take a single reading",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:     "model",
			Aliases:  []string{"m"},
			Usage:    "part number, e.g. AMS5935-1000-A",
			Required: true,
		},
		&cli.BoolFlag{
			Name:  "oversampling",
			Usage: "use the four-fold oversampling command",
		},
	}, busFlags...),
	Action: func(c *cli.Context) error {
		ctx := snsctx.SetVerbose(context.Background(), c.Bool("verbose"))
		sensor := config.SensorConfig{Model: c.String("model"), Oversampling: c.Bool("oversampling")}
		model, err := sensor.ParsedModel()
		if err != nil {
			return console.Exit(1, "invalid model: %s", console.Red(err))
		}
		bc, err := busConfig(c, config.Default().Bus)
		if err != nil {
			return console.Exit(1, "invalid bus flags: %s", console.Red(err))
		}
		bus, closeBus, err := openBus(ctx, bc, model)
		if err != nil {
			return console.Exit(1, "adapter initialization error: %s", console.Red(err))
		}
		defer func() {
			if err := closeBus(); err != nil {
				console.Errorf("error closing bus: %s", console.Red(err))
			}
		}()
		s := pressure.NewAMS5935(bus, pressure.WithAddress(bc.Address), pressure.WithMode(sensor.Mode()))
		if err := s.SetModel(model); err != nil {
			return console.Exit(1, "invalid model: %s", console.Red(err))
		}
		if c.Bool("verbose") {
			s.DumpConfig()
		}
		reading, err := s.Read(ctx)
		if err != nil {
			return console.Exit(1, "error reading %s: %s", s, console.Red(err))
		}
		env := reading.Env()
		console.PInfof(console.PictoGauge, "%s (%s mbar)", console.White(env.Pressure), console.White(fmt.Sprintf("%.2f", reading.PressurePa/pressure.MbarToPa)))
		console.PInfof(console.PictoThermometer, " %s", console.White(env.Temperature))
		return nil
	},
}
