package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/transducer/cmd/transducer/console"
	"github.com/mklimuk/transducer/pressure"
)

var modelsCmd = cli.Command{
	Name:  "models",
	Usage: "list supported part numbers and their calibration ranges",
	Action: func(c *cli.Context) error {
		w := tabwriter.NewWriter(os.Stdout, 18, 0, 1, ' ', 0)
		_, _ = fmt.Fprintf(w, "PART\tMIN (mbar)\tMAX (mbar)\tSPAN\n")
		for _, m := range pressure.Models() {
			rng, _ := pressure.Lookup(m)
			span := fmt.Sprintf("%g", rng.Span())
			if rng.Validate() != nil {
				span = console.Red("invalid")
			}
			_, _ = fmt.Fprintf(w, "%s\t%g\t%g\t%s\n", m, rng.Min, rng.Max, span)
		}
		return w.Flush()
	},
}
