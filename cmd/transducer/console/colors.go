package console

import "github.com/fatih/color"

// Red marks errors, White highlights values and Yellow flags warnings.
var (
	Red    = color.New(color.FgRed).SprintFunc()
	White  = color.New(color.FgHiWhite).SprintFunc()
	Yellow = color.New(color.FgYellow).SprintFunc()
)
