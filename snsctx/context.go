// Package snsctx carries per-call transport flags through a context.
package snsctx

import "context"

type key int

const verboseKey key = iota

// IsVerbose reports whether transports should dump raw traffic.
func IsVerbose(ctx context.Context) bool {
	verbose, _ := ctx.Value(verboseKey).(bool)
	return verbose
}

// SetVerbose enables or disables traffic dumps for calls made with the
// returned context.
func SetVerbose(ctx context.Context, verbose bool) context.Context {
	return context.WithValue(ctx, verboseKey, verbose)
}
