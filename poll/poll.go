// Package poll drives a polled component at a fixed interval.
package poll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mklimuk/transducer/pressure"
)

// Component is set up once and then updated on every tick. Update must not
// block.
type Component interface {
	Setup(ctx context.Context) error
	Update(ctx context.Context) (pressure.Status, error)
}

// Run sets the component up and updates it on every tick until ctx is done.
// A setup failure is returned, update errors are only logged. Cancellation
// is not an error.
func Run(ctx context.Context, c Component, interval time.Duration, logger *slog.Logger) error {
	if interval <= 0 {
		return fmt.Errorf("poll: invalid interval %s", interval)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := c.Setup(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return fmt.Errorf("poll: setup failed: %w", err)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Debug("polling stopped")
			return nil
		case <-ticker.C:
			status, err := c.Update(ctx)
			if errors.Is(err, pressure.ErrFailed) {
				return err
			}
			if err != nil {
				logger.Warn("update failed", "status", status.String(), "error", err)
			}
		}
	}
}
