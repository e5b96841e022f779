package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

// smokeArgs runs a one-shot read against the simulated bus.
func smokeArgs(model string, oversampling bool) []string {
	args := []string{"read", "--adapter", "sim", "--model", model}
	if oversampling {
		args = append(args, "--oversampling")
	}
	return args
}

func SmokeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Read from a simulated sensor with the built cli",
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := cmd.Flags().GetString("model")
			if err != nil {
				return fmt.Errorf("could not get model flag: %w", err)
			}
			oversampling, err := cmd.Flags().GetBool("oversampling")
			if err != nil {
				return fmt.Errorf("could not get oversampling flag: %w", err)
			}
			if _, err := os.Stat(binaryPath); err != nil {
				return fmt.Errorf("%s not found, run dev build first: %w", binaryPath, err)
			}
			run := exec.CommandContext(cmd.Context(), binaryPath, smokeArgs(model, oversampling)...)
			run.Stdout = os.Stdout
			run.Stderr = os.Stderr
			slog.Info("running smoke read", "model", model, "oversampling", oversampling)
			if err := run.Run(); err != nil {
				return fmt.Errorf("smoke read failed: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().String("model", "AMS5935-1000-A", "part number to simulate")
	cmd.Flags().Bool("oversampling", false, "use the oversampled measurement command")
	return cmd
}
