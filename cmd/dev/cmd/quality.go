package cmd

import (
	"fmt"

	"github.com/gophertribe/devtool/test"
	"github.com/spf13/cobra"
)

// qualityCmd wraps one of the devtool checks run against the transducer module.
func qualityCmd(use, short, what string, check func() error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := check(); err != nil {
				return fmt.Errorf("%s failed: %w", what, err)
			}
			return nil
		},
	}
}

func TestCmd() *cobra.Command {
	return qualityCmd("test", "Run driver, sink and CLI unit tests", "unit tests", test.Test)
}

func LintCmd() *cobra.Command {
	return qualityCmd("lint", "Lint the transducer module", "lint", test.Lint)
}

// IntegrationTestCmd runs the tests that need a real adapter on the USB bus.
func IntegrationTestCmd() *cobra.Command {
	return qualityCmd("integration-test", "Run tests against attached hardware", "integration tests", test.Integ)
}
