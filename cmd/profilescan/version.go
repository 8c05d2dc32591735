package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sydlexius/profilescan/internal/version"
)

func newVersionCommand(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Printing the version must not depend on a valid configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(*cobra.Command, []string) error {
			_, err := fmt.Fprintf(stdout, "%s %s\n", cliExecutable, version.String())
			return err
		},
	}
}
