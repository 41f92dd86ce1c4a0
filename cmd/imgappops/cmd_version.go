package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newCmdVersion returns a command that prints the application version.
func newCmdVersion() *cobra.Command {
	var long bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			// Keep output minimal and script-friendly
			if long {
				fmt.Fprintf(cmd.OutOrStdout(), "imgappops version %s commit %s built %s\n", version, commit, date)
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imgappops version %s\n", version)
		},
	}
	cmd.Flags().BoolVar(&long, "long", false, "Include commit hash and build date")
	return cmd
}
