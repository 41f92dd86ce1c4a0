package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/yaegashi/imgappops/usecase/deployment"
)

// newCmdStatus reports the observed state of each provisioned resource.
func newCmdStatus() *cobra.Command {
	var flags configFlags

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the state of the deployed Azure resources",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := flags.build(cmd)
			if err != nil {
				return err
			}

			ctx, cleanup := withCmdRunLogger(cmd.Context(), "status", cfg.ResourceGroup)
			defer func() { cleanup(err) }()

			u, err := newUseCase(cfg)
			if err != nil {
				return err
			}

			out, err := u.Status(ctx, &deployment.StatusInput{Deployment: cfg.Deployment()})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "RESOURCE\tNAME\tSTATE")
			for _, r := range out.Resources {
				state := "absent"
				if r.Present {
					state = "present"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.Kind, r.Name, state)
			}
			w.Flush()
			if out.Endpoint != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Endpoint: %s\n", out.Endpoint)
			}
			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}
