package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yaegashi/imgappops/usecase/deployment"
)

// newCmdDeploy provisions every Azure resource the app needs, builds and
// pushes the container image, and prints the public endpoint.
func newCmdDeploy() *cobra.Command {
	var flags configFlags

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Provision Azure resources, build the image, and deploy the app",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := flags.build(cmd)
			if err != nil {
				return err
			}

			ctx, cleanup := withCmdRunLogger(cmd.Context(), "deploy", cfg.ResourceGroup)
			defer func() { cleanup(err) }()

			u, err := newUseCase(cfg)
			if err != nil {
				return err
			}

			out, err := u.Deploy(ctx, &deployment.DeployInput{Deployment: cfg.Deployment()})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Image:    %s\n", out.Image)
			fmt.Fprintf(cmd.OutOrStdout(), "Registry: %s\n", out.Registry)
			fmt.Fprintf(cmd.OutOrStdout(), "Deployment complete. Your app is available at:\n")
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", out.Endpoint)
			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}
