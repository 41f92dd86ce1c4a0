package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/yaegashi/imgappops/domain/model"
	"github.com/yaegashi/imgappops/usecase/deployment"
)

// newCmdLogs fetches recent app console logs from the Log Analytics workspace.
func newCmdLogs() *cobra.Command {
	var flags configFlags
	var since time.Duration
	var limit int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Fetch recent app console logs from the Log Analytics workspace",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := flags.build(cmd)
			if err != nil {
				return err
			}

			ctx, cleanup := withCmdRunLogger(cmd.Context(), "logs", cfg.ResourceGroup)
			defer func() { cleanup(err) }()

			u, err := newUseCase(cfg)
			if err != nil {
				return err
			}

			out, err := u.Logs(ctx, &deployment.LogsInput{
				Deployment: cfg.Deployment(),
				Since:      since,
				Limit:      limit,
			})
			if errors.Is(err, model.ErrNoWorkspace) {
				return fmt.Errorf("no log workspace is configured; deploy with --workspace to enable console logs")
			}
			if err != nil {
				return err
			}

			for _, e := range out.Entries {
				if e.Time.IsZero() {
					fmt.Fprintln(cmd.OutOrStdout(), e.Line)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", e.Time.Format(time.RFC3339), e.Line)
			}
			return nil
		},
	}

	flags.addFlags(cmd)
	cmd.Flags().DurationVar(&since, "since", time.Hour, "How far back to fetch log lines")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum number of log lines")
	return cmd
}
