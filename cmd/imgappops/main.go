package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	_ "github.com/yaegashi/imgappops/adapters/drivers/provider/aca"
	"github.com/yaegashi/imgappops/internal/logging"
)

// logRetentionDays is how long auto-generated log files are kept.
const logRetentionDays = 7

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "imgappops",
		Short:   "ImgAppOps CLI",
		Long:    "ImgAppOps CLI - deploy the image generation chat app to Azure Container Apps",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help by default when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("log-format", "human", "Log format (human|text|json) (env IMGAPPOPS_LOG_FORMAT)")
	cmd.PersistentFlags().String("log-level", "INFO", "Log level (DEBUG|INFO|WARN|ERROR) (env IMGAPPOPS_LOG_LEVEL)")
	cmd.PersistentFlags().String("log-output", "-", "Log output (- for stderr, none, auto, or a path) (env IMGAPPOPS_LOG_OUTPUT)")

	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		format, _ := c.Flags().GetString("log-format")
		if env := os.Getenv("IMGAPPOPS_LOG_FORMAT"); env != "" { // env overrides flag
			format = env
		}
		level, _ := c.Flags().GetString("log-level")
		if env := os.Getenv("IMGAPPOPS_LOG_LEVEL"); env != "" {
			level = env
		}
		output, _ := c.Flags().GetString("log-output")
		if env := os.Getenv("IMGAPPOPS_LOG_OUTPUT"); env != "" {
			output = env
		}

		logDir := os.Getenv("IMGAPPOPS_LOG_DIR")
		if logDir == "" {
			logDir = "logs"
		}
		lf, err := logging.NewLogFile(&logging.LogConfig{
			Format:        format,
			Level:         level,
			Output:        output,
			Dir:           logDir,
			RetentionDays: logRetentionDays,
		})
		if err != nil {
			return err
		}

		l, err := logging.NewWithWriter(format, logging.ParseLevel(level), lf.Writer())
		if err != nil {
			lf.Close()
			return err
		}
		ctx := logging.WithLogger(c.Context(), l)
		c.SetContext(ctx)
		cobra.OnFinalize(func() { _ = lf.Close() })
		return nil
	}

	// Add subcommands
	cmd.AddCommand(newCmdVersion())
	cmd.AddCommand(newCmdDeploy())
	cmd.AddCommand(newCmdStatus())
	cmd.AddCommand(newCmdLogs())
	return cmd
}

func main() {
	root := newRootCmd()
	root.SetContext(context.Background())
	executed, err := root.ExecuteC()
	if err != nil {
		ctx := root.Context()
		if executed != nil {
			ctx = executed.Context()
		}
		logging.FromContext(ctx).Errorf(ctx, "Failed: %s", err)
		os.Exit(1)
	}
}
