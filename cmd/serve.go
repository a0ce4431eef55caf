package cmd

import (
	"fmt"

	"testplanner/internal/app"
	"testplanner/internal/cli"

	"github.com/spf13/cobra"
)

// newServeCmd creates the command that runs the HTTP API and MCP endpoint.
func newServeCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the testplanner HTTP API",
		Long: `Starts the HTTP API on the configured host and port.

The REST API is served under /api/v1. Unless server.enableMCP is false in
config.yaml, the MCP streamable HTTP endpoint is mounted at /mcp so AI
assistants can create and run test plans.

Configuration is read from config.yaml in --config-path. Environment variables
such as PLATFORM_CONCURRENCY_LIMIT and TESTPLANNER_PORT override it.

On SIGINT or SIGTERM the server stops accepting requests and gives running
executions until server.shutdownTimeout to finish before cancelling them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.NewConfig(flags.Debug, false, flags.ConfigPath)
			cfg.Version = version

			application, err := app.NewApplication(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			return application.Run(cmd.Context())
		},
	}
}
