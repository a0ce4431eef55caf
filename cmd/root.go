package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"testplanner/internal/app"
	"testplanner/internal/cli"

	"github.com/spf13/cobra"
)

// version is injected from main at build time.
var version = "dev"

// rootCmd represents the base command for the testplanner application.
var rootCmd = newRootCmd()

// newRootCmd builds the full command tree with its own flag set.
func newRootCmd() *cobra.Command {
	flags := &cli.CommandFlags{}

	root := &cobra.Command{
		Use:   "testplanner",
		Short: "Discover, plan and run integration platform tests",
		Long: `testplanner builds test plans for integration platform components.

A plan starts from component ids, names or folders, optionally walks their
dependency graph, and attaches the tests registered for each component through
mappings. Executing a plan runs those tests on the platform with bounded
concurrency and records every outcome.

Run 'testplanner serve' to expose the HTTP API and MCP tools, or use the plan,
mapping, creds and results commands directly against the local data store.`,
		// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
		SilenceUsage: true,
		Version:      version,
	}
	root.SetVersionTemplate(`{{printf "testplanner version %s\n" .Version}}`)

	cli.RegisterCommonFlags(root, flags)

	root.AddCommand(newVersionCmd())
	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newPlanCmd(flags))
	root.AddCommand(newMappingCmd(flags))
	root.AddCommand(newCredsCmd(flags))
	root.AddCommand(newResultsCmd(flags))
	return root
}

// SetVersion sets the version for the root command.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return version
}

// Execute is the main entry point for the CLI application.
// SIGINT and SIGTERM cancel the command context, which cancels any running
// discovery or execution before the process exits.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if code := cli.ExitCode(err); code != cli.ExitOK {
		os.Exit(code)
	}
}

// commandFunc is the body of a command that works on the local services.
type commandFunc func(ctx context.Context, application *app.Application, printer *cli.Printer) error

// runWithApp bootstraps the application for one command, runs fn and then
// drains or cancels whatever background work fn left behind.
func runWithApp(cmd *cobra.Command, flags *cli.CommandFlags, fn commandFunc) error {
	printer, err := flags.Printer(cmd)
	if err != nil {
		return err
	}

	cfg := app.NewConfig(flags.Debug, !flags.Debug, flags.ConfigPath)
	cfg.Version = version
	application, err := app.NewApplication(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	runErr := fn(ctx, application, printer)

	if err := application.Shutdown(ctx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// waitForTasks blocks until the background work started by the command is done.
func waitForTasks(ctx context.Context, cmd *cobra.Command, flags *cli.CommandFlags, application *app.Application, message string) error {
	quiet := flags.Quiet || flags.OutputFormat != string(cli.OutputFormatTable)
	return cli.WaitWithSpinner(ctx, application.Services().TestPlans.Tasks(), cmd.ErrOrStderr(), message, quiet)
}

// requireFlag returns a usage error when a required flag value is empty.
func requireFlag(name, value string) error {
	if value == "" {
		return cli.NewUsageError(fmt.Sprintf("--%s is required", name))
	}
	return nil
}
