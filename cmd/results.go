package cmd

import (
	"context"
	"strings"

	"testplanner/internal/api"
	"testplanner/internal/app"
	"testplanner/internal/cli"
	pkgstrings "testplanner/pkg/strings"

	"github.com/spf13/cobra"
)

func newResultsCmd(flags *cli.CommandFlags) *cobra.Command {
	var (
		filter api.ResultFilter
		status string
	)

	cmd := &cobra.Command{
		Use:   "results",
		Short: "Query recorded test execution results",
		Long: `Lists test execution results matching every given filter. At least one
filter is required; a query without filters returns nothing.`,
		Example: `  testplanner results --plan-id 6f1c... --status FAILURE
  testplanner results --test-component-id 9f8e -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter.Status = api.ExecutionStatus(strings.ToUpper(status))
			if filter.IsEmpty() {
				return cli.NewUsageError("set at least one of --plan-id, --component-id, --test-component-id, --status")
			}

			return runWithApp(cmd, flags, func(ctx context.Context, application *app.Application, printer *cli.Printer) error {
				results, err := application.Services().TestPlans.GetResults(ctx, filter)
				if err != nil {
					return err
				}
				return printer.Print(results, func(t *cli.Table) {
					t.Empty = "No results found"
					t.Header("PLAN", "COMPONENT", "TEST", "STATUS", "EXECUTED", "MESSAGE")
					for _, r := range results {
						t.Row(
							pkgstrings.Truncate(cli.OrDash(r.TestPlanName), 24),
							pkgstrings.Truncate(cli.OrDash(r.ComponentName), 30),
							pkgstrings.Truncate(cli.OrDash(r.TestComponentName), 30),
							cli.FormatStatus(string(r.Status)),
							cli.FormatTime(r.ExecutedAt),
							pkgstrings.Truncate(cli.OrDash(r.Message), 60),
						)
					}
				})
			})
		},
	}

	cmd.Flags().StringVar(&filter.TestPlanID, "plan-id", "", "Test plan id")
	cmd.Flags().StringVar(&filter.ComponentID, "component-id", "", "Component id the tests ran for")
	cmd.Flags().StringVar(&filter.TestComponentID, "test-component-id", "", "Test component id")
	cmd.Flags().StringVar(&status, "status", "", "SUCCESS or FAILURE")
	return cmd
}
