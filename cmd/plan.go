package cmd

import (
	"context"
	"strconv"
	"strings"

	"testplanner/internal/api"
	"testplanner/internal/app"
	"testplanner/internal/cli"
	pkgstrings "testplanner/pkg/strings"

	"github.com/spf13/cobra"
)

func newPlanCmd(flags *cli.CommandFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "plan",
		Aliases: []string{"plans"},
		Short:   "Create, inspect and execute test plans",
	}
	cmd.AddCommand(
		newPlanCreateCmd(flags),
		newPlanListCmd(flags),
		newPlanGetCmd(flags),
		newPlanDeleteCmd(flags),
		newPlanExecuteCmd(flags),
	)
	return cmd
}

func newPlanCreateCmd(flags *cli.CommandFlags) *cobra.Command {
	var (
		req      api.CreateTestPlanRequest
		planType string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a test plan and discover its components",
		Long: `Resolves the given component ids, names and folders on the platform and
creates a test plan from them.

With --discover, COMPONENT plans also walk the dependency graph of every
resolved component. TEST plans treat the resolved processes as the tests to
run. The command waits for discovery to finish and prints the plan.`,
		Example: `  testplanner plan create --profile dev --name "Orders" --component-name "Order Router" --discover
  testplanner plan create --profile dev --type TEST --folder "Regression Tests"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.PlanType = api.TestPlanType(strings.ToUpper(planType))
			return runWithApp(cmd, flags, func(ctx context.Context, application *app.Application, printer *cli.Printer) error {
				plans := application.Services().TestPlans
				plan, err := plans.InitiateDiscovery(ctx, req)
				if err != nil {
					return err
				}
				if err := waitForTasks(ctx, cmd, flags, application, "Discovering components..."); err != nil {
					return err
				}

				details, err := plans.GetTestPlan(ctx, plan.ID)
				if err != nil {
					return err
				}
				return printPlanDetails(printer, details)
			})
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Plan name")
	cmd.Flags().StringVar(&planType, "type", string(api.TestPlanTypeComponent), "Plan type (COMPONENT or TEST)")
	cmd.Flags().StringSliceVar(&req.Inputs.ComponentIDs, "component-id", nil, "Component id (repeatable)")
	cmd.Flags().StringSliceVar(&req.Inputs.ComponentNames, "component-name", nil, "Exact component name (repeatable)")
	cmd.Flags().StringSliceVar(&req.Inputs.FolderNames, "folder", nil, "Folder name (repeatable)")
	cmd.Flags().StringVar(&req.CredentialProfile, "profile", "", "Credential profile used to talk to the platform")
	cmd.Flags().BoolVar(&req.DiscoverDependencies, "discover", false, "Discover dependencies of COMPONENT plans")
	return cmd
}

func newPlanListCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List test plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, flags, func(ctx context.Context, application *app.Application, printer *cli.Printer) error {
				plans, err := application.Services().TestPlans.ListTestPlans(ctx)
				if err != nil {
					return err
				}
				return printer.Print(plans, func(t *cli.Table) {
					t.Empty = "No test plans found"
					t.Header("ID", "NAME", "TYPE", "STATUS", "UPDATED")
					for _, p := range plans {
						t.Row(p.ID, cli.OrDash(p.Name), string(p.PlanType), cli.FormatStatus(string(p.Status)), cli.FormatTime(p.UpdatedAt))
					}
				})
			})
		},
	}
}

func newPlanGetCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <plan-id>",
		Short: "Show a test plan with its components, tests and results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, flags, func(ctx context.Context, application *app.Application, printer *cli.Printer) error {
				details, err := application.Services().TestPlans.GetTestPlan(ctx, args[0])
				if err != nil {
					return err
				}
				return printPlanDetails(printer, details)
			})
		},
	}
}

func newPlanDeleteCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <plan-id>",
		Short: "Delete a test plan and everything recorded for it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, flags, func(ctx context.Context, application *app.Application, printer *cli.Printer) error {
				if err := application.Services().TestPlans.DeleteTestPlan(ctx, args[0]); err != nil {
					return err
				}
				printer.Message("Test plan %s deleted", args[0])
				return nil
			})
		},
	}
}

func newPlanExecuteCmd(flags *cli.CommandFlags) *cobra.Command {
	var req api.ExecuteTestPlanRequest

	cmd := &cobra.Command{
		Use:   "execute <plan-id>",
		Short: "Run the tests of a test plan",
		Long: `Runs every test available to the plan, or only those named with --test,
and waits for all of them to finish. Results of earlier runs of the plan are
replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.PlanID = args[0]
			return runWithApp(cmd, flags, func(ctx context.Context, application *app.Application, printer *cli.Printer) error {
				plans := application.Services().TestPlans
				if err := plans.ExecuteTestPlan(ctx, req); err != nil {
					return err
				}
				if err := waitForTasks(ctx, cmd, flags, application, "Running tests..."); err != nil {
					return err
				}

				details, err := plans.GetTestPlan(ctx, req.PlanID)
				if err != nil {
					return err
				}
				return printPlanDetails(printer, details)
			})
		},
	}

	cmd.Flags().StringVar(&req.CredentialProfile, "profile", "", "Credential profile used to talk to the platform")
	cmd.Flags().StringSliceVar(&req.TestsToRun, "test", nil, "Only run this test component id (repeatable)")
	return cmd
}

func printPlanDetails(printer *cli.Printer, details *api.TestPlanWithDetails) error {
	printer.Message("Plan:   %s %s", details.ID, cli.OrDash(details.Name))
	printer.Message("Type:   %s", details.PlanType)
	printer.Message("Status: %s", cli.FormatStatus(string(details.Status)))
	if details.FailureReason != "" {
		printer.Message("Reason: %s", details.FailureReason)
	}
	printer.Message("")

	return printer.Print(details, func(t *cli.Table) {
		t.Empty = "No components"
		t.Header("COMPONENT", "NAME", "TYPE", "SOURCE", "TESTS", "PASSED", "FAILED")
		for _, c := range details.PlanComponents {
			passed, failed := countResults(c.ExecutionResults)
			t.Row(
				c.ComponentID,
				pkgstrings.Truncate(cli.OrDash(c.ComponentName), 40),
				cli.OrDash(c.ComponentType),
				string(c.SourceType),
				strconv.Itoa(len(c.AvailableTests)),
				strconv.Itoa(passed),
				strconv.Itoa(failed),
			)
		}
	})
}

func countResults(results []api.TestExecutionResult) (passed, failed int) {
	for _, r := range results {
		if r.Status == api.ExecutionSuccess {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}
