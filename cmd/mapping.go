package cmd

import (
	"context"

	"testplanner/internal/api"
	"testplanner/internal/app"
	"testplanner/internal/cli"
	pkgstrings "testplanner/pkg/strings"

	"github.com/spf13/cobra"
)

func newMappingCmd(flags *cli.CommandFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mapping",
		Aliases: []string{"mappings"},
		Short:   "Manage the tests registered against components",
	}
	cmd.AddCommand(
		newMappingCreateCmd(flags),
		newMappingListCmd(flags),
		newMappingGetCmd(flags),
		newMappingUpdateCmd(flags),
		newMappingDeleteCmd(flags),
	)
	return cmd
}

func newMappingCreateCmd(flags *cli.CommandFlags) *cobra.Command {
	var (
		req                   api.CreateMappingRequest
		isDeployed, isPackaged bool
	)

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Register a test component against a main component",
		Example: `  testplanner mapping create --main-id 1a2b --test-id 9f8e --test-name "Order Router Test"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireFlag("main-id", req.MainComponentID); err != nil {
				return err
			}
			if err := requireFlag("test-id", req.TestComponentID); err != nil {
				return err
			}
			if cmd.Flags().Changed("deployed") {
				req.IsDeployed = &isDeployed
			}
			if cmd.Flags().Changed("packaged") {
				req.IsPackaged = &isPackaged
			}

			return runWithApp(cmd, flags, func(ctx context.Context, application *app.Application, printer *cli.Printer) error {
				m, err := application.Services().Mappings.CreateMapping(ctx, req)
				if err != nil {
					return err
				}
				return printMappings(printer, m, []*api.Mapping{m})
			})
		},
	}

	cmd.Flags().StringVar(&req.MainComponentID, "main-id", "", "Main component id")
	cmd.Flags().StringVar(&req.MainComponentName, "main-name", "", "Main component name")
	cmd.Flags().StringVar(&req.TestComponentID, "test-id", "", "Test component id")
	cmd.Flags().StringVar(&req.TestComponentName, "test-name", "", "Test component name")
	cmd.Flags().BoolVar(&isDeployed, "deployed", false, "Mark the test as deployed")
	cmd.Flags().BoolVar(&isPackaged, "packaged", false, "Mark the test as packaged")
	return cmd
}

func newMappingListCmd(flags *cli.CommandFlags) *cobra.Command {
	var mainComponentID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List mappings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, flags, func(ctx context.Context, application *app.Application, printer *cli.Printer) error {
				mappings, err := application.Services().Mappings.ListMappings(ctx, mainComponentID)
				if err != nil {
					return err
				}
				return printMappings(printer, mappings, mappings)
			})
		},
	}

	cmd.Flags().StringVar(&mainComponentID, "main-id", "", "Only list mappings of this main component")
	return cmd
}

func newMappingGetCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "get <mapping-id>",
		Short: "Show a mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, flags, func(ctx context.Context, application *app.Application, printer *cli.Printer) error {
				m, err := application.Services().Mappings.GetMapping(ctx, args[0])
				if err != nil {
					return err
				}
				return printMappings(printer, m, []*api.Mapping{m})
			})
		},
	}
}

func newMappingUpdateCmd(flags *cli.CommandFlags) *cobra.Command {
	var (
		testID, testName       string
		isDeployed, isPackaged bool
	)

	cmd := &cobra.Command{
		Use:   "update <mapping-id>",
		Short: "Change the test of a mapping or its flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req api.UpdateMappingRequest
			if cmd.Flags().Changed("test-id") {
				req.TestComponentID = &testID
			}
			if cmd.Flags().Changed("test-name") {
				req.TestComponentName = &testName
			}
			if cmd.Flags().Changed("deployed") {
				req.IsDeployed = &isDeployed
			}
			if cmd.Flags().Changed("packaged") {
				req.IsPackaged = &isPackaged
			}
			if req == (api.UpdateMappingRequest{}) {
				return cli.NewUsageError("nothing to update: set at least one of --test-id, --test-name, --deployed, --packaged")
			}

			return runWithApp(cmd, flags, func(ctx context.Context, application *app.Application, printer *cli.Printer) error {
				m, err := application.Services().Mappings.UpdateMapping(ctx, args[0], req)
				if err != nil {
					return err
				}
				return printMappings(printer, m, []*api.Mapping{m})
			})
		},
	}

	cmd.Flags().StringVar(&testID, "test-id", "", "New test component id")
	cmd.Flags().StringVar(&testName, "test-name", "", "New test component name")
	cmd.Flags().BoolVar(&isDeployed, "deployed", false, "Mark the test as deployed")
	cmd.Flags().BoolVar(&isPackaged, "packaged", false, "Mark the test as packaged")
	return cmd
}

func newMappingDeleteCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <mapping-id>",
		Short: "Delete a mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, flags, func(ctx context.Context, application *app.Application, printer *cli.Printer) error {
				if err := application.Services().Mappings.DeleteMapping(ctx, args[0]); err != nil {
					return err
				}
				printer.Message("Mapping %s deleted", args[0])
				return nil
			})
		},
	}
}

// printMappings prints data as JSON or YAML, or rows as a table.
func printMappings(printer *cli.Printer, data interface{}, rows []*api.Mapping) error {
	return printer.Print(data, func(t *cli.Table) {
		t.Empty = "No mappings found"
		t.Header("ID", "MAIN COMPONENT", "MAIN NAME", "TEST COMPONENT", "TEST NAME", "DEPLOYED", "PACKAGED")
		for _, m := range rows {
			t.Row(
				m.ID,
				m.MainComponentID,
				pkgstrings.Truncate(cli.OrDash(m.MainComponentName), 30),
				m.TestComponentID,
				pkgstrings.Truncate(cli.OrDash(m.TestComponentName), 30),
				formatFlag(m.IsDeployed),
				formatFlag(m.IsPackaged),
			)
		}
	})
}

func formatFlag(v *bool) string {
	switch {
	case v == nil:
		return "-"
	case *v:
		return "yes"
	default:
		return "no"
	}
}
