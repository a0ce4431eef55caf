package cmd

import (
	"context"
	"os"

	"testplanner/internal/api"
	"testplanner/internal/app"
	"testplanner/internal/cli"

	"github.com/spf13/cobra"
)

// envPassword is read when --password is not given, so secrets stay out of
// shell history.
const envPassword = "TESTPLANNER_PLATFORM_PASSWORD"

func newCredsCmd(flags *cli.CommandFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "creds",
		Aliases: []string{"credentials"},
		Short:   "Manage platform credential profiles",
	}
	cmd.AddCommand(
		newCredsAddCmd(flags),
		newCredsListCmd(flags),
		newCredsDeleteCmd(flags),
	)
	return cmd
}

func newCredsAddCmd(flags *cli.CommandFlags) *cobra.Command {
	var creds api.Credentials

	cmd := &cobra.Command{
		Use:   "add <profile>",
		Short: "Add or replace a credential profile",
		Long: `Stores the platform account credentials under a profile name. Plans
refer to the profile when they talk to the platform.

The password or API token is taken from --password, or from the
` + envPassword + ` environment variable when the flag is not set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if creds.PasswordOrToken == "" {
				creds.PasswordOrToken = os.Getenv(envPassword)
			}
			return runWithApp(cmd, flags, func(ctx context.Context, application *app.Application, printer *cli.Printer) error {
				profile, err := application.Services().Credentials.AddCredentials(ctx, args[0], creds)
				if err != nil {
					return err
				}
				return printProfiles(printer, profile, []api.CredentialProfile{*profile})
			})
		},
	}

	cmd.Flags().StringVar(&creds.AccountID, "account-id", "", "Platform account id")
	cmd.Flags().StringVar(&creds.Username, "username", "", "Platform user name")
	cmd.Flags().StringVar(&creds.PasswordOrToken, "password", "", "Password or API token (env: "+envPassword+")")
	cmd.Flags().StringVar(&creds.ExecutionInstanceID, "execution-instance-id", "", "Runtime or atom that executes tests")
	return cmd
}

func newCredsListCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List credential profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, flags, func(ctx context.Context, application *app.Application, printer *cli.Printer) error {
				profiles, err := application.Services().Credentials.ListCredentials(ctx)
				if err != nil {
					return err
				}
				return printProfiles(printer, profiles, profiles)
			})
		},
	}
}

func newCredsDeleteCmd(flags *cli.CommandFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <profile>",
		Short: "Delete a credential profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, flags, func(ctx context.Context, application *app.Application, printer *cli.Printer) error {
				if err := application.Services().Credentials.DeleteCredentials(ctx, args[0]); err != nil {
					return err
				}
				printer.Message("Credential profile %s deleted", args[0])
				return nil
			})
		},
	}
}

func printProfiles(printer *cli.Printer, data interface{}, rows []api.CredentialProfile) error {
	return printer.Print(data, func(t *cli.Table) {
		t.Empty = "No credential profiles found"
		t.Header("PROFILE", "ACCOUNT", "USERNAME", "EXECUTION INSTANCE")
		for _, p := range rows {
			t.Row(p.ProfileName, p.AccountID, p.Username, p.ExecutionInstanceID)
		}
	})
}
