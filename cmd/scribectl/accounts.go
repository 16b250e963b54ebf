package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newAccountsCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Inspect and create accounts",
	}
	cmd.AddCommand(newAccountsListCmd(open))
	cmd.AddCommand(newAccountsCreateCmd(open))
	return cmd
}

func newAccountsListCmd(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withServices(cmd, open, func(ctx context.Context, svc *services) error {
				accounts, err := svc.accounts.List(ctx)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tUSERNAME\tCREATED")
				for _, a := range accounts {
					fmt.Fprintf(w, "%d\t%s\t%s\n", a.ID, a.Username, a.CreatedAt.Format("2006-01-02 15:04"))
				}
				return w.Flush()
			})
		},
	}
}

func newAccountsCreateCmd(open opener) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Register an account",
		Long: `Register an account with the same rules as the web signup.
The password comes from --password or the SCRIBE_PASSWORD environment variable.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("SCRIBE_PASSWORD")
			}
			return withServices(cmd, open, func(ctx context.Context, svc *services) error {
				account, err := svc.credentials.Register(ctx, args[0], password)
				if err != nil {
					return err
				}
				cmd.Printf("created account %d (%s)\n", account.ID, account.Username)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password for the new account")
	return cmd
}
