package main

import (
	"context"

	"github.com/spf13/cobra"
)

func newSessionsCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage login sessions",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "revoke <account-id>",
		Short: "Log an account out everywhere",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAccountID(args[0])
			if err != nil {
				return err
			}
			return withServices(cmd, open, func(ctx context.Context, svc *services) error {
				n, err := svc.sessions.EndAll(ctx, id)
				if err != nil {
					return err
				}
				cmd.Printf("revoked %d session(s) for account %d\n", n, id)
				return nil
			})
		},
	})
	return cmd
}
