package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"scribe/internal/models"

	"github.com/spf13/cobra"
)

func newPostsCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Inspect posts",
	}

	var accountArg string
	list := &cobra.Command{
		Use:   "list",
		Short: "List the feed, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withServices(cmd, open, func(ctx context.Context, svc *services) error {
				var (
					posts []*models.Post
					err   error
				)
				if accountArg != "" {
					id, perr := parseAccountID(accountArg)
					if perr != nil {
						return perr
					}
					posts, err = svc.posts.ListAccountPosts(ctx, models.Anonymous(), id)
				} else {
					posts, err = svc.posts.ListFeed(ctx, models.Anonymous())
				}
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tAUTHOR\tCREATED\tTITLE")
				for _, p := range posts {
					author := ""
					if p.Author != nil {
						author = p.Author.Username
					}
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", p.ID, author, p.CreatedAt.Format("2006-01-02 15:04"), p.Title)
				}
				return w.Flush()
			})
		},
	}
	list.Flags().StringVar(&accountArg, "account", "", "only posts by this account id")

	cmd.AddCommand(list)
	return cmd
}
