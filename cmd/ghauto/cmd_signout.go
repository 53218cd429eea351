package main

import (
	"context"

	"github.com/entrhq/ghauto/pkg/github"
	"github.com/spf13/cobra"
)

var signoutAccount accountOptions

func init() {
	signoutAccount.bind(signoutCmd.Flags())
	rootCmd.AddCommand(signoutCmd)
}

var signoutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Sign in and sign out again, ending the browser session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *github.Client) error {
			if err := signIn(ctx, cmd, c, &signoutAccount); err != nil {
				return err
			}
			login := c.User().Login()
			if err := c.SignOut(ctx); err != nil {
				return err
			}
			printDone(cmd.OutOrStdout(), "Signed out %s", login)
			return nil
		})
	},
}
