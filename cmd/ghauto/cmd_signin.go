package main

import (
	"context"

	"github.com/entrhq/ghauto/pkg/github"
	"github.com/spf13/cobra"
)

var signinAccount accountOptions

func init() {
	signinAccount.bind(signinCmd.Flags())
	rootCmd.AddCommand(signinCmd)
}

var signinCmd = &cobra.Command{
	Use:   "signin",
	Short: "Check that an account can sign in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *github.Client) error {
			if err := signIn(ctx, cmd, c, &signinAccount); err != nil {
				return err
			}
			printDone(cmd.OutOrStdout(), "Signed in as %s", c.User().Login())
			return nil
		})
	},
}
