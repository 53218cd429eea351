package main

import (
	"context"

	"github.com/entrhq/ghauto/pkg/github"
	"github.com/spf13/cobra"
)

var (
	verifyAccount       accountOptions
	verifyEmailPassword string
	verifyAddress       string
)

func init() {
	verifyAccount.bind(verifyCmd.Flags())
	verifyCmd.Flags().StringVar(&verifyEmailPassword, "email-password", "", "mailbox password (default $"+envEmailPassword+")")
	verifyCmd.Flags().StringVar(&verifyAddress, "address", "", "address to verify (default the account email)")
	rootCmd.AddCommand(verifyCmd)
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Confirm the account's email address from its verification mail",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, c *github.Client) error {
			if err := signIn(ctx, cmd, c, &verifyAccount); err != nil {
				return err
			}

			address := verifyAddress
			if address == "" {
				address = c.User().Email
			}
			printStep(cmd.OutOrStdout(), "Waiting for verification mail to %s", address)
			err := c.VerifyEmail(ctx, github.VerifyOptions{
				EmailPassword: emailPassword(verifyEmailPassword),
				Email:         verifyAddress,
			})
			if err != nil {
				return err
			}
			printDone(cmd.OutOrStdout(), "Verified %s", address)
			return nil
		})
	},
}
