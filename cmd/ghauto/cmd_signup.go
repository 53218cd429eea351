package main

import (
	"context"

	"github.com/entrhq/ghauto/pkg/github"
	"github.com/entrhq/ghauto/pkg/types"
	"github.com/spf13/cobra"
)

var (
	signupAccount       accountOptions
	signupVerify        bool
	signupEmailPassword string
)

func init() {
	signupAccount.bind(signupCmd.Flags())
	signupCmd.Flags().BoolVar(&signupVerify, "verify", false, "verify the email address after signing up")
	signupCmd.Flags().StringVar(&signupEmailPassword, "email-password", "", "mailbox password (default $"+envEmailPassword+")")
	rootCmd.AddCommand(signupCmd)
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a new GitHub account",
	Long: "Create a new GitHub account. The username defaults to the email's local part\n" +
		"and a password is generated when none is given.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		creds := signupAccount.credentials()
		mailPassword := emailPassword(signupEmailPassword)
		if signupVerify && mailPassword == "" {
			return types.NewPreconditionError("signup", "email password is required to verify")
		}

		return withClient(cmd, func(ctx context.Context, c *github.Client) error {
			out := cmd.OutOrStdout()
			printStep(out, "Signing up %s", creds.Email)
			if err := c.SignUp(ctx, creds, github.SignUpOptions{}); err != nil {
				return err
			}

			// the account exists from here on, report it before verifying
			user := c.User()
			printDone(out, "Created account %s", user.Username)
			if creds.Password == "" {
				printDetail(out, "password", user.Password)
			}
			if !signupVerify {
				return nil
			}

			printStep(out, "Waiting for verification mail to %s", user.Email)
			if err := c.VerifyEmail(ctx, github.VerifyOptions{EmailPassword: mailPassword}); err != nil {
				return err
			}
			printDone(out, "Verified %s", user.Email)
			return nil
		})
	},
}
