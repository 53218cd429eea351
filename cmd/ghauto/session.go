package main

import (
	"context"

	"github.com/entrhq/ghauto/pkg/config"
	"github.com/entrhq/ghauto/pkg/github"
	"github.com/entrhq/ghauto/pkg/mailbox"
	"github.com/entrhq/ghauto/pkg/repo"
	"github.com/spf13/cobra"
)

func clientOptions(cfg *config.Config) github.Options {
	policy := cfg.RetryPolicy()
	query := cfg.Query()
	return github.Options{
		Launch:       cfg.LaunchOptions(),
		BaseURL:      cfg.Site.BaseURL,
		SettleDelay:  cfg.Star.SettleDelay,
		Mailbox:      mailbox.NewMailHog(cfg.Mailbox.MailHogURL),
		Resolver:     repo.NewNPMResolver(cfg.NPM.Registry),
		VerifyPolicy: &policy,
		VerifyQuery:  &query,
		LinkClass:    cfg.Verify.LinkClass,
	}
}

// newClient is replaced in tests.
var newClient = func(cfg *config.Config) *github.Client {
	return github.New(clientOptions(cfg))
}

// withClient runs fn against a fresh client and always closes it.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, c *github.Client) error) (err error) {
	cfg, err := globals.load(cmd.Flags())
	if err != nil {
		return err
	}

	c := newClient(cfg)
	defer func() {
		if closeErr := c.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(cmd.Context(), c)
}

// signIn signs c in with the account flags.
func signIn(ctx context.Context, cmd *cobra.Command, c *github.Client, account *accountOptions) error {
	creds := account.credentials()
	printStep(cmd.OutOrStdout(), "Signing in as %s", creds.Login())
	return c.SignIn(ctx, creds)
}
