package main

import (
	"context"
	"fmt"

	"github.com/entrhq/ghauto/pkg/github"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newStarCmd(true), newStarCmd(false))
}

// newStarCmd builds the star or unstar command. They differ only in the
// desired state.
func newStarCmd(starred bool) *cobra.Command {
	var (
		account accountOptions
		pkg     string
	)

	verb, done, already := "unstar", "Unstarred", "is not starred"
	if starred {
		verb, done, already = "star", "Starred", "is already starred"
	}

	cmd := &cobra.Command{
		Use:   verb + " [owner/name | url]",
		Short: fmt.Sprintf("%s a repository or an npm package's repository", capitalize(verb)),
		Example: fmt.Sprintf("  ghauto %[1]s avajs/ava\n"+
			"  ghauto %[1]s https://github.com/facebook/react\n"+
			"  ghauto %[1]s --package express", verb),
		Args: func(cmd *cobra.Command, args []string) error {
			return starTarget(args, pkg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := pkg
			if len(args) == 1 {
				target = args[0]
			}

			return withClient(cmd, func(ctx context.Context, c *github.Client) error {
				// a package that does not resolve fails before any sign-in
				if pkg != "" {
					id, err := c.ResolvePackage(ctx, pkg)
					if err != nil {
						return err
					}
					printStep(cmd.OutOrStdout(), "Package %s is %s", pkg, id)
					target = id.Path()
				}

				if err := signIn(ctx, cmd, c, &account); err != nil {
					return err
				}

				toggle := c.UnstarRepo
				if starred {
					toggle = c.StarRepo
				}
				changed, err := toggle(ctx, target)
				if err != nil {
					return err
				}

				if changed {
					printDone(cmd.OutOrStdout(), "%s %s", done, target)
				} else {
					printDone(cmd.OutOrStdout(), "%s %s", target, already)
				}
				return nil
			})
		},
	}

	account.bind(cmd.Flags())
	cmd.Flags().StringVar(&pkg, "package", "", "npm package whose repository to "+verb)
	return cmd
}

// starTarget checks that exactly one of a repository argument and
// --package was given.
func starTarget(args []string, pkg string) error {
	switch {
	case len(args) > 1:
		return fmt.Errorf("expected one repository, got %d", len(args))
	case len(args) == 1 && pkg != "":
		return fmt.Errorf("give either a repository or --package, not both")
	case len(args) == 0 && pkg == "":
		return fmt.Errorf("a repository or --package is required")
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
