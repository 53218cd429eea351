// Package workflowtest scripts a fake github.com that presents every marker
// the workflows wait for.
package workflowtest

import (
	"strings"

	"github.com/entrhq/ghauto/pkg/browser/browsertest"
	"github.com/entrhq/ghauto/pkg/workflow"
)

// BaseURL is where the fake site is served.
const BaseURL = "https://github.test"

// NewGitHubSite returns a site scripted for signup, signin and signout.
// Use Repo to add repositories for the star workflow.
func NewGitHubSite() *browsertest.Site {
	site := browsertest.NewSite(BaseURL)

	// home page doubles as the signup form and the signed-in header
	site.Show("/",
		workflow.SignUpLoginField,
		workflow.SignUpEmailField,
		workflow.PasswordField,
		workflow.SignUpSubmit,
		workflow.AccountMenu,
	)
	site.Hide("/", workflow.LogoutSubmit)
	site.Link("/", workflow.SignUpSubmit, "/join/plan")
	site.Link("/", workflow.LogoutSubmit, "/")

	site.Show("/join/plan", workflow.SignUpSubmit)
	site.Link("/join/plan", workflow.SignUpSubmit, "/join/customize")

	site.Show("/join/customize", workflow.SignUpSkipCustomize)
	site.Link("/join/customize", workflow.SignUpSkipCustomize, "/dashboard")

	site.Show("/login", workflow.SignInLoginField, workflow.PasswordField, workflow.SignInSubmit)
	site.Link("/login", workflow.SignInSubmit, "/")

	// opening the account menu reveals the logout button
	site.OnClick(func(s *browsertest.Site, path, selector string) {
		if path == "/" && selector == workflow.AccountMenu {
			s.Show("/", workflow.LogoutSubmit)
		}
	})

	return site
}

// Repo adds a repository page at /owner/name with the given star state.
// Clicking the visible star control flips it, like the live site.
func Repo(site *browsertest.Site, path string, starred bool) {
	path = "/" + strings.Trim(path, "/")
	setStar(site, path, starred)
	site.OnClick(func(s *browsertest.Site, p, selector string) {
		if p != path {
			return
		}
		switch selector {
		case workflow.UnstarredButton:
			setStar(s, path, true)
		case workflow.StarredButton:
			setStar(s, path, false)
		}
	})
}

// BrokenStar adds a repository page whose star controls ignore clicks.
func BrokenStar(site *browsertest.Site, path string, starred bool) {
	setStar(site, "/"+strings.Trim(path, "/"), starred)
}

func setStar(site *browsertest.Site, path string, starred bool) {
	if starred {
		site.Show(path, workflow.StarredButton)
		site.Hide(path, workflow.UnstarredButton)
		return
	}
	site.Hide(path, workflow.StarredButton)
	site.Show(path, workflow.UnstarredButton)
}
