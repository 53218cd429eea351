// Package repo turns repository URLs, "owner/name" shorthands and npm
// package names into GitHub repository identifiers.
package repo

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/entrhq/ghauto/pkg/types"
)

var (
	ownerPattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]*[A-Za-z0-9])?$`)
	namePattern  = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
)

// Parse reads a repository reference without touching the network.
//
// Accepted forms include "owner/name", "github:owner/name",
// "github.com/owner/name", "https://github.com/owner/name/tree/main",
// "git+https://github.com/owner/name.git", "git://github.com/owner/name.git"
// and "git@github.com:owner/name.git".
func Parse(ref string) (types.RepoIdentifier, error) {
	s := strings.TrimSpace(ref)
	s = strings.TrimPrefix(s, "git+")

	var path string
	switch {
	case s == "":
		return types.RepoIdentifier{}, parseError(ref, "empty repository reference")

	case strings.HasPrefix(s, "git@"):
		host, p, ok := strings.Cut(strings.TrimPrefix(s, "git@"), ":")
		if !ok || !isGitHubHost(host) {
			return types.RepoIdentifier{}, parseError(ref, "not a GitHub repository")
		}
		path = p

	case strings.HasPrefix(s, "github:"):
		path = strings.TrimPrefix(s, "github:")

	case strings.Contains(s, "://"):
		u, err := url.Parse(s)
		if err != nil {
			return types.RepoIdentifier{}, &types.Error{Kind: types.KindResolutionFailure, Package: ref, Message: "invalid URL", Err: err}
		}
		if !isGitHubHost(u.Hostname()) {
			return types.RepoIdentifier{}, parseError(ref, fmt.Sprintf("host %q is not GitHub", u.Hostname()))
		}
		path = u.Path

	case hasGitHubHostPrefix(s):
		_, path, _ = strings.Cut(s, "/")

	default:
		if strings.Count(strings.Trim(s, "/"), "/") != 1 {
			return types.RepoIdentifier{}, parseError(ref, "expected owner/name")
		}
		path = s
	}

	return fromPath(ref, path)
}

// fromPath takes the first two path segments as owner and name.
func fromPath(ref, path string) (types.RepoIdentifier, error) {
	path = strings.SplitN(path, "#", 2)[0]
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) < 2 {
		return types.RepoIdentifier{}, parseError(ref, "expected owner/name")
	}

	owner := segments[0]
	name := strings.TrimSuffix(segments[1], ".git")
	if !ownerPattern.MatchString(owner) || !namePattern.MatchString(name) || name == "." || name == ".." {
		return types.RepoIdentifier{}, parseError(ref, "invalid owner or name")
	}
	return types.RepoIdentifier{Owner: owner, Name: name}, nil
}

func isGitHubHost(host string) bool {
	host = strings.ToLower(host)
	return host == "github.com" || host == "www.github.com"
}

func hasGitHubHostPrefix(s string) bool {
	host, _, _ := strings.Cut(s, "/")
	return isGitHubHost(host)
}

func parseError(ref, msg string) error {
	return &types.Error{Kind: types.KindResolutionFailure, Package: ref, Message: msg}
}
