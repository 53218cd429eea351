package repo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/entrhq/ghauto/pkg/types"
	"github.com/tidwall/gjson"
)

// DefaultRegistry is the public npm registry.
const DefaultRegistry = "https://registry.npmjs.org"

// Resolver maps a package name to its repository URL.
type Resolver interface {
	Resolve(ctx context.Context, pkg string) (string, error)
}

// NPMResolver reads the "repository" field of a package's registry
// document.
type NPMResolver struct {
	Registry string
	Client   *http.Client
}

var _ Resolver = (*NPMResolver)(nil)

// NewNPMResolver creates a resolver for registry (DefaultRegistry if empty).
func NewNPMResolver(registry string) *NPMResolver {
	if registry == "" {
		registry = DefaultRegistry
	}
	return &NPMResolver{
		Registry: strings.TrimRight(registry, "/"),
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Resolve returns the repository URL recorded for pkg. Scoped names such
// as "@babel/core" are supported.
func (r *NPMResolver) Resolve(ctx context.Context, pkg string) (string, error) {
	pkg = strings.TrimSpace(pkg)
	if pkg == "" {
		return "", resolveError(pkg, "package name is required", nil)
	}

	endpoint := r.Registry + "/" + url.PathEscape(pkg)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", resolveError(pkg, "invalid registry request", err)
	}
	// the abbreviated document omits "repository"
	req.Header.Set("Accept", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return "", resolveError(pkg, "registry request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", resolveError(pkg, "package not found", nil)
	}
	if resp.StatusCode != http.StatusOK {
		return "", resolveError(pkg, fmt.Sprintf("registry returned %s", resp.Status), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resolveError(pkg, "failed to read registry response", err)
	}
	if !gjson.ValidBytes(body) {
		return "", resolveError(pkg, "registry returned invalid JSON", nil)
	}

	repoField := gjson.GetBytes(body, "repository")
	var repoURL string
	switch {
	case repoField.Type == gjson.String:
		repoURL = repoField.String()
	case repoField.IsObject():
		repoURL = repoField.Get("url").String()
	}
	repoURL = strings.TrimSpace(repoURL)
	if repoURL == "" {
		return "", resolveError(pkg, "package has no repository", nil)
	}
	return repoURL, nil
}

// ResolvePackage resolves pkg and parses the result.
func ResolvePackage(ctx context.Context, r Resolver, pkg string) (types.RepoIdentifier, error) {
	repoURL, err := r.Resolve(ctx, pkg)
	if err != nil {
		return types.RepoIdentifier{}, err
	}
	id, err := Parse(repoURL)
	if err != nil {
		// report against the package, not the URL
		if te, ok := err.(*types.Error); ok {
			te.Package = pkg
			te.Message = fmt.Sprintf("repository %q: %s", repoURL, te.Message)
		}
		return types.RepoIdentifier{}, err
	}
	return id, nil
}

func resolveError(pkg, msg string, err error) error {
	return &types.Error{Kind: types.KindResolutionFailure, Package: pkg, Message: msg, Err: err}
}
