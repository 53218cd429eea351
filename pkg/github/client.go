// Package github is the public entry point: a Client that holds one
// browser session and runs GitHub account and star workflows on it.
//
// A Client is not safe for concurrent use. Callers must serialize calls.
package github

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/ghauto/pkg/browser"
	"github.com/entrhq/ghauto/pkg/logging"
	"github.com/entrhq/ghauto/pkg/mailbox"
	"github.com/entrhq/ghauto/pkg/repo"
	"github.com/entrhq/ghauto/pkg/retry"
	"github.com/entrhq/ghauto/pkg/types"
	"github.com/entrhq/ghauto/pkg/verify"
	"github.com/entrhq/ghauto/pkg/workflow"
	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
)

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("github")
	if err != nil {
		debugLog.Warnf("Failed to initialize github logger, using stderr fallback: %v", err)
	}
}

// Options configures a Client. The zero value launches a headless Chromium
// against github.com, reads mail from a local MailHog and resolves packages
// on the public npm registry.
type Options struct {
	// Browser is an already running browser to use. It is left open on Close.
	Browser playwright.Browser

	// Launch configures the browser started when Browser is nil
	Launch browser.LaunchOptions

	// BaseURL overrides https://github.com
	BaseURL string

	// SettleDelay overrides the wait after a star click
	SettleDelay time.Duration

	// Mailbox provides verification mail. Defaults to MailHog.
	Mailbox mailbox.Provider

	// Resolver maps package names to repositories. Defaults to npm.
	Resolver repo.Resolver

	// VerifyPolicy overrides the verification retry policy
	VerifyPolicy *retry.Policy

	// VerifyQuery overrides which messages count as the verification mail
	VerifyQuery *mailbox.Query

	// LinkClass overrides the class of the confirmation link
	LinkClass string

	// Pages replaces the browser entirely. Used by tests.
	Pages browser.PageOpener
}

// SignUpOptions controls the optional email verification after sign-up.
type SignUpOptions struct {
	// Verify runs VerifyEmail right after the account is created
	Verify bool

	// EmailPassword unlocks the mailbox when Verify is set
	EmailPassword string
}

// VerifyOptions configures VerifyEmail.
type VerifyOptions struct {
	// EmailPassword unlocks the mailbox. Required.
	EmailPassword string

	// Email overrides the signed-in user's address
	Email string
}

// Client drives one GitHub browser session.
type Client struct {
	provider *browser.Provider
	engine   *workflow.Engine
	poller   *verify.Poller
	resolver repo.Resolver

	authenticated bool
	user          *types.Credentials
	closed        bool
}

// New creates a client. No browser is started until the first operation.
func New(opts Options) *Client {
	c := &Client{resolver: opts.Resolver}

	pages := opts.Pages
	if pages == nil {
		c.provider = browser.NewProvider(browser.Options{Browser: opts.Browser, Launch: opts.Launch})
		pages = c.provider
	}

	c.engine = workflow.NewEngine(pages)
	if opts.BaseURL != "" {
		c.engine.BaseURL = opts.BaseURL
	}
	if opts.SettleDelay > 0 {
		c.engine.SettleDelay = opts.SettleDelay
	}

	mb := opts.Mailbox
	if mb == nil {
		mb = mailbox.NewMailHog(mailbox.DefaultMailHogURL)
	}
	c.poller = verify.NewPoller(mb, c.engine)
	if opts.VerifyPolicy != nil {
		c.poller.Policy = *opts.VerifyPolicy
	}
	if opts.VerifyQuery != nil {
		c.poller.Query = *opts.VerifyQuery
	}
	if opts.LinkClass != "" {
		c.poller.LinkClass = opts.LinkClass
	}

	if c.resolver == nil {
		c.resolver = repo.NewNPMResolver(repo.DefaultRegistry)
	}
	return c
}

// IsAuthenticated reports whether a sign-up or sign-in succeeded and no
// sign-out has happened since.
func (c *Client) IsAuthenticated() bool {
	return c.authenticated
}

// User returns a copy of the signed-in account, or nil.
func (c *Client) User() *types.Credentials {
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// SignUp creates a new account and leaves the client signed in as it.
// Email is required. Username defaults to the email's local part and is
// normalized to what GitHub accepts. An empty password is replaced by a
// generated one, readable afterwards through User.
func (c *Client) SignUp(ctx context.Context, creds types.Credentials, opts SignUpOptions) error {
	const op = "signup"
	if err := c.usable(op); err != nil {
		return err
	}
	if c.authenticated {
		return types.NewPreconditionError(op, "requires no authentication")
	}

	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" {
		return types.NewPreconditionError(op, "email is required")
	}
	if creds.Username == "" {
		creds.Username, _, _ = strings.Cut(creds.Email, "@")
	}
	creds.Username = SanitizeUsername(creds.Username)
	if creds.Username == "" {
		return types.NewPreconditionError(op, "username is empty after normalization")
	}
	if creds.Password == "" {
		creds.Password = GeneratePassword()
	}
	if opts.Verify && opts.EmailPassword == "" {
		return types.NewPreconditionError(op, "email password is required to verify")
	}

	debugLog.Infof("signing up %q", creds.Username)
	if err := c.engine.Run(ctx, workflow.SignUp, workflow.InputsFor(creds)); err != nil {
		return err
	}
	c.setUser(creds)

	if opts.Verify {
		return c.VerifyEmail(ctx, VerifyOptions{EmailPassword: opts.EmailPassword})
	}
	return nil
}

// SignIn signs into an existing account with its username or email.
func (c *Client) SignIn(ctx context.Context, creds types.Credentials) error {
	const op = "signin"
	if err := c.usable(op); err != nil {
		return err
	}
	if c.authenticated {
		return types.NewPreconditionError(op, "requires no authentication")
	}
	if creds.Login() == "" {
		return types.NewPreconditionError(op, "username or email is required")
	}
	if creds.Password == "" {
		return types.NewPreconditionError(op, "password is required")
	}

	debugLog.Infof("signing in %q", creds.Login())
	if err := c.engine.Run(ctx, workflow.SignIn, workflow.InputsFor(creds)); err != nil {
		return err
	}
	c.setUser(creds)
	return nil
}

// SignOut ends the current GitHub session.
func (c *Client) SignOut(ctx context.Context) error {
	const op = "signout"
	if err := c.usable(op); err != nil {
		return err
	}
	if !c.authenticated {
		return types.NewPreconditionError(op, "requires authentication")
	}

	if err := c.engine.Run(ctx, workflow.SignOut, workflow.InputsFor(*c.user)); err != nil {
		return err
	}
	debugLog.Infof("signed out %q", c.user.Login())
	c.clearUser()
	return nil
}

// VerifyEmail waits for GitHub's verification mail and opens its link.
// It returns once the link was loaded.
func (c *Client) VerifyEmail(ctx context.Context, opts VerifyOptions) error {
	const op = "verify"
	if err := c.usable(op); err != nil {
		return err
	}
	if !c.authenticated {
		return types.NewPreconditionError(op, "requires authentication")
	}
	if opts.EmailPassword == "" {
		return types.NewPreconditionError(op, "email password is required")
	}

	address := opts.Email
	if address == "" {
		address = c.user.Email
	}
	if address == "" {
		return types.NewPreconditionError(op, "no email address to verify")
	}

	// the link carries the confirmation token, so only the address is logged
	if _, err := c.poller.Verify(ctx, address, mailbox.Credentials{Password: opts.EmailPassword}); err != nil {
		return err
	}
	debugLog.Infof("verified %q", address)
	return nil
}

// StarRepo stars a repository given as a URL or "owner/name". It reports
// whether the star state changed.
func (c *Client) StarRepo(ctx context.Context, ref string) (bool, error) {
	return c.toggleRef(ctx, ref, true)
}

// UnstarRepo removes the star from a repository. It reports whether the
// star state changed.
func (c *Client) UnstarRepo(ctx context.Context, ref string) (bool, error) {
	return c.toggleRef(ctx, ref, false)
}

// StarPackage stars the repository of an npm package.
func (c *Client) StarPackage(ctx context.Context, pkg string) (bool, error) {
	return c.togglePackage(ctx, pkg, true)
}

// UnstarPackage unstars the repository of an npm package.
func (c *Client) UnstarPackage(ctx context.Context, pkg string) (bool, error) {
	return c.togglePackage(ctx, pkg, false)
}

// ResolvePackage maps an npm package to its repository without touching
// the browser or the session.
func (c *Client) ResolvePackage(ctx context.Context, pkg string) (types.RepoIdentifier, error) {
	if err := c.usable("resolve"); err != nil {
		return types.RepoIdentifier{}, err
	}
	id, err := repo.ResolvePackage(ctx, c.resolver, pkg)
	if err != nil {
		return types.RepoIdentifier{}, withOp("resolve", err)
	}
	return id, nil
}

func (c *Client) toggleRef(ctx context.Context, ref string, starred bool) (bool, error) {
	op := starOp(starred)
	if err := c.starReady(op); err != nil {
		return false, err
	}
	id, err := repo.Parse(ref)
	if err != nil {
		return false, withOp(op, err)
	}
	return c.engine.ToggleStar(ctx, id, starred)
}

func (c *Client) togglePackage(ctx context.Context, pkg string, starred bool) (bool, error) {
	op := starOp(starred)
	if err := c.starReady(op); err != nil {
		return false, err
	}
	id, err := repo.ResolvePackage(ctx, c.resolver, pkg)
	if err != nil {
		return false, withOp(op, err)
	}
	debugLog.Debugf("%s: package %q is %s", op, pkg, id)
	return c.engine.ToggleStar(ctx, id, starred)
}

func (c *Client) starReady(op string) error {
	if err := c.usable(op); err != nil {
		return err
	}
	if !c.authenticated {
		return types.NewPreconditionError(op, "requires authentication")
	}
	return nil
}

// Close releases the browser and resets the session. The client cannot be
// used afterwards. Calling Close again is a no-op.
func (c *Client) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.clearUser()
	if c.provider == nil {
		return nil
	}
	if err := c.provider.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}

func (c *Client) usable(op string) error {
	if c.closed {
		return fmt.Errorf("%s: %w", op, browser.ErrClosed)
	}
	return nil
}

func (c *Client) setUser(creds types.Credentials) {
	c.user = &creds
	c.authenticated = true
}

func (c *Client) clearUser() {
	c.user = nil
	c.authenticated = false
}

func starOp(starred bool) string {
	if starred {
		return "star"
	}
	return "unstar"
}

func withOp(op string, err error) error {
	if te, ok := err.(*types.Error); ok && te.Op == "" {
		te.Op = op
	}
	return err
}

// GeneratePassword returns a random password that satisfies GitHub's
// length and character class rules.
func GeneratePassword() string {
	return "Gh1-" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
