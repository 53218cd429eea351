// Package verify confirms a GitHub account's email address by waiting for
// the verification mail and opening the link inside it.
package verify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/ghauto/pkg/logging"
	"github.com/entrhq/ghauto/pkg/mailbox"
	"github.com/entrhq/ghauto/pkg/retry"
	"github.com/entrhq/ghauto/pkg/types"
)

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("verify")
	if err != nil {
		debugLog.Warnf("Failed to initialize verify logger, using stderr fallback: %v", err)
	}
}

// errNoMessage makes an attempt that found nothing usable count as failed.
var errNoMessage = errors.New("no matching message with a body")

// DefaultQuery matches GitHub's verification mail.
func DefaultQuery() mailbox.Query {
	return mailbox.Query{From: "noreply@github.com", Subject: "please verify"}
}

// Visitor loads a URL in a fresh page and closes it.
// *workflow.Engine implements it.
type Visitor interface {
	Visit(ctx context.Context, op, url string) error
}

// AttemptResult is the outcome of one mailbox poll.
type AttemptResult struct {
	Found   bool
	Message mailbox.Message
}

// Poller waits for the verification mail and follows its link.
type Poller struct {
	Mailbox mailbox.Provider
	Visitor Visitor
	Policy  retry.Policy
	Query   mailbox.Query

	// LinkClass is the class of the confirmation <a>. Empty means
	// DefaultLinkClass.
	LinkClass string
}

// NewPoller returns a poller with the default policy and query.
func NewPoller(mb mailbox.Provider, v Visitor) *Poller {
	return &Poller{
		Mailbox:   mb,
		Visitor:   v,
		Policy:    retry.DefaultPolicy(),
		Query:     DefaultQuery(),
		LinkClass: DefaultLinkClass,
	}
}

// Verify polls address's mailbox for the verification mail, extracts the
// confirmation link from the first message with a body and opens it. It
// returns the link. A "verified" and an "already verified" landing page
// both count as success.
func (p *Poller) Verify(ctx context.Context, address string, creds mailbox.Credentials) (string, error) {
	session, err := p.Mailbox.Open(ctx, address, creds)
	if err != nil {
		return "", fmt.Errorf("verify: failed to open mailbox for %q: %w", address, err)
	}

	policy := p.Policy
	if policy.OnRetry == nil {
		policy.OnRetry = func(attempt int, err error, wait time.Duration) {
			debugLog.Infof("verification mail for %s not found on attempt %d, retrying in %s: %v", address, attempt, wait, err)
		}
	}

	var found AttemptResult
	err = retry.Do(ctx, policy, func(ctx context.Context, attempt int) error {
		res, err := p.Poll(ctx, session)
		if err != nil {
			return err
		}
		if !res.Found {
			return errNoMessage
		}
		found = res
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		debugLog.Errorf("verification mail for %s not found: %v", address, err)
		return "", &types.Error{
			Kind:    types.KindVerificationNotFound,
			Op:      "verify",
			Message: "verification email not found",
			Address: address,
			Err:     err,
		}
	}

	class := p.LinkClass
	if class == "" {
		class = DefaultLinkClass
	}
	link, err := ExtractLink(found.Message.HTML, class)
	if err != nil {
		return "", &types.Error{
			Kind:     types.KindVerificationNotFound,
			Op:       "verify",
			Message:  "confirmation link missing from verification email",
			Address:  address,
			Selector: "a." + class,
			Err:      err,
		}
	}

	debugLog.Infof("opening confirmation link for %s", address)
	if err := p.Visitor.Visit(ctx, "verify", link); err != nil {
		return "", err
	}
	return link, nil
}

// Poll runs one attempt: it fetches candidate messages and keeps the first
// one with a non-empty body.
func (p *Poller) Poll(ctx context.Context, session mailbox.Session) (AttemptResult, error) {
	msgs, err := session.Messages(ctx, p.Query)
	if err != nil {
		return AttemptResult{}, fmt.Errorf("failed to list messages: %w", err)
	}

	// sessions may match loosely, so the query is applied again here
	for _, m := range p.Query.Filter(msgs) {
		if strings.TrimSpace(m.HTML) != "" {
			return AttemptResult{Found: true, Message: m}, nil
		}
	}
	return AttemptResult{}, nil
}
