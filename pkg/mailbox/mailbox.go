// Package mailbox defines read access to an email inbox and a MailHog
// backed implementation.
package mailbox

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gobwas/glob"
)

// Message is one email as seen by the verification poller.
type Message struct {
	ID      string
	From    string
	To      []string
	Subject string
	HTML    string
}

// Credentials unlock a mailbox.
type Credentials struct {
	Password string
}

// Query selects messages by sender and subject.
type Query struct {
	// From is a glob matched against the sender address, e.g.
	// "noreply@github.com" or "*@github.com". Empty matches any sender.
	From string

	// Subject must appear in the subject, case-insensitively. Empty matches
	// any subject.
	Subject string
}

// String renders the query in webmail search syntax.
func (q Query) String() string {
	var parts []string
	if q.From != "" {
		parts = append(parts, "from:"+q.From)
	}
	if q.Subject != "" {
		parts = append(parts, q.Subject)
	}
	return strings.Join(parts, " ")
}

var (
	globCache   = make(map[string]glob.Glob)
	globCacheMu sync.Mutex
)

func compile(pattern string) (glob.Glob, error) {
	globCacheMu.Lock()
	defer globCacheMu.Unlock()
	if g, ok := globCache[pattern]; ok {
		return g, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid sender pattern %q: %w", pattern, err)
	}
	globCache[pattern] = g
	return g, nil
}

// Validate reports whether the From pattern compiles.
func (q Query) Validate() error {
	if q.From == "" {
		return nil
	}
	_, err := compile(strings.ToLower(q.From))
	return err
}

// Matches reports whether m satisfies q. An invalid From never matches.
func (q Query) Matches(m Message) bool {
	if q.From != "" {
		g, err := compile(strings.ToLower(q.From))
		if err != nil || !g.Match(senderAddress(m.From)) {
			return false
		}
	}
	if q.Subject != "" && !strings.Contains(strings.ToLower(m.Subject), strings.ToLower(q.Subject)) {
		return false
	}
	return true
}

// Filter returns the messages matching q, in order.
func (q Query) Filter(msgs []Message) []Message {
	var out []Message
	for _, m := range msgs {
		if q.Matches(m) {
			out = append(out, m)
		}
	}
	return out
}

// senderAddress extracts the bare lowercase address from a From header
// such as `GitHub <noreply@github.com>`.
func senderAddress(from string) string {
	from = strings.TrimSpace(from)
	if i := strings.LastIndex(from, "<"); i >= 0 {
		if j := strings.Index(from[i:], ">"); j > 0 {
			from = from[i+1 : i+j]
		}
	}
	return strings.ToLower(strings.TrimSpace(from))
}

// Session is an open mailbox.
type Session interface {
	// Messages returns the messages matching q, newest first.
	Messages(ctx context.Context, q Query) ([]Message, error)
}

// Provider opens mailboxes by address.
type Provider interface {
	Open(ctx context.Context, address string, creds Credentials) (Session, error)
}
