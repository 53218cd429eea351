package mailbox

import (
	"context"
	"fmt"
	"io"
	"mime/quotedprintable"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultMailHogURL is MailHog's default HTTP API address.
const DefaultMailHogURL = "http://localhost:8025"

// MailHog reads mail through a MailHog compatible HTTP API
// (GET /api/v2/search). MailHog has no per-mailbox auth, so credentials are
// accepted and ignored.
type MailHog struct {
	BaseURL string
	Client  *http.Client

	// Limit caps how many messages one query fetches
	Limit int
}

var _ Provider = (*MailHog)(nil)

// NewMailHog creates a provider for the API at baseURL.
func NewMailHog(baseURL string) *MailHog {
	if baseURL == "" {
		baseURL = DefaultMailHogURL
	}
	return &MailHog{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 30 * time.Second},
		Limit:   50,
	}
}

// Open returns a session scoped to messages addressed to address.
func (m *MailHog) Open(ctx context.Context, address string, _ Credentials) (Session, error) {
	if address == "" {
		return nil, fmt.Errorf("mailbox address is required")
	}
	return &mailHogSession{provider: m, address: address}, nil
}

type mailHogSession struct {
	provider *MailHog
	address  string
}

func (s *mailHogSession) Messages(ctx context.Context, q Query) ([]Message, error) {
	params := url.Values{}
	params.Set("kind", "to")
	params.Set("query", s.address)
	params.Set("limit", fmt.Sprint(s.provider.Limit))
	endpoint := s.provider.BaseURL + "/api/v2/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build mailbox request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.provider.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mailbox request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read mailbox response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mailbox returned %s", resp.Status)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("mailbox returned invalid JSON")
	}

	var msgs []Message
	gjson.GetBytes(body, "items").ForEach(func(_, item gjson.Result) bool {
		msgs = append(msgs, parseMailHogItem(item))
		return true
	})
	return q.Filter(msgs), nil
}

func parseMailHogItem(item gjson.Result) Message {
	headers := item.Get("Content.Headers")
	msg := Message{
		ID:      item.Get("ID").String(),
		From:    headers.Get("From.0").String(),
		Subject: headers.Get("Subject.0").String(),
	}
	headers.Get("To").ForEach(func(_, v gjson.Result) bool {
		msg.To = append(msg.To, v.String())
		return true
	})

	// multipart mail: prefer the text/html part
	item.Get("MIME.Parts").ForEach(func(_, part gjson.Result) bool {
		ctype := part.Get(`Headers.Content-Type.0`).String()
		if strings.HasPrefix(strings.ToLower(ctype), "text/html") {
			msg.HTML = decodeBody(part.Get("Body").String(), part.Get(`Headers.Content-Transfer-Encoding.0`).String())
			return false
		}
		return true
	})

	if msg.HTML == "" {
		ctype := headers.Get(`Content-Type.0`).String()
		if ctype == "" || strings.HasPrefix(strings.ToLower(ctype), "text/html") {
			msg.HTML = decodeBody(item.Get("Content.Body").String(), headers.Get(`Content-Transfer-Encoding.0`).String())
		}
	}
	return msg
}

func decodeBody(body, encoding string) string {
	if !strings.EqualFold(strings.TrimSpace(encoding), "quoted-printable") {
		return body
	}
	decoded, err := io.ReadAll(quotedprintable.NewReader(strings.NewReader(body)))
	if err != nil {
		return body
	}
	return string(decoded)
}
