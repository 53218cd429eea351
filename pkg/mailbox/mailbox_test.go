package mailbox

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryString(t *testing.T) {
	q := Query{From: "noreply@github.com", Subject: "please verify"}
	assert.Equal(t, "from:noreply@github.com please verify", q.String())
	assert.Equal(t, "", Query{}.String())
}

func TestQueryMatches(t *testing.T) {
	verify := Message{From: "GitHub <noreply@github.com>", Subject: "[GitHub] Please verify your email address."}

	tests := []struct {
		name     string
		query    Query
		msg      Message
		expected bool
	}{
		{"exact sender and subject", Query{From: "noreply@github.com", Subject: "please verify"}, verify, true},
		{"glob sender", Query{From: "*@github.com"}, verify, true},
		{"sender case-insensitive", Query{From: "NoReply@GitHub.com"}, verify, true},
		{"wrong sender", Query{From: "support@github.com"}, verify, false},
		{"wrong subject", Query{Subject: "password reset"}, verify, false},
		{"bare sender header", Query{From: "noreply@github.com"}, Message{From: "noreply@github.com"}, true},
		{"empty query matches all", Query{}, Message{}, true},
		{"invalid glob never matches", Query{From: "[abc"}, verify, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.query.Matches(tt.msg))
		})
	}
}

func TestQueryValidate(t *testing.T) {
	assert.NoError(t, Query{From: "*@github.com"}.Validate())
	assert.NoError(t, Query{}.Validate())
	assert.Error(t, Query{From: "[abc"}.Validate())
}

func TestQueryFilterKeepsOrder(t *testing.T) {
	msgs := []Message{
		{ID: "1", From: "noreply@github.com"},
		{ID: "2", From: "spam@example.com"},
		{ID: "3", From: "noreply@github.com"},
	}
	got := Query{From: "noreply@github.com"}.Filter(msgs)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
}

const mailHogResponse = `{
  "total": 3,
  "count": 3,
  "start": 0,
  "items": [
    {
      "ID": "multi@mailhog",
      "Content": {
        "Headers": {
          "From": ["GitHub <noreply@github.com>"],
          "To": ["octocat@example.com"],
          "Subject": ["[GitHub] Please verify your email address."],
          "Content-Type": ["multipart/alternative; boundary=xyz"]
        },
        "Body": "--xyz..."
      },
      "MIME": {
        "Parts": [
          {"Headers": {"Content-Type": ["text/plain; charset=UTF-8"]}, "Body": "plain text"},
          {"Headers": {"Content-Type": ["text/html; charset=UTF-8"], "Content-Transfer-Encoding": ["quoted-printable"]},
           "Body": "<a class=3D\"cta-button\" href=3D\"https://github.com/users/confirm?token=3Dabc\">Verify</a>"}
        ]
      }
    },
    {
      "ID": "single@mailhog",
      "Content": {
        "Headers": {
          "From": ["noreply@github.com"],
          "Subject": ["Please verify"],
          "Content-Type": ["text/html"]
        },
        "Body": "<p>hi</p>"
      },
      "MIME": null
    },
    {
      "ID": "other@mailhog",
      "Content": {
        "Headers": {
          "From": ["news@example.com"],
          "Subject": ["Newsletter"]
        },
        "Body": "<p>news</p>"
      },
      "MIME": null
    }
  ]
}`

func TestMailHogMessages(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/search", r.URL.Path)
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, mailHogResponse)
	}))
	defer srv.Close()

	provider := NewMailHog(srv.URL + "/")
	session, err := provider.Open(context.Background(), "octocat@example.com", Credentials{})
	require.NoError(t, err)

	msgs, err := session.Messages(context.Background(), Query{From: "noreply@github.com", Subject: "please verify"})
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Contains(t, gotQuery, "kind=to")
	assert.Contains(t, gotQuery, "query=octocat%40example.com")

	assert.Equal(t, "multi@mailhog", msgs[0].ID)
	assert.Equal(t, []string{"octocat@example.com"}, msgs[0].To)
	assert.Equal(t, `<a class="cta-button" href="https://github.com/users/confirm?token=abc">Verify</a>`, msgs[0].HTML)

	assert.Equal(t, "single@mailhog", msgs[1].ID)
	assert.Equal(t, "<p>hi</p>", msgs[1].HTML)
}

func TestMailHogErrors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down", http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		session, err := NewMailHog(srv.URL).Open(context.Background(), "a@b.c", Credentials{})
		require.NoError(t, err)
		_, err = session.Messages(context.Background(), Query{})
		assert.ErrorContains(t, err, "503")
	})

	t.Run("invalid json", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "{not json")
		}))
		defer srv.Close()

		session, err := NewMailHog(srv.URL).Open(context.Background(), "a@b.c", Credentials{})
		require.NoError(t, err)
		_, err = session.Messages(context.Background(), Query{})
		assert.ErrorContains(t, err, "invalid JSON")
	})

	t.Run("empty address", func(t *testing.T) {
		_, err := NewMailHog("").Open(context.Background(), "", Credentials{})
		assert.Error(t, err)
	})
}

func TestNewMailHogDefaults(t *testing.T) {
	m := NewMailHog("")
	assert.Equal(t, DefaultMailHogURL, m.BaseURL)
	assert.Equal(t, 50, m.Limit)
	assert.NotNil(t, m.Client)
}
