package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &Error{Kind: KindElementTimeout, Selector: "#login"})

	assert.True(t, errors.Is(err, ErrElementTimeout))
	assert.False(t, errors.Is(err, ErrPrecondition))
	assert.Equal(t, KindElementTimeout, KindOf(err))
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "precondition",
			err:      NewPreconditionError("signin", "requires no authentication"),
			expected: "signin: precondition violation: requires no authentication",
		},
		{
			name:     "element timeout with step",
			err:      &Error{Kind: KindElementTimeout, Op: "signout", Step: 3, Selector: ".logout-form button[type=submit]", Err: errors.New("timeout 30000ms exceeded")},
			expected: `signout: element timeout (step 3, target ".logout-form button[type=submit]"): timeout 30000ms exceeded`,
		},
		{
			name:     "verification not found",
			err:      &Error{Kind: KindVerificationNotFound, Op: "verify", Address: "a@b.c"},
			expected: `verify: verification not found (address "a@b.c")`,
		},
		{
			name:     "resolution failure",
			err:      &Error{Kind: KindResolutionFailure, Package: "left-pad", Message: "no repository field"},
			expected: `resolution failure: no repository field (package "left-pad")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &Error{Kind: KindResolutionFailure, Err: cause}
	assert.ErrorIs(t, err, cause)
}

func TestCredentialsLogin(t *testing.T) {
	assert.Equal(t, "octo", Credentials{Username: "octo", Email: "o@x.io"}.Login())
	assert.Equal(t, "o@x.io", Credentials{Email: "o@x.io"}.Login())
	assert.Equal(t, "", Credentials{}.Login())
}

func TestRepoIdentifierPath(t *testing.T) {
	r := RepoIdentifier{Owner: "avajs", Name: "ava"}
	assert.Equal(t, "avajs/ava", r.Path())
	assert.Equal(t, "avajs/ava", r.String())
}
