package types

// Credentials identifies a GitHub account. They are only ever held in memory.
type Credentials struct {
	Username string
	Email    string
	Password string
}

// Login returns the identifier typed into the sign-in form.
// The username wins over the email when both are set.
func (c Credentials) Login() string {
	if c.Username != "" {
		return c.Username
	}
	return c.Email
}

// RepoIdentifier names a single GitHub repository.
type RepoIdentifier struct {
	Owner string
	Name  string
}

// Path returns the canonical "owner/name" path.
func (r RepoIdentifier) Path() string {
	return r.Owner + "/" + r.Name
}

// String implements fmt.Stringer.
func (r RepoIdentifier) String() string {
	return r.Path()
}
