package workflow

// Selectors for github.com pages. They track the live site's markup.
const (
	SignUpLoginField    = `input[id="user[login]"]`
	SignUpEmailField    = `input[id="user[email]"]`
	PasswordField       = `input[type=password]`
	SignUpSubmit        = `button[type=submit].btn-primary`
	SignUpSkipCustomize = `a.alternate-action`

	SignInLoginField = `input[name=login]`
	SignInSubmit     = `input[type=submit].btn-primary`

	AccountMenu  = `.HeaderNavlink.name`
	LogoutSubmit = `.logout-form button[type=submit]`

	StarredButton   = `.starred button`
	UnstarredButton = `.unstarred button`
)

// SignUp creates an account from the home page registration form.
//
// The site always shows a plan page and then a customize page before the
// dashboard, so both are fixed steps.
var SignUp = Workflow{
	Name: "signup",
	Steps: []Step{
		{Action: Navigate, Target: "/"},
		{Action: WaitForElement, Target: SignUpLoginField, Visible: true},
		{Action: TypeText, Target: SignUpLoginField, Input: InputUsername},
		{Action: TypeText, Target: SignUpEmailField, Input: InputEmail},
		{Action: TypeText, Target: PasswordField, Input: InputPassword},
		{Action: WaitForNavigation, Target: SignUpSubmit},

		// /join/plan
		{Action: WaitForElement, Target: SignUpSubmit},
		{Action: WaitForNavigation, Target: SignUpSubmit},

		// /join/customize
		{Action: WaitForElement, Target: SignUpSkipCustomize, Visible: true},
		{Action: WaitForNavigation, Target: SignUpSkipCustomize},
	},
}

// SignIn signs in through /login.
//
// The page reached after submitting is not inspected. A rejected password
// lands back on /login and still counts as success.
var SignIn = Workflow{
	Name: "signin",
	Steps: []Step{
		{Action: Navigate, Target: "/login"},
		{Action: WaitForElement, Target: SignInLoginField, Visible: true},
		{Action: TypeText, Target: SignInLoginField, Input: InputLogin},
		{Action: TypeText, Target: PasswordField, Input: InputPassword},
		{Action: WaitForNavigation, Target: SignInSubmit},
	},
}

// SignOut signs out through the account menu on the home page.
var SignOut = Workflow{
	Name: "signout",
	Steps: []Step{
		{Action: Navigate, Target: "/"},
		{Action: WaitForElement, Target: AccountMenu},
		{Action: Click, Target: AccountMenu},
		{Action: WaitForElement, Target: LogoutSubmit, Visible: true},
		{Action: WaitForNavigation, Target: LogoutSubmit},
	},
}
