package workflow

import (
	"fmt"

	"github.com/entrhq/ghauto/pkg/types"
)

// Action is the kind of a single page step.
type Action int

const (
	// Navigate loads Target, a site-relative path or an absolute URL
	Navigate Action = iota

	// WaitForElement waits for Target to be attached, or visible when
	// Step.Visible is set
	WaitForElement

	// TypeText types the value of Step.Input into Target
	TypeText

	// Click clicks Target without waiting for anything
	Click

	// WaitForNavigation clicks Target and waits for the navigation the
	// click triggers. Both are started together.
	WaitForNavigation
)

func (a Action) String() string {
	switch a {
	case Navigate:
		return "navigate"
	case WaitForElement:
		return "wait"
	case TypeText:
		return "type"
	case Click:
		return "click"
	case WaitForNavigation:
		return "submit"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Input names a runtime value typed by a TypeText step.
type Input string

const (
	InputUsername Input = "username"
	InputEmail    Input = "email"
	InputPassword Input = "password"

	// InputLogin is the username, or the email when no username is known
	InputLogin Input = "login"
)

// Inputs holds the runtime values for one workflow run.
type Inputs map[Input]string

// InputsFor builds the inputs for an account's credentials.
func InputsFor(c types.Credentials) Inputs {
	return Inputs{
		InputUsername: c.Username,
		InputEmail:    c.Email,
		InputPassword: c.Password,
		InputLogin:    c.Login(),
	}
}

// Step is one page interaction.
type Step struct {
	Action  Action
	Target  string
	Input   Input
	Visible bool
}

func (s Step) String() string {
	switch s.Action {
	case TypeText:
		return fmt.Sprintf("%s %s into %s", s.Action, s.Input, s.Target)
	case WaitForElement:
		if s.Visible {
			return fmt.Sprintf("%s for visible %s", s.Action, s.Target)
		}
		return fmt.Sprintf("%s for %s", s.Action, s.Target)
	default:
		return fmt.Sprintf("%s %s", s.Action, s.Target)
	}
}

// Workflow is a named, fixed sequence of steps run on one page.
type Workflow struct {
	Name  string
	Steps []Step
}
