package workflow

import (
	"context"

	"github.com/entrhq/ghauto/pkg/browser"
	"github.com/entrhq/ghauto/pkg/types"
)

// ToggleStar makes repo's star state equal starred. It reports whether a
// click was needed. The caller must already be signed in.
//
// The repository page renders both a "starred" and an "unstarred" form and
// hides one of them. After clicking, the engine waits SettleDelay and reads
// the state again; an unchanged state is an error.
func (e *Engine) ToggleStar(ctx context.Context, repo types.RepoIdentifier, starred bool) (changed bool, err error) {
	op := "unstar"
	if starred {
		op = "star"
	}

	err = e.withPage(ctx, op, func(page browser.Page) error {
		if err := page.Goto(e.resolve(repo.Path())); err != nil {
			return stepError(op, 1, Step{Action: Navigate, Target: repo.Path()}, err)
		}
		if err := page.WaitForSelector(StarredButton, false); err != nil {
			return stepError(op, 2, Step{Action: WaitForElement, Target: StarredButton}, err)
		}

		current, err := readStarState(op, page)
		if err != nil {
			return err
		}
		if current == starred {
			debugLog.Debugf("%s: %s already in desired state", op, repo)
			return nil
		}

		target := StarredButton
		if starred {
			target = UnstarredButton
		}
		if err := page.Click(target); err != nil {
			return stepError(op, 3, Step{Action: Click, Target: target}, err)
		}
		changed = true

		if err := e.sleep(ctx, e.SettleDelay); err != nil {
			return err
		}

		after, err := readStarState(op, page)
		if err != nil {
			return err
		}
		if after != starred {
			return &types.Error{
				Kind:     types.KindElementTimeout,
				Op:       op,
				Step:     4,
				Selector: target,
				Message:  "star state did not change after click",
			}
		}
		debugLog.Infof("%s: %s done", op, repo)
		return nil
	})
	return changed, err
}

// readStarState reports whether the visible form is the starred one.
// Exactly one of the two forms must be visible.
func readStarState(op string, page browser.Page) (bool, error) {
	starredVisible, err := page.IsVisible(StarredButton)
	if err != nil {
		return false, stepError(op, 0, Step{Action: WaitForElement, Target: StarredButton}, err)
	}
	unstarredVisible, err := page.IsVisible(UnstarredButton)
	if err != nil {
		return false, stepError(op, 0, Step{Action: WaitForElement, Target: UnstarredButton}, err)
	}
	if starredVisible == unstarredVisible {
		return false, &types.Error{
			Kind:     types.KindElementTimeout,
			Op:       op,
			Selector: StarredButton + ", " + UnstarredButton,
			Message:  "exactly one star control must be visible",
		}
	}
	return starredVisible, nil
}
