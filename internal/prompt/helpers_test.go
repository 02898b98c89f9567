package prompt

import (
	"testing"

	"github.com/battlewithbytes/lookout/internal/github"
	"github.com/battlewithbytes/lookout/internal/search"
)

func TestUsernameAnswers(t *testing.T) {
	a := &UsernameAnswers{Choice: "torvalds", Typed: "ignored"}
	if a.Username() != "torvalds" {
		t.Errorf("Username = %q", a.Username())
	}
	a.Choice = OtherChoice
	a.Typed = "octo-cat"
	if a.Username() != "octo-cat" {
		t.Errorf("Username = %q", a.Username())
	}
}

func TestSuggestionOptionsEndWithOther(t *testing.T) {
	opts := SuggestionOptions([]string{"octocat", "torvalds"})
	if len(opts) != 3 {
		t.Fatalf("len = %d, want 3", len(opts))
	}
	if opts[0].Value != "octocat" || opts[2].Value != OtherChoice {
		t.Errorf("opts = %+v", opts)
	}
}

func TestNextActionOptionsOfferRetryOnlyAfterError(t *testing.T) {
	has := func(state search.State, a Action) bool {
		for _, o := range NextActionOptions(state) {
			if o.Value == a {
				return true
			}
		}
		return false
	}
	if !has(search.Error, ActionRetry) {
		t.Error("retry should be offered after an error")
	}
	if has(search.Success, ActionRetry) {
		t.Error("retry should not be offered after success")
	}
	if !has(search.Success, ActionReset) || !has(search.Success, ActionQuit) {
		t.Error("reset and quit should always be offered")
	}
}

func TestValidateUsernameInput(t *testing.T) {
	if err := ValidateUsernameInput("octocat"); err != nil {
		t.Errorf("valid name rejected: %v", err)
	}
	if err := ValidateUsernameInput(""); err == nil || err.Error() != github.MsgUsernameRequired {
		t.Errorf("empty = %v", err)
	}
	if err := ValidateUsernameInput("a--b"); err == nil || err.Error() != github.MsgUsernameInvalid {
		t.Errorf("malformed = %v", err)
	}
}

func TestValidatePassword(t *testing.T) {
	if ValidatePassword("short") == nil {
		t.Error("short password accepted")
	}
	if err := ValidatePassword("long-enough"); err != nil {
		t.Errorf("long password rejected: %v", err)
	}
}
