package prompt

import (
	"errors"

	"github.com/charmbracelet/huh"

	"github.com/battlewithbytes/lookout/internal/github"
	"github.com/battlewithbytes/lookout/internal/search"
)

// OtherChoice is the suggestion-list entry that reveals the free-text input.
const OtherChoice = "__other__"

// MinPasswordLength is the shortest serve-mode password accepted.
const MinPasswordLength = 8

// UsernameAnswers holds the username form state.
type UsernameAnswers struct {
	Choice string
	Typed  string
}

// Username returns the picked suggestion or the typed value.
func (a *UsernameAnswers) Username() string {
	if a.Choice == "" || a.Choice == OtherChoice {
		return a.Typed
	}
	return a.Choice
}

// PasswordAnswers holds the password form state.
type PasswordAnswers struct {
	Password        string
	PasswordConfirm string
}

// Action is what the user wants after a search settles.
type Action string

const (
	ActionSearch Action = "search"
	ActionRetry  Action = "retry"
	ActionReset  Action = "reset"
	ActionQuit   Action = "quit"
)

// SuggestionOptions lists the suggestions followed by a free-text entry.
func SuggestionOptions(suggestions []string) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(suggestions)+1)
	for _, s := range suggestions {
		opts = append(opts, huh.NewOption(s, s))
	}
	return append(opts, huh.NewOption("Type a username…", OtherChoice))
}

// NextActionOptions lists the actions legal after state.
func NextActionOptions(state search.State) []huh.Option[Action] {
	opts := []huh.Option[Action]{huh.NewOption("Search another user", ActionSearch)}
	if state == search.Error {
		opts = append(opts, huh.NewOption("Retry", ActionRetry))
	}
	return append(opts,
		huh.NewOption("Clear", ActionReset),
		huh.NewOption("Quit", ActionQuit),
	)
}

// ValidateUsernameInput reports the same messages the finder would show.
func ValidateUsernameInput(s string) error {
	if _, err := github.ValidateUsername(s); err != nil {
		return errors.New(err.Message)
	}
	return nil
}

// ValidatePassword enforces MinPasswordLength.
func ValidatePassword(s string) error {
	if len(s) < MinPasswordLength {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}
