// Package prompt holds the interactive huh forms the CLI shows when stdin is
// a terminal.
package prompt

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/battlewithbytes/lookout/internal/search"
)

// UsernameForm asks for a username, offering suggestions first when there
// are any.
func UsernameForm(suggestions []string, answers *UsernameAnswers) *huh.Form {
	groups := []*huh.Group{}
	if len(suggestions) > 0 {
		groups = append(groups, suggestionGroup(suggestions, answers))
	} else {
		answers.Choice = OtherChoice
	}
	groups = append(groups, usernameGroup(answers))
	return huh.NewForm(groups...).WithTheme(huh.ThemeCatppuccin())
}

func suggestionGroup(suggestions []string, answers *UsernameAnswers) *huh.Group {
	return huh.NewGroup(
		huh.NewSelect[string]().
			Title("GitHub User Finder").
			Description("Pick a suggestion or type a username.").
			Options(SuggestionOptions(suggestions)...).
			Value(&answers.Choice),
	)
}

func usernameGroup(answers *UsernameAnswers) *huh.Group {
	return huh.NewGroup(
		huh.NewInput().
			Title("GitHub username").
			Placeholder("octocat").
			Value(&answers.Typed).
			Validate(ValidateUsernameInput),
	).WithHideFunc(func() bool { return answers.Choice != OtherChoice })
}

// NextActionForm asks what to do after a search settles. Retry is offered
// only from the Error state.
func NextActionForm(state search.State, action *Action) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Action]().
				Title("What next?").
				Options(NextActionOptions(state)...).
				Value(action),
		),
	).WithTheme(huh.ThemeCatppuccin())
}

// RetryForm asks whether to repeat a failed request.
func RetryForm(retry *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Try again?").
				Affirmative("Retry").
				Negative("Quit").
				Value(retry),
		),
	).WithTheme(huh.ThemeCatppuccin())
}

// AskLocationConsent asks whether the host position may be looked up.
func AskLocationConsent(ctx context.Context) (bool, error) {
	allow := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Allow lookout to use your location?").
				Description("Your approximate position is derived from your public IP address\n"+
					"and sent to the weather service as latitude and longitude.").
				Affirmative("Allow").
				Negative("Deny").
				Value(&allow),
		),
	).WithTheme(huh.ThemeCatppuccin())
	if err := form.RunWithContext(ctx); err != nil {
		return false, fmt.Errorf("location prompt: %w", err)
	}
	return allow, nil
}

// PasswordForm collects a new serve-mode password twice.
func PasswordForm(answers *PasswordAnswers) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&answers.Password).
				Validate(ValidatePassword),
			huh.NewInput().
				Title("Confirm Password").
				EchoMode(huh.EchoModePassword).
				Value(&answers.PasswordConfirm).
				Validate(func(s string) error {
					if s != answers.Password {
						return fmt.Errorf("passwords do not match")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeCatppuccin())
}
