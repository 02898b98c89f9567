package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/battlewithbytes/lookout/internal/app"
	"github.com/battlewithbytes/lookout/internal/github"
	"github.com/battlewithbytes/lookout/internal/prompt"
	"github.com/battlewithbytes/lookout/internal/ui"
)

func init() {
	rootCmd.AddCommand(userCmd)
}

var userCmd = &cobra.Command{
	Use:   "user [username]",
	Short: "Look up a GitHub user profile",
	Long: "Look up a GitHub user profile. Without a username, and with a terminal on\n" +
		"stdin, an interactive prompt offers suggestions and lets you retry or clear.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client := github.NewClient(github.ClientConfig{
			BaseURL:   cfg.GitHub.APIURL,
			UserAgent: cfg.GitHub.UserAgent,
		})
		ports := ui.NewUserPorts(os.Stdout, ui.NewTheme(ui.Renderer))
		finder := app.NewUserFinder(client, ports)

		raw := ""
		if len(args) == 1 {
			raw = args[0]
		}
		if !interactive() {
			if raw == "" {
				return fmt.Errorf("a username argument is required when stdin is not a terminal")
			}
			return finder.Search(cmd.Context(), raw)
		}
		return runUserSession(cmd.Context(), finder, raw)
	},
}

// runUserSession alternates between searching and asking what to do next
// until the user quits.
func runUserSession(ctx context.Context, finder *app.UserFinder, raw string) error {
	action := prompt.ActionSearch
	for {
		switch action {
		case prompt.ActionSearch:
			if raw == "" {
				var answers prompt.UsernameAnswers
				if err := prompt.UsernameForm(cfg.GitHub.Suggestions, &answers).RunWithContext(ctx); err != nil {
					return formErr(err)
				}
				raw = answers.Username()
			}
			finder.Search(ctx, raw)
			raw = ""
		case prompt.ActionRetry:
			finder.Retry(ctx)
		case prompt.ActionReset:
			if err := finder.Reset(); err != nil {
				return err
			}
		case prompt.ActionQuit:
			return nil
		}

		action = ""
		if err := prompt.NextActionForm(finder.State(), &action).RunWithContext(ctx); err != nil {
			return formErr(err)
		}
	}
}

// formErr treats ctrl-c in a form as a normal exit.
func formErr(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return nil
	}
	return fmt.Errorf("prompt: %w", err)
}
