package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/battlewithbytes/lookout/internal/config"
	"github.com/battlewithbytes/lookout/internal/prompt"
	"github.com/battlewithbytes/lookout/internal/ui"
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetPasswordCmd)
	configCmd.AddCommand(configClearPasswordCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and modify lookout configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		keySource := "not configured"
		if _, err := cfg.WeatherAPIKey(); err == nil {
			keySource = "configured"
		}

		fmt.Println(ui.Cyan.Render("GitHub:"))
		fmt.Println(ui.Dim.Render("  API:         ") + ui.White.Render(cfg.GitHub.APIURL))
		fmt.Println(ui.Dim.Render("  User-Agent:  ") + ui.White.Render(cfg.GitHub.UserAgent))
		fmt.Println(ui.Dim.Render("  Suggestions: ") + ui.White.Render(strings.Join(cfg.GitHub.Suggestions, ", ")))
		fmt.Println()
		fmt.Println(ui.Cyan.Render("Weather:"))
		fmt.Println(ui.Dim.Render("  API:         ") + ui.White.Render(cfg.Weather.APIURL))
		fmt.Println(ui.Dim.Render("  API key:     ") + ui.White.Render(keySource))
		fmt.Println()
		fmt.Println(ui.Cyan.Render("Location:"))
		fmt.Println(ui.Dim.Render("  Provider:    ") + ui.White.Render(cfg.Location.Provider))
		fmt.Println(ui.Dim.Render("  Permission:  ") + ui.White.Render(cfg.Location.Permission))
		if cfg.Location.Provider == config.LocationProviderStatic {
			fmt.Println(ui.Dim.Render("  Position:    ") + ui.White.Render(fmt.Sprintf("%.4f, %.4f", cfg.Location.Latitude, cfg.Location.Longitude)))
		}
		fmt.Println(ui.Dim.Render("  Timeout:     ") + ui.White.Render(cfg.Location.Timeout.String()))
		fmt.Println(ui.Dim.Render("  Maximum age: ") + ui.White.Render(cfg.Location.MaximumAge.String()))
		fmt.Println()
		fmt.Println(ui.Cyan.Render("Service:"))
		fmt.Println(ui.Dim.Render("  Bind:        ") + ui.White.Render(fmt.Sprintf("%s:%d", cfg.Service.BindAddress, cfg.Service.Port)))
		fmt.Println(ui.Dim.Render("  Auth:        ") + ui.White.Render(cfg.Auth.Mode))
		if cfg.Log.File != "" {
			fmt.Println()
			fmt.Println(ui.Cyan.Render("Log:"))
			fmt.Println(ui.Dim.Render("  File:        ") + ui.White.Render(cfg.Log.File))
		}
		fmt.Println()
		fmt.Println(ui.Dim.Render("Config file: " + configPath))

		return nil
	},
}

var configSetPasswordCmd = &cobra.Command{
	Use:   "set-password",
	Short: "Require a password for lookout serve",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !interactive() {
			return fmt.Errorf("set-password needs a terminal")
		}

		var answers prompt.PasswordAnswers
		if err := prompt.PasswordForm(&answers).RunWithContext(cmd.Context()); err != nil {
			return formErr(err)
		}
		if answers.Password == "" {
			return nil
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(answers.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}
		cfg.Auth.Mode = config.AuthModePassword
		cfg.Auth.PasswordHash = string(hash)

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		if err := cfg.Save(configPath); err != nil {
			return err
		}
		fmt.Println(ui.Green.Render("✓") + " Password set; " + ui.White.Render("lookout serve") + " now requires login")
		return nil
	},
}

var configClearPasswordCmd = &cobra.Command{
	Use:   "clear-password",
	Short: "Turn off password authentication for lookout serve",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg.Auth.Mode = config.AuthModeNone
		cfg.Auth.PasswordHash = ""
		if err := cfg.Save(configPath); err != nil {
			return err
		}
		fmt.Println(ui.Green.Render("✓") + " Password authentication disabled")
		return nil
	},
}
