package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/battlewithbytes/lookout/internal/config"
	"github.com/battlewithbytes/lookout/internal/search"
	"github.com/battlewithbytes/lookout/internal/ui"
	"github.com/battlewithbytes/lookout/internal/version"
)

var (
	configPath string
	envFile    string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "lookout",
	Short:         "Find GitHub users and check the local weather",
	Version:       version.Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(envFile); err != nil {
			return err
		}
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
		setupLogging(cfg.Log)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "path to config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config")
	rootCmd.Long = ui.Green.Render("lookout") + " " + ui.Cyan.Render(version.Version) + "\n" +
		ui.Dim.Render("Look up GitHub profiles and the weather where you are, from the terminal or a browser.")
}

// setupLogging sends the standard logger to stderr, and also to a rotating
// file when log.file is set.
func setupLogging(lc config.LogConfig) {
	var out io.Writer = os.Stderr
	if lc.File != "" {
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   lc.File,
			MaxSize:    lc.MaxSizeMB,
			MaxBackups: lc.MaxBackups,
		})
	}
	log.SetOutput(out)
}

// interactive reports whether stdin is a terminal a form can run on.
func interactive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		// view ports have already shown search failures
		var appErr *search.AppError
		if !errors.As(err, &appErr) {
			fmt.Fprintln(os.Stderr, ui.Red.Render("error:"), err)
		}
		os.Exit(1)
	}
}
