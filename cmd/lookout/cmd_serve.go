package main

import (
	"context"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/battlewithbytes/lookout/internal/geo"
	"github.com/battlewithbytes/lookout/internal/github"
	"github.com/battlewithbytes/lookout/internal/server"
	"github.com/battlewithbytes/lookout/internal/weather"
	"github.com/battlewithbytes/lookout/web"
)

var (
	serveBind    string
	servePort    int
	serveWebRoot string
)

func getPrimaryIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return ""
	}
	for _, addr := range addrs {
		if ipNet, ok := addr.(*net.IPNet); ok && !ipNet.IP.IsLoopback() && ipNet.IP.To4() != nil {
			return ipNet.IP.String()
		}
	}
	return ""
}

func init() {
	serveCmd.Flags().StringVar(&serveBind, "bind", "", "bind address (default from config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (default from config)")
	serveCmd.Flags().StringVar(&serveWebRoot, "web-root", "", "serve page assets from this directory instead of the embedded copy")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser page and JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveBind != "" {
			cfg.Service.BindAddress = serveBind
		}
		if servePort != 0 {
			cfg.Service.Port = servePort
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		key, keyErr := cfg.WeatherAPIKey()

		fmt.Printf("lookout starting...\n")
		fmt.Printf("  listen:  %s:%d\n", cfg.Service.BindAddress, cfg.Service.Port)
		fmt.Printf("  github:  %s\n", cfg.GitHub.APIURL)
		fmt.Printf("  weather: %s\n", cfg.Weather.APIURL)
		if keyErr != nil {
			fmt.Printf("  weather: WARNING: %v\n", keyErr)
		}
		fmt.Printf("  auth:    %s\n", cfg.Auth.Mode)

		var spaFS fs.FS
		if serveWebRoot != "" {
			spaFS = os.DirFS(serveWebRoot)
			fmt.Printf("  page:    serving from disk (%s)\n", serveWebRoot)
		} else if sub, err := web.Static(); err == nil {
			spaFS = sub
			fmt.Printf("  page:    serving from embedded binary\n")
		} else {
			fmt.Println("  page:    not available (API-only mode)")
		}

		users := github.NewClient(github.ClientConfig{
			BaseURL:   cfg.GitHub.APIURL,
			UserAgent: cfg.GitHub.UserAgent,
		})
		conditions := weather.NewClient(weather.ClientConfig{
			Endpoint: cfg.Weather.APIURL,
			APIKey:   key,
		})
		srv := server.New(cfg, users, conditions, spaFS, server.WithLocationOptions(geo.Options{
			HighAccuracy: cfg.Location.HighAccuracy,
			Timeout:      cfg.Location.Timeout,
			MaximumAge:   cfg.Location.MaximumAge,
		}))

		errCh := make(chan error, 1)
		go func() {
			addr := srv.Addr()
			if strings.HasPrefix(addr, "0.0.0.0:") {
				if ip := getPrimaryIP(); ip != "" {
					fmt.Printf("\nListening on http://%s (http://%s)\n", addr, ip+addr[len("0.0.0.0"):])
				} else {
					fmt.Printf("\nListening on http://%s\n", addr)
				}
			} else {
				fmt.Printf("\nListening on http://%s\n", addr)
			}
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		// Graceful shutdown on SIGINT/SIGTERM, which cancel the command context
		select {
		case err := <-errCh:
			return fmt.Errorf("server error: %w", err)
		case <-cmd.Context().Done():
		}
		fmt.Println("\nShutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}
