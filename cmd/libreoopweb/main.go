package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	serverrun "github.com/vanzaam/LibreOOPWeb/internal/cmd/server"
	cfgpkg "github.com/vanzaam/LibreOOPWeb/internal/config"
	"github.com/vanzaam/LibreOOPWeb/internal/runtime"
	logpkg "github.com/vanzaam/LibreOOPWeb/pkg/log"
)

func main() {
	level := os.Getenv("OOP_LOG_LEVEL")
	parsed, err := logpkg.ParseLevel(level)
	if err != nil || level == "" {
		parsed = logpkg.InfoLevel
	}
	logger := logpkg.NewLogger(
		logpkg.WithLevel(parsed),
		logpkg.WithFormatter(&logpkg.TextFormatter{}),
		logpkg.WithOutput(logpkg.NewConsoleOutput()),
	)

	// Redirect standard library logs (used by Pebble) to our logger
	logpkg.RedirectStdLog(logger)

	rootCmd := &cobra.Command{
		Use:   "libreoopweb",
		Short: "LibreOOPWeb relay CLI",
		Long:  "LibreOOPWeb relays glucose sensor readings between uploaders and the offline algorithm worker. This CLI manages the server and basic operations.",
	}

	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start the relay server",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			dataDir, _ := cmd.Flags().GetString("data-dir")
			httpAddr, _ := cmd.Flags().GetString("http")
			fsyncMode, _ := cmd.Flags().GetString("fsync")
			fsyncIntervalMs, _ := cmd.Flags().GetInt("fsync-interval-ms")
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")

			cfg, err := cfgpkg.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfgpkg.FromEnv(&cfg)

			// flags win over file and env
			if httpAddr != "" {
				cfg.HTTPAddr = httpAddr
			}
			if dataDir != "" {
				cfg.DataDir = dataDir
			}
			if fsyncMode != "" {
				cfg.Fsync = fsyncMode
			}
			if fsyncIntervalMs > 0 {
				cfg.FsyncIntervalMs = fsyncIntervalMs
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if logFormat != "" {
				cfg.Log.Format = logFormat
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := serverrun.Run(ctx, serverrun.Options{
				DataDir:       cfg.DataDir,
				HTTPAddr:      cfg.HTTPAddr,
				Fsync:         runtime.FsyncModeFromString(cfg.Fsync),
				FsyncInterval: time.Duration(cfg.FsyncIntervalMs) * time.Millisecond,
				Config:        cfg,
			}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			// brief delay to allow logs flush
			time.Sleep(100 * time.Millisecond)
			return nil
		},
	}
	serverStartCmd.Flags().String("config", os.Getenv("OOP_CONFIG"), "Path to JSON config file")
	serverStartCmd.Flags().String("data-dir", "", "Data directory (if not specified, uses OS-specific application data directory)")
	serverStartCmd.Flags().String("http", "", "HTTP listen address (default :8080)")
	serverStartCmd.Flags().String("fsync", "", "Fsync mode: always|interval|off")
	serverStartCmd.Flags().Int("fsync-interval-ms", 0, "When --fsync=interval, group-commit window in ms (default 5)")
	serverStartCmd.Flags().String("log-level", os.Getenv("OOP_LOG_LEVEL"), "Log level: debug|info|warn|error")
	serverStartCmd.Flags().String("log-format", os.Getenv("OOP_LOG_FORMAT"), "Log format: text|json (default text)")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	uptimeCmd := &cobra.Command{
		Use:   "uptime",
		Short: "Report whether the algorithm worker is polling",
		RunE: func(cmd *cobra.Command, args []string) error {
			plain, _ := cmd.Flags().GetBool("plain")
			u := apiURL() + "/v1/uptime"
			if plain {
				u += "?upordown=true"
			}
			resp, err := http.Get(u)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			fmt.Println(strings.TrimSpace(string(body)))
			return nil
		},
	}
	uptimeCmd.Flags().Bool("plain", false, "Print just up or down")
	rootCmd.AddCommand(uptimeCmd)

	purgeCmd := &cobra.Command{
		Use:   "purge-test-readings",
		Short: "Delete sentinel test readings from the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, _ := cmd.Flags().GetString("token")
			req, err := http.NewRequest(http.MethodPost, apiURL()+"/v1/admin/purge-test-readings", strings.NewReader(url.Values{}.Encode()))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req.Header.Set("Authorization", "Bearer "+token)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			fmt.Println(strings.TrimSpace(string(body)))
			return nil
		},
	}
	purgeCmd.Flags().String("token", os.Getenv("OOP_TOKEN"), "Processing capability token")
	rootCmd.AddCommand(purgeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func apiURL() string {
	if v := os.Getenv("OOP_HTTP"); v != "" {
		return v
	}
	return "http://127.0.0.1:8080"
}
