package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/eringen/vizitka"
	"github.com/eringen/vizitka/slogan"
)

type serveFlags struct {
	addr      string
	envFile   string
	logLevel  string
	logFormat string
}

func newServeCmd() *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the card designer web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", "", "Listen address (overrides ADDR)")
	cmd.Flags().StringVar(&flags.envFile, "env-file", ".env", "Optional dotenv file to load")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")
	cmd.Flags().StringVar(&flags.logFormat, "log-format", "", "console or json (overrides LOG_FORMAT)")

	return cmd
}

func runServe(ctx context.Context, flags *serveFlags) error {
	if err := loadEnvFile(flags.envFile); err != nil {
		return err
	}

	log, err := vizitka.NewLogger(vizitka.LogOptions{
		Level:  firstNonEmpty(flags.logLevel, os.Getenv("LOG_LEVEL")),
		Format: firstNonEmpty(flags.logFormat, os.Getenv("LOG_FORMAT")),
	})
	if err != nil {
		return err
	}

	cfg, err := configFromEnv()
	if err != nil {
		return err
	}
	if flags.addr != "" {
		cfg.Addr = flags.addr
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := vizitka.New(cfg, vizitka.WithLogger(log))
	defer app.Close()
	return app.Start(ctx)
}

// loadEnvFile applies a dotenv file without overriding variables already
// set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func configFromEnv() (vizitka.Config, error) {
	cfg := vizitka.Config{
		Title:         os.Getenv("SITE_TITLE"),
		Addr:          vizitka.EnvOr("ADDR", ":3000"),
		APIKey:        firstNonEmpty(os.Getenv("API_KEY"), os.Getenv("GEMINI_API_KEY")),
		Model:         vizitka.EnvOr("GENAI_MODEL", slogan.DefaultModel),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		CookieSecure:  strings.EqualFold(os.Getenv("COOKIE_SECURE"), "true"),
	}

	if v := os.Getenv("SLOGAN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("SLOGAN_TIMEOUT: %w", err)
		}
		cfg.SloganTimeout = d
	}
	if v := os.Getenv("SLOGAN_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("SLOGAN_LIMIT: %w", err)
		}
		cfg.SloganLimit = n
	}
	if v := os.Getenv("MAX_WORKSPACES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("MAX_WORKSPACES: %w", err)
		}
		cfg.MaxWorkspaces = n
	}
	if v := os.Getenv("SLOGAN_POLICY"); v != "" {
		p, err := slogan.ParsePolicy(v)
		if err != nil {
			return cfg, fmt.Errorf("SLOGAN_POLICY: %w", err)
		}
		cfg.SloganPolicy = p
	}
	return cfg, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
