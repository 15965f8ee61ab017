// ABOUTME: Root cobra command and shared configuration loading
// ABOUTME: Loads environment configuration once and applies command-line overrides

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	stdlogger "github.com/Lucasff16/arxiv-api-backend/infrastructure/logger/standard"
	"github.com/Lucasff16/arxiv-api-backend/pkg/config"
)

// rootOptions holds persistent flags shared by every command
type rootOptions struct {
	logLevel string
	cache    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "arxiv-api",
		Short: "arXiv search API server",
		Long: `arxiv-api serves arXiv search results over HTTP.

Configuration comes from environment variables (PORT, ARXIV_BASE_URL,
CACHE_TYPE, LOG_LEVEL, ...). Flags override the matching variables.

Example usage:
  arxiv-api                       # Serve on $PORT (default 8000)
  arxiv-api serve --port 9000     # Serve on another port
  arxiv-api search quantum gravity`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts, "")
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.cache, "cache", "", "cache backend override (memory, redis, sqlite, none)")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newSearchCmd(opts))

	return cmd
}

// loadConfig reads the environment, applies flag overrides and validates the result
func loadConfig(opts *rootOptions, port string) (*config.Config, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.cache != "" {
		cfg.Cache.Type = opts.cache
	}
	if port != "" {
		cfg.Server.Port = port
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, cmd *cobra.Command) (*stdlogger.StandardLogger, error) {
	return stdlogger.New(stdlogger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Output: cmd.ErrOrStderr(),
	})
}
