// ABOUTME: search command runs one generate request from the terminal
// ABOUTME: Prints the formatted answer, or each frame as it arrives with --stream

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Lucasff16/arxiv-api-backend/core/dispatch"
	"github.com/Lucasff16/arxiv-api-backend/core/domain"
)

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var stream bool

	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Search arXiv and print formatted results",
		Long: `Run one search through the same pipeline as the /mcp endpoint.

Examples:
  arxiv-api search quantum computing
  arxiv-api search --stream "find au:hinton"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts, strings.Join(args, " "), stream)
		},
	}
	cmd.Flags().BoolVar(&stream, "stream", false, "print frames as they are produced")

	return cmd
}

func runSearch(cmd *cobra.Command, opts *rootOptions, input string, stream bool) error {
	cfg, err := loadConfig(opts, "")
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, cmd)
	if err != nil {
		return err
	}

	application, err := buildApp(cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	out := cmd.OutOrStdout()

	if !stream {
		frame, err := application.dispatcher.Generate(cmd.Context(), &input)
		if err != nil {
			return errors.New(dispatch.ErrorText(err))
		}
		_, err = fmt.Fprintln(out, frame.Text)
		return err
	}

	var failure string
	err = application.dispatcher.Stream(cmd.Context(), &input, func(ctx context.Context, frame domain.Frame) error {
		if frame.IsError() {
			failure = frame.Text
			return nil
		}
		_, err := fmt.Fprintf(out, "%s\n\n", frame.Text)
		return err
	})
	if err != nil {
		return err
	}
	if failure != "" {
		return errors.New(failure)
	}
	return nil
}
