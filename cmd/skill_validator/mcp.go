package main

import (
	"os/signal"
	"syscall"

	"github.com/jonathan/skill-validator/internal/config"
	"github.com/jonathan/skill-validator/internal/toolserver"
	"github.com/spf13/cobra"
)

// version is reported to MCP clients
var version = "dev"

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the validate_skills tool over MCP on stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout exposing the
validate_skills tool. Logs go to stderr so the protocol stream stays clean.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(config.Config{Verbose: verbose})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
	d, err := buildDeps(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()

	return toolserver.Run(ctx, toolserver.NewServer(d.engine, version, logger))
}
