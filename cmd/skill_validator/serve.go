package main

import (
	"os/signal"
	"syscall"

	"github.com/jonathan/skill-validator/internal/config"
	"github.com/jonathan/skill-validator/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort       int
	serveMaxUpload  int64
	serveUseBrowser bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for skill validation and text extraction.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().Int64Var(&serveMaxUpload, "max-upload-bytes", server.DefaultMaxUploadBytes, "Maximum request body and upload size")
	serveCmd.Flags().BoolVar(&serveUseBrowser, "use-browser", false, "Render script-heavy job pages with a headless browser")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(config.Config{UseBrowser: serveUseBrowser, Verbose: verbose})
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

	srv := server.New(server.Config{
		Port:           servePort,
		MaxUploadBytes: serveMaxUpload,
	}, d.engine, d.fetcher, logger)

	return srv.Start(ctx)
}
