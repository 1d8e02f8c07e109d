// Package servecmder provides the serve command for running the MCP server.
package servecmder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cubestack/cubemcp/mcp"
	"github.com/cubestack/cubemcp/pkg/config"
	"github.com/cubestack/cubemcp/pkg/cube"
	"github.com/cubestack/cubemcp/pkg/logger"
)

type ServeCommander struct {
	listen     string
	configPath string
	debug      bool

	logger *zap.Logger
}

const serveLongDesc string = `Run the cubemcp MCP server.

By default the server speaks the MCP stdio transport, for use as a local
server launched by an AI-assistant host. With --listen it serves the
streamable HTTP transport instead.

Examples:
  cubemcp serve
  cubemcp serve --listen :8080
  cubemcp serve --config ~/.cubemcp/config.toml`

const serveShortDesc string = "Run the MCP server"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "Serve streamable HTTP on this address instead of stdio")
	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to a TOML config file (env vars take precedence)")

	return cmd
}

func (c *ServeCommander) run() error {
	// Stdout carries the stdio protocol frames, so logs go to stderr.
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	// An incomplete configuration is not fatal: the server starts and the
	// chat tool explains what is missing when invoked.
	if err := cfg.Validate(); err != nil {
		c.logger.Warn("cube configuration incomplete", zap.Error(err))
	}

	client := cube.NewClient(cfg, c.logger)

	server, err := mcp.NewServer(mcp.Config{
		Streamer: client,
		Logger:   c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	if c.listen != "" {
		return c.serveHTTP(server)
	}

	return c.serveStdio(server)
}

func (c *ServeCommander) serveStdio(server *mcp.Server) error {
	c.logger.Info("starting MCP server on stdio")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP server error: %w", err)
	}

	return nil
}

func (c *ServeCommander) serveHTTP(server *mcp.Server) error {
	c.logger.Info("starting MCP server on HTTP",
		zap.String("listen", c.listen),
	)

	httpServer := &http.Server{
		Addr:              c.listen,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
