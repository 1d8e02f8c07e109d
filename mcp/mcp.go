// Package mcp provides the MCP (Model Context Protocol) server exposing Cube
// analytics chat as a tool plus a pair of static resources.
package mcp

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/cubestack/cubemcp/pkg/utils"
)

// ChatStreamer issues one authenticated streaming chat call and hands back
// the open response body.
type ChatStreamer interface {
	StreamChat(ctx context.Context, chatID, input string) (io.ReadCloser, error)
}

type Config struct {
	// Streamer performs the upstream Cube chat call
	Streamer ChatStreamer

	// Logger is the configured zap logger
	Logger *zap.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the chat tool and static resources.
func NewServer(c Config) (*Server, error) {
	if c.Streamer == nil {
		return nil, errors.New("chat streamer is required")
	}
	if c.Logger == nil {
		return nil, errors.New("logger is required")
	}

	s := &Server{
		config: c,
	}

	// Create the MCP server
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    serverName,
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	// Add tools
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        chatToolName,
		Description: chatDescription,
	}, s.handleChat)

	// Add static resources; unknown URIs fail at the SDK's dispatch lookup
	mcpServer.AddResource(&mcp.Resource{
		URI:         serverInfoURI,
		Name:        "server-info",
		Description: "Plain-text description of this server",
		MIMEType:    "text/plain",
	}, s.handleServerInfo)

	mcpServer.AddResource(&mcp.Resource{
		URI:         exampleConfigURI,
		Name:        "example-config",
		Description: "JSON blob describing server name, version, and features",
		MIMEType:    "application/json",
	}, s.handleExampleConfig)

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Run serves the MCP protocol over stdio until ctx is cancelled or the host
// closes the connection.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}
