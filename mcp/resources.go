package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cubestack/cubemcp/pkg/utils"
)

const (
	serverName = "cubemcp"

	serverInfoURI    = "info://server"
	exampleConfigURI = "config://example"
)

const serverInfoText = `Cubemcp is an MCP server bridging an AI-assistant host to a Cube
analytics agent. It exposes one tool, "chat", which forwards a message to the
agent's streaming chat endpoint and returns the accumulated response.`

// exampleConfig is the payload of the config://example resource.
type exampleConfig struct {
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	Features []string `json:"features"`
}

func (s *Server) handleServerInfo(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      serverInfoURI,
				MIMEType: "text/plain",
				Text:     serverInfoText,
			},
		},
	}, nil
}

func (s *Server) handleExampleConfig(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	blob, err := json.MarshalIndent(exampleConfig{
		Name:     serverName,
		Version:  utils.Version,
		Features: []string{"chat", "streaming", "bearer-auth"},
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling example config: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      exampleConfigURI,
				MIMEType: "application/json",
				Text:     string(blob),
			},
		},
	}, nil
}
