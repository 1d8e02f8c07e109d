package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/cubestack/cubemcp/pkg/config"
	"github.com/cubestack/cubemcp/pkg/cube"
	"github.com/cubestack/cubemcp/pkg/stream"
)

var (
	chatToolName    = "chat"
	chatDescription = "Send a message to the Cube analytics agent and return its accumulated response. Supports follow-up questions within the same session via chatId."
)

// ChatInput represents the input arguments for the chat tool.
type ChatInput struct {
	Message string `json:"message" jsonschema:"the message to send to the analytics agent"`
	ChatID  string `json:"chatId,omitempty" jsonschema:"optional session id; a fresh one is generated when absent"`
}

// ChatOutput represents the structured output of the chat tool.
type ChatOutput struct {
	ChatID       string `json:"chatId"`
	MessageCount int    `json:"messageCount"`
}

// handleChat processes a chat request: issue a credential, call the agent,
// decode the stream, and format the result. Configuration and upstream
// failures come back as explanatory tool output, not protocol errors, so the
// host assistant can display guidance rather than a broken call.
func (s *Server) handleChat(ctx context.Context, req *mcp.CallToolRequest, input ChatInput) (*mcp.CallToolResult, ChatOutput, error) {
	logger := s.config.Logger

	if strings.TrimSpace(input.Message) == "" {
		return errorResult("The message argument is required and must be non-empty."), ChatOutput{}, nil
	}

	chatID := input.ChatID
	if chatID == "" {
		chatID = generateChatID()
	}

	logger.Debug("MCP chat request",
		zap.String("chat_id", chatID),
		zap.Int("message_len", len(input.Message)),
	)

	body, err := s.config.Streamer.StreamChat(ctx, chatID, input.Message)
	if err != nil {
		logger.Error("chat request failed", zap.Error(err))
		return errorResult(explainChatError(err)), ChatOutput{}, nil
	}
	defer body.Close()

	decoder := stream.NewDecoder(logger)
	res, err := decoder.Decode(body)
	if err != nil {
		// Keep whatever parsed; a truncated stream still carries answers.
		logger.Warn("stream ended with error", zap.Error(err))
	}

	logger.Debug("chat stream complete",
		zap.String("chat_id", chatID),
		zap.Int("message_count", res.MessageCount),
	)

	output := ChatOutput{
		ChatID:       chatID,
		MessageCount: res.MessageCount,
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: res.Text},
			&mcp.TextContent{Text: fmt.Sprintf("Session: %s | Messages: %d", chatID, res.MessageCount)},
		},
	}, output, nil
}

// explainChatError converts component failures into user-facing guidance
// naming the likely missing configuration.
func explainChatError(err error) string {
	var missing *config.MissingFieldError
	if errors.As(err, &missing) {
		return fmt.Sprintf("Cube chat is not configured: %v.", missing)
	}

	var upstream *cube.UpstreamError
	if errors.As(err, &upstream) {
		return fmt.Sprintf(
			"The Cube API rejected the request (%s). Check that %s and %s match your Cube deployment and that %s holds a valid signing secret.",
			upstream.Status, config.EnvTenantName, config.EnvAgentID, config.EnvAPIKey,
		)
	}

	return fmt.Sprintf("Chat request failed: %v", err)
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// generateChatID returns a session id unique enough in practice: unix millis
// plus a short random suffix.
func generateChatID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
