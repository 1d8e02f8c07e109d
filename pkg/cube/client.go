package cube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cubestack/cubemcp/pkg/config"
	"github.com/cubestack/cubemcp/pkg/utils"
)

const chatPathTemplate = "%s/api/v1/public/%s/agents/%s/chat/stream-chat-state"

// maxErrorBodyLen bounds how much of an error response body is surfaced.
const maxErrorBodyLen = 512

// chatRequest is the JSON body of the stream-chat-state call.
type chatRequest struct {
	ChatID string `json:"chatId"`
	Input  string `json:"input"`
}

// Client issues authenticated streaming chat calls against the Cube API.
//
// Configuration is validated per call rather than at construction so a
// misconfigured server still starts and can explain what is missing when
// the chat tool is invoked.
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			// Agent responses can be slow, especially on cold analytics queries
			Timeout: 5 * time.Minute,
		},
		logger: logger,
	}
}

// StreamChat POSTs the input to the agent's stream-chat-state endpoint and
// returns the open response body for incremental consumption. The caller
// owns closing the returned reader.
//
// Returns a *config.MissingFieldError when required configuration is absent
// and an *UpstreamError on a non-2xx response.
func (c *Client) StreamChat(ctx context.Context, chatID, input string) (io.ReadCloser, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}

	token, err := NewTokenIssuer(c.cfg.APIKey).Issue()
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(chatRequest{ChatID: chatID, Input: input})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf(chatPathTemplate, c.cfg.APIURL, c.cfg.TenantName, c.cfg.AgentID)

	c.logger.Debug("sending chat request",
		zap.String("url", url),
		zap.String("chat_id", chatID),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request to cube API: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLen+1))
		resp.Body.Close()

		upErr := &UpstreamError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       utils.Truncate(string(respBody), maxErrorBodyLen),
		}
		c.logger.Error("cube API returned error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", upErr.Body),
		)
		return nil, upErr
	}

	// Hand the open body back for incremental decoding; bodies may be
	// large and are produced progressively by the agent.
	return resp.Body, nil
}
