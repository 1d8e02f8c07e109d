// Package stream decodes newline-delimited JSON chat streams from the Cube
// agent API into accumulated, human-readable text.
package stream

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/cubestack/cubemcp/pkg/utils"
)

// Placeholder is returned as the result text when a stream carried no
// content-bearing messages.
const Placeholder = "No response content received."

// ToolCall describes a tool invocation reported by the agent. A missing
// Result means the call is still in progress.
type ToolCall struct {
	Name   string          `json:"name"`
	Result json.RawMessage `json:"result,omitempty"`
}

// Message is one parsed line of the chat stream. Not every field is present
// on every message; absence is meaningful.
type Message struct {
	Role     string    `json:"role,omitempty"`
	Content  string    `json:"content,omitempty"`
	IsDelta  bool      `json:"isDelta,omitempty"`
	ToolCall *ToolCall `json:"toolCall,omitempty"`
}

// Result is the accumulated output of a fully decoded stream.
type Result struct {
	Text         string
	MessageCount int
}

// Decoder incrementally splits a chat byte stream on newline boundaries and
// accumulates the content of complete messages. Chunks may split a record
// mid-line or deliver several records at once; the decoder produces the same
// Result for any chunking of the same byte sequence.
//
// A Decoder is single use: Feed any number of chunks, then Finish exactly
// once. It is not safe for concurrent use, and does not need to be — one
// decode runs per chat invocation.
type Decoder struct {
	pending string
	text    strings.Builder
	count   int
	logger  *zap.Logger
}

func NewDecoder(logger *zap.Logger) *Decoder {
	return &Decoder{logger: logger}
}

// Feed appends a chunk and processes every complete line it closes off. The
// final split element may be a partial line, so it is retained as the new
// pending tail rather than processed.
func (d *Decoder) Feed(chunk []byte) {
	lines := strings.Split(d.pending+string(chunk), "\n")
	d.pending = lines[len(lines)-1]

	for _, line := range lines[:len(lines)-1] {
		d.processLine(line)
	}
}

// Finish flushes the trailing pending line, if any, and returns the
// accumulated Result. Content that arrived without a trailing newline is
// captured here.
func (d *Decoder) Finish() Result {
	if strings.TrimSpace(d.pending) != "" {
		d.processLine(d.pending)
	}
	d.pending = ""

	text := d.text.String()
	if text == "" {
		text = Placeholder
	}

	return Result{
		Text:         text,
		MessageCount: d.count,
	}
}

// Decode consumes r to exhaustion through Feed and returns Finish's Result.
// On a read error the Result still reflects everything decoded so far.
func (d *Decoder) Decode(r io.Reader) (Result, error) {
	buf := make([]byte, 32*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			d.Feed(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return d.Finish(), fmt.Errorf("reading stream: %w", err)
		}
	}

	return d.Finish(), nil
}

// processLine parses a single complete line. A malformed line is logged and
// skipped; it never aborts the decode.
func (d *Decoder) processLine(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}

	var msg Message
	if err := json.Unmarshal([]byte(line), &msg); err != nil {
		d.logger.Warn("skipping malformed stream line",
			zap.String("line", utils.Truncate(line, 256)),
			zap.Error(err),
		)
		return
	}

	d.count++

	// Only complete assistant utterances accumulate; deltas are partial
	// fragments of content that arrives again in full.
	if msg.Role == "assistant" && !msg.IsDelta && msg.Content != "" {
		d.text.WriteString(msg.Content)
		d.text.WriteByte('\n')
	}

	if msg.ToolCall != nil {
		status := "In Progress"
		if len(msg.ToolCall.Result) > 0 {
			status = "Completed"
		}
		fmt.Fprintf(&d.text, "[tool: %s (%s)]\n", msg.ToolCall.Name, status)
	}
}
