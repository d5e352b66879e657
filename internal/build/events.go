// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package build drives the Claude Code CLI as a subprocess for agentic
// project builds. The CLI is invoked in print mode with stream-json output:
// one JSON event per line covering assistant messages, tool activity, and a
// final result.
package build

import "encoding/json"

// Event types emitted by the CLI stream.
const (
	EventSystem    = "system"
	EventAssistant = "assistant"
	EventUser      = "user"
	EventResult    = "result"
)

// Content block types inside assistant messages.
const (
	BlockText    = "text"
	BlockToolUse = "tool_use"
)

// Event is one line of stream-json output.
type Event struct {
	Type    string `json:"type"`
	Subtype string `json:"subtype,omitempty"`

	// Message is set for assistant and user events.
	Message *Message `json:"message,omitempty"`

	// Result fields, set on the final result event.
	Result       string  `json:"result,omitempty"`
	IsError      bool    `json:"is_error,omitempty"`
	NumTurns     int     `json:"num_turns,omitempty"`
	TotalCostUSD float64 `json:"total_cost_usd,omitempty"`
}

// Message is the content of an assistant or user event.
type Message struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// ContentBlock is a single block within a message: text or a tool use.
type ContentBlock struct {
	Type  string          `json:"type"`
	Text  string          `json:"text,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

// ToolUse records one tool invocation observed during a run.
type ToolUse struct {
	Name  string
	Input string
}

// Summary aggregates a completed run.
type Summary struct {
	// ToolUses lists tool invocations in order of appearance.
	ToolUses []ToolUse

	// Result is the final result text from the CLI.
	Result string

	// IsError reports whether the CLI marked the run failed.
	IsError bool

	// NumTurns is the number of agent turns consumed.
	NumTurns int

	// TotalCostUSD is the reported API cost.
	TotalCostUSD float64
}
