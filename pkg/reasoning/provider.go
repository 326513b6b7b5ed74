// Package reasoning defines the provider-agnostic contract for the chat
// completion engine, including tool (function) calling.
package reasoning

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one entry of a chat transcript.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content,omitempty"`
	Name       string     `json:"name,omitempty"`
	ToolCallId string     `json:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
}

// Tool describes one callable function offered to the model.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// ToolCall is the model's request to invoke a tool. Arguments is the raw
// JSON object string as produced by the model.
type ToolCall struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// Completion holds either assistant text or tool calls, never both.
type Completion struct {
	Content   string
	ToolCalls []ToolCall
}

// Option customizes a single completion request.
type Option func(*Options)

type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

func WithModel(model string) Option {
	return func(o *Options) { o.Model = model }
}

func WithTemperature(t float64) Option {
	return func(o *Options) { o.Temperature = t }
}

func WithMaxTokens(n int) Option {
	return func(o *Options) { o.MaxTokens = n }
}

// Provider is the reasoning engine. Pass nil or empty tools for a plain
// completion (pass two never offers tools).
type Provider interface {
	Complete(ctx context.Context, messages []Message, tools []Tool, opts ...Option) (*Completion, error)
}
