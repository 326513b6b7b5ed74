// Package openai implements the reasoning contract over the OpenAI
// chat-completions HTTP API, including the tools (function calling) protocol.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ai-filevault-be/pkg/reasoning"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4-turbo"
)

type Provider struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewProvider(apiKey string) *Provider {
	return &Provider{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// Wire types for the chat completions endpoint.

type chatRequest struct {
	Model       string            `json:"model"`
	Messages    []wireMessage     `json:"messages"`
	Tools       []wireTool        `json:"tools,omitempty"`
	ToolChoice  string            `json:"tool_choice,omitempty"`
	Temperature *float64          `json:"temperature,omitempty"`
	MaxTokens   int               `json:"max_tokens,omitempty"`
}

type wireMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	Name       string         `json:"name,omitempty"`
	ToolCallId string         `json:"tool_call_id,omitempty"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
}

type wireTool struct {
	Type     string       `json:"type"`
	Function wireFunction `json:"function"`
}

type wireFunction struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

type wireToolCall struct {
	Id       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string         `json:"content"`
			ToolCalls []wireToolCall `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (p *Provider) Complete(ctx context.Context, messages []reasoning.Message, tools []reasoning.Tool, opts ...reasoning.Option) (*reasoning.Completion, error) {
	options := reasoning.Options{Model: defaultModel}
	for _, opt := range opts {
		opt(&options)
	}

	req := chatRequest{
		Model:     options.Model,
		Messages:  toWireMessages(messages),
		MaxTokens: options.MaxTokens,
	}
	if options.Temperature != 0 {
		t := options.Temperature
		req.Temperature = &t
	}
	if len(tools) > 0 {
		req.Tools = make([]wireTool, len(tools))
		for i, tool := range tools {
			req.Tools[i] = wireTool{
				Type: "function",
				Function: wireFunction{
					Name:        tool.Name,
					Description: tool.Description,
					Parameters:  tool.Parameters,
				},
			}
		}
		req.ToolChoice = "auto"
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode chat response (status %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("openai: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai: unexpected status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("openai: empty choices")
	}

	choice := parsed.Choices[0].Message
	completion := &reasoning.Completion{Content: choice.Content}
	for _, call := range choice.ToolCalls {
		completion.ToolCalls = append(completion.ToolCalls, reasoning.ToolCall{
			Id:        call.Id,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}
	if len(completion.ToolCalls) > 0 {
		completion.Content = ""
	}
	return completion, nil
}

func toWireMessages(messages []reasoning.Message) []wireMessage {
	out := make([]wireMessage, len(messages))
	for i, m := range messages {
		wm := wireMessage{
			Role:       m.Role,
			Content:    m.Content,
			Name:       m.Name,
			ToolCallId: m.ToolCallId,
		}
		for _, call := range m.ToolCalls {
			wc := wireToolCall{Id: call.Id, Type: "function"}
			wc.Function.Name = call.Name
			wc.Function.Arguments = call.Arguments
			wm.ToolCalls = append(wm.ToolCalls, wc)
		}
		out[i] = wm
	}
	return out
}
