// Package transcript assembles the message sequence sent to the reasoning
// engine. The builder is a value type: every append returns a new Builder,
// so a pass-one transcript can be extended for pass two without aliasing.
package transcript

import "ai-filevault-be/pkg/reasoning"

type Builder struct {
	messages []reasoning.Message
}

func New(systemPrompt string) Builder {
	return Builder{
		messages: []reasoning.Message{{
			Role:    reasoning.RoleSystem,
			Content: systemPrompt,
		}},
	}
}

func (b Builder) append(msg reasoning.Message) Builder {
	out := make([]reasoning.Message, len(b.messages), len(b.messages)+1)
	copy(out, b.messages)
	return Builder{messages: append(out, msg)}
}

func (b Builder) User(content string) Builder {
	return b.append(reasoning.Message{Role: reasoning.RoleUser, Content: content})
}

func (b Builder) Assistant(content string) Builder {
	return b.append(reasoning.Message{Role: reasoning.RoleAssistant, Content: content})
}

// AssistantToolCalls records the model's pass-one tool request turn.
func (b Builder) AssistantToolCalls(calls []reasoning.ToolCall) Builder {
	return b.append(reasoning.Message{Role: reasoning.RoleAssistant, ToolCalls: calls})
}

// ToolResult records the serialized outcome of one tool invocation.
func (b Builder) ToolResult(callId, name, content string) Builder {
	return b.append(reasoning.Message{
		Role:       reasoning.RoleTool,
		ToolCallId: callId,
		Name:       name,
		Content:    content,
	})
}

// History folds prior turns in chronological order: the user prompt always,
// the assistant response only when non-blank.
func (b Builder) History(turns []Turn) Builder {
	out := b
	for _, turn := range turns {
		out = out.User(turn.Prompt)
		if turn.Response != "" {
			out = out.Assistant(turn.Response)
		}
	}
	return out
}

// Turn is one prior prompt/response pair.
type Turn struct {
	Prompt   string
	Response string
}

func (b Builder) Messages() []reasoning.Message {
	out := make([]reasoning.Message, len(b.messages))
	copy(out, b.messages)
	return out
}

func (b Builder) Len() int {
	return len(b.messages)
}
