package transcript

import (
	"testing"

	"ai-filevault-be/pkg/reasoning"
)

func TestBuilderOrdering(t *testing.T) {
	b := New("system prompt").
		History([]Turn{
			{Prompt: "show my files", Response: "Here they are."},
			{Prompt: "open the first one", Response: ""},
		}).
		User("delete it")

	msgs := b.Messages()
	wantRoles := []string{
		reasoning.RoleSystem,
		reasoning.RoleUser,
		reasoning.RoleAssistant,
		reasoning.RoleUser, // blank response turn contributes prompt only
		reasoning.RoleUser,
	}

	if len(msgs) != len(wantRoles) {
		t.Fatalf("got %d messages, want %d", len(msgs), len(wantRoles))
	}
	for i, role := range wantRoles {
		if msgs[i].Role != role {
			t.Errorf("message %d role = %s, want %s", i, msgs[i].Role, role)
		}
	}
	if msgs[4].Content != "delete it" {
		t.Errorf("last message = %q", msgs[4].Content)
	}
}

func TestBuilderIsImmutable(t *testing.T) {
	base := New("system").User("hello")

	withTool := base.ToolResult("call_1", "list_files", `{"success":true}`)
	withText := base.Assistant("hi there")

	if base.Len() != 2 {
		t.Errorf("base grew to %d messages", base.Len())
	}
	if withTool.Len() != 3 || withText.Len() != 3 {
		t.Errorf("derived builders have %d and %d messages, want 3 each", withTool.Len(), withText.Len())
	}
	if withTool.Messages()[2].Role != reasoning.RoleTool {
		t.Errorf("tool branch role = %s", withTool.Messages()[2].Role)
	}
	if withText.Messages()[2].Role != reasoning.RoleAssistant {
		t.Errorf("text branch role = %s", withText.Messages()[2].Role)
	}
}

func TestMessagesReturnsCopy(t *testing.T) {
	b := New("system").User("hello")

	msgs := b.Messages()
	msgs[0].Content = "tampered"

	if b.Messages()[0].Content != "system" {
		t.Error("mutating the returned slice changed the builder")
	}
}
