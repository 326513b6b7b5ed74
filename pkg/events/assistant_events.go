package events

import (
	"time"

	"github.com/google/uuid"
)

// NewAssistantTurnCompleted fires after every persisted assistant turn,
// successful or not. Consumed by the notification service.
func NewAssistantTurnCompleted(userId, conversationId uuid.UUID, actionType string, success bool) Event {
	return BaseEvent{
		Type: "ASSISTANT_TURN_COMPLETED",
		Data: map[string]interface{}{
			"user_id":         userId.String(),
			"conversation_id": conversationId.String(),
			"action_type":     actionType,
			"success":         success,
		},
		OccurredAt: time.Now(),
	}
}

// NewSystemBroadcast targets every connected client.
func NewSystemBroadcast(title, message string) Event {
	return BaseEvent{
		Type: "SYSTEM_BROADCAST",
		Data: map[string]interface{}{
			"title":   title,
			"message": message,
		},
		OccurredAt: time.Now(),
	}
}

// NewFileDeleted fires when the assistant permanently removes a file.
func NewFileDeleted(userId uuid.UUID, fileId int64, fileName string) Event {
	return BaseEvent{
		Type: "FILE_DELETED",
		Data: map[string]interface{}{
			"user_id":   userId.String(),
			"file_id":   fileId,
			"file_name": fileName,
		},
		OccurredAt: time.Now(),
	}
}
