package dto

import (
	"time"

	"github.com/google/uuid"
)

// ProcessTurnRequest accepts either a text prompt or an uploaded audio clip.
// The audio part arrives as multipart form data and is handled by the
// controller; TextPrompt covers the JSON path.
type ProcessTurnRequest struct {
	TextPrompt     string `json:"text_prompt,omitempty" form:"text_prompt"`
	ConversationId string `json:"conversation_id,omitempty" form:"conversation_id"`
	IncludeAudio   *bool  `json:"include_audio,omitempty" form:"include_audio"`
}

type ProcessTurnResponse struct {
	Prompt             string              `json:"prompt"`
	Response           string              `json:"response"`
	AudioURL           string              `json:"audio_url,omitempty"`
	ConversationId     uuid.UUID           `json:"conversation_id"`
	InteractionId      uuid.UUID           `json:"interaction_id"`
	InteractionSuccess bool                `json:"interaction_success"`
	Action             *AssistantActionDTO `json:"action,omitempty"`
}

// AssistantActionDTO surfaces what the assistant did this turn so the client
// can react (e.g. open a file viewer for display actions).
type AssistantActionDTO struct {
	Type        string          `json:"type"`
	Success     bool            `json:"success"`
	FileDetails *FileDetailsDTO `json:"file_details,omitempty"`
}

type FileDetailsDTO struct {
	FileId   int64  `json:"file_id"`
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	FileURL  string `json:"file_url"`
}

type GetInteractionHistoryRequest struct {
	ConversationId string `query:"conversation_id"`
	StartDate      string `query:"start_date"`
	EndDate        string `query:"end_date"`
	Search         string `query:"search"`
	Limit          int    `query:"limit"`
	Offset         int    `query:"offset"`
}

type InteractionHistoryItem struct {
	Id                 uuid.UUID `json:"id"`
	ConversationId     uuid.UUID `json:"conversation_id"`
	Prompt             string    `json:"prompt"`
	Response           string    `json:"response"`
	AudioURL           string    `json:"audio_url,omitempty"`
	InteractionSuccess bool      `json:"interaction_success"`
	ActionType         string    `json:"action_type,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

type SuggestionDTO struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}

type AssistantSettingResponse struct {
	VoiceType      string `json:"voice_type"`
	Language       string `json:"language"`
	ResponseLength string `json:"response_length"`
	IncludeAudio   bool   `json:"include_audio"`
}

type UpdateAssistantSettingRequest struct {
	VoiceType      *string `json:"voice_type,omitempty" validate:"omitempty,oneof=alloy echo fable onyx nova shimmer"`
	Language       *string `json:"language,omitempty" validate:"omitempty,len=2"`
	ResponseLength *string `json:"response_length,omitempty" validate:"omitempty,oneof=concise detailed"`
	IncludeAudio   *bool   `json:"include_audio,omitempty"`
}

// OpenFileRequest resolves a spoken or typed file reference directly, without
// a reasoning pass. Used by the client's quick-open flow.
type OpenFileRequest struct {
	Query          string `json:"query" validate:"required,min=1"`
	ConversationId string `json:"conversation_id,omitempty"`
}

type OpenFileResponse struct {
	Found       bool            `json:"found"`
	Message     string          `json:"message"`
	FileDetails *FileDetailsDTO `json:"file_details,omitempty"`
	RecentFiles []RecentFileDTO `json:"recent_files,omitempty"`
}

type RecentFileDTO struct {
	FileId   int64  `json:"file_id"`
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
}
