package mapper

import (
	"time"

	"ai-filevault-be/internal/entity"
	"ai-filevault-be/internal/model"

	"gorm.io/datatypes"
)

type InteractionMapper struct{}

func NewInteractionMapper() *InteractionMapper {
	return &InteractionMapper{}
}

func (m *InteractionMapper) InteractionToEntity(i *model.Interaction) *entity.Interaction {
	if i == nil {
		return nil
	}

	var refContext map[string]interface{}
	if i.ReferenceContext != nil {
		refContext = map[string]interface{}(i.ReferenceContext)
	}

	return &entity.Interaction{
		Id:                 i.Id,
		UserId:             i.UserId,
		ConversationId:     i.ConversationId,
		Prompt:             i.Prompt,
		Response:           i.Response,
		AudioResponseURL:   i.AudioResponseURL,
		Success:            i.Success,
		ReferenceContext:   refContext,
		ReferencedFileId:   i.ReferencedFileId,
		ReferencedFileName: i.ReferencedFileName,
		ActionType:         i.ActionType,
		CreatedAt:          i.CreatedAt,
	}
}

func (m *InteractionMapper) InteractionToModel(i *entity.Interaction) *model.Interaction {
	if i == nil {
		return nil
	}

	var refContext datatypes.JSONMap
	if i.ReferenceContext != nil {
		refContext = datatypes.JSONMap(i.ReferenceContext)
	}

	return &model.Interaction{
		Id:                 i.Id,
		UserId:             i.UserId,
		ConversationId:     i.ConversationId,
		Prompt:             i.Prompt,
		Response:           i.Response,
		AudioResponseURL:   i.AudioResponseURL,
		Success:            i.Success,
		ReferenceContext:   refContext,
		ReferencedFileId:   i.ReferencedFileId,
		ReferencedFileName: i.ReferencedFileName,
		ActionType:         i.ActionType,
		CreatedAt:          i.CreatedAt,
	}
}

func (m *InteractionMapper) AssistantSettingToEntity(s *model.AssistantSetting) *entity.AssistantSetting {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.AssistantSetting{
		UserId:         s.UserId,
		VoiceType:      s.VoiceType,
		Language:       s.Language,
		ResponseLength: s.ResponseLength,
		IncludeAudio:   s.IncludeAudio,
		UpdatedAt:      updatedAt,
	}
}

func (m *InteractionMapper) AssistantSettingToModel(s *entity.AssistantSetting) *model.AssistantSetting {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.AssistantSetting{
		UserId:         s.UserId,
		VoiceType:      s.VoiceType,
		Language:       s.Language,
		ResponseLength: s.ResponseLength,
		IncludeAudio:   s.IncludeAudio,
		UpdatedAt:      updatedAt,
	}
}
