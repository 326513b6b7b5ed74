package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"ai-filevault-be/internal/config"
	"ai-filevault-be/internal/constant"
	"ai-filevault-be/internal/dto"
	"ai-filevault-be/internal/entity"
	"ai-filevault-be/internal/pkg/logger"
	"ai-filevault-be/internal/repository/contract"
	"ai-filevault-be/internal/repository/specification"
	"ai-filevault-be/pkg/assistant/refcontext"
	"ai-filevault-be/pkg/assistant/resolver"
	"ai-filevault-be/pkg/assistant/tools"
	"ai-filevault-be/pkg/assistant/transcript"
	"ai-filevault-be/pkg/events"
	"ai-filevault-be/pkg/reasoning"
	"ai-filevault-be/pkg/speech"
	"ai-filevault-be/pkg/storage"

	"github.com/google/uuid"
)

// AssistantInput is one turn's raw input. Exactly one of TextPrompt or Audio
// should be set; when both are present the audio wins.
type AssistantInput struct {
	TextPrompt     string
	Audio          io.Reader
	AudioFilename  string
	ConversationId string
	IncludeAudio   *bool
}

type IAssistantService interface {
	ProcessTurn(ctx context.Context, userId uuid.UUID, input *AssistantInput) (*dto.ProcessTurnResponse, error)
	GetHistory(ctx context.Context, userId uuid.UUID, request *dto.GetInteractionHistoryRequest) ([]*dto.InteractionHistoryItem, error)
	GetSuggestions(ctx context.Context) []*dto.SuggestionDTO
	GetSettings(ctx context.Context, userId uuid.UUID) (*dto.AssistantSettingResponse, error)
	UpdateSettings(ctx context.Context, userId uuid.UUID, request *dto.UpdateAssistantSettingRequest) (*dto.AssistantSettingResponse, error)
	OpenFile(ctx context.Context, userId uuid.UUID, request *dto.OpenFileRequest) (*dto.OpenFileResponse, error)
}

// EventPublisher is the slice of the NATS publisher the service needs.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type assistantService struct {
	interactions contract.InteractionRepository
	settings     contract.AssistantSettingRepository
	files        contract.UserFileRepository
	resolver     *resolver.Resolver
	executor     *tools.Executor
	reasoner     reasoning.Provider
	transcriber  speech.Transcriber
	synthesizer  speech.Synthesizer
	store        storage.Adapter
	publisher    EventPublisher
	cfg          config.AssistantConfig
	logger       logger.ILogger
}

func NewAssistantService(
	interactions contract.InteractionRepository,
	settings contract.AssistantSettingRepository,
	files contract.UserFileRepository,
	res *resolver.Resolver,
	executor *tools.Executor,
	reasoner reasoning.Provider,
	transcriber speech.Transcriber,
	synthesizer speech.Synthesizer,
	store storage.Adapter,
	publisher EventPublisher,
	cfg config.AssistantConfig,
	log logger.ILogger,
) IAssistantService {
	return &assistantService{
		interactions: interactions,
		settings:     settings,
		files:        files,
		resolver:     res,
		executor:     executor,
		reasoner:     reasoner,
		transcriber:  transcriber,
		synthesizer:  synthesizer,
		store:        store,
		publisher:    publisher,
		cfg:          cfg,
		logger:       log,
	}
}

// turnState accumulates everything one turn produces before the single
// interaction append at the end.
type turnState struct {
	conversationId     uuid.UUID
	prompt             string
	finalText          string
	audioURL           string
	success            bool
	refContext         refcontext.Context
	referencedFileId   *int64
	referencedFileName string
	actionType         string
	action             *dto.AssistantActionDTO
}

func (s *assistantService) ProcessTurn(ctx context.Context, userId uuid.UUID, input *AssistantInput) (*dto.ProcessTurnResponse, error) {
	setting := s.loadSettings(ctx, userId)

	state := &turnState{
		conversationId: s.resolveConversationId(input.ConversationId),
		refContext:     refcontext.Context{},
	}

	// 1. Obtain the utterance
	if input.Audio != nil {
		text, err := s.transcriber.Transcribe(ctx, input.Audio, input.AudioFilename, setting.Language)
		if err != nil {
			s.logger.Error("Assistant", "Transcription failed", map[string]interface{}{"user_id": userId, "error": err.Error()})
			state.prompt = "(unintelligible audio)"
			state.finalText = constant.ResponseAudioNotUnderstood
			return s.finishTurn(ctx, userId, setting, input, state), nil
		}
		state.prompt = strings.TrimSpace(text)
	} else {
		state.prompt = strings.TrimSpace(input.TextPrompt)
	}

	// 2. Minimum-length gate
	if len(state.prompt) < constant.AssistantMinPromptLength {
		state.finalText = constant.ResponsePromptTooShort
		return s.finishTurn(ctx, userId, setting, input, state), nil
	}

	// 3. History and reference context
	history, err := s.interactions.FindRecent(ctx, userId, state.conversationId, s.historyLimit())
	if err != nil {
		s.logger.Warn("Assistant", "History load failed, continuing without", map[string]interface{}{"error": err.Error()})
		history = nil
	}
	state.refContext = s.seedContext(history)

	// 4. Pass one: offer the tool registry
	builder := transcript.New(constant.AssistantSystemPromptV1).
		History(historyTurns(history)).
		User(state.prompt)

	completion, err := s.reasoner.Complete(ctx, builder.Messages(), tools.Specs(),
		reasoning.WithModel(s.cfg.ChatModel),
		reasoning.WithTemperature(0.2),
	)
	if err != nil {
		s.logger.Error("Assistant", "Pass one failed", map[string]interface{}{"user_id": userId, "error": err.Error()})
		state.finalText = constant.ResponseDefaultError
		return s.finishTurn(ctx, userId, setting, input, state), nil
	}

	if len(completion.ToolCalls) == 0 {
		// Conversational turn, no action taken
		state.finalText = strings.TrimSpace(completion.Content)
		if state.finalText == "" {
			state.finalText = constant.ResponseReadyForCommand
		}
		state.success = state.finalText != constant.ResponseReadyForCommand
		return s.finishTurn(ctx, userId, setting, input, state), nil
	}

	// 5. Dispatch every requested tool; one failure never aborts the turn
	builder = builder.AssistantToolCalls(completion.ToolCalls)
	var lastResult tools.Result
	results := make([]tools.Result, 0, len(completion.ToolCalls))
	anySuccess := false

	for _, call := range completion.ToolCalls {
		result, file := s.executor.Dispatch(ctx, tools.Invocation{
			UserId:         userId,
			ConversationId: state.conversationId,
			RefContext:     state.refContext,
		}, call)

		builder = builder.ToolResult(call.Id, call.Name, result.Serialize())
		state.actionType = call.Name
		lastResult = result
		results = append(results, result)
		if result.Success {
			anySuccess = true
		}
		if file != nil {
			state.refContext = refcontext.Update(state.refContext, refcontext.FileRef{
				Id:   file.Id,
				Name: file.OriginalFilename,
				Type: file.FileType,
			})
			fileId := file.Id
			state.referencedFileId = &fileId
			state.referencedFileName = file.OriginalFilename
		}
		if call.Name == tools.DeleteFile && result.Success {
			s.publishEvent(ctx, events.NewFileDeleted(userId, payloadInt64(result.Payload, "deleted_file_id"), payloadString(result.Payload, "deleted_file_name")))
		}
	}

	// 6. Pass two: explain the results, no tools offered
	final, err := s.reasoner.Complete(ctx, builder.Messages(), nil,
		reasoning.WithModel(s.cfg.ChatModel),
	)
	switch {
	case err == nil && strings.TrimSpace(final.Content) != "":
		state.finalText = strings.TrimSpace(final.Content)
		state.success = computeSuccess(results)
	case len(results) == 1 && results[0].Success && results[0].Summary != "":
		// Degraded but usable: hand the sole tool's own summary to the user
		s.logger.Warn("Assistant", "Pass two failed, falling back to tool summary", map[string]interface{}{"user_id": userId})
		state.finalText = results[0].Summary
		state.success = true
	case anySuccess:
		state.finalText = constant.ResponsePassTwoDegraded
		state.success = false
	default:
		state.finalText = constant.ResponseDefaultError
		state.success = false
	}

	state.action = buildAction(state.actionType, lastResult)

	// Pass two sometimes paraphrases away the link the user asked for.
	if url := displayURL(state.actionType, lastResult); url != "" && !strings.Contains(state.finalText, url) {
		state.finalText += "\n\nView File: " + url
	}

	return s.finishTurn(ctx, userId, setting, input, state), nil
}

// finishTurn synthesizes audio when requested, appends exactly one
// interaction, publishes the turn event, and shapes the response.
func (s *assistantService) finishTurn(ctx context.Context, userId uuid.UUID, setting *entity.AssistantSetting, input *AssistantInput, state *turnState) *dto.ProcessTurnResponse {
	if s.wantAudio(setting, input) {
		state.audioURL = s.synthesize(ctx, userId, setting, state.finalText)
	}

	interaction := &entity.Interaction{
		Id:                 uuid.New(),
		UserId:             userId,
		ConversationId:     state.conversationId,
		Prompt:             state.prompt,
		Response:           state.finalText,
		AudioResponseURL:   state.audioURL,
		Success:            state.success,
		ReferenceContext:   state.refContext,
		ReferencedFileId:   state.referencedFileId,
		ReferencedFileName: state.referencedFileName,
		ActionType:         state.actionType,
	}
	if err := s.interactions.Create(ctx, interaction); err != nil {
		// The user still gets their answer; the gap only costs history.
		s.logger.Error("Assistant", "Failed to persist interaction", map[string]interface{}{"user_id": userId, "error": err.Error()})
	}

	s.publishEvent(ctx, events.NewAssistantTurnCompleted(userId, state.conversationId, state.actionType, state.success))

	return &dto.ProcessTurnResponse{
		Prompt:             state.prompt,
		Response:           state.finalText,
		AudioURL:           state.audioURL,
		ConversationId:     state.conversationId,
		InteractionId:      interaction.Id,
		InteractionSuccess: state.success,
		Action:             state.action,
	}
}

func (s *assistantService) synthesize(ctx context.Context, userId uuid.UUID, setting *entity.AssistantSetting, text string) string {
	if s.synthesizer == nil || text == "" {
		return ""
	}

	if len(text) > constant.AssistantTTSMaxChars {
		text = text[:constant.AssistantTTSTruncateAt] + constant.AssistantTTSTruncateTrailer
	}

	audio, err := s.synthesizer.Synthesize(ctx, text, setting.VoiceType)
	if err != nil {
		s.logger.Warn("Assistant", "Speech synthesis failed", map[string]interface{}{"user_id": userId, "error": err.Error()})
		return ""
	}

	key := fmt.Sprintf("audio-responses/%s/%s.mp3", userId, uuid.New())
	if err := s.store.Upload(ctx, key, bytes.NewReader(audio), "audio/mpeg"); err != nil {
		s.logger.Warn("Assistant", "Audio upload failed", map[string]interface{}{"user_id": userId, "error": err.Error()})
		return ""
	}

	url, err := s.store.PresignGet(ctx, key, constant.AudioLinkTTL*time.Second)
	if err != nil {
		s.logger.Warn("Assistant", "Audio presign failed", map[string]interface{}{"user_id": userId, "error": err.Error()})
		return ""
	}
	return url
}

func (s *assistantService) GetHistory(ctx context.Context, userId uuid.UUID, request *dto.GetInteractionHistoryRequest) ([]*dto.InteractionHistoryItem, error) {
	specs := []specification.Specification{
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	}

	if request.ConversationId != "" {
		conversationId, err := uuid.Parse(request.ConversationId)
		if err != nil {
			return nil, fmt.Errorf("invalid conversation id: %w", err)
		}
		specs = append(specs, specification.InConversation{ConversationID: conversationId})
	}
	if request.Search != "" {
		specs = append(specs, specification.PromptOrResponseContains{Keyword: request.Search})
	}
	if between := parseDateRange(request.StartDate, request.EndDate); between != nil {
		specs = append(specs, *between)
	}

	limit := request.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	specs = append(specs, specification.Pagination{Limit: limit, Offset: request.Offset})

	interactions, err := s.interactions.FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.InteractionHistoryItem, 0, len(interactions))
	for _, interaction := range interactions {
		items = append(items, &dto.InteractionHistoryItem{
			Id:                 interaction.Id,
			ConversationId:     interaction.ConversationId,
			Prompt:             interaction.Prompt,
			Response:           interaction.Response,
			AudioURL:           interaction.AudioResponseURL,
			InteractionSuccess: interaction.Success,
			ActionType:         interaction.ActionType,
			CreatedAt:          interaction.CreatedAt,
		})
	}
	return items, nil
}

func (s *assistantService) GetSuggestions(ctx context.Context) []*dto.SuggestionDTO {
	return []*dto.SuggestionDTO{
		{Command: "Show my files", Description: "List all your files grouped by category"},
		{Command: "Search for invoices", Description: "Find files by keyword in name or content"},
		{Command: "Summarize that file", Description: "Get the key points of a document"},
		{Command: "Open my latest document", Description: "Display a file with a secure link"},
		{Command: "Move it to Banking", Description: "Organize a file into a category"},
		{Command: "How much storage am I using?", Description: "Check your storage usage"},
		{Command: "Create a folder called Taxes", Description: "Add a new category"},
		{Command: "Share this file", Description: "Get a temporary shareable link"},
	}
}

func (s *assistantService) GetSettings(ctx context.Context, userId uuid.UUID) (*dto.AssistantSettingResponse, error) {
	setting := s.loadSettings(ctx, userId)
	return settingToDTO(setting), nil
}

func (s *assistantService) UpdateSettings(ctx context.Context, userId uuid.UUID, request *dto.UpdateAssistantSettingRequest) (*dto.AssistantSettingResponse, error) {
	setting := s.loadSettings(ctx, userId)

	if request.VoiceType != nil {
		setting.VoiceType = *request.VoiceType
	}
	if request.Language != nil {
		setting.Language = *request.Language
	}
	if request.ResponseLength != nil {
		setting.ResponseLength = *request.ResponseLength
	}
	if request.IncludeAudio != nil {
		setting.IncludeAudio = *request.IncludeAudio
	}

	if err := s.settings.Upsert(ctx, setting); err != nil {
		return nil, err
	}
	return settingToDTO(setting), nil
}

func (s *assistantService) OpenFile(ctx context.Context, userId uuid.UUID, request *dto.OpenFileRequest) (*dto.OpenFileResponse, error) {
	conversationId := uuid.Nil
	if request.ConversationId != "" {
		if parsed, err := uuid.Parse(request.ConversationId); err == nil {
			conversationId = parsed
		}
	}

	refCtx := refcontext.Context{}
	if conversationId != uuid.Nil {
		if history, err := s.interactions.FindRecent(ctx, userId, conversationId, s.historyLimit()); err == nil {
			refCtx = s.seedContext(history)
		}
	}

	file, err := s.resolver.Resolve(ctx, userId, request.Query, refCtx, conversationId)
	if err != nil {
		return nil, err
	}

	if file == nil {
		// Offer the most recent uploads as a hint instead of a bare miss
		recent, err := s.files.FindAllByUser(ctx, userId)
		if err != nil {
			return nil, err
		}
		hints := make([]dto.RecentFileDTO, 0, 5)
		for i, f := range recent {
			if i == 5 {
				break
			}
			hints = append(hints, dto.RecentFileDTO{FileId: f.Id, FileName: f.OriginalFilename, FileType: f.FileType})
		}
		return &dto.OpenFileResponse{
			Found:       false,
			Message:     fmt.Sprintf("I couldn't find a file matching '%s'. Here are your recent files.", request.Query),
			RecentFiles: hints,
		}, nil
	}

	url, err := s.store.PresignGet(ctx, file.S3Key, constant.DisplayLinkTTL*time.Second)
	if err != nil {
		return nil, err
	}

	return &dto.OpenFileResponse{
		Found:   true,
		Message: fmt.Sprintf("Opening '%s'.", file.OriginalFilename),
		FileDetails: &dto.FileDetailsDTO{
			FileId:   file.Id,
			FileName: file.OriginalFilename,
			FileType: file.FileType,
			FileURL:  url,
		},
	}, nil
}

func (s *assistantService) loadSettings(ctx context.Context, userId uuid.UUID) *entity.AssistantSetting {
	setting, err := s.settings.FindByUserId(ctx, userId)
	if err != nil {
		s.logger.Warn("Assistant", "Settings load failed, using defaults", map[string]interface{}{"user_id": userId, "error": err.Error()})
	}
	if setting == nil {
		setting = &entity.AssistantSetting{
			UserId:         userId,
			VoiceType:      s.cfg.TTSVoice,
			Language:       "en",
			ResponseLength: "concise",
			IncludeAudio:   s.cfg.IncludeAudio,
		}
	}
	return setting
}

func (s *assistantService) resolveConversationId(raw string) uuid.UUID {
	if raw != "" {
		if parsed, err := uuid.Parse(raw); err == nil && parsed != uuid.Nil {
			return parsed
		}
		s.logger.Warn("Assistant", "Invalid conversation id, minting a new one", map[string]interface{}{"raw": raw})
	}
	return uuid.New()
}

func (s *assistantService) seedContext(history []*entity.Interaction) refcontext.Context {
	contexts := make([]refcontext.Context, 0, len(history))
	for _, interaction := range history {
		contexts = append(contexts, refcontext.Context(interaction.ReferenceContext))
	}
	return refcontext.SeedWithStrategy(contexts, s.cfg.ContextMerge)
}

func (s *assistantService) historyLimit() int {
	if s.cfg.HistoryLimit > 0 {
		return s.cfg.HistoryLimit
	}
	return constant.AssistantHistoryLimit
}

func (s *assistantService) wantAudio(setting *entity.AssistantSetting, input *AssistantInput) bool {
	if input.IncludeAudio != nil {
		return *input.IncludeAudio
	}
	return setting.IncludeAudio
}

func (s *assistantService) publishEvent(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("Assistant", "Event publish failed", map[string]interface{}{"type": event.EventType(), "error": err.Error()})
	}
}

// computeSuccess applies the fixed turn rule: the primary invocation (the
// first tool the model proposed) decides the turn. A later success never
// rescues a failed primary, and later failures never flip a turn that
// started well.
func computeSuccess(results []tools.Result) bool {
	if len(results) == 0 {
		return false
	}
	return results[0].Success
}

// historyTurns reorders FindRecent output (newest first) into the
// chronological prompt/response pairs the transcript needs.
func historyTurns(history []*entity.Interaction) []transcript.Turn {
	turns := make([]transcript.Turn, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		turns = append(turns, transcript.Turn{
			Prompt:   history[i].Prompt,
			Response: history[i].Response,
		})
	}
	return turns
}

func buildAction(actionType string, result tools.Result) *dto.AssistantActionDTO {
	if actionType == "" {
		return nil
	}
	action := &dto.AssistantActionDTO{Type: actionType, Success: result.Success}
	if actionType == tools.DisplayFile && result.Success {
		action.FileDetails = &dto.FileDetailsDTO{
			FileId:   payloadInt64(result.Payload, "file_id"),
			FileName: payloadString(result.Payload, "file_name"),
			FileType: payloadString(result.Payload, "file_type"),
			FileURL:  payloadString(result.Payload, "file_url"),
		}
	}
	return action
}

func displayURL(actionType string, result tools.Result) string {
	if actionType != tools.DisplayFile || !result.Success {
		return ""
	}
	return payloadString(result.Payload, "file_url")
}

func payloadString(payload map[string]interface{}, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

func payloadInt64(payload map[string]interface{}, key string) int64 {
	switch v := payload[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func parseDateRange(start, end string) *specification.CreatedBetween {
	var between specification.CreatedBetween
	if start != "" {
		if t, err := time.Parse("2006-01-02", start); err == nil {
			between.Start = &t
		}
	}
	if end != "" {
		if t, err := time.Parse("2006-01-02", end); err == nil {
			endOfDay := t.Add(24*time.Hour - time.Nanosecond)
			between.End = &endOfDay
		}
	}
	if between.Start == nil && between.End == nil {
		return nil
	}
	return &between
}

func settingToDTO(setting *entity.AssistantSetting) *dto.AssistantSettingResponse {
	return &dto.AssistantSettingResponse{
		VoiceType:      setting.VoiceType,
		Language:       setting.Language,
		ResponseLength: setting.ResponseLength,
		IncludeAudio:   setting.IncludeAudio,
	}
}
