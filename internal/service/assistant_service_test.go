package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"ai-filevault-be/internal/config"
	"ai-filevault-be/internal/constant"
	"ai-filevault-be/internal/dto"
	"ai-filevault-be/internal/entity"
	"ai-filevault-be/internal/pkg/logger"
	"ai-filevault-be/internal/repository/specification"
	"ai-filevault-be/pkg/assistant/resolver"
	"ai-filevault-be/pkg/assistant/tools"
	"ai-filevault-be/pkg/reasoning"
	"ai-filevault-be/pkg/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInteractions struct {
	created []*entity.Interaction
	recent  []*entity.Interaction
}

func (s *stubInteractions) Create(ctx context.Context, interaction *entity.Interaction) error {
	s.created = append(s.created, interaction)
	return nil
}

func (s *stubInteractions) FindRecent(ctx context.Context, userId, conversationId uuid.UUID, limit int) ([]*entity.Interaction, error) {
	return s.recent, nil
}

func (s *stubInteractions) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Interaction, error) {
	return s.recent, nil
}

type stubSettings struct {
	setting *entity.AssistantSetting
}

func (s *stubSettings) FindByUserId(ctx context.Context, userId uuid.UUID) (*entity.AssistantSetting, error) {
	return s.setting, nil
}

func (s *stubSettings) Upsert(ctx context.Context, setting *entity.AssistantSetting) error {
	s.setting = setting
	return nil
}

type stubFiles struct {
	files []*entity.UserFile
}

func (s *stubFiles) Create(ctx context.Context, file *entity.UserFile) error { return nil }

func (s *stubFiles) Update(ctx context.Context, file *entity.UserFile) error { return nil }

func (s *stubFiles) Delete(ctx context.Context, userId uuid.UUID, id int64) error {
	for i, f := range s.files {
		if f.Id == id && f.UserId == userId {
			s.files = append(s.files[:i], s.files[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (s *stubFiles) FindById(ctx context.Context, userId uuid.UUID, id int64) (*entity.UserFile, error) {
	for _, f := range s.files {
		if f.Id == id && f.UserId == userId {
			return f, nil
		}
	}
	return nil, nil
}

func (s *stubFiles) FindByExactName(ctx context.Context, userId uuid.UUID, name string) (*entity.UserFile, error) {
	for _, f := range s.files {
		if f.UserId == userId && strings.EqualFold(f.OriginalFilename, name) {
			return f, nil
		}
	}
	return nil, nil
}

func (s *stubFiles) FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.UserFile, error) {
	var out []*entity.UserFile
	for _, f := range s.files {
		if f.UserId == userId {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *stubFiles) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserFile, error) {
	return s.files, nil
}

func (s *stubFiles) SearchByNameOrContent(ctx context.Context, userId uuid.UUID, keyword string) ([]*entity.UserFile, error) {
	return nil, nil
}

func (s *stubFiles) SumFileSizes(ctx context.Context, userId uuid.UUID) (int64, error) {
	return 0, nil
}

func (s *stubFiles) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(s.files)), nil
}

type stubCategories struct{}

func (s *stubCategories) Create(ctx context.Context, category *entity.FileCategory) error {
	category.Id = uuid.New()
	return nil
}

func (s *stubCategories) FindVisibleByName(ctx context.Context, userId uuid.UUID, name string) (*entity.FileCategory, error) {
	return nil, nil
}

func (s *stubCategories) FindAllVisible(ctx context.Context, userId uuid.UUID) ([]*entity.FileCategory, error) {
	return nil, nil
}

type stubOcr struct{}

func (s *stubOcr) FindCompletedByFileId(ctx context.Context, fileId int64) (*entity.OcrResult, error) {
	return nil, nil
}

func (s *stubOcr) Upsert(ctx context.Context, result *entity.OcrResult) error { return nil }

type stubStore struct {
	uploads []string
}

func (s *stubStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "https://files.example.com/" + key, nil
}

func (s *stubStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	s.uploads = append(s.uploads, key)
	return nil
}

func (s *stubStore) Delete(ctx context.Context, key string) error { return nil }

// scriptedReasoner replays a fixed sequence of completions or errors.
type scriptedReasoner struct {
	steps []scriptedStep
	calls int
}

type scriptedStep struct {
	completion *reasoning.Completion
	err        error
}

func (r *scriptedReasoner) Complete(ctx context.Context, messages []reasoning.Message, toolDefs []reasoning.Tool, opts ...reasoning.Option) (*reasoning.Completion, error) {
	if r.calls >= len(r.steps) {
		return nil, errors.New("unexpected reasoning call")
	}
	step := r.steps[r.calls]
	r.calls++
	return step.completion, step.err
}

type stubTranscriber struct {
	text string
	err  error
}

func (s *stubTranscriber) Transcribe(ctx context.Context, audio io.Reader, filename, language string) (string, error) {
	return s.text, s.err
}

type stubSynthesizer struct{}

func (s *stubSynthesizer) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	return []byte("mp3"), nil
}

type serviceFixture struct {
	service      IAssistantService
	interactions *stubInteractions
	files        *stubFiles
	store        *stubStore
	reasoner     *scriptedReasoner
	userId       uuid.UUID
}

func newServiceFixture(t *testing.T, steps ...scriptedStep) *serviceFixture {
	t.Helper()

	userId := uuid.New()
	interactions := &stubInteractions{}
	files := &stubFiles{
		files: []*entity.UserFile{
			{Id: 7, UserId: userId, OriginalFilename: "report.pdf", S3Key: "u/report.pdf", FileType: "document", UploadDate: time.Now()},
		},
	}
	store := &stubStore{}
	log := logger.NewNopLogger()
	res := resolver.New(files, interactions, log)
	reasoner := &scriptedReasoner{steps: steps}
	executor := tools.NewExecutor(files, &stubCategories{}, &stubOcr{}, nil, res, store, storage.NewUsageService(files, 5<<30), reasoner, "gpt-4-turbo", log)

	cfg := config.AssistantConfig{
		ChatModel:    "gpt-4-turbo",
		TTSVoice:     "nova",
		HistoryLimit: 10,
		ContextMerge: "latest",
		IncludeAudio: false,
	}

	return &serviceFixture{
		service:      NewAssistantService(interactions, &stubSettings{}, files, res, executor, reasoner, &stubTranscriber{}, &stubSynthesizer{}, store, nil, cfg, log),
		interactions: interactions,
		files:        files,
		store:        store,
		reasoner:     reasoner,
		userId:       userId,
	}
}

func toolCallStep(name, args string) scriptedStep {
	return scriptedStep{completion: &reasoning.Completion{ToolCalls: []reasoning.ToolCall{{Id: "call_1", Name: name, Arguments: args}}}}
}

func toolCallsStep(calls ...reasoning.ToolCall) scriptedStep {
	return scriptedStep{completion: &reasoning.Completion{ToolCalls: calls}}
}

func textStep(content string) scriptedStep {
	return scriptedStep{completion: &reasoning.Completion{Content: content}}
}

func errStep() scriptedStep {
	return scriptedStep{err: errors.New("upstream timeout")}
}

func TestProcessTurnShortUtteranceShortCircuits(t *testing.T) {
	fx := newServiceFixture(t)

	response, err := fx.service.ProcessTurn(context.Background(), fx.userId, &AssistantInput{TextPrompt: "a"})

	require.NoError(t, err)
	assert.Equal(t, constant.ResponsePromptTooShort, response.Response)
	assert.False(t, response.InteractionSuccess)
	assert.Equal(t, 0, fx.reasoner.calls)
	require.Len(t, fx.interactions.created, 1)
	assert.False(t, fx.interactions.created[0].Success)
}

func TestProcessTurnEmptyInputProducesFailedTurn(t *testing.T) {
	fx := newServiceFixture(t)

	response, err := fx.service.ProcessTurn(context.Background(), fx.userId, &AssistantInput{})

	require.NoError(t, err)
	assert.Equal(t, constant.ResponsePromptTooShort, response.Response)
	assert.False(t, response.InteractionSuccess)
	assert.Equal(t, 0, fx.reasoner.calls)
	require.Len(t, fx.interactions.created, 1)
	assert.False(t, fx.interactions.created[0].Success)
}

func TestProcessTurnTranscriptionFailureIsFatal(t *testing.T) {
	fx := newServiceFixture(t)
	svc := fx.service.(*assistantService)
	svc.transcriber = &stubTranscriber{err: errors.New("bad audio")}

	response, err := fx.service.ProcessTurn(context.Background(), fx.userId, &AssistantInput{Audio: strings.NewReader("noise"), AudioFilename: "clip.wav"})

	require.NoError(t, err)
	assert.Equal(t, constant.ResponseAudioNotUnderstood, response.Response)
	assert.False(t, response.InteractionSuccess)
	assert.Equal(t, 0, fx.reasoner.calls)
}

func TestProcessTurnMintsConversationId(t *testing.T) {
	fx := newServiceFixture(t, textStep("Hello! How can I help with your files?"))

	response, err := fx.service.ProcessTurn(context.Background(), fx.userId, &AssistantInput{TextPrompt: "hello there", ConversationId: "not-a-uuid"})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, response.ConversationId)
	require.Len(t, fx.interactions.created, 1)
	assert.Equal(t, response.ConversationId, fx.interactions.created[0].ConversationId)
}

func TestProcessTurnKeepsValidConversationId(t *testing.T) {
	conversationId := uuid.New()
	fx := newServiceFixture(t, textStep("Sure."))

	response, err := fx.service.ProcessTurn(context.Background(), fx.userId, &AssistantInput{TextPrompt: "thanks", ConversationId: conversationId.String()})

	require.NoError(t, err)
	assert.Equal(t, conversationId, response.ConversationId)
}

func TestProcessTurnNoToolCallEmptyContent(t *testing.T) {
	fx := newServiceFixture(t, textStep(""))

	response, err := fx.service.ProcessTurn(context.Background(), fx.userId, &AssistantInput{TextPrompt: "okay"})

	require.NoError(t, err)
	assert.Equal(t, constant.ResponseReadyForCommand, response.Response)
	assert.False(t, response.InteractionSuccess)
}

func TestProcessTurnDisplayFlowAppendsURL(t *testing.T) {
	fx := newServiceFixture(t,
		toolCallStep(tools.DisplayFile, `{"file_name_or_id":"report.pdf"}`),
		textStep("Here's your report."),
	)

	response, err := fx.service.ProcessTurn(context.Background(), fx.userId, &AssistantInput{TextPrompt: "open my report"})

	require.NoError(t, err)
	assert.True(t, response.InteractionSuccess)
	assert.Contains(t, response.Response, "View File: https://files.example.com/u/report.pdf")
	require.NotNil(t, response.Action)
	assert.Equal(t, tools.DisplayFile, response.Action.Type)
	require.NotNil(t, response.Action.FileDetails)
	assert.Equal(t, int64(7), response.Action.FileDetails.FileId)

	require.Len(t, fx.interactions.created, 1)
	interaction := fx.interactions.created[0]
	require.NotNil(t, interaction.ReferencedFileId)
	assert.Equal(t, int64(7), *interaction.ReferencedFileId)
	assert.NotEmpty(t, interaction.ReferenceContext)
}

func TestProcessTurnPassTwoFailureFallsBackToSummary(t *testing.T) {
	fx := newServiceFixture(t,
		toolCallStep(tools.RenameFile, `{"file_name_or_id":"report.pdf","new_name":"annual report"}`),
		errStep(),
	)

	response, err := fx.service.ProcessTurn(context.Background(), fx.userId, &AssistantInput{TextPrompt: "rename my report"})

	require.NoError(t, err)
	assert.True(t, response.InteractionSuccess)
	assert.Equal(t, "Okay, I've renamed the file from 'report.pdf' to 'annual report.pdf'.", response.Response)
}

func TestProcessTurnPrimaryToolFailureGatesSuccess(t *testing.T) {
	fx := newServiceFixture(t,
		toolCallsStep(
			reasoning.ToolCall{Id: "call_1", Name: tools.DeleteFile, Arguments: `{"file_name_or_id":"nope.pdf"}`},
			reasoning.ToolCall{Id: "call_2", Name: tools.DisplayFile, Arguments: `{"file_name_or_id":"report.pdf"}`},
		),
		textStep("I couldn't delete that, but here's your report."),
	)

	response, err := fx.service.ProcessTurn(context.Background(), fx.userId, &AssistantInput{TextPrompt: "delete nope.pdf and show my report"})

	require.NoError(t, err)
	assert.False(t, response.InteractionSuccess)
	require.Len(t, fx.interactions.created, 1)
	assert.False(t, fx.interactions.created[0].Success)
}

func TestProcessTurnSecondaryToolFailureKeepsSuccess(t *testing.T) {
	fx := newServiceFixture(t,
		toolCallsStep(
			reasoning.ToolCall{Id: "call_1", Name: tools.DisplayFile, Arguments: `{"file_name_or_id":"report.pdf"}`},
			reasoning.ToolCall{Id: "call_2", Name: tools.DeleteFile, Arguments: `{"file_name_or_id":"nope.pdf"}`},
		),
		textStep("Here's your report; the other file wasn't found."),
	)

	response, err := fx.service.ProcessTurn(context.Background(), fx.userId, &AssistantInput{TextPrompt: "show my report and delete nope.pdf"})

	require.NoError(t, err)
	assert.True(t, response.InteractionSuccess)
}

func TestProcessTurnPassTwoFallbackNeedsSoleInvocation(t *testing.T) {
	fx := newServiceFixture(t,
		toolCallsStep(
			reasoning.ToolCall{Id: "call_1", Name: tools.DisplayFile, Arguments: `{"file_name_or_id":"report.pdf"}`},
			reasoning.ToolCall{Id: "call_2", Name: tools.ListFiles, Arguments: `{}`},
		),
		errStep(),
	)

	response, err := fx.service.ProcessTurn(context.Background(), fx.userId, &AssistantInput{TextPrompt: "show my report and list everything"})

	require.NoError(t, err)
	assert.False(t, response.InteractionSuccess)
	assert.Equal(t, constant.ResponsePassTwoDegraded, response.Response)
}

func TestProcessTurnPassOneFailureIsFatal(t *testing.T) {
	fx := newServiceFixture(t, errStep())

	response, err := fx.service.ProcessTurn(context.Background(), fx.userId, &AssistantInput{TextPrompt: "show my files"})

	require.NoError(t, err)
	assert.Equal(t, constant.ResponseDefaultError, response.Response)
	assert.False(t, response.InteractionSuccess)
	require.Len(t, fx.interactions.created, 1)
}

func TestProcessTurnDeleteTwiceSecondFailsGracefully(t *testing.T) {
	fx := newServiceFixture(t,
		toolCallStep(tools.DeleteFile, `{"file_name_or_id":"report.pdf"}`),
		textStep("Deleted report.pdf for you."),
		toolCallStep(tools.DeleteFile, `{"file_name_or_id":"report.pdf"}`),
		textStep("I couldn't find that file, it may already be deleted."),
	)

	first, err := fx.service.ProcessTurn(context.Background(), fx.userId, &AssistantInput{TextPrompt: "delete my report"})
	require.NoError(t, err)
	assert.True(t, first.InteractionSuccess)

	second, err := fx.service.ProcessTurn(context.Background(), fx.userId, &AssistantInput{TextPrompt: "delete my report"})
	require.NoError(t, err)
	assert.False(t, second.InteractionSuccess)
	assert.NotEmpty(t, second.Response)

	require.Len(t, fx.interactions.created, 2)
	assert.Nil(t, fx.interactions.created[0].ReferencedFileId)
}

func TestProcessTurnSynthesizesAudioWhenRequested(t *testing.T) {
	include := true
	fx := newServiceFixture(t, textStep("Hello!"))

	response, err := fx.service.ProcessTurn(context.Background(), fx.userId, &AssistantInput{TextPrompt: "hi there", IncludeAudio: &include})

	require.NoError(t, err)
	require.Len(t, fx.store.uploads, 1)
	assert.True(t, strings.HasPrefix(fx.store.uploads[0], fmt.Sprintf("audio-responses/%s/", fx.userId)))
	assert.Contains(t, response.AudioURL, "audio-responses/")
}

func TestOpenFileFallsBackToRecentFiles(t *testing.T) {
	fx := newServiceFixture(t)

	response, err := fx.service.OpenFile(context.Background(), fx.userId, &dto.OpenFileRequest{Query: "nonexistent.xlsx"})

	require.NoError(t, err)
	assert.False(t, response.Found)
	require.Len(t, response.RecentFiles, 1)
	assert.Equal(t, "report.pdf", response.RecentFiles[0].FileName)
}

func TestUpdateSettingsMergesPartialPatch(t *testing.T) {
	fx := newServiceFixture(t)
	voice := "shimmer"

	updated, err := fx.service.UpdateSettings(context.Background(), fx.userId, &dto.UpdateAssistantSettingRequest{VoiceType: &voice})

	require.NoError(t, err)
	assert.Equal(t, "shimmer", updated.VoiceType)
	assert.Equal(t, "en", updated.Language)
	assert.Equal(t, "concise", updated.ResponseLength)
}
