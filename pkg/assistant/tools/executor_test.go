package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"ai-filevault-be/internal/entity"
	"ai-filevault-be/internal/model"
	"ai-filevault-be/internal/pkg/logger"
	"ai-filevault-be/internal/repository/specification"
	"ai-filevault-be/pkg/assistant/refcontext"
	"ai-filevault-be/pkg/assistant/resolver"
	"ai-filevault-be/pkg/reasoning"
	"ai-filevault-be/pkg/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFiles struct {
	files []*entity.UserFile
}

func (f *fakeFiles) Create(ctx context.Context, file *entity.UserFile) error {
	f.files = append([]*entity.UserFile{file}, f.files...)
	return nil
}

func (f *fakeFiles) Update(ctx context.Context, file *entity.UserFile) error {
	for i, existing := range f.files {
		if existing.Id == file.Id {
			f.files[i] = file
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeFiles) Delete(ctx context.Context, userId uuid.UUID, id int64) error {
	for i, existing := range f.files {
		if existing.Id == id && existing.UserId == userId {
			f.files = append(f.files[:i], f.files[i+1:]...)
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeFiles) FindById(ctx context.Context, userId uuid.UUID, id int64) (*entity.UserFile, error) {
	for _, existing := range f.files {
		if existing.Id == id && existing.UserId == userId {
			return existing, nil
		}
	}
	return nil, nil
}

func (f *fakeFiles) FindByExactName(ctx context.Context, userId uuid.UUID, name string) (*entity.UserFile, error) {
	for _, existing := range f.files {
		if existing.UserId == userId && strings.EqualFold(existing.OriginalFilename, name) {
			return existing, nil
		}
	}
	return nil, nil
}

func (f *fakeFiles) FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.UserFile, error) {
	var out []*entity.UserFile
	for _, existing := range f.files {
		if existing.UserId == userId {
			out = append(out, existing)
		}
	}
	return out, nil
}

func (f *fakeFiles) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UserFile, error) {
	return f.files, nil
}

func (f *fakeFiles) SearchByNameOrContent(ctx context.Context, userId uuid.UUID, keyword string) ([]*entity.UserFile, error) {
	var out []*entity.UserFile
	for _, existing := range f.files {
		if existing.UserId == userId && strings.Contains(strings.ToLower(existing.OriginalFilename), strings.ToLower(keyword)) {
			out = append(out, existing)
		}
	}
	return out, nil
}

func (f *fakeFiles) SumFileSizes(ctx context.Context, userId uuid.UUID) (int64, error) {
	var total int64
	for _, existing := range f.files {
		if existing.UserId == userId {
			total += existing.FileSize
		}
	}
	return total, nil
}

func (f *fakeFiles) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.files)), nil
}

type fakeCategories struct {
	categories []*entity.FileCategory
}

func (f *fakeCategories) Create(ctx context.Context, category *entity.FileCategory) error {
	category.Id = uuid.New()
	f.categories = append(f.categories, category)
	return nil
}

func (f *fakeCategories) FindVisibleByName(ctx context.Context, userId uuid.UUID, name string) (*entity.FileCategory, error) {
	for _, c := range f.categories {
		if strings.EqualFold(c.Name, name) && (c.IsDefault || (c.CreatedBy != nil && *c.CreatedBy == userId)) {
			return c, nil
		}
	}
	return nil, nil
}

func (f *fakeCategories) FindAllVisible(ctx context.Context, userId uuid.UUID) ([]*entity.FileCategory, error) {
	return f.categories, nil
}

type fakeOcr struct {
	results map[int64]*entity.OcrResult
}

func (f *fakeOcr) FindCompletedByFileId(ctx context.Context, fileId int64) (*entity.OcrResult, error) {
	return f.results[fileId], nil
}

func (f *fakeOcr) Upsert(ctx context.Context, result *entity.OcrResult) error {
	f.results[result.FileId] = result
	return nil
}

type fakeStore struct {
	deleted []string
}

func (f *fakeStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("https://files.example.com/%s?ttl=%d", key, int(ttl.Seconds())), nil
}

func (f *fakeStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeHistory struct{}

func (f *fakeHistory) FindRecent(ctx context.Context, userId, conversationId uuid.UUID, limit int) ([]*entity.Interaction, error) {
	return nil, nil
}

type fakeReasoner struct {
	content string
	err     error
}

func (f *fakeReasoner) Complete(ctx context.Context, messages []reasoning.Message, tools []reasoning.Tool, opts ...reasoning.Option) (*reasoning.Completion, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &reasoning.Completion{Content: f.content}, nil
}

type executorFixture struct {
	executor   *Executor
	files      *fakeFiles
	categories *fakeCategories
	ocr        *fakeOcr
	store      *fakeStore
	inv        Invocation
}

func newExecutorFixture(t *testing.T) *executorFixture {
	t.Helper()

	userId := uuid.New()
	files := &fakeFiles{
		files: []*entity.UserFile{
			{Id: 5, UserId: userId, OriginalFilename: "invoice_march.pdf", S3Key: "u/invoice_march.pdf", FileType: "document", FileSize: 2048, CategoryName: "Banking", UploadDate: time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
			{Id: 3, UserId: userId, OriginalFilename: "vacation.jpg", S3Key: "u/vacation.jpg", FileType: "image", FileSize: 4096, UploadDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)},
		},
	}
	categories := &fakeCategories{
		categories: []*entity.FileCategory{
			{Id: uuid.New(), Name: "Banking", IsDefault: true},
		},
	}
	ocr := &fakeOcr{results: map[int64]*entity.OcrResult{}}
	store := &fakeStore{}
	log := logger.NewNopLogger()
	res := resolver.New(files, &fakeHistory{}, log)
	usage := storage.NewUsageService(files, 5<<30)

	return &executorFixture{
		executor:   NewExecutor(files, categories, ocr, nil, res, store, usage, &fakeReasoner{content: "A short summary."}, "gpt-4-turbo", log),
		files:      files,
		categories: categories,
		ocr:        ocr,
		store:      store,
		inv:        Invocation{UserId: userId, ConversationId: uuid.New(), RefContext: refcontext.Context{}},
	}
}

func call(name, args string) reasoning.ToolCall {
	return reasoning.ToolCall{Id: "call_1", Name: name, Arguments: args}
}

func TestDispatchUnknownTool(t *testing.T) {
	fx := newExecutorFixture(t)

	result, file := fx.executor.Dispatch(context.Background(), fx.inv, call("reformat_disk", "{}"))

	assert.False(t, result.Success)
	assert.Equal(t, "Unknown function", result.Error)
	assert.Nil(t, file)
}

func TestDispatchInvalidArguments(t *testing.T) {
	fx := newExecutorFixture(t)

	result, _ := fx.executor.Dispatch(context.Background(), fx.inv, call(RenameFile, "{not json"))

	assert.False(t, result.Success)
	assert.Equal(t, "Invalid arguments.", result.Error)
}

func TestListFilesGroupsByCategory(t *testing.T) {
	fx := newExecutorFixture(t)

	result, file := fx.executor.Dispatch(context.Background(), fx.inv, call(ListFiles, "{}"))

	require.True(t, result.Success)
	assert.Nil(t, file)
	assert.Contains(t, result.Summary, "Found 2 file(s)")
	assert.Contains(t, result.Summary, "Category: Banking")
	assert.Contains(t, result.Summary, "Category: Uncategorized")
	assert.Contains(t, result.Summary, "ID:5 invoice_march.pdf")
}

func TestListFilesFilterByType(t *testing.T) {
	fx := newExecutorFixture(t)

	result, _ := fx.executor.Dispatch(context.Background(), fx.inv, call(ListFiles, `{"file_type":"image"}`))

	require.True(t, result.Success)
	assert.Contains(t, result.Summary, "Found 1 file(s)")
	assert.Contains(t, result.Summary, "vacation.jpg")
	assert.NotContains(t, result.Summary, "invoice_march.pdf")
}

func TestSearchFilesKeywordTooShort(t *testing.T) {
	fx := newExecutorFixture(t)

	result, _ := fx.executor.Dispatch(context.Background(), fx.inv, call(SearchFiles, `{"keyword":"in"}`))

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "at least 3 characters")
}

func TestSearchFilesMatches(t *testing.T) {
	fx := newExecutorFixture(t)

	result, _ := fx.executor.Dispatch(context.Background(), fx.inv, call(SearchFiles, `{"keyword":"invoice"}`))

	require.True(t, result.Success)
	assert.Contains(t, result.Summary, "invoice_march.pdf")
	assert.Equal(t, 1, result.Payload["count"])
}

func TestSummarizeFileWithoutOcr(t *testing.T) {
	fx := newExecutorFixture(t)

	result, file := fx.executor.Dispatch(context.Background(), fx.inv, call(SummarizeFile, `{"file_name_or_id":"invoice_march.pdf"}`))

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "doesn't have text content")
	require.NotNil(t, file)
	assert.Equal(t, int64(5), file.Id)
}

func TestSummarizeFileWithOcr(t *testing.T) {
	fx := newExecutorFixture(t)
	fx.ocr.results[5] = &entity.OcrResult{FileId: 5, Status: model.OcrStatusCompleted, TextContent: "Invoice for March services, total due 1200 EUR."}

	result, file := fx.executor.Dispatch(context.Background(), fx.inv, call(SummarizeFile, `{"file_name_or_id":"invoice_march.pdf"}`))

	require.True(t, result.Success)
	assert.Contains(t, result.Summary, "Summary of 'invoice_march.pdf'")
	assert.Contains(t, result.Summary, "A short summary.")
	require.NotNil(t, file)
	assert.Equal(t, int64(5), file.Id)
}

func TestDisplayFilePayload(t *testing.T) {
	fx := newExecutorFixture(t)

	result, file := fx.executor.Dispatch(context.Background(), fx.inv, call(DisplayFile, `{"file_name_or_id":"5"}`))

	require.True(t, result.Success)
	require.NotNil(t, file)
	assert.Equal(t, int64(5), result.Payload["file_id"])
	assert.Equal(t, "invoice_march.pdf", result.Payload["fileName"])
	url, _ := result.Payload["fileUrl"].(string)
	assert.Contains(t, url, "u/invoice_march.pdf")
}

func TestDisplayFileNotFound(t *testing.T) {
	fx := newExecutorFixture(t)

	result, file := fx.executor.Dispatch(context.Background(), fx.inv, call(DisplayFile, `{"file_name_or_id":"ghost.pdf"}`))

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "couldn't find a file matching 'ghost.pdf'")
	assert.Nil(t, file)
}

func TestRenameFilePreservesExtension(t *testing.T) {
	fx := newExecutorFixture(t)

	result, file := fx.executor.Dispatch(context.Background(), fx.inv, call(RenameFile, `{"file_name_or_id":"invoice_march.pdf","new_name":"march invoice"}`))

	require.True(t, result.Success)
	assert.Contains(t, result.Summary, "'march invoice.pdf'")
	require.NotNil(t, file)
	assert.Equal(t, "march invoice.pdf", file.OriginalFilename)
}

func TestRenameFileSameNameRejected(t *testing.T) {
	fx := newExecutorFixture(t)

	result, _ := fx.executor.Dispatch(context.Background(), fx.inv, call(RenameFile, `{"file_name_or_id":"invoice_march.pdf","new_name":"invoice_march.pdf"}`))

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "same as the current name")
}

func TestDeleteFileReturnsNoFile(t *testing.T) {
	fx := newExecutorFixture(t)

	result, file := fx.executor.Dispatch(context.Background(), fx.inv, call(DeleteFile, `{"file_name_or_id":"vacation.jpg"}`))

	require.True(t, result.Success)
	assert.Contains(t, result.Summary, "permanently deleted the file 'vacation.jpg'")
	assert.Nil(t, file)
	assert.Equal(t, []string{"u/vacation.jpg"}, fx.store.deleted)

	remaining, _ := fx.files.FindAllByUser(context.Background(), fx.inv.UserId)
	assert.Len(t, remaining, 1)
}

func TestDeleteFileTwiceFailsGracefully(t *testing.T) {
	fx := newExecutorFixture(t)

	first, _ := fx.executor.Dispatch(context.Background(), fx.inv, call(DeleteFile, `{"file_name_or_id":"vacation.jpg"}`))
	require.True(t, first.Success)

	second, _ := fx.executor.Dispatch(context.Background(), fx.inv, call(DeleteFile, `{"file_name_or_id":"vacation.jpg"}`))
	assert.False(t, second.Success)
	assert.Contains(t, second.Error, "couldn't find a file matching 'vacation.jpg'")
}

func TestMoveFileCreatesMissingCategory(t *testing.T) {
	fx := newExecutorFixture(t)

	result, file := fx.executor.Dispatch(context.Background(), fx.inv, call(MoveFile, `{"file_name_or_id":"vacation.jpg","target_category_name":"travel photos"}`))

	require.True(t, result.Success)
	assert.Contains(t, result.Summary, "moved 'vacation.jpg' to the 'Travel Photos' category")
	require.NotNil(t, file)
	assert.Equal(t, "Travel Photos", file.CategoryName)

	created, err := fx.categories.FindVisibleByName(context.Background(), fx.inv.UserId, "Travel Photos")
	require.NoError(t, err)
	require.NotNil(t, created)
}

func TestMoveFileSameCategoryRejected(t *testing.T) {
	fx := newExecutorFixture(t)
	banking := fx.categories.categories[0]
	fx.files.files[0].CategoryId = &banking.Id

	result, _ := fx.executor.Dispatch(context.Background(), fx.inv, call(MoveFile, `{"file_name_or_id":"invoice_march.pdf","target_category_name":"Banking"}`))

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "already in the 'Banking' category")
}

func TestShareFileLinkTTL(t *testing.T) {
	fx := newExecutorFixture(t)

	result, _ := fx.executor.Dispatch(context.Background(), fx.inv, call(ShareFile, `{"file_name_or_id":"invoice_march.pdf"}`))

	require.True(t, result.Success)
	assert.Contains(t, result.Summary, "expire in 24 hours")
	url, _ := result.Payload["share_url"].(string)
	assert.Contains(t, url, "ttl=86400")
}

func TestCreateFolderTitleCasesName(t *testing.T) {
	fx := newExecutorFixture(t)

	result, _ := fx.executor.Dispatch(context.Background(), fx.inv, call(CreateFolder, `{"folder_name":"tax returns"}`))

	require.True(t, result.Success)
	assert.Contains(t, result.Summary, "'Tax Returns'")
}

func TestCreateFolderDuplicateRejected(t *testing.T) {
	fx := newExecutorFixture(t)

	result, _ := fx.executor.Dispatch(context.Background(), fx.inv, call(CreateFolder, `{"folder_name":"banking"}`))

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "'Banking' already exists")
}

func TestStorageInfoFormatting(t *testing.T) {
	fx := newExecutorFixture(t)

	result, _ := fx.executor.Dispatch(context.Background(), fx.inv, call(StorageInfo, "{}"))

	require.True(t, result.Success)
	assert.Contains(t, result.Summary, "out of 5.0 GB")
	assert.Equal(t, int64(6144), result.Payload["used_bytes"])
}

func TestResultSerialize(t *testing.T) {
	success := ok("done", map[string]interface{}{"count": 2}).Serialize()
	assert.Contains(t, success, `"success":true`)
	assert.Contains(t, success, `"result":"done"`)
	assert.Contains(t, success, `"count":2`)

	failure := fail("nope").Serialize()
	assert.Contains(t, failure, `"success":false`)
	assert.Contains(t, failure, `"error":"nope"`)
}
