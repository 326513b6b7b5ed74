package resolver

import (
	"context"
	"testing"
	"time"

	"ai-filevault-be/internal/entity"
	"ai-filevault-be/internal/pkg/logger"
	"ai-filevault-be/pkg/assistant/refcontext"

	"github.com/google/uuid"
)

type fakeFileSource struct {
	files []*entity.UserFile
}

func (f *fakeFileSource) FindById(ctx context.Context, userId uuid.UUID, id int64) (*entity.UserFile, error) {
	for _, file := range f.files {
		if file.Id == id && file.UserId == userId {
			return file, nil
		}
	}
	return nil, nil
}

func (f *fakeFileSource) FindByExactName(ctx context.Context, userId uuid.UUID, name string) (*entity.UserFile, error) {
	for _, file := range f.files {
		if file.UserId == userId && file.OriginalFilename == name {
			return file, nil
		}
	}
	return nil, nil
}

func (f *fakeFileSource) FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.UserFile, error) {
	var out []*entity.UserFile
	for _, file := range f.files {
		if file.UserId == userId {
			out = append(out, file)
		}
	}
	return out, nil
}

type fakeHistorySource struct {
	interactions []*entity.Interaction
}

func (f *fakeHistorySource) FindRecent(ctx context.Context, userId, conversationId uuid.UUID, limit int) ([]*entity.Interaction, error) {
	var out []*entity.Interaction
	for _, i := range f.interactions {
		if i.UserId == userId && i.ConversationId == conversationId {
			out = append(out, i)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

var (
	ownerId  = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	otherId  = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	baseTime = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
)

func testFiles() []*entity.UserFile {
	// Newest first, as the repository returns them.
	return []*entity.UserFile{
		{Id: 5, UserId: ownerId, OriginalFilename: "CGProjectPlan.pdf", FileType: "document", UploadDate: baseTime.Add(4 * time.Hour)},
		{Id: 4, UserId: ownerId, OriginalFilename: "meeting notes.docx", FileType: "document", UploadDate: baseTime.Add(3 * time.Hour)},
		{Id: 3, UserId: ownerId, OriginalFilename: "invoice_march.pdf", FileType: "document", UploadDate: baseTime.Add(2 * time.Hour)},
		{Id: 2, UserId: ownerId, OriginalFilename: "vacation.jpg", FileType: "image", UploadDate: baseTime.Add(time.Hour)},
		{Id: 9, UserId: otherId, OriginalFilename: "secret.pdf", FileType: "document", UploadDate: baseTime},
	}
}

func newTestResolver(history []*entity.Interaction) *Resolver {
	return New(&fakeFileSource{files: testFiles()}, &fakeHistorySource{interactions: history}, logger.NewNopLogger())
}

func TestResolveByName(t *testing.T) {
	r := newTestResolver(nil)

	tests := []struct {
		name   string
		query  string
		wantId int64
	}{
		{"exact match", "invoice_march.pdf", 3},
		{"exact match different case", "INVOICE_MARCH.PDF", 3},
		{"extension completion", "invoice_march", 3},
		{"spaces stripped plus extension", "cg project plan", 5},
		{"camel split finds spaced name", "MeetingNotes", 4},
		{"prefix match", "vaca", 2},
		{"substring match", "march", 3},
		{"word overlap picks best", "march invoice file", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := r.Resolve(context.Background(), ownerId, tt.query, nil, uuid.Nil)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.query, err)
			}
			if file == nil {
				t.Fatalf("Resolve(%q) = nil, want id %d", tt.query, tt.wantId)
			}
			if file.Id != tt.wantId {
				t.Errorf("Resolve(%q) = %s (id %d), want id %d", tt.query, file.OriginalFilename, file.Id, tt.wantId)
			}
		})
	}
}

func TestResolveNumericId(t *testing.T) {
	r := newTestResolver(nil)

	file, err := r.Resolve(context.Background(), ownerId, "3", nil, uuid.Nil)
	if err != nil {
		t.Fatal(err)
	}
	if file == nil || file.Id != 3 {
		t.Errorf("Resolve(3) = %v, want invoice_march.pdf", file)
	}
}

func TestResolveCrossUserIdIsNotFound(t *testing.T) {
	r := newTestResolver(nil)

	// File 9 belongs to another user; ownership must hold on every strategy.
	file, err := r.Resolve(context.Background(), ownerId, "9", nil, uuid.Nil)
	if err != nil {
		t.Fatal(err)
	}
	if file != nil {
		t.Errorf("Resolve(9) leaked another user's file: %+v", file)
	}
}

func TestResolveNoMatchReturnsNil(t *testing.T) {
	r := newTestResolver(nil)

	file, err := r.Resolve(context.Background(), ownerId, "zzz_does_not_exist", nil, uuid.Nil)
	if err != nil {
		t.Fatalf("no-match must not be an error, got %v", err)
	}
	if file != nil {
		t.Errorf("Resolve(no match) = %+v, want nil", file)
	}
}

func TestResolveReferenceTerm(t *testing.T) {
	r := newTestResolver(nil)
	refCtx := refcontext.Update(refcontext.Context{}, refcontext.FileRef{Id: 4, Name: "meeting notes.docx", Type: "document"})

	for _, query := range []string{"this", "that file", "it", "the document"} {
		file, err := r.Resolve(context.Background(), ownerId, query, refCtx, uuid.Nil)
		if err != nil {
			t.Fatal(err)
		}
		if file == nil || file.Id != 4 {
			t.Errorf("Resolve(%q) = %v, want meeting notes.docx", query, file)
		}
	}
}

func TestResolveReferenceTermAfterJSONRoundTrip(t *testing.T) {
	r := newTestResolver(nil)
	// Context values loaded from jsonb arrive as maps with float64 ids.
	refCtx := refcontext.Context{
		"this": map[string]interface{}{"id": float64(5), "name": "CGProjectPlan.pdf", "type": "document"},
	}

	file, err := r.Resolve(context.Background(), ownerId, "this file", refCtx, uuid.Nil)
	if err != nil {
		t.Fatal(err)
	}
	if file == nil || file.Id != 5 {
		t.Errorf("Resolve(this file) = %v, want CGProjectPlan.pdf", file)
	}
}

func TestResolveFallsBackToHistory(t *testing.T) {
	convId := uuid.MustParse("33333333-3333-3333-3333-333333333333")
	fileId := int64(3)
	history := []*entity.Interaction{
		{UserId: ownerId, ConversationId: convId, ReferencedFileId: &fileId},
	}
	r := newTestResolver(history)

	file, err := r.Resolve(context.Background(), ownerId, "that file", nil, convId)
	if err != nil {
		t.Fatal(err)
	}
	if file == nil || file.Id != 3 {
		t.Errorf("Resolve(that file) via history = %v, want invoice_march.pdf", file)
	}
}

func TestSplitCamelCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"CGProjectPlan", "CG Project Plan"},
		{"meetingNotes", "meeting Notes"},
		{"plain", "plain"},
		{"ALLCAPS", "ALLCAPS"},
	}

	for _, tt := range tests {
		if got := splitCamelCase(tt.in); got != tt.want {
			t.Errorf("splitCamelCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
