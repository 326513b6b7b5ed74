package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-filevault-be/internal/constant"
	"ai-filevault-be/internal/entity"
	"ai-filevault-be/internal/pkg/logger"
	"ai-filevault-be/internal/repository/contract"
	"ai-filevault-be/pkg/assistant/refcontext"
	"ai-filevault-be/pkg/assistant/resolver"
	"ai-filevault-be/pkg/reasoning"
	"ai-filevault-be/pkg/storage"

	"github.com/google/uuid"
)

// OcrRequester enqueues text extraction for a file whose OCR is missing.
type OcrRequester interface {
	RequestExtraction(ctx context.Context, fileId int64) error
}

// Executor owns the dispatch table. Every handler returns a Result and, when
// a single file was acted upon, that file for the context update. Deletions
// return a nil file so pronouns never rebind to a gone file.
type Executor struct {
	files      contract.UserFileRepository
	categories contract.FileCategoryRepository
	ocr        contract.OcrResultRepository
	ocrQueue   OcrRequester
	resolver   *resolver.Resolver
	store      storage.Adapter
	usage      *storage.UsageService
	reasoner   reasoning.Provider
	chatModel  string
	logger     logger.ILogger
}

func NewExecutor(
	files contract.UserFileRepository,
	categories contract.FileCategoryRepository,
	ocr contract.OcrResultRepository,
	ocrQueue OcrRequester,
	res *resolver.Resolver,
	store storage.Adapter,
	usage *storage.UsageService,
	reasoner reasoning.Provider,
	chatModel string,
	log logger.ILogger,
) *Executor {
	return &Executor{
		files:      files,
		categories: categories,
		ocr:        ocr,
		ocrQueue:   ocrQueue,
		resolver:   res,
		store:      store,
		usage:      usage,
		reasoner:   reasoner,
		chatModel:  chatModel,
		logger:     log,
	}
}

// Invocation carries the per-turn context a handler needs.
type Invocation struct {
	UserId         uuid.UUID
	ConversationId uuid.UUID
	RefContext     refcontext.Context
}

// Dispatch routes one tool call. It never returns a Go error: malformed
// arguments, missing files, and handler panics-turned-errors all become
// failed Results so one bad call cannot sink the turn.
func (e *Executor) Dispatch(ctx context.Context, inv Invocation, call reasoning.ToolCall) (Result, *entity.UserFile) {
	var args map[string]interface{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			e.logger.Warn("Tools", "Invalid tool arguments", map[string]interface{}{"tool": call.Name, "error": err.Error()})
			return fail("Invalid arguments."), nil
		}
	}

	e.logger.Info("Tools", "Executing tool", map[string]interface{}{"tool": call.Name, "user_id": inv.UserId})

	switch call.Name {
	case ListFiles:
		return e.listFiles(ctx, inv, stringArg(args, "category_name"), stringArg(args, "file_type")), nil
	case SearchFiles:
		return e.searchFiles(ctx, inv, stringArg(args, "keyword")), nil
	case SummarizeFile:
		return e.summarizeFile(ctx, inv, stringArg(args, "file_name_or_id"))
	case DisplayFile:
		return e.displayFile(ctx, inv, stringArg(args, "file_name_or_id"))
	case RenameFile:
		return e.renameFile(ctx, inv, stringArg(args, "file_name_or_id"), stringArg(args, "new_name"))
	case DeleteFile:
		return e.deleteFile(ctx, inv, stringArg(args, "file_name_or_id"))
	case MoveFile:
		return e.moveFile(ctx, inv, stringArg(args, "file_name_or_id"), stringArg(args, "target_category_name"))
	case ShareFile:
		return e.shareFile(ctx, inv, stringArg(args, "file_name_or_id"))
	case CreateFolder:
		return e.createFolder(ctx, inv, stringArg(args, "folder_name")), nil
	case StorageInfo:
		return e.storageInfo(ctx, inv), nil
	default:
		e.logger.Warn("Tools", "Unknown tool requested", map[string]interface{}{"tool": call.Name})
		return fail("Unknown function"), nil
	}
}

func (e *Executor) resolve(ctx context.Context, inv Invocation, ref string) (*entity.UserFile, error) {
	return e.resolver.Resolve(ctx, inv.UserId, ref, inv.RefContext, inv.ConversationId)
}

func (e *Executor) listFiles(ctx context.Context, inv Invocation, categoryName, fileType string) Result {
	files, err := e.files.FindAllByUser(ctx, inv.UserId)
	if err != nil {
		e.logger.Error("Tools", "List files failed", map[string]interface{}{"error": err.Error()})
		return fail("Sorry, I encountered an error while trying to list your files.")
	}

	var filtersApplied []string
	if categoryName != "" {
		// "Banking documents" -> "Banking"
		simple := strings.Fields(categoryName)[0]
		files = filterFiles(files, func(f *entity.UserFile) bool {
			return strings.EqualFold(f.CategoryName, simple)
		})
		filtersApplied = append(filtersApplied, fmt.Sprintf("category '%s'", categoryName))
	}
	if fileType != "" {
		typeMap := map[string]string{
			"pdf": "document", "doc": "document", "docx": "document",
			"xls": "document", "xlsx": "document", "image": "image",
			"jpg": "image", "jpeg": "image", "png": "image",
			"audio": "audio", "mp3": "audio", "wav": "audio",
		}
		lowered := strings.ToLower(fileType)
		if mapped, ok := typeMap[lowered]; ok {
			files = filterFiles(files, func(f *entity.UserFile) bool {
				return f.FileType == mapped
			})
			filtersApplied = append(filtersApplied, fmt.Sprintf("type '%s'", fileType))
		} else {
			suffix := "." + lowered
			files = filterFiles(files, func(f *entity.UserFile) bool {
				return strings.HasSuffix(strings.ToLower(f.OriginalFilename), suffix)
			})
			filtersApplied = append(filtersApplied, fmt.Sprintf("extension '%s'", suffix))
		}
	}

	count := len(files)
	filterStr := ""
	if len(filtersApplied) > 0 {
		filterStr = " matching " + strings.Join(filtersApplied, ", ")
	}

	if count == 0 {
		return ok(fmt.Sprintf("You don't seem to have any files%s.", filterStr), map[string]interface{}{"count": 0})
	}

	grouped := map[string][]string{}
	var order []string
	limit := constant.AssistantListLimit
	for i, f := range files {
		if i == limit {
			break
		}
		cat := f.CategoryName
		if cat == "" {
			cat = "Uncategorized"
		}
		if _, seen := grouped[cat]; !seen {
			order = append(order, cat)
		}
		grouped[cat] = append(grouped[cat], fmt.Sprintf("- ID:%d %s (Type: %s, Uploaded: %s)",
			f.Id, f.OriginalFilename, f.FileType, f.UploadDate.Format("Jan 02, 2006")))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d file(s)%s:\n", count, filterStr)
	for _, cat := range order {
		fmt.Fprintf(&b, "\nCategory: %s\n%s", cat, strings.Join(grouped[cat], "\n"))
	}
	if count > limit {
		fmt.Fprintf(&b, "\n... and %d more files.", count-limit)
	}

	return ok(b.String(), map[string]interface{}{"count": count})
}

func (e *Executor) searchFiles(ctx context.Context, inv Invocation, keyword string) Result {
	if len(keyword) < constant.AssistantSearchMinKeyword {
		return fail("Please provide a search keyword with at least 3 characters.")
	}

	matches, err := e.files.SearchByNameOrContent(ctx, inv.UserId, keyword)
	if err != nil {
		e.logger.Error("Tools", "Search failed", map[string]interface{}{"keyword": keyword, "error": err.Error()})
		return fail("Sorry, I encountered an error while searching your files.")
	}

	count := len(matches)
	if count == 0 {
		return ok(fmt.Sprintf("I couldn't find any files containing '%s' in the name or content.", keyword),
			map[string]interface{}{"count": 0})
	}

	limit := constant.AssistantListLimit
	var lines []string
	for i, f := range matches {
		if i == limit {
			break
		}
		cat := f.CategoryName
		if cat == "" {
			cat = "Uncategorized"
		}
		lines = append(lines, fmt.Sprintf("- ID:%d %s (Category: %s)", f.Id, f.OriginalFilename, cat))
	}

	text := fmt.Sprintf("I found %d file(s) containing '%s':\n%s", count, keyword, strings.Join(lines, "\n"))
	if count > limit {
		text += fmt.Sprintf("\n... and %d more matches.", count-limit)
	}
	return ok(text, map[string]interface{}{"count": count})
}

func (e *Executor) summarizeFile(ctx context.Context, inv Invocation, ref string) (Result, *entity.UserFile) {
	file, err := e.resolve(ctx, inv, ref)
	if err != nil {
		return fail(fmt.Sprintf("Sorry, an error occurred while looking up '%s'.", ref)), nil
	}
	if file == nil {
		return fail(fmt.Sprintf("I couldn't find a file matching '%s' to summarize.", ref)), nil
	}

	ocrResult, err := e.ocr.FindCompletedByFileId(ctx, file.Id)
	if err != nil {
		return fail(fmt.Sprintf("Sorry, an error occurred while summarizing '%s'.", file.OriginalFilename)), file
	}
	if ocrResult == nil || ocrResult.TextContent == "" {
		// Queue extraction so a retry can succeed
		if e.ocrQueue != nil {
			if err := e.ocrQueue.RequestExtraction(ctx, file.Id); err != nil {
				e.logger.Warn("Tools", "Could not queue text extraction", map[string]interface{}{"file_id": file.Id, "error": err.Error()})
			}
		}
		return fail(fmt.Sprintf("I found '%s', but it doesn't have text content I can summarize yet. Please ensure OCR has been processed.", file.OriginalFilename)), file
	}

	text := ocrResult.TextContent
	truncated := false
	if len(text) > constant.AssistantSummarizeMaxChars {
		text = text[:constant.AssistantSummarizeMaxChars] + "..."
		truncated = true
	}

	completion, err := e.reasoner.Complete(ctx,
		[]reasoning.Message{
			{Role: reasoning.RoleSystem, Content: constant.AssistantSummarizeSystemPrompt},
			{Role: reasoning.RoleUser, Content: fmt.Sprintf("Summarize this text from document '%s':\n\n%s", file.OriginalFilename, text)},
		},
		nil,
		reasoning.WithModel(e.chatModel),
		reasoning.WithMaxTokens(800),
	)
	if err != nil {
		e.logger.Error("Tools", "Summarization call failed", map[string]interface{}{"file_id": file.Id, "error": err.Error()})
		return fail(fmt.Sprintf("Sorry, an error occurred while summarizing '%s'.", file.OriginalFilename)), file
	}

	summary := completion.Content
	if truncated {
		summary += "\n\n(Note: Summary based on the first part of a long document.)"
	}

	// Best effort link; the summary stands without it.
	fileURL, urlErr := e.store.PresignGet(ctx, file.S3Key, constant.DisplayLinkTTL*time.Second)
	if urlErr != nil {
		e.logger.Warn("Tools", "Could not presign summarized file", map[string]interface{}{"file_id": file.Id, "error": urlErr.Error()})
		fileURL = ""
	}

	resultText := fmt.Sprintf("**Summary of '%s'**:\n\n%s", file.OriginalFilename, summary)
	if fileURL != "" {
		resultText += "\n\nView Document: " + fileURL
	}

	return ok(resultText, map[string]interface{}{
		"file_id":   file.Id,
		"file_name": file.OriginalFilename,
		"summary":   summary,
		"file_url":  fileURL,
	}), file
}

func (e *Executor) displayFile(ctx context.Context, inv Invocation, ref string) (Result, *entity.UserFile) {
	file, err := e.resolve(ctx, inv, ref)
	if err != nil {
		return fail(fmt.Sprintf("Sorry, an error occurred while getting details for '%s'.", ref)), nil
	}
	if file == nil {
		return fail(fmt.Sprintf("I couldn't find a file matching '%s'. Please check the name or try again.", ref)), nil
	}

	fileURL, err := e.store.PresignGet(ctx, file.S3Key, constant.DisplayLinkTTL*time.Second)
	if err != nil || fileURL == "" {
		e.logger.Error("Tools", "Failed to presign display URL", map[string]interface{}{"file_id": file.Id})
		return fail("Could not generate a link for this file."), file
	}

	cat := file.CategoryName
	if cat == "" {
		cat = "Uncategorized"
	}

	resultText := fmt.Sprintf("Here's the file you requested:\nFile: %s\nCategory: %s\nType: %s\nUploaded: %s\n\nDirect Link: %s",
		file.OriginalFilename, cat, file.FileType, file.UploadDate.Format("January 02, 2006"), fileURL)

	return ok(resultText, map[string]interface{}{
		"file_id":     file.Id,
		"fileId":      file.Id,
		"file_name":   file.OriginalFilename,
		"fileName":    file.OriginalFilename,
		"file_type":   file.FileType,
		"fileType":    file.FileType,
		"category":    cat,
		"upload_date": file.UploadDate.Format("2006-01-02"),
		"file_url":    fileURL,
		"fileUrl":     fileURL,
	}), file
}

func (e *Executor) renameFile(ctx context.Context, inv Invocation, ref, newName string) (Result, *entity.UserFile) {
	file, err := e.resolve(ctx, inv, ref)
	if err != nil {
		return fail(fmt.Sprintf("Sorry, an error occurred while renaming '%s'.", ref)), nil
	}
	if file == nil {
		return fail(fmt.Sprintf("I couldn't find a file matching '%s' to rename.", ref)), nil
	}

	newName = strings.TrimSpace(newName)
	if len(newName) < constant.AssistantRenameMinLength {
		return fail("Please provide a valid new name (at least 3 characters)."), file
	}

	oldName := file.OriginalFilename
	// Keep the old extension when the new name has none.
	if !strings.Contains(newName, ".") && strings.Contains(oldName, ".") {
		parts := strings.Split(oldName, ".")
		newName = newName + "." + parts[len(parts)-1]
	}

	if oldName == newName {
		return fail(fmt.Sprintf("The new name '%s' is the same as the current name.", newName)), file
	}

	file.OriginalFilename = newName
	if err := e.files.Update(ctx, file); err != nil {
		e.logger.Error("Tools", "Rename failed", map[string]interface{}{"file_id": file.Id, "error": err.Error()})
		return fail(fmt.Sprintf("Sorry, an error occurred while renaming '%s'.", oldName)), file
	}

	return ok(fmt.Sprintf("Okay, I've renamed the file from '%s' to '%s'.", oldName, newName), map[string]interface{}{
		"file_id":  file.Id,
		"old_name": oldName,
		"new_name": newName,
	}), file
}

func (e *Executor) deleteFile(ctx context.Context, inv Invocation, ref string) (Result, *entity.UserFile) {
	file, err := e.resolve(ctx, inv, ref)
	if err != nil {
		return fail(fmt.Sprintf("Sorry, an error occurred while trying to delete '%s'.", ref)), nil
	}
	if file == nil {
		return fail(fmt.Sprintf("I couldn't find a file matching '%s' to delete.", ref)), nil
	}

	if file.S3Key != "" {
		if err := e.store.Delete(ctx, file.S3Key); err != nil {
			// The DB row is authoritative; orphaned objects get swept later.
			e.logger.Warn("Tools", "Object delete failed, continuing", map[string]interface{}{"file_id": file.Id, "error": err.Error()})
		}
	}

	if err := e.files.Delete(ctx, inv.UserId, file.Id); err != nil {
		e.logger.Error("Tools", "Delete failed", map[string]interface{}{"file_id": file.Id, "error": err.Error()})
		return fail(fmt.Sprintf("Sorry, an error occurred while trying to delete '%s'.", file.OriginalFilename)), file
	}

	if e.usage != nil {
		e.usage.Invalidate(inv.UserId)
	}

	// Deliberately no file returned: the reference context must not keep
	// pointing at a deleted file.
	return ok(fmt.Sprintf("Okay, I have permanently deleted the file '%s'.", file.OriginalFilename), map[string]interface{}{
		"deleted_file_name": file.OriginalFilename,
		"deleted_file_id":   file.Id,
	}), nil
}

func (e *Executor) moveFile(ctx context.Context, inv Invocation, ref, targetCategory string) (Result, *entity.UserFile) {
	file, err := e.resolve(ctx, inv, ref)
	if err != nil {
		return fail(fmt.Sprintf("Sorry, an error occurred while moving '%s'.", ref)), nil
	}
	if file == nil {
		return fail(fmt.Sprintf("I couldn't find a file matching '%s' to move.", ref)), nil
	}

	targetCategory = strings.TrimSpace(targetCategory)
	if targetCategory == "" {
		return fail("Please specify which category/folder to move the file to."), file
	}

	category, err := e.categories.FindVisibleByName(ctx, inv.UserId, targetCategory)
	if err != nil {
		return fail(fmt.Sprintf("Sorry, an error occurred while moving '%s'.", file.OriginalFilename)), file
	}
	if category == nil {
		userId := inv.UserId
		category = &entity.FileCategory{
			Name:      titleCase(targetCategory),
			CreatedBy: &userId,
		}
		if err := e.categories.Create(ctx, category); err != nil {
			e.logger.Error("Tools", "Category create failed", map[string]interface{}{"name": targetCategory, "error": err.Error()})
			return fail(fmt.Sprintf("Sorry, an error occurred while moving '%s'.", file.OriginalFilename)), file
		}
	}

	fromCategory := file.CategoryName
	if fromCategory == "" {
		fromCategory = "Uncategorized"
	}

	if file.CategoryId != nil && *file.CategoryId == category.Id {
		return fail(fmt.Sprintf("'%s' is already in the '%s' category.", file.OriginalFilename, category.Name)), file
	}

	categoryId := category.Id
	file.CategoryId = &categoryId
	file.CategoryName = category.Name
	if err := e.files.Update(ctx, file); err != nil {
		e.logger.Error("Tools", "Move failed", map[string]interface{}{"file_id": file.Id, "error": err.Error()})
		return fail(fmt.Sprintf("Sorry, an error occurred while moving '%s'.", file.OriginalFilename)), file
	}

	return ok(fmt.Sprintf("Okay, I've moved '%s' to the '%s' category.", file.OriginalFilename, category.Name), map[string]interface{}{
		"file_id":       file.Id,
		"file_name":     file.OriginalFilename,
		"from_category": fromCategory,
		"to_category":   category.Name,
	}), file
}

func (e *Executor) shareFile(ctx context.Context, inv Invocation, ref string) (Result, *entity.UserFile) {
	file, err := e.resolve(ctx, inv, ref)
	if err != nil {
		return fail(fmt.Sprintf("Sorry, an error occurred while creating a share link for '%s'.", ref)), nil
	}
	if file == nil {
		return fail(fmt.Sprintf("I couldn't find a file matching '%s' to share.", ref)), nil
	}

	if file.S3Key == "" {
		return fail("Sharing is not available for this file right now."), file
	}

	shareURL, err := e.store.PresignGet(ctx, file.S3Key, constant.ShareLinkTTL*time.Second)
	if err != nil || shareURL == "" {
		e.logger.Error("Tools", "Failed to presign share URL", map[string]interface{}{"file_id": file.Id})
		return fail("Sorry, I couldn't create a share link for that file."), file
	}

	resultText := fmt.Sprintf("Okay, here is a temporary link to share '%s'. It will expire in 24 hours:\n%s", file.OriginalFilename, shareURL)
	return ok(resultText, map[string]interface{}{
		"file_id":            file.Id,
		"file_name":          file.OriginalFilename,
		"share_url":          shareURL,
		"expires_in_seconds": constant.ShareLinkTTL,
	}), file
}

func (e *Executor) createFolder(ctx context.Context, inv Invocation, folderName string) Result {
	folderName = strings.TrimSpace(folderName)
	if len(folderName) < constant.AssistantFolderMinLength {
		return fail("Please provide a folder name (at least 3 characters).")
	}

	existing, err := e.categories.FindVisibleByName(ctx, inv.UserId, folderName)
	if err != nil {
		return fail("Sorry, I couldn't create the folder due to an internal error.")
	}
	if existing != nil {
		return fail(fmt.Sprintf("A folder named '%s' already exists.", existing.Name))
	}

	userId := inv.UserId
	category := &entity.FileCategory{
		Name:      titleCase(folderName),
		CreatedBy: &userId,
	}
	if err := e.categories.Create(ctx, category); err != nil {
		e.logger.Error("Tools", "Folder create failed", map[string]interface{}{"name": folderName, "error": err.Error()})
		return fail("Sorry, I couldn't create the folder due to an internal error.")
	}

	return ok(fmt.Sprintf("Okay, I've created the folder '%s'.", category.Name), map[string]interface{}{
		"folder_name": category.Name,
	})
}

func (e *Executor) storageInfo(ctx context.Context, inv Invocation) Result {
	usage, err := e.usage.Usage(ctx, inv.UserId)
	if err != nil {
		e.logger.Error("Tools", "Storage info failed", map[string]interface{}{"error": err.Error()})
		return fail("Sorry, I couldn't retrieve your storage information right now.")
	}

	usedGB := float64(usage.UsedBytes) / (1 << 30)
	limitGB := float64(usage.LimitBytes) / (1 << 30)
	return ok(fmt.Sprintf("You are currently using %.2f GB out of %.1f GB (%.1f%% used).",
		usedGB, limitGB, usage.PercentUsed()), map[string]interface{}{
		"used_bytes":  usage.UsedBytes,
		"limit_bytes": usage.LimitBytes,
	})
}

func stringArg(args map[string]interface{}, key string) string {
	if args == nil {
		return ""
	}
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func filterFiles(files []*entity.UserFile, keep func(*entity.UserFile) bool) []*entity.UserFile {
	var out []*entity.UserFile
	for _, f := range files {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
