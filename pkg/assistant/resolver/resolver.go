// Package resolver turns the loose file references produced by conversation
// ("that file", "the invoice", a bare id, a half-remembered name) into a
// concrete user-owned file. Strategies run in a fixed order from cheapest to
// fuzziest; the first hit wins and a miss is a nil result, never an error.
package resolver

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"ai-filevault-be/internal/constant"
	"ai-filevault-be/internal/entity"
	"ai-filevault-be/internal/pkg/logger"
	"ai-filevault-be/pkg/assistant/refcontext"

	"github.com/google/uuid"
)

// FileSource is the slice of the file repository the resolver needs.
type FileSource interface {
	FindById(ctx context.Context, userId uuid.UUID, id int64) (*entity.UserFile, error)
	FindByExactName(ctx context.Context, userId uuid.UUID, name string) (*entity.UserFile, error)
	FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.UserFile, error)
}

// HistorySource exposes recent turns so stale pronouns can still resolve.
type HistorySource interface {
	FindRecent(ctx context.Context, userId, conversationId uuid.UUID, limit int) ([]*entity.Interaction, error)
}

type Resolver struct {
	files   FileSource
	history HistorySource
	logger  logger.ILogger
}

func New(files FileSource, history HistorySource, log logger.ILogger) *Resolver {
	return &Resolver{
		files:   files,
		history: history,
		logger:  log,
	}
}

// Resolve maps a free-form reference to one of the user's files.
// conversationId may be uuid.Nil when no conversation is active; the history
// fallback is skipped in that case.
func (r *Resolver) Resolve(ctx context.Context, userId uuid.UUID, query string, refCtx refcontext.Context, conversationId uuid.UUID) (*entity.UserFile, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	// 1. Reference terms against the working context
	if file, err := r.resolveReferenceTerm(ctx, userId, query, refCtx); file != nil || err != nil {
		return file, err
	}

	// 2. Recent-history fallback for pronouns the context missed
	if conversationId != uuid.Nil {
		if file, err := r.resolveFromHistory(ctx, userId, conversationId); file != nil || err != nil {
			return file, err
		}
	}

	// 3. Numeric id
	if id, err := strconv.ParseInt(query, 10, 64); err == nil {
		file, err := r.files.FindById(ctx, userId, id)
		if err != nil {
			return nil, err
		}
		if file != nil {
			return file, nil
		}
	}

	// 4-8. Name matching over the user's full listing
	return r.resolveByName(ctx, userId, query)
}

func (r *Resolver) resolveReferenceTerm(ctx context.Context, userId uuid.UUID, query string, refCtx refcontext.Context) (*entity.UserFile, error) {
	if len(refCtx) == 0 {
		return nil, nil
	}

	term := strings.ToLower(strings.TrimSpace(query))
	if !strings.Contains(term, "this") && !strings.Contains(term, "that") &&
		!strings.Contains(term, "it") && !strings.Contains(term, "file") &&
		!strings.Contains(term, "document") {
		return nil, nil
	}

	var keys []string
	if strings.Contains(term, "this") {
		keys = append(keys, "this")
	}
	if strings.Contains(term, "that") {
		keys = append(keys, "that")
	}
	if strings.Contains(term, "it") || strings.Contains(term, "the file") || strings.Contains(term, "the document") {
		keys = append(keys, "it")
	}

	for _, key := range keys {
		value, ok := refCtx[key]
		if !ok {
			continue
		}

		if ref, ok := refcontext.AsFileRef(value); ok {
			file, err := r.files.FindById(ctx, userId, ref.Id)
			if err != nil {
				return nil, err
			}
			if file != nil {
				r.logger.Info("Resolver", "Resolved reference term", map[string]interface{}{"term": key, "file_id": file.Id})
				return file, nil
			}
			// Binding is stale (file deleted); try the stored name.
			if ref.Name != "" {
				if file, err := r.resolveByName(ctx, userId, ref.Name); file != nil || err != nil {
					return file, err
				}
			}
			continue
		}

		// Legacy format: a bare name or id string.
		if name, ok := value.(string); ok && name != "" {
			if file, err := r.Resolve(ctx, userId, name, nil, uuid.Nil); file != nil || err != nil {
				return file, err
			}
		}
	}
	return nil, nil
}

func (r *Resolver) resolveFromHistory(ctx context.Context, userId, conversationId uuid.UUID) (*entity.UserFile, error) {
	interactions, err := r.history.FindRecent(ctx, userId, conversationId, constant.AssistantHistoryRefWindow)
	if err != nil {
		r.logger.Warn("Resolver", "History lookup failed", map[string]interface{}{"error": err.Error()})
		return nil, nil
	}

	for _, interaction := range interactions {
		if interaction.ReferencedFileId != nil {
			file, err := r.files.FindById(ctx, userId, *interaction.ReferencedFileId)
			if err != nil {
				return nil, err
			}
			if file != nil {
				return file, nil
			}
		}

		for _, key := range []string{"this", "that", "it", "1"} {
			ref, ok := refcontext.AsFileRef(interaction.ReferenceContext[key])
			if !ok {
				continue
			}
			file, err := r.files.FindById(ctx, userId, ref.Id)
			if err != nil {
				return nil, err
			}
			if file != nil {
				return file, nil
			}
		}
	}
	return nil, nil
}

func (r *Resolver) resolveByName(ctx context.Context, userId uuid.UUID, query string) (*entity.UserFile, error) {
	files, err := r.files.FindAllByUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	raw := strings.TrimSpace(query)
	search := strings.ToLower(raw)
	variants := searchVariants(raw)

	// Exact match, then extension completion, per variant
	for _, variant := range variants {
		for _, f := range files {
			if strings.EqualFold(f.OriginalFilename, variant) {
				return f, nil
			}
		}
		if !strings.Contains(variant, ".") {
			for _, ext := range constant.CommonFileExtensions {
				withExt := variant + ext
				for _, f := range files {
					if strings.EqualFold(f.OriginalFilename, withExt) {
						return f, nil
					}
				}
			}
		}
	}

	// Prefix, then substring. Files arrive newest first, so the first hit
	// is also the most recently uploaded.
	for _, variant := range variants {
		for _, f := range files {
			if strings.HasPrefix(strings.ToLower(f.OriginalFilename), variant) {
				return f, nil
			}
		}
	}
	for _, variant := range variants {
		for _, f := range files {
			if strings.Contains(strings.ToLower(f.OriginalFilename), variant) {
				return f, nil
			}
		}
	}

	// Word overlap: each word of 3+ chars votes; highest count wins and
	// ties go to the newest upload.
	words := strings.Fields(search)
	if len(words) > 1 {
		var best *entity.UserFile
		bestCount := 0
		for _, f := range files {
			name := strings.ToLower(f.OriginalFilename)
			count := 0
			for _, word := range words {
				if len(word) < 3 {
					continue
				}
				if strings.Contains(name, word) {
					count++
				}
			}
			if count > bestCount {
				bestCount = count
				best = f
			}
		}
		if best != nil {
			r.logger.Info("Resolver", "Resolved by word overlap", map[string]interface{}{"query": query, "file_id": best.Id})
			return best, nil
		}
	}

	r.logger.Warn("Resolver", "No file found", map[string]interface{}{"query": query})
	return nil, nil
}

// searchVariants expands a search term into the lowercase forms it is
// matched under: as-is, with spaces stripped, and with camelCase boundaries
// split (the split runs on the raw term, before case is dropped).
func searchVariants(raw string) []string {
	search := strings.ToLower(raw)
	variants := []string{search}

	noSpaces := strings.ReplaceAll(search, " ", "")
	if noSpaces != search {
		variants = append(variants, noSpaces)
	}

	camelSplit := strings.ToLower(splitCamelCase(raw))
	if camelSplit != search && camelSplit != noSpaces {
		variants = append(variants, camelSplit)
	}

	return variants
}

// splitCamelCase inserts spaces at case boundaries: before an upper rune
// that follows a lower rune, and before an upper rune followed by a lower
// rune ("CGProjectPlan" -> "CG Project Plan").
func splitCamelCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || (nextLower && runes[i-1] != ' ') {
				b.WriteRune(' ')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
