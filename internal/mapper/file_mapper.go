package mapper

import (
	"time"

	"ai-filevault-be/internal/entity"
	"ai-filevault-be/internal/model"
)

type FileMapper struct{}

func NewFileMapper() *FileMapper {
	return &FileMapper{}
}

func (m *FileMapper) UserFileToEntity(f *model.UserFile) *entity.UserFile {
	if f == nil {
		return nil
	}

	var updatedAt *time.Time
	if !f.UpdatedAt.IsZero() {
		t := f.UpdatedAt
		updatedAt = &t
	}

	categoryName := ""
	if f.Category != nil {
		categoryName = f.Category.Name
	}

	return &entity.UserFile{
		Id:               f.Id,
		UserId:           f.UserId,
		OriginalFilename: f.OriginalFilename,
		S3Key:            f.S3Key,
		FileType:         f.FileType,
		FileSize:         f.FileSize,
		CategoryId:       f.CategoryId,
		CategoryName:     categoryName,
		UploadDate:       f.UploadDate,
		UpdatedAt:        updatedAt,
	}
}

func (m *FileMapper) UserFileToModel(f *entity.UserFile) *model.UserFile {
	if f == nil {
		return nil
	}

	var updatedAt time.Time
	if f.UpdatedAt != nil {
		updatedAt = *f.UpdatedAt
	}

	return &model.UserFile{
		Id:               f.Id,
		UserId:           f.UserId,
		OriginalFilename: f.OriginalFilename,
		S3Key:            f.S3Key,
		FileType:         f.FileType,
		FileSize:         f.FileSize,
		CategoryId:       f.CategoryId,
		UploadDate:       f.UploadDate,
		UpdatedAt:        updatedAt,
	}
}

func (m *FileMapper) FileCategoryToEntity(c *model.FileCategory) *entity.FileCategory {
	if c == nil {
		return nil
	}
	return &entity.FileCategory{
		Id:        c.Id,
		Name:      c.Name,
		CreatedBy: c.CreatedBy,
		IsDefault: c.IsDefault,
		CreatedAt: c.CreatedAt,
	}
}

func (m *FileMapper) FileCategoryToModel(c *entity.FileCategory) *model.FileCategory {
	if c == nil {
		return nil
	}
	return &model.FileCategory{
		Id:        c.Id,
		Name:      c.Name,
		CreatedBy: c.CreatedBy,
		IsDefault: c.IsDefault,
		CreatedAt: c.CreatedAt,
	}
}

func (m *FileMapper) OcrResultToModel(o *entity.OcrResult) *model.OcrResult {
	if o == nil {
		return nil
	}

	return &model.OcrResult{
		Id:          o.Id,
		FileId:      o.FileId,
		Status:      o.Status,
		TextContent: o.TextContent,
	}
}

func (m *FileMapper) OcrResultToEntity(o *model.OcrResult) *entity.OcrResult {
	if o == nil {
		return nil
	}

	var updatedAt *time.Time
	if !o.UpdatedAt.IsZero() {
		t := o.UpdatedAt
		updatedAt = &t
	}

	return &entity.OcrResult{
		Id:          o.Id,
		FileId:      o.FileId,
		Status:      o.Status,
		TextContent: o.TextContent,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}
