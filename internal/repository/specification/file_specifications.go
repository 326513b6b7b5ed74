package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByFileID filters user files by their numeric primary key.
type ByFileID struct {
	ID int64
}

func (s ByFileID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

// FilenameEquals matches the original filename case-insensitively.
type FilenameEquals struct {
	Name string
}

func (s FilenameEquals) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(original_filename) = LOWER(?)", s.Name)
}

// FilenameContains is a case-insensitive substring match on the filename.
type FilenameContains struct {
	Keyword string
}

func (s FilenameContains) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("original_filename ILIKE ?", "%"+s.Keyword+"%")
}

// FilenameEndsWith matches files by extension, case-insensitively.
type FilenameEndsWith struct {
	Suffix string
}

func (s FilenameEndsWith) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("original_filename ILIKE ?", "%"+s.Suffix)
}

// InCategory filters files by category id.
type InCategory struct {
	CategoryID uuid.UUID
}

func (s InCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category_id = ?", s.CategoryID)
}

// CategoryNameEquals matches a category name case-insensitively.
type CategoryNameEquals struct {
	Name string
}

func (s CategoryNameEquals) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(name) = LOWER(?)", s.Name)
}

// VisibleCategoriesFor selects a user's own categories plus the defaults.
type VisibleCategoriesFor struct {
	UserID uuid.UUID
}

func (s VisibleCategoriesFor) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_by = ? OR is_default = TRUE", s.UserID)
}
