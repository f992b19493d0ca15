package domain

import (
	"context"
	"time"
)

// BaseModel is the common base struct for persisted models.
// It replaces gorm.Model to avoid the implicit soft delete behavior of DeletedAt.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Note is the record served by the bundled notes service.
type Note struct {
	BaseModel
	Title string `gorm:"size:200;not null" json:"title"`
	Body  string `gorm:"type:text" json:"body"`
}

// NoteRepository defines the data access interface for notes.
type NoteRepository interface {
	Create(ctx context.Context, note *Note) error
	GetByID(ctx context.Context, id uint) (*Note, error)
	List(ctx context.Context, req PageRequest) (*PageResult[Note], error)
	Update(ctx context.Context, note *Note) error
	Delete(ctx context.Context, id uint) error
}

// PageRequest holds pagination parameters.
type PageRequest struct {
	Page     int
	PageSize int
}

// PageResult is one page of items plus the totals needed to render paging.
type PageResult[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}
