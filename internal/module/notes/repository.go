package notes

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/simp-lee/routekit/internal/domain"
	"github.com/simp-lee/routekit/internal/pkg"
)

// noteRepository implements domain.NoteRepository using GORM.
type noteRepository struct {
	db *gorm.DB
}

// NewRepository creates a NoteRepository backed by db. db may be a
// transaction handle.
func NewRepository(db *gorm.DB) domain.NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *domain.Note) error {
	return mapError(r.db.WithContext(ctx).Create(note).Error)
}

func (r *noteRepository) GetByID(ctx context.Context, id uint) (*domain.Note, error) {
	var note domain.Note
	if err := r.db.WithContext(ctx).First(&note, id).Error; err != nil {
		return nil, mapError(err)
	}
	return &note, nil
}

// List returns one page of notes, newest first.
func (r *noteRepository) List(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.Note], error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Note{}).Count(&total).Error; err != nil {
		return nil, mapError(err)
	}

	var notes []domain.Note
	if err := r.db.WithContext(ctx).Scopes(pkg.Paginate(req)).Order("id DESC").Find(&notes).Error; err != nil {
		return nil, mapError(err)
	}

	return pkg.NewPageResult(notes, total, req), nil
}

func (r *noteRepository) Update(ctx context.Context, note *domain.Note) error {
	return mapError(r.db.WithContext(ctx).Save(note).Error)
}

func (r *noteRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&domain.Note{}, id)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// mapError converts GORM errors to domain errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return domain.NewAppError(domain.CodeInternal, "database error", err)
}
