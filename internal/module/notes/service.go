package notes

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/simp-lee/routekit/internal/domain"
	"github.com/simp-lee/routekit/internal/pkg"
)

// Service holds the note use cases.
type Service struct {
	db   *gorm.DB
	repo domain.NoteRepository
}

// NewService creates a Service on db.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db, repo: NewRepository(db)}
}

func (s *Service) Create(ctx context.Context, title, body string) (*domain.Note, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.NewAppError(domain.CodeValidation, "title is required", nil)
	}

	note := &domain.Note{Title: title, Body: body}
	if err := s.repo.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*domain.Note, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, req domain.PageRequest) (*domain.PageResult[domain.Note], error) {
	return s.repo.List(ctx, req)
}

// Update loads the note and saves the new content in one transaction.
func (s *Service) Update(ctx context.Context, id uint, title, body string) (*domain.Note, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.NewAppError(domain.CodeValidation, "title is required", nil)
	}

	var note *domain.Note
	err := pkg.WithTx(ctx, s.db, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		n, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		n.Title = title
		n.Body = body
		if err := repo.Update(ctx, n); err != nil {
			return err
		}
		note = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}
