// Package redaksi manages boilerplate text templates used by the front
// office when drafting letters.
package redaksi

import (
	"context"
	"time"

	"github.com/rzkdmln/sicakap/internal/core/apperror"
)

// Redaksi is one reusable text block.
type Redaksi struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Repository is the persistence contract.
type Repository interface {
	Create(ctx context.Context, r *Redaksi) (int64, error)
	GetByID(ctx context.Context, id int64) (*Redaksi, error)
	Update(ctx context.Context, r *Redaksi) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]Redaksi, error)
}

// Service wraps the repository with input validation.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, r *Redaksi) (int64, error) {
	if err := validate(r); err != nil {
		return 0, err
	}
	return s.repo.Create(ctx, r)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Redaksi, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, r *Redaksi) error {
	if r.ID == 0 {
		return apperror.NewValidation("redaksi id is required")
	}
	if err := validate(r); err != nil {
		return err
	}
	return s.repo.Update(ctx, r)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Redaksi, error) {
	return s.repo.List(ctx)
}

func validate(r *Redaksi) error {
	if r.Title == "" {
		return apperror.NewValidation("title is required").WithDetail("field", "title")
	}
	if r.Content == "" {
		return apperror.NewValidation("content is required").WithDetail("field", "content")
	}
	return nil
}
