package agreementmock

import (
	"context"

	domain "annuity-exchange/internal/domain/agreement"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies agreement.Repository.
// Fill in the function fields a test needs; unfilled getters report not-found.
type Repo struct {
	CreateFn           func(ctx context.Context, a *domain.Agreement) error
	GetByIDFn          func(ctx context.Context, id uint64) (*domain.Agreement, error)
	GetByIDForUpdateFn func(ctx context.Context, id uint64) (*domain.Agreement, error)
	SaveFn             func(ctx context.Context, a *domain.Agreement) error
	ListActiveFn       func(ctx context.Context) ([]*domain.Agreement, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Agreement) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Agreement, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.Agreement, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) Save(ctx context.Context, a *domain.Agreement) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, a)
	}
	return nil
}

func (m *Repo) ListActive(ctx context.Context) ([]*domain.Agreement, error) {
	if m.ListActiveFn != nil {
		return m.ListActiveFn(ctx)
	}
	return nil, nil
}
