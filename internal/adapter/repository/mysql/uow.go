package mysql

import (
	"context"

	"annuity-exchange/internal/domain/agreement"
	"annuity-exchange/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func (u *GormUoW) repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Agreements: &AgreementRepository{db: tx},
		Custody:    &CustodyRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(u.repos(tx))
	})
}

func (u *GormUoW) WithinAgreementTx(ctx context.Context, id uint64, fn func(r uow.Repos, a *agreement.Agreement) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := u.repos(tx)
		// lock the agreement row up-front to prevent races
		a, err := r.Agreements.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		return fn(r, a)
	})
}
