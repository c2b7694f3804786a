package mysql

import (
	"context"

	agreementDomain "annuity-exchange/internal/domain/agreement"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AgreementRepository struct{ db *gorm.DB }

func NewAgreementRepository(db *gorm.DB) *AgreementRepository { return &AgreementRepository{db: db} }

func (r *AgreementRepository) Create(ctx context.Context, a *agreementDomain.Agreement) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AgreementRepository) Save(ctx context.Context, a *agreementDomain.Agreement) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *AgreementRepository) GetByID(ctx context.Context, id uint64) (*agreementDomain.Agreement, error) {
	var out agreementDomain.Agreement
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

// GetByIDForUpdate takes a row lock so concurrent mutations of the same
// agreement serialize on the database.
func (r *AgreementRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*agreementDomain.Agreement, error) {
	var out agreementDomain.Agreement
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *AgreementRepository) ListActive(ctx context.Context) ([]*agreementDomain.Agreement, error) {
	var out []*agreementDomain.Agreement
	res := r.db.WithContext(ctx).
		Where("status = ?", agreementDomain.StatusActive).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
