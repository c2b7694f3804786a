package uow

import (
	"context"

	"annuity-exchange/internal/domain/agreement"
	"annuity-exchange/internal/domain/custody"
)

type Repos struct {
	Agreements agreement.Repository
	Custody    custody.Repository
}

type UnitOfWork interface {
	// WithinTx runs fn with repositories bound to one transaction.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinAgreementTx additionally locks the agreement row up-front, giving
	// per-id mutual exclusion for the duration of fn.
	WithinAgreementTx(ctx context.Context, id uint64, fn func(r Repos, a *agreement.Agreement) error) error
}
