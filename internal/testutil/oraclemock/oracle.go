package oraclemock

import (
	"context"

	"annuity-exchange/internal/domain/oracle"
)

var _ oracle.PriceOracle = (*Oracle)(nil)

// Oracle is a settable price source for tests. Err, when set, wins.
type Oracle struct {
	Quote oracle.Quote
	Err   error

	GetPriceFn func(ctx context.Context) (oracle.Quote, error)
}

func (m *Oracle) GetPrice(ctx context.Context) (oracle.Quote, error) {
	if m.GetPriceFn != nil {
		return m.GetPriceFn(ctx)
	}
	if m.Err != nil {
		return oracle.Quote{}, m.Err
	}
	return m.Quote, nil
}
