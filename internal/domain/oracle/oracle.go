package oracle

import (
	"context"
	"errors"
	"math/big"
	"time"
)

var (
	ErrUnavailable  = errors.New("price oracle unavailable")
	ErrStalePrice   = errors.New("oracle price older than allowed age")
	ErrInvalidPrice = errors.New("oracle returned non-positive price")
)

// Quote is one oracle observation: deposit-token units per whole collateral
// token, carrying its own decimal scale.
type Quote struct {
	Price     *big.Int
	Decimals  uint32
	Timestamp time.Time
}

// Check range-checks the price and enforces the staleness policy. maxAge <= 0
// disables the age check.
func (q Quote) Check(now time.Time, maxAge time.Duration) error {
	if q.Price == nil || q.Price.Sign() <= 0 {
		return ErrInvalidPrice
	}
	if maxAge > 0 && now.Sub(q.Timestamp) > maxAge {
		return ErrStalePrice
	}
	return nil
}

type PriceOracle interface {
	GetPrice(ctx context.Context) (Quote, error)
}
