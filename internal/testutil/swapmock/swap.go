package swapmock

import (
	"context"
	"math/big"

	"annuity-exchange/internal/domain/swapvenue"
)

var _ swapvenue.SwapVenue = (*Venue)(nil)

// Venue is a function-backed swap double.
type Venue struct {
	SwapForExactOutputFn func(ctx context.Context, desiredOutput, maxInput *big.Int) (swapvenue.Result, error)
}

func (m *Venue) SwapForExactOutput(ctx context.Context, desiredOutput, maxInput *big.Int) (swapvenue.Result, error) {
	if m.SwapForExactOutputFn != nil {
		return m.SwapForExactOutputFn(ctx, desiredOutput, maxInput)
	}
	return swapvenue.Result{}, swapvenue.ErrUnavailable
}

// RateVenue fills exact-output swaps at a fixed price with bounded output
// liquidity, mimicking a venue well enough for executor tests.
//
// Price follows the oracle convention: deposit units per whole collateral
// token at PriceDecimals, with collateral/deposit token decimals as given.
type RateVenue struct {
	Price              *big.Int
	PriceDecimals      uint32
	DepositDecimals    uint32
	CollateralDecimals uint32
	// MaxOutput caps how many deposit tokens the venue can produce per call;
	// nil means unbounded.
	MaxOutput *big.Int

	Calls int
}

var _ swapvenue.SwapVenue = (*RateVenue)(nil)

func pow10(n uint32) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

func (v *RateVenue) SwapForExactOutput(_ context.Context, desiredOutput, maxInput *big.Int) (swapvenue.Result, error) {
	v.Calls++

	out := new(big.Int).Set(desiredOutput)
	if v.MaxOutput != nil && out.Cmp(v.MaxOutput) > 0 {
		out.Set(v.MaxOutput)
	}

	scale := new(big.Int).Mul(pow10(v.PriceDecimals), pow10(v.CollateralDecimals-v.DepositDecimals))

	// collateral needed for `out` deposit units, rounded up
	need := new(big.Int).Mul(out, scale)
	need.Add(need, new(big.Int).Sub(v.Price, big.NewInt(1)))
	need.Quo(need, v.Price)

	if need.Cmp(maxInput) > 0 {
		// spend the whole cap and deliver what it buys
		need = new(big.Int).Set(maxInput)
		out = new(big.Int).Mul(need, v.Price)
		out.Quo(out, scale)
	}
	return swapvenue.Result{AmountIn: need, AmountOut: out}, nil
}
