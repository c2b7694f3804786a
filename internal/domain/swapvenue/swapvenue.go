package swapvenue

import (
	"context"
	"errors"
	"math/big"
)

var (
	ErrUnavailable = errors.New("swap venue unavailable")
	// ErrShortfall is advisory: executors treat a short fill as a partial
	// recovery, not a failure.
	ErrShortfall = errors.New("swap delivered less than desired output")
)

// Result reports what a swap actually did. AmountIn is collateral consumed,
// AmountOut deposit tokens produced; AmountOut may be below the requested
// output when liquidity runs out inside the input cap.
type Result struct {
	AmountIn  *big.Int
	AmountOut *big.Int
}

func (r Result) Short(desired *big.Int) bool {
	return r.AmountOut == nil || r.AmountOut.Cmp(desired) < 0
}

// SwapVenue converts collateral tokens to deposit tokens at prevailing rate.
// Implementations must never consume more than maxInput and should stop once
// desiredOutput is reached. A transport or venue failure returns a zero
// Result and an error; a short fill returns the partial Result and nil.
type SwapVenue interface {
	SwapForExactOutput(ctx context.Context, desiredOutput, maxInput *big.Int) (Result, error)
}
