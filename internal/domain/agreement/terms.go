package agreement

import (
	"errors"
	"math/big"
)

// Rate is annual and expressed per-mille: rate=50 is 5% a year.
const (
	RateScale      = 1000
	SecondsPerYear = 31536000
)

var (
	hundred         = big.NewInt(100)
	rateDenominator = new(big.Int).Mul(big.NewInt(RateScale), big.NewInt(SecondsPerYear))
)

// Params are fixed at deployment. Ratios are whole percent: a 200 target with
// an 80 liquidation threshold requires collateral worth 120% of the future
// value at activation time.
type Params struct {
	TargetRatio          uint64
	LiquidationThreshold uint64
	DepositDecimals      uint32
	CollateralDecimals   uint32
}

func (p Params) Validate() error {
	if p.LiquidationThreshold == 0 || p.TargetRatio <= p.LiquidationThreshold {
		return errors.New("target ratio must exceed liquidation threshold")
	}
	if p.CollateralDecimals < p.DepositDecimals {
		return errors.New("collateral token must not have fewer decimals than deposit token")
	}
	return nil
}

func pow10(n uint32) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// decimalsGap converts deposit-token units to collateral-token precision.
func (p Params) decimalsGap() *big.Int {
	return pow10(p.CollateralDecimals - p.DepositDecimals)
}

// FutureValue computes principal * (1 + rate/RateScale * duration/SecondsPerYear)
// as a single fraction so the one truncating division comes last.
func FutureValue(principal *big.Int, rate, durationSecs uint64) *big.Int {
	num := new(big.Int).Mul(new(big.Int).SetUint64(rate), new(big.Int).SetUint64(durationSecs))
	num.Add(num, rateDenominator)
	num.Mul(num, principal)
	return num.Quo(num, rateDenominator)
}

// MinRequiredCollateral is the collateral amount that, valued at price, covers
// the gap between the target ratio and the liquidation trigger:
//
//	(target - threshold) * futureValue / (price * 100)
//
// lifted into collateral-token precision. price must be positive and carries
// priceDecimals of its own.
func (p Params) MinRequiredCollateral(futureValue, price *big.Int, priceDecimals uint32) (*big.Int, error) {
	if price == nil || price.Sign() <= 0 {
		return nil, errors.New("non-positive oracle price")
	}
	margin := new(big.Int).SetUint64(p.TargetRatio - p.LiquidationThreshold)
	num := new(big.Int).Mul(margin, futureValue)
	num.Mul(num, p.decimalsGap())
	num.Mul(num, pow10(priceDecimals))
	den := new(big.Int).Mul(price, hundred)
	return num.Quo(num, den), nil
}

// CollateralValue converts a collateral amount to deposit-token terms at the
// given oracle price.
func (p Params) CollateralValue(collateral, price *big.Int, priceDecimals uint32) *big.Int {
	if collateral == nil || price == nil || collateral.Sign() <= 0 || price.Sign() <= 0 {
		return big.NewInt(0)
	}
	num := new(big.Int).Mul(collateral, price)
	den := new(big.Int).Mul(pow10(priceDecimals), p.decimalsGap())
	return num.Quo(num, den)
}

// Undercollateralized reports whether collateral valued in deposit terms has
// fallen below threshold percent of the outstanding debt. Comparison is done
// cross-multiplied so no division truncates the check.
func (p Params) Undercollateralized(collateralValue, outstandingDebt *big.Int) bool {
	if outstandingDebt == nil || outstandingDebt.Sign() <= 0 {
		return false
	}
	lhs := new(big.Int).Mul(collateralValue, hundred)
	rhs := new(big.Int).Mul(outstandingDebt, new(big.Int).SetUint64(p.LiquidationThreshold))
	return lhs.Cmp(rhs) < 0
}

// OutstandingDebt is futureValue - repaidAmount, never negative.
func (a *Agreement) OutstandingDebt() *big.Int {
	out := a.FutureValue.BigInt()
	out.Sub(out, a.RepaidAmount.BigInt())
	if out.Sign() < 0 {
		out.SetInt64(0)
	}
	return out
}
