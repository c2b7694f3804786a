package liquidation

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"annuity-exchange/internal/domain/agreement"
	"annuity-exchange/internal/domain/custody"
	"annuity-exchange/internal/domain/events"
	"annuity-exchange/internal/domain/oracle"
	"annuity-exchange/internal/domain/swapvenue"
	"annuity-exchange/internal/domain/uow"

	"go.uber.org/zap"
)

// Outcome reports one liquidation attempt. A nil Err with a non-zero
// Shortfall is the "successful but lossy" case: the agreement is closed and
// the lender absorbed the difference.
type Outcome struct {
	AgreementID uint64   `json:"agreement_id"`
	Recovered   *big.Int `json:"-"`
	Consumed    *big.Int `json:"-"`
	Refunded    *big.Int `json:"-"`
	Shortfall   *big.Int `json:"-"`
	Err         error    `json:"-"`
}

// Executor turns scanner output into closed agreements. Each id runs in its
// own transaction: one bad agreement never aborts the batch.
type Executor struct {
	uow         uow.UnitOfWork
	oracle      oracle.PriceOracle
	swap        swapvenue.SwapVenue
	params      agreement.Params
	maxPriceAge time.Duration
	sink        events.Sink
	log         *zap.Logger

	now func() time.Time
}

func NewExecutor(tx uow.UnitOfWork, po oracle.PriceOracle, sv swapvenue.SwapVenue, params agreement.Params, maxPriceAge time.Duration, sink events.Sink, log *zap.Logger) *Executor {
	if sink == nil {
		sink = events.Discard{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Executor{
		uow:         tx,
		oracle:      po,
		swap:        sv,
		params:      params,
		maxPriceAge: maxPriceAge,
		sink:        sink,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Perform liquidates the given agreements. Every id is re-validated against
// current state and price first: the scan that produced the ids may be stale
// by the time we run, and an id that no longer qualifies is skipped, not
// failed.
func (e *Executor) Perform(ctx context.Context, ids []uint64) ([]Outcome, error) {
	q, err := e.oracle.GetPrice(ctx)
	if err != nil {
		return nil, err
	}
	if err := q.Check(e.now(), e.maxPriceAge); err != nil {
		return nil, err
	}

	out := make([]Outcome, 0, len(ids))
	for _, id := range ids {
		o := e.liquidateOne(ctx, id, q)
		if o.Err != nil {
			e.log.Warn("liquidation skipped",
				zap.Uint64("agreement_id", id),
				zap.Error(o.Err))
		} else {
			e.log.Info("agreement liquidated",
				zap.Uint64("agreement_id", id),
				zap.String("recovered", o.Recovered.String()),
				zap.String("consumed", o.Consumed.String()),
				zap.String("refunded", o.Refunded.String()),
				zap.String("shortfall", o.Shortfall.String()))
		}
		out = append(out, o)
	}
	return out, nil
}

// PerformPayload is Perform over an opaque scan payload.
func (e *Executor) PerformPayload(ctx context.Context, payload []byte) ([]Outcome, error) {
	ids, err := DecodePayload(payload)
	if err != nil {
		return nil, fmt.Errorf("decode scan payload: %w", err)
	}
	return e.Perform(ctx, ids)
}

func (e *Executor) liquidateOne(ctx context.Context, id uint64, q oracle.Quote) Outcome {
	o := Outcome{AgreementID: id}
	o.Err = e.uow.WithinAgreementTx(ctx, id, func(r uow.Repos, a *agreement.Agreement) error {
		if !eligible(a, e.params, q, e.now()) {
			return agreement.ErrInvalidState
		}

		outstanding := a.OutstandingDebt()
		collateral := a.Collateral.BigInt()
		priorRepaid := a.RepaidAmount.BigInt()

		res, err := e.swap.SwapForExactOutput(ctx, outstanding, collateral)
		if err != nil {
			return err
		}
		if res.AmountIn == nil || res.AmountOut == nil || res.AmountIn.Cmp(collateral) > 0 {
			return fmt.Errorf("swap venue consumed more than the input cap")
		}

		recovered := new(big.Int).Set(res.AmountOut)
		if recovered.Cmp(outstanding) > 0 {
			recovered.Set(outstanding)
		}
		refund := new(big.Int).Sub(collateral, res.AmountIn)
		shortfall := new(big.Int).Sub(outstanding, recovered)

		// Collateral consumed leaves escrow for the venue; proceeds go
		// straight to the lender, who absorbs any shortfall as realized
		// loss. Leftover collateral lands back on the borrower's balance.
		if res.AmountIn.Sign() > 0 {
			if err := r.Custody.TransferOut(ctx, custody.VenueAccount, custody.TokenCollateral, res.AmountIn); err != nil {
				return err
			}
		}
		if recovered.Sign() > 0 {
			if err := r.Custody.Credit(ctx, a.LenderID, custody.TokenDeposit, recovered); err != nil {
				return err
			}
		}
		// Repayments collected before liquidation are sitting in escrow;
		// closure never happens for a liquidated agreement, so they are
		// released to the lender here.
		if priorRepaid.Sign() > 0 {
			if err := r.Custody.TransferOut(ctx, a.LenderID, custody.TokenDeposit, priorRepaid); err != nil {
				return err
			}
		}
		if refund.Sign() > 0 {
			if err := r.Custody.TransferOut(ctx, a.BorrowerID, custody.TokenCollateral, refund); err != nil {
				return err
			}
		}

		repaid := a.RepaidAmount.BigInt()
		repaid.Add(repaid, recovered)
		if repaid.Cmp(a.FutureValue.BigInt()) > 0 {
			repaid.Set(a.FutureValue.BigInt())
		}
		now := e.now()
		a.RepaidAmount = agreement.NewAmount(repaid)
		a.Collateral = agreement.NewAmount(nil)
		a.ClosureReason = agreement.ClosureLiquidated
		if err := a.Transition(agreement.StatusClosed, now); err != nil {
			return err
		}
		if err := r.Agreements.Save(ctx, a); err != nil {
			return err
		}

		o.Recovered = recovered
		o.Consumed = new(big.Int).Set(res.AmountIn)
		o.Refunded = refund
		o.Shortfall = shortfall
		return nil
	})
	if o.Err != nil {
		return o
	}

	e.sink.Emit(ctx, events.Event{
		Type:        events.TypeLiquidate,
		AgreementID: id,
		Recovered:   o.Recovered.String(),
		Consumed:    o.Consumed.String(),
		Refunded:    o.Refunded.String(),
		Shortfall:   o.Shortfall.String(),
		At:          e.now(),
	})
	return o
}
