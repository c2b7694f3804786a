package liquidation

import (
	"context"
	"encoding/json"
	"time"

	"annuity-exchange/internal/domain/agreement"
	"annuity-exchange/internal/domain/oracle"
	"annuity-exchange/internal/domain/uow"
)

// ScanResult is one scanner pass: eligible ids in ascending order plus an
// opaque payload the executor can be handed verbatim (the check/perform split
// mirrors a keeper upkeep contract).
type ScanResult struct {
	EligibleIDs []uint64 `json:"eligible_ids"`
	Payload     []byte   `json:"payload"`
}

func (r ScanResult) Eligible() bool { return len(r.EligibleIDs) > 0 }

type scanPayload struct {
	IDs []uint64 `json:"ids"`
}

// DecodePayload recovers the id set from a scan payload.
func DecodePayload(b []byte) ([]uint64, error) {
	var p scanPayload
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	return p.IDs, nil
}

// Scanner evaluates every active agreement against one oracle snapshot and
// the clock. It holds no state between calls: two scans over unchanged state
// return identical results.
type Scanner struct {
	uow         uow.UnitOfWork
	oracle      oracle.PriceOracle
	params      agreement.Params
	maxPriceAge time.Duration

	now func() time.Time
}

func NewScanner(tx uow.UnitOfWork, po oracle.PriceOracle, params agreement.Params, maxPriceAge time.Duration) *Scanner {
	return &Scanner{
		uow:         tx,
		oracle:      po,
		params:      params,
		maxPriceAge: maxPriceAge,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Scan flags an active agreement when its collateral value has dropped under
// the liquidation threshold or its duration has elapsed. Read-only.
func (s *Scanner) Scan(ctx context.Context) (ScanResult, error) {
	q, err := s.oracle.GetPrice(ctx)
	if err != nil {
		return ScanResult{}, err
	}
	now := s.now()
	if err := q.Check(now, s.maxPriceAge); err != nil {
		return ScanResult{}, err
	}

	var active []*agreement.Agreement
	err = s.uow.WithinTx(ctx, func(r uow.Repos) error {
		active, err = r.Agreements.ListActive(ctx)
		return err
	})
	if err != nil {
		return ScanResult{}, err
	}

	ids := make([]uint64, 0)
	for _, a := range active {
		if eligible(a, s.params, q, now) {
			ids = append(ids, a.ID)
		}
	}

	payload, err := json.Marshal(scanPayload{IDs: ids})
	if err != nil {
		return ScanResult{}, err
	}
	return ScanResult{EligibleIDs: ids, Payload: payload}, nil
}

func eligible(a *agreement.Agreement, p agreement.Params, q oracle.Quote, now time.Time) bool {
	if a.Status != agreement.StatusActive {
		return false
	}
	if a.Expired(now) {
		return true
	}
	value := p.CollateralValue(a.Collateral.BigInt(), q.Price, q.Decimals)
	return p.Undercollateralized(value, a.OutstandingDebt())
}
