package liquidation

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Keeper drives the scan→execute cycle on a fixed cadence. It keeps no
// schedule state of its own: every tick recomputes eligibility from scratch,
// and a failed tick (oracle down, venue down) is simply retried on the next
// one.
type Keeper struct {
	scanner  *Scanner
	executor *Executor
	interval time.Duration
	log      *zap.Logger
	metrics  *Metrics
}

func NewKeeper(s *Scanner, e *Executor, interval time.Duration, log *zap.Logger, m *Metrics) *Keeper {
	if log == nil {
		log = zap.NewNop()
	}
	if m == nil {
		m = NopMetrics()
	}
	return &Keeper{scanner: s, executor: e, interval: interval, log: log, metrics: m}
}

// Run blocks until ctx is cancelled.
func (k *Keeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(k.interval)
	defer ticker.Stop()

	k.log.Info("keeper started", zap.Duration("interval", k.interval))
	for {
		select {
		case <-ctx.Done():
			k.log.Info("keeper stopped")
			return ctx.Err()
		case <-ticker.C:
			k.Tick(ctx)
		}
	}
}

// Tick is one scan→execute pass; exported so it can run on demand.
func (k *Keeper) Tick(ctx context.Context) {
	k.metrics.ScanTicks.Inc()

	res, err := k.scanner.Scan(ctx)
	if err != nil {
		k.metrics.ScanFailures.Inc()
		k.log.Warn("scan failed", zap.Error(err))
		return
	}
	if !res.Eligible() {
		return
	}
	k.metrics.EligibleFound.Add(float64(len(res.EligibleIDs)))
	k.log.Info("eligible agreements found", zap.Uint64s("ids", res.EligibleIDs))

	outcomes, err := k.executor.Perform(ctx, res.EligibleIDs)
	if err != nil {
		k.log.Warn("execution pass failed", zap.Error(err))
		return
	}
	for _, o := range outcomes {
		if o.Err != nil {
			continue
		}
		k.metrics.Liquidations.Inc()
		if o.Shortfall.Sign() > 0 {
			k.metrics.Shortfalls.Inc()
		}
	}
}
