package events

import (
	"context"
	"time"
)

type Type string

const (
	TypePropose            Type = "propose"
	TypeActivate           Type = "activate"
	TypeAddCollateral      Type = "add_collateral"
	TypeWithdrawCollateral Type = "withdraw_collateral"
	TypeRepay              Type = "repay"
	TypeClose              Type = "close"
	TypeLiquidate          Type = "liquidate"
)

// Event is the structured record emitted after every successful ledger
// mutation. Amounts are decimal strings in token base units; liquidation
// events additionally carry the recovery breakdown.
type Event struct {
	Type        Type      `json:"type"`
	AgreementID uint64    `json:"agreement_id"`
	Actor       string    `json:"actor,omitempty"`
	Amount      string    `json:"amount,omitempty"`
	Recovered   string    `json:"recovered,omitempty"`
	Consumed    string    `json:"consumed,omitempty"`
	Refunded    string    `json:"refunded,omitempty"`
	Shortfall   string    `json:"shortfall,omitempty"`
	At          time.Time `json:"at"`
}

// Sink consumes events. Emit must not fail the operation that produced the
// event; implementations log and drop on delivery problems.
type Sink interface {
	Emit(ctx context.Context, e Event)
}

// Multi fans one event out to several sinks.
type Multi []Sink

func (m Multi) Emit(ctx context.Context, e Event) {
	for _, s := range m {
		s.Emit(ctx, e)
	}
}

// Discard drops everything; handy default for tests and optional wiring.
type Discard struct{}

func (Discard) Emit(context.Context, Event) {}
