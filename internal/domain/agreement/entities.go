package agreement

import (
	"time"
)

type Status string

const (
	StatusProposed Status = "proposed"
	StatusActive   Status = "active"
	StatusRepaid   Status = "repaid"
	StatusClosed   Status = "closed"
)

// ClosureReason distinguishes the two terminal paths once Status is closed.
type ClosureReason string

const (
	ClosureRepaid     ClosureReason = "repaid"
	ClosureLiquidated ClosureReason = "liquidated"
)

// Agreement is one lender/borrower position. The numeric PK doubles as the
// public agreement id: auto-increment keeps it monotonic and never reused.
// Rows are never deleted; closed agreements stay queryable.
type Agreement struct {
	ID             uint64        `gorm:"primaryKey;column:id" json:"id"`
	LenderID       string        `gorm:"size:32;index:idx_agreements_lender" json:"lender_id"`
	BorrowerID     string        `gorm:"size:32;index:idx_agreements_borrower" json:"borrower_id"`
	Principal      Amount        `gorm:"type:decimal(65,0)" json:"principal"`
	Rate           uint64        `json:"rate"`
	DurationSecs   uint64        `gorm:"column:duration_secs" json:"duration_secs"`
	FutureValue    Amount        `gorm:"type:decimal(65,0)" json:"future_value"`
	Collateral     Amount        `gorm:"type:decimal(65,0)" json:"collateral"`
	RepaidAmount   Amount        `gorm:"type:decimal(65,0)" json:"repaid_amount"`
	Status         Status        `gorm:"type:enum('proposed','active','repaid','closed');default:'proposed'" json:"status"`
	ClosureReason  ClosureReason `gorm:"size:16" json:"closure_reason,omitempty"`
	StartTime      time.Time     `json:"start_time"`
	StatusUpdated  time.Time     `gorm:"column:status_updated_at" json:"status_updated_at"`
	CreatedAt      time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Agreement) TableName() string { return "agreements" }

// Transition moves the agreement to next, rejecting anything but the forward
// edges proposed→active→repaid→closed and the liquidation edge active→closed.
func (a *Agreement) Transition(next Status, now time.Time) error {
	ok := false
	switch a.Status {
	case StatusProposed:
		ok = next == StatusActive
	case StatusActive:
		ok = next == StatusRepaid || next == StatusClosed
	case StatusRepaid:
		ok = next == StatusClosed
	}
	if !ok {
		return ErrInvalidState
	}
	a.Status = next
	a.StatusUpdated = now.UTC()
	return nil
}

// Expired reports whether the active period has elapsed unpaid.
func (a *Agreement) Expired(now time.Time) bool {
	if a.Status != StatusActive {
		return false
	}
	return now.Sub(a.StartTime) > time.Duration(a.DurationSecs)*time.Second
}
