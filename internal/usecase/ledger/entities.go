package ledger

import (
	"math/big"
	"time"

	"annuity-exchange/internal/domain/agreement"
	"annuity-exchange/internal/domain/custody"
)

type ProposeInput struct {
	LenderID     string
	Principal    *big.Int
	Rate         uint64
	DurationSecs uint64
}

type ActivateInput struct {
	AgreementID uint64
	BorrowerID  string
	Collateral  *big.Int
}

type CollateralInput struct {
	AgreementID uint64
	BorrowerID  string
	Amount      *big.Int
}

type RepayInput struct {
	AgreementID uint64
	BorrowerID  string
	Amount      *big.Int
}

type CloseInput struct {
	AgreementID uint64
	LenderID    string
}

type FundInput struct {
	AccountID string
	Token     custody.Token
	Amount    *big.Int
}

type BalanceDTO struct {
	AccountID string `json:"account_id"`
	Token     string `json:"token"`
	Balance   string `json:"balance"`
}

type AgreementDTO struct {
	ID            uint64    `json:"id"`
	LenderID      string    `json:"lender_id"`
	BorrowerID    string    `json:"borrower_id,omitempty"`
	Principal     string    `json:"principal"`
	Rate          uint64    `json:"rate"`
	DurationSecs  uint64    `json:"duration_secs"`
	FutureValue   string    `json:"future_value"`
	Collateral    string    `json:"collateral"`
	RepaidAmount  string    `json:"repaid_amount"`
	Status        string    `json:"status"`
	ClosureReason string    `json:"closure_reason,omitempty"`
	StartTime     time.Time `json:"start_time,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func toDTO(a *agreement.Agreement) *AgreementDTO {
	return &AgreementDTO{
		ID:            a.ID,
		LenderID:      a.LenderID,
		BorrowerID:    a.BorrowerID,
		Principal:     a.Principal.String(),
		Rate:          a.Rate,
		DurationSecs:  a.DurationSecs,
		FutureValue:   a.FutureValue.String(),
		Collateral:    a.Collateral.String(),
		RepaidAmount:  a.RepaidAmount.String(),
		Status:        string(a.Status),
		ClosureReason: string(a.ClosureReason),
		StartTime:     a.StartTime,
		CreatedAt:     a.CreatedAt,
	}
}
