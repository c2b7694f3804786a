package custody

import (
	"context"
	"errors"
	"math/big"
	"time"

	"annuity-exchange/internal/domain/agreement"
)

type Token string

const (
	TokenDeposit    Token = "deposit"
	TokenCollateral Token = "collateral"
)

// EscrowAccount holds everything the ledger has in custody. VenueAccount
// receives collateral consumed by liquidation swaps.
const (
	EscrowAccount = "00000000000000000000000000000000"
	VenueAccount  = "ffffffffffffffffffffffffffffffff"
)

var (
	ErrInsufficientFunds = errors.New("account balance too low for transfer")
	ErrUnknownToken      = errors.New("unknown custody token")
)

// Balance is one (account, token) row. Amounts share the agreement Amount
// column type so both tables use the same decimal(65,0) encoding.
type Balance struct {
	ID        uint64           `gorm:"primaryKey;column:id"`
	AccountID string           `gorm:"size:32;uniqueIndex:ux_balances_account_token"`
	Token     Token            `gorm:"size:16;uniqueIndex:ux_balances_account_token"`
	Balance   agreement.Amount `gorm:"type:decimal(65,0)"`
	CreatedAt time.Time        `gorm:"autoCreateTime"`
	UpdatedAt time.Time        `gorm:"autoUpdateTime"`
}

func (Balance) TableName() string { return "balances" }

// Repository moves tokens between user accounts and the escrow account. Both
// legs of a move happen on the same transaction-bound repository instance so
// they commit or roll back with the agreement mutation they accompany.
type Repository interface {
	// TransferIn debits account and credits escrow.
	TransferIn(ctx context.Context, account string, token Token, amount *big.Int) error
	// TransferOut debits escrow and credits account.
	TransferOut(ctx context.Context, account string, token Token, amount *big.Int) error
	BalanceOf(ctx context.Context, account string, token Token) (*big.Int, error)
	// Credit mints into an account; used by deposits from outside the system.
	Credit(ctx context.Context, account string, token Token, amount *big.Int) error
}
