package mysql

import (
	"context"
	"errors"
	"math/big"

	agreementDomain "annuity-exchange/internal/domain/agreement"
	custodyDomain "annuity-exchange/internal/domain/custody"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustodyRepository struct{ db *gorm.DB }

func NewCustodyRepository(db *gorm.DB) *CustodyRepository { return &CustodyRepository{db: db} }

func validToken(t custodyDomain.Token) bool {
	return t == custodyDomain.TokenDeposit || t == custodyDomain.TokenCollateral
}

// balanceForUpdate locks (or lazily creates) the balance row for the
// surrounding transaction.
func (r *CustodyRepository) balanceForUpdate(ctx context.Context, account string, token custodyDomain.Token) (*custodyDomain.Balance, error) {
	var b custodyDomain.Balance
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("account_id = ? AND token = ?", account, token).
		First(&b)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		b = custodyDomain.Balance{AccountID: account, Token: token}
		if err := r.db.WithContext(ctx).Create(&b).Error; err != nil {
			return nil, err
		}
		return &b, nil
	}
	return &b, res.Error
}

func (r *CustodyRepository) debit(ctx context.Context, account string, token custodyDomain.Token, amount *big.Int) error {
	b, err := r.balanceForUpdate(ctx, account, token)
	if err != nil {
		return err
	}
	cur := b.Balance.BigInt()
	cur.Sub(cur, amount)
	if cur.Sign() < 0 {
		return custodyDomain.ErrInsufficientFunds
	}
	b.Balance = agreementDomain.NewAmount(cur)
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *CustodyRepository) credit(ctx context.Context, account string, token custodyDomain.Token, amount *big.Int) error {
	b, err := r.balanceForUpdate(ctx, account, token)
	if err != nil {
		return err
	}
	cur := b.Balance.BigInt()
	cur.Add(cur, amount)
	b.Balance = agreementDomain.NewAmount(cur)
	return r.db.WithContext(ctx).Save(b).Error
}

func checkAmount(token custodyDomain.Token, amount *big.Int) error {
	if !validToken(token) {
		return custodyDomain.ErrUnknownToken
	}
	if amount == nil || amount.Sign() < 0 {
		return errors.New("transfer amount must be non-negative")
	}
	return nil
}

func (r *CustodyRepository) TransferIn(ctx context.Context, account string, token custodyDomain.Token, amount *big.Int) error {
	if err := checkAmount(token, amount); err != nil {
		return err
	}
	if amount.Sign() == 0 {
		return nil
	}
	if err := r.debit(ctx, account, token, amount); err != nil {
		return err
	}
	return r.credit(ctx, custodyDomain.EscrowAccount, token, amount)
}

func (r *CustodyRepository) TransferOut(ctx context.Context, account string, token custodyDomain.Token, amount *big.Int) error {
	if err := checkAmount(token, amount); err != nil {
		return err
	}
	if amount.Sign() == 0 {
		return nil
	}
	if err := r.debit(ctx, custodyDomain.EscrowAccount, token, amount); err != nil {
		return err
	}
	return r.credit(ctx, account, token, amount)
}

func (r *CustodyRepository) Credit(ctx context.Context, account string, token custodyDomain.Token, amount *big.Int) error {
	if err := checkAmount(token, amount); err != nil {
		return err
	}
	if amount.Sign() == 0 {
		return nil
	}
	return r.credit(ctx, account, token, amount)
}

func (r *CustodyRepository) BalanceOf(ctx context.Context, account string, token custodyDomain.Token) (*big.Int, error) {
	if !validToken(token) {
		return nil, custodyDomain.ErrUnknownToken
	}
	var b custodyDomain.Balance
	res := r.db.WithContext(ctx).
		Where("account_id = ? AND token = ?", account, token).
		First(&b)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return big.NewInt(0), nil
	}
	if res.Error != nil {
		return nil, res.Error
	}
	return b.Balance.BigInt(), nil
}
