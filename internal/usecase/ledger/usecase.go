package ledger

import (
	"context"
	"errors"
	"time"

	"annuity-exchange/internal/domain/agreement"
	"annuity-exchange/internal/domain/custody"
	"annuity-exchange/internal/domain/events"
	"annuity-exchange/internal/domain/oracle"
	"annuity-exchange/internal/domain/uow"

	"gorm.io/gorm"
)

// Usecase owns the agreement state machine. Every mutation runs inside a
// unit-of-work: the custody transfer and the state change commit together or
// not at all.
type Usecase struct {
	uow         uow.UnitOfWork
	oracle      oracle.PriceOracle
	params      agreement.Params
	maxPriceAge time.Duration
	sink        events.Sink

	now func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, po oracle.PriceOracle, params agreement.Params, maxPriceAge time.Duration, sink events.Sink) *Usecase {
	if sink == nil {
		sink = events.Discard{}
	}
	return &Usecase{
		uow:         tx,
		oracle:      po,
		params:      params,
		maxPriceAge: maxPriceAge,
		sink:        sink,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Params exposes the deployment parameters to collaborating usecases.
func (u *Usecase) Params() agreement.Params { return u.params }

func (u *Usecase) quote(ctx context.Context) (oracle.Quote, error) {
	q, err := u.oracle.GetPrice(ctx)
	if err != nil {
		return oracle.Quote{}, err
	}
	if err := q.Check(u.now(), u.maxPriceAge); err != nil {
		return oracle.Quote{}, err
	}
	return q, nil
}

// FundAccount records a deposit arriving from outside the system by minting
// it onto the account's custody balance. Proposals and activations spend from
// balances funded here.
func (u *Usecase) FundAccount(ctx context.Context, in FundInput) (*BalanceDTO, error) {
	if in.Amount == nil || in.Amount.Sign() <= 0 {
		return nil, agreement.ErrInvalidAmount
	}
	if in.Token != custody.TokenDeposit && in.Token != custody.TokenCollateral {
		return nil, custody.ErrUnknownToken
	}

	var dto *BalanceDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Custody.Credit(ctx, in.AccountID, in.Token, in.Amount); err != nil {
			return err
		}
		bal, err := r.Custody.BalanceOf(ctx, in.AccountID, in.Token)
		if err != nil {
			return err
		}
		dto = &BalanceDTO{AccountID: in.AccountID, Token: string(in.Token), Balance: bal.String()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) Propose(ctx context.Context, in ProposeInput) (*AgreementDTO, error) {
	if in.Principal == nil || in.Principal.Sign() <= 0 {
		return nil, agreement.ErrInvalidAmount
	}
	if in.DurationSecs == 0 {
		return nil, agreement.ErrInvalidAmount
	}

	a := &agreement.Agreement{
		LenderID:      in.LenderID,
		Principal:     agreement.NewAmount(in.Principal),
		Rate:          in.Rate,
		DurationSecs:  in.DurationSecs,
		FutureValue:   agreement.NewAmount(agreement.FutureValue(in.Principal, in.Rate, in.DurationSecs)),
		Status:        agreement.StatusProposed,
		StatusUpdated: u.now(),
	}

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Custody.TransferIn(ctx, in.LenderID, custody.TokenDeposit, in.Principal); err != nil {
			return err
		}
		return r.Agreements.Create(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	u.sink.Emit(ctx, events.Event{
		Type: events.TypePropose, AgreementID: a.ID, Actor: in.LenderID,
		Amount: a.Principal.String(), At: u.now(),
	})
	return toDTO(a), nil
}

func (u *Usecase) Activate(ctx context.Context, in ActivateInput) (*AgreementDTO, error) {
	if in.Collateral == nil || in.Collateral.Sign() <= 0 {
		return nil, agreement.ErrInvalidAmount
	}
	q, err := u.quote(ctx)
	if err != nil {
		return nil, err
	}

	var dto *AgreementDTO
	err = u.withinAgreement(ctx, in.AgreementID, func(r uow.Repos, a *agreement.Agreement) error {
		if a.Status != agreement.StatusProposed {
			return agreement.ErrAlreadyActivated
		}
		min, err := u.params.MinRequiredCollateral(a.FutureValue.BigInt(), q.Price, q.Decimals)
		if err != nil {
			return err
		}
		if in.Collateral.Cmp(min) < 0 {
			return agreement.ErrInsufficientCollateral
		}
		if err := r.Custody.TransferIn(ctx, in.BorrowerID, custody.TokenCollateral, in.Collateral); err != nil {
			return err
		}
		if err := r.Custody.TransferOut(ctx, in.BorrowerID, custody.TokenDeposit, a.Principal.BigInt()); err != nil {
			return err
		}
		now := u.now()
		a.BorrowerID = in.BorrowerID
		a.Collateral = agreement.NewAmount(in.Collateral)
		a.StartTime = now
		if err := a.Transition(agreement.StatusActive, now); err != nil {
			return err
		}
		if err := r.Agreements.Save(ctx, a); err != nil {
			return err
		}
		dto = toDTO(a)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.sink.Emit(ctx, events.Event{
		Type: events.TypeActivate, AgreementID: in.AgreementID, Actor: in.BorrowerID,
		Amount: in.Collateral.String(), At: u.now(),
	})
	return dto, nil
}

func (u *Usecase) AddCollateral(ctx context.Context, in CollateralInput) (*AgreementDTO, error) {
	if in.Amount == nil || in.Amount.Sign() <= 0 {
		return nil, agreement.ErrInvalidAmount
	}

	var dto *AgreementDTO
	err := u.withinAgreement(ctx, in.AgreementID, func(r uow.Repos, a *agreement.Agreement) error {
		if a.Status != agreement.StatusActive {
			return agreement.ErrInvalidState
		}
		if a.BorrowerID != in.BorrowerID {
			return agreement.ErrUnauthorized
		}
		if err := r.Custody.TransferIn(ctx, in.BorrowerID, custody.TokenCollateral, in.Amount); err != nil {
			return err
		}
		next := a.Collateral.BigInt()
		next.Add(next, in.Amount)
		a.Collateral = agreement.NewAmount(next)
		if err := r.Agreements.Save(ctx, a); err != nil {
			return err
		}
		dto = toDTO(a)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.sink.Emit(ctx, events.Event{
		Type: events.TypeAddCollateral, AgreementID: in.AgreementID, Actor: in.BorrowerID,
		Amount: in.Amount.String(), At: u.now(),
	})
	return dto, nil
}

func (u *Usecase) WithdrawCollateral(ctx context.Context, in CollateralInput) (*AgreementDTO, error) {
	if in.Amount == nil || in.Amount.Sign() <= 0 {
		return nil, agreement.ErrInvalidAmount
	}
	// Minimum is checked against the price at withdrawal time, not the
	// activation-time price.
	q, err := u.quote(ctx)
	if err != nil {
		return nil, err
	}

	var dto *AgreementDTO
	err = u.withinAgreement(ctx, in.AgreementID, func(r uow.Repos, a *agreement.Agreement) error {
		if a.Status != agreement.StatusActive {
			return agreement.ErrInvalidState
		}
		if a.BorrowerID != in.BorrowerID {
			return agreement.ErrUnauthorized
		}
		next := a.Collateral.BigInt()
		next.Sub(next, in.Amount)
		if next.Sign() < 0 {
			return agreement.ErrBelowMinimumCollateral
		}
		min, err := u.params.MinRequiredCollateral(a.FutureValue.BigInt(), q.Price, q.Decimals)
		if err != nil {
			return err
		}
		if next.Cmp(min) < 0 {
			return agreement.ErrBelowMinimumCollateral
		}
		if err := r.Custody.TransferOut(ctx, in.BorrowerID, custody.TokenCollateral, in.Amount); err != nil {
			return err
		}
		a.Collateral = agreement.NewAmount(next)
		if err := r.Agreements.Save(ctx, a); err != nil {
			return err
		}
		dto = toDTO(a)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.sink.Emit(ctx, events.Event{
		Type: events.TypeWithdrawCollateral, AgreementID: in.AgreementID, Actor: in.BorrowerID,
		Amount: in.Amount.String(), At: u.now(),
	})
	return dto, nil
}

func (u *Usecase) Repay(ctx context.Context, in RepayInput) (*AgreementDTO, error) {
	if in.Amount == nil || in.Amount.Sign() <= 0 {
		return nil, agreement.ErrInvalidAmount
	}

	var dto *AgreementDTO
	err := u.withinAgreement(ctx, in.AgreementID, func(r uow.Repos, a *agreement.Agreement) error {
		if a.Status != agreement.StatusActive {
			return agreement.ErrInvalidState
		}
		if a.BorrowerID != in.BorrowerID {
			return agreement.ErrUnauthorized
		}
		// Amounts past the outstanding debt are rejected outright so the
		// caller corrects the request instead of silently losing the excess.
		if in.Amount.Cmp(a.OutstandingDebt()) > 0 {
			return agreement.ErrOverRepayment
		}
		if err := r.Custody.TransferIn(ctx, in.BorrowerID, custody.TokenDeposit, in.Amount); err != nil {
			return err
		}
		repaid := a.RepaidAmount.BigInt()
		repaid.Add(repaid, in.Amount)
		a.RepaidAmount = agreement.NewAmount(repaid)
		if repaid.Cmp(a.FutureValue.BigInt()) == 0 {
			if err := a.Transition(agreement.StatusRepaid, u.now()); err != nil {
				return err
			}
		}
		if err := r.Agreements.Save(ctx, a); err != nil {
			return err
		}
		dto = toDTO(a)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.sink.Emit(ctx, events.Event{
		Type: events.TypeRepay, AgreementID: in.AgreementID, Actor: in.BorrowerID,
		Amount: in.Amount.String(), At: u.now(),
	})
	return dto, nil
}

func (u *Usecase) Close(ctx context.Context, in CloseInput) (*AgreementDTO, error) {
	var dto *AgreementDTO
	var payout, refund string
	err := u.withinAgreement(ctx, in.AgreementID, func(r uow.Repos, a *agreement.Agreement) error {
		if a.LenderID != in.LenderID {
			return agreement.ErrUnauthorized
		}
		if a.Status != agreement.StatusRepaid {
			return agreement.ErrInvalidState
		}
		if err := r.Custody.TransferOut(ctx, a.LenderID, custody.TokenDeposit, a.FutureValue.BigInt()); err != nil {
			return err
		}
		remaining := a.Collateral.BigInt()
		if remaining.Sign() > 0 {
			if err := r.Custody.TransferOut(ctx, a.BorrowerID, custody.TokenCollateral, remaining); err != nil {
				return err
			}
		}
		payout = a.FutureValue.String()
		refund = remaining.String()
		a.Collateral = agreement.NewAmount(nil)
		a.ClosureReason = agreement.ClosureRepaid
		if err := a.Transition(agreement.StatusClosed, u.now()); err != nil {
			return err
		}
		if err := r.Agreements.Save(ctx, a); err != nil {
			return err
		}
		dto = toDTO(a)
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.sink.Emit(ctx, events.Event{
		Type: events.TypeClose, AgreementID: in.AgreementID, Actor: in.LenderID,
		Amount: payout, Refunded: refund, At: u.now(),
	})
	return dto, nil
}

func (u *Usecase) Get(ctx context.Context, id uint64) (*AgreementDTO, error) {
	var dto *AgreementDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		a, err := r.Agreements.GetByID(ctx, id)
		if err != nil {
			return err
		}
		dto = toDTO(a)
		return nil
	})
	if err != nil {
		return nil, mapNotFound(err)
	}
	return dto, nil
}

func (u *Usecase) withinAgreement(ctx context.Context, id uint64, fn func(r uow.Repos, a *agreement.Agreement) error) error {
	err := u.uow.WithinAgreementTx(ctx, id, fn)
	return mapNotFound(err)
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return agreement.ErrNotFound
	}
	return err
}
