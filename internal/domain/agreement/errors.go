package agreement

import "errors"

var (
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrNotFound               = errors.New("agreement not found")
	ErrInvalidState           = errors.New("operation not valid for agreement status")
	ErrAlreadyActivated       = errors.New("agreement already activated")
	ErrUnauthorized           = errors.New("caller is not a party to this agreement")
	ErrInsufficientCollateral = errors.New("collateral below activation minimum")
	ErrBelowMinimumCollateral = errors.New("withdrawal would drop collateral below minimum")
	ErrOverRepayment          = errors.New("repayment exceeds outstanding debt")
)
