package http

import (
	"net/http"

	"annuity-exchange/internal/domain/custody"
	"annuity-exchange/internal/usecase/ledger"

	"github.com/labstack/echo/v4"
)

type AgreementHandler struct{ uc *ledger.Usecase }

func NewAgreementHandler(uc *ledger.Usecase) *AgreementHandler { return &AgreementHandler{uc: uc} }

type proposeReq struct {
	LenderID     string `json:"lender_id"     validate:"required,hex32"`
	Principal    string `json:"principal"     validate:"required,amount"`
	Rate         uint64 `json:"rate"          validate:"lte=1000"`
	DurationSecs uint64 `json:"duration_secs" validate:"required,gt=0"`
}

func (h *AgreementHandler) Propose(c echo.Context) error {
	var req proposeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	principal, err := parseAmount(req.Principal)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid principal"})
	}
	dto, err := h.uc.Propose(c.Request().Context(), ledger.ProposeInput{
		LenderID:     req.LenderID,
		Principal:    principal,
		Rate:         req.Rate,
		DurationSecs: req.DurationSecs,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *AgreementHandler) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid agreement_id"})
	}
	dto, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type activateReq struct {
	BorrowerID string `json:"borrower_id" validate:"required,hex32"`
	Collateral string `json:"collateral"  validate:"required,amount"`
}

func (h *AgreementHandler) Activate(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid agreement_id"})
	}
	var req activateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	collateral, err := parseAmount(req.Collateral)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid collateral"})
	}
	dto, err := h.uc.Activate(c.Request().Context(), ledger.ActivateInput{
		AgreementID: id,
		BorrowerID:  req.BorrowerID,
		Collateral:  collateral,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type collateralReq struct {
	BorrowerID string `json:"borrower_id" validate:"required,hex32"`
	Amount     string `json:"amount"      validate:"required,amount"`
}

func (h *AgreementHandler) collateralOp(c echo.Context, withdraw bool) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid agreement_id"})
	}
	var req collateralReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid amount"})
	}
	in := ledger.CollateralInput{AgreementID: id, BorrowerID: req.BorrowerID, Amount: amount}
	var dto *ledger.AgreementDTO
	if withdraw {
		dto, err = h.uc.WithdrawCollateral(c.Request().Context(), in)
	} else {
		dto, err = h.uc.AddCollateral(c.Request().Context(), in)
	}
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AgreementHandler) AddCollateral(c echo.Context) error {
	return h.collateralOp(c, false)
}

func (h *AgreementHandler) WithdrawCollateral(c echo.Context) error {
	return h.collateralOp(c, true)
}

type repayReq struct {
	BorrowerID string `json:"borrower_id" validate:"required,hex32"`
	Amount     string `json:"amount"      validate:"required,amount"`
}

func (h *AgreementHandler) Repay(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid agreement_id"})
	}
	var req repayReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid amount"})
	}
	dto, err := h.uc.Repay(c.Request().Context(), ledger.RepayInput{
		AgreementID: id,
		BorrowerID:  req.BorrowerID,
		Amount:      amount,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type fundReq struct {
	AccountID string `json:"-"      validate:"required,hex32"`
	Token     string `json:"token"  validate:"required,oneof=deposit collateral"`
	Amount    string `json:"amount" validate:"required,amount"`
}

// Fund is the operational on-ramp for balances: external deposits are
// recorded here before an account can propose or activate anything.
func (h *AgreementHandler) Fund(c echo.Context) error {
	var req fundReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	req.AccountID = c.Param("account_id")
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid amount"})
	}
	dto, err := h.uc.FundAccount(c.Request().Context(), ledger.FundInput{
		AccountID: req.AccountID,
		Token:     custody.Token(req.Token),
		Amount:    amount,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type closeReq struct {
	LenderID string `json:"lender_id" validate:"required,hex32"`
}

func (h *AgreementHandler) Close(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid agreement_id"})
	}
	var req closeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Close(c.Request().Context(), ledger.CloseInput{
		AgreementID: id,
		LenderID:    req.LenderID,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
