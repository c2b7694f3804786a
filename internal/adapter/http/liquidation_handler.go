package http

import (
	"net/http"

	"annuity-exchange/internal/usecase/liquidation"

	"github.com/labstack/echo/v4"
)

type LiquidationHandler struct {
	scanner  *liquidation.Scanner
	executor *liquidation.Executor
}

func NewLiquidationHandler(s *liquidation.Scanner, e *liquidation.Executor) *LiquidationHandler {
	return &LiquidationHandler{scanner: s, executor: e}
}

type checkResp struct {
	Eligible bool     `json:"eligible"`
	IDs      []uint64 `json:"ids"`
	Payload  []byte   `json:"payload"` // opaque; hand back to perform verbatim
}

// Check runs an on-demand scan. Read-only and idempotent.
func (h *LiquidationHandler) Check(c echo.Context) error {
	res, err := h.scanner.Scan(c.Request().Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, checkResp{
		Eligible: res.Eligible(),
		IDs:      res.EligibleIDs,
		Payload:  res.Payload,
	})
}

type performReq struct {
	Payload []byte   `json:"payload"`
	IDs     []uint64 `json:"ids"`
}

type outcomeResp struct {
	AgreementID uint64 `json:"agreement_id"`
	Liquidated  bool   `json:"liquidated"`
	Recovered   string `json:"recovered,omitempty"`
	Consumed    string `json:"consumed,omitempty"`
	Refunded    string `json:"refunded,omitempty"`
	Shortfall   string `json:"shortfall,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Perform executes liquidation for a scan payload (or an explicit id list).
// Ids that no longer qualify come back as non-liquidated outcomes, never as a
// batch failure.
func (h *LiquidationHandler) Perform(c echo.Context) error {
	var req performReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	var (
		outcomes []liquidation.Outcome
		err      error
	)
	ctx := c.Request().Context()
	switch {
	case len(req.Payload) > 0:
		outcomes, err = h.executor.PerformPayload(ctx, req.Payload)
	case len(req.IDs) > 0:
		outcomes, err = h.executor.Perform(ctx, req.IDs)
	default:
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "payload or ids required"})
	}
	if err != nil {
		return domainError(c, err)
	}

	resp := make([]outcomeResp, 0, len(outcomes))
	for _, o := range outcomes {
		r := outcomeResp{AgreementID: o.AgreementID, Liquidated: o.Err == nil}
		if o.Err != nil {
			r.Error = o.Err.Error()
		} else {
			r.Recovered = o.Recovered.String()
			r.Consumed = o.Consumed.String()
			r.Refunded = o.Refunded.String()
			r.Shortfall = o.Shortfall.String()
		}
		resp = append(resp, r)
	}
	return c.JSON(http.StatusOK, resp)
}
