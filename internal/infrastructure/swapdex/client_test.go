package swapdex

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"annuity-exchange/internal/domain/swapvenue"
)

func TestSwapForExactOutput(t *testing.T) {
	var gotReq swapRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(swapResponse{
			AmountIn:  "350000000000000000",
			AmountOut: "1050000000",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.SwapForExactOutput(context.Background(),
		big.NewInt(1_050_000_000), mustBig(t, "420000000000000000"))
	if err != nil {
		t.Fatalf("SwapForExactOutput: %v", err)
	}
	if gotReq.DesiredOutput != "1050000000" || gotReq.MaxInput != "420000000000000000" {
		t.Fatalf("unexpected request: %+v", gotReq)
	}
	if res.AmountIn.String() != "350000000000000000" || res.AmountOut.String() != "1050000000" {
		t.Fatalf("unexpected result: in=%s out=%s", res.AmountIn, res.AmountOut)
	}
}

func TestSwapForExactOutput_VenueErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.SwapForExactOutput(context.Background(), big.NewInt(1), big.NewInt(1)); !errors.Is(err, swapvenue.ErrUnavailable) {
		t.Fatalf("502 venue: err = %v, want ErrUnavailable", err)
	}

	srv2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"amount_in":"??","amount_out":"1"}`))
	}))
	defer srv2.Close()

	c = NewClient(srv2.URL)
	if _, err := c.SwapForExactOutput(context.Background(), big.NewInt(1), big.NewInt(1)); !errors.Is(err, swapvenue.ErrUnavailable) {
		t.Fatalf("garbage fill: err = %v, want ErrUnavailable", err)
	}

	c = NewClient("http://127.0.0.1:1")
	if _, err := c.SwapForExactOutput(context.Background(), big.NewInt(1), big.NewInt(1)); !errors.Is(err, swapvenue.ErrUnavailable) {
		t.Fatalf("dead venue: err = %v, want ErrUnavailable", err)
	}
}

func mustBig(t *testing.T, s string) *big.Int {
	t.Helper()
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		t.Fatalf("bad big int literal %q", s)
	}
	return v
}
