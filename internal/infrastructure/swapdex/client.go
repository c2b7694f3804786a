package swapdex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"annuity-exchange/internal/domain/swapvenue"
)

// Client talks to the swap venue's exact-output endpoint. The venue owns its
// pricing; we only pass the output we want and the input cap, and take
// whatever fill it reports.
type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string) *Client {
	return &Client{url: url, http: &http.Client{Timeout: 10 * time.Second}}
}

type swapRequest struct {
	DesiredOutput string `json:"desired_output"`
	MaxInput      string `json:"max_input"`
}

type swapResponse struct {
	AmountIn  string `json:"amount_in"`
	AmountOut string `json:"amount_out"`
}

func (c *Client) SwapForExactOutput(ctx context.Context, desiredOutput, maxInput *big.Int) (swapvenue.Result, error) {
	body, err := json.Marshal(swapRequest{
		DesiredOutput: desiredOutput.String(),
		MaxInput:      maxInput.String(),
	})
	if err != nil {
		return swapvenue.Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return swapvenue.Result{}, fmt.Errorf("%w: %v", swapvenue.ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return swapvenue.Result{}, fmt.Errorf("%w: %v", swapvenue.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return swapvenue.Result{}, fmt.Errorf("%w: venue returned %d", swapvenue.ErrUnavailable, resp.StatusCode)
	}

	var sr swapResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return swapvenue.Result{}, fmt.Errorf("%w: %v", swapvenue.ErrUnavailable, err)
	}
	in, ok := new(big.Int).SetString(sr.AmountIn, 10)
	if !ok {
		return swapvenue.Result{}, fmt.Errorf("%w: bad amount_in %q", swapvenue.ErrUnavailable, sr.AmountIn)
	}
	out, ok := new(big.Int).SetString(sr.AmountOut, 10)
	if !ok {
		return swapvenue.Result{}, fmt.Errorf("%w: bad amount_out %q", swapvenue.ErrUnavailable, sr.AmountOut)
	}
	return swapvenue.Result{AmountIn: in, AmountOut: out}, nil
}
