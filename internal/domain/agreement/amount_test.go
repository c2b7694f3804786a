package agreement

import (
	"encoding/json"
	"math/big"
	"testing"
)

func TestAmount_ScanAndValue(t *testing.T) {
	// 50 ETH in wei overflows uint64; the round-trip must not lose digits.
	const wei = "50000000000000000000"

	var a Amount
	if err := a.Scan([]byte(wei)); err != nil {
		t.Fatalf("Scan bytes: %v", err)
	}
	v, err := a.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if v != wei {
		t.Fatalf("Value = %v, want %s", v, wei)
	}

	if err := a.Scan("not-a-number"); err == nil {
		t.Fatal("garbage column value accepted")
	}
	if err := a.Scan(nil); err != nil {
		t.Fatalf("Scan nil: %v", err)
	}
	if a.Sign() != 0 {
		t.Fatalf("nil column scanned to %s, want 0", a.String())
	}
}

func TestAmount_JSON(t *testing.T) {
	a := NewAmount(big.NewInt(1050000000))
	b, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"1050000000"` {
		t.Fatalf("marshal = %s, want quoted string", b)
	}

	var back Amount
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Cmp(a) != 0 {
		t.Fatalf("round-trip = %s, want %s", back.String(), a.String())
	}
}

func TestParseAmount(t *testing.T) {
	a, err := ParseAmount(" 42 ")
	if err != nil {
		t.Fatalf("ParseAmount: %v", err)
	}
	if a.String() != "42" {
		t.Fatalf("parsed = %s, want 42", a.String())
	}
	if _, err := ParseAmount("12.5"); err == nil {
		t.Fatal("fractional amount accepted")
	}
	if _, err := ParseAmount(""); err == nil {
		t.Fatal("empty amount accepted")
	}
}

func TestNewAmount_Copies(t *testing.T) {
	src := big.NewInt(7)
	a := NewAmount(src)
	src.SetInt64(99)
	if a.String() != "7" {
		t.Fatalf("NewAmount aliased its argument: %s", a.String())
	}
	got := a.BigInt()
	got.SetInt64(123)
	if a.String() != "7" {
		t.Fatalf("BigInt exposed internal state: %s", a.String())
	}
}
