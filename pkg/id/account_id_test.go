package id

import (
	"encoding/hex"
	"testing"
)

func TestNewAccountID_Shape(t *testing.T) {
	got := NewAccountID()
	if !ValidAccountID(got) {
		t.Fatalf("generated id fails its own validator: %q", got)
	}
	raw, err := hex.DecodeString(got)
	if err != nil || len(raw) != 16 {
		t.Fatalf("id does not decode to 16 bytes: %q (err=%v)", got, err)
	}
}

func TestNewAccountID_Uniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 500)
	for i := 0; i < 500; i++ {
		v := NewAccountID()
		if _, dup := seen[v]; dup {
			t.Fatalf("duplicate id after %d draws: %q", i, v)
		}
		seen[v] = struct{}{}
	}
}

func TestValidAccountID(t *testing.T) {
	cases := map[string]bool{
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa": true,
		"0123456789abcdef0123456789abcdef": true,
		"":                                 false,
		"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA": false, // uppercase
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa":  false, // 31 chars
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa": false, // 33 chars
		"zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz": false, // non-hex
		"aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaa": false, // separators
	}
	for in, want := range cases {
		if got := ValidAccountID(in); got != want {
			t.Fatalf("ValidAccountID(%q) = %v, want %v", in, got, want)
		}
	}
}
