package agreement

import (
	"database/sql/driver"
	"fmt"
	"math/big"
	"strings"
)

// Amount is a non-negative token amount in base units, persisted as a
// decimal(65,0) column and rendered as a JSON string so precision survives
// round-trips through clients that only have float64.
type Amount struct {
	i big.Int
}

func NewAmount(x *big.Int) Amount {
	var a Amount
	if x != nil {
		a.i.Set(x)
	}
	return a
}

func ParseAmount(s string) (Amount, error) {
	var a Amount
	s = strings.TrimSpace(s)
	if _, ok := a.i.SetString(s, 10); !ok {
		return Amount{}, fmt.Errorf("invalid amount %q", s)
	}
	return a, nil
}

// BigInt returns a copy; callers may mutate it freely.
func (a Amount) BigInt() *big.Int { return new(big.Int).Set(&a.i) }

func (a Amount) Sign() int           { return a.i.Sign() }
func (a Amount) Cmp(b Amount) int    { return a.i.Cmp(&b.i) }
func (a Amount) CmpBig(b *big.Int) int { return a.i.Cmp(b) }
func (a Amount) String() string      { return a.i.String() }

func (a Amount) Value() (driver.Value, error) { return a.i.String(), nil }

func (a *Amount) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		a.i.SetInt64(0)
		return nil
	case int64:
		a.i.SetInt64(v)
		return nil
	case []byte:
		return a.setString(string(v))
	case string:
		return a.setString(v)
	default:
		return fmt.Errorf("cannot scan %T into Amount", src)
	}
}

func (a *Amount) setString(s string) error {
	if _, ok := a.i.SetString(strings.TrimSpace(s), 10); !ok {
		return fmt.Errorf("invalid amount column value %q", s)
	}
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.i.String() + `"`), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	return a.setString(s)
}
