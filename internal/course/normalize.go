package course

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Percent is a progress value in [0, 100]. The zero value is absent, which
// is distinct from a present 0.
type Percent struct {
	Value float64
	Valid bool
}

// Absent is the "no data" percent.
func Absent() Percent { return Percent{} }

// PercentOf returns a present percent, or absent when v is out of range.
func PercentOf(v float64) Percent {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 100 {
		return Absent()
	}
	return Percent{Value: v, Valid: true}
}

// OrZero resolves absent to 0 for display.
func (p Percent) OrZero() float64 {
	if !p.Valid {
		return 0
	}
	return p.Value
}

// MarshalJSON encodes absent as null.
func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(p.Value, 'f', -1, 64)), nil
}

func (p Percent) String() string {
	if !p.Valid {
		return "absent"
	}
	return strconv.FormatFloat(p.Value, 'f', -1, 64) + "%"
}

// NormalizePercent turns a cell into a percent. Blank, missing or
// unparsable input is absent; it never fails.
func NormalizePercent(raw any) Percent {
	switch v := raw.(type) {
	case nil:
		return Absent()
	case Percent:
		return v
	case float64:
		return PercentOf(v)
	case float32:
		return PercentOf(float64(v))
	case int:
		return PercentOf(float64(v))
	case int64:
		return PercentOf(float64(v))
	case string:
		return parsePercentText(v)
	case fmt.Stringer:
		return parsePercentText(v.String())
	default:
		return Absent()
	}
}

func parsePercentText(s string) Percent {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	if s == "" || isHexFloat(s) {
		return Absent()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Absent()
	}
	return PercentOf(f)
}

// isHexFloat reports a 0x prefix, which ParseFloat accepts but a decimal
// cell never carries.
func isHexFloat(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

var trueTokens = map[string]bool{
	"true": true,
	"yes":  true,
	"1":    true,
	"✓":    true,
	"✔":    true,
	"✅":    true,
	"done": true,
}

// NormalizeBoolean maps a cell to a completion flag. Only the closed token
// set above is true; anything else, including absence, is false.
func NormalizeBoolean(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return trueTokens[strings.ToLower(strings.TrimSpace(v))]
	case float64:
		return trueTokens[strconv.FormatFloat(v, 'f', -1, 64)]
	case int:
		return trueTokens[strconv.Itoa(v)]
	case int64:
		return trueTokens[strconv.FormatInt(v, 10)]
	case fmt.Stringer:
		return NormalizeBoolean(v.String())
	default:
		return false
	}
}
