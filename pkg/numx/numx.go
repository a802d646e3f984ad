// Package numx holds number helpers built on shopspring/decimal: rounding,
// thousands formatting, Rial/Toman and minor unit conversion, percentages
// and range checks.
package numx

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RialsPerToman is the fixed Rial to Toman ratio.
const RialsPerToman = 10

// ErrUnsupportedType is returned by ParseDecimal for inputs it cannot read.
var ErrUnsupportedType = errors.New("numx: unsupported type")

// Round rounds v half away from zero to places decimal places. Negative
// places round to tens, hundreds and so on.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// RoundDecimal rounds d half away from zero.
func RoundDecimal(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Round(places)
}

// RoundBank rounds d half to even.
func RoundBank(d decimal.Decimal, places int32) decimal.Decimal {
	return d.RoundBank(places)
}

// FormatThousands renders n with sep between groups of three digits.
func FormatThousands(n int64, sep string) string {
	return groupDigits(big.NewInt(n).String(), sep)
}

// FormatDecimal renders d rounded to places with sep between groups of
// three integer digits. The fraction keeps exactly places digits.
func FormatDecimal(d decimal.Decimal, places int32, sep string) string {
	s := d.StringFixed(max(places, 0))
	intPart, frac, hasFrac := strings.Cut(s, ".")
	out := groupDigits(intPart, sep)
	if hasFrac {
		out += "." + frac
	}
	return out
}

func groupDigits(s, sep string) string {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(s[:min(lead, len(s))])
	for i := lead; i < len(s); i += 3 {
		b.WriteString(sep)
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// RialToToman converts an amount in Rials to Tomans.
func RialToToman(rial decimal.Decimal) decimal.Decimal {
	return rial.Div(decimal.NewFromInt(RialsPerToman))
}

// TomanToRial converts an amount in Tomans to Rials.
func TomanToRial(toman decimal.Decimal) decimal.Decimal {
	return toman.Mul(decimal.NewFromInt(RialsPerToman))
}

// Percent returns part as a percentage of total rounded to places. A zero
// total yields zero.
func Percent(part, total decimal.Decimal, places int32) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Mul(decimal.NewFromInt(100)).Div(total).Round(places)
}

// ApplyDiscount subtracts percent% from price. The percentage is clamped to
// [0, 100].
func ApplyDiscount(price, percent decimal.Decimal) decimal.Decimal {
	p := decimal.Max(decimal.Zero, decimal.Min(percent, decimal.NewFromInt(100)))
	return price.Sub(price.Mul(p).Div(decimal.NewFromInt(100)))
}

// Clamp limits v to [lo, hi].
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	if lo > hi {
		lo, hi = hi, lo
	}
	return min(max(v, lo), hi)
}

// Between reports whether lo <= v <= hi.
func Between[T cmp.Ordered](v, lo, hi T) bool {
	return v >= lo && v <= hi
}

// IsEven reports whether n is even.
func IsEven[T ~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](n T) bool {
	return n%2 == 0
}

// IsOdd reports whether n is odd.
func IsOdd[T ~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](n T) bool {
	return n%2 != 0
}

// ParseDecimal reads a decimal from a string (thousands separators ',' and
// '_' are ignored), float64, float32, int, int64, uint64, *big.Int,
// decimal.Decimal or *decimal.Decimal.
func ParseDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case string:
		clean := strings.NewReplacer(",", "", "_", "").Replace(strings.TrimSpace(x))
		d, err := decimal.NewFromString(clean)
		if err != nil {
			zap.L().Debug("numx: parse decimal failed", zap.String("input", x), zap.Error(err))
			return decimal.Zero, fmt.Errorf("parse decimal %q: %w", x, err)
		}
		return d, nil
	case float64:
		return decimal.NewFromFloat(x), nil
	case float32:
		return decimal.NewFromFloat32(x), nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(x), 0), nil
	case *big.Int:
		if x == nil {
			return decimal.Zero, nil
		}
		return decimal.NewFromBigInt(x, 0), nil
	case decimal.Decimal:
		return x, nil
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero, nil
		}
		return *x, nil
	}
	return decimal.Zero, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
}

// ToMinorUnits scales amount by 10^decimals and returns the integer result,
// e.g. Tomans with decimals 1 gives Rials, a token amount with decimals 18
// gives its smallest unit. Fractions below the minor unit are truncated.
func ToMinorUnits(amount any, decimals int32) (*big.Int, error) {
	d, err := ParseDecimal(amount)
	if err != nil {
		return nil, err
	}
	return d.Shift(decimals).BigInt(), nil
}

// FromMinorUnits is the inverse of ToMinorUnits.
func FromMinorUnits(units *big.Int, decimals int32) decimal.Decimal {
	if units == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(units, -decimals)
}
