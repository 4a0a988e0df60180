// Package units converts token amounts between their human-readable decimal
// form and the fixed-point integers used on chain.
package units

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"

	"github.com/fleshka4/autoswap/internal/apperrors"
)

var ten = big.NewInt(10)

// Scale returns 10^decimals.
func Scale(decimals uint8) *big.Int {
	return new(big.Int).Exp(ten, big.NewInt(int64(decimals)), nil)
}

// ToFixedPoint parses a non-negative decimal string such as "0.001" into its
// fixed-point representation at the given precision.
//
// Fractional digits beyond the precision are accepted only when they are zero;
// anything else would need rounding and is rejected with ErrInvalidAmount.
func ToFixedPoint(human string, decimals uint8) (*big.Int, error) {
	s := strings.TrimSpace(human)
	if s == "" {
		return nil, errors.Wrap(apperrors.ErrInvalidAmount, "empty amount")
	}

	whole, frac, hasDot := strings.Cut(s, ".")
	if hasDot && strings.Contains(frac, ".") {
		return nil, errors.Wrapf(apperrors.ErrInvalidAmount, "%q has more than one decimal point", human)
	}
	if whole == "" && frac == "" {
		return nil, errors.Wrapf(apperrors.ErrInvalidAmount, "%q has no digits", human)
	}
	if !isDigits(whole) || !isDigits(frac) {
		return nil, errors.Wrapf(apperrors.ErrInvalidAmount, "%q is not a non-negative decimal number", human)
	}

	if len(frac) > int(decimals) {
		if strings.Trim(frac[decimals:], "0") != "" {
			return nil, errors.Wrapf(apperrors.ErrInvalidAmount, "%q exceeds %d decimals", human, decimals)
		}
		frac = frac[:decimals]
	}
	frac += strings.Repeat("0", int(decimals)-len(frac))

	digits := strings.TrimLeft(whole+frac, "0")
	if digits == "" {
		return new(big.Int), nil
	}

	out, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, errors.Wrapf(apperrors.ErrInvalidAmount, "%q is not a number", human)
	}
	return out, nil
}

// ToHuman formats a fixed-point amount at the given precision. Trailing
// fractional zeros are trimmed but at least one fractional digit is kept when
// decimals > 0, so 10^18 at 18 decimals renders as "1.0".
func ToHuman(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}

	sign := ""
	abs := new(big.Int).Set(amount)
	if abs.Sign() < 0 {
		sign = "-"
		abs.Neg(abs)
	}

	if decimals == 0 {
		return sign + abs.String()
	}

	whole, rem := new(big.Int).QuoRem(abs, Scale(decimals), new(big.Int))

	frac := rem.String()
	frac = strings.Repeat("0", int(decimals)-len(frac)) + frac
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		frac = "0"
	}

	return sign + whole.String() + "." + frac
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
