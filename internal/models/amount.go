package models

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no currency is configured.
const DefaultCurrency = "USD"

var (
	// ErrInvalidAmount is returned when a decimal string cannot be represented
	// exactly in the currency's minor unit.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrUnknownCurrency is returned for ISO 4217 codes go-money does not know.
	ErrUnknownCurrency = errors.New("unknown currency")

	maxAmount = decimal.NewFromInt(math.MaxInt64)
	minAmount = decimal.NewFromInt(math.MinInt64)
)

// maxMinorExponent bounds the power of ten of a parsed amount in minor units.
// A non-zero integer times 10^19 no longer fits in an int64.
const maxMinorExponent = 18

// Amount is a monetary value counted in the smallest currency unit
// (cents for USD). The ledger is single-currency, so the currency itself is
// configuration, not part of the value.
type Amount int64

// CurrencyFraction returns the number of minor-unit digits of a currency
// (2 for USD, 0 for JPY).
func CurrencyFraction(currency string) (int, error) {
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCurrency, currency)
	}
	return cur.Fraction, nil
}

// ParseAmount converts a decimal string such as "33.34" into minor units of
// currency. Values with more fractional digits than the currency allows are
// rejected rather than rounded.
func ParseAmount(s, currency string) (Amount, error) {
	fraction, err := CurrencyFraction(currency)
	if err != nil {
		return 0, err
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsZero() {
		return 0, nil
	}
	// Reject huge exponents before comparing: rescaling "1e100000000"
	// allocates a 10^100000000 big.Int.
	if int64(d.Exponent())+int64(fraction) > maxMinorExponent {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidAmount, s)
	}
	minor := d.Shift(int32(fraction))
	if !minor.IsInteger() {
		return 0, fmt.Errorf("%w: %q has more than %d decimal places", ErrInvalidAmount, s, fraction)
	}
	if minor.GreaterThan(maxAmount) || minor.LessThan(minAmount) {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidAmount, s)
	}
	return Amount(minor.IntPart()), nil
}

// MustParseAmount is ParseAmount for literals in tests and fixtures.
func MustParseAmount(s, currency string) Amount {
	a, err := ParseAmount(s, currency)
	if err != nil {
		panic(err)
	}
	return a
}

// Decimal returns a as an exact decimal in major units of currency.
func (a Amount) Decimal(currency string) decimal.Decimal {
	fraction, err := CurrencyFraction(currency)
	if err != nil {
		fraction = 2
	}
	return decimal.New(int64(a), -int32(fraction))
}

// StringIn renders a as a plain decimal string with the currency's number of
// fractional digits, e.g. "-12.50".
func (a Amount) StringIn(currency string) string {
	fraction, err := CurrencyFraction(currency)
	if err != nil {
		fraction = 2
	}
	return a.Decimal(currency).StringFixed(int32(fraction))
}

// String renders a in DefaultCurrency.
func (a Amount) String() string {
	return a.StringIn(DefaultCurrency)
}
