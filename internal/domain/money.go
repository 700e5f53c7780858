package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MoneyScale is the fixed decimal scale for all money amounts in the ledger.
// One minor unit is 10^-MoneyScale (0.0001).
const MoneyScale = 4

// PercentScale is the fixed decimal scale for split percentages.
const PercentScale = 2

// MaxAmount bounds amounts so minor-unit conversion always fits in int64.
const MaxAmount = "100000000000000" // 100 trillion

var (
	hundred   = decimal.RequireFromString("100.00")
	maxAmount = decimal.RequireFromString(MaxAmount)

	currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
)

// Amount is a fixed-scale decimal money value. It is only constructed through
// NewAmount and friends, which reject any value that would require rounding
// to fit MoneyScale.
type Amount struct {
	value decimal.Decimal
}

// NewAmount creates an amount from a decimal whose scale must already fit
// MoneyScale exactly. Values needing rounding fail with ErrAmountScale.
func NewAmount(d decimal.Decimal) (Amount, error) {
	if !d.Equal(d.Truncate(MoneyScale)) {
		return Amount{}, fmt.Errorf("%w: %s", ErrAmountScale, d.String())
	}
	if d.Abs().GreaterThan(maxAmount) {
		return Amount{}, fmt.Errorf("%w: %s", ErrAmountTooLarge, d.String())
	}
	return Amount{value: d}, nil
}

// NewAmountFromString parses a decimal string into an amount.
func NewAmountFromString(s string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrAmountScale, s)
	}
	return NewAmount(d)
}

// NewPositiveAmount creates an amount constrained to strictly positive values.
func NewPositiveAmount(d decimal.Decimal) (Amount, error) {
	a, err := NewAmount(d)
	if err != nil {
		return Amount{}, err
	}
	if !a.value.IsPositive() {
		return Amount{}, fmt.Errorf("%w: %s", ErrAmountNotPositive, d.String())
	}
	return a, nil
}

// AmountFromMinorUnits converts integer minor units back to an amount.
func AmountFromMinorUnits(units int64) Amount {
	return Amount{value: decimal.New(units, -MoneyScale)}
}

// MinorUnits converts the amount to integer minor units. The conversion is
// exact for any constructed Amount.
func (a Amount) MinorUnits() int64 {
	return a.value.Shift(MoneyScale).IntPart()
}

// Decimal returns the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal {
	return a.value
}

// String renders the amount with exactly MoneyScale fractional digits.
func (a Amount) String() string {
	return a.value.StringFixed(MoneyScale)
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{value: a.value.Add(b.value)}
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount {
	return Amount{value: a.value.Sub(b.value)}
}

// Neg returns -a.
func (a Amount) Neg() Amount {
	return Amount{value: a.value.Neg()}
}

// Equal reports whether two amounts are numerically equal.
func (a Amount) Equal(b Amount) bool {
	return a.value.Equal(b.value)
}

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool {
	return a.value.IsZero()
}

// IsPositive reports whether the amount is strictly positive.
func (a Amount) IsPositive() bool {
	return a.value.IsPositive()
}

// IsNegative reports whether the amount is strictly negative.
func (a Amount) IsNegative() bool {
	return a.value.IsNegative()
}

// MarshalJSON renders the amount as a fixed-scale decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON parses a quoted decimal string, enforcing the amount scale.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := NewAmountFromString(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Percentage is a fixed-scale split percentage constrained to 0 < p <= 100.00.
type Percentage struct {
	value decimal.Decimal
}

// NewPercentage creates a percentage from a decimal with scale PercentScale.
func NewPercentage(d decimal.Decimal) (Percentage, error) {
	if !d.Equal(d.Truncate(PercentScale)) {
		return Percentage{}, fmt.Errorf("%w: %s", ErrPercentScale, d.String())
	}
	if !d.IsPositive() || d.GreaterThan(hundred) {
		return Percentage{}, fmt.Errorf("%w: %s", ErrPercentOutOfRange, d.String())
	}
	return Percentage{value: d}, nil
}

// NewPercentageFromString parses a decimal string into a percentage.
func NewPercentageFromString(s string) (Percentage, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Percentage{}, fmt.Errorf("%w: %q", ErrPercentScale, s)
	}
	return NewPercentage(d)
}

// Decimal returns the underlying decimal value.
func (p Percentage) Decimal() decimal.Decimal {
	return p.value
}

// String renders the percentage with exactly PercentScale fractional digits.
func (p Percentage) String() string {
	return p.value.StringFixed(PercentScale)
}

// CurrencyCode is a normalized 3-letter uppercase ISO-4217-shaped code.
type CurrencyCode string

// NewCurrencyCode validates and normalizes a raw currency code.
func NewCurrencyCode(raw string) (CurrencyCode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if !currencyRegex.MatchString(normalized) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, raw)
	}
	return CurrencyCode(normalized), nil
}

// String returns the currency code.
func (c CurrencyCode) String() string {
	return string(c)
}

// ParticipantID identifies a split participant. Equality and ordering follow
// the canonical UUID string form, which anchors determinism across the engine.
type ParticipantID struct {
	id uuid.UUID
}

// ParticipantIDOf wraps an existing UUID.
func ParticipantIDOf(id uuid.UUID) ParticipantID {
	return ParticipantID{id: id}
}

// ParseParticipantID parses a canonical UUID string.
func ParseParticipantID(s string) (ParticipantID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ParticipantID{}, fmt.Errorf("%w: %q", ErrInvalidParticipantID, s)
	}
	return ParticipantID{id: id}, nil
}

// UUID returns the underlying UUID.
func (p ParticipantID) UUID() uuid.UUID {
	return p.id
}

// String returns the canonical UUID string.
func (p ParticipantID) String() string {
	return p.id.String()
}

// Less orders participant ids by canonical string form.
func (p ParticipantID) Less(other ParticipantID) bool {
	return p.String() < other.String()
}

// MarshalJSON renders the id as a canonical UUID string.
func (p ParticipantID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON parses a quoted canonical UUID string.
func (p *ParticipantID) UnmarshalJSON(data []byte) error {
	parsed, err := ParseParticipantID(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
