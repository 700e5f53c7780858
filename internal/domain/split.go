package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SplitMode enumerates the supported split calculation modes.
type SplitMode string

const (
	SplitModeEven    SplitMode = "EVEN"
	SplitModePercent SplitMode = "PERCENT"
	SplitModeAmount  SplitMode = "AMOUNT"
)

// ParseSplitMode parses a split mode identifier.
func ParseSplitMode(raw string) (SplitMode, error) {
	switch SplitMode(strings.ToUpper(strings.TrimSpace(raw))) {
	case SplitModeEven:
		return SplitModeEven, nil
	case SplitModePercent:
		return SplitModePercent, nil
	case SplitModeAmount:
		return SplitModeAmount, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSplitMode, raw)
	}
}

// SplitInstruction is a per-participant split instruction. The set of
// implementations is closed: EvenSplitInstruction, PercentSplitInstruction
// and AmountSplitInstruction.
type SplitInstruction interface {
	ParticipantID() ParticipantID
	Mode() SplitMode

	sealedSplitInstruction()
}

// EvenSplitInstruction includes a participant in a deterministic even split.
type EvenSplitInstruction struct {
	participantID ParticipantID
}

// NewEvenSplitInstruction creates an even split instruction.
func NewEvenSplitInstruction(participantID ParticipantID) EvenSplitInstruction {
	return EvenSplitInstruction{participantID: participantID}
}

func (i EvenSplitInstruction) ParticipantID() ParticipantID { return i.participantID }
func (i EvenSplitInstruction) Mode() SplitMode              { return SplitModeEven }
func (i EvenSplitInstruction) sealedSplitInstruction()      {}

// PercentSplitInstruction assigns a participant a percentage of the total.
type PercentSplitInstruction struct {
	participantID ParticipantID
	percent       Percentage
}

// NewPercentSplitInstruction creates a percent split instruction.
func NewPercentSplitInstruction(participantID ParticipantID, percent Percentage) PercentSplitInstruction {
	return PercentSplitInstruction{participantID: participantID, percent: percent}
}

func (i PercentSplitInstruction) ParticipantID() ParticipantID { return i.participantID }
func (i PercentSplitInstruction) Mode() SplitMode              { return SplitModePercent }
func (i PercentSplitInstruction) Percent() Percentage          { return i.percent }
func (i PercentSplitInstruction) sealedSplitInstruction()      {}

// AmountSplitInstruction assigns a participant a fixed share of the total.
type AmountSplitInstruction struct {
	participantID ParticipantID
	amount        Amount
}

// NewAmountSplitInstruction creates a fixed-amount split instruction.
func NewAmountSplitInstruction(participantID ParticipantID, amount Amount) AmountSplitInstruction {
	return AmountSplitInstruction{participantID: participantID, amount: amount}
}

func (i AmountSplitInstruction) ParticipantID() ParticipantID { return i.participantID }
func (i AmountSplitInstruction) Mode() SplitMode              { return SplitModeAmount }
func (i AmountSplitInstruction) Amount() Amount               { return i.amount }
func (i AmountSplitInstruction) sealedSplitInstruction()      {}

// SplitValidationError carries the complete list of violated request
// invariants so callers can report all problems at once.
type SplitValidationError struct {
	Violations []string
}

func (e *SplitValidationError) Error() string {
	return strings.Join(e.Violations, "; ")
}

// SplitCalculationRequest is an immutable, validated aggregate describing
// "split total T among these participants under mode M". It is constructed
// only through NewSplitCalculationRequest.
type SplitCalculationRequest struct {
	totalAmount Amount
	currency    CurrencyCode
	mode        SplitMode
	splits      []SplitInstruction
}

// NewSplitCalculationRequest validates and creates a split request. All
// violated invariants are collected, never just the first one found.
func NewSplitCalculationRequest(totalAmount Amount, currency CurrencyCode, splits []SplitInstruction) (*SplitCalculationRequest, error) {
	owned := make([]SplitInstruction, len(splits))
	copy(owned, splits)

	var violations []string

	if !totalAmount.IsPositive() {
		violations = append(violations, "total amount must be greater than zero")
	}
	if len(owned) == 0 {
		violations = append(violations, "at least one participant split is required")
	}

	seen := make(map[string]bool, len(owned))
	duplicate := false
	for _, s := range owned {
		key := s.ParticipantID().String()
		if seen[key] {
			duplicate = true
		}
		seen[key] = true
	}
	if duplicate {
		violations = append(violations, "participant ids must be unique")
	}

	modes := make(map[SplitMode]bool, 1)
	for _, s := range owned {
		modes[s.Mode()] = true
	}
	if len(modes) > 1 {
		violations = append(violations, "all participant splits must use the same split mode")
	}

	var mode SplitMode
	if len(modes) == 1 {
		mode = owned[0].Mode()
		switch mode {
		case SplitModePercent:
			violations = validatePercentMode(owned, violations)
		case SplitModeAmount:
			violations = validateAmountMode(totalAmount, owned, violations)
		case SplitModeEven:
		}
	}

	if len(violations) > 0 {
		return nil, &SplitValidationError{Violations: violations}
	}

	return &SplitCalculationRequest{
		totalAmount: totalAmount,
		currency:    currency,
		mode:        mode,
		splits:      owned,
	}, nil
}

func validatePercentMode(splits []SplitInstruction, violations []string) []string {
	sum := decimal.Zero
	for _, s := range splits {
		sum = sum.Add(s.(PercentSplitInstruction).Percent().Decimal())
	}
	if !sum.Equal(hundred) {
		violations = append(violations, "percent split total must be exactly 100.00")
	}
	return violations
}

func validateAmountMode(total Amount, splits []SplitInstruction, violations []string) []string {
	sum := decimal.Zero
	for _, s := range splits {
		sum = sum.Add(s.(AmountSplitInstruction).Amount().Decimal())
	}
	if !sum.Equal(total.Decimal()) {
		violations = append(violations, "amount split total must match entry total")
	}
	return violations
}

// TotalAmount returns the request total.
func (r *SplitCalculationRequest) TotalAmount() Amount { return r.totalAmount }

// Currency returns the request currency.
func (r *SplitCalculationRequest) Currency() CurrencyCode { return r.currency }

// Mode returns the shared split mode of all instructions.
func (r *SplitCalculationRequest) Mode() SplitMode { return r.mode }

// Splits returns a copy of the participant split instructions.
func (r *SplitCalculationRequest) Splits() []SplitInstruction {
	out := make([]SplitInstruction, len(r.splits))
	copy(out, r.splits)
	return out
}
