package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ParticipantAllocation is the final money allocation for one participant.
type ParticipantAllocation struct {
	ParticipantID ParticipantID
	Amount        Amount
}

// SplitCalculationResult carries validated split allocations, ordered by
// ascending participant id.
type SplitCalculationResult struct {
	TotalAmount Amount
	Currency    CurrencyCode
	Allocations []ParticipantAllocation
}

// SplitModeCalculator is the strategy contract for mode-specific allocation.
// Implementations assume a request already validated for their mode and
// must preserve the request total exactly.
type SplitModeCalculator interface {
	Mode() SplitMode
	Allocations(request *SplitCalculationRequest) []ParticipantAllocation
}

// SplitCalculator dispatches to the calculator registered for a request's
// mode and re-verifies total preservation before returning.
type SplitCalculator struct {
	byMode map[SplitMode]SplitModeCalculator
}

// NewSplitCalculator builds a calculator with every split mode registered.
// A missing mode is a programming error, not a runtime input error.
func NewSplitCalculator() *SplitCalculator {
	calculators := []SplitModeCalculator{
		EvenSplitModeCalculator{},
		PercentSplitModeCalculator{},
		AmountSplitModeCalculator{},
	}

	byMode := make(map[SplitMode]SplitModeCalculator, len(calculators))
	for _, c := range calculators {
		byMode[c.Mode()] = c
	}

	for _, mode := range []SplitMode{SplitModeEven, SplitModePercent, SplitModeAmount} {
		if _, ok := byMode[mode]; !ok {
			panic(fmt.Sprintf("split calculator missing for mode %s", mode))
		}
	}

	return &SplitCalculator{byMode: byMode}
}

// Calculate computes per-participant allocations for a validated request.
// The re-sum check surfaces ErrAllocationMismatch only on a buggy mode
// calculator, never on bad user input.
func (c *SplitCalculator) Calculate(request *SplitCalculationRequest) (*SplitCalculationResult, error) {
	calculator, ok := c.byMode[request.Mode()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSplitMode, request.Mode())
	}

	allocations := calculator.Allocations(request)

	sum := decimal.Zero
	for _, a := range allocations {
		sum = sum.Add(a.Amount.Decimal())
	}
	if !sum.Equal(request.TotalAmount().Decimal()) {
		return nil, ErrAllocationMismatch
	}

	return &SplitCalculationResult{
		TotalAmount: request.TotalAmount(),
		Currency:    request.Currency(),
		Allocations: allocations,
	}, nil
}

// EvenSplitModeCalculator splits the total into equal shares, handing the
// leftover minor units to the participants with the smallest ids.
type EvenSplitModeCalculator struct{}

func (EvenSplitModeCalculator) Mode() SplitMode { return SplitModeEven }

func (EvenSplitModeCalculator) Allocations(request *SplitCalculationRequest) []ParticipantAllocation {
	ordered := sortedByParticipantID(request.Splits())

	units := request.TotalAmount().MinorUnits()
	count := int64(len(ordered))
	base := units / count
	remainder := units % count

	allocations := make([]ParticipantAllocation, len(ordered))
	for i, instruction := range ordered {
		share := base
		if remainder > 0 {
			share++
			remainder--
		}
		allocations[i] = ParticipantAllocation{
			ParticipantID: instruction.ParticipantID(),
			Amount:        AmountFromMinorUnits(share),
		}
	}

	return allocations
}

// PercentSplitModeCalculator apportions the total by percentage using the
// largest-remainder method. Ties on fractional remainder resolve to the
// participant with the smaller id.
type PercentSplitModeCalculator struct{}

func (PercentSplitModeCalculator) Mode() SplitMode { return SplitModePercent }

func (PercentSplitModeCalculator) Allocations(request *SplitCalculationRequest) []ParticipantAllocation {
	ordered := sortedByParticipantID(request.Splits())
	totalUnits := request.TotalAmount().MinorUnits()

	type rawShare struct {
		participantID ParticipantID
		floor         int64
		remainder     decimal.Decimal
	}

	raw := make([]rawShare, len(ordered))
	floorSum := int64(0)
	for i, instruction := range ordered {
		percent := instruction.(PercentSplitInstruction)
		// Exact fractional share in minor units; division by 100.00
		// always terminates, so no rounding occurs here.
		exact := decimal.NewFromInt(totalUnits).Mul(percent.Percent().Decimal()).Div(hundred)
		floor := exact.Floor().IntPart()
		raw[i] = rawShare{
			participantID: instruction.ParticipantID(),
			floor:         floor,
			remainder:     exact.Sub(exact.Floor()),
		}
		floorSum += floor
	}

	bonusUnits := totalUnits - floorSum

	order := make([]int, len(raw))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		cmp := raw[order[a]].remainder.Cmp(raw[order[b]].remainder)
		if cmp != 0 {
			return cmp > 0
		}
		return raw[order[a]].participantID.Less(raw[order[b]].participantID)
	})

	bonus := make(map[string]int64, len(raw))
	for _, idx := range order {
		if bonusUnits == 0 {
			break
		}
		bonus[raw[idx].participantID.String()]++
		bonusUnits--
	}

	allocations := make([]ParticipantAllocation, len(raw))
	for i, share := range raw {
		allocations[i] = ParticipantAllocation{
			ParticipantID: share.participantID,
			Amount:        AmountFromMinorUnits(share.floor + bonus[share.participantID.String()]),
		}
	}

	return allocations
}

// AmountSplitModeCalculator passes declared amounts through unchanged,
// reordered by ascending participant id.
type AmountSplitModeCalculator struct{}

func (AmountSplitModeCalculator) Mode() SplitMode { return SplitModeAmount }

func (AmountSplitModeCalculator) Allocations(request *SplitCalculationRequest) []ParticipantAllocation {
	ordered := sortedByParticipantID(request.Splits())

	allocations := make([]ParticipantAllocation, len(ordered))
	for i, instruction := range ordered {
		allocations[i] = ParticipantAllocation{
			ParticipantID: instruction.ParticipantID(),
			Amount:        instruction.(AmountSplitInstruction).Amount(),
		}
	}

	return allocations
}

func sortedByParticipantID(splits []SplitInstruction) []SplitInstruction {
	sort.Slice(splits, func(a, b int) bool {
		return splits[a].ParticipantID().Less(splits[b].ParticipantID())
	})
	return splits
}
