package domain

import (
	"errors"
	"testing"
)

func mustRequest(t *testing.T, total string, splits []SplitInstruction) *SplitCalculationRequest {
	t.Helper()
	req, err := NewSplitCalculationRequest(mustAmount(t, total), "EUR", splits)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	return req
}

func assertAllocations(t *testing.T, result *SplitCalculationResult, want map[int]string) {
	t.Helper()
	if len(result.Allocations) != len(want) {
		t.Fatalf("expected %d allocations, got %d", len(want), len(result.Allocations))
	}

	prev := ""
	for _, alloc := range result.Allocations {
		id := alloc.ParticipantID.String()
		if id <= prev {
			t.Errorf("allocations out of order: %s after %s", id, prev)
		}
		prev = id
	}

	for n, amount := range want {
		got, ok := allocationFor(result, pid(t, n))
		if !ok {
			t.Fatalf("no allocation for participant %d", n)
		}
		if got.String() != amount {
			t.Errorf("participant %d: got %s, want %s", n, got, amount)
		}
	}
}

func allocationFor(result *SplitCalculationResult, id ParticipantID) (Amount, bool) {
	for _, alloc := range result.Allocations {
		if alloc.ParticipantID == id {
			return alloc.Amount, true
		}
	}
	return Amount{}, false
}

func TestSplitCalculator_Even(t *testing.T) {
	t.Parallel()

	calculator := NewSplitCalculator()

	t.Run("indivisible remainder goes to smallest ids", func(t *testing.T) {
		req := mustRequest(t, "10.0000", []SplitInstruction{
			NewEvenSplitInstruction(pid(t, 3)),
			NewEvenSplitInstruction(pid(t, 1)),
			NewEvenSplitInstruction(pid(t, 2)),
		})

		result, err := calculator.Calculate(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		assertAllocations(t, result, map[int]string{
			1: "3.3334",
			2: "3.3333",
			3: "3.3333",
		})
	})

	t.Run("exact division leaves no remainder", func(t *testing.T) {
		req := mustRequest(t, "9.0000", []SplitInstruction{
			NewEvenSplitInstruction(pid(t, 1)),
			NewEvenSplitInstruction(pid(t, 2)),
			NewEvenSplitInstruction(pid(t, 3)),
		})

		result, err := calculator.Calculate(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		assertAllocations(t, result, map[int]string{
			1: "3.0000",
			2: "3.0000",
			3: "3.0000",
		})
	})

	t.Run("single participant takes the full total", func(t *testing.T) {
		req := mustRequest(t, "10.0001", []SplitInstruction{
			NewEvenSplitInstruction(pid(t, 1)),
		})

		result, err := calculator.Calculate(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		assertAllocations(t, result, map[int]string{1: "10.0001"})
	})
}

func TestSplitCalculator_Percent(t *testing.T) {
	t.Parallel()

	calculator := NewSplitCalculator()

	t.Run("fifty fifty with odd minor unit", func(t *testing.T) {
		req := mustRequest(t, "1.0001", []SplitInstruction{
			NewPercentSplitInstruction(pid(t, 1), mustPercentage(t, "50.00")),
			NewPercentSplitInstruction(pid(t, 2), mustPercentage(t, "50.00")),
		})

		result, err := calculator.Calculate(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		assertAllocations(t, result, map[int]string{
			1: "0.5001",
			2: "0.5000",
		})
	})

	t.Run("largest remainder wins the bonus unit", func(t *testing.T) {
		req := mustRequest(t, "1.0000", []SplitInstruction{
			NewPercentSplitInstruction(pid(t, 1), mustPercentage(t, "33.34")),
			NewPercentSplitInstruction(pid(t, 2), mustPercentage(t, "33.33")),
			NewPercentSplitInstruction(pid(t, 3), mustPercentage(t, "33.33")),
		})

		result, err := calculator.Calculate(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		assertAllocations(t, result, map[int]string{
			1: "0.3334",
			2: "0.3333",
			3: "0.3333",
		})
	})

	t.Run("uneven percentages preserve the total", func(t *testing.T) {
		req := mustRequest(t, "123.4567", []SplitInstruction{
			NewPercentSplitInstruction(pid(t, 1), mustPercentage(t, "17.50")),
			NewPercentSplitInstruction(pid(t, 2), mustPercentage(t, "22.25")),
			NewPercentSplitInstruction(pid(t, 3), mustPercentage(t, "60.25")),
		})

		result, err := calculator.Calculate(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		sum := int64(0)
		for _, alloc := range result.Allocations {
			sum += alloc.Amount.MinorUnits()
		}
		if sum != mustAmount(t, "123.4567").MinorUnits() {
			t.Fatalf("allocations sum to %d minor units, want total", sum)
		}
	})
}

func TestSplitCalculator_Amount(t *testing.T) {
	t.Parallel()

	calculator := NewSplitCalculator()

	req := mustRequest(t, "7.5000", []SplitInstruction{
		NewAmountSplitInstruction(pid(t, 2), mustAmount(t, "3.2500")),
		NewAmountSplitInstruction(pid(t, 1), mustAmount(t, "3.0000")),
		NewAmountSplitInstruction(pid(t, 3), mustAmount(t, "1.2500")),
	})

	result, err := calculator.Calculate(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertAllocations(t, result, map[int]string{
		1: "3.0000",
		2: "3.2500",
		3: "1.2500",
	})
}

func TestSplitCalculator_DeterministicUnderReordering(t *testing.T) {
	t.Parallel()

	calculator := NewSplitCalculator()

	build := func(splits []SplitInstruction) *SplitCalculationResult {
		req := mustRequest(t, "10.0000", splits)
		result, err := calculator.Calculate(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return result
	}

	first := build([]SplitInstruction{
		NewEvenSplitInstruction(pid(t, 1)),
		NewEvenSplitInstruction(pid(t, 2)),
		NewEvenSplitInstruction(pid(t, 3)),
	})
	second := build([]SplitInstruction{
		NewEvenSplitInstruction(pid(t, 3)),
		NewEvenSplitInstruction(pid(t, 1)),
		NewEvenSplitInstruction(pid(t, 2)),
	})

	for i := range first.Allocations {
		if first.Allocations[i].ParticipantID != second.Allocations[i].ParticipantID ||
			!first.Allocations[i].Amount.Equal(second.Allocations[i].Amount) {
			t.Fatalf("allocation %d differs across input orderings: %+v vs %+v",
				i, first.Allocations[i], second.Allocations[i])
		}
	}
}

func TestSplitCalculator_EvenSpreadAtMostOneMinorUnit(t *testing.T) {
	t.Parallel()

	calculator := NewSplitCalculator()

	req := mustRequest(t, "100.0005", []SplitInstruction{
		NewEvenSplitInstruction(pid(t, 1)),
		NewEvenSplitInstruction(pid(t, 2)),
		NewEvenSplitInstruction(pid(t, 3)),
		NewEvenSplitInstruction(pid(t, 4)),
		NewEvenSplitInstruction(pid(t, 5)),
		NewEvenSplitInstruction(pid(t, 6)),
		NewEvenSplitInstruction(pid(t, 7)),
	})

	result, err := calculator.Calculate(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	minUnits, maxUnits := int64(1<<62), int64(0)
	for _, alloc := range result.Allocations {
		units := alloc.Amount.MinorUnits()
		if units < minUnits {
			minUnits = units
		}
		if units > maxUnits {
			maxUnits = units
		}
	}
	if maxUnits-minUnits > 1 {
		t.Fatalf("allocation spread is %d minor units, want at most 1", maxUnits-minUnits)
	}
}

func TestSplitCalculator_UnknownMode(t *testing.T) {
	t.Parallel()

	calculator := &SplitCalculator{byMode: map[SplitMode]SplitModeCalculator{}}
	req := mustRequest(t, "10.0000", []SplitInstruction{
		NewEvenSplitInstruction(pid(t, 1)),
	})

	_, err := calculator.Calculate(req)
	if !errors.Is(err, ErrUnknownSplitMode) {
		t.Fatalf("expected ErrUnknownSplitMode, got %v", err)
	}
}
