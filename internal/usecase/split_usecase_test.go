package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tiagobluiz/splitbill/internal/domain"
	"github.com/tiagobluiz/splitbill/internal/usecase"
)

func TestSplitUseCase_PreviewSplit(t *testing.T) {
	uc := usecase.NewSplitUseCase(domain.NewSplitCalculator(), zerolog.Nop())

	preview, err := uc.PreviewSplit(context.Background(), usecase.PreviewSplitInput{
		TotalAmount: amount(t, "10.0000"),
		Currency:    "EUR",
		Splits: []usecase.EntrySplitInput{
			{PersonID: personID(1), Mode: domain.SplitModeEven},
			{PersonID: personID(2), Mode: domain.SplitModeEven},
			{PersonID: personID(3), Mode: domain.SplitModeEven},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if preview.Mode != domain.SplitModeEven {
		t.Errorf("unexpected mode: %s", preview.Mode)
	}
	if len(preview.Allocations) != 3 {
		t.Fatalf("expected 3 allocations, got %d", len(preview.Allocations))
	}
	if preview.Allocations[0].PersonID != personID(1) || preview.Allocations[0].Amount.String() != "3.3334" {
		t.Errorf("unexpected first allocation: %+v", preview.Allocations[0])
	}
}

func TestSplitUseCase_PreviewSplit_Invalid(t *testing.T) {
	uc := usecase.NewSplitUseCase(domain.NewSplitCalculator(), zerolog.Nop())

	_, err := uc.PreviewSplit(context.Background(), usecase.PreviewSplitInput{
		TotalAmount: amount(t, "10.0000"),
		Currency:    "EUR",
		Splits:      nil,
	})

	var verr *domain.SplitValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected SplitValidationError, got %v", err)
	}
}

func TestSplitUseCase_PreviewSplit_MissingPercent(t *testing.T) {
	uc := usecase.NewSplitUseCase(domain.NewSplitCalculator(), zerolog.Nop())

	_, err := uc.PreviewSplit(context.Background(), usecase.PreviewSplitInput{
		TotalAmount: amount(t, "10.0000"),
		Currency:    "EUR",
		Splits: []usecase.EntrySplitInput{
			{PersonID: personID(1), Mode: domain.SplitModePercent},
		},
	})
	if !errors.Is(err, domain.ErrUnknownSplitMode) {
		t.Fatalf("expected ErrUnknownSplitMode, got %v", err)
	}
}
