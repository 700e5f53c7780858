package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tiagobluiz/splitbill/internal/domain"
)

// SplitUseCase previews split calculations without persisting anything.
type SplitUseCase struct {
	calculator *domain.SplitCalculator
	logger     zerolog.Logger
}

// NewSplitUseCase creates a new SplitUseCase.
func NewSplitUseCase(calculator *domain.SplitCalculator, logger zerolog.Logger) *SplitUseCase {
	return &SplitUseCase{calculator: calculator, logger: logger}
}

// PreviewSplitInput represents input for a split preview.
type PreviewSplitInput struct {
	TotalAmount domain.Amount
	Currency    domain.CurrencyCode
	Splits      []EntrySplitInput
}

// SplitPreview is the computed allocation set for a hypothetical entry.
type SplitPreview struct {
	TotalAmount domain.Amount
	Currency    domain.CurrencyCode
	Mode        domain.SplitMode
	Allocations []SplitPreviewAllocation
}

// SplitPreviewAllocation is one participant's previewed share.
type SplitPreviewAllocation struct {
	PersonID uuid.UUID
	Amount   domain.Amount
}

// PreviewSplit validates and computes a split without touching storage.
func (uc *SplitUseCase) PreviewSplit(_ context.Context, input PreviewSplitInput) (*SplitPreview, error) {
	instructions, err := buildSplitInstructions(input.Splits)
	if err != nil {
		return nil, err
	}

	request, err := domain.NewSplitCalculationRequest(input.TotalAmount, input.Currency, instructions)
	if err != nil {
		return nil, err
	}

	result, err := uc.calculator.Calculate(request)
	if err != nil {
		if errors.Is(err, domain.ErrAllocationMismatch) {
			uc.logger.Error().Err(err).Str("total", input.TotalAmount.String()).Msg("split preview diverged from total")
		}
		return nil, err
	}

	preview := &SplitPreview{
		TotalAmount: result.TotalAmount,
		Currency:    result.Currency,
		Mode:        request.Mode(),
		Allocations: make([]SplitPreviewAllocation, len(result.Allocations)),
	}
	for i, a := range result.Allocations {
		preview.Allocations[i] = SplitPreviewAllocation{
			PersonID: a.ParticipantID.UUID(),
			Amount:   a.Amount,
		}
	}

	return preview, nil
}

// buildSplitInstructions converts share declarations into domain split
// instructions, checking that mode-specific fields are present.
func buildSplitInstructions(splits []EntrySplitInput) ([]domain.SplitInstruction, error) {
	instructions := make([]domain.SplitInstruction, 0, len(splits))
	for _, s := range splits {
		participantID := domain.ParticipantIDOf(s.PersonID)
		switch s.Mode {
		case domain.SplitModeEven:
			instructions = append(instructions, domain.NewEvenSplitInstruction(participantID))
		case domain.SplitModePercent:
			if s.Percent == nil {
				return nil, fmt.Errorf("%w: percent split without percent", domain.ErrUnknownSplitMode)
			}
			instructions = append(instructions, domain.NewPercentSplitInstruction(participantID, *s.Percent))
		case domain.SplitModeAmount:
			if s.Amount == nil {
				return nil, fmt.Errorf("%w: amount split without amount", domain.ErrUnknownSplitMode)
			}
			instructions = append(instructions, domain.NewAmountSplitInstruction(participantID, *s.Amount))
		default:
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSplitMode, s.Mode)
		}
	}

	return instructions, nil
}
