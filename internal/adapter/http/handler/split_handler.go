package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tiagobluiz/splitbill/internal/adapter/http/dto"
	"github.com/tiagobluiz/splitbill/internal/usecase"
)

// SplitService defines the behavior needed by SplitHandler.
type SplitService interface {
	PreviewSplit(ctx context.Context, input usecase.PreviewSplitInput) (*usecase.SplitPreview, error)
}

// SplitHandler handles split preview HTTP requests.
type SplitHandler struct {
	splitUC SplitService
}

// NewSplitHandler creates a new SplitHandler.
func NewSplitHandler(splitUC SplitService) *SplitHandler {
	return &SplitHandler{splitUC: splitUC}
}

// Preview computes allocations for a hypothetical entry without persisting anything.
func (h *SplitHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req dto.PreviewSplitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, err, "invalid split request")
		return
	}

	preview, err := h.splitUC.PreviewSplit(r.Context(), input)
	if err != nil {
		writeDomainError(w, err, "failed to preview split")
		return
	}

	writeJSON(w, http.StatusOK, dto.SplitPreviewFromUseCase(preview))
}
