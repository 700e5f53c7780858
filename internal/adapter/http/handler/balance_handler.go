package handler

import (
	"context"
	"net/http"

	"github.com/tiagobluiz/splitbill/internal/adapter/http/dto"
	"github.com/tiagobluiz/splitbill/internal/usecase"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	GetBalances(ctx context.Context, input usecase.GetBalancesInput) (*usecase.BalanceView, error)
}

// BalanceHandler handles balance HTTP requests.
type BalanceHandler struct {
	balanceUC BalanceService
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC BalanceService) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// Get returns the settled balance view for an event. The event's default
// settlement algorithm applies unless the algorithm query parameter overrides it.
func (h *BalanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event ID", err.Error())
		return
	}

	view, err := h.balanceUC.GetBalances(r.Context(), usecase.GetBalancesInput{
		EventID:   eventID,
		Algorithm: r.URL.Query().Get("algorithm"),
	})
	if err != nil {
		writeDomainError(w, err, "failed to get balances")
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromView(view))
}
