package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/tiagobluiz/splitbill/internal/adapter/http/dto"
	"github.com/tiagobluiz/splitbill/internal/domain"
	"github.com/tiagobluiz/splitbill/internal/usecase"
)

// EntryService defines the behavior needed by EntryHandler.
type EntryService interface {
	CreateEntry(ctx context.Context, input usecase.CreateEntryInput) (*domain.Entry, []*domain.EntryParticipant, error)
	UpdateEntry(ctx context.Context, id uuid.UUID, input usecase.UpdateEntryInput) (*domain.Entry, []*domain.EntryParticipant, error)
	DeleteEntry(ctx context.Context, id uuid.UUID) error
	GetEntry(ctx context.Context, id uuid.UUID) (*domain.Entry, []*domain.EntryParticipant, error)
	ListEntries(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.Entry, error)
}

// EntryHandler handles entry HTTP requests.
type EntryHandler struct {
	entryUC EntryService
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC EntryService) *EntryHandler {
	return &EntryHandler{entryUC: entryUC}
}

// Create creates an entry within an event.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event ID", err.Error())
		return
	}

	var req dto.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(eventID)
	if err != nil {
		writeDomainError(w, err, "invalid entry")
		return
	}

	entry, participants, err := h.entryUC.CreateEntry(r.Context(), input)
	if err != nil {
		writeDomainError(w, err, "failed to create entry")
		return
	}

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry, participants))
}

// Get retrieves an entry by ID.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry ID", err.Error())
		return
	}

	entry, participants, err := h.entryUC.GetEntry(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "failed to get entry")
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry, participants))
}

// Update replaces an entry's content and split set.
func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry ID", err.Error())
		return
	}

	var req dto.UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, err, "invalid entry")
		return
	}

	entry, participants, err := h.entryUC.UpdateEntry(r.Context(), id, input)
	if err != nil {
		writeDomainError(w, err, "failed to update entry")
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry, participants))
}

// Delete soft-deletes an entry.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entry ID", err.Error())
		return
	}

	if err := h.entryUC.DeleteEntry(r.Context(), id); err != nil {
		writeDomainError(w, err, "failed to delete entry")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListByEvent lists an event's active entries.
func (h *EntryHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event ID", err.Error())
		return
	}

	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	entries, err := h.entryUC.ListEntries(r.Context(), usecase.ListEntriesInput{
		EventID: eventID,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		writeDomainError(w, err, "failed to list entries")
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{
		Entries: dto.EntriesFromDomain(entries),
		Total:   int64(len(entries)),
	})
}
