package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tiagobluiz/splitbill/internal/adapter/http/dto"
	"github.com/tiagobluiz/splitbill/internal/domain"
	"github.com/tiagobluiz/splitbill/internal/usecase"
)

// EventService defines the behavior needed by EventHandler.
type EventService interface {
	CreateEvent(ctx context.Context, input usecase.CreateEventInput) (*domain.Event, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	ListEvents(ctx context.Context, input usecase.ListEventsInput) ([]*domain.Event, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, input usecase.UpdateEventInput) (*domain.Event, error)
	ArchiveEvent(ctx context.Context, id uuid.UUID) error
	AddPerson(ctx context.Context, input usecase.AddPersonInput) (*domain.Person, error)
	UpdatePerson(ctx context.Context, input usecase.UpdatePersonInput) (*domain.Person, error)
	ListPeople(ctx context.Context, eventID uuid.UUID) ([]*domain.Person, error)
	CreateInvite(ctx context.Context, input usecase.CreateInviteInput) (*domain.InviteToken, error)
	RevokeInvite(ctx context.Context, token string) error
	ListInvites(ctx context.Context, eventID uuid.UUID) ([]*domain.InviteToken, error)
	JoinViaInvite(ctx context.Context, input usecase.JoinViaInviteInput) (*domain.Person, error)
}

// EventHandler handles event, membership and invite HTTP requests.
type EventHandler struct {
	eventUC EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventUC EventService) *EventHandler {
	return &EventHandler{eventUC: eventUC}
}

// Create creates a new event.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	event, err := h.eventUC.CreateEvent(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err, "failed to create event")
		return
	}

	writeJSON(w, http.StatusCreated, dto.EventFromDomain(event))
}

// Get retrieves an event by ID.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event ID", err.Error())
		return
	}

	event, err := h.eventUC.GetEvent(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, "failed to get event")
		return
	}

	writeJSON(w, http.StatusOK, dto.EventFromDomain(event))
}

// List lists events.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	events, err := h.eventUC.ListEvents(r.Context(), usecase.ListEventsInput{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListEventsResponse{
		Events: dto.EventsFromDomain(events),
		Total:  int64(len(events)),
	})
}

// Update applies a partial update to an event.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event ID", err.Error())
		return
	}

	var req dto.UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	event, err := h.eventUC.UpdateEvent(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err, "failed to update event")
		return
	}

	writeJSON(w, http.StatusOK, dto.EventFromDomain(event))
}

// Archive marks an event read-only.
func (h *EventHandler) Archive(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event ID", err.Error())
		return
	}

	if err := h.eventUC.ArchiveEvent(r.Context(), id); err != nil {
		writeDomainError(w, err, "failed to archive event")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddPerson adds a member to an event.
func (h *EventHandler) AddPerson(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event ID", err.Error())
		return
	}

	var req dto.AddPersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	person, err := h.eventUC.AddPerson(r.Context(), usecase.AddPersonInput{
		EventID:     eventID,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		writeDomainError(w, err, "failed to add person")
		return
	}

	writeJSON(w, http.StatusCreated, dto.PersonFromDomain(person))
}

// UpdatePerson renames an event member.
func (h *EventHandler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	personID, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid person ID", err.Error())
		return
	}

	var req dto.UpdatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	person, err := h.eventUC.UpdatePerson(r.Context(), usecase.UpdatePersonInput{
		PersonID:    personID,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		writeDomainError(w, err, "failed to update person")
		return
	}

	writeJSON(w, http.StatusOK, dto.PersonFromDomain(person))
}

// ListPeople lists the members of an event.
func (h *EventHandler) ListPeople(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event ID", err.Error())
		return
	}

	people, err := h.eventUC.ListPeople(r.Context(), eventID)
	if err != nil {
		writeDomainError(w, err, "failed to list people")
		return
	}

	writeJSON(w, http.StatusOK, dto.ListPeopleResponse{
		People: dto.PeopleFromDomain(people),
		Total:  int64(len(people)),
	})
}

// CreateInvite issues an invite token for an event.
func (h *EventHandler) CreateInvite(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event ID", err.Error())
		return
	}

	var req dto.CreateInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	invite, err := h.eventUC.CreateInvite(r.Context(), usecase.CreateInviteInput{
		EventID: eventID,
		TTL:     time.Duration(req.TTLHours) * time.Hour,
	})
	if err != nil {
		writeDomainError(w, err, "failed to create invite")
		return
	}

	writeJSON(w, http.StatusCreated, dto.InviteFromDomain(invite))
}

// ListInvites lists the invite tokens of an event.
func (h *EventHandler) ListInvites(w http.ResponseWriter, r *http.Request) {
	eventID, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event ID", err.Error())
		return
	}

	invites, err := h.eventUC.ListInvites(r.Context(), eventID)
	if err != nil {
		writeDomainError(w, err, "failed to list invites")
		return
	}

	writeJSON(w, http.StatusOK, dto.InvitesFromDomain(invites))
}

// RevokeInvite invalidates an invite token.
func (h *EventHandler) RevokeInvite(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "missing invite token", "")
		return
	}

	if err := h.eventUC.RevokeInvite(r.Context(), token); err != nil {
		writeDomainError(w, err, "failed to revoke invite")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Join redeems an invite token and adds the caller to the event.
func (h *EventHandler) Join(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "missing invite token", "")
		return
	}

	var req dto.JoinInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	person, err := h.eventUC.JoinViaInvite(r.Context(), usecase.JoinViaInviteInput{
		Token:       token,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		writeDomainError(w, err, "failed to join event")
		return
	}

	writeJSON(w, http.StatusCreated, dto.PersonFromDomain(person))
}
