package integration

import (
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/tiagobluiz/splitbill/internal/adapter/http/dto"
)

func TestEventLifecycle(t *testing.T) {
	srv := newTestServer(t)

	var eventID uuid.UUID

	t.Run("create event with valid data", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/v1/events", dto.CreateEventRequest{
			Name:         "Ski trip",
			BaseCurrency: "EUR",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
		}

		resp := decodeJSON[dto.EventResponse](t, w)
		if resp.Name != "Ski trip" {
			t.Errorf("expected name %q, got %q", "Ski trip", resp.Name)
		}
		if resp.BaseCurrency != "EUR" {
			t.Errorf("expected currency EUR, got %s", resp.BaseCurrency)
		}
		if resp.DefaultAlgorithm != "MIN_TRANSFER" {
			t.Errorf("expected default algorithm MIN_TRANSFER, got %s", resp.DefaultAlgorithm)
		}
		if resp.Timezone != "UTC" {
			t.Errorf("expected default timezone UTC, got %s", resp.Timezone)
		}
		eventID = resp.ID
	})

	t.Run("create event with invalid currency", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/v1/events", dto.CreateEventRequest{
			Name:         "Bad trip",
			BaseCurrency: "EURO",
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d: %s", http.StatusBadRequest, w.Code, w.Body.String())
		}
	})

	t.Run("get event by ID", func(t *testing.T) {
		w := srv.do(t, http.MethodGet, "/api/v1/events/"+eventID.String(), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}

		resp := decodeJSON[dto.EventResponse](t, w)
		if resp.ID != eventID {
			t.Errorf("expected ID %s, got %s", eventID, resp.ID)
		}
	})

	t.Run("get non-existent event returns 404", func(t *testing.T) {
		w := srv.do(t, http.MethodGet, "/api/v1/events/"+uuid.NewString(), nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
		}
	})

	t.Run("update event name and algorithm", func(t *testing.T) {
		name := "Ski trip 2026"
		algorithm := "PAIRWISE"
		w := srv.do(t, http.MethodPatch, "/api/v1/events/"+eventID.String(), dto.UpdateEventRequest{
			Name:             &name,
			DefaultAlgorithm: &algorithm,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}

		resp := decodeJSON[dto.EventResponse](t, w)
		if resp.Name != name {
			t.Errorf("expected name %q, got %q", name, resp.Name)
		}
		if resp.DefaultAlgorithm != algorithm {
			t.Errorf("expected algorithm %s, got %s", algorithm, resp.DefaultAlgorithm)
		}
	})

	t.Run("list events", func(t *testing.T) {
		w := srv.do(t, http.MethodGet, "/api/v1/events?limit=10&offset=0", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}

		resp := decodeJSON[dto.ListEventsResponse](t, w)
		if len(resp.Events) != 1 {
			t.Errorf("expected 1 event, got %d", len(resp.Events))
		}
	})

	t.Run("archive event blocks further updates", func(t *testing.T) {
		w := srv.do(t, http.MethodDelete, "/api/v1/events/"+eventID.String(), nil)
		if w.Code != http.StatusNoContent {
			t.Fatalf("expected status %d, got %d: %s", http.StatusNoContent, w.Code, w.Body.String())
		}

		// Archiving again is a no-op.
		w = srv.do(t, http.MethodDelete, "/api/v1/events/"+eventID.String(), nil)
		if w.Code != http.StatusNoContent {
			t.Errorf("expected status %d on repeat archive, got %d", http.StatusNoContent, w.Code)
		}

		name := "too late"
		w = srv.do(t, http.MethodPatch, "/api/v1/events/"+eventID.String(), dto.UpdateEventRequest{Name: &name})
		if w.Code != http.StatusConflict {
			t.Errorf("expected status %d, got %d: %s", http.StatusConflict, w.Code, w.Body.String())
		}
	})
}

func TestEventMembership(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/v1/events", dto.CreateEventRequest{
		Name:         "Flat share",
		BaseCurrency: "GBP",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("failed to create event: %d %s", w.Code, w.Body.String())
	}
	event := decodeJSON[dto.EventResponse](t, w)

	t.Run("add person", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/v1/events/"+event.ID.String()+"/people", dto.AddPersonRequest{
			DisplayName: "Alice",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
		}

		resp := decodeJSON[dto.PersonResponse](t, w)
		if resp.DisplayName != "Alice" {
			t.Errorf("expected display name Alice, got %s", resp.DisplayName)
		}
		if resp.EventID != event.ID {
			t.Errorf("expected event ID %s, got %s", event.ID, resp.EventID)
		}
	})

	t.Run("rename person", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/v1/events/"+event.ID.String()+"/people", dto.AddPersonRequest{
			DisplayName: "Carlos",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("failed to add person: %d %s", w.Code, w.Body.String())
		}
		person := decodeJSON[dto.PersonResponse](t, w)

		w = srv.do(t, http.MethodPatch, "/api/v1/people/"+person.ID.String(), dto.UpdatePersonRequest{
			DisplayName: "Carl",
		})
		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}

		resp := decodeJSON[dto.PersonResponse](t, w)
		if resp.DisplayName != "Carl" {
			t.Errorf("expected renamed person, got %s", resp.DisplayName)
		}
	})

	t.Run("add person with empty name", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/v1/events/"+event.ID.String()+"/people", dto.AddPersonRequest{})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}
	})

	t.Run("join via invite", func(t *testing.T) {
		w := srv.do(t, http.MethodPost, "/api/v1/events/"+event.ID.String()+"/invites", dto.CreateInviteRequest{TTLHours: 24})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
		}
		invite := decodeJSON[dto.InviteResponse](t, w)
		if invite.Token == "" {
			t.Fatal("expected a non-empty invite token")
		}
		if invite.ExpiresAt == nil {
			t.Error("expected an expiry on the invite")
		}

		w = srv.do(t, http.MethodPost, "/api/v1/invites/"+invite.Token+"/join", dto.JoinInviteRequest{DisplayName: "Bob"})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
		}
		person := decodeJSON[dto.PersonResponse](t, w)
		if person.EventID != event.ID {
			t.Errorf("expected event ID %s, got %s", event.ID, person.EventID)
		}

		// Revoked tokens stop working immediately.
		w = srv.do(t, http.MethodDelete, "/api/v1/invites/"+invite.Token, nil)
		if w.Code != http.StatusNoContent {
			t.Fatalf("expected status %d, got %d: %s", http.StatusNoContent, w.Code, w.Body.String())
		}
		w = srv.do(t, http.MethodPost, "/api/v1/invites/"+invite.Token+"/join", dto.JoinInviteRequest{DisplayName: "Mallory"})
		if w.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d: %s", http.StatusNotFound, w.Code, w.Body.String())
		}
	})

	t.Run("list invites", func(t *testing.T) {
		w := srv.do(t, http.MethodGet, "/api/v1/events/"+event.ID.String()+"/invites", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}

		resp := decodeJSON[[]*dto.InviteResponse](t, w)
		if len(resp) != 1 {
			t.Errorf("expected 1 invite, got %d", len(resp))
		}
	})

	t.Run("list people", func(t *testing.T) {
		w := srv.do(t, http.MethodGet, "/api/v1/events/"+event.ID.String()+"/people", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}

		resp := decodeJSON[dto.ListPeopleResponse](t, w)
		if len(resp.People) != 3 {
			t.Errorf("expected 3 people, got %d", len(resp.People))
		}
	})
}
