package handlers

import (
	"net/http"

	"github.com/Asadbek07/event-match-system/services"
)

type EventHandler struct {
	eventService services.EventService
	statsService services.StatsService
}

func NewEventHandler(eventService services.EventService, statsService services.StatsService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		statsService: statsService,
	}
}

// List обрабатывает GET /admin/events: все события с агрегатами для
// истории прошедших вечеров.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.statsService.ListEventsWithStats(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"events": events}, nil)
}

// Get обрабатывает GET /admin/events/{eventID}.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	eventID, err := getUUIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.eventService.GetByID(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"event": event}, nil)
}

// Create обрабатывает POST /admin/events.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateEventInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.eventService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, jsonResponse{"event": event}, nil)
}

// Update обрабатывает PATCH /admin/events/{eventID}.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	eventID, err := getUUIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateEventInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	event, err := h.eventService.Update(r.Context(), eventID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"event": event}, nil)
}

// Delete обрабатывает DELETE /admin/events/{eventID}.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	eventID, err := getUUIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.eventService.Delete(r.Context(), eventID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"message": "event deleted"}, nil)
}
