package handlers

import (
	"net/http"

	"github.com/Asadbek07/event-match-system/live"
	"github.com/Asadbek07/event-match-system/middleware"
	"github.com/Asadbek07/event-match-system/services"
)

type SelectionHandler struct {
	selectionService services.SelectionService
	statsService     services.StatsService
	hub              *live.Hub
}

func NewSelectionHandler(selectionService services.SelectionService, statsService services.StatsService, hub *live.Hub) *SelectionHandler {
	return &SelectionHandler{
		selectionService: selectionService,
		statsService:     statsService,
		hub:              hub,
	}
}

// Create обрабатывает POST /selections: участник отмечает интерес к другому
// участнику по его номеру. Повтор той же пары даёт 409.
func (h *SelectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.GetActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input struct {
		SelectedNumber int `json:"selected_number"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	selection, err := h.selectionService.CreateSelection(r.Context(), actor.ID, input.SelectedNumber)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	notifyStats(r.Context(), h.statsService, h.hub)

	writeJSON(w, http.StatusCreated, jsonResponse{"selection": selection}, nil)
}

// ListMine обрабатывает GET /selections: собственные выборки участника.
// Флаг взаимности в ответ не попадает.
func (h *SelectionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.GetActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	selections, err := h.selectionService.ListMySelections(r.Context(), actor.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"selections": selections}, nil)
}

// Revoke обрабатывает DELETE /selections/{selectionID}. Отзыв идемпотентен:
// уже отсутствующая запись тоже считается успехом.
func (h *SelectionHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.GetActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	selectionID, err := getUUIDFromURL(r, "selectionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.selectionService.RevokeSelection(r.Context(), actor.ID, selectionID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	notifyStats(r.Context(), h.statsService, h.hub)

	writeJSON(w, http.StatusOK, jsonResponse{"message": "selection revoked"}, nil)
}
