package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Asadbek07/event-match-system/live"
	"github.com/Asadbek07/event-match-system/models"
	"github.com/Asadbek07/event-match-system/repositories"
	"github.com/Asadbek07/event-match-system/services"
	"github.com/google/uuid"
)

type AdminHandler struct {
	participantService services.ParticipantService
	selectionService   services.SelectionService
	statsService       services.StatsService
	exportService      services.ExportService
	hub                *live.Hub
}

func NewAdminHandler(
	participantService services.ParticipantService,
	selectionService services.SelectionService,
	statsService services.StatsService,
	exportService services.ExportService,
	hub *live.Hub,
) *AdminHandler {
	return &AdminHandler{
		participantService: participantService,
		selectionService:   selectionService,
		statsService:       statsService,
		exportService:      exportService,
		hub:                hub,
	}
}

// eventIDFilter читает необязательный query-параметр event_id.
func eventIDFilter(r *http.Request) (*string, error) {
	raw := r.URL.Query().Get("event_id")
	if raw == "" {
		return nil, nil
	}
	if _, err := uuid.Parse(raw); err != nil {
		return nil, fmt.Errorf("invalid event_id query parameter: must be a UUID")
	}
	return &raw, nil
}

// ListParticipants обрабатывает GET /admin/participants с необязательными
// фильтрами status, search и event_id.
func (h *AdminHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ParticipantFilter{}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status := models.BackgroundCheckStatus(raw)
		if !status.Valid() {
			badRequestResponse(w, r, fmt.Errorf("invalid status query parameter: %q", raw))
			return
		}
		filter.Status = &status
	}
	filter.Search = r.URL.Query().Get("search")
	eventID, err := eventIDFilter(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	filter.EventID = eventID

	participants, err := h.participantService.List(r.Context(), filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{
		"participants": participants,
		"total":        len(participants),
	}, nil)
}

// GetParticipant обрабатывает GET /admin/participants/{participantID}.
func (h *AdminHandler) GetParticipant(w http.ResponseWriter, r *http.Request) {
	participantID, err := getUUIDFromURL(r, "participantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.participantService.GetByID(r.Context(), participantID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"participant": participant}, nil)
}

// UpdateParticipant обрабатывает PATCH /admin/participants/{participantID}:
// правка полей и смена статуса проверки.
func (h *AdminHandler) UpdateParticipant(w http.ResponseWriter, r *http.Request) {
	participantID, err := getUUIDFromURL(r, "participantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateParticipantInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.participantService.Update(r.Context(), participantID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	notifyStats(r.Context(), h.statsService, h.hub)

	writeJSON(w, http.StatusOK, jsonResponse{"participant": participant}, nil)
}

// DeleteParticipant обрабатывает DELETE /admin/participants/{participantID}.
// Вместе с участником удаляются все его выборки в обе стороны.
func (h *AdminHandler) DeleteParticipant(w http.ResponseWriter, r *http.Request) {
	participantID, err := getUUIDFromURL(r, "participantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.participantService.Delete(r.Context(), participantID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	notifyStats(r.Context(), h.statsService, h.hub)

	writeJSON(w, http.StatusOK, jsonResponse{"message": "participant deleted"}, nil)
}

// ListSelections обрабатывает GET /admin/selections: все выборки с вложенными
// участниками и вычисленным флагом взаимности.
func (h *AdminHandler) ListSelections(w http.ResponseWriter, r *http.Request) {
	eventID, err := eventIDFilter(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	listing, err := h.selectionService.ListAllSelections(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listing, nil)
}

// GetStats обрабатывает GET /admin/stats: глобальные агрегаты либо агрегаты
// одного события при наличии event_id.
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	eventID, err := eventIDFilter(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var stats *models.DashboardStats
	if eventID != nil {
		stats, err = h.statsService.ComputeEventStats(r.Context(), *eventID)
	} else {
		stats, err = h.statsService.ComputeGlobalStats(r.Context())
	}
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"stats": stats}, nil)
}

// ExportSelections обрабатывает GET /admin/selections/export?format=csv|xlsx.
func (h *AdminHandler) ExportSelections(w http.ResponseWriter, r *http.Request) {
	format := services.ExportFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = services.ExportFormatCSV
	}

	eventID, err := eventIDFilter(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, err := h.exportService.ExportSelections(r.Context(), eventID, format)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(file.Data)
}

// ResetSelections обрабатывает POST /admin/reset/selections: полная очистка
// выборок перед новым событием.
func (h *AdminHandler) ResetSelections(w http.ResponseWriter, r *http.Request) {
	if err := h.selectionService.ResetSelections(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	notifyStats(r.Context(), h.statsService, h.hub)

	writeJSON(w, http.StatusOK, jsonResponse{"message": "all selections removed"}, nil)
}

// ResetParticipants обрабатывает POST /admin/reset/participants: удаляет всех
// участников вместе с их выборками.
func (h *AdminHandler) ResetParticipants(w http.ResponseWriter, r *http.Request) {
	if err := h.participantService.ResetParticipants(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	notifyStats(r.Context(), h.statsService, h.hub)

	writeJSON(w, http.StatusOK, jsonResponse{"message": "all participants removed"}, nil)
}
