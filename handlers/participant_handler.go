package handlers

import (
	"net/http"

	"github.com/Asadbek07/event-match-system/middleware"
	"github.com/Asadbek07/event-match-system/services"
)

type ParticipantHandler struct {
	participantService services.ParticipantService
}

func NewParticipantHandler(participantService services.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participantService: participantService}
}

// Register обрабатывает POST /participants/register - публичная форма.
func (h *ParticipantHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterParticipantInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	// Номер и событие опциональны: без номера база назначит следующий
	// свободный, без события участник попадёт в ближайшее предстоящее.
	participant, err := h.participantService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, jsonResponse{"participant": participant}, nil)
}

// ListApproved обрабатывает GET /participants - список одобренных участников
// для экрана выбора. Сам запрашивающий из списка исключён, контактов в
// ответе нет.
func (h *ParticipantHandler) ListApproved(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.GetActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	participants, err := h.participantService.ListApprovedExcept(r.Context(), actor.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"participants": participants}, nil)
}
