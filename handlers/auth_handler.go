package handlers

import (
	"net/http"
	"time"

	"github.com/Asadbek07/event-match-system/middleware"
	"github.com/Asadbek07/event-match-system/models"
	"github.com/Asadbek07/event-match-system/services"
	"github.com/golang-jwt/jwt/v4"
)

const tokenTTL = 24 * time.Hour

type AuthHandler struct {
	authService services.AuthService
	jwtSecret   []byte
}

func NewAuthHandler(authService services.AuthService, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtSecret:   []byte(jwtSecret),
	}
}

func (h *AuthHandler) issueToken(subject, role, name string, extra jwt.MapClaims) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"name": name,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(tokenTTL).Unix(),
	}
	for k, v := range extra {
		claims[k] = v
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}

// AdminLogin обрабатывает POST /auth/admin/login.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	admin, err := h.authService.AdminLogin(r.Context(), input.Email, input.Password)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	name := admin.Email
	if admin.Name != nil {
		name = *admin.Name
	}

	tokenString, err := h.issueToken(admin.ID, middleware.RoleAdmin, name, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{
		"token": tokenString,
		"admin": admin,
	}, nil)
}

// ParticipantLogin обрабатывает POST /auth/participant/login: вход по номеру
// участника. Номер без одобренной проверки получает 403.
func (h *AuthHandler) ParticipantLogin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ParticipantNumber int `json:"participant_number"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.authService.ParticipantLogin(r.Context(), input.ParticipantNumber)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	tokenString, err := h.issueToken(participant.ID, middleware.RoleParticipant, participant.FullName, jwt.MapClaims{
		"participant_number": participant.ParticipantNumber,
	})
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{
		"token": tokenString,
		"participant": models.ParticipantSummary{
			ID:                participant.ID,
			ParticipantNumber: participant.ParticipantNumber,
			FullName:          participant.FullName,
			Gender:            participant.Gender,
		},
	}, nil)
}
