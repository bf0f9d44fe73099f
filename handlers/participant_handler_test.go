package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Asadbek07/event-match-system/models"
	"github.com/Asadbek07/event-match-system/repositories"
	"github.com/Asadbek07/event-match-system/services"
)

// stubParticipantService записывает вход Register, остальное - заглушки.
type stubParticipantService struct {
	registered []services.RegisterParticipantInput
}

func (s *stubParticipantService) Register(_ context.Context, input services.RegisterParticipantInput) (*models.Participant, error) {
	s.registered = append(s.registered, input)
	return &models.Participant{
		ID:                    "3f1c2c9e-0000-0000-0000-000000000001",
		ParticipantNumber:     input.ParticipantNumber,
		FullName:              input.FullName,
		Email:                 input.Email,
		Phone:                 input.Phone,
		Gender:                models.Gender(input.Gender),
		BackgroundCheckStatus: models.CheckStatusPending,
		EventID:               input.EventID,
	}, nil
}

func (s *stubParticipantService) GetByID(context.Context, string) (*models.Participant, error) {
	return nil, services.ErrNotFound
}

func (s *stubParticipantService) List(context.Context, repositories.ParticipantFilter) ([]*models.Participant, error) {
	return nil, nil
}

func (s *stubParticipantService) ListApprovedExcept(context.Context, string) ([]*models.ParticipantSummary, error) {
	return nil, nil
}

func (s *stubParticipantService) Update(context.Context, string, services.UpdateParticipantInput) (*models.Participant, error) {
	return nil, services.ErrNotFound
}

func (s *stubParticipantService) Delete(context.Context, string) error { return nil }

func (s *stubParticipantService) ResetParticipants(context.Context) error { return nil }

func postRegister(t *testing.T, handler *ParticipantHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/participants/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.Register(rec, req)
	return rec
}

func TestRegister_PassesOptionalNumberAndEvent(t *testing.T) {
	stub := &stubParticipantService{}
	handler := NewParticipantHandler(stub)

	rec := postRegister(t, handler, `{
		"full_name": "Ada Lovelace",
		"email": "ada@example.com",
		"phone": "+15550000001",
		"gender": "female",
		"participant_number": 777,
		"event_id": "e1a4f5d0-0000-0000-0000-000000000001"
	}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, stub.registered, 1)
	input := stub.registered[0]
	assert.Equal(t, 777, input.ParticipantNumber)
	require.NotNil(t, input.EventID)
	assert.Equal(t, "e1a4f5d0-0000-0000-0000-000000000001", *input.EventID)
}

func TestRegister_OmittedNumberAndEventStayZero(t *testing.T) {
	stub := &stubParticipantService{}
	handler := NewParticipantHandler(stub)

	rec := postRegister(t, handler, `{
		"full_name": "Ada Lovelace",
		"email": "ada@example.com",
		"phone": "+15550000001",
		"gender": "female"
	}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, stub.registered, 1)
	assert.Zero(t, stub.registered[0].ParticipantNumber)
	assert.Nil(t, stub.registered[0].EventID)
}

func TestRegister_MalformedBody(t *testing.T) {
	stub := &stubParticipantService{}
	handler := NewParticipantHandler(stub)

	rec := postRegister(t, handler, `{"full_name": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, stub.registered)
}
