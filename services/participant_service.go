package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/Asadbek07/event-match-system/models"
	"github.com/Asadbek07/event-match-system/repositories"
	"github.com/Asadbek07/event-match-system/storage"
	qrcode "github.com/skip2/go-qrcode"
)

const qrImageSize = 300 // px, сторона PNG с QR-кодом

// RegisterParticipantInput - данные формы регистрации.
type RegisterParticipantInput struct {
	FullName          string  `json:"full_name"`
	Email             string  `json:"email"`
	Phone             string  `json:"phone"`
	Gender            string  `json:"gender"`
	Age               *int    `json:"age,omitempty"`
	Occupation        *string `json:"occupation,omitempty"`
	ParticipantNumber int     `json:"participant_number,omitempty"` // 0 - назначить автоматически
	EventID           *string `json:"event_id,omitempty"`
}

// UpdateParticipantInput - частичное обновление из админки.
// nil-поле означает "не менять".
type UpdateParticipantInput struct {
	FullName              *string `json:"full_name,omitempty"`
	Email                 *string `json:"email,omitempty"`
	Phone                 *string `json:"phone,omitempty"`
	Gender                *string `json:"gender,omitempty"`
	Age                   *int    `json:"age,omitempty"`
	Occupation            *string `json:"occupation,omitempty"`
	BackgroundCheckStatus *string `json:"background_check_status,omitempty"`
}

// qrPayload - содержимое QR-кода участника. Формат стабилен: его читает
// сканер на стойке регистрации.
type qrPayload struct {
	ParticipantID     string `json:"participant_id"`
	ParticipantNumber int    `json:"participant_number"`
	EventID           string `json:"event_id,omitempty"`
}

// ParticipantService инкапсулирует регистрацию и администрирование участников.
type ParticipantService interface {
	Register(ctx context.Context, input RegisterParticipantInput) (*models.Participant, error)
	GetByID(ctx context.Context, id string) (*models.Participant, error)
	List(ctx context.Context, filter repositories.ParticipantFilter) ([]*models.Participant, error)
	ListApprovedExcept(ctx context.Context, excludeID string) ([]*models.ParticipantSummary, error)
	Update(ctx context.Context, id string, input UpdateParticipantInput) (*models.Participant, error)
	Delete(ctx context.Context, id string) error
	ResetParticipants(ctx context.Context) error
}

type participantService struct {
	participantRepo repositories.ParticipantRepository
	eventRepo       repositories.EventRepository
	uploader        storage.FileUploader // nil - QR-коды не загружаются
}

func NewParticipantService(
	participantRepo repositories.ParticipantRepository,
	eventRepo repositories.EventRepository,
	uploader storage.FileUploader,
) ParticipantService {
	return &participantService{
		participantRepo: participantRepo,
		eventRepo:       eventRepo,
		uploader:        uploader,
	}
}

// Register создаёт участника (статус проверки - pending), рендерит его
// QR-код и загружает PNG в объектное хранилище.
func (s *participantService) Register(ctx context.Context, input RegisterParticipantInput) (*models.Participant, error) {
	if err := validateRegistration(input); err != nil {
		return nil, err
	}

	eventID := input.EventID
	if eventID == nil {
		event, err := s.eventRepo.FindDefault(ctx)
		if err != nil {
			if errors.Is(err, repositories.ErrEventNotFound) {
				return nil, ErrNoActiveEvent
			}
			return nil, fmt.Errorf("failed to resolve default event: %w", err)
		}
		eventID = &event.ID
	} else {
		if _, err := s.eventRepo.FindByID(ctx, *eventID); err != nil {
			if errors.Is(err, repositories.ErrEventNotFound) {
				return nil, ErrEventNotFound
			}
			return nil, fmt.Errorf("failed to resolve event: %w", err)
		}
	}

	participant := &models.Participant{
		ParticipantNumber:     input.ParticipantNumber,
		FullName:              strings.TrimSpace(input.FullName),
		Email:                 strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:                 strings.TrimSpace(input.Phone),
		Gender:                models.Gender(input.Gender),
		Age:                   input.Age,
		Occupation:            input.Occupation,
		BackgroundCheckStatus: models.CheckStatusPending,
		EventID:               eventID,
	}

	if err := s.participantRepo.Create(ctx, participant); err != nil {
		switch {
		case errors.Is(err, repositories.ErrParticipantNumberConflict):
			return nil, ErrParticipantNumberConflict
		case errors.Is(err, repositories.ErrParticipantEmailConflict):
			return nil, ErrParticipantEmailConflict
		}
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}

	// Загрузка QR-кода не фатальна: участник уже создан, а код можно
	// перегенерировать позже.
	if s.uploader != nil {
		key, err := s.uploadQRCode(ctx, participant)
		if err != nil {
			slog.Error("failed to upload participant qr code",
				slog.String("participant_id", participant.ID),
				slog.Any("error", err))
		} else if err := s.participantRepo.SetQRKey(ctx, participant.ID, key); err != nil {
			slog.Error("failed to store participant qr key",
				slog.String("participant_id", participant.ID),
				slog.Any("error", err))
		} else {
			participant.QRKey = &key
			participant.QRCodeURL = s.uploader.GetPublicURL(key)
		}
	}

	return participant, nil
}

func (s *participantService) uploadQRCode(ctx context.Context, p *models.Participant) (string, error) {
	payload := qrPayload{
		ParticipantID:     p.ID,
		ParticipantNumber: p.ParticipantNumber,
	}
	if p.EventID != nil {
		payload.EventID = *p.EventID
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal qr payload: %w", err)
	}

	png, err := qrcode.Encode(string(data), qrcode.Medium, qrImageSize)
	if err != nil {
		return "", fmt.Errorf("failed to encode qr code: %w", err)
	}

	key := fmt.Sprintf("qr/%s.png", p.ID)
	if _, err := s.uploader.Upload(ctx, key, "image/png", bytes.NewReader(png)); err != nil {
		return "", fmt.Errorf("failed to upload qr code: %w", err)
	}
	return key, nil
}

func (s *participantService) GetByID(ctx context.Context, id string) (*models.Participant, error) {
	participant, err := s.participantRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if participant.QRKey != nil && s.uploader != nil {
		participant.QRCodeURL = s.uploader.GetPublicURL(*participant.QRKey)
	}
	return participant, nil
}

func (s *participantService) List(ctx context.Context, filter repositories.ParticipantFilter) ([]*models.Participant, error) {
	return s.participantRepo.List(ctx, filter)
}

// ListApprovedExcept - список одобренных участников без запрашивающего:
// из него участник выбирает, кому заявить интерес. Контактные данные
// намеренно не включаются.
func (s *participantService) ListApprovedExcept(ctx context.Context, excludeID string) ([]*models.ParticipantSummary, error) {
	participants, err := s.participantRepo.ListApprovedExcept(ctx, excludeID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*models.ParticipantSummary, 0, len(participants))
	for _, p := range participants {
		summaries = append(summaries, &models.ParticipantSummary{
			ID:                p.ID,
			ParticipantNumber: p.ParticipantNumber,
			FullName:          p.FullName,
			Gender:            p.Gender,
		})
	}
	return summaries, nil
}

func (s *participantService) Update(ctx context.Context, id string, input UpdateParticipantInput) (*models.Participant, error) {
	participant, err := s.participantRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if input.FullName != nil {
		participant.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Email != nil {
		participant.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Phone != nil {
		participant.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Gender != nil {
		gender := models.Gender(*input.Gender)
		if !gender.Valid() {
			return nil, ErrValidationFailed
		}
		participant.Gender = gender
	}
	if input.Age != nil {
		participant.Age = input.Age
	}
	if input.Occupation != nil {
		participant.Occupation = input.Occupation
	}
	if input.BackgroundCheckStatus != nil {
		status := models.BackgroundCheckStatus(*input.BackgroundCheckStatus)
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		// Смена статуса после одобрения не отзывает уже сделанные выборки:
		// approval gate действует только в момент создания выборки.
		participant.BackgroundCheckStatus = status
	}

	if err := s.participantRepo.Update(ctx, participant); err != nil {
		switch {
		case errors.Is(err, repositories.ErrParticipantNotFound):
			return nil, ErrNotFound
		case errors.Is(err, repositories.ErrParticipantEmailConflict):
			return nil, ErrParticipantEmailConflict
		}
		return nil, fmt.Errorf("failed to update participant: %w", err)
	}
	return participant, nil
}

// Delete удаляет участника; все выборки, где он селектор или цель,
// каскадно удаляются в той же транзакции.
func (s *participantService) Delete(ctx context.Context, id string) error {
	err := s.participantRepo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrParticipantNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *participantService) ResetParticipants(ctx context.Context) error {
	return s.participantRepo.DeleteAll(ctx)
}

func validateRegistration(input RegisterParticipantInput) error {
	if len(strings.TrimSpace(input.FullName)) < 2 {
		return ErrValidationFailed
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(input.Email)); err != nil {
		return ErrValidationFailed
	}
	if len(strings.TrimSpace(input.Phone)) < 10 {
		return ErrValidationFailed
	}
	if !models.Gender(input.Gender).Valid() {
		return ErrValidationFailed
	}
	if input.Age != nil && (*input.Age < 18 || *input.Age > 120) {
		return ErrValidationFailed
	}
	if input.ParticipantNumber < 0 {
		return ErrValidationFailed
	}
	return nil
}
