package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Asadbek07/event-match-system/models"
	"github.com/Asadbek07/event-match-system/repositories"
)

type CreateEventInput struct {
	Name            string  `json:"name"`
	EventDate       string  `json:"event_date"` // RFC 3339
	Location        *string `json:"location,omitempty"`
	Status          string  `json:"status,omitempty"`
	MaxParticipants *int    `json:"max_participants,omitempty"`
}

type UpdateEventInput struct {
	Name            *string `json:"name,omitempty"`
	EventDate       *string `json:"event_date,omitempty"`
	Location        *string `json:"location,omitempty"`
	Status          *string `json:"status,omitempty"`
	MaxParticipants *int    `json:"max_participants,omitempty"`
}

type EventService interface {
	Create(ctx context.Context, input CreateEventInput) (*models.Event, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
	Update(ctx context.Context, id string, input UpdateEventInput) (*models.Event, error)
	Delete(ctx context.Context, id string) error
}

type eventService struct {
	eventRepo repositories.EventRepository
}

func NewEventService(eventRepo repositories.EventRepository) EventService {
	return &eventService{eventRepo: eventRepo}
}

func (s *eventService) Create(ctx context.Context, input CreateEventInput) (*models.Event, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrValidationFailed
	}
	eventDate, err := time.Parse(time.RFC3339, input.EventDate)
	if err != nil {
		return nil, ErrValidationFailed
	}

	status := models.EventStatusUpcoming
	if input.Status != "" {
		status = models.EventStatus(input.Status)
		if !status.Valid() {
			return nil, ErrInvalidEventStatus
		}
	}

	event := &models.Event{
		Name:            strings.TrimSpace(input.Name),
		EventDate:       eventDate,
		Location:        input.Location,
		Status:          status,
		MaxParticipants: input.MaxParticipants,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *eventService) Update(ctx context.Context, id string, input UpdateEventInput) (*models.Event, error) {
	event, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrValidationFailed
		}
		event.Name = strings.TrimSpace(*input.Name)
	}
	if input.EventDate != nil {
		eventDate, err := time.Parse(time.RFC3339, *input.EventDate)
		if err != nil {
			return nil, ErrValidationFailed
		}
		event.EventDate = eventDate
	}
	if input.Location != nil {
		event.Location = input.Location
	}
	if input.Status != nil {
		status := models.EventStatus(*input.Status)
		if !status.Valid() {
			return nil, ErrInvalidEventStatus
		}
		event.Status = status
	}
	if input.MaxParticipants != nil {
		event.MaxParticipants = input.MaxParticipants
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	err := s.eventRepo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrEventNotFound) {
		return ErrEventNotFound
	}
	return err
}
