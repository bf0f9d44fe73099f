package models

import "time"

type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusActive    EventStatus = "active"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusUpcoming, EventStatusActive, EventStatusCompleted, EventStatusCancelled:
		return true
	}
	return false
}

type Event struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	EventDate       time.Time   `json:"event_date"`
	Location        *string     `json:"location,omitempty"`
	Status          EventStatus `json:"status"`
	MaxParticipants *int        `json:"max_participants,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// EventWithStats - событие вместе с агрегатами для истории в админке.
type EventWithStats struct {
	Event
	ParticipantCount int `json:"participant_count"`
	MaleCount        int `json:"male_count"`
	FemaleCount      int `json:"female_count"`
	SelectionCount   int `json:"selection_count"`
	MutualMatchCount int `json:"mutual_match_count"`
}
