package models

import "time"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

type BackgroundCheckStatus string

const (
	CheckStatusPending  BackgroundCheckStatus = "pending"
	CheckStatusApproved BackgroundCheckStatus = "approved"
	CheckStatusRejected BackgroundCheckStatus = "rejected"
)

func (s BackgroundCheckStatus) Valid() bool {
	switch s {
	case CheckStatusPending, CheckStatusApproved, CheckStatusRejected:
		return true
	}
	return false
}

type Participant struct {
	ID                    string                `json:"id"`
	ParticipantNumber     int                   `json:"participant_number"`
	FullName              string                `json:"full_name"`
	Email                 string                `json:"email"`
	Phone                 string                `json:"phone"`
	Gender                Gender                `json:"gender"`
	Age                   *int                  `json:"age,omitempty"`
	Occupation            *string               `json:"occupation,omitempty"`
	BackgroundCheckStatus BackgroundCheckStatus `json:"background_check_status"`
	QRKey                 *string               `json:"qr_key,omitempty"`
	QRCodeURL             string                `json:"qr_code_url,omitempty"`
	EventID               *string               `json:"event_id,omitempty"`
	CreatedAt             time.Time             `json:"created_at"`
	UpdatedAt             time.Time             `json:"updated_at"`
}

// ParticipantSummary - урезанное представление участника для списков выбора
// и вложенных полей в выборках. Контактные поля заполняются только в админке.
type ParticipantSummary struct {
	ID                string `json:"id"`
	ParticipantNumber int    `json:"participant_number"`
	FullName          string `json:"full_name"`
	Gender            Gender `json:"gender"`
	Email             string `json:"email,omitempty"`
	Phone             string `json:"phone,omitempty"`
}
