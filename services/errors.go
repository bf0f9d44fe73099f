package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed       = errors.New("validation failed")
	ErrSelfSelection          = errors.New("cannot select yourself")
	ErrParticipantNotApproved = errors.New("participant is not approved yet")
	ErrInvalidStatus          = errors.New("invalid background check status provided")
	ErrInvalidEventStatus     = errors.New("invalid event status provided")
	ErrNoActiveEvent          = errors.New("no active event found")
	ErrEventFull              = errors.New("event registration is full")

	// Ошибки конфликтов
	ErrSelectionConflict         = errors.New("participant is already selected")
	ErrParticipantNumberConflict = errors.New("participant number is already taken")
	ErrParticipantEmailConflict  = errors.New("email is already registered for this event")

	// Ошибки аутентификации и авторизации
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Ошибки, специфичные для сущностей
	ErrParticipantNotFound = errors.New("participant not found or not approved")
	ErrEventNotFound       = errors.New("event not found")
	ErrSelectionNotFound   = errors.New("selection not found")
)
