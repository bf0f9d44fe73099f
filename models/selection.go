package models

import "time"

// Selection - направленное ребро интереса: selector выбрал selected.
// Флаг IsMutual не хранится в базе, он вычисляется на чтении по текущему
// набору рёбер (см. services.ResolveMutual).
type Selection struct {
	ID         string    `json:"id"`
	SelectorID string    `json:"selector_id"`
	SelectedID string    `json:"selected_id"`
	EventID    *string   `json:"event_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`

	IsMutual bool `json:"is_mutual"`

	Selector *ParticipantSummary `json:"selector,omitempty"`
	Selected *ParticipantSummary `json:"selected,omitempty"`
}
