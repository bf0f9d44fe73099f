package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Asadbek07/event-match-system/models"
	"github.com/Asadbek07/event-match-system/repositories"
	"github.com/google/uuid"
)

// fakeParticipantRepo - in-memory реализация репозитория участников.
type fakeParticipantRepo struct {
	participants map[string]*models.Participant
	nextNumber   int
	selections   *fakeSelectionRepo // каскад при удалении участников
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{
		participants: make(map[string]*models.Participant),
		nextNumber:   101,
	}
}

func (r *fakeParticipantRepo) add(number int, status models.BackgroundCheckStatus, gender models.Gender) *models.Participant {
	p := &models.Participant{
		ID:                    uuid.NewString(),
		ParticipantNumber:     number,
		FullName:              fmt.Sprintf("Participant %d", number),
		Email:                 fmt.Sprintf("p%d@example.com", number),
		Phone:                 "+15550000000",
		Gender:                gender,
		BackgroundCheckStatus: status,
		CreatedAt:             time.Now(),
	}
	r.participants[p.ID] = p
	return p
}

func (r *fakeParticipantRepo) Create(_ context.Context, p *models.Participant) error {
	for _, existing := range r.participants {
		if existing.Email == p.Email {
			return repositories.ErrParticipantEmailConflict
		}
		if p.ParticipantNumber != 0 && existing.ParticipantNumber == p.ParticipantNumber {
			return repositories.ErrParticipantNumberConflict
		}
	}
	if p.ParticipantNumber == 0 {
		p.ParticipantNumber = r.nextNumber
		r.nextNumber++
	}
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.participants[p.ID] = p
	return nil
}

func (r *fakeParticipantRepo) FindByID(_ context.Context, id string) (*models.Participant, error) {
	p, ok := r.participants[id]
	if !ok {
		return nil, repositories.ErrParticipantNotFound
	}
	return p, nil
}

func (r *fakeParticipantRepo) FindByNumber(_ context.Context, number int) (*models.Participant, error) {
	for _, p := range r.participants {
		if p.ParticipantNumber == number {
			return p, nil
		}
	}
	return nil, repositories.ErrParticipantNotFound
}

func (r *fakeParticipantRepo) FindApprovedByNumber(_ context.Context, number int, eventID *string) (*models.Participant, error) {
	for _, p := range r.participants {
		if p.ParticipantNumber == number && p.BackgroundCheckStatus == models.CheckStatusApproved && sameEvent(p.EventID, eventID) {
			return p, nil
		}
	}
	return nil, repositories.ErrParticipantNotFound
}

func sameEvent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r *fakeParticipantRepo) List(_ context.Context, filter repositories.ParticipantFilter) ([]*models.Participant, error) {
	var out []*models.Participant
	for _, p := range r.participants {
		if filter.Status != nil && p.BackgroundCheckStatus != *filter.Status {
			continue
		}
		if filter.EventID != nil && (p.EventID == nil || *p.EventID != *filter.EventID) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeParticipantRepo) ListApprovedExcept(_ context.Context, excludeID string) ([]*models.Participant, error) {
	var out []*models.Participant
	for _, p := range r.participants {
		if p.ID == excludeID || p.BackgroundCheckStatus != models.CheckStatusApproved {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeParticipantRepo) Update(_ context.Context, p *models.Participant) error {
	if _, ok := r.participants[p.ID]; !ok {
		return repositories.ErrParticipantNotFound
	}
	r.participants[p.ID] = p
	return nil
}

func (r *fakeParticipantRepo) SetQRKey(_ context.Context, id, key string) error {
	p, ok := r.participants[id]
	if !ok {
		return repositories.ErrParticipantNotFound
	}
	p.QRKey = &key
	return nil
}

func (r *fakeParticipantRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.participants[id]; !ok {
		return repositories.ErrParticipantNotFound
	}
	// Как и в настоящем репозитории, выборки участника в обе стороны
	// уходят вместе с ним.
	if r.selections != nil {
		kept := r.selections.selections[:0]
		for _, s := range r.selections.selections {
			if s.SelectorID == id || s.SelectedID == id {
				continue
			}
			kept = append(kept, s)
		}
		r.selections.selections = kept
	}
	delete(r.participants, id)
	return nil
}

func (r *fakeParticipantRepo) DeleteAll(_ context.Context) error {
	if r.selections != nil {
		r.selections.selections = nil
	}
	r.participants = make(map[string]*models.Participant)
	return nil
}

// fakeSelectionRepo - in-memory реализация репозитория выборок, повторяющая
// семантику ограничений базы: уникальность пары, запрет самовыборки и
// идемпотентное удаление.
type fakeSelectionRepo struct {
	selections   []*models.Selection
	participants *fakeParticipantRepo
}

func newFakeSelectionRepo(participants *fakeParticipantRepo) *fakeSelectionRepo {
	r := &fakeSelectionRepo{participants: participants}
	if participants != nil {
		participants.selections = r
	}
	return r
}

func (r *fakeSelectionRepo) Create(_ context.Context, s *models.Selection) error {
	if s.SelectorID == s.SelectedID {
		return repositories.ErrSelectionSelfViolation
	}
	if r.participants != nil {
		if _, ok := r.participants.participants[s.SelectorID]; !ok {
			return repositories.ErrSelectionParticipantInvalid
		}
		if _, ok := r.participants.participants[s.SelectedID]; !ok {
			return repositories.ErrSelectionParticipantInvalid
		}
	}
	for _, existing := range r.selections {
		if existing.SelectorID == s.SelectorID && existing.SelectedID == s.SelectedID {
			return repositories.ErrSelectionConflict
		}
	}
	s.ID = uuid.NewString()
	s.CreatedAt = time.Now()
	r.selections = append(r.selections, s)
	return nil
}

func (r *fakeSelectionRepo) DeleteByIDAndSelector(_ context.Context, id, selectorID string) error {
	for i, s := range r.selections {
		if s.ID == id && s.SelectorID == selectorID {
			r.selections = append(r.selections[:i], r.selections[i+1:]...)
			return nil
		}
	}
	// Ноль затронутых строк - тоже успех.
	return nil
}

func (r *fakeSelectionRepo) scoped(scope repositories.SelectionScope) []*models.Selection {
	out := make([]*models.Selection, 0, len(r.selections))
	for _, s := range r.selections {
		if scope.EventID != nil && (s.EventID == nil || *s.EventID != *scope.EventID) {
			continue
		}
		if scope.SelectorID != nil && s.SelectorID != *scope.SelectorID {
			continue
		}
		copied := *s
		copied.IsMutual = false
		out = append(out, &copied)
	}
	return out
}

func (r *fakeSelectionRepo) ListEdges(_ context.Context, scope repositories.SelectionScope) ([]*models.Selection, error) {
	return r.scoped(scope), nil
}

func (r *fakeSelectionRepo) ListWithParticipants(_ context.Context, scope repositories.SelectionScope) ([]*models.Selection, error) {
	out := r.scoped(scope)
	for _, s := range out {
		if r.participants == nil {
			continue
		}
		if p, ok := r.participants.participants[s.SelectorID]; ok {
			s.Selector = summaryWithContacts(p)
		}
		if p, ok := r.participants.participants[s.SelectedID]; ok {
			s.Selected = summaryWithContacts(p)
		}
	}
	return out, nil
}

func (r *fakeSelectionRepo) ListBySelector(_ context.Context, selectorID string) ([]*models.Selection, error) {
	return r.scoped(repositories.SelectionScope{SelectorID: &selectorID}), nil
}

func (r *fakeSelectionRepo) DeleteAll(_ context.Context) error {
	r.selections = nil
	return nil
}

func summaryWithContacts(p *models.Participant) *models.ParticipantSummary {
	return &models.ParticipantSummary{
		ID:                p.ID,
		ParticipantNumber: p.ParticipantNumber,
		FullName:          p.FullName,
		Gender:            p.Gender,
		Email:             p.Email,
		Phone:             p.Phone,
	}
}

// fakeEventRepo - in-memory реализация репозитория событий.
type fakeEventRepo struct {
	events map[string]*models.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]*models.Event)}
}

func (r *fakeEventRepo) add(name string, status models.EventStatus) *models.Event {
	e := &models.Event{
		ID:        uuid.NewString(),
		Name:      name,
		EventDate: time.Now().Add(24 * time.Hour),
		Status:    status,
		CreatedAt: time.Now(),
	}
	r.events[e.ID] = e
	return e
}

func (r *fakeEventRepo) Create(_ context.Context, e *models.Event) error {
	e.ID = uuid.NewString()
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	r.events[e.ID] = e
	return nil
}

func (r *fakeEventRepo) FindByID(_ context.Context, id string) (*models.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, repositories.ErrEventNotFound
	}
	return e, nil
}

func (r *fakeEventRepo) FindDefault(_ context.Context) (*models.Event, error) {
	var best *models.Event
	for _, e := range r.events {
		if e.Status != models.EventStatusUpcoming && e.Status != models.EventStatusActive {
			continue
		}
		if best == nil || e.EventDate.Before(best.EventDate) {
			best = e
		}
	}
	if best == nil {
		return nil, repositories.ErrEventNotFound
	}
	return best, nil
}

func (r *fakeEventRepo) List(_ context.Context) ([]*models.Event, error) {
	out := make([]*models.Event, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e)
	}
	return out, nil
}

func (r *fakeEventRepo) Update(_ context.Context, e *models.Event) error {
	if _, ok := r.events[e.ID]; !ok {
		return repositories.ErrEventNotFound
	}
	r.events[e.ID] = e
	return nil
}

func (r *fakeEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.events[id]; !ok {
		return repositories.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}
