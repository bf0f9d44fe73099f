package services

import (
	"context"
	"fmt"

	"github.com/Asadbek07/event-match-system/models"
	"github.com/Asadbek07/event-match-system/repositories"
	"golang.org/x/sync/errgroup"
)

// StatsService агрегирует счётчики для дашборда и истории событий.
// Счётчики выборок и матчей делегируются тому же резолверу взаимности,
// что и живые списки (см. ResolveMutual) - расхождения между дашбордом
// и экспортом были бы классом багов корректности.
type StatsService interface {
	ComputeGlobalStats(ctx context.Context) (*models.DashboardStats, error)
	ComputeEventStats(ctx context.Context, eventID string) (*models.DashboardStats, error)
	ListEventsWithStats(ctx context.Context) ([]*models.EventWithStats, error)
}

type statsService struct {
	participantRepo repositories.ParticipantRepository
	selectionRepo   repositories.SelectionRepository
	eventRepo       repositories.EventRepository
}

func NewStatsService(
	participantRepo repositories.ParticipantRepository,
	selectionRepo repositories.SelectionRepository,
	eventRepo repositories.EventRepository,
) StatsService {
	return &statsService{
		participantRepo: participantRepo,
		selectionRepo:   selectionRepo,
		eventRepo:       eventRepo,
	}
}

func (s *statsService) ComputeGlobalStats(ctx context.Context) (*models.DashboardStats, error) {
	return s.computeStats(ctx, nil)
}

func (s *statsService) ComputeEventStats(ctx context.Context, eventID string) (*models.DashboardStats, error) {
	return s.computeStats(ctx, &eventID)
}

// computeStats делает два массовых чтения (участники и рёбра) параллельно
// и агрегирует в памяти. Один запрос на сущность, а не на участника:
// дашборд не должен стоить O(n) обращений к базе.
func (s *statsService) computeStats(ctx context.Context, eventID *string) (*models.DashboardStats, error) {
	var participants []*models.Participant
	var selections []*models.Selection

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		participants, err = s.participantRepo.List(gctx, repositories.ParticipantFilter{EventID: eventID})
		return err
	})
	g.Go(func() error {
		var err error
		selections, err = s.selectionRepo.ListEdges(gctx, repositories.SelectionScope{EventID: eventID})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load stats data: %w", err)
	}

	stats := &models.DashboardStats{}
	aggregateParticipants(stats, participants)
	stats.TotalSelections = len(selections)
	stats.MutualMatches = ResolveMutual(selections)
	return stats, nil
}

// ListEventsWithStats возвращает все события с их агрегатами. Данные
// собираются тремя массовыми чтениями и группируются по event_id в памяти.
func (s *statsService) ListEventsWithStats(ctx context.Context) ([]*models.EventWithStats, error) {
	var events []*models.Event
	var participants []*models.Participant
	var selections []*models.Selection

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = s.eventRepo.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		participants, err = s.participantRepo.List(gctx, repositories.ParticipantFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		selections, err = s.selectionRepo.ListEdges(gctx, repositories.SelectionScope{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load event stats data: %w", err)
	}

	participantsByEvent := make(map[string][]*models.Participant)
	for _, p := range participants {
		if p.EventID == nil {
			continue
		}
		participantsByEvent[*p.EventID] = append(participantsByEvent[*p.EventID], p)
	}

	selectionsByEvent := make(map[string][]*models.Selection)
	for _, sel := range selections {
		if sel.EventID == nil {
			continue
		}
		selectionsByEvent[*sel.EventID] = append(selectionsByEvent[*sel.EventID], sel)
	}

	result := make([]*models.EventWithStats, 0, len(events))
	for _, e := range events {
		ews := &models.EventWithStats{Event: *e}
		for _, p := range participantsByEvent[e.ID] {
			ews.ParticipantCount++
			switch p.Gender {
			case models.GenderMale:
				ews.MaleCount++
			case models.GenderFemale:
				ews.FemaleCount++
			}
		}
		eventSelections := selectionsByEvent[e.ID]
		ews.SelectionCount = len(eventSelections)
		ews.MutualMatchCount = ResolveMutual(eventSelections)
		result = append(result, ews)
	}
	return result, nil
}

func aggregateParticipants(stats *models.DashboardStats, participants []*models.Participant) {
	stats.TotalParticipants = len(participants)
	for _, p := range participants {
		switch p.BackgroundCheckStatus {
		case models.CheckStatusPending:
			stats.PendingChecks++
		case models.CheckStatusApproved:
			stats.ApprovedParticipants++
		case models.CheckStatusRejected:
			stats.RejectedParticipants++
		}
		switch p.Gender {
		case models.GenderMale:
			stats.MaleCount++
		case models.GenderFemale:
			stats.FemaleCount++
		}
	}
}
