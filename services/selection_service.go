package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Asadbek07/event-match-system/models"
	"github.com/Asadbek07/event-match-system/repositories"
)

// SelectionService инкапсулирует бизнес-логику направленных выборок:
// создание, отмену и списки с вычислением взаимности.
type SelectionService interface {
	CreateSelection(ctx context.Context, selectorID string, selectedNumber int) (*models.Selection, error)
	RevokeSelection(ctx context.Context, requesterID, selectionID string) error
	ListMySelections(ctx context.Context, selectorID string) ([]*models.Selection, error)
	ListAllSelections(ctx context.Context, eventID *string) (*SelectionListing, error)
	ResetSelections(ctx context.Context) error
}

// SelectionListing - выборки, аннотированные взаимностью, плюс агрегаты.
type SelectionListing struct {
	Selections       []*models.Selection `json:"selections"`
	Total            int                 `json:"total"`
	MutualMatchCount int                 `json:"mutual_matches_count"`
}

type selectionService struct {
	selectionRepo   repositories.SelectionRepository
	participantRepo repositories.ParticipantRepository
}

func NewSelectionService(
	selectionRepo repositories.SelectionRepository,
	participantRepo repositories.ParticipantRepository,
) SelectionService {
	return &selectionService{
		selectionRepo:   selectionRepo,
		participantRepo: participantRepo,
	}
}

// CreateSelection создаёт направленную выборку от авторизованного участника
// к участнику с указанным номером.
//
// Валидация (цель существует и одобрена, не самовыборка) выполняется до
// записи, но защита от дубликата - это уникальный индекс в базе, а не
// предварительная проверка: под конкурентными запросами check-then-insert
// ненадёжен, ограничение атомарно.
func (s *selectionService) CreateSelection(ctx context.Context, selectorID string, selectedNumber int) (*models.Selection, error) {
	selector, err := s.participantRepo.FindByID(ctx, selectorID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to resolve selector: %w", err)
	}

	// Номер цели разрешается в рамках события селектора: тот же номер
	// на другом событии - другой человек.
	selected, err := s.participantRepo.FindApprovedByNumber(ctx, selectedNumber, selector.EventID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to resolve selected participant: %w", err)
	}

	if selected.ID == selectorID {
		return nil, ErrSelfSelection
	}

	selection := &models.Selection{
		SelectorID: selectorID,
		SelectedID: selected.ID,
		EventID:    selected.EventID,
	}

	if err := s.selectionRepo.Create(ctx, selection); err != nil {
		switch {
		case errors.Is(err, repositories.ErrSelectionConflict):
			return nil, ErrSelectionConflict
		case errors.Is(err, repositories.ErrSelectionParticipantInvalid):
			// Селектор удалён между аутентификацией и записью.
			return nil, ErrParticipantNotFound
		case errors.Is(err, repositories.ErrSelectionSelfViolation):
			return nil, ErrSelfSelection
		}
		return nil, fmt.Errorf("failed to create selection: %w", err)
	}

	return selection, nil
}

// RevokeSelection удаляет выборку. Принадлежность проверяется в предикате
// удаления на уровне данных, а не отдельным чтением. Отмена отсутствующей
// или уже отменённой выборки - успех: конечное состояние достигнуто.
func (s *selectionService) RevokeSelection(ctx context.Context, requesterID, selectionID string) error {
	return s.selectionRepo.DeleteByIDAndSelector(ctx, selectionID, requesterID)
}

func (s *selectionService) ListMySelections(ctx context.Context, selectorID string) ([]*models.Selection, error) {
	return s.selectionRepo.ListBySelector(ctx, selectorID)
}

// ListAllSelections возвращает все выборки (опционально в рамках события)
// с флагом is_mutual и числом взаимных пар. Дашборд и экспорт обязаны
// проходить через этот метод, чтобы определение взаимности было единым.
func (s *selectionService) ListAllSelections(ctx context.Context, eventID *string) (*SelectionListing, error) {
	selections, err := s.selectionRepo.ListWithParticipants(ctx, repositories.SelectionScope{EventID: eventID})
	if err != nil {
		return nil, fmt.Errorf("failed to load selections: %w", err)
	}

	mutualPairs := ResolveMutual(selections)

	return &SelectionListing{
		Selections:       selections,
		Total:            len(selections),
		MutualMatchCount: mutualPairs,
	}, nil
}

func (s *selectionService) ResetSelections(ctx context.Context) error {
	return s.selectionRepo.DeleteAll(ctx)
}
