package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Asadbek07/event-match-system/models"
	"github.com/lib/pq"
)

var (
	ErrSelectionNotFound           = errors.New("selection not found")
	ErrSelectionConflict           = errors.New("selection conflict: participant is already selected")
	ErrSelectionParticipantInvalid = errors.New("selection participant conflict or invalid")
	ErrSelectionSelfViolation      = errors.New("selection self violation: selector and selected must differ")
)

// SelectionScope ограничивает выборку рёбер. Пустой scope - все рёбра.
type SelectionScope struct {
	EventID    *string
	SelectorID *string
}

type SelectionRepository interface {
	// Create вставляет направленное ребро. Защита от дубликата - уникальный
	// индекс (selector_id, selected_id); нарушение транслируется в
	// ErrSelectionConflict. Предварительной проверки существования нет
	// намеренно: под конкурентными запросами она не является надёжной.
	Create(ctx context.Context, s *models.Selection) error
	// DeleteByIDAndSelector удаляет ребро только если selector_id совпадает
	// с requester. Ноль затронутых строк - успех (идемпотентная отмена).
	DeleteByIDAndSelector(ctx context.Context, id, selectorID string) error
	ListEdges(ctx context.Context, scope SelectionScope) ([]*models.Selection, error)
	ListWithParticipants(ctx context.Context, scope SelectionScope) ([]*models.Selection, error)
	ListBySelector(ctx context.Context, selectorID string) ([]*models.Selection, error)
	DeleteAll(ctx context.Context) error
}

type postgresSelectionRepository struct {
	db *sql.DB
}

func NewPostgresSelectionRepository(db *sql.DB) SelectionRepository {
	return &postgresSelectionRepository{db: db}
}

func (r *postgresSelectionRepository) Create(ctx context.Context, s *models.Selection) error {
	query := `
		INSERT INTO interest_selections (selector_id, selected_id, event_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		s.SelectorID,
		s.SelectedID,
		nullString(s.EventID),
	).Scan(&s.ID, &s.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				if pqErr.Constraint == "interest_selections_selector_id_selected_id_key" {
					return ErrSelectionConflict
				}
			case "23503": // foreign_key_violation
				// Селектор или цель удалены конкурентно с созданием.
				return ErrSelectionParticipantInvalid
			case "23514": // check_violation
				if pqErr.Constraint == "chk_no_self_selection" {
					return ErrSelectionSelfViolation
				}
			}
		}
		return fmt.Errorf("failed to create selection: %w", err)
	}
	return nil
}

func (r *postgresSelectionRepository) DeleteByIDAndSelector(ctx context.Context, id, selectorID string) error {
	query := `DELETE FROM interest_selections WHERE id = $1 AND selector_id = $2`
	if _, err := r.db.ExecContext(ctx, query, id, selectorID); err != nil {
		return fmt.Errorf("failed to delete selection: %w", err)
	}
	// Отсутствующая или чужая запись - не ошибка: конечное состояние
	// (записи нет у этого селектора) достигнуто.
	return nil
}

func (r *postgresSelectionRepository) ListEdges(ctx context.Context, scope SelectionScope) ([]*models.Selection, error) {
	var queryBuilder strings.Builder
	args := []interface{}{}
	argCounter := 1

	queryBuilder.WriteString(`SELECT id, selector_id, selected_id, event_id, created_at FROM interest_selections`)
	appendScope(&queryBuilder, &args, &argCounter, scope, "")
	queryBuilder.WriteString(" ORDER BY created_at DESC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list selection edges: %w", err)
	}
	defer rows.Close()

	selections := make([]*models.Selection, 0)
	for rows.Next() {
		s := &models.Selection{}
		var eventID sql.NullString
		if err := rows.Scan(&s.ID, &s.SelectorID, &s.SelectedID, &eventID, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan selection row: %w", err)
		}
		if eventID.Valid {
			s.EventID = &eventID.String
		}
		selections = append(selections, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating selection rows: %w", err)
	}
	return selections, nil
}

func (r *postgresSelectionRepository) ListWithParticipants(ctx context.Context, scope SelectionScope) ([]*models.Selection, error) {
	var queryBuilder strings.Builder
	args := []interface{}{}
	argCounter := 1

	queryBuilder.WriteString(`
		SELECT
			s.id, s.selector_id, s.selected_id, s.event_id, s.created_at,
			sel.participant_number, sel.full_name, sel.gender, sel.email, sel.phone,
			tgt.participant_number, tgt.full_name, tgt.gender, tgt.email, tgt.phone
		FROM interest_selections s
		JOIN participants sel ON s.selector_id = sel.id
		JOIN participants tgt ON s.selected_id = tgt.id`)
	appendScope(&queryBuilder, &args, &argCounter, scope, "s.")
	queryBuilder.WriteString(" ORDER BY s.created_at DESC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list selections with participants: %w", err)
	}
	defer rows.Close()

	selections := make([]*models.Selection, 0)
	for rows.Next() {
		s := &models.Selection{
			Selector: &models.ParticipantSummary{},
			Selected: &models.ParticipantSummary{},
		}
		var eventID sql.NullString
		if err := rows.Scan(
			&s.ID, &s.SelectorID, &s.SelectedID, &eventID, &s.CreatedAt,
			&s.Selector.ParticipantNumber, &s.Selector.FullName, &s.Selector.Gender, &s.Selector.Email, &s.Selector.Phone,
			&s.Selected.ParticipantNumber, &s.Selected.FullName, &s.Selected.Gender, &s.Selected.Email, &s.Selected.Phone,
		); err != nil {
			return nil, fmt.Errorf("failed to scan selection row: %w", err)
		}
		if eventID.Valid {
			s.EventID = &eventID.String
		}
		s.Selector.ID = s.SelectorID
		s.Selected.ID = s.SelectedID
		selections = append(selections, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating selection rows: %w", err)
	}
	return selections, nil
}

// ListBySelector возвращает выборки участника с краткой карточкой цели
// (без контактных данных - участник видит только номер, имя и пол).
func (r *postgresSelectionRepository) ListBySelector(ctx context.Context, selectorID string) ([]*models.Selection, error) {
	query := `
		SELECT
			s.id, s.selector_id, s.selected_id, s.event_id, s.created_at,
			tgt.participant_number, tgt.full_name, tgt.gender
		FROM interest_selections s
		JOIN participants tgt ON s.selected_id = tgt.id
		WHERE s.selector_id = $1
		ORDER BY s.created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, selectorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list selections by selector: %w", err)
	}
	defer rows.Close()

	selections := make([]*models.Selection, 0)
	for rows.Next() {
		s := &models.Selection{Selected: &models.ParticipantSummary{}}
		var eventID sql.NullString
		if err := rows.Scan(
			&s.ID, &s.SelectorID, &s.SelectedID, &eventID, &s.CreatedAt,
			&s.Selected.ParticipantNumber, &s.Selected.FullName, &s.Selected.Gender,
		); err != nil {
			return nil, fmt.Errorf("failed to scan selection row: %w", err)
		}
		if eventID.Valid {
			s.EventID = &eventID.String
		}
		s.Selected.ID = s.SelectedID
		selections = append(selections, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating selection rows: %w", err)
	}
	return selections, nil
}

func (r *postgresSelectionRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM interest_selections`); err != nil {
		return fmt.Errorf("failed to reset selections: %w", err)
	}
	return nil
}

func appendScope(queryBuilder *strings.Builder, args *[]interface{}, argCounter *int, scope SelectionScope, prefix string) {
	conditions := []string{}
	if scope.EventID != nil {
		conditions = append(conditions, fmt.Sprintf("%sevent_id = $%d", prefix, *argCounter))
		*args = append(*args, *scope.EventID)
		*argCounter++
	}
	if scope.SelectorID != nil {
		conditions = append(conditions, fmt.Sprintf("%sselector_id = $%d", prefix, *argCounter))
		*args = append(*args, *scope.SelectorID)
		*argCounter++
	}
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
}
