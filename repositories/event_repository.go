package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Asadbek07/event-match-system/models"
)

var ErrEventNotFound = errors.New("event not found")

type EventRepository interface {
	Create(ctx context.Context, e *models.Event) error
	FindByID(ctx context.Context, id string) (*models.Event, error)
	// FindDefault возвращает ближайшее предстоящее событие - в него
	// регистрируются участники, не указавшие событие явно.
	FindDefault(ctx context.Context) (*models.Event, error)
	List(ctx context.Context) ([]*models.Event, error)
	Update(ctx context.Context, e *models.Event) error
	Delete(ctx context.Context, id string) error
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

const eventColumns = `id, name, event_date, location, status, max_participants, created_at, updated_at`

func (r *postgresEventRepository) Create(ctx context.Context, e *models.Event) error {
	query := `
		INSERT INTO events (name, event_date, location, status, max_participants)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		e.Name,
		e.EventDate,
		nullString(e.Location),
		e.Status,
		nullInt(e.MaxParticipants),
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *postgresEventRepository) scanEvent(rowScanner interface {
	Scan(dest ...interface{}) error
}, e *models.Event) error {
	var location sql.NullString
	var maxParticipants sql.NullInt64

	err := rowScanner.Scan(
		&e.ID,
		&e.Name,
		&e.EventDate,
		&location,
		&e.Status,
		&maxParticipants,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if location.Valid {
		e.Location = &location.String
	}
	if maxParticipants.Valid {
		v := int(maxParticipants.Int64)
		e.MaxParticipants = &v
	}
	return nil
}

func (r *postgresEventRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Event, error) {
	e := &models.Event{}
	row := r.db.QueryRowContext(ctx, query, args...)
	if err := r.scanEvent(row, e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return e, nil
}

func (r *postgresEventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id = $1`, eventColumns)
	return r.findOne(ctx, query, id)
}

func (r *postgresEventRepository) FindDefault(ctx context.Context) (*models.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM events
		WHERE status = 'upcoming'
		ORDER BY event_date ASC
		LIMIT 1`, eventColumns)
	return r.findOne(ctx, query)
}

func (r *postgresEventRepository) List(ctx context.Context) ([]*models.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events ORDER BY event_date DESC`, eventColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := make([]*models.Event, 0)
	for rows.Next() {
		e := &models.Event{}
		if err := r.scanEvent(rows, e); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}
	return events, nil
}

func (r *postgresEventRepository) Update(ctx context.Context, e *models.Event) error {
	query := `
		UPDATE events
		SET name = $1, event_date = $2, location = $3, status = $4, max_participants = $5, updated_at = now()
		WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query,
		e.Name,
		e.EventDate,
		nullString(e.Location),
		e.Status,
		nullInt(e.MaxParticipants),
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}
