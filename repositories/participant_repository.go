package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Asadbek07/event-match-system/models"
	"github.com/lib/pq"
)

var (
	ErrParticipantNotFound       = errors.New("participant not found")
	ErrParticipantNumberConflict = errors.New("participant number is already taken for this event")
	ErrParticipantEmailConflict  = errors.New("email is already registered for this event")
	ErrParticipantEventInvalid   = errors.New("participant event conflict or invalid")
)

// ParticipantFilter описывает опциональные фильтры списка участников.
// Пустой фильтр означает "все участники".
type ParticipantFilter struct {
	Status  *models.BackgroundCheckStatus
	EventID *string
	Search  string // имя/email (ilike) или точный номер участника
}

type ParticipantRepository interface {
	Create(ctx context.Context, p *models.Participant) error
	FindByID(ctx context.Context, id string) (*models.Participant, error)
	FindByNumber(ctx context.Context, number int) (*models.Participant, error)
	// FindApprovedByNumber разрешает цель выбора (approval gate на момент
	// создания) в рамках события: номера уникальны лишь внутри события.
	FindApprovedByNumber(ctx context.Context, number int, eventID *string) (*models.Participant, error)
	List(ctx context.Context, filter ParticipantFilter) ([]*models.Participant, error)
	ListApprovedExcept(ctx context.Context, excludeID string) ([]*models.Participant, error)
	Update(ctx context.Context, p *models.Participant) error
	SetQRKey(ctx context.Context, id, key string) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

const participantColumns = `id, participant_number, full_name, email, phone, gender, age, occupation, background_check_status, qr_key, event_id, created_at, updated_at`

func (r *postgresParticipantRepository) Create(ctx context.Context, p *models.Participant) error {
	// Если номер не задан (0), назначаем следующий свободный в рамках события.
	// Гонку двух одновременных регистраций разрешает уникальный индекс
	// (event_id, participant_number): проигравший получает конфликт.
	query := `
		INSERT INTO participants (participant_number, full_name, email, phone, gender, age, occupation, background_check_status, event_id)
		VALUES (
			CASE WHEN $1 > 0 THEN $1
			     ELSE (SELECT COALESCE(MAX(participant_number), 100) + 1 FROM participants WHERE event_id IS NOT DISTINCT FROM $9::uuid)
			END,
			$2, $3, $4, $5, $6, $7, $8, $9
		)
		RETURNING id, participant_number, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		p.ParticipantNumber,
		p.FullName,
		p.Email,
		p.Phone,
		p.Gender,
		nullInt(p.Age),
		nullString(p.Occupation),
		p.BackgroundCheckStatus,
		nullString(p.EventID),
	).Scan(&p.ID, &p.ParticipantNumber, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				switch pqErr.Constraint {
				case "participants_event_id_participant_number_key":
					return ErrParticipantNumberConflict
				case "participants_event_id_email_key":
					return ErrParticipantEmailConflict
				}
			case "23503": // foreign_key_violation
				return ErrParticipantEventInvalid
			}
		}
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

func (r *postgresParticipantRepository) scanParticipant(rowScanner interface {
	Scan(dest ...interface{}) error
}, p *models.Participant) error {
	var age sql.NullInt64
	var occupation, qrKey, eventID sql.NullString

	err := rowScanner.Scan(
		&p.ID,
		&p.ParticipantNumber,
		&p.FullName,
		&p.Email,
		&p.Phone,
		&p.Gender,
		&age,
		&occupation,
		&p.BackgroundCheckStatus,
		&qrKey,
		&eventID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if age.Valid {
		v := int(age.Int64)
		p.Age = &v
	}
	if occupation.Valid {
		p.Occupation = &occupation.String
	}
	if qrKey.Valid {
		p.QRKey = &qrKey.String
	}
	if eventID.Valid {
		p.EventID = &eventID.String
	}
	return nil
}

func (r *postgresParticipantRepository) findOne(ctx context.Context, query string, args ...interface{}) (*models.Participant, error) {
	p := &models.Participant{}
	row := r.db.QueryRowContext(ctx, query, args...)
	err := r.scanParticipant(row, p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to find participant: %w", err)
	}
	return p, nil
}

func (r *postgresParticipantRepository) FindByID(ctx context.Context, id string) (*models.Participant, error) {
	query := fmt.Sprintf(`SELECT %s FROM participants WHERE id = $1`, participantColumns)
	return r.findOne(ctx, query, id)
}

func (r *postgresParticipantRepository) FindByNumber(ctx context.Context, number int) (*models.Participant, error) {
	query := fmt.Sprintf(`SELECT %s FROM participants WHERE participant_number = $1`, participantColumns)
	return r.findOne(ctx, query, number)
}

func (r *postgresParticipantRepository) FindApprovedByNumber(ctx context.Context, number int, eventID *string) (*models.Participant, error) {
	// Номер уникален только в рамках события, поэтому глобальный поиск
	// при двух событиях с одинаковым номером вернул бы произвольную строку.
	query := fmt.Sprintf(`
		SELECT %s FROM participants
		WHERE participant_number = $1
		  AND background_check_status = 'approved'
		  AND event_id IS NOT DISTINCT FROM $2::uuid`, participantColumns)
	return r.findOne(ctx, query, number, nullString(eventID))
}

func (r *postgresParticipantRepository) List(ctx context.Context, filter ParticipantFilter) ([]*models.Participant, error) {
	var queryBuilder strings.Builder
	args := []interface{}{}
	argCounter := 1

	queryBuilder.WriteString(fmt.Sprintf(`SELECT %s FROM participants`, participantColumns))

	conditions := []string{}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("background_check_status = $%d", argCounter))
		args = append(args, *filter.Status)
		argCounter++
	}
	if filter.EventID != nil {
		conditions = append(conditions, fmt.Sprintf("event_id = $%d", argCounter))
		args = append(args, *filter.EventID)
		argCounter++
	}
	if filter.Search != "" {
		if number, err := strconv.Atoi(filter.Search); err == nil {
			conditions = append(conditions, fmt.Sprintf("participant_number = $%d", argCounter))
			args = append(args, number)
		} else {
			conditions = append(conditions, fmt.Sprintf("(full_name ILIKE $%d OR email ILIKE $%d)", argCounter, argCounter))
			args = append(args, "%"+filter.Search+"%")
		}
		argCounter++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY created_at DESC")

	return r.queryMany(ctx, queryBuilder.String(), args...)
}

func (r *postgresParticipantRepository) ListApprovedExcept(ctx context.Context, excludeID string) ([]*models.Participant, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM participants
		WHERE background_check_status = 'approved' AND id <> $1
		ORDER BY participant_number ASC`, participantColumns)
	return r.queryMany(ctx, query, excludeID)
}

func (r *postgresParticipantRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]*models.Participant, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		p := &models.Participant{}
		if err := r.scanParticipant(rows, p); err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		participants = append(participants, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participant rows: %w", err)
	}
	return participants, nil
}

func (r *postgresParticipantRepository) Update(ctx context.Context, p *models.Participant) error {
	query := `
		UPDATE participants
		SET full_name = $1, email = $2, phone = $3, gender = $4, age = $5,
		    occupation = $6, background_check_status = $7, updated_at = now()
		WHERE id = $8`

	result, err := r.db.ExecContext(ctx, query,
		p.FullName,
		p.Email,
		p.Phone,
		p.Gender,
		nullInt(p.Age),
		nullString(p.Occupation),
		p.BackgroundCheckStatus,
		p.ID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "participants_event_id_email_key" {
				return ErrParticipantEmailConflict
			}
		}
		return fmt.Errorf("failed to update participant: %w", err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) SetQRKey(ctx context.Context, id, key string) error {
	query := `UPDATE participants SET qr_key = $1, updated_at = now() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, key, id)
	if err != nil {
		return fmt.Errorf("failed to set participant qr key: %w", err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

// Delete удаляет участника и все выборки, где он фигурирует с любой стороны,
// в одной транзакции. FK с ON DELETE CASCADE в схеме подстраховывает то же
// самое, но явное удаление держит инвариант и на схемах без каскада.
func (r *postgresParticipantRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin participant delete tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM interest_selections WHERE selector_id = $1 OR selected_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete participant selections: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete participant: %w", err)
	}
	if err := checkAffectedRows(result, ErrParticipantNotFound); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *postgresParticipantRepository) DeleteAll(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin participants reset tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM interest_selections`); err != nil {
		return fmt.Errorf("failed to reset selections: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM participants`); err != nil {
		return fmt.Errorf("failed to reset participants: %w", err)
	}
	return tx.Commit()
}
