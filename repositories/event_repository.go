package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Dosada05/tournament-analyser/models"
)

var (
	ErrEventNotFound         = errors.New("event not found")
	ErrEventReferenceInvalid = errors.New("event references unknown match or player")
	ErrEventUpdateIsEmpty    = errors.New("event update contains no fields")
)

// EventUpdate: редактируются минута и тип; привязка к матчу и игроку
// после создания не меняется.
type EventUpdate struct {
	Minute *int
	Type   *models.EventType
}

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int) (*models.Event, error)
	// ListByMatch с matchID == nil возвращает все события.
	ListByMatch(ctx context.Context, matchID *int) ([]*models.Event, error)
	// ListByMatchIDs возвращает события перечисленных матчей; пустой
	// набор id даёт пустой результат без похода в базу.
	ListByMatchIDs(ctx context.Context, matchIDs []int) ([]*models.Event, error)
	Update(ctx context.Context, id int, upd EventUpdate) error
	Delete(ctx context.Context, id int) error
}

type sqliteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) EventRepository {
	return &sqliteEventRepository{db: db}
}

func (r *sqliteEventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO Event (match_id, player_id, minute, event_type)
		VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		event.MatchID,
		event.PlayerID,
		event.Minute,
		event.Type,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrEventReferenceInvalid
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	event.ID = int(id)
	return nil
}

func (r *sqliteEventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	query := `
		SELECT event_id, match_id, player_id, minute, event_type
		FROM Event
		WHERE event_id = ?`

	event := &models.Event{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.MatchID,
		&event.PlayerID,
		&event.Minute,
		&event.Type,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r *sqliteEventRepository) ListByMatch(ctx context.Context, matchID *int) ([]*models.Event, error) {
	query := `
		SELECT event_id, match_id, player_id, minute, event_type
		FROM Event`
	args := []interface{}{}

	if matchID != nil {
		query += " WHERE match_id = ?"
		args = append(args, *matchID)
	}
	query += " ORDER BY event_id"

	return r.queryEvents(ctx, query, args...)
}

func (r *sqliteEventRepository) ListByMatchIDs(ctx context.Context, matchIDs []int) ([]*models.Event, error) {
	if len(matchIDs) == 0 {
		return []*models.Event{}, nil
	}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT event_id, match_id, player_id, minute, event_type
		FROM Event
		WHERE match_id IN (`)
	args := make([]interface{}, 0, len(matchIDs))
	for i, id := range matchIDs {
		if i > 0 {
			queryBuilder.WriteString(", ")
		}
		queryBuilder.WriteString("?")
		args = append(args, id)
	}
	queryBuilder.WriteString(") ORDER BY event_id")

	return r.queryEvents(ctx, queryBuilder.String(), args...)
}

func (r *sqliteEventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]*models.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*models.Event, 0)
	for rows.Next() {
		var e models.Event
		if scanErr := rows.Scan(&e.ID, &e.MatchID, &e.PlayerID, &e.Minute, &e.Type); scanErr != nil {
			return nil, scanErr
		}
		events = append(events, &e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *sqliteEventRepository) Update(ctx context.Context, id int, upd EventUpdate) error {
	var b updateBuilder
	if upd.Minute != nil {
		b.set("minute", *upd.Minute)
	}
	if upd.Type != nil {
		b.set("event_type", *upd.Type)
	}
	if b.empty() {
		return ErrEventUpdateIsEmpty
	}

	query := "UPDATE Event SET " + b.clause() + " WHERE event_id = ?"
	args := append(b.args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rowsAffected, checkErr := checkRowsAffected(result)
	if checkErr != nil {
		return checkErr
	}
	if rowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *sqliteEventRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM Event WHERE event_id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, checkErr := checkRowsAffected(result)
	if checkErr != nil {
		return checkErr
	}
	if rowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}
