package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/tournament-analyser/models"
)

var (
	ErrMatchNotFound         = errors.New("match not found")
	ErrMatchReferenceInvalid = errors.New("match references unknown team or tournament")
	ErrMatchHasChildren      = errors.New("match is referenced by events")
	ErrMatchUpdateIsEmpty    = errors.New("match update contains no fields")
)

// MatchUpdate: редактируются дата, стадия и счёт; составы команд после
// создания матча не меняются (как в исходной форме редактирования).
type MatchUpdate struct {
	Date       *string
	Stage      *string
	Team1Score *int
	Team2Score *int
}

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	// ListByTournament с tournamentID == nil возвращает все матчи.
	ListByTournament(ctx context.Context, tournamentID *int) ([]*models.Match, error)
	Update(ctx context.Context, id int, upd MatchUpdate) error
	Delete(ctx context.Context, id int) error
}

type sqliteMatchRepository struct {
	db *sql.DB
}

func NewSQLiteMatchRepository(db *sql.DB) MatchRepository {
	return &sqliteMatchRepository{db: db}
}

func (r *sqliteMatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO Match (date, stage, team1_id, team2_id, team1_score, team2_score, tournament_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		match.Date,
		match.Stage,
		match.Team1ID,
		match.Team2ID,
		match.Team1Score,
		match.Team2Score,
		match.TournamentID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrMatchReferenceInvalid
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	match.ID = int(id)
	return nil
}

func (r *sqliteMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `
		SELECT match_id, date, stage, team1_id, team2_id, team1_score, team2_score, tournament_id
		FROM Match
		WHERE match_id = ?`

	match := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&match.ID,
		&match.Date,
		&match.Stage,
		&match.Team1ID,
		&match.Team2ID,
		&match.Team1Score,
		&match.Team2Score,
		&match.TournamentID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (r *sqliteMatchRepository) ListByTournament(ctx context.Context, tournamentID *int) ([]*models.Match, error) {
	query := `
		SELECT match_id, date, stage, team1_id, team2_id, team1_score, team2_score, tournament_id
		FROM Match`
	args := []interface{}{}

	if tournamentID != nil {
		query += " WHERE tournament_id = ?"
		args = append(args, *tournamentID)
	}
	query += " ORDER BY match_id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var m models.Match
		if scanErr := rows.Scan(
			&m.ID, &m.Date, &m.Stage,
			&m.Team1ID, &m.Team2ID, &m.Team1Score, &m.Team2Score,
			&m.TournamentID,
		); scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, &m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *sqliteMatchRepository) Update(ctx context.Context, id int, upd MatchUpdate) error {
	var b updateBuilder
	if upd.Date != nil {
		b.set("date", *upd.Date)
	}
	if upd.Stage != nil {
		b.set("stage", *upd.Stage)
	}
	if upd.Team1Score != nil {
		b.set("team1_score", *upd.Team1Score)
	}
	if upd.Team2Score != nil {
		b.set("team2_score", *upd.Team2Score)
	}
	if b.empty() {
		return ErrMatchUpdateIsEmpty
	}

	query := "UPDATE Match SET " + b.clause() + " WHERE match_id = ?"
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
		return ErrMatchNotFound
	}
	return nil
}

func (r *sqliteMatchRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM Match WHERE match_id = ?`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrMatchHasChildren
		}
		return err
	}

	rowsAffected, checkErr := checkRowsAffected(result)
	if checkErr != nil {
		return checkErr
	}
	if rowsAffected == 0 {
		return ErrMatchNotFound
	}
	return nil
}
