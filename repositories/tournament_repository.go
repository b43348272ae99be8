package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/tournament-analyser/models"
)

var (
	ErrTournamentNotFound      = errors.New("tournament not found")
	ErrTournamentHasChildren   = errors.New("tournament is referenced by teams or matches")
	ErrTournamentUpdateIsEmpty = errors.New("tournament update contains no fields")
)

// TournamentUpdate — частичное обновление: nil-поля не меняются.
type TournamentUpdate struct {
	Year        *int
	HostCountry *string
	Winner      *string
	RunnerUp    *string
}

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context) ([]*models.Tournament, error)
	Update(ctx context.Context, id int, upd TournamentUpdate) error
	Delete(ctx context.Context, id int) error
}

type sqliteTournamentRepository struct {
	db *sql.DB
}

func NewSQLiteTournamentRepository(db *sql.DB) TournamentRepository {
	return &sqliteTournamentRepository{db: db}
}

func (r *sqliteTournamentRepository) Create(ctx context.Context, tournament *models.Tournament) error {
	query := `
		INSERT INTO Tournament (year, host_country, winner, runner_up)
		VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		tournament.Year,
		tournament.HostCountry,
		tournament.Winner,
		tournament.RunnerUp,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	tournament.ID = int(id)
	return nil
}

func (r *sqliteTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `
		SELECT tournament_id, year, host_country, winner, runner_up
		FROM Tournament
		WHERE tournament_id = ?`

	tournament := &models.Tournament{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&tournament.ID,
		&tournament.Year,
		&tournament.HostCountry,
		&tournament.Winner,
		&tournament.RunnerUp,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

func (r *sqliteTournamentRepository) List(ctx context.Context) ([]*models.Tournament, error) {
	query := `
		SELECT tournament_id, year, host_country, winner, runner_up
		FROM Tournament
		ORDER BY tournament_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if scanErr := rows.Scan(&t.ID, &t.Year, &t.HostCountry, &t.Winner, &t.RunnerUp); scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, &t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tournaments, nil
}

func (r *sqliteTournamentRepository) Update(ctx context.Context, id int, upd TournamentUpdate) error {
	var b updateBuilder
	if upd.Year != nil {
		b.set("year", *upd.Year)
	}
	if upd.HostCountry != nil {
		b.set("host_country", *upd.HostCountry)
	}
	if upd.Winner != nil {
		b.set("winner", *upd.Winner)
	}
	if upd.RunnerUp != nil {
		b.set("runner_up", *upd.RunnerUp)
	}
	if b.empty() {
		return ErrTournamentUpdateIsEmpty
	}

	query := "UPDATE Tournament SET " + b.clause() + " WHERE tournament_id = ?"
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
		return ErrTournamentNotFound
	}
	return nil
}

func (r *sqliteTournamentRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM Tournament WHERE tournament_id = ?`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrTournamentHasChildren
		}
		return err
	}

	rowsAffected, checkErr := checkRowsAffected(result)
	if checkErr != nil {
		return checkErr
	}
	if rowsAffected == 0 {
		return ErrTournamentNotFound
	}
	return nil
}
