package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/tournament-analyser/models"
)

var (
	ErrTeamNotFound          = errors.New("team not found")
	ErrTeamTournamentInvalid = errors.New("team references unknown tournament")
	ErrTeamHasChildren       = errors.New("team is referenced by players or matches")
	ErrTeamUpdateIsEmpty     = errors.New("team update contains no fields")
)

type TeamUpdate struct {
	Name      *string
	CoachName *string
	GroupName *string
}

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	// ListByTournament с tournamentID == nil возвращает все команды.
	ListByTournament(ctx context.Context, tournamentID *int) ([]*models.Team, error)
	Update(ctx context.Context, id int, upd TeamUpdate) error
	Delete(ctx context.Context, id int) error
}

type sqliteTeamRepository struct {
	db *sql.DB
}

func NewSQLiteTeamRepository(db *sql.DB) TeamRepository {
	return &sqliteTeamRepository{db: db}
}

func (r *sqliteTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO Team (team_name, coach_name, group_name, tournament_id)
		VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		team.Name,
		team.CoachName,
		team.GroupName,
		team.TournamentID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrTeamTournamentInvalid
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	team.ID = int(id)
	return nil
}

func (r *sqliteTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT team_id, team_name, coach_name, group_name, tournament_id
		FROM Team
		WHERE team_id = ?`

	team := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&team.ID,
		&team.Name,
		&team.CoachName,
		&team.GroupName,
		&team.TournamentID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (r *sqliteTeamRepository) ListByTournament(ctx context.Context, tournamentID *int) ([]*models.Team, error) {
	query := `
		SELECT team_id, team_name, coach_name, group_name, tournament_id
		FROM Team`
	args := []interface{}{}

	if tournamentID != nil {
		query += " WHERE tournament_id = ?"
		args = append(args, *tournamentID)
	}
	query += " ORDER BY team_id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		var t models.Team
		if scanErr := rows.Scan(&t.ID, &t.Name, &t.CoachName, &t.GroupName, &t.TournamentID); scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, &t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *sqliteTeamRepository) Update(ctx context.Context, id int, upd TeamUpdate) error {
	var b updateBuilder
	if upd.Name != nil {
		b.set("team_name", *upd.Name)
	}
	if upd.CoachName != nil {
		b.set("coach_name", *upd.CoachName)
	}
	if upd.GroupName != nil {
		b.set("group_name", *upd.GroupName)
	}
	if b.empty() {
		return ErrTeamUpdateIsEmpty
	}

	query := "UPDATE Team SET " + b.clause() + " WHERE team_id = ?"
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
		return ErrTeamNotFound
	}
	return nil
}

func (r *sqliteTeamRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM Team WHERE team_id = ?`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrTeamHasChildren
		}
		return err
	}

	rowsAffected, checkErr := checkRowsAffected(result)
	if checkErr != nil {
		return checkErr
	}
	if rowsAffected == 0 {
		return ErrTeamNotFound
	}
	return nil
}
