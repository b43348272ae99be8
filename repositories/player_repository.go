package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/tournament-analyser/models"
)

var (
	ErrPlayerNotFound      = errors.New("player not found")
	ErrPlayerTeamInvalid   = errors.New("player references unknown team")
	ErrPlayerHasChildren   = errors.New("player is referenced by events")
	ErrPlayerUpdateIsEmpty = errors.New("player update contains no fields")
)

type PlayerUpdate struct {
	Name     *string
	Position *string
}

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	// ListByTeam с teamID == nil возвращает всех игроков.
	ListByTeam(ctx context.Context, teamID *int) ([]*models.Player, error)
	Update(ctx context.Context, id int, upd PlayerUpdate) error
	Delete(ctx context.Context, id int) error
}

type sqlitePlayerRepository struct {
	db *sql.DB
}

func NewSQLitePlayerRepository(db *sql.DB) PlayerRepository {
	return &sqlitePlayerRepository{db: db}
}

func (r *sqlitePlayerRepository) Create(ctx context.Context, player *models.Player) error {
	query := `
		INSERT INTO Player (player_name, position, team_id)
		VALUES (?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, player.Name, player.Position, player.TeamID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrPlayerTeamInvalid
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	player.ID = int(id)
	return nil
}

func (r *sqlitePlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `
		SELECT player_id, player_name, position, team_id
		FROM Player
		WHERE player_id = ?`

	player := &models.Player{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&player.ID,
		&player.Name,
		&player.Position,
		&player.TeamID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

func (r *sqlitePlayerRepository) ListByTeam(ctx context.Context, teamID *int) ([]*models.Player, error) {
	query := `
		SELECT player_id, player_name, position, team_id
		FROM Player`
	args := []interface{}{}

	if teamID != nil {
		query += " WHERE team_id = ?"
		args = append(args, *teamID)
	}
	query += " ORDER BY player_id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		var p models.Player
		if scanErr := rows.Scan(&p.ID, &p.Name, &p.Position, &p.TeamID); scanErr != nil {
			return nil, scanErr
		}
		players = append(players, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *sqlitePlayerRepository) Update(ctx context.Context, id int, upd PlayerUpdate) error {
	var b updateBuilder
	if upd.Name != nil {
		b.set("player_name", *upd.Name)
	}
	if upd.Position != nil {
		b.set("position", *upd.Position)
	}
	if b.empty() {
		return ErrPlayerUpdateIsEmpty
	}

	query := "UPDATE Player SET " + b.clause() + " WHERE player_id = ?"
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
		return ErrPlayerNotFound
	}
	return nil
}

func (r *sqlitePlayerRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM Player WHERE player_id = ?`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrPlayerHasChildren
		}
		return err
	}

	rowsAffected, checkErr := checkRowsAffected(result)
	if checkErr != nil {
		return checkErr
	}
	if rowsAffected == 0 {
		return ErrPlayerNotFound
	}
	return nil
}
