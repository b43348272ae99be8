package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/tournament-analyser/live"
	"github.com/Dosada05/tournament-analyser/models"
	"github.com/Dosada05/tournament-analyser/repositories"
)

type CreatePlayerInput struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	TeamID   int    `json:"team_id"`
}

type UpdatePlayerInput struct {
	Name     *string `json:"name"`
	Position *string `json:"position"`
}

type PlayerService interface {
	CreatePlayer(ctx context.Context, input CreatePlayerInput) (*models.Player, error)
	GetPlayerByID(ctx context.Context, id int) (*models.Player, error)
	ListPlayersByTeam(ctx context.Context, teamID int) ([]*models.Player, error)
	ListAllPlayers(ctx context.Context) ([]*models.Player, error)
	UpdatePlayer(ctx context.Context, id int, input UpdatePlayerInput) (*models.Player, error)
	DeletePlayer(ctx context.Context, id int) error
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	teamRepo   repositories.TeamRepository
	hub        LiveBroadcaster
}

func NewPlayerService(
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	hub LiveBroadcaster,
) PlayerService {
	return &playerService{playerRepo: playerRepo, teamRepo: teamRepo, hub: hub}
}

// notify ищет турнир через команду игрока: комнаты хаба привязаны к
// турнирам, а игрок знает только свою команду.
func (s *playerService) notify(ctx context.Context, teamID, playerID int) {
	if s.hub == nil {
		return
	}
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return
	}
	s.hub.BroadcastToRoom(tournamentRoom(team.TournamentID), live.MessagePlayerUpdated, playerID)
}

func (s *playerService) CreatePlayer(ctx context.Context, input CreatePlayerInput) (*models.Player, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, ErrPlayerNameRequired)
	}
	if strings.TrimSpace(input.Position) == "" {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, ErrPlayerPositionRequired)
	}

	player := &models.Player{
		Name:     input.Name,
		Position: input.Position,
		TeamID:   input.TeamID,
	}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerTeamInvalid) {
			return nil, fmt.Errorf("%w: team %d", ErrReferencedRowMissing, input.TeamID)
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	s.notify(ctx, player.TeamID, player.ID)
	return player, nil
}

func (s *playerService) GetPlayerByID(ctx context.Context, id int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return player, nil
}

func (s *playerService) ListPlayersByTeam(ctx context.Context, teamID int) ([]*models.Player, error) {
	players, err := s.playerRepo.ListByTeam(ctx, &teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for team %d: %w", teamID, err)
	}
	return players, nil
}

func (s *playerService) ListAllPlayers(ctx context.Context) ([]*models.Player, error) {
	players, err := s.playerRepo.ListByTeam(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

func (s *playerService) UpdatePlayer(ctx context.Context, id int, input UpdatePlayerInput) (*models.Player, error) {
	upd := repositories.PlayerUpdate{
		Name:     input.Name,
		Position: input.Position,
	}

	err := s.playerRepo.Update(ctx, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrPlayerUpdateIsEmpty):
			return nil, fmt.Errorf("%w: %w", ErrValidationFailed, ErrUpdateHasNoFields)
		case errors.Is(err, repositories.ErrPlayerNotFound):
			return nil, ErrPlayerNotFound
		default:
			return nil, fmt.Errorf("failed to update player %d: %w", id, err)
		}
	}

	player, err := s.GetPlayerByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, player.TeamID, player.ID)
	return player, nil
}

func (s *playerService) DeletePlayer(ctx context.Context, id int) error {
	// Команда нужна до удаления, чтобы знать, какую комнату уведомить.
	player, err := s.GetPlayerByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.playerRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrPlayerNotFound):
			return ErrPlayerNotFound
		case errors.Is(err, repositories.ErrPlayerHasChildren):
			return fmt.Errorf("%w: delete the player's events first", ErrRowStillReferenced)
		default:
			return fmt.Errorf("failed to delete player %d: %w", id, err)
		}
	}

	s.notify(ctx, player.TeamID, player.ID)
	return nil
}
