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

type CreateTeamInput struct {
	Name         string `json:"name"`
	CoachName    string `json:"coach_name"`
	GroupName    string `json:"group_name"`
	TournamentID int    `json:"tournament_id"`
}

type UpdateTeamInput struct {
	Name      *string `json:"name"`
	CoachName *string `json:"coach_name"`
	GroupName *string `json:"group_name"`
}

type TeamService interface {
	CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	GetTeamByID(ctx context.Context, id int) (*models.Team, error)
	ListTeamsByTournament(ctx context.Context, tournamentID int) ([]*models.Team, error)
	UpdateTeam(ctx context.Context, id int, input UpdateTeamInput) (*models.Team, error)
	DeleteTeam(ctx context.Context, id int) error
}

type teamService struct {
	teamRepo repositories.TeamRepository
	hub      LiveBroadcaster
}

func NewTeamService(teamRepo repositories.TeamRepository, hub LiveBroadcaster) TeamService {
	return &teamService{teamRepo: teamRepo, hub: hub}
}

func (s *teamService) notify(tournamentID, teamID int) {
	if s.hub != nil {
		s.hub.BroadcastToRoom(tournamentRoom(tournamentID), live.MessageTeamUpdated, teamID)
	}
}

func (s *teamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, ErrTeamNameRequired)
	}
	if strings.TrimSpace(input.CoachName) == "" {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, ErrTeamCoachRequired)
	}
	if strings.TrimSpace(input.GroupName) == "" {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, ErrTeamGroupRequired)
	}

	team := &models.Team{
		Name:         input.Name,
		CoachName:    input.CoachName,
		GroupName:    input.GroupName,
		TournamentID: input.TournamentID,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamTournamentInvalid) {
			return nil, fmt.Errorf("%w: tournament %d", ErrReferencedRowMissing, input.TournamentID)
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	s.notify(team.TournamentID, team.ID)
	return team, nil
}

func (s *teamService) GetTeamByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (s *teamService) ListTeamsByTournament(ctx context.Context, tournamentID int) ([]*models.Team, error) {
	teams, err := s.teamRepo.ListByTournament(ctx, &tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for tournament %d: %w", tournamentID, err)
	}
	return teams, nil
}

func (s *teamService) UpdateTeam(ctx context.Context, id int, input UpdateTeamInput) (*models.Team, error) {
	upd := repositories.TeamUpdate{
		Name:      input.Name,
		CoachName: input.CoachName,
		GroupName: input.GroupName,
	}

	err := s.teamRepo.Update(ctx, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamUpdateIsEmpty):
			return nil, fmt.Errorf("%w: %w", ErrValidationFailed, ErrUpdateHasNoFields)
		case errors.Is(err, repositories.ErrTeamNotFound):
			return nil, ErrTeamNotFound
		default:
			return nil, fmt.Errorf("failed to update team %d: %w", id, err)
		}
	}

	team, err := s.GetTeamByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notify(team.TournamentID, team.ID)
	return team, nil
}

func (s *teamService) DeleteTeam(ctx context.Context, id int) error {
	// Турнир нужен до удаления, чтобы знать, какую комнату уведомить.
	team, err := s.GetTeamByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.teamRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNotFound):
			return ErrTeamNotFound
		case errors.Is(err, repositories.ErrTeamHasChildren):
			return fmt.Errorf("%w: delete players and matches first", ErrRowStillReferenced)
		default:
			return fmt.Errorf("failed to delete team %d: %w", id, err)
		}
	}

	s.notify(team.TournamentID, team.ID)
	return nil
}
