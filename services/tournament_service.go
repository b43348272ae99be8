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

type CreateTournamentInput struct {
	Year        int     `json:"year"`
	HostCountry string  `json:"host_country"`
	Winner      *string `json:"winner"`
	RunnerUp    *string `json:"runner_up"`
}

type UpdateTournamentInput struct {
	Year        *int    `json:"year"`
	HostCountry *string `json:"host_country"`
	Winner      *string `json:"winner"`
	RunnerUp    *string `json:"runner_up"`
}

type TournamentService interface {
	CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error)
	ListTournaments(ctx context.Context) ([]*models.Tournament, error)
	UpdateTournament(ctx context.Context, id int, input UpdateTournamentInput) (*models.Tournament, error)
	DeleteTournament(ctx context.Context, id int) error
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	hub            LiveBroadcaster
}

func NewTournamentService(tournamentRepo repositories.TournamentRepository, hub LiveBroadcaster) TournamentService {
	return &tournamentService{tournamentRepo: tournamentRepo, hub: hub}
}

func (s *tournamentService) notify(tournamentID int) {
	if s.hub != nil {
		s.hub.BroadcastToRoom(tournamentRoom(tournamentID), live.MessageTournamentUpdated, tournamentID)
	}
}

func (s *tournamentService) CreateTournament(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Year == 0 {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, ErrTournamentYearRequired)
	}
	if strings.TrimSpace(input.HostCountry) == "" {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, ErrTournamentHostRequired)
	}

	tournament := &models.Tournament{
		Year:        input.Year,
		HostCountry: input.HostCountry,
		Winner:      input.Winner,
		RunnerUp:    input.RunnerUp,
	}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	s.notify(tournament.ID)
	return tournament, nil
}

func (s *tournamentService) GetTournamentByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) ListTournaments(ctx context.Context) ([]*models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	return tournaments, nil
}

func (s *tournamentService) UpdateTournament(ctx context.Context, id int, input UpdateTournamentInput) (*models.Tournament, error) {
	upd := repositories.TournamentUpdate{
		Year:        input.Year,
		HostCountry: input.HostCountry,
		Winner:      input.Winner,
		RunnerUp:    input.RunnerUp,
	}

	err := s.tournamentRepo.Update(ctx, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTournamentUpdateIsEmpty):
			return nil, fmt.Errorf("%w: %w", ErrValidationFailed, ErrUpdateHasNoFields)
		case errors.Is(err, repositories.ErrTournamentNotFound):
			return nil, ErrTournamentNotFound
		default:
			return nil, fmt.Errorf("failed to update tournament %d: %w", id, err)
		}
	}

	tournament, err := s.GetTournamentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notify(tournament.ID)
	return tournament, nil
}

func (s *tournamentService) DeleteTournament(ctx context.Context, id int) error {
	err := s.tournamentRepo.Delete(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTournamentNotFound):
			return ErrTournamentNotFound
		case errors.Is(err, repositories.ErrTournamentHasChildren):
			return fmt.Errorf("%w: delete teams and matches first", ErrRowStillReferenced)
		default:
			return fmt.Errorf("failed to delete tournament %d: %w", id, err)
		}
	}

	s.notify(id)
	return nil
}
