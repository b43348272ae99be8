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

type CreateMatchInput struct {
	Date         string `json:"date"`
	Stage        string `json:"stage"`
	Team1ID      int    `json:"team1_id"`
	Team2ID      int    `json:"team2_id"`
	Team1Score   int    `json:"team1_score"`
	Team2Score   int    `json:"team2_score"`
	TournamentID int    `json:"tournament_id"`
}

type UpdateMatchInput struct {
	Date       *string `json:"date"`
	Stage      *string `json:"stage"`
	Team1Score *int    `json:"team1_score"`
	Team2Score *int    `json:"team2_score"`
}

type MatchService interface {
	CreateMatch(ctx context.Context, input CreateMatchInput) (*models.Match, error)
	GetMatchByID(ctx context.Context, id int) (*models.Match, error)
	ListMatchesByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error)
	UpdateMatch(ctx context.Context, id int, input UpdateMatchInput) (*models.Match, error)
	DeleteMatch(ctx context.Context, id int) error
}

type matchService struct {
	matchRepo repositories.MatchRepository
	hub       LiveBroadcaster
}

func NewMatchService(matchRepo repositories.MatchRepository, hub LiveBroadcaster) MatchService {
	return &matchService{matchRepo: matchRepo, hub: hub}
}

func (s *matchService) notify(tournamentID, matchID int) {
	if s.hub != nil {
		s.hub.BroadcastToRoom(tournamentRoom(tournamentID), live.MessageMatchUpdated, matchID)
	}
}

func (s *matchService) CreateMatch(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	if strings.TrimSpace(input.Date) == "" {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, ErrMatchDateRequired)
	}
	if strings.TrimSpace(input.Stage) == "" {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, ErrMatchStageRequired)
	}
	// Матч команды с самой собой не описывается схемой, отклоняем на записи.
	if input.Team1ID == input.Team2ID {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, ErrMatchSameTeam)
	}
	if input.Team1Score < 0 || input.Team2Score < 0 {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, ErrMatchNegativeScore)
	}

	match := &models.Match{
		Date:         input.Date,
		Stage:        input.Stage,
		Team1ID:      input.Team1ID,
		Team2ID:      input.Team2ID,
		Team1Score:   input.Team1Score,
		Team2Score:   input.Team2Score,
		TournamentID: input.TournamentID,
	}
	if err := s.matchRepo.Create(ctx, match); err != nil {
		if errors.Is(err, repositories.ErrMatchReferenceInvalid) {
			return nil, fmt.Errorf("%w: team or tournament", ErrReferencedRowMissing)
		}
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	s.notify(match.TournamentID, match.ID)
	return match, nil
}

func (s *matchService) GetMatchByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) ListMatchesByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, &tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	return matches, nil
}

func (s *matchService) UpdateMatch(ctx context.Context, id int, input UpdateMatchInput) (*models.Match, error) {
	if input.Team1Score != nil && *input.Team1Score < 0 {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, ErrMatchNegativeScore)
	}
	if input.Team2Score != nil && *input.Team2Score < 0 {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, ErrMatchNegativeScore)
	}

	upd := repositories.MatchUpdate{
		Date:       input.Date,
		Stage:      input.Stage,
		Team1Score: input.Team1Score,
		Team2Score: input.Team2Score,
	}

	err := s.matchRepo.Update(ctx, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrMatchUpdateIsEmpty):
			return nil, fmt.Errorf("%w: %w", ErrValidationFailed, ErrUpdateHasNoFields)
		case errors.Is(err, repositories.ErrMatchNotFound):
			return nil, ErrMatchNotFound
		default:
			return nil, fmt.Errorf("failed to update match %d: %w", id, err)
		}
	}

	match, err := s.GetMatchByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notify(match.TournamentID, match.ID)
	return match, nil
}

func (s *matchService) DeleteMatch(ctx context.Context, id int) error {
	match, err := s.GetMatchByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.matchRepo.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrMatchNotFound):
			return ErrMatchNotFound
		case errors.Is(err, repositories.ErrMatchHasChildren):
			return fmt.Errorf("%w: delete the match's events first", ErrRowStillReferenced)
		default:
			return fmt.Errorf("failed to delete match %d: %w", id, err)
		}
	}

	s.notify(match.TournamentID, match.ID)
	return nil
}
