package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/tournament-analyser/models"
	"github.com/Dosada05/tournament-analyser/repositories"
	"github.com/Dosada05/tournament-analyser/stats"
)

// StatsService собирает снапшот из хранилища, прогоняет агрегаторы и
// отдаёт таблицы вместе с сериями для графиков. Кэша нет: каждый вызов
// перечитывает актуальные строки, поэтому удаления видны сразу.
type StatsService interface {
	Standings(ctx context.Context, tournamentID int) (*models.StandingsReport, error)
	TopScorers(ctx context.Context, tournamentID int) (*models.TopScorersReport, error)
	GoalTotals(ctx context.Context, tournamentID int) (*models.GoalTotalsReport, error)
	MatchTimeline(ctx context.Context, matchID int) (*models.TimelineReport, error)
}

type statsService struct {
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	playerRepo     repositories.PlayerRepository
	matchRepo      repositories.MatchRepository
	eventRepo      repositories.EventRepository
}

func NewStatsService(
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	matchRepo repositories.MatchRepository,
	eventRepo repositories.EventRepository,
) StatsService {
	return &statsService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		playerRepo:     playerRepo,
		matchRepo:      matchRepo,
		eventRepo:      eventRepo,
	}
}

func (s *statsService) wrapStatsErr(err error) error {
	if errors.Is(err, stats.ErrUnknownTeam) || errors.Is(err, stats.ErrUnknownPlayer) {
		return fmt.Errorf("%w: %w", ErrSnapshotInconsistent, err)
	}
	return err
}

// fetchTeamsAndMatches читает снапшот турнира. Запросы идут через
// errgroup, но пул из одного соединения сериализует их между собой.
func (s *statsService) fetchTeamsAndMatches(ctx context.Context, tournamentID int) ([]models.Team, []models.Match, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, nil, ErrTournamentNotFound
		}
		return nil, nil, err
	}

	var (
		teams   []*models.Team
		matches []*models.Match
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.ListByTournament(gCtx, &tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByTournament(gCtx, &tournamentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("failed to fetch snapshot for tournament %d: %w", tournamentID, err)
	}

	teamVals := make([]models.Team, len(teams))
	for i, t := range teams {
		teamVals[i] = *t
	}
	matchVals := make([]models.Match, len(matches))
	for i, m := range matches {
		matchVals[i] = *m
	}
	return teamVals, matchVals, nil
}

func (s *statsService) Standings(ctx context.Context, tournamentID int) (*models.StandingsReport, error) {
	teams, matches, err := s.fetchTeamsAndMatches(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	lines, err := stats.ComputeStandings(teams, matches)
	if err != nil {
		return nil, s.wrapStatsErr(err)
	}

	// Порядок отображения — порядок списка команд.
	report := &models.StandingsReport{
		Rows: make([]models.StandingRow, 0, len(teams)),
		PointsChart: models.ChartSeries{
			Labels: make([]string, 0, len(teams)),
			Values: make([]int, 0, len(teams)),
		},
	}
	for _, team := range teams {
		line := lines[team.ID]
		report.Rows = append(report.Rows, models.StandingRow{
			TeamID:       team.ID,
			TeamName:     team.Name,
			Points:       line.Points,
			GoalsFor:     line.GoalsFor,
			GoalsAgainst: line.GoalsAgainst,
		})
		report.PointsChart.Labels = append(report.PointsChart.Labels, team.Name)
		report.PointsChart.Values = append(report.PointsChart.Values, line.Points)
	}
	return report, nil
}

func (s *statsService) TopScorers(ctx context.Context, tournamentID int) (*models.TopScorersReport, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	matches, err := s.matchRepo.ListByTournament(ctx, &tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	matchIDs := make([]int, len(matches))
	for i, m := range matches {
		matchIDs[i] = m.ID
	}

	var (
		eventPtrs  []*models.Event
		playerPtrs []*models.Player
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		eventPtrs, err = s.eventRepo.ListByMatchIDs(gCtx, matchIDs)
		return err
	})
	g.Go(func() error {
		var err error
		playerPtrs, err = s.playerRepo.ListByTeam(gCtx, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch events for tournament %d: %w", tournamentID, err)
	}

	events := make([]models.Event, len(eventPtrs))
	for i, e := range eventPtrs {
		events[i] = *e
	}
	players := make([]models.Player, len(playerPtrs))
	for i, p := range playerPtrs {
		players[i] = *p
	}

	entries, err := stats.ComputeTopScorers(matchIDs, events, players)
	if err != nil {
		return nil, s.wrapStatsErr(err)
	}

	report := &models.TopScorersReport{
		Rows: make([]models.ScorerRow, 0, len(entries)),
		GoalsChart: models.ChartSeries{
			Labels: make([]string, 0, len(entries)),
			Values: make([]int, 0, len(entries)),
		},
	}
	for _, entry := range entries {
		report.Rows = append(report.Rows, models.ScorerRow{
			PlayerID:   entry.Player.ID,
			PlayerName: entry.Player.Name,
			Goals:      entry.Goals,
		})
		report.GoalsChart.Labels = append(report.GoalsChart.Labels, entry.Player.Name)
		report.GoalsChart.Values = append(report.GoalsChart.Values, entry.Goals)
	}
	return report, nil
}

func (s *statsService) GoalTotals(ctx context.Context, tournamentID int) (*models.GoalTotalsReport, error) {
	teams, matches, err := s.fetchTeamsAndMatches(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	totals, err := stats.ComputeGoalTotals(teams, matches)
	if err != nil {
		return nil, s.wrapStatsErr(err)
	}

	report := &models.GoalTotalsReport{
		Rows: make([]models.GoalTotalRow, 0, len(teams)),
		GoalsChart: models.ChartSeries{
			Labels: make([]string, 0, len(teams)),
			Values: make([]int, 0, len(teams)),
		},
	}
	for _, team := range teams {
		report.Rows = append(report.Rows, models.GoalTotalRow{
			TeamID:   team.ID,
			TeamName: team.Name,
			Goals:    totals[team.ID],
		})
		report.GoalsChart.Labels = append(report.GoalsChart.Labels, team.Name)
		report.GoalsChart.Values = append(report.GoalsChart.Values, totals[team.ID])
	}
	return report, nil
}

func (s *statsService) MatchTimeline(ctx context.Context, matchID int) (*models.TimelineReport, error) {
	if _, err := s.matchRepo.GetByID(ctx, matchID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	var (
		eventPtrs  []*models.Event
		playerPtrs []*models.Player
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		eventPtrs, err = s.eventRepo.ListByMatch(gCtx, &matchID)
		return err
	})
	g.Go(func() error {
		var err error
		playerPtrs, err = s.playerRepo.ListByTeam(gCtx, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch timeline for match %d: %w", matchID, err)
	}

	events := make([]models.Event, len(eventPtrs))
	for i, e := range eventPtrs {
		events[i] = *e
	}
	players := make([]models.Player, len(playerPtrs))
	for i, p := range playerPtrs {
		players[i] = *p
	}

	entries, err := stats.BuildTimeline(matchID, events, players)
	if err != nil {
		return nil, s.wrapStatsErr(err)
	}

	report := &models.TimelineReport{
		Rows:    make([]models.TimelineRow, 0, len(entries)),
		Scatter: make([]models.ScatterPoint, 0, len(entries)),
	}
	for _, entry := range entries {
		report.Rows = append(report.Rows, models.TimelineRow{
			Minute:     entry.Minute,
			PlayerName: entry.PlayerName,
			EventType:  entry.EventType,
		})
		report.Scatter = append(report.Scatter, models.ScatterPoint{
			PlayerName: entry.PlayerName,
			Minute:     entry.Minute,
			EventType:  entry.EventType,
		})
	}
	return report, nil
}
