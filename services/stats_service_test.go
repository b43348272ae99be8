package services

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/Dosada05/tournament-analyser/db"
	"github.com/Dosada05/tournament-analyser/migrations"
	"github.com/Dosada05/tournament-analyser/models"
	"github.com/Dosada05/tournament-analyser/repositories"
	"github.com/Dosada05/tournament-analyser/storage"
)

type testEnv struct {
	conn       *sql.DB
	rec        *broadcastRecorder
	tournament TournamentService
	team       TeamService
	player     PlayerService
	match      MatchService
	event      EventService
	stats      StatsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn, err := db.ConnectInMemory()
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrations.Run(conn); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	tournamentRepo := repositories.NewSQLiteTournamentRepository(conn)
	teamRepo := repositories.NewSQLiteTeamRepository(conn)
	playerRepo := repositories.NewSQLitePlayerRepository(conn)
	matchRepo := repositories.NewSQLiteMatchRepository(conn)
	eventRepo := repositories.NewSQLiteEventRepository(conn)

	rec := &broadcastRecorder{}
	return &testEnv{
		conn:       conn,
		rec:        rec,
		tournament: NewTournamentService(tournamentRepo, rec),
		team:       NewTeamService(teamRepo, rec),
		player:     NewPlayerService(playerRepo, teamRepo, rec),
		match:      NewMatchService(matchRepo, rec),
		event:      NewEventService(eventRepo, matchRepo, rec),
		stats:      NewStatsService(tournamentRepo, teamRepo, playerRepo, matchRepo, eventRepo),
	}
}

// seed2010 воспроизводит финал 2010: Испания 1-0 Нидерланды, гол Иньесты.
func seed2010(t *testing.T, env *testEnv) (tournamentID, matchID, scorerID int) {
	t.Helper()
	ctx := context.Background()

	tournament, err := env.tournament.CreateTournament(ctx, CreateTournamentInput{Year: 2010, HostCountry: "South Africa"})
	if err != nil {
		t.Fatalf("creating tournament: %v", err)
	}

	spain, err := env.team.CreateTeam(ctx, CreateTeamInput{Name: "Spain", CoachName: "Del Bosque", GroupName: "H", TournamentID: tournament.ID})
	if err != nil {
		t.Fatalf("creating team: %v", err)
	}
	dutch, err := env.team.CreateTeam(ctx, CreateTeamInput{Name: "Netherlands", CoachName: "Van Marwijk", GroupName: "E", TournamentID: tournament.ID})
	if err != nil {
		t.Fatalf("creating team: %v", err)
	}

	iniesta, err := env.player.CreatePlayer(ctx, CreatePlayerInput{Name: "Iniesta", Position: "MF", TeamID: spain.ID})
	if err != nil {
		t.Fatalf("creating player: %v", err)
	}
	stekelenburg, err := env.player.CreatePlayer(ctx, CreatePlayerInput{Name: "Stekelenburg", Position: "GK", TeamID: dutch.ID})
	if err != nil {
		t.Fatalf("creating player: %v", err)
	}

	final, err := env.match.CreateMatch(ctx, CreateMatchInput{
		Date: "2010-07-11", Stage: "Final",
		Team1ID: spain.ID, Team2ID: dutch.ID,
		Team1Score: 1, Team2Score: 0,
		TournamentID: tournament.ID,
	})
	if err != nil {
		t.Fatalf("creating match: %v", err)
	}

	for _, input := range []CreateEventInput{
		{MatchID: final.ID, PlayerID: iniesta.ID, Minute: 116, Type: models.EventTypeGoal},
		{MatchID: final.ID, PlayerID: stekelenburg.ID, Minute: 62, Type: models.EventTypeSave},
	} {
		if _, err := env.event.CreateEvent(ctx, input); err != nil {
			t.Fatalf("creating event: %v", err)
		}
	}

	return tournament.ID, final.ID, iniesta.ID
}

func TestStandingsReport(t *testing.T) {
	env := newTestEnv(t)
	tournamentID, _, _ := seed2010(t, env)

	report, err := env.stats.Standings(context.Background(), tournamentID)
	if err != nil {
		t.Fatalf("Standings: %v", err)
	}

	if len(report.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(report.Rows))
	}
	spain, dutch := report.Rows[0], report.Rows[1]
	if spain.TeamName != "Spain" || spain.Points != 3 || spain.GoalsFor != 1 || spain.GoalsAgainst != 0 {
		t.Errorf("unexpected Spain row: %+v", spain)
	}
	if dutch.TeamName != "Netherlands" || dutch.Points != 0 || dutch.GoalsFor != 0 || dutch.GoalsAgainst != 1 {
		t.Errorf("unexpected Netherlands row: %+v", dutch)
	}

	wantChart := models.ChartSeries{Labels: []string{"Spain", "Netherlands"}, Values: []int{3, 0}}
	if !reflect.DeepEqual(report.PointsChart, wantChart) {
		t.Errorf("chart = %+v, want %+v", report.PointsChart, wantChart)
	}
}

func TestStandingsUnknownTournament(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.stats.Standings(context.Background(), 42)
	if !errors.Is(err, ErrTournamentNotFound) {
		t.Fatalf("err = %v, want ErrTournamentNotFound", err)
	}
}

func TestStandingsEmptyTournament(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tournament, err := env.tournament.CreateTournament(ctx, CreateTournamentInput{Year: 2026, HostCountry: "Canada"})
	if err != nil {
		t.Fatalf("creating tournament: %v", err)
	}
	if _, err := env.team.CreateTeam(ctx, CreateTeamInput{Name: "Canada", CoachName: "Marsch", GroupName: "A", TournamentID: tournament.ID}); err != nil {
		t.Fatalf("creating team: %v", err)
	}

	report, err := env.stats.Standings(ctx, tournament.ID)
	if err != nil {
		t.Fatalf("Standings: %v", err)
	}
	if len(report.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(report.Rows))
	}
	row := report.Rows[0]
	if row.Points != 0 || row.GoalsFor != 0 || row.GoalsAgainst != 0 {
		t.Errorf("team without matches must be all zero: %+v", row)
	}
}

func TestTopScorersReport(t *testing.T) {
	env := newTestEnv(t)
	tournamentID, _, scorerID := seed2010(t, env)

	report, err := env.stats.TopScorers(context.Background(), tournamentID)
	if err != nil {
		t.Fatalf("TopScorers: %v", err)
	}

	// Сейв вратаря в бомбардиры не попадает.
	if len(report.Rows) != 1 {
		t.Fatalf("got %d rows, want 1: %+v", len(report.Rows), report.Rows)
	}
	row := report.Rows[0]
	if row.PlayerID != scorerID || row.PlayerName != "Iniesta" || row.Goals != 1 {
		t.Errorf("unexpected scorer row: %+v", row)
	}
}

func TestTopScorersEmpty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tournament, err := env.tournament.CreateTournament(ctx, CreateTournamentInput{Year: 2030, HostCountry: "Spain"})
	if err != nil {
		t.Fatalf("creating tournament: %v", err)
	}

	report, err := env.stats.TopScorers(ctx, tournament.ID)
	if err != nil {
		t.Fatalf("TopScorers: %v", err)
	}
	if len(report.Rows) != 0 {
		t.Errorf("tournament without goal events must yield empty rows: %+v", report.Rows)
	}
}

func TestMatchTimelineReport(t *testing.T) {
	env := newTestEnv(t)
	_, matchID, _ := seed2010(t, env)

	report, err := env.stats.MatchTimeline(context.Background(), matchID)
	if err != nil {
		t.Fatalf("MatchTimeline: %v", err)
	}

	want := []models.TimelineRow{
		{Minute: 62, PlayerName: "Stekelenburg", EventType: models.EventTypeSave},
		{Minute: 116, PlayerName: "Iniesta", EventType: models.EventTypeGoal},
	}
	if !reflect.DeepEqual(report.Rows, want) {
		t.Errorf("rows = %+v, want %+v", report.Rows, want)
	}
}

func TestGoalTotalsReport(t *testing.T) {
	env := newTestEnv(t)
	tournamentID, _, _ := seed2010(t, env)

	report, err := env.stats.GoalTotals(context.Background(), tournamentID)
	if err != nil {
		t.Fatalf("GoalTotals: %v", err)
	}

	want := models.ChartSeries{Labels: []string{"Spain", "Netherlands"}, Values: []int{1, 0}}
	if !reflect.DeepEqual(report.GoalsChart, want) {
		t.Errorf("chart = %+v, want %+v", report.GoalsChart, want)
	}
}

func TestExportStandingsCSV(t *testing.T) {
	env := newTestEnv(t)
	tournamentID, _, _ := seed2010(t, env)

	uploader, err := storage.NewLocalDiskUploader(t.TempDir())
	if err != nil {
		t.Fatalf("creating uploader: %v", err)
	}
	export := NewExportService(env.stats, uploader)

	result, err := export.ExportStandings(context.Background(), tournamentID)
	if err != nil {
		t.Fatalf("ExportStandings: %v", err)
	}

	data, err := os.ReadFile(result.Location)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "team,points,goals_for,goals_against") {
		t.Errorf("missing header: %q", content)
	}
	if !strings.Contains(content, "Spain,3,1,0") {
		t.Errorf("missing Spain row: %q", content)
	}
}

func TestMatchValidation(t *testing.T) {
	env := newTestEnv(t)
	tournamentID, _, _ := seed2010(t, env)
	ctx := context.Background()

	teams, err := env.team.ListTeamsByTournament(ctx, tournamentID)
	if err != nil {
		t.Fatalf("listing teams: %v", err)
	}

	// Команда не играет сама с собой.
	_, err = env.match.CreateMatch(ctx, CreateMatchInput{
		Date: "2010-07-12", Stage: "Group",
		Team1ID: teams[0].ID, Team2ID: teams[0].ID,
		TournamentID: tournamentID,
	})
	if !errors.Is(err, ErrMatchSameTeam) {
		t.Errorf("same-team match: err = %v, want ErrMatchSameTeam", err)
	}

	// Отрицательный счёт отклоняется до похода в базу.
	_, err = env.match.CreateMatch(ctx, CreateMatchInput{
		Date: "2010-07-12", Stage: "Group",
		Team1ID: teams[0].ID, Team2ID: teams[1].ID,
		Team1Score: -1, TournamentID: tournamentID,
	})
	if !errors.Is(err, ErrMatchNegativeScore) {
		t.Errorf("negative score: err = %v, want ErrMatchNegativeScore", err)
	}
}
