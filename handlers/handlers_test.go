package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/Dosada05/tournament-analyser/db"
	"github.com/Dosada05/tournament-analyser/handlers"
	"github.com/Dosada05/tournament-analyser/live"
	"github.com/Dosada05/tournament-analyser/migrations"
	"github.com/Dosada05/tournament-analyser/repositories"
	"github.com/Dosada05/tournament-analyser/routes"
	"github.com/Dosada05/tournament-analyser/services"
	"github.com/Dosada05/tournament-analyser/storage"
)

// newTestServer поднимает полный HTTP-стек поверх базы в памяти.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	dbConn, err := db.ConnectInMemory()
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { _ = dbConn.Close() })

	if err := migrations.Run(dbConn); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	uploader, err := storage.NewLocalDiskUploader(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create uploader: %v", err)
	}

	hub := live.NewHub(logger)
	go hub.Run()

	tournamentRepo := repositories.NewSQLiteTournamentRepository(dbConn)
	teamRepo := repositories.NewSQLiteTeamRepository(dbConn)
	playerRepo := repositories.NewSQLitePlayerRepository(dbConn)
	matchRepo := repositories.NewSQLiteMatchRepository(dbConn)
	eventRepo := repositories.NewSQLiteEventRepository(dbConn)

	statsService := services.NewStatsService(tournamentRepo, teamRepo, playerRepo, matchRepo, eventRepo)

	router := chi.NewRouter()
	routes.SetupRoutes(
		router,
		handlers.NewTournamentHandler(services.NewTournamentService(tournamentRepo, hub)),
		handlers.NewTeamHandler(services.NewTeamService(teamRepo, hub)),
		handlers.NewPlayerHandler(services.NewPlayerService(playerRepo, teamRepo, hub)),
		handlers.NewMatchHandler(services.NewMatchService(matchRepo, hub)),
		handlers.NewEventHandler(services.NewEventService(eventRepo, matchRepo, hub)),
		handlers.NewStatsHandler(statsService, services.NewExportService(statsService, uploader)),
		handlers.NewWebSocketHandler(hub, logger),
	)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, body string) (int, map[string]json.RawMessage) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	if err != nil {
		t.Fatalf("failed to build request %s %s: %v", method, path, err)
	}

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}

	envelope := map[string]json.RawMessage{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &envelope); err != nil {
			t.Fatalf("response %s %s is not a JSON object: %v\n%s", method, path, err, raw)
		}
	}
	return resp.StatusCode, envelope
}

func extractID(t *testing.T, envelope map[string]json.RawMessage, key string) int {
	t.Helper()

	var entity struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(envelope[key], &entity); err != nil {
		t.Fatalf("failed to decode %q from response: %v", key, err)
	}
	if entity.ID == 0 {
		t.Fatalf("expected non-zero id in %q, got %s", key, envelope[key])
	}
	return entity.ID
}

func TestFullTournamentFlow(t *testing.T) {
	srv := newTestServer(t)

	status, body := doJSON(t, srv, http.MethodPost, "/tournaments",
		`{"year": 2010, "host_country": "South Africa"}`)
	if status != http.StatusCreated {
		t.Fatalf("create tournament: expected 201, got %d", status)
	}
	tournamentID := extractID(t, body, "tournament")

	teamsPath := fmt.Sprintf("/tournaments/%d/teams", tournamentID)

	status, body = doJSON(t, srv, http.MethodPost, teamsPath,
		`{"name": "Spain", "coach_name": "Vicente del Bosque", "group_name": "H"}`)
	if status != http.StatusCreated {
		t.Fatalf("create team: expected 201, got %d", status)
	}
	spainID := extractID(t, body, "team")

	status, body = doJSON(t, srv, http.MethodPost, teamsPath,
		`{"name": "Netherlands", "coach_name": "Bert van Marwijk", "group_name": "E"}`)
	if status != http.StatusCreated {
		t.Fatalf("create team: expected 201, got %d", status)
	}
	dutchID := extractID(t, body, "team")

	status, body = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/teams/%d/players", spainID),
		`{"name": "Andres Iniesta", "position": "Midfielder"}`)
	if status != http.StatusCreated {
		t.Fatalf("create player: expected 201, got %d", status)
	}
	iniestaID := extractID(t, body, "player")

	status, body = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/tournaments/%d/matches", tournamentID),
		fmt.Sprintf(`{"date": "2010-07-11", "stage": "Final", "team1_id": %d, "team2_id": %d, "team1_score": 1, "team2_score": 0}`,
			spainID, dutchID))
	if status != http.StatusCreated {
		t.Fatalf("create match: expected 201, got %d", status)
	}
	matchID := extractID(t, body, "match")

	status, _ = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/matches/%d/events", matchID),
		fmt.Sprintf(`{"player_id": %d, "minute": 116, "event_type": "Goal"}`, iniestaID))
	if status != http.StatusCreated {
		t.Fatalf("create event: expected 201, got %d", status)
	}

	status, body = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/tournaments/%d/standings", tournamentID), "")
	if status != http.StatusOK {
		t.Fatalf("standings: expected 200, got %d", status)
	}
	var standings struct {
		Rows []struct {
			TeamName     string `json:"team_name"`
			Points       int    `json:"points"`
			GoalsFor     int    `json:"goals_for"`
			GoalsAgainst int    `json:"goals_against"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(body["standings"], &standings); err != nil {
		t.Fatalf("failed to decode standings: %v", err)
	}
	if len(standings.Rows) != 2 {
		t.Fatalf("expected 2 standings rows, got %d", len(standings.Rows))
	}
	for _, row := range standings.Rows {
		switch row.TeamName {
		case "Spain":
			if row.Points != 3 || row.GoalsFor != 1 || row.GoalsAgainst != 0 {
				t.Errorf("Spain: expected 3 points 1:0, got %d points %d:%d", row.Points, row.GoalsFor, row.GoalsAgainst)
			}
		case "Netherlands":
			if row.Points != 0 || row.GoalsFor != 0 || row.GoalsAgainst != 1 {
				t.Errorf("Netherlands: expected 0 points 0:1, got %d points %d:%d", row.Points, row.GoalsFor, row.GoalsAgainst)
			}
		default:
			t.Errorf("unexpected team in standings: %q", row.TeamName)
		}
	}

	status, body = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/tournaments/%d/topscorers", tournamentID), "")
	if status != http.StatusOK {
		t.Fatalf("top scorers: expected 200, got %d", status)
	}
	var scorers struct {
		Rows []struct {
			PlayerName string `json:"player_name"`
			Goals      int    `json:"goals"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(body["top_scorers"], &scorers); err != nil {
		t.Fatalf("failed to decode top scorers: %v", err)
	}
	if len(scorers.Rows) != 1 || scorers.Rows[0].PlayerName != "Andres Iniesta" || scorers.Rows[0].Goals != 1 {
		t.Fatalf("expected Iniesta with 1 goal, got %+v", scorers.Rows)
	}

	status, body = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/matches/%d/timeline", matchID), "")
	if status != http.StatusOK {
		t.Fatalf("timeline: expected 200, got %d", status)
	}
	var timeline struct {
		Rows []struct {
			Minute int `json:"minute"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(body["timeline"], &timeline); err != nil {
		t.Fatalf("failed to decode timeline: %v", err)
	}
	if len(timeline.Rows) != 1 || timeline.Rows[0].Minute != 116 {
		t.Fatalf("expected single timeline entry at minute 116, got %+v", timeline.Rows)
	}
}

func TestNotFoundAndValidation(t *testing.T) {
	srv := newTestServer(t)

	status, _ := doJSON(t, srv, http.MethodGet, "/tournaments/9999", "")
	if status != http.StatusNotFound {
		t.Errorf("missing tournament: expected 404, got %d", status)
	}

	status, _ = doJSON(t, srv, http.MethodPost, "/tournaments", `{"host_country": "Qatar"}`)
	if status != http.StatusBadRequest {
		t.Errorf("tournament without year: expected 400, got %d", status)
	}

	status, _ = doJSON(t, srv, http.MethodGet, "/tournaments/abc", "")
	if status != http.StatusBadRequest {
		t.Errorf("non-numeric id: expected 400, got %d", status)
	}
}

func TestDeleteTournamentWithTeamsConflicts(t *testing.T) {
	srv := newTestServer(t)

	status, body := doJSON(t, srv, http.MethodPost, "/tournaments",
		`{"year": 2014, "host_country": "Brazil"}`)
	if status != http.StatusCreated {
		t.Fatalf("create tournament: expected 201, got %d", status)
	}
	tournamentID := extractID(t, body, "tournament")

	status, _ = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/tournaments/%d/teams", tournamentID),
		`{"name": "Germany", "coach_name": "Joachim Loew", "group_name": "G"}`)
	if status != http.StatusCreated {
		t.Fatalf("create team: expected 201, got %d", status)
	}

	status, _ = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/tournaments/%d", tournamentID), "")
	if status != http.StatusConflict {
		t.Errorf("delete tournament with teams: expected 409, got %d", status)
	}
}

func TestCreateMatchWithSameTeamRejected(t *testing.T) {
	srv := newTestServer(t)

	status, body := doJSON(t, srv, http.MethodPost, "/tournaments",
		`{"year": 2018, "host_country": "Russia"}`)
	if status != http.StatusCreated {
		t.Fatalf("create tournament: expected 201, got %d", status)
	}
	tournamentID := extractID(t, body, "tournament")

	status, body = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/tournaments/%d/teams", tournamentID),
		`{"name": "France", "coach_name": "Didier Deschamps", "group_name": "C"}`)
	if status != http.StatusCreated {
		t.Fatalf("create team: expected 201, got %d", status)
	}
	teamID := extractID(t, body, "team")

	status, _ = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/tournaments/%d/matches", tournamentID),
		fmt.Sprintf(`{"date": "2018-06-16", "stage": "Group", "team1_id": %d, "team2_id": %d, "team1_score": 0, "team2_score": 0}`,
			teamID, teamID))
	if status != http.StatusBadRequest {
		t.Errorf("match with identical teams: expected 400, got %d", status)
	}
}

func TestTeamUpdateNotifiesWebsocketClient(t *testing.T) {
	srv := newTestServer(t)

	status, body := doJSON(t, srv, http.MethodPost, "/tournaments",
		`{"year": 2010, "host_country": "South Africa"}`)
	if status != http.StatusCreated {
		t.Fatalf("create tournament: expected 201, got %d", status)
	}
	tournamentID := extractID(t, body, "tournament")

	status, body = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/tournaments/%d/teams", tournamentID),
		`{"name": "Spain", "coach_name": "Aragones", "group_name": "H"}`)
	if status != http.StatusCreated {
		t.Fatalf("create team: expected 201, got %d", status)
	}
	teamID := extractID(t, body, "team")

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") +
		fmt.Sprintf("/ws/tournaments/%d", tournamentID)
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dialing %s: %v", wsURL, err)
	}
	defer resp.Body.Close()
	defer conn.Close()

	// Регистрация в комнате завершается после рукопожатия, даём хабу
	// обработать её до мутации.
	time.Sleep(200 * time.Millisecond)

	status, _ = doJSON(t, srv, http.MethodPut, fmt.Sprintf("/teams/%d", teamID),
		`{"coach_name": "Del Bosque"}`)
	if status != http.StatusOK {
		t.Fatalf("update team: expected 200, got %d", status)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("reading websocket frame: %v", err)
	}

	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
		RoomID  string          `json:"room_id"`
	}
	if err := json.Unmarshal(frame, &msg); err != nil {
		t.Fatalf("decoding frame %s: %v", frame, err)
	}
	if msg.Type != live.MessageTeamUpdated {
		t.Errorf("got type %q, want %q", msg.Type, live.MessageTeamUpdated)
	}
	if want := fmt.Sprintf("tournament_%d", tournamentID); msg.RoomID != want {
		t.Errorf("got room %q, want %q", msg.RoomID, want)
	}
	if string(msg.Payload) != fmt.Sprintf("%d", teamID) {
		t.Errorf("got payload %s, want team id %d", msg.Payload, teamID)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	status, body := doJSON(t, srv, http.MethodGet, "/healthz", "")
	if status != http.StatusOK {
		t.Fatalf("healthz: expected 200, got %d", status)
	}
	if string(body["status"]) != `"ok"` {
		t.Errorf("healthz: expected status ok, got %s", body["status"])
	}
}
