package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Dosada05/tournament-analyser/handlers"
)

func SetupRoutes(
	router *chi.Mux,
	tournamentHandler *handlers.TournamentHandler,
	teamHandler *handlers.TeamHandler,
	playerHandler *handlers.PlayerHandler,
	matchHandler *handlers.MatchHandler,
	eventHandler *handlers.EventHandler,
	statsHandler *handlers.StatsHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListTournaments)
		r.Post("/", tournamentHandler.CreateTournament)

		r.Route("/{tournamentID}", func(r chi.Router) {
			r.Get("/", tournamentHandler.GetTournamentByID)
			r.Put("/", tournamentHandler.UpdateTournament)
			r.Delete("/", tournamentHandler.DeleteTournament)

			r.Get("/teams", teamHandler.ListTeamsByTournament)
			r.Post("/teams", teamHandler.CreateTeam)

			r.Get("/matches", matchHandler.ListMatchesByTournament)
			r.Post("/matches", matchHandler.CreateMatch)

			// Агрегированная статистика считается на лету по текущим данным.
			r.Get("/standings", statsHandler.GetStandings)
			r.Get("/topscorers", statsHandler.GetTopScorers)
			r.Get("/goal-totals", statsHandler.GetGoalTotals)

			r.Post("/exports/standings", statsHandler.ExportStandings)
			r.Post("/exports/topscorers", statsHandler.ExportTopScorers)
		})
	})

	router.Route("/teams/{teamID}", func(r chi.Router) {
		r.Get("/", teamHandler.GetTeamByID)
		r.Put("/", teamHandler.UpdateTeam)
		r.Delete("/", teamHandler.DeleteTeam)

		r.Get("/players", playerHandler.ListPlayersByTeam)
		r.Post("/players", playerHandler.CreatePlayer)
	})

	router.Route("/players", func(r chi.Router) {
		r.Get("/", playerHandler.ListAllPlayers)

		r.Route("/{playerID}", func(r chi.Router) {
			r.Get("/", playerHandler.GetPlayerByID)
			r.Put("/", playerHandler.UpdatePlayer)
			r.Delete("/", playerHandler.DeletePlayer)
		})
	})

	router.Route("/matches/{matchID}", func(r chi.Router) {
		r.Get("/", matchHandler.GetMatchByID)
		r.Put("/", matchHandler.UpdateMatch)
		r.Delete("/", matchHandler.DeleteMatch)

		r.Get("/events", eventHandler.ListEventsByMatch)
		r.Post("/events", eventHandler.CreateEvent)

		r.Get("/timeline", statsHandler.GetMatchTimeline)
	})

	router.Route("/events/{eventID}", func(r chi.Router) {
		r.Get("/", eventHandler.GetEventByID)
		r.Put("/", eventHandler.UpdateEvent)
		r.Delete("/", eventHandler.DeleteEvent)
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
