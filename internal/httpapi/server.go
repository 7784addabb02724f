package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/radieske/bolao-platform/internal/account"
	"github.com/radieske/bolao-platform/internal/activity"
	"github.com/radieske/bolao-platform/internal/activity/ws"
	"github.com/radieske/bolao-platform/internal/auth"
	"github.com/radieske/bolao-platform/internal/catalog"
	"github.com/radieske/bolao-platform/internal/footballdata"
	"github.com/radieske/bolao-platform/internal/ledger"
)

// Server expõe a API REST da plataforma: autenticação, catálogo, apostas,
// feed e as rotinas administrativas.
type Server struct {
	Log            *zap.Logger
	Auth           *auth.Manager
	Accounts       *account.Repo
	Board          *account.Leaderboard
	Catalog        *catalog.Repo
	Engine         *ledger.Engine
	Feed           *activity.FeedRepo
	Syncer         *footballdata.Syncer
	Hub            *ws.Hub
	DefaultBalance int64
}

// Router monta o roteador HTTP completo
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	// público
	r.Post("/auth/login", s.login)
	if s.Hub != nil {
		r.Get("/ws/feed", s.Hub.HandleWS)
	}

	// autenticado
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(s.Auth, s.Accounts))

		r.Get("/auth/me", s.me)
		r.Post("/auth/change-password", s.changePassword)
		r.Get("/users/me/stats", s.myStats)
		r.Get("/users/me/streak", s.myStreak)

		r.Get("/tournaments", s.listTournaments)
		r.Get("/tournaments/{tournamentID}/events", s.listEvents)
		r.Get("/tournaments/{tournamentID}/markets", s.listTournamentMarkets)
		r.Get("/events/{eventID}/markets", s.listEventMarkets)

		r.Post("/bets", s.placeBet)
		r.Get("/bets/me", s.myBets)

		r.Get("/feed", s.feed)
		r.Get("/notifications", s.notifications)
		r.Post("/notifications/{notificationID}/read", s.markNotificationRead)

		r.Get("/leaderboard", s.leaderboard)
		r.Get("/leaderboard/{tournamentID}", s.tournamentLeaderboard)

		// administrativo
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)

			r.Post("/auth/users", s.createUser)
			r.Get("/admin/users", s.listUsers)
			r.Post("/admin/users/{userID}/adjust-balance", s.adjustBalance)
			r.Post("/admin/users/{userID}/deactivate", s.deactivateUser)
			r.Post("/admin/users/{userID}/activate", s.activateUser)

			r.Post("/admin/tournaments", s.createTournament)
			r.Patch("/admin/tournaments/{tournamentID}", s.updateTournament)
			r.Post("/admin/events", s.createEvent)
			r.Patch("/admin/events/{eventID}", s.updateEvent)
			r.Delete("/admin/events/{eventID}", s.deleteEvent)

			r.Post("/admin/markets", s.createMarket)
			r.Patch("/admin/markets/{marketID}/status", s.updateMarketStatus)
			r.Patch("/admin/selections/{selectionID}", s.updateSelectionOdds)
			r.Post("/admin/markets/{marketID}/settle", s.settleMarket)
			r.Post("/admin/markets/{marketID}/void", s.voidMarket)
			r.Get("/admin/markets/{marketID}/bets", s.marketBets)

			if s.Syncer != nil {
				r.Post("/admin/sync/competitions", s.syncCompetitions)
				r.Post("/admin/tournaments/{tournamentID}/sync-teams", s.syncTeams)
				r.Post("/admin/tournaments/{tournamentID}/sync-fixtures", s.syncFixtures)
				r.Post("/admin/teams/{teamID}/sync-squad", s.syncSquad)
			}
		})
	})

	return r
}
