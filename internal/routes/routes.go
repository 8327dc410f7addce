package routes

import (
	"net/http"

	"github.com/ManxCat/tradeproof/internal/handlers"
	appmw "github.com/ManxCat/tradeproof/internal/middleware"
	"github.com/ManxCat/tradeproof/internal/whop"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

func NewRoutes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/experiences/{experienceID}", func(r chi.Router) {
		r.Use(appmw.Authenticated)

		r.Group(func(r chi.Router) {
			r.Use(appmw.RequireAccess(whop.AccessMember))

			r.Get("/dashboard", handlers.DashboardHandler)
			r.Get("/leaderboard", handlers.LeaderboardHandler)
			r.Get("/competition", handlers.CompetitionHandler)
			r.Get("/trades", handlers.RecentTradesHandler)
			r.Post("/trades", handlers.SubmitTradeHandler)
			r.Get("/traders/{userID}", handlers.TraderProfileHandler)
			r.Get("/challenges", handlers.ChallengesHandler)
			r.Post("/cancel-membership", handlers.CancelMembershipHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(appmw.RequireAccess(whop.AccessAdmin))

			r.Get("/admin/trades", handlers.AdminTradesHandler)
			r.Post("/admin/trades/{tradeID}/approve", handlers.ApproveTradeHandler)
			r.Post("/admin/trades/{tradeID}/reject", handlers.RejectTradeHandler)
			r.Get("/settings", handlers.GetSettingsHandler)
			r.Put("/settings", handlers.UpdateSettingsHandler)
			r.Get("/feedback", handlers.FeedbackHandler)
		})
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}
