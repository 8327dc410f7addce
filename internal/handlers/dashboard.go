package handlers

import (
	"net/http"
	"time"

	"github.com/ManxCat/tradeproof/internal/httputil"
	"github.com/ManxCat/tradeproof/internal/logger"
	"github.com/ManxCat/tradeproof/internal/models"
	"github.com/ManxCat/tradeproof/internal/stats"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type DashboardResponse struct {
	Community    *stats.CommunityOverview `json:"community"`
	Leaderboard  []stats.Row              `json:"leaderboard"`
	RecentTrades []models.Trade           `json:"recent_trades"`
}

// DashboardHandler serves the experience landing view: community rollup, the
// P&L leaderboard, and the latest trades. Everything is recomputed from the
// current snapshot on each request; nothing derived is ever cached.
func DashboardHandler(w http.ResponseWriter, r *http.Request) {
	experienceID := chi.URLParam(r, "experienceID")

	trades, err := approvedTrades(experienceID)
	if err != nil {
		logger.Log.Error("failed to fetch trades", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to fetch trades")
		return
	}

	community, err := stats.CommunityStats(trades, time.Now())
	if err != nil {
		writeStatsError(w, err)
		return
	}
	leaderboard, err := stats.Leaderboard(trades, stats.MetricPnl)
	if err != nil {
		writeStatsError(w, err)
		return
	}

	recent := trades
	if len(recent) > 10 {
		recent = recent[:10]
	}

	httputil.WriteJSON(w, http.StatusOK, DashboardResponse{
		Community:    community,
		Leaderboard:  leaderboard,
		RecentTrades: recent,
	})
}

// LeaderboardHandler ranks the experience's traders by the requested metric
// (pnl, roi, winrate or trades; pnl by default).
func LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	experienceID := chi.URLParam(r, "experienceID")
	metric := stats.ParseMetric(r.URL.Query().Get("metric"))

	trades, err := approvedTrades(experienceID)
	if err != nil {
		logger.Log.Error("failed to fetch trades", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to fetch trades")
		return
	}

	rows, err := stats.Leaderboard(trades, metric)
	if err != nil {
		writeStatsError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"metric":      metric,
		"leaderboard": rows,
	})
}

type CompetitionResponse struct {
	Enabled     bool               `json:"enabled"`
	Title       string             `json:"title,omitempty"`
	Prize       string             `json:"prize,omitempty"`
	Competition *stats.Competition `json:"competition,omitempty"`
}

// CompetitionHandler serves the current period's standings, driven by the
// experience's settings. A disabled competition returns enabled=false with
// no standings rather than an error.
func CompetitionHandler(w http.ResponseWriter, r *http.Request) {
	experienceID := chi.URLParam(r, "experienceID")

	settings, err := loadSettings(experienceID)
	if err != nil {
		logger.Log.Error("failed to load settings", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	if !settings.CompetitionEnabled {
		httputil.WriteJSON(w, http.StatusOK, CompetitionResponse{Enabled: false})
		return
	}

	trades, err := approvedTrades(experienceID)
	if err != nil {
		logger.Log.Error("failed to fetch trades", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to fetch trades")
		return
	}

	competition, err := stats.CompetitionStandings(trades, settings.CompetitionPeriod, time.Now())
	if err != nil {
		writeStatsError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, CompetitionResponse{
		Enabled:     true,
		Title:       settings.CompetitionTitle,
		Prize:       settings.CompetitionPrize,
		Competition: competition,
	})
}

type TraderProfileResponse struct {
	Stats        *stats.TraderStats  `json:"stats"`
	Achievements []string            `json:"achievements"`
	Level        stats.LevelProgress `json:"level"`
	Trades       []models.Trade      `json:"trades"`
}

// TraderProfileHandler serves one trader's profile: rollup, streak,
// achievements, level, and their approved trade history.
func TraderProfileHandler(w http.ResponseWriter, r *http.Request) {
	experienceID := chi.URLParam(r, "experienceID")
	userID := chi.URLParam(r, "userID")

	trades, err := approvedTradesForUser(experienceID, userID)
	if err != nil {
		logger.Log.Error("failed to fetch trader trades", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to fetch trades")
		return
	}

	profile, err := stats.ProfileStats(trades)
	if err != nil {
		writeStatsError(w, err)
		return
	}
	achievements, err := stats.Achievements(trades)
	if err != nil {
		writeStatsError(w, err)
		return
	}
	if profile.UserID == "" {
		profile.UserID = userID
	}

	httputil.WriteJSON(w, http.StatusOK, TraderProfileResponse{
		Stats:        profile,
		Achievements: achievements,
		Level:        stats.LevelFor(profile.TotalTrades),
		Trades:       trades,
	})
}

// ChallengesHandler serves the calling member's daily challenge progress.
func ChallengesHandler(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	experienceID := chi.URLParam(r, "experienceID")

	trades, err := approvedTradesForUser(experienceID, userID)
	if err != nil {
		logger.Log.Error("failed to fetch trader trades", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to fetch trades")
		return
	}

	board, err := stats.DailyChallenges(trades, time.Now())
	if err != nil {
		writeStatsError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, board)
}
