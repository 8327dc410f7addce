package handlers

import (
	"errors"
	"net/http"

	"github.com/ManxCat/tradeproof/internal/httputil"
	"github.com/ManxCat/tradeproof/internal/logger"
	"github.com/ManxCat/tradeproof/internal/middleware"
	"github.com/ManxCat/tradeproof/internal/models"
	"github.com/ManxCat/tradeproof/internal/stats"
	"github.com/ManxCat/tradeproof/internal/store"
	"github.com/ManxCat/tradeproof/internal/whop"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WhopClient is the host platform client, assigned once at startup.
var WhopClient whop.ClientInterface

func currentUser(r *http.Request) (userID, username string, ok bool) {
	userID, ok = r.Context().Value(middleware.UserIDContextKey).(string)
	username, _ = r.Context().Value(middleware.UsernameContextKey).(string)
	return userID, username, ok
}

// approvedTrades loads the approved trades of an experience, most recent
// first. Pending and rejected trades never reach the aggregator.
func approvedTrades(experienceID string) ([]models.Trade, error) {
	var trades []models.Trade
	err := store.DB.
		Where("experience_id = ? AND status = ?", experienceID, models.StatusApproved).
		Order("created_at desc").
		Find(&trades).Error
	return trades, err
}

// approvedTradesForUser is approvedTrades narrowed to one trader.
func approvedTradesForUser(experienceID, userID string) ([]models.Trade, error) {
	var trades []models.Trade
	err := store.DB.
		Where("experience_id = ? AND user_id = ? AND status = ?", experienceID, userID, models.StatusApproved).
		Order("created_at desc").
		Find(&trades).Error
	return trades, err
}

// loadSettings reads an experience's settings, creating the default row on
// first read.
func loadSettings(experienceID string) (*models.AppSettings, error) {
	var settings models.AppSettings
	err := store.DB.Where("experience_id = ?", experienceID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.AppSettings{
			ExperienceID:              experienceID,
			MinCancellationCharacters: models.DefaultMinCancellationCharacters,
			CompetitionEnabled:        true,
			CompetitionPeriod:         models.DefaultCompetitionPeriod,
			CompetitionTitle:          models.DefaultCompetitionTitle,
			CompetitionPrize:          models.DefaultCompetitionPrize,
		}
		err = store.DB.Create(&settings).Error
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// writeStatsError distinguishes corrupt persisted trade data, which is worth
// an alert, from plain internal failures.
func writeStatsError(w http.ResponseWriter, err error) {
	var integrity *stats.DataIntegrityError
	if errors.As(err, &integrity) {
		logger.Log.Error("trade data integrity failure",
			zap.Uint("trade_id", integrity.TradeID),
			zap.String("field", integrity.Field),
			zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "corrupt trade data")
		return
	}
	logger.Log.Error("failed to compute statistics", zap.Error(err))
	httputil.WriteError(w, http.StatusInternalServerError, "failed to compute statistics")
}
