package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ManxCat/tradeproof/internal/httputil"
	"github.com/ManxCat/tradeproof/internal/logger"
	"github.com/ManxCat/tradeproof/internal/models"
	"github.com/ManxCat/tradeproof/internal/store"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// GetSettingsHandler returns the experience settings, creating the default
// row on first read.
func GetSettingsHandler(w http.ResponseWriter, r *http.Request) {
	experienceID := chi.URLParam(r, "experienceID")

	settings, err := loadSettings(experienceID)
	if err != nil {
		logger.Log.Error("failed to load settings", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, settings)
}

type UpdateSettingsRequest struct {
	MinCancellationCharacters *int    `json:"min_cancellation_characters"`
	CompetitionEnabled        *bool   `json:"competition_enabled"`
	CompetitionPeriod         *string `json:"competition_period"`
	CompetitionTitle          *string `json:"competition_title"`
	CompetitionPrize          *string `json:"competition_prize"`
}

// UpdateSettingsHandler applies a partial admin update to the experience
// settings. Omitted fields keep their stored values.
func UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	experienceID := chi.URLParam(r, "experienceID")

	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.MinCancellationCharacters != nil {
		if *req.MinCancellationCharacters < 0 || *req.MinCancellationCharacters > 500 {
			httputil.WriteError(w, http.StatusBadRequest, "minimum characters must be between 0 and 500")
			return
		}
	}
	if req.CompetitionPeriod != nil {
		switch *req.CompetitionPeriod {
		case models.PeriodDaily, models.PeriodWeekly, models.PeriodMonthly:
		default:
			httputil.WriteError(w, http.StatusBadRequest, "competition_period must be daily, weekly or monthly")
			return
		}
	}

	settings, err := loadSettings(experienceID)
	if err != nil {
		logger.Log.Error("failed to load settings", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}

	if req.MinCancellationCharacters != nil {
		settings.MinCancellationCharacters = *req.MinCancellationCharacters
	}
	if req.CompetitionEnabled != nil {
		settings.CompetitionEnabled = *req.CompetitionEnabled
	}
	if req.CompetitionPeriod != nil {
		settings.CompetitionPeriod = *req.CompetitionPeriod
	}
	if req.CompetitionTitle != nil {
		settings.CompetitionTitle = *req.CompetitionTitle
	}
	if req.CompetitionPrize != nil {
		settings.CompetitionPrize = *req.CompetitionPrize
	}

	if err := store.DB.Save(settings).Error; err != nil {
		logger.Log.Error("failed to update settings", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to update settings")
		return
	}

	logger.Log.Info("settings updated", zap.String("experience_id", experienceID))
	httputil.WriteJSON(w, http.StatusOK, settings)
}
