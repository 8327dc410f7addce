package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/ManxCat/tradeproof/internal/httputil"
	"github.com/ManxCat/tradeproof/internal/logger"
	"github.com/ManxCat/tradeproof/internal/models"
	"github.com/ManxCat/tradeproof/internal/store"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// FeedbackHandler lists cancellation feedback for admins, newest first.
func FeedbackHandler(w http.ResponseWriter, r *http.Request) {
	experienceID := chi.URLParam(r, "experienceID")

	var feedback []models.CancellationFeedback
	if err := store.DB.
		Where("experience_id = ?", experienceID).
		Order("cancelled_at desc").
		Limit(100).
		Find(&feedback).Error; err != nil {
		logger.Log.Error("failed to fetch feedback", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to fetch feedback")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, feedback)
}

type CancelMembershipRequest struct {
	MembershipID string `json:"membership_id"`
	Feedback     string `json:"feedback"`
}

// CancelMembershipHandler collects the member's reason for leaving and then
// cancels the membership with the host platform. Feedback is persisted
// before the cancellation call so a host-side failure never loses it.
func CancelMembershipHandler(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := currentUser(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	experienceID := chi.URLParam(r, "experienceID")

	var req CancelMembershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.MembershipID == "" || req.Feedback == "" {
		httputil.WriteError(w, http.StatusBadRequest, "membership_id and feedback are required")
		return
	}

	membership, err := WhopClient.GetMembership(r.Context(), req.MembershipID)
	if err != nil {
		logger.Log.Error("membership lookup failed", zap.Error(err))
		httputil.WriteError(w, http.StatusBadGateway, "failed to verify membership")
		return
	}
	if membership == nil {
		httputil.WriteError(w, http.StatusNotFound, "membership not found")
		return
	}

	settings, err := loadSettings(experienceID)
	if err != nil {
		logger.Log.Error("failed to load settings", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	if utf8.RuneCountInString(req.Feedback) < settings.MinCancellationCharacters {
		httputil.WriteError(w, http.StatusBadRequest,
			fmt.Sprintf("feedback must be at least %d characters", settings.MinCancellationCharacters))
		return
	}

	username := membership.User.Username
	if username == "" {
		username = "Unknown"
	}
	record := models.CancellationFeedback{
		ExperienceID: experienceID,
		MembershipID: req.MembershipID,
		UserID:       userID,
		Username:     username,
		Feedback:     req.Feedback,
		CancelledAt:  time.Now(),
	}
	if err := store.DB.Create(&record).Error; err != nil {
		logger.Log.Error("failed to store feedback", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to store feedback")
		return
	}

	if err := WhopClient.CancelMembership(r.Context(), req.MembershipID); err != nil {
		logger.Log.Error("membership cancellation failed",
			zap.String("membership_id", req.MembershipID), zap.Error(err))
		httputil.WriteError(w, http.StatusBadGateway, "feedback saved, but cancellation failed")
		return
	}

	logger.Log.Info("membership cancelled",
		zap.String("experience_id", experienceID),
		zap.String("membership_id", req.MembershipID))

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "membership cancelled",
	})
}
