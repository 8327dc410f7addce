package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ManxCat/tradeproof/configs"
	"github.com/ManxCat/tradeproof/internal/httputil"
	"github.com/ManxCat/tradeproof/internal/logger"
	"github.com/ManxCat/tradeproof/internal/models"
	"github.com/ManxCat/tradeproof/internal/stats"
	"github.com/ManxCat/tradeproof/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type SubmitTradeRequest struct {
	Symbol       string `json:"symbol"`
	PositionType string `json:"position_type"`
	AssetType    string `json:"asset_type"`
	Leverage     string `json:"leverage"`
	EntryPrice   string `json:"entry_price"`
	ExitPrice    string `json:"exit_price"`
	PositionSize string `json:"position_size"`
	Screenshot   string `json:"screenshot"`
}

var assetTypes = map[string]bool{
	"stock": true, "option": true, "crypto": true, "futures": true,
}

func parsePositive(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be a decimal number", field)
	}
	if d.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("%s must be positive", field)
	}
	return d, nil
}

// SubmitTradeHandler records a closed position report. P&L and ROI are
// derived here, once; the stored values are never recomputed. New trades
// start pending unless auto-approval is configured.
func SubmitTradeHandler(w http.ResponseWriter, r *http.Request) {
	userID, username, ok := currentUser(r)
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	experienceID := chi.URLParam(r, "experienceID")

	var req SubmitTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Symbol == "" {
		httputil.WriteError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	if req.PositionType == "" {
		req.PositionType = models.PositionLong
	}
	if req.PositionType != models.PositionLong && req.PositionType != models.PositionShort {
		httputil.WriteError(w, http.StatusBadRequest, "position_type must be long or short")
		return
	}
	if req.AssetType == "" {
		req.AssetType = "stock"
	}
	if !assetTypes[req.AssetType] {
		httputil.WriteError(w, http.StatusBadRequest, "asset_type must be one of stock, option, crypto, futures")
		return
	}
	if req.Leverage == "" {
		req.Leverage = "1"
	}

	entry, err := parsePositive("entry_price", req.EntryPrice)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	exit, err := parsePositive("exit_price", req.ExitPrice)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	size, err := parsePositive("position_size", req.PositionSize)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	leverage, err := parsePositive("leverage", req.Leverage)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if leverage.LessThan(decimal.NewFromInt(1)) {
		httputil.WriteError(w, http.StatusBadRequest, "leverage must be at least 1")
		return
	}

	pnl, roi, err := stats.ComputePnl(req.PositionType, entry, exit, size, leverage)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	status := models.StatusPending
	if configs.AppConfig.Trades.AutoApprove {
		status = models.StatusApproved
	}

	trade := models.Trade{
		ExperienceID: experienceID,
		UserID:       userID,
		Username:     username,
		Symbol:       req.Symbol,
		PositionType: req.PositionType,
		AssetType:    req.AssetType,
		Leverage:     leverage.String(),
		EntryPrice:   entry.String(),
		ExitPrice:    exit.String(),
		PositionSize: size.String(),
		Pnl:          pnl.String(),
		Roi:          roi.String(),
		Status:       status,
		Screenshot:   req.Screenshot,
	}
	if err := store.DB.Create(&trade).Error; err != nil {
		logger.Log.Error("failed to create trade", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create trade")
		return
	}

	logger.Log.Info("trade submitted",
		zap.Uint("trade_id", trade.ID),
		zap.String("experience_id", experienceID),
		zap.String("user_id", userID),
		zap.String("symbol", trade.Symbol),
		zap.String("status", status))

	httputil.WriteJSON(w, http.StatusCreated, trade)
}

// RecentTradesHandler returns the latest approved trades of an experience.
func RecentTradesHandler(w http.ResponseWriter, r *http.Request) {
	experienceID := chi.URLParam(r, "experienceID")

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	var trades []models.Trade
	if err := store.DB.
		Where("experience_id = ? AND status = ?", experienceID, models.StatusApproved).
		Order("created_at desc").
		Limit(limit).
		Find(&trades).Error; err != nil {
		logger.Log.Error("failed to fetch trades", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to fetch trades")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, trades)
}

// AdminTradesHandler lists trades by workflow state for review, pending by
// default. Rejected trades stay queryable for audit.
func AdminTradesHandler(w http.ResponseWriter, r *http.Request) {
	experienceID := chi.URLParam(r, "experienceID")

	status := r.URL.Query().Get("status")
	if status == "" {
		status = models.StatusPending
	}
	if status != models.StatusPending && status != models.StatusApproved && status != models.StatusRejected {
		httputil.WriteError(w, http.StatusBadRequest, "status must be pending, approved or rejected")
		return
	}

	var trades []models.Trade
	if err := store.DB.
		Where("experience_id = ? AND status = ?", experienceID, status).
		Order("created_at desc").
		Find(&trades).Error; err != nil {
		logger.Log.Error("failed to fetch trades for review", zap.Error(err))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to fetch trades")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, trades)
}

// ApproveTradeHandler transitions a pending trade to approved.
func ApproveTradeHandler(w http.ResponseWriter, r *http.Request) {
	reviewTrade(w, r, models.StatusApproved)
}

// RejectTradeHandler transitions a pending trade to rejected.
func RejectTradeHandler(w http.ResponseWriter, r *http.Request) {
	reviewTrade(w, r, models.StatusRejected)
}

// reviewTrade applies the one-shot admin transition. The status guard in the
// WHERE clause makes the transition exactly-once: an already reviewed trade
// is never reopened, even by a concurrent admin.
func reviewTrade(w http.ResponseWriter, r *http.Request, newStatus string) {
	experienceID := chi.URLParam(r, "experienceID")
	tradeID, err := strconv.ParseUint(chi.URLParam(r, "tradeID"), 10, 64)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid trade id")
		return
	}

	res := store.DB.Model(&models.Trade{}).
		Where("id = ? AND experience_id = ? AND status = ?", tradeID, experienceID, models.StatusPending).
		Update("status", newStatus)
	if res.Error != nil {
		logger.Log.Error("failed to update trade status", zap.Error(res.Error))
		httputil.WriteError(w, http.StatusInternalServerError, "failed to update trade")
		return
	}
	if res.RowsAffected == 0 {
		httputil.WriteError(w, http.StatusConflict, "trade not found or already reviewed")
		return
	}

	logger.Log.Info("trade reviewed",
		zap.Uint64("trade_id", tradeID),
		zap.String("experience_id", experienceID),
		zap.String("status", newStatus))

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": newStatus})
}
