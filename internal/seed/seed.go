package seed

import (
	"time"

	"github.com/ManxCat/tradeproof/configs"
	"github.com/ManxCat/tradeproof/internal/logger"
	"github.com/ManxCat/tradeproof/internal/models"
	"github.com/ManxCat/tradeproof/internal/stats"
	"github.com/ManxCat/tradeproof/internal/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type seedTrade struct {
	UserID       string
	Username     string
	Symbol       string
	PositionType string
	AssetType    string
	Leverage     string
	EntryPrice   string
	ExitPrice    string
	PositionSize string
	DaysAgo      int
}

var demoTrades = []seedTrade{
	{"user_ava", "ava", "AAPL", "long", "stock", "1", "180.00", "189.00", "2000.00", 6},
	{"user_ava", "ava", "TSLA", "short", "stock", "1", "250.00", "240.00", "1500.00", 4},
	{"user_ava", "ava", "BTC/USD", "long", "crypto", "3", "60000.00", "58500.00", "1000.00", 2},
	{"user_ben", "ben", "SPY 450C", "long", "option", "1", "2.50", "3.10", "500.00", 5},
	{"user_ben", "ben", "NVDA", "long", "stock", "2", "700.00", "735.00", "5000.00", 1},
	{"user_ben", "ben", "ETH/USD", "short", "crypto", "5", "3200.00", "3350.00", "800.00", 0},
	{"user_cleo", "cleo", "ES", "long", "futures", "10", "5100.00", "5135.00", "12000.00", 3},
	{"user_cleo", "cleo", "MSFT", "long", "stock", "1", "410.00", "404.00", "2500.00", 0},
}

// Run seeds a demo experience with a few approved trades so the dashboard
// has something to show out of the box. Safe to run repeatedly.
func Run() {
	if !configs.AppConfig.Seed.Enabled {
		return
	}
	experienceID := configs.AppConfig.Seed.ExperienceID

	db := store.DB
	var count int64
	if err := db.Model(&models.Trade{}).Where("experience_id = ?", experienceID).Count(&count).Error; err != nil {
		logger.Log.Fatal("seed check failed", zap.Error(err))
	}
	if count > 0 {
		logger.Log.Info("seed already applied, skipping")
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, st := range demoTrades {
			entry := decimal.RequireFromString(st.EntryPrice)
			exit := decimal.RequireFromString(st.ExitPrice)
			size := decimal.RequireFromString(st.PositionSize)
			leverage := decimal.RequireFromString(st.Leverage)

			pnl, roi, err := stats.ComputePnl(st.PositionType, entry, exit, size, leverage)
			if err != nil {
				return err
			}

			trade := models.Trade{
				ExperienceID: experienceID,
				UserID:       st.UserID,
				Username:     st.Username,
				Symbol:       st.Symbol,
				PositionType: st.PositionType,
				AssetType:    st.AssetType,
				Leverage:     st.Leverage,
				EntryPrice:   st.EntryPrice,
				ExitPrice:    st.ExitPrice,
				PositionSize: st.PositionSize,
				Pnl:          pnl.String(),
				Roi:          roi.String(),
				Status:       models.StatusApproved,
			}
			if err := tx.Create(&trade).Error; err != nil {
				return err
			}
			createdAt := time.Now().AddDate(0, 0, -st.DaysAgo)
			if err := tx.Model(&trade).Update("created_at", createdAt).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Log.Fatal("seed failed", zap.Error(err))
	}
	logger.Log.Info("seeded demo trades",
		zap.String("experience_id", experienceID),
		zap.Int("trades", len(demoTrades)))
}
