// Package stats computes every derived trading statistic served by the
// application: leaderboards, competition standings, per-trader profiles,
// achievements, daily challenges, and trader levels. It is the single source
// of truth for that arithmetic; handlers never re-derive it.
//
// All functions are pure. They take a snapshot of trade rows, already
// filtered by the caller to one experience (and to approved status where
// required) and ordered most recent first, plus a reference time where a
// period is involved. Empty input always yields the zero-value result, never
// an error. The only failure mode is a persisted numeric column that fails
// to parse, reported as *DataIntegrityError so a bad row can never leak NaN
// into a ranking.
package stats

import (
	"fmt"
	"time"

	"github.com/ManxCat/tradeproof/internal/models"
	"github.com/shopspring/decimal"
)

// DataIntegrityError reports a persisted trade field that could not be
// parsed as a decimal. It is fatal to the whole computation: results are
// complete and consistent, or absent.
type DataIntegrityError struct {
	TradeID uint
	Field   string
	Value   string
	Err     error
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("trade %d: field %q holds unparseable value %q: %v", e.TradeID, e.Field, e.Value, e.Err)
}

func (e *DataIntegrityError) Unwrap() error { return e.Err }

// tradeValues is one trade with its economics parsed. Slices of tradeValues
// keep the input order (most recent first).
type tradeValues struct {
	trade models.Trade
	pnl   decimal.Decimal
	roi   decimal.Decimal
	size  decimal.Decimal
}

func parseField(t *models.Trade, field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, &DataIntegrityError{TradeID: t.ID, Field: field, Value: value, Err: err}
	}
	return d, nil
}

func parseTrades(trades []models.Trade) ([]tradeValues, error) {
	parsed := make([]tradeValues, 0, len(trades))
	for i := range trades {
		t := &trades[i]
		pnl, err := parseField(t, "pnl", t.Pnl)
		if err != nil {
			return nil, err
		}
		roi, err := parseField(t, "roi", t.Roi)
		if err != nil {
			return nil, err
		}
		size, err := parseField(t, "position_size", t.PositionSize)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, tradeValues{trade: *t, pnl: pnl, roi: roi, size: size})
	}
	return parsed, nil
}

var oneHundred = decimal.NewFromInt(100)

// ComputePnl derives profit-and-loss and return-on-investment for a closed
// position. It is applied exactly once, when the trade is recorded; the
// stored values are immutable afterwards.
//
// Long:  pnl = ((exit - entry) / entry) * size * leverage
// Short: pnl = ((entry - exit) / entry) * size * leverage
// ROI is the same price move as a percentage, without size or leverage.
func ComputePnl(positionType string, entry, exit, size, leverage decimal.Decimal) (pnl, roi decimal.Decimal, err error) {
	if entry.Sign() <= 0 {
		return decimal.Zero, decimal.Zero, fmt.Errorf("entry price must be positive, got %s", entry)
	}

	diff := exit.Sub(entry)
	if positionType == models.PositionShort {
		diff = entry.Sub(exit)
	}

	move := diff.Div(entry)
	pnl = move.Mul(size).Mul(leverage)
	roi = move.Mul(oneHundred)
	return pnl, roi, nil
}

// winRate returns winning/total as a percentage, 0 when total is 0.
func winRate(winning, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(winning) / float64(total) * 100
}

// TraderStats is the per-trader profile rollup over approved trades.
type TraderStats struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`

	TotalPnl      decimal.Decimal `json:"total_pnl"`
	TotalTrades   int             `json:"total_trades"`
	WinningTrades int             `json:"winning_trades"`
	LosingTrades  int             `json:"losing_trades"`
	WinRate       float64         `json:"win_rate"`
	AvgPnl        decimal.Decimal `json:"avg_pnl"`
	AvgRoi        decimal.Decimal `json:"avg_roi"`
	BestTrade     decimal.Decimal `json:"best_trade"`
	WorstTrade    decimal.Decimal `json:"worst_trade"`

	// CurrentStreak is the trailing run of same-sign trades; StreakType is
	// "win" or "loss", or empty when there is no active streak.
	CurrentStreak int    `json:"current_streak"`
	StreakType    string `json:"streak_type"`
}

// ProfileStats aggregates one trader's approved trades, ordered most recent
// first. An empty slice yields all-zero stats.
func ProfileStats(trades []models.Trade) (*TraderStats, error) {
	parsed, err := parseTrades(trades)
	if err != nil {
		return nil, err
	}

	s := &TraderStats{
		TotalPnl:   decimal.Zero,
		AvgPnl:     decimal.Zero,
		AvgRoi:     decimal.Zero,
		BestTrade:  decimal.Zero,
		WorstTrade: decimal.Zero,
	}
	if len(parsed) == 0 {
		return s, nil
	}

	s.UserID = parsed[0].trade.UserID
	s.Username = parsed[0].trade.Username

	sumRoi := decimal.Zero
	for i, tv := range parsed {
		s.TotalTrades++
		s.TotalPnl = s.TotalPnl.Add(tv.pnl)
		sumRoi = sumRoi.Add(tv.roi)
		switch tv.pnl.Sign() {
		case 1:
			s.WinningTrades++
		case -1:
			s.LosingTrades++
		}
		if i == 0 || tv.pnl.GreaterThan(s.BestTrade) {
			s.BestTrade = tv.pnl
		}
		if i == 0 || tv.pnl.LessThan(s.WorstTrade) {
			s.WorstTrade = tv.pnl
		}
	}

	total := decimal.NewFromInt(int64(s.TotalTrades))
	s.WinRate = winRate(s.WinningTrades, s.TotalTrades)
	s.AvgPnl = s.TotalPnl.Div(total)
	s.AvgRoi = sumRoi.Div(total)
	s.CurrentStreak, s.StreakType = currentStreak(parsed)

	return s, nil
}

// currentStreak counts the trailing run of same-sign trades, scanning from
// the most recent trade backwards. A zero-P&L trade is neither a win nor a
// loss: it terminates any active streak.
func currentStreak(parsed []tradeValues) (int, string) {
	if len(parsed) == 0 {
		return 0, ""
	}
	sign := parsed[0].pnl.Sign()
	if sign == 0 {
		return 0, ""
	}

	streak := 0
	for _, tv := range parsed {
		if tv.pnl.Sign() != sign {
			break
		}
		streak++
	}

	if sign > 0 {
		return streak, "win"
	}
	return streak, "loss"
}

// CommunityOverview is the experience-wide dashboard rollup.
type CommunityOverview struct {
	TotalPnl      decimal.Decimal `json:"total_pnl"`
	TotalTrades   int             `json:"total_trades"`
	WinningTrades int             `json:"winning_trades"`
	WinRate       float64         `json:"win_rate"`
	TradesToday   int             `json:"trades_today"`
	TopTrader     *Row            `json:"top_trader,omitempty"`
}

// CommunityStats summarizes all approved trades of an experience for the
// dashboard header. The top trader is the leader by total P&L.
func CommunityStats(trades []models.Trade, now time.Time) (*CommunityOverview, error) {
	parsed, err := parseTrades(trades)
	if err != nil {
		return nil, err
	}

	o := &CommunityOverview{TotalPnl: decimal.Zero}
	dayStart := startOfDay(now)
	for _, tv := range parsed {
		o.TotalTrades++
		o.TotalPnl = o.TotalPnl.Add(tv.pnl)
		if tv.pnl.Sign() > 0 {
			o.WinningTrades++
		}
		if !tv.trade.CreatedAt.Before(dayStart) && tv.trade.CreatedAt.Before(dayStart.AddDate(0, 0, 1)) {
			o.TradesToday++
		}
	}
	o.WinRate = winRate(o.WinningTrades, o.TotalTrades)

	rows := leaderboardRows(parsed, MetricPnl)
	if len(rows) > 0 {
		o.TopTrader = &rows[0]
	}
	return o, nil
}
