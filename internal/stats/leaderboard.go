package stats

import (
	"sort"

	"github.com/ManxCat/tradeproof/internal/models"
	"github.com/shopspring/decimal"
)

// Metric selects the leaderboard ranking dimension. Per-trader totals are the
// same for every metric; only the sort order changes.
type Metric string

const (
	MetricPnl     Metric = "pnl"
	MetricRoi     Metric = "roi"
	MetricWinRate Metric = "winrate"
	MetricTrades  Metric = "trades"
)

// ParseMetric maps a query-string value onto a Metric, defaulting to total
// P&L for empty or unknown input.
func ParseMetric(s string) Metric {
	switch Metric(s) {
	case MetricRoi, MetricWinRate, MetricTrades:
		return Metric(s)
	default:
		return MetricPnl
	}
}

// Row is one leaderboard entry.
type Row struct {
	UserID        string          `json:"user_id"`
	Username      string          `json:"username"`
	TotalPnl      decimal.Decimal `json:"total_pnl"`
	TotalTrades   int             `json:"total_trades"`
	WinningTrades int             `json:"winning_trades"`
	LosingTrades  int             `json:"losing_trades"`
	WinRate       float64         `json:"win_rate"`
	AvgRoi        decimal.Decimal `json:"avg_roi"`
	Rank          int             `json:"rank"`
}

// Leaderboard groups trades by trader and ranks the rollups by the given
// metric: descending stable sort, 1-based sequential ranks. Ties keep the
// first-seen order of the input, so the result is deterministic for a given
// snapshot.
func Leaderboard(trades []models.Trade, metric Metric) ([]Row, error) {
	parsed, err := parseTrades(trades)
	if err != nil {
		return nil, err
	}
	return leaderboardRows(parsed, metric), nil
}

func leaderboardRows(parsed []tradeValues, metric Metric) []Row {
	index := make(map[string]int)
	rows := make([]Row, 0)
	sumRoi := make([]decimal.Decimal, 0)

	for _, tv := range parsed {
		i, ok := index[tv.trade.UserID]
		if !ok {
			i = len(rows)
			index[tv.trade.UserID] = i
			rows = append(rows, Row{
				UserID:   tv.trade.UserID,
				Username: tv.trade.Username,
				TotalPnl: decimal.Zero,
				AvgRoi:   decimal.Zero,
			})
			sumRoi = append(sumRoi, decimal.Zero)
		}

		rows[i].TotalTrades++
		rows[i].TotalPnl = rows[i].TotalPnl.Add(tv.pnl)
		sumRoi[i] = sumRoi[i].Add(tv.roi)
		switch tv.pnl.Sign() {
		case 1:
			rows[i].WinningTrades++
		case -1:
			rows[i].LosingTrades++
		}
		// Prefer a non-empty display name from any of the trader's rows.
		if rows[i].Username == "" && tv.trade.Username != "" {
			rows[i].Username = tv.trade.Username
		}
	}

	for i := range rows {
		rows[i].WinRate = winRate(rows[i].WinningTrades, rows[i].TotalTrades)
		rows[i].AvgRoi = sumRoi[i].Div(decimal.NewFromInt(int64(rows[i].TotalTrades)))
	}

	sort.SliceStable(rows, func(a, b int) bool {
		switch metric {
		case MetricRoi:
			return rows[a].AvgRoi.GreaterThan(rows[b].AvgRoi)
		case MetricWinRate:
			return rows[a].WinRate > rows[b].WinRate
		case MetricTrades:
			return rows[a].TotalTrades > rows[b].TotalTrades
		default:
			return rows[a].TotalPnl.GreaterThan(rows[b].TotalPnl)
		}
	})

	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}
