package stats

import (
	"time"

	"github.com/ManxCat/tradeproof/internal/models"
	"github.com/shopspring/decimal"
)

var bigTradeThreshold = decimal.NewFromInt(5000)

// Challenge is one daily tracker. Progress and Target only feed progress-bar
// scaling; Completed is the authoritative state.
type Challenge struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Progress    float64 `json:"progress"`
	Target      float64 `json:"target"`
	Completed   bool    `json:"completed"`
	Reward      int     `json:"reward"`
}

// ChallengeBoard is one trader's daily challenge state.
type ChallengeBoard struct {
	Challenges     []Challenge `json:"challenges"`
	CompletedCount int         `json:"completed_count"`
	TotalReward    int         `json:"total_reward"`
}

// DailyChallenges evaluates the four daily trackers against the trades one
// trader created on the reference date. Challenges reset at local midnight.
func DailyChallenges(trades []models.Trade, now time.Time) (*ChallengeBoard, error) {
	parsed, err := parseTrades(trades)
	if err != nil {
		return nil, err
	}

	dayStart := startOfDay(now)
	dayEnd := dayStart.AddDate(0, 0, 1)

	posted := 0
	wins := 0
	dayPnl := decimal.Zero
	hasBigTrade := false
	for _, tv := range parsed {
		created := tv.trade.CreatedAt
		if created.Before(dayStart) || !created.Before(dayEnd) {
			continue
		}
		posted++
		if tv.pnl.Sign() > 0 {
			wins++
		}
		dayPnl = dayPnl.Add(tv.pnl)
		if tv.size.GreaterThanOrEqual(bigTradeThreshold) {
			hasBigTrade = true
		}
	}

	dayWinRate := winRate(wins, posted)
	pnlProgress := dayPnl.InexactFloat64()
	if pnlProgress < 0 {
		pnlProgress = 0
	}
	bigProgress := 0.0
	if hasBigTrade {
		bigProgress = 1
	}

	board := &ChallengeBoard{
		Challenges: []Challenge{
			{
				ID:          "daily_trades",
				Name:        "Active Trader",
				Description: "Post 3 trades today",
				Progress:    float64(posted),
				Target:      3,
				Completed:   posted >= 3,
				Reward:      50,
			},
			{
				ID:          "win_rate",
				Name:        "Winning Streak",
				Description: "Achieve 60% win rate today (min 3 trades)",
				Progress:    min(dayWinRate, 60),
				Target:      60,
				Completed:   dayWinRate >= 60 && posted >= 3,
				Reward:      100,
			},
			{
				ID:          "profitable_day",
				Name:        "Green Day",
				Description: "End the day profitable",
				Progress:    pnlProgress,
				Target:      100, // progress-bar scale only
				Completed:   dayPnl.Sign() > 0,
				Reward:      75,
			},
			{
				ID:          "big_trade",
				Name:        "Go Big",
				Description: "Trade with $5,000+ position",
				Progress:    bigProgress,
				Target:      1,
				Completed:   hasBigTrade,
				Reward:      150,
			},
		},
	}

	for _, c := range board.Challenges {
		if c.Completed {
			board.CompletedCount++
			board.TotalReward += c.Reward
		}
	}
	return board, nil
}
