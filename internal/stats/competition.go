package stats

import (
	"time"

	"github.com/ManxCat/tradeproof/internal/models"
)

// PrizeRanks is how many top standings are prize-eligible.
const PrizeRanks = 3

// Window is the current competition period, inclusive on both ends.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether a trade created at t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CompetitionWindow derives the current period window from the reference
// time. Weeks run Monday through Sunday regardless of locale; months are
// calendar months. The end is the last representable instant of the period.
func CompetitionWindow(period string, now time.Time) Window {
	var start, next time.Time

	switch period {
	case models.PeriodDaily:
		start = startOfDay(now)
		next = start.AddDate(0, 0, 1)
	case models.PeriodMonthly:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		next = start.AddDate(0, 1, 0)
	default: // weekly
		weekday := int(now.Weekday())
		if weekday == 0 { // Sunday belongs to the week that started the prior Monday
			weekday = 7
		}
		start = startOfDay(now).AddDate(0, 0, -(weekday - 1))
		next = start.AddDate(0, 0, 7)
	}

	return Window{Start: start, End: next.Add(-time.Nanosecond)}
}

// Standing is a competition leaderboard entry. Competitions always rank by
// total P&L within the window.
type Standing struct {
	Row
	PrizeEligible bool `json:"prize_eligible"`
}

// Competition is the current period's standings plus window metadata.
type Competition struct {
	Period        string     `json:"period"`
	Window        Window     `json:"window"`
	Standings     []Standing `json:"standings"`
	Participants  int        `json:"participants"`
	TimeRemaining int        `json:"time_remaining"`
	TimeUnit      string     `json:"time_unit"` // "hours" for daily, "days" otherwise
}

// CompetitionStandings restricts the trades to the current period window and
// ranks the per-trader P&L rollups. The top three ranks are prize-eligible.
func CompetitionStandings(trades []models.Trade, period string, now time.Time) (*Competition, error) {
	parsed, err := parseTrades(trades)
	if err != nil {
		return nil, err
	}

	window := CompetitionWindow(period, now)
	inWindow := make([]tradeValues, 0, len(parsed))
	for _, tv := range parsed {
		if window.Contains(tv.trade.CreatedAt) {
			inWindow = append(inWindow, tv)
		}
	}

	rows := leaderboardRows(inWindow, MetricPnl)
	standings := make([]Standing, len(rows))
	for i, row := range rows {
		standings[i] = Standing{Row: row, PrizeEligible: row.Rank <= PrizeRanks}
	}

	unit, remaining := timeRemaining(period, window, now)
	return &Competition{
		Period:        period,
		Window:        window,
		Standings:     standings,
		Participants:  len(standings),
		TimeRemaining: remaining,
		TimeUnit:      unit,
	}, nil
}

// timeRemaining counts whole units until the window closes, rounding up and
// never going negative.
func timeRemaining(period string, window Window, now time.Time) (string, int) {
	unit := 24 * time.Hour
	name := "days"
	if period == models.PeriodDaily {
		unit = time.Hour
		name = "hours"
	}

	left := window.End.Sub(now)
	if left < 0 {
		return name, 0
	}
	return name, int((left + unit - 1) / unit)
}
