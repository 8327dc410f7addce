package stats

import (
	"github.com/ManxCat/tradeproof/internal/models"
	"github.com/shopspring/decimal"
)

// Achievement ids. The catalog is fixed; every predicate is evaluated over a
// trader's full approved history, never time-windowed.
const (
	AchievementFirstBlood  = "first_blood"  // posted at least one trade
	AchievementProfitable  = "profitable"   // cumulative P&L strictly positive
	AchievementCenturyClub = "century_club" // 100+ trades
	AchievementWhale       = "whale"        // any single position of $10,000+
	AchievementHotStreak   = "hot_streak"   // 3+ winning trades in a row
	AchievementPerfectWeek = "perfect_week" // 100% win rate with 5+ trades
	AchievementComebackKid = "comeback_kid" // had a 3+ loss run and a 3+ win run
	AchievementDiamondHand = "diamond_hands"
)

// AchievementCatalogSize is the number of badges a trader can earn.
const AchievementCatalogSize = 8

var (
	whaleThreshold = decimal.NewFromInt(10000)
)

// Achievements evaluates the badge catalog for one trader's approved trades,
// ordered most recent first. Returned ids are in catalog order.
//
// Two catalog quirks are preserved on purpose: comeback_kid does not require
// the win run to come after the loss run, and diamond_hands ("10+
// consecutive trades") reduces to a plain 10-trade count because nothing
// segments the history.
func Achievements(trades []models.Trade) ([]string, error) {
	parsed, err := parseTrades(trades)
	if err != nil {
		return nil, err
	}

	earned := make([]string, 0, AchievementCatalogSize)
	if len(parsed) == 0 {
		return earned, nil
	}

	earned = append(earned, AchievementFirstBlood)

	totalPnl := decimal.Zero
	winning := 0
	hasWhale := false
	for _, tv := range parsed {
		totalPnl = totalPnl.Add(tv.pnl)
		if tv.pnl.Sign() > 0 {
			winning++
		}
		if tv.size.GreaterThanOrEqual(whaleThreshold) {
			hasWhale = true
		}
	}

	if totalPnl.Sign() > 0 {
		earned = append(earned, AchievementProfitable)
	}
	if len(parsed) >= 100 {
		earned = append(earned, AchievementCenturyClub)
	}
	if hasWhale {
		earned = append(earned, AchievementWhale)
	}

	maxWinRun, maxLossRun := maxRuns(parsed)
	if maxWinRun >= 3 {
		earned = append(earned, AchievementHotStreak)
	}
	if len(parsed) >= 5 && winning == len(parsed) {
		earned = append(earned, AchievementPerfectWeek)
	}
	if maxLossRun >= 3 && maxWinRun >= 3 {
		earned = append(earned, AchievementComebackKid)
	}
	if len(parsed) >= 10 {
		earned = append(earned, AchievementDiamondHand)
	}

	return earned, nil
}

// maxRuns finds the longest winning and losing runs, scanning oldest to
// newest. A zero-P&L trade breaks both runs.
func maxRuns(parsed []tradeValues) (maxWin, maxLoss int) {
	winRun, lossRun := 0, 0
	for i := len(parsed) - 1; i >= 0; i-- {
		switch parsed[i].pnl.Sign() {
		case 1:
			winRun++
			lossRun = 0
		case -1:
			lossRun++
			winRun = 0
		default:
			winRun, lossRun = 0, 0
		}
		if winRun > maxWin {
			maxWin = winRun
		}
		if lossRun > maxLoss {
			maxLoss = lossRun
		}
	}
	return maxWin, maxLoss
}
