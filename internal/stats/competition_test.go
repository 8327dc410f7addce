package stats

import (
	"testing"
	"time"

	"github.com/ManxCat/tradeproof/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompetitionWindowWeekly(t *testing.T) {
	testCases := []struct {
		name          string
		now           time.Time
		expectedStart time.Time
	}{
		{
			"midweek",
			time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC), // Wednesday
			time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),   // Monday
		},
		{
			"monday morning",
			time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		},
		{
			"sunday belongs to the week started the prior monday",
			time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC), // Sunday
			time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := CompetitionWindow(models.PeriodWeekly, tc.now)
			assert.Equal(t, tc.expectedStart, w.Start)
			assert.Equal(t, tc.expectedStart.AddDate(0, 0, 7).Add(-time.Nanosecond), w.End)
		})
	}
}

func TestCompetitionWindowBoundaries(t *testing.T) {
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC) // Wednesday
	w := CompetitionWindow(models.PeriodWeekly, now)

	mondayMidnight := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	priorSundayLate := time.Date(2026, 8, 23, 23, 59, 59, 999000000, time.UTC)
	sundayLate := time.Date(2026, 8, 30, 23, 59, 59, 999000000, time.UTC)

	assert.True(t, w.Contains(mondayMidnight), "Monday 00:00:00 must be inside the window")
	assert.False(t, w.Contains(priorSundayLate), "the prior Sunday 23:59:59.999 must be outside")
	assert.True(t, w.Contains(sundayLate), "the closing Sunday 23:59:59.999 must be inside")
}

func TestCompetitionWindowDaily(t *testing.T) {
	now := time.Date(2026, 8, 26, 18, 45, 0, 0, time.UTC)
	w := CompetitionWindow(models.PeriodDaily, now)

	assert.Equal(t, time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), w.Start)
	assert.True(t, w.Contains(now))
	assert.False(t, w.Contains(now.AddDate(0, 0, 1)))
	assert.False(t, w.Contains(w.Start.Add(-time.Nanosecond)))
}

func TestCompetitionWindowMonthly(t *testing.T) {
	now := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)
	w := CompetitionWindow(models.PeriodMonthly, now)

	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.True(t, w.Contains(time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
}

func TestCompetitionStandings(t *testing.T) {
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC) // Wednesday
	inWeek := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	lastWeek := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)

	trades := []models.Trade{
		approvedTrade("user_1", "300", inWeek),
		approvedTrade("user_2", "200", inWeek),
		approvedTrade("user_3", "100", inWeek),
		approvedTrade("user_4", "50", inWeek),
		approvedTrade("user_5", "9999", lastWeek), // outside the window
	}

	c, err := CompetitionStandings(trades, models.PeriodWeekly, now)
	require.NoError(t, err)

	require.Len(t, c.Standings, 4, "last week's trade must not enter the standings")
	assert.Equal(t, 4, c.Participants)
	assert.Equal(t, models.PeriodWeekly, c.Period)

	for i, s := range c.Standings {
		assert.Equal(t, i+1, s.Rank)
		assert.Equal(t, s.Rank <= PrizeRanks, s.PrizeEligible)
	}
	assert.Equal(t, "user_1", c.Standings[0].UserID)
	assert.False(t, c.Standings[3].PrizeEligible)
}

func TestCompetitionStandingsAlwaysRankByPnl(t *testing.T) {
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	inWeek := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	// user_many has more trades but less P&L than user_big.
	trades := []models.Trade{
		approvedTrade("user_many", "10", inWeek),
		approvedTrade("user_many", "10", inWeek),
		approvedTrade("user_many", "10", inWeek),
		approvedTrade("user_big", "500", inWeek),
	}

	c, err := CompetitionStandings(trades, models.PeriodWeekly, now)
	require.NoError(t, err)
	require.Len(t, c.Standings, 2)
	assert.Equal(t, "user_big", c.Standings[0].UserID)
}

func TestCompetitionTimeRemaining(t *testing.T) {
	// Wednesday noon, weekly window ends Sunday night: 4.5 days left,
	// reported as 5 whole days.
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	c, err := CompetitionStandings(nil, models.PeriodWeekly, now)
	require.NoError(t, err)
	assert.Equal(t, "days", c.TimeUnit)
	assert.Equal(t, 5, c.TimeRemaining)

	// Daily periods count hours.
	c, err = CompetitionStandings(nil, models.PeriodDaily, now)
	require.NoError(t, err)
	assert.Equal(t, "hours", c.TimeUnit)
	assert.Equal(t, 12, c.TimeRemaining)
}

func TestCompetitionTimeRemainingNeverNegative(t *testing.T) {
	window := Window{
		Start: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 8, 30, 23, 59, 59, 0, time.UTC),
	}
	_, remaining := timeRemaining(models.PeriodWeekly, window, window.End.Add(time.Hour))
	assert.Equal(t, 0, remaining)
}

func TestCompetitionStandingsEmpty(t *testing.T) {
	c, err := CompetitionStandings(nil, models.PeriodWeekly, time.Now())
	require.NoError(t, err)
	assert.Empty(t, c.Standings)
	assert.Zero(t, c.Participants)
}
