package stats

import (
	"testing"
	"time"

	"github.com/ManxCat/tradeproof/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func challengeByID(t *testing.T, board *ChallengeBoard, id string) Challenge {
	t.Helper()
	for _, c := range board.Challenges {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("challenge %q not found", id)
	return Challenge{}
}

func TestDailyChallengesNoTradesToday(t *testing.T) {
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)

	board, err := DailyChallenges([]models.Trade{
		approvedTrade("user_1", "100", yesterday),
	}, now)
	require.NoError(t, err)

	require.Len(t, board.Challenges, 4)
	for _, c := range board.Challenges {
		assert.False(t, c.Completed, "challenge %s must be incomplete", c.ID)
	}
	assert.Zero(t, board.CompletedCount)
	assert.Zero(t, board.TotalReward)
}

func TestDailyChallengesFullHouse(t *testing.T) {
	now := time.Date(2026, 8, 26, 18, 0, 0, 0, time.UTC)
	morning := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)

	trades := []models.Trade{
		withSize(approvedTrade("user_1", "200", morning), "6000"),
		approvedTrade("user_1", "50", morning.Add(time.Hour)),
		approvedTrade("user_1", "25", morning.Add(2*time.Hour)),
	}

	board, err := DailyChallenges(trades, now)
	require.NoError(t, err)

	assert.Equal(t, 4, board.CompletedCount)
	assert.Equal(t, 50+100+75+150, board.TotalReward)
}

func TestDailyChallengeWinRateNeedsThreeTrades(t *testing.T) {
	now := time.Date(2026, 8, 26, 18, 0, 0, 0, time.UTC)
	morning := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)

	trades := []models.Trade{
		approvedTrade("user_1", "50", morning),
		approvedTrade("user_1", "25", morning.Add(time.Hour)),
	}

	board, err := DailyChallenges(trades, now)
	require.NoError(t, err)

	winRateChallenge := challengeByID(t, board, "win_rate")
	assert.False(t, winRateChallenge.Completed, "100%% win rate on 2 trades must not complete the challenge")

	postChallenge := challengeByID(t, board, "daily_trades")
	assert.False(t, postChallenge.Completed)
	assert.Equal(t, float64(2), postChallenge.Progress)
}

func TestDailyChallengeGreenDayIsStrictlyPositive(t *testing.T) {
	now := time.Date(2026, 8, 26, 18, 0, 0, 0, time.UTC)
	morning := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)

	flat := []models.Trade{
		approvedTrade("user_1", "10", morning),
		approvedTrade("user_1", "-10", morning.Add(time.Hour)),
	}

	board, err := DailyChallenges(flat, now)
	require.NoError(t, err)

	greenDay := challengeByID(t, board, "profitable_day")
	assert.False(t, greenDay.Completed)
	assert.Zero(t, greenDay.Progress)
}

func TestDailyChallengeBigTradeThreshold(t *testing.T) {
	now := time.Date(2026, 8, 26, 18, 0, 0, 0, time.UTC)
	morning := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)

	board, err := DailyChallenges([]models.Trade{
		withSize(approvedTrade("user_1", "-100", morning), "5000"),
	}, now)
	require.NoError(t, err)

	bigTrade := challengeByID(t, board, "big_trade")
	assert.True(t, bigTrade.Completed, "a losing trade still counts toward position size")

	board, err = DailyChallenges([]models.Trade{
		withSize(approvedTrade("user_1", "100", morning), "4999.99"),
	}, now)
	require.NoError(t, err)
	assert.False(t, challengeByID(t, board, "big_trade").Completed)
}

func TestDailyChallengesEmpty(t *testing.T) {
	board, err := DailyChallenges(nil, time.Now())
	require.NoError(t, err)
	require.Len(t, board.Challenges, 4)
	assert.Zero(t, board.CompletedCount)
	assert.Zero(t, board.TotalReward)
}
