package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/cards-against-humanity/internal/protocol"
)

func newTestLeaderboardManager(t *testing.T) (*LeaderboardManager, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	lm := NewLeaderboardManager(client)
	return lm, mr
}

func TestLeaderboard_RecordGameResult_NewPlayer(t *testing.T) {
	t.Parallel()

	lm, mr := newTestLeaderboardManager(t)
	defer mr.Close()
	ctx := context.Background()

	// 新玩家：赢下整局，3 轮胜利
	err := lm.RecordGameResult(ctx, protocol.PlayerInfo{ID: 1, Name: "Alice"}, 3, true)
	assert.NoError(t, err)

	stats, err := lm.GetPlayerStats(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, stats)

	assert.Equal(t, 1, stats.PlayerID)
	assert.Equal(t, "Alice", stats.PlayerName)
	assert.Equal(t, 1, stats.TotalGames)
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 3, stats.RoundsWon)
	assert.Equal(t, 26, stats.Score) // 20 + 3*2
	assert.Equal(t, 1, stats.CurrentStreak)
}

func TestLeaderboard_RecordGameResult_Update(t *testing.T) {
	t.Parallel()

	lm, mr := newTestLeaderboardManager(t)
	defer mr.Close()
	ctx := context.Background()

	p := protocol.PlayerInfo{ID: 1, Name: "Alice"}

	// 第一局：获胜 0 轮胜利 -> 20
	err := lm.RecordGameResult(ctx, p, 0, true)
	assert.NoError(t, err)

	// 第二局：失败 1 轮胜利 -> 20 + 2 - 5 = 17
	err = lm.RecordGameResult(ctx, p, 1, false)
	assert.NoError(t, err)

	stats, err := lm.GetPlayerStats(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, stats)

	assert.Equal(t, 2, stats.TotalGames)
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 1, stats.Losses)
	assert.Equal(t, 1, stats.RoundsWon)
	assert.Equal(t, 17, stats.Score)
	assert.Equal(t, -1, stats.CurrentStreak)
}

func TestLeaderboard_ScoreNeverNegative(t *testing.T) {
	t.Parallel()

	lm, mr := newTestLeaderboardManager(t)
	defer mr.Close()
	ctx := context.Background()

	p := protocol.PlayerInfo{ID: 1, Name: "Alice"}
	for i := 0; i < 3; i++ {
		require.NoError(t, lm.RecordGameResult(ctx, p, 0, false))
	}

	stats, err := lm.GetPlayerStats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Score)
	assert.Equal(t, -3, stats.CurrentStreak)
}

func TestLeaderboard_StreakBonus(t *testing.T) {
	t.Parallel()

	lm, mr := newTestLeaderboardManager(t)
	defer mr.Close()
	ctx := context.Background()

	p := protocol.PlayerInfo{ID: 1, Name: "Alice"}

	// 连胜三局（每局 0 轮胜利）
	// 第一局 20，第二局 20，第三局 20 + 连胜加成 5
	for i := 0; i < 3; i++ {
		require.NoError(t, lm.RecordGameResult(ctx, p, 0, true))
	}

	stats, err := lm.GetPlayerStats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 65, stats.Score)
	assert.Equal(t, 3, stats.CurrentStreak)
	assert.Equal(t, 3, stats.MaxWinStreak)
}

func TestLeaderboard_GetLeaderboard(t *testing.T) {
	t.Parallel()

	lm, mr := newTestLeaderboardManager(t)
	defer mr.Close()
	ctx := context.Background()

	// Alice 26 分，Bob 20 分，Carol 输一局 0 分
	require.NoError(t, lm.RecordGameResult(ctx, protocol.PlayerInfo{ID: 1, Name: "Alice"}, 3, true))
	require.NoError(t, lm.RecordGameResult(ctx, protocol.PlayerInfo{ID: 2, Name: "Bob"}, 0, true))
	require.NoError(t, lm.RecordGameResult(ctx, protocol.PlayerInfo{ID: 3, Name: "Carol"}, 0, false))

	entries, err := lm.GetLeaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "Alice", entries[0].PlayerName)
	assert.Equal(t, 26, entries[0].Score)
	assert.Equal(t, "Bob", entries[1].PlayerName)
	assert.Equal(t, "Carol", entries[2].PlayerName)
	assert.Equal(t, float64(100), entries[0].WinRate)
	assert.Equal(t, float64(0), entries[2].WinRate)
}

func TestLeaderboard_GetPlayerRank(t *testing.T) {
	t.Parallel()

	lm, mr := newTestLeaderboardManager(t)
	defer mr.Close()
	ctx := context.Background()

	require.NoError(t, lm.RecordGameResult(ctx, protocol.PlayerInfo{ID: 1, Name: "Alice"}, 3, true))
	require.NoError(t, lm.RecordGameResult(ctx, protocol.PlayerInfo{ID: 2, Name: "Bob"}, 0, true))

	rank, err := lm.GetPlayerRank(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rank)

	rank, err = lm.GetPlayerRank(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rank)

	rank, err = lm.GetPlayerRank(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), rank, "未上榜玩家返回 -1")
}
