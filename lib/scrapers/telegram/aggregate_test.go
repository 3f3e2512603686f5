package telegram

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAvgPostsPerDay(t *testing.T) {
	posts := []Post{
		{Timestamp: strPtr("2024-03-02T10:00:00+00:00")},
		{Timestamp: strPtr("2024-03-02T08:00:00+00:00")},
		{Timestamp: strPtr("2024-03-01T20:00:00+00:00")},
		{Timestamp: strPtr("2024-02-29T23:30:00+00:00")},
		{Timestamp: nil},
	}
	// 4 dated posts over 3 distinct days, round(4/3) == 1
	require.Equal(t, intPtr(1), avgPostsPerDay(posts))
}

func TestAvgPostsPerDayGroupsByUTCDate(t *testing.T) {
	posts := []Post{
		// both land on 2024-03-01 once normalized to UTC
		{Timestamp: strPtr("2024-03-02T01:00:00+03:00")},
		{Timestamp: strPtr("2024-03-01T12:00:00+00:00")},
	}
	require.Equal(t, intPtr(2), avgPostsPerDay(posts))
}

func TestAvgPostsPerDaySalvagesDateOnly(t *testing.T) {
	posts := []Post{
		{Timestamp: strPtr("2024-03-01 something unparseable")},
		{Timestamp: strPtr("2024-03-01T09:00:00+00:00")},
	}
	require.Equal(t, intPtr(2), avgPostsPerDay(posts))
}

func TestAvgPostsPerDayNoTimestamps(t *testing.T) {
	require.Nil(t, avgPostsPerDay(nil))
	require.Nil(t, avgPostsPerDay([]Post{{Timestamp: nil}}))
}

func TestAvgViewsPerPostCountsMissingAsZero(t *testing.T) {
	posts := []Post{
		{ViewsCount: intPtr(100)},
		{ViewsCount: nil},
	}
	require.Equal(t, intPtr(50), avgViewsPerPost(posts))
}

func TestAvgCommentsPerPostSkipsAbsent(t *testing.T) {
	posts := []Post{
		{CommentsCount: intPtr(5)},
		{CommentsCount: intPtr(0)},
		{CommentsCount: intPtr(2)},
		{CommentsCount: nil},
	}
	// the nil post is excluded from the denominator too, round(7/3) == 2
	require.Equal(t, intPtr(2), avgCommentsPerPost(posts))
}

func TestAvgCommentsPerPostAllAbsent(t *testing.T) {
	require.Nil(t, avgCommentsPerPost([]Post{{}, {}}))
}

func TestAvgReactionsPerPost(t *testing.T) {
	posts := []Post{
		{ReactionsCount: 1250},
		{ReactionsCount: 0},
	}
	require.Equal(t, intPtr(625), avgReactionsPerPost(posts))
}

func TestAggregatesRoundHalfUp(t *testing.T) {
	posts := []Post{
		{ViewsCount: intPtr(2)},
		{ViewsCount: intPtr(3)},
	}
	require.Equal(t, intPtr(3), avgViewsPerPost(posts))
}

func TestComputeAggregatesEmpty(t *testing.T) {
	meta := ChannelMeta{Username: "durov"}
	computeAggregates(&meta, nil)
	require.Nil(t, meta.AvgPostsPerDay)
	require.Nil(t, meta.AvgViewsPerPost)
	require.Nil(t, meta.AvgCommentsPerPost)
	require.Nil(t, meta.AvgReactionsPerPost)
}
