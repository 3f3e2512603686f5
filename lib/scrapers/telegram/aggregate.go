package telegram

import (
	"math"
	"time"
)

// Channel-level reductions over the finished post list. Every reduction
// returns nil, not zero, when no qualifying posts exist so "no data" stays
// distinguishable from "all zero".

func computeAggregates(meta *ChannelMeta, posts []Post) {
	meta.AvgPostsPerDay = avgPostsPerDay(posts)
	meta.AvgViewsPerPost = avgViewsPerPost(posts)
	meta.AvgCommentsPerPost = avgCommentsPerPost(posts)
	meta.AvgReactionsPerPost = avgReactionsPerPost(posts)
}

func roundMean(total, n int) *int {
	mean := int(math.Round(float64(total) / float64(n)))
	return &mean
}

// avgPostsPerDay groups posts by UTC calendar date. Posts without a
// parseable timestamp are excluded from the grouping entirely.
func avgPostsPerDay(posts []Post) *int {
	dayCounts := map[string]int{}
	for _, post := range posts {
		if post.Timestamp == nil {
			continue
		}
		ts := *post.Timestamp
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			dayCounts[t.UTC().Format("2006-01-02")]++
			continue
		}
		// salvage the date part of an almost-ISO string
		if len(ts) >= 10 && ts[4] == '-' && ts[7] == '-' {
			dayCounts[ts[:10]]++
		}
	}

	if len(dayCounts) == 0 {
		return nil
	}
	total := 0
	for _, n := range dayCounts {
		total += n
	}
	return roundMean(total, len(dayCounts))
}

// avgViewsPerPost treats a missing views counter as zero but still counts
// the post in the denominator.
func avgViewsPerPost(posts []Post) *int {
	if len(posts) == 0 {
		return nil
	}
	total := 0
	for _, post := range posts {
		if post.ViewsCount != nil {
			total += *post.ViewsCount
		}
	}
	return roundMean(total, len(posts))
}

// avgCommentsPerPost skips posts without a comment indicator in both the
// numerator and the denominator: nil means the feature is absent, not that
// the count is zero.
func avgCommentsPerPost(posts []Post) *int {
	total := 0
	n := 0
	for _, post := range posts {
		if post.CommentsCount == nil {
			continue
		}
		total += *post.CommentsCount
		n++
	}
	if n == 0 {
		return nil
	}
	return roundMean(total, n)
}

func avgReactionsPerPost(posts []Post) *int {
	if len(posts) == 0 {
		return nil
	}
	total := 0
	for _, post := range posts {
		total += post.ReactionsCount
	}
	return roundMean(total, len(posts))
}
