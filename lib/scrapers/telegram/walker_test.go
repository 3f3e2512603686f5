package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"telechan-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

// channelServer serves the fixture pages keyed by ?before= cursor and keeps
// the order of cursors it saw.
func channelServer(t *testing.T, pages map[string]string) (*httptest.Server, *[]string) {
	var cursors []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/s/durov", r.URL.Path)
		before := r.URL.Query().Get("before")
		cursors = append(cursors, before)

		fixture, ok := pages[before]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		raw, err := os.ReadFile(filepath.Join("testdata", fixture))
		require.NoError(t, err)
		w.Write(raw)
	}))
	t.Cleanup(server.Close)
	return server, &cursors
}

func TestScrapeChannelWalk(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "telegram-scraper-test")
	defer cleanup()

	server, cursors := channelServer(t, map[string]string{
		"":   "page1.html",
		"99": "page2.html",
		"97": "empty.html",
	})

	scraper := NewScraper(NewClient(ClientOptions{BaseUrl: server.URL}), ScraperOptions{})
	meta, posts, err := scraper.ScrapeChannel(context.Background(), "durov")
	require.NoError(t, err)

	// pages 1 and 2 carry posts, the third renders none and ends the walk
	require.Equal(t, []string{"", "99", "97"}, *cursors)

	require.Equal(t, "durov", meta.Username)
	require.Equal(t, strPtr("Durov's Channel"), meta.Name)
	require.Equal(t, strPtr("Thoughts from the founder.\nOfficial channel."), meta.Description)
	require.Equal(t, strPtr("https://cdn4.cdn-telegram.org/file/channel_photo_big.jpg"), meta.ImageURL)
	require.Equal(t, intPtr(26800), meta.Subscribers)

	// the service message on page 1 never becomes a post
	require.Len(t, posts, 5)
	var timestamps []string
	for _, post := range posts {
		require.NotNil(t, post.Timestamp)
		timestamps = append(timestamps, *post.Timestamp)
	}
	require.Equal(t, []string{
		"2024-03-02T10:00:00+00:00",
		"2024-03-02T08:00:00+00:00",
		"2024-03-01T20:00:00+00:00",
		"2024-03-01T09:00:00+00:00",
		"2024-02-29T23:30:00+00:00",
	}, timestamps)

	// 5 posts over 3 distinct days
	require.Equal(t, intPtr(2), meta.AvgPostsPerDay)
	// (26800 + 1500 + 0 + 100 + 300) / 5
	require.Equal(t, intPtr(5740), meta.AvgViewsPerPost)
	// (5 + 0 + 2) / 3, posts without a comment UI don't count
	require.Equal(t, intPtr(2), meta.AvgCommentsPerPost)
	// 1250 / 5
	require.Equal(t, intPtr(250), meta.AvgReactionsPerPost)
}

func TestScrapeChannelPostLimit(t *testing.T) {
	server, cursors := channelServer(t, map[string]string{
		"":   "page1.html",
		"99": "page2.html",
	})

	scraper := NewScraper(NewClient(ClientOptions{BaseUrl: server.URL}), ScraperOptions{PostLimit: 5})
	_, posts, err := scraper.ScrapeChannel(context.Background(), "durov")
	require.NoError(t, err)

	require.Len(t, posts, 5)
	// the ceiling is hit on page 2, so cursor 97 is never requested
	require.Equal(t, []string{"", "99"}, *cursors)
}

func TestScrapeChannelPostLimitMidPage(t *testing.T) {
	server, _ := channelServer(t, map[string]string{
		"": "page1.html",
	})

	scraper := NewScraper(NewClient(ClientOptions{BaseUrl: server.URL}), ScraperOptions{PostLimit: 2})
	_, posts, err := scraper.ScrapeChannel(context.Background(), "durov")
	require.NoError(t, err)
	require.Len(t, posts, 2)
}

func TestScrapeChannelFetchErrorIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	scraper := NewScraper(NewClient(ClientOptions{BaseUrl: server.URL}), ScraperOptions{})
	meta, posts, err := scraper.ScrapeChannel(context.Background(), "durov")
	require.Error(t, err)
	require.Equal(t, ChannelMeta{}, meta)
	require.Nil(t, posts)
}
