package channels

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"telechan-backend/lib/scrapers/telegram"
	"telechan-backend/services/classify"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

type fakeScraper struct {
	meta  telegram.ChannelMeta
	posts []telegram.Post
	err   error
}

func (f fakeScraper) ScrapeChannel(ctx context.Context, username string) (telegram.ChannelMeta, []telegram.Post, error) {
	if f.err != nil {
		return telegram.ChannelMeta{}, nil, f.err
	}
	meta := f.meta
	meta.Username = username
	return meta, f.posts, nil
}

type fakeClassifier struct {
	gotInfo  classify.ChannelInfo
	analysis classify.Analysis
	err      error
}

func (f *fakeClassifier) AnalyzeChannel(ctx context.Context, info classify.ChannelInfo) (classify.Analysis, error) {
	f.gotInfo = info
	return f.analysis, f.err
}

type fakeDetector struct {
	code       string
	confidence float64
}

func (f fakeDetector) DetectLanguage(ctx context.Context, text string) (string, float64) {
	return f.code, f.confidence
}

func serveReport(t *testing.T, service Service, url string) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	service.RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	service := NewService(fakeScraper{}, Options{})
	rec := serveReport(t, service, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, map[string]string{"status": "ok", "service": "telechan"}, body)
}

func TestInvalidUsername(t *testing.T) {
	service := NewService(fakeScraper{}, Options{})
	for _, username := range []string{"ab", "1durov", "du-rov", "has space", strings.Repeat("a", 33)} {
		rec := serveReport(t, service, "/?chan="+url.QueryEscape(username))
		require.Equal(t, http.StatusBadRequest, rec.Code, "username %q", username)
	}
}

func TestChannelReport(t *testing.T) {
	classifier := &fakeClassifier{
		analysis: classify.Analysis{Category: "Tech", Target: "International"},
	}
	service := NewService(
		fakeScraper{
			meta: telegram.ChannelMeta{
				Name:        strPtr("Durov's Channel"),
				Description: strPtr("Thoughts from the founder."),
				Subscribers: intPtr(26800),
			},
			posts: []telegram.Post{{Text: strPtr("Big news today.")}},
		},
		Options{
			Classifier: classifier,
			Detector:   fakeDetector{code: "en", confidence: 0.93},
		},
	)

	rec := serveReport(t, service, "/?chan=durov")
	require.Equal(t, http.StatusOK, rec.Code)

	var report ChannelReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Equal(t, "durov", report.Username)
	require.Equal(t, strPtr("en"), report.Language)
	require.NotNil(t, report.Analysis)
	require.Equal(t, "Tech", report.Analysis.Category)

	require.Equal(t, "durov", classifier.gotInfo.Username)
	require.Equal(t, []string{"Big news today."}, classifier.gotInfo.PostSample)
}

func TestScrapeFailure(t *testing.T) {
	service := NewService(fakeScraper{err: fmt.Errorf("connection refused")}, Options{})
	rec := serveReport(t, service, "/?chan=durov")
	require.Equal(t, http.StatusBadGateway, rec.Code)
}

// a broken classifier must not take the scrape result down with it
func TestClassifierFailureDegrades(t *testing.T) {
	service := NewService(
		fakeScraper{meta: telegram.ChannelMeta{Name: strPtr("Durov's Channel")}},
		Options{Classifier: &fakeClassifier{err: fmt.Errorf("rate limited")}},
	)

	rec := serveReport(t, service, "/?chan=durov")
	require.Equal(t, http.StatusOK, rec.Code)

	var report ChannelReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.Nil(t, report.Analysis)
}

func TestPostSampleCaps(t *testing.T) {
	long := strings.Repeat("x", maxSampleRunes+100)
	var posts []telegram.Post
	for i := 0; i < maxSamplePosts+5; i++ {
		posts = append(posts, telegram.Post{Text: &long})
	}
	posts = append(posts, telegram.Post{Text: nil})

	sample := postSample(posts)
	require.Len(t, sample, maxSamplePosts)
	for _, text := range sample {
		require.Len(t, []rune(text), maxSampleRunes)
	}
}
