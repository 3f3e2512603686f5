package classify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeCategory(t *testing.T) {
	for _, tc := range []struct {
		label string
		want  string
	}{
		{"Politics", "Politics"},
		{"politics", "Politics"},
		{"  tech  ", "Tech"},
		{"Finances", "Finance"},
		{"Cyber-security", "Cybersecurity"},
		{"", "Unknown"},
		{"Basket weaving", "Unknown"},
	} {
		require.Equal(t, tc.want, NormalizeCategory(tc.label), "label %q", tc.label)
	}
}

func TestAnalyzeChannel(t *testing.T) {
	var gotReq chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		verdict, err := json.Marshal(Analysis{
			NameEn:   "Durov's Channel",
			DescEn:   "Thoughts from the founder.",
			Category: "tech",
			Topics:   []string{"technology"},
			Target:   "International",
		})
		require.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": string(verdict)}},
			},
		})
	}))
	t.Cleanup(server.Close)

	service := NewService(Config{BaseUrl: server.URL, ApiKey: "test-key"})
	analysis, err := service.AnalyzeChannel(context.Background(), ChannelInfo{
		Username:    "durov",
		Name:        "Durov's Channel",
		Description: "Thoughts from the founder.",
	})
	require.NoError(t, err)

	require.Equal(t, defaultModel, gotReq.Model)
	require.Equal(t, "json_schema", gotReq.ResponseFormat.Type)
	require.Len(t, gotReq.Messages, 2)

	// free-form model label is snapped back onto the category list
	require.Equal(t, "Tech", analysis.Category)
	require.Equal(t, "Durov's Channel", analysis.NameEn)
}

func TestAnalyzeChannelUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	service := NewService(Config{BaseUrl: server.URL, ApiKey: "test-key"})
	_, err := service.AnalyzeChannel(context.Background(), ChannelInfo{Username: "durov"})
	require.Error(t, err)
}
