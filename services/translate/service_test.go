package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func detectServer(t *testing.T, detections []map[string]any) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/language/translate/v2/detect", r.URL.Path)
		require.Equal(t, "key-123", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"detections": []any{detections},
			},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestDetectLanguage(t *testing.T) {
	server := detectServer(t, []map[string]any{
		{"language": "fr", "confidence": 0.42},
		{"language": "en", "confidence": 0.93},
	})

	service := NewService(Config{BaseUrl: server.URL, ApiKey: "key-123"})
	code, confidence := service.DetectLanguage(context.Background(), "hello there")
	require.Equal(t, "en", code)
	require.Equal(t, 0.93, confidence)
}

func TestDetectLanguageLegacyCode(t *testing.T) {
	server := detectServer(t, []map[string]any{
		{"language": "iw", "confidence": 0.88},
	})

	service := NewService(Config{BaseUrl: server.URL, ApiKey: "key-123"})
	code, confidence := service.DetectLanguage(context.Background(), "שלום")
	require.Equal(t, "he", code)
	require.Equal(t, 0.88, confidence)
}

func TestDetectLanguageEmptyText(t *testing.T) {
	service := NewService(Config{ApiKey: "key-123"})
	code, confidence := service.DetectLanguage(context.Background(), "   ")
	require.Equal(t, "", code)
	require.Equal(t, 0.0, confidence)
}

// transport failures degrade to no result, they never propagate
func TestDetectLanguageUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	service := NewService(Config{BaseUrl: server.URL, ApiKey: "key-123"})
	code, confidence := service.DetectLanguage(context.Background(), "hello")
	require.Equal(t, "", code)
	require.Equal(t, 0.0, confidence)
}
