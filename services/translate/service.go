package translate

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"telechan-backend/lib/restyutil"
	"telechan-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

var tracer = telemetry.Tracer("telechan.services.translate")

var restyInstrumentOutput restyutil.InstrumentOutput

func SetRestyInstrumentOutput(output restyutil.InstrumentOutput) {
	restyInstrumentOutput = output
}

const defaultBaseUrl = "https://translation.googleapis.com"

// ISO codes Google still emits in their pre-1989 form.
var legacyLangCodes = map[string]string{
	"iw": "he", // Hebrew
	"ji": "yi", // Yiddish
	"in": "id", // Indonesian
}

type Config struct {
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
}

// Service detects the language of free-form text through the Google Translate
// v2 REST API. It never fails outward, a broken upstream just means no
// language label.
type Service struct {
	client *resty.Client
	apiKey string
}

func NewService(config Config) Service {
	baseUrl := config.BaseUrl
	if baseUrl == "" {
		baseUrl = defaultBaseUrl
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.SetTimeout(time.Second * 15)

	restyutil.InstrumentClient(client, tracer, restyInstrumentOutput)

	return Service{
		client: client,
		apiKey: config.ApiKey,
	}
}

type detectResponse struct {
	Data struct {
		Detections [][]struct {
			Language   string  `json:"language"`
			Confidence float64 `json:"confidence"`
		} `json:"detections"`
	} `json:"data"`
}

// DetectLanguage returns the most confident language code for the text along
// with its confidence, or ("", 0) when the text is empty, the service is
// unconfigured or the upstream call fails.
func (s Service) DetectLanguage(ctx context.Context, text string) (code string, confidence float64) {
	ctx, span := tracer.Start(ctx, "DetectLanguage")
	defer span.End()

	text = strings.TrimSpace(text)
	if text == "" {
		return "", 0
	}
	if s.apiKey == "" {
		slog.WarnContext(ctx, "language detection api key not set")
		return "", 0
	}

	var body detectResponse
	res, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("key", s.apiKey).
		SetBody(map[string]string{"q": text}).
		SetResult(&body).
		Post("/language/translate/v2/detect")
	if err != nil {
		slog.WarnContext(ctx, "language detection request failed", "err", err)
		return "", 0
	}
	if res.StatusCode() != http.StatusOK {
		slog.WarnContext(ctx, "language detection request failed", "status", res.Status())
		return "", 0
	}

	for _, group := range body.Data.Detections {
		for _, detection := range group {
			if detection.Confidence < confidence {
				continue
			}
			code = strings.ToLower(detection.Language)
			confidence = detection.Confidence
		}
	}
	if normalized, ok := legacyLangCodes[code]; ok {
		code = normalized
	}
	return code, confidence
}
