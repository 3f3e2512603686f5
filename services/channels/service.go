package channels

import (
	"context"
	"log/slog"
	"regexp"

	"telechan-backend/lib/scrapers/telegram"
	"telechan-backend/lib/telemetry"
	"telechan-backend/services/classify"

	"go.opentelemetry.io/otel/attribute"
)

var tracer = telemetry.Tracer("telechan.services.channels")

// UsernameRegex matches valid public channel usernames (without the @).
var UsernameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{3,31}$`)

// caps on the post sample handed to the classifier, model input must stay
// bounded no matter how chatty the channel is
const maxSamplePosts = 20
const maxSampleRunes = 400

type ChannelScraper interface {
	ScrapeChannel(ctx context.Context, username string) (telegram.ChannelMeta, []telegram.Post, error)
}

type Classifier interface {
	AnalyzeChannel(ctx context.Context, info classify.ChannelInfo) (classify.Analysis, error)
}

type LanguageDetector interface {
	DetectLanguage(ctx context.Context, text string) (code string, confidence float64)
}

// Options carries the optional enrichment collaborators. A nil collaborator
// just leaves its fields out of the report.
type Options struct {
	Classifier Classifier
	Detector   LanguageDetector
}

type Service struct {
	scraper    ChannelScraper
	classifier Classifier
	detector   LanguageDetector
}

func NewService(scraper ChannelScraper, options Options) Service {
	return Service{
		scraper:    scraper,
		classifier: options.Classifier,
		detector:   options.Detector,
	}
}

// ChannelReport is the public API shape: scraped meta plus whatever
// enrichment succeeded.
type ChannelReport struct {
	telegram.ChannelMeta
	Language           *string            `json:"chan_language,omitempty"`
	LanguageConfidence *float64           `json:"chan_language_confidence,omitempty"`
	Analysis           *classify.Analysis `json:"chan_analysis,omitempty"`
}

// Report scrapes a channel and enriches the result. A scrape failure fails
// the report, enrichment failures only log.
func (s Service) Report(ctx context.Context, username string) (ChannelReport, error) {
	ctx, span := tracer.Start(ctx, "Report")
	defer span.End()
	span.SetAttributes(attribute.String("username", username))

	meta, posts, err := s.scraper.ScrapeChannel(ctx, username)
	if err != nil {
		return ChannelReport{}, err
	}
	report := ChannelReport{ChannelMeta: meta}

	if s.detector != nil && meta.Description != nil {
		code, confidence := s.detector.DetectLanguage(ctx, *meta.Description)
		if code != "" {
			report.Language = &code
			report.LanguageConfidence = &confidence
		}
	}

	if s.classifier != nil {
		info := classify.ChannelInfo{
			Username:   username,
			PostSample: postSample(posts),
		}
		if meta.Name != nil {
			info.Name = *meta.Name
		}
		if meta.Description != nil {
			info.Description = *meta.Description
		}

		analysis, err := s.classifier.AnalyzeChannel(ctx, info)
		if err != nil {
			slog.WarnContext(ctx, "channel classification failed", "username", username, "err", err)
		} else {
			report.Analysis = &analysis
		}
	}

	return report, nil
}

// postSample trims the scraped posts down to a bounded text sample.
func postSample(posts []telegram.Post) []string {
	var sample []string
	for _, post := range posts {
		if len(sample) >= maxSamplePosts {
			break
		}
		if post.Text == nil {
			continue
		}
		text := *post.Text
		if runes := []rune(text); len(runes) > maxSampleRunes {
			text = string(runes[:maxSampleRunes])
		}
		sample = append(sample, text)
	}
	return sample
}
