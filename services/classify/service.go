package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"telechan-backend/lib/restyutil"
	"telechan-backend/lib/telemetry"

	"github.com/antzucaro/matchr"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

var tracer = telemetry.Tracer("telechan.services.classify")

var restyInstrumentOutput restyutil.InstrumentOutput

func SetRestyInstrumentOutput(output restyutil.InstrumentOutput) {
	restyInstrumentOutput = output
}

const defaultBaseUrl = "https://api.openai.com"
const defaultModel = "gpt-4o"

// Categories is the closed label set the model must pick from. Labels coming
// back outside of it are snapped onto it by NormalizeCategory.
var Categories = []string{
	"News",
	"Politics",
	"Business",
	"Finance",
	"Tech",
	"Cybersecurity",
	"Lifestyle",
	"Sports",
	"Education",
	"OSINT",
	"NSFW",
	"Porn",
	"Memes",
	"Deals",
	"Gaming",
	"Health",
	"Culture",
	"Gore",
	"Unknown",
}

type Config struct {
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
	Model   string `json:"model"`
}

// ChannelInfo is the model input, a trimmed view of a scraped channel.
type ChannelInfo struct {
	Username    string   `json:"chan_username"`
	Name        string   `json:"chan_name"`
	Description string   `json:"chan_description"`
	PostSample  []string `json:"post_sample,omitempty"`
}

// Analysis is the structured verdict for one channel.
type Analysis struct {
	NameEn    string   `json:"name_en"`
	DescEn    string   `json:"desc_en"`
	Category  string   `json:"category"`
	Locations []string `json:"locations"`
	Names     []string `json:"names"`
	Topics    []string `json:"topics"`
	Keywords  []string `json:"keywords"`
	Target    string   `json:"target"`
}

type Service struct {
	client *resty.Client
	model  string
}

func NewService(config Config) Service {
	baseUrl := config.BaseUrl
	if baseUrl == "" {
		baseUrl = defaultBaseUrl
	}
	model := config.Model
	if model == "" {
		model = defaultModel
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.SetAuthToken(config.ApiKey)
	client.SetTimeout(time.Second * 60)

	restyutil.InstrumentClient(client, tracer, restyInstrumentOutput)

	return Service{
		client: client,
		model:  model,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
	Messages       []chatMessage  `json:"messages"`
}

type responseFormat struct {
	Type       string     `json:"type"`
	JsonSchema jsonSchema `json:"json_schema"`
}

type jsonSchema struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func stringArrayProp(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": description,
	}
}

func analysisSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name_en": stringProp(
				`Rewrite the channel name from "chan_name" into clear, natural English. ` +
					"Preserve the meaning, avoid added interpretation, and keep it concise.",
			),
			"desc_en": stringProp(
				`Rewrite "chan_description" in English as a single short sentence. ` +
					"MUST NOT exceed 90 characters (including spaces). No hashtags or emojis.",
			),
			"category": stringProp(fmt.Sprintf(
				"Analyze ALL fields in the user-provided JSON and return ONE channel category. "+
					"The value MUST be exactly one of the following options: %v. "+
					"Choose the single best match only.", Categories,
			)),
			"locations": stringArrayProp(
				"Return an array of strings. Each element is the name of a GEOGRAPHICAL LOCATION " +
					"(cities, regions, countries, places) explicitly or implicitly mentioned anywhere " +
					"in the JSON. Use English names where possible. No duplicates, no explanations.",
			),
			"names": stringArrayProp(
				"Return an array of strings. Each element is a PERSON name or ENTITY name " +
					"(people, organizations, companies, parties, media outlets, groups, etc.) " +
					"appearing anywhere in the JSON. No duplicates, no extra commentary.",
			),
			"topics": stringArrayProp(
				"Based on all values in the JSON, compile an array of strings. Each element is an " +
					`ABSTRACT NOUN or ADJECTIVE which describes the channel's topical focus (e.g. "politics", ` +
					`"finance", "satirical", "propaganda"). OMIT promissory, sensational, hype or clickbait terms.`,
			),
			"keywords": stringArrayProp(
				"Return an array of up to 3 strings. Each element is an INFERRED abstract noun or " +
					"adjective that does NOT appear in the JSON text but logically follows from the " +
					"content and focus of the channel. NO promissory, sensational, hype or clickbait words.",
			),
			"target": stringProp(
				"Based ONLY on EXPLICIT clues and the LANGUAGE of the JSON fields, return exactly ONE " +
					"country name in English that the channel most likely targets as its audience " +
					`(e.g. 'France', 'Turkey'). If JSON key values are in English and no EXPLICIT clues ` +
					`on target audience present, choose "International". If JSON key values are NOT in ` +
					"English and no EXPLICIT clues on target audience present, choose the single most likely country.",
			),
		},
		"required": []string{
			"name_en", "desc_en", "category", "locations",
			"names", "topics", "keywords", "target",
		},
		"additionalProperties": false,
	}
}

const systemPrompt = "You are an expert Telegram channels inspector. " +
	"Following is a JSON object containing scraped info from a specific Telegram channel, " +
	"in the following schema:\n" +
	"{\n" +
	`   "chan_username": "<string>",` + "\n" +
	`   "chan_name": "<string>",` + "\n" +
	`   "chan_description": "<string>",` + "\n" +
	"}\n" +
	"Analyze the user-provided JSON containing info on a specific Telegram channel and " +
	"extract meaningful insights. You must respond ONLY with JSON that matches the provided schema."

// AnalyzeChannel asks the model for a structured verdict on one channel. The
// returned category is always a member of Categories.
func (s Service) AnalyzeChannel(ctx context.Context, info ChannelInfo) (Analysis, error) {
	ctx, span := tracer.Start(ctx, "AnalyzeChannel")
	defer span.End()

	infoJson, err := json.Marshal(info)
	if err != nil {
		return Analysis{}, err
	}

	var body chatResponse
	res, err := s.client.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model:       s.model,
			Temperature: 0,
			ResponseFormat: responseFormat{
				Type: "json_schema",
				JsonSchema: jsonSchema{
					Name:   "text_analysis",
					Strict: true,
					Schema: analysisSchema(),
				},
			},
			Messages: []chatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: "Telegram Channel Info JSON:\n\n" + string(infoJson)},
			},
		}).
		SetResult(&body).
		Post("/v1/chat/completions")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "chat completion request failed")
		return Analysis{}, err
	}
	if res.StatusCode() != http.StatusOK {
		err := fmt.Errorf("chat completion: unexpected status %s", res.Status())
		span.RecordError(err)
		span.SetStatus(codes.Error, "chat completion request failed")
		return Analysis{}, err
	}
	if len(body.Choices) == 0 {
		return Analysis{}, fmt.Errorf("chat completion: no choices in response")
	}

	var analysis Analysis
	err = json.Unmarshal([]byte(body.Choices[0].Message.Content), &analysis)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "model returned unparseable JSON")
		return Analysis{}, fmt.Errorf("parse model verdict: %w", err)
	}

	analysis.Category = NormalizeCategory(analysis.Category)
	return analysis, nil
}

// similarity below which a label is considered unrelated to every category
const categorySimilarityFloor = 0.85

// NormalizeCategory snaps a free-form label onto the fixed category list:
// exact (case-insensitive) match wins, otherwise the most similar label by
// JaroWinkler, otherwise "Unknown".
func NormalizeCategory(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "Unknown"
	}

	best := "Unknown"
	bestSimilarity := 0.0
	for _, category := range Categories {
		if strings.EqualFold(category, label) {
			return category
		}
		similarity := matchr.JaroWinkler(strings.ToLower(category), strings.ToLower(label), false)
		if similarity > bestSimilarity {
			bestSimilarity = similarity
			best = category
		}
	}

	if bestSimilarity < categorySimilarityFloor {
		return "Unknown"
	}
	return best
}
