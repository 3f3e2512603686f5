package telegram

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PostsLimit caps how far back a single scrape walks, channels with long
// histories would otherwise keep paginating for a very long time.
const PostsLimit = 300

// Scraper walks a channel's preview pages backward through history and
// turns them into a ChannelMeta plus the collected posts.
type Scraper struct {
	client *Client
	limit  int
}

type ScraperOptions struct {
	// PostLimit defaults to PostsLimit when zero.
	PostLimit int
}

func NewScraper(client *Client, opts ScraperOptions) Scraper {
	limit := opts.PostLimit
	if limit <= 0 {
		limit = PostsLimit
	}
	return Scraper{client: client, limit: limit}
}

// ScrapeChannel fetches pages sequentially (each cursor depends on the
// previous page) until the post limit is reached, a page renders no posts,
// or no further cursor can be derived. A fetch failure on any page fails the
// whole scrape, there is no partial result. Extraction misses never fail
// anything, they degrade to missing fields.
func (s Scraper) ScrapeChannel(ctx context.Context, username string) (ChannelMeta, []Post, error) {
	ctx, span := tracer.Start(ctx, "ScrapeChannel")
	defer span.End()
	span.SetAttributes(attribute.String("username", username))

	meta := ChannelMeta{Username: username}
	var posts []Post
	before := ""

	for len(posts) < s.limit {
		page, err := s.client.FetchPage(ctx, username, before)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to fetch channel page")
			return ChannelMeta{}, nil, err
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to parse channel page")
			return ChannelMeta{}, nil, err
		}

		// the header only renders on the first page in practice, but don't
		// assume that: just never re-extract once it has been captured
		if meta.Name == nil {
			meta.Name, meta.Description, meta.Subscribers = parseChannelHeader(doc)
		}
		if meta.ImageURL == nil {
			meta.ImageURL = parseChannelImage(doc, s.client.baseUrl)
		}

		msgs := doc.Find(".tgme_widget_message")
		if msgs.Length() == 0 {
			break
		}

		msgs.EachWithBreak(func(_ int, msg *goquery.Selection) bool {
			if len(posts) >= s.limit {
				return false
			}
			if isServiceMessage(msg) {
				return true
			}
			posts = append(posts, parsePost(msg))
			return true
		})

		slog.DebugContext(
			ctx, "walked channel page",
			"username", username,
			"before", before,
			"collected", len(posts),
		)

		if len(posts) >= s.limit {
			break
		}
		before = nextBeforeId(doc)
		if before == "" {
			break
		}
	}

	computeAggregates(&meta, posts)

	span.SetAttributes(attribute.Int("posts", len(posts)))
	return meta, posts, nil
}
