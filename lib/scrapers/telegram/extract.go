package telegram

import (
	"html"
	"strings"

	"telechan-backend/lib/htmlutil"
	"telechan-backend/lib/knum"

	"github.com/PuerkitoBio/goquery"
)

// The preview markup has shipped in at least two generations, every field is
// therefore extracted through an ordered list of candidate locations and a
// miss is never an error.

var headerPhotoSelectors = []string{
	".tgme_channel_info_header_photo img",
	".tgme_page .tgme_page_photo img",
	"img.tgme_page_photo_image",
	".tgme_channel_info .tgme_page_photo_image img",
}

var subscriberSelectors = []string{
	".tgme_channel_info_counter .counter_value",
	".tgme_channel_info_counter_value",
	".tgme_channel_info_counters .tgme_channel_info_counter",
}

func absUrl(raw, baseUrl string) string {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return ""
	case strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://"):
		return raw
	case strings.HasPrefix(raw, "//"):
		return "https:" + raw
	case strings.HasPrefix(raw, "/"):
		return baseUrl + raw
	}
	return raw
}

// parseChannelImage resolves the channel photo, preferring the OpenGraph
// image, then the legacy link hint, then the header photo elements (taking
// the highest resolution srcset candidate when one exists).
func parseChannelImage(doc *goquery.Document, baseUrl string) *string {
	og := doc.Find(`meta[property="og:image"]`).First().AttrOr("content", "")
	if og != "" {
		resolved := absUrl(og, baseUrl)
		return &resolved
	}

	link := doc.Find(`link[rel="image_src"]`).First().AttrOr("href", "")
	if link != "" {
		resolved := absUrl(link, baseUrl)
		return &resolved
	}

	for _, selector := range headerPhotoSelectors {
		el := doc.Find(selector).First()
		if len(el.Nodes) == 0 {
			continue
		}
		if srcset := el.AttrOr("srcset", ""); srcset != "" {
			var candidates []string
			for _, part := range strings.Split(srcset, ",") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				candidates = append(candidates, strings.Fields(part)[0])
			}
			if len(candidates) > 0 {
				resolved := absUrl(candidates[len(candidates)-1], baseUrl)
				return &resolved
			}
		}
		if src := el.AttrOr("src", ""); src != "" {
			resolved := absUrl(src, baseUrl)
			return &resolved
		}
	}

	return nil
}

// parseChannelHeader derives the channel title, description and subscriber
// count from the header area when present. The subscriber value is the first
// counter block that parses to a non-zero number, which guards against an
// empty placeholder block masking a valid one further down.
func parseChannelHeader(doc *goquery.Document) (name, description *string, subscribers *int) {
	if title := htmlutil.SelectText(
		doc,
		".tgme_channel_info_header_title",
		".tgme_channel_info_header_title span",
	); title != "" {
		name = &title
	}

	if desc := htmlutil.SelectText(doc, ".tgme_channel_info_description"); desc != "" {
		description = &desc
	}

	for _, selector := range subscriberSelectors {
		el := doc.Find(selector).First()
		if len(el.Nodes) == 0 {
			continue
		}
		count := knum.Parse(strings.TrimSpace(el.Text()))
		if count != 0 {
			subscribers = &count
			break
		}
	}

	return name, description, subscribers
}

// isServiceMessage reports whether a message element lacks a bubble body,
// which is how pinned/service notices render. Those never become posts.
func isServiceMessage(msg *goquery.Selection) bool {
	return len(msg.Find(".tgme_widget_message_bubble").Nodes) == 0
}

// parsePostText extracts the visible text of the post without the footer or
// meta area. Absence of the text container yields an empty string so the
// trimming logic downstream stays uniform.
func parsePostText(msg *goquery.Selection) string {
	tnode := msg.Find(".tgme_widget_message_text").First()
	if len(tnode.Nodes) == 0 {
		return ""
	}
	return html.UnescapeString(htmlutil.FlattenText(tnode))
}

// parsePostTimestamp reads the machine-readable datetime attribute only,
// never the human-readable label next to it.
func parsePostTimestamp(msg *goquery.Selection) *string {
	t := msg.Find(".tgme_widget_message_date time, .tgme_widget_message_meta time").First()
	datetime, exists := t.Attr("datetime")
	if !exists {
		return nil
	}
	return &datetime
}

func parsePostViews(msg *goquery.Selection) *int {
	el := msg.Find(".tgme_widget_message_views").First()
	if len(el.Nodes) == 0 {
		return nil
	}
	views := knum.Parse(strings.TrimSpace(el.Text()))
	return &views
}

var reactionEmojiSelectors = []string{
	"i.emoji b",
	"i b",
	".tgme_widget_message_reaction_emoji",
	".emoji b",
	"b",
	"i",
}

// reactionEmoji extracts the emoji glyph/label across layouts, falling back
// through glyph text and then ARIA attributes. The identity is informational
// only so an unidentifiable reaction still counts under a sentinel label.
func reactionEmoji(container *goquery.Selection) string {
	for _, selector := range reactionEmojiSelectors {
		node := container.Find(selector).First()
		if len(node.Nodes) == 0 {
			continue
		}
		if text := strings.TrimSpace(node.Text()); text != "" {
			return text
		}
	}
	for _, attr := range []string{"aria-label", "title"} {
		if val, exists := container.Attr(attr); exists && strings.TrimSpace(val) != "" {
			return strings.TrimSpace(val)
		}
	}
	return "UNKNOWN"
}

// parsePostReactions sums reactions across both known layouts:
// the legacy span elements and the inline-button anchors. A hidden spacer
// span contributes nothing.
func parsePostReactions(msg *goquery.Selection) (total int, byEmoji map[string]int) {
	byEmoji = map[string]int{}

	msg.Find(".tgme_widget_message_reactions span.tgme_reaction").Each(func(_ int, span *goquery.Selection) {
		style := strings.ReplaceAll(strings.ToLower(span.AttrOr("style", "")), " ", "")
		if strings.Contains(style, "visibility:hidden") {
			return // spacer
		}
		count := knum.Parse(strings.TrimSpace(span.Text()))
		if count > 0 {
			byEmoji[reactionEmoji(span)] += count
		}
	})

	msg.Find(".tgme_widget_message_inline_buttons a.tgme_widget_message_reaction").Each(func(_ int, a *goquery.Selection) {
		countEl := a.Find(".tgme_widget_message_reaction_count").First()
		if len(countEl.Nodes) == 0 {
			return
		}
		count := knum.Parse(strings.TrimSpace(countEl.Text()))
		if count > 0 {
			byEmoji[reactionEmoji(a)] += count
		}
	})

	for _, count := range byEmoji {
		total += count
	}
	return total, byEmoji
}

// parsePostComments checks the known comment indicator locations in priority
// order. A nil result means no comment UI is present at all, which callers
// must keep distinct from an explicit zero.
func parsePostComments(msg *goquery.Selection) *int {
	if a := msg.Find("a.tgme_widget_message_comments").First(); len(a.Nodes) > 0 {
		count := knum.Parse(strings.TrimSpace(a.Text()))
		return &count
	}

	var fromButtons *int
	msg.Find(".tgme_widget_message_inline_buttons a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if !strings.Contains(a.AttrOr("href", ""), "comments") {
			return true
		}
		count := knum.Parse(strings.TrimSpace(a.Text()))
		fromButtons = &count
		return false
	})
	if fromButtons != nil {
		return fromButtons
	}

	if a := msg.Find(".tgme_widget_message_bottom a.tgme_widget_message_comments").First(); len(a.Nodes) > 0 {
		count := knum.Parse(strings.TrimSpace(a.Text()))
		return &count
	}

	replies := msg.Find("replies-element .replies-footer-text .i18n").First()
	if len(replies.Nodes) == 0 {
		replies = msg.Find("replies-element .replies-footer-text").First()
	}
	if len(replies.Nodes) > 0 {
		count := knum.Parse(strings.TrimSpace(replies.Text()))
		return &count
	}

	return nil
}

// parsePost builds a Post from one message element.
func parsePost(msg *goquery.Selection) Post {
	post := Post{
		Timestamp:     parsePostTimestamp(msg),
		ViewsCount:    parsePostViews(msg),
		CommentsCount: parsePostComments(msg),
	}
	post.ReactionsCount, _ = parsePostReactions(msg)
	if text := parsePostText(msg); text != "" {
		post.Text = &text
	}
	return post
}
