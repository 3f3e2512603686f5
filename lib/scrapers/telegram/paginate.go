package telegram

import (
	"slices"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// nextBeforeId derives the ?before= cursor for the next (older) page from
// the smallest post id on the current one. An empty result means pagination
// cannot continue. This is a heuristic, the walker additionally stops on a
// page without any post elements.
func nextBeforeId(doc *goquery.Document) string {
	var ids []int
	doc.Find(".tgme_widget_message[data-post]").Each(func(_ int, el *goquery.Selection) {
		parts := strings.Split(el.AttrOr("data-post", ""), "/")
		if len(parts) != 2 {
			return
		}
		id, err := strconv.Atoi(parts[1])
		if err != nil || id < 0 {
			return
		}
		ids = append(ids, id)
	})

	if len(ids) == 0 {
		return ""
	}
	minId := slices.Min(ids)
	if minId <= 1 {
		return ""
	}
	return strconv.Itoa(minId - 1)
}
