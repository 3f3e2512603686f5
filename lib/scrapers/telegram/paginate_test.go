package telegram

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextBeforeId(t *testing.T) {
	doc := loadFixture(t, "page1.html")
	// smallest id on the page is 100, the service message's 103 is irrelevant
	require.Equal(t, "99", nextBeforeId(doc))
}

func TestNextBeforeIdNoPosts(t *testing.T) {
	doc := loadFixture(t, "empty.html")
	require.Equal(t, "", nextBeforeId(doc))
}

func TestNextBeforeIdStopsAtHistoryStart(t *testing.T) {
	doc := docFromString(t, `
		<div class="tgme_widget_message" data-post="durov/1">
			<div class="tgme_widget_message_bubble"></div>
		</div>
	`)
	require.Equal(t, "", nextBeforeId(doc))
}

func TestNextBeforeIdIgnoresMalformedIds(t *testing.T) {
	doc := docFromString(t, `
		<div class="tgme_widget_message" data-post="durov/abc"></div>
		<div class="tgme_widget_message" data-post="nonsense"></div>
		<div class="tgme_widget_message" data-post="durov/42"></div>
	`)
	require.Equal(t, "41", nextBeforeId(doc))
}
