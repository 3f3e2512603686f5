package telegram

// ChannelMeta describes a channel as rendered on its public preview page.
// Optional fields are nil when the markup never yielded them. The aggregate
// fields stay nil until the page walk has finished, they are never filled in
// mid-walk.
type ChannelMeta struct {
	Username    string  `json:"chan_username"`
	ImageURL    *string `json:"chan_img"`
	Name        *string `json:"chan_name"`
	Description *string `json:"chan_description"`
	Subscribers *int    `json:"chan_subscribers"`

	AvgPostsPerDay      *int `json:"chan_avg_posts_per_day"`
	AvgViewsPerPost     *int `json:"chan_avg_views_per_post"`
	AvgCommentsPerPost  *int `json:"chan_avg_comments_per_post"`
	AvgReactionsPerPost *int `json:"chan_avg_reactions_per_post"`
}

// Post is a single message bubble. CommentsCount is nil when the page shows
// no comment UI at all, which is distinct from an explicit zero.
type Post struct {
	Timestamp      *string `json:"post_timestamp"`
	Text           *string `json:"post_text"`
	ReactionsCount int     `json:"post_reactions_count"`
	ViewsCount     *int    `json:"post_views_count"`
	CommentsCount  *int    `json:"post_comments_count"`
}
