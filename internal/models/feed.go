package models

// Feed is the public JSON feed document served at /feed.json.
type Feed struct {
	Version     string     `json:"version"`
	Title       string     `json:"title"`
	HomePageURL string     `json:"home_page_url"`
	Description string     `json:"description"`
	Items       []FeedItem `json:"items"`
}

// FeedItem is one published record in the public feed.
type FeedItem struct {
	ID            string `json:"id"` // slug
	URL           string `json:"url"`
	Title         string `json:"title"`
	ContentText   string `json:"content_text"`
	DatePublished string `json:"date_published"`
	Image         string `json:"image,omitempty"`
	Verdict       string `json:"_verdict"`
}
