package models

// Comment is a top-level comment of a video
type Comment struct {
	Author      string `json:"author"`
	Text        string `json:"text"`
	PublishedAt string `json:"publishedAt,omitempty"`
}

// SearchVideo is a search hit together with its comments
type SearchVideo struct {
	VideoID      string    `json:"videoId"`
	ChannelID    string    `json:"channelId"`
	Title        string    `json:"title"`
	ChannelTitle string    `json:"channelTitle"`
	PublishTime  string    `json:"publishTime,omitempty"`
	Comments     []Comment `json:"comments"`
}

// SearchCommentsResponse is returned by the search-comments endpoint
type SearchCommentsResponse struct {
	Videos []SearchVideo `json:"videos"`
}

// DeepScrapeResponse describes a channel, its latest video and the video's comments
type DeepScrapeResponse struct {
	ChannelID     string    `json:"channelId"`
	ChannelTitle  string    `json:"channelTitle"`
	ChannelAvatar string    `json:"channelAvatar"`
	VideoID       string    `json:"videoId"`
	VideoTitle    string    `json:"videoTitle"`
	PublishedAt   string    `json:"publishedAt"`
	Comments      []Comment `json:"comments"`
}

// ShortVideoComments is one entry of the short-comments result set
type ShortVideoComments struct {
	ChannelID   string    `json:"channelId"`
	VideoTitle  string    `json:"videoTitle"`
	VideoID     string    `json:"videoId"`
	PublishedAt string    `json:"publishedAt"`
	Comments    []Comment `json:"comments"`
}

// ShortCommentsResponse is returned by the short-comments endpoint
type ShortCommentsResponse struct {
	Data []ShortVideoComments `json:"data"`
}
