// Package youtube chains YouTube Data API calls into the composite results
// served by the comment-scraping endpoints.
package youtube

import (
	"context"

	"github.com/denysvitali/ftptube-go/internal/models"
)

// VideoResult is a search hit
type VideoResult struct {
	VideoID      string
	ChannelID    string
	Title        string
	ChannelTitle string
	PublishTime  string
}

// Video is the latest upload of a channel
type Video struct {
	VideoID     string
	Title       string
	PublishedAt string
}

// ChannelInfo describes a channel
type ChannelInfo struct {
	Title  string
	Avatar string
}

// Source is the subset of the YouTube Data API the scraper relies on.
// Lookups of entities that do not exist return an error wrapping models.ErrNotFound.
type Source interface {
	SearchVideos(ctx context.Context, query string, maxResults int) ([]VideoResult, error)
	Channel(ctx context.Context, channelID string) (*ChannelInfo, error)
	LatestVideo(ctx context.Context, channelID string) (*Video, error)
	VideoDuration(ctx context.Context, videoID string) (string, error)
	// Comments returns up to maxResults top-level comments. A video with
	// comments disabled yields an empty slice and no error.
	Comments(ctx context.Context, videoID string, maxResults int) ([]models.Comment, error)
}
