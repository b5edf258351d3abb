package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/denysvitali/ftptube-go/internal/models"
	"github.com/denysvitali/ftptube-go/pkg/metrics"
)

// ErrNotConfigured is returned when no API key was provided
var ErrNotConfigured = errors.New("youtube API key is not configured")

// Options configures the Data API client
type Options struct {
	APIKey string
	// Endpoint overrides the API base URL, e.g. for a local proxy.
	Endpoint          string
	RequestsPerSecond float64
	Burst             int
	// HTTPClient replaces the default transport; the API key is not applied
	// when it is set.
	HTTPClient *http.Client
}

// DataAPI implements Source on top of the YouTube Data API v3
type DataAPI struct {
	svc     *yt.Service
	limiter *rate.Limiter
	logger  *logrus.Logger
}

// NewDataAPI creates a Data API client
func NewDataAPI(ctx context.Context, opts Options, logger *logrus.Logger) (*DataAPI, error) {
	var clientOpts []option.ClientOption
	switch {
	case opts.HTTPClient != nil:
		clientOpts = append(clientOpts, option.WithHTTPClient(opts.HTTPClient))
	case opts.APIKey != "":
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	default:
		return nil, ErrNotConfigured
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	svc, err := yt.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	return &DataAPI{
		svc:     svc,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}, nil
}

func (d *DataAPI) wait(ctx context.Context) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("youtube rate limiter: %w", err)
	}
	return nil
}

// SearchVideos implements Source
func (d *DataAPI) SearchVideos(ctx context.Context, query string, maxResults int) (videos []VideoResult, err error) {
	defer func() { metrics.RecordYouTubeCall("search", err) }()
	if err := d.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := d.svc.Search.List([]string{"snippet"}).
		Q(query).
		MaxResults(int64(maxResults)).
		Type("video").
		Order("relevance").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search %q: %w", query, err)
	}

	videos = make([]VideoResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		videos = append(videos, VideoResult{
			VideoID:      item.Id.VideoId,
			ChannelID:    item.Snippet.ChannelId,
			Title:        item.Snippet.Title,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishTime:  item.Snippet.PublishedAt,
		})
	}
	return videos, nil
}

// Channel implements Source
func (d *DataAPI) Channel(ctx context.Context, channelID string) (info *ChannelInfo, err error) {
	defer func() { metrics.RecordYouTubeCall("channels", err) }()
	if err := d.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := d.svc.Channels.List([]string{"snippet"}).Id(channelID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("youtube channel %s: %w", channelID, err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return nil, fmt.Errorf("channel %s: %w", channelID, models.ErrNotFound)
	}

	snippet := resp.Items[0].Snippet
	info = &ChannelInfo{Title: snippet.Title}
	if snippet.Thumbnails != nil && snippet.Thumbnails.Default != nil {
		info.Avatar = snippet.Thumbnails.Default.Url
	}
	return info, nil
}

// LatestVideo implements Source
func (d *DataAPI) LatestVideo(ctx context.Context, channelID string) (video *Video, err error) {
	defer func() { metrics.RecordYouTubeCall("search_latest", err) }()
	if err := d.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := d.svc.Search.List([]string{"snippet"}).
		ChannelId(channelID).
		MaxResults(1).
		Order("date").
		Type("video").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube latest video of %s: %w", channelID, err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Id == nil || resp.Items[0].Id.VideoId == "" {
		return nil, fmt.Errorf("no videos for channel %s: %w", channelID, models.ErrNotFound)
	}

	item := resp.Items[0]
	video = &Video{VideoID: item.Id.VideoId}
	if item.Snippet != nil {
		video.Title = item.Snippet.Title
		video.PublishedAt = item.Snippet.PublishedAt
	}
	return video, nil
}

// VideoDuration implements Source
func (d *DataAPI) VideoDuration(ctx context.Context, videoID string) (duration string, err error) {
	defer func() { metrics.RecordYouTubeCall("videos", err) }()
	if err := d.wait(ctx); err != nil {
		return "", err
	}

	resp, err := d.svc.Videos.List([]string{"contentDetails"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("youtube video %s: %w", videoID, err)
	}
	if len(resp.Items) == 0 || resp.Items[0].ContentDetails == nil {
		return "", nil
	}
	return resp.Items[0].ContentDetails.Duration, nil
}

// Comments implements Source
func (d *DataAPI) Comments(ctx context.Context, videoID string, maxResults int) (comments []models.Comment, err error) {
	defer func() { metrics.RecordYouTubeCall("commentThreads", err) }()
	if err := d.wait(ctx); err != nil {
		return nil, err
	}

	resp, err := d.svc.CommentThreads.List([]string{"snippet"}).
		VideoId(videoID).
		MaxResults(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		if IsCommentsDisabled(err) {
			d.logger.WithField("video_id", videoID).Debug("Comments disabled, returning empty list")
			return []models.Comment{}, nil
		}
		return nil, fmt.Errorf("youtube comments of %s: %w", videoID, err)
	}

	comments = make([]models.Comment, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Snippet == nil || item.Snippet.TopLevelComment == nil || item.Snippet.TopLevelComment.Snippet == nil {
			continue
		}
		c := item.Snippet.TopLevelComment.Snippet
		comments = append(comments, models.Comment{
			Author:      c.AuthorDisplayName,
			Text:        c.TextDisplay,
			PublishedAt: c.PublishedAt,
		})
	}
	return comments, nil
}

// IsCommentsDisabled reports whether err is the API's answer for a video
// whose comments were turned off
func IsCommentsDisabled(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	for _, item := range gerr.Errors {
		if item.Reason == "commentsDisabled" {
			return true
		}
	}
	return strings.Contains(gerr.Message, "disabled comments")
}
