package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/iter"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/denysvitali/ftptube-go/internal/models"
	"github.com/denysvitali/ftptube-go/pkg/metrics"
)

const (
	// DefaultSearchCount is used when the caller gives no usable count
	DefaultSearchCount = 5
	// MaxSearchCount is the largest page the search endpoint accepts
	MaxSearchCount = 50
	// DefaultCommentLimit is how many comment threads are fetched per video
	DefaultCommentLimit = 20
)

// Scraper assembles composite results from a Source
type Scraper struct {
	source        Source
	commentLimit  int
	maxGoroutines int
	logger        *logrus.Logger
	tracer        trace.Tracer
}

// NewScraper creates a scraper. commentLimit <= 0 selects DefaultCommentLimit
// and maxGoroutines <= 0 bounds fan-out by GOMAXPROCS.
func NewScraper(source Source, commentLimit, maxGoroutines int, logger *logrus.Logger) *Scraper {
	if commentLimit <= 0 {
		commentLimit = DefaultCommentLimit
	}
	return &Scraper{
		source:        source,
		commentLimit:  commentLimit,
		maxGoroutines: maxGoroutines,
		logger:        logger,
		tracer:        otel.Tracer("ftptube"),
	}
}

// NormalizeCount clamps a requested result count to what the search endpoint accepts
func NormalizeCount(count int) int {
	if count <= 0 {
		return DefaultSearchCount
	}
	if count > MaxSearchCount {
		return MaxSearchCount
	}
	return count
}

// SearchComments searches videos and attaches the comments of each hit.
// Any failed lookup fails the whole request.
func (s *Scraper) SearchComments(ctx context.Context, query string, count int) (*models.SearchCommentsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "youtube_search_comments")
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: missing query", models.ErrInvalidInput)
	}
	count = NormalizeCount(count)
	span.SetAttributes(attribute.String("youtube.query", query), attribute.Int("youtube.count", count))

	results, err := s.source.SearchVideos(ctx, query, count)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	mapper := iter.Mapper[VideoResult, models.SearchVideo]{MaxGoroutines: s.maxGoroutines}
	videos, err := mapper.MapErr(results, func(v *VideoResult) (models.SearchVideo, error) {
		comments, err := s.source.Comments(ctx, v.VideoID, s.commentLimit)
		if err != nil {
			return models.SearchVideo{}, err
		}
		return models.SearchVideo{
			VideoID:      v.VideoID,
			ChannelID:    v.ChannelID,
			Title:        v.Title,
			ChannelTitle: v.ChannelTitle,
			PublishTime:  v.PublishTime,
			Comments:     comments,
		}, nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"query":  query,
		"videos": len(videos),
	}).Info("Search comments assembled")

	return &models.SearchCommentsResponse{Videos: videos}, nil
}

// DeepScrape resolves a channel, its latest video and that video's comments
func (s *Scraper) DeepScrape(ctx context.Context, channelID string) (*models.DeepScrapeResponse, error) {
	ctx, span := s.tracer.Start(ctx, "youtube_deep_scrape")
	defer span.End()

	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return nil, fmt.Errorf("%w: missing channelId", models.ErrInvalidInput)
	}
	span.SetAttributes(attribute.String("youtube.channel_id", channelID))

	channel, err := s.source.Channel(ctx, channelID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	video, err := s.source.LatestVideo(ctx, channelID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	comments, err := s.source.Comments(ctx, video.VideoID, s.commentLimit)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return &models.DeepScrapeResponse{
		ChannelID:     channelID,
		ChannelTitle:  channel.Title,
		ChannelAvatar: channel.Avatar,
		VideoID:       video.VideoID,
		VideoTitle:    video.Title,
		PublishedAt:   video.PublishedAt,
		Comments:      comments,
	}, nil
}

// ShortComments collects the comments of each channel's latest video when
// that video is short. Channels are processed concurrently; the ones without
// a qualifying video or with a failing lookup are left out. Input order is kept.
func (s *Scraper) ShortComments(ctx context.Context, channelIDs []string) (*models.ShortCommentsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "youtube_short_comments")
	defer span.End()

	ids := make([]string, 0, len(channelIDs))
	for _, id := range channelIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: missing channelId params", models.ErrInvalidInput)
	}
	span.SetAttributes(attribute.Int("youtube.channels", len(ids)))

	mapper := iter.Mapper[string, *models.ShortVideoComments]{MaxGoroutines: s.maxGoroutines}
	entries := mapper.Map(ids, func(id *string) *models.ShortVideoComments {
		entry, err := s.shortVideoComments(ctx, *id)
		if err != nil {
			metrics.RecordShortDropped()
			logEntry := s.logger.WithField("channel_id", *id)
			if errors.Is(err, errNotShort) || errors.Is(err, models.ErrNotFound) {
				logEntry.Debugf("Channel skipped: %v", err)
			} else {
				logEntry.Warnf("Channel dropped after lookup failure: %v", err)
			}
			return nil
		}
		return entry
	})
	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	data := make([]models.ShortVideoComments, 0, len(entries))
	for _, entry := range entries {
		if entry != nil {
			data = append(data, *entry)
		}
	}
	return &models.ShortCommentsResponse{Data: data}, nil
}

var errNotShort = errors.New("latest video is not short")

func (s *Scraper) shortVideoComments(ctx context.Context, channelID string) (*models.ShortVideoComments, error) {
	video, err := s.source.LatestVideo(ctx, channelID)
	if err != nil {
		return nil, err
	}

	iso, err := s.source.VideoDuration(ctx, video.VideoID)
	if err != nil {
		return nil, err
	}
	if !IsShortDuration(iso) {
		return nil, fmt.Errorf("%w (%s)", errNotShort, iso)
	}

	comments, err := s.source.Comments(ctx, video.VideoID, s.commentLimit)
	if err != nil {
		return nil, err
	}

	return &models.ShortVideoComments{
		ChannelID:   channelID,
		VideoTitle:  video.Title,
		VideoID:     video.VideoID,
		PublishedAt: video.PublishedAt,
		Comments:    comments,
	}, nil
}
