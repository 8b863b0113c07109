package publisher

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/newsmakerhq/newsmaker-bot/internal/models"
)

// PostStore is the slice of the post repository the service needs to load
// posts and record lifecycle transitions.
type PostStore interface {
	GetByID(ctx context.Context, id string) (*models.Post, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	MarkFailed(ctx context.Context, id string) error
}

// Transport delivers formatted content; satisfied by *Publisher.
type Transport interface {
	Deliver(ctx context.Context, platform, content string, ch Channels) Result
}

// Service ties delivery to the post lifecycle: one publish attempt, then a
// terminal PUBLISHED or FAILED transition. Used by both the scheduler scan
// and the manual publish-now flow, so both share one status policy.
type Service struct {
	posts     PostStore
	transport Transport
	channels  Channels

	now func() time.Time
}

func NewService(posts PostStore, transport Transport, channels Channels) *Service {
	return &Service{
		posts:     posts,
		transport: transport,
		channels:  channels,
		now:       time.Now,
	}
}

// Publish delivers one post and records the outcome. scheduled_time is
// never touched here; published_time is set only on success.
func (s *Service) Publish(ctx context.Context, post *models.Post) Result {
	content := post.Content
	if post.Hashtags != "" {
		content += "\n\n" + post.Hashtags
	}

	result := s.transport.Deliver(ctx, post.Platform, content, s.channels)

	if result.Success {
		publishedAt := s.now().UTC()
		if err := s.posts.MarkPublished(ctx, post.ID, publishedAt); err != nil {
			logrus.Errorf("post %s delivered but status update failed: %v", post.ID, err)
			result.Err = fmt.Sprintf("delivered, status update failed: %v", err)
			return result
		}
		post.Status = models.StatusPublished
		post.PublishedTime = &publishedAt
		return result
	}

	if err := s.posts.MarkFailed(ctx, post.ID); err != nil {
		logrus.Errorf("post %s failed and status update failed too: %v", post.ID, err)
	}
	post.Status = models.StatusFailed

	return result
}

// PublishNow is the manual "publish now" path: load the post and run the
// same publish step synchronously. Works for DRAFT and previously FAILED
// posts as well as SCHEDULED ones.
func (s *Service) PublishNow(ctx context.Context, postID string) Result {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return Result{Success: false, Err: fmt.Sprintf("post not found: %v", err)}
	}

	return s.Publish(ctx, post)
}
