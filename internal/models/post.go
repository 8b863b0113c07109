package models

import "time"

// PostStatus tracks a post through its publication lifecycle:
// draft -> scheduled -> published/failed.
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusScheduled PostStatus = "scheduled"
	StatusPublished PostStatus = "published"
	StatusFailed    PostStatus = "failed"
)

// Post is one platform-specific rendering of an article's content.
// Platform is an open string (telegram/vk/twitter/linkedin/press/slack/...)
// so new platforms don't require a schema change.
type Post struct {
	ID            string     `json:"id"`
	ArticleID     string     `json:"article_id"`
	Platform      string     `json:"platform"`
	Content       string     `json:"content"`
	Hashtags      string     `json:"hashtags"`
	Status        PostStatus `json:"status"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
	PublishedTime *time.Time `json:"published_time,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// NewPost creates a draft post for the given article and platform.
// ScheduledTime stays nil until the auto-scheduling step or a manual
// reschedule assigns one.
func NewPost(articleID, platform, content, hashtags string) *Post {
	return &Post{
		ArticleID: articleID,
		Platform:  platform,
		Content:   content,
		Hashtags:  hashtags,
		Status:    StatusDraft,
		CreatedAt: time.Now().UTC(),
	}
}
