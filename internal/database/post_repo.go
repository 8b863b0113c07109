package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/newsmakerhq/newsmaker-bot/internal/models"
)

type PostRepository struct {
	db *DB
}

func NewPostRepository(db *DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts a new post into the database.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}

	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}

	if post.Status == "" {
		post.Status = models.StatusDraft
	}

	query := `
		INSERT INTO posts (id, article_id, platform, content, hashtags, status,
		                   scheduled_time, published_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		post.ID,
		post.ArticleID,
		post.Platform,
		post.Content,
		post.Hashtags,
		post.Status,
		post.ScheduledTime,
		post.PublishedTime,
		post.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

// GetByID retrieves a post by its ID.
func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `
		SELECT id, article_id, platform, content, hashtags, status,
		       scheduled_time, published_time, created_at
		FROM posts
		WHERE id = $1
	`

	post := &models.Post{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&post.ID,
		&post.ArticleID,
		&post.Platform,
		&post.Content,
		&post.Hashtags,
		&post.Status,
		&post.ScheduledTime,
		&post.PublishedTime,
		&post.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("post not found: %w", err)
	}

	return post, nil
}

// GetByArticle retrieves all posts belonging to one article.
func (r *PostRepository) GetByArticle(ctx context.Context, articleID string) ([]*models.Post, error) {
	query := `
		SELECT id, article_id, platform, content, hashtags, status,
		       scheduled_time, published_time, created_at
		FROM posts
		WHERE article_id = $1
		ORDER BY created_at ASC
	`

	return r.queryPosts(ctx, query, articleID)
}

// GetDuePosts retrieves scheduled posts whose publication time has passed,
// oldest first so a scan publishes in timestamp order.
func (r *PostRepository) GetDuePosts(ctx context.Context, now time.Time) ([]*models.Post, error) {
	query := `
		SELECT id, article_id, platform, content, hashtags, status,
		       scheduled_time, published_time, created_at
		FROM posts
		WHERE status = $1 AND scheduled_time IS NOT NULL AND scheduled_time <= $2
		ORDER BY scheduled_time ASC
	`

	return r.queryPosts(ctx, query, models.StatusScheduled, now)
}

func (r *PostRepository) queryPosts(ctx context.Context, query string, args ...any) ([]*models.Post, error) {
	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post := &models.Post{}

		err := rows.Scan(
			&post.ID,
			&post.ArticleID,
			&post.Platform,
			&post.Content,
			&post.Hashtags,
			&post.Status,
			&post.ScheduledTime,
			&post.PublishedTime,
			&post.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}

		posts = append(posts, post)
	}

	return posts, rows.Err()
}

// Update updates a post's mutable fields.
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts
		SET content = $2, hashtags = $3, status = $4,
		    scheduled_time = $5, published_time = $6
		WHERE id = $1
	`

	result, err := r.db.Pool.Exec(ctx, query,
		post.ID,
		post.Content,
		post.Hashtags,
		post.Status,
		post.ScheduledTime,
		post.PublishedTime,
	)

	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("post not found")
	}

	return nil
}

// MarkPublished transitions a post to published and records when.
func (r *PostRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	query := `UPDATE posts SET status = $2, published_time = $3 WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, id, models.StatusPublished, publishedAt)
	if err != nil {
		return fmt.Errorf("failed to mark post published: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("post not found")
	}

	return nil
}

// MarkFailed transitions a post to failed. published_time is left untouched.
func (r *PostRepository) MarkFailed(ctx context.Context, id string) error {
	query := `UPDATE posts SET status = $2 WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, id, models.StatusFailed)
	if err != nil {
		return fmt.Errorf("failed to mark post failed: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("post not found")
	}

	return nil
}

// Reschedule sets a new scheduled time and moves the post back to scheduled.
func (r *PostRepository) Reschedule(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE posts SET status = $2, scheduled_time = $3 WHERE id = $1`

	result, err := r.db.Pool.Exec(ctx, query, id, models.StatusScheduled, at)
	if err != nil {
		return fmt.Errorf("failed to reschedule post: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("post not found")
	}

	return nil
}
