package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/newsmakerhq/newsmaker-bot/internal/models"
)

type ArticleRepository struct {
	db *DB
}

func NewArticleRepository(db *DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// Create inserts a new article. The URL column is unique, so inserting a
// second article for the same URL fails at the database level as well.
func (r *ArticleRepository) Create(ctx context.Context, article *models.Article) error {
	if article.ID == "" {
		article.ID = uuid.New().String()
	}

	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO articles (id, url, user_id, title, content, summary, sentiment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		article.ID,
		article.URL,
		article.UserID,
		article.Title,
		article.Content,
		article.Summary,
		article.Sentiment,
		article.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create article: %w", err)
	}

	return nil
}

// GetByURL retrieves an article by its URL. Returns (nil, nil) when no
// article with that URL exists.
func (r *ArticleRepository) GetByURL(ctx context.Context, url string) (*models.Article, error) {
	query := `
		SELECT id, url, user_id, title, content, summary, sentiment, created_at
		FROM articles
		WHERE url = $1
	`

	article := &models.Article{}
	err := r.db.Pool.QueryRow(ctx, query, url).Scan(
		&article.ID,
		&article.URL,
		&article.UserID,
		&article.Title,
		&article.Content,
		&article.Summary,
		&article.Sentiment,
		&article.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query article: %w", err)
	}

	return article, nil
}

// GetByID retrieves an article by its ID.
func (r *ArticleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	query := `
		SELECT id, url, user_id, title, content, summary, sentiment, created_at
		FROM articles
		WHERE id = $1
	`

	article := &models.Article{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&article.ID,
		&article.URL,
		&article.UserID,
		&article.Title,
		&article.Content,
		&article.Summary,
		&article.Sentiment,
		&article.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("article not found: %w", err)
	}

	return article, nil
}

// Delete removes an article; its posts go with it via ON DELETE CASCADE.
func (r *ArticleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("article not found")
	}

	return nil
}
