package database

import (
	"context"

	"github.com/sirupsen/logrus"
)

// CreateTables creates all necessary database tables.
func (db *DB) CreateTables(ctx context.Context) error {
	logrus.Info("Creating database tables...")

	articlesTable := `
	CREATE TABLE IF NOT EXISTS articles (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		url VARCHAR(500) NOT NULL UNIQUE,
		user_id BIGINT NOT NULL,
		title VARCHAR(500),
		content TEXT,
		summary TEXT,
		sentiment VARCHAR(20) DEFAULT 'neutral',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_articles_user ON articles(user_id);
	CREATE INDEX IF NOT EXISTS idx_articles_created ON articles(created_at DESC);
	`

	postsTable := `
	CREATE TABLE IF NOT EXISTS posts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		article_id UUID NOT NULL,
		platform VARCHAR(50) NOT NULL,
		content TEXT NOT NULL,
		hashtags VARCHAR(500) DEFAULT '',
		status VARCHAR(50) DEFAULT 'draft',
		scheduled_time TIMESTAMP,
		published_time TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (article_id) REFERENCES articles(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_posts_status ON posts(status);
	CREATE INDEX IF NOT EXISTS idx_posts_scheduled ON posts(scheduled_time);
	CREATE INDEX IF NOT EXISTS idx_posts_article ON posts(article_id);
	`

	settingsTable := `
	CREATE TABLE IF NOT EXISTS user_settings (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id BIGINT NOT NULL UNIQUE,
		brand_name VARCHAR(200) DEFAULT '',
		brand_tone VARCHAR(200) DEFAULT '',
		preferred_platforms TEXT DEFAULT '[]',
		auto_schedule BOOLEAN DEFAULT TRUE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	tables := []string{articlesTable, postsTable, settingsTable}

	for _, table := range tables {
		if _, err := db.Pool.Exec(ctx, table); err != nil {
			return err
		}
	}

	logrus.Info("✅ All tables created successfully")
	return nil
}
