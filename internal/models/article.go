package models

import "time"

// Sentiment classifies how an article relates to the tracked brand.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// ParseSentiment maps a free-form provider string onto a known sentiment,
// falling back to neutral for anything unrecognized.
func ParseSentiment(s string) Sentiment {
	switch Sentiment(s) {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return Sentiment(s)
	}
	return SentimentNeutral
}

// Article is a fetched and analyzed source document, uniquely keyed by URL.
// Its posts are cascade-deleted with it.
type Article struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Summary   string    `json:"summary"`
	Sentiment Sentiment `json:"sentiment"`
	CreatedAt time.Time `json:"created_at"`
}

// NewArticle creates an article pending analysis results.
func NewArticle(url string, userID int64) *Article {
	return &Article{
		URL:       url,
		UserID:    userID,
		Sentiment: SentimentNeutral,
		CreatedAt: time.Now().UTC(),
	}
}
