package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/newsmakerhq/newsmaker-bot/internal/models"
)

type SettingsRepository struct {
	db *DB
}

func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetByUserID retrieves settings for one user. Returns (nil, nil) when the
// user has no settings row yet.
func (r *SettingsRepository) GetByUserID(ctx context.Context, userID int64) (*models.UserSettings, error) {
	query := `
		SELECT id, user_id, brand_name, brand_tone, preferred_platforms,
		       auto_schedule, created_at, updated_at
		FROM user_settings
		WHERE user_id = $1
	`

	settings := &models.UserSettings{}
	var platformsJSON string

	err := r.db.Pool.QueryRow(ctx, query, userID).Scan(
		&settings.ID,
		&settings.UserID,
		&settings.BrandName,
		&settings.BrandTone,
		&platformsJSON,
		&settings.AutoSchedule,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user settings: %w", err)
	}

	if platformsJSON != "" {
		if err := json.Unmarshal([]byte(platformsJSON), &settings.PreferredPlatforms); err != nil {
			return nil, fmt.Errorf("failed to unmarshal preferred platforms: %w", err)
		}
	}

	return settings, nil
}

// Upsert creates or updates the single settings row for a user.
func (r *SettingsRepository) Upsert(ctx context.Context, settings *models.UserSettings) error {
	if settings.ID == "" {
		settings.ID = uuid.New().String()
	}

	if settings.CreatedAt.IsZero() {
		settings.CreatedAt = time.Now().UTC()
	}
	settings.UpdatedAt = time.Now().UTC()

	if settings.PreferredPlatforms == nil {
		settings.PreferredPlatforms = []string{}
	}

	platformsJSON, err := json.Marshal(settings.PreferredPlatforms)
	if err != nil {
		return fmt.Errorf("failed to marshal preferred platforms: %w", err)
	}

	query := `
		INSERT INTO user_settings (id, user_id, brand_name, brand_tone,
		                           preferred_platforms, auto_schedule, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE
		SET brand_name = EXCLUDED.brand_name,
		    brand_tone = EXCLUDED.brand_tone,
		    preferred_platforms = EXCLUDED.preferred_platforms,
		    auto_schedule = EXCLUDED.auto_schedule,
		    updated_at = EXCLUDED.updated_at
	`

	_, err = r.db.Pool.Exec(ctx, query,
		settings.ID,
		settings.UserID,
		settings.BrandName,
		settings.BrandTone,
		string(platformsJSON),
		settings.AutoSchedule,
		settings.CreatedAt,
		settings.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert user settings: %w", err)
	}

	return nil
}
