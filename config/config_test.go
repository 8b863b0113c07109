package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	os.Unsetenv("AI_PROVIDER")
	os.Unsetenv("AI_MODEL")
	os.Unsetenv("SCHEDULER_SCAN_INTERVAL")
	os.Unsetenv("SCHEDULER_PUBLISH_DELAY")

	cfg := LoadConfig()

	assert.Equal(t, "gemini", cfg.AIProvider)
	assert.Equal(t, "gemini-1.5-flash", cfg.AIModel)
	assert.Equal(t, 5*time.Minute, cfg.ScanInterval)
	assert.Equal(t, 2*time.Second, cfg.PublishDelay)
	assert.Equal(t, "3000", cfg.ServerPort)
}

func TestLoadConfigModelFollowsProvider(t *testing.T) {
	os.Setenv("AI_PROVIDER", "openai")
	os.Unsetenv("AI_MODEL")
	defer os.Unsetenv("AI_PROVIDER")

	cfg := LoadConfig()

	assert.Equal(t, "gpt-4o-mini", cfg.AIModel)
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected time.Duration
	}{
		{name: "go duration string", value: "90s", expected: 90 * time.Second},
		{name: "bare seconds", value: "30", expected: 30 * time.Second},
		{name: "invalid falls back", value: "soon", expected: time.Minute},
		{name: "negative falls back", value: "-5s", expected: time.Minute},
		{name: "empty falls back", value: "", expected: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value == "" {
				os.Unsetenv("TEST_DURATION")
			} else {
				os.Setenv("TEST_DURATION", tt.value)
				defer os.Unsetenv("TEST_DURATION")
			}
			assert.Equal(t, tt.expected, getEnvDuration("TEST_DURATION", time.Minute))
		})
	}
}

func TestValidate(t *testing.T) {
	valid := &Config{
		DatabaseURL:        "postgres://localhost/db",
		AIProvider:         "gemini",
		AIAPIKey:           "key",
		SlackToken:         "xoxb-token",
		SlackSigningSecret: "secret",
	}
	assert.NoError(t, valid.Validate())

	missingKey := *valid
	missingKey.AIAPIKey = ""
	assert.ErrorContains(t, missingKey.Validate(), "AI_API_KEY")

	missingSlack := *valid
	missingSlack.SlackToken = ""
	assert.ErrorContains(t, missingSlack.Validate(), "SLACK_BOT_TOKEN")
}

func TestPlatformCatalog(t *testing.T) {
	for _, key := range DefaultPlatforms {
		_, ok := Platforms[key]
		assert.True(t, ok, "default platform %s must be in the catalog", key)
	}

	assert.Equal(t, 280, Platforms["twitter"].MaxLength)
	assert.True(t, Platforms["linkedin"].Formal)
	assert.False(t, Platforms["press"].Hashtags)
}
