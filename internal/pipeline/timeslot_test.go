package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveTimeSlot(t *testing.T) {
	now := time.Date(2025, 3, 10, 11, 45, 33, 0, time.UTC)

	tests := []struct {
		name     string
		slot     string
		expected time.Time
	}{
		{
			name:     "today with explicit time",
			slot:     "сегодня 14:00",
			expected: time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC),
		},
		{
			name:     "tomorrow with explicit time",
			slot:     "завтра 09:30",
			expected: time.Date(2025, 3, 11, 9, 30, 0, 0, time.UTC),
		},
		{
			name:     "english tomorrow token",
			slot:     "tomorrow 18:15",
			expected: time.Date(2025, 3, 11, 18, 15, 0, 0, time.UTC),
		},
		{
			name:     "time earlier than now still resolves to today",
			slot:     "сегодня 08:00",
			expected: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
		},
		{
			name:     "no time pattern falls back to now plus two hours",
			slot:     "как можно скорее",
			expected: now.Add(2 * time.Hour),
		},
		{
			name:     "empty slot falls back to now plus two hours",
			slot:     "",
			expected: now.Add(2 * time.Hour),
		},
		{
			name:     "tomorrow without time falls back to now plus two hours",
			slot:     "завтра",
			expected: now.Add(2 * time.Hour),
		},
		{
			name:     "invalid hour falls back",
			slot:     "сегодня 25:00",
			expected: now.Add(2 * time.Hour),
		},
		{
			name:     "invalid minute falls back",
			slot:     "сегодня 14:75",
			expected: now.Add(2 * time.Hour),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveTimeSlot(tt.slot, now)
			assert.Equal(t, tt.expected, got)
			assert.Zero(t, got.Second())
		})
	}
}

func TestResolveTimeSlotKeepsLocation(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	now := time.Date(2025, 3, 10, 11, 0, 0, 0, loc)

	got := ResolveTimeSlot("завтра 10:00", now)
	assert.Equal(t, loc, got.Location())
	assert.Equal(t, 11, got.Day())
}
