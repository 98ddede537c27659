package uiutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelativeSince(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{-time.Hour, "just now"},
		{time.Minute, "1 minute ago"},
		{45 * time.Minute, "45 minutes ago"},
		{5 * time.Hour, "5 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{3 * 24 * time.Hour, "3 days ago"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RelativeSince(now.Add(-tt.ago), now), tt.ago.String())
	}

	old := now.Add(-60 * 24 * time.Hour)
	assert.Equal(t, FormatDate(old), RelativeSince(old, now))
	assert.Empty(t, RelativeSince(time.Time{}, now))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", Excerpt("short", 20))
	assert.Equal(t, "collapses spaces", Excerpt("collapses \n\n  spaces", 40))
	assert.Equal(t, "We are hiring a…", Excerpt("We are hiring a senior engineer", 17))
	assert.Equal(t, "abcdefghij…", Excerpt("abcdefghijklmnop", 10))
	assert.Equal(t, "unchanged", Excerpt("unchanged", 0))
}
