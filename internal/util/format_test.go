package util

import (
	"testing"
	"time"
)

func TestFormatTTL(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{-1, "no expiry"},
		{-2, "expired"},
		{0, "<1s"},
		{500 * time.Millisecond, "<1s"},
		{90*time.Second + 400*time.Millisecond, "1m30s"},
		{2 * time.Hour, "2h0m0s"},
	}
	for _, tt := range tests {
		if got := FormatTTL(tt.in); got != tt.want {
			t.Errorf("FormatTTL(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
