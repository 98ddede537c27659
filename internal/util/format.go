package util //nolint:revive // package name util hosts shared formatting helpers used by the admin CLI

import "time"

// FormatTTL formats a Redis key lifetime for display. Redis reports -1 for
// keys without expiry and -2 for keys that no longer exist.
func FormatTTL(d time.Duration) string {
	switch {
	case d == -1:
		return "no expiry"
	case d < 0:
		return "expired"
	case d < time.Second:
		return "<1s"
	default:
		return d.Truncate(time.Second).String()
	}
}
