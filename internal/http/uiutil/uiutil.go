// Package uiutil holds formatting helpers shared by templates and handlers.
package uiutil

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// PostedDateLayout is used for job and application dates.
const PostedDateLayout = "Jan 2, 2006"

// RelativeSince describes how long before now t occurred, e.g. "3 days ago".
// Anything older than four weeks falls back to the calendar date.
func RelativeSince(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour")
	case diff < 28*24*time.Hour:
		return plural(int(diff.Hours()/24), "day")
	default:
		return FormatDate(t)
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return strconv.Itoa(n) + " " + unit + "s ago"
}

// FormatDate renders t in the local zone using PostedDateLayout.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(PostedDateLayout)
}

// Excerpt shortens text to limit runes on a word boundary when possible and
// appends an ellipsis when anything was cut.
func Excerpt(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > limit/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
