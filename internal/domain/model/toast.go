package model

import "time"

// Severity classifies a toast.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// Valid reports whether the severity is supported.
func (s Severity) Valid() bool {
	return s == SeveritySuccess || s == SeverityError || s == SeverityInfo
}

// Toast is a transient notification shown to a single browser.
type Toast struct {
	// Seq increases with every publish.
	Seq       uint64    `json:"seq"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	ExpiresAt time.Time `json:"expires_at"`
}
