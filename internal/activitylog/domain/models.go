package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	SeverityInfo  = "info"
	SeverityWarn  = "warn"
	SeverityError = "error"
)

// Entry is one operational event. Entries are never mutated after
// creation and only leave the log through capacity eviction.
type Entry struct {
	ID        snowflake.ID `json:"id"`
	Timestamp time.Time    `json:"timestamp"`
	Severity  string       `json:"severity"`
	Message   string       `json:"message"`
}
