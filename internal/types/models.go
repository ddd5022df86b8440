package types

import (
	"time"

	"dental-calls-go/internal/classifier"
)

// CallRecord is one normalized row of the call log plus its derived fields.
// Absent text is "", absent numbers and timestamps are nil.
type CallRecord struct {
	CallTime      *time.Time `json:"call_time"`
	CallDirection string     `json:"call_direction"`
	CallStatus    string     `json:"call_status"`
	ContactType   string     `json:"contact_type"`
	Transcript    string     `json:"transcript"`

	RingDuration         *float64 `json:"ring_duration"`
	ConversationDuration *float64 `json:"conversation_duration"`
	VoicemailDuration    *float64 `json:"voicemail_duration"`
	TotalDuration        *float64 `json:"total_duration"`

	Date      string `json:"date,omitempty"` // YYYY-MM-DD
	Hour      *int   `json:"hour"`
	DayOfWeek string `json:"day_of_week,omitempty"`

	Category classifier.Category `json:"category"`

	Extra map[string]string `json:"extra,omitempty"`
}

// HasDate reports whether the call time parsed.
func (r CallRecord) HasDate() bool {
	return r.Date != ""
}
