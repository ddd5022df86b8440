// internal/types/kpi_models.go
package types

import (
	"cmp"

	"dental-calls-go/internal/classifier"
)

// --------------------------------------------
// Summary delivered to the dashboard
// --------------------------------------------
type Summary struct {
	TotalCalls    int `json:"total_calls"`
	AnsweredCalls int `json:"answered_calls"`
	MissedCalls   int `json:"missed_calls"`

	MissedRate          float64 `json:"missed_rate"`  // percent
	BookingRate         float64 `json:"booking_rate"` // percent
	AppointmentBookings int     `json:"appointment_bookings"`

	NewPatientCalls   int     `json:"new_patient_calls"`
	NewPatientPercent float64 `json:"new_patient_percent"`

	EmergencyCalls int `json:"emergency_calls"`
	BillingCalls   int `json:"billing_calls"`
	InsuranceCalls int `json:"insurance_calls"`

	ByCategory  map[classifier.Category]int `json:"by_category"`
	ByDirection map[string]int              `json:"by_direction"`
	ByStatus    map[string]int              `json:"by_status"`

	AvgConversation           float64                         `json:"avg_conversation"`
	AvgConversationByCategory map[classifier.Category]float64 `json:"avg_conversation_by_category"`

	Daily  Series[string] `json:"daily"`
	Hourly Series[int]    `json:"hourly"`
}

// --------------------------------------------
// Time-bucketed counts
// --------------------------------------------
type Bucket[K cmp.Ordered] struct {
	Key   K   `json:"key"`
	Count int `json:"count"`
}

// Series holds buckets in ascending key order. Peak and Min are nil when
// there are no buckets.
type Series[K cmp.Ordered] struct {
	Buckets []Bucket[K] `json:"buckets"`
	Total   int         `json:"total"`
	Mean    float64     `json:"mean"`
	Peak    *Bucket[K]  `json:"peak"`
	Min     *Bucket[K]  `json:"min"`
}

// --------------------------------------------
// Ranked category values for charts
// --------------------------------------------
type CategoryCount struct {
	Category classifier.Category `json:"category"`
	Count    int                 `json:"count"`
}

type CategoryDuration struct {
	Category classifier.Category `json:"category"`
	Seconds  float64             `json:"seconds"`
}
