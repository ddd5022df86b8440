package actionable

import (
	"fmt"

	"dental-calls-go/internal/types"
)

// Section groups cards on the dashboard.
type Section string

const (
	FrontDesk Section = "Front Desk Optimization"
	Revenue   Section = "Revenue Opportunities"
	Alert     Section = "Attention"
)

const (
	missedRateAlert   = 10.0 // percent
	bookingRateTarget = 25.0 // percent
	defaultQuietHour  = 11
)

type ActionCard struct {
	Section Section `json:"section"`
	Insight string  `json:"insight"`
	Action  string  `json:"action"`
	Impact  string  `json:"impact"`
}

// Generate turns a summary into the business insight cards shown under the
// charts. Order is stable: front desk first, then revenue, then alerts.
func Generate(s types.Summary) []ActionCard {
	quiet := defaultQuietHour
	if s.Hourly.Min != nil {
		quiet = s.Hourly.Min.Key
	}

	cards := []ActionCard{
		{
			Section: FrontDesk,
			Insight: fmt.Sprintf("Lowest call volume between %02d:00 and %02d:00", quiet, (quiet+1)%24),
			Action:  "Staffing: align breaks with the low-call hour",
			Impact:  "Fewer unanswered calls during peak hours",
		},
		{
			Section: FrontDesk,
			Insight: fmt.Sprintf("%d insurance and %d billing calls", s.InsuranceCalls, s.BillingCalls),
			Action:  "Training: focus on insurance and billing queries",
			Impact:  "Shorter calls and fewer transfers",
		},
		{
			Section: Revenue,
			Insight: fmt.Sprintf("%d missed calls", s.MissedCalls),
			Action:  fmt.Sprintf("Recovery: implement call-back for %d missed calls", s.MissedCalls),
			Impact:  "Recover lost appointment opportunities",
		},
		{
			Section: Revenue,
			Insight: fmt.Sprintf("Booking rate is %.2f%%", s.BookingRate),
			Action:  fmt.Sprintf("Conversion: improve booking rate from %.2f%% to %.0f%%+", s.BookingRate, bookingRateTarget),
			Impact:  "More scheduled visits from the same call volume",
		},
		{
			Section: Revenue,
			Insight: fmt.Sprintf("%d new patient calls (%.1f%% of calls)", s.NewPatientCalls, s.NewPatientPercent),
			Action:  fmt.Sprintf("Growth: focus on %d new patient acquisitions", s.NewPatientCalls),
			Impact:  "Practice growth",
		},
	}

	if s.MissedRate > missedRateAlert {
		cards = append(cards, ActionCard{
			Section: Alert,
			Insight: fmt.Sprintf("Missed call rate %.2f%% is above %.0f%%", s.MissedRate, missedRateAlert),
			Action:  "Add coverage at the busiest hour and route overflow to voicemail call-backs",
			Impact:  "Reduce missed opportunities",
		})
	}
	return cards
}
