package classifier

import "strings"

// Category is one label of the closed call taxonomy.
type Category string

const (
	MissedCall         Category = "Missed Call"
	AppointmentBooking Category = "Appointment Booking"
	Cancellation       Category = "Cancellation/Reschedule"
	InsuranceInquiry   Category = "Insurance Inquiry"
	BillingPayment     Category = "Billing/Payment"
	EmergencyClinical  Category = "Emergency/Clinical"
	FollowUpRoutine    Category = "Follow-up/Routine Care"
	Prescription       Category = "Prescription Related"
	GeneralInquiry     Category = "General Inquiry"
)

type rule struct {
	category Category
	keywords []string
}

// transcript rules, evaluated top to bottom after the missed-status check
var rules = []rule{
	{AppointmentBooking, []string{"book", "appointment", "schedule", "availability"}},
	{Cancellation, []string{"cancel", "reschedule", "postpone"}},
	{InsuranceInquiry, []string{"insurance", "coverage", "benefit"}},
	{BillingPayment, []string{"bill", "payment", "price", "fee", "charge"}},
	{EmergencyClinical, []string{"pain", "tooth", "emergency", "hurt", "swelling", "broken"}},
	{FollowUpRoutine, []string{"follow up", "check up", "cleaning", "exam"}},
	{Prescription, []string{"prescription", "medicine", "medication"}},
}

// All returns every category in priority order, the default last.
func All() []Category {
	out := make([]Category, 0, len(rules)+2)
	out = append(out, MissedCall)
	for _, r := range rules {
		out = append(out, r.category)
	}
	return append(out, GeneralInquiry)
}

// Parse maps a label back to its Category. Matching ignores case and
// surrounding whitespace.
func Parse(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range All() {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

// Classify assigns exactly one category to a call. A missed status wins over
// any transcript content; otherwise the first rule with a keyword contained in
// the transcript decides. Never fails: anything unexpected is a General Inquiry.
func Classify(transcript, callStatus string) (c Category) {
	defer func() {
		if recover() != nil {
			c = GeneralInquiry
		}
	}()

	if strings.Contains(strings.ToLower(callStatus), "missed") {
		return MissedCall
	}
	t := strings.ToLower(transcript)
	for _, r := range rules {
		if containsAny(t, r.keywords) {
			return r.category
		}
	}
	return GeneralInquiry
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
