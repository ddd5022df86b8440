package aggregator

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"dental-calls-go/internal/classifier"
	"dental-calls-go/internal/types"
)

const newPatient = "New Patient"

// Aggregate computes the dashboard statistics over an already filtered view.
// An empty input yields zero counts, zero rates and empty series.
func Aggregate(records []types.CallRecord) types.Summary {
	s := types.Summary{
		TotalCalls:                len(records),
		ByCategory:                map[classifier.Category]int{},
		ByDirection:               map[string]int{},
		ByStatus:                  map[string]int{},
		AvgConversationByCategory: map[classifier.Category]float64{},
	}

	var convSum float64
	var convN int
	catSum := map[classifier.Category]float64{}
	catN := map[classifier.Category]int{}
	daily := map[string]int{}
	hourly := map[int]int{}

	for _, r := range records {
		status := strings.ToLower(r.CallStatus)
		if strings.Contains(status, "answered") {
			s.AnsweredCalls++
		}
		if strings.Contains(status, "missed") {
			s.MissedCalls++
		}
		if r.ContactType == newPatient {
			s.NewPatientCalls++
		}

		s.ByCategory[r.Category]++
		s.ByDirection[r.CallDirection]++
		s.ByStatus[r.CallStatus]++

		if d := r.ConversationDuration; d != nil {
			convSum += *d
			convN++
			catSum[r.Category] += *d
			catN[r.Category]++
		}
		if r.HasDate() {
			daily[r.Date]++
		}
		if r.Hour != nil {
			hourly[*r.Hour]++
		}
	}

	s.AppointmentBookings = s.ByCategory[classifier.AppointmentBooking]
	s.EmergencyCalls = s.ByCategory[classifier.EmergencyClinical]
	s.BillingCalls = s.ByCategory[classifier.BillingPayment]
	s.InsuranceCalls = s.ByCategory[classifier.InsuranceInquiry]

	s.MissedRate = round(percent(s.MissedCalls, s.TotalCalls), 2)
	s.BookingRate = round(percent(s.AppointmentBookings, s.TotalCalls), 2)
	s.NewPatientPercent = round(percent(s.NewPatientCalls, s.TotalCalls), 1)

	if convN > 0 {
		s.AvgConversation = round(convSum/float64(convN), 2)
	}
	for c, n := range catN {
		s.AvgConversationByCategory[c] = round(catSum[c]/float64(n), 2)
	}

	s.Daily = BuildSeries(daily)
	s.Hourly = BuildSeries(hourly)
	return s
}

// BuildSeries orders bucket counts by key and finds the peak and minimum
// buckets. Ties go to the smallest key.
func BuildSeries[K cmp.Ordered](counts map[K]int) types.Series[K] {
	out := types.Series[K]{Buckets: make([]types.Bucket[K], 0, len(counts))}
	for k, n := range counts {
		out.Buckets = append(out.Buckets, types.Bucket[K]{Key: k, Count: n})
		out.Total += n
	}
	if len(out.Buckets) == 0 {
		return out
	}
	slices.SortFunc(out.Buckets, func(a, b types.Bucket[K]) int { return cmp.Compare(a.Key, b.Key) })

	peak, low := out.Buckets[0], out.Buckets[0]
	for _, b := range out.Buckets[1:] {
		if b.Count > peak.Count {
			peak = b
		}
		if b.Count < low.Count {
			low = b
		}
	}
	out.Peak, out.Min = &peak, &low
	out.Mean = round(float64(out.Total)/float64(len(out.Buckets)), 2)
	return out
}

// TopCategories ranks categories by call count, highest first, ties by label.
// n <= 0 returns all.
func TopCategories(s types.Summary, n int) []types.CategoryCount {
	out := make([]types.CategoryCount, 0, len(s.ByCategory))
	for c, k := range s.ByCategory {
		out = append(out, types.CategoryCount{Category: c, Count: k})
	}
	slices.SortFunc(out, func(a, b types.CategoryCount) int {
		if a.Count != b.Count {
			return cmp.Compare(b.Count, a.Count)
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return limit(out, n)
}

// LongestCategories ranks categories by mean conversation duration, longest
// first. Categories without numeric durations are absent.
func LongestCategories(s types.Summary, n int) []types.CategoryDuration {
	out := make([]types.CategoryDuration, 0, len(s.AvgConversationByCategory))
	for c, v := range s.AvgConversationByCategory {
		out = append(out, types.CategoryDuration{Category: c, Seconds: v})
	}
	slices.SortFunc(out, func(a, b types.CategoryDuration) int {
		if a.Seconds != b.Seconds {
			return cmp.Compare(b.Seconds, a.Seconds)
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return limit(out, n)
}

func limit[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
