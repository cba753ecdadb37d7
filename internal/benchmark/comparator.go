// Package benchmark compares a user's week against a peer cohort.
package benchmark

import (
	"math"

	"github.com/thebtf/momentum/pkg/models"
)

// Fallback peer averages used when no cohort matches the user.
const (
	FallbackApplicationsPerWeek = 5.0
	FallbackResponseRate        = 15.0
	FallbackInterviewRate       = 8.0
)

// Placeholder deltas. Response and interview deltas are never derived from
// interaction data; every comparison reports them with RatesEstimated set.
const (
	PlaceholderApplicationsDelta = -20.0
	PlaceholderResponseDelta     = -15.0
	PlaceholderInterviewDelta    = -8.0
)

// Fallback returns the comparison used when no cohort row exists.
func Fallback(currentWeek *models.WeeklyProgress) models.BenchmarkComparison {
	peer := models.BenchmarkMetrics{
		ApplicationsPerWeek: FallbackApplicationsPerWeek,
		ResponseRate:        FallbackResponseRate,
		InterviewRate:       FallbackInterviewRate,
	}
	return models.BenchmarkComparison{
		YourPerformance: yourPerformance(currentWeek, peer),
		PeerAverage:     peer,
		Delta: models.BenchmarkMetrics{
			ApplicationsPerWeek: PlaceholderApplicationsDelta,
			ResponseRate:        PlaceholderResponseDelta,
			InterviewRate:       PlaceholderInterviewDelta,
		},
		CohortFound:    false,
		RatesEstimated: true,
	}
}

// CompareToBenchmark compares the current week against cohort.
// A nil cohort yields Fallback; the result is always renderable.
func CompareToBenchmark(currentWeek *models.WeeklyProgress, cohort *models.BenchmarkCohort) models.BenchmarkComparison {
	if cohort == nil {
		return Fallback(currentWeek)
	}

	peer := models.BenchmarkMetrics{
		ApplicationsPerWeek: cohort.AvgApplicationsPerWeek,
		ResponseRate:        cohort.AvgResponseRate,
		InterviewRate:       cohort.AvgInterviewRate,
	}
	your := yourPerformance(currentWeek, peer)
	exact := exactPercentDelta(your.ApplicationsPerWeek, peer.ApplicationsPerWeek)

	return models.BenchmarkComparison{
		YourPerformance: your,
		PeerAverage:     peer,
		Delta: models.BenchmarkMetrics{
			ApplicationsPerWeek: round1(exact),
			ResponseRate:        PlaceholderResponseDelta,
			InterviewRate:       PlaceholderInterviewDelta,
		},
		CohortFound:            true,
		RatesEstimated:         true,
		ExactApplicationsDelta: &exact,
	}
}

// PercentDelta returns ((yours - peer) / peer) * 100 rounded to one decimal.
// A non-positive peer value yields 0.
func PercentDelta(yours, peer float64) float64 {
	return round1(exactPercentDelta(yours, peer))
}

func exactPercentDelta(yours, peer float64) float64 {
	if peer <= 0 {
		return 0
	}
	return (yours - peer) / peer * 100
}

// yourPerformance reports the user's applications and shifts the peer
// rates by the placeholder deltas so the three fields stay consistent.
func yourPerformance(currentWeek *models.WeeklyProgress, peer models.BenchmarkMetrics) models.BenchmarkMetrics {
	apps := 0.0
	if currentWeek != nil && currentWeek.ApplicationsCount > 0 {
		apps = float64(currentWeek.ApplicationsCount)
	}
	return models.BenchmarkMetrics{
		ApplicationsPerWeek: apps,
		ResponseRate:        round1(peer.ResponseRate * (1 + PlaceholderResponseDelta/100)),
		InterviewRate:       round1(peer.InterviewRate * (1 + PlaceholderInterviewDelta/100)),
	}
}

func round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
