package models

// BenchmarkCohort is a peer-average reference row keyed by career stage and target role.
type BenchmarkCohort struct {
	CareerStage            string  `json:"career_stage" yaml:"career_stage"`
	TargetRole             string  `json:"target_role" yaml:"target_role"`
	AvgApplicationsPerWeek float64 `json:"avg_applications_per_week" yaml:"avg_applications_per_week"`
	AvgResponseRate        float64 `json:"avg_response_rate" yaml:"avg_response_rate"`
	AvgInterviewRate       float64 `json:"avg_interview_rate" yaml:"avg_interview_rate"`
}

// BenchmarkMetrics is one side of a benchmark comparison.
// Rates are percentages.
type BenchmarkMetrics struct {
	ApplicationsPerWeek float64 `json:"applications_per_week"`
	ResponseRate        float64 `json:"response_rate"`
	InterviewRate       float64 `json:"interview_rate"`
}

// BenchmarkComparison compares a user's week against a peer cohort.
// Delta values are percentage differences relative to the peer average.
type BenchmarkComparison struct {
	YourPerformance BenchmarkMetrics `json:"your_performance"`
	PeerAverage     BenchmarkMetrics `json:"peer_average"`
	Delta           BenchmarkMetrics `json:"delta"`

	// CohortFound is false when no cohort matched and fallback values are used.
	CohortFound bool `json:"cohort_found"`

	// RatesEstimated marks response and interview rates as placeholders
	// that are not derived from the user's interaction data.
	RatesEstimated bool `json:"rates_estimated"`

	// ExactApplicationsDelta is the unrounded applications delta when it was
	// computed against a cohort. Thresholds compare this value.
	ExactApplicationsDelta *float64 `json:"-"`
}

// ApplicationsLag returns the applications delta used for threshold checks.
func (c BenchmarkComparison) ApplicationsLag() float64 {
	if c.ExactApplicationsDelta != nil {
		return *c.ExactApplicationsDelta
	}
	return c.Delta.ApplicationsPerWeek
}
