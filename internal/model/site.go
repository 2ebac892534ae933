package model

// Site is a candidate enrollment location with fixed operational metrics.
type Site struct {
	ID                string `json:"site_id"`
	Country           string `json:"country"`
	MonthlyPatients   int    `json:"monthly_patients"`
	ActiveTrials      int    `json:"active_trials"`
	EDCExperience     bool   `json:"edc_experience"`
	AvgEnrollmentDays int    `json:"avg_enrollment_days"`
}

// EDCLabel renders EDC experience the way the site table displays it.
func (s Site) EDCLabel() string {
	if s.EDCExperience {
		return "Yes"
	}
	return "No"
}

// ScoredSite attaches a composite score (0-100, two decimals) to a site for
// the duration of one ranking call.
type ScoredSite struct {
	Site
	Score float64 `json:"score"`
}

// candidateSites is the fixed site table. Order matters: ranking ties keep it.
var candidateSites = [...]Site{
	{ID: "S1", Country: "India", MonthlyPatients: 80, ActiveTrials: 4, EDCExperience: true, AvgEnrollmentDays: 45},
	{ID: "S2", Country: "Singapore", MonthlyPatients: 40, ActiveTrials: 2, EDCExperience: true, AvgEnrollmentDays: 30},
	{ID: "S3", Country: "Malaysia", MonthlyPatients: 60, ActiveTrials: 5, EDCExperience: false, AvgEnrollmentDays: 55},
	{ID: "S4", Country: "Thailand", MonthlyPatients: 35, ActiveTrials: 1, EDCExperience: true, AvgEnrollmentDays: 25},
}

// CandidateSites returns a copy of the fixed site table in its canonical order.
// Callers may modify the returned slice freely.
func CandidateSites() []Site {
	out := make([]Site, len(candidateSites))
	copy(out, candidateSites[:])
	return out
}
