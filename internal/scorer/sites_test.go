package scorer

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/trial-agent/internal/config"
	"github.com/sells-group/trial-agent/internal/model"
)

// formulaScore evaluates the composite directly from literal site data.
func formulaScore(patients, patientsMin, patientsMax, days, daysMin, daysMax, trials, trialsMin, trialsMax float64, edc bool) float64 {
	e := 0.0
	if edc {
		e = 1
	}
	s := 0.4*(patients-patientsMin)/(patientsMax-patientsMin) +
		0.3*(1-(days-daysMin)/(daysMax-daysMin)) +
		0.2*e +
		0.1*(1-(trials-trialsMin)/(trialsMax-trialsMin))
	return math.Round(s*100*100) / 100
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{"empty", nil, []float64{}},
		{"spread", []float64{80, 40, 60, 35}, []float64{1, 5.0 / 45, 25.0 / 45, 0}},
		{"constant column", []float64{7, 7, 7, 7}, []float64{0.5, 0.5, 0.5, 0.5}},
		{"single value", []float64{3}, []float64{0.5}},
		{"two values", []float64{10, 20}, []float64{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.False(t, math.IsNaN(got[i]))
				assert.InDelta(t, tt.want[i], got[i], 1e-12)
			}
		})
	}
}

func TestRank_CanonicalSites(t *testing.T) {
	ranked := Rank(model.CandidateSites(), config.DefaultRankingWeights())
	require.Len(t, ranked, 4)

	want := map[string]float64{
		"S1": formulaScore(80, 35, 80, 45, 25, 55, 4, 1, 5, true),
		"S2": formulaScore(40, 35, 80, 30, 25, 55, 2, 1, 5, true),
		"S3": formulaScore(60, 35, 80, 55, 25, 55, 5, 1, 5, false),
		"S4": formulaScore(35, 35, 80, 25, 25, 55, 1, 1, 5, true),
	}
	for _, r := range ranked {
		assert.Equal(t, fmt.Sprintf("%.2f", want[r.ID]), fmt.Sprintf("%.2f", r.Score), r.ID)
	}

	assert.Equal(t, "72.50", fmt.Sprintf("%.2f", ranked[0].Score))

	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"S1", "S4", "S2", "S3"}, ids)
}

func TestRank_Deterministic(t *testing.T) {
	first := Rank(model.CandidateSites(), config.DefaultRankingWeights())
	for range 10 {
		assert.Equal(t, first, Rank(model.CandidateSites(), config.DefaultRankingWeights()))
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	sites := model.CandidateSites()
	Rank(sites, config.DefaultRankingWeights())
	assert.Equal(t, model.CandidateSites(), sites)
}

func TestRank_DegenerateColumns(t *testing.T) {
	sites := []model.Site{
		{ID: "A", MonthlyPatients: 50, ActiveTrials: 3, EDCExperience: true, AvgEnrollmentDays: 30},
		{ID: "B", MonthlyPatients: 50, ActiveTrials: 3, EDCExperience: true, AvgEnrollmentDays: 30},
		{ID: "C", MonthlyPatients: 50, ActiveTrials: 3, EDCExperience: false, AvgEnrollmentDays: 30},
	}

	ranked := Rank(sites, config.DefaultRankingWeights())
	require.Len(t, ranked, 3)
	// 0.4*0.5 + 0.3*0.5 + 0.2*edc + 0.1*0.5
	assert.InDelta(t, 60.0, ranked[0].Score, 1e-9)
	assert.InDelta(t, 60.0, ranked[1].Score, 1e-9)
	assert.InDelta(t, 40.0, ranked[2].Score, 1e-9)
	assert.Equal(t, "C", ranked[2].ID)
}

func TestRank_StableTies(t *testing.T) {
	sites := []model.Site{
		{ID: "T1", MonthlyPatients: 10, ActiveTrials: 1, EDCExperience: false, AvgEnrollmentDays: 20},
		{ID: "T2", MonthlyPatients: 10, ActiveTrials: 1, EDCExperience: false, AvgEnrollmentDays: 20},
		{ID: "T3", MonthlyPatients: 90, ActiveTrials: 1, EDCExperience: true, AvgEnrollmentDays: 20},
		{ID: "T4", MonthlyPatients: 10, ActiveTrials: 1, EDCExperience: false, AvgEnrollmentDays: 20},
	}

	ranked := Rank(sites, config.DefaultRankingWeights())
	ids := make([]string, len(ranked))
	for i, r := range ranked {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{"T3", "T1", "T2", "T4"}, ids)
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank(nil, config.DefaultRankingWeights()))
}

func TestRound2_TiesToEven(t *testing.T) {
	assert.InDelta(t, 0.12, round2(0.125), 1e-12)
	assert.InDelta(t, 56.94, round2(56.94444444444444), 1e-12)
	assert.InDelta(t, 72.5, round2(72.5), 1e-12)
}
