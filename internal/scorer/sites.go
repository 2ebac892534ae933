// Package scorer ranks candidate trial sites by a weighted composite of
// min-max normalized operational metrics.
package scorer

import (
	"math"
	"slices"

	"github.com/sells-group/trial-agent/internal/config"
	"github.com/sells-group/trial-agent/internal/model"
)

// degenerateNorm is the normalized value of every row when a column is constant.
const degenerateNorm = 0.5

// Normalize min-max scales values into [0, 1]. When all values are equal
// every entry is 0.5.
func Normalize(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	lo, hi := slices.Min(values), slices.Max(values)
	for i, v := range values {
		if lo == hi {
			out[i] = degenerateNorm
			continue
		}
		out[i] = (v - lo) / (hi - lo)
	}
	return out
}

// Rank scores every site and returns them sorted by descending score.
// Sites with equal scores keep their input order. The input is not modified.
func Rank(sites []model.Site, w config.RankingWeights) []model.ScoredSite {
	patients := make([]float64, len(sites))
	days := make([]float64, len(sites))
	trials := make([]float64, len(sites))
	for i, s := range sites {
		patients[i] = float64(s.MonthlyPatients)
		days[i] = float64(s.AvgEnrollmentDays)
		trials[i] = float64(s.ActiveTrials)
	}

	normPatients := Normalize(patients)
	normDays := Normalize(days)
	normTrials := Normalize(trials)

	ranked := make([]model.ScoredSite, len(sites))
	for i, s := range sites {
		edc := 0.0
		if s.EDCExperience {
			edc = 1
		}
		composite := normPatients[i]*w.MonthlyPatients +
			(1-normDays[i])*w.EnrollmentDays +
			edc*w.EDCExperience +
			(1-normTrials[i])*w.ActiveTrials

		ranked[i] = model.ScoredSite{Site: s, Score: round2(composite * 100)}
	}

	slices.SortStableFunc(ranked, func(a, b model.ScoredSite) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
	return ranked
}

// round2 rounds to two decimals, ties to even.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
