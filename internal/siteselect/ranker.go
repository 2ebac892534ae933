// Package siteselect ranks the candidate site table and drafts outreach to
// the top site.
package siteselect

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/trial-agent/internal/config"
	"github.com/sells-group/trial-agent/internal/model"
	"github.com/sells-group/trial-agent/internal/scorer"
)

// DefaultTargetPatients is the enrollment target used when a caller gives none.
const DefaultTargetPatients = 60

// Result is everything the presentation layer shows for one ranking call.
type Result struct {
	Ranked      []model.ScoredSite  `json:"ranked"`
	Explanation string              `json:"explanation"`
	Outreach    string              `json:"outreach"`
	Audit       []model.AuditRecord `json:"audit"`
}

// Ranker scores the fixed site table.
type Ranker struct {
	sites   []model.Site
	weights config.RankingWeights
	now     func() time.Time
}

// NewRanker creates a Ranker over the candidate site table.
func NewRanker(weights config.RankingWeights) *Ranker {
	return &Ranker{
		sites:   model.CandidateSites(),
		weights: weights,
		now:     time.Now,
	}
}

// Rank scores and sorts the sites. targetPatients only appears in the
// outreach message; it does not affect scores.
func (r *Ranker) Rank(targetPatients int) Result {
	res := Result{Ranked: scorer.Rank(r.sites, r.weights)}

	if len(res.Ranked) > 0 {
		top := res.Ranked[0]
		res.Explanation = Explain(top)
		res.Outreach = Outreach(top, targetPatients)

		zap.L().Info("siteselect: ranking complete",
			zap.String("top_site", top.ID),
			zap.Float64("top_score", top.Score),
			zap.Int("target_patients", targetPatients),
		)
	}

	res.Audit = []model.AuditRecord{
		model.NewAuditRecord(r.now(), model.TaskSiteRanking, model.StatusCompleted),
	}
	return res
}

// Explain summarizes why the top site ranked first.
func Explain(top model.ScoredSite) string {
	return fmt.Sprintf("Top Site: %s (%s)\n"+
		"Score: %s\n"+
		"Monthly Patients: %d\n"+
		"Enrollment Days: %d",
		top.ID, top.Country, FormatScore(top.Score), top.MonthlyPatients, top.AvgEnrollmentDays)
}

// Outreach drafts the feasibility email to the top site.
func Outreach(top model.ScoredSite, targetPatients int) string {
	return fmt.Sprintf("Subject: Enrollment Feasibility\n\n"+
		"Dear %s Team,\n\n"+
		"Can your site enroll %d patients for an upcoming study?\n"+
		"Please confirm timeline and capacity.\n\n"+
		"Regards,\nClinical Operations",
		top.ID, targetPatients)
}

// FormatScore prints a score with the shortest exact decimal form, keeping
// one decimal place for whole numbers (72.5, 60.0, 56.94).
func FormatScore(score float64) string {
	s := strconv.FormatFloat(score, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
