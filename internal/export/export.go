// Package export renders ranked sites and audit rows for the CLI.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/trial-agent/internal/model"
)

// Output formats understood by Write.
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatXLSX  = "xlsx"
)

// SiteColumns are the headers of the ranked site table.
var SiteColumns = []string{
	"Site_ID", "Country", "Monthly_Patients", "Active_Trials",
	"EDC_Experience", "Avg_Enrollment_Days", "Score",
}

// AuditColumns are the headers of the audit log.
var AuditColumns = []string{"Timestamp", "Task", "Status"}

// ValidFormat reports whether f is a supported output format.
func ValidFormat(f string) bool {
	switch f {
	case FormatTable, FormatCSV, FormatJSON, FormatXLSX:
		return true
	}
	return false
}

func siteRow(s model.ScoredSite) []string {
	return []string{
		s.ID,
		s.Country,
		strconv.Itoa(s.MonthlyPatients),
		strconv.Itoa(s.ActiveTrials),
		s.EDCLabel(),
		strconv.Itoa(s.AvgEnrollmentDays),
		strconv.FormatFloat(s.Score, 'f', 2, 64),
	}
}

func auditRow(r model.AuditRecord) []string {
	return []string{r.Timestamp, string(r.Task), string(r.Status)}
}

// WriteSitesCSV writes the ranked table as CSV with a header row.
func WriteSitesCSV(w io.Writer, ranked []model.ScoredSite) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SiteColumns); err != nil {
		return eris.Wrap(err, "export: write sites CSV header")
	}
	for _, s := range ranked {
		if err := cw.Write(siteRow(s)); err != nil {
			return eris.Wrap(err, "export: write sites CSV row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush sites CSV")
}

// WriteAuditCSV writes audit rows as CSV with a header row.
func WriteAuditCSV(w io.Writer, rows []model.AuditRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(AuditColumns); err != nil {
		return eris.Wrap(err, "export: write audit CSV header")
	}
	for _, r := range rows {
		if err := cw.Write(auditRow(r)); err != nil {
			return eris.Wrap(err, "export: write audit CSV row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush audit CSV")
}

// WriteSitesTable writes the ranked table as aligned text.
func WriteSitesTable(w io.Writer, ranked []model.ScoredSite) error {
	rows := make([][]string, len(ranked))
	for i, s := range ranked {
		rows[i] = siteRow(s)
	}
	return writeTable(w, SiteColumns, rows)
}

// WriteAuditTable writes audit rows as aligned text.
func WriteAuditTable(w io.Writer, audit []model.AuditRecord) error {
	rows := make([][]string, len(audit))
	for i, r := range audit {
		rows[i] = auditRow(r)
	}
	return writeTable(w, AuditColumns, rows)
}

func writeTable(w io.Writer, header []string, rows [][]string) error {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}

	line := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = fmt.Sprintf("%-*s", widths[i], c)
		}
		return strings.TrimRight(strings.Join(parts, "  "), " ") + "\n"
	}

	total := 2 * (len(widths) - 1)
	for _, wd := range widths {
		total += wd
	}

	if _, err := fmt.Fprint(w, line(header)); err != nil {
		return eris.Wrap(err, "export: write table header")
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", total)); err != nil {
		return eris.Wrap(err, "export: write table separator")
	}
	for _, row := range rows {
		if _, err := fmt.Fprint(w, line(row)); err != nil {
			return eris.Wrap(err, "export: write table row")
		}
	}
	return nil
}
