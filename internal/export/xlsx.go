package export

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/trial-agent/internal/model"
)

// Sheet names of the XLSX workbook.
const (
	SheetRankedSites = "Ranked Sites"
	SheetAuditLog    = "Audit Log"
)

// WriteXLSX writes a workbook with the ranked table and the audit log on
// separate sheets. Numeric columns are stored as numbers.
func WriteXLSX(w io.Writer, ranked []model.ScoredSite, audit []model.AuditRecord) error {
	f := xlsx.NewFile()

	sites, err := f.AddSheet(SheetRankedSites)
	if err != nil {
		return eris.Wrap(err, "xlsx: add sites sheet")
	}
	addHeader(sites, SiteColumns)
	for _, s := range ranked {
		row := sites.AddRow()
		row.AddCell().SetString(s.ID)
		row.AddCell().SetString(s.Country)
		row.AddCell().SetInt(s.MonthlyPatients)
		row.AddCell().SetInt(s.ActiveTrials)
		row.AddCell().SetString(s.EDCLabel())
		row.AddCell().SetInt(s.AvgEnrollmentDays)
		row.AddCell().SetFloat(s.Score)
	}

	auditSheet, err := f.AddSheet(SheetAuditLog)
	if err != nil {
		return eris.Wrap(err, "xlsx: add audit sheet")
	}
	addHeader(auditSheet, AuditColumns)
	for _, r := range audit {
		row := auditSheet.AddRow()
		for _, v := range auditRow(r) {
			row.AddCell().SetString(v)
		}
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "xlsx: write workbook")
	}
	return nil
}

func addHeader(sheet *xlsx.Sheet, cols []string) {
	row := sheet.AddRow()
	for _, c := range cols {
		row.AddCell().SetString(c)
	}
}
