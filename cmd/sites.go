package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/trial-agent/internal/export"
	"github.com/sells-group/trial-agent/internal/siteselect"
)

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "Rank candidate enrollment sites",
	Long: `Rank the candidate site table by a weighted composite of monthly patient
volume (0.4), enrollment speed (0.3), EDC experience (0.2) and active trial
load (0.1), each min-max normalized across sites. Prints the ranked table,
why the top site won, and a feasibility email to it.

Examples:
  sites --target 60
  sites --target 120 --format csv --output ranked.csv
  sites --format xlsx --output ranked.xlsx`,
	RunE: runSites,
}

func init() {
	f := sitesCmd.Flags()
	f.Int("target", siteselect.DefaultTargetPatients, "target patient count for the outreach message")
	f.String("format", export.FormatTable, "output format: table, csv, json or xlsx")
	f.String("output", "", "output file path (default: stdout; required for xlsx)")

	rootCmd.AddCommand(sitesCmd)
}

func runSites(cmd *cobra.Command, _ []string) error {
	target, _ := cmd.Flags().GetInt("target")
	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	if !export.ValidFormat(format) {
		return eris.Errorf("sites: --format must be table, csv, json or xlsx (got %q)", format)
	}
	if format == export.FormatXLSX && outputPath == "" {
		return eris.New("sites: --output is required for xlsx")
	}

	log := zap.L().With(zap.String("command", "sites"), zap.String("run_id", uuid.NewString()))

	res := siteselect.NewRanker(cfg.Ranking.Weights).Rank(target)
	log.Debug("sites ranked", zap.Int("count", len(res.Ranked)))

	w := cmd.OutOrStdout()
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "sites: create output file %s", outputPath)
		}
		defer f.Close() //nolint:errcheck
		w = f
	}

	if err := writeSitesResult(w, res, format); err != nil {
		return err
	}
	if outputPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d sites to %s\n", len(res.Ranked), outputPath)
	}
	return nil
}

func writeSitesResult(w io.Writer, res siteselect.Result, format string) error {
	switch format {
	case export.FormatCSV:
		return export.WriteSitesCSV(w, res.Ranked)
	case export.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(res), "sites: encode json")
	case export.FormatXLSX:
		return export.WriteXLSX(w, res.Ranked, res.Audit)
	case export.FormatTable:
		if _, err := io.WriteString(w, "=== Ranked Sites ===\n"); err != nil {
			return eris.Wrap(err, "sites: write output")
		}
		if err := export.WriteSitesTable(w, res.Ranked); err != nil {
			return err
		}
		text := fmt.Sprintf("\n=== Explanation ===\n%s\n\n=== Email Draft ===\n%s\n\n=== Audit Log ===\n",
			res.Explanation, res.Outreach)
		if _, err := io.WriteString(w, text); err != nil {
			return eris.Wrap(err, "sites: write output")
		}
		return export.WriteAuditTable(w, res.Audit)
	default:
		return eris.Errorf("sites: unsupported format %q", format)
	}
}
