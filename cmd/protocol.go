package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/trial-agent/internal/export"
	"github.com/sells-group/trial-agent/internal/llm"
	"github.com/sells-group/trial-agent/internal/protocol"
)

var protocolCmd = &cobra.Command{
	Use:   "protocol [idea...]",
	Short: "Draft a clinical trial protocol from a study idea",
	Long: `Draft a six-section clinical trial protocol (Title, Objective, Study Design,
Population, Primary Endpoint, Sample Size) from a free-text study idea.

When the configured LLM is unreachable the fixed protocol template is
printed instead. Every draft requires human review.

Examples:
  protocol "Low-dose aspirin for migraine prevention in adults"
  protocol --file idea.txt
  echo "statins in the elderly" | protocol --file -
  protocol --format json "statins in the elderly"`,
	RunE: runProtocol,
}

func init() {
	f := protocolCmd.Flags()
	f.String("file", "", "read the study idea from a file (- for stdin)")
	f.String("format", "text", "output format: text or json")

	rootCmd.AddCommand(protocolCmd)
}

func runProtocol(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	format, _ := cmd.Flags().GetString("format")
	if format != "text" && format != "json" {
		return eris.Errorf("protocol: --format must be text or json (got %q)", format)
	}

	idea, err := readIdea(cmd.InOrStdin(), file, args)
	if err != nil {
		return err
	}

	log := zap.L().With(zap.String("command", "protocol"), zap.String("run_id", uuid.NewString()))

	gen := llm.New(cmd.Context(), cfg)
	log.Debug("drafting protocol", zap.String("backend", gen.Name()))

	res := protocol.NewDrafter(gen).Draft(cmd.Context(), idea)
	return writeProtocolResult(cmd.OutOrStdout(), res, format)
}

// readIdea prefers --file, then positional args.
func readIdea(stdin io.Reader, file string, args []string) (string, error) {
	switch file {
	case "":
		return strings.Join(args, " "), nil
	case "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", eris.Wrap(err, "protocol: read stdin")
		}
		return string(b), nil
	default:
		b, err := os.ReadFile(file)
		if err != nil {
			return "", eris.Wrapf(err, "protocol: read %s", file)
		}
		return string(b), nil
	}
}

func writeProtocolResult(w io.Writer, res protocol.Result, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(res), "protocol: encode json")
	}

	if res.Warning != "" {
		_, err := fmt.Fprintln(w, res.Warning)
		return eris.Wrap(err, "protocol: write warning")
	}

	var b strings.Builder
	if res.Notice != "" {
		b.WriteString(res.Notice + "\n\n")
	}
	b.WriteString("=== Protocol ===\n")
	b.WriteString(res.Draft + "\n\n")
	b.WriteString("=== Verification ===\n")
	b.WriteString(res.Verification + "\n\n")
	b.WriteString("=== Audit Log ===\n")
	if _, err := io.WriteString(w, b.String()); err != nil {
		return eris.Wrap(err, "protocol: write output")
	}
	return export.WriteAuditTable(w, res.Audit)
}
