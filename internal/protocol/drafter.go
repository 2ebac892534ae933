// Package protocol drafts clinical trial protocols from a free-text study idea.
package protocol

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/trial-agent/internal/llm"
	"github.com/sells-group/trial-agent/internal/model"
)

// Source records where a draft came from.
type Source string

const (
	SourceGenerated Source = "generated"
	SourceOffline   Source = "offline"
	SourceError     Source = "error"
)

// Result is everything the presentation layer shows for one drafting call.
// A blank idea yields only Warning.
type Result struct {
	Warning      string              `json:"warning,omitempty"`
	Draft        string              `json:"draft"`
	Verification string              `json:"verification"`
	Source       Source              `json:"source,omitempty"`
	Notice       string              `json:"notice,omitempty"`
	Audit        []model.AuditRecord `json:"audit"`
}

// Drafter turns study ideas into protocol drafts.
type Drafter struct {
	gen llm.Generator
	now func() time.Time
}

// NewDrafter creates a Drafter. A nil generator is treated as offline.
func NewDrafter(gen llm.Generator) *Drafter {
	if gen == nil {
		gen = llm.Offline{}
	}
	return &Drafter{gen: gen, now: time.Now}
}

// Instruction builds the two-message chat instruction for an idea.
func Instruction(idea string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: SystemPrompt},
		{Role: llm.RoleUser, Content: userPrompt(idea)},
	}
}

// Draft generates a protocol for idea. It never fails: generator errors are
// replaced by FallbackTemplate.
func (d *Drafter) Draft(ctx context.Context, idea string) Result {
	if strings.TrimSpace(idea) == "" {
		return Result{Warning: EmptyIdeaWarning, Audit: []model.AuditRecord{}}
	}

	res := Result{
		Source:       SourceGenerated,
		Verification: Verification,
	}

	text, err := d.generate(ctx, Instruction(idea))
	switch {
	case err == nil:
		res.Draft = text
	case errors.Is(err, llm.ErrUnavailable):
		res.Draft = FallbackTemplate
		res.Source = SourceOffline
		res.Notice = NoticeOffline
	default:
		zap.L().Debug("protocol: generator failed, using template", zap.String("backend", d.gen.Name()))
		res.Draft = FallbackTemplate
		res.Source = SourceError
		res.Notice = NoticeError
	}

	res.Audit = []model.AuditRecord{
		model.NewAuditRecord(d.now(), model.TaskProtocolGeneration, model.StatusReviewRequired),
	}

	zap.L().Info("protocol: draft ready",
		zap.String("source", string(res.Source)),
		zap.Int("draft_len", len(res.Draft)),
	)
	return res
}

// generate calls the generator, converting a panic into an error.
func (d *Drafter) generate(ctx context.Context, msgs []llm.Message) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = eris.Errorf("protocol: generator panic: %v", r)
		}
	}()
	return d.gen.Generate(ctx, msgs)
}
