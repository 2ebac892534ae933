package llm

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/trial-agent/pkg/anthropic"
)

type anthropicGenerator struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropic returns a Generator backed by the Anthropic Messages API.
// System messages are joined into the request's system prompt.
func NewAnthropic(client anthropic.Client, model string, maxTokens int64) Generator {
	return &anthropicGenerator{client: client, model: model, maxTokens: maxTokens}
}

func (g *anthropicGenerator) Name() string { return "anthropic" }

func (g *anthropicGenerator) Generate(ctx context.Context, msgs []Message) (string, error) {
	var system []string
	var convo []anthropic.Message
	for _, m := range msgs {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		convo = append(convo, anthropic.Message{Role: m.Role, Content: m.Content})
	}

	resp, err := g.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		System:    strings.Join(system, "\n\n"),
		Messages:  convo,
	})
	if err != nil {
		return "", eris.Wrap(err, "llm: anthropic generate")
	}
	resp.Usage.LogCost(g.model, "protocol")

	text := resp.Text()
	if text == "" {
		return "", eris.New("llm: anthropic returned no text")
	}
	return text, nil
}
