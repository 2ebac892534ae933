package llm

import (
	"context"

	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rotisserie/eris"
)

// chatModel is the slice of eino's BaseChatModel this package calls.
type chatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

type ollamaGenerator struct {
	model chatModel
}

// NewOllama builds a Generator on a local Ollama server through eino.
func NewOllama(ctx context.Context, baseURL, modelName string) (Generator, error) {
	if modelName == "" {
		return nil, eris.New("llm: ollama model is required")
	}
	cm, err := ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
		BaseURL: baseURL,
		Model:   modelName,
	})
	if err != nil {
		return nil, eris.Wrap(err, "llm: create ollama chat model")
	}
	return &ollamaGenerator{model: cm}, nil
}

func (g *ollamaGenerator) Name() string { return "ollama" }

func (g *ollamaGenerator) Generate(ctx context.Context, msgs []Message) (string, error) {
	input := make([]*schema.Message, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			input = append(input, schema.SystemMessage(m.Content))
		default:
			input = append(input, schema.UserMessage(m.Content))
		}
	}

	resp, err := g.model.Generate(ctx, input)
	if err != nil {
		return "", eris.Wrap(err, "llm: ollama generate")
	}
	if resp == nil || resp.Content == "" {
		return "", eris.New("llm: ollama returned no text")
	}
	return resp.Content, nil
}
