package llms

import (
	"context"

	"github.com/tmc/langchaingo/llms/openai"

	"github.com/api996/AIHeuristicLearningApp-sub003/config"
	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/models"
)

var _ models.EmbeddingsClient = &OpenAIEmbeddingsClient{}

func NewOpenAIEmbeddingsClient(ctx context.Context, cfg *config.Config) (*OpenAIEmbeddingsClient, error) {
	client := &OpenAIEmbeddingsClient{}
	err := client.init(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// OpenAIEmbeddingsClient embeds texts via an OpenAI-compatible service. It
// uses the same langchain openai chat client builder as the label generator.
type OpenAIEmbeddingsClient struct {
	client *openai.Chat
}

func (c *OpenAIEmbeddingsClient) init(_ context.Context, cfg *config.Config) error {
	apiKey := GetOpenAIAPIKey(cfg)

	// Even if it will only be used for embeddings, we should pass a valid
	// openai llm model to avoid any errors
	options := GetBaseOpenAIClientOptions(apiKey, getValidOpenAIModel())
	options = ConfigureOpenAIClientOptions(options, cfg)

	client, err := openai.NewChat(options...)
	if err != nil {
		return err
	}
	c.client = client

	return nil
}

func (c *OpenAIEmbeddingsClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if c.client == nil {
		return nil, NewLLMError(InvalidLLMModelError, nil)
	}

	thisCtx, cancel := context.WithTimeout(ctx, OpenAIAPITimeout)
	defer cancel()

	embeddings, err := c.client.CreateEmbedding(thisCtx, texts)
	if err != nil {
		return nil, NewLLMError("error while creating embedding", err)
	}

	return embeddings, nil
}

func getValidOpenAIModel() string {
	for k := range ValidOpenAILLMs {
		return k
	}
	return "gpt-3.5-turbo"
}
