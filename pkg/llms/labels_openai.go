package llms

import (
	"context"
	"strings"

	"github.com/pkoukk/tiktoken-go"
	langchainllms "github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"github.com/api996/AIHeuristicLearningApp-sub003/config"
	"github.com/api996/AIHeuristicLearningApp-sub003/internal"
	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/models"
)

const MaxTopicLength = 80

var _ models.LabelGenerator = &OpenAILabelGenerator{}

func NewOpenAILabelGenerator(ctx context.Context, cfg *config.Config) (*OpenAILabelGenerator, error) {
	generator := &OpenAILabelGenerator{cfg: cfg}
	err := generator.init(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return generator, nil
}

// OpenAILabelGenerator generates cluster topics, keywords and summaries via
// an OpenAI-compatible chat service.
type OpenAILabelGenerator struct {
	llm              *openai.Chat
	tkm              *tiktoken.Tiktoken
	cfg              *config.Config
	maxSnippetTokens int
}

func (g *OpenAILabelGenerator) init(_ context.Context, cfg *config.Config) error {
	// Initialize the Tiktoken client
	encoding := "cl100k_base"
	tkm, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return err
	}
	g.tkm = tkm

	g.maxSnippetTokens = cfg.Enhancer.MaxSnippetTokens
	if g.maxSnippetTokens <= 0 {
		g.maxSnippetTokens = 256
	}

	apiKey := GetOpenAIAPIKey(cfg)
	options := GetBaseOpenAIClientOptions(apiKey, cfg.LLM.Model)
	options = ConfigureOpenAIClientOptions(options, cfg)

	llm, err := openai.NewChat(options...)
	if err != nil {
		return err
	}
	g.llm = llm

	return nil
}

func (g *OpenAILabelGenerator) GenerateTopic(
	ctx context.Context,
	req *models.LabelRequest,
) (string, error) {
	prompt, err := internal.ParsePrompt(topicPromptTemplate, topicPromptData{
		MemberCount:    req.MemberCount,
		KeywordsJoined: strings.Join(req.Keywords, ", "),
		SnippetsJoined: g.joinSnippets(req.Snippets),
	})
	if err != nil {
		return "", err
	}

	completion, err := g.call(ctx, prompt)
	if err != nil {
		return "", err
	}

	topic := cleanLabel(completion)
	if topic == "" {
		return "", NewLLMError("empty topic from llm", nil)
	}
	return topic, nil
}

func (g *OpenAILabelGenerator) GenerateKeywords(
	ctx context.Context,
	req *models.LabelRequest,
) ([]string, error) {
	maxKeywords := g.cfg.Enhancer.MaxKeywords
	if maxKeywords <= 0 {
		maxKeywords = 5
	}
	prompt, err := internal.ParsePrompt(keywordsPromptTemplate, keywordsPromptData{
		MaxKeywords:    maxKeywords,
		SnippetsJoined: g.joinSnippets(req.Snippets),
	})
	if err != nil {
		return nil, err
	}

	completion, err := g.call(ctx, prompt)
	if err != nil {
		return nil, err
	}

	keywords := parseKeywordList(completion, maxKeywords)
	if len(keywords) == 0 {
		return nil, NewLLMError("no keywords from llm", nil)
	}
	return keywords, nil
}

func (g *OpenAILabelGenerator) GenerateSummary(
	ctx context.Context,
	req *models.LabelRequest,
) (string, error) {
	prompt, err := internal.ParsePrompt(summaryPromptTemplate, summaryPromptData{
		MemberCount:    req.MemberCount,
		SnippetsJoined: g.joinSnippets(req.Snippets),
	})
	if err != nil {
		return "", err
	}

	completion, err := g.call(ctx, prompt)
	if err != nil {
		return "", err
	}

	summary := strings.TrimSpace(completion)
	if summary == "" {
		return "", NewLLMError("empty summary from llm", nil)
	}
	return summary, nil
}

func (g *OpenAILabelGenerator) call(ctx context.Context, prompt string) (string, error) {
	// If the LLM is not initialized, return an error
	if g.llm == nil {
		return "", NewLLMError(InvalidLLMModelError, nil)
	}

	thisCtx, cancel := context.WithTimeout(ctx, OpenAIAPITimeout)
	defer cancel()

	messages := []schema.ChatMessage{schema.SystemChatMessage{Content: prompt}}

	completion, err := g.llm.Call(thisCtx, messages,
		langchainllms.WithTemperature(DefaultTemperature))
	if err != nil {
		return "", err
	}

	return completion.GetContent(), nil
}

// joinSnippets truncates each snippet to the configured token budget and
// joins them as a bulleted list.
func (g *OpenAILabelGenerator) joinSnippets(snippets []string) string {
	lines := make([]string, len(snippets))
	for i, s := range snippets {
		lines[i] = "- " + g.truncateToTokens(s)
	}
	return strings.Join(lines, "\n")
}

func (g *OpenAILabelGenerator) truncateToTokens(text string) string {
	tokens := g.tkm.Encode(text, nil, nil)
	if len(tokens) <= g.maxSnippetTokens {
		return text
	}
	return g.tkm.Decode(tokens[:g.maxSnippetTokens])
}

// cleanLabel reduces an LLM completion to a single short label line.
func cleanLabel(completion string) string {
	label := strings.TrimSpace(completion)
	if i := strings.IndexByte(label, '\n'); i >= 0 {
		label = label[:i]
	}
	label = strings.Trim(label, `"'`)
	label = strings.TrimSuffix(label, ".")
	label = strings.TrimSpace(label)
	if len(label) > MaxTopicLength {
		label = strings.TrimSpace(label[:MaxTopicLength])
	}
	return label
}

// parseKeywordList splits a comma or newline separated completion into at
// most limit lowercase keywords.
func parseKeywordList(completion string, limit int) []string {
	fields := strings.FieldsFunc(completion, func(r rune) bool {
		return r == ',' || r == '\n'
	})
	keywords := make([]string, 0, len(fields))
	seen := make(map[string]struct{})
	for _, f := range fields {
		kw := strings.ToLower(strings.Trim(strings.TrimSpace(f), `"'.`))
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		keywords = append(keywords, kw)
		if len(keywords) == limit {
			break
		}
	}
	return keywords
}
