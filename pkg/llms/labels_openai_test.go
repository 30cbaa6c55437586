package llms

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/api996/AIHeuristicLearningApp-sub003/config"
)

func testLLMConfig() *config.Config {
	return &config.Config{
		LLM: config.LLM{
			Service:      "openai",
			Model:        "gpt-3.5-turbo",
			OpenAIAPIKey: "test-key",
		},
	}
}

func TestCleanLabel(t *testing.T) {
	testCases := []struct {
		completion string
		expected   string
	}{
		{"Travel plans", "Travel plans"},
		{"  \"Travel plans.\"  ", "Travel plans"},
		{"'Cooking'", "Cooking"},
		{"Topic line\nexplanatory second line", "Topic line"},
		{"", ""},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, cleanLabel(tc.completion), "completion %q", tc.completion)
	}

	long := cleanLabel(strings.Repeat("a", 200))
	assert.LessOrEqual(t, len(long), MaxTopicLength)
}

func TestParseKeywordList(t *testing.T) {
	assert.Equal(t,
		[]string{"hiking", "boots", "trail"},
		parseKeywordList("Hiking, Boots, Trail", 5))

	assert.Equal(t,
		[]string{"one", "two"},
		parseKeywordList("one\ntwo\n", 5))

	// deduplicated and limited
	assert.Equal(t,
		[]string{"left", "right"},
		parseKeywordList("left, LEFT, right, center", 2))

	assert.Empty(t, parseKeywordList(" , ,\n", 5))
}

func TestNewLabelGeneratorRejectsUnknownService(t *testing.T) {
	cfg := testLLMConfig()
	cfg.LLM.Service = "mystery"

	_, err := NewLabelGenerator(context.Background(), cfg)
	assert.ErrorContains(t, err, "invalid LLM service")
}

func TestNewLabelGeneratorRejectsInvalidModel(t *testing.T) {
	cfg := testLLMConfig()
	cfg.LLM.Model = "not-a-model"

	_, err := NewLabelGenerator(context.Background(), cfg)
	assert.ErrorContains(t, err, "invalid llm model")
}
