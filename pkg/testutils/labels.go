package testutils

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/models"
)

var _ models.LabelGenerator = &StaticLabelGenerator{}

// StaticLabelGenerator returns canned labels and counts calls. Set Err to
// make every method fail.
type StaticLabelGenerator struct {
	Topic    string
	Keywords []string
	Summary  string
	Err      error

	TopicCalls    int64
	KeywordsCalls int64
	SummaryCalls  int64
}

func (g *StaticLabelGenerator) GenerateTopic(
	_ context.Context,
	req *models.LabelRequest,
) (string, error) {
	atomic.AddInt64(&g.TopicCalls, 1)
	if g.Err != nil {
		return "", g.Err
	}
	if g.Topic != "" {
		return g.Topic, nil
	}
	return "Topic for " + req.ClusterID, nil
}

func (g *StaticLabelGenerator) GenerateKeywords(
	_ context.Context,
	req *models.LabelRequest,
) ([]string, error) {
	atomic.AddInt64(&g.KeywordsCalls, 1)
	if g.Err != nil {
		return nil, g.Err
	}
	if len(g.Keywords) > 0 {
		return g.Keywords, nil
	}
	return []string{"keyword", strings.ToLower(req.ClusterID)}, nil
}

func (g *StaticLabelGenerator) GenerateSummary(
	_ context.Context,
	req *models.LabelRequest,
) (string, error) {
	atomic.AddInt64(&g.SummaryCalls, 1)
	if g.Err != nil {
		return "", g.Err
	}
	if g.Summary != "" {
		return g.Summary, nil
	}
	return "Summary of " + req.ClusterID, nil
}
