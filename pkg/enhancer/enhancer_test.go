package enhancer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/api996/AIHeuristicLearningApp-sub003/config"
	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/models"
	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/testutils"
)

type stubLookup struct {
	records map[string]models.MemberRecord
	err     error
}

func (s *stubLookup) GetContents(
	_ context.Context,
	_ string,
	memberIDs []string,
) ([]models.MemberRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	records := make([]models.MemberRecord, 0, len(memberIDs))
	for _, id := range memberIDs {
		if r, ok := s.records[id]; ok {
			records = append(records, r)
		}
	}
	return records, nil
}

func enhancerConfig() *config.Config {
	return &config.Config{
		Enhancer: config.EnhancerConfig{
			BatchSize:   3,
			MaxSnippets: 5,
			MaxKeywords: 5,
		},
	}
}

func testClusterSet() models.ClusterSet {
	return models.ClusterSet{
		"0": {
			ID:        "0",
			Centroid:  []float32{1, 0},
			MemberIDs: []string{"a", "b"},
		},
		"1": {
			ID:        "1",
			Centroid:  []float32{0, 1},
			MemberIDs: []string{"c"},
		},
	}
}

func testLookup() *stubLookup {
	return &stubLookup{records: map[string]models.MemberRecord{
		"a": {MemberID: "a", Content: "Planning a hiking trip.", Embedding: []float32{1, 0.1}},
		"b": {MemberID: "b", Content: "Bought new hiking boots.", Embedding: []float32{0.9, 0}},
		"c": {MemberID: "c", Content: "Tried a pasta recipe.", Embedding: []float32{0, 1}},
	}}
}

func TestEnhance_UsesGenerator(t *testing.T) {
	generator := &testutils.StaticLabelGenerator{
		Topic:    "Outdoor gear",
		Keywords: []string{"hiking", "boots"},
		Summary:  "Notes about hiking.",
	}
	e := NewEnhancer(enhancerConfig(), generator)

	set := e.Enhance(context.Background(), "user", testClusterSet(), testLookup())

	for _, c := range set {
		assert.Equal(t, "Outdoor gear", c.Topic)
		assert.Equal(t, []string{"hiking", "boots"}, c.Keywords)
		assert.Equal(t, "Notes about hiking.", c.Summary)
	}
	assert.EqualValues(t, 2, generator.TopicCalls)
	assert.True(t, set.HasMeaningfulTopic())
}

func TestEnhance_FallsBackOnGeneratorFailure(t *testing.T) {
	generator := &testutils.StaticLabelGenerator{Err: errors.New("rate limited")}
	e := NewEnhancer(enhancerConfig(), generator)

	set := e.Enhance(context.Background(), "user", testClusterSet(), testLookup())

	// heuristics still label every cluster
	c := set["0"]
	assert.Equal(t, "hiking and boots", c.Topic)
	assert.Contains(t, c.Keywords, "hiking")
	assert.Equal(t, "Planning a hiking trip.", c.Summary)
}

func TestEnhance_NilGenerator(t *testing.T) {
	e := NewEnhancer(enhancerConfig(), nil)

	set := e.Enhance(context.Background(), "user", testClusterSet(), testLookup())

	for _, c := range set {
		assert.NotEmpty(t, c.Topic)
		assert.NotEmpty(t, c.Summary)
	}
}

func TestEnhance_PlaceholderWhenNoContent(t *testing.T) {
	e := NewEnhancer(enhancerConfig(), nil)

	set := e.Enhance(context.Background(), "user", testClusterSet(), &stubLookup{})

	assert.Equal(t, "Cluster 0", set["0"].Topic)
	assert.Equal(t, "Cluster 1", set["1"].Topic)
	assert.False(t, set.HasMeaningfulTopic())
}

func TestEnhance_PreservesExistingLabels(t *testing.T) {
	generator := &testutils.StaticLabelGenerator{Topic: "Generated"}
	e := NewEnhancer(enhancerConfig(), generator)

	set := testClusterSet()
	set["0"].Topic = "Hiking plans"
	set["0"].Keywords = []string{"hiking"}
	set["0"].Summary = "Existing summary."

	set = e.Enhance(context.Background(), "user", set, testLookup())

	assert.Equal(t, "Hiking plans", set["0"].Topic)
	assert.Equal(t, "Existing summary.", set["0"].Summary)
	assert.Equal(t, "Generated", set["1"].Topic)
}

func TestEnhance_PlaceholderTopicIsRegenerated(t *testing.T) {
	generator := &testutils.StaticLabelGenerator{Topic: "Cooking"}
	e := NewEnhancer(enhancerConfig(), generator)

	set := testClusterSet()
	set["1"].Topic = "Cluster 1"

	set = e.Enhance(context.Background(), "user", set, testLookup())
	assert.Equal(t, "Cooking", set["1"].Topic)
}

func TestRepresentatives_OrderedByCentroidDistance(t *testing.T) {
	e := NewEnhancer(enhancerConfig(), nil)

	cluster := &models.Cluster{
		ID:        "0",
		Centroid:  []float32{1, 0},
		MemberIDs: []string{"far", "near", "noembed"},
	}
	lookup := &stubLookup{records: map[string]models.MemberRecord{
		"far":     {MemberID: "far", Content: "far content", Embedding: []float32{0, 1}},
		"near":    {MemberID: "near", Content: "near content", Embedding: []float32{1, 0.01}},
		"noembed": {MemberID: "noembed", Content: "no embedding"},
	}}

	snippets := e.representatives(context.Background(), "user", cluster, lookup)
	assert.Equal(t, []string{"near content", "far content", "no embedding"}, snippets)
}

func TestRepresentatives_LookupFailure(t *testing.T) {
	e := NewEnhancer(enhancerConfig(), nil)

	cluster := &models.Cluster{ID: "0", MemberIDs: []string{"a"}}
	snippets := e.representatives(
		context.Background(), "user", cluster, &stubLookup{err: errors.New("boom")})
	assert.Nil(t, snippets)
}
