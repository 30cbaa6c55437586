// Package enhancer enriches raw clusters with human-readable topics,
// keywords and summaries. Labels come from the external label generation
// collaborator when it is available and from local heuristics when it is
// not; enhancement is total and never fails a request.
package enhancer

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/viterin/vek/vek32"

	"github.com/api996/AIHeuristicLearningApp-sub003/config"
	"github.com/api996/AIHeuristicLearningApp-sub003/internal"
	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/models"
)

var log = internal.GetLogger()

type Enhancer struct {
	generator    models.LabelGenerator
	batchSize    int
	batchDelay   time.Duration
	clusterDelay time.Duration
	maxSnippets  int
	maxKeywords  int
}

// NewEnhancer creates an Enhancer. generator may be nil, in which case every
// cluster is labeled via the local heuristics.
func NewEnhancer(cfg *config.Config, generator models.LabelGenerator) *Enhancer {
	batchSize := cfg.Enhancer.BatchSize
	if batchSize <= 0 {
		batchSize = 3
	}
	maxSnippets := cfg.Enhancer.MaxSnippets
	if maxSnippets <= 0 {
		maxSnippets = 5
	}
	maxKeywords := cfg.Enhancer.MaxKeywords
	if maxKeywords <= 0 {
		maxKeywords = 5
	}
	return &Enhancer{
		generator:    generator,
		batchSize:    batchSize,
		batchDelay:   time.Duration(cfg.Enhancer.BatchDelayMs) * time.Millisecond,
		clusterDelay: time.Duration(cfg.Enhancer.ClusterDelayMs) * time.Millisecond,
		maxSnippets:  maxSnippets,
		maxKeywords:  maxKeywords,
	}
}

// Enhance fills in a non-empty topic for every cluster in the set, plus
// keywords and a summary where missing. Clusters are processed in small
// batches with inter-batch and per-cluster delays to respect the
// collaborator's rate limits.
func (e *Enhancer) Enhance(
	ctx context.Context,
	userID string,
	set models.ClusterSet,
	lookup models.MemberContentLookup,
) models.ClusterSet {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for i, id := range ids {
		if i > 0 && i%e.batchSize == 0 {
			if !sleepCtx(ctx, e.batchDelay) {
				log.Warnf("enhancement interrupted for user %s after %d of %d clusters",
					userID, i, len(ids))
				break
			}
		}
		called := e.enhanceCluster(ctx, userID, set[id], lookup)
		if called {
			sleepCtx(ctx, e.clusterDelay)
		}
	}
	return set
}

// enhanceCluster enriches one cluster and reports whether the collaborator
// was called.
func (e *Enhancer) enhanceCluster(
	ctx context.Context,
	userID string,
	cluster *models.Cluster,
	lookup models.MemberContentLookup,
) bool {
	needTopic := !models.IsMeaningfulTopic(cluster.Topic)
	needKeywords := len(cluster.Keywords) == 0
	needSummary := cluster.Summary == ""
	if !needTopic && !needKeywords && !needSummary {
		return false
	}

	snippets := e.representatives(ctx, userID, cluster, lookup)
	req := &models.LabelRequest{
		ClusterID:   cluster.ID,
		MemberCount: len(cluster.MemberIDs),
		Snippets:    snippets,
	}

	called := false

	if needKeywords {
		keywords, err := e.generateKeywords(ctx, req)
		called = called || e.generator != nil
		if err != nil {
			log.Debugf("keyword generation fell back to local heuristic for cluster %s: %v",
				cluster.ID, models.NewCollaboratorUnavailableError("keywords", err))
			keywords = ExtractKeywords(snippets, e.maxKeywords)
		}
		cluster.Keywords = keywords
	}
	req.Keywords = cluster.Keywords

	if needTopic {
		topic, err := e.generateTopic(ctx, req)
		called = called || e.generator != nil
		if err != nil {
			log.Debugf("topic generation fell back to local heuristic for cluster %s: %v",
				cluster.ID, models.NewCollaboratorUnavailableError("topic", err))
			keywords := cluster.Keywords
			if len(keywords) == 0 {
				keywords = ExtractKeywords(snippets, e.maxKeywords)
			}
			topic = SynthesizeTopic(keywords, cluster.ID)
		}
		cluster.Topic = topic
	}

	if needSummary {
		summary, err := e.generateSummary(ctx, req)
		called = called || e.generator != nil
		if err != nil {
			log.Debugf("summary generation fell back to local heuristic for cluster %s: %v",
				cluster.ID, models.NewCollaboratorUnavailableError("summary", err))
			summary = LeadSentence(snippets)
		}
		cluster.Summary = summary
	}

	return called
}

func (e *Enhancer) generateTopic(ctx context.Context, req *models.LabelRequest) (string, error) {
	if e.generator == nil {
		return "", models.NewCollaboratorUnavailableError("no label generator configured", nil)
	}
	return e.generator.GenerateTopic(ctx, req)
}

func (e *Enhancer) generateKeywords(ctx context.Context, req *models.LabelRequest) ([]string, error) {
	if e.generator == nil {
		return nil, models.NewCollaboratorUnavailableError("no label generator configured", nil)
	}
	return e.generator.GenerateKeywords(ctx, req)
}

func (e *Enhancer) generateSummary(ctx context.Context, req *models.LabelRequest) (string, error) {
	if e.generator == nil {
		return "", models.NewCollaboratorUnavailableError("no label generator configured", nil)
	}
	return e.generator.GenerateSummary(ctx, req)
}

// representatives returns up to maxSnippets member contents, preferring
// those closest to the cluster centroid. Records without a usable embedding
// are ordered last, so the first available contents still serve when
// distances cannot be computed.
func (e *Enhancer) representatives(
	ctx context.Context,
	userID string,
	cluster *models.Cluster,
	lookup models.MemberContentLookup,
) []string {
	if lookup == nil {
		return nil
	}
	records, err := lookup.GetContents(ctx, userID, cluster.MemberIDs)
	if err != nil {
		log.Warnf("failed to look up member contents for cluster %s: %v", cluster.ID, err)
		return nil
	}

	type scored struct {
		content  string
		distance float64
	}
	candidates := make([]scored, 0, len(records))
	for _, r := range records {
		if r.Content == "" {
			continue
		}
		distance := math.Inf(1)
		if len(r.Embedding) > 0 && len(r.Embedding) == len(cluster.Centroid) {
			distance = float64(vek32.Distance(r.Embedding, cluster.Centroid))
		}
		candidates = append(candidates, scored{content: r.Content, distance: distance})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	if len(candidates) > e.maxSnippets {
		candidates = candidates[:e.maxSnippets]
	}
	snippets := make([]string, len(candidates))
	for i, c := range candidates {
		snippets[i] = c.content
	}
	return snippets
}

// sleepCtx sleeps for d unless the context is done first. Returns false when
// interrupted.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
