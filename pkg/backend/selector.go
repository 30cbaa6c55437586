// Package backend selects between the out-of-process clustering service and
// the local K-means kernel, normalizing both outputs into one ClusterSet
// shape so callers never branch on which backend produced the result.
package backend

import (
	"context"
	"time"

	"github.com/api996/AIHeuristicLearningApp-sub003/config"
	"github.com/api996/AIHeuristicLearningApp-sub003/internal"
	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/kmeans"
	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/models"
)

var log = internal.GetLogger()

const DefaultBackendTimeout = 60 * time.Second

type Selector struct {
	command       string
	args          []string
	timeout       time.Duration
	maxIterations int
	restarts      int
	seed          int64
}

func NewSelector(cfg *config.Config) *Selector {
	timeout := time.Duration(cfg.Clustering.Backend.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = DefaultBackendTimeout
	}
	maxIterations := cfg.Clustering.MaxIterations
	if maxIterations <= 0 {
		maxIterations = kmeans.DefaultMaxIterations
	}
	restarts := cfg.Clustering.Restarts
	if restarts <= 0 {
		restarts = kmeans.DefaultRestarts
	}
	seed := cfg.Clustering.Seed
	if seed == 0 {
		seed = kmeans.DefaultSeed
	}
	return &Selector{
		command:       cfg.Clustering.Backend.Command,
		args:          cfg.Clustering.Backend.Args,
		timeout:       timeout,
		maxIterations: maxIterations,
		restarts:      restarts,
		seed:          seed,
	}
}

// Compute clusters the vectors, attempting the primary backend first and
// falling back to the local kernel on any primary failure. Primary failures
// are logged, never returned; only an InputError from the kernel can surface.
func (s *Selector) Compute(
	ctx context.Context,
	vectors []models.MemberVector,
) (models.ClusterSet, error) {
	if len(vectors) == 0 {
		return models.ClusterSet{}, nil
	}

	if s.command != "" {
		set, err := s.computePrimary(ctx, vectors)
		if err == nil {
			log.Debugf("primary backend clustered %d vectors into %d clusters",
				len(vectors), len(set))
			return set, nil
		}
		log.Warnf("primary clustering backend failed, falling back to local kernel: %v", err)
	}

	k := kmeans.OptimalK(len(vectors))
	set, err := kmeans.ClusterBest(vectors, k, s.maxIterations, s.restarts, s.seed)
	if err != nil {
		return nil, err
	}
	log.Debugf("local kernel clustered %d vectors into %d clusters (k=%d)",
		len(vectors), len(set), k)
	return set, nil
}
