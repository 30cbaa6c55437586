// Package clustercache is the façade of the vector-cluster cache engine: it
// decides per request whether a previously computed clustering result may be
// served or must be recomputed, and orchestrates the clustering backends,
// the enhancer and the cache store.
package clustercache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/api996/AIHeuristicLearningApp-sub003/internal"
	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/backend"
	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/enhancer"
	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/models"
)

var log = internal.GetLogger()

const (
	defaultStoreAttempts   = 3
	storeBackoffInitial    = 200 * time.Millisecond
	storeBackoffMax        = 2 * time.Second
	defaultMinVectorCount  = 5
	defaultCacheTTLInHours = 168
)

type Service struct {
	appState *models.AppState
	selector *backend.Selector
	enhancer *enhancer.Enhancer
	// group coalesces concurrent recomputations per user: the backend call
	// is the most expensive step in the pipeline, so a second request for
	// the same user shares the in-flight result instead of duplicating it.
	group      singleflight.Group
	writeRetry retrypolicy.RetryPolicy[any]
	readRetry  retrypolicy.RetryPolicy[*models.CacheEntry]
	excluded   map[string]struct{}
}

func NewService(appState *models.AppState) *Service {
	cfg := appState.Config

	storeAttempts := cfg.Cache.WriteAttempts
	if storeAttempts <= 0 {
		storeAttempts = defaultStoreAttempts
	}
	writeRetry := retrypolicy.Builder[any]().
		WithBackoff(storeBackoffInitial, storeBackoffMax).
		WithMaxRetries(storeAttempts - 1).
		Build()
	// An absent entry is a normal outcome, not a failure worth retrying.
	readRetry := retrypolicy.Builder[*models.CacheEntry]().
		HandleIf(func(_ *models.CacheEntry, err error) bool {
			return err != nil && !errors.Is(err, models.ErrNotFound)
		}).
		WithBackoff(storeBackoffInitial, storeBackoffMax).
		WithMaxRetries(storeAttempts - 1).
		Build()

	excluded := make(map[string]struct{}, len(cfg.Cache.ExcludedUserIDs))
	for _, id := range cfg.Cache.ExcludedUserIDs {
		excluded[id] = struct{}{}
	}

	return &Service{
		appState:   appState,
		selector:   backend.NewSelector(cfg),
		enhancer:   enhancer.NewEnhancer(cfg, appState.LabelGenerator),
		writeRetry: writeRetry,
		readRetry:  readRetry,
		excluded:   excluded,
	}
}

// GetClusters returns the topical clusters for a user, serving the cached
// set when the invalidation policy allows and recomputing otherwise. Only an
// InputError can surface; every other failure degrades to a stale or empty
// result.
func (s *Service) GetClusters(
	ctx context.Context,
	userID string,
	forceRefresh bool,
) (models.ClusterSet, error) {
	if _, ok := s.excluded[userID]; ok {
		log.Debugf("user %s is excluded from clustering", userID)
		return models.ClusterSet{}, nil
	}

	stats, err := s.appState.VectorStore.GetStatistics(ctx, userID)
	if err != nil {
		return nil, err
	}

	cached := s.loadEntry(ctx, userID)

	if err := s.checkInputFloor(stats); err != nil {
		log.Debugf("user %s: %v", userID, err)
		if cached != nil {
			return cached.Clusters, nil
		}
		return models.ClusterSet{}, nil
	}

	if !forceRefresh {
		recompute, reason := ShouldRecompute(cached, stats, time.Now(), &s.appState.Config.Cache)
		if !recompute && cached != nil && cached.Clusters.HasMeaningfulTopic() {
			log.Debugf("serving cached clusters for user %s: %s", userID, reason)
			return cached.Clusters, nil
		}
		log.Debugf("recomputing clusters for user %s: %s", userID, reason)
	}

	// The recomputation runs detached from the caller's cancellation: an
	// abandoned request must not fail the waiters coalesced onto the same
	// flight. The backend and collaborator timeouts still bound it.
	v, err, shared := s.group.Do(userID, func() (interface{}, error) {
		return s.recompute(context.WithoutCancel(ctx), userID, stats, cached)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		log.Debugf("user %s: joined in-flight recomputation", userID)
	}
	return v.(models.ClusterSet), nil
}

// checkInputFloor reports ErrInsufficientData when a user has too few
// vectorized records to cluster. The caller resolves it by serving the cached
// or empty set; it never surfaces.
func (s *Service) checkInputFloor(stats *models.InputStatistics) error {
	minVectorCount := s.appState.Config.Cache.MinVectorCount
	if minVectorCount <= 0 {
		minVectorCount = defaultMinVectorCount
	}
	if stats.VectorizedRecordCount < minVectorCount {
		return fmt.Errorf("%w: %d vectorized records, need %d",
			models.ErrInsufficientData, stats.VectorizedRecordCount, minVectorCount)
	}
	return nil
}

// ClearCache deletes the cached cluster set for a user.
func (s *Service) ClearCache(ctx context.Context, userID string) error {
	return s.appState.CacheStore.Clear(ctx, userID)
}

func (s *Service) recompute(
	ctx context.Context,
	userID string,
	stats *models.InputStatistics,
	prior *models.CacheEntry,
) (models.ClusterSet, error) {
	vectors, err := s.appState.VectorStore.GetMemberVectors(ctx, userID)
	if err != nil {
		return nil, err
	}

	set, err := s.selector.Compute(ctx, vectors)
	if err != nil {
		return nil, err
	}

	if len(set) == 0 {
		if prior != nil && len(prior.Clusters) > 0 {
			log.Warnf("computation yielded no clusters for user %s, serving stale cache", userID)
			return prior.Clusters, nil
		}
		return models.ClusterSet{}, nil
	}

	set = s.enhancer.Enhance(ctx, userID, set, s.appState.VectorStore)

	entry := s.buildEntry(userID, set, len(vectors), prior)
	if err := s.persist(ctx, entry); err != nil {
		// Persistence failures never surface as computation failures: the
		// cache is an optimization, not a correctness-critical path.
		log.Errorf("failed to persist cluster cache for user %s: %v", userID, err)
	}

	return set, nil
}

func (s *Service) buildEntry(
	userID string,
	set models.ClusterSet,
	vectorCount int,
	prior *models.CacheEntry,
) *models.CacheEntry {
	now := time.Now()
	createdAt := now
	if prior != nil {
		createdAt = prior.CreatedAt
	}

	ttlHours := s.appState.Config.Cache.TTLHours
	if ttlHours <= 0 {
		ttlHours = defaultCacheTTLInHours
	}

	return &models.CacheEntry{
		UUID:         uuid.New(),
		UserID:       userID,
		Clusters:     set,
		ClusterCount: len(set),
		VectorCount:  vectorCount,
		CreatedAt:    createdAt,
		UpdatedAt:    now,
		ExpiresAt:    now.Add(time.Duration(ttlHours) * time.Hour),
	}
}

func (s *Service) persist(ctx context.Context, entry *models.CacheEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	_, err := failsafe.Get(func() (any, error) {
		return nil, s.appState.CacheStore.Put(ctx, entry)
	}, s.writeRetry)
	if err != nil {
		return models.NewPersistenceError("cache write failed after retries", err)
	}
	return nil
}

// loadEntry returns the cached entry for a user, or nil when absent. Transient
// read failures are retried with the same backoff as writes: giving up on a
// fresh entry forces a recomputation, so a single blip must not discard it.
// Only a persistent failure degrades to a recomputation.
func (s *Service) loadEntry(ctx context.Context, userID string) *models.CacheEntry {
	entry, err := failsafe.Get(func() (*models.CacheEntry, error) {
		return s.appState.CacheStore.Get(ctx, userID)
	}, s.readRetry)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			log.Warnf("failed to read cluster cache for user %s after retries: %v", userID, err)
		}
		return nil
	}
	return entry
}
