package clustercache

import (
	"time"

	"github.com/api996/AIHeuristicLearningApp-sub003/config"
	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/models"
)

// ShouldRecompute decides whether a cached cluster set may still be served.
// It is a pure function of the cached entry, the current input statistics
// and the clock. The returned reason names the matched rule for logging.
//
// Reuse is the default: recomputation is expensive and is gated behind
// multiple independent signals to avoid oscillation.
func ShouldRecompute(
	cached *models.CacheEntry,
	stats *models.InputStatistics,
	now time.Time,
	cfg *config.CacheConfig,
) (bool, string) {
	if cached == nil {
		return true, "cache entry absent"
	}

	if stats.VectorizedRecordCount < cfg.MinVectorCount {
		return false, "insufficient vectorized records"
	}

	// An explicit expiry decides in both directions and skips further checks.
	if !cached.ExpiresAt.IsZero() {
		if cached.ExpiresAt.Before(now) {
			return true, "cache entry expired"
		}
		return false, "cache entry within explicit expiry"
	}

	age := now.Sub(cached.UpdatedAt)
	if age < time.Duration(cfg.FreshnessFloorHours)*time.Hour {
		return false, "cache age below freshness floor"
	}
	if age > time.Duration(cfg.HardCeilingHours)*time.Hour {
		return true, "cache age beyond hard ceiling"
	}

	// Membership drift detects churn that vector counts cannot: equal
	// numbers of additions and deletions leave the count unchanged. It
	// overrides the growth rules below.
	if drift := membershipDrift(cached.Clusters.MemberIDSet(), stats.CurrentMemberIDs); drift > cfg.DriftThreshold {
		return true, "membership drift above threshold"
	}

	vectorDelta := stats.VectorizedRecordCount - cached.VectorCount
	if vectorDelta <= 0 {
		return false, "no vector growth"
	}
	if cached.VectorCount > 0 &&
		vectorDelta >= cfg.CountThreshold &&
		float64(vectorDelta)/float64(cached.VectorCount) >= cfg.GrowthFraction {
		return true, "vector growth above thresholds"
	}
	return false, "vector delta below thresholds"
}

// membershipDrift returns |cached Δ current| / |cached|, the fraction of the
// cached membership that no longer matches the current record set.
func membershipDrift(cachedIDs, currentIDs map[string]struct{}) float64 {
	if len(cachedIDs) == 0 {
		return 0
	}
	symmetricDiff := 0
	for id := range cachedIDs {
		if _, ok := currentIDs[id]; !ok {
			symmetricDiff++
		}
	}
	for id := range currentIDs {
		if _, ok := cachedIDs[id]; !ok {
			symmetricDiff++
		}
	}
	return float64(symmetricDiff) / float64(len(cachedIDs))
}
