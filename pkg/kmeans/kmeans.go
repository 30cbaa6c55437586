// Package kmeans implements the clustering kernel: pure K-means over
// equal-dimensionality embedding vectors, with no I/O.
package kmeans

import (
	"math/rand"
	"strconv"

	"github.com/viterin/vek/vek32"

	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/models"
)

const (
	// DefaultMaxIterations bounds the assign/recompute loop of a single run.
	DefaultMaxIterations = 100
	// DefaultRestarts is the number of seeded initializations tried by
	// ClusterBest. The run with the lowest inertia wins.
	DefaultRestarts = 10
	// DefaultSeed matches the fixed random state of the out-of-process
	// backend, so local and primary results are comparable run to run.
	DefaultSeed = 42
)

// OptimalK returns the cluster count for n input vectors: clamp(2, n/3, 5).
func OptimalK(n int) int {
	k := n / 3
	if k < 2 {
		k = 2
	}
	if k > 5 {
		k = 5
	}
	return k
}

// Cluster runs a single K-means pass over vectors with k centroids seeded
// from the given PRNG seed. Centroids are initialized by sampling k distinct
// input vectors without replacement. When n < k every vector becomes its own
// singleton cluster and no iteration occurs.
//
// The kernel is total over any non-empty, equal-dimensionality input;
// mismatched dimensionality is a precondition violation returned as an
// InputError.
func Cluster(
	vectors []models.MemberVector,
	k int,
	maxIterations int,
	seed int64,
) (models.ClusterSet, error) {
	if err := validate(vectors, k); err != nil {
		return nil, err
	}
	if len(vectors) < k {
		return singletons(vectors), nil
	}
	assign, centroids := run(vectors, k, maxIterations, rand.New(rand.NewSource(seed)))
	return buildClusterSet(vectors, assign, centroids), nil
}

// ClusterBest runs K-means restarts times with consecutive seeds and returns
// the result with the lowest inertia (sum of squared distances of vectors to
// their assigned centroid). Deterministic for a fixed seed: ties are broken
// by the earliest restart.
func ClusterBest(
	vectors []models.MemberVector,
	k int,
	maxIterations int,
	restarts int,
	seed int64,
) (models.ClusterSet, error) {
	if err := validate(vectors, k); err != nil {
		return nil, err
	}
	if len(vectors) < k {
		return singletons(vectors), nil
	}
	if restarts < 1 {
		restarts = 1
	}

	var bestAssign []int
	var bestCentroids [][]float32
	bestInertia := 0.0
	for r := 0; r < restarts; r++ {
		rng := rand.New(rand.NewSource(seed + int64(r)))
		assign, centroids := run(vectors, k, maxIterations, rng)
		in := inertia(vectors, assign, centroids)
		if bestAssign == nil || in < bestInertia {
			bestAssign = assign
			bestCentroids = centroids
			bestInertia = in
		}
	}
	return buildClusterSet(vectors, bestAssign, bestCentroids), nil
}

func validate(vectors []models.MemberVector, k int) error {
	if len(vectors) == 0 {
		return models.NewInputError("no vectors to cluster", nil)
	}
	if k < 1 {
		return models.NewInputError("k must be at least 1", nil)
	}
	dim := len(vectors[0].Embedding)
	if dim == 0 {
		return models.NewInputError("vector "+vectors[0].MemberID+" has no embedding", nil)
	}
	for _, v := range vectors[1:] {
		if len(v.Embedding) != dim {
			return models.NewInputError(
				"vector "+v.MemberID+" dimensionality does not match input", nil)
		}
	}
	return nil
}

func singletons(vectors []models.MemberVector) models.ClusterSet {
	set := make(models.ClusterSet, len(vectors))
	for i, v := range vectors {
		id := strconv.Itoa(i)
		set[id] = &models.Cluster{
			ID:        id,
			Centroid:  append([]float32(nil), v.Embedding...),
			MemberIDs: []string{v.MemberID},
		}
	}
	return set
}

// run performs the assign/recompute loop. Assignment ties are broken by the
// lowest centroid index. A centroid that loses all members keeps its prior
// value.
func run(
	vectors []models.MemberVector,
	k int,
	maxIterations int,
	rng *rand.Rand,
) ([]int, [][]float32) {
	n := len(vectors)
	dim := len(vectors[0].Embedding)
	if maxIterations < 1 {
		maxIterations = DefaultMaxIterations
	}

	perm := rng.Perm(n)
	centroids := make([][]float32, k)
	for c := 0; c < k; c++ {
		centroids[c] = append([]float32(nil), vectors[perm[c]].Embedding...)
	}

	assign := make([]int, n)
	for i := range assign {
		assign[i] = -1
	}

	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, v := range vectors {
			best := nearest(v.Embedding, centroids)
			if best != assign[i] {
				assign[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}

		sums := make([][]float32, k)
		counts := make([]int, k)
		for c := 0; c < k; c++ {
			sums[c] = make([]float32, dim)
		}
		for i, v := range vectors {
			vek32.Add_Inplace(sums[assign[i]], v.Embedding)
			counts[assign[i]]++
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			vek32.DivNumber_Inplace(sums[c], float32(counts[c]))
			centroids[c] = sums[c]
		}
	}
	return assign, centroids
}

func nearest(v []float32, centroids [][]float32) int {
	best := 0
	bestDist := vek32.Distance(v, centroids[0])
	for c := 1; c < len(centroids); c++ {
		if d := vek32.Distance(v, centroids[c]); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

func inertia(vectors []models.MemberVector, assign []int, centroids [][]float32) float64 {
	total := 0.0
	for i, v := range vectors {
		d := float64(vek32.Distance(v.Embedding, centroids[assign[i]]))
		total += d * d
	}
	return total
}

// buildClusterSet converts assignments into a ClusterSet, dropping centroids
// that ended up with no members. Cluster ids are the centroid indexes, which
// matches the ids emitted by the out-of-process backend.
func buildClusterSet(
	vectors []models.MemberVector,
	assign []int,
	centroids [][]float32,
) models.ClusterSet {
	memberIDs := make(map[int][]string)
	for i, v := range vectors {
		memberIDs[assign[i]] = append(memberIDs[assign[i]], v.MemberID)
	}

	set := make(models.ClusterSet)
	for c, centroid := range centroids {
		ids := memberIDs[c]
		if len(ids) == 0 {
			continue
		}
		id := strconv.Itoa(c)
		set[id] = &models.Cluster{
			ID:        id,
			Centroid:  centroid,
			MemberIDs: ids,
		}
	}
	return set
}
