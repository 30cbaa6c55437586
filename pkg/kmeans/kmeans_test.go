package kmeans

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/models"
	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/testutils"
)

func TestOptimalK(t *testing.T) {
	testCases := []struct {
		n        int
		expected int
	}{
		{1, 2},
		{5, 2},
		{6, 2},
		{9, 3},
		{12, 4},
		{15, 5},
		{100, 5},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, OptimalK(tc.n), "OptimalK(%d)", tc.n)
	}
}

func TestCluster_Singletons(t *testing.T) {
	vectors := []models.MemberVector{
		{MemberID: "a", Embedding: []float32{1, 0}},
		{MemberID: "b", Embedding: []float32{0, 1}},
	}

	set, err := Cluster(vectors, 3, DefaultMaxIterations, DefaultSeed)
	assert.NoError(t, err)
	assert.Len(t, set, 2)
	for _, c := range set {
		assert.Len(t, c.MemberIDs, 1)
	}
	assert.Contains(t, set["0"].MemberIDs, "a")
	assert.Contains(t, set["1"].MemberIDs, "b")
	assert.Equal(t, vectors[0].Embedding, set["0"].Centroid)
}

func TestCluster_EmptyInput(t *testing.T) {
	_, err := Cluster(nil, 2, DefaultMaxIterations, DefaultSeed)
	assert.Error(t, err)
	var inputErr *models.InputError
	assert.ErrorAs(t, err, &inputErr)
}

func TestCluster_DimensionMismatch(t *testing.T) {
	vectors := []models.MemberVector{
		{MemberID: "a", Embedding: []float32{1, 0, 0}},
		{MemberID: "b", Embedding: []float32{0, 1}},
	}

	_, err := Cluster(vectors, 2, DefaultMaxIterations, DefaultSeed)
	assert.Error(t, err)
	var inputErr *models.InputError
	assert.ErrorAs(t, err, &inputErr)
	assert.Contains(t, err.Error(), "b")
}

func TestCluster_PartitionsInput(t *testing.T) {
	vectors := testutils.GenerateClusteredVectors(3, 5, 4, 1)

	set, err := Cluster(vectors, 3, DefaultMaxIterations, DefaultSeed)
	assert.NoError(t, err)

	seen := make(map[string]int)
	for _, c := range set {
		assert.NotEmpty(t, c.MemberIDs)
		assert.Len(t, c.Centroid, 4)
		for _, id := range c.MemberIDs {
			seen[id]++
		}
	}
	assert.Equal(t, len(vectors), len(seen))
	for id, count := range seen {
		assert.Equal(t, 1, count, "member %s assigned to %d clusters", id, count)
	}
}

func TestCluster_Deterministic(t *testing.T) {
	vectors := testutils.GenerateClusteredVectors(3, 6, 8, 7)

	first, err := Cluster(vectors, 3, DefaultMaxIterations, DefaultSeed)
	assert.NoError(t, err)
	second, err := Cluster(vectors, 3, DefaultMaxIterations, DefaultSeed)
	assert.NoError(t, err)

	assert.Equal(t, len(first), len(second))
	for id, c := range first {
		assert.Equal(t, c.MemberIDs, second[id].MemberIDs)
		assert.Equal(t, c.Centroid, second[id].Centroid)
	}
}

func TestCluster_IdenticalVectors(t *testing.T) {
	vectors := make([]models.MemberVector, 6)
	for i := range vectors {
		vectors[i] = models.MemberVector{
			MemberID:  string(rune('a' + i)),
			Embedding: []float32{1, 2, 3},
		}
	}

	set, err := Cluster(vectors, 2, DefaultMaxIterations, DefaultSeed)
	assert.NoError(t, err)

	// every vector ties to the lowest centroid index, so a single cluster
	// holds all members and the emptied centroid is dropped
	assert.Len(t, set, 1)
	assert.Len(t, set["0"].MemberIDs, 6)
}

func TestClusterBest_RecoversBlobs(t *testing.T) {
	vectors := testutils.GenerateClusteredVectors(3, 3, 4, 99)

	set, err := ClusterBest(vectors, 3, DefaultMaxIterations, 50, DefaultSeed)
	assert.NoError(t, err)
	assert.Len(t, set, 3)
	for _, c := range set {
		assert.Len(t, c.MemberIDs, 3)
		// blob membership: all members share the same "m<blob>-" prefix
		prefix := c.MemberIDs[0][:3]
		for _, id := range c.MemberIDs {
			assert.Equal(t, prefix, id[:3])
		}
	}
}

func TestClusterBest_SingletonsBelowK(t *testing.T) {
	vectors := []models.MemberVector{
		{MemberID: "only", Embedding: []float32{1, 1}},
	}

	set, err := ClusterBest(vectors, 2, DefaultMaxIterations, DefaultRestarts, DefaultSeed)
	assert.NoError(t, err)
	assert.Len(t, set, 1)
	assert.Equal(t, []string{"only"}, set["0"].MemberIDs)
}
