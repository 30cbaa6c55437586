package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIsMeaningfulTopic(t *testing.T) {
	testCases := []struct {
		topic    string
		expected bool
	}{
		{"", false},
		{"Cluster 3", false},
		{"cluster 12", false},
		{"CLUSTER abc", false},
		{"Cluster analysis techniques", true},
		{"Travel plans", true},
		{"Clustering", true},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, IsMeaningfulTopic(tc.topic), "topic %q", tc.topic)
	}
}

func TestClusterSet_HasMeaningfulTopic(t *testing.T) {
	set := ClusterSet{
		"0": {ID: "0", MemberIDs: []string{"a"}, Topic: "Cluster 0"},
		"1": {ID: "1", MemberIDs: []string{"b"}},
	}
	assert.False(t, set.HasMeaningfulTopic())

	set["1"].Topic = "Cooking recipes"
	assert.True(t, set.HasMeaningfulTopic())
}

func TestClusterSet_MemberIDSet(t *testing.T) {
	set := ClusterSet{
		"0": {ID: "0", MemberIDs: []string{"a", "b"}},
		"1": {ID: "1", MemberIDs: []string{"c"}},
	}

	ids := set.MemberIDSet()
	assert.Len(t, ids, 3)
	assert.Contains(t, ids, "a")
	assert.Contains(t, ids, "c")
	assert.Equal(t, 3, set.TotalMembers())
}

func TestCacheEntry_Validate(t *testing.T) {
	entry := &CacheEntry{
		UserID: "user",
		Clusters: ClusterSet{
			"0": {ID: "0", MemberIDs: []string{"a"}},
		},
	}
	assert.NoError(t, entry.Validate())

	entry.Clusters["1"] = &Cluster{ID: "1"}
	err := entry.Validate()
	assert.Error(t, err)
	var inputErr *InputError
	assert.ErrorAs(t, err, &inputErr)

	empty := &CacheEntry{}
	assert.Error(t, empty.Validate())
}

func TestCacheEntry_JSONRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	entry := &CacheEntry{
		UUID:   uuid.New(),
		UserID: "user",
		Clusters: ClusterSet{
			"0": {
				ID:        "0",
				Centroid:  []float32{0.5, -1.25},
				MemberIDs: []string{"a", "b"},
				Topic:     "Gardening",
				Keywords:  []string{"soil", "seeds"},
				Summary:   "Notes about the garden.",
			},
		},
		ClusterCount: 1,
		VectorCount:  2,
		CreatedAt:    now,
		UpdatedAt:    now,
		ExpiresAt:    now.Add(time.Hour),
	}

	data, err := json.Marshal(entry)
	assert.NoError(t, err)

	var decoded CacheEntry
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, entry.UUID, decoded.UUID)
	assert.Equal(t, entry.Clusters["0"].Centroid, decoded.Clusters["0"].Centroid)
	assert.Equal(t, entry.Clusters["0"].MemberIDs, decoded.Clusters["0"].MemberIDs)
	assert.Equal(t, entry.Clusters["0"].Topic, decoded.Clusters["0"].Topic)
	assert.Equal(t, entry.Clusters["0"].Keywords, decoded.Clusters["0"].Keywords)
	assert.True(t, entry.ExpiresAt.Equal(decoded.ExpiresAt))
}
