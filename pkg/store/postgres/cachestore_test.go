package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/models"
)

func TestEntrySchemaMapping(t *testing.T) {
	now := time.Now()
	entry := &models.CacheEntry{
		UUID:   uuid.New(),
		UserID: "user",
		Clusters: models.ClusterSet{
			"0": {
				ID:        "0",
				Centroid:  []float32{0.25, -0.5},
				MemberIDs: []string{"a", "b"},
				Topic:     "Bike maintenance",
				Keywords:  []string{"bike", "chain"},
			},
		},
		ClusterCount: 1,
		VectorCount:  2,
		CreatedAt:    now,
		UpdatedAt:    now,
		ExpiresAt:    now.Add(time.Hour),
	}

	row := entryToSchema(entry)
	assert.Equal(t, entry.UUID, row.UUID)
	assert.Equal(t, entry.UserID, row.UserID)
	assert.Equal(t, entry.ClusterCount, row.ClusterCount)
	assert.Equal(t, entry.Clusters["0"].Centroid, row.Clusters["0"].Centroid)

	back := schemaToEntry(row)
	assert.Equal(t, entry.UUID, back.UUID)
	assert.Equal(t, entry.VectorCount, back.VectorCount)
	assert.Equal(t, entry.Clusters["0"].MemberIDs, back.Clusters["0"].MemberIDs)
	assert.Equal(t, entry.Clusters["0"].Topic, back.Clusters["0"].Topic)
	assert.Equal(t, entry.Clusters["0"].Keywords, back.Clusters["0"].Keywords)
	assert.True(t, entry.ExpiresAt.Equal(back.ExpiresAt))
}
