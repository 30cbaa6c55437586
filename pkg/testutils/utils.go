package testutils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	mathrand "math/rand"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/models"
)

// GenerateRandomUserID generates a random user ID of the given length.
func GenerateRandomUserID(length int) (string, error) {
	bytes := make([]byte, (length+1)/2)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", fmt.Errorf("failed to generate random user ID: %w", err)
	}
	return hex.EncodeToString(bytes)[:length], nil
}

// GenerateClusteredVectors builds blobCount well-separated gaussian blobs of
// perBlob vectors each. Blob centers sit on distinct axes at distance 10,
// with per-coordinate noise of stddev 0.1, so any sane clustering recovers
// the blobs. Member IDs are "m<blob>-<index>" and generation is seeded.
func GenerateClusteredVectors(
	blobCount int,
	perBlob int,
	dimensions int,
	seed int64,
) []models.MemberVector {
	rng := mathrand.New(mathrand.NewSource(seed))

	vectors := make([]models.MemberVector, 0, blobCount*perBlob)
	for b := 0; b < blobCount; b++ {
		for i := 0; i < perBlob; i++ {
			embedding := make([]float32, dimensions)
			for d := 0; d < dimensions; d++ {
				embedding[d] = float32(rng.NormFloat64()) * 0.1
			}
			embedding[b%dimensions] += 10.0
			vectors = append(vectors, models.MemberVector{
				MemberID:  fmt.Sprintf("m%d-%d", b, i),
				Embedding: embedding,
			})
		}
	}
	return vectors
}

// GenerateMemberRecords wraps GenerateClusteredVectors output in records
// with fake sentence content.
func GenerateMemberRecords(
	blobCount int,
	perBlob int,
	dimensions int,
	seed int64,
) []models.MemberRecord {
	gofakeit.Seed(seed)

	vectors := GenerateClusteredVectors(blobCount, perBlob, dimensions, seed)
	records := make([]models.MemberRecord, len(vectors))
	for i, v := range vectors {
		records[i] = models.MemberRecord{
			MemberID:  v.MemberID,
			Content:   gofakeit.Sentence(12),
			Embedding: v.Embedding,
		}
	}
	return records
}
