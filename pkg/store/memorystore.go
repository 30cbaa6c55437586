// Package store provides in-memory implementations of the CacheStore and
// VectorStore interfaces. They are the default store type and the substrate
// for tests; the postgres subpackage provides the durable implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jinzhu/copier"

	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/models"
)

var _ models.CacheStore = &MemoryCacheStore{}

// MemoryCacheStore keeps cache entries in a map guarded by a RWMutex.
// Entries are deep copied on the way in and out, so callers never alias
// stored state and a Put is observed atomically.
type MemoryCacheStore struct {
	mu      sync.RWMutex
	entries map[string]*models.CacheEntry
}

func NewMemoryCacheStore() *MemoryCacheStore {
	return &MemoryCacheStore{entries: make(map[string]*models.CacheEntry)}
}

func (s *MemoryCacheStore) Get(_ context.Context, userID string) (*models.CacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[userID]
	if !ok {
		return nil, models.NewNotFoundError("cache entry for user " + userID)
	}
	return copyEntry(entry)
}

func (s *MemoryCacheStore) Put(_ context.Context, entry *models.CacheEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	stored, err := copyEntry(entry)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.UserID] = stored
	return nil
}

func (s *MemoryCacheStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
	return nil
}

func (s *MemoryCacheStore) PurgeExpired(_ context.Context) (int, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for userID, entry := range s.entries {
		if !entry.ExpiresAt.IsZero() && entry.ExpiresAt.Before(now) {
			delete(s.entries, userID)
			purged++
		}
	}
	return purged, nil
}

func (s *MemoryCacheStore) Close() error {
	return nil
}

func copyEntry(entry *models.CacheEntry) (*models.CacheEntry, error) {
	out := &models.CacheEntry{}
	err := copier.CopyWithOption(out, entry, copier.Option{DeepCopy: true})
	if err != nil {
		return nil, err
	}
	return out, nil
}

var _ models.VectorStore = &MemoryVectorStore{}

// MemoryVectorStore keeps member records per user in maps guarded by a
// RWMutex.
type MemoryVectorStore struct {
	mu      sync.RWMutex
	records map[string]map[string]*models.MemberRecord
}

func NewMemoryVectorStore() *MemoryVectorStore {
	return &MemoryVectorStore{records: make(map[string]map[string]*models.MemberRecord)}
}

func (s *MemoryVectorStore) GetStatistics(
	_ context.Context,
	userID string,
) (*models.InputStatistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &models.InputStatistics{CurrentMemberIDs: make(map[string]struct{})}
	for id, rec := range s.records[userID] {
		stats.TotalRecordCount++
		if len(rec.Embedding) > 0 {
			stats.VectorizedRecordCount++
			stats.CurrentMemberIDs[id] = struct{}{}
		}
	}
	return stats, nil
}

func (s *MemoryVectorStore) GetMemberVectors(
	_ context.Context,
	userID string,
) ([]models.MemberVector, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vectors := make([]models.MemberVector, 0, len(s.records[userID]))
	for id, rec := range s.records[userID] {
		if len(rec.Embedding) == 0 {
			continue
		}
		vectors = append(vectors, models.MemberVector{
			MemberID:  id,
			Embedding: append([]float32(nil), rec.Embedding...),
		})
	}
	sort.Slice(vectors, func(i, j int) bool {
		return vectors[i].MemberID < vectors[j].MemberID
	})
	return vectors, nil
}

func (s *MemoryVectorStore) GetContents(
	_ context.Context,
	userID string,
	memberIDs []string,
) ([]models.MemberRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]models.MemberRecord, 0, len(memberIDs))
	for _, id := range memberIDs {
		rec, ok := s.records[userID][id]
		if !ok {
			continue
		}
		records = append(records, models.MemberRecord{
			MemberID:  rec.MemberID,
			Content:   rec.Content,
			Embedding: append([]float32(nil), rec.Embedding...),
			CreatedAt: rec.CreatedAt,
		})
	}
	return records, nil
}

func (s *MemoryVectorStore) PutRecord(
	_ context.Context,
	userID string,
	record *models.MemberRecord,
) error {
	if record.MemberID == "" {
		return models.NewInputError("member record id is empty", nil)
	}

	stored := &models.MemberRecord{
		MemberID:  record.MemberID,
		Content:   record.Content,
		Embedding: append([]float32(nil), record.Embedding...),
		CreatedAt: record.CreatedAt,
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records[userID] == nil {
		s.records[userID] = make(map[string]*models.MemberRecord)
	}
	s.records[userID][record.MemberID] = stored
	return nil
}

func (s *MemoryVectorStore) Close() error {
	return nil
}
