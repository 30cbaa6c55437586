package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/models"
)

var _ models.CacheStore = &PostgresCacheStore{}

// PostgresCacheStore persists cache entries in the cluster_cache_entry
// table, one row per user. Puts are upserts, so a recompute replaces the
// prior entry wholesale.
type PostgresCacheStore struct {
	db *bun.DB
}

func NewPostgresCacheStore(db *bun.DB) *PostgresCacheStore {
	return &PostgresCacheStore{db: db}
}

func (s *PostgresCacheStore) Get(
	ctx context.Context,
	userID string,
) (*models.CacheEntry, error) {
	row := &CacheEntrySchema{}
	err := s.db.NewSelect().
		Model(row).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("cache entry for user " + userID)
		}
		return nil, models.NewPersistenceError("failed to get cache entry", err)
	}
	return schemaToEntry(row), nil
}

func (s *PostgresCacheStore) Put(ctx context.Context, entry *models.CacheEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	row := entryToSchema(entry)
	_, err := s.db.NewInsert().
		Model(row).
		Column("user_id", "clusters", "cluster_count", "vector_count",
			"created_at", "updated_at", "expires_at").
		On("CONFLICT (user_id) DO UPDATE").
		Set("clusters = EXCLUDED.clusters").
		Set("cluster_count = EXCLUDED.cluster_count").
		Set("vector_count = EXCLUDED.vector_count").
		Set("updated_at = EXCLUDED.updated_at").
		Set("expires_at = EXCLUDED.expires_at").
		Exec(ctx)
	if err != nil {
		return models.NewPersistenceError("failed to put cache entry", err)
	}
	return nil
}

func (s *PostgresCacheStore) Clear(ctx context.Context, userID string) error {
	_, err := s.db.NewDelete().
		Model((*CacheEntrySchema)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return models.NewPersistenceError("failed to clear cache entry", err)
	}
	return nil
}

func (s *PostgresCacheStore) PurgeExpired(ctx context.Context) (int, error) {
	r, err := s.db.NewDelete().
		Model((*CacheEntrySchema)(nil)).
		Where("expires_at IS NOT NULL").
		Where("expires_at < ?", time.Now()).
		Exec(ctx)
	if err != nil {
		return 0, models.NewPersistenceError("failed to purge expired cache entries", err)
	}
	rowsAffected, err := r.RowsAffected()
	if err != nil {
		return 0, models.NewPersistenceError("failed to get rows affected", err)
	}
	return int(rowsAffected), nil
}

func (s *PostgresCacheStore) Close() error {
	return s.db.Close()
}

func entryToSchema(entry *models.CacheEntry) *CacheEntrySchema {
	return &CacheEntrySchema{
		UUID:         entry.UUID,
		UserID:       entry.UserID,
		Clusters:     entry.Clusters,
		ClusterCount: entry.ClusterCount,
		VectorCount:  entry.VectorCount,
		CreatedAt:    entry.CreatedAt,
		UpdatedAt:    entry.UpdatedAt,
		ExpiresAt:    entry.ExpiresAt,
	}
}

func schemaToEntry(row *CacheEntrySchema) *models.CacheEntry {
	return &models.CacheEntry{
		UUID:         row.UUID,
		UserID:       row.UserID,
		Clusters:     row.Clusters,
		ClusterCount: row.ClusterCount,
		VectorCount:  row.VectorCount,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
		ExpiresAt:    row.ExpiresAt,
	}
}
