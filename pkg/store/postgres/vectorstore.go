package postgres

import (
	"context"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/uptrace/bun"

	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/models"
)

var _ models.VectorStore = &PostgresVectorStore{}

// PostgresVectorStore reads and writes member records in the member_record
// table. Embeddings are stored as pgvector columns; a record with a NULL
// embedding is not yet vectorized.
type PostgresVectorStore struct {
	db *bun.DB
}

func NewPostgresVectorStore(db *bun.DB) *PostgresVectorStore {
	return &PostgresVectorStore{db: db}
}

func (s *PostgresVectorStore) GetStatistics(
	ctx context.Context,
	userID string,
) (*models.InputStatistics, error) {
	total, err := s.db.NewSelect().
		Model((*MemberRecordSchema)(nil)).
		Where("user_id = ?", userID).
		Count(ctx)
	if err != nil {
		return nil, models.NewPersistenceError("failed to count member records", err)
	}

	var memberIDs []string
	err = s.db.NewSelect().
		Model((*MemberRecordSchema)(nil)).
		Column("member_id").
		Where("user_id = ?", userID).
		Where("embedding IS NOT NULL").
		Scan(ctx, &memberIDs)
	if err != nil {
		return nil, models.NewPersistenceError("failed to list vectorized member ids", err)
	}

	stats := &models.InputStatistics{
		TotalRecordCount:      total,
		VectorizedRecordCount: len(memberIDs),
		CurrentMemberIDs:      make(map[string]struct{}, len(memberIDs)),
	}
	for _, id := range memberIDs {
		stats.CurrentMemberIDs[id] = struct{}{}
	}
	return stats, nil
}

func (s *PostgresVectorStore) GetMemberVectors(
	ctx context.Context,
	userID string,
) ([]models.MemberVector, error) {
	var rows []MemberRecordSchema
	err := s.db.NewSelect().
		Model(&rows).
		Column("member_id", "embedding").
		Where("user_id = ?", userID).
		Where("embedding IS NOT NULL").
		Order("member_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, models.NewPersistenceError("failed to get member vectors", err)
	}

	vectors := make([]models.MemberVector, len(rows))
	for i := range rows {
		vectors[i] = models.MemberVector{
			MemberID:  rows[i].MemberID,
			Embedding: rows[i].Embedding.Slice(),
		}
	}
	return vectors, nil
}

func (s *PostgresVectorStore) GetContents(
	ctx context.Context,
	userID string,
	memberIDs []string,
) ([]models.MemberRecord, error) {
	if len(memberIDs) == 0 {
		return nil, nil
	}

	var rows []MemberRecordSchema
	err := s.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Where("member_id IN (?)", bun.In(memberIDs)).
		Scan(ctx)
	if err != nil {
		return nil, models.NewPersistenceError("failed to get member contents", err)
	}

	records := make([]models.MemberRecord, len(rows))
	for i := range rows {
		records[i] = models.MemberRecord{
			MemberID:  rows[i].MemberID,
			Content:   rows[i].Content,
			Embedding: rows[i].Embedding.Slice(),
			CreatedAt: rows[i].CreatedAt,
		}
	}
	return records, nil
}

func (s *PostgresVectorStore) PutRecord(
	ctx context.Context,
	userID string,
	record *models.MemberRecord,
) error {
	if record.MemberID == "" {
		return models.NewInputError("member record id is empty", nil)
	}

	row := &MemberRecordSchema{
		UserID:    userID,
		MemberID:  record.MemberID,
		Content:   record.Content,
		CreatedAt: record.CreatedAt,
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now()
	}
	if len(record.Embedding) > 0 {
		row.Embedding = pgvector.NewVector(record.Embedding)
	}

	_, err := s.db.NewInsert().
		Model(row).
		Column("user_id", "member_id", "content", "embedding", "created_at").
		On("CONFLICT (user_id, member_id) DO UPDATE").
		Set("content = EXCLUDED.content").
		Set("embedding = EXCLUDED.embedding").
		Exec(ctx)
	if err != nil {
		return models.NewPersistenceError("failed to put member record", err)
	}
	return nil
}

func (s *PostgresVectorStore) Close() error {
	// the bun.DB is shared with the cache store and closed there
	return nil
}
