package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/api996/AIHeuristicLearningApp-sub003/internal"
	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/models"
)

var log = internal.GetLogger()

// EmbeddingDimensions is the width of the embedding vector column. It
// matches the text-embedding-3-large output width.
const EmbeddingDimensions = 3072

type CacheEntrySchema struct {
	bun.BaseModel `bun:"table:cluster_cache_entry,alias:cce"`

	UUID         uuid.UUID                  `bun:",pk,type:uuid,default:gen_random_uuid()"`
	UserID       string                     `bun:",unique,notnull"`
	Clusters     map[string]*models.Cluster `bun:"type:jsonb,notnull"`
	ClusterCount int                        `bun:",notnull"`
	VectorCount  int                        `bun:",notnull"`
	CreatedAt    time.Time                  `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp"`
	UpdatedAt    time.Time                  `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp"`
	ExpiresAt    time.Time                  `bun:"type:timestamptz,nullzero"`
}

var _ bun.BeforeAppendModelHook = (*CacheEntrySchema)(nil)

func (s *CacheEntrySchema) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.UpdateQuery); ok {
		s.UpdatedAt = time.Now()
	}
	return nil
}

// BeforeCreateTable is a marker method to ensure a uniform interface across
// all table models - used in the table creation iterator.
func (s *CacheEntrySchema) BeforeCreateTable(
	_ context.Context,
	_ *bun.CreateTableQuery,
) error {
	return nil
}

type MemberRecordSchema struct {
	bun.BaseModel `bun:"table:member_record,alias:mr"`

	UUID      uuid.UUID       `bun:",pk,type:uuid,default:gen_random_uuid()"`
	UserID    string          `bun:",notnull,unique:user_member_idx"`
	MemberID  string          `bun:",notnull,unique:user_member_idx"`
	Content   string          `bun:",notnull"`
	Embedding pgvector.Vector `bun:"type:vector(3072),nullzero"`
	CreatedAt time.Time       `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time       `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp"`
}

var _ bun.BeforeAppendModelHook = (*MemberRecordSchema)(nil)

func (s *MemberRecordSchema) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.UpdateQuery); ok {
		s.UpdatedAt = time.Now()
	}
	return nil
}

func (s *MemberRecordSchema) BeforeCreateTable(
	_ context.Context,
	_ *bun.CreateTableQuery,
) error {
	return nil
}

var _ bun.AfterCreateTableHook = (*CacheEntrySchema)(nil)
var _ bun.AfterCreateTableHook = (*MemberRecordSchema)(nil)

func (*CacheEntrySchema) AfterCreateTable(
	ctx context.Context,
	query *bun.CreateTableQuery,
) error {
	_, err := query.DB().NewCreateIndex().
		Model((*CacheEntrySchema)(nil)).
		Index("cluster_cache_entry_user_id_idx").
		Column("user_id").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = query.DB().NewCreateIndex().
		Model((*CacheEntrySchema)(nil)).
		Index("cluster_cache_entry_expires_at_idx").
		Column("expires_at").
		IfNotExists().
		Exec(ctx)
	return err
}

func (*MemberRecordSchema) AfterCreateTable(
	ctx context.Context,
	query *bun.CreateTableQuery,
) error {
	_, err := query.DB().NewCreateIndex().
		Model((*MemberRecordSchema)(nil)).
		Index("member_record_user_id_idx").
		Column("user_id").
		IfNotExists().
		Exec(ctx)
	return err
}

var tableList = []bun.BeforeCreateTableHook{
	&MemberRecordSchema{},
	&CacheEntrySchema{},
}

// CreateSchema creates the db schema if it does not exist.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	for i := len(tableList) - 1; i >= 0; i-- {
		schema := tableList[i]
		_, err := db.NewCreateTable().
			Model(schema).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			// bun still trying to create indexes despite IfNotExists flag
			if strings.Contains(err.Error(), "already exists") {
				continue
			}
			return fmt.Errorf("error creating table for schema %T: %w", schema, err)
		}
	}
	return nil
}

// enablePgVectorExtension creates the pgvector extension if it does not exist
// and updates it if it is out of date.
func enablePgVectorExtension(ctx context.Context, db *bun.DB) error {
	_, err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector")
	if err != nil {
		return fmt.Errorf("error creating pgvector extension: %w", err)
	}

	// this is a no-op if the extension is already up to date
	_, err = db.Exec("ALTER EXTENSION vector UPDATE")
	if err != nil {
		return fmt.Errorf("error updating pgvector extension: %w", err)
	}

	return nil
}

// NewPostgresConn creates a new bun.DB connection to a postgres database
// using the provided DSN. The connection pool is sized from the number of
// PROCs available.
func NewPostgresConn(dsn string) (*bun.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	maxOpenConns := 4 * runtime.GOMAXPROCS(0)

	sqldb := sql.OpenDB(
		pgdriver.NewConnector(
			pgdriver.WithDSN(dsn),
			pgdriver.WithReadTimeout(time.Minute),
		),
	)
	sqldb.SetMaxOpenConns(maxOpenConns)
	sqldb.SetMaxIdleConns(maxOpenConns)

	db := bun.NewDB(sqldb, pgdialect.New())

	if err := enablePgVectorExtension(ctx, db); err != nil {
		log.Error("error enabling pgvector extension: ", err)
		return nil, err
	}

	if err := CreateSchema(ctx, db); err != nil {
		log.Error("error creating schema: ", err)
		return nil, err
	}

	return db, nil
}
