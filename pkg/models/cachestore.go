package models

import "context"

// CacheStore is the durable store for computed cluster sets, keyed by user.
// The entry is the unit of replacement: Put atomically replaces any prior
// entry so readers see either the old entry in full or the new one in full.
type CacheStore interface {
	// Get retrieves the CacheEntry for a user. Returns a NotFoundError when
	// no entry exists.
	Get(ctx context.Context, userID string) (*CacheEntry, error)
	// Put stores a CacheEntry, replacing any prior entry for the user.
	Put(ctx context.Context, entry *CacheEntry) error
	// Clear deletes the CacheEntry for a user. Clearing an absent entry is
	// not an error.
	Clear(ctx context.Context, userID string) error
	// PurgeExpired hard deletes entries whose expiry has passed and returns
	// the number of entries removed.
	PurgeExpired(ctx context.Context) (int, error)
	// Close is called when the application is shutting down.
	Close() error
}

// VectorStore provides access to a user's content records and their
// embedding vectors. Embedding generation itself is an external concern;
// records arrive already vectorized via PutRecord.
type VectorStore interface {
	MemberContentLookup
	// GetStatistics computes fresh InputStatistics for a user.
	GetStatistics(ctx context.Context, userID string) (*InputStatistics, error)
	// GetMemberVectors returns the vectorized records for a user, ordered by
	// member id.
	GetMemberVectors(ctx context.Context, userID string) ([]MemberVector, error)
	// PutRecord stores a content record, replacing any record with the same
	// member id.
	PutRecord(ctx context.Context, userID string, record *MemberRecord) error
	// Close is called when the application is shutting down.
	Close() error
}

// MemberContentLookup resolves member ids to their stored content records.
// The enhancer uses it to gather representative contents for labeling.
type MemberContentLookup interface {
	GetContents(ctx context.Context, userID string, memberIDs []string) ([]MemberRecord, error)
}
