package models

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// MemberVector pairs a record identifier with its embedding vector.
// Embeddings are immutable once produced.
type MemberVector struct {
	MemberID  string    `json:"member_id"`
	Embedding []float32 `json:"embedding"`
}

// MemberRecord is a stored content record. A record is vectorized when
// Embedding is non-empty.
type MemberRecord struct {
	MemberID  string    `json:"member_id"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Cluster is a group of member records around a centroid. The centroid
// dimensionality equals the dimensionality of every member vector that
// produced it. A cluster with no members is invalid and is never persisted.
type Cluster struct {
	ID        string    `json:"id"`
	Centroid  []float32 `json:"centroid"`
	MemberIDs []string  `json:"member_ids"`
	Topic     string    `json:"topic,omitempty"`
	Keywords  []string  `json:"keywords,omitempty"`
	Summary   string    `json:"summary,omitempty"`
}

// ClusterSet maps cluster id to Cluster. For a fresh computation the member
// ids across clusters partition the input vectors.
type ClusterSet map[string]*Cluster

// placeholderTopicRe matches the deterministic fallback labels ("Cluster 3")
// assigned when no meaningful topic could be generated.
var placeholderTopicRe = regexp.MustCompile(`(?i)^cluster\s+\S+$`)

// IsMeaningfulTopic reports whether topic is non-empty and not a generic
// placeholder.
func IsMeaningfulTopic(topic string) bool {
	return topic != "" && !placeholderTopicRe.MatchString(topic)
}

// HasMeaningfulTopic reports whether at least one cluster carries a
// non-placeholder topic.
func (cs ClusterSet) HasMeaningfulTopic() bool {
	for _, c := range cs {
		if IsMeaningfulTopic(c.Topic) {
			return true
		}
	}
	return false
}

// MemberIDSet returns the union of member ids across all clusters.
func (cs ClusterSet) MemberIDSet() map[string]struct{} {
	ids := make(map[string]struct{})
	for _, c := range cs {
		for _, id := range c.MemberIDs {
			ids[id] = struct{}{}
		}
	}
	return ids
}

// TotalMembers returns the total member count across all clusters.
func (cs ClusterSet) TotalMembers() int {
	n := 0
	for _, c := range cs {
		n += len(c.MemberIDs)
	}
	return n
}

// CacheEntry is the persisted unit of a computed cluster set plus the
// metadata used to judge its continued validity. Entries are never partially
// mutated: a recomputation replaces the whole entry.
type CacheEntry struct {
	UUID         uuid.UUID  `json:"uuid"`
	UserID       string     `json:"user_id"`
	Clusters     ClusterSet `json:"clusters"`
	ClusterCount int        `json:"cluster_count"`
	VectorCount  int        `json:"vector_count"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	ExpiresAt    time.Time  `json:"expires_at"`
}

// Validate rejects entries that would persist an invalid cluster.
func (e *CacheEntry) Validate() error {
	if e.UserID == "" {
		return NewInputError("cache entry user id is empty", nil)
	}
	for id, c := range e.Clusters {
		if len(c.MemberIDs) == 0 {
			return NewInputError("cluster "+id+" has no members", nil)
		}
	}
	return nil
}

// InputStatistics describes the current state of a user's records. It is
// computed fresh per request and never persisted.
type InputStatistics struct {
	TotalRecordCount      int
	VectorizedRecordCount int
	CurrentMemberIDs      map[string]struct{}
}
