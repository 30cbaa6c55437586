package models

import "context"

// LabelRequest carries up to a handful of representative text snippets plus
// lightweight cluster metadata to the label generation collaborator.
type LabelRequest struct {
	ClusterID   string
	MemberCount int
	Keywords    []string
	Snippets    []string
}

// LabelGenerator is the label generation collaborator. Implementations are
// expected to fail fast; callers recover via local heuristics.
type LabelGenerator interface {
	// GenerateTopic returns a single short topic label for a cluster.
	GenerateTopic(ctx context.Context, req *LabelRequest) (string, error)
	// GenerateKeywords returns a ranked list of keywords for a cluster.
	GenerateKeywords(ctx context.Context, req *LabelRequest) ([]string, error)
	// GenerateSummary returns a one or two sentence summary of a cluster.
	GenerateSummary(ctx context.Context, req *LabelRequest) (string, error)
}

// EmbeddingsClient turns raw text into embedding vectors. Used by the record
// ingestion path; the cluster engine itself only consumes stored vectors.
type EmbeddingsClient interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}
