package backend

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/models"
)

// handoffVector is the input record written for the external process.
type handoffVector struct {
	ID     string    `json:"id"`
	Vector []float32 `json:"vector"`
}

type handoffPoint struct {
	ID string `json:"id"`
}

type handoffCentroid struct {
	Center []float32      `json:"center"`
	Points []handoffPoint `json:"points"`
}

// rawCluster is the alternative handoff shape: an explicit mapping of
// cluster id to centroid, member ids and an optional topic.
type rawCluster struct {
	Centroid  []float32 `json:"centroid"`
	MemoryIDs []string  `json:"memory_ids"`
	Topic     string    `json:"topic"`
}

type handoffResult struct {
	Centroids   []handoffCentroid     `json:"centroids"`
	RawClusters map[string]rawCluster `json:"raw_clusters"`
}

// computePrimary delegates clustering to the external process: the vectors
// are written to a temporary handoff file, the process is invoked with the
// input and output paths appended to its arguments, and the output file is
// parsed and normalized. The handoff directory is removed unconditionally.
func (s *Selector) computePrimary(
	ctx context.Context,
	vectors []models.MemberVector,
) (models.ClusterSet, error) {
	dir, err := os.MkdirTemp("", "clustercache-handoff-")
	if err != nil {
		return nil, models.NewBackendUnavailableError("creating handoff dir", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Errorf("failed to remove handoff dir %s: %v", dir, err)
		}
	}()

	inputPath := filepath.Join(dir, "vectors.json")
	outputPath := filepath.Join(dir, "clusters.json")

	payload := make([]handoffVector, len(vectors))
	for i, v := range vectors {
		payload[i] = handoffVector{ID: v.MemberID, Vector: v.Embedding}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, models.NewBackendUnavailableError("marshaling handoff input", err)
	}
	if err := os.WriteFile(inputPath, data, 0o600); err != nil {
		return nil, models.NewBackendUnavailableError("writing handoff input", err)
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	args := append(append([]string{}, s.args...), inputPath, outputPath)
	cmd := exec.CommandContext(cctx, s.command, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, models.NewBackendUnavailableError(
			"backend process failed: "+string(out), err)
	}

	output, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, models.NewBackendUnavailableError("reading handoff output", err)
	}

	return normalizeHandoffResult(output)
}

// normalizeHandoffResult parses either accepted backend output shape into a
// ClusterSet. Clusters with no members are dropped. An empty or absent result
// is a backend failure, not an empty cluster set.
func normalizeHandoffResult(data []byte) (models.ClusterSet, error) {
	var result handoffResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, models.NewBackendUnavailableError("unparsable handoff output", err)
	}

	set := make(models.ClusterSet)
	switch {
	case len(result.RawClusters) > 0:
		for id, rc := range result.RawClusters {
			if len(rc.MemoryIDs) == 0 {
				continue
			}
			set[id] = &models.Cluster{
				ID:        id,
				Centroid:  rc.Centroid,
				MemberIDs: rc.MemoryIDs,
				Topic:     rc.Topic,
			}
		}
	case len(result.Centroids) > 0:
		for i, c := range result.Centroids {
			if len(c.Points) == 0 {
				continue
			}
			id := strconv.Itoa(i)
			memberIDs := make([]string, len(c.Points))
			for j, p := range c.Points {
				memberIDs[j] = p.ID
			}
			set[id] = &models.Cluster{
				ID:        id,
				Centroid:  c.Center,
				MemberIDs: memberIDs,
			}
		}
	default:
		return nil, models.NewBackendUnavailableError("backend returned no clusters", nil)
	}

	if len(set) == 0 {
		return nil, models.NewBackendUnavailableError("backend returned only empty clusters", nil)
	}
	return set, nil
}
