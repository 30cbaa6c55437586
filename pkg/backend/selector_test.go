package backend

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/api996/AIHeuristicLearningApp-sub003/config"
	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/models"
	"github.com/api996/AIHeuristicLearningApp-sub003/pkg/testutils"
)

func skipWithoutSh(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func selectorConfig(command string, args ...string) *config.Config {
	return &config.Config{
		Clustering: config.ClusteringConfig{
			MaxIterations: 100,
			Restarts:      50,
			Seed:          42,
			Backend: config.BackendConfig{
				Command:        command,
				Args:           args,
				TimeoutSeconds: 10,
			},
		},
	}
}

func TestSelector_EmptyInput(t *testing.T) {
	s := NewSelector(selectorConfig(""))

	set, err := s.Compute(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, set)
}

func TestSelector_LocalKernel(t *testing.T) {
	s := NewSelector(selectorConfig(""))
	vectors := testutils.GenerateClusteredVectors(3, 3, 4, 5)

	set, err := s.Compute(context.Background(), vectors)
	assert.NoError(t, err)
	assert.Len(t, set, 3)
	assert.Equal(t, len(vectors), set.TotalMembers())
}

func TestSelector_PrimaryBackend(t *testing.T) {
	skipWithoutSh(t)

	// a stand-in backend that ignores its input and emits a fixed result
	script := `echo '{"centroids": [{"center": [1.0], "points": [{"id": "a"}, {"id": "b"}]}]}' > "$2"`
	s := NewSelector(selectorConfig("sh", "-c", script, "backend"))

	vectors := []models.MemberVector{
		{MemberID: "a", Embedding: []float32{1}},
		{MemberID: "b", Embedding: []float32{1.1}},
	}
	set, err := s.Compute(context.Background(), vectors)
	assert.NoError(t, err)
	assert.Len(t, set, 1)
	assert.Equal(t, []string{"a", "b"}, set["0"].MemberIDs)
}

func TestSelector_FallbackOnMalformedOutput(t *testing.T) {
	skipWithoutSh(t)

	script := `echo garbage > "$2"`
	s := NewSelector(selectorConfig("sh", "-c", script, "backend"))

	vectors := testutils.GenerateClusteredVectors(3, 3, 4, 11)
	set, err := s.Compute(context.Background(), vectors)
	assert.NoError(t, err)
	assert.Len(t, set, 3)
	assert.Equal(t, len(vectors), set.TotalMembers())
}

func TestSelector_FallbackOnExitFailure(t *testing.T) {
	skipWithoutSh(t)

	s := NewSelector(selectorConfig("sh", "-c", "exit 3", "backend"))

	vectors := testutils.GenerateClusteredVectors(2, 4, 4, 13)
	set, err := s.Compute(context.Background(), vectors)
	assert.NoError(t, err)
	assert.Equal(t, len(vectors), set.TotalMembers())
}

func TestSelector_HandoffDirRemoved(t *testing.T) {
	skipWithoutSh(t)

	// capture the handoff dir by copying the input path to a known file
	captureFile := filepath.Join(t.TempDir(), "input_path")
	script := `printf '%s' "$1" > ` + captureFile + `; exit 1`
	s := NewSelector(selectorConfig("sh", "-c", script, "backend"))

	vectors := []models.MemberVector{
		{MemberID: "a", Embedding: []float32{1, 0}},
		{MemberID: "b", Embedding: []float32{0, 1}},
	}
	_, err := s.Compute(context.Background(), vectors)
	assert.NoError(t, err)

	inputPath, err := os.ReadFile(captureFile)
	assert.NoError(t, err)
	_, statErr := os.Stat(filepath.Dir(string(inputPath)))
	assert.True(t, os.IsNotExist(statErr))
}
