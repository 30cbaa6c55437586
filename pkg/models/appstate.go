package models

import (
	"github.com/api996/AIHeuristicLearningApp-sub003/config"
)

// AppState is a struct that holds the state of the application
// Use cmd.NewAppState to create a new instance
type AppState struct {
	CacheStore       CacheStore
	VectorStore      VectorStore
	LabelGenerator   LabelGenerator
	EmbeddingsClient EmbeddingsClient
	Config           *config.Config
}
