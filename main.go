package main

import (
	cmd "github.com/api996/AIHeuristicLearningApp-sub003/cmd/clustercache"
	"github.com/api996/AIHeuristicLearningApp-sub003/internal"
)

var log = internal.GetLogger()

func main() {
	log.Info("Starting clustercache")
	cmd.Execute()
}
