package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/api996/AIHeuristicLearningApp-sub003/internal"
)

var (
	log *logrus.Logger

	cfgFile      string
	showVersion  bool
	dumpConfig   bool
	forceRefresh bool
	memberID     string
	content      string
)

var cmd = &cobra.Command{
	Use:   "clustercache",
	Short: "clustercache computes, labels, and caches topical clusters over per-user vector records",
	Run:   func(cmd *cobra.Command, args []string) { run(cmd) },
}

var getCmd = &cobra.Command{
	Use:   "get <userID>",
	Short: "Get the cluster set for a user, recomputing if the cached entry is stale",
	Args:  cobra.ExactArgs(1),
	Run:   func(cmd *cobra.Command, args []string) { runGet(args[0]) },
}

var clearCmd = &cobra.Command{
	Use:   "clear <userID>",
	Short: "Remove the cached cluster entry for a user",
	Args:  cobra.ExactArgs(1),
	Run:   func(cmd *cobra.Command, args []string) { runClear(args[0]) },
}

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete all expired cache entries",
	Args:  cobra.NoArgs,
	Run:   func(cmd *cobra.Command, args []string) { runPurge() },
}

var putRecordCmd = &cobra.Command{
	Use:   "put-record <userID>",
	Short: "Store a member record for a user, embedding its content when an embeddings client is configured",
	Args:  cobra.ExactArgs(1),
	Run:   func(cmd *cobra.Command, args []string) { runPutRecord(args[0]) },
}

func init() {
	cmd.AddCommand(getCmd)
	cmd.AddCommand(clearCmd)
	cmd.AddCommand(purgeCmd)
	cmd.AddCommand(putRecordCmd)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default config.yaml)")
	cmd.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "print version number")
	cmd.PersistentFlags().BoolVarP(&dumpConfig, "dump-config", "d", false, "dump config")

	getCmd.Flags().BoolVarP(&forceRefresh, "force-refresh", "f", false, "recompute even if the cached entry is fresh")
	putRecordCmd.Flags().StringVarP(&memberID, "member-id", "m", "", "member record ID (required)")
	putRecordCmd.Flags().StringVarP(&content, "content", "c", "", "member record content (required)")
	_ = putRecordCmd.MarkFlagRequired("member-id")
	_ = putRecordCmd.MarkFlagRequired("content")
}

// Execute executes the root cobra command.
func Execute() {
	log = internal.GetLogger()
	log.SetLevel(logrus.InfoLevel)

	err := cmd.Execute()

	if err != nil {
		os.Exit(1)
	}
}
