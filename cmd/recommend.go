package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/labmatch/internal/recommend"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend collaborators for a task with advisory rationale",
	Run: func(cmd *cobra.Command, _ []string) {
		runRecommend(cmd)
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringP("task", "t", "", "description of the research task")
	recommendCmd.Flags().StringP("output", "o", formatYAML, "output format: yaml or json")
	recommendCmd.Flags().IntP("top-k", "k", 0, "number of candidates sent to the advisory capability")

	recommendCmd.MarkFlagRequired("task")
	viper.BindPFlag("recommend.top-k", recommendCmd.Flags().Lookup("top-k"))
}

func runRecommend(cmd *cobra.Command) {
	ctx := context.Background()
	logger, config := setup()

	task, _ := cmd.Flags().GetString("task")
	output, _ := cmd.Flags().GetString("output")

	reference, candidates, err := newStore(config, logger).Candidates(ctx, filterConfig(config))
	if err != nil {
		logger.Fatal("loading labs", zap.Error(err))
	}

	result, err := newMerger(ctx, config, logger).Merge(ctx, reference, candidates, task)
	if err != nil {
		scores, ok := recommend.LocalScores(err)
		if !ok {
			logger.Fatal("recommending labs", zap.Error(err))
		}

		logger.Error("advisory failed, printing local scores only", zap.Error(err))
		fallback := struct {
			Task   string            `json:"task" yaml:"task"`
			Error  string            `json:"error" yaml:"error"`
			Scores []recommend.Entry `json:"scores" yaml:"scores"`
		}{Task: task, Error: err.Error(), Scores: scores}

		if err := printOutput(os.Stdout, output, fallback); err != nil {
			logger.Fatal("printing scores", zap.Error(err))
		}
		return
	}

	if err := printOutput(os.Stdout, output, result); err != nil {
		logger.Fatal("printing recommendations", zap.Error(err))
	}
}
