package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/labmatch/internal/filtering"
	"github.com/spigell/labmatch/internal/recommend"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Rank candidate labs against the reference lab",
	Run: func(cmd *cobra.Command, _ []string) {
		runScore(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("output", "o", formatYAML, "output format: yaml or json")
}

func runScore(cmd *cobra.Command) {
	ctx := context.Background()
	logger, config := setup()
	output, _ := cmd.Flags().GetString("output")

	filters := filterConfig(config)
	logger.Debug("filters", zap.Any("filters", filtering.Describe(filtering.Default(filters))))

	reference, candidates, err := newStore(config, logger).Candidates(ctx, filters)
	if err != nil {
		logger.Fatal("loading labs", zap.Error(err))
	}

	ranked, err := recommend.Rank(reference, candidates)
	if err != nil {
		logger.Fatal("ranking labs", zap.Error(err),
			zap.String("hint", "set reference-file or save a profile as reference with the ingest command"))
	}

	logger.Info("ranked labs", zap.String("reference", reference.Label()), zap.Int("count", len(ranked)))

	report := struct {
		Reference string            `json:"reference" yaml:"reference"`
		Scores    []recommend.Entry `json:"scores" yaml:"scores"`
	}{Reference: reference.Name, Scores: ranked}

	if err := printOutput(os.Stdout, output, report); err != nil {
		logger.Fatal("printing scores", zap.Error(err))
	}
}
