package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/labmatch/internal/ingest"
	"github.com/spigell/labmatch/internal/labs"
	"github.com/spigell/labmatch/internal/profile"
)

const (
	PromptAppend       = "Append to labs file"
	PromptSetReference = "Save as reference lab"
	PromptSkip         = "Skip"
	PromptQuit         = "Quit"
)

var errQuit = errors.New("quit requested")

var ingestCmd = &cobra.Command{
	Use:   "ingest FILE...",
	Short: "Extract lab profiles from .txt, .docx or .pdf documents",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runIngest(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().BoolP("yes", "y", false, "append every extracted profile to the labs file without asking")
	ingestCmd.Flags().Bool("dry-run", false, "only print extracted profiles")
	ingestCmd.Flags().IntP("concurrency", "c", 4, "number of documents processed at once")
}

func runIngest(cmd *cobra.Command, paths []string) {
	ctx := context.Background()
	logger, config := setup()

	yes, _ := cmd.Flags().GetBool("yes")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	store := newStore(config, logger)
	ingestor := ingest.New(logger, ingest.WithConcurrency(concurrency))

	failed := 0
	for _, res := range ingestor.IngestFiles(ctx, paths) {
		if res.Err != nil {
			failed++
			logger.Error("ingesting document", zap.String("path", res.Path), zap.Error(res.Err))
			continue
		}

		fmt.Fprintf(os.Stdout, "# %s\n", res.Path)
		if err := printOutput(os.Stdout, formatYAML, res.Result); err != nil {
			logger.Fatal("printing extracted profile", zap.Error(err))
		}

		if dryRun {
			continue
		}

		org := res.Result.ToOrganization()
		err := review(store, org, res.Path, yes, logger)
		if errors.Is(err, errQuit) {
			logger.Info("exiting", zap.String("reason", "quit from prompt"))
			return
		}
		if err != nil {
			logger.Fatal("saving extracted profile", zap.String("path", res.Path), zap.Error(err))
		}
	}

	if failed > 0 {
		logger.Fatal("some documents were not ingested", zap.Int("failed", failed), zap.Int("total", len(paths)))
	}
}

// review decides what happens to an extracted profile: append it, make it the reference, or skip it.
func review(store *labs.Store, org *profile.Organization, path string, yes bool, logger *zap.Logger) error {
	if yes {
		if err := org.Validate(); err != nil {
			logger.Warn("skipping profile without a name", zap.String("path", path))
			return nil
		}
		return store.Append(org)
	}

	choice := promptui.Select{
		Label: fmt.Sprintf("What to do with the profile from %s?", path),
		Items: []string{PromptAppend, PromptSetReference, PromptSkip, PromptQuit},
	}

	_, action, err := choice.Run()
	if err != nil {
		return err
	}

	switch action {
	case PromptSkip:
		return nil
	case PromptQuit:
		return errQuit
	}

	if err := org.Validate(); err != nil {
		if org.Name, err = askName(); err != nil {
			return err
		}
	}

	switch action {
	case PromptAppend:
		return store.Append(org)
	case PromptSetReference:
		return store.SaveReference(org)
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func askName() (string, error) {
	prompt := promptui.Prompt{
		Label: "No lab name was found, enter one",
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return profile.ErrNameRequired
			}
			return nil
		},
	}

	name, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(name), nil
}
