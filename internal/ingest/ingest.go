// Package ingest turns uploaded documents into reviewable profile drafts.
// Nothing produced here is persisted; the caller decides what to keep.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/labmatch/internal/document"
	"github.com/spigell/labmatch/internal/extraction"
	"github.com/spigell/labmatch/internal/profile"
)

const defaultConcurrency = 4

// Ingestor runs the text and field extractors over a document.
type Ingestor struct {
	logger      *zap.Logger
	concurrency int
}

// Option customises an Ingestor.
type Option func(*Ingestor)

// WithConcurrency bounds the number of files IngestFiles processes at once.
func WithConcurrency(n int) Option {
	return func(i *Ingestor) {
		if n > 0 {
			i.concurrency = n
		}
	}
}

func New(logger *zap.Logger, opts ...Option) *Ingestor {
	if logger == nil {
		logger = zap.NewNop()
	}

	i := &Ingestor{logger: logger, concurrency: defaultConcurrency}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Ingest extracts a profile draft from raw document bytes. The extension of filename selects the parser.
func (i *Ingestor) Ingest(ctx context.Context, raw []byte, filename string) (*profile.ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text, err := document.Extract(raw, filename)
	if err != nil {
		i.logger.Warn("document extraction failed",
			zap.String("filename", filename),
			zap.Int("bytes", len(raw)),
			zap.Error(err),
		)
		return nil, err
	}

	result := extraction.Extract(text)

	format, _ := document.Detect(filename)
	i.logger.Info("document ingested",
		zap.String("filename", filename),
		zap.String("format", string(format)),
		zap.Int("text_length", len([]rune(text))),
		zap.Int("filled_fields", result.Filled()),
		zap.String("confidence", result.Confidence),
	)

	return result, nil
}

// FileResult is the outcome of ingesting one file.
type FileResult struct {
	Path   string
	Result *profile.ExtractionResult
	Err    error
}

// IngestFiles reads and ingests paths concurrently. Results keep the order of paths and
// a failure is reported on the file it belongs to without stopping the others.
func (i *Ingestor) IngestFiles(ctx context.Context, paths []string) []FileResult {
	results := make([]FileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.concurrency)

	for idx, path := range paths {
		g.Go(func() error {
			results[idx] = FileResult{Path: path}

			raw, err := os.ReadFile(path)
			if err != nil {
				results[idx].Err = fmt.Errorf("read %s: %w", path, err)
				return nil
			}

			res, err := i.Ingest(gctx, raw, filepath.Base(path))
			if err != nil {
				results[idx].Err = fmt.Errorf("ingest %s: %w", path, err)
				return nil
			}
			results[idx].Result = res
			return nil
		})
	}

	_ = g.Wait()

	return results
}
