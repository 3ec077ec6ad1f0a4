// Package recommend ranks candidate labs and merges the ranking with advisory rationale.
package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/labmatch/internal/ai"
	"github.com/spigell/labmatch/internal/logger"
	"github.com/spigell/labmatch/internal/profile"
	"github.com/spigell/labmatch/internal/scoring"
	"github.com/spigell/labmatch/internal/utils"
)

const (
	DefaultTopK   = 5
	DefaultReason = "Potential collaboration opportunity"

	defaultMaxLogLength = 200
)

//go:embed prompt.md
var promptTemplate string

// Entry is the local, deterministic part of a recommendation.
type Entry struct {
	LabID     string            `json:"lab_id,omitempty" yaml:"lab_id,omitempty"`
	LabName   string            `json:"lab_name" yaml:"lab_name"`
	LabEmail  string            `json:"lab_email,omitempty" yaml:"lab_email,omitempty"`
	Domain    string            `json:"domain,omitempty" yaml:"domain,omitempty"`
	Score     int               `json:"score" yaml:"score"`
	Grade     string            `json:"grade" yaml:"grade"`
	Breakdown map[string]string `json:"score_breakdown" yaml:"score_breakdown"`
}

// Recommendation is a ranked candidate enriched with advisory rationale and project ideas.
type Recommendation struct {
	Entry               `yaml:",inline"`
	Reason              string   `json:"reason" yaml:"reason"`
	RecommendedProjects []string `json:"recommended_projects" yaml:"recommended_projects"`
}

// Result is the outcome of a successful merge.
type Result struct {
	Task            string           `json:"task" yaml:"task"`
	Recommendations []Recommendation `json:"recommendations" yaml:"recommendations"`
	Ranked          []Entry          `json:"ranked" yaml:"ranked"`
}

type summary struct {
	LabName string `json:"lab_name"`
	Domain  string `json:"domain"`
	Score   int    `json:"score"`
	Grade   string `json:"grade"`
}

// Merger issues one advisory request per merge for the top ranked candidates.
type Merger struct {
	advisor   ai.Capability
	topK      int
	maxLogLen int
	logger    *zap.Logger
}

// Option customises a Merger.
type Option func(*Merger)

// WithTopK sets how many candidates are sent to the advisory capability.
func WithTopK(k int) Option {
	return func(m *Merger) {
		if k > 0 {
			m.topK = k
		}
	}
}

// WithMaxLogLength bounds prompt and response previews in debug logs.
func WithMaxLogLength(n int) Option {
	return func(m *Merger) {
		if n > 0 {
			m.maxLogLen = n
		}
	}
}

// New creates a Merger. A nil advisor makes every non-empty merge fail with AdvisoryUnavailableError.
func New(advisor ai.Capability, log *zap.Logger, opts ...Option) *Merger {
	provider, model := ai.Describe(advisor)

	m := &Merger{
		advisor:   advisor,
		topK:      DefaultTopK,
		maxLogLen: defaultMaxLogLength,
		logger:    logger.WithAdvisor(log, provider, model),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Rank scores candidates against reference without contacting the advisory capability.
func Rank(reference *profile.Organization, candidates []*profile.Organization) ([]Entry, error) {
	if reference == nil {
		return nil, ErrNoReference
	}
	return entries(scoring.Rank(reference, candidates)), nil
}

// Merge ranks candidates, asks the advisory capability about the top ones and merges both.
func (m *Merger) Merge(ctx context.Context, reference *profile.Organization, candidates []*profile.Organization, task string) (*Result, error) {
	if reference == nil {
		return nil, ErrNoReference
	}

	task = strings.TrimSpace(task)
	if task == "" {
		return nil, ErrTaskRequired
	}

	ranked := entries(scoring.Rank(reference, candidates))
	result := &Result{Task: task, Recommendations: []Recommendation{}, Ranked: ranked}
	if len(ranked) == 0 {
		m.logger.Info("no candidates to recommend")
		return result, nil
	}

	top := ranked[:min(m.topK, len(ranked))]

	if m.advisor == nil {
		return nil, &AdvisoryUnavailableError{Err: ai.ErrNotConfigured, Scores: top}
	}

	prompt, err := buildPrompt(task, top)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("advisory request",
		zap.Int("candidates", len(top)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, m.maxLogLen)),
	)

	raw, err := m.advisor.GenerateContent(ctx, prompt)
	if err != nil {
		m.logger.Warn("advisory request failed", zap.Error(err))
		return nil, &AdvisoryUnavailableError{Err: err, Scores: top}
	}

	m.logger.Debug("advisory response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, m.maxLogLen)),
	)

	advice, err := parseResponse(raw)
	if err != nil {
		m.logger.Warn("advisory response is not valid json", zap.Error(err))
		return nil, &AdvisoryParseError{Raw: raw, Scores: top, Err: err}
	}

	matched := 0
	for _, entry := range top {
		rec := Recommendation{Entry: entry, Reason: DefaultReason, RecommendedProjects: []string{}}
		if found := advice.find(entry.LabName); found != nil {
			matched++
			if found.Reason != nil {
				rec.Reason = *found.Reason
			}
			if found.RecommendedProjects != nil {
				rec.RecommendedProjects = found.RecommendedProjects
			}
		}
		result.Recommendations = append(result.Recommendations, rec)
	}

	m.logger.Info("recommendations merged",
		zap.Int("ranked", len(ranked)),
		zap.Int("recommended", len(result.Recommendations)),
		zap.Int("advised", matched),
	)

	return result, nil
}

func buildPrompt(task string, top []Entry) (string, error) {
	summaries := make([]summary, 0, len(top))
	for _, entry := range top {
		summaries = append(summaries, summary{
			LabName: entry.LabName,
			Domain:  entry.Domain,
			Score:   entry.Score,
			Grade:   entry.Grade,
		})
	}

	labsJSON, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal lab summaries: %w", err)
	}

	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Task: {{TASK}}\n\nLabs:\n{{LABS_JSON}}\n\nJSON Response:"
	}
	// Single pass: placeholders inside the task text stay literal.
	return strings.NewReplacer("{{TASK}}", task, "{{LABS_JSON}}", string(labsJSON)).Replace(template), nil
}

func entries(scored []scoring.Scored) []Entry {
	out := make([]Entry, 0, len(scored))
	for _, s := range scored {
		out = append(out, Entry{
			LabID:     s.Organization.ID,
			LabName:   s.Organization.Name,
			LabEmail:  s.Organization.Email,
			Domain:    s.Organization.Domain,
			Score:     s.Breakdown.Score,
			Grade:     s.Breakdown.Grade,
			Breakdown: s.Breakdown.Details,
		})
	}
	return out
}
