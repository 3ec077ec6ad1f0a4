package recommend

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
)

type advisoryResponse struct {
	Recommendations []advisoryEntry `mapstructure:"recommendations"`
}

type advisoryEntry struct {
	LabName             string   `mapstructure:"lab_name"`
	Reason              *string  `mapstructure:"reason"`
	RecommendedProjects []string `mapstructure:"recommended_projects"`
}

func parseResponse(raw string) (*advisoryResponse, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	var resp advisoryResponse
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &resp,
	})
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}

	return &resp, nil
}

// find returns the first entry whose lab name equals name exactly.
func (r *advisoryResponse) find(name string) *advisoryEntry {
	for i := range r.Recommendations {
		if r.Recommendations[i].LabName == name {
			return &r.Recommendations[i]
		}
	}
	return nil
}

// extractJSON strips a surrounding code fence and an optional json language tag.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```")
		if idx := strings.Index(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
		raw = strings.TrimSpace(raw)
		if len(raw) >= 4 && strings.EqualFold(raw[:4], "json") {
			raw = raw[4:]
		}
	}
	return strings.TrimSpace(raw)
}
