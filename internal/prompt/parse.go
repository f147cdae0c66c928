package prompt

import (
	"encoding/json"
	"fmt"

	"github.com/mikey/mail-triage/internal/core"
	"github.com/mikey/mail-triage/internal/utils"
)

// classificationPayload is the wire shape every backend returns
type classificationPayload struct {
	Classifications []wireClassification `json:"classifications"`
}

type wireClassification struct {
	EmailIndex int      `json:"email_index"`
	Category   string   `json:"category"`
	Summary    string   `json:"summary"`
	Action     string   `json:"action"`
	Context    []string `json:"context"`
}

// ParseClassifications decodes a classification payload from a bare JSON
// document. The top-level classifications field must be present.
func ParseClassifications(text string) ([]core.Classification, error) {
	var payload classificationPayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse classification response as JSON: %w", err)
	}
	if payload.Classifications == nil {
		return nil, fmt.Errorf("classification response missing classifications field")
	}

	results := make([]core.Classification, len(payload.Classifications))
	for i, c := range payload.Classifications {
		results[i] = core.Classification{
			EmailIndex: c.EmailIndex,
			Category:   core.Category(c.Category),
			Summary:    c.Summary,
			Action:     c.Action,
			Context:    c.Context,
		}
	}
	return results, nil
}

// ExtractClassifications locates the JSON object inside a free-form
// model response, then parses it. Used by backends whose responses may
// wrap the payload in conversational text.
func ExtractClassifications(text string) ([]core.Classification, error) {
	jsonText, err := utils.ExtractJSONObject(text)
	if err != nil {
		return nil, fmt.Errorf("failed to extract JSON from model response: %w", err)
	}
	return ParseClassifications(jsonText)
}
