package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/mortgage-agent/internal/requirements"
)

// NewUpdateRequirements builds the slot-update capability. Validation
// rejections are returned as the tool's result text, not raised as tool
// errors, so the model can relay the valid domain back to the user while
// the record stays unchanged.
func NewUpdateRequirements(rec *requirements.Record) *Capability {
	return &Capability{
		Name: NameUpdateRequirements,
		Description: "Update one field of the user's loan requirements as information " +
			"is collected during the conversation. Also accepts field \"summary\" to " +
			"review everything collected so far.",
		Properties: map[string]any{
			"field": map[string]any{
				"type": "string",
				"enum": append(requirements.AllFields(), "summary"),
				"description": "The requirement field to update, or \"summary\" to " +
					"review the collected requirements.",
			},
			"value": map[string]any{
				"type":        "string",
				"description": "The new value for the field. Ignored for \"summary\".",
			},
		},
		Required: []string{"field"},
		Handler: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in struct {
				Field string `json:"field"`
				Value string `json:"value"`
			}
			if err := json.Unmarshal(input, &in); err != nil {
				return "", eris.Wrap(err, "update requirements: decode input")
			}

			if in.Field == "summary" {
				return rec.Summary(), nil
			}

			confirmation, err := rec.Set(in.Field, in.Value)
			if err != nil {
				// Domain rejection: surfaced to the model as plain text,
				// record unchanged.
				return err.Error(), nil
			}

			if missing := rec.MissingFields(); len(missing) > 0 {
				return confirmation + "\nStill missing: " + strings.Join(missing, ", "), nil
			}
			return confirmation + "\nAll required information collected.", nil
		},
	}
}
