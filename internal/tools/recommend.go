package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/rotisserie/eris"

	"github.com/sells-group/mortgage-agent/internal/officers"
	"github.com/sells-group/mortgage-agent/internal/requirements"
)

// officersBasePage renders the recommended officer list in an iframe.
const officersBasePage = "officers.html"

// InsufficientInfo is returned when required fields are still unset; no
// matching runs in that case.
type InsufficientInfo struct {
	Status        string   `json:"status"`
	Message       string   `json:"message"`
	MissingFields []string `json:"missing_fields"`
	Suggestion    string   `json:"suggestion"`
}

// OfficersAction is the structured action payload carrying the matched
// officer short list.
type OfficersAction struct {
	Action  string          `json:"action"`
	Type    string          `json:"type"`
	Render  string          `json:"render"`
	URL     string          `json:"url"`
	Payload OfficersPayload `json:"payload"`
	Message string          `json:"message"`
}

// OfficersPayload holds the matched officers and their count.
type OfficersPayload struct {
	Officers   []officers.MatchedOfficer `json:"officers"`
	TotalCount int                       `json:"total_count"`
}

// NewRecommendOfficers builds the recommendation capability over the live
// requirements record and the candidate pool.
func NewRecommendOfficers(rec *requirements.Record, pool *officers.Pool) *Capability {
	return &Capability{
		Name: NameRecommendOfficers,
		Description: "Recommend suitable loan officers based on the user's collected requirements. " +
			"Only call when the user explicitly asks for loan officer recommendations " +
			"or asks who can help with their loan.",
		Handler: func(ctx context.Context, input json.RawMessage) (string, error) {
			if missing := rec.MissingFields(); len(missing) > 0 {
				out, err := json.Marshal(InsufficientInfo{
					Status:        "insufficient_info",
					Message:       "I need more information to recommend the right loan officer for you.",
					MissingFields: missing,
					Suggestion:    "Please complete the loan application form or provide the missing information.",
				})
				if err != nil {
					return "", eris.Wrap(err, "recommend officers: marshal insufficient info")
				}
				return string(out), nil
			}

			matched := pool.Match(officers.MatchInput{
				LoanAmount:  rec.LoanAmount,
				CreditScore: rec.CreditScore,
				LoanPurpose: rec.LoanPurpose,
				Location:    rec.PropertyLocation,
				IncomeType:  rec.IncomeType,
			})
			if matched == nil {
				matched = []officers.MatchedOfficer{}
			}

			data, err := json.Marshal(matched)
			if err != nil {
				return "", eris.Wrap(err, "recommend officers: marshal officers")
			}

			action := OfficersAction{
				Action: "chatkit",
				Type:   "officers_list",
				Render: "iframe",
				URL:    officersBasePage + "?data=" + url.QueryEscape(string(data)),
				Payload: OfficersPayload{
					Officers:   matched,
					TotalCount: len(matched),
				},
				Message: fmt.Sprintf("Based on your requirements, I've found %d suitable loan officers for you.", len(matched)),
			}

			out, err := json.Marshal(action)
			if err != nil {
				return "", eris.Wrap(err, "recommend officers: marshal action")
			}
			return string(out), nil
		},
	}
}
