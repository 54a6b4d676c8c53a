package tools

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/rotisserie/eris"
)

// loanFormBasePage is the interactive application form rendered by the
// client in an iframe.
const loanFormBasePage = "loankit.html"

// LoanFormAction is the structured action payload returned by the
// form-sending capability.
type LoanFormAction struct {
	Action  string            `json:"action"`
	Type    string            `json:"type"`
	Render  string            `json:"render"`
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Payload map[string]string `json:"payload"`
}

type loanFormInput struct {
	PropertyLocation string `json:"property_location"`
	LoanPurpose      string `json:"loan_purpose"`
	PropertyType     string `json:"property_type"`
	PropertyStatus   string `json:"property_status"`
	LoanAmount       string `json:"loan_amount"`
	DownPayment      string `json:"down_payment"`
	CreditScore      string `json:"credit_score"`
	IncomeType       string `json:"income_type"`
	Military         string `json:"military"`
	SelfEmployed     string `json:"self_employed"`
	TaxReturns       string `json:"tax_returns"`
}

// prefillParams maps the non-empty input fields to the form's query
// parameter names.
func (in loanFormInput) prefillParams() map[string]string {
	params := map[string]string{}
	for key, val := range map[string]string{
		"propertyLocation": in.PropertyLocation,
		"loanPurpose":      in.LoanPurpose,
		"propertyType":     in.PropertyType,
		"propertyStatus":   in.PropertyStatus,
		"loanAmount":       in.LoanAmount,
		"downPayment":      in.DownPayment,
		"creditScore":      in.CreditScore,
		"incomeType":       in.IncomeType,
		"military":         in.Military,
		"selfEmployed":     in.SelfEmployed,
		"taxReturns":       in.TaxReturns,
	} {
		if val != "" {
			params[key] = val
		}
	}
	return params
}

// NewSendLoanForm builds the one-shot form-sending capability. All prefill
// parameters are optional; calling with no arguments sends a blank form.
func NewSendLoanForm() *Capability {
	stringProp := func(desc string) map[string]any {
		return map[string]any{"type": "string", "description": desc}
	}

	return &Capability{
		Name: NameSendLoanForm,
		Description: "Send the interactive loan application form to the user. " +
			"Call this as soon as the user expresses intent to apply for a mortgage, " +
			"even without any information collected yet; the form gathers all details interactively. " +
			"All parameters are optional pre-fill values.",
		Properties: map[string]any{
			"property_location": stringProp("Property location, e.g. \"Los Angeles, CA\""),
			"loan_purpose":      stringProp("purchase/refinance/investment/second_home"),
			"property_type":     stringProp("single_family/condo/townhouse/multi_unit/commercial"),
			"property_status":   stringProp("pre_construction/existing/foreclosure"),
			"loan_amount":       stringProp("Loan amount in USD"),
			"down_payment":      stringProp("Down payment percentage range: 0-5/5-10/10-20/20+"),
			"credit_score":      stringProp("Credit score range: 300-579/580-669/670-739/740-799/800-850"),
			"income_type":       stringProp("w2/self_employed/investment/other"),
			"military":          stringProp("yes/no"),
			"self_employed":     stringProp("yes/no"),
			"tax_returns":       stringProp("yes/no"),
		},
		Handler: func(ctx context.Context, input json.RawMessage) (string, error) {
			var in loanFormInput
			if len(input) > 0 {
				if err := json.Unmarshal(input, &in); err != nil {
					return "", eris.Wrap(err, "loan form: decode input")
				}
			}

			params := in.prefillParams()
			formURL := loanFormBasePage
			if len(params) > 0 {
				values := url.Values{}
				for k, v := range params {
					values.Set(k, v)
				}
				formURL += "?" + values.Encode()
			}

			action := LoanFormAction{
				Action:  "chatkit",
				Type:    "loan_form",
				Render:  "iframe",
				URL:     formURL,
				Method:  "GET",
				Payload: params,
			}

			out, err := json.Marshal(action)
			if err != nil {
				return "", eris.Wrap(err, "loan form: marshal action")
			}
			return string(out), nil
		},
	}
}
