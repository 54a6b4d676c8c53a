// Package requirements tracks the loan-application slots collected during
// a conversation. Every field validates against its enumerated domain
// before writing; a rejected write leaves the record unchanged.
package requirements

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Field keys accepted by Set.
const (
	FieldPropertyLocation = "property_location"
	FieldLoanPurpose      = "loan_purpose"
	FieldPropertyType     = "property_type"
	FieldPropertyStatus   = "property_status"
	FieldLoanAmount       = "loan_amount"
	FieldDownPayment      = "down_payment"
	FieldCreditScore      = "credit_score"
	FieldIncomeType       = "income_type"
	FieldMilitary         = "military"
	FieldSelfEmployed     = "self_employed"
	FieldTaxReturns       = "tax_returns"
)

// Enumerated domains.
var (
	LoanPurposes     = []string{"purchase", "refinance", "investment", "second_home"}
	PropertyTypes    = []string{"single_family", "condo", "townhouse", "multi_unit", "commercial"}
	PropertyStatuses = []string{"pre_construction", "existing", "foreclosure"}
	DownPayments     = []string{"0-5", "5-10", "10-20", "20+"}
	CreditScores     = []string{"300-579", "580-669", "670-739", "740-799", "800-850"}
	IncomeTypes      = []string{"w2", "self_employed", "investment", "other"}
	YesNo            = []string{"yes", "no"}
)

// AllFields lists every settable field key, in display order.
func AllFields() []string {
	return []string{
		FieldPropertyLocation, FieldLoanPurpose, FieldPropertyType,
		FieldPropertyStatus, FieldLoanAmount, FieldDownPayment,
		FieldCreditScore, FieldIncomeType, FieldMilitary,
		FieldSelfEmployed, FieldTaxReturns,
	}
}

// ValidationError reports a rejected write, naming the full valid domain.
type ValidationError struct {
	Field string
	Valid []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: must be one of: %s",
		strings.ReplaceAll(e.Field, "_", " "), strings.Join(e.Valid, ", "))
}

// usPrinter renders currency amounts with thousands separators.
var usPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatAmount renders a loan amount as a US dollar figure.
func FormatAmount(amount float64) string {
	return usPrinter.Sprintf("$%d", int64(amount))
}

// Record holds the user's in-progress loan application. The zero value is
// an empty record; string fields are unset when empty, LoanAmount is unset
// at zero.
type Record struct {
	PropertyLocation string
	LoanPurpose      string
	PropertyType     string
	PropertyStatus   string
	LoanAmount       float64
	DownPayment      string
	CreditScore      string
	IncomeType       string
	Military         string
	SelfEmployed     string
	TaxReturns       string
}

// New returns an empty record.
func New() *Record {
	return &Record{}
}

func validateEnum(field, value string, valid []string) error {
	for _, v := range valid {
		if value == v {
			return nil
		}
	}
	return &ValidationError{Field: field, Valid: valid}
}

// UpdatePropertyLocation sets the property location (free text).
func (r *Record) UpdatePropertyLocation(location string) (string, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return "", fmt.Errorf("property location must not be empty")
	}
	r.PropertyLocation = location
	return fmt.Sprintf("Property location updated: %s", location), nil
}

// UpdateLoanPurpose sets the loan purpose.
func (r *Record) UpdateLoanPurpose(purpose string) (string, error) {
	if err := validateEnum(FieldLoanPurpose, purpose, LoanPurposes); err != nil {
		return "", err
	}
	r.LoanPurpose = purpose
	return fmt.Sprintf("Loan purpose updated: %s", purpose), nil
}

// UpdatePropertyType sets the property type.
func (r *Record) UpdatePropertyType(propType string) (string, error) {
	if err := validateEnum(FieldPropertyType, propType, PropertyTypes); err != nil {
		return "", err
	}
	r.PropertyType = propType
	return fmt.Sprintf("Property type updated: %s", propType), nil
}

// UpdatePropertyStatus sets the property status.
func (r *Record) UpdatePropertyStatus(status string) (string, error) {
	if err := validateEnum(FieldPropertyStatus, status, PropertyStatuses); err != nil {
		return "", err
	}
	r.PropertyStatus = status
	return fmt.Sprintf("Property status updated: %s", status), nil
}

// UpdateLoanAmount sets the loan amount in USD. The amount must be positive.
func (r *Record) UpdateLoanAmount(amount float64) (string, error) {
	if amount <= 0 {
		return "", fmt.Errorf("invalid loan amount: must be a positive number")
	}
	r.LoanAmount = amount
	return fmt.Sprintf("Loan amount updated: %s", FormatAmount(amount)), nil
}

// UpdateDownPayment sets the down payment percentage range.
func (r *Record) UpdateDownPayment(pct string) (string, error) {
	if err := validateEnum(FieldDownPayment, pct, DownPayments); err != nil {
		return "", err
	}
	r.DownPayment = pct
	return fmt.Sprintf("Down payment updated: %s%%", pct), nil
}

// UpdateCreditScore sets the credit score range.
func (r *Record) UpdateCreditScore(scoreRange string) (string, error) {
	if err := validateEnum(FieldCreditScore, scoreRange, CreditScores); err != nil {
		return "", err
	}
	r.CreditScore = scoreRange
	return fmt.Sprintf("Credit score updated: %s", scoreRange), nil
}

// UpdateIncomeType sets the income type.
func (r *Record) UpdateIncomeType(incomeType string) (string, error) {
	if err := validateEnum(FieldIncomeType, incomeType, IncomeTypes); err != nil {
		return "", err
	}
	r.IncomeType = incomeType
	return fmt.Sprintf("Income type updated: %s", incomeType), nil
}

// UpdateMilitary sets the military status.
func (r *Record) UpdateMilitary(v string) (string, error) {
	if err := validateEnum(FieldMilitary, v, YesNo); err != nil {
		return "", err
	}
	r.Military = v
	return fmt.Sprintf("Military status updated: %s", v), nil
}

// UpdateSelfEmployed sets the self-employed status.
func (r *Record) UpdateSelfEmployed(v string) (string, error) {
	if err := validateEnum(FieldSelfEmployed, v, YesNo); err != nil {
		return "", err
	}
	r.SelfEmployed = v
	return fmt.Sprintf("Self-employed status updated: %s", v), nil
}

// UpdateTaxReturns sets whether 2+ years of tax returns are available.
func (r *Record) UpdateTaxReturns(v string) (string, error) {
	if err := validateEnum(FieldTaxReturns, v, YesNo); err != nil {
		return "", err
	}
	r.TaxReturns = v
	return fmt.Sprintf("Tax returns status updated: %s", v), nil
}

// Set dispatches a string field/value pair to the matching update
// operation. loan_amount is parsed as a number first.
func (r *Record) Set(field, value string) (string, error) {
	switch field {
	case FieldPropertyLocation:
		return r.UpdatePropertyLocation(value)
	case FieldLoanPurpose:
		return r.UpdateLoanPurpose(value)
	case FieldPropertyType:
		return r.UpdatePropertyType(value)
	case FieldPropertyStatus:
		return r.UpdatePropertyStatus(value)
	case FieldLoanAmount:
		amount, err := strconv.ParseFloat(strings.TrimPrefix(strings.ReplaceAll(value, ",", ""), "$"), 64)
		if err != nil {
			return "", fmt.Errorf("invalid loan amount: must be a positive number")
		}
		return r.UpdateLoanAmount(amount)
	case FieldDownPayment:
		return r.UpdateDownPayment(value)
	case FieldCreditScore:
		return r.UpdateCreditScore(value)
	case FieldIncomeType:
		return r.UpdateIncomeType(value)
	case FieldMilitary:
		return r.UpdateMilitary(value)
	case FieldSelfEmployed:
		return r.UpdateSelfEmployed(value)
	case FieldTaxReturns:
		return r.UpdateTaxReturns(value)
	default:
		return "", fmt.Errorf("unknown field %q: must be one of: %s", field, strings.Join(AllFields(), ", "))
	}
}

// requiredFields are the slots that must be set before officer matching.
// Military, self-employed, and tax returns are optional.
var requiredFields = []struct {
	name  string
	unset func(*Record) bool
}{
	{"property location", func(r *Record) bool { return r.PropertyLocation == "" }},
	{"loan purpose", func(r *Record) bool { return r.LoanPurpose == "" }},
	{"property type", func(r *Record) bool { return r.PropertyType == "" }},
	{"property status", func(r *Record) bool { return r.PropertyStatus == "" }},
	{"loan amount", func(r *Record) bool { return r.LoanAmount == 0 }},
	{"down payment", func(r *Record) bool { return r.DownPayment == "" }},
	{"credit score", func(r *Record) bool { return r.CreditScore == "" }},
	{"income type", func(r *Record) bool { return r.IncomeType == "" }},
}

// MissingFields returns the unset required fields in declaration order.
func (r *Record) MissingFields() []string {
	var missing []string
	for _, f := range requiredFields {
		if f.unset(r) {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Complete reports whether all required fields are set.
func (r *Record) Complete() bool {
	return len(r.MissingFields()) == 0
}

const notSet = "Not set"

func orNotSet(v string) string {
	if v == "" {
		return notSet
	}
	return v
}

// Summary renders every field for user-facing display.
func (r *Record) Summary() string {
	amount := notSet
	if r.LoanAmount > 0 {
		amount = FormatAmount(r.LoanAmount)
	}
	downPayment := notSet
	if r.DownPayment != "" {
		downPayment = r.DownPayment + "%"
	}

	var b strings.Builder
	b.WriteString("Current loan requirements:\n")
	for _, line := range []struct{ label, value string }{
		{"Property Location", orNotSet(r.PropertyLocation)},
		{"Loan Purpose", orNotSet(r.LoanPurpose)},
		{"Property Type", orNotSet(r.PropertyType)},
		{"Property Status", orNotSet(r.PropertyStatus)},
		{"Loan Amount", amount},
		{"Down Payment", downPayment},
		{"Credit Score", orNotSet(r.CreditScore)},
		{"Income Type", orNotSet(r.IncomeType)},
		{"Military", orNotSet(r.Military)},
		{"Self-Employed", orNotSet(r.SelfEmployed)},
		{"Tax Returns", orNotSet(r.TaxReturns)},
	} {
		fmt.Fprintf(&b, "  - %s: %s\n", line.label, line.value)
	}
	return b.String()
}
