package officers

import (
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Match scores.
const (
	ScoreHigh = 0.9 // specialty aligned with the borrower's needs
	ScoreLow  = 0.7
)

// maxResults caps the returned short list.
const maxResults = 3

// defaultCreditFloor is assumed when no credit score range was collected
// or the range cannot be parsed.
const defaultCreditFloor = 700

// MatchInput carries the requirement fields the engine matches on.
type MatchInput struct {
	LoanAmount  float64
	CreditScore string // range such as "670-739"; lower bound is used
	LoanPurpose string
	Location    string
	IncomeType  string
}

// MatchedOfficer is the public projection of a matched candidate.
type MatchedOfficer struct {
	Name            string   `json:"name"`
	Title           string   `json:"title"`
	Rating          float64  `json:"rating"`
	YearsExperience int      `json:"years_experience"`
	Specialties     []string `json:"specialties"`
	Contact         string   `json:"contact"`
	Phone           string   `json:"phone"`
	Bio             string   `json:"bio"`
	MatchScore      float64  `json:"match_score"`
}

// creditFloor parses the lower numeric bound of a credit score range.
func creditFloor(scoreRange string) int {
	if scoreRange == "" {
		return defaultCreditFloor
	}
	lower, _, _ := strings.Cut(scoreRange, "-")
	n, err := strconv.Atoi(strings.TrimSpace(lower))
	if err != nil {
		return defaultCreditFloor
	}
	return n
}

// servesRegion reports whether the requested location names the pool's
// supported region. An empty location is treated as unrestricted, so the
// locality filter only excludes candidates when the user asked for a
// different region than all candidates serve.
func (p *Pool) servesRegion(location string) bool {
	if location == "" {
		return true
	}
	loc := strings.ToLower(location)
	return strings.Contains(loc, strings.ToLower(p.Region)) ||
		strings.Contains(loc, strings.ToLower(p.RegionAbbr))
}

// Match returns up to three candidates for the given requirements, sorted
// descending by (match score, rating). Pure and deterministic; an empty
// result is valid.
func (p *Pool) Match(in MatchInput) []MatchedOfficer {
	floor := creditFloor(in.CreditScore)
	inRegion := p.servesRegion(in.Location)

	matched := make([]MatchedOfficer, 0, len(p.Officers))
	for _, o := range p.Officers {
		if floor < o.MinCredit {
			continue
		}
		if in.LoanAmount > o.MaxLoan {
			continue
		}
		if !inRegion {
			// Every candidate serves the single supported region; a request
			// naming anywhere else matches nobody.
			continue
		}

		score := ScoreLow
		if slices.Contains(o.Specialties, in.LoanPurpose) {
			score = ScoreHigh
		}
		if in.IncomeType == "self_employed" && slices.Contains(o.Specialties, "self_employed") {
			score = ScoreHigh
		}

		matched = append(matched, MatchedOfficer{
			Name:            o.Name,
			Title:           o.Title,
			Rating:          o.Rating,
			YearsExperience: o.YearsExperience,
			Specialties:     o.Specialties,
			Contact:         o.Contact,
			Phone:           o.Phone,
			Bio:             o.Bio,
			MatchScore:      score,
		})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].MatchScore != matched[j].MatchScore {
			return matched[i].MatchScore > matched[j].MatchScore
		}
		return matched[i].Rating > matched[j].Rating
	})

	if len(matched) > maxResults {
		matched = matched[:maxResults]
	}
	return matched
}
