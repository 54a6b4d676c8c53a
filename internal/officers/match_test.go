package officers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestPool(t *testing.T) *Pool {
	t.Helper()
	pool, err := LoadPool()
	require.NoError(t, err)
	require.Len(t, pool.Officers, 5)
	return pool
}

func TestCreditFloor(t *testing.T) {
	assert.Equal(t, 740, creditFloor("740-799"))
	assert.Equal(t, 300, creditFloor("300-579"))
	assert.Equal(t, 700, creditFloor(""))
	assert.Equal(t, 700, creditFloor("excellent"))
}

func TestMatch_CreditFloorFilter(t *testing.T) {
	pool := loadTestPool(t)

	// A 580-669 borrower clears only the candidates whose minimum credit
	// is at or below 580.
	matched := pool.Match(MatchInput{
		LoanAmount:  300000,
		CreditScore: "580-669",
		LoanPurpose: "purchase",
	})

	for _, m := range matched {
		assert.NotEqual(t, "Sarah Johnson", m.Name)
		assert.NotEqual(t, "Emily Rodriguez", m.Name)
		assert.NotEqual(t, "David Kim", m.Name)
	}
	assert.Len(t, matched, 1)
	assert.Equal(t, "Michael Chen", matched[0].Name)
}

func TestMatch_LowCreditJumboRequest(t *testing.T) {
	pool := loadTestPool(t)

	// A 300-579 borrower asking for a jumbo loan clears nobody: every
	// candidate's credit floor sits above 300, jumbo specialists most of
	// all.
	matched := pool.Match(MatchInput{
		LoanAmount:  0,
		CreditScore: "300-579",
		LoanPurpose: "jumbo",
	})
	assert.Empty(t, matched)
}

func TestMatch_LoanCeilingFilter(t *testing.T) {
	pool := loadTestPool(t)

	matched := pool.Match(MatchInput{
		LoanAmount:  4000000,
		CreditScore: "740-799",
		LoanPurpose: "purchase",
	})

	require.Len(t, matched, 1)
	assert.Equal(t, "Emily Rodriguez", matched[0].Name)
}

func TestMatch_TopThreeSortedByScoreThenRating(t *testing.T) {
	pool := loadTestPool(t)

	matched := pool.Match(MatchInput{
		LoanAmount:  500000,
		CreditScore: "740-799",
		LoanPurpose: "purchase",
	})

	// All five candidates qualify and score 0.9 on the purchase
	// specialty; the short list caps at three, ordered by rating.
	require.Len(t, matched, 3)
	for _, m := range matched {
		assert.Equal(t, ScoreHigh, m.MatchScore)
	}
	assert.GreaterOrEqual(t, matched[0].Rating, matched[1].Rating)
	assert.GreaterOrEqual(t, matched[1].Rating, matched[2].Rating)
	assert.Equal(t, 4.9, matched[0].Rating)
}

func TestMatch_SpecialtyScoring(t *testing.T) {
	pool := loadTestPool(t)

	matched := pool.Match(MatchInput{
		LoanAmount:  500000,
		CreditScore: "740-799",
		LoanPurpose: "investment",
	})

	require.NotEmpty(t, matched)
	// Only Emily Rodriguez lists investment; she outranks higher-rated
	// generalists on match score.
	assert.Equal(t, "Emily Rodriguez", matched[0].Name)
	assert.Equal(t, ScoreHigh, matched[0].MatchScore)
	for _, m := range matched[1:] {
		assert.Equal(t, ScoreLow, m.MatchScore)
	}
}

func TestMatch_SelfEmployedScoring(t *testing.T) {
	pool := loadTestPool(t)

	matched := pool.Match(MatchInput{
		LoanAmount:  500000,
		CreditScore: "740-799",
		LoanPurpose: "refinance",
		IncomeType:  "self_employed",
	})

	require.NotEmpty(t, matched)
	scores := map[string]float64{}
	for _, m := range matched {
		scores[m.Name] = m.MatchScore
	}
	assert.Equal(t, ScoreHigh, scores["David Kim"])
}

func TestMatch_RegionFilter(t *testing.T) {
	pool := loadTestPool(t)

	in := MatchInput{
		LoanAmount:  500000,
		CreditScore: "740-799",
		LoanPurpose: "purchase",
	}

	in.Location = "Austin, TX"
	assert.Empty(t, pool.Match(in))

	in.Location = "San Francisco, CA"
	assert.NotEmpty(t, pool.Match(in))

	in.Location = "somewhere in california"
	assert.NotEmpty(t, pool.Match(in))

	// No stated location is unrestricted.
	in.Location = ""
	assert.NotEmpty(t, pool.Match(in))
}

func TestMatch_DefaultCreditFloor(t *testing.T) {
	pool := loadTestPool(t)

	// No collected credit range assumes 700: everyone qualifies.
	matched := pool.Match(MatchInput{
		LoanAmount:  500000,
		LoanPurpose: "purchase",
	})
	assert.Len(t, matched, 3)
}

func TestMatch_Deterministic(t *testing.T) {
	pool := loadTestPool(t)

	in := MatchInput{LoanAmount: 800000, CreditScore: "670-739", LoanPurpose: "refinance"}
	first := pool.Match(in)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, pool.Match(in))
	}
}
