package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/mortgage-agent/internal/officers"
)

var (
	officersAmount   float64
	officersCredit   string
	officersPurpose  string
	officersLocation string
	officersIncome   string
)

var officersCmd = &cobra.Command{
	Use:   "officers",
	Short: "Match loan officers against a set of requirements",
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := officers.LoadPool()
		if err != nil {
			return err
		}

		matches := pool.Match(officers.MatchInput{
			LoanAmount:  officersAmount,
			CreditScore: officersCredit,
			LoanPurpose: officersPurpose,
			Location:    officersLocation,
			IncomeType:  officersIncome,
		})

		if len(matches) == 0 {
			fmt.Println("no matching officers")
			return nil
		}
		for i, m := range matches {
			fmt.Printf("%d. %s (%s) score=%.1f rating=%.1f\n", i+1, m.Name, m.Title, m.MatchScore, m.Rating)
		}
		return nil
	},
}

func init() {
	officersCmd.Flags().Float64Var(&officersAmount, "amount", 0, "loan amount in dollars")
	officersCmd.Flags().StringVar(&officersCredit, "credit", "", "credit score range, e.g. 700-749")
	officersCmd.Flags().StringVar(&officersPurpose, "purpose", "", "loan purpose")
	officersCmd.Flags().StringVar(&officersLocation, "location", "", "property location")
	officersCmd.Flags().StringVar(&officersIncome, "income", "", "income type")
	rootCmd.AddCommand(officersCmd)
}
