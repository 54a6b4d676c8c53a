package kb

// seedEntries is the starter corpus loaded on first migration. Entries are
// short, self-contained answers to the questions borrowers ask most.
var seedEntries = []Entry{
	{
		Title:   "Conventional vs. FHA loans",
		Content: "Conventional loans are not government-insured and typically require a credit score of 620 or higher. FHA loans are insured by the Federal Housing Administration, accept scores as low as 580 with 3.5% down, and carry mandatory mortgage insurance premiums for most of the loan term.",
	},
	{
		Title:   "Down payment requirements",
		Content: "Conventional loans allow down payments as low as 3% for qualified first-time buyers, though 20% avoids private mortgage insurance (PMI). FHA requires 3.5%, VA and USDA loans can be 0% down for eligible borrowers.",
	},
	{
		Title:   "Private mortgage insurance (PMI)",
		Content: "PMI protects the lender when a conventional loan's down payment is below 20%. It typically costs 0.3%-1.5% of the loan amount per year and can be removed once the loan balance falls to 80% of the home's original value.",
	},
	{
		Title:   "Credit score impact on rates",
		Content: "Lenders price loans in credit tiers. Scores of 740+ generally receive the best conventional rates; each tier below (720, 700, 680, 660) adds pricing adjustments. Below 620, conventional financing becomes difficult and FHA is usually the better path.",
	},
	{
		Title:   "Jumbo loans",
		Content: "A jumbo loan exceeds the conforming loan limit set annually by the FHFA ($766,550 in most counties for 2024; higher in high-cost areas). Jumbo loans typically require stronger credit (often 700+), larger reserves, and lower debt-to-income ratios.",
	},
	{
		Title:   "VA loan eligibility",
		Content: "VA loans are available to qualifying veterans, active-duty service members, and some surviving spouses. They allow 0% down, have no monthly mortgage insurance, and charge a one-time funding fee that can be financed into the loan.",
	},
	{
		Title:   "Self-employed income documentation",
		Content: "Self-employed borrowers generally need two years of personal and business tax returns. Lenders average net income after expenses; bank-statement programs exist for borrowers whose tax returns understate cash flow, at somewhat higher rates.",
	},
	{
		Title:   "Pre-qualification vs. pre-approval",
		Content: "Pre-qualification is an informal estimate based on self-reported figures. Pre-approval involves a credit pull and document review, producing a conditional commitment letter that carries real weight with sellers.",
	},
	{
		Title:   "Closing costs",
		Content: "Closing costs typically run 2%-5% of the loan amount and include origination fees, appraisal, title insurance, escrow deposits, and prepaid taxes. Lender credits can offset them in exchange for a slightly higher rate.",
	},
	{
		Title:   "Investment property financing",
		Content: "Investment property loans require larger down payments (usually 15%-25%), higher rates than primary residences, and often six months of reserves. Projected rental income can help qualify, typically counted at 75% of market rent.",
	},
}
