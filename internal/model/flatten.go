package model

// FlattenCategories produces one FlatMarket per (category, market) pair,
// preserving input order. Outcome objects are reduced to their names.
func FlattenCategories(categories []Category) []FlatMarket {
	n := 0
	for _, c := range categories {
		n += len(c.Markets)
	}

	out := make([]FlatMarket, 0, n)
	for _, c := range categories {
		for _, m := range c.Markets {
			out = append(out, FlatMarket{
				ID:               m.ID,
				ConditionID:      m.ConditionID,
				Title:            m.Title,
				Question:         m.Question,
				Status:           m.Status,
				IsNegRisk:        m.IsNegRisk || c.IsNegRisk,
				FeeRateBps:       m.FeeRateBps,
				DecimalPrecision: m.DecimalPrecision,
				CategoryID:       c.ID,
				CategorySlug:     c.Slug,
				CategoryTitle:    c.Title,
				Outcomes:         outcomeNames(m.Outcomes),
			})
		}
	}
	return out
}

// outcomeNames never returns nil so the JSON form is always an array.
func outcomeNames(outcomes []Outcome) []string {
	names := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		names = append(names, o.Name)
	}
	return names
}
