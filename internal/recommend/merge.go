package recommend

// Recommendation is a catalog fact with the selector's justification on top.
type Recommendation struct {
	Fact
	Reason  string `json:"reason"`
	TimeFit string `json:"time_fit"`
	Caution string `json:"caution,omitempty"`
}

// Merge overlays selections onto facts in selection order. Selections naming
// an id that is not among facts are dropped, as are repeats of an id already
// merged. The result is never nil.
func Merge(selections []Selection, facts []Fact) []Recommendation {
	byID := make(map[int64]Fact, len(facts))
	for _, f := range facts {
		byID[f.ID] = f
	}
	merged := make([]Recommendation, 0, len(selections))
	used := make(map[int64]bool, len(selections))
	for _, sel := range selections {
		fact, ok := byID[sel.ID]
		if !ok || used[sel.ID] {
			continue
		}
		used[sel.ID] = true
		merged = append(merged, Recommendation{
			Fact:    fact,
			Reason:  sel.Reason,
			TimeFit: sel.TimeFit,
			Caution: sel.Caution,
		})
	}
	return merged
}
