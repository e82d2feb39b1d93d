package compliance

import (
	"sort"
)

// DomainSummary is the implementation ratio of the controls in one domain.
type DomainSummary struct {
	Domain      string  `json:"domain"`
	Total       int     `json:"total"`
	Implemented int     `json:"implemented"`
	Percentage  float64 `json:"percentage"`
}

// ByDomain groups controls by domain, most compliant first. Ties are ordered
// by domain name so the output is stable for equal inputs.
func ByDomain(controls []Control) ([]DomainSummary, error) {
	// validate in input order so the reported control is deterministic
	if _, err := CountControls(controls); err != nil {
		return nil, err
	}

	grouped := make(map[string][]Control)
	for _, c := range controls {
		grouped[c.Domain] = append(grouped[c.Domain], c)
	}

	out := make([]DomainSummary, 0, len(grouped))
	for domain, members := range grouped {
		counts, err := CountControls(members)
		if err != nil {
			return nil, err
		}
		out = append(out, DomainSummary{
			Domain:      domain,
			Total:       counts.Total,
			Implemented: counts.Implemented,
			Percentage:  Percentage(counts.Implemented, counts.Total),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Percentage != out[j].Percentage {
			return out[i].Percentage > out[j].Percentage
		}
		return out[i].Domain < out[j].Domain
	})

	return out, nil
}
