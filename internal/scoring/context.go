package scoring

import "github.com/vijay-prabhu/incomeadvisor/internal/factor"

// Vector maps context factor names to values on the 0..10 scale
type Vector map[factor.Name]float64

// Get returns the value for name, or the additive default when absent
func (v Vector) Get(name factor.Name) float64 {
	if val, ok := v[name]; ok {
		return val
	}
	return AdditiveDefault
}

// Region supplies the regional factor F10
type Region struct {
	Name     string
	F10Value float64
}

// ResolveContext assembles the complete F1..F10 vector for a user.
// Unanswered factors and a missing region resolve to 0.
func ResolveContext(answers factor.DirectAnswers, region *Region) Vector {
	v := make(Vector, len(factor.Context()))
	for _, name := range factor.Direct() {
		if val := answers.Get(name); val != nil {
			v[name] = *val
		} else {
			v[name] = AdditiveDefault
		}
	}

	v[factor.CulturalEconomic] = AdditiveDefault
	if region != nil {
		v[factor.CulturalEconomic] = region.F10Value
	}
	return v
}
