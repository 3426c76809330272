package scoring

import (
	"sort"

	"github.com/vijay-prabhu/incomeadvisor/internal/factor"
)

// JoinMiss describes a criterion or weight that could not be matched through the factor name
type JoinMiss struct {
	Source    string `json:"source"` // "criterion" or "weight"
	Item      string `json:"item,omitempty"`
	Criterion string `json:"criterion,omitempty"`
	FactorID  int    `json:"factor_id,omitempty"`
}

// JoinMissFunc receives data-quality warnings raised while scoring
type JoinMissFunc func(JoinMiss)

// Weights maps factor ids to importance levels
type Weights map[int]factor.Importance

// PreferenceScorer is a dot product of item criteria and user importance weights.
// No normalization and no intrinsic or derived terms are applied.
type PreferenceScorer struct {
	weights Weights
	catalog *factor.Catalog
	onMiss  JoinMissFunc
}

// NewPreferenceScorer binds importance weights to the factor catalog used for the name join.
// Weights whose factor id is not in the catalog are reported once through onMiss.
func NewPreferenceScorer(weights Weights, catalog *factor.Catalog, onMiss JoinMissFunc) *PreferenceScorer {
	if onMiss == nil {
		onMiss = func(JoinMiss) {}
	}
	if catalog == nil {
		catalog = factor.NewCatalog(nil)
	}

	w := make(Weights, len(weights))
	ids := make([]int, 0, len(weights))
	for id, level := range weights {
		w[id] = level
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if _, ok := catalog.ByID(id); !ok {
			onMiss(JoinMiss{Source: "weight", FactorID: id})
		}
	}

	return &PreferenceScorer{weights: w, catalog: catalog, onMiss: onMiss}
}

// Mode implements Scorer
func (s *PreferenceScorer) Mode() Mode { return ModePreference }

// Empty implements Scorer
func (s *PreferenceScorer) Empty() bool { return len(s.weights) == 0 }

// Score implements Scorer
func (s *PreferenceScorer) Score(item Item) float64 {
	return s.evaluate(item, true).Score
}

// Explain implements Scorer. It does not report join misses; Score does.
func (s *PreferenceScorer) Explain(item Item) Breakdown {
	return s.evaluate(item, false)
}

func (s *PreferenceScorer) evaluate(item Item, report bool) Breakdown {
	b := Breakdown{Mode: ModePreference, Divisor: 1}

	for _, name := range item.CriterionNames() {
		if !Weighable(name) {
			continue
		}
		f, ok := s.catalog.ByName(name)
		if !ok || f.Kind != factor.KindPreference {
			b.Unmatched = append(b.Unmatched, name)
			if report {
				s.onMiss(JoinMiss{Source: "criterion", Item: item.Name, Criterion: name})
			}
			continue
		}

		weight, rated := s.weights[f.ID]
		if !rated {
			continue
		}
		v := float64(item.Criteria[name]) * float64(weight)
		b.Terms = append(b.Terms, Term{Label: name, Value: v})
		b.Sum += v
	}

	b.Score = b.Total()
	return b
}
