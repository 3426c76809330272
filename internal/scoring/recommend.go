package scoring

import "sort"

// Recommendation is one ranked, scored catalog item
type Recommendation struct {
	Rank    int     `json:"rank"`
	Item    Item    `json:"item"`
	Derived Derived `json:"derived"`
	Score   float64 `json:"score"`
}

// Recommend scores every catalog item for the user bound to s and returns
// the best topN, highest score first. Exact ties are ordered by item id.
// An empty catalog or a scorer without inputs yields an empty result.
func Recommend(s Scorer, catalog []Item, topN int, p Params) []Recommendation {
	if s == nil || s.Empty() || len(catalog) == 0 || topN <= 0 {
		return []Recommendation{}
	}

	items := Snapshot(catalog)
	scored := make([]Recommendation, 0, len(items))
	for _, item := range items {
		scored = append(scored, Recommendation{
			Item:    item,
			Derived: CalculateDerived(item, p),
			Score:   s.Score(item),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Item.ID < scored[j].Item.ID
	})

	if topN < len(scored) {
		scored = scored[:topN]
	}
	for i := range scored {
		scored[i].Rank = i + 1
	}
	return scored
}
