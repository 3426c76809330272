package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/incomeadvisor/internal/factor"
)

func itemA() Item {
	return Item{
		ID:   1,
		Name: "A",
		Kind: KindIncomeMethod,
		Criteria: map[string]int{
			Difficulty: 2, HardSkills: 2, SpecialKnowledge: 2,
			SpeedOfResult: 9, FlexibleSchedule: 9, Engagement: 9,
			IncomePotential: 9, FinancialInvestment: 1, Risks: 1,
			PsychologicalComfort: 9, Geography: 9, ImpactOnCurrentJob: 1,
		},
	}
}

func itemB() Item {
	b := itemA().Clone()
	b.ID = 2
	b.Name = "B"
	b.Criteria[Difficulty] = 9
	b.Criteria[HardSkills] = 9
	b.Criteria[SpecialKnowledge] = 9
	b.Criteria[IncomePotential] = 2
	return b
}

func uniformVector(v float64) Vector {
	out := make(Vector)
	for _, name := range factor.Context() {
		out[name] = v
	}
	return out
}

func TestCalculateDerivedIncomeMethod(t *testing.T) {
	p := DefaultParams()

	a := CalculateDerived(itemA(), p)
	assert.Equal(t, 8.0, a.Complexity)
	assert.Equal(t, 1.37, a.NeededTime)

	b := CalculateDerived(itemB(), p)
	assert.Equal(t, 729.0, b.Complexity)
	assert.Equal(t, 1.37, b.NeededTime)

	// idempotent
	assert.Equal(t, a, CalculateDerived(itemA(), p))
}

func TestCalculateDerivedDefaults(t *testing.T) {
	tests := []struct {
		name string
		item Item
		want Derived
	}{
		{
			name: "income method without criteria",
			item: Item{Kind: KindIncomeMethod},
			want: Derived{Complexity: 1, NeededTime: 1000},
		},
		{
			name: "zero speed is clamped to 1",
			item: Item{Kind: KindIncomeMethod, Criteria: map[string]int{
				SpeedOfResult: 0, FlexibleSchedule: 10, Engagement: 10, Difficulty: 3,
			}},
			want: Derived{Complexity: 3, NeededTime: 10},
		},
		{
			name: "career path",
			item: Item{Kind: KindCareerPath, Criteria: map[string]int{
				MaterialAssimilation: 3, ApplicationSpeed: 4, HoursToMaster: 120,
			}},
			want: Derived{Complexity: 12, NeededTime: 120},
		},
		{
			name: "career path without criteria",
			item: Item{Kind: KindCareerPath},
			want: Derived{Complexity: 1, NeededTime: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateDerived(tt.item, DefaultParams())
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got.Complexity, 0.0)
			assert.GreaterOrEqual(t, got.NeededTime, 0.0)
		})
	}
}

func TestCalculateDerivedTimeConstant(t *testing.T) {
	item := Item{Kind: KindIncomeMethod, Criteria: map[string]int{
		SpeedOfResult: 5, FlexibleSchedule: 5, Engagement: 5,
	}}
	assert.Equal(t, 8.0, CalculateDerived(item, Params{TimeConstant: 10}).NeededTime)
	assert.Equal(t, 1.0, CalculateDerived(item, Params{TimeConstant: 5}).NeededTime)
	assert.Equal(t, 8.0, CalculateDerived(item, Params{}).NeededTime, "zero constant falls back to K=10")
}

func TestResolveContext(t *testing.T) {
	var answers factor.DirectAnswers
	require.NoError(t, answers.Set(factor.Motivation, 8))
	require.NoError(t, answers.Set(factor.ResourceAccess, 3))

	v := ResolveContext(answers, nil)
	assert.Len(t, v, 10)
	assert.Equal(t, 8.0, v[factor.Motivation])
	assert.Equal(t, 3.0, v[factor.ResourceAccess])
	assert.Equal(t, 0.0, v[factor.Persistence])
	assert.Equal(t, 0.0, v[factor.CulturalEconomic])

	v = ResolveContext(answers, &Region{Name: "North", F10Value: 6.5})
	assert.Equal(t, 6.5, v[factor.CulturalEconomic])

	empty := ResolveContext(factor.DirectAnswers{}, nil)
	require.Len(t, empty, 10)
	for _, name := range factor.Context() {
		_, ok := empty[name]
		assert.True(t, ok, "missing key %s", name)
		assert.Equal(t, 0.0, empty.Get(name))
	}
}

func TestSelfRatingScenario(t *testing.T) {
	s := NewSelfRatingScorer(uniformVector(5), DefaultParams())

	assert.Equal(t, 21.0, s.Normalizer())
	assert.Equal(t, 6.28, s.Score(itemA()))
	assert.Equal(t, 3.9, s.Score(itemB()))
	assert.Greater(t, s.Score(itemA()), s.Score(itemB()))
}

func TestDefaultNormalizerMatchesTermTable(t *testing.T) {
	require.Equal(t, NormalizerTerms, TermCount(),
		"self-rating terms changed: retune DefaultNormalizer and update NormalizerTerms")
}

func TestSelfRatingDerivedNormalizer(t *testing.T) {
	s := NewSelfRatingScorer(uniformVector(5), Params{Normalizer: 0, TimeConstant: 10})

	assert.Equal(t, float64(TermCount()), s.Normalizer())
	assert.Equal(t, 7.76, s.Score(itemA()))
	assert.Equal(t, 4.82, s.Score(itemB()))
}

func TestSelfRatingDeterministic(t *testing.T) {
	s := NewSelfRatingScorer(uniformVector(3), DefaultParams())
	first := s.Score(itemA())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, s.Score(itemA()))
	}
}

func TestSelfRatingMonotonic(t *testing.T) {
	desirable := []string{IncomePotential, SpeedOfResult, Engagement, FlexibleSchedule, PsychologicalComfort, Geography}
	s := NewSelfRatingScorer(uniformVector(5), DefaultParams())

	for _, criterion := range desirable {
		t.Run(criterion, func(t *testing.T) {
			item := itemA()
			prev := -1e9
			for v := 0; v <= 10; v++ {
				item.Criteria[criterion] = v
				score := s.Score(item)
				assert.GreaterOrEqual(t, score, prev, "%s=%d", criterion, v)
				prev = score
			}
		})
	}
}

func TestSelfRatingExplain(t *testing.T) {
	s := NewSelfRatingScorer(uniformVector(5), DefaultParams())
	b := s.Explain(itemA())

	assert.Equal(t, ModeSelfRating, b.Mode)
	assert.Len(t, b.Terms, TermCount())
	assert.Equal(t, s.Score(itemA()), b.Score)
	assert.InDelta(t, 131.96, b.Sum, 0.01)
	assert.Equal(t, b.Score, b.Total())
	require.NotNil(t, b.Derived)
	assert.Equal(t, 8.0, b.Derived.Complexity)
}

func TestBreakdownTotal(t *testing.T) {
	assert.Equal(t, 6.28, Breakdown{Sum: 131.96, Divisor: 21}.Total())
	assert.Equal(t, 12.5, Breakdown{Sum: 12.5}.Total())

	s := NewSelfRatingScorer(uniformVector(7), DefaultParams())
	for _, it := range []Item{itemA(), itemB()} {
		assert.Equal(t, s.Score(it), s.Explain(it).Total(), it.Name)
	}
}

func TestSelfRatingCopiesVector(t *testing.T) {
	v := uniformVector(5)
	s := NewSelfRatingScorer(v, DefaultParams())
	before := s.Score(itemA())

	v[factor.Motivation] = 0
	assert.Equal(t, before, s.Score(itemA()))
}

func preferenceCatalog() *factor.Catalog {
	return factor.NewCatalog([]factor.Factor{
		{ID: 1, Name: string(factor.Motivation), Kind: factor.KindContext},
		{ID: 10, Name: IncomePotential, Kind: factor.KindPreference},
		{ID: 11, Name: Risks, Kind: factor.KindPreference},
		{ID: 12, Name: Geography, Kind: factor.KindPreference},
	})
}

func TestPreferenceScore(t *testing.T) {
	var misses []JoinMiss
	s := NewPreferenceScorer(
		Weights{10: factor.VeryImportant, 11: factor.SlightlyImportant, 99: factor.Important},
		preferenceCatalog(),
		func(m JoinMiss) { misses = append(misses, m) },
	)

	require.Len(t, misses, 1)
	assert.Equal(t, JoinMiss{Source: "weight", FactorID: 99}, misses[0])

	item := Item{ID: 1, Name: "Tutoring", Criteria: map[string]int{
		IncomePotential: 8, Risks: 3, Geography: 5, SpeedOfResult: 7,
	}}

	// 8*5 + 3*2; geography unrated, speed_of_result has no factor
	assert.Equal(t, 46.0, s.Score(item))
	require.Len(t, misses, 2)
	assert.Equal(t, JoinMiss{Source: "criterion", Item: "Tutoring", Criterion: SpeedOfResult}, misses[1])

	b := s.Explain(item)
	assert.Equal(t, 46.0, b.Score)
	assert.Equal(t, 46.0, b.Total())
	assert.Equal(t, 1.0, b.Divisor)
	assert.Equal(t, []string{SpeedOfResult}, b.Unmatched)
	assert.Len(t, b.Terms, 2)
	assert.Len(t, misses, 2, "Explain does not report")
}

func TestPreferenceContextFactorDoesNotJoin(t *testing.T) {
	s := NewPreferenceScorer(Weights{1: factor.VeryImportant}, preferenceCatalog(), nil)
	item := Item{ID: 1, Criteria: map[string]int{string(factor.Motivation): 9}}
	assert.Equal(t, 0.0, s.Score(item))
}

func TestPreferenceIgnoresHoursToMaster(t *testing.T) {
	catalog := factor.NewCatalog([]factor.Factor{
		{ID: 1, Name: HoursToMaster, Kind: factor.KindPreference},
		{ID: 2, Name: MarketDemand, Kind: factor.KindPreference},
	})
	var misses []JoinMiss
	s := NewPreferenceScorer(Weights{1: factor.VeryImportant, 2: factor.Important}, catalog,
		func(m JoinMiss) { misses = append(misses, m) })

	slow := Item{ID: 1, Name: "Slow", Kind: KindCareerPath, Criteria: map[string]int{HoursToMaster: 400, MarketDemand: 3}}
	fast := Item{ID: 2, Name: "Fast", Kind: KindCareerPath, Criteria: map[string]int{HoursToMaster: 120, MarketDemand: 8}}

	assert.Equal(t, 12.0, s.Score(slow))
	assert.Equal(t, 32.0, s.Score(fast))
	assert.Empty(t, misses)

	recs := Recommend(s, []Item{slow, fast}, 2, DefaultParams())
	require.Len(t, recs, 2)
	assert.Equal(t, "Fast", recs[0].Item.Name)
	assert.False(t, Weighable(HoursToMaster))
	assert.True(t, Weighable(MarketDemand))
}

func TestPreferenceEmpty(t *testing.T) {
	s := NewPreferenceScorer(nil, nil, nil)
	assert.True(t, s.Empty())
	assert.Equal(t, ModePreference, s.Mode())
	assert.Equal(t, 0.0, s.Score(itemA()))
}

func TestRecommendScenario(t *testing.T) {
	s := NewSelfRatingScorer(uniformVector(5), DefaultParams())

	recs := Recommend(s, []Item{itemB(), itemA()}, 2, DefaultParams())
	require.Len(t, recs, 2)
	assert.Equal(t, "A", recs[0].Item.Name)
	assert.Equal(t, "B", recs[1].Item.Name)
	assert.Equal(t, 1, recs[0].Rank)
	assert.Equal(t, 2, recs[1].Rank)
	assert.Equal(t, 8.0, recs[0].Derived.Complexity)
	assert.Equal(t, 729.0, recs[1].Derived.Complexity)
}

func TestRecommendBounds(t *testing.T) {
	s := NewSelfRatingScorer(uniformVector(5), DefaultParams())
	catalog := []Item{itemA(), itemB()}

	tests := []struct {
		name string
		topN int
		want int
	}{
		{"more than catalog", 3, 2},
		{"exact", 2, 2},
		{"fewer", 1, 1},
		{"zero", 0, 0},
		{"negative", -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := Recommend(s, catalog, tt.topN, DefaultParams())
			assert.Len(t, recs, tt.want)
			assert.NotNil(t, recs)
		})
	}
}

func TestRecommendEmptyInputs(t *testing.T) {
	s := NewSelfRatingScorer(uniformVector(5), DefaultParams())
	assert.Empty(t, Recommend(s, nil, 3, DefaultParams()))
	assert.Empty(t, Recommend(s, []Item{}, 3, DefaultParams()))

	empty := NewSelfRatingScorer(Vector{}, DefaultParams())
	assert.Empty(t, Recommend(empty, []Item{itemA()}, 3, DefaultParams()))

	assert.Empty(t, Recommend(nil, []Item{itemA()}, 3, DefaultParams()))
}

func TestRecommendUserWithoutAnswers(t *testing.T) {
	v := ResolveContext(factor.DirectAnswers{}, nil)
	s := NewSelfRatingScorer(v, DefaultParams())

	recs := Recommend(s, []Item{itemB(), itemA()}, 5, DefaultParams())
	require.Len(t, recs, 2)
	assert.Equal(t, "A", recs[0].Item.Name)
}

func TestRecommendTieBreakByID(t *testing.T) {
	s := NewSelfRatingScorer(uniformVector(5), DefaultParams())

	x := itemA()
	x.ID = 7
	y := itemA()
	y.ID = 3
	z := itemA()
	z.ID = 5

	recs := Recommend(s, []Item{x, y, z}, 3, DefaultParams())
	require.Len(t, recs, 3)
	assert.Equal(t, []int{3, 5, 7}, []int{recs[0].Item.ID, recs[1].Item.ID, recs[2].Item.ID})
}

func TestRecommendSnapshotsCatalog(t *testing.T) {
	s := NewSelfRatingScorer(uniformVector(5), DefaultParams())
	catalog := []Item{itemA(), itemB()}

	recs := Recommend(s, catalog, 2, DefaultParams())
	recs[0].Item.Criteria[IncomePotential] = 0

	assert.Equal(t, 9, catalog[0].Criteria[IncomePotential])
}

func TestRecommendPreferenceMode(t *testing.T) {
	s := NewPreferenceScorer(Weights{10: factor.VeryImportant, 11: factor.DoesNotMatter}, preferenceCatalog(), nil)

	catalog := []Item{
		{ID: 1, Name: "low income", Criteria: map[string]int{IncomePotential: 2, Risks: 9}},
		{ID: 2, Name: "high income", Criteria: map[string]int{IncomePotential: 9, Risks: 9}},
	}
	recs := Recommend(s, catalog, 2, DefaultParams())
	require.Len(t, recs, 2)
	assert.Equal(t, "high income", recs[0].Item.Name)
	assert.Equal(t, 54.0, recs[0].Score)
	assert.Equal(t, 19.0, recs[1].Score)
}

func TestParseModeAndKind(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeSelfRating, m)

	m, err = ParseMode("preference")
	require.NoError(t, err)
	assert.Equal(t, ModePreference, m)

	_, err = ParseMode("hybrid")
	assert.Error(t, err)

	k, err := ParseKind("career")
	require.NoError(t, err)
	assert.Equal(t, KindCareerPath, k)

	k, err = ParseKind("income_method")
	require.NoError(t, err)
	assert.Equal(t, KindIncomeMethod, k)

	_, err = ParseKind("profession")
	assert.Error(t, err)
}

func TestCriteria(t *testing.T) {
	assert.Len(t, Criteria(KindIncomeMethod), 13)
	assert.Len(t, Criteria(KindCareerPath), 14)
	assert.True(t, IsCriterion(KindCareerPath, FlexibleSchedule))
	assert.True(t, IsCriterion(KindIncomeMethod, FlexibleSchedule))
	assert.False(t, IsCriterion(KindIncomeMethod, HoursToMaster))

	lo, hi := CriterionRange(Risks)
	assert.Equal(t, 0, lo)
	assert.Equal(t, 10, hi)
	_, hi = CriterionRange(HoursToMaster)
	assert.Greater(t, hi, 10)
}
