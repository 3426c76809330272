package scoring

import (
	"fmt"

	"github.com/vijay-prabhu/incomeadvisor/internal/factor"
)

// termInput is what every self-rating term is computed from
type termInput struct {
	user    Vector
	item    Item
	derived Derived
}

type selfRatingTerm struct {
	label string
	value func(in termInput) float64
}

// crit reads a raw criterion with the additive default
func crit(name string) func(in termInput) float64 {
	return func(in termInput) float64 { return in.item.criterion(name, AdditiveDefault) }
}

// inverse turns an undesirable criterion into a desirable one
func inverse(name string) func(in termInput) float64 {
	return func(in termInput) float64 { return MaxCriterion - in.item.criterion(name, AdditiveDefault) }
}

// pair averages a user factor with an item value
func pair(f factor.Name, itemValue func(in termInput) float64, label string) selfRatingTerm {
	return selfRatingTerm{
		label: fmt.Sprintf("%s ~ %s", f, label),
		value: func(in termInput) float64 { return (in.user.Get(f) + itemValue(in)) / 2 },
	}
}

// selfRatingTerms is the full additive formula. A zero Params.Normalizer divides by len(selfRatingTerms).
var selfRatingTerms = []selfRatingTerm{
	// compatibility of user factors with the item
	pair(factor.Motivation, crit(Engagement), Engagement),
	pair(factor.Persistence, crit(Difficulty), Difficulty),
	pair(factor.Flexibility, crit(FlexibleSchedule), FlexibleSchedule),
	pair(factor.EmotionalIntel, crit(PsychologicalComfort), PsychologicalComfort),
	pair(factor.HealthEnergy, crit(Engagement), Engagement),
	pair(factor.SelfPerception, crit(IncomePotential), IncomePotential),
	pair(factor.EnvironmentSupport, inverse(Risks), "10-"+Risks),
	pair(factor.ResourceAccess, inverse(FinancialInvestment), "10-"+FinancialInvestment),
	pair(factor.CulturalEconomic, crit(Geography), Geography),

	// intrinsic properties of the item
	{label: IncomePotential, value: crit(IncomePotential)},
	{label: SpeedOfResult, value: crit(SpeedOfResult)},
	{label: "10-" + FinancialInvestment, value: inverse(FinancialInvestment)},
	{label: "10-" + Difficulty, value: inverse(Difficulty)},
	{label: "10-" + Risks, value: inverse(Risks)},
	{label: "10-" + ImpactOnCurrentJob, value: inverse(ImpactOnCurrentJob)},

	// derived factors
	{
		label: "complexity bonus",
		value: func(in termInput) float64 { return (ComplexityCeiling - in.derived.Complexity) / ComplexityDivisor },
	},
	{
		label: "time bonus",
		value: func(in termInput) float64 { return (TimeCeiling - in.derived.NeededTime) / TimeDivisor },
	},
}

// TermCount returns the number of additive terms in the self-rating formula
func TermCount() int {
	return len(selfRatingTerms)
}

// SelfRatingScorer scores items against a user's resolved context vector
type SelfRatingScorer struct {
	user   Vector
	params Params
}

// NewSelfRatingScorer binds the self-rating formula to a context vector
func NewSelfRatingScorer(user Vector, params Params) *SelfRatingScorer {
	v := make(Vector, len(user))
	for k, val := range user {
		v[k] = val
	}
	return &SelfRatingScorer{user: v, params: params}
}

// Mode implements Scorer
func (s *SelfRatingScorer) Mode() Mode { return ModeSelfRating }

// Empty implements Scorer
func (s *SelfRatingScorer) Empty() bool { return len(s.user) == 0 }

// Normalizer returns the divisor applied to the summed terms
func (s *SelfRatingScorer) Normalizer() float64 {
	if s.params.Normalizer > 0 {
		return s.params.Normalizer
	}
	return float64(TermCount())
}

// Score implements Scorer
func (s *SelfRatingScorer) Score(item Item) float64 {
	in := termInput{user: s.user, item: item, derived: CalculateDerived(item, s.params)}
	sum := 0.0
	for _, t := range selfRatingTerms {
		sum += t.value(in)
	}
	return round2(sum / s.Normalizer())
}

// Explain implements Scorer
func (s *SelfRatingScorer) Explain(item Item) Breakdown {
	derived := CalculateDerived(item, s.params)
	in := termInput{user: s.user, item: item, derived: derived}

	b := Breakdown{
		Mode:    ModeSelfRating,
		Terms:   make([]Term, 0, len(selfRatingTerms)),
		Divisor: s.Normalizer(),
		Derived: &derived,
	}
	for _, t := range selfRatingTerms {
		v := t.value(in)
		b.Terms = append(b.Terms, Term{Label: t.label, Value: round2(v)})
		b.Sum += v
	}
	b.Score = b.Total()
	return b
}
