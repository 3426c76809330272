package scoring

import (
	"fmt"
	"sort"
)

// Kind is the type of catalog item
type Kind string

const (
	KindIncomeMethod Kind = "income_method"
	KindCareerPath   Kind = "career_path"
)

// ParseKind validates a kind name. "income" and "career" are accepted as shorthands.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "income", string(KindIncomeMethod):
		return KindIncomeMethod, nil
	case "career", string(KindCareerPath):
		return KindCareerPath, nil
	default:
		return "", fmt.Errorf("unknown catalog kind %q (use income or career)", s)
	}
}

// Income method criteria
const (
	SpeedOfResult        = "speed_of_result"
	Difficulty           = "difficulty"
	FinancialInvestment  = "financial_investment"
	IncomePotential      = "income_potential"
	FlexibleSchedule     = "flexible_schedule"
	Risks                = "risks"
	PsychologicalComfort = "psychological_comfort"
	ImpactOnCurrentJob   = "impact_on_current_job"
	HardSkills           = "hard_skills"
	SoftSkills           = "soft_skills"
	Geography            = "geography"
	SpecialKnowledge     = "special_knowledge"
	Engagement           = "engagement"
)

// Career path criteria. FlexibleSchedule is shared with income methods.
const (
	HoursToMaster             = "hours_to_master"
	DirectCosts               = "direct_costs"
	IndirectCosts             = "indirect_costs"
	MaterialAssimilation      = "material_assimilation"
	ApplicationSpeed          = "application_speed"
	GeographicalAccessibility = "geographical_accessibility"
	TechnicalRequirements     = "technical_requirements"
	FeedbackPresence          = "feedback_presence"
	FeedbackFrequency         = "feedback_frequency"
	Gamification              = "gamification"
	GoalAlignment             = "goal_alignment"
	MarketDemand              = "market_demand"
	ProbabilityOfQuitting     = "probability_of_quitting"
)

var criteriaByKind = map[Kind][]string{
	KindIncomeMethod: {
		SpeedOfResult, Difficulty, FinancialInvestment, IncomePotential,
		FlexibleSchedule, Risks, PsychologicalComfort, ImpactOnCurrentJob,
		HardSkills, SoftSkills, Geography, SpecialKnowledge, Engagement,
	},
	KindCareerPath: {
		HoursToMaster, FlexibleSchedule, DirectCosts, IndirectCosts,
		MaterialAssimilation, ApplicationSpeed, GeographicalAccessibility,
		TechnicalRequirements, FeedbackPresence, FeedbackFrequency,
		Gamification, GoalAlignment, MarketDemand, ProbabilityOfQuitting,
	},
}

// Criteria returns the known criterion names for a kind
func Criteria(kind Kind) []string {
	names := criteriaByKind[kind]
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// IsCriterion reports whether name is a known criterion of kind
func IsCriterion(kind Kind, name string) bool {
	for _, c := range criteriaByKind[kind] {
		if c == name {
			return true
		}
	}
	return false
}

// CriterionRange returns the allowed bounds of a criterion value
func CriterionRange(name string) (lo, hi int) {
	if name == HoursToMaster {
		return 0, 1 << 20
	}
	return 0, int(MaxCriterion)
}

// Weighable reports whether a criterion lies on the 0..10 scale and can take an importance weight.
// hours_to_master is measured in hours and only feeds needed time.
func Weighable(name string) bool {
	_, hi := CriterionRange(name)
	return hi == int(MaxCriterion)
}

// Item is a scorable catalog entry: an income method or a career path
type Item struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Kind        Kind           `json:"kind"`
	Criteria    map[string]int `json:"criteria"`
}

// Clone returns a deep copy of the item
func (it Item) Clone() Item {
	out := it
	out.Criteria = make(map[string]int, len(it.Criteria))
	for k, v := range it.Criteria {
		out.Criteria[k] = v
	}
	return out
}

// criterion returns the value of a criterion or def when absent
func (it Item) criterion(name string, def float64) float64 {
	if v, ok := it.Criteria[name]; ok {
		return float64(v)
	}
	return def
}

// CriterionNames returns the item's criterion names in sorted order
func (it Item) CriterionNames() []string {
	names := make([]string, 0, len(it.Criteria))
	for k := range it.Criteria {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Snapshot deep-copies a catalog so a scoring pass sees a consistent view
func Snapshot(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
