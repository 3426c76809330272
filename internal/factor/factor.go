package factor

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownFactor is returned when a factor name is outside the known enumeration
var ErrUnknownFactor = errors.New("unknown factor")

// Name identifies a context factor
type Name string

const (
	Motivation         Name = "f1_motivation"
	LifeExperience     Name = "f2_life_experience"
	Persistence        Name = "f3_persistence"
	Flexibility        Name = "f4_flexibility"
	EmotionalIntel     Name = "f5_emotional_intelligence"
	HealthEnergy       Name = "f6_health_energy"
	SelfPerception     Name = "f7_self_perception"
	EnvironmentSupport Name = "f8_environment_support"
	ResourceAccess     Name = "f9_resource_access"
	CulturalEconomic   Name = "f10_cultural_economic_environment"
	Complexity         Name = "f11_complexity"
	NeededTime         Name = "f12_needed_time"
)

// direct lists F1..F9 in survey order
var direct = []Name{
	Motivation,
	LifeExperience,
	Persistence,
	Flexibility,
	EmotionalIntel,
	HealthEnergy,
	SelfPerception,
	EnvironmentSupport,
	ResourceAccess,
}

// Direct returns the directly answered factors F1..F9 in survey order
func Direct() []Name {
	out := make([]Name, len(direct))
	copy(out, direct)
	return out
}

// Context returns F1..F10, the factors that make up a user's context vector
func Context() []Name {
	return append(Direct(), CulturalEconomic)
}

// All returns every known factor name, F1..F12
func All() []Name {
	return append(Context(), Complexity, NeededTime)
}

// ParseName validates s against the known factor names
func ParseName(s string) (Name, error) {
	for _, n := range All() {
		if string(n) == s {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFactor, s)
}

// IsDirect reports whether n is one of the user-answered factors F1..F9
func (n Name) IsDirect() bool {
	for _, d := range direct {
		if d == n {
			return true
		}
	}
	return false
}

// Kind distinguishes how a factor is asked
type Kind string

const (
	// KindContext factors are self-rated on a 0..10 scale
	KindContext Kind = "context"
	// KindPreference factors are rated by importance (1..5); their name is a criterion name
	KindPreference Kind = "preference"
)

// Factor is an entry of the factor catalog
type Factor struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
	Kind   Kind   `json:"kind"`
}

// Catalog indexes factor definitions by id and by name.
// Name is the join key between user preferences and item criteria.
type Catalog struct {
	factors []Factor
	byID    map[int]Factor
	byName  map[string]Factor
}

// NewCatalog builds a catalog ordered by factor id
func NewCatalog(factors []Factor) *Catalog {
	c := &Catalog{
		factors: make([]Factor, len(factors)),
		byID:    make(map[int]Factor, len(factors)),
		byName:  make(map[string]Factor, len(factors)),
	}
	copy(c.factors, factors)
	sort.SliceStable(c.factors, func(i, j int) bool {
		return c.factors[i].ID < c.factors[j].ID
	})
	for _, f := range c.factors {
		c.byID[f.ID] = f
		c.byName[f.Name] = f
	}
	return c
}

// Factors returns all factors ordered by id
func (c *Catalog) Factors() []Factor {
	out := make([]Factor, len(c.factors))
	copy(out, c.factors)
	return out
}

// Len returns the number of factors
func (c *Catalog) Len() int {
	return len(c.factors)
}

// ByID looks up a factor by id
func (c *Catalog) ByID(id int) (Factor, bool) {
	f, ok := c.byID[id]
	return f, ok
}

// ByName looks up a factor by name
func (c *Catalog) ByName(name string) (Factor, bool) {
	f, ok := c.byName[name]
	return f, ok
}

// Preferences returns the factors asked as importance levels
func (c *Catalog) Preferences() []Factor {
	var out []Factor
	for _, f := range c.factors {
		if f.Kind == KindPreference {
			out = append(out, f)
		}
	}
	return out
}

// Validate checks for duplicate ids, duplicate names and missing fields
func (c *Catalog) Validate() error {
	var errs []error
	seenID := make(map[int]bool)
	seenName := make(map[string]bool)

	for _, f := range c.factors {
		if f.Name == "" {
			errs = append(errs, fmt.Errorf("factor %d: name is required", f.ID))
		}
		if seenID[f.ID] {
			errs = append(errs, fmt.Errorf("duplicate factor id %d", f.ID))
		}
		if f.Name != "" && seenName[f.Name] {
			errs = append(errs, fmt.Errorf("duplicate factor name %q", f.Name))
		}
		if f.Kind != KindContext && f.Kind != KindPreference {
			errs = append(errs, fmt.Errorf("factor %q: kind must be %q or %q", f.Name, KindContext, KindPreference))
		}
		if f.Kind == KindContext && f.Name != "" {
			if _, err := ParseName(f.Name); err != nil {
				errs = append(errs, fmt.Errorf("factor %d: %w", f.ID, err))
			}
		}
		seenID[f.ID] = true
		seenName[f.Name] = true
	}

	return errors.Join(errs...)
}

// CheckJoin returns the criterion names that have no preference factor of the same name.
// Such criteria silently contribute nothing in preference scoring.
func (c *Catalog) CheckJoin(criteria []string) []string {
	var missing []string
	seen := make(map[string]bool)
	for _, name := range criteria {
		if seen[name] {
			continue
		}
		seen[name] = true
		f, ok := c.byName[name]
		if !ok || f.Kind != KindPreference {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}
