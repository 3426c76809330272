package factor

import "fmt"

// MinRating and MaxRating bound self-rated factor values
const (
	MinRating = 0.0
	MaxRating = 10.0
)

// DirectAnswers holds a user's self-ratings for F1..F9. Nil means unanswered.
type DirectAnswers struct {
	Motivation         *float64 `json:"f1_motivation,omitempty"`
	LifeExperience     *float64 `json:"f2_life_experience,omitempty"`
	Persistence        *float64 `json:"f3_persistence,omitempty"`
	Flexibility        *float64 `json:"f4_flexibility,omitempty"`
	EmotionalIntel     *float64 `json:"f5_emotional_intelligence,omitempty"`
	HealthEnergy       *float64 `json:"f6_health_energy,omitempty"`
	SelfPerception     *float64 `json:"f7_self_perception,omitempty"`
	EnvironmentSupport *float64 `json:"f8_environment_support,omitempty"`
	ResourceAccess     *float64 `json:"f9_resource_access,omitempty"`
}

// fields maps each direct factor to its slot in DirectAnswers
var fields = map[Name]func(*DirectAnswers) **float64{
	Motivation:         func(a *DirectAnswers) **float64 { return &a.Motivation },
	LifeExperience:     func(a *DirectAnswers) **float64 { return &a.LifeExperience },
	Persistence:        func(a *DirectAnswers) **float64 { return &a.Persistence },
	Flexibility:        func(a *DirectAnswers) **float64 { return &a.Flexibility },
	EmotionalIntel:     func(a *DirectAnswers) **float64 { return &a.EmotionalIntel },
	HealthEnergy:       func(a *DirectAnswers) **float64 { return &a.HealthEnergy },
	SelfPerception:     func(a *DirectAnswers) **float64 { return &a.SelfPerception },
	EnvironmentSupport: func(a *DirectAnswers) **float64 { return &a.EnvironmentSupport },
	ResourceAccess:     func(a *DirectAnswers) **float64 { return &a.ResourceAccess },
}

// Set stores a rating for a direct factor
func (a *DirectAnswers) Set(name Name, value float64) error {
	field, ok := fields[name]
	if !ok {
		return fmt.Errorf("%w: %q is not a directly answered factor", ErrUnknownFactor, name)
	}
	if value < MinRating || value > MaxRating {
		return fmt.Errorf("%s must be between %.0f and %.0f, got %g", name, MinRating, MaxRating, value)
	}
	v := value
	*field(a) = &v
	return nil
}

// Get returns the stored rating, or nil when unanswered or unknown
func (a *DirectAnswers) Get(name Name) *float64 {
	field, ok := fields[name]
	if !ok {
		return nil
	}
	return *field(a)
}

// Answered counts how many direct factors have a rating
func (a *DirectAnswers) Answered() int {
	n := 0
	for _, name := range direct {
		if a.Get(name) != nil {
			n++
		}
	}
	return n
}
