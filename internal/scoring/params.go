package scoring

import (
	"fmt"
	"math"
)

// Named constants of the scoring formulas
const (
	// DefaultTimeConstant is K in needed_time = (K/speed) * (K/flex) * (K/engagement)
	DefaultTimeConstant = 10.0
	// MaxScoreStars is the top of the 0..10 criterion scale used when rendering
	MaxScoreStars = 10
	// MaxCriterion is the top of the raw criterion and self-rating scale
	MaxCriterion = 10.0

	// ComplexityCeiling and ComplexityDivisor shape the (200 - complexity)/20 bonus
	ComplexityCeiling = 200.0
	ComplexityDivisor = 20.0
	// TimeCeiling and TimeDivisor shape the (100 - needed_time)/10 bonus
	TimeCeiling = 100.0
	TimeDivisor = 10.0

	// MultiplicativeDefault replaces a missing input of a product
	MultiplicativeDefault = 1.0
	// AdditiveDefault replaces a missing input of a sum
	AdditiveDefault = 0.0

	// DefaultNormalizer divides the summed self-rating terms
	DefaultNormalizer = 21.0
	// NormalizerTerms is the term count DefaultNormalizer was tuned against.
	// A change to the term table must retune DefaultNormalizer and update this.
	NormalizerTerms = 17
)

// Mode selects a scoring strategy
type Mode string

const (
	// ModeSelfRating scores against a dense 0..10 context factor vector
	ModeSelfRating Mode = "self_rating"
	// ModePreference scores against sparse 1..5 importance weights
	ModePreference Mode = "preference"
)

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSelfRating, ModePreference:
		return Mode(s), nil
	case "":
		return ModeSelfRating, nil
	default:
		return "", fmt.Errorf("unknown scoring mode %q (use %s or %s)", s, ModeSelfRating, ModePreference)
	}
}

// Params holds the tunable constants of the self-rating formula
type Params struct {
	// Normalizer divides the summed terms; zero derives it from the number of terms
	Normalizer float64
	// TimeConstant is K in the needed_time formula
	TimeConstant float64
}

// DefaultParams returns the standard formula constants
func DefaultParams() Params {
	return Params{
		Normalizer:   DefaultNormalizer,
		TimeConstant: DefaultTimeConstant,
	}
}

func (p Params) timeConstant() float64 {
	if p.TimeConstant <= 0 {
		return DefaultTimeConstant
	}
	return p.TimeConstant
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
