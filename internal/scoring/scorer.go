package scoring

// Scorer is a scoring strategy bound to one user's inputs.
// Implementations are pure: the same item always yields the same score.
type Scorer interface {
	// Mode names the strategy
	Mode() Mode
	// Empty reports whether the user supplied no inputs at all
	Empty() bool
	// Score returns the success score of item for the bound user
	Score(item Item) float64
	// Explain returns the per-term breakdown behind Score
	Explain(item Item) Breakdown
}

// Term is one additive contribution to a score
type Term struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Breakdown explains a score
type Breakdown struct {
	Mode    Mode     `json:"mode"`
	Terms   []Term   `json:"terms"`
	Sum     float64  `json:"sum"`
	Divisor float64  `json:"divisor"`
	Score   float64  `json:"score"`
	Derived *Derived `json:"derived,omitempty"`
	// Unmatched lists criteria that had no factor to join against
	Unmatched []string `json:"unmatched,omitempty"`
}

// Total is Sum divided by Divisor, rounded like Score
func (b Breakdown) Total() float64 {
	if b.Divisor == 0 {
		return round2(b.Sum)
	}
	return round2(b.Sum / b.Divisor)
}
