package factor

import (
	"fmt"
	"strconv"
	"strings"
)

// Importance is how much a user cares about a preference factor, on a 1..5 scale
type Importance int

const (
	DoesNotMatter       Importance = 1
	SlightlyImportant   Importance = 2
	ModeratelyImportant Importance = 3
	Important           Importance = 4
	VeryImportant       Importance = 5
)

// MinImportance and MaxImportance bound the importance scale
const (
	MinImportance = DoesNotMatter
	MaxImportance = VeryImportant
)

var importanceLabels = map[Importance]string{
	VeryImportant:       "Very important",
	Important:           "Important",
	ModeratelyImportant: "Moderately important",
	SlightlyImportant:   "Slightly important",
	DoesNotMatter:       "Doesn't matter",
}

// importanceAliases are accepted spellings besides the labels
var importanceAliases = map[string]Importance{
	"does not matter": DoesNotMatter,
	"not important":   DoesNotMatter,
}

// Levels returns the importance levels from most to least important
func Levels() []Importance {
	return []Importance{VeryImportant, Important, ModeratelyImportant, SlightlyImportant, DoesNotMatter}
}

// String returns the human label for the level
func (i Importance) String() string {
	if l, ok := importanceLabels[i]; ok {
		return l
	}
	return fmt.Sprintf("Importance(%d)", int(i))
}

// Valid reports whether i lies on the 1..5 scale
func (i Importance) Valid() bool {
	return i >= MinImportance && i <= MaxImportance
}

// ParseImportance accepts either a label ("Very important") or a digit ("5")
func ParseImportance(s string) (Importance, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		i := Importance(n)
		if !i.Valid() {
			return 0, fmt.Errorf("importance must be between %d and %d, got %d", MinImportance, MaxImportance, n)
		}
		return i, nil
	}

	normalized := strings.ToLower(strings.ReplaceAll(s, "’", "'"))
	if level, ok := importanceAliases[normalized]; ok {
		return level, nil
	}
	for level, label := range importanceLabels {
		if strings.ToLower(label) == normalized {
			return level, nil
		}
	}
	return 0, fmt.Errorf("unknown importance level %q", s)
}
