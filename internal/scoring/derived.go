package scoring

import "math"

// Derived holds the secondary factors F11 and F12 of an item
type Derived struct {
	Complexity float64 `json:"complexity"`
	NeededTime float64 `json:"needed_time"`
}

// CalculateDerived computes complexity and needed time from an item's raw criteria.
// Missing inputs default to 1 so a product is never zeroed by absent data.
func CalculateDerived(item Item, p Params) Derived {
	switch item.Kind {
	case KindCareerPath:
		return careerPathDerived(item)
	default:
		return incomeMethodDerived(item, p.timeConstant())
	}
}

func incomeMethodDerived(item Item, k float64) Derived {
	difficulty := item.criterion(Difficulty, MultiplicativeDefault)
	hardSkills := item.criterion(HardSkills, MultiplicativeDefault)
	special := item.criterion(SpecialKnowledge, MultiplicativeDefault)

	speed := item.criterion(SpeedOfResult, MultiplicativeDefault)
	flexible := item.criterion(FlexibleSchedule, MultiplicativeDefault)
	engagement := item.criterion(Engagement, MultiplicativeDefault)

	// faster, more flexible and more engaging methods need less time
	neededTime := (k / math.Max(speed, 1)) * (k / math.Max(flexible, 1)) * (k / math.Max(engagement, 1))

	return Derived{
		Complexity: round2(difficulty * hardSkills * special),
		NeededTime: round2(neededTime),
	}
}

func careerPathDerived(item Item) Derived {
	assimilation := item.criterion(MaterialAssimilation, MultiplicativeDefault)
	appSpeed := item.criterion(ApplicationSpeed, MultiplicativeDefault)
	hours := item.criterion(HoursToMaster, MultiplicativeDefault)

	return Derived{
		Complexity: round2(assimilation * appSpeed),
		NeededTime: round2(math.Max(hours, 0)),
	}
}
