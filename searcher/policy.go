package searcher

import "math"

// uct scores the children of one decision node. A child's rewards are the sum of the Win, Loss
// and Draw scores backed up through it, so rewards/visits is a win rate between Loss and Win.
type uct struct {
	numerator float64 // c^2 * ln(parent visits)
}

func newUCT(cSquared float64, parentVisits float64) *uct {
	if parentVisits == 0 {
		panic("parent visits cannot be 0")
	}
	return &uct{numerator: cSquared * math.Log(parentVisits)}
}

// evaluate returns rewards/visits + sqrt(c^2*ln(N)/visits).
func (u uct) evaluate(rewards float64, visits float64) float64 {
	if visits == 0 {
		panic("visits cannot be 0")
	}
	return rewards/visits + u.exploration(visits)
}

func (u uct) exploration(visits float64) float64 {
	return math.Sqrt(u.numerator / visits)
}
