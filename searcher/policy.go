package searcher

import "math"

type uct struct {
	numerator float64
}

func newUCT(exploration float64, N int) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{numerator: exploration * exploration * math.Log(float64(N))}
}

// evaluate returns u/n + c*sqrt(ln(N)/n), or +Inf for an unvisited child.
func (u uct) evaluate(utility float64, visits int) float64 {
	if visits == 0 {
		return math.Inf(1)
	}
	n := float64(visits)
	return utility/n + math.Sqrt(u.numerator/n)
}
