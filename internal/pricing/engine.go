package pricing

import (
	"math"
	"sort"
)

// Line is one bracket's priced contribution to a receipt.
type Line struct {
	Percentage  int
	Weight      float64
	Coefficient float64
	Sum         int64
}

// EffectiveCoefficient resolves the coefficient applied to a bracket: a
// per-bracket override when one is supplied and strictly positive, otherwise
// the base coefficient. A zero or negative override counts as "no override".
func EffectiveCoefficient(percentage int, overrides map[int]float64, base float64) float64 {
	if override, ok := overrides[percentage]; ok && override > 0 {
		return override
	}
	return base
}

// floatSlack absorbs binary representation error before flooring. A product
// that is mathematically integral (20 * 10 * 2.3 = 460) lands a few ulps below
// the integer in float64 and must not lose a whole unit to the floor.
const floatSlack = 1e-9

// LineSum prices a single bracket. Non-positive weight contributes nothing.
// The money amount is floored, never rounded.
func LineSum(percentage int, weight, coefficient float64) int64 {
	if weight <= 0 {
		return 0
	}
	return int64(math.Floor(float64(percentage)*weight*coefficient + floatSlack))
}

// BuildLines turns per-bracket weights into priced lines, resolving each
// bracket's coefficient against the overrides and base. Brackets with
// non-positive weight or an unknown percentage are excluded entirely rather
// than emitted as zero-value lines. Lines come back ordered by percentage
// ascending.
func BuildLines(weights map[int]float64, overrides map[int]float64, base float64) []Line {
	lines := make([]Line, 0, len(weights))
	for percentage, weight := range weights {
		if weight <= 0 || !ValidPercentage(percentage) {
			continue
		}
		coeff := EffectiveCoefficient(percentage, overrides, base)
		lines = append(lines, Line{
			Percentage:  percentage,
			Weight:      weight,
			Coefficient: coeff,
			Sum:         LineSum(percentage, weight, coeff),
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Percentage < lines[j].Percentage })
	return lines
}

// Totals folds lines into receipt totals: the exact weight sum and the integer
// sum of the already-floored line sums. Each line is floored independently
// before the fold; the grand total is never re-rounded.
func Totals(lines []Line) (totalWeight float64, totalSum int64) {
	for _, line := range lines {
		totalWeight += line.Weight
		totalSum += line.Sum
	}
	return totalWeight, totalSum
}
