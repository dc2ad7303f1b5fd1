package pricing

// Alloy percentage brackets form a fixed contiguous range. The intake form
// enumerates one row per bracket; nothing outside this range is ever priced.
const (
	MinPercentage = 14
	MaxPercentage = 100
)

// BracketCount is the number of valid brackets.
const BracketCount = MaxPercentage - MinPercentage + 1

// Brackets returns all valid alloy percentages in ascending order.
func Brackets() []int {
	out := make([]int, 0, BracketCount)
	for p := MinPercentage; p <= MaxPercentage; p++ {
		out = append(out, p)
	}
	return out
}

// ValidPercentage reports whether p is a recognised bracket.
func ValidPercentage(p int) bool {
	return p >= MinPercentage && p <= MaxPercentage
}
