package gap

// Classification labels an achieved value relative to the best-known value.
type Classification int

const (
	// Equal means the best-known value was matched.
	Equal Classification = iota
	// Worse means the achieved value is higher, or the result is unavailable.
	Worse
	// Better means the achieved value beats the best-known value.
	Better
)

func (c Classification) String() string {
	switch c {
	case Equal:
		return "equal"
	case Worse:
		return "worse"
	case Better:
		return "better"
	default:
		return "unknown"
	}
}

// Classify labels one instance cell. It must not be applied to totals.
func Classify(achieved Achieved, baseline int64) Classification {
	v, ok := achieved.Get()
	if !ok {
		return Worse
	}
	b := float64(baseline)
	switch {
	case v == b:
		return Equal
	case v > b:
		return Worse
	default:
		return Better
	}
}
