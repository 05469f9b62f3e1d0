package engine

// DoubleMultipliers is the fixed result set of the double game.
var DoubleMultipliers = []int{2, 3, 4, 10, 50}

type crashBand struct {
	upper float64 // exclusive upper bound of the band sample
	base  float64
	span  float64
}

// a band sample picks the tier, a second sample picks the value inside it
var crashBands = []crashBand{
	{upper: 0.50, base: 1, span: 2},
	{upper: 0.80, base: 2, span: 8},
	{upper: 0.95, base: 10, span: 40},
	{upper: 1.00, base: 50, span: 50},
}

type doubleStep struct {
	below  float64
	result int
}

var doubleTable = []doubleStep{
	{below: 0.40, result: 2},
	{below: 0.70, result: 3},
	{below: 0.85, result: 4},
	{below: 0.97, result: 10},
}

// Generator draws round outcomes. It keeps no state besides its source.
type Generator struct {
	src Source
}

func NewGenerator(src Source) (*Generator, error) {
	if src == nil {
		return nil, ErrNoEntropy
	}
	return &Generator{src: src}, nil
}

// CrashPoint draws the hidden crash multiplier, always >= 1.
func (g *Generator) CrashPoint() (float64, error) {
	u, err := sample(g.src)
	if err != nil {
		return 0, err
	}
	v, err := sample(g.src)
	if err != nil {
		return 0, err
	}
	for _, b := range crashBands {
		if u < b.upper {
			return b.base + v*b.span, nil
		}
	}
	last := crashBands[len(crashBands)-1]
	return last.base + v*last.span, nil
}

// DoubleResult draws one element of DoubleMultipliers.
func (g *Generator) DoubleResult() (int, error) {
	u, err := sample(g.src)
	if err != nil {
		return 0, err
	}
	for _, s := range doubleTable {
		if u < s.below {
			return s.result, nil
		}
	}
	return 50, nil
}

// ValidTarget reports whether m is a double multiplier.
func ValidTarget(m int) bool {
	for _, d := range DoubleMultipliers {
		if d == m {
			return true
		}
	}
	return false
}
