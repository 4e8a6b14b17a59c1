package cut

import (
	"fmt"
	"math"

	"github.com/ezoic/cutflow/pkg/errors"
)

// Case is the shape of the region a single-feature cut accepts as signal.
// The ordinal order is stable: it is persisted and breaks loss ties.
type Case int

const (
	// Left accepts x <= Lower.
	Left Case = iota
	// Right accepts x >= Lower.
	Right
	// Middle accepts Lower <= x <= Upper.
	Middle
	// BothSides accepts x <= Lower or x >= Upper.
	BothSides
)

// Cases lists every case in ordinal order.
var Cases = [...]Case{Left, Right, Middle, BothSides}

var caseNames = [...]string{"left", "right", "middle", "both_sides"}

func (c Case) String() string {
	if c.valid() {
		return caseNames[c]
	}
	return fmt.Sprintf("Case(%d)", int(c))
}

func (c Case) valid() bool {
	return c >= Left && c <= BothSides
}

// TwoSided reports whether the case reads Upper.
func (c Case) TwoSided() bool {
	return c == Middle || c == BothSides
}

// ParseCase converts a case name back to a Case.
func ParseCase(s string) (Case, error) {
	for i, name := range caseNames {
		if s == name {
			return Case(i), nil
		}
	}
	return Left, errors.NewValueError("ParseCase", fmt.Sprintf("unknown case %q", s))
}

// MarshalText implements encoding.TextMarshaler.
func (c Case) MarshalText() ([]byte, error) {
	if !c.valid() {
		return nil, errors.NewValueError("Case.MarshalText", fmt.Sprintf("invalid case %d", int(c)))
	}
	return []byte(caseNames[c]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Case) UnmarshalText(text []byte) error {
	parsed, err := ParseCase(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Parameters is a learned or hand-written cut on one feature. Upper is NaN
// and ignored for Left and Right.
type Parameters struct {
	Lower float64
	Upper float64
	Case  Case
}

// NewOneSided returns Left or Right parameters with Upper unset.
func NewOneSided(c Case, threshold float64) Parameters {
	return Parameters{Lower: threshold, Upper: math.NaN(), Case: c}
}

// Accept reports whether v falls in the signal region.
func (p Parameters) Accept(v float64) bool {
	switch p.Case {
	case Left:
		return v <= p.Lower
	case Right:
		return v >= p.Lower
	case Middle:
		return p.Lower <= v && v <= p.Upper
	default:
		return v <= p.Lower || v >= p.Upper
	}
}

// Validate checks the case and thresholds are usable.
func (p Parameters) Validate() error {
	if !p.Case.valid() {
		return errors.NewValidationError("case", "unknown case", int(p.Case))
	}
	if math.IsNaN(p.Lower) || math.IsInf(p.Lower, 0) {
		return errors.NewValidationError("lower", "must be finite", p.Lower)
	}
	if !p.Case.TwoSided() {
		return nil
	}
	if math.IsNaN(p.Upper) || math.IsInf(p.Upper, 0) {
		return errors.NewValidationError("upper", "must be finite for "+p.Case.String(), p.Upper)
	}
	if p.Lower > p.Upper {
		return errors.NewValidationError("upper", "must not be below lower", p.Upper)
	}
	return nil
}

// Equal compares parameters, ignoring Upper for one-sided cases.
func (p Parameters) Equal(o Parameters) bool {
	if p.Case != o.Case || p.Lower != o.Lower {
		return false
	}
	return !p.Case.TwoSided() || p.Upper == o.Upper
}

func (p Parameters) String() string {
	if p.Case.TwoSided() {
		return fmt.Sprintf("%s[%g, %g]", p.Case, p.Lower, p.Upper)
	}
	return fmt.Sprintf("%s[%g]", p.Case, p.Lower)
}
