package cut

import (
	"fmt"

	"github.com/ezoic/cutflow/pkg/errors"
)

// Topology selects how per-feature cuts are combined.
type Topology int

const (
	// Parallel fits every unit on the full sample and ANDs their decisions.
	Parallel Topology = iota
	// Sequential fits each unit on the samples accepted by all earlier
	// units, in feature order.
	Sequential
)

func (t Topology) String() string {
	switch t {
	case Parallel:
		return "parallel"
	case Sequential:
		return "sequential"
	default:
		return fmt.Sprintf("Topology(%d)", int(t))
	}
}

// ParseTopology converts a topology name back to a Topology.
func ParseTopology(s string) (Topology, error) {
	switch s {
	case "parallel":
		return Parallel, nil
	case "sequential":
		return Sequential, nil
	default:
		return Parallel, errors.NewValueError("ParseTopology", fmt.Sprintf("unknown topology %q", s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Topology) MarshalText() ([]byte, error) {
	if t != Parallel && t != Sequential {
		return nil, errors.NewValueError("Topology.MarshalText", fmt.Sprintf("invalid topology %d", int(t)))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Topology) UnmarshalText(text []byte) error {
	parsed, err := ParseTopology(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
