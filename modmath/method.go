package modmath

import (
	"fmt"
	"strings"
)

// Method selects how an inverse is computed.
type Method int

const (
	Trial Method = iota
	Extended
)

func (m Method) String() string {
	switch m {
	case Trial:
		return "trial"
	case Extended:
		return "extended"
	default:
		return "unknown"
	}
}

// ParseMethod accepts the names produced by Method.String.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trial":
		return Trial, nil
	case "extended", "euclid":
		return Extended, nil
	default:
		return 0, fmt.Errorf("unknown inverse method %q", s)
	}
}

// InverseWith dispatches to InverseTrial or InverseExtended.
func InverseWith(method Method, a, m int64) (int64, error) {
	switch method {
	case Trial:
		return InverseTrial(a, m)
	case Extended:
		return InverseExtended(a, m)
	default:
		return 0, fmt.Errorf("inverse method %d is not supported", int(method))
	}
}
