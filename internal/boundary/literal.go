package boundary

import (
	"fmt"
	"strconv"
	"strings"
)

// Literal is the result of LiteralEval: a version literal is either a
// bare number, a tuple of numbers (dotted version string split on "."),
// or an opaque string (e.g. the "default" sentinel, handled one level up
// by VersionRelation).
type Literal struct {
	Scalar float64
	Tuple  []float64
	String string
	Kind   LiteralKind
}

// LiteralKind discriminates the three literal shapes LiteralEval can
// produce: number, tuple of numbers, or string.
type LiteralKind int

const (
	KindString LiteralKind = iota
	KindScalar
	KindTuple
)

// LiteralEval safely evaluates a version-literal string. It never calls
// into any interpreter: a dotted numeric string ("6.1.3") becomes a
// Tuple, a bare numeric string ("6") becomes a Scalar, anything else is
// a String (including "default").
func LiteralEval(s string) (Literal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Literal{}, fmt.Errorf("boundary: empty version literal")
	}
	if strings.Contains(s, ".") {
		parts := strings.Split(s, ".")
		tuple := make([]float64, 0, len(parts))
		allNumeric := true
		for _, p := range parts {
			f, err := strconv.ParseFloat(p, 64)
			if err != nil {
				allNumeric = false
				break
			}
			tuple = append(tuple, f)
		}
		if allNumeric {
			return Literal{Tuple: tuple, Kind: KindTuple}, nil
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Literal{Scalar: f, Kind: KindScalar}, nil
	}
	return Literal{String: s, Kind: KindString}, nil
}
