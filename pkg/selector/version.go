package selector

import (
	"strings"

	"github.com/kmacdonald-stsci/crds/internal/boundary"
)

// VersionOp is the relational operator half of a VersionRelation:
// "<" or "=".
type VersionOp string

const (
	OpLess  VersionOp = "<"
	OpEqual VersionOp = "="
)

// VersionRelation is a pair (op, version) forming the total ordering
// over version literals used by SelectVersion. The "default" sentinel
// orders strictly above every concrete version so it is always
// reachable as a final fallback.
type VersionRelation struct {
	Op      VersionOp
	Raw     string
	literal boundary.Literal
	isDefault bool
}

// ParseVersionRelation parses a raw SelectVersion key ("<5", "=6.1.3",
// "default", or a bare version meaning "=version").
func ParseVersionRelation(raw string) (VersionRelation, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "default" {
		return VersionRelation{Op: OpEqual, Raw: raw, isDefault: true}, nil
	}
	op := OpEqual
	body := trimmed
	switch {
	case strings.HasPrefix(trimmed, "<"):
		op = OpLess
		body = strings.TrimPrefix(trimmed, "<")
	case strings.HasPrefix(trimmed, "="):
		op = OpEqual
		body = strings.TrimPrefix(trimmed, "=")
	}
	body = strings.TrimSpace(body)
	lit, err := boundary.LiteralEval(body)
	if err != nil {
		return VersionRelation{}, wrapErr(InvalidVersion, "", err, "bad version literal %q", raw)
	}
	return VersionRelation{Op: op, Raw: raw, literal: lit}, nil
}

// admits reports whether relation r admits version v, i.e. r is "not
// less than" v under VersionRelation's ordering: r.admits(v) is true
// when r >= v, which is what SelectVersion's lookup tests ("find the
// first relation ... not less than the lookup version").
func (r VersionRelation) admits(v boundary.Literal) (bool, error) {
	if r.isDefault {
		return true, nil
	}
	cmp, err := compareLiteral(r.literal, v)
	if err != nil {
		return false, err
	}
	switch r.Op {
	case OpLess:
		return cmp > 0, nil // r.literal > v  <=>  v < r.literal, i.e. r admits v
	default: // OpEqual
		return cmp >= 0, nil
	}
}

// Less orders two VersionRelations ascending, used to keep a
// SelectVersion's selection list sorted so the "first relation that
// admits" scan is correct. "default" sorts last.
func (r VersionRelation) Less(other VersionRelation) bool {
	if r.isDefault {
		return false
	}
	if other.isDefault {
		return true
	}
	cmp, err := compareLiteral(r.literal, other.literal)
	if err != nil {
		return r.Raw < other.Raw
	}
	if cmp != 0 {
		return cmp < 0
	}
	// Same version literal: "<" sorts before "=" so an exact match at
	// the boundary still gets a chance to fail the "<" relation first.
	return r.Op == OpLess && other.Op != OpLess
}

// compareLiteral compares two version literals of possibly different
// kinds, failing with IncompatibleVersion when the shapes cannot be
// reconciled.
func compareLiteral(a, b boundary.Literal) (int, error) {
	av, bv := normalizeForCompare(a), normalizeForCompare(b)
	if av.Kind != bv.Kind {
		return 0, newErr(IncompatibleVersion, "", "cannot compare version literal kinds %v and %v", av.Kind, bv.Kind)
	}
	switch av.Kind {
	case boundary.KindString:
		switch {
		case av.String < bv.String:
			return -1, nil
		case av.String > bv.String:
			return 1, nil
		default:
			return 0, nil
		}
	case boundary.KindTuple:
		return compareTuples(av.Tuple, bv.Tuple), nil
	default:
		switch {
		case av.Scalar < bv.Scalar:
			return -1, nil
		case av.Scalar > bv.Scalar:
			return 1, nil
		default:
			return 0, nil
		}
	}
}

// normalizeForCompare treats a bare scalar as a one-element tuple so a
// scalar literal ("5") can compare against a dotted tuple literal
// ("5.0") without tripping IncompatibleVersion, while still rejecting a
// genuine type mismatch (e.g. tuple vs string).
func normalizeForCompare(l boundary.Literal) boundary.Literal {
	if l.Kind == boundary.KindScalar {
		return boundary.Literal{Kind: boundary.KindTuple, Tuple: []float64{l.Scalar}}
	}
	return l
}

// compareTuples compares element-wise, treating a shorter tuple as
// zero-padded to the longer tuple's length so "5" and "5.0.0" compare
// equal rather than tie-breaking on length.
func compareTuples(a, b []float64) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var av, bv float64
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
	}
	return 0
}
