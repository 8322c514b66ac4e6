package selector

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"
)

// outcome codes returned by every Matcher, named for readability at
// call sites in match.go's winnowing loop.
const (
	outcomeMiss     = -1
	outcomeDontCare = 0
	outcomeFull     = 1
)

// Matcher is the closed sum type over the seven matching disciplines:
// Literal, Glob, Regex, Inequality, BinaryAnd, BinaryOr, Wildcard.
// Every Match-selection field compiles down to exactly one of these at
// construction time.
type Matcher interface {
	// Match scores a header field value: +1 full match, 0 don't-care,
	// -1 miss.
	Match(value string) int
	// String renders the matcher back to its source form; the binary
	// combinators build their own rendering from it.
	String() string
}

type literalMatcher struct{ lit string }

func (m literalMatcher) Match(value string) int {
	switch {
	case value == m.lit, value == "*":
		return outcomeFull
	case value == "N/A":
		return outcomeDontCare
	default:
		return outcomeMiss
	}
}
func (m literalMatcher) String() string { return m.lit }

type wildcardMatcher struct{}

func (wildcardMatcher) Match(string) int { return outcomeDontCare }
func (wildcardMatcher) String() string   { return "N/A" }

// globMatcher handles a "|"-joined alternation or a value containing
// "*": it becomes an anchored union of shell-glob regexes. raw retains
// the unexpanded key so an exact-string match can still win full weight
// directly, independent of whatever the compiled regex says.
type globMatcher struct {
	re  *regexp.Regexp
	raw string
}

func newGlobMatcher(raw string) (*globMatcher, error) {
	alts := strings.Split(raw, "|")
	for i, a := range alts {
		alts[i] = globToRegex(a)
	}
	pattern := "^(?:" + strings.Join(alts, "|") + ")$"
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, newErr(InvalidNumber, "", "bad glob pattern %q: %v", raw, err)
	}
	return &globMatcher{re: re, raw: raw}, nil
}

func globToRegex(glob string) string {
	var b strings.Builder
	for _, r := range glob {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		case '.', '+', '(', ')', '[', ']', '^', '$':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (m *globMatcher) Match(value string) int {
	switch {
	case value == "*", value == m.raw:
		return outcomeFull
	case value == "N/A":
		return outcomeDontCare
	case m.re.MatchString(value):
		return outcomeFull
	default:
		return outcomeMiss
	}
}
func (m *globMatcher) String() string { return m.raw }

// regexMatcher handles a parenthesised "(R)" raw regular expression.
// Only the "*" exceptional match applies.
type regexMatcher struct {
	re  *regexp.Regexp
	raw string
}

func newRegexMatcher(body string) (*regexMatcher, error) {
	re, err := regexp.Compile(body)
	if err != nil {
		return nil, wrapErr(InvalidNumber, "", err, "bad regex %q", body)
	}
	return &regexMatcher{re: re, raw: "(" + body + ")"}, nil
}

func (m *regexMatcher) Match(value string) int {
	switch {
	case value == "*":
		return outcomeFull
	case value == "N/A":
		return outcomeDontCare
	case m.re.MatchString(value):
		return outcomeFull
	default:
		return outcomeMiss
	}
}
func (m *regexMatcher) String() string { return m.raw }

// inequalityMatcher handles a relational threshold. Comparison is
// delegated to govaluate rather than hand-rolled float comparison: the
// threshold is baked into a compiled expression once at construction,
// and each Match call only supplies the candidate value as a
// parameter.
type inequalityMatcher struct {
	op        string
	threshold float64
	expr      *govaluate.EvaluableExpression
	raw       string
}

func newInequalityMatcher(op string, threshold float64) (*inequalityMatcher, error) {
	expr, err := govaluate.NewEvaluableExpression(fmt.Sprintf("value %s %g", op, threshold))
	if err != nil {
		return nil, wrapErr(InvalidNumber, "", err, "bad inequality expression")
	}
	return &inequalityMatcher{op: op, threshold: threshold, expr: expr, raw: op + strconv.FormatFloat(threshold, 'g', -1, 64)}, nil
}

func (m *inequalityMatcher) Match(value string) int {
	if value == "*" {
		return outcomeFull
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return outcomeMiss
	}
	result, err := m.expr.Evaluate(map[string]interface{}{"value": f})
	if err != nil {
		return outcomeMiss
	}
	if b, ok := result.(bool); ok && b {
		return outcomeFull
	}
	return outcomeMiss
}
func (m *inequalityMatcher) String() string { return m.raw }

// binaryAndMatcher and binaryOrMatcher implement the "#E1 and E2#" /
// "#E1 or E2#" combinators, and double as the translation target for
// "between lo hi" (>=lo and <hi).
type binaryAndMatcher struct{ left, right Matcher }

func (m binaryAndMatcher) Match(value string) int {
	if m.left.Match(value) == outcomeFull && m.right.Match(value) == outcomeFull {
		return outcomeFull
	}
	return outcomeMiss
}
func (m binaryAndMatcher) String() string {
	return "# " + m.left.String() + " and " + m.right.String() + " #"
}

type binaryOrMatcher struct{ left, right Matcher }

func (m binaryOrMatcher) Match(value string) int {
	if m.left.Match(value) == outcomeFull || m.right.Match(value) == outcomeFull {
		return outcomeFull
	}
	return outcomeMiss
}
func (m binaryOrMatcher) String() string {
	return "# " + m.left.String() + " or " + m.right.String() + " #"
}

// NewMatcher is the factory that dispatches a raw key field to the
// matching discipline it describes, in priority order. raw may be a
// single field (string) or a tuple of alternatives already split by the
// caller.
func NewMatcher(raw interface{}) (Matcher, error) {
	if tuple, ok := raw.([]string); ok {
		return newGlobMatcher(strings.Join(tuple, "|"))
	}
	s, ok := raw.(string)
	if !ok {
		return nil, newErr(KeyArity, "", "unsupported match key field type %T", raw)
	}
	return matcherFromString(s)
}

func matcherFromString(s string) (Matcher, error) {
	switch {
	case strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && len(s) >= 2:
		return newRegexMatcher(s[1 : len(s)-1])

	case strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") && len(s) >= 2:
		return literalMatcher{lit: s[1 : len(s)-1]}, nil

	case strings.HasPrefix(s, "#") && strings.HasSuffix(s, "#") && len(s) >= 2:
		return matcherFromHash(strings.TrimSpace(s[1 : len(s)-1]))

	case strings.HasPrefix(s, "between "):
		return matcherFromBetween(s)

	case strings.ContainsAny(s, "|*"):
		return newGlobMatcher(s)

	case s == "N/A":
		return wildcardMatcher{}, nil

	case strings.HasPrefix(s, "<=") || strings.HasPrefix(s, ">=") || strings.HasPrefix(s, "<") || strings.HasPrefix(s, ">"):
		return matcherFromInequality(s)

	default:
		return literalMatcher{lit: s}, nil
	}
}

func matcherFromHash(expr string) (Matcher, error) {
	if idx := strings.Index(expr, " and "); idx >= 0 {
		left, err := matcherFromString(strings.TrimSpace(expr[:idx]))
		if err != nil {
			return nil, err
		}
		right, err := matcherFromString(strings.TrimSpace(expr[idx+len(" and "):]))
		if err != nil {
			return nil, err
		}
		return binaryAndMatcher{left: left, right: right}, nil
	}
	if idx := strings.Index(expr, " or "); idx >= 0 {
		left, err := matcherFromString(strings.TrimSpace(expr[:idx]))
		if err != nil {
			return nil, err
		}
		right, err := matcherFromString(strings.TrimSpace(expr[idx+len(" or "):]))
		if err != nil {
			return nil, err
		}
		return binaryOrMatcher{left: left, right: right}, nil
	}
	return matcherFromString(expr)
}

func matcherFromBetween(s string) (Matcher, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return nil, newErr(InvalidNumber, "", "malformed between expression %q", s)
	}
	lo, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return nil, wrapErr(InvalidNumber, "", err, "between lower bound %q", fields[1])
	}
	hi, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return nil, wrapErr(InvalidNumber, "", err, "between upper bound %q", fields[2])
	}
	if lo > hi {
		return nil, newErr(InvalidNumber, "", "between bounds out of order: %v > %v", lo, hi)
	}
	geLo, err := newInequalityMatcher(">=", lo)
	if err != nil {
		return nil, err
	}
	ltHi, err := newInequalityMatcher("<", hi)
	if err != nil {
		return nil, err
	}
	return binaryAndMatcher{left: geLo, right: ltHi}, nil
}

func matcherFromInequality(s string) (Matcher, error) {
	var op string
	switch {
	case strings.HasPrefix(s, "<="):
		op = "<="
	case strings.HasPrefix(s, ">="):
		op = ">="
	case strings.HasPrefix(s, "<"):
		op = "<"
	case strings.HasPrefix(s, ">"):
		op = ">"
	}
	threshold, err := strconv.ParseFloat(strings.TrimSpace(s[len(op):]), 64)
	if err != nil {
		return nil, wrapErr(InvalidNumber, "", err, "bad inequality threshold in %q", s)
	}
	return newInequalityMatcher(op, threshold)
}
