package selector

import (
	"fmt"
	"sort"
	"strings"

	"github.com/starkandwayne/goutils/ansi"
)

// chooseChild resolves a single Child (terminal or nested Node) against
// a header, the recursion step used by every variant's Choose.
func chooseChild(c Child, h Header) (Result, error) {
	if s, ok := AsTerminal(c); ok {
		return oneResult(s), nil
	}
	if n, ok := AsNode(c); ok {
		return n.Choose(h)
	}
	return Result{}, newErr(Modification, "", "invalid child type %T", c)
}

// validateChildren descends into every nested Node among entries,
// respecting disp the same way the parent's own Validate does.
func validateChildren(entries []Entry, legal LegalValues, disp Disposition, warn func(Warning)) error {
	return validateChildrenEscalated(entries, legal, disp, warn, false)
}

func validateChildrenEscalated(entries []Entry, legal LegalValues, disp Disposition, warn func(Warning), specialCaseIsError bool) error {
	merr := &MultiError{}
	for _, e := range entries {
		n, ok := AsNode(e.Child)
		if !ok {
			continue
		}
		if err := n.Validate(legal, disp, warn, specialCaseIsError); err != nil {
			if disp == DispositionCollect {
				merr.Append(err)
			} else {
				return err
			}
		}
	}
	return merr.AsError()
}

// ReferenceNames does a deep walk returning the sorted unique set of
// terminal values reachable from n.
func ReferenceNames(n Node) []string {
	set := map[string]bool{}
	var walk func(Node)
	walk = func(node Node) {
		for _, e := range node.Entries() {
			if s, ok := AsTerminal(e.Child); ok {
				set[s] = true
			} else if child, ok := AsNode(e.Child); ok {
				walk(child)
			}
		}
	}
	walk(n)
	names := make([]string, 0, len(set))
	for k := range set {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Format pretty-prints the tree over raw (pre-conditioning) keys;
// nested selectors indent one level further.
func Format(n Node, indent int) string {
	var b strings.Builder
	pad := strings.Repeat("  ", indent)
	fmt.Fprintf(&b, "%s%s(%s) {\n", pad, n.ClassName(), strings.Join(n.Params(), ", "))
	for _, e := range n.Entries() {
		if child, ok := AsNode(e.Child); ok {
			fmt.Fprintf(&b, "%s  %s :\n", pad, e.Display)
			b.WriteString(Format(child, indent+2))
		} else if s, ok := AsTerminal(e.Child); ok {
			fmt.Fprintf(&b, "%s  %s : %q,\n", pad, e.Display, s)
		}
	}
	fmt.Fprintf(&b, "%s}\n", pad)
	return b.String()
}

// FormatColor is Format's interactive sibling: class names in cyan,
// terminal reference names in green, the same structure otherwise.
// Format itself stays plain so diffing two tree dumps never has to
// strip ANSI codes first.
func FormatColor(n Node, indent int) string {
	var b strings.Builder
	pad := strings.Repeat("  ", indent)
	b.WriteString(ansi.Sprintf(pad+"@C{%s}(%s) {\n", n.ClassName(), strings.Join(n.Params(), ", ")))
	for _, e := range n.Entries() {
		if child, ok := AsNode(e.Child); ok {
			fmt.Fprintf(&b, "%s  %s :\n", pad, e.Display)
			b.WriteString(FormatColor(child, indent+2))
		} else if s, ok := AsTerminal(e.Child); ok {
			b.WriteString(ansi.Sprintf("%s  %s : @G{%q},\n", pad, e.Display, s))
		}
	}
	fmt.Fprintf(&b, "%s}\n", pad)
	return b.String()
}

// levelContribution is one selection's contribution to a FileMatches
// path: the (parameter, key) pairs it adds at this level, plus the
// child to continue into. Ordinary variants add exactly one pair;
// Match adds one pair per field; UseAfter/ClosestTime collapse their
// (possibly multi-field) key into a single concatenated pair.
type levelContribution struct {
	steps []PathStep
	child Child
}

func levelContributions(n Node) []levelContribution {
	switch t := n.(type) {
	case *UseAfter:
		return useAfterContributions(t.params, t.raw, t.children)
	case *ClosestTime:
		return useAfterContributions(t.params, t.raw, t.children)
	case *Match:
		out := make([]levelContribution, len(t.rawKeys))
		for i, raw := range t.rawKeys {
			steps := make([]PathStep, len(raw))
			for j, field := range raw {
				steps[j] = PathStep{Parameter: t.params[j], Key: field}
			}
			out[i] = levelContribution{steps: steps, child: t.children[i]}
		}
		return out
	default:
		entries := n.Entries()
		params := n.Params()
		param := ""
		if len(params) > 0 {
			param = params[0]
		}
		out := make([]levelContribution, len(entries))
		for i, e := range entries {
			out[i] = levelContribution{steps: []PathStep{{Parameter: param, Key: e.Display}}, child: e.Child}
		}
		return out
	}
}

func useAfterContributions(params, raw []string, children []Child) []levelContribution {
	param := strings.Join(params, ",")
	out := make([]levelContribution, len(raw))
	for i := range raw {
		out[i] = levelContribution{steps: []PathStep{{Parameter: param, Key: raw[i]}}, child: children[i]}
	}
	return out
}

// FileMatches enumerates all root-to-leaf paths whose terminal equals
// name.
func FileMatches(root Node, name string) []Path {
	var out []Path
	var walk func(n Node, prefix Path)
	walk = func(n Node, prefix Path) {
		for _, c := range levelContributions(n) {
			p := prefix
			for _, step := range c.steps {
				p = p.Append(step)
			}
			if s, ok := AsTerminal(c.child); ok {
				if s == name {
					out = append(out, p)
				}
			} else if child, ok := AsNode(c.child); ok {
				walk(child, p)
			}
		}
	}
	walk(root, nil)
	return out
}
