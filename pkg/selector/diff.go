package selector

import (
	"fmt"
	"sort"
)

// DiffRecord is one structural difference found by Difference, anchored
// at the Path where the two trees diverge. Message always begins with
// one of a fixed set of vocabulary words — "different classes",
// "different parameter lists", "deleted", "added", "replaced" —
// callers needing machine-readable output should match on that prefix
// rather than parsing the rest of the sentence.
type DiffRecord struct {
	Path    Path
	Message string
}

// Difference walks a and b in lockstep by selection key, reporting
// class/parameter-list mismatches, deletions, additions, and
// replacements without paraphrasing DiffRecord's fixed vocabulary.
func Difference(a, b Node, path Path) []DiffRecord {
	if a == nil && b == nil {
		return nil
	}
	if a == nil {
		return []DiffRecord{{Path: path, Message: "added"}}
	}
	if b == nil {
		return []DiffRecord{{Path: path, Message: "deleted"}}
	}
	if a.ClassName() != b.ClassName() {
		return []DiffRecord{{Path: path, Message: fmt.Sprintf("different classes: %s vs %s", a.ClassName(), b.ClassName())}}
	}
	if !sameParams(a.Params(), b.Params()) {
		return []DiffRecord{{Path: path, Message: "different parameter lists"}}
	}

	aEntries := entriesByKey(a.Entries())
	bEntries := entriesByKey(b.Entries())

	var out []DiffRecord
	for _, key := range sortedKeys(aEntries, bEntries) {
		ae, aOK := aEntries[key]
		be, bOK := bEntries[key]
		step := PathStep{Parameter: diffParam(a), Key: key}
		childPath := path.Append(step)
		switch {
		case aOK && !bOK:
			out = append(out, DiffRecord{Path: childPath, Message: "deleted"})
		case !aOK && bOK:
			out = append(out, DiffRecord{Path: childPath, Message: "added"})
		default:
			out = append(out, diffChild(ae.Child, be.Child, childPath)...)
		}
	}
	return out
}

func diffParam(n Node) string {
	params := n.Params()
	if len(params) == 0 {
		return ""
	}
	if len(params) == 1 {
		return params[0]
	}
	s := params[0]
	for _, p := range params[1:] {
		s += "," + p
	}
	return s
}

func diffChild(a, b Child, path Path) []DiffRecord {
	aNode, aIsNode := AsNode(a)
	bNode, bIsNode := AsNode(b)
	switch {
	case aIsNode && bIsNode:
		return Difference(aNode, bNode, path)
	case !aIsNode && !bIsNode:
		as, _ := AsTerminal(a)
		bs, _ := AsTerminal(b)
		if as != bs {
			return []DiffRecord{{Path: path, Message: fmt.Sprintf("replaced %q with %q", as, bs)}}
		}
		return nil
	default:
		return []DiffRecord{{Path: path, Message: fmt.Sprintf("replaced %s with %s", describeChild(a), describeChild(b))}}
	}
}

func describeChild(c Child) string {
	if s, ok := AsTerminal(c); ok {
		return fmt.Sprintf("%q", s)
	}
	if n, ok := AsNode(c); ok {
		return n.ClassName() + " selector"
	}
	return "nothing"
}

func entriesByKey(entries []Entry) map[string]Entry {
	out := make(map[string]Entry, len(entries))
	for _, e := range entries {
		out[e.Key] = e
	}
	return out
}

func sortedKeys(a, b map[string]Entry) []string {
	seen := map[string]bool{}
	var out []string
	for k := range a {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	for k := range b {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
