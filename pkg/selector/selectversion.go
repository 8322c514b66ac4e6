package selector

import (
	"sort"

	"github.com/kmacdonald-stsci/crds/internal/boundary"
)

// SelectVersion has one parameter; its keys are VersionRelations, and
// lookup returns the child of the first relation in ascending order
// that admits the lookup version.
type SelectVersion struct {
	param    string
	header   *TreeHeader
	raw      []string
	rels     []VersionRelation
	children []Child
}

// NewSelectVersion parses and sorts the relation keys ascending,
// "default" sorting last.
func NewSelectVersion(param string, selections []KV, header *TreeHeader) (*SelectVersion, error) {
	s := &SelectVersion{param: param, header: header}
	for _, sel := range selections {
		rel, err := ParseVersionRelation(sel.Key)
		if err != nil {
			return nil, err
		}
		s.raw = append(s.raw, sel.Key)
		s.rels = append(s.rels, rel)
		s.children = append(s.children, sel.Child)
	}
	s.sortInPlace()
	return s, nil
}

func (s *SelectVersion) sortInPlace() {
	idx := make([]int, len(s.rels))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return s.rels[idx[i]].Less(s.rels[idx[j]]) })
	raw := make([]string, len(idx))
	rels := make([]VersionRelation, len(idx))
	children := make([]Child, len(idx))
	for i, j := range idx {
		raw[i], rels[i], children[i] = s.raw[j], s.rels[j], s.children[j]
	}
	s.raw, s.rels, s.children = raw, rels, children
}

func (s *SelectVersion) ClassName() string { return "SelectVersion" }
func (s *SelectVersion) Params() []string   { return []string{s.param} }

func (s *SelectVersion) Choose(h Header) (Result, error) {
	raw, ok := h[s.param]
	if !ok {
		return Result{}, newErr(MissingParameter, "", "SelectVersion missing header field %q", s.param)
	}
	lit, err := boundary.LiteralEval(raw)
	if err != nil {
		return Result{}, wrapErr(InvalidVersion, "", err, "SelectVersion lookup value %q", raw)
	}
	for i, rel := range s.rels {
		ok, err := rel.admits(lit)
		if err != nil {
			return Result{}, err
		}
		if ok {
			return chooseChild(s.children[i], h)
		}
	}
	return Result{}, newErr(NoMatch, "", "no SelectVersion relation admits %q", raw)
}

func (s *SelectVersion) Entries() []Entry {
	out := make([]Entry, len(s.raw))
	for i := range s.raw {
		out[i] = Entry{Display: s.raw[i], Key: string(s.rels[i].Op) + s.rels[i].Raw, Child: s.children[i]}
	}
	return out
}

func (s *SelectVersion) Validate(legal LegalValues, disp Disposition, warn func(Warning), specialCaseIsError bool) error {
	return validateChildren(s.Entries(), legal, disp, warn)
}

func (s *SelectVersion) mergeable() bool { return false }
func (s *SelectVersion) mergeWith(Node) (Node, error) {
	return nil, newErr(AmbiguousMerge, "", "SelectVersion does not support merge")
}

func (s *SelectVersion) upsertRaw(rawParts []string, child Child, legal LegalValues) (Node, error) {
	if len(rawParts) != 1 {
		return nil, newErr(KeyArity, "", "SelectVersion expects 1 key part, got %d", len(rawParts))
	}
	rel, err := ParseVersionRelation(rawParts[0])
	if err != nil {
		return nil, err
	}
	for i := range s.rels {
		if s.raw[i] == rawParts[0] {
			s.children[i] = child
			return s, nil
		}
	}
	s.raw = append(s.raw, rawParts[0])
	s.rels = append(s.rels, rel)
	s.children = append(s.children, child)
	s.sortInPlace()
	return s, nil
}
