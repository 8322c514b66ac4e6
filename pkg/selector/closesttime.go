package selector

import "github.com/kmacdonald-stsci/crds/internal/boundary"

// ClosestTime shares UseAfter's construction and key storage, but
// lookup returns the selection whose key has minimum absolute time
// delta to the lookup time, ties broken by first occurrence in
// time-ascending order. It does not support merge.
type ClosestTime struct {
	UseAfter
}

// NewClosestTime validates like UseAfter and wraps the result.
func NewClosestTime(params []string, selections []KV, header *TreeHeader) (*ClosestTime, error) {
	u, err := NewUseAfter(params, selections, header)
	if err != nil {
		return nil, err
	}
	return &ClosestTime{UseAfter: *u}, nil
}

func (c *ClosestTime) ClassName() string { return "ClosestTime" }
func (c *ClosestTime) mergeable() bool   { return false }
func (c *ClosestTime) mergeWith(Node) (Node, error) {
	return nil, newErr(AmbiguousMerge, "", "ClosestTime does not support merge")
}

func (c *ClosestTime) upsertRaw(rawParts []string, child Child, legal LegalValues) (Node, error) {
	if _, err := c.UseAfter.upsertRaw(rawParts, child, legal); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *ClosestTime) Choose(h Header) (Result, error) {
	lookup, err := c.lookupKey(h)
	if err != nil {
		return Result{}, err
	}
	lookupT, err := boundary.ParseDate(lookup)
	if err != nil {
		return Result{}, wrapErr(InvalidDateTime, "", err, "ClosestTime lookup value %q", lookup)
	}
	best := -1
	var bestDelta float64
	for i, canon := range c.canon {
		t, err := boundary.ParseDate(canon)
		if err != nil {
			return Result{}, wrapErr(InvalidDateTime, "", err, "ClosestTime key %q", canon)
		}
		delta := t.Sub(lookupT).Seconds()
		if delta < 0 {
			delta = -delta
		}
		if best == -1 || delta < bestDelta {
			best, bestDelta = i, delta
		}
	}
	if best == -1 {
		return Result{}, newErr(NoMatch, "", "ClosestTime has no selections")
	}
	return chooseChild(c.children[best], h)
}
