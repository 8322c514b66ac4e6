// Package engine wires pkg/selector's pure decision trees to the
// ambient stack: internal/config for operating parameters and log for
// reporting validation warnings, the way an embedding application (a
// CRDS-style reference-file server) would actually use the engine.
// pkg/selector itself stays free of both dependencies; this package is
// the seam where they meet.
package engine

import (
	"github.com/kmacdonald-stsci/crds/internal/config"
	"github.com/kmacdonald-stsci/crds/log"
	"github.com/kmacdonald-stsci/crds/pkg/selector"
)

// Table is a fully constructed rule tree paired with the tree-wide
// metadata and operating configuration needed to exercise it.
type Table struct {
	Root   selector.Node
	Header *selector.TreeHeader
	Legal  selector.LegalValues
	Config *config.EngineConfig
}

// New wraps an already-built root node. cfg may be nil, in which case
// config.Default() is used.
func New(root selector.Node, header *selector.TreeHeader, legal selector.LegalValues, cfg *config.EngineConfig) *Table {
	if cfg == nil {
		cfg = config.Default()
	}
	log.SetLevel(levelFor(cfg.Logging.Level))
	log.SetColor(cfg.Logging.Color)
	return &Table{Root: root, Header: header, Legal: legal, Config: cfg}
}

func levelFor(name string) log.Level {
	switch name {
	case "error":
		return log.ERROR
	case "info":
		return log.INFO
	case "debug":
		return log.DEBUG
	case "verbose":
		return log.VERBOSE
	default:
		return log.WARN
	}
}

// Choose resolves h against the tree, logging nothing: callers decide
// how to present a selector.Error to an operator.
func (t *Table) Choose(h selector.Header) (selector.Result, error) {
	return t.Root.Choose(h)
}

// Validate runs the root node's Validate with this table's configured
// disposition, routing warnings to the log package at WARN level.
func (t *Table) Validate() error {
	disp := selectorDisposition(t.Config.Validation.Disposition)
	specialCaseIsError := t.Config.Validation.SpecialCaseThreshold <= 0
	warn := func(w selector.Warning) { log.Warn("%s", w.Error()) }
	return t.Root.Validate(t.Legal, disp, warn, specialCaseIsError)
}

func selectorDisposition(d config.Disposition) selector.Disposition {
	switch d {
	case config.DispositionCollect:
		return selector.DispositionCollect
	case config.DispositionDebug:
		return selector.DispositionDebug
	default:
		return selector.DispositionRaise
	}
}

// Modify inserts or replaces the selection reached by h and stores the
// resulting root in t.Root (the existing root is mutated in place by the
// variants that support it). It returns only the error, if any; t.Root
// is reassigned only on success.
func (t *Table) Modify(h selector.Header, value string) error {
	newRoot, err := selector.Modify(t.Root, h, value, t.Legal, t.Header)
	if err != nil {
		return err
	}
	t.Root = newRoot
	return nil
}

// ReferenceNames returns the sorted, deduplicated set of terminal
// reference filenames reachable from the root.
func (t *Table) ReferenceNames() []string { return selector.ReferenceNames(t.Root) }

// Format pretty-prints the tree starting at indent 0.
func (t *Table) Format() string { return selector.Format(t.Root, 0) }

// FileMatches enumerates every root-to-leaf path whose terminal equals
// name.
func (t *Table) FileMatches(name string) []selector.Path { return selector.FileMatches(t.Root, name) }

// Difference structurally diffs this table's root against other's.
func (t *Table) Difference(other *Table) []selector.DiffRecord {
	return selector.Difference(t.Root, other.Root, nil)
}
