package selector

import (
	"strings"
	"testing"
)

func TestDifferenceDetectsAddedAndDeleted(t *testing.T) {
	a, err := NewMatch([]string{"DETECTOR"}, []MatchSelection{
		{RawKey: []string{"WFC"}, Child: "wfc.fits"},
		{RawKey: []string{"HRC"}, Child: "hrc.fits"},
	}, nil)
	if err != nil {
		t.Fatalf("NewMatch a: %v", err)
	}
	b, err := NewMatch([]string{"DETECTOR"}, []MatchSelection{
		{RawKey: []string{"WFC"}, Child: "wfc.fits"},
		{RawKey: []string{"IR"}, Child: "ir.fits"},
	}, nil)
	if err != nil {
		t.Fatalf("NewMatch b: %v", err)
	}
	recs := Difference(a, b, nil)
	var sawDeleted, sawAdded bool
	for _, r := range recs {
		switch r.Message {
		case "deleted":
			sawDeleted = true
		case "added":
			sawAdded = true
		}
	}
	if !sawDeleted {
		t.Errorf("expected a %q record for HRC, got %v", "deleted", recs)
	}
	if !sawAdded {
		t.Errorf("expected an %q record for IR, got %v", "added", recs)
	}
}

func TestDifferenceDetectsReplacedTerminal(t *testing.T) {
	a, _ := NewMatch([]string{"DETECTOR"}, []MatchSelection{{RawKey: []string{"WFC"}, Child: "old.fits"}}, nil)
	b, _ := NewMatch([]string{"DETECTOR"}, []MatchSelection{{RawKey: []string{"WFC"}, Child: "new.fits"}}, nil)
	recs := Difference(a, b, nil)
	if len(recs) != 1 || !strings.HasPrefix(recs[0].Message, "replaced") {
		t.Fatalf("Difference() = %v, want one replaced record", recs)
	}
}

func TestDifferenceDetectsDifferentClasses(t *testing.T) {
	a, _ := NewMatch([]string{"DETECTOR"}, []MatchSelection{{RawKey: []string{"WFC"}, Child: "wfc.fits"}}, nil)
	b, _ := NewUseAfter([]string{"DETECTOR"}, []KV{{Key: "2015-01-01", Child: "wfc.fits"}}, nil)
	recs := Difference(a, b, nil)
	if len(recs) != 1 || !strings.HasPrefix(recs[0].Message, "different classes") {
		t.Fatalf("Difference() = %v, want one different-classes record", recs)
	}
}

func TestDifferenceIdenticalTreesReportNothing(t *testing.T) {
	a, _ := NewMatch([]string{"DETECTOR"}, []MatchSelection{{RawKey: []string{"WFC"}, Child: "wfc.fits"}}, nil)
	b, _ := NewMatch([]string{"DETECTOR"}, []MatchSelection{{RawKey: []string{"WFC"}, Child: "wfc.fits"}}, nil)
	if recs := Difference(a, b, nil); len(recs) != 0 {
		t.Errorf("Difference() of identical trees = %v, want none", recs)
	}
}

func TestDifferenceRecursesIntoNestedSelectors(t *testing.T) {
	ua1, _ := NewUseAfter([]string{"DATE-OBS"}, []KV{{Key: "2015-01-01", Child: "old.fits"}}, nil)
	ua2, _ := NewUseAfter([]string{"DATE-OBS"}, []KV{{Key: "2015-01-01", Child: "new.fits"}}, nil)
	a, _ := NewMatch([]string{"DETECTOR"}, []MatchSelection{{RawKey: []string{"WFC"}, Child: ua1}}, nil)
	b, _ := NewMatch([]string{"DETECTOR"}, []MatchSelection{{RawKey: []string{"WFC"}, Child: ua2}}, nil)
	recs := Difference(a, b, nil)
	if len(recs) != 1 || !strings.HasPrefix(recs[0].Message, "replaced") {
		t.Fatalf("Difference() = %v, want one replaced record from the nested UseAfter", recs)
	}
	if len(recs[0].Path) != 2 {
		t.Errorf("Difference() path depth = %d, want 2 (DETECTOR then DATE-OBS)", len(recs[0].Path))
	}
}
