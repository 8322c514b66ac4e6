package selector

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func buildSampleTree(t *testing.T) Node {
	t.Helper()
	useAfter, err := NewUseAfter([]string{"DATE-OBS"}, []KV{
		{Key: "2015-01-01", Child: "early.fits"},
		{Key: "2018-01-01", Child: "late.fits"},
	}, nil)
	if err != nil {
		t.Fatalf("NewUseAfter: %v", err)
	}
	m, err := NewMatch([]string{"DETECTOR"}, []MatchSelection{
		{RawKey: []string{"WFC"}, Child: useAfter},
		{RawKey: []string{"IR"}, Child: "ir_only.fits"},
	}, nil)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	return m
}

func TestReferenceNamesWalksNestedTree(t *testing.T) {
	root := buildSampleTree(t)
	got := ReferenceNames(root)
	want := []string{"early.fits", "ir_only.fits", "late.fits"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReferenceNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatIncludesClassNamesAndNesting(t *testing.T) {
	root := buildSampleTree(t)
	out := Format(root, 0)
	for _, want := range []string{"Match(DETECTOR)", "UseAfter(DATE-OBS)", "early.fits", "ir_only.fits"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatColorIncludesSameStructureAsFormat(t *testing.T) {
	root := buildSampleTree(t)
	out := FormatColor(root, 0)
	for _, want := range []string{"Match", "UseAfter", "early.fits", "ir_only.fits"} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatColor() output missing %q:\n%s", want, out)
		}
	}
}

func TestFileMatchesFindsNestedTerminal(t *testing.T) {
	root := buildSampleTree(t)
	paths := FileMatches(root, "late.fits")
	if len(paths) != 1 {
		t.Fatalf("FileMatches(late.fits) = %v, want exactly one path", paths)
	}
	p := paths[0]
	if len(p) != 2 {
		t.Fatalf("FileMatches(late.fits) path depth = %d, want 2", len(p))
	}
	if p[0].Parameter != "DETECTOR" || p[0].Key != "WFC" {
		t.Errorf("FileMatches(late.fits) path[0] = %+v, want DETECTOR=WFC", p[0])
	}
	if p[1].Parameter != "DATE-OBS" || p[1].Key != "2018-01-01" {
		t.Errorf("FileMatches(late.fits) path[1] = %+v, want DATE-OBS=2018-01-01", p[1])
	}
}

func TestFileMatchesFindsTopLevelTerminal(t *testing.T) {
	root := buildSampleTree(t)
	paths := FileMatches(root, "ir_only.fits")
	if len(paths) != 1 || len(paths[0]) != 1 {
		t.Fatalf("FileMatches(ir_only.fits) = %v, want one single-step path", paths)
	}
	if paths[0][0].Parameter != "DETECTOR" || paths[0][0].Key != "IR" {
		t.Errorf("FileMatches(ir_only.fits) path = %+v, want DETECTOR=IR", paths[0])
	}
}

func TestFileMatchesUnknownNameReturnsNoPaths(t *testing.T) {
	root := buildSampleTree(t)
	if paths := FileMatches(root, "nonexistent.fits"); len(paths) != 0 {
		t.Errorf("FileMatches(nonexistent.fits) = %v, want none", paths)
	}
}
