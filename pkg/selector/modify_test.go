package selector

import "testing"

func TestModifyReplacesExistingTerminal(t *testing.T) {
	m, err := NewMatch([]string{"DETECTOR"}, []MatchSelection{
		{RawKey: []string{"WFC"}, Child: "old.fits"},
	}, nil)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	th := &TreeHeader{Parkey: [][]string{{"DETECTOR"}}, Classes: []string{"Match"}}
	newRoot, err := Modify(m, Header{"DETECTOR": "WFC"}, "new.fits", nil, th)
	if err != nil {
		t.Fatalf("Modify: %v", err)
	}
	res, err := newRoot.Choose(Header{"DETECTOR": "WFC"})
	if err != nil {
		t.Fatalf("Choose: %v", err)
	}
	if v, _ := res.Single(); v != "new.fits" {
		t.Errorf("Choose after Modify = %q, want new.fits", v)
	}
}

func TestModifyRecursesIntoNestedSelectionByClassList(t *testing.T) {
	u, err := NewUseAfter([]string{"DATE-OBS"}, []KV{
		{Key: "2015-01-01", Child: "old.fits"},
	}, nil)
	if err != nil {
		t.Fatalf("NewUseAfter: %v", err)
	}
	m, err := NewMatch([]string{"DETECTOR"}, []MatchSelection{
		{RawKey: []string{"WFC"}, Child: u},
	}, nil)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	th := &TreeHeader{
		Parkey:  [][]string{{"DETECTOR"}, {"DATE-OBS"}},
		Classes: []string{"Match", "UseAfter"},
	}
	newRoot, err := Modify(m, Header{"DETECTOR": "WFC", "DATE-OBS": "2020-01-01"}, "new.fits", nil, th)
	if err != nil {
		t.Fatalf("Modify: %v", err)
	}
	res, err := newRoot.Choose(Header{"DETECTOR": "WFC", "DATE-OBS": "2025-01-01"})
	if err != nil {
		t.Fatalf("Choose: %v", err)
	}
	if v, _ := res.Single(); v != "new.fits" {
		t.Errorf("Choose after Modify = %q, want new.fits", v)
	}
	// The pre-existing 2015 selection must survive untouched.
	res, err = newRoot.Choose(Header{"DETECTOR": "WFC", "DATE-OBS": "2016-01-01"})
	if err != nil {
		t.Fatalf("Choose: %v", err)
	}
	if v, _ := res.Single(); v != "old.fits" {
		t.Errorf("Choose(2016) after Modify = %q, want old.fits to survive", v)
	}
}

func TestModifyBuildsMissingTailWhenHeaderMatchesNoExistingSelection(t *testing.T) {
	m, err := NewMatch([]string{"DETECTOR"}, []MatchSelection{
		{RawKey: []string{"WFC"}, Child: "wfc.fits"},
	}, nil)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	th := &TreeHeader{Parkey: [][]string{{"DETECTOR"}}, Classes: []string{"Match"}}
	newRoot, err := Modify(m, Header{"DETECTOR": "IR"}, "ir.fits", nil, th)
	if err != nil {
		t.Fatalf("Modify: %v", err)
	}
	res, err := newRoot.Choose(Header{"DETECTOR": "IR"})
	if err != nil {
		t.Fatalf("Choose: %v", err)
	}
	if v, _ := res.Single(); v != "ir.fits" {
		t.Errorf("Choose(IR) after Modify = %q, want ir.fits", v)
	}
	// Existing selection must still resolve.
	res, err = newRoot.Choose(Header{"DETECTOR": "WFC"})
	if err != nil {
		t.Fatalf("Choose: %v", err)
	}
	if v, _ := res.Single(); v != "wfc.fits" {
		t.Errorf("Choose(WFC) after Modify = %q, want wfc.fits", v)
	}
}

func TestModifyRejectsMissingHeaderField(t *testing.T) {
	m, err := NewMatch([]string{"DETECTOR"}, []MatchSelection{
		{RawKey: []string{"WFC"}, Child: "wfc.fits"},
	}, nil)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	th := &TreeHeader{Parkey: [][]string{{"DETECTOR"}}, Classes: []string{"Match"}}
	if _, err := Modify(m, Header{}, "x.fits", nil, th); err == nil {
		t.Fatal("expected MissingParameter")
	} else if kind, ok := KindOf(err); !ok || kind != MissingParameter {
		t.Errorf("expected MissingParameter, got %v", err)
	}
}
