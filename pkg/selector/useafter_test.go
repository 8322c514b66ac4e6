package selector

import "testing"

func useAfterFixture(t *testing.T) *UseAfter {
	t.Helper()
	u, err := NewUseAfter([]string{"DATE-OBS", "TIME-OBS"}, []KV{
		{Key: "2015-01-01 00:00:00", Child: "early.fits"},
		{Key: "2016-06-15 12:00:00", Child: "mid.fits"},
		{Key: "2018-03-01 00:00:00", Child: "late.fits"},
	}, nil)
	if err != nil {
		t.Fatalf("NewUseAfter: %v", err)
	}
	return u
}

func TestUseAfterChoosesGreatestKeyNotAfterLookup(t *testing.T) {
	u := useAfterFixture(t)
	cases := []struct {
		dateObs, timeObs string
		want             string
	}{
		{"2015-01-01", "00:00:00", "early.fits"},
		{"2017-01-01", "00:00:00", "mid.fits"},
		{"2020-01-01", "00:00:00", "late.fits"},
	}
	for _, c := range cases {
		res, err := u.Choose(Header{"DATE-OBS": c.dateObs, "TIME-OBS": c.timeObs})
		if err != nil {
			t.Fatalf("Choose(%s %s): %v", c.dateObs, c.timeObs, err)
		}
		if v, _ := res.Single(); v != c.want {
			t.Errorf("Choose(%s %s) = %q, want %q", c.dateObs, c.timeObs, v, c.want)
		}
	}
}

func TestUseAfterRejectsLookupBeforeAllKeys(t *testing.T) {
	u := useAfterFixture(t)
	_, err := u.Choose(Header{"DATE-OBS": "2010-01-01", "TIME-OBS": "00:00:00"})
	if err == nil {
		t.Fatal("expected NoUseAfter for a lookup before every key")
	}
	if kind, ok := KindOf(err); !ok || kind != NoUseAfter {
		t.Errorf("expected NoUseAfter, got %v", err)
	}
}

func TestUseAfterRejectsBadDate(t *testing.T) {
	if _, err := NewUseAfter([]string{"DATE-OBS"}, []KV{{Key: "not-a-date", Child: "x.fits"}}, nil); err == nil {
		t.Fatal("expected InvalidDateTime")
	} else if kind, ok := KindOf(err); !ok || kind != InvalidDateTime {
		t.Errorf("expected InvalidDateTime, got %v", err)
	}
}

func TestUseAfterMergeUnionsByKeyKeepingGreaterChild(t *testing.T) {
	a, _ := NewUseAfter([]string{"DATE-OBS"}, []KV{
		{Key: "2015-01-01", Child: "a1.fits"},
		{Key: "2016-01-01", Child: "shared_old.fits"},
	}, nil)
	b, _ := NewUseAfter([]string{"DATE-OBS"}, []KV{
		{Key: "2016-01-01", Child: "shared_new.fits"},
		{Key: "2017-01-01", Child: "b1.fits"},
	}, nil)
	merged, err := a.mergeWith(b)
	if err != nil {
		t.Fatalf("mergeWith: %v", err)
	}
	res, err := merged.Choose(Header{"DATE-OBS": "2016-06-01"})
	if err != nil {
		t.Fatalf("Choose: %v", err)
	}
	// On the 2016-01-01 collision the lexicographically greater child
	// survives: "shared_old.fits" > "shared_new.fits" ('o' > 'n').
	if v, _ := res.Single(); v != "shared_old.fits" {
		t.Errorf("merged Choose = %q, want shared_old.fits", v)
	}
}

func TestUseAfterMergeRequiresSameParams(t *testing.T) {
	a, _ := NewUseAfter([]string{"DATE-OBS"}, []KV{{Key: "2015-01-01", Child: "a.fits"}}, nil)
	b, _ := NewUseAfter([]string{"DATE-OBS", "TIME-OBS"}, []KV{{Key: "2015-01-01 00:00:00", Child: "b.fits"}}, nil)
	if _, err := a.mergeWith(b); err == nil {
		t.Fatal("expected AmbiguousMerge for mismatched parameter lists")
	} else if kind, ok := KindOf(err); !ok || kind != AmbiguousMerge {
		t.Errorf("expected AmbiguousMerge, got %v", err)
	}
}

func TestUseAfterUpsertReplacesExistingKey(t *testing.T) {
	u := useAfterFixture(t)
	n, err := u.upsertRaw([]string{"2016-06-15", "12:00:00"}, "replaced.fits", nil)
	if err != nil {
		t.Fatalf("upsertRaw: %v", err)
	}
	res, err := n.Choose(Header{"DATE-OBS": "2016-06-15", "TIME-OBS": "12:00:00"})
	if err != nil {
		t.Fatalf("Choose: %v", err)
	}
	if v, _ := res.Single(); v != "replaced.fits" {
		t.Errorf("Choose after upsert = %q, want replaced.fits", v)
	}
}

func TestClosestTimePicksMinimumAbsoluteDelta(t *testing.T) {
	c, err := NewClosestTime([]string{"DATE-OBS"}, []KV{
		{Key: "2015-01-01", Child: "a.fits"},
		{Key: "2018-01-01", Child: "b.fits"},
	}, nil)
	if err != nil {
		t.Fatalf("NewClosestTime: %v", err)
	}
	res, err := c.Choose(Header{"DATE-OBS": "2017-06-01"})
	if err != nil {
		t.Fatalf("Choose: %v", err)
	}
	if v, _ := res.Single(); v != "b.fits" {
		t.Errorf("Choose(2017-06-01) = %q, want b.fits (closer to 2018-01-01)", v)
	}
}

// TestClosestTimeNestedUnderGeometricallyNearestOverSelectVersion is the
// worked example of GeometricallyNearest(effective_wavelength) with
// ClosestTime(time) and SelectVersion(sw_version) nested beneath it.
func TestClosestTimeNestedUnderGeometricallyNearestOverSelectVersion(t *testing.T) {
	ct12, err := NewClosestTime([]string{"time"}, []KV{
		{Key: "2017-04-24 00:00:00", Child: mustSelectVersion(t, "sw_version", []KV{
			{Key: "<5", Child: "cref_flatfield_73.fits"},
			{Key: "default", Child: "cref_flatfield_123.fits"},
		})},
		{Key: "2018-02-01 00:00:00", Child: mustSelectVersion(t, "sw_version", []KV{
			{Key: "<5", Child: "cref_flatfield_223.fits"},
			{Key: "default", Child: "cref_flatfield_222.fits"},
		})},
		{Key: "2019-04-15 00:00:00", Child: mustSelectVersion(t, "sw_version", []KV{
			{Key: "<5", Child: "cref_flatfield_518.fits"},
			{Key: "default", Child: "cref_flatfield_517.fits"},
		})},
	}, nil)
	if err != nil {
		t.Fatalf("NewClosestTime: %v", err)
	}
	ct15, err := NewClosestTime([]string{"time"}, []KV{
		{Key: "2017-04-24 00:00:00", Child: mustSelectVersion(t, "sw_version", []KV{
			{Key: "<5", Child: "cref_flatfield_74.fits"},
			{Key: "default", Child: "cref_flatfield_124.fits"},
		})},
		{Key: "2019-01-01 00:00:00", Child: mustSelectVersion(t, "sw_version", []KV{
			{Key: "<5", Child: "cref_flatfield_490.fits"},
			{Key: "default", Child: "cref_flatfield_489.fits"},
		})},
	}, nil)
	if err != nil {
		t.Fatalf("NewClosestTime: %v", err)
	}
	sv50 := mustSelectVersion(t, "sw_version", []KV{
		{Key: "<5", Child: "cref_flatfield_87.fits"},
		{Key: "default", Child: "cref_flatfield_137.fits"},
	})

	g, err := NewGeometricallyNearest("effective_wavelength", []KV{
		{Key: "1.2", Child: ct12},
		{Key: "1.5", Child: ct15},
		{Key: "5.0", Child: sv50},
	}, nil)
	if err != nil {
		t.Fatalf("NewGeometricallyNearest: %v", err)
	}

	res, err := g.Choose(Header{
		"effective_wavelength": "1.6",
		"time":                 "2019-01-02 00:00:00",
		"sw_version":           "1.4",
	})
	if err != nil {
		t.Fatalf("Choose: %v", err)
	}
	if v, ok := res.Single(); !ok || v != "cref_flatfield_490.fits" {
		t.Errorf("Choose = %v, want single cref_flatfield_490.fits", res.Values)
	}
}

func mustSelectVersion(t *testing.T, param string, selections []KV) *SelectVersion {
	t.Helper()
	sv, err := NewSelectVersion(param, selections, nil)
	if err != nil {
		t.Fatalf("NewSelectVersion: %v", err)
	}
	return sv
}

func TestClosestTimeDoesNotMerge(t *testing.T) {
	c, _ := NewClosestTime([]string{"DATE-OBS"}, []KV{{Key: "2015-01-01", Child: "a.fits"}}, nil)
	other, _ := NewClosestTime([]string{"DATE-OBS"}, []KV{{Key: "2016-01-01", Child: "b.fits"}}, nil)
	if _, err := c.mergeWith(other); err == nil {
		t.Fatal("ClosestTime must never merge")
	}
}
