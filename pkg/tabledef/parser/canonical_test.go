package parser

import "testing"

func TestCanonicalKeyOrderIndependence(t *testing.T) {
	a := DefaultOptions()
	a.PKMarkers = []string{"〇", "●", "Y"}
	b := DefaultOptions()
	b.PKMarkers = []string{"Y", "〇", "●"}

	if CanonicalKey(a) != CanonicalKey(b) {
		t.Error("marker ordering must not change the canonical key")
	}
}

func TestCanonicalKeyDefaults(t *testing.T) {
	// The zero Options and the explicit defaults canonicalize identically.
	if CanonicalKey(Options{}) != CanonicalKey(DefaultOptions()) {
		t.Error("zero options must canonicalize to the defaults")
	}
}

func TestCanonicalKeyDistinguishesOptions(t *testing.T) {
	base := DefaultOptions()

	changed := base
	changed.MaxConsecutiveEmptyRows = 5
	if CanonicalKey(base) == CanonicalKey(changed) {
		t.Error("empty-row allowance must affect the key")
	}

	changed = base
	changed.PKMarkers = []string{"●"}
	if CanonicalKey(base) == CanonicalKey(changed) {
		t.Error("marker set must affect the key")
	}

	changed = base
	ro := DefaultRefOptions()
	ro.MaxMatches = 1
	changed.Reference = &ro
	if CanonicalKey(base) == CanonicalKey(changed) {
		t.Error("reference budget must affect the key")
	}
}
