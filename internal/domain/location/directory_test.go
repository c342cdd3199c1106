package location

import (
	"errors"
	"sort"
	"testing"

	"github.com/healthconnect/telemed/internal/platform/apperror"
)

func TestDefault_EveryRegionSortedAndUnique(t *testing.T) {
	d := Default()
	regions := d.AllRegions()
	if len(regions) != 36 {
		t.Fatalf("expected 36 regions, got %d", len(regions))
	}
	if !sort.StringsAreSorted(regions) {
		t.Error("expected regions sorted ascending")
	}
	for _, r := range regions {
		subs, err := d.SubRegionsOf(r)
		if err != nil {
			t.Fatalf("SubRegionsOf(%q): %v", r, err)
		}
		if len(subs) == 0 {
			t.Errorf("region %q has no sub-regions", r)
		}
		if !sort.StringsAreSorted(subs) {
			t.Errorf("sub-regions of %q not sorted", r)
		}
		seen := map[string]bool{}
		for _, s := range subs {
			if seen[s] {
				t.Errorf("region %q lists %q twice", r, s)
			}
			seen[s] = true
		}
	}
}

func TestSubRegionsOf_Karnataka(t *testing.T) {
	subs, err := Default().SubRegionsOf("Karnataka")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, s := range subs {
		if s == "Mysuru (Mysore)" {
			found = true
		}
	}
	if !found {
		t.Error("expected Karnataka to include Mysuru")
	}
}

func TestSubRegionsOf_UnknownRegion(t *testing.T) {
	_, err := Default().SubRegionsOf("Atlantis")
	if !errors.Is(err, ErrUnknownRegion) {
		t.Fatalf("expected ErrUnknownRegion, got %v", err)
	}
	if !errors.Is(err, apperror.ErrInvalidArgument) {
		t.Error("expected ErrUnknownRegion to be an invalid-argument error")
	}
}

func TestSubRegionsOf_ReturnsCopy(t *testing.T) {
	d := Default()
	subs, _ := d.SubRegionsOf("Goa")
	subs[0] = "Mutated"
	again, _ := d.SubRegionsOf("Goa")
	if again[0] == "Mutated" {
		t.Error("caller mutation leaked into the directory")
	}
}

func TestNew_Sorts(t *testing.T) {
	d, err := New(map[string][]string{"B": {"z", "a"}, "A": {"m"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := d.AllRegions(); got[0] != "A" || got[1] != "B" {
		t.Errorf("unexpected region order %v", got)
	}
	subs, _ := d.SubRegionsOf("B")
	if subs[0] != "a" || subs[1] != "z" {
		t.Errorf("unexpected sub-region order %v", subs)
	}
}

func TestNew_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		table map[string][]string
	}{
		{"empty table", map[string][]string{}},
		{"no sub-regions", map[string][]string{"A": {}}},
		{"duplicate sub-region", map[string][]string{"A": {"x", "x"}}},
		{"blank sub-region", map[string][]string{"A": {" "}}},
		{"blank region", map[string][]string{"": {"x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.table)
			if !errors.Is(err, ErrMalformedDirectory) {
				t.Errorf("expected ErrMalformedDirectory, got %v", err)
			}
		})
	}
}

func TestHasRegionAndSubRegion(t *testing.T) {
	d := Default()
	if !d.HasRegion("Punjab") {
		t.Error("expected Punjab to exist")
	}
	if d.HasRegion("punjab") {
		t.Error("region lookup should be exact")
	}
	if !d.HasSubRegion("Karnataka", "Mysuru (Mysore)") {
		t.Error("expected Karnataka/Mysuru (Mysore) to exist")
	}
	if d.HasSubRegion("Karnataka", "Atlantis") {
		t.Error("did not expect Karnataka/Atlantis")
	}
}
