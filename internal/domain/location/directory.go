// Package location holds the static region → sub-region directory used to
// scope provider listings and bookings.
package location

import (
	"fmt"
	"sort"
	"strings"

	"github.com/healthconnect/telemed/internal/platform/apperror"
)

var (
	ErrUnknownRegion      = apperror.InvalidArgument(apperror.CodeUnknownRegion, "unknown region")
	ErrMalformedDirectory = apperror.Internal(apperror.CodeMalformedDirectory, "malformed location directory")
)

// Directory is an immutable mapping of region name to its sub-regions. It is
// safe for concurrent use.
type Directory struct {
	regions    map[string][]string
	sortedKeys []string
}

// New validates table and builds a Directory from it. Every region must have
// a non-empty name, at least one sub-region, and no duplicate or blank
// sub-regions. The table is copied; later changes to it are not observed.
func New(table map[string][]string) (*Directory, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("%w: no regions", ErrMalformedDirectory)
	}

	d := &Directory{regions: make(map[string][]string, len(table))}
	for region, subs := range table {
		if strings.TrimSpace(region) == "" {
			return nil, fmt.Errorf("%w: blank region name", ErrMalformedDirectory)
		}
		if len(subs) == 0 {
			return nil, fmt.Errorf("%w: region %q has no sub-regions", ErrMalformedDirectory, region)
		}
		seen := make(map[string]struct{}, len(subs))
		sorted := make([]string, 0, len(subs))
		for _, s := range subs {
			if strings.TrimSpace(s) == "" {
				return nil, fmt.Errorf("%w: region %q has a blank sub-region", ErrMalformedDirectory, region)
			}
			if _, dup := seen[s]; dup {
				return nil, fmt.Errorf("%w: region %q lists %q twice", ErrMalformedDirectory, region, s)
			}
			seen[s] = struct{}{}
			sorted = append(sorted, s)
		}
		sort.Strings(sorted)
		d.regions[region] = sorted
		d.sortedKeys = append(d.sortedKeys, region)
	}
	sort.Strings(d.sortedKeys)
	return d, nil
}

// Default returns the built-in Indian state and district directory. It panics
// if the built-in table is malformed.
func Default() *Directory {
	d, err := New(defaultTable)
	if err != nil {
		panic(err)
	}
	return d
}

// AllRegions returns every region name in ascending order.
func (d *Directory) AllRegions() []string {
	out := make([]string, len(d.sortedKeys))
	copy(out, d.sortedKeys)
	return out
}

// SubRegionsOf returns the sub-regions of region in ascending order. The
// returned slice is a copy.
func (d *Directory) SubRegionsOf(region string) ([]string, error) {
	subs, ok := d.regions[region]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRegion, region)
	}
	out := make([]string, len(subs))
	copy(out, subs)
	return out, nil
}

func (d *Directory) HasRegion(region string) bool {
	_, ok := d.regions[region]
	return ok
}

// HasSubRegion reports whether subRegion is listed under region.
func (d *Directory) HasSubRegion(region, subRegion string) bool {
	subs, ok := d.regions[region]
	if !ok {
		return false
	}
	i := sort.SearchStrings(subs, subRegion)
	return i < len(subs) && subs[i] == subRegion
}
