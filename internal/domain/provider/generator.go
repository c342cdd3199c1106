package provider

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/healthconnect/telemed/internal/platform/apperror"
	"github.com/healthconnect/telemed/internal/platform/random"
)

var ErrInvalidCount = apperror.InvalidArgument(apperror.CodeInvalidCount, "count must be at least 1")

// RegionChecker validates region names. *location.Directory satisfies it and
// supplies the error returned for unknown regions.
type RegionChecker interface {
	SubRegionsOf(region string) ([]string, error)
}

// Options holds the fixed values stamped onto every generated record.
type Options struct {
	PrimaryLanguage   string
	SecondaryLanguage string
	Fee               int
}

func DefaultOptions() Options {
	return Options{PrimaryLanguage: "Hindi", SecondaryLanguage: "English", Fee: 149}
}

// Generator produces synthetic provider listings for a location.
type Generator struct {
	regions RegionChecker
	src     random.Source
	opts    Options
}

func NewGenerator(regions RegionChecker, src random.Source, opts Options) *Generator {
	return &Generator{regions: regions, src: src, opts: opts}
}

// Generate returns count freshly built records for region and subRegion.
// subRegion is not checked against the directory. Ids are derived from the
// first code point of subRegion and the slot index, so two sub-regions that
// share a first letter yield the same id sequence.
func (g *Generator) Generate(count int, region, subRegion string) ([]Record, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}
	if _, err := g.regions.SubRegionsOf(region); err != nil {
		return nil, err
	}

	seed := 0
	if r, _ := utf8.DecodeRuneInString(subRegion); r != utf8.RuneError {
		seed = int(r)
	}
	languages := g.languagesFor(region)

	out := make([]Record, count)
	for i := 0; i < count; i++ {
		base := (seed * i) % idModulus
		out[i] = Record{
			ID:              base + i + 1,
			DisplayName:     random.Pick(g.src, namePrefixes) + " " + random.Pick(g.src, nameSuffixes),
			Specialty:       Specialties[i%len(Specialties)],
			YearsExperience: g.src.Number(minExperience, maxExperience),
			Languages:       append([]string(nil), languages...),
			ScheduleWindow:  ScheduleWindow(i),
			Rating:          math.Round(g.src.Float64Range(minRating, maxRating)*10) / 10,
			ConsultationFee: g.opts.Fee,
			Region:          region,
			SubRegion:       subRegion,
		}
	}
	return out, nil
}

func (g *Generator) languagesFor(region string) []string {
	candidates := []string{g.opts.PrimaryLanguage, g.opts.SecondaryLanguage, RegionLanguage(region)}
	out := make([]string, 0, maxLanguages)
	seen := make(map[string]struct{}, len(candidates))
	for _, l := range candidates {
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
		if len(out) == maxLanguages {
			break
		}
	}
	return out
}

// RegionLanguage returns the regional language spoken by providers in region.
func RegionLanguage(region string) string {
	switch region {
	case "Karnataka":
		return "Kannada"
	case "Tamil Nadu":
		return "Tamil"
	case "Andhra Pradesh", "Telangana":
		return "Telugu"
	case "Maharashtra":
		return "Marathi"
	default:
		return "Hindi"
	}
}

// ScheduleWindow formats the availability window for slot i.
func ScheduleWindow(i int) string {
	return fmt.Sprintf("%d AM - %d PM", 9+i%4, (17+i%3)%24)
}
