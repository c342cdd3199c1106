package provider

import (
	"github.com/rs/zerolog"

	"github.com/healthconnect/telemed/internal/platform/metrics"
)

type Service struct {
	gen          *Generator
	defaultCount int
	logger       zerolog.Logger
}

func NewService(gen *Generator, defaultCount int, logger zerolog.Logger) *Service {
	return &Service{gen: gen, defaultCount: defaultCount, logger: logger}
}

// List generates providers for a location. A zero count selects the
// configured default.
func (s *Service) List(count int, region, subRegion string) ([]Record, error) {
	if count == 0 {
		count = s.defaultCount
	}
	records, err := s.gen.Generate(count, region, subRegion)
	if err != nil {
		return nil, err
	}
	metrics.ProvidersGenerated.WithLabelValues(region).Add(float64(len(records)))
	s.logger.Debug().
		Str("region", region).
		Str("sub_region", subRegion).
		Int("count", len(records)).
		Msg("generated providers")
	return records, nil
}
