package triage

import (
	"github.com/rs/zerolog"

	"github.com/healthconnect/telemed/internal/platform/metrics"
)

type Service struct {
	classifier *Classifier
	logger     zerolog.Logger
}

func NewService(classifier *Classifier, logger zerolog.Logger) *Service {
	return &Service{classifier: classifier, logger: logger}
}

func (s *Service) Categories() []Category {
	return s.classifier.Categories()
}

func (s *Service) Assess(in Input) (*Result, error) {
	res, err := s.classifier.Classify(in)
	if err != nil {
		s.logger.Debug().Err(err).Str("category", in.Category).Msg("triage input rejected")
		return nil, err
	}
	metrics.TriageAssessments.WithLabelValues(res.Category, string(res.Urgency)).Inc()
	s.logger.Debug().
		Str("category", res.Category).
		Str("severity", string(res.Severity)).
		Str("duration", string(res.Duration)).
		Str("urgency", string(res.Urgency)).
		Msg("triage assessed")
	return res, nil
}
