package triage

import "strings"

type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityMild, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}

type Duration string

const (
	DurationLessThanDay  Duration = "less-than-day"
	DurationOneToThree   Duration = "1-3-days"
	DurationThreeToSeven Duration = "3-7-days"
	DurationMoreThanWeek Duration = "more-than-week"
)

var durationAliases = map[string]Duration{
	"<1 day":   DurationLessThanDay,
	"1-3 days": DurationOneToThree,
	"3-7 days": DurationThreeToSeven,
	">1 week":  DurationMoreThanWeek,
}

// ParseDuration accepts the canonical duration keys and their display forms.
func ParseDuration(s string) (Duration, bool) {
	s = strings.TrimSpace(s)
	switch d := Duration(s); d {
	case DurationLessThanDay, DurationOneToThree, DurationThreeToSeven, DurationMoreThanWeek:
		return d, true
	}
	d, ok := durationAliases[s]
	return d, ok
}

type Urgency string

const (
	UrgencyRoutine  Urgency = "routine"
	UrgencyModerate Urgency = "moderate"
	UrgencyUrgent   Urgency = "urgent"
)

// Category is a symptom family with its fixed list of symptom labels and
// the advice shown for any assessment in it.
type Category struct {
	Key      string   `json:"key"`
	Symptoms []string `json:"symptoms"`
	Advice   string   `json:"advice"`
}

func (c Category) hasSymptom(label string) bool {
	for _, s := range c.Symptoms {
		if s == label {
			return true
		}
	}
	return false
}

// Input is one patient self-assessment.
type Input struct {
	Category string   `json:"category"`
	Symptoms []string `json:"symptoms"`
	Severity string   `json:"severity"`
	Duration string   `json:"duration"`
	Notes    string   `json:"notes,omitempty"`
}

// Result is the outcome of classifying an Input. Category and Duration are
// normalized to their canonical keys.
type Result struct {
	Urgency        Urgency  `json:"urgency"`
	Recommendation string   `json:"recommendation"`
	Category       string   `json:"category"`
	Symptoms       []string `json:"symptoms"`
	Severity       Severity `json:"severity"`
	Duration       Duration `json:"duration"`
}
