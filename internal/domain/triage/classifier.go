// Package triage classifies patient-reported symptoms into an urgency level.
package triage

import (
	"fmt"
	"strings"

	"github.com/healthconnect/telemed/internal/platform/apperror"
)

var (
	ErrUnknownCategory = apperror.InvalidArgument(apperror.CodeUnknownCategory, "unknown symptom category")
	ErrEmptySymptomSet = apperror.InvalidArgument(apperror.CodeEmptySymptomSet, "at least one symptom is required")
	ErrUnknownSymptom  = apperror.InvalidArgument(apperror.CodeUnknownSymptom, "symptom does not belong to category")
	ErrUnknownSeverity = apperror.InvalidArgument(apperror.CodeUnknownSeverity, "unknown severity")
	ErrUnknownDuration = apperror.InvalidArgument(apperror.CodeUnknownDuration, "unknown duration")
)

var defaultCategories = []Category{
	{
		Key:      "fever",
		Symptoms: []string{"High temperature", "Chills", "Body ache", "Headache"},
		Advice:   "Rest, hydration, consult doctor if persists >3 days",
	},
	{
		Key:      "digestive",
		Symptoms: []string{"Stomach pain", "Nausea", "Vomiting", "Diarrhea"},
		Advice:   "Light food, ORS, medical consultation recommended",
	},
	{
		Key:      "respiratory",
		Symptoms: []string{"Cough", "Cold", "Breathing difficulty", "Chest pain"},
		Advice:   "Steam inhalation, rest, immediate medical attention for breathing issues",
	},
}

// urgentMarkers are matched case-sensitively, so "Chest pain" does not match
// "chest pain".
var urgentMarkers = []string{"difficulty", "chest pain"}

func isUrgentSymptom(label string) bool {
	for _, m := range urgentMarkers {
		if strings.Contains(label, m) {
			return true
		}
	}
	return false
}

// Classifier maps an Input onto an urgency level. It holds only immutable
// tables and is safe for concurrent use.
type Classifier struct {
	categories []Category
	byKey      map[string]int
}

func NewClassifier(categories []Category) *Classifier {
	c := &Classifier{
		categories: make([]Category, len(categories)),
		byKey:      make(map[string]int, len(categories)),
	}
	for i, cat := range categories {
		cat.Symptoms = append([]string(nil), cat.Symptoms...)
		c.categories[i] = cat
		c.byKey[strings.ToLower(cat.Key)] = i
	}
	return c
}

// Default returns a classifier over the built-in fever, digestive and
// respiratory categories.
func Default() *Classifier {
	return NewClassifier(defaultCategories)
}

// Categories returns a copy of the category table.
func (c *Classifier) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		cat.Symptoms = append([]string(nil), cat.Symptoms...)
		out[i] = cat
	}
	return out
}

// Classify validates in and returns its urgency. Severity and symptom
// markers are checked first, then moderate severity or a duration over a
// week, and everything else is routine.
func (c *Classifier) Classify(in Input) (*Result, error) {
	idx, ok := c.byKey[strings.ToLower(strings.TrimSpace(in.Category))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, in.Category)
	}
	cat := c.categories[idx]

	if len(in.Symptoms) == 0 {
		return nil, ErrEmptySymptomSet
	}
	for _, s := range in.Symptoms {
		if !cat.hasSymptom(s) {
			return nil, fmt.Errorf("%w: %q in %s", ErrUnknownSymptom, s, cat.Key)
		}
	}

	severity := Severity(strings.ToLower(strings.TrimSpace(in.Severity)))
	if !severity.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSeverity, in.Severity)
	}
	duration, ok := ParseDuration(in.Duration)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDuration, in.Duration)
	}

	return &Result{
		Urgency:        urgencyOf(in.Symptoms, severity, duration),
		Recommendation: cat.Advice,
		Category:       cat.Key,
		Symptoms:       append([]string(nil), in.Symptoms...),
		Severity:       severity,
		Duration:       duration,
	}, nil
}

func urgencyOf(symptoms []string, severity Severity, duration Duration) Urgency {
	if severity == SeveritySevere {
		return UrgencyUrgent
	}
	for _, s := range symptoms {
		if isUrgentSymptom(s) {
			return UrgencyUrgent
		}
	}
	if severity == SeverityModerate || duration == DurationMoreThanWeek {
		return UrgencyModerate
	}
	return UrgencyRoutine
}
