// Package random provides the injectable random source used by the synthetic
// data generators.
package random

import (
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Source draws uniformly distributed values. Implementations must be safe for
// concurrent use.
type Source interface {
	// Number returns an int in [min, max].
	Number(min, max int) int
	// Float64Range returns a float64 in [min, max).
	Float64Range(min, max float64) float64
}

type fakerSource struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
}

// New returns a gofakeit-backed Source. A zero seed seeds from the clock.
func New(seed uint64) Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &fakerSource{faker: gofakeit.New(seed)}
}

func (s *fakerSource) Number(min, max int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.Number(min, max)
}

func (s *fakerSource) Float64Range(min, max float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.faker.Float64Range(min, max)
}

// Pick returns a uniformly chosen element of items. items must not be empty.
func Pick(src Source, items []string) string {
	return items[src.Number(0, len(items)-1)]
}
