// Package records keeps each patient's consultation and lab report history.
package records

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/healthconnect/telemed/internal/platform/apperror"
	"github.com/healthconnect/telemed/pkg/pagination"
)

type RecordType string

const (
	TypeConsultation RecordType = "consultation"
	TypeLabReport    RecordType = "lab-report"
)

// Tab selects a view over a patient's records.
type Tab string

const (
	TabTimeline      Tab = "timeline"
	TabPrescriptions Tab = "prescriptions"
	TabLabReports    Tab = "lab-reports"
)

// DemoPatientID owns the seeded sample history.
const DemoPatientID = "demo-patient"

var (
	ErrNotFound         = apperror.NotFound(apperror.CodeNotFound, "health record not found")
	ErrMissingPatientID = apperror.InvalidArgument(apperror.CodeInvalidArgument, "patient_id is required")
	ErrInvalidRecord    = apperror.InvalidArgument(apperror.CodeInvalidArgument, "record type must be consultation or lab-report")
	ErrUnknownTab       = apperror.InvalidArgument(apperror.CodeInvalidArgument, "tab must be timeline, prescriptions or lab-reports")
)

type HealthRecord struct {
	ID           string     `json:"id"`
	PatientID    string     `json:"patient_id"`
	Date         string     `json:"date"`
	Type         RecordType `json:"type"`
	Doctor       string     `json:"doctor,omitempty"`
	Diagnosis    string     `json:"diagnosis,omitempty"`
	Prescription string     `json:"prescription,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	Test         string     `json:"test,omitempty"`
	Result       string     `json:"result,omitempty"`
	Reference    string     `json:"reference,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Store is an in-memory record store, safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	records map[string][]HealthRecord // patient ID -> records in insertion order
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{records: make(map[string][]HealthRecord), now: time.Now}
}

// NewSeededStore returns a store holding the sample history of DemoPatientID.
func NewSeededStore() *Store {
	s := NewStore()
	seed := []HealthRecord{
		{
			PatientID:    DemoPatientID,
			Date:         "2025-09-01",
			Type:         TypeConsultation,
			Doctor:       "Dr. Rajesh Kumar",
			Diagnosis:    "Seasonal Fever",
			Prescription: "Paracetamol 500mg twice daily",
			Notes:        "Rest for 3 days, return if fever persists",
		},
		{
			PatientID: DemoPatientID,
			Date:      "2025-08-15",
			Type:      TypeLabReport,
			Test:      "Blood Sugar Test",
			Result:    "Normal - 95 mg/dL",
			Reference: "70-140 mg/dL",
		},
	}
	for _, r := range seed {
		if _, err := s.Add(context.Background(), r); err != nil {
			panic(err)
		}
	}
	return s
}

// SetClock replaces the time source.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Add stores r under its patient, assigning an id and a date when missing.
func (s *Store) Add(ctx context.Context, r HealthRecord) (*HealthRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(r.PatientID) == "" {
		return nil, ErrMissingPatientID
	}
	if r.Type != TypeConsultation && r.Type != TypeLabReport {
		return nil, ErrInvalidRecord
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Date == "" {
		r.Date = now.Format("2006-01-02")
	}
	r.CreatedAt = now
	s.records[r.PatientID] = append(s.records[r.PatientID], r)
	return &r, nil
}

// Remove deletes one record of the patient.
func (s *Store) Remove(ctx context.Context, patientID, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.records[patientID]
	for i := range list {
		if list[i].ID == id {
			s.records[patientID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Timeline returns the patient's records for tab, newest date first, along
// with the total before paging.
func (s *Store) Timeline(ctx context.Context, patientID string, tab Tab, limit, offset int) ([]HealthRecord, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if strings.TrimSpace(patientID) == "" {
		return nil, 0, ErrMissingPatientID
	}
	if tab == "" {
		tab = TabTimeline
	}
	if tab != TabTimeline && tab != TabPrescriptions && tab != TabLabReports {
		return nil, 0, ErrUnknownTab
	}

	s.mu.RLock()
	var out []HealthRecord
	for _, r := range s.records[patientID] {
		if matchesTab(r, tab) {
			out = append(out, r)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return pagination.Apply(out, pagination.Params{Limit: limit, Offset: offset}), len(out), nil
}

func matchesTab(r HealthRecord, tab Tab) bool {
	switch tab {
	case TabPrescriptions:
		return r.Prescription != ""
	case TabLabReports:
		return r.Type == TypeLabReport
	}
	return true
}
