// Package appointment books, lists and cancels consultation slots with the
// synthetic providers.
package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/healthconnect/telemed/internal/domain/location"
	"github.com/healthconnect/telemed/internal/platform/apperror"
	"github.com/healthconnect/telemed/internal/platform/metrics"
	"github.com/healthconnect/telemed/pkg/pagination"
)

var (
	ErrMissingPatientID        = apperror.InvalidArgument(apperror.CodeInvalidArgument, "patient_id is required")
	ErrMissingProvider         = apperror.InvalidArgument(apperror.CodeInvalidArgument, "provider id and name are required")
	ErrMissingLocation         = apperror.InvalidArgument(apperror.CodeInvalidArgument, "region and sub_region are required")
	ErrInvalidDate             = apperror.InvalidArgument(apperror.CodeInvalidArgument, "date must be YYYY-MM-DD")
	ErrPastDate                = apperror.InvalidArgument(apperror.CodeInvalidArgument, "date is in the past")
	ErrInvalidTimeSlot         = apperror.InvalidArgument(apperror.CodeInvalidArgument, "time is not a bookable slot")
	ErrInvalidConsultationType = apperror.InvalidArgument(apperror.CodeInvalidArgument, "consultation_type must be video or audio")
	ErrSlotTaken               = apperror.Conflict(apperror.CodeConflict, "slot is already booked")
	ErrNotFound                = apperror.NotFound(apperror.CodeNotFound, "appointment not found")
	ErrWrongPatient            = apperror.Forbidden(apperror.CodeForbidden, "patient is not authorized to access this appointment")
	ErrNotConfirmed            = apperror.Conflict(apperror.CodeConflict, "appointment is not confirmed")
	ErrConsultationInProgress  = apperror.Conflict(apperror.CodeConflict, "a consultation is in progress for this appointment")
)

// RegionChecker reports whether a region exists. *location.Directory
// satisfies it.
type RegionChecker interface {
	HasRegion(region string) bool
}

// SessionTracker reports whether a consultation is open on an appointment.
type SessionTracker interface {
	HasActiveSession(appointmentID string) bool
}

// SlotAvailability is one time slot on a provider's day.
type SlotAvailability struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

type Service struct {
	repo       Repository
	regions    RegionChecker
	defaultFee int
	logger     zerolog.Logger
	now        func() time.Time
	sessions   SessionTracker
}

func NewService(repo Repository, regions RegionChecker, defaultFee int, logger zerolog.Logger) *Service {
	return &Service{repo: repo, regions: regions, defaultFee: defaultFee, logger: logger, now: time.Now}
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// SetSessionTracker makes Cancel refuse appointments with an open
// consultation.
func (s *Service) SetSessionTracker(t SessionTracker) {
	s.sessions = t
}

func (s *Service) Book(ctx context.Context, req BookingRequest) (*Appointment, error) {
	if err := s.validate(req); err != nil {
		metrics.Bookings.WithLabelValues("rejected").Inc()
		return nil, err
	}

	fee := req.Provider.Fee
	if fee <= 0 {
		fee = s.defaultFee
	}
	now := s.now()
	a := &Appointment{
		ID:               uuid.New().String(),
		PatientID:        req.PatientID,
		Provider:         req.Provider,
		Region:           req.Region,
		SubRegion:        req.SubRegion,
		Location:         req.SubRegion + ", " + req.Region,
		Date:             req.Date,
		Time:             req.Time,
		ConsultationType: req.ConsultationType,
		TypeLabel:        req.ConsultationType.Label(),
		Symptoms:         strings.TrimSpace(req.Symptoms),
		Fee:              fee,
		Status:           StatusConfirmed,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	a.Provider.Fee = fee

	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			metrics.Bookings.WithLabelValues("conflict").Inc()
		}
		return nil, err
	}

	metrics.Bookings.WithLabelValues("confirmed").Inc()
	s.logger.Info().
		Str("appointment_id", a.ID).
		Str("patient_id", a.PatientID).
		Int("provider_id", a.Provider.ID).
		Str("location", a.Location).
		Str("date", a.Date).
		Str("time", a.Time).
		Msg("appointment booked")
	return a, nil
}

func (s *Service) validate(req BookingRequest) error {
	if strings.TrimSpace(req.PatientID) == "" {
		return ErrMissingPatientID
	}
	if req.Provider.ID <= 0 || strings.TrimSpace(req.Provider.Name) == "" {
		return ErrMissingProvider
	}
	if req.Region == "" || req.SubRegion == "" {
		return ErrMissingLocation
	}
	if !s.regions.HasRegion(req.Region) {
		return fmt.Errorf("%w: %q", location.ErrUnknownRegion, req.Region)
	}
	day, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDate, req.Date)
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if day.Before(today) {
		return fmt.Errorf("%w: %s", ErrPastDate, req.Date)
	}
	if !validTimeSlot(req.Time) {
		return fmt.Errorf("%w: %q", ErrInvalidTimeSlot, req.Time)
	}
	if req.ConsultationType.Label() == "" {
		return fmt.Errorf("%w: %q", ErrInvalidConsultationType, req.ConsultationType)
	}
	return nil
}

func validTimeSlot(t string) bool {
	for _, slot := range TimeSlots {
		if slot == t {
			return true
		}
	}
	return false
}

// Availability lists every time slot on date for the provider, marking the
// ones already booked.
func (s *Service) Availability(ctx context.Context, p ProviderSnapshot, region, subRegion, date string) ([]SlotAvailability, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	out := make([]SlotAvailability, len(TimeSlots))
	for i, tm := range TimeSlots {
		taken, err := s.repo.SlotTaken(ctx, slotKey(p, region, subRegion, date, tm))
		if err != nil {
			return nil, err
		}
		out[i] = SlotAvailability{Time: tm, Available: !taken}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id, patientID string) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.PatientID != patientID {
		return nil, ErrWrongPatient
	}
	return a, nil
}

// Cancel cancels a confirmed appointment and frees its slot.
func (s *Service) Cancel(ctx context.Context, id, patientID, reason string) (*Appointment, error) {
	if _, err := s.Get(ctx, id, patientID); err != nil {
		return nil, err
	}
	if s.sessions != nil && s.sessions.HasActiveSession(id) {
		return nil, ErrConsultationInProgress
	}
	now := s.now()
	a, err := s.repo.Transition(ctx, id, StatusConfirmed, StatusCancelled, func(a *Appointment) {
		a.CancelReason = strings.TrimSpace(reason)
		a.UpdatedAt = now
	})
	if err != nil {
		return nil, err
	}
	metrics.Bookings.WithLabelValues("cancelled").Inc()
	s.logger.Info().Str("appointment_id", a.ID).Msg("appointment cancelled")
	return a, nil
}

// Complete marks a confirmed appointment as completed.
func (s *Service) Complete(ctx context.Context, id string) (*Appointment, error) {
	now := s.now()
	return s.repo.Transition(ctx, id, StatusConfirmed, StatusCompleted, func(a *Appointment) {
		a.UpdatedAt = now
	})
}

// ListByPatient returns one page of the patient's appointments, newest first,
// and the total number matching.
func (s *Service) ListByPatient(ctx context.Context, patientID string, status Status, limit, offset int) ([]*Appointment, int, error) {
	if strings.TrimSpace(patientID) == "" {
		return nil, 0, ErrMissingPatientID
	}
	all, err := s.repo.ListByPatient(ctx, patientID, status)
	if err != nil {
		return nil, 0, err
	}
	return pagination.Apply(all, pagination.Params{Limit: limit, Offset: offset}), len(all), nil
}
