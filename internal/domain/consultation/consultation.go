// Package consultation runs simulated video/audio consultations against
// booked appointments. No media is exchanged; a session only tracks timing
// and produces the follow-up health record.
package consultation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/healthconnect/telemed/internal/domain/appointment"
	"github.com/healthconnect/telemed/internal/domain/records"
	"github.com/healthconnect/telemed/internal/platform/apperror"
	"github.com/healthconnect/telemed/internal/platform/metrics"
)

var (
	ErrSessionNotFound = apperror.NotFound(apperror.CodeNotFound, "consultation session not found")
	ErrSessionActive   = apperror.Conflict(apperror.CodeConflict, "a consultation is already in progress for this appointment")
	ErrSessionEnded    = apperror.Conflict(apperror.CodeConflict, "consultation has already ended")
	ErrSessionClosing  = apperror.Conflict(apperror.CodeConflict, "consultation is already being ended")
)

const (
	completedDiagnosis    = "Video consultation completed"
	completedPrescription = "Prescription sent to pharmacy"
	completedNotes        = "Follow up in 1 week if symptoms persist"
)

// Appointments is the subset of the appointment service a session needs.
type Appointments interface {
	Get(ctx context.Context, id, patientID string) (*appointment.Appointment, error)
	Complete(ctx context.Context, id string) (*appointment.Appointment, error)
}

// RecordWriter stores the record produced when a consultation ends. Remove
// takes it back when the appointment cannot be completed.
type RecordWriter interface {
	Add(ctx context.Context, r records.HealthRecord) (*records.HealthRecord, error)
	Remove(ctx context.Context, patientID, id string) error
}

type Session struct {
	ID            string     `json:"id"`
	AppointmentID string     `json:"appointment_id"`
	PatientID     string     `json:"patient_id"`
	Doctor        string     `json:"doctor"`
	Type          string     `json:"type"`
	StartedAt     time.Time  `json:"started_at"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
}

type Summary struct {
	Session  Session              `json:"session"`
	Duration string               `json:"duration"`
	Record   records.HealthRecord `json:"record"`
}

type Service struct {
	appointments Appointments
	records      RecordWriter
	logger       zerolog.Logger
	now          func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session // session ID -> session
	active   map[string]string   // appointment ID -> open session ID
	closing  map[string]bool     // session IDs with an End in flight
}

func NewService(appointments Appointments, rw RecordWriter, logger zerolog.Logger) *Service {
	return &Service{
		appointments: appointments,
		records:      rw,
		logger:       logger,
		now:          time.Now,
		sessions:     make(map[string]*Session),
		active:       make(map[string]string),
		closing:      make(map[string]bool),
	}
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Start opens a session for a confirmed appointment owned by patientID.
func (s *Service) Start(ctx context.Context, appointmentID, patientID string) (*Session, error) {
	appt, err := s.appointments.Get(ctx, appointmentID, patientID)
	if err != nil {
		return nil, err
	}
	if appt.Status != appointment.StatusConfirmed {
		return nil, fmt.Errorf("%w: status is %s", appointment.ErrNotConfirmed, appt.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.active[appointmentID]; busy {
		return nil, ErrSessionActive
	}
	sess := &Session{
		ID:            uuid.New().String(),
		AppointmentID: appt.ID,
		PatientID:     appt.PatientID,
		Doctor:        appt.Provider.Name,
		Type:          appt.TypeLabel,
		StartedAt:     s.now(),
	}
	s.sessions[sess.ID] = sess
	s.active[appointmentID] = sess.ID

	metrics.Consultations.WithLabelValues("started").Inc()
	s.logger.Info().Str("session_id", sess.ID).Str("appointment_id", appointmentID).Msg("consultation started")
	return copySession(sess), nil
}

// End completes the session's appointment and records the visit, then
// closes the session. If either step fails nothing changes and End can be
// retried.
func (s *Service) End(ctx context.Context, sessionID string) (*Summary, error) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if sess.EndedAt != nil {
		s.mu.Unlock()
		return nil, ErrSessionEnded
	}
	if s.closing[sessionID] {
		s.mu.Unlock()
		return nil, ErrSessionClosing
	}
	s.closing[sessionID] = true
	snapshot := copySession(sess)
	s.mu.Unlock()

	ended := s.now()
	rec, err := s.records.Add(ctx, records.HealthRecord{
		PatientID:    snapshot.PatientID,
		Date:         ended.Format("2006-01-02"),
		Type:         records.TypeConsultation,
		Doctor:       snapshot.Doctor,
		Diagnosis:    completedDiagnosis,
		Prescription: completedPrescription,
		Notes:        completedNotes,
	})
	if err != nil {
		s.abortEnd(sessionID)
		return nil, err
	}
	if _, err := s.appointments.Complete(ctx, snapshot.AppointmentID); err != nil {
		if rmErr := s.records.Remove(context.WithoutCancel(ctx), rec.PatientID, rec.ID); rmErr != nil {
			s.logger.Error().Err(rmErr).Str("record_id", rec.ID).Msg("failed to remove record of unfinished consultation")
		}
		s.abortEnd(sessionID)
		return nil, err
	}

	s.mu.Lock()
	sess.EndedAt = &ended
	delete(s.active, sess.AppointmentID)
	delete(s.closing, sessionID)
	snapshot = copySession(sess)
	s.mu.Unlock()

	duration := FormatDuration(ended.Sub(snapshot.StartedAt))
	metrics.Consultations.WithLabelValues("ended").Inc()
	s.logger.Info().Str("session_id", sessionID).Str("duration", duration).Msg("consultation ended")
	return &Summary{Session: *snapshot, Duration: duration, Record: *rec}, nil
}

func (s *Service) abortEnd(sessionID string) {
	s.mu.Lock()
	delete(s.closing, sessionID)
	s.mu.Unlock()
}

// HasActiveSession reports whether a session is open on the appointment.
func (s *Service) HasActiveSession(appointmentID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.active[appointmentID]
	return ok
}

// Get returns a copy of the session.
func (s *Service) Get(sessionID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return copySession(sess), nil
}

// FormatDuration renders d as MM:SS, truncated to whole seconds. Minutes are
// not wrapped at an hour.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func copySession(s *Session) *Session {
	cp := *s
	if s.EndedAt != nil {
		t := *s.EndedAt
		cp.EndedAt = &t
	}
	return &cp
}
