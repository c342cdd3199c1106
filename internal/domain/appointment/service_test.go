package appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/healthconnect/telemed/internal/domain/location"
	"github.com/healthconnect/telemed/internal/platform/apperror"
)

var fixedNow = time.Date(2025, 9, 10, 8, 30, 0, 0, time.UTC)

func newTestService() *Service {
	svc := NewService(NewMemoryRepo(), location.Default(), 149, zerolog.Nop())
	svc.SetClock(func() time.Time { return fixedNow })
	return svc
}

func validRequest() BookingRequest {
	return BookingRequest{
		PatientID:        "patient-1",
		Provider:         ProviderSnapshot{ID: 79, Name: "Dr. Priya Rao", Specialty: "Pediatrics"},
		Region:           "Karnataka",
		SubRegion:        "Mysuru (Mysore)",
		Date:             "2025-09-12",
		Time:             "10:00 AM",
		ConsultationType: TypeVideo,
		Symptoms:         "  fever since yesterday ",
	}
}

func TestBook_Success(t *testing.T) {
	svc := newTestService()
	a, err := svc.Book(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID == "" {
		t.Error("expected an appointment id")
	}
	if a.Status != StatusConfirmed {
		t.Errorf("expected confirmed, got %s", a.Status)
	}
	if a.TypeLabel != "Video Consultation" {
		t.Errorf("unexpected type label %q", a.TypeLabel)
	}
	if a.Location != "Mysuru (Mysore), Karnataka" {
		t.Errorf("unexpected location %q", a.Location)
	}
	if a.Fee != 149 || a.Provider.Fee != 149 {
		t.Errorf("expected default fee 149, got %d/%d", a.Fee, a.Provider.Fee)
	}
	if a.Symptoms != "fever since yesterday" {
		t.Errorf("expected trimmed symptoms, got %q", a.Symptoms)
	}
	if !a.CreatedAt.Equal(fixedNow) {
		t.Errorf("expected created_at from clock, got %v", a.CreatedAt)
	}
}

func TestBook_AudioKeepsSnapshotFee(t *testing.T) {
	req := validRequest()
	req.ConsultationType = TypeAudio
	req.Provider.Fee = 199
	a, err := newTestService().Book(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.TypeLabel != "Audio Consultation" || a.Fee != 199 {
		t.Errorf("unexpected booking %+v", a)
	}
}

func TestBook_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BookingRequest)
		want   error
	}{
		{"missing patient", func(r *BookingRequest) { r.PatientID = " " }, ErrMissingPatientID},
		{"missing provider", func(r *BookingRequest) { r.Provider = ProviderSnapshot{} }, ErrMissingProvider},
		{"missing sub-region", func(r *BookingRequest) { r.SubRegion = "" }, ErrMissingLocation},
		{"unknown region", func(r *BookingRequest) { r.Region = "Atlantis" }, location.ErrUnknownRegion},
		{"bad date", func(r *BookingRequest) { r.Date = "12/09/2025" }, ErrInvalidDate},
		{"past date", func(r *BookingRequest) { r.Date = "2025-09-09" }, ErrPastDate},
		{"bad time", func(r *BookingRequest) { r.Time = "01:00 PM" }, ErrInvalidTimeSlot},
		{"bad type", func(r *BookingRequest) { r.ConsultationType = "in-person" }, ErrInvalidConsultationType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			_, err := newTestService().Book(context.Background(), req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !errors.Is(err, apperror.ErrInvalidArgument) {
				t.Error("expected invalid-argument family")
			}
		})
	}
}

func TestBook_TodayAllowed(t *testing.T) {
	req := validRequest()
	req.Date = "2025-09-10"
	if _, err := newTestService().Book(context.Background(), req); err != nil {
		t.Fatalf("expected today to be bookable, got %v", err)
	}
}

func TestBook_DoubleBooking(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	if _, err := svc.Book(ctx, validRequest()); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	other := validRequest()
	other.PatientID = "patient-2"
	_, err := svc.Book(ctx, other)
	if !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
	if !errors.Is(err, apperror.ErrConflict) {
		t.Error("expected conflict family")
	}

	// Same id, different sub-region: a distinct provider.
	elsewhere := validRequest()
	elsewhere.SubRegion = "Mandya"
	if _, err := svc.Book(ctx, elsewhere); err != nil {
		t.Errorf("expected booking in another sub-region to succeed, got %v", err)
	}
}

func TestBook_ConcurrentSameSlot(t *testing.T) {
	svc := newTestService()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Book(context.Background(), validRequest()); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if success != 1 {
		t.Errorf("expected exactly one successful booking, got %d", success)
	}
}

func TestCancel_FreesSlot(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	a, _ := svc.Book(ctx, validRequest())

	cancelled, err := svc.Cancel(ctx, a.ID, "patient-1", " changed plans ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cancelled.Status != StatusCancelled || cancelled.CancelReason != "changed plans" {
		t.Errorf("unexpected cancelled appointment %+v", cancelled)
	}

	if _, err := svc.Book(ctx, validRequest()); err != nil {
		t.Errorf("expected slot to be free after cancel, got %v", err)
	}

	if _, err := svc.Cancel(ctx, a.ID, "patient-1", ""); !errors.Is(err, ErrNotConfirmed) {
		t.Errorf("expected ErrNotConfirmed on second cancel, got %v", err)
	}
}

func TestGetAndCancel_Ownership(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	a, _ := svc.Book(ctx, validRequest())

	if _, err := svc.Get(ctx, a.ID, "intruder"); !errors.Is(err, ErrWrongPatient) {
		t.Errorf("expected ErrWrongPatient, got %v", err)
	}
	if _, err := svc.Cancel(ctx, a.ID, "intruder", ""); !errors.Is(err, ErrWrongPatient) {
		t.Errorf("expected ErrWrongPatient, got %v", err)
	}
	if _, err := svc.Get(ctx, "missing", "patient-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestComplete(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	a, _ := svc.Book(ctx, validRequest())

	done, err := svc.Complete(ctx, a.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if done.Status != StatusCompleted {
		t.Errorf("expected completed, got %s", done.Status)
	}
	if _, err := svc.Complete(ctx, a.ID); !errors.Is(err, ErrNotConfirmed) {
		t.Errorf("expected ErrNotConfirmed, got %v", err)
	}
}

func TestCancelAndComplete_Concurrent(t *testing.T) {
	for round := 0; round < 50; round++ {
		svc := newTestService()
		ctx := context.Background()
		a, err := svc.Book(ctx, validRequest())
		if err != nil {
			t.Fatalf("book: %v", err)
		}

		var (
			wg                 sync.WaitGroup
			cancelErr, doneErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, cancelErr = svc.Cancel(ctx, a.ID, "patient-1", "")
		}()
		go func() {
			defer wg.Done()
			_, doneErr = svc.Complete(ctx, a.ID)
		}()
		wg.Wait()

		if (cancelErr == nil) == (doneErr == nil) {
			t.Fatalf("expected exactly one transition to win, cancel=%v complete=%v", cancelErr, doneErr)
		}
		loser := cancelErr
		if loser == nil {
			loser = doneErr
		}
		if !errors.Is(loser, ErrNotConfirmed) {
			t.Errorf("expected ErrNotConfirmed for the losing call, got %v", loser)
		}
	}
}

type openSessions map[string]bool

func (o openSessions) HasActiveSession(id string) bool { return o[id] }

func TestCancel_RefusedDuringConsultation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	a, _ := svc.Book(ctx, validRequest())

	open := openSessions{a.ID: true}
	svc.SetSessionTracker(open)
	if _, err := svc.Cancel(ctx, a.ID, "patient-1", ""); !errors.Is(err, ErrConsultationInProgress) {
		t.Fatalf("expected ErrConsultationInProgress, got %v", err)
	}
	got, _ := svc.Get(ctx, a.ID, "patient-1")
	if got.Status != StatusConfirmed {
		t.Errorf("expected appointment to stay confirmed, got %s", got.Status)
	}

	delete(open, a.ID)
	if _, err := svc.Cancel(ctx, a.ID, "patient-1", ""); err != nil {
		t.Errorf("expected cancel once the session closed, got %v", err)
	}
}

func TestService_ExpiredContext(t *testing.T) {
	svc := newTestService()
	a, _ := svc.Book(context.Background(), validRequest())

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	if _, err := svc.Book(ctx, validRequest()); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("book: expected DeadlineExceeded, got %v", err)
	}
	if _, err := svc.Get(ctx, a.ID, "patient-1"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("get: expected DeadlineExceeded, got %v", err)
	}
	if _, err := svc.Complete(ctx, a.ID); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("complete: expected DeadlineExceeded, got %v", err)
	}
	if _, _, err := svc.ListByPatient(ctx, "patient-1", "", 10, 0); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("list: expected DeadlineExceeded, got %v", err)
	}
}

func TestListByPatient_NewestFirstAndPaged(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	clock := fixedNow
	svc.SetClock(func() time.Time { return clock })

	var ids []string
	for _, slot := range TimeSlots[:3] {
		req := validRequest()
		req.Time = slot
		a, err := svc.Book(ctx, req)
		if err != nil {
			t.Fatalf("book %s: %v", slot, err)
		}
		ids = append(ids, a.ID)
		clock = clock.Add(time.Minute)
	}

	items, total, err := svc.ListByPatient(ctx, "patient-1", "", 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 || len(items) != 2 {
		t.Fatalf("expected 2 of 3, got %d of %d", len(items), total)
	}
	if items[0].ID != ids[2] || items[1].ID != ids[1] {
		t.Error("expected newest first")
	}

	items, _, _ = svc.ListByPatient(ctx, "patient-1", "", 2, 2)
	if len(items) != 1 || items[0].ID != ids[0] {
		t.Errorf("unexpected second page %+v", items)
	}

	if _, _, err := svc.ListByPatient(ctx, "", "", 10, 0); !errors.Is(err, ErrMissingPatientID) {
		t.Errorf("expected ErrMissingPatientID, got %v", err)
	}
}

func TestListByPatient_StatusFilter(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	a, _ := svc.Book(ctx, validRequest())
	req := validRequest()
	req.Time = "02:00 PM"
	svc.Book(ctx, req)
	svc.Cancel(ctx, a.ID, "patient-1", "")

	items, total, _ := svc.ListByPatient(ctx, "patient-1", StatusCancelled, 10, 0)
	if total != 1 || items[0].ID != a.ID {
		t.Errorf("expected only the cancelled appointment, got %d", total)
	}
}

func TestAvailability(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	req := validRequest()
	svc.Book(ctx, req)

	slots, err := svc.Availability(ctx, req.Provider, req.Region, req.SubRegion, req.Date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != len(TimeSlots) {
		t.Fatalf("expected %d slots, got %d", len(TimeSlots), len(slots))
	}
	for _, s := range slots {
		if want := s.Time != req.Time; s.Available != want {
			t.Errorf("slot %s: available=%v, want %v", s.Time, s.Available, want)
		}
	}

	if _, err := svc.Availability(ctx, req.Provider, req.Region, req.SubRegion, "soon"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}
