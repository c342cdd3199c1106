package appointment

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

type ConsultationType string

const (
	TypeVideo ConsultationType = "video"
	TypeAudio ConsultationType = "audio"
)

// Label is the display name shown on booking confirmations.
func (t ConsultationType) Label() string {
	switch t {
	case TypeVideo:
		return "Video Consultation"
	case TypeAudio:
		return "Audio Consultation"
	}
	return ""
}

// TimeSlots are the bookable consultation start times, in display order.
var TimeSlots = []string{"09:00 AM", "10:00 AM", "11:00 AM", "02:00 PM", "03:00 PM", "04:00 PM"}

const dateLayout = "2006-01-02"

// ProviderSnapshot captures the provider listing a patient booked against.
// Provider listings are regenerated on every request, so bookings keep a copy
// rather than a reference.
type ProviderSnapshot struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Specialty string `json:"specialty,omitempty"`
	Fee       int    `json:"fee,omitempty"`
}

// BookingRequest is a patient's request for a consultation slot.
type BookingRequest struct {
	PatientID        string           `json:"patient_id"`
	Provider         ProviderSnapshot `json:"provider"`
	Region           string           `json:"region"`
	SubRegion        string           `json:"sub_region"`
	Date             string           `json:"date"`
	Time             string           `json:"time"`
	ConsultationType ConsultationType `json:"consultation_type"`
	Symptoms         string           `json:"symptoms,omitempty"`
}

type Appointment struct {
	ID               string           `json:"id"`
	PatientID        string           `json:"patient_id"`
	Provider         ProviderSnapshot `json:"provider"`
	Region           string           `json:"region"`
	SubRegion        string           `json:"sub_region"`
	Location         string           `json:"location"`
	Date             string           `json:"date"`
	Time             string           `json:"time"`
	ConsultationType ConsultationType `json:"consultation_type"`
	TypeLabel        string           `json:"type_label"`
	Symptoms         string           `json:"symptoms,omitempty"`
	Fee              int              `json:"fee"`
	Status           Status           `json:"status"`
	CancelReason     string           `json:"cancel_reason,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// slotKey identifies one bookable provider slot. Provider ids are not unique
// across sub-regions, so the name and location are part of the key.
func slotKey(p ProviderSnapshot, region, subRegion, date, tm string) string {
	return fmt.Sprintf("%d|%s|%s|%s|%s|%s", p.ID, p.Name, region, subRegion, date, tm)
}

func (a *Appointment) key() string {
	return slotKey(a.Provider, a.Region, a.SubRegion, a.Date, a.Time)
}
