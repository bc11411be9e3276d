// Package booking validates appointment requests for the salon and relays
// them to the shop.
package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"storefront/pkg/logger"
	"storefront/pkg/otel"
	"storefront/pkg/relay"
	"storefront/pkg/validate"
)

// Subject is the relay subject for appointment requests.
const Subject = "New appointment request"

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
	opensAt    = "09:00"
	closesAt   = "20:00"
)

// Appointment is a booking request.
type Appointment struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Treatment string `json:"treatment"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Message   string `json:"message"`
}

// Treatment is one bookable service.
type Treatment struct {
	Name  string `json:"name"`
	Group string `json:"group"`
}

var treatments = []Treatment{
	{"Laser Hair Treatment", "Skin Treatments"},
	{"Thermage Treatment", "Skin Treatments"},
	{"HIFU Treatment", "Skin Treatments"},
	{"Dermal Fillers Treatment", "Skin Treatments"},
	{"Chemical Peel Treatment", "Skin Treatments"},
	{"Q-Switch Laser Treatment", "Skin Treatments"},
	{"Skin Brightening and Lightening Treatment", "Skin Treatments"},
	{"Ageing Skin", "Skin Treatments"},
	{"Acne Scars", "Skin Treatments"},
	{"Dull Skin", "Skin Treatments"},
	{"IV Drips For Skin", "Skin Treatments"},
	{"PRP GF Treatment", "Hair Treatments"},
	{"Hair Thread Treatment", "Hair Treatments"},
	{"Biocell Therapy", "Hair Treatments"},
	{"Hair Loss In Women", "Hair Treatments"},
	{"IV Drips For Hair", "Hair Treatments"},
	{"Hair Loss Concern", "Hair Treatments"},
	{"Bridal Makeup", "Make Up"},
	{"Party Makeup", "Make Up"},
}

// Treatments returns the bookable services in menu order.
func Treatments() []Treatment {
	return append([]Treatment(nil), treatments...)
}

func knownTreatment(name string) bool {
	for _, t := range treatments {
		if t.Name == name {
			return true
		}
	}
	return false
}

func normalize(a Appointment) Appointment {
	a.Name = strings.TrimSpace(a.Name)
	a.Email = strings.TrimSpace(a.Email)
	a.Phone = strings.TrimSpace(a.Phone)
	a.Treatment = strings.TrimSpace(a.Treatment)
	a.Date = strings.TrimSpace(a.Date)
	a.Time = strings.TrimSpace(a.Time)
	a.Message = strings.TrimSpace(a.Message)
	return a
}

// Validate checks a against the booking form rules as of now. Dates are
// compared in now's location.
func Validate(a Appointment, now time.Time) error {
	a = normalize(a)
	var v validate.Error
	if a.Name == "" {
		v.Add("name", "required")
	}
	switch {
	case a.Email == "":
		v.Add("email", "required")
	case !validate.Email(a.Email):
		v.Add("email", "must be a valid email address")
	}
	switch {
	case a.Phone == "":
		v.Add("phone", "required")
	case !validate.Phone(a.Phone):
		v.Add("phone", "must contain 7 to 15 digits")
	}
	switch {
	case a.Treatment == "":
		v.Add("treatment", "required")
	case !knownTreatment(a.Treatment):
		v.Add("treatment", "unknown treatment")
	}

	day, err := time.ParseInLocation(dateLayout, a.Date, now.Location())
	switch {
	case a.Date == "":
		v.Add("date", "required")
	case err != nil:
		v.Add("date", "must be YYYY-MM-DD")
	default:
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if day.Before(today) {
			v.Add("date", "must not be in the past")
		}
	}

	_, err = time.Parse(timeLayout, a.Time)
	switch {
	case a.Time == "":
		v.Add("time", "required")
	case err != nil || len(a.Time) != len(timeLayout):
		v.Add("time", "must be HH:MM")
	case a.Time < opensAt || a.Time > closesAt:
		v.Add("time", fmt.Sprintf("must be between %s and %s", opensAt, closesAt))
	}

	if a.Message == "" {
		v.Add("message", "required")
	}
	return v.Err()
}

// Service relays appointment requests.
type Service struct {
	relay relay.Submitter
	log   *logger.Logger
	now   func() time.Time
}

// New creates a booking service.
func New(r relay.Submitter, log *logger.Logger) *Service {
	return &Service{relay: r, log: log, now: time.Now}
}

// Book validates a and submits it. Nothing is stored locally.
func (s *Service) Book(ctx context.Context, a Appointment) error {
	ctx, span := otel.AddSpan(ctx, "booking.Book", attribute.String("booking.treatment", a.Treatment))
	defer span.End()

	a = normalize(a)
	if err := Validate(a, s.now()); err != nil {
		return err
	}
	err := s.relay.Submit(ctx, relay.Submission{
		Subject: Subject,
		Fields: map[string]string{
			"name":      a.Name,
			"email":     a.Email,
			"phone":     a.Phone,
			"treatment": a.Treatment,
			"date":      a.Date,
			"time":      a.Time,
			"message":   a.Message,
		},
	})
	if err != nil {
		s.log.Warn(ctx, "booking relay failed", "treatment", a.Treatment, "error", err)
		return fmt.Errorf("submitting appointment: %w", err)
	}
	s.log.Info(ctx, "appointment requested", "treatment", a.Treatment, "date", a.Date)
	return nil
}
