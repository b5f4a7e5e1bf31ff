package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/Keerthana-MS/medibook-backend/internal/config"
	"github.com/Keerthana-MS/medibook-backend/internal/models"
)

// SMSService sends patient notifications via Twilio. When credentials are
// missing the service stays disabled and every send is a logged no-op, so
// local runs and tests work without an account.
type SMSService struct {
	client  *twilio.RestClient
	from    string
	enabled bool
}

// NewSMSService creates a new SMS service instance
func NewSMSService(cfg *config.Config) *SMSService {
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioFromNumber == "" {
		log.Println("⚠️  Twilio credentials not found - SMS notifications disabled")
		return &SMSService{}
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})

	return &SMSService{
		client:  client,
		from:    cfg.TwilioFromNumber,
		enabled: true,
	}
}

// Enabled reports whether the service can actually send
func (s *SMSService) Enabled() bool {
	return s.enabled
}

// Send sends an SMS message via Twilio
func (s *SMSService) Send(to, message string) error {
	if !s.enabled {
		log.Printf("SMS disabled, skipping message to %s", to)
		return nil
	}

	// Local numbers are stored as 10 digits
	if !strings.HasPrefix(to, "+") {
		to = "+91" + to
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(s.from)
	params.SetTo(to)
	params.SetBody(message)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		log.Printf("❌ Failed to send SMS: %v", err)
		return err
	}

	log.Printf("✅ SMS sent! SID: %s", *resp.Sid)
	return nil
}

// SendOTP delivers the registration OTP to a new patient
func (s *SMSService) SendOTP(patient *models.Patient) error {
	message := fmt.Sprintf("Welcome to MediBook, %s! Your patient ID is %d and your OTP is %s. Keep it safe - you need it to book or cancel appointments.",
		patient.Name, patient.ID, patient.OTPCode)
	return s.Send(patient.Contact, message)
}

// SendBookingConfirmation notifies a patient of a confirmed booking
func (s *SMSService) SendBookingConfirmation(patient *models.Patient, appt *models.Appointment) error {
	message := fmt.Sprintf("MediBook: appointment %d confirmed for %s at %s with doctor %d.",
		appt.ID, appt.DateString(), appt.AppointmentTime, appt.DoctorID)
	return s.Send(patient.Contact, message)
}

// SendReminder reminds a patient about an upcoming appointment
func (s *SMSService) SendReminder(patient *models.Patient, appt *models.Appointment) error {
	message := fmt.Sprintf("MediBook reminder: you have an appointment tomorrow, %s at %s (booking %d).",
		appt.DateString(), appt.AppointmentTime, appt.ID)
	return s.Send(patient.Contact, message)
}
