package jobs

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Keerthana-MS/medibook-backend/internal/config"
	"github.com/Keerthana-MS/medibook-backend/internal/models"
	"github.com/Keerthana-MS/medibook-backend/internal/services"
	"github.com/Keerthana-MS/medibook-backend/internal/storage"
)

func enabledSMS() *services.SMSService {
	return services.NewSMSService(&config.Config{
		TwilioAccountSID: "AC00000000000000000000000000000000",
		TwilioAuthToken:  "token",
		TwilioFromNumber: "+15550100",
	})
}

func TestReminderJob_StartStop(t *testing.T) {
	job := NewReminderJob(storage.NewMemoryStore(), enabledSMS(), time.Hour)

	job.Start()
	job.Start() // second start is a no-op

	// Stop may race with Start in the shutdown path; concurrent calls must
	// close the loop exactly once
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			job.Stop()
		}()
	}
	wg.Wait()
}

func TestReminderJob_DisabledSMS(t *testing.T) {
	job := NewReminderJob(storage.NewMemoryStore(), services.NewSMSService(&config.Config{}), time.Hour)

	job.Start() // never runs without an SMS backend
	job.Stop()
}

func TestSendReminders_MarksOnce(t *testing.T) {
	store := storage.NewMemoryStore()
	// Disabled SMS makes sends logged no-ops, so the marking logic is
	// observable without a Twilio account
	job := NewReminderJob(store, services.NewSMSService(&config.Config{}), time.Hour)

	patient, err := store.CreatePatient(&models.PatientRegistration{
		Name: "Asha", Age: 31, Gender: "Female", Contact: "9876543210",
	}, time.Date(1994, 5, 1, 0, 0, 0, 0, time.UTC), "1234")
	require.NoError(t, err)
	doctor, err := store.CreateDoctor(&models.DoctorRegistration{Name: "Dr. Rao", Specialization: "Cardiology"})
	require.NoError(t, err)

	tomorrow, err := store.CreateAppointment(&models.Appointment{
		PatientID:       patient.ID,
		DoctorID:        doctor.ID,
		AppointmentDate: time.Now().AddDate(0, 0, 1),
		AppointmentTime: "10:30",
	})
	require.NoError(t, err)
	nextWeek, err := store.CreateAppointment(&models.Appointment{
		PatientID:       patient.ID,
		DoctorID:        doctor.ID,
		AppointmentDate: time.Now().AddDate(0, 0, 7),
		AppointmentTime: "10:30",
	})
	require.NoError(t, err)

	job.sendReminders()

	got, err := store.GetAppointment(tomorrow.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ReminderSentAt)
	first := *got.ReminderSentAt

	later, err := store.GetAppointment(nextWeek.ID)
	require.NoError(t, err)
	assert.Nil(t, later.ReminderSentAt)

	// A second pass does not re-send
	job.sendReminders()
	got, err = store.GetAppointment(tomorrow.ID)
	require.NoError(t, err)
	assert.Equal(t, first, *got.ReminderSentAt)
}
