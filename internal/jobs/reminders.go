package jobs

import (
	"log"
	"sync"
	"time"

	"github.com/Keerthana-MS/medibook-backend/internal/models"
	"github.com/Keerthana-MS/medibook-backend/internal/services"
	"github.com/Keerthana-MS/medibook-backend/internal/storage"
)

// ReminderJob sends appointment reminders the day before the visit
type ReminderJob struct {
	store    storage.Store
	sms      *services.SMSService
	interval time.Duration
	stop     chan struct{}

	// mu guards isRunning; Start and Stop run on different goroutines
	mu        sync.Mutex
	isRunning bool
}

// NewReminderJob creates a new reminder job scheduler
func NewReminderJob(store storage.Store, sms *services.SMSService, interval time.Duration) *ReminderJob {
	return &ReminderJob{
		store:    store,
		sms:      sms,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start begins the scheduled reminder job
func (j *ReminderJob) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.isRunning {
		log.Println("Reminder job already running")
		return
	}
	if !j.sms.Enabled() {
		log.Println("SMS disabled, reminder job not started")
		return
	}

	j.isRunning = true
	log.Printf("Starting appointment reminder job (every %v)", j.interval)

	go func() {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				j.sendReminders()
			case <-j.stop:
				return
			}
		}
	}()
}

// Stop halts the scheduled job
func (j *ReminderJob) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.isRunning {
		return
	}
	j.isRunning = false
	close(j.stop)
	log.Println("Stopping appointment reminder job...")
}

// sendReminders notifies patients with a booked appointment tomorrow that
// have not been reminded yet
func (j *ReminderJob) sendReminders() {
	appts, err := j.store.ListAppointments(&models.AppointmentFilter{})
	if err != nil {
		log.Printf("Reminder job: failed to list appointments: %v", err)
		return
	}

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	sent := 0

	for _, appt := range appts {
		if appt.Status != models.StatusBooked || appt.ReminderSentAt != nil {
			continue
		}
		if appt.DateString() != tomorrow {
			continue
		}

		patient, err := j.store.GetPatient(appt.PatientID)
		if err != nil {
			// Patient deleted after booking; nothing to remind
			continue
		}

		if err := j.sms.SendReminder(patient, appt); err != nil {
			log.Printf("Reminder job: failed to send for appointment %d: %v", appt.ID, err)
			continue
		}
		if err := j.store.MarkReminderSent(appt.ID, time.Now()); err != nil {
			log.Printf("Reminder job: failed to mark appointment %d: %v", appt.ID, err)
		}
		sent++
	}

	if sent > 0 {
		log.Printf("Reminder job: sent %d reminder(s)", sent)
	}
}
