package storage

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Keerthana-MS/medibook-backend/internal/models"
	"github.com/Keerthana-MS/medibook-backend/internal/utils"
)

// MemoryStore holds all data in memory, used for tests and local runs
type MemoryStore struct {
	patients     map[uint]*models.Patient
	doctors      map[uint]*models.Doctor
	appointments map[uint]*models.Appointment

	// Mutexes for thread safety
	patientMu     sync.RWMutex
	doctorMu      sync.RWMutex
	appointmentMu sync.RWMutex

	// Counters for ID generation
	patientCounter     uint
	doctorCounter      uint
	appointmentCounter uint
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		patients:     make(map[uint]*models.Patient),
		doctors:      make(map[uint]*models.Doctor),
		appointments: make(map[uint]*models.Appointment),
	}
}

// Patient operations

func (m *MemoryStore) CreatePatient(reg *models.PatientRegistration, dob time.Time, otpCode string) (*models.Patient, error) {
	m.patientMu.Lock()
	defer m.patientMu.Unlock()

	for _, p := range m.patients {
		if p.Contact == reg.Contact {
			return nil, ErrDuplicateContact
		}
	}

	m.patientCounter++
	now := time.Now()
	patient := &models.Patient{
		ID:        m.patientCounter,
		Name:      reg.Name,
		Age:       reg.Age,
		Gender:    reg.Gender,
		DOB:       dob,
		Contact:   reg.Contact,
		Symptoms:  reg.Symptoms,
		OTPCode:   otpCode,
		CreatedAt: now,
		UpdatedAt: now,
	}

	m.patients[patient.ID] = patient
	return patient, nil
}

func (m *MemoryStore) GetPatient(id uint) (*models.Patient, error) {
	m.patientMu.RLock()
	defer m.patientMu.RUnlock()

	patient, exists := m.patients[id]
	if !exists {
		return nil, ErrPatientNotFound
	}
	return patient, nil
}

func (m *MemoryStore) ListPatients(search string) ([]*models.Patient, error) {
	m.patientMu.RLock()
	defer m.patientMu.RUnlock()

	var patients []*models.Patient
	for _, p := range m.patients {
		if search == "" || patientMatches(p, search) {
			patients = append(patients, p)
		}
	}
	sort.Slice(patients, func(i, j int) bool { return patients[i].ID < patients[j].ID })
	return patients, nil
}

func patientMatches(p *models.Patient, term string) bool {
	if id, err := strconv.ParseUint(term, 10, 64); err == nil && uint(id) == p.ID {
		return true
	}
	lower := strings.ToLower(term)
	return strings.Contains(strings.ToLower(p.Name), lower) ||
		strings.Contains(strings.ToLower(p.Contact), lower)
}

func (m *MemoryStore) UpdatePatient(id uint, upd *models.PatientUpdate) (*models.Patient, error) {
	m.patientMu.Lock()
	defer m.patientMu.Unlock()

	patient, exists := m.patients[id]
	if !exists {
		return nil, ErrPatientNotFound
	}

	if upd.Contact != nil && *upd.Contact != patient.Contact {
		for _, other := range m.patients {
			if other.ID != id && other.Contact == *upd.Contact {
				return nil, ErrDuplicateContact
			}
		}
		patient.Contact = *upd.Contact
	}
	if upd.Name != nil {
		patient.Name = *upd.Name
	}
	if upd.Age != nil {
		patient.Age = *upd.Age
	}
	if upd.Gender != nil {
		patient.Gender = *upd.Gender
	}
	if upd.DOB != nil {
		patient.DOB = *upd.DOB
	}
	if upd.Symptoms != nil {
		patient.Symptoms = *upd.Symptoms
	}
	patient.UpdatedAt = time.Now()

	return patient, nil
}

func (m *MemoryStore) DeletePatient(id uint) (*models.Patient, error) {
	m.patientMu.Lock()
	patient, exists := m.patients[id]
	if !exists {
		m.patientMu.Unlock()
		return nil, ErrPatientNotFound
	}
	delete(m.patients, id)
	m.patientMu.Unlock()

	// Cascade: remove the patient's appointments
	m.appointmentMu.Lock()
	for aid, a := range m.appointments {
		if a.PatientID == id {
			delete(m.appointments, aid)
		}
	}
	m.appointmentMu.Unlock()

	return patient, nil
}

// Doctor operations

func (m *MemoryStore) CreateDoctor(reg *models.DoctorRegistration) (*models.Doctor, error) {
	m.doctorMu.Lock()
	defer m.doctorMu.Unlock()

	m.doctorCounter++
	now := time.Now()
	doctor := &models.Doctor{
		ID:             m.doctorCounter,
		Name:           reg.Name,
		Specialization: reg.Specialization,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// Credentials are fixed as soon as the id is known
	doctor.Username, doctor.Password = utils.DoctorCredentials(doctor.ID)

	m.doctors[doctor.ID] = doctor
	return doctor, nil
}

func (m *MemoryStore) GetDoctor(id uint) (*models.Doctor, error) {
	m.doctorMu.RLock()
	defer m.doctorMu.RUnlock()

	doctor, exists := m.doctors[id]
	if !exists {
		return nil, ErrDoctorNotFound
	}
	return doctor, nil
}

func (m *MemoryStore) GetDoctorByUsername(username string) (*models.Doctor, error) {
	m.doctorMu.RLock()
	defer m.doctorMu.RUnlock()

	for _, d := range m.doctors {
		if d.Username == username {
			return d, nil
		}
	}
	return nil, ErrDoctorNotFound
}

func (m *MemoryStore) ListDoctors(search string) ([]*models.Doctor, error) {
	m.doctorMu.RLock()
	defer m.doctorMu.RUnlock()

	var doctors []*models.Doctor
	for _, d := range m.doctors {
		if search == "" || doctorMatches(d, search) {
			doctors = append(doctors, d)
		}
	}
	sort.Slice(doctors, func(i, j int) bool { return doctors[i].ID < doctors[j].ID })
	return doctors, nil
}

func doctorMatches(d *models.Doctor, term string) bool {
	if id, err := strconv.ParseUint(term, 10, 64); err == nil && uint(id) == d.ID {
		return true
	}
	lower := strings.ToLower(term)
	return strings.Contains(strings.ToLower(d.Name), lower) ||
		strings.Contains(strings.ToLower(d.Specialization), lower)
}

func (m *MemoryStore) UpdateDoctor(id uint, upd *models.DoctorUpdate) (*models.Doctor, error) {
	m.doctorMu.Lock()
	defer m.doctorMu.Unlock()

	doctor, exists := m.doctors[id]
	if !exists {
		return nil, ErrDoctorNotFound
	}

	if upd.Name != nil {
		doctor.Name = *upd.Name
	}
	if upd.Specialization != nil {
		doctor.Specialization = *upd.Specialization
	}
	doctor.UpdatedAt = time.Now()

	return doctor, nil
}

func (m *MemoryStore) DeleteDoctor(id uint) (*models.Doctor, error) {
	m.doctorMu.Lock()
	doctor, exists := m.doctors[id]
	if !exists {
		m.doctorMu.Unlock()
		return nil, ErrDoctorNotFound
	}
	delete(m.doctors, id)
	m.doctorMu.Unlock()

	// Cascade: remove the doctor's appointments
	m.appointmentMu.Lock()
	for aid, a := range m.appointments {
		if a.DoctorID == id {
			delete(m.appointments, aid)
		}
	}
	m.appointmentMu.Unlock()

	return doctor, nil
}

// Appointment operations

func (m *MemoryStore) CreateAppointment(appt *models.Appointment) (*models.Appointment, error) {
	m.appointmentMu.Lock()
	defer m.appointmentMu.Unlock()

	// The conflict check and the insert share one critical section, so two
	// concurrent bookings for the same slot cannot both succeed
	if m.hasConflictLocked(appt.DoctorID, appt.AppointmentDate, appt.AppointmentTime) {
		return nil, ErrSlotConflict
	}

	m.appointmentCounter++
	now := time.Now()
	appt.ID = m.appointmentCounter
	if appt.Status == "" {
		appt.Status = models.StatusBooked
	}
	appt.CreatedAt = now
	appt.UpdatedAt = now

	m.appointments[appt.ID] = appt
	return appt, nil
}

func (m *MemoryStore) GetAppointment(id uint) (*models.Appointment, error) {
	m.appointmentMu.RLock()
	defer m.appointmentMu.RUnlock()

	appt, exists := m.appointments[id]
	if !exists {
		return nil, ErrAppointmentNotFound
	}
	return appt, nil
}

func (m *MemoryStore) ListAppointments(filter *models.AppointmentFilter) ([]*models.Appointment, error) {
	m.appointmentMu.RLock()
	defer m.appointmentMu.RUnlock()

	if filter == nil {
		filter = &models.AppointmentFilter{}
	}

	var results []*models.Appointment
	for _, a := range m.appointments {
		if filter.CancelledOnly && a.Status != models.StatusCancelled {
			continue
		}
		if !filter.CancelledOnly && !filter.IncludeCancelled && a.Status == models.StatusCancelled {
			continue
		}
		if filter.DoctorID != 0 && a.DoctorID != filter.DoctorID {
			continue
		}
		if filter.PatientID != 0 && a.PatientID != filter.PatientID {
			continue
		}
		if filter.Search != "" && !strings.Contains(a.SearchText(), filter.Search) {
			continue
		}
		results = append(results, a)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *MemoryStore) UpdateAppointmentStatus(id uint, status string) (*models.Appointment, error) {
	m.appointmentMu.Lock()
	defer m.appointmentMu.Unlock()

	appt, exists := m.appointments[id]
	if !exists {
		return nil, ErrAppointmentNotFound
	}

	appt.Status = status
	appt.UpdatedAt = time.Now()
	return appt, nil
}

func (m *MemoryStore) DeleteAppointment(id uint) (*models.Appointment, error) {
	m.appointmentMu.Lock()
	defer m.appointmentMu.Unlock()

	appt, exists := m.appointments[id]
	if !exists {
		return nil, ErrAppointmentNotFound
	}
	delete(m.appointments, id)
	return appt, nil
}

func (m *MemoryStore) MarkReminderSent(id uint, at time.Time) error {
	m.appointmentMu.Lock()
	defer m.appointmentMu.Unlock()

	appt, exists := m.appointments[id]
	if !exists {
		return ErrAppointmentNotFound
	}
	appt.ReminderSentAt = &at
	return nil
}

func (m *MemoryStore) HasConflict(doctorID uint, date time.Time, timeSlot string) (bool, error) {
	m.appointmentMu.RLock()
	defer m.appointmentMu.RUnlock()
	return m.hasConflictLocked(doctorID, date, timeSlot), nil
}

// hasConflictLocked expects the appointment mutex to be held
func (m *MemoryStore) hasConflictLocked(doctorID uint, date time.Time, timeSlot string) bool {
	day := date.Format("2006-01-02")
	for _, a := range m.appointments {
		if a.Status == models.StatusCancelled {
			continue
		}
		if a.DoctorID == doctorID && a.DateString() == day && a.AppointmentTime == timeSlot {
			return true
		}
	}
	return false
}
