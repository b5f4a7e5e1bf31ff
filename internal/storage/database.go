package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Keerthana-MS/medibook-backend/internal/models"
	"github.com/Keerthana-MS/medibook-backend/internal/utils"
)

// DatabaseStore implements Store on top of PostgreSQL via GORM. The
// connection must be opened with TranslateError enabled so unique index
// violations surface as gorm.ErrDuplicatedKey and can be mapped to the
// domain errors here.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a store backed by the given GORM connection
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// storageErr wraps unclassified backend failures so callers can tell them
// apart from domain errors
func storageErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}

// Patient operations

func (s *DatabaseStore) CreatePatient(reg *models.PatientRegistration, dob time.Time, otpCode string) (*models.Patient, error) {
	patient := &models.Patient{
		Name:     reg.Name,
		Age:      reg.Age,
		Gender:   reg.Gender,
		DOB:      dob,
		Contact:  reg.Contact,
		Symptoms: reg.Symptoms,
		OTPCode:  otpCode,
	}

	if err := s.db.Create(patient).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateContact
		}
		return nil, storageErr(err)
	}
	return patient, nil
}

func (s *DatabaseStore) GetPatient(id uint) (*models.Patient, error) {
	var patient models.Patient
	if err := s.db.First(&patient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, storageErr(err)
	}
	return &patient, nil
}

func (s *DatabaseStore) ListPatients(search string) ([]*models.Patient, error) {
	q := s.db.Model(&models.Patient{})

	if search != "" {
		like := "%" + search + "%"
		if id, ok := parseID(search); ok {
			q = q.Where("id = ? OR name ILIKE ? OR contact ILIKE ?", id, like, like)
		} else {
			q = q.Where("name ILIKE ? OR contact ILIKE ?", like, like)
		}
	}

	var patients []*models.Patient
	if err := q.Order("id").Find(&patients).Error; err != nil {
		return nil, storageErr(err)
	}
	return patients, nil
}

func (s *DatabaseStore) UpdatePatient(id uint, upd *models.PatientUpdate) (*models.Patient, error) {
	patient, err := s.GetPatient(id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Age != nil {
		fields["age"] = *upd.Age
	}
	if upd.Gender != nil {
		fields["gender"] = *upd.Gender
	}
	if upd.DOB != nil {
		fields["dob"] = *upd.DOB
	}
	if upd.Contact != nil {
		fields["contact"] = *upd.Contact
	}
	if upd.Symptoms != nil {
		fields["symptoms"] = *upd.Symptoms
	}
	if len(fields) == 0 {
		return patient, nil
	}

	if err := s.db.Model(patient).Updates(fields).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateContact
		}
		return nil, storageErr(err)
	}
	return patient, nil
}

func (s *DatabaseStore) DeletePatient(id uint) (*models.Patient, error) {
	patient, err := s.GetPatient(id)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("patient_id = ?", id).Delete(&models.Appointment{}).Error; err != nil {
			return err
		}
		return tx.Delete(patient).Error
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return patient, nil
}

// Doctor operations

func (s *DatabaseStore) CreateDoctor(reg *models.DoctorRegistration) (*models.Doctor, error) {
	doctor := &models.Doctor{
		Name:           reg.Name,
		Specialization: reg.Specialization,
	}

	// The insert assigns the id; credentials are derived from it and
	// persisted before the transaction commits
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(doctor).Error; err != nil {
			return err
		}
		doctor.Username, doctor.Password = utils.DoctorCredentials(doctor.ID)
		return tx.Model(doctor).Updates(map[string]interface{}{
			"username": doctor.Username,
			"password": doctor.Password,
		}).Error
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return doctor, nil
}

func (s *DatabaseStore) GetDoctor(id uint) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := s.db.First(&doctor, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, storageErr(err)
	}
	return &doctor, nil
}

func (s *DatabaseStore) GetDoctorByUsername(username string) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := s.db.Where("username = ?", username).First(&doctor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, storageErr(err)
	}
	return &doctor, nil
}

func (s *DatabaseStore) ListDoctors(search string) ([]*models.Doctor, error) {
	q := s.db.Model(&models.Doctor{})

	if search != "" {
		like := "%" + search + "%"
		if id, ok := parseID(search); ok {
			q = q.Where("id = ? OR name ILIKE ? OR specialization ILIKE ?", id, like, like)
		} else {
			q = q.Where("name ILIKE ? OR specialization ILIKE ?", like, like)
		}
	}

	var doctors []*models.Doctor
	if err := q.Order("id").Find(&doctors).Error; err != nil {
		return nil, storageErr(err)
	}
	return doctors, nil
}

func (s *DatabaseStore) UpdateDoctor(id uint, upd *models.DoctorUpdate) (*models.Doctor, error) {
	doctor, err := s.GetDoctor(id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Specialization != nil {
		fields["specialization"] = *upd.Specialization
	}
	if len(fields) == 0 {
		return doctor, nil
	}

	if err := s.db.Model(doctor).Updates(fields).Error; err != nil {
		return nil, storageErr(err)
	}
	return doctor, nil
}

func (s *DatabaseStore) DeleteDoctor(id uint) (*models.Doctor, error) {
	doctor, err := s.GetDoctor(id)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("doctor_id = ?", id).Delete(&models.Appointment{}).Error; err != nil {
			return err
		}
		return tx.Delete(doctor).Error
	})
	if err != nil {
		return nil, storageErr(err)
	}
	return doctor, nil
}

// Appointment operations

func (s *DatabaseStore) CreateAppointment(appt *models.Appointment) (*models.Appointment, error) {
	if appt.Status == "" {
		appt.Status = models.StatusBooked
	}

	if err := s.db.Create(appt).Error; err != nil {
		// The partial unique index on (doctor_id, appointment_date,
		// appointment_time) is the real guardian of the slot invariant;
		// the service-level pre-check only exists for a friendly error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlotConflict
		}
		return nil, storageErr(err)
	}
	return appt, nil
}

func (s *DatabaseStore) GetAppointment(id uint) (*models.Appointment, error) {
	var appt models.Appointment
	if err := s.db.First(&appt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, storageErr(err)
	}
	return &appt, nil
}

func (s *DatabaseStore) ListAppointments(filter *models.AppointmentFilter) ([]*models.Appointment, error) {
	if filter == nil {
		filter = &models.AppointmentFilter{}
	}

	q := s.db.Model(&models.Appointment{})

	switch {
	case filter.CancelledOnly:
		q = q.Where("status = ?", models.StatusCancelled)
	case !filter.IncludeCancelled:
		q = q.Where("status <> ?", models.StatusCancelled)
	}

	if filter.DoctorID != 0 {
		q = q.Where("doctor_id = ?", filter.DoctorID)
	}

	if filter.PatientID != 0 {
		q = q.Where("patient_id = ?", filter.PatientID)
	}

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		q = q.Where(
			"CAST(id AS TEXT) LIKE ? OR CAST(patient_id AS TEXT) LIKE ? OR CAST(doctor_id AS TEXT) LIKE ? OR CAST(appointment_date AS TEXT) LIKE ? OR appointment_time LIKE ?",
			like, like, like, like, like,
		)
	}

	var appts []*models.Appointment
	if err := q.Order("appointment_date, appointment_time").Find(&appts).Error; err != nil {
		return nil, storageErr(err)
	}
	return appts, nil
}

func (s *DatabaseStore) UpdateAppointmentStatus(id uint, status string) (*models.Appointment, error) {
	appt, err := s.GetAppointment(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(appt).Update("status", status).Error; err != nil {
		return nil, storageErr(err)
	}
	return appt, nil
}

func (s *DatabaseStore) DeleteAppointment(id uint) (*models.Appointment, error) {
	appt, err := s.GetAppointment(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Delete(appt).Error; err != nil {
		return nil, storageErr(err)
	}
	return appt, nil
}

func (s *DatabaseStore) MarkReminderSent(id uint, at time.Time) error {
	res := s.db.Model(&models.Appointment{}).Where("id = ?", id).Update("reminder_sent_at", at)
	if res.Error != nil {
		return storageErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func (s *DatabaseStore) HasConflict(doctorID uint, date time.Time, timeSlot string) (bool, error) {
	var count int64
	err := s.db.Model(&models.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ? AND appointment_time = ? AND status <> ?",
			doctorID, date.Format("2006-01-02"), timeSlot, models.StatusCancelled).
		Count(&count).Error
	if err != nil {
		return false, storageErr(err)
	}
	return count > 0, nil
}

func parseID(s string) (uint, bool) {
	var id uint
	if _, err := fmt.Sscanf(s, "%d", &id); err != nil {
		return 0, false
	}
	// Reject mixed input like "12a"
	if fmt.Sprintf("%d", id) != s {
		return 0, false
	}
	return id, true
}
