package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"hospitaldb/model"
)

// internalPrefix names the objects SQLite creates for itself, such as the
// automatic indexes behind UNIQUE and PRIMARY KEY constraints.
const internalPrefix = "sqlite_"

var _ Store = (*SQLStore)(nil)

type SQLStore struct {
	db *gorm.DB
}

func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Ping verifies the underlying database connection is healthy and that the
// file behind it is a readable SQLite database.
func (s *SQLStore) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sql store is not initialized")
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return err
	}
	// opening is lazy; reading the catalog touches the file header
	var objects int64
	return s.db.WithContext(ctx).Table("sqlite_master").Count(&objects).Error
}

// ListCatalog returns the names of every catalog object of the given kind in
// catalog order. Internal indexes are left out.
func (s *SQLStore) ListCatalog(ctx context.Context, kind model.CatalogKind) ([]string, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("invalid catalog kind %q", kind)
	}
	var names []string
	q := s.db.WithContext(ctx).Table("sqlite_master").Where("type = ?", kind)
	if kind == model.IndexKind {
		q = q.Where("name NOT LIKE ?", internalPrefix+"%")
	}
	err := q.Pluck("name", &names).Error
	return names, err
}

func (s *SQLStore) ListPatients(ctx context.Context, limit int) ([]model.Patient, error) {
	var patients []model.Patient
	err := s.db.WithContext(ctx).
		Select("patient_id", "first_name", "last_name", "contact_number").
		Limit(limit).
		Find(&patients).Error
	return patients, err
}

func (s *SQLStore) ListDoctors(ctx context.Context) ([]model.Doctor, error) {
	var doctors []model.Doctor
	err := s.db.WithContext(ctx).
		Select("doctor_id", "first_name", "last_name", "specialization", "hospital_branch").
		Find(&doctors).Error
	return doctors, err
}

func (s *SQLStore) CountAppointments(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Table("Appointments").Count(&count).Error
	return count, err
}

// ListAppointmentDetails returns appointments with the full names of the
// patient and doctor they reference. Appointments whose patient or doctor is
// missing are not returned.
func (s *SQLStore) ListAppointmentDetails(ctx context.Context, limit int) ([]model.AppointmentDetail, error) {
	var details []model.AppointmentDetail
	err := s.db.WithContext(ctx).
		Table("Appointments AS a").
		Select(`p.first_name || ' ' || p.last_name AS patient,
			d.first_name || ' ' || d.last_name AS doctor,
			a.appointment_date,
			a.reason_for_visit,
			a.status`).
		Joins("JOIN Patients p ON a.patient_id = p.patient_id").
		Joins("JOIN Doctors d ON a.doctor_id = d.doctor_id").
		Limit(limit).
		Scan(&details).Error
	return details, err
}

func (s *SQLStore) ListTreatments(ctx context.Context, limit int) ([]model.Treatment, error) {
	var treatments []model.Treatment
	err := s.db.WithContext(ctx).
		Select("treatment_id", "treatment_type", "description", "cost").
		Limit(limit).
		Find(&treatments).Error
	return treatments, err
}

// SummarizeBilling returns the number of bills and their summed amount for
// each payment status.
func (s *SQLStore) SummarizeBilling(ctx context.Context) ([]model.BillingSummary, error) {
	var summaries []model.BillingSummary
	err := s.db.WithContext(ctx).
		Table("Billing").
		Select("payment_status, COUNT(*) AS bills, SUM(amount) AS total").
		Group("payment_status").
		Scan(&summaries).Error
	return summaries, err
}
