package model

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
)

type CatalogKind string

const (
	TableKind CatalogKind = "table"
	ViewKind  CatalogKind = "view"
	IndexKind CatalogKind = "index"
)

// IsValid returns true if CatalogKind is one the catalog can be listed by
func (k CatalogKind) IsValid() bool {
	switch k {
	case TableKind, ViewKind, IndexKind:
		return true
	}
	return false
}

func (k CatalogKind) Value() (driver.Value, error) {
	if !k.IsValid() {
		return nil, fmt.Errorf("invalid CatalogKind %q", k)
	}
	return string(k), nil
}

// A Patient as stored by the seed script. Only the columns the report reads
// are mapped.
type Patient struct {
	PatientID     string `gorm:"column:patient_id"`
	FirstName     string `gorm:"column:first_name"`
	LastName      string `gorm:"column:last_name"`
	ContactNumber string `gorm:"column:contact_number"`
}

func (Patient) TableName() string {
	return "Patients"
}

type Doctor struct {
	DoctorID       string `gorm:"column:doctor_id"`
	FirstName      string `gorm:"column:first_name"`
	LastName       string `gorm:"column:last_name"`
	Specialization string `gorm:"column:specialization"`
	HospitalBranch string `gorm:"column:hospital_branch"`
}

func (Doctor) TableName() string {
	return "Doctors"
}

// AppointmentDetail is an Appointment joined with the names of its Patient and
// Doctor.
type AppointmentDetail struct {
	Patient         string `gorm:"column:patient"`
	Doctor          string `gorm:"column:doctor"`
	AppointmentDate string `gorm:"column:appointment_date"`
	ReasonForVisit  string `gorm:"column:reason_for_visit"`
	Status          string `gorm:"column:status"`
}

// A Treatment's Cost is NULL when no charge has been recorded.
type Treatment struct {
	TreatmentID   string          `gorm:"column:treatment_id"`
	TreatmentType string          `gorm:"column:treatment_type"`
	Description   string          `gorm:"column:description"`
	Cost          sql.NullFloat64 `gorm:"column:cost"`
}

func (Treatment) TableName() string {
	return "Treatments"
}

// BillingSummary is one row of Billing grouped by payment status. Rows with a
// NULL status form their own group. Total is NULL when every amount in the
// group is NULL.
type BillingSummary struct {
	PaymentStatus sql.NullString  `gorm:"column:payment_status"`
	Bills         int64           `gorm:"column:bills"`
	Total         sql.NullFloat64 `gorm:"column:total"`
}
