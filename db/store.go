package db

import (
	"context"

	"hospitaldb/model"
)

// Store is the read-only query surface the report runs against.
type Store interface {
	ListCatalog(ctx context.Context, kind model.CatalogKind) ([]string, error)
	ListPatients(ctx context.Context, limit int) ([]model.Patient, error)
	ListDoctors(ctx context.Context) ([]model.Doctor, error)
	CountAppointments(ctx context.Context) (int64, error)
	ListAppointmentDetails(ctx context.Context, limit int) ([]model.AppointmentDetail, error)
	ListTreatments(ctx context.Context, limit int) ([]model.Treatment, error)
	SummarizeBilling(ctx context.Context) ([]model.BillingSummary, error)
}
