package report

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"

	"hospitaldb/db"
	"hospitaldb/model"
)

// SampleLimit caps the sample sections (patients, appointment details,
// treatments).
const SampleLimit = 5

const (
	// MissingValue stands in for a NULL cost.
	MissingValue = "n/a"
	// NoStatus labels the billing group whose payment status is NULL.
	NoStatus = "(no status)"
)

// Reporter prints a fixed sequence of labeled sections describing the schema
// and sample data behind a Store.
type Reporter struct {
	store db.Store
	out   io.Writer
	log   *zap.SugaredLogger
}

func New(store db.Store, out io.Writer, log *zap.SugaredLogger) *Reporter {
	return &Reporter{store: store, out: out, log: log}
}

type section struct {
	label string
	ruled bool
	print func(ctx context.Context) error
}

func (r *Reporter) sections() []section {
	return []section{
		{label: "TABLES CREATED", print: r.catalog(model.TableKind)},
		{label: "PATIENTS - Data", ruled: true, print: r.patients},
		{label: "DOCTORS", ruled: true, print: r.doctors},
		{label: "APPOINTMENTS", print: r.appointmentCount},
		{label: "APPOINTMENT DETAILS", ruled: true, print: r.appointmentDetails},
		{label: "TREATMENTS", ruled: true, print: r.treatments},
		{label: "BILLING SUMMARY", ruled: true, print: r.billing},
		{label: "VIEWS CREATED", print: r.catalog(model.ViewKind)},
		{label: "INDEXES CREATED", print: r.catalog(model.IndexKind)},
	}
}

// Run prints every section in order. The first failing query stops the run
// and its error is returned unchanged; sections after it are not printed.
func (r *Reporter) Run(ctx context.Context) error {
	for _, s := range r.sections() {
		r.printf("\n[%s]\n", s.label)
		if s.ruled {
			r.printf("%s\n", Rule)
		}
		if err := s.print(ctx); err != nil {
			r.log.Debugf("report: section %q failed: %v", s.label, err)
			return err
		}
	}
	return nil
}

func (r *Reporter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
}

func (r *Reporter) catalog(kind model.CatalogKind) func(context.Context) error {
	return func(ctx context.Context) error {
		names, err := r.store.ListCatalog(ctx, kind)
		if err != nil {
			return err
		}
		for _, n := range names {
			r.printf("   * %s\n", n)
		}
		return nil
	}
}

func (r *Reporter) patients(ctx context.Context) error {
	patients, err := r.store.ListPatients(ctx, SampleLimit)
	if err != nil {
		return err
	}
	for _, p := range patients {
		r.printf("   %s | %s %s | %s\n", p.PatientID, p.FirstName, p.LastName, p.ContactNumber)
	}
	return nil
}

func (r *Reporter) doctors(ctx context.Context) error {
	doctors, err := r.store.ListDoctors(ctx)
	if err != nil {
		return err
	}
	for _, d := range doctors {
		r.printf("   %s | Dr. %s %s | %s | %s\n", d.DoctorID, d.FirstName, d.LastName, d.Specialization, d.HospitalBranch)
	}
	return nil
}

func (r *Reporter) appointmentCount(ctx context.Context) error {
	count, err := r.store.CountAppointments(ctx)
	if err != nil {
		return err
	}
	r.printf("   Total Appointments: %d\n", count)
	return nil
}

func (r *Reporter) appointmentDetails(ctx context.Context) error {
	details, err := r.store.ListAppointmentDetails(ctx, SampleLimit)
	if err != nil {
		return err
	}
	for _, a := range details {
		r.printf("   %s -> Dr. %s | %s | %s | %s\n", a.Patient, a.Doctor, a.AppointmentDate, a.ReasonForVisit, a.Status)
	}
	return nil
}

func (r *Reporter) treatments(ctx context.Context) error {
	treatments, err := r.store.ListTreatments(ctx, SampleLimit)
	if err != nil {
		return err
	}
	for _, t := range treatments {
		r.printf("   %s | %s | %s | %s\n", t.TreatmentID, t.TreatmentType, t.Description, Cost(t.Cost))
	}
	return nil
}

func (r *Reporter) billing(ctx context.Context) error {
	summaries, err := r.store.SummarizeBilling(ctx)
	if err != nil {
		return err
	}
	for _, s := range summaries {
		status := NoStatus
		if s.PaymentStatus.Valid {
			status = s.PaymentStatus.String
		}
		// a group whose amounts are all NULL sums to NULL
		r.printf("   %s: %d bills | Total: %s\n", status, s.Bills, Rupees(s.Total.Float64))
	}
	return nil
}

// Cost formats a single recorded cost as "Rs." followed by the value as
// stored, without padding decimals.
func Cost(cost sql.NullFloat64) string {
	if !cost.Valid {
		return "Rs." + MissingValue
	}
	return "Rs." + strconv.FormatFloat(cost.Float64, 'f', -1, 64)
}

// Rupees formats an aggregated amount as "Rs." with two decimals.
func Rupees(amount float64) string {
	return fmt.Sprintf("Rs.%.2f", amount)
}
