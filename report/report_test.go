package report

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"hospitaldb/db"
	"hospitaldb/model"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// fakeStore serves fixed rows and fails the operation named in failOn.
type fakeStore struct {
	failOn string
	calls  []string
}

var _ db.Store = (*fakeStore)(nil)

var errBoom = errors.New("no such table: Billing")

func (f *fakeStore) call(name string) error {
	f.calls = append(f.calls, name)
	if f.failOn == name {
		return errBoom
	}
	return nil
}

func (f *fakeStore) ListCatalog(_ context.Context, kind model.CatalogKind) ([]string, error) {
	if err := f.call("catalog:" + string(kind)); err != nil {
		return nil, err
	}
	switch kind {
	case model.TableKind:
		return []string{"Patients", "Doctors"}, nil
	case model.ViewKind:
		return []string{"vw_outstanding_bills"}, nil
	}
	return []string{"idx_billing_status"}, nil
}

func (f *fakeStore) ListPatients(_ context.Context, limit int) ([]model.Patient, error) {
	if err := f.call("patients"); err != nil {
		return nil, err
	}
	return []model.Patient{{PatientID: "P001", FirstName: "Aarav", LastName: "Sharma", ContactNumber: "9876543210"}}, nil
}

func (f *fakeStore) ListDoctors(context.Context) ([]model.Doctor, error) {
	if err := f.call("doctors"); err != nil {
		return nil, err
	}
	return []model.Doctor{{DoctorID: "D001", FirstName: "Sanjay", LastName: "Mehta", Specialization: "Cardiology", HospitalBranch: "Central Hospital"}}, nil
}

func (f *fakeStore) CountAppointments(context.Context) (int64, error) {
	if err := f.call("count"); err != nil {
		return 0, err
	}
	return 1, nil
}

func (f *fakeStore) ListAppointmentDetails(_ context.Context, limit int) ([]model.AppointmentDetail, error) {
	if err := f.call("details"); err != nil {
		return nil, err
	}
	return []model.AppointmentDetail{{Patient: "Aarav Sharma", Doctor: "Sanjay Mehta", AppointmentDate: "2023-05-02", ReasonForVisit: "Chest pain", Status: "Completed"}}, nil
}

func (f *fakeStore) ListTreatments(_ context.Context, limit int) ([]model.Treatment, error) {
	if err := f.call("treatments"); err != nil {
		return nil, err
	}
	return []model.Treatment{
		{TreatmentID: "T001", TreatmentType: "ECG", Description: "Resting electrocardiogram", Cost: sql.NullFloat64{Float64: 1500, Valid: true}},
		{TreatmentID: "T002", TreatmentType: "Consultation", Description: "Waived"},
	}, nil
}

func (f *fakeStore) SummarizeBilling(context.Context) ([]model.BillingSummary, error) {
	if err := f.call("billing"); err != nil {
		return nil, err
	}
	return []model.BillingSummary{
		{PaymentStatus: sql.NullString{}, Bills: 1, Total: sql.NullFloat64{Float64: 99.5, Valid: true}},
		{PaymentStatus: sql.NullString{String: "Paid", Valid: true}, Bills: 2, Total: sql.NullFloat64{Float64: 2300.456, Valid: true}},
		{PaymentStatus: sql.NullString{String: "Pending", Valid: true}, Bills: 1},
	}, nil
}

const wantReport = `
[TABLES CREATED]
   * Patients
   * Doctors

[PATIENTS - Data]
--------------------------------------
   P001 | Aarav Sharma | 9876543210

[DOCTORS]
--------------------------------------
   D001 | Dr. Sanjay Mehta | Cardiology | Central Hospital

[APPOINTMENTS]
   Total Appointments: 1

[APPOINTMENT DETAILS]
--------------------------------------
   Aarav Sharma -> Dr. Sanjay Mehta | 2023-05-02 | Chest pain | Completed

[TREATMENTS]
--------------------------------------
   T001 | ECG | Resting electrocardiogram | Rs.1500
   T002 | Consultation | Waived | Rs.n/a

[BILLING SUMMARY]
--------------------------------------
   (no status): 1 bills | Total: Rs.99.50
   Paid: 2 bills | Total: Rs.2300.46
   Pending: 1 bills | Total: Rs.0.00

[VIEWS CREATED]
   * vw_outstanding_bills

[INDEXES CREATED]
   * idx_billing_status
`

func TestRun(t *testing.T) {
	var out bytes.Buffer
	store := &fakeStore{}
	require.NoError(t, New(store, &out, zaptest.NewLogger(t).Sugar()).Run(context.Background()))

	assert.Equal(t, wantReport, out.String())
	assert.Equal(t, []string{
		"catalog:table", "patients", "doctors", "count", "details",
		"treatments", "billing", "catalog:view", "catalog:index",
	}, store.calls)
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	var out bytes.Buffer
	store := &fakeStore{failOn: "billing"}
	err := New(store, &out, zaptest.NewLogger(t).Sugar()).Run(context.Background())
	require.ErrorIs(t, err, errBoom)

	assert.Equal(t, "billing", store.calls[len(store.calls)-1])
	assert.Contains(t, out.String(), "[TREATMENTS]")
	assert.Contains(t, out.String(), "[BILLING SUMMARY]")
	assert.NotContains(t, out.String(), "bills | Total")
	assert.NotContains(t, out.String(), "[VIEWS CREATED]")
	assert.NotContains(t, out.String(), "[INDEXES CREATED]")
}

func TestRunAgainstSeedScript(t *testing.T) {
	ctx := context.Background()
	log := zaptest.NewLogger(t).Sugar()
	gdb, err := db.Open(":memory:", db.DriverCGO, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	require.NoError(t, db.BootstrapSQLite(ctx, gdb, "../healthcare_schema.sql", log))

	var out bytes.Buffer
	require.NoError(t, New(db.NewSQLStore(gdb), &out, log).Run(ctx))
	got := out.String()

	assert.Contains(t, got, "   * Appointments\n")
	assert.Contains(t, got, "   P005 | Kabir Singh | 9890123456\n")
	assert.NotContains(t, got, "P006 | Meera")
	assert.Contains(t, got, "   D004 | Dr. Neha Joshi | Dermatology | Eastside Clinic\n")
	assert.Contains(t, got, "   Total Appointments: 7\n")
	assert.Equal(t, 5, strings.Count(got, " -> Dr. "))
	assert.Contains(t, got, "   T005 | MRI | Contrast MRI of the abdomen | Rs.12500.5\n")
	assert.Contains(t, got, "   Paid: 3 bills | Total: Rs.3250.25\n")
	assert.Contains(t, got, "   Pending: 2 bills | Total: Rs.57500.50\n")
	assert.Contains(t, got, "   Failed: 1 bills | Total: Rs.700.00\n")
	assert.Contains(t, got, "   * vw_doctor_workload\n")
	assert.Contains(t, got, "   * idx_billing_status\n")
	assert.NotContains(t, got, "sqlite_autoindex")
}

func TestRunWithNullValues(t *testing.T) {
	ctx := context.Background()
	log := zaptest.NewLogger(t).Sugar()
	gdb, err := db.Open(":memory:", db.DriverCGO, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	require.NoError(t, db.ExecScript(ctx, gdb, `
		CREATE TABLE Treatments (treatment_id TEXT, treatment_type TEXT, description TEXT, cost REAL);
		INSERT INTO Treatments VALUES ('T1', 'ECG', NULL, NULL);
		INSERT INTO Treatments VALUES ('T2', 'MRI', 'Knee', 1500.0);
		CREATE TABLE Billing (bill_id TEXT, amount REAL, payment_status TEXT);
		INSERT INTO Billing VALUES ('B1', 120.5, NULL);
		INSERT INTO Billing VALUES ('B2', 80, 'Paid');
	`))

	var out bytes.Buffer
	r := New(db.NewSQLStore(gdb), &out, log)
	require.NoError(t, r.treatments(ctx))
	require.NoError(t, r.billing(ctx))

	got := out.String()
	assert.Contains(t, got, "   T1 | ECG |  | Rs.n/a\n")
	assert.NotContains(t, got, "Rs.0.00")
	assert.Contains(t, got, "   T2 | MRI | Knee | Rs.1500\n")
	assert.Contains(t, got, "   (no status): 1 bills | Total: Rs.120.50\n")
	assert.Contains(t, got, "   Paid: 1 bills | Total: Rs.80.00\n")
}

func TestBanners(t *testing.T) {
	var out bytes.Buffer
	PrintCreated(&out)
	PrintError(&out, errors.New(`near "CREAT": syntax error`))
	PrintCompleted(&out, "hospital.db")

	assert.Equal(t, "[SUCCESS] DATABASE CREATED SUCCESSFULLY!\n"+
		"--------------------------------------\n"+
		"[ERROR]: near \"CREAT\": syntax error\n"+
		"\n--------------------\n"+
		"[SUCCESS] ALL SQL OPERATIONS COMPLETED!\n"+
		"--------------------\n"+
		"\nDatabase file created: hospital.db\n", out.String())
}

func TestCost(t *testing.T) {
	assert.Equal(t, "Rs.n/a", Cost(sql.NullFloat64{}))
	assert.Equal(t, "Rs.0", Cost(sql.NullFloat64{Valid: true}))
	assert.Equal(t, "Rs.1500", Cost(sql.NullFloat64{Float64: 1500, Valid: true}))
	assert.Equal(t, "Rs.950.25", Cost(sql.NullFloat64{Float64: 950.25, Valid: true}))
}

func TestRupees(t *testing.T) {
	assert.Equal(t, "Rs.0.00", Rupees(0))
	assert.Equal(t, "Rs.950.25", Rupees(950.25))
	assert.Equal(t, "Rs.10.01", Rupees(10.005000001))
}
