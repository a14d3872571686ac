package application

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Maxito7/gatepass_backend/internal/domain"
)

func newTestReportService() (*ReportService, *GatePassService, *fakeVisitRepo) {
	identities := newFakeIdentityRepo()
	visits := newFakeVisitRepo(identities)
	gatePass := NewGatePassService(identities, visits, nil, "security@company.com", "hse@company.com")
	report := NewReportService(identities, visits)
	return report, gatePass, visits
}

func registerOn(t *testing.T, gatePass *GatePassService, visits *fakeVisitRepo, variant, aadhaar, name, date string) string {
	t.Helper()

	req := &RegistrationRequest{
		VisitorType: variant,
		Aadhaar:     aadhaar,
		Name:        name,
		Address:     "X",
		GeneratedBy: "Recepción",
		Date:        date,
	}

	issued, err := gatePass.IssuePass(req)
	require.NoError(t, err)
	return issued.GatePassNo
}

func TestFilterCriteriosInvalidos(t *testing.T) {
	report, _, _ := newTestReportService()

	_, err := report.Filter("31-12-2025", "")
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)

	_, err = report.Filter("", "2025/01")
	assert.ErrorAs(t, err, &vErr)
}

func TestFilterExcluyeSinVisitasEnLaFecha(t *testing.T) {
	report, gatePass, visits := newTestReportService()

	registerOn(t, gatePass, visits, "visitor", "111122223333", "A", "2025-01-01")
	registerOn(t, gatePass, visits, "visitor", "111122223333", "A", "2025-02-10")
	registerOn(t, gatePass, visits, "visitor", "444455556666", "B", "2025-02-11")

	records, err := report.Filter("2025-02-10", "")
	require.NoError(t, err)

	// B no tiene visitas el 10/02; A sí, y su total histórico es completo
	require.Len(t, records, 1)
	assert.Equal(t, "111122223333", records[0].Aadhaar)
	assert.Equal(t, 2, records[0].TotalVisits)
	assert.Equal(t, "2025-02-10", records[0].LastVisit.Format("2006-01-02"))
}

func TestFilterUneVariantesOrdenadas(t *testing.T) {
	report, gatePass, visits := newTestReportService()

	registerOn(t, gatePass, visits, "visitor", "111122223333", "A", "2025-03-01")
	registerOn(t, gatePass, visits, "vendor", "444455556666", "B", "2025-03-05")
	registerOn(t, gatePass, visits, "visitor", "777788889999", "C", "2025-03-03")

	records, err := report.Filter("", "2025-03")
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, "Vendor", records[0].VisitorType)
	assert.Equal(t, "C", records[1].Name)
	assert.Equal(t, "A", records[2].Name)
}

func TestHistoryNormalizaAadhaar(t *testing.T) {
	report, gatePass, visits := newTestReportService()

	registerOn(t, gatePass, visits, "visitor", "111122223333", "A", "2025-01-01")
	registerOn(t, gatePass, visits, "visitor", "111122223333", "A", "2025-01-02")

	entries, err := report.History(domain.VariantVisitor, "1111 2222 3333")
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	_, err = report.History(domain.VariantVisitor, "123")
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestReopen(t *testing.T) {
	report, gatePass, visits := newTestReportService()

	registerOn(t, gatePass, visits, "visitor", "111122223333", "A", "2025-01-01")
	second := registerOn(t, gatePass, visits, "visitor", "111122223333", "A", "2025-01-05")

	// Devuelve exactamente la fila pedida, no la última de la identidad
	record, err := report.Reopen("visitor", "111122223333", second)
	require.NoError(t, err)
	assert.Equal(t, second, record.GatePassNo)
	assert.Equal(t, "2025-01-05", record.LastVisit.Format("2006-01-02"))

	_, err = report.Reopen("visitor", "111122223333", "GP-250101-ZZZ")
	assert.ErrorIs(t, err, domain.ErrGatePassNotFound)

	// La variante equivocada tampoco encuentra el pase
	_, err = report.Reopen("vendor", "111122223333", second)
	assert.ErrorIs(t, err, domain.ErrGatePassNotFound)
}

func TestGetByAadhaar(t *testing.T) {
	report, gatePass, visits := newTestReportService()

	registerOn(t, gatePass, visits, "vendor", "444455556666", "B", "2025-01-01")

	summary, err := report.GetByAadhaar("444455556666")
	require.NoError(t, err)
	assert.Equal(t, "B", summary.Name)
	assert.Equal(t, "Vendor", summary.Type)

	_, err = report.GetByAadhaar("000000000000")
	assert.ErrorIs(t, err, domain.ErrIdentityNotFound)
}

func TestDailyReportXLSX(t *testing.T) {
	report, gatePass, visits := newTestReportService()

	registerOn(t, gatePass, visits, "visitor", "111122223333", "A", time.Now().Format("2006-01-02"))

	data, err := report.DailyReportXLSX("")
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Reporte")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Tipo", rows[0][0])
	assert.Equal(t, "Visitor", rows[1][0])
	assert.Equal(t, "XXXXXXXX3333", rows[1][1])
}
