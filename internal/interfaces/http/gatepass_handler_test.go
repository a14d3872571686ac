package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maxito7/gatepass_backend/internal/application"
	"github.com/Maxito7/gatepass_backend/internal/domain"
)

// memIdentityRepo y memVisitRepo son stores en memoria para probar los
// handlers de punta a punta sin base de datos

type memIdentityRepo struct {
	identities map[domain.Variant][]*domain.Identity
	nextID     int
}

func (m *memIdentityRepo) FindByAadhaar(variant domain.Variant, aadhaar string) (*domain.Identity, error) {
	for _, identity := range m.identities[variant] {
		if identity.Aadhaar == aadhaar {
			return identity, nil
		}
	}
	return nil, nil
}

func (m *memIdentityRepo) Create(variant domain.Variant, identity *domain.Identity) error {
	m.nextID++
	identity.ID = m.nextID
	m.identities[variant] = append(m.identities[variant], identity)
	return nil
}

type memVisitRepo struct {
	identities *memIdentityRepo
	visits     map[domain.Variant][]*domain.VisitEntry
	nextID     int
}

func (m *memVisitRepo) Create(variant domain.Variant, visit *domain.VisitEntry) error {
	m.nextID++
	visit.ID = m.nextID
	copia := *visit
	m.visits[variant] = append(m.visits[variant], &copia)
	return nil
}

func (m *memVisitRepo) record(variant domain.Variant, visit *domain.VisitEntry) *domain.CombinedRecord {
	var identity *domain.Identity
	for _, i := range m.identities.identities[variant] {
		if i.ID == visit.IdentityID {
			identity = i
		}
	}

	total := 0
	for _, v := range m.visits[variant] {
		if v.IdentityID == visit.IdentityID {
			total++
		}
	}

	return &domain.CombinedRecord{
		VisitorType: variant.Label(),
		Aadhaar:     identity.Aadhaar,
		Name:        identity.Name,
		Address:     identity.Address,
		TotalVisits: total,
		LastVisit:   visit.VisitDate,
		Persons:     visit.Persons,
		GatePassNo:  visit.GatePassNo,
	}
}

func (m *memVisitRepo) Filter(variant domain.Variant, criteria domain.FilterCriteria) ([]domain.CombinedRecord, error) {
	var records []domain.CombinedRecord
	for _, visit := range m.visits[variant] {
		if criteria.Date != nil && !visit.VisitDate.Equal(*criteria.Date) {
			continue
		}
		records = append(records, *m.record(variant, visit))
	}
	return records, nil
}

func (m *memVisitRepo) HistoryByAadhaar(variant domain.Variant, aadhaar string) ([]domain.VisitEntry, error) {
	var entries []domain.VisitEntry
	for _, identity := range m.identities.identities[variant] {
		if identity.Aadhaar != aadhaar {
			continue
		}
		for _, visit := range m.visits[variant] {
			if visit.IdentityID == identity.ID {
				entries = append(entries, *visit)
			}
		}
	}
	return entries, nil
}

func (m *memVisitRepo) FindByGatePass(variant domain.Variant, aadhaar, gatePassNo string) (*domain.CombinedRecord, error) {
	for _, visit := range m.visits[variant] {
		rec := m.record(variant, visit)
		if rec.Aadhaar == aadhaar && rec.GatePassNo == gatePassNo {
			return rec, nil
		}
	}
	return nil, domain.ErrGatePassNotFound
}

func (m *memVisitRepo) FindEntryByGatePass(variant domain.Variant, gatePassNo string) (*domain.VisitEntry, error) {
	for _, visit := range m.visits[variant] {
		if visit.GatePassNo == gatePassNo {
			return visit, nil
		}
	}
	return nil, domain.ErrGatePassNotFound
}

func (m *memVisitRepo) ClearExpiredTokens() (int64, error) {
	return 0, nil
}

// newTestApp arma la app Fiber con las mismas rutas que main
func newTestApp(limiter *application.RegistrationLimiter) *fiber.App {
	identities := &memIdentityRepo{identities: make(map[domain.Variant][]*domain.Identity)}
	visits := &memVisitRepo{identities: identities, visits: make(map[domain.Variant][]*domain.VisitEntry)}

	gatePassService := application.NewGatePassService(identities, visits, nil, "security@company.com", "hse@company.com")
	gatePassHandler := NewGatePassHandler(gatePassService, limiter)

	reportService := application.NewReportService(identities, visits)
	reportHandler := NewReportHandler(reportService)

	app := fiber.New()
	api := app.Group("/api/visitors")
	api.Get("/filter", reportHandler.Filter)
	api.Get("/history/:aadhar", reportHandler.History)
	api.Get("/get-by-aadhar/:aadhar", reportHandler.GetByAadhaar)
	api.Get("/reopen/:type/:aadhar/:gatePassNo", reportHandler.Reopen)
	api.Post("/add", gatePassHandler.Add)
	api.Post("/sendGatePass", gatePassHandler.SendGatePass)

	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	return body
}

func addBody() map[string]interface{} {
	return map[string]interface{}{
		"visitorType": "visitor",
		"aadhar":      "123456789012",
		"name":        "A",
		"address":     "X",
		"generatedBy": "Recepción",
	}
}

func TestAddEmitePase(t *testing.T) {
	app := newTestApp(nil)

	resp := postJSON(t, app, "/api/visitors/add", addBody())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "visitor visit recorded", body["message"])
	assert.Regexp(t, `^GP-\d{6}-[0-9A-Z]{3}$`, body["gatePassNo"])
	assert.Len(t, body["token"], 32)
}

func TestAddAadhaarInvalido(t *testing.T) {
	app := newTestApp(nil)

	invalid := addBody()
	invalid["aadhar"] = "123"

	resp := postJSON(t, app, "/api/visitors/add", invalid)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Contains(t, body["error"], "12 dígitos")
}

func TestAddConflictoDeIdentidad(t *testing.T) {
	app := newTestApp(nil)

	resp := postJSON(t, app, "/api/visitors/add", addBody())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	conflicting := addBody()
	conflicting["address"] = "Y"

	resp = postJSON(t, app, "/api/visitors/add", conflicting)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAddRespetaLimite(t *testing.T) {
	app := newTestApp(application.NewRegistrationLimiter(time.Minute, 1))

	resp := postJSON(t, app, "/api/visitors/add", addBody())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	second := addBody()
	resp = postJSON(t, app, "/api/visitors/add", second)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestReopenInexistente(t *testing.T) {
	app := newTestApp(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/visitors/reopen/visitor/123456789012/GP-250101-ZZZ", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReopenDevuelveLaFilaExacta(t *testing.T) {
	app := newTestApp(nil)

	resp := postJSON(t, app, "/api/visitors/add", addBody())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	issued := decodeBody(t, resp)
	gatePassNo := issued["gatePassNo"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/visitors/reopen/visitor/123456789012/"+gatePassNo, nil)
	getResp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, getResp.StatusCode)

	body := decodeBody(t, getResp)
	assert.Equal(t, gatePassNo, body["gate_pass_no"])
	assert.Equal(t, "Visitor", body["visitor_type"])
}

func TestFilterDevuelveArreglo(t *testing.T) {
	app := newTestApp(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/visitors/filter?date=2025-01-01", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestGetByAadhaarAutocompleta(t *testing.T) {
	app := newTestApp(nil)

	resp := postJSON(t, app, "/api/visitors/add", addBody())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/visitors/get-by-aadhar/123456789012", nil)
	getResp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, getResp.StatusCode)

	body := decodeBody(t, getResp)
	assert.Equal(t, "A", body["name"])
	assert.Equal(t, "Visitor", body["type"])

	req = httptest.NewRequest(http.MethodGet, "/api/visitors/get-by-aadhar/999999999999", nil)
	getResp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
}
