package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	authdomain "github.com/inkvoice/inkvoice/internal/auth/domain"
	"github.com/inkvoice/inkvoice/internal/auth/session"
	"github.com/inkvoice/inkvoice/internal/config"
	deliveryservice "github.com/inkvoice/inkvoice/internal/delivery/service"
	invoicedomain "github.com/inkvoice/inkvoice/internal/invoice/domain"
	invoiceservice "github.com/inkvoice/inkvoice/internal/invoice/service"
	"github.com/inkvoice/inkvoice/internal/observability"
	profiledomain "github.com/inkvoice/inkvoice/internal/profile/domain"
	profileservice "github.com/inkvoice/inkvoice/internal/profile/service"
	"github.com/inkvoice/inkvoice/internal/providers/email"
	"github.com/inkvoice/inkvoice/internal/providers/pdf"
)

// stubAuth resolves fixed session tokens to principals.
type stubAuth struct {
	sessions map[string]string
}

func (s *stubAuth) RequestLogin(ctx context.Context, emailAddr string) error { return nil }

func (s *stubAuth) VerifyLogin(ctx context.Context, token string) (authdomain.Session, error) {
	return authdomain.Session{}, authdomain.ErrInvalidToken
}

func (s *stubAuth) Authenticate(ctx context.Context, token string) (authdomain.Principal, error) {
	if addr, ok := s.sessions[token]; ok {
		return authdomain.Principal{Email: addr}, nil
	}
	return authdomain.Principal{}, authdomain.ErrUnauthorized
}

func (s *stubAuth) Logout(ctx context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

func setupServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&invoicedomain.Invoice{}, &profiledomain.Profile{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()

	invoiceSvc := invoiceservice.NewService(invoiceservice.ServiceParam{
		DB:    db,
		Log:   log,
		GenID: node,
	})
	profileSvc := profileservice.NewService(profileservice.ServiceParam{
		DB:  db,
		Log: log,
	})
	renderer := &pdf.NoOpRenderer{}
	deliverySvc := deliveryservice.NewService(deliveryservice.ServiceParam{
		Log:      log,
		Invoices: invoiceSvc,
		Profiles: profileSvc,
		Renderer: renderer,
		Email:    &email.NoOpProvider{},
	})

	cfg := config.Config{}
	engine := NewEngine(observability.Config{}, nil)

	return NewServer(ServerParams{
		Gin: engine,
		Cfg: cfg,
		Authsvc: &stubAuth{sessions: map[string]string{
			"token-a": "a@x.com",
			"token-b": "b@x.com",
		}},
		Sessions:    session.NewManager(cfg),
		InvoiceSvc:  invoiceSvc,
		ProfileSvc:  profileSvc,
		DeliverySvc: deliverySvc,
		Renderer:    renderer,
	})
}

func doJSON(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: s.sessions.CookieName(), Value: token})
	}

	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func invoiceBody() map[string]any {
	return map[string]any{
		"clientName":    "Acme Corp",
		"clientEmail":   "billing@acme.test",
		"invoiceNumber": "INV-001",
		"issueDate":     "2026-08-01",
		"dueDate":       "2026-08-31",
		"items": []map[string]any{
			{"description": "Consulting", "quantity": 2, "rate": 50, "tax": 10},
		},
	}
}

func createInvoice(t *testing.T, s *Server, token string) map[string]any {
	t.Helper()

	w := doJSON(t, s, http.MethodPost, "/api/invoices", token, invoiceBody())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	s := setupServer(t)

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/invoices"},
		{http.MethodPost, "/api/invoices"},
		{http.MethodGet, "/api/profile"},
		{http.MethodGet, "/auth/me"},
	} {
		w := doJSON(t, s, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
	}
}

func TestCreateInvoiceRecomputesTotals(t *testing.T) {
	s := setupServer(t)

	// Client-submitted totals are discarded.
	body := invoiceBody()
	body["subtotal"] = 9999.0
	body["total"] = 1.0

	w := doJSON(t, s, http.MethodPost, "/api/invoices", "token-a", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data invoicedomain.Invoice `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 100.0, resp.Data.Subtotal)
	assert.Equal(t, 10.0, resp.Data.TotalTax)
	assert.Equal(t, 110.0, resp.Data.Total)
	assert.Equal(t, invoicedomain.InvoiceStatusDraft, resp.Data.Status)
}

func TestSaveWithIDUpdatesExisting(t *testing.T) {
	s := setupServer(t)

	created := createInvoice(t, s, "token-a")
	id := created["_id"]

	body := invoiceBody()
	body["_id"] = id
	body["clientName"] = "Updated Corp"

	w := doJSON(t, s, http.MethodPost, "/api/invoices", "token-a", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.Data["_id"])
	assert.Equal(t, "Updated Corp", resp.Data["clientName"])

	list := doJSON(t, s, http.MethodGet, "/api/invoices", "token-a", nil)
	var listResp struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &listResp))
	assert.Len(t, listResp.Data, 1)
}

func TestForeignInvoiceIsNotFound(t *testing.T) {
	s := setupServer(t)

	created := createInvoice(t, s, "token-a")
	path := fmt.Sprintf("/api/invoices/%v", created["_id"])

	w := doJSON(t, s, http.MethodGet, path, "token-b", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, s, http.MethodDelete, path, "token-b", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, s, http.MethodGet, path, "token-a", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSendWithoutProfileIsNotFound(t *testing.T) {
	s := setupServer(t)

	created := createInvoice(t, s, "token-a")
	path := fmt.Sprintf("/api/invoices/%v/send", created["_id"])

	w := doJSON(t, s, http.MethodPost, path, "token-a", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The failed send leaves the invoice draft.
	get := doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/invoices/%v", created["_id"]), "token-a", nil)
	var resp struct {
		Data invoicedomain.Invoice `json:"data"`
	}
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &resp))
	assert.Equal(t, invoicedomain.InvoiceStatusDraft, resp.Data.Status)
}

func TestSendFlipsStatusAndConflictsOnResend(t *testing.T) {
	s := setupServer(t)

	saveProfile := doJSON(t, s, http.MethodPost, "/api/profile", "token-a", map[string]any{
		"companyName": "My Studio",
		"address":     "1 Main St",
	})
	require.Equal(t, http.StatusOK, saveProfile.Code, saveProfile.Body.String())

	created := createInvoice(t, s, "token-a")
	path := fmt.Sprintf("/api/invoices/%v/send", created["_id"])

	w := doJSON(t, s, http.MethodPost, path, "token-a", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	get := doJSON(t, s, http.MethodGet, fmt.Sprintf("/api/invoices/%v", created["_id"]), "token-a", nil)
	var resp struct {
		Data invoicedomain.Invoice `json:"data"`
	}
	require.NoError(t, json.Unmarshal(get.Body.Bytes(), &resp))
	assert.Equal(t, invoicedomain.InvoiceStatusSent, resp.Data.Status)
	require.NotNil(t, resp.Data.SentAt)
	assert.WithinDuration(t, time.Now(), *resp.Data.SentAt, time.Minute)

	w = doJSON(t, s, http.MethodPost, path, "token-a", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestProfileRoundTrip(t *testing.T) {
	s := setupServer(t)

	get := doJSON(t, s, http.MethodGet, "/api/profile", "token-a", nil)
	require.Equal(t, http.StatusOK, get.Code)

	save := doJSON(t, s, http.MethodPost, "/api/profile", "token-a", map[string]any{
		"companyName": "My Studio",
		"address":     "1 Main St",
		"currency":    "EUR",
	})
	require.Equal(t, http.StatusOK, save.Code)

	var resp struct {
		Data profiledomain.Profile `json:"data"`
	}
	require.NoError(t, json.Unmarshal(save.Body.Bytes(), &resp))
	assert.Equal(t, "My Studio", resp.Data.CompanyName)
	assert.Equal(t, "EUR", resp.Data.Currency)
}

func TestGeneratePDF(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/generate-pdf", "", map[string]any{
		"html": "<div>Invoice</div>",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestGeneratePDFRejectsEmptyHTML(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/generate-pdf", "", map[string]any{"html": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
