package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"order17vat/internal/hook"
	"order17vat/internal/metrics"
	"order17vat/internal/middleware"
	"order17vat/internal/module/order17vat"
	"order17vat/internal/repository"
	"order17vat/internal/service"
	"order17vat/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testSecret = []byte("handler-test-secret")

type testServer struct {
	db     *gorm.DB
	router *gin.Engine
	vat    service.VatService
}

// newTestServer wires the real stack on SQLite. wrapVat may replace the VAT service seen by handlers and hooks.
func newTestServer(t *testing.T, wrapVat func(service.VatService) service.VatService) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	hooks := hook.NewRegistry()
	tx := repository.NewTransactionManager(db)
	orderRepo := repository.NewOrderRepository(db)
	vatRepo := repository.NewVatRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	var vat service.VatService = service.NewVatService(vatRepo, orderRepo, auditRepo, tx, metrics.NewRegistry(), nil)
	if wrapVat != nil {
		vat = wrapVat(vat)
	}
	require.NoError(t, order17vat.New(vatRepo, vat, hooks).Install(context.Background()))

	auth := middleware.NewAuth(testSecret, false)
	router := gin.New()
	NewOrderHandler(service.NewOrderService(orderRepo, auditRepo, tx, hooks), auth).RegisterRoutes(router.Group(""))
	NewVatHandler(vat, auth).RegisterRoutes(router.Group(""))
	NewAuditHandler(service.NewAuditService(auditRepo), auth).RegisterRoutes(router.Group(""))

	return &testServer{db: db, router: router, vat: vat}
}

func testToken(t *testing.T, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "17",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func (s *testServer) do(t *testing.T, method, target string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Authorization", "Bearer "+testToken(t, "admin"))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func flashCookie(t *testing.T, w *httptest.ResponseRecorder) (*http.Cookie, []middleware.Flash) {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name != "order17vat_flash" || c.Value == "" {
			continue
		}
		raw, err := base64.RawURLEncoding.DecodeString(c.Value)
		require.NoError(t, err)
		var flashes []middleware.Flash
		require.NoError(t, json.Unmarshal(raw, &flashes))
		return c, flashes
	}
	t.Fatalf("no flash cookie set")
	return nil, nil
}
