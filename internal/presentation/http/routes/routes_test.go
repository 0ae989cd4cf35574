package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pasvilla-invoicing/internal/application/service"
	"github.com/sangkips/pasvilla-invoicing/internal/config"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/entity"
	"github.com/sangkips/pasvilla-invoicing/internal/domain/invoicing"
	"github.com/sangkips/pasvilla-invoicing/internal/infrastructure/catalog"
	"github.com/sangkips/pasvilla-invoicing/internal/infrastructure/memory"
	"github.com/sangkips/pasvilla-invoicing/internal/presentation/http/handler"
	"github.com/sangkips/pasvilla-invoicing/pkg/printer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

type testServer struct {
	router  *gin.Engine
	store   *memory.Store
	printer *printer.Recorder
	cakeID  string
	donutID string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store, err := memory.NewStore()
	require.NoError(t, err)
	_, err = catalog.Seed(ctx, store.Products())
	require.NoError(t, err)

	cake, err := store.Products().GetByCode(ctx, "PAS-CHO")
	require.NoError(t, err)
	donut, err := store.Products().GetByCode(ctx, "DON-003")
	require.NoError(t, err)

	cfg := &config.Config{
		App:       config.AppConfig{Name: "pasvilla-invoicing"},
		Store:     config.StoreConfig{Driver: config.StoreDriverMemory},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		RateLimit: config.RateLimitConfig{Requests: 1000, Duration: 1},
		Invoice:   config.InvoiceConfig{IdempotencyTTL: time.Hour},
	}

	builder := invoicing.NewBuilder(invoicing.NewIDGenerator("pasvilla", 3, "pasvilla000"), nil)
	invoiceService := service.NewInvoiceService(store.Invoices(), store.Products(), builder, invoicing.NewLifecycle(nil), 5)
	rec := &printer.Recorder{}
	printerService := service.NewPrinterService(rec, store.Invoices(), printer.Config{Type: "none"},
		entity.ReceiptHeader{StoreName: "Pasvilla"}, printer.Width80mm)

	router := Setup(ctx, &Handlers{
		Invoice: handler.NewInvoiceHandler(invoiceService),
		Product: handler.NewProductHandler(service.NewProductService(store.Products())),
		Printer: handler.NewPrinterHandler(printerService),
	}, &Deps{Cfg: cfg, IdempotencyRepo: store.Idempotency()})

	return &testServer{
		router:  router,
		store:   store,
		printer: rec,
		cakeID:  cake.ID.String(),
		donutID: donut.ID.String(),
	}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func (s *testServer) cart() gin.H {
	return gin.H{
		"items": []gin.H{
			{"product_id": s.cakeID, "quantity": 1, "portions": 12},
			{"product_id": s.donutID, "quantity": 2},
		},
		"customer_name":  "María García",
		"customer_nit":   "1234567-8",
		"customer_phone": "5555-0101",
		"status":         "pending",
	}
}

type invoiceBody struct {
	ID                 string  `json:"id"`
	Status             string  `json:"status"`
	Total              float64 `json:"total"`
	Balance            float64 `json:"balance"`
	PartialPayment     float64 `json:"partial_payment"`
	CancellationReason string  `json:"cancellation_reason"`
	Comment            string  `json:"comment"`
}

func decodeInvoice(t *testing.T, env envelope) invoiceBody {
	t.Helper()
	var inv invoiceBody
	require.NoError(t, json.Unmarshal(env.Data, &inv))
	return inv
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCreateAndGetInvoice(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodPost, "/api/v1/invoices", s.cart())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	inv := decodeInvoice(t, env)
	assert.Equal(t, "pasvilla001", inv.ID)
	assert.Equal(t, "pending", inv.Status)
	assert.Equal(t, 310.0, inv.Total)

	w, env = s.do(t, http.MethodGet, "/api/v1/invoices/pasvilla001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 310.0, decodeInvoice(t, env).Total)

	w, env = s.do(t, http.MethodGet, "/api/v1/invoices/pasvilla001/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var summary struct {
		ID          string  `json:"id"`
		Total       float64 `json:"total"`
		CustomerNIT string  `json:"customer_nit"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, "pasvilla001", summary.ID)
	assert.Equal(t, "1234567-8", summary.CustomerNIT)

	w, _ = s.do(t, http.MethodGet, "/api/v1/invoices/pasvilla404", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateInvoiceDefaultsToPending(t *testing.T) {
	s := newTestServer(t)

	cart := s.cart()
	delete(cart, "status")
	w, env := s.do(t, http.MethodPost, "/api/v1/invoices", cart)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "pending", decodeInvoice(t, env).Status)
}

func TestCreateInvoiceRejections(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodPost, "/api/v1/invoices", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	cart := s.cart()
	cart["status"] = "partial"
	cart["customer_phone"] = "  "
	w, env := s.do(t, http.MethodPost, "/api/v1/invoices", cart)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var fields []string
	for _, e := range env.Errors {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"customer_phone", "partial_payment"}, fields)

	cart = s.cart()
	cart["items"] = []gin.H{{"product_id": "8c0c6f3e-9b1e-4b6e-a1a0-3e5b0c6b2f11", "quantity": 1}}
	w, _ = s.do(t, http.MethodPost, "/api/v1/invoices", cart)
	assert.Equal(t, http.StatusNotFound, w.Code)

	last, err := s.store.Invoices().FindMostRecent(context.Background())
	require.NoError(t, err)
	assert.Nil(t, last)
}

func TestAmountsBeyondCentsRange(t *testing.T) {
	s := newTestServer(t)
	fieldsOf := func(env envelope) []string {
		var fields []string
		for _, e := range env.Errors {
			fields = append(fields, e.Field)
		}
		return fields
	}

	cart := s.cart()
	cart["status"] = "partial"
	cart["partial_payment"] = "184467440737095516.17"
	w, env := s.do(t, http.MethodPost, "/api/v1/invoices", cart)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	assert.Equal(t, []string{"partial_payment"}, fieldsOf(env))

	cart = s.cart()
	cart["items"] = []gin.H{{"product_id": s.donutID, "quantity": 1 << 60}}
	w, env = s.do(t, http.MethodPost, "/api/v1/invoices", cart)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	assert.Equal(t, []string{"items[0].quantity"}, fieldsOf(env))

	last, err := s.store.Invoices().FindMostRecent(context.Background())
	require.NoError(t, err)
	assert.Nil(t, last)

	w, _ = s.do(t, http.MethodPost, "/api/v1/invoices", s.cart())
	require.Equal(t, http.StatusCreated, w.Code)
	w, env = s.do(t, http.MethodPatch, "/api/v1/invoices/pasvilla001/status", gin.H{"status": "partial", "partial_payment": "184467440737095516.17"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []string{"partial_payment"}, fieldsOf(env))

	w, env = s.do(t, http.MethodGet, "/api/v1/invoices/pasvilla001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pending", decodeInvoice(t, env).Status)
}

func TestCreateInvoiceIdempotencyReplay(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodPost, "/api/v1/invoices", s.cart(), "Idempotency-Key", "cart-42")
	require.Equal(t, http.StatusCreated, w.Code)
	first := decodeInvoice(t, env)

	w, env = s.do(t, http.MethodPost, "/api/v1/invoices", s.cart(), "Idempotency-Key", "cart-42")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "true", w.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, first.ID, decodeInvoice(t, env).ID)

	w, env = s.do(t, http.MethodPost, "/api/v1/invoices", s.cart(), "Idempotency-Key", "cart-43")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "pasvilla002", decodeInvoice(t, env).ID)
}

func TestInvoiceLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodPost, "/api/v1/invoices", s.cart())
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := s.do(t, http.MethodPatch, "/api/v1/invoices/pasvilla001/status", gin.H{"status": "partial", "partial_payment": "100.50"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	inv := decodeInvoice(t, env)
	assert.Equal(t, "partial", inv.Status)
	assert.Equal(t, 100.5, inv.PartialPayment)
	assert.Equal(t, 209.5, inv.Balance)

	w, _ = s.do(t, http.MethodPatch, "/api/v1/invoices/pasvilla001/status", gin.H{"status": "cancelled"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = s.do(t, http.MethodPatch, "/api/v1/invoices/pasvilla001/status", gin.H{"status": "shipped"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, env = s.do(t, http.MethodPatch, "/api/v1/invoices/pasvilla001/status", gin.H{"status": "cancelled", "cancellation_reason": "Cliente canceló"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Cliente canceló", decodeInvoice(t, env).CancellationReason)

	w, _ = s.do(t, http.MethodPatch, "/api/v1/invoices/pasvilla001/status", gin.H{"status": "completed"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.do(t, http.MethodPut, "/api/v1/invoices/pasvilla001", gin.H{"comment": "tarde"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateInvoice(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodPost, "/api/v1/invoices", s.cart())
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := s.do(t, http.MethodPut, "/api/v1/invoices/pasvilla001", gin.H{"status": "completed", "items": []gin.H{}})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Len(t, env.Errors, 2)

	w, env = s.do(t, http.MethodPut, "/api/v1/invoices/pasvilla001", gin.H{"comment": "Con vela", "customer_phone": "5555-9999"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	inv := decodeInvoice(t, env)
	assert.Equal(t, "Con vela", inv.Comment)
	assert.Equal(t, "pending", inv.Status)
}

func TestListInvoices(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < 3; i++ {
		w, _ := s.do(t, http.MethodPost, "/api/v1/invoices", s.cart())
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w, _ := s.do(t, http.MethodPatch, "/api/v1/invoices/pasvilla002/status", gin.H{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)

	w, env := s.do(t, http.MethodGet, "/api/v1/invoices?status=completed&search=garc%C3%ADa", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items      []invoiceBody `json:"items"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "pasvilla002", page.Items[0].ID)

	w, env = s.do(t, http.MethodGet, "/api/v1/invoices?per_page=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(3), page.Pagination.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "pasvilla003", page.Items[0].ID)

	w, _ = s.do(t, http.MethodGet, "/api/v1/invoices?status=unknown", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestProductRoutes(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodGet, "/api/v1/products?category=Pasteles&min_price=18.00", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items []json.RawMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Len(t, page.Items, 3)

	w, _ = s.do(t, http.MethodGet, "/api/v1/products?min_price=abc", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/products/"+s.cakeID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/products/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = s.do(t, http.MethodGet, "/api/v1/products/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var categories []string
	require.NoError(t, json.Unmarshal(env.Data, &categories))
	assert.Contains(t, categories, "Pasteles")
}

func TestPrinterRoutes(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodPost, "/api/v1/invoices", s.cart())
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/printer/receipt", gin.H{"invoice_id": "pasvilla001"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, s.printer.Jobs(), 1)

	w, _ = s.do(t, http.MethodPost, "/api/v1/printer/receipt", gin.H{"invoice_id": "pasvilla404"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/printer/status", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/printer/test", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, s.printer.Jobs(), 2)
}
