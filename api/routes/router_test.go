package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andresfigueroa/salescap-backend/internal/pricecuts"
	"github.com/andresfigueroa/salescap-backend/internal/purchases"
	"github.com/andresfigueroa/salescap-backend/pkg/config"
	"github.com/andresfigueroa/salescap-backend/pkg/logger"
	"github.com/andresfigueroa/salescap-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubPriceCutService struct{}

// Create implements [pricecuts.Service].
func (s stubPriceCutService) Create(ctx context.Context, input pricecuts.CreatePriceCutInput) (*pricecuts.PriceCutDTO, error) {
	return &pricecuts.PriceCutDTO{ID: uuid.New(), ProductID: input.ProductID}, nil
}

// Get implements [pricecuts.Service].
func (s stubPriceCutService) Get(ctx context.Context, id uuid.UUID) (*pricecuts.PriceCutDTO, error) {
	return &pricecuts.PriceCutDTO{ID: id}, nil
}

// Update implements [pricecuts.Service].
func (s stubPriceCutService) Update(ctx context.Context, id uuid.UUID, input pricecuts.UpdatePriceCutInput) (*pricecuts.PriceCutDTO, error) {
	panic("unimplemented")
}

// Delete implements [pricecuts.Service].
func (s stubPriceCutService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (s stubPriceCutService) List(ctx context.Context) ([]pricecuts.PriceCutDTO, error) {
	return []pricecuts.PriceCutDTO{}, nil
}

func (s stubPriceCutService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]pricecuts.PriceCutDTO, error) {
	return []pricecuts.PriceCutDTO{}, nil
}

type stubPurchaseService struct{}

// ProcessPurchase implements [purchases.Service].
func (s stubPurchaseService) ProcessPurchase(ctx context.Context, input purchases.ProcessPurchaseInput) (*purchases.PurchaseDTO, error) {
	return &purchases.PurchaseDTO{ID: uuid.New(), PriceCutID: input.PriceCutID, CustomerID: input.CustomerID, Quantity: input.Quantity}, nil
}

func (s stubPurchaseService) GetCustomerStatus(ctx context.Context, customerID, priceCutID uuid.UUID) (*purchases.CustomerStatusDTO, error) {
	return &purchases.CustomerStatusDTO{CustomerID: customerID, PriceCutID: priceCutID}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
	}
}

func newTestRouter(registry *prometheus.Registry) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		testConfig(),
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		registry,
		stubPriceCutService{},
		stubPurchaseService{},
	)
}

func TestPublicPing(t *testing.T) {
	router := newTestRouter(nil)
	req := httptest.NewRequest(http.MethodGet, "/api/public/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public ping got %d", resp.Code)
	}
}

func TestHealthLiveReportsEnvironment(t *testing.T) {
	router := newTestRouter(nil)
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
	if env := resp.Header().Get("X-SalesCap-Env"); env != "test" {
		t.Fatalf("expected env header test got %q", env)
	}
}

func TestPriceCutListRouteWired(t *testing.T) {
	router := newTestRouter(nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/price-cuts", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for price cut list got %d", resp.Code)
	}
}

// When no redis client is wired the idempotency middleware is skipped and
// write routes serve requests directly, keyed or not.
func TestWritesPassThroughWithoutRedis(t *testing.T) {
	router := newTestRouter(nil)

	createBody := `{"product_id":"` + uuid.NewString() + `",` +
		`"sale_price":"19.99",` +
		`"start_date":"2026-09-01T00:00:00Z",` +
		`"end_date":"2026-09-30T00:00:00Z",` +
		`"max_items_per_customer":5}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/price-cuts", strings.NewReader(createBody))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating price cut without redis got %d: %s", resp.Code, resp.Body.String())
	}

	processBody := `{"price_cut_id":"` + uuid.NewString() + `","customer_id":"` + uuid.NewString() + `","quantity":1}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/purchases/process", strings.NewReader(processBody))
	req.Header.Set("Idempotency-Key", "unused-without-redis")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 processing purchase without redis got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCustomerStatusRouteWired(t *testing.T) {
	router := newTestRouter(nil)
	target := "/api/v1/purchases/customer/" + uuid.NewString() + "/price-cut/" + uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for customer status got %d", resp.Code)
	}
}

func TestMetricsEndpointOnlyWithRegistry(t *testing.T) {
	withRegistry := newTestRouter(prometheus.NewRegistry())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	withRegistry.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for metrics got %d", resp.Code)
	}

	without := newTestRouter(nil)
	resp = httptest.NewRecorder()
	without.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without registry got %d", resp.Code)
	}
}
