package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openinventory/inventory-admin/internal/apperr"
	"github.com/openinventory/inventory-admin/internal/config"
	httpsvc "github.com/openinventory/inventory-admin/internal/http"
	"github.com/openinventory/inventory-admin/internal/http/apierr"
	"github.com/openinventory/inventory-admin/internal/model"
	"github.com/openinventory/inventory-admin/internal/service"
)

const testToken = "test-session-token"

var testIdentity = model.CallerIdentity{Email: "admin@example.com", Username: "admin", Currency: "USD"}

type stubAuthService struct {
	loginFn  func(ctx context.Context, email, password string) (string, model.CallerIdentity, error)
	logoutFn func(ctx context.Context, token string) error
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, model.CallerIdentity, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

func (s *stubAuthService) Authenticate(_ context.Context, token string) (model.CallerIdentity, error) {
	if token != testToken {
		return model.CallerIdentity{}, apperr.UnauthorizedErr
	}
	return testIdentity, nil
}

type stubInventoryService struct {
	createFn func(ctx context.Context, caller model.CallerIdentity, params service.CreateProductParams) (model.Product, error)
	updateFn func(ctx context.Context, caller model.CallerIdentity, id uuid.UUID, patch service.UpdateProductParams) (model.Product, error)
	deleteFn func(ctx context.Context, caller model.CallerIdentity, id uuid.UUID) error
	sellFn   func(ctx context.Context, caller model.CallerIdentity, params service.SellProductParams) (model.Product, error)
	getFn    func(ctx context.Context, id uuid.UUID) (model.Product, error)
	listFn   func(ctx context.Context) ([]model.Product, error)
}

func (s *stubInventoryService) CreateProduct(ctx context.Context, caller model.CallerIdentity, params service.CreateProductParams) (model.Product, error) {
	return s.createFn(ctx, caller, params)
}

func (s *stubInventoryService) UpdateProduct(ctx context.Context, caller model.CallerIdentity, id uuid.UUID, patch service.UpdateProductParams) (model.Product, error) {
	return s.updateFn(ctx, caller, id, patch)
}

func (s *stubInventoryService) DeleteProduct(ctx context.Context, caller model.CallerIdentity, id uuid.UUID) error {
	return s.deleteFn(ctx, caller, id)
}

func (s *stubInventoryService) SellProduct(ctx context.Context, caller model.CallerIdentity, params service.SellProductParams) (model.Product, error) {
	return s.sellFn(ctx, caller, params)
}

func (s *stubInventoryService) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	return s.getFn(ctx, id)
}

func (s *stubInventoryService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return s.listFn(ctx)
}

type stubDashboardService struct {
	dataFn       func(ctx context.Context, caller model.CallerIdentity) (service.DashboardData, error)
	activitiesFn func(ctx context.Context, limit int32) ([]model.Activity, error)
}

func (s *stubDashboardService) GetDashboardData(ctx context.Context, caller model.CallerIdentity) (service.DashboardData, error) {
	return s.dataFn(ctx, caller)
}

func (s *stubDashboardService) ListRecentActivities(ctx context.Context, limit int32) ([]model.Activity, error) {
	return s.activitiesFn(ctx, limit)
}

type stubSettingsService struct {
	getFn    func(ctx context.Context, caller model.CallerIdentity) (service.Settings, error)
	updateFn func(ctx context.Context, caller model.CallerIdentity, params service.UpdateSettingsParams) (service.Settings, error)
}

func (s *stubSettingsService) GetSettings(ctx context.Context, caller model.CallerIdentity) (service.Settings, error) {
	return s.getFn(ctx, caller)
}

func (s *stubSettingsService) UpdateSettings(ctx context.Context, caller model.CallerIdentity, params service.UpdateSettingsParams) (service.Settings, error) {
	return s.updateFn(ctx, caller, params)
}

type testStubs struct {
	auth      *stubAuthService
	inventory *stubInventoryService
	dashboard *stubDashboardService
	settings  *stubSettingsService
}

// The prometheus metrics register against the default registry, so the
// service under test is built exactly once and the stubs are re-pointed
// per test.
var (
	setupOnce    sync.Once
	sharedRouter *chi.Mux
	sharedStubs  *testStubs
)

func setup() (*chi.Mux, *testStubs) {
	setupOnce.Do(func() {
		sharedStubs = &testStubs{
			auth:      &stubAuthService{},
			inventory: &stubInventoryService{},
			dashboard: &stubDashboardService{},
			settings:  &stubSettingsService{},
		}

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		svc := httpsvc.New(
			config.HTTP{Port: 0},
			logger,
			sharedStubs.auth,
			sharedStubs.inventory,
			sharedStubs.dashboard,
			sharedStubs.settings,
		)

		sharedRouter = chi.NewRouter()
		svc.RegisterHandlers(sharedRouter)
	})

	return sharedRouter, sharedStubs
}

func doRequest(t *testing.T, router http.Handler, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		if raw, ok := body.(string); ok {
			reader = bytes.NewBufferString(raw)
		} else {
			buf, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewBuffer(buf)
		}
	}

	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) apierr.ErrorResponse {
	t.Helper()

	var res apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &res))
	return res
}

func TestAuthRoutes(t *testing.T) {
	router, stubs := setup()

	t.Run("Should return the token on login", func(t *testing.T) {
		stubs.auth.loginFn = func(_ context.Context, email, password string) (string, model.CallerIdentity, error) {
			assert.Equal(t, "admin@example.com", email)
			assert.Equal(t, "password123", password)
			return testToken, testIdentity, nil
		}

		resp := doRequest(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "admin@example.com",
			"password": "password123",
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			Token    string               `json:"token"`
			Identity model.CallerIdentity `json:"identity"`
		}
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, testToken, body.Token)
		assert.Equal(t, testIdentity, body.Identity)
	})

	t.Run("Should return 401 for bad credentials", func(t *testing.T) {
		stubs.auth.loginFn = func(context.Context, string, string) (string, model.CallerIdentity, error) {
			return "", model.CallerIdentity{}, apperr.InvalidCredentialsErr
		}

		resp := doRequest(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "admin@example.com",
			"password": "wrong",
		})

		require.Equal(t, http.StatusUnauthorized, resp.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, resp).Code)
	})

	t.Run("Should revoke the session on logout", func(t *testing.T) {
		var revoked string
		stubs.auth.logoutFn = func(_ context.Context, token string) error {
			revoked = token
			return nil
		}

		resp := doRequest(t, router, http.MethodPost, "/api/auth/logout", testToken, nil)

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, testToken, revoked)
	})
}

func TestAuthGate(t *testing.T) {
	router, stubs := setup()

	// handlers behind the gate have nil stubs; a request slipping past
	// the gate panics instead of returning 401
	stubs.inventory.listFn = nil

	routes := []struct {
		method string
		target string
	}{
		{http.MethodPost, "/api/auth/logout"},
		{http.MethodGet, "/api/products"},
		{http.MethodPost, "/api/products"},
		{http.MethodGet, "/api/products/" + uuid.NewString()},
		{http.MethodPut, "/api/products/" + uuid.NewString()},
		{http.MethodDelete, "/api/products/" + uuid.NewString()},
		{http.MethodPost, "/api/products/sell"},
		{http.MethodGet, "/api/dashboard"},
		{http.MethodGet, "/api/activities"},
		{http.MethodGet, "/api/settings"},
		{http.MethodPut, "/api/settings"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.target, func(t *testing.T) {
			resp := doRequest(t, router, route.method, route.target, "", nil)
			require.Equal(t, http.StatusUnauthorized, resp.Code)
			assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Code)

			resp = doRequest(t, router, route.method, route.target, "bogus", nil)
			require.Equal(t, http.StatusUnauthorized, resp.Code)
		})
	}
}

func TestProductRoutes(t *testing.T) {
	router, stubs := setup()

	t.Run("Should create a product as the caller", func(t *testing.T) {
		productID := uuid.New()
		stubs.inventory.createFn = func(_ context.Context, caller model.CallerIdentity, params service.CreateProductParams) (model.Product, error) {
			assert.Equal(t, testIdentity, caller)
			assert.Equal(t, "Widget", params.Name)
			assert.Equal(t, 20, params.Stock)
			return model.Product{ID: productID, Name: params.Name, Category: params.Category, Price: params.Price, Stock: params.Stock}, nil
		}

		resp := doRequest(t, router, http.MethodPost, "/api/products", testToken, map[string]any{
			"name":     "Widget",
			"category": "Home",
			"price":    10,
			"stock":    20,
		})

		require.Equal(t, http.StatusCreated, resp.Code)

		var product model.Product
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &product))
		assert.Equal(t, productID, product.ID)
	})

	t.Run("Should return 400 for a malformed body", func(t *testing.T) {
		resp := doRequest(t, router, http.MethodPost, "/api/products", testToken, "{not json")

		require.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "VALIDATION_FAILED", decodeError(t, resp).Code)
	})

	t.Run("Should return 400 for a malformed product id", func(t *testing.T) {
		resp := doRequest(t, router, http.MethodGet, "/api/products/not-a-uuid", testToken, nil)

		require.Equal(t, http.StatusBadRequest, resp.Code)
		res := decodeError(t, resp)
		assert.Equal(t, "VALIDATION_FAILED", res.Code)
		assert.Equal(t, "invalid product id", res.Message)
	})

	t.Run("Should return 404 for an unknown product", func(t *testing.T) {
		stubs.inventory.getFn = func(context.Context, uuid.UUID) (model.Product, error) {
			return model.Product{}, apperr.ProductNotFoundErr
		}

		resp := doRequest(t, router, http.MethodGet, "/api/products/"+uuid.NewString(), testToken, nil)

		require.Equal(t, http.StatusNotFound, resp.Code)
		assert.Equal(t, "PRODUCT_NOT_FOUND", decodeError(t, resp).Code)
	})

	t.Run("Should pass the patch through on update", func(t *testing.T) {
		productID := uuid.New()
		stubs.inventory.updateFn = func(_ context.Context, _ model.CallerIdentity, id uuid.UUID, patch service.UpdateProductParams) (model.Product, error) {
			assert.Equal(t, productID, id)
			require.NotNil(t, patch.Price)
			assert.Equal(t, 12.5, *patch.Price)
			assert.Nil(t, patch.Name)
			return model.Product{ID: id, Price: *patch.Price}, nil
		}

		resp := doRequest(t, router, http.MethodPut, "/api/products/"+productID.String(), testToken, map[string]any{
			"price": 12.5,
		})

		require.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("Should confirm the delete", func(t *testing.T) {
		stubs.inventory.deleteFn = func(context.Context, model.CallerIdentity, uuid.UUID) error {
			return nil
		}

		resp := doRequest(t, router, http.MethodDelete, "/api/products/"+uuid.NewString(), testToken, nil)

		require.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, `{"message": "product deleted"}`, resp.Body.String())
	})

	t.Run("Should return 400 when stock is insufficient", func(t *testing.T) {
		stubs.inventory.sellFn = func(context.Context, model.CallerIdentity, service.SellProductParams) (model.Product, error) {
			return model.Product{}, apperr.InsufficientStockErr
		}

		resp := doRequest(t, router, http.MethodPost, "/api/products/sell", testToken, map[string]any{
			"product_id": uuid.NewString(),
			"quantity":   100,
		})

		require.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "INSUFFICIENT_STOCK", decodeError(t, resp).Code)
	})
}

func TestDashboardRoutes(t *testing.T) {
	router, stubs := setup()

	t.Run("Should render the dashboard for the caller", func(t *testing.T) {
		stubs.dashboard.dataFn = func(_ context.Context, caller model.CallerIdentity) (service.DashboardData, error) {
			assert.Equal(t, testIdentity, caller)
			return service.BuildDashboard(nil, nil, caller.CurrencyCode()), nil
		}

		resp := doRequest(t, router, http.MethodGet, "/api/dashboard", testToken, nil)

		require.Equal(t, http.StatusOK, resp.Code)

		var data service.DashboardData
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &data))
		assert.Equal(t, "USD", data.Currency.Code)
		assert.Len(t, data.StockStatus, 3)
	})

	t.Run("Should forward the limit query param", func(t *testing.T) {
		var gotLimit int32
		stubs.dashboard.activitiesFn = func(_ context.Context, limit int32) ([]model.Activity, error) {
			gotLimit = limit
			return []model.Activity{}, nil
		}

		resp := doRequest(t, router, http.MethodGet, "/api/activities?limit=5", testToken, nil)

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, int32(5), gotLimit)
	})

	t.Run("Should ignore an unparsable limit", func(t *testing.T) {
		var gotLimit int32 = -1
		stubs.dashboard.activitiesFn = func(_ context.Context, limit int32) ([]model.Activity, error) {
			gotLimit = limit
			return []model.Activity{}, nil
		}

		resp := doRequest(t, router, http.MethodGet, "/api/activities?limit=abc", testToken, nil)

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, int32(0), gotLimit)
	})
}

func TestSettingsRoutes(t *testing.T) {
	router, stubs := setup()

	t.Run("Should return the caller settings", func(t *testing.T) {
		stubs.settings.getFn = func(_ context.Context, caller model.CallerIdentity) (service.Settings, error) {
			assert.Equal(t, testIdentity, caller)
			return service.Settings{Username: "admin", Currency: "USD"}, nil
		}

		resp := doRequest(t, router, http.MethodGet, "/api/settings", testToken, nil)

		require.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, `{"username": "admin", "currency": "USD"}`, resp.Body.String())
	})

	t.Run("Should return 409 for a taken username", func(t *testing.T) {
		stubs.settings.updateFn = func(context.Context, model.CallerIdentity, service.UpdateSettingsParams) (service.Settings, error) {
			return service.Settings{}, apperr.UsernameTakenErr
		}

		resp := doRequest(t, router, http.MethodPut, "/api/settings", testToken, map[string]string{
			"username": "storekeeper",
			"currency": "USD",
		})

		require.Equal(t, http.StatusConflict, resp.Code)
		assert.Equal(t, "USERNAME_TAKEN", decodeError(t, resp).Code)
	})
}
