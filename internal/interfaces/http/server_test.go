package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/marketplace-backend/internal/config"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	apphttp "github.com/your-org/marketplace-backend/internal/interfaces/http"
	"github.com/your-org/marketplace-backend/internal/pkg/auth"
	"github.com/your-org/marketplace-backend/internal/pkg/logger"
	"github.com/your-org/marketplace-backend/internal/testutil"
	"gorm.io/gorm"
)

const session = "http-session"

type snapshotBody struct {
	Items      []json.RawMessage `json:"items"`
	TotalItems int               `json:"total_items"`
	Subtotal   decimal.Decimal   `json:"subtotal"`
}

type errorBody struct {
	Error     string `json:"error"`
	Available *int   `json:"available"`
	Fields    []struct {
		Field string `json:"field"`
	} `json:"fields"`
}

type apiFixture struct {
	db      *gorm.DB
	cfg     *config.Config
	handler http.Handler
}

func setup(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.OpenDB(t)
	cfg := testutil.Config(config.OversellStrict)
	server := apphttp.NewServer(cfg, db, nil, logger.Discard())

	return &apiFixture{db: db, cfg: cfg, handler: server.Handler()}
}

func (f *apiFixture) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		payload, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) token(t *testing.T, u user.User) string {
	t.Helper()
	token, err := auth.NewJWTManager(f.cfg).GenerateAccessToken(auth.Identity{
		UserID:  u.ID,
		Email:   u.Email,
		IsAdmin: u.IsAdmin,
	})
	require.NoError(t, err)
	return "Bearer " + token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func sessionHeaders(extra ...string) map[string]string {
	h := map[string]string{"X-Session-Key": session}
	for i := 0; i+1 < len(extra); i += 2 {
		h[extra[i]] = extra[i+1]
	}
	return h
}

func TestAddToCart_ReturnsCreatedSnapshot(t *testing.T) {
	f := setup(t)
	phones := testutil.Category(t, f.db, "phones", false)
	phone := testutil.FlatProduct(t, f.db, phones, "Phone X", "49999.00", testutil.IntPtr(12))

	rec := f.do(t, http.MethodPost, "/api/v1/cart/add",
		map[string]interface{}{"product_id": phone.ID, "quantity": 2}, sessionHeaders())

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, session, rec.Header().Get("X-Session-Key"))

	body := decode[snapshotBody](t, rec)
	assert.Len(t, body.Items, 1)
	assert.Equal(t, 2, body.TotalItems)
	assert.True(t, body.Subtotal.Equal(testutil.Price(t, "99998.00")), body.Subtotal.String())

	count := f.do(t, http.MethodGet, "/api/v1/cart/count", nil, sessionHeaders())
	require.Equal(t, http.StatusOK, count.Code)
	assert.Equal(t, 2, decode[snapshotBody](t, count).TotalItems)
}

func TestAddToCart_InsufficientStockReportsAvailable(t *testing.T) {
	f := setup(t)
	phones := testutil.Category(t, f.db, "phones", false)
	phone := testutil.FlatProduct(t, f.db, phones, "Phone Lite", "39999.00", testutil.IntPtr(5))

	rec := f.do(t, http.MethodPost, "/api/v1/cart/add",
		map[string]interface{}{"product_id": phone.ID, "quantity": 6}, sessionHeaders())

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errorBody](t, rec)
	assert.NotEmpty(t, body.Error)
	require.NotNil(t, body.Available)
	assert.Equal(t, 5, *body.Available)
}

func TestAddToCart_RejectsBadInput(t *testing.T) {
	f := setup(t)

	t.Run("unknown product", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/cart/add",
			map[string]interface{}{"product_id": 9999, "quantity": 1}, sessionHeaders())
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/cart/add", "{not json", sessionHeaders())
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("zero quantity", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/cart/add",
			map[string]interface{}{"product_id": 1, "quantity": 0}, sessionHeaders())
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateCartItem_OmittedQuantityKeepsOneUnit(t *testing.T) {
	f := setup(t)
	phones := testutil.Category(t, f.db, "phones", false)
	phone := testutil.FlatProduct(t, f.db, phones, "Phone X", "49999.00", testutil.IntPtr(12))

	add := f.do(t, http.MethodPost, "/api/v1/cart/add",
		map[string]interface{}{"product_id": phone.ID, "quantity": 3}, sessionHeaders())
	require.Equal(t, http.StatusCreated, add.Code, add.Body.String())

	var line struct {
		ID uint `json:"id"`
	}
	items := decode[snapshotBody](t, add).Items
	require.Len(t, items, 1)
	require.NoError(t, json.Unmarshal(items[0], &line))

	rec := f.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/cart/update/%d", line.ID), "{}", sessionHeaders())

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[snapshotBody](t, rec)
	assert.Len(t, body.Items, 1)
	assert.Equal(t, 1, body.TotalItems)

	rec = f.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/cart/update/%d", line.ID),
		map[string]int{"quantity": 0}, sessionHeaders())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[snapshotBody](t, rec).Items)
}

func TestGetCart_MintsSessionKey(t *testing.T) {
	f := setup(t)

	rec := f.do(t, http.MethodGet, "/api/v1/cart", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Session-Key"))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "session_id=")

	body := decode[snapshotBody](t, rec)
	assert.Empty(t, body.Items)
	assert.Equal(t, 0, body.TotalItems)
	assert.True(t, body.Subtotal.IsZero())
}

func TestRemoveFromCart_IsIdempotent(t *testing.T) {
	f := setup(t)

	rec := f.do(t, http.MethodDelete, "/api/v1/cart/remove/42", nil, sessionHeaders())
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/v1/cart/remove/42", nil, sessionHeaders())
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCheckout_CreatesOrder(t *testing.T) {
	f := setup(t)
	buyer := testutil.User(t, f.db, "buyer@example.com")
	phones := testutil.Category(t, f.db, "phones", false)
	phone := testutil.FlatProduct(t, f.db, phones, "Phone X", "49999.00", testutil.IntPtr(12))

	add := f.do(t, http.MethodPost, "/api/v1/cart/add",
		map[string]interface{}{"product_id": phone.ID, "quantity": 3}, sessionHeaders())
	require.Equal(t, http.StatusCreated, add.Code, add.Body.String())

	rec := f.do(t, http.MethodPost, "/api/v1/orders/checkout", map[string]interface{}{
		"first_name":       "Ivan",
		"last_name":        "Petrenko",
		"city":             "Kyiv",
		"payment_provider": "visa",
	}, sessionHeaders("Authorization", f.token(t, buyer)))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode[struct {
		OrderID uint `json:"order_id"`
	}](t, rec)
	assert.NotZero(t, body.OrderID)

	assert.Equal(t, 9, *testutil.FlatStock(t, f.db, phone.ID))

	cartAfter := f.do(t, http.MethodGet, "/api/v1/cart", nil, sessionHeaders())
	assert.Equal(t, 0, decode[snapshotBody](t, cartAfter).TotalItems)

	order := f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/orders/%d", body.OrderID), nil,
		sessionHeaders("Authorization", f.token(t, buyer)))
	assert.Equal(t, http.StatusOK, order.Code)
}

func TestCheckout_Failures(t *testing.T) {
	f := setup(t)
	buyer := testutil.User(t, f.db, "buyer@example.com")
	phones := testutil.Category(t, f.db, "phones", false)
	phone := testutil.FlatProduct(t, f.db, phones, "Phone X", "49999.00", testutil.IntPtr(12))
	shipping := map[string]interface{}{
		"first_name":       "Ivan",
		"last_name":        "Petrenko",
		"payment_provider": "visa",
	}

	t.Run("requires authentication", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/orders/checkout", shipping, sessionHeaders())
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("empty cart", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/v1/orders/checkout", shipping,
			sessionHeaders("Authorization", f.token(t, buyer)))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "cart is empty", decode[errorBody](t, rec).Error)
	})

	t.Run("missing names", func(t *testing.T) {
		add := f.do(t, http.MethodPost, "/api/v1/cart/add",
			map[string]interface{}{"product_id": phone.ID, "quantity": 1}, sessionHeaders())
		require.Equal(t, http.StatusCreated, add.Code)

		rec := f.do(t, http.MethodPost, "/api/v1/orders/checkout",
			map[string]interface{}{"payment_provider": "visa"},
			sessionHeaders("Authorization", f.token(t, buyer)))
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var fields []string
		for _, fe := range decode[errorBody](t, rec).Fields {
			fields = append(fields, fe.Field)
		}
		assert.Contains(t, fields, "first_name")
		assert.Contains(t, fields, "last_name")

		// the cart survives a rejected checkout
		cartAfter := f.do(t, http.MethodGet, "/api/v1/cart", nil, sessionHeaders())
		assert.Equal(t, 1, decode[snapshotBody](t, cartAfter).TotalItems)
	})
}

func TestLogin_WrongPasswordIsUnauthorized(t *testing.T) {
	f := setup(t)
	testutil.User(t, f.db, "buyer@example.com")

	rec := f.do(t, http.MethodPost, "/api/v1/auth/login",
		map[string]string{"email": "buyer@example.com", "password": "Wrong12345"}, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutes_RequireAdmin(t *testing.T) {
	f := setup(t)
	buyer := testutil.User(t, f.db, "buyer@example.com")

	rec := f.do(t, http.MethodGet, "/api/v1/admin/logs", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/admin/logs", nil,
		map[string]string{"Authorization": f.token(t, buyer)})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRecommendationRoutes(t *testing.T) {
	f := setup(t)
	phones := testutil.Category(t, f.db, "phones", false)
	phone := testutil.FlatProduct(t, f.db, phones, "Phone X", "49999.00", nil)
	testutil.FlatProduct(t, f.db, phones, "Phone Lite", "45999.00", nil)

	type listBody struct {
		Data struct {
			Type     string            `json:"type"`
			Count    int               `json:"count"`
			Products []json.RawMessage `json:"products"`
		} `json:"data"`
	}

	rec := f.do(t, http.MethodGet, "/api/v1/products/bestsellers?limit=1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	best := decode[listBody](t, rec)
	assert.Equal(t, "bestsellers", best.Data.Type)
	assert.Equal(t, 1, best.Data.Count)

	rec = f.do(t, http.MethodGet, fmt.Sprintf("/api/v1/products/%d/related", phone.ID), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, decode[listBody](t, rec).Data.Count)

	rec = f.do(t, http.MethodGet, "/api/v1/products/9999/related", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/cart/recommendations", nil, sessionHeaders())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "cross_sell", decode[listBody](t, rec).Data.Type)
}

func TestHealth(t *testing.T) {
	f := setup(t)

	rec := f.do(t, http.MethodGet, "/health", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}](t, rec)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "up", body.Checks["database"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
