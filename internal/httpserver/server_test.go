package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"artgallery-storefront/internal/domain"
	productrepo "artgallery-storefront/internal/repository/product"
	tokenrepo "artgallery-storefront/internal/repository/token"
	userrepo "artgallery-storefront/internal/repository/user"
	"artgallery-storefront/internal/service/auth"
	"artgallery-storefront/internal/service/catalog"
	"artgallery-storefront/internal/session"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	bypassEmail    = "curator@gallery.test"
	bypassPassword = "Starlight2005"
)

type client struct {
	t       *testing.T
	handler http.Handler
	visitor string
	bearer  string
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	return newServer(t).Handler()
}

func newServer(t *testing.T) *Server {
	t.Helper()
	users := userrepo.NewMemory()
	products := productrepo.NewMemory(
		domain.Product{ID: "1", Name: "Cosmic Dreamscape", Description: "swirling nebula", Price: decimal.NewFromInt(36000), Category: domain.CategoryPainting},
		domain.Product{ID: "2", Name: "Whispering Woods", Description: "mystical forest", Price: decimal.NewFromInt(17600), Category: domain.CategorySketch},
	)
	accounts := auth.New(users, tokenrepo.NewMemory(), nil)

	srv, err := New(":0", nil, nil, Deps{
		Catalog:          catalog.New(products, users, nil),
		NewAuthenticator: func(token string) session.Authenticator { return accounts.NewClient(token) },
		Bypass:           session.BypassCredential{Email: bypassEmail, Password: bypassPassword},
	})
	require.NoError(t, err)
	t.Cleanup(srv.visitors.Close)
	return srv
}

func (c *client) do(method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.visitor != "" {
		req.Header.Set(visitorHeader, c.visitor)
	}
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	if tok := rec.Header().Get(visitorHeader); tok != "" {
		c.visitor = tok
	}
	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func path(m map[string]any, keys ...string) any {
	var cur any = m
	for _, k := range keys {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = obj[k]
	}
	return cur
}

func TestHealthz(t *testing.T) {
	c := &client{t: t, handler: newTestServer(t)}
	rec, body := c.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])

	rec, body = c.do(http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "memory", body["backend"])
}

func TestStateIssuesVisitorToken(t *testing.T) {
	c := &client{t: t, handler: newTestServer(t)}
	rec, body := c.do(http.MethodGet, "/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, c.visitor)
	assert.Len(t, path(body, "state", "products"), 2)
	assert.Equal(t, "home", path(body, "state", "currentView"))

	first := c.visitor
	_, _ = c.do(http.MethodGet, "/state", nil)
	assert.Equal(t, first, c.visitor)
}

func TestCartCheckoutFlow(t *testing.T) {
	c := &client{t: t, handler: newTestServer(t)}
	c.do(http.MethodGet, "/state", nil)

	for i := 0; i < 2; i++ {
		rec, _ := c.do(http.MethodPost, "/cart/items", map[string]string{"productId": "1"})
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec, body := c.do(http.MethodPost, "/cart/promo", map[string]string{"code": "nebula"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "72000", path(body, "totals", "subtotal"))
	assert.Equal(t, "10800", path(body, "totals", "promoDiscount"))
	assert.Equal(t, "62400", path(body, "totals", "total"))
	assert.Equal(t, "₹62400.00", path(body, "totals", "display", "total"))

	rec, body = c.do(http.MethodPost, "/checkout", nil)
	require.Equal(t, http.StatusCreated, rec.Code, body)
	assert.Equal(t, "pending", path(body, "order", "status"))
	assert.Equal(t, "62400", path(body, "order", "total"))

	_, body = c.do(http.MethodGet, "/state", nil)
	assert.Empty(t, path(body, "state", "cart"))
	assert.Nil(t, path(body, "state", "promo"))
	assert.Len(t, path(body, "state", "orders"), 1)

	rec, _ = c.do(http.MethodPost, "/checkout", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	c := &client{t: t, handler: newTestServer(t)}
	c.do(http.MethodPost, "/cart/items", map[string]string{"productId": "2"})
	rec, body := c.do(http.MethodPatch, "/cart/items/2", map[string]int{"quantity": 0})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, path(body, "state", "cart"))

	rec, _ = c.do(http.MethodPatch, "/cart/items/2", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	c := &client{t: t, handler: newTestServer(t)}
	rec, body := c.do(http.MethodPatch, "/admin/products/1", map[string]bool{"isSoldOut": true})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access denied. Admins only.", body["error"])

	rec, _ = c.do(http.MethodGet, "/admin/stats", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBypassAdminManagesCatalogLocally(t *testing.T) {
	h := newTestServer(t)
	c := &client{t: t, handler: h}
	rec, body := c.do(http.MethodPost, "/auth/signin", map[string]string{"email": bypassEmail, "password": bypassPassword})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", path(body, "state", "user", "role"))
	assert.Nil(t, body["accessToken"])

	rec, _ = c.do(http.MethodPatch, "/admin/products/1", map[string]bool{"isSoldOut": true})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = c.do(http.MethodGet, "/admin/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), path(body, "stats", "piecesSold"))

	rec, _ = c.do(http.MethodPost, "/admin/products", map[string]any{
		"name": "Moonlit Cup", "description": "Glazed", "price": 4200,
		"category": "Craft", "imageUrl": "https://example.com/cup.jpg",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// The local write never reached the shared catalog.
	other := &client{t: t, handler: h}
	_, body = other.do(http.MethodGet, "/products", nil)
	products := body["products"].([]any)
	require.Len(t, products, 2)
	assert.Equal(t, false, products[0].(map[string]any)["isSoldOut"])
}

func TestSignUpAndResumeWithBearer(t *testing.T) {
	h := newTestServer(t)
	c := &client{t: t, handler: h}
	rec, body := c.do(http.MethodPost, "/auth/signup", map[string]string{
		"fullName": "Ada Lovelace", "email": "ada@gallery.test", "password": "Abcdefg1",
	})
	require.Equal(t, http.StatusOK, rec.Code, body)
	token, _ := body["accessToken"].(string)
	require.NotEmpty(t, token)

	rec, _ = c.do(http.MethodPost, "/products/1/reviews", map[string]any{"rating": 5, "comment": "Breathtaking"})
	require.Equal(t, http.StatusOK, rec.Code)

	resumed := &client{t: t, handler: h, bearer: token}
	_, body = resumed.do(http.MethodGet, "/state", nil)
	assert.Equal(t, "ada@gallery.test", path(body, "state", "user", "email"))

	_, body = resumed.do(http.MethodGet, "/products/1", nil)
	assert.Len(t, path(body, "product", "reviews"), 1)

	rec, body = resumed.do(http.MethodPost, "/auth/signout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, path(body, "state", "user"))
}

func TestSignInInvalidCredentials(t *testing.T) {
	c := &client{t: t, handler: newTestServer(t)}
	rec, body := c.do(http.MethodPost, "/auth/signin", map[string]string{"email": "nobody@gallery.test", "password": "Abcdefg1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password.", body["error"])
}

func TestProductLookupAndFilter(t *testing.T) {
	c := &client{t: t, handler: newTestServer(t)}
	rec, _ := c.do(http.MethodGet, "/products/404", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body := c.do(http.MethodGet, "/products?category=sketch", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["products"], 1)

	rec, _ = c.do(http.MethodGet, "/products?category=sculpture", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = c.do(http.MethodPost, "/view", map[string]string{"view": "product"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	rec, body = c.do(http.MethodPost, "/view", map[string]string{"view": "product", "param": "1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", path(body, "state", "viewParams"))
}

func TestWishlist(t *testing.T) {
	c := &client{t: t, handler: newTestServer(t)}
	rec, body := c.do(http.MethodPost, "/wishlist/2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"2"}, path(body, "state", "wishlist"))

	_, body = c.do(http.MethodGet, "/wishlist", nil)
	assert.Len(t, body["products"], 1)

	rec, _ = c.do(http.MethodPost, "/wishlist/404", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFeatured(t *testing.T) {
	c := &client{t: t, handler: newTestServer(t)}
	rec, body := c.do(http.MethodGet, "/featured?limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["products"], 1)

	_, body = c.do(http.MethodGet, "/featured", nil)
	assert.Len(t, body["products"], 2)

	rec, _ = c.do(http.MethodGet, "/featured?limit=-1", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestClosedVisitorStoreIsReplaced(t *testing.T) {
	srv := newServer(t)
	c := &client{t: t, handler: srv.Handler()}
	c.do(http.MethodPost, "/cart/items", map[string]string{"productId": "1"})
	first := c.visitor

	entry, err := srv.visitors.registry.Lookup(first)
	require.NoError(t, err)
	entry.store.Close()

	rec, body := c.do(http.MethodGet, "/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEqual(t, first, c.visitor)
	assert.Empty(t, path(body, "state", "cart"))
}
