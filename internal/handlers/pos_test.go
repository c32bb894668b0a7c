package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/clients/marketplace"
	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/domain"
	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/handlers"
	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/httpserver"
	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/services"
	"github.com/shopspring/decimal"
)

type testConsole struct {
	server *httptest.Server
	client *http.Client
	static *marketplace.Static
}

func newTestConsole(t *testing.T) *testConsole {
	t.Helper()

	static := marketplace.NewStatic()
	static.SeedShop(domain.Shop{ID: "shop-1", Name: "Hanoi Gadgets"},
		domain.Product{ID: "p1", ShopID: "shop-1", Name: "Keyboard", SalePrice: decimal.RequireFromString("10.00"), CostPrice: decimal.RequireFromString("6.00"), Stock: 5},
		domain.Product{ID: "p2", ShopID: "shop-1", Name: "Mouse", SalePrice: decimal.RequireFromString("5.00"), CostPrice: decimal.RequireFromString("2.00"), Stock: 9},
	)
	static.SeedUser(domain.User{ID: "user-1", Email: "linh@example.com", FullName: "Linh Tran", CreatedAt: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)})

	geo := services.NewGeoResolver()
	registry, err := services.NewSessionRegistry(services.SessionRegistryDeps{Geo: geo})
	require.NoError(t, err)
	catalog, err := services.NewCatalogService(services.CatalogServiceDeps{Directory: static})
	require.NoError(t, err)
	customers, err := services.NewCustomerService(services.CustomerServiceDeps{Book: static})
	require.NoError(t, err)
	orders, err := services.NewOrderService(services.OrderServiceDeps{Placer: static})
	require.NoError(t, err)
	cookies, err := httpserver.NewCookieManager(httpserver.CookieConfig{
		HashKey: []byte("0123456789abcdef0123456789abcdef"),
	})
	require.NoError(t, err)

	pos, err := handlers.NewPOSHandlers(handlers.POSHandlersDeps{
		Sessions:  registry,
		Cookies:   cookies,
		Catalog:   catalog,
		Customers: customers,
		Orders:    orders,
		Geo:       geo,
	})
	require.NoError(t, err)

	router := handlers.NewRouter(
		handlers.WithGeoRoutes(handlers.NewGeoHandlers(geo).Routes),
		handlers.WithPOSRoutes(pos.Routes),
		handlers.WithPOSMiddlewares(httpserver.RequireAuth(httpserver.PassthroughAuthenticator())),
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	return &testConsole{server: server, client: client, static: static}
}

func (c *testConsole) do(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer test-token")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()
	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestGeoEndpointsNeedNoAuth(t *testing.T) {
	t.Parallel()
	console := newTestConsole(t)

	resp, err := http.Get(console.server.URL + "/api/v1/geo/countries")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload struct {
		Data []domain.GeographicNode `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.NotEmpty(t, payload.Data)
}

func TestPOSEndpointsRequireBearerToken(t *testing.T) {
	t.Parallel()
	console := newTestConsole(t)

	resp, err := http.Get(console.server.URL + "/api/v1/pos/cart")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGeoCascadeAndPostalCode(t *testing.T) {
	t.Parallel()
	console := newTestConsole(t)

	resp, body := console.do(t, http.MethodGet, "/api/v1/geo/countries/VN/provinces", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, body["data"])

	resp, body = console.do(t, http.MethodGet, "/api/v1/geo/countries/VN/provinces/HN/cities/HN-BD/wards/HN-BD-01/postal-code", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "100001", body["postalCode"])

	resp, _ = console.do(t, http.MethodGet, "/api/v1/geo/countries/VN/provinces/HN/cities/HN-BD/wards/NOPE/postal-code", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Unknown parents yield empty lists rather than errors.
	resp, body = console.do(t, http.MethodGet, "/api/v1/geo/countries/XX/provinces", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, body["data"])
}

func TestCatalogBrowsing(t *testing.T) {
	t.Parallel()
	console := newTestConsole(t)

	resp, body := console.do(t, http.MethodGet, "/api/v1/pos/shops?search=hanoi", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	shops := body["data"].([]any)
	require.Len(t, shops, 1)

	resp, body = console.do(t, http.MethodGet, "/api/v1/pos/shops?product=keyboard&min_price=8", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body["data"].([]any), 1)

	resp, body = console.do(t, http.MethodGet, "/api/v1/pos/shops?min_price=50", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, body["data"])

	resp, body = console.do(t, http.MethodGet, "/api/v1/pos/shops?min_price=abc", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "invalid_request", body["error"])

	resp, body = console.do(t, http.MethodGet, "/api/v1/pos/shops/shop-1/products?page=1&take=10", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	products := body["data"].([]any)
	require.Len(t, products, 2)

	first := products[0].(map[string]any)
	profit := first["profit"].(map[string]any)
	require.Equal(t, "4.00", profit["amount"])
	require.Equal(t, "4.00", profit["display"])

	resp, _ = console.do(t, http.MethodGet, "/api/v1/pos/shops/ghost/products", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func addLine(t *testing.T, console *testConsole, productID string) map[string]any {
	t.Helper()
	resp, body := console.do(t, http.MethodPost, "/api/v1/pos/cart/lines", map[string]any{
		"shopId":    "shop-1",
		"productId": productID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return body
}

func cartLines(body map[string]any) []any {
	return body["lines"].([]any)
}

func TestCartFlowTotalsAndClamp(t *testing.T) {
	t.Parallel()
	console := newTestConsole(t)

	body := addLine(t, console, "p1")
	body = addLine(t, console, "p2")
	require.Len(t, cartLines(body), 2)

	// Bump the keyboard to quantity 2: subtotal 25.00, tax 2.00, shipping
	// 5.00, total 32.00.
	key := cartLines(body)[0].(map[string]any)["key"].(string)
	resp, body := console.do(t, http.MethodPatch, "/api/v1/pos/cart/lines/"+key, map[string]any{"delta": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	totals := body["totals"].(map[string]any)
	require.Equal(t, "25.00", totals["subtotal"].(map[string]any)["amount"])
	require.Equal(t, "2.00", totals["tax"].(map[string]any)["amount"])
	require.Equal(t, "5.00", totals["shipping"].(map[string]any)["amount"])
	require.Equal(t, "0.00", totals["discount"].(map[string]any)["amount"])
	require.Equal(t, "32.00", totals["total"].(map[string]any)["amount"])

	// A huge negative delta clamps at 1 and never removes the line.
	resp, body = console.do(t, http.MethodPatch, "/api/v1/pos/cart/lines/"+key, map[string]any{"delta": -1000})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, cartLines(body), 2)
	require.Equal(t, float64(1), cartLines(body)[0].(map[string]any)["quantity"])

	// Removing by position drops the right line and totals follow.
	resp, body = console.do(t, http.MethodDelete, "/api/v1/pos/cart/lines/0", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, cartLines(body), 1)
	require.Equal(t, "p2", cartLines(body)[0].(map[string]any)["productId"])
	totals = body["totals"].(map[string]any)
	require.Equal(t, "5.00", totals["subtotal"].(map[string]any)["amount"])

	resp, _ = console.do(t, http.MethodDelete, "/api/v1/pos/cart/lines/"+strconv.Itoa(99), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCloseSessionDiscardsCart(t *testing.T) {
	t.Parallel()
	console := newTestConsole(t)

	body := addLine(t, console, "p1")
	require.Len(t, cartLines(body), 1)

	resp, _ := console.do(t, http.MethodDelete, "/api/v1/pos/session", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The next request starts a fresh session with an empty cart.
	resp, body = console.do(t, http.MethodGet, "/api/v1/pos/cart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, body["lines"])
}

func TestAddressCascadingReset(t *testing.T) {
	t.Parallel()
	console := newTestConsole(t)

	resp, _ := console.do(t, http.MethodPut, "/api/v1/pos/customer", map[string]any{"id": "user-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := console.do(t, http.MethodPatch, "/api/v1/pos/address", map[string]any{
		"countryCode":  "VN",
		"provinceCode": "HN",
		"cityCode":     "HN-BD",
		"wardCode":     "HN-BD-01",
		"detail":       "12 Phố Phúc Xá",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	address := body["address"].(map[string]any)
	require.Equal(t, "100001", address["postalCode"])

	// Changing the country clears every level below it.
	resp, body = console.do(t, http.MethodPatch, "/api/v1/pos/address", map[string]any{"countryCode": "US"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	address = body["address"].(map[string]any)
	require.Equal(t, "US", address["countryCode"])
	require.Nil(t, address["provinceCode"])
	require.Nil(t, address["postalCode"])

	// Detail survives and the address saves with just user+country+detail.
	resp, body = console.do(t, http.MethodPost, "/api/v1/pos/address/save", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	saved := body["address"].(map[string]any)
	require.NotEmpty(t, saved["id"])
}

func TestAddressSaveRequiresCustomer(t *testing.T) {
	t.Parallel()
	console := newTestConsole(t)

	resp, _ := console.do(t, http.MethodPatch, "/api/v1/pos/address", map[string]any{
		"countryCode": "VN",
		"detail":      "somewhere",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = console.do(t, http.MethodPost, "/api/v1/pos/address/save", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestReviewSnapshotAndConfirm(t *testing.T) {
	t.Parallel()
	console := newTestConsole(t)

	resp, _ := console.do(t, http.MethodPut, "/api/v1/pos/customer", map[string]any{"id": "user-1", "email": "linh@example.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	addLine(t, console, "p1")
	body := addLine(t, console, "p2")
	key := cartLines(body)[0].(map[string]any)["key"].(string)
	resp, _ = console.do(t, http.MethodPatch, "/api/v1/pos/cart/lines/"+key, map[string]any{"delta": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = console.do(t, http.MethodPost, "/api/v1/pos/review", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	confirmation := body["confirmation"].(map[string]any)
	require.Equal(t, "32.00", confirmation["totals"].(map[string]any)["total"].(map[string]any)["amount"])

	// Cart edits while the review is open do not reach the snapshot.
	addLine(t, console, "p1")

	resp, body = console.do(t, http.MethodPost, "/api/v1/pos/review/confirm", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, body["orderId"])
	confirmation = body["confirmation"].(map[string]any)
	require.Len(t, confirmation["lines"].([]any), 2)
	require.Equal(t, "32.00", confirmation["totals"].(map[string]any)["total"].(map[string]any)["amount"])

	orders := console.static.Orders()
	require.Len(t, orders, 1)
	require.Equal(t, "32.00", orders[0].Total.StringFixed(2))
	require.Len(t, orders[0].Lines, 2)

	// Success cleared the cart.
	resp, body = console.do(t, http.MethodGet, "/api/v1/pos/cart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, cartLines(body))
}

func TestReviewRefusesEmptyCart(t *testing.T) {
	t.Parallel()
	console := newTestConsole(t)

	resp, _ := console.do(t, http.MethodPut, "/api/v1/pos/customer", map[string]any{"id": "user-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = console.do(t, http.MethodPost, "/api/v1/pos/review", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestConfirmWithoutReviewConflicts(t *testing.T) {
	t.Parallel()
	console := newTestConsole(t)

	resp, _ := console.do(t, http.MethodPost, "/api/v1/pos/review/confirm", nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestConfirmFailureKeepsCartForRetry(t *testing.T) {
	t.Parallel()
	console := newTestConsole(t)

	resp, _ := console.do(t, http.MethodPut, "/api/v1/pos/customer", map[string]any{"id": "user-1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	addLine(t, console, "p1")
	resp, _ = console.do(t, http.MethodPost, "/api/v1/pos/review", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	console.static.FailNext = &marketplace.APIError{StatusCode: http.StatusBadGateway, Message: "backend down"}
	resp, _ = console.do(t, http.MethodPost, "/api/v1/pos/review/confirm", nil)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	resp, body := console.do(t, http.MethodGet, "/api/v1/pos/review", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	checkout := body["checkout"].(map[string]any)
	require.Equal(t, string(services.SubmissionFailed), checkout["state"])
	require.NotEmpty(t, checkout["failure"])

	resp, body = console.do(t, http.MethodGet, "/api/v1/pos/cart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, cartLines(body), 1)

	// Re-clicking confirm retries the same reviewed snapshot, no reset needed.
	resp, _ = console.do(t, http.MethodPost, "/api/v1/pos/review/confirm", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, console.static.Orders(), 1)

	// Success clears the cart as usual.
	resp, body = console.do(t, http.MethodGet, "/api/v1/pos/cart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, body["lines"])
}

func TestUnknownRouteEnvelope(t *testing.T) {
	t.Parallel()
	console := newTestConsole(t)

	resp, body := console.do(t, http.MethodGet, "/api/v1/nope", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "route_not_found", fmt.Sprintf("%v", body["error"]))
}
