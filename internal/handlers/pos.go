package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/domain"
	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/httpserver"
	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/platform/httpx"
	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/platform/pagination"
	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/services"
)

var listOptions = pagination.Options{DefaultPageSize: 10, MaxPageSize: 50}

// POSHandlers exposes the virtual-order composition endpoints: catalog
// browsing, the cart, the delivery address form and order review/submit.
// Composition state lives server-side in the session registry; the client
// only holds a signed cookie referencing it.
type POSHandlers struct {
	sessions  *services.SessionRegistry
	cookies   *httpserver.CookieManager
	catalog   *services.CatalogService
	customers *services.CustomerService
	orders    *services.OrderService
	geo       *services.GeoResolver
}

// POSHandlersDeps lists the collaborators required by NewPOSHandlers.
type POSHandlersDeps struct {
	Sessions  *services.SessionRegistry
	Cookies   *httpserver.CookieManager
	Catalog   *services.CatalogService
	Customers *services.CustomerService
	Orders    *services.OrderService
	Geo       *services.GeoResolver
}

// NewPOSHandlers validates deps and constructs the handler set.
func NewPOSHandlers(deps POSHandlersDeps) (*POSHandlers, error) {
	switch {
	case deps.Sessions == nil:
		return nil, errors.New("pos handlers: session registry is required")
	case deps.Cookies == nil:
		return nil, errors.New("pos handlers: cookie manager is required")
	case deps.Catalog == nil:
		return nil, errors.New("pos handlers: catalog service is required")
	case deps.Customers == nil:
		return nil, errors.New("pos handlers: customer service is required")
	case deps.Orders == nil:
		return nil, errors.New("pos handlers: order service is required")
	case deps.Geo == nil:
		return nil, errors.New("pos handlers: geo resolver is required")
	}
	return &POSHandlers{
		sessions:  deps.Sessions,
		cookies:   deps.Cookies,
		catalog:   deps.Catalog,
		customers: deps.Customers,
		orders:    deps.Orders,
		geo:       deps.Geo,
	}, nil
}

// Routes wires the /pos endpoints onto the provided router.
func (h *POSHandlers) Routes(r chi.Router) {
	r.Get("/shops", h.searchShops)
	r.Get("/shops/{shopID}/products", h.listProducts)
	r.Get("/users/latest", h.latestUsers)

	r.Get("/cart", h.getCart)
	r.Post("/cart/lines", h.addLine)
	r.Patch("/cart/lines/{lineKey}", h.adjustQuantity)
	r.Delete("/cart/lines/{index}", h.removeLine)
	r.Delete("/cart", h.clearCart)

	r.Put("/customer", h.selectCustomer)
	r.Put("/shop", h.selectShop)

	r.Get("/address", h.getAddress)
	r.Patch("/address", h.editAddress)
	r.Post("/address/save", h.saveAddress)

	r.Get("/review", h.getReview)
	r.Post("/review", h.openReview)
	r.Delete("/review", h.cancelReview)
	r.Post("/review/confirm", h.confirmOrder)
	r.Post("/review/reset", h.resetCheckout)

	r.Delete("/session", h.closeSession)
}

// closeSession drops the operator's composition session, if any, and clears
// the cookie that named it. Closing when no session exists is a no-op.
func (h *POSHandlers) closeSession(w http.ResponseWriter, r *http.Request) {
	if id, err := h.cookies.SessionID(r); err == nil {
		h.sessions.Drop(id)
	}
	h.cookies.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}

// session resolves the composition session referenced by the request cookie,
// starting a new one (and issuing a fresh cookie) when absent or expired.
func (h *POSHandlers) session(w http.ResponseWriter, r *http.Request) (*services.PosSession, error) {
	if id, err := h.cookies.SessionID(r); err == nil {
		if session, ok := h.sessions.Get(id); ok {
			return session, nil
		}
	}
	session := h.sessions.Create()
	if err := h.cookies.Issue(w, session.ID()); err != nil {
		h.sessions.Drop(session.ID())
		return nil, err
	}
	return session, nil
}

func operatorToken(r *http.Request) string {
	if operator, ok := httpserver.OperatorFromContext(r.Context()); ok {
		return operator.Token
	}
	return ""
}

func (h *POSHandlers) searchShops(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params, err := pagination.FromRequest(r, listOptions)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	filter, err := shopFilterFromQuery(r.URL.Query())
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	page, err := h.catalog.SearchShops(ctx, operatorToken(r), filter, params)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"data": page.Shops,
		"meta": page.Meta,
	})
}

// shopFilterFromQuery reads the optional search, product, min_price, and
// max_price query parameters.
func shopFilterFromQuery(values url.Values) (services.ShopFilter, error) {
	filter := services.ShopFilter{
		Search:      values.Get("search"),
		ProductName: values.Get("product"),
	}
	var err error
	if filter.MinPrice, err = priceParam(values, "min_price"); err != nil {
		return services.ShopFilter{}, err
	}
	if filter.MaxPrice, err = priceParam(values, "max_price"); err != nil {
		return services.ShopFilter{}, err
	}
	return filter, nil
}

func priceParam(values url.Values, name string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return nil, nil
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a decimal number", name)
	}
	return &parsed, nil
}

func (h *POSHandlers) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params, err := pagination.FromRequest(r, listOptions)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}

	page, err := h.catalog.ProductsOfShop(ctx, operatorToken(r), chi.URLParam(r, "shopID"), params)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	products := make([]productPayload, 0, len(page.Products))
	for _, product := range page.Products {
		products = append(products, buildProductPayload(product))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"data": products,
		"meta": page.Meta,
	})
}

func (h *POSHandlers) latestUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	take := 20
	if raw := strings.TrimSpace(r.URL.Query().Get("take")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "take must be a positive integer", http.StatusBadRequest))
			return
		}
		take = parsed
	}

	users, err := h.customers.LatestUsers(ctx, operatorToken(r), take)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"data": users})
}

func (h *POSHandlers) getCart(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(w, r)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildCartPayload(session.ActiveShop(), session.CartLines(), session.CartTotals()))
}

type addLineRequest struct {
	ShopID    string `json:"shopId"`
	ProductID string `json:"productId"`
	Page      int    `json:"page"`
	Take      int    `json:"take"`
}

func (h *POSHandlers) addLine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req addLineRequest
	if err := decodeBody(r, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	if strings.TrimSpace(req.ShopID) == "" || strings.TrimSpace(req.ProductID) == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "shopId and productId are required", http.StatusBadRequest))
		return
	}
	params := pagination.Params{Page: req.Page, Take: req.Take}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Take < 1 {
		params.Take = listOptions.DefaultPageSize
	}

	session, err := h.session(w, r)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	product, err := h.catalog.FindProduct(ctx, operatorToken(r), req.ShopID, req.ProductID, params)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	if _, err := session.AddProduct(product); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, buildCartPayload(session.ActiveShop(), session.CartLines(), session.CartTotals()))
}

type adjustQuantityRequest struct {
	Delta int `json:"delta"`
}

func (h *POSHandlers) adjustQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req adjustQuantityRequest
	if err := decodeBody(r, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}
	if req.Delta == 0 {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "delta must be non-zero", http.StatusBadRequest))
		return
	}

	session, err := h.session(w, r)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	if err := session.AdjustQuantity(chi.URLParam(r, "lineKey"), req.Delta); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildCartPayload(session.ActiveShop(), session.CartLines(), session.CartTotals()))
}

func (h *POSHandlers) removeLine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "index must be a non-negative integer", http.StatusBadRequest))
		return
	}

	session, err := h.session(w, r)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	if err := session.RemoveLine(index); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, buildCartPayload(session.ActiveShop(), session.CartLines(), session.CartTotals()))
}

func (h *POSHandlers) clearCart(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(w, r)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	session.ClearCart()
	httpx.WriteJSON(w, http.StatusOK, buildCartPayload(session.ActiveShop(), session.CartLines(), session.CartTotals()))
}

type selectCustomerRequest struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
}

func (h *POSHandlers) selectCustomer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req selectCustomerRequest
	if err := decodeBody(r, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	session, err := h.session(w, r)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	user := domain.User{ID: req.ID, Email: req.Email, FullName: req.FullName, Phone: req.Phone}
	if err := session.SelectCustomer(user); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"customer": user})
}

type selectShopRequest struct {
	ID string `json:"id"`
}

func (h *POSHandlers) selectShop(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req selectShopRequest
	if err := decodeBody(r, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	session, err := h.session(w, r)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	if err := session.SelectShop(req.ID); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"shopId": req.ID})
}

func (h *POSHandlers) getAddress(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(w, r)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"address": session.AddressFormSnapshot()})
}

// editAddressRequest uses pointers so the handler can tell an omitted field
// from an explicit empty value. Fields apply top-down, so a request setting
// both country and province lands in a consistent state.
type editAddressRequest struct {
	CountryCode  *string `json:"countryCode"`
	ProvinceCode *string `json:"provinceCode"`
	CityCode     *string `json:"cityCode"`
	WardCode     *string `json:"wardCode"`
	Detail       *string `json:"detail"`
}

func (h *POSHandlers) editAddress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req editAddressRequest
	if err := decodeBody(r, &req); err != nil {
		writeBodyError(ctx, w, err)
		return
	}

	session, err := h.session(w, r)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	address := session.EditAddress(func(form *services.AddressForm) {
		if req.CountryCode != nil {
			form.SetCountry(*req.CountryCode)
		}
		if req.ProvinceCode != nil {
			form.SetProvince(*req.ProvinceCode)
		}
		if req.CityCode != nil {
			form.SetCity(*req.CityCode)
		}
		if req.WardCode != nil {
			form.SetWard(*req.WardCode)
		}
		if req.Detail != nil {
			form.SetDetail(*req.Detail)
		}
	})
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"address": address})
}

func (h *POSHandlers) saveAddress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, err := h.session(w, r)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	saved, err := h.customers.SaveAddress(ctx, operatorToken(r), session.Address())
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	session.RecordSavedAddress(saved)
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"address": saved})
}

func (h *POSHandlers) getReview(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(w, r)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	state, orderID, failure := session.CheckoutStatus()
	payload := map[string]any{
		"checkout": checkoutPayload{State: state, OrderID: orderID, Failure: failure},
	}
	if confirmation, ok := session.Confirmation(); ok {
		payload["confirmation"] = buildConfirmationPayload(confirmation)
	}
	httpx.WriteJSON(w, http.StatusOK, payload)
}

func (h *POSHandlers) openReview(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(w, r)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	confirmation, err := session.OpenReview()
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, map[string]any{"confirmation": buildConfirmationPayload(confirmation)})
}

func (h *POSHandlers) cancelReview(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(w, r)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	if err := session.CancelReview(); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *POSHandlers) confirmOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session, err := h.session(w, r)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	confirmation, err := h.orders.Submit(ctx, operatorToken(r), session)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	_, orderID, _ := session.CheckoutStatus()
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"orderId":      orderID,
		"confirmation": buildConfirmationPayload(confirmation),
	})
}

func (h *POSHandlers) resetCheckout(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(w, r)
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	session.ResetCheckout()
	w.WriteHeader(http.StatusNoContent)
}
