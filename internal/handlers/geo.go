package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/platform/httpx"
	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/services"
)

// GeoHandlers serves the static cascading geography selectors. Unknown
// parents answer with an empty list, mirroring the resolver contract, so the
// console can simply render whatever comes back.
type GeoHandlers struct {
	geo *services.GeoResolver
}

// NewGeoHandlers constructs the geography lookup handlers.
func NewGeoHandlers(geo *services.GeoResolver) *GeoHandlers {
	return &GeoHandlers{geo: geo}
}

// Routes wires the /geo endpoints onto the provided router.
func (h *GeoHandlers) Routes(r chi.Router) {
	r.Get("/countries", h.countries)
	r.Get("/countries/{country}/provinces", h.provinces)
	r.Get("/countries/{country}/provinces/{province}/cities", h.cities)
	r.Get("/countries/{country}/provinces/{province}/cities/{city}/wards", h.wards)
	r.Get("/countries/{country}/provinces/{province}/cities/{city}/wards/{ward}/postal-code", h.postalCode)
}

func (h *GeoHandlers) countries(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"data": h.geo.Countries()})
}

func (h *GeoHandlers) provinces(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"data": h.geo.ProvincesOf(chi.URLParam(r, "country")),
	})
}

func (h *GeoHandlers) cities(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"data": h.geo.CitiesOf(chi.URLParam(r, "country"), chi.URLParam(r, "province")),
	})
}

func (h *GeoHandlers) wards(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"data": h.geo.WardsOf(chi.URLParam(r, "country"), chi.URLParam(r, "province"), chi.URLParam(r, "city")),
	})
}

func (h *GeoHandlers) postalCode(w http.ResponseWriter, r *http.Request) {
	code, ok := h.geo.PostalCodeOf(
		chi.URLParam(r, "country"),
		chi.URLParam(r, "province"),
		chi.URLParam(r, "city"),
		chi.URLParam(r, "ward"),
	)
	if !ok {
		httpx.WriteError(r.Context(), w, httpx.NewError("not_found", "no postal code for this ward", http.StatusNotFound))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"postalCode": code})
}
