package services

import (
	"sort"
	"strings"

	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/domain"
)

// GeoResolver answers cascading selector queries over the static geographic
// reference tree. The data is loaded once at construction and never mutated.
//
// Every lookup is a synchronous map traversal. A query whose parent selection
// is unset or unknown returns an empty slice, never an error: callers disable
// descendant selectors while the parent is empty and clear descendant
// selections whenever an ancestor changes.
type GeoResolver struct {
	countries []domain.GeographicNode
	provinces map[string][]domain.GeographicNode
	cities    map[string][]domain.GeographicNode
	wards     map[string][]domain.GeographicNode
	postal    map[string]string
}

// NewGeoResolver builds the resolver over the bundled reference dataset.
func NewGeoResolver() *GeoResolver {
	return newGeoResolver(referenceGeography())
}

func newGeoResolver(data geographyData) *GeoResolver {
	r := &GeoResolver{
		countries: data.Countries,
		provinces: data.Provinces,
		cities:    data.Cities,
		wards:     data.Wards,
		postal:    data.Postal,
	}
	sort.Slice(r.countries, func(i, j int) bool { return r.countries[i].Code < r.countries[j].Code })
	return r
}

// Countries lists all known countries.
func (r *GeoResolver) Countries() []domain.GeographicNode {
	return cloneNodes(r.countries)
}

// ProvincesOf lists the provinces of a country.
func (r *GeoResolver) ProvincesOf(country string) []domain.GeographicNode {
	return cloneNodes(r.provinces[geoKey(country)])
}

// CitiesOf lists the cities of a province.
func (r *GeoResolver) CitiesOf(country, province string) []domain.GeographicNode {
	return cloneNodes(r.cities[geoKey(country, province)])
}

// WardsOf lists the wards of a city.
func (r *GeoResolver) WardsOf(country, province, city string) []domain.GeographicNode {
	return cloneNodes(r.wards[geoKey(country, province, city)])
}

// PostalCodeOf resolves the postal code for a fully qualified ward, returning
// false when any level of the path is unknown.
func (r *GeoResolver) PostalCodeOf(country, province, city, ward string) (string, bool) {
	code, ok := r.postal[geoKey(country, province, city, ward)]
	return code, ok
}

// Knows reports whether the code exists at the given level under its parents.
// An empty code at any trailing level stops validation there, so Knows("VN")
// checks only the country.
func (r *GeoResolver) Knows(country, province, city, ward string) bool {
	if !containsNode(r.countries, country) {
		return false
	}
	if strings.TrimSpace(province) == "" {
		return true
	}
	if !containsNode(r.provinces[geoKey(country)], province) {
		return false
	}
	if strings.TrimSpace(city) == "" {
		return true
	}
	if !containsNode(r.cities[geoKey(country, province)], city) {
		return false
	}
	if strings.TrimSpace(ward) == "" {
		return true
	}
	return containsNode(r.wards[geoKey(country, province, city)], ward)
}

type geographyData struct {
	Countries []domain.GeographicNode
	Provinces map[string][]domain.GeographicNode
	Cities    map[string][]domain.GeographicNode
	Wards     map[string][]domain.GeographicNode
	Postal    map[string]string
}

func geoKey(parts ...string) string {
	trimmed := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed = append(trimmed, strings.ToUpper(strings.TrimSpace(p)))
	}
	return strings.Join(trimmed, "/")
}

func cloneNodes(nodes []domain.GeographicNode) []domain.GeographicNode {
	if len(nodes) == 0 {
		return []domain.GeographicNode{}
	}
	dup := make([]domain.GeographicNode, len(nodes))
	copy(dup, nodes)
	return dup
}

func containsNode(nodes []domain.GeographicNode, code string) bool {
	target := strings.ToUpper(strings.TrimSpace(code))
	if target == "" {
		return false
	}
	for _, n := range nodes {
		if strings.ToUpper(n.Code) == target {
			return true
		}
	}
	return false
}
