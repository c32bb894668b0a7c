package services

import (
	"fmt"
	"strings"

	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/domain"
)

// AddressForm is the in-progress delivery address for the order being
// composed. Geographic fields cascade: changing a level clears every level
// below it, so the form can never hold a ward that belongs to a different
// city. The form is plain state; persistence happens in CustomerService.
type AddressForm struct {
	geo *GeoResolver

	userID       string
	countryCode  string
	provinceCode string
	cityCode     string
	wardCode     string
	postalCode   string
	detail       string
}

// NewAddressForm constructs an empty form bound to a geography resolver.
func NewAddressForm(geo *GeoResolver) *AddressForm {
	return &AddressForm{geo: geo}
}

// SetUser binds the form to a customer. Clearing the user does not touch the
// geographic fields.
func (f *AddressForm) SetUser(userID string) {
	f.userID = strings.TrimSpace(userID)
}

// SetCountry selects a country and clears province, city, ward and postal
// code. Selecting the already-selected country is a no-op.
func (f *AddressForm) SetCountry(code string) {
	code = strings.TrimSpace(code)
	if code == f.countryCode {
		return
	}
	f.countryCode = code
	f.provinceCode = ""
	f.cityCode = ""
	f.wardCode = ""
	f.postalCode = ""
}

// SetProvince selects a province and clears city, ward and postal code.
// Selecting a province while no country is set is a no-op; the selector is
// disabled until its parent has a value.
func (f *AddressForm) SetProvince(code string) {
	code = strings.TrimSpace(code)
	if code != "" && f.countryCode == "" {
		return
	}
	if code == f.provinceCode {
		return
	}
	f.provinceCode = code
	f.cityCode = ""
	f.wardCode = ""
	f.postalCode = ""
}

// SetCity selects a city and clears ward and postal code. A no-op while no
// province is set.
func (f *AddressForm) SetCity(code string) {
	code = strings.TrimSpace(code)
	if code != "" && f.provinceCode == "" {
		return
	}
	if code == f.cityCode {
		return
	}
	f.cityCode = code
	f.wardCode = ""
	f.postalCode = ""
}

// SetWard selects a ward and derives the postal code from the reference tree.
// Wards without a known postal code leave it blank. A no-op while no city is
// set.
func (f *AddressForm) SetWard(code string) {
	code = strings.TrimSpace(code)
	if code != "" && f.cityCode == "" {
		return
	}
	if code == f.wardCode {
		return
	}
	f.wardCode = code
	f.postalCode = ""
	if code == "" {
		return
	}
	if postal, ok := f.geo.PostalCodeOf(f.countryCode, f.provinceCode, f.cityCode, code); ok {
		f.postalCode = postal
	}
}

// SetDetail records the free-form street-level portion of the address.
func (f *AddressForm) SetDetail(detail string) {
	f.detail = strings.TrimSpace(detail)
}

// Snapshot returns the current form contents without validating them.
func (f *AddressForm) Snapshot() domain.Address {
	return domain.Address{
		UserID:       f.userID,
		CountryCode:  f.countryCode,
		ProvinceCode: f.provinceCode,
		CityCode:     f.cityCode,
		WardCode:     f.wardCode,
		PostalCode:   f.postalCode,
		Detail:       f.detail,
	}
}

// Compose validates the form and returns the address ready for persistence.
// A saveable address needs a user, a country and a non-empty detail line; the
// finer geographic levels are optional but must belong to the tree when set.
func (f *AddressForm) Compose() (domain.Address, error) {
	switch {
	case f.userID == "":
		return domain.Address{}, fmt.Errorf("%w: a customer must be selected", ErrInvalidInput)
	case f.countryCode == "":
		return domain.Address{}, fmt.Errorf("%w: a country must be selected", ErrInvalidInput)
	case f.detail == "":
		return domain.Address{}, fmt.Errorf("%w: address detail is required", ErrInvalidInput)
	}
	if !f.geo.Knows(f.countryCode, f.provinceCode, f.cityCode, f.wardCode) {
		return domain.Address{}, fmt.Errorf("%w: unknown geographic selection", ErrInvalidInput)
	}
	return f.Snapshot(), nil
}

// Reset clears every field, including the bound user.
func (f *AddressForm) Reset() {
	*f = AddressForm{geo: f.geo}
}
