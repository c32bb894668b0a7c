package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Shop is a seller account whose products can be placed on a virtual order.
type Shop struct {
	ID           string `json:"id"`
	Name         string `json:"shopName"`
	OwnerEmail   string `json:"email"`
	ProductCount int    `json:"productCount"`
	Verified     bool   `json:"verified"`
}

// Product is the marketplace's catalog record. The POS core never mutates it;
// it only reads price and stock snapshots at selection time.
type Product struct {
	ID          string          `json:"id"`
	ShopID      string          `json:"shopId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
	SalePrice   decimal.Decimal `json:"salePrice"`
	CostPrice   decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

// Profit returns the per-unit margin for a product listing.
func (p Product) Profit() decimal.Decimal {
	return p.SalePrice.Sub(p.CostPrice)
}

// User is a marketplace customer on whose behalf staff compose virtual orders.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Phone     string    `json:"phone"`
	AddressID string    `json:"addressId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CartLine is one product-quantity pair in the in-progress order. The product
// fields are a snapshot taken when the line was added; later catalog changes
// do not flow into existing lines.
type CartLine struct {
	Key       string          `json:"key"`
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"imageUrl"`
	SalePrice decimal.Decimal `json:"salePrice"`
	CostPrice decimal.Decimal `json:"costPrice"`
	Stock     int             `json:"stock"`
	Quantity  int             `json:"quantity"`
	AddedAt   time.Time       `json:"addedAt"`
}

// Subtotal returns salePrice × quantity for the line.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.SalePrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Profit returns (salePrice − costPrice) × quantity for the line.
func (l CartLine) Profit() decimal.Decimal {
	return l.SalePrice.Sub(l.CostPrice).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Totals is the derived pricing summary for a cart. It is recomputed from the
// cart on every read and never stored.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// Address is the persisted delivery address attached to a user.
type Address struct {
	ID           string `json:"id,omitempty"`
	UserID       string `json:"userId"`
	CountryCode  string `json:"countryCode"`
	ProvinceCode string `json:"provinceCode,omitempty"`
	CityCode     string `json:"cityCode,omitempty"`
	WardCode     string `json:"wardCode,omitempty"`
	PostalCode   string `json:"postalCode,omitempty"`
	Detail       string `json:"detail"`
}

// GeographicNode is one entry of the static reference tree. Children are
// indexed by the parent's code; the tree is immutable after initialisation.
type GeographicNode struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// OrderLine is a frozen cart line inside a confirmation or order payload.
type OrderLine struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	SalePrice decimal.Decimal `json:"salePrice"`
	CostPrice decimal.Decimal `json:"costPrice"`
	Quantity  int             `json:"quantity"`
}

// OrderConfirmation is the immutable snapshot reviewed by the operator. It is
// captured when the confirmation view opens and never observes later cart
// mutations; confirming submits exactly this content.
type OrderConfirmation struct {
	ID        string      `json:"id"`
	User      User        `json:"user"`
	ShopID    string      `json:"shopId"`
	AddressID string      `json:"addressId,omitempty"`
	Lines     []OrderLine `json:"lines"`
	Totals    Totals      `json:"totals"`
	CreatedAt time.Time   `json:"createdAt"`
}
