package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/clients/marketplace"
	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/domain"
	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/platform/pagination"
)

// ShopDirectory is the slice of the marketplace API the catalog browser needs.
type ShopDirectory interface {
	SearchShops(ctx context.Context, token string, query marketplace.ShopQuery) (marketplace.Page[domain.Shop], error)
	ShopProducts(ctx context.Context, token, shopID string, page, take int) (marketplace.Page[domain.Product], error)
}

// CatalogService lets operators find shops and browse their products while
// composing an order. Listing is read-only; selection state lives on the
// operator's session, not here.
type CatalogService struct {
	directory ShopDirectory
	group     singleflight.Group
	logger    func(ctx context.Context, event string, fields map[string]any)
}

// CatalogServiceDeps lists the collaborators required by NewCatalogService.
type CatalogServiceDeps struct {
	Directory ShopDirectory
	Logger    func(ctx context.Context, event string, fields map[string]any)
}

// NewCatalogService validates deps and constructs a CatalogService.
func NewCatalogService(deps CatalogServiceDeps) (*CatalogService, error) {
	if deps.Directory == nil {
		return nil, errors.New("catalog service: directory is required")
	}
	svc := &CatalogService{directory: deps.Directory, logger: deps.Logger}
	if svc.logger == nil {
		svc.logger = func(context.Context, string, map[string]any) {}
	}
	return svc, nil
}

// ShopPage is one page of the shop search result.
type ShopPage struct {
	Shops []domain.Shop
	Meta  pagination.Meta
}

// ProductPage is one page of a shop's product listing.
type ProductPage struct {
	Products []domain.Product
	Meta     pagination.Meta
}

// ShopFilter narrows a shop search. All fields are optional; price bounds
// apply to the sale price of the products a shop carries.
type ShopFilter struct {
	Search      string
	ProductName string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
}

func (f ShopFilter) normalized() ShopFilter {
	f.Search = strings.TrimSpace(f.Search)
	f.ProductName = strings.TrimSpace(f.ProductName)
	return f
}

func (f ShopFilter) cacheKey() string {
	min, max := "", ""
	if f.MinPrice != nil {
		min = f.MinPrice.String()
	}
	if f.MaxPrice != nil {
		max = f.MaxPrice.String()
	}
	return fmt.Sprintf("%s|%s|%s|%s", f.Search, f.ProductName, min, max)
}

// SearchShops lists shops matching the filter.
func (s *CatalogService) SearchShops(ctx context.Context, token string, filter ShopFilter, params pagination.Params) (ShopPage, error) {
	filter = filter.normalized()
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return ShopPage{}, fmt.Errorf("%w: min price exceeds max price", ErrInvalidInput)
	}
	key := fmt.Sprintf("shops|%s|%s|%d|%d", tokenDigest(token), filter.cacheKey(), params.Page, params.Take)
	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.directory.SearchShops(ctx, token, marketplace.ShopQuery{
			Search:      filter.Search,
			ProductName: filter.ProductName,
			MinPrice:    filter.MinPrice,
			MaxPrice:    filter.MaxPrice,
			Page:        params.Page,
			Take:        params.Take,
		})
	})
	if err != nil {
		s.logger(ctx, "catalog.shops.search_failed", map[string]any{"search": filter.Search, "error": err.Error()})
		return ShopPage{}, translateClientError(err)
	}
	page := v.(marketplace.Page[domain.Shop])
	return ShopPage{Shops: page.Data, Meta: metaFromClient(page.Meta)}, nil
}

// ProductsOfShop lists one page of a shop's catalog.
func (s *CatalogService) ProductsOfShop(ctx context.Context, token, shopID string, params pagination.Params) (ProductPage, error) {
	shopID = strings.TrimSpace(shopID)
	if shopID == "" {
		return ProductPage{}, fmt.Errorf("%w: shop id is required", ErrInvalidInput)
	}
	key := fmt.Sprintf("products|%s|%s|%d|%d", tokenDigest(token), shopID, params.Page, params.Take)
	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.directory.ShopProducts(ctx, token, shopID, params.Page, params.Take)
	})
	if err != nil {
		s.logger(ctx, "catalog.products.list_failed", map[string]any{"shop_id": shopID, "error": err.Error()})
		return ProductPage{}, translateClientError(err)
	}
	page := v.(marketplace.Page[domain.Product])
	return ProductPage{Products: page.Data, Meta: metaFromClient(page.Meta)}, nil
}

// FindProduct fetches a single product from a shop page so a cart line can
// snapshot its current price and stock.
func (s *CatalogService) FindProduct(ctx context.Context, token, shopID, productID string, params pagination.Params) (domain.Product, error) {
	page, err := s.ProductsOfShop(ctx, token, shopID, params)
	if err != nil {
		return domain.Product{}, err
	}
	for _, product := range page.Products {
		if product.ID == productID {
			return product, nil
		}
	}
	return domain.Product{}, fmt.Errorf("%w: product %q not on page %d", ErrNotFound, productID, params.Page)
}

// tokenDigest keys in-flight call collapsing by operator credential, so two
// operators issuing the same query never share one upstream call. The raw
// token stays out of the key.
func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

func metaFromClient(meta marketplace.PageMeta) pagination.Meta {
	return pagination.Meta{
		Page:            meta.Page,
		Take:            meta.Take,
		ItemCount:       meta.ItemCount,
		PageCount:       meta.PageCount,
		HasPreviousPage: meta.HasPreviousPage,
		HasNextPage:     meta.HasNextPage,
	}
}
