package marketplace

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/domain"
)

// ShopQuery narrows a shop listing request. Search matches shop names,
// ProductName matches against each shop's catalog, and the price bounds keep
// only shops selling at least one product inside the range.
type ShopQuery struct {
	Search      string
	ProductName string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Page        int
	Take        int
}

// SearchShops lists shops matching the query, newest first.
func (c *Client) SearchShops(ctx context.Context, token string, query ShopQuery) (Page[domain.Shop], error) {
	params := url.Values{}
	if s := strings.TrimSpace(query.Search); s != "" {
		params.Set("search", s)
	}
	if p := strings.TrimSpace(query.ProductName); p != "" {
		params.Set("product_name", p)
	}
	if query.MinPrice != nil {
		params.Set("min_price", query.MinPrice.String())
	}
	if query.MaxPrice != nil {
		params.Set("max_price", query.MaxPrice.String())
	}
	if query.Page > 0 {
		params.Set("page", strconv.Itoa(query.Page))
	}
	if query.Take > 0 {
		params.Set("take", strconv.Itoa(query.Take))
	}
	params.Set("order", "DESC")

	req, err := c.newRequest(ctx, http.MethodGet, "shops?"+params.Encode(), nil, token)
	if err != nil {
		return Page[domain.Shop]{}, err
	}
	resp, err := c.do(req)
	if err != nil {
		return Page[domain.Shop]{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return Page[domain.Shop]{}, c.errorFromResponse(resp)
	}
	return decodeJSON[Page[domain.Shop]](resp, "shops")
}

// ShopProducts lists the products of a single shop.
func (c *Client) ShopProducts(ctx context.Context, token, shopID string, page, take int) (Page[domain.Product], error) {
	shopID = strings.TrimSpace(shopID)
	if shopID == "" {
		return Page[domain.Product]{}, fmt.Errorf("marketplace: shop id is required")
	}
	params := url.Values{}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if take > 0 {
		params.Set("take", strconv.Itoa(take))
	}

	endpoint := fmt.Sprintf("shops/%s/products?%s", url.PathEscape(shopID), params.Encode())
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil, token)
	if err != nil {
		return Page[domain.Product]{}, err
	}
	resp, err := c.do(req)
	if err != nil {
		return Page[domain.Product]{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return Page[domain.Product]{}, c.errorFromResponse(resp)
	}
	return decodeJSON[Page[domain.Product]](resp, "shop products")
}
