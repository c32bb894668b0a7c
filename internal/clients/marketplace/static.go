package marketplace

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/domain"
)

// Static is an in-memory stand-in for the marketplace API, used by tests and
// local development. It honours the same contracts as Client, including the
// 1-based pagination envelope.
type Static struct {
	mu        sync.Mutex
	shops     []domain.Shop
	products  map[string][]domain.Product
	users     []domain.User
	addresses map[string]domain.Address
	orders    []CreateOrderRequest
	nextID    int

	// FailNext, when set, makes the next mutating call return the error and
	// clears itself. Listing calls are unaffected.
	FailNext error
}

// NewStatic constructs an empty Static backend.
func NewStatic() *Static {
	return &Static{
		products:  make(map[string][]domain.Product),
		addresses: make(map[string]domain.Address),
	}
}

// SeedShop registers a shop and its products.
func (s *Static) SeedShop(shop domain.Shop, products ...domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	shop.ProductCount = len(products)
	s.shops = append(s.shops, shop)
	s.products[shop.ID] = append([]domain.Product(nil), products...)
}

// SeedUser registers a customer.
func (s *Static) SeedUser(user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, user)
}

// Orders returns a copy of every order accepted so far.
func (s *Static) Orders() []CreateOrderRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]CreateOrderRequest(nil), s.orders...)
}

// SearchShops implements the shop directory contract.
func (s *Static) SearchShops(_ context.Context, _ string, query ShopQuery) (Page[domain.Shop], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(query.Search))
	matched := make([]domain.Shop, 0, len(s.shops))
	for _, shop := range s.shops {
		if needle != "" && !strings.Contains(strings.ToLower(shop.Name), needle) {
			continue
		}
		if !s.catalogMatches(shop.ID, query) {
			continue
		}
		matched = append(matched, shop)
	}
	return paginate(matched, query.Page, query.Take), nil
}

// catalogMatches reports whether a shop's catalog satisfies the product name
// and price-range parts of the query. A query without those parts matches
// every shop.
func (s *Static) catalogMatches(shopID string, query ShopQuery) bool {
	product := strings.ToLower(strings.TrimSpace(query.ProductName))
	if product == "" && query.MinPrice == nil && query.MaxPrice == nil {
		return true
	}
	for _, p := range s.products[shopID] {
		if product != "" && !strings.Contains(strings.ToLower(p.Name), product) {
			continue
		}
		if query.MinPrice != nil && p.SalePrice.LessThan(*query.MinPrice) {
			continue
		}
		if query.MaxPrice != nil && p.SalePrice.GreaterThan(*query.MaxPrice) {
			continue
		}
		return true
	}
	return false
}

// ShopProducts implements the product listing contract.
func (s *Static) ShopProducts(_ context.Context, _ string, shopID string, page, take int) (Page[domain.Product], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	products, ok := s.products[shopID]
	if !ok {
		return Page[domain.Product]{}, &APIError{StatusCode: http.StatusNotFound, Message: "shop not found"}
	}
	return paginate(products, page, take), nil
}

// LatestUsers implements the customer listing contract, newest first.
func (s *Static) LatestUsers(_ context.Context, _ string, take int) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := append([]domain.User(nil), s.users...)
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	if take > 0 && take < len(users) {
		users = users[:take]
	}
	return users, nil
}

// SaveAddress implements the address upsert contract.
func (s *Static) SaveAddress(_ context.Context, _ string, address domain.Address) (domain.Address, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return domain.Address{}, err
	}
	if address.ID == "" {
		s.nextID++
		address.ID = fmt.Sprintf("addr-%d", s.nextID)
	}
	s.addresses[address.UserID] = address
	return address, nil
}

// CreateOrder implements the order submission contract.
func (s *Static) CreateOrder(_ context.Context, _ string, order CreateOrderRequest) (CreateOrderResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.takeFailure(); err != nil {
		return CreateOrderResult{}, err
	}
	s.nextID++
	s.orders = append(s.orders, order)
	return CreateOrderResult{OrderID: fmt.Sprintf("order-%d", s.nextID), Status: "PENDING"}, nil
}

func (s *Static) takeFailure() error {
	if s.FailNext == nil {
		return nil
	}
	err := s.FailNext
	s.FailNext = nil
	return err
}

func paginate[T any](items []T, page, take int) Page[T] {
	if take <= 0 {
		take = 10
	}
	if page <= 0 {
		page = 1
	}
	total := len(items)
	pageCount := (total + take - 1) / take

	start := (page - 1) * take
	if start > total {
		start = total
	}
	end := start + take
	if end > total {
		end = total
	}
	return Page[T]{
		Data: append([]T(nil), items[start:end]...),
		Meta: PageMeta{
			Page:            page,
			Take:            take,
			ItemCount:       total,
			PageCount:       pageCount,
			HasPreviousPage: page > 1,
			HasNextPage:     page < pageCount,
		},
	}
}
