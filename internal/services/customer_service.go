package services

import (
	"context"
	"errors"

	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/domain"
)

// CustomerBook is the slice of the marketplace API that deals with customers
// and their delivery addresses.
type CustomerBook interface {
	LatestUsers(ctx context.Context, token string, take int) ([]domain.User, error)
	SaveAddress(ctx context.Context, token string, address domain.Address) (domain.Address, error)
}

// CustomerService looks up customers for order composition and persists the
// delivery address built in an AddressForm.
type CustomerService struct {
	book   CustomerBook
	logger func(ctx context.Context, event string, fields map[string]any)
}

// CustomerServiceDeps lists the collaborators required by NewCustomerService.
type CustomerServiceDeps struct {
	Book   CustomerBook
	Logger func(ctx context.Context, event string, fields map[string]any)
}

// NewCustomerService validates deps and constructs a CustomerService.
func NewCustomerService(deps CustomerServiceDeps) (*CustomerService, error) {
	if deps.Book == nil {
		return nil, errors.New("customer service: book is required")
	}
	svc := &CustomerService{book: deps.Book, logger: deps.Logger}
	if svc.logger == nil {
		svc.logger = func(context.Context, string, map[string]any) {}
	}
	return svc, nil
}

// LatestUsers lists the most recently registered customers, newest first.
func (s *CustomerService) LatestUsers(ctx context.Context, token string, take int) ([]domain.User, error) {
	if take <= 0 {
		take = 20
	}
	users, err := s.book.LatestUsers(ctx, token, take)
	if err != nil {
		s.logger(ctx, "customers.list_failed", map[string]any{"error": err.Error()})
		return nil, translateClientError(err)
	}
	return users, nil
}

// SaveAddress validates the composed form and persists it for its user.
func (s *CustomerService) SaveAddress(ctx context.Context, token string, form *AddressForm) (domain.Address, error) {
	if form == nil {
		return domain.Address{}, errors.New("customer service: nil address form")
	}
	address, err := form.Compose()
	if err != nil {
		return domain.Address{}, err
	}
	saved, err := s.book.SaveAddress(ctx, token, address)
	if err != nil {
		s.logger(ctx, "customers.address_save_failed", map[string]any{
			"user_id": address.UserID,
			"error":   err.Error(),
		})
		return domain.Address{}, translateClientError(err)
	}
	s.logger(ctx, "customers.address_saved", map[string]any{
		"user_id":    saved.UserID,
		"address_id": saved.ID,
	})
	return saved, nil
}
