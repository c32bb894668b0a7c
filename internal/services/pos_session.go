package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/domain"
)

// PosSession is the per-operator composition workspace: the cart, the chosen
// customer and shop, the address form, and the checkout machine. Every
// mutation goes through this struct under its lock, which is what preserves
// the single-writer semantics the workflow invariants assume even though
// HTTP handlers run concurrently.
type PosSession struct {
	mu       sync.Mutex
	id       string
	cart     *Cart
	address  *AddressForm
	checkout *Checkout

	customer     *domain.User
	activeShopID string
	savedAddress *domain.Address

	lastSeen time.Time
}

func newPosSession(id string, geo *GeoResolver, clock func() time.Time) *PosSession {
	newID := func() string { return ulid.Make().String() }
	return &PosSession{
		id:       id,
		cart:     NewCart(clock),
		address:  NewAddressForm(geo),
		checkout: NewCheckout(newID, clock),
		lastSeen: clock().UTC(),
	}
}

// ID returns the session identifier.
func (s *PosSession) ID() string { return s.id }

// SelectCustomer binds the order being composed to a customer and points the
// address form at them.
func (s *PosSession) SelectCustomer(user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(user.ID) == "" {
		return fmt.Errorf("%w: customer id is required", ErrInvalidInput)
	}
	s.customer = &user
	s.address.SetUser(user.ID)
	return nil
}

// Customer returns the selected customer, or false when none is selected.
func (s *PosSession) Customer() (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.customer == nil {
		return domain.User{}, false
	}
	return *s.customer, true
}

// SelectShop records which shop's catalog the operator is browsing. Switching
// shops while the cart holds lines from another shop is refused.
func (s *PosSession) SelectShop(shopID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	shopID = strings.TrimSpace(shopID)
	if shopID == "" {
		return fmt.Errorf("%w: shop id is required", ErrInvalidInput)
	}
	if s.cart.Len() > 0 && s.activeShopID != shopID {
		return fmt.Errorf("%w: cart holds items from another shop", ErrConflict)
	}
	s.activeShopID = shopID
	return nil
}

// ActiveShop returns the shop whose catalog is being browsed.
func (s *PosSession) ActiveShop() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeShopID
}

// AddProduct appends a cart line snapshotting the product. Products from a
// shop other than the active one are refused.
func (s *PosSession) AddProduct(product domain.Product) (domain.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(product.ID) == "" {
		return domain.CartLine{}, fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}
	if s.activeShopID == "" {
		s.activeShopID = product.ShopID
	} else if product.ShopID != "" && product.ShopID != s.activeShopID {
		return domain.CartLine{}, fmt.Errorf("%w: product belongs to another shop", ErrConflict)
	}
	return s.cart.AddLine(product), nil
}

// AdjustQuantity applies a delta to a cart line, clamped at a minimum of 1.
func (s *PosSession) AdjustQuantity(lineKey string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cart.AdjustQuantity(lineKey, delta) {
		return fmt.Errorf("%w: cart line %q", ErrNotFound, lineKey)
	}
	return nil
}

// RemoveLine deletes the cart line at the given position.
func (s *PosSession) RemoveLine(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cart.RemoveLine(index) {
		return fmt.Errorf("%w: cart position %d", ErrNotFound, index)
	}
	return nil
}

// ClearCart empties the cart without touching the customer, shop or address.
func (s *PosSession) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
}

// CartLines returns a copy of the cart content in insertion order.
func (s *PosSession) CartLines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Lines()
}

// CartTotals recomputes the pricing summary from the live cart.
func (s *PosSession) CartTotals() domain.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Totals()
}

// EditAddress applies a mutation to the address form under the session lock.
func (s *PosSession) EditAddress(edit func(*AddressForm)) domain.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	edit(s.address)
	return s.address.Snapshot()
}

// AddressFormSnapshot returns the current address form contents.
func (s *PosSession) AddressFormSnapshot() domain.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.address.Snapshot()
}

// Address returns the form itself for persistence through CustomerService.
// Callers must not mutate it concurrently with EditAddress.
func (s *PosSession) Address() *AddressForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.address
}

// RecordSavedAddress remembers the persisted address so review can reference it.
func (s *PosSession) RecordSavedAddress(address domain.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savedAddress = &address
}

// SavedAddress returns the last persisted address, or false when none exists.
func (s *PosSession) SavedAddress() (domain.Address, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.savedAddress == nil {
		return domain.Address{}, false
	}
	return *s.savedAddress, true
}

// OpenReview captures the confirmation snapshot for the current cart and
// customer. The cart stays editable afterwards; edits do not reach the
// snapshot.
func (s *PosSession) OpenReview() (domain.OrderConfirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.customer == nil {
		return domain.OrderConfirmation{}, fmt.Errorf("%w: a customer must be selected before review", ErrInvalidInput)
	}
	addressID := ""
	if s.savedAddress != nil {
		addressID = s.savedAddress.ID
	}
	return s.checkout.OpenReview(*s.customer, s.activeShopID, addressID, s.cart)
}

// CancelReview discards the open confirmation snapshot.
func (s *PosSession) CancelReview() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkout.CancelReview()
}

// Confirmation returns the open snapshot, or false when none is open.
func (s *PosSession) Confirmation() (domain.OrderConfirmation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkout.Confirmation()
}

// CheckoutStatus reports the submission state plus outcome details.
func (s *PosSession) CheckoutStatus() (state SubmissionState, orderID, failure string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkout.State(), s.checkout.OrderID(), s.checkout.Failure()
}

// ResetCheckout returns the submission machine to Idle so a new order can be
// composed after a completed or failed attempt.
func (s *PosSession) ResetCheckout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkout.Reset()
}

// beginSubmit moves the checkout into Submitting and returns the snapshot to
// send. Called by OrderService only.
func (s *PosSession) beginSubmit() (domain.OrderConfirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkout.BeginSubmit()
}

// completeSubmit settles a successful submission and clears the cart.
func (s *PosSession) completeSubmit(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkout.CompleteSubmit(orderID); err != nil {
		return
	}
	s.cart.Clear()
}

// failSubmit settles a failed submission. The cart is left untouched.
func (s *PosSession) failSubmit(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.checkout.FailSubmit(message)
}

func (s *PosSession) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *PosSession) expired(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ttl > 0 && now.Sub(s.lastSeen) > ttl
}

// SessionRegistry holds the live composition sessions keyed by ID. Sessions
// idle longer than the TTL are dropped on the next access.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*PosSession
	geo      *GeoResolver
	clock    func() time.Time
	idleTTL  time.Duration
}

// SessionRegistryDeps lists the collaborators required by NewSessionRegistry.
type SessionRegistryDeps struct {
	Geo     *GeoResolver
	Clock   func() time.Time
	IdleTTL time.Duration
}

// NewSessionRegistry validates deps and constructs a SessionRegistry.
func NewSessionRegistry(deps SessionRegistryDeps) (*SessionRegistry, error) {
	if deps.Geo == nil {
		return nil, fmt.Errorf("session registry: geo resolver is required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &SessionRegistry{
		sessions: make(map[string]*PosSession),
		geo:      deps.Geo,
		clock:    clock,
		idleTTL:  deps.IdleTTL,
	}, nil
}

// Create starts a fresh session and returns it.
func (r *SessionRegistry) Create() *PosSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	session := newPosSession(ulid.Make().String(), r.geo, r.clock)
	r.sessions[session.id] = session
	return session
}

// Get returns the session for the ID, refreshing its idle timer. Expired or
// unknown sessions return false.
func (r *SessionRegistry) Get(id string) (*PosSession, bool) {
	r.mu.Lock()
	session, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return nil, false
	}
	now := r.clock().UTC()
	if session.expired(now, r.idleTTL) {
		r.Drop(id)
		return nil, false
	}
	session.touch(now)
	return session, true
}

// Drop removes a session immediately.
func (r *SessionRegistry) Drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Sweep removes every expired session and reports how many were dropped.
func (r *SessionRegistry) Sweep() int {
	now := r.clock().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()
	dropped := 0
	for id, session := range r.sessions {
		if session.expired(now, r.idleTTL) {
			delete(r.sessions, id)
			dropped++
		}
	}
	return dropped
}

// Len reports the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
