// Package store is the storefront's single source of truth. A Store holds one
// visitor's catalog, session, cart, promo, wishlist and order history and
// publishes every change as a new immutable State.
package store

import (
	"errors"
	"slices"
	"sync"
	"time"

	"artgallery-storefront/internal/collection"
	"artgallery-storefront/internal/domain"
	"artgallery-storefront/internal/order"
	"artgallery-storefront/internal/pricing"
	"artgallery-storefront/internal/promo"
	"artgallery-storefront/internal/session"
	"artgallery-storefront/internal/storage"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrClosed = errors.New("store closed")

// Deps are the collaborators a Store drives. Storage defaults to a local port
// plus a remote port over Catalog.
type Deps struct {
	Catalog  storage.Catalog
	Sessions *session.Manager
	Promos   promo.Validator
	Storage  *storage.Router
	Pricing  pricing.Config
	Logger   *zap.Logger
}

type Option func(*Store)

// WithClock overrides the clock used to date orders.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithOrderIDs overrides the order id generator.
func WithOrderIDs(fn order.IDFunc) Option {
	return func(s *Store) { s.newOrderID = fn }
}

// WithNavigateHook registers fn to run after every view change, outside the lock.
func WithNavigateHook(fn func(view domain.View, param string)) Option {
	return func(s *Store) { s.onNavigate = fn }
}

// WithDemoKeychain adds a local-only keychain to fetched catalogs that have none.
func WithDemoKeychain(enabled bool) Option {
	return func(s *Store) { s.demoKeychain = enabled }
}

type Store struct {
	catalog  storage.Catalog
	sessions *session.Manager
	promos   promo.Validator
	router   storage.Router
	pricing  pricing.Config
	logger   *zap.Logger

	now          func() time.Time
	newOrderID   order.IDFunc
	onNavigate   func(domain.View, string)
	demoKeychain bool

	mu           sync.Mutex
	state        State
	pending      int
	closed       bool
	listeners    map[int]func(State)
	nextListener int
	delivering   bool
	delivered    uint64
}

func New(deps Deps, opts ...Option) *Store {
	s := &Store{
		catalog:    deps.Catalog,
		sessions:   deps.Sessions,
		promos:     deps.Promos,
		pricing:    deps.Pricing,
		logger:     deps.Logger,
		now:        time.Now,
		newOrderID: order.NewID,
		state:      initialState(),
		listeners:  make(map[int]func(State)),
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.pricing == (pricing.Config{}) {
		s.pricing = pricing.DefaultConfig()
	}
	if s.promos == nil {
		s.promos = promo.NewKeywordValidator(nil, promo.DefaultPercent)
	}
	if deps.Storage != nil {
		s.router = *deps.Storage
	} else {
		s.router = storage.Router{Local: storage.NewLocal()}
		if deps.Catalog != nil {
			s.router.Remote = storage.NewRemote(deps.Catalog)
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to receive published states in version order. When
// actions race, intermediate states may be skipped but the latest always
// arrives. The returned func removes fn.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Close disposes the store. Later actions return ErrClosed.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.listeners = map[int]func(State){}
}

func (s *Store) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Totals prices the current cart for the current user and promo.
func (s *Store) Totals() pricing.Breakdown {
	return s.TotalsFor(s.Snapshot())
}

// TotalsFor prices the cart of st, which is usually an earlier Snapshot.
func (s *Store) TotalsFor(st State) pricing.Breakdown {
	return pricing.Compute(s.pricing, st.Cart.Items(), st.Role(), st.Promo)
}

// Product looks up a catalog product by id.
func (s *Store) Product(id string) (domain.Product, error) {
	return collection.FindProduct(s.Snapshot().Products, id)
}

func (s *Store) Products(q collection.Query) []domain.Product {
	return collection.Filter(s.Snapshot().Products, q)
}

// Featured returns up to n available products for the home page.
func (s *Store) Featured(n int) []domain.Product {
	return collection.Featured(s.Snapshot().Products, n)
}

func (s *Store) WishlistProducts() []domain.Product {
	st := s.Snapshot()
	return collection.WishlistProducts(st.Products, st.Wishlist)
}

// AdminStats is only available to admins.
func (s *Store) AdminStats() (collection.Stats, error) {
	st := s.Snapshot()
	if err := session.RequireAdmin(st.User); err != nil {
		return collection.Stats{}, err
	}
	return collection.AdminStats(st.Products), nil
}

// commit applies fn to a copy of the latest state, adjusts the pending
// collaborator call count by delta and publishes the result.
func (s *Store) commit(delta int, fn func(st *State)) (State, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return State{}, ErrClosed
	}
	next := s.state
	if fn != nil {
		fn(&next)
	}
	s.pending += delta
	if s.pending < 0 {
		s.pending = 0
	}
	next.Loading = s.pending > 0
	next.Version = s.state.Version + 1
	s.state = next

	if s.delivering {
		// The running delivery loop picks this version up.
		s.mu.Unlock()
		return next, nil
	}
	s.delivering = true
	s.mu.Unlock()

	s.deliver()
	return next, nil
}

// deliver hands listeners the latest state until none is left undelivered.
// Only one goroutine delivers at a time, so versions reach listeners in
// increasing order. Listeners run outside the lock and may call actions.
func (s *Store) deliver() {
	for {
		s.mu.Lock()
		if s.closed || s.state.Version == s.delivered {
			s.delivering = false
			s.mu.Unlock()
			return
		}
		st := s.state
		s.delivered = st.Version
		listeners := make([]func(State), 0, len(s.listeners))
		for _, l := range s.listeners {
			listeners = append(listeners, l)
		}
		s.mu.Unlock()

		for _, l := range listeners {
			l(st)
		}
	}
}

// begin marks a collaborator call as in flight.
func (s *Store) begin() error {
	_, err := s.commit(1, nil)
	return err
}

// succeed ends a collaborator call, applies fn and clears the error.
func (s *Store) succeed(fn func(st *State)) (State, error) {
	return s.commit(-1, func(st *State) {
		if fn != nil {
			fn(st)
		}
		st.Error = ""
	})
}

// fail ends a collaborator call and reports err. Nothing but the error changes.
func (s *Store) fail(action string, err error) error {
	s.logger.Warn("store action failed", zap.String("action", action), zap.Error(err))
	if _, cerr := s.commit(-1, func(st *State) { st.Error = domain.Message(err) }); cerr != nil {
		return cerr
	}
	return err
}

// reject reports a failure detected before any collaborator call.
func (s *Store) reject(err error) error {
	if _, cerr := s.commit(0, func(st *State) { st.Error = domain.Message(err) }); cerr != nil {
		return cerr
	}
	return err
}

func (s *Store) navigated(view domain.View, param string) {
	if s.onNavigate != nil {
		s.onNavigate(view, param)
	}
}

// collaboratorErr keeps domain errors the backend meant for the visitor and
// wraps everything else under fallback.
func collaboratorErr(err error, fallback string) error {
	var de *domain.Error
	if errors.As(err, &de) && de.Kind != domain.KindCollaborator {
		return de
	}
	return domain.Collaborator(fallback, err)
}

const (
	demoKeychainID    = storage.LocalIDPrefix + "keychain-1"
	demoKeychainPrice = 1500
)

func demoKeychain() domain.Product {
	note := "A tiny universe to carry with you."
	return domain.Product{
		ID:          demoKeychainID,
		Name:        "Nebula Keychain",
		Description: "A hand-painted resin keychain with swirling nebula colors and flecks of stardust.",
		Price:       decimal.NewFromInt(demoKeychainPrice),
		Category:    domain.CategoryKeychain,
		ImageURL:    "https://images.unsplash.com/photo-1462331940025-496dfbfc7564?w=800",
		ArtistNote:  &note,
		Reviews:     []domain.Review{},
		LocalOnly:   true,
	}
}

// withDemoKeychain adds the demo keychain to merged when fetched has no
// Keychain, and drops it once the backend carries a real one.
func (s *Store) withDemoKeychain(fetched, merged []domain.Product) []domain.Product {
	if slices.ContainsFunc(fetched, isKeychain) {
		return slices.DeleteFunc(merged, func(p domain.Product) bool { return p.ID == demoKeychainID })
	}
	if !s.demoKeychain || slices.ContainsFunc(merged, isKeychain) {
		return merged
	}
	return append(merged, demoKeychain())
}

func isKeychain(p domain.Product) bool {
	return p.Category == domain.CategoryKeychain
}
