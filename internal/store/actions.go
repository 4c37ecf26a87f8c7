package store

import (
	"context"
	"errors"

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

var (
	ErrInvalidView = domain.Validation("Unknown page.")
	ErrSoldOut     = domain.Validation("This piece has already found a home.")
	ErrSignInFirst = domain.Forbidden("Please sign in to leave a review.")
	ErrEmptyCart   = domain.Validation("Your cart is empty.")
	ErrBadRating   = domain.Validation("Rating must be between 1 and 5.")
	ErrBadPrice    = domain.Validation("Price cannot be negative.")
)

// SetView navigates and clears any error.
func (s *Store) SetView(view domain.View, param string) error {
	if !view.Valid() || (view.RequiresParam() && param == "") {
		return ErrInvalidView
	}
	if !view.RequiresParam() {
		param = ""
	}
	if _, err := s.commit(0, func(st *State) {
		st.View = view
		st.ViewParam = param
		st.Error = ""
	}); err != nil {
		return err
	}
	s.navigated(view, param)
	return nil
}

// FetchProducts replaces the catalog with the backend's, keeping local-only
// products. Cart lines pick up the refreshed product data.
func (s *Store) FetchProducts(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}
	fetched, err := s.catalog.FetchProducts(ctx)
	if err != nil {
		return s.fail("fetch_products", collaboratorErr(err, "Failed to fetch products."))
	}
	_, err = s.succeed(func(st *State) {
		st.Products = s.withDemoKeychain(fetched, storage.MergeLocal(fetched, st.Products))
		st.Cart = st.Cart.RefreshProducts(st.Products)
	})
	return err
}

// RestoreSession adopts the backend's current session, if any. A failure is
// logged and leaves the visitor anonymous without surfacing an error.
func (s *Store) RestoreSession(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}
	user, err := s.sessions.Restore(ctx)
	if err != nil {
		s.logger.Warn("session restore failed", zap.Error(err))
		if _, cerr := s.commit(-1, nil); cerr != nil {
			return cerr
		}
		return err
	}
	_, err = s.succeed(func(st *State) {
		if user != nil {
			st.User = user
		}
	})
	return err
}

func (s *Store) Login(ctx context.Context, email, password string) error {
	if err := s.begin(); err != nil {
		return err
	}
	user, err := s.sessions.Login(ctx, email, password)
	if err != nil {
		return s.fail("login", err)
	}
	return s.enter(user)
}

func (s *Store) SignUp(ctx context.Context, fullName, email, password string) error {
	if err := s.begin(); err != nil {
		return err
	}
	user, err := s.sessions.SignUp(ctx, fullName, email, password)
	if err != nil {
		return s.fail("sign_up", err)
	}
	return s.enter(user)
}

func (s *Store) enter(user *domain.User) error {
	if _, err := s.succeed(func(st *State) {
		st.User = user
		st.View = domain.ViewHome
		st.ViewParam = ""
	}); err != nil {
		return err
	}
	s.navigated(domain.ViewHome, "")
	return nil
}

// Logout always returns the visitor to anonymous and navigates home. A backend
// sign-out failure is still reported.
func (s *Store) Logout(ctx context.Context) error {
	current := s.Snapshot().User
	if err := s.begin(); err != nil {
		return err
	}
	err := s.sessions.Logout(ctx, current)
	if err != nil {
		s.logger.Warn("store action failed", zap.String("action", "logout"), zap.Error(err))
	}
	if _, cerr := s.commit(-1, func(st *State) {
		st.User = nil
		st.View = domain.ViewHome
		st.ViewParam = ""
		st.Error = domain.Message(err)
	}); cerr != nil {
		return cerr
	}
	s.navigated(domain.ViewHome, "")
	return err
}

func (s *Store) AddToCart(product domain.Product) error {
	if product.IsSoldOut {
		return s.reject(ErrSoldOut)
	}
	_, err := s.commit(0, func(st *State) {
		st.Cart = st.Cart.Add(product)
		st.Error = ""
	})
	return err
}

// AddToCartByID adds the catalog product with the given id.
func (s *Store) AddToCartByID(productID string) error {
	product, err := s.Product(productID)
	if err != nil {
		return s.reject(err)
	}
	return s.AddToCart(product)
}

func (s *Store) RemoveFromCart(productID string) error {
	_, err := s.commit(0, func(st *State) {
		st.Cart = st.Cart.Remove(productID)
		st.Error = ""
	})
	return err
}

// UpdateQuantity sets the quantity exactly. Zero or less removes the line.
func (s *Store) UpdateQuantity(productID string, quantity int) error {
	_, err := s.commit(0, func(st *State) {
		st.Cart = st.Cart.UpdateQuantity(productID, quantity)
		st.Error = ""
	})
	return err
}

// ClearCart empties the cart and drops the active promo.
func (s *Store) ClearCart() error {
	_, err := s.commit(0, func(st *State) {
		st.Cart = st.Cart.Clear()
		st.Promo = nil
		st.Error = ""
	})
	return err
}

func (s *Store) ToggleWishlist(productID string) error {
	_, err := s.commit(0, func(st *State) {
		st.Wishlist = toggle(st.Wishlist, productID)
		st.Error = ""
	})
	return err
}

// ApplyPromoCode validates code as entered and makes the result the active
// promo, replacing any previous one. Blank input is ignored.
func (s *Store) ApplyPromoCode(ctx context.Context, code string) error {
	if _, ok := promo.Normalize(code); !ok {
		return nil
	}
	if err := s.begin(); err != nil {
		return err
	}
	result, err := s.promos.Validate(ctx, code)
	if err != nil {
		return s.fail("apply_promo", collaboratorErr(err, "Error validating code. Please try again."))
	}
	result.Code = code
	_, err = s.succeed(func(st *State) {
		st.Promo = &result
	})
	return err
}

// SubmitReview adds a review as the signed-in user.
func (s *Store) SubmitReview(ctx context.Context, productID string, rating int, comment string) error {
	st := s.Snapshot()
	if st.User == nil {
		return s.reject(ErrSignInFirst)
	}
	if !domain.ValidRating(rating) {
		return s.reject(ErrBadRating)
	}
	product, err := collection.FindProduct(st.Products, productID)
	if err != nil {
		return s.reject(err)
	}

	port := s.router.For(st.User, &product)
	if err := s.begin(); err != nil {
		return err
	}
	mut, err := port.AddReview(ctx, storage.ReviewInput{
		ProductID: productID,
		Author:    st.User,
		Rating:    rating,
		Comment:   comment,
	})
	if err != nil {
		return s.fail("submit_review", collaboratorErr(err, "Failed to submit review."))
	}
	return s.applyMutation(mut)
}

// ToggleProductStatus marks a product sold out or available. Admins only.
func (s *Store) ToggleProductStatus(ctx context.Context, productID string, isSoldOut bool) error {
	st := s.Snapshot()
	if err := session.RequireAdmin(st.User); err != nil {
		return s.reject(err)
	}
	product, err := collection.FindProduct(st.Products, productID)
	if err != nil {
		return s.reject(err)
	}

	port := s.router.For(st.User, &product)
	if err := s.begin(); err != nil {
		return err
	}
	mut, err := port.SetSoldOut(ctx, productID, isSoldOut)
	if err != nil {
		return s.fail("toggle_product_status", collaboratorErr(err, "Failed to update product status."))
	}
	return s.applyMutation(mut)
}

// AddProduct creates a catalog product. Admins only.
func (s *Store) AddProduct(ctx context.Context, draft domain.ProductDraft) error {
	st := s.Snapshot()
	if err := session.RequireAdmin(st.User); err != nil {
		return s.reject(err)
	}
	if draft.Price.IsNegative() {
		return s.reject(ErrBadPrice)
	}

	port := s.router.For(st.User, nil)
	if err := s.begin(); err != nil {
		return err
	}
	mut, err := port.AddProduct(ctx, draft)
	if err != nil {
		return s.fail("add_product", collaboratorErr(err, "Failed to add new product."))
	}
	return s.applyMutation(mut)
}

func (s *Store) applyMutation(mut storage.Mutation) error {
	_, err := s.succeed(func(st *State) {
		st.Products = mut(st.Products)
		st.Cart = st.Cart.RefreshProducts(st.Products)
	})
	return err
}

// PlaceOrder records the cart as a pending order with the given total, then
// clears the cart and promo in the same transition.
func (s *Store) PlaceOrder(total decimal.Decimal) (domain.Order, error) {
	return s.placeOrder(func(State) decimal.Decimal { return total })
}

// Checkout places an order for the cart priced at the moment it is taken.
func (s *Store) Checkout() (domain.Order, error) {
	return s.placeOrder(func(st State) decimal.Decimal { return s.TotalsFor(st).Total })
}

func (s *Store) placeOrder(total func(State) decimal.Decimal) (domain.Order, error) {
	var (
		placed   domain.Order
		placeErr error
	)
	_, err := s.commit(0, func(st *State) {
		o, err := order.Place(st.Cart.Items(), total(*st), s.now(), s.newOrderID)
		if err != nil {
			placeErr = err
			st.Error = ErrEmptyCart.Message
			return
		}
		placed = o
		st.Orders = order.Prepend(st.Orders, o)
		st.Cart = st.Cart.Clear()
		st.Promo = nil
		st.Error = ""
	})
	if err != nil {
		return domain.Order{}, err
	}
	if placeErr != nil {
		if errors.Is(placeErr, order.ErrEmptyCart) {
			return domain.Order{}, ErrEmptyCart
		}
		return domain.Order{}, placeErr
	}
	s.logger.Info("order placed",
		zap.String("order_id", placed.ID),
		zap.String("total", pricing.Format(placed.Total)),
		zap.Int("items", len(placed.Items)),
	)
	return placed, nil
}
