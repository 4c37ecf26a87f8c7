package domain

// View names a page of the storefront.
type View string

const (
	ViewHome       View = "home"
	ViewCollection View = "collection"
	ViewProduct    View = "product"
	ViewContact    View = "contact"
	ViewCart       View = "cart"
	ViewCheckout   View = "checkout"
	ViewSignIn     View = "signin"
	ViewSignUp     View = "signup"
	ViewProfile    View = "profile"
	ViewAdmin      View = "admin"
)

func (v View) Valid() bool {
	switch v {
	case ViewHome, ViewCollection, ViewProduct, ViewContact, ViewCart,
		ViewCheckout, ViewSignIn, ViewSignUp, ViewProfile, ViewAdmin:
		return true
	}
	return false
}

// RequiresParam reports whether the view needs a parameter (a product id).
func (v View) RequiresParam() bool {
	return v == ViewProduct
}
