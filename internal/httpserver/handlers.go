package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"artgallery-storefront/internal/collection"
	"artgallery-storefront/internal/domain"
	"artgallery-storefront/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type handlers struct{}

type viewRequest struct {
	View  domain.View `json:"view" binding:"required"`
	Param string      `json:"param"`
}

type cartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type promoRequest struct {
	Code string `json:"code"`
}

type reviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type signUpRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type productRequest struct {
	Name        string          `json:"name" binding:"required,max=200"`
	Description string          `json:"description" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	Category    domain.Category `json:"category" binding:"required,oneof=Painting Sketch Craft Keychain"`
	ImageURL    string          `json:"imageUrl" binding:"required,url"`
	IsSoldOut   bool            `json:"isSoldOut"`
	ArtistNote  *string         `json:"artistNote"`
}

type statusRequest struct {
	IsSoldOut *bool `json:"isSoldOut" binding:"required"`
}

// respond writes the visitor's state after an action, or the action's error.
func respond(c *gin.Context, v *visitorEntry, err error) {
	if err != nil {
		writeError(c, err)
		return
	}
	writeState(c, v, http.StatusOK)
}

func writeState(c *gin.Context, v *visitorEntry, status int) {
	st := v.store.Snapshot()
	resp := stateResponse{
		State:  st,
		Totals: toTotals(v.store.TotalsFor(st)),
	}
	if t, ok := v.auth.(interface{ Token() string }); ok && resp.State.User != nil && !resp.State.User.Local {
		resp.AccessToken = t.Token()
	}
	c.JSON(status, resp)
}

func mustVisitor(c *gin.Context) (*visitorEntry, bool) {
	v, err := visitorFrom(c)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return v, true
}

func (h *handlers) state(c *gin.Context) {
	if v, ok := mustVisitor(c); ok {
		writeState(c, v, http.StatusOK)
	}
}

func (h *handlers) setView(c *gin.Context) {
	v, ok := mustVisitor(c)
	if !ok {
		return
	}
	var req viewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, v, v.store.SetView(req.View, req.Param))
}

func (h *handlers) listProducts(c *gin.Context) {
	v, ok := mustVisitor(c)
	if !ok {
		return
	}
	q := collection.Query{Search: c.Query("q")}
	if raw := c.Query("category"); raw != "" && raw != "All" {
		cat, ok := domain.ParseCategory(raw)
		if !ok {
			writeError(c, domain.Validation("Unknown category."))
			return
		}
		q.Category = cat
	}
	c.JSON(http.StatusOK, gin.H{"products": v.store.Products(q)})
}

const defaultFeatured = 3

func (h *handlers) featured(c *gin.Context) {
	v, ok := mustVisitor(c)
	if !ok {
		return
	}
	n := defaultFeatured
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(c, domain.Validation("limit must be a non-negative number."))
			return
		}
		n = parsed
	}
	c.JSON(http.StatusOK, gin.H{"products": v.store.Featured(n)})
}

func (h *handlers) getProduct(c *gin.Context) {
	v, ok := mustVisitor(c)
	if !ok {
		return
	}
	p, err := v.store.Product(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"product":       p,
		"displayPrice":  formatPrice(p.Price),
		"averageRating": p.AverageRating(),
		"inWishlist":    v.store.Snapshot().InWishlist(p.ID),
	})
}

func (h *handlers) refreshProducts(c *gin.Context) {
	if v, ok := mustVisitor(c); ok {
		respond(c, v, v.store.FetchProducts(c.Request.Context()))
	}
}

func (h *handlers) submitReview(c *gin.Context) {
	v, ok := mustVisitor(c)
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, v, v.store.SubmitReview(c.Request.Context(), c.Param("id"), req.Rating, req.Comment))
}

func (h *handlers) addToCart(c *gin.Context) {
	v, ok := mustVisitor(c)
	if !ok {
		return
	}
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, v, v.store.AddToCartByID(req.ProductID))
}

func (h *handlers) updateQuantity(c *gin.Context) {
	v, ok := mustVisitor(c)
	if !ok {
		return
	}
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, v, v.store.UpdateQuantity(c.Param("productId"), *req.Quantity))
}

func (h *handlers) removeFromCart(c *gin.Context) {
	if v, ok := mustVisitor(c); ok {
		respond(c, v, v.store.RemoveFromCart(c.Param("productId")))
	}
}

func (h *handlers) clearCart(c *gin.Context) {
	if v, ok := mustVisitor(c); ok {
		respond(c, v, v.store.ClearCart())
	}
}

func (h *handlers) applyPromo(c *gin.Context) {
	v, ok := mustVisitor(c)
	if !ok {
		return
	}
	var req promoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, v, v.store.ApplyPromoCode(c.Request.Context(), req.Code))
}

func (h *handlers) checkout(c *gin.Context) {
	v, ok := mustVisitor(c)
	if !ok {
		return
	}
	o, err := v.store.Checkout()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrder(o))
}

func (h *handlers) listWishlist(c *gin.Context) {
	if v, ok := mustVisitor(c); ok {
		c.JSON(http.StatusOK, gin.H{"products": v.store.WishlistProducts()})
	}
}

func (h *handlers) toggleWishlist(c *gin.Context) {
	v, ok := mustVisitor(c)
	if !ok {
		return
	}
	id := c.Param("productId")
	if _, err := v.store.Product(id); err != nil {
		writeError(c, err)
		return
	}
	respond(c, v, v.store.ToggleWishlist(id))
}

func (h *handlers) signIn(c *gin.Context) {
	v, ok := mustVisitor(c)
	if !ok {
		return
	}
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	err := v.store.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil && !errors.Is(err, store.ErrClosed) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: domain.Message(err), Kind: domain.KindCollaborator})
		return
	}
	respond(c, v, err)
}

func (h *handlers) signUp(c *gin.Context) {
	v, ok := mustVisitor(c)
	if !ok {
		return
	}
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, v, v.store.SignUp(c.Request.Context(), req.FullName, req.Email, req.Password))
}

func (h *handlers) signOut(c *gin.Context) {
	if v, ok := mustVisitor(c); ok {
		respond(c, v, v.store.Logout(c.Request.Context()))
	}
}

func (h *handlers) adminStats(c *gin.Context) {
	v, ok := mustVisitor(c)
	if !ok {
		return
	}
	stats, err := v.store.AdminStats()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats, "displayRevenue": formatPrice(stats.Revenue)})
}

func (h *handlers) addProduct(c *gin.Context) {
	v, ok := mustVisitor(c)
	if !ok {
		return
	}
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	draft := domain.ProductDraft{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		IsSoldOut:   req.IsSoldOut,
		ArtistNote:  req.ArtistNote,
	}
	if err := v.store.AddProduct(c.Request.Context(), draft); err != nil {
		writeError(c, err)
		return
	}
	writeState(c, v, http.StatusCreated)
}

func (h *handlers) updateProductStatus(c *gin.Context) {
	v, ok := mustVisitor(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	respond(c, v, v.store.ToggleProductStatus(c.Request.Context(), c.Param("id"), *req.IsSoldOut))
}
