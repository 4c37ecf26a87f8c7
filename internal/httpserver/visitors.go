package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"artgallery-storefront/internal/logger"
	"artgallery-storefront/internal/pricing"
	"artgallery-storefront/internal/promo"
	"artgallery-storefront/internal/service/visitor"
	"artgallery-storefront/internal/session"
	"artgallery-storefront/internal/storage"
	"artgallery-storefront/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	visitorHeader = "X-Visitor-Token"
	storeKey      = "visitor_store"
)

// Deps are the backends shared by every visitor's store.
type Deps struct {
	Catalog storage.Catalog
	// NewAuthenticator binds the account backend to one visitor. token is a
	// previously issued access token, or empty.
	NewAuthenticator func(token string) session.Authenticator
	Promos           promo.Validator
	Pricing          pricing.Config
	Bypass           session.BypassCredential
	VisitorTTL       time.Duration
	DemoKeychain     bool
	CORSOrigins      []string
}

type visitorEntry struct {
	store *store.Store
	auth  session.Authenticator
}

// visitors owns one store per visitor token.
type visitors struct {
	deps     Deps
	logger   *zap.Logger
	registry *visitor.Registry[*visitorEntry]
}

func newVisitors(deps Deps, log *zap.Logger) *visitors {
	ttl := deps.VisitorTTL
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	if deps.Pricing == (pricing.Config{}) {
		deps.Pricing = pricing.DefaultConfig()
	}
	return &visitors{
		deps:     deps,
		logger:   log,
		registry: visitor.New(ttl, func(e *visitorEntry) { e.store.Close() }),
	}
}

// open builds and primes a store for a new visitor.
func (v *visitors) open(ctx context.Context, accessToken string) *visitorEntry {
	auth := v.deps.NewAuthenticator(accessToken)
	s := store.New(store.Deps{
		Catalog:  v.deps.Catalog,
		Sessions: session.NewManager(auth, v.deps.Bypass, v.logger),
		Promos:   v.deps.Promos,
		Pricing:  v.deps.Pricing,
		Logger:   v.logger.Named("store"),
	}, store.WithDemoKeychain(v.deps.DemoKeychain))

	if err := s.FetchProducts(ctx); err != nil {
		v.logger.Warn("initial catalog fetch failed", zap.Error(err))
	}
	if accessToken != "" {
		_ = s.RestoreSession(ctx)
	}
	return &visitorEntry{store: s, auth: auth}
}

// middleware resolves the visitor's store from the token header, issuing a new
// visitor when the header is missing or stale.
func (v *visitors) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(visitorHeader)
		entry, err := v.registry.Lookup(token)
		if err == nil && entry.store.Closed() {
			v.registry.Revoke(token)
			err = store.ErrClosed
		}
		if err != nil {
			entry = v.open(c.Request.Context(), bearerToken(c))
			token, err = v.registry.Issue(entry)
			if err != nil {
				entry.store.Close()
				logger.FromContext(c, v.logger).Error("issue visitor token", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "could not start a session"})
				return
			}
		}
		c.Header(visitorHeader, token)
		c.Set(storeKey, entry)
		c.Next()
	}
}

func (v *visitors) Sweep() int {
	return v.registry.Sweep()
}

func (v *visitors) Close() {
	v.registry.Close()
}

func visitorFrom(c *gin.Context) (*visitorEntry, error) {
	if e, ok := c.Get(storeKey); ok {
		if entry, ok := e.(*visitorEntry); ok {
			return entry, nil
		}
	}
	return nil, errors.New("visitor store missing from context")
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if after, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	return ""
}
