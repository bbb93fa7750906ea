package devserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/example/flowershop/internal/auth"
)

// Options configures the dev backend.
type Options struct {
	// Secret signs the bearer tokens. Defaults to a fixed dev value.
	Secret string
	// TokenExpiry defaults to 24h.
	TokenExpiry time.Duration
}

// Server is a self-contained stand-in for the shop backend, serving the
// same wire format from in-memory state. It exists so the client stack
// can be exercised end to end without any external services.
type Server struct {
	issuer *auth.Issuer
	state  *state
	router *gin.Engine
}

func New(opts Options) (*Server, error) {
	if opts.Secret == "" {
		opts.Secret = "flowershop-dev-secret"
	}
	if opts.TokenExpiry <= 0 {
		opts.TokenExpiry = 24 * time.Hour
	}

	st, err := newState()
	if err != nil {
		return nil, err
	}

	s := &Server{
		issuer: auth.NewIssuer(opts.Secret, opts.TokenExpiry),
		state:  st,
	}
	s.router = s.buildRouter()
	return s, nil
}

// Handler returns the HTTP handler, for mounting or for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) buildRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")

	api.POST("/auth/login", s.handleLogin)

	api.GET("/products", s.handleListProducts)
	api.GET("/products/featured", s.handleFeaturedProducts)
	api.GET("/products/search", s.handleSearchProducts)
	api.GET("/products/:id", s.handleGetProduct)

	api.GET("/categories", s.handleListCategories)
	api.GET("/categories/tree", s.handleCategoryTree)
	api.GET("/categories/:id", s.handleGetCategory)

	authed := api.Group("")
	authed.Use(s.requireAuth)

	authed.GET("/users/profile", s.handleProfile)
	authed.PUT("/users/profile", s.handleUpdateProfile)
	authed.GET("/users/addresses", s.handleListAddresses)
	authed.POST("/users/addresses", s.handleAddAddress)
	authed.PUT("/users/addresses/:id", s.handleUpdateAddress)
	authed.DELETE("/users/addresses/:id", s.handleDeleteAddress)
	authed.PUT("/users/addresses/:id/default", s.handleSetDefaultAddress)

	authed.POST("/orders", s.handleCreateOrder)
	authed.GET("/orders", s.handleListOrders)
	authed.GET("/orders/stats", s.handleOrderStats)
	authed.GET("/orders/:id", s.handleGetOrder)
	authed.PUT("/orders/:id/status", s.handleUpdateOrderStatus)

	authed.POST("/files/upload", s.handleUpload)

	return r
}

const claimsKey = "claims"

func (s *Server) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}

	claims, err := s.issuer.Validate(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.Set(claimsKey, claims)
	c.Next()
}

func currentClaims(c *gin.Context) *auth.Claims {
	return c.MustGet(claimsKey).(*auth.Claims)
}
