package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dnsby/storefront/internal/domain"
	"github.com/dnsby/storefront/internal/usecase"
	"github.com/gin-gonic/gin"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	cart    *usecase.CartService
	catalog *usecase.CatalogService
	auth    domain.AuthGateway
}

// NewHandler creates a new HTTP handler
func NewHandler(cart *usecase.CartService, catalog *usecase.CatalogService, auth domain.AuthGateway) *Handler {
	return &Handler{
		cart:    cart,
		catalog: catalog,
		auth:    auth,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "dnsby-storefront",
		"version": "1.0.0",
	})
}

// GetCatalog returns the product view under the requested sort, plus the
// derived facets and the full option list.
func (h *Handler) GetCatalog(c *gin.Context) {
	selected := h.catalog.Selected()
	if raw, ok := c.GetQuery("sort"); ok {
		selected = h.catalog.Select(domain.ParseSortSpec(raw))
	}

	options := h.catalog.SortOptions()
	optionStrings := make([]string, 0, len(options))
	for _, opt := range options {
		optionStrings = append(optionStrings, opt.String())
	}

	c.JSON(http.StatusOK, gin.H{
		"products":     h.catalog.View(),
		"facets":       h.catalog.Facets(),
		"sort_options": optionStrings,
		"sort":         selected.String(),
	})
}

// RefreshCatalog triggers a catalog re-scrape on the service. The new
// snapshot arrives eventually via the background poll, so this answers 202.
func (h *Handler) RefreshCatalog(c *gin.Context) {
	message, err := h.catalog.TriggerUpdate(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": message,
	})
}

// GetCart returns the current cart lines and total.
func (h *Handler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"items": h.cart.Lines(),
		"total": h.cart.Total(),
	})
}

type addCartRequest struct {
	ProductID int `json:"product_id" binding:"required"`
	Quantity  int `json:"quantity"`
}

// AddToCart adds a catalog product to the cart. When the remote service is
// unreachable the add lands locally and the response says so.
func (h *Handler) AddToCart(c *gin.Context) {
	var req addCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
		return
	}

	product, ok := h.catalog.ProductByID(req.ProductID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown product"})
		return
	}

	status := h.cart.Add(c.Request.Context(), product, req.Quantity)
	c.JSON(http.StatusCreated, gin.H{
		"added_locally": status == usecase.AddedLocal,
		"items":         h.cart.Lines(),
		"total":         h.cart.Total(),
	})
}

// RemoveFromCart removes a cart line. The path id addresses a server-backed
// line by its remote identity and falls back to a local-only line by product
// identifier, matching how lines are keyed.
func (h *Handler) RemoveFromCart(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cart line id"})
		return
	}

	line, ok := findLine(h.cart.Lines(), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "cart line not found"})
		return
	}

	err = h.cart.Remove(c.Request.Context(), line)
	switch {
	case errors.Is(err, domain.ErrCartStale):
		// The delete landed; the view may lag the server until the next sync.
		c.JSON(http.StatusBadGateway, gin.H{"removed": true, "stale": true})
	case errors.Is(err, domain.ErrRemoveFailed):
		c.JSON(http.StatusBadGateway, gin.H{"removed": false, "error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{
			"removed": true,
			"items":   h.cart.Lines(),
			"total":   h.cart.Total(),
		})
	}
}

// findLine resolves an id against the cart: remote identity first, then
// product identifier of a local-only line.
func findLine(lines []domain.CartLine, id int) (domain.CartLine, bool) {
	for _, line := range lines {
		if line.ServerBacked() && line.RemoteID == id {
			return line, true
		}
	}
	for _, line := range lines {
		if !line.ServerBacked() && line.ProductID == id {
			return line, true
		}
	}
	return domain.CartLine{}, false
}

// CreateOrder submits the checkout form with the current cart snapshot.
func (h *Handler) CreateOrder(c *gin.Context) {
	var order domain.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed order"})
		return
	}

	err := h.cart.Checkout(c.Request.Context(), &order)
	switch {
	case errors.Is(err, domain.ErrInvalidOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusCreated, gin.H{"status": "success"})
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates against the service and resyncs the cart, which the
// service re-keys to the authenticated identity.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.authError(c, err)
		return
	}

	if err := h.cart.SyncRemote(c.Request.Context()); err != nil {
		// Login succeeded; the cart catches up on the next sync.
		c.JSON(http.StatusOK, gin.H{"user": user, "cart_synced": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "cart_synced": true})
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates an account and authenticates the session.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username, email and password are required"})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.authError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Logout drops the authenticated session.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// Me returns the authenticated user, or 401 for an anonymous session.
func (h *Handler) Me(c *gin.Context) {
	user, err := h.auth.Me(c.Request.Context())
	if err != nil {
		h.authError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *Handler) authError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrNotAuthenticated) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}
