package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xterics/xterics/backend/api/internal/orders"
	"github.com/xterics/xterics/backend/api/pkg/logger"
	"github.com/xterics/xterics/backend/api/pkg/metrics"
	"github.com/xterics/xterics/backend/api/pkg/middleware"
)

// OrdersHandler serves order placement, the customer's order list and the
// admin status workflow. Placement is open to guests; an authenticated
// session attaches the order to the user.
type OrdersHandler struct {
	svc *orders.Service
}

func NewOrdersHandler(svc *orders.Service) *OrdersHandler {
	return &OrdersHandler{svc: svc}
}

// Register wires the routes. optional must attach the session when present,
// authed must require one; admin is the caller's admin-guarded group.
func (h *OrdersHandler) Register(rg *gin.RouterGroup, optional, authed gin.HandlerFunc, admin *gin.RouterGroup) {
	rg.POST("/api/orders", optional, h.Create)
	rg.GET("/api/orders", authed, h.ListMine)
	rg.GET("/api/orders/:id", optional, h.Get)

	rg.POST("/api/custom-orders", optional, h.CreateCustom)
	rg.GET("/api/custom-orders", authed, h.ListMineCustom)

	admin.GET("/orders", h.AdminList)
	admin.PATCH("/orders/:id/status", h.AdminUpdateStatus)
	admin.GET("/custom-orders", h.AdminListCustom)
	admin.PATCH("/custom-orders/:id/status", h.AdminUpdateCustomStatus)
}

type createOrderRequest struct {
	ServiceID   uint   `json:"serviceId" binding:"required"`
	ClientName  string `json:"clientName" binding:"required"`
	ClientEmail string `json:"clientEmail" binding:"required,email"`
	Description string `json:"description" binding:"required,min=10"`
}

func (h *OrdersHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var userID uint
	if u, ok := middleware.UserFrom(c); ok {
		userID = u.ID
	}
	o, err := h.svc.Place(c.Request.Context(), orders.PlaceInput{
		UserID:      userID,
		ServiceID:   req.ServiceID,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, orders.ErrServiceNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Service not found"})
			return
		}
		logger.Errorf("orders: create: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}
	metrics.OrdersCreated.WithLabelValues("standard").Inc()
	c.JSON(http.StatusCreated, o)
}

func (h *OrdersHandler) ListMine(c *gin.Context) {
	u, ok := middleware.UserFrom(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}
	list, err := h.svc.ListForUser(c.Request.Context(), u.ID)
	if err != nil {
		logger.Errorf("orders: list for user %d: %v", u.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get returns one order. The payment page fetches by id without a session;
// when a session is present, non-admins only see their own orders.
func (h *OrdersHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}
	o, err := h.svc.Get(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		logger.Errorf("orders: get %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
		return
	}
	if u, ok := middleware.UserFrom(c); ok && o.UserID != u.ID && !u.IsAdmin() {
		// 404 rather than 403 so order ids don't leak existence
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, o)
}

type createCustomOrderRequest struct {
	ClientName  string `json:"clientName" binding:"required"`
	ClientEmail string `json:"clientEmail" binding:"required,email"`
	Description string `json:"description" binding:"required,min=10"`
	Budget      *int64 `json:"budget"`
}

func (h *OrdersHandler) CreateCustom(c *gin.Context) {
	var req createCustomOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var userID *uint
	if u, ok := middleware.UserFrom(c); ok {
		userID = &u.ID
	}
	o, err := h.svc.PlaceCustom(c.Request.Context(), orders.CustomInput{
		UserID:      userID,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		Description: req.Description,
		Budget:      req.Budget,
	})
	if err != nil {
		logger.Errorf("orders: create custom: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create custom order"})
		return
	}
	metrics.OrdersCreated.WithLabelValues("custom").Inc()
	c.JSON(http.StatusCreated, o)
}

func (h *OrdersHandler) ListMineCustom(c *gin.Context) {
	u, ok := middleware.UserFrom(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}
	list, err := h.svc.ListCustomForUser(c.Request.Context(), u.ID)
	if err != nil {
		logger.Errorf("orders: list custom for user %d: %v", u.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load custom orders"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *OrdersHandler) AdminList(c *gin.Context) {
	list, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		logger.Errorf("orders: admin list: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
		return
	}
	c.JSON(http.StatusOK, list)
}

type updateStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Notes  *string `json:"notes"`
}

func (h *OrdersHandler) AdminUpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.UpdateStatus(c.Request.Context(), uint(id), req.Status, req.Notes); err != nil {
		switch {
		case errors.Is(err, orders.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		case errors.Is(err, orders.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		default:
			logger.Errorf("orders: update status %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *OrdersHandler) AdminListCustom(c *gin.Context) {
	list, err := h.svc.ListCustomAll(c.Request.Context())
	if err != nil {
		logger.Errorf("orders: admin list custom: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load custom orders"})
		return
	}
	c.JSON(http.StatusOK, list)
}

type updateCustomStatusRequest struct {
	Status      string  `json:"status" binding:"required"`
	QuotedPrice *int64  `json:"quotedPrice"`
	Notes       *string `json:"notes"`
}

func (h *OrdersHandler) AdminUpdateCustomStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}
	var req updateCustomStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.UpdateCustomStatus(c.Request.Context(), uint(id), req.Status, req.QuotedPrice, req.Notes); err != nil {
		switch {
		case errors.Is(err, orders.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		case errors.Is(err, orders.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Custom order not found"})
		default:
			logger.Errorf("orders: update custom status %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update custom order"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
