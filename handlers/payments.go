package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xterics/xterics/backend/api/internal/orders"
	"github.com/xterics/xterics/backend/api/internal/payments"
	"github.com/xterics/xterics/backend/api/pkg/logger"
)

// PaymentsHandler exposes the payment-method stubs and records the returned
// provider reference on the order.
type PaymentsHandler struct {
	orders *orders.Service
}

func NewPaymentsHandler(svc *orders.Service) *PaymentsHandler {
	return &PaymentsHandler{orders: svc}
}

func (h *PaymentsHandler) Register(rg *gin.RouterGroup) {
	p := rg.Group("/api/payments")
	p.GET("/methods", h.Methods)
	p.POST("/stripe/intent", h.StripeIntent)
	p.POST("/flutterwave", h.Flutterwave)
	p.POST("/crypto", h.Crypto)
}

func (h *PaymentsHandler) Methods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"methods": payments.Methods()})
}

type paymentRequest struct {
	OrderID uint `json:"orderId" binding:"required"`
}

// loadOrder resolves the order for a payment request, writing the error
// response itself when the order cannot be used.
func (h *PaymentsHandler) loadOrder(c *gin.Context) (uint, int64, string, string, bool) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, 0, "", "", false
	}
	o, err := h.orders.Get(c.Request.Context(), req.OrderID)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		} else {
			logger.Errorf("payments: load order %d: %v", req.OrderID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load order"})
		}
		return 0, 0, "", "", false
	}
	return o.ID, o.Price, o.ClientEmail, o.ClientName, true
}

func (h *PaymentsHandler) StripeIntent(c *gin.Context) {
	id, price, _, _, ok := h.loadOrder(c)
	if !ok {
		return
	}
	intent := payments.CreateStripeIntent(price, id)
	if err := h.orders.AttachPayment(c.Request.Context(), id, intent.PaymentIntentID); err != nil {
		logger.Errorf("payments: attach stripe intent to %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}
	c.JSON(http.StatusOK, intent)
}

func (h *PaymentsHandler) Flutterwave(c *gin.Context) {
	id, price, email, name, ok := h.loadOrder(c)
	if !ok {
		return
	}
	payment := payments.CreateFlutterwavePayment(price, id, email, name)
	if err := h.orders.AttachPayment(c.Request.Context(), id, payment.PaymentID); err != nil {
		logger.Errorf("payments: attach flutterwave payment to %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h *PaymentsHandler) Crypto(c *gin.Context) {
	id, price, _, _, ok := h.loadOrder(c)
	if !ok {
		return
	}
	invoice := payments.CreateCryptoInvoice(price, id)
	if err := h.orders.AttachPayment(c.Request.Context(), id, invoice.InvoiceID); err != nil {
		logger.Errorf("payments: attach crypto invoice to %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}
	c.JSON(http.StatusOK, invoice)
}
