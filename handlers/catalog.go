package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xterics/xterics/backend/api/internal/catalog"
	"github.com/xterics/xterics/backend/api/pkg/logger"
)

// CatalogHandler serves the public service catalog.
type CatalogHandler struct {
	svc *catalog.Service
}

func NewCatalogHandler(svc *catalog.Service) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/api/services", h.List)
	rg.GET("/api/services/:id", h.Get)
}

func (h *CatalogHandler) List(c *gin.Context) {
	services, err := h.svc.ListServices(c.Request.Context())
	if err != nil {
		logger.Errorf("catalog: list services: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load services"})
		return
	}
	c.JSON(http.StatusOK, services)
}

func (h *CatalogHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service id"})
		return
	}
	svc, err := h.svc.GetService(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}
		logger.Errorf("catalog: get service %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load service"})
		return
	}
	c.JSON(http.StatusOK, svc)
}
