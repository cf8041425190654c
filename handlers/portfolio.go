package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xterics/xterics/backend/api/internal/catalog"
	"github.com/xterics/xterics/backend/api/internal/models"
	"github.com/xterics/xterics/backend/api/internal/storage"
	"github.com/xterics/xterics/backend/api/pkg/logger"
)

const presignExpiry = 7 * 24 * time.Hour

// PortfolioHandler serves the public portfolio and the admin CRUD behind it.
// images may be nil when no object store is configured; uploads then require
// an externally hosted URL.
type PortfolioHandler struct {
	svc    *catalog.Service
	images *storage.ImageStore
}

func NewPortfolioHandler(svc *catalog.Service, images *storage.ImageStore) *PortfolioHandler {
	return &PortfolioHandler{svc: svc, images: images}
}

// Register wires the public routes; admin routes go on the supplied group,
// which the caller guards with the session and admin middleware.
func (h *PortfolioHandler) Register(rg *gin.RouterGroup, admin *gin.RouterGroup) {
	rg.GET("/api/portfolio", h.List)
	rg.GET("/api/portfolio/featured", h.Featured)
	rg.GET("/api/portfolio/projects/:id", h.Get)

	admin.POST("/portfolio/projects", h.Create)
	admin.PATCH("/portfolio/projects/:id", h.Update)
	admin.DELETE("/portfolio/projects/:id", h.Delete)
	admin.POST("/portfolio/projects/:id/images", h.AddImage)
	admin.DELETE("/portfolio/images/:imageId", h.DeleteImage)
}

func (h *PortfolioHandler) List(c *gin.Context) {
	projects, err := h.svc.ListPortfolio(c.Request.Context())
	if err != nil {
		logger.Errorf("portfolio: list: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load portfolio"})
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *PortfolioHandler) Featured(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	projects, err := h.svc.FeaturedPortfolio(c.Request.Context(), limit)
	if err != nil {
		logger.Errorf("portfolio: featured: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load portfolio"})
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *PortfolioHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project id"})
		return
	}
	p, err := h.svc.GetProject(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		logger.Errorf("portfolio: get %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load project"})
		return
	}
	c.JSON(http.StatusOK, p)
}

type createProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	IsPublished bool   `json:"isPublished"`
	IsFeatured  bool   `json:"isFeatured"`
}

func (h *PortfolioHandler) Create(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := &models.PortfolioProject{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		IsPublished: req.IsPublished,
		IsFeatured:  req.IsFeatured,
	}
	if err := h.svc.CreateProject(c.Request.Context(), p); err != nil {
		logger.Errorf("portfolio: create: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PortfolioHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project id"})
		return
	}
	var upd catalog.ProjectUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.UpdateProject(c.Request.Context(), uint(id), upd); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		logger.Errorf("portfolio: update %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *PortfolioHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project id"})
		return
	}
	if err := h.svc.DeleteProject(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		logger.Errorf("portfolio: delete %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AddImage accepts either a multipart "image" file (stored in the object
// bucket) or a "url" form field pointing at an externally hosted image.
func (h *PortfolioHandler) AddImage(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project id"})
		return
	}
	caption := c.PostForm("caption")

	var imageURL, objectKey string
	if file, ferr := c.FormFile("image"); ferr == nil {
		if h.images == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image storage is not configured"})
			return
		}
		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable upload"})
			return
		}
		defer src.Close()

		objectKey = fmt.Sprintf("projects/%d/%s%s", projectID, uuid.NewString(), filepath.Ext(file.Filename))
		contentType := file.Header.Get("Content-Type")
		if err := h.images.Put(c.Request.Context(), objectKey, src, file.Size, contentType); err != nil {
			logger.Errorf("portfolio: image upload %s: %v", objectKey, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
			return
		}
		imageURL, err = h.images.PresignedURL(c.Request.Context(), objectKey, presignExpiry)
		if err != nil {
			logger.Errorf("portfolio: presign %s: %v", objectKey, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
			return
		}
	} else if url := c.PostForm("url"); url != "" {
		imageURL = url
	} else {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide an image file or a url"})
		return
	}

	img, err := h.svc.AddImage(c.Request.Context(), uint(projectID), imageURL, objectKey, caption)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		logger.Errorf("portfolio: add image to %d: %v", projectID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add image"})
		return
	}
	c.JSON(http.StatusCreated, img)
}

func (h *PortfolioHandler) DeleteImage(c *gin.Context) {
	imageID, err := strconv.ParseUint(c.Param("imageId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image id"})
		return
	}
	img, err := h.svc.DeleteImage(c.Request.Context(), uint(imageID))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
			return
		}
		logger.Errorf("portfolio: delete image %d: %v", imageID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete image"})
		return
	}
	if img.ObjectKey != "" && h.images != nil {
		if err := h.images.Delete(c.Request.Context(), img.ObjectKey); err != nil {
			logger.Warnf("portfolio: orphan object %s: %v", img.ObjectKey, err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
