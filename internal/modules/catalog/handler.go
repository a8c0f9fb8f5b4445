package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"studiobook/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the public browse surface.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/studios", h.ListStudios)
	rg.GET("/studios/:id", h.GetStudio)
}

func (h *Handler) ListStudios(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	studios, err := h.service.ListStudios(c.Request.Context(), c.Query("city"), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load studios")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"studios": studios})
}

func (h *Handler) GetStudio(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid studio ID")
		return
	}

	studio, err := h.service.GetStudio(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Studio not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load studio")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"studio": studio})
}
