package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/classroom-service/internal/models"
	"github.com/SAP-F-2025/classroom-service/internal/repositories"
	"github.com/SAP-F-2025/classroom-service/internal/services"
	"github.com/SAP-F-2025/classroom-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	BaseHandler
	catalogService services.CatalogService
}

func NewCatalogHandler(catalogService services.CatalogService, logger utils.Logger) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler:    NewBaseHandler(logger),
		catalogService: catalogService,
	}
}

// CreateFormation creates a draft formation
// @Summary Create formation
// @Tags formations
// @Accept json
// @Produce json
// @Param formation body services.CreateFormationRequest true "Formation data"
// @Success 201 {object} models.Formation
// @Failure 403 {object} ErrorResponse
// @Router /formations [post]
func (h *CatalogHandler) CreateFormation(c *gin.Context) {
	var req services.CreateFormationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	formation, err := h.catalogService.CreateFormation(c.Request.Context(), user, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, formation)
}

// PublishFormation opens a formation to enrollment
// @Summary Publish formation
// @Tags formations
// @Produce json
// @Param id path uint true "Formation ID"
// @Success 200 {object} models.Formation
// @Failure 403 {object} ErrorResponse
// @Router /formations/{id}/publish [post]
func (h *CatalogHandler) PublishFormation(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	formation, err := h.catalogService.PublishFormation(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, formation)
}

// GetFormation retrieves a formation by ID
// @Summary Get formation
// @Tags formations
// @Produce json
// @Param id path uint true "Formation ID"
// @Success 200 {object} models.Formation
// @Failure 404 {object} ErrorResponse
// @Router /formations/{id} [get]
func (h *CatalogHandler) GetFormation(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	formation, err := h.catalogService.GetFormation(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, formation)
}

// ListFormations lists formations with filtering
// @Summary List formations
// @Tags formations
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /formations [get]
func (h *CatalogHandler) ListFormations(c *gin.Context) {
	var filters repositories.FormationFilters
	filters.Limit, filters.Offset = parseLimitOffset(c)

	if status := c.Query("status"); status != "" {
		s := models.FormationStatus(status)
		filters.Status = &s
	}
	if category := c.Query("category"); category != "" {
		filters.Category = &category
	}

	formations, total, err := h.catalogService.ListFormations(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"formations": formations,
		"total":      total,
		"limit":      filters.Limit,
		"offset":     filters.Offset,
	})
}

// GetFormationStats returns enrollment statistics for a formation
// @Summary Get formation stats
// @Tags formations
// @Produce json
// @Param id path uint true "Formation ID"
// @Success 200 {object} repositories.FormationStats
// @Failure 403 {object} ErrorResponse
// @Router /formations/{id}/stats [get]
func (h *CatalogHandler) GetFormationStats(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	stats, err := h.catalogService.GetFormationStats(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// CreateClass creates a cohort class under a formation
// @Summary Create class
// @Tags classes
// @Accept json
// @Produce json
// @Param class body services.CreateClassRequest true "Class data"
// @Success 201 {object} models.ClassModel
// @Failure 403 {object} ErrorResponse
// @Router /classes [post]
func (h *CatalogHandler) CreateClass(c *gin.Context) {
	var req services.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	class, err := h.catalogService.CreateClass(c.Request.Context(), user, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, class)
}

// GetClass retrieves a class by ID
// @Summary Get class
// @Tags classes
// @Produce json
// @Param id path uint true "Class ID"
// @Success 200 {object} models.ClassModel
// @Failure 404 {object} ErrorResponse
// @Router /classes/{id} [get]
func (h *CatalogHandler) GetClass(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	class, err := h.catalogService.GetClass(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, class)
}

// ListFormationClasses lists the classes of a formation
// @Summary List formation classes
// @Tags classes
// @Produce json
// @Param id path uint true "Formation ID"
// @Success 200 {object} SuccessResponse
// @Router /formations/{id}/classes [get]
func (h *CatalogHandler) ListFormationClasses(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	classes, err := h.catalogService.ListClassesByFormation(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"classes": classes,
	})
}

// ListMyClasses lists the classes taught by the authenticated teacher
// @Summary List own classes
// @Tags classes
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /classes/mine [get]
func (h *CatalogHandler) ListMyClasses(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	classes, err := h.catalogService.ListClassesByTeacher(c.Request.Context(), user.ID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"classes": classes,
	})
}

// GetClassStats returns attendance and course statistics for a class
// @Summary Get class stats
// @Tags classes
// @Produce json
// @Param id path uint true "Class ID"
// @Success 200 {object} repositories.ClassStats
// @Failure 403 {object} ErrorResponse
// @Router /classes/{id}/stats [get]
func (h *CatalogHandler) GetClassStats(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}

	stats, err := h.catalogService.GetClassStats(c.Request.Context(), user, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
