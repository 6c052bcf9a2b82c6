package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"uniguide/backend/internal/dto"
	"uniguide/backend/internal/service"
	"uniguide/backend/pkg/response"
)

// UniversityHandler stored catalog and live directory endpoints.
type UniversityHandler struct {
	uniSvc service.UniversityService
}

// NewUniversityHandler creates a UniversityHandler.
func NewUniversityHandler(uniSvc service.UniversityService) *UniversityHandler {
	return &UniversityHandler{uniSvc: uniSvc}
}

// ── catalog ──

// ListUniversities GET /api/v1/universities
func (h *UniversityHandler) ListUniversities(c *gin.Context) {
	var req dto.UniversityListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	page, err := h.uniSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleUniversityError(c, err)
		return
	}

	response.OKPage(c, page.Items, int64(page.Total), page.Page, page.PageSize)
}

// GetUniversity GET /api/v1/universities/:id
func (h *UniversityHandler) GetUniversity(c *gin.Context) {
	u, err := h.uniSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleUniversityError(c, err)
		return
	}
	response.OK(c, u)
}

// SearchUniversities GET /api/v1/universities/search?q=
func (h *UniversityHandler) SearchUniversities(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	unis, err := h.uniSvc.Search(c.Request.Context(), &req)
	if err != nil {
		h.handleUniversityError(c, err)
		return
	}
	response.OK(c, gin.H{"list": unis})
}

// SeedCatalog inserts the built-in catalog (admin).
// POST /api/v1/universities/seed
func (h *UniversityHandler) SeedCatalog(c *gin.Context) {
	result, err := h.uniSvc.Seed(c.Request.Context())
	if err != nil {
		h.handleUniversityError(c, err)
		return
	}
	response.OK(c, result)
}

// SyncCatalog pulls countries from the live directory (admin).
// POST /api/v1/universities/sync
func (h *UniversityHandler) SyncCatalog(c *gin.Context) {
	var req dto.SyncRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindFailed(c, err)
			return
		}
	}

	result, err := h.uniSvc.Sync(c.Request.Context(), req.Countries)
	if err != nil {
		h.handleUniversityError(c, err)
		return
	}
	response.OK(c, result)
}

// ── live directory ──

// LiveByCountry GET /api/v1/live/universities/country/:country
func (h *UniversityHandler) LiveByCountry(c *gin.Context) {
	countryName := strings.TrimSpace(c.Param("country"))
	if countryName == "" {
		response.BadRequest(c, response.CodeValidation, "country is required")
		return
	}
	var req dto.LiveCountryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	unis, err := h.uniSvc.LiveByCountry(c.Request.Context(), countryName, req.Limit)
	if err != nil {
		h.handleUniversityError(c, err)
		return
	}
	response.OK(c, gin.H{"list": unis})
}

// LiveSearch GET /api/v1/live/universities/search?q=
func (h *UniversityHandler) LiveSearch(c *gin.Context) {
	var req dto.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	unis, err := h.uniSvc.LiveSearch(c.Request.Context(), req.Query)
	if err != nil {
		h.handleUniversityError(c, err)
		return
	}
	response.OK(c, gin.H{"list": unis})
}

// LiveGet details of a directory university by encoded id.
// GET /api/v1/live/universities/:id
func (h *UniversityHandler) LiveGet(c *gin.Context) {
	u, err := h.uniSvc.LiveGet(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleUniversityError(c, err)
		return
	}
	response.OK(c, u)
}

func (h *UniversityHandler) handleUniversityError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrInvalidUniversityID) {
		response.BadRequest(c, response.CodeInvalidUniversityID, "invalid university id")
		return
	}
	handleCommonError(c, err)
}
