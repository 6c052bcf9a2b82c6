package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"uniguide/backend/internal/dto"
	"uniguide/backend/internal/service"
	"uniguide/backend/pkg/response"
)

// SelectionHandler shortlist, lock and stage endpoints.
type SelectionHandler struct {
	selSvc service.SelectionService
}

// NewSelectionHandler creates a SelectionHandler.
func NewSelectionHandler(selSvc service.SelectionService) *SelectionHandler {
	return &SelectionHandler{selSvc: selSvc}
}

// ListSelections GET /api/v1/selections
func (h *SelectionHandler) ListSelections(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.selSvc.List(c.Request.Context(), userID)
	if err != nil {
		h.handleSelectionError(c, err)
		return
	}
	response.OK(c, result)
}

// GetStage GET /api/v1/selections/stage
func (h *SelectionHandler) GetStage(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	stage, err := h.selSvc.GetStage(c.Request.Context(), userID)
	if err != nil {
		h.handleSelectionError(c, err)
		return
	}
	response.OK(c, stage)
}

// Shortlist POST /api/v1/selections/shortlist
func (h *SelectionHandler) Shortlist(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.ShortlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.selSvc.Shortlist(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleSelectionError(c, err)
		return
	}
	response.OK(c, result)
}

// UpdateCategory PATCH /api/v1/selections/shortlist/:universityId
func (h *SelectionHandler) UpdateCategory(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.selSvc.UpdateCategory(c.Request.Context(), userID, c.Param("universityId"), &req)
	if err != nil {
		h.handleSelectionError(c, err)
		return
	}
	response.OK(c, result)
}

// Unshortlist DELETE /api/v1/selections/shortlist/:universityId
func (h *SelectionHandler) Unshortlist(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.selSvc.Unshortlist(c.Request.Context(), userID, c.Param("universityId"))
	if err != nil {
		h.handleSelectionError(c, err)
		return
	}
	response.OK(c, result)
}

// Lock POST /api/v1/selections/lock
func (h *SelectionHandler) Lock(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.LockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.selSvc.Lock(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleSelectionError(c, err)
		return
	}
	response.OK(c, result)
}

// Unlock DELETE /api/v1/selections/lock/:universityId
func (h *SelectionHandler) Unlock(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.selSvc.Unlock(c.Request.Context(), userID, c.Param("universityId"))
	if err != nil {
		h.handleSelectionError(c, err)
		return
	}
	response.OK(c, result)
}

func (h *SelectionHandler) handleSelectionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSelectionLocked):
		response.Conflict(c, response.CodeSelectionLocked, "university is locked; unlock it first")
	case errors.Is(err, service.ErrNotShortlisted):
		response.NotFound(c, response.CodeNotShortlisted, "university is not shortlisted")
	case errors.Is(err, service.ErrInvalidCategory):
		response.BadRequest(c, response.CodeValidation, "category must be dream, target or safe")
	default:
		handleCommonError(c, err)
	}
}
