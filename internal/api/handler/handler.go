package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"uniguide/backend/internal/service"
	pkgerrors "uniguide/backend/pkg/errors"
	"uniguide/backend/pkg/response"
)

// Handler aggregates every HTTP handler.
type Handler struct {
	Auth           *AuthHandler
	Profile        *ProfileHandler
	University     *UniversityHandler
	Recommendation *RecommendationHandler
	Selection      *SelectionHandler
	Task           *TaskHandler
	Export         *ExportHandler
}

// NewHandler wires handlers to their services.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:           NewAuthHandler(svc.Auth),
		Profile:        NewProfileHandler(svc.Profile),
		University:     NewUniversityHandler(svc.University),
		Recommendation: NewRecommendationHandler(svc.Recommendation),
		Selection:      NewSelectionHandler(svc.Selection),
		Task:           NewTaskHandler(svc.Task),
		Export:         NewExportHandler(svc.Export),
	}
}

// bindFailed answers a request that failed binding or validation.
func bindFailed(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge, "request body too large")
		return
	}
	response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "invalid request", err.Error())
}

// handleCommonError maps errors shared by several modules. Anything else
// is an internal error.
func handleCommonError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, response.CodeStudentNotFound, "student not found")
	case errors.Is(err, service.ErrUniversityNotFound):
		response.NotFound(c, response.CodeUniversityNotFound, "university not found")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, response.CodeStaleWrite, "concurrent update, please retry")
	case errors.Is(err, service.ErrExternalSource):
		response.ServiceUnavailable(c, response.CodeExternalSource, "university directory unavailable, try again later")
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
