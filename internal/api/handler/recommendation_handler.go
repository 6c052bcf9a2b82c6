package handler

import (
	"github.com/gin-gonic/gin"

	"uniguide/backend/internal/dto"
	"uniguide/backend/internal/service"
	"uniguide/backend/pkg/response"
)

// RecommendationHandler dream/target/safe recommendations.
type RecommendationHandler struct {
	recSvc service.RecommendationService
}

// NewRecommendationHandler creates a RecommendationHandler.
func NewRecommendationHandler(recSvc service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recSvc: recSvc}
}

// Recommend GET /api/v1/recommendations?source=live|catalog
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.RecommendationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.recSvc.Recommend(c.Request.Context(), userID, &req)
	if err != nil {
		handleCommonError(c, err)
		return
	}
	response.OK(c, result)
}
