package dto

import (
	"uniguide/backend/internal/model"
	"uniguide/backend/internal/scoring"
)

// UniversityListRequest catalog filters.
type UniversityListRequest struct {
	PaginationRequest
	Countries  []string `form:"country"`
	Degree     string   `form:"degree"`
	Field      string   `form:"field"`
	MaxTuition *float64 `form:"max_tuition" binding:"omitempty,gte=0"`
}

// UniversityListResponse one catalog page.
type UniversityListResponse struct {
	Items    []model.University `json:"items"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

// SearchRequest name search. Queries shorter than two characters match
// nothing.
type SearchRequest struct {
	Query string `form:"q"     binding:"max=100"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

// LiveCountryRequest live listing of one country.
type LiveCountryRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
}

// SeedResponse result of seeding the built-in catalog.
type SeedResponse struct {
	Inserted int64 `json:"inserted"`
	Total    int64 `json:"total"`
}

// SyncRequest countries to pull from the live directory; empty uses the
// configured list.
type SyncRequest struct {
	Countries []string `json:"countries" binding:"omitempty,max=30,dive,min=2"`
}

// SyncResponse result of a directory sync.
type SyncResponse struct {
	Countries []string `json:"countries"`
	Fetched   int      `json:"fetched"`
	Upserted  int64    `json:"upserted"`
	Skipped   int      `json:"skipped"`
}

// RecommendationRequest selects the university source.
type RecommendationRequest struct {
	Source string `form:"source" binding:"omitempty,oneof=live catalog"`
}

// RecommendationResponse dream, target and safe buckets.
type RecommendationResponse struct {
	Source    string              `json:"source"`
	Countries []string            `json:"countries"`
	Dream     []scoring.FitResult `json:"dream"`
	Target    []scoring.FitResult `json:"target"`
	Safe      []scoring.FitResult `json:"safe"`
	Total     int                 `json:"total"`
	Skipped   int                 `json:"skipped"`
}
