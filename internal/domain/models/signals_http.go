package models

// Requests for sentiment HTTP endpoints. Defined in domain for consistency and reuse.

type AnalysisRequest struct {
	Limit    int    `query:"limit" json:"limit" default:"30" validate:"gte=1,lte=2000"`
	Provider string `query:"provider" json:"provider" validate:"omitempty,oneof=cnn alternative archive"`
}

type ClassifyRequest struct {
	Score string `query:"score" json:"score" validate:"required"`
}

type ClassifyResponse struct {
	Score       float64 `json:"score"`
	Action      Action  `json:"action"`
	Description string  `json:"description"`
}
