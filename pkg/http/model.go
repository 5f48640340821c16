package http

// APIResponse represents standard API response.
type APIResponse struct {
	Status  int         `json:"status" example:"200"`
	Message string      `json:"message" example:"OK"`
	Data    interface{} `json:"data,omitempty"`
}

// APIResponse400Err represents 400 error response.
type APIResponse400Err struct {
	Status  int               `json:"status" example:"400"`
	Message string            `json:"message" example:"Bad Request"`
	Data    []ValidationError `json:"data,omitempty"`
}

// APIResponse502Err represents upstream failure response.
type APIResponse502Err struct {
	Status  int         `json:"status" example:"502"`
	Message string      `json:"message" example:"Bad Gateway"`
	Data    []*AppError `json:"data,omitempty"`
}

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"name"`
	Message string                 `json:"message,omitempty" example:"Name is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// Unavailable describes an optional result that the series was too short to produce.
type Unavailable struct {
	Reason   string `json:"reason" example:"insufficient_data"`
	Required int    `json:"required" example:"2"`
	Got      int    `json:"got" example:"1"`
}

// APIResponseUnavailable is a 200 response whose data is explicitly null.
type APIResponseUnavailable struct {
	Status      int          `json:"status" example:"200"`
	Message     string       `json:"message" example:"insufficient_data"`
	Data        interface{}  `json:"data"`
	Unavailable *Unavailable `json:"unavailable"`
}
