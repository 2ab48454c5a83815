package handler

// errorResponse documents the envelope rendered by the API error handler for
// every 4xx/5xx response.
type errorResponse struct {
	StatusCode int    `json:"status_code"`
	Detail     string `json:"detail"`
}
