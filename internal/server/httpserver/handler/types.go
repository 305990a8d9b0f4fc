package handler

// ErrorResponse is the error body. Detail is a string, or a list of
// ValidationIssue for 422 responses.
type ErrorResponse struct {
	Detail any `json:"detail"`
}

// ValidationIssue describes one invalid request field.
type ValidationIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// TokenResponse is the response body for POST /token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// MessageResponse is the response body of delete endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}
