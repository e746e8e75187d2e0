package models

// APIResponse is the JSON envelope returned by the bot's own HTTP endpoints.
type APIResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Ok acknowledges a processed request.
func Ok() APIResponse {
	return APIResponse{Status: "ok"}
}

// Ignored acknowledges a request that carried nothing to process.
func Ignored() APIResponse {
	return APIResponse{Status: "ignored"}
}

// Error builds an error envelope with the given message.
func Error(msg string) APIResponse {
	return APIResponse{Status: "error", Error: msg}
}
