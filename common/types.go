package common

// TestRequest is the body the probe signs for /api/test
type TestRequest struct {
	Message string `json:"message"`
}

// TestResponse echoes the caller's identity back
type TestResponse struct {
	PubKey  string `json:"pubkey"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
