// Package dto holds the request and response shapes of the HTTP API.
package dto

// Envelope is the uniform response wrapper. Code 0 means success;
// errors carry the HTTP-ish code of the legacy contract.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// IDResponse carries the id of a created entity.
type IDResponse struct {
	ID string `json:"id"`
}
