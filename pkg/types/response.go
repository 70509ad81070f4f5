package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope is the failure body. Some deployments only send a top-level
// message, so clients accept either shape.
type ErrorEnvelope struct {
	Error   *APIError `json:"error,omitempty"`
	Message string    `json:"message,omitempty"`
}

// ServerMessage returns the most specific message carried by the envelope.
func (e ErrorEnvelope) ServerMessage() string {
	if e.Error != nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return e.Message
}

// ServerCode returns the error code, if any.
func (e ErrorEnvelope) ServerCode() string {
	if e.Error == nil {
		return ""
	}
	return e.Error.Code
}

// Page is one window of a paginated listing.
type Page[T any] struct {
	Items []T `json:"items"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// HasMore reports whether another page follows this one.
func (p Page[T]) HasMore() bool {
	return p.Page*p.Limit < p.Total
}
