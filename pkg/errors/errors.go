package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	CodeValidation     Code = "VALIDATION_ERROR"
	CodeAuthRequired   Code = "AUTHENTICATION_REQUIRED"
	CodeSessionExpired Code = "SESSION_EXPIRED"
	CodeNetwork        Code = "NETWORK_ERROR"
	CodeServer         Code = "SERVER_REJECTION"
	CodeNotAvailable   Code = "NOT_AVAILABLE"
	CodeEmptyCart      Code = "EMPTY_CART"
	CodeStateConflict  Code = "STATE_CONFLICT"
	CodeNotFound       Code = "NOT_FOUND"
	CodeInternal       Code = "INTERNAL_ERROR"
)

// Surface tells the presentation layer how a failure should be shown.
type Surface string

const (
	SurfaceField  Surface = "field"
	SurfaceNotice Surface = "notice"
	SurfacePrompt Surface = "prompt"
)

type Metadata struct {
	Surface       Surface
	Retryable     bool
	PublicMessage string
	// Propagates is false for failures recovered at the store boundary.
	Propagates bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		Surface:       SurfaceField,
		PublicMessage: "please correct the highlighted fields",
	},
	CodeAuthRequired: {
		Surface:       SurfacePrompt,
		PublicMessage: "please log in to continue",
		Propagates:    true,
	},
	CodeSessionExpired: {
		Surface:       SurfacePrompt,
		PublicMessage: "your session has expired, please log in again",
		Propagates:    true,
	},
	CodeNetwork: {
		Surface:       SurfaceNotice,
		Retryable:     true,
		PublicMessage: "network error, please try again",
		Propagates:    true,
	},
	CodeServer: {
		Surface:       SurfaceNotice,
		PublicMessage: "the request could not be completed",
		Propagates:    true,
	},
	CodeNotAvailable: {
		Surface:       SurfaceNotice,
		PublicMessage: "not available",
		Propagates:    true,
	},
	CodeEmptyCart: {
		Surface:       SurfaceNotice,
		PublicMessage: "your cart is empty",
	},
	CodeStateConflict: {
		Surface:       SurfaceNotice,
		PublicMessage: "that step is not available right now",
	},
	CodeNotFound: {
		Surface:       SurfaceNotice,
		PublicMessage: "not found",
		Propagates:    true,
	},
	CodeInternal: {
		Surface:       SurfaceNotice,
		Retryable:     true,
		PublicMessage: "something went wrong",
		Propagates:    true,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

// FieldErrors returns validation details keyed by field, or nil.
func (e *Error) FieldErrors() map[string]string {
	if e == nil {
		return nil
	}
	fields, _ := e.details.(map[string]string)
	return fields
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf returns the typed code carried by err, or CodeInternal.
func CodeOf(err error) Code {
	if typed := As(err); typed != nil {
		return typed.Code()
	}
	return CodeInternal
}

// Is reports whether err carries the provided code.
func Is(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}

// UserMessage picks the message to surface: the specific message for codes whose text is
// meant for users, the public fallback otherwise.
func UserMessage(err error) string {
	typed := As(err)
	if typed == nil {
		return MetadataFor(CodeInternal).PublicMessage
	}
	switch typed.Code() {
	case CodeValidation, CodeServer, CodeNotAvailable, CodeEmptyCart, CodeAuthRequired, CodeStateConflict:
		if typed.Message() != "" {
			return typed.Message()
		}
	}
	return MetadataFor(typed.Code()).PublicMessage
}
