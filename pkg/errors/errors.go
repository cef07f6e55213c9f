package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeStock        Code = "OUT_OF_STOCK"
	CodeRemote       Code = "REMOTE_REJECTED"
	CodeDependency   Code = "DEPENDENCY_ERROR"
	CodeInternal     Code = "INTERNAL_ERROR"
)

// Metadata drives how an error is rendered to the person using the client.
// Retryable is false for every code: the failure policy is a single attempt
// per operation, surfaced and left to the user.
type Metadata struct {
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		PublicMessage:  "validation failed",
		DetailsAllowed: true,
	},
	CodeUnauthorized: {
		PublicMessage:  "please log in first",
		DetailsAllowed: false,
	},
	CodeNotFound: {
		PublicMessage:  "resource not found",
		DetailsAllowed: false,
	},
	CodeConflict: {
		PublicMessage:  "conflict detected",
		DetailsAllowed: false,
	},
	CodeStock: {
		PublicMessage:  "insufficient stock",
		DetailsAllowed: true,
	},
	CodeRemote: {
		PublicMessage:  "request rejected by server",
		DetailsAllowed: true,
	},
	CodeDependency: {
		PublicMessage:  "service unavailable",
		DetailsAllowed: true,
	},
	CodeInternal: {
		PublicMessage:  "something went wrong",
		DetailsAllowed: false,
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

func (e *Error) Error() string {
	if e == nil {
		return ""
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

// PublicMessage resolves the banner text for an arbitrary error: the coded
// message when the code allows it, the generic fallback otherwise.
func PublicMessage(err error) string {
	typed := As(err)
	if typed == nil {
		return MetadataFor(CodeInternal).PublicMessage
	}
	meta := MetadataFor(typed.Code())
	switch typed.Code() {
	case CodeValidation, CodeUnauthorized, CodeNotFound, CodeConflict, CodeStock, CodeRemote:
		if m := typed.Message(); m != "" {
			return m
		}
	}
	return meta.PublicMessage
}
