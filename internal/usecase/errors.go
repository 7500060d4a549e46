package usecase

import (
	"errors"
	"strings"
)

const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeClientNotFound  = "CLIENT_NOT_FOUND"
	CodeScriptNotFound  = "SCRIPT_NOT_FOUND"
	CodeUnknownChannel  = "UNKNOWN_CHANNEL"
	CodeTemplateMissing = "TEMPLATE_NOT_FOUND"
	CodeNotDeliverable  = "CHANNEL_NOT_DELIVERABLE"
	CodeMissingContact  = "MISSING_CONTACT"

	CodeStoreWrite     = "STORE_WRITE_FAILED"
	CodeStoreRead      = "STORE_READ_FAILED"
	CodeDeliveryFailed = "DELIVERY_FAILED"
)

type DomainError struct {
	Code    string
	Message string
	Fields  []ValidationError
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// HasCode reports whether err carries a DomainError or TechnicalError with code.
func HasCode(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	var te *TechnicalError
	if errors.As(err, &te) {
		return te.Code == code
	}
	return false
}

type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func validationFailed(errs []ValidationError) *DomainError {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+" ("+e.Message+")")
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: "validation failed: " + strings.Join(parts, ", "),
		Fields:  errs,
	}
}
