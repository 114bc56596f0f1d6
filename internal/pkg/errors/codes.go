package errors

import (
	"fmt"
	"net/http"
)

// Code represents an error code with HTTP status and message
type Code struct {
	Code    int    // Business error code
	Status  int    // HTTP status code
	Message string // Error message
}

// Error codes for different modules
const (
	// Success
	Success = 0

	// Common errors (1000-1999)
	ErrInternalServer  = 1000
	ErrInvalidParams   = 1001
	ErrNotFound        = 1002
	ErrTooManyRequests = 1006
	ErrBadRequest      = 1007
	ErrServiceUnavail  = 1008

	// Translation errors (4000-4999)
	ErrTranslateEmptyInput        = 4000
	ErrTranslateInvalidLanguage   = 4001
	ErrTranslateFileTooLarge      = 4002
	ErrTranslateUnsupportedType   = 4003
	ErrTranslateFailed            = 4004
	ErrTranslateOperationNotFound = 4005
	ErrTranslateExtractFailed     = 4006

	// Media errors (5000-5999)
	ErrMediaFileTooLarge      = 5000
	ErrMediaInvalidType       = 5001
	ErrMediaTranscribeFailed  = 5002
	ErrMediaExtractTextFailed = 5003

	// Share errors (6000-6999)
	ErrShareNotFound      = 6000
	ErrShareInvalidParams = 6001
	ErrShareStoreFailed   = 6002
)

// codeMap maps error codes to their details
var codeMap = map[int]Code{
	Success: {Success, http.StatusOK, "Success"},

	ErrInternalServer:  {ErrInternalServer, http.StatusInternalServerError, "Internal server error"},
	ErrInvalidParams:   {ErrInvalidParams, http.StatusBadRequest, "Invalid parameters"},
	ErrNotFound:        {ErrNotFound, http.StatusNotFound, "Resource not found"},
	ErrTooManyRequests: {ErrTooManyRequests, http.StatusTooManyRequests, "Too many requests"},
	ErrBadRequest:      {ErrBadRequest, http.StatusBadRequest, "Bad request"},
	ErrServiceUnavail:  {ErrServiceUnavail, http.StatusServiceUnavailable, "Service unavailable"},

	ErrTranslateEmptyInput:        {ErrTranslateEmptyInput, http.StatusBadRequest, "Text to translate is empty"},
	ErrTranslateInvalidLanguage:   {ErrTranslateInvalidLanguage, http.StatusBadRequest, "Invalid language code"},
	ErrTranslateFileTooLarge:      {ErrTranslateFileTooLarge, http.StatusRequestEntityTooLarge, "Document size exceeds limit"},
	ErrTranslateUnsupportedType:   {ErrTranslateUnsupportedType, http.StatusUnsupportedMediaType, "Unsupported document type"},
	ErrTranslateFailed:            {ErrTranslateFailed, http.StatusBadGateway, "Translation failed"},
	ErrTranslateOperationNotFound: {ErrTranslateOperationNotFound, http.StatusNotFound, "Translation operation not found"},
	ErrTranslateExtractFailed:     {ErrTranslateExtractFailed, http.StatusUnprocessableEntity, "Failed to extract document text"},

	ErrMediaFileTooLarge:      {ErrMediaFileTooLarge, http.StatusRequestEntityTooLarge, "Media file size exceeds limit"},
	ErrMediaInvalidType:       {ErrMediaInvalidType, http.StatusUnsupportedMediaType, "Unsupported media type"},
	ErrMediaTranscribeFailed:  {ErrMediaTranscribeFailed, http.StatusBadGateway, "Transcription failed"},
	ErrMediaExtractTextFailed: {ErrMediaExtractTextFailed, http.StatusBadGateway, "Image text extraction failed"},

	ErrShareNotFound:      {ErrShareNotFound, http.StatusNotFound, "Shared translation not found or expired"},
	ErrShareInvalidParams: {ErrShareInvalidParams, http.StatusBadRequest, "Invalid share parameters"},
	ErrShareStoreFailed:   {ErrShareStoreFailed, http.StatusInternalServerError, "Failed to store shared translation"},
}

// GetCode returns the Code for a given error code
func GetCode(code int) Code {
	if c, ok := codeMap[code]; ok {
		return c
	}
	return codeMap[ErrInternalServer]
}

// GetHTTPStatus returns HTTP status for a given error code
func GetHTTPStatus(code int) int {
	return GetCode(code).Status
}

// GetMessage returns the message for a given error code
func GetMessage(code int) string {
	return GetCode(code).Message
}

// IsClientError checks if the code represents a client error (4xx)
func IsClientError(code int) bool {
	status := GetHTTPStatus(code)
	return status >= 400 && status < 500
}

// IsServerError checks if the code represents a server error (5xx)
func IsServerError(code int) bool {
	return GetHTTPStatus(code) >= 500
}

// FormatError formats an error message with code
func FormatError(code int, details ...string) string {
	msg := GetMessage(code)
	if len(details) > 0 && details[0] != "" {
		return fmt.Sprintf("%s: %s", msg, details[0])
	}
	return msg
}
