package chat

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/trueloving/deskfolio/internal/llm"
)

// Code is the machine-readable part of a chat error response.
type Code string

const (
	CodeConfig          Code = "CONFIG_ERROR"
	CodeInvalidJSON     Code = "INVALID_JSON"
	CodeInvalidMessages Code = "INVALID_MESSAGES"
	CodeInvalidResponse Code = "INVALID_RESPONSE"
	CodeAIService       Code = "AI_SERVICE_ERROR"
	CodeTimeout         Code = "TIMEOUT"
	CodeInternal        Code = "INTERNAL_ERROR"
)

var (
	// ErrNotConfigured is returned when no model provider is set up.
	ErrNotConfigured = errors.New("chat provider not configured")
	// ErrEmptyResponse is returned when the model answered with no content.
	ErrEmptyResponse = errors.New("empty response from model")
	// ErrInvalidMessages is returned for an empty conversation, a messages
	// value that is not an array of messages, or unknown roles.
	ErrInvalidMessages = errors.New("invalid messages")

	errInvalidJSON = errors.New("invalid request body")
)

// ErrorResponse is the JSON body of every failed chat request.
type ErrorResponse struct {
	Code      Code   `json:"code"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func newErrorResponse(code Code, msg string, now time.Time) ErrorResponse {
	return ErrorResponse{Code: code, Message: msg, Timestamp: now.UTC().Format("2006-01-02T15:04:05.000Z")}
}

// classify maps a Reply error to a status and envelope. Vendor detail is
// only exposed in development.
func classify(err error, dev bool, now time.Time) (int, ErrorResponse) {
	switch {
	case errors.Is(err, errInvalidJSON):
		return http.StatusBadRequest, newErrorResponse(CodeInvalidJSON, "Invalid request format", now)
	case errors.Is(err, ErrNotConfigured):
		return http.StatusServiceUnavailable, newErrorResponse(CodeConfig,
			"Chat service is not configured. Please contact the site administrator.", now)
	case errors.Is(err, ErrInvalidMessages):
		return http.StatusBadRequest, newErrorResponse(CodeInvalidMessages,
			"Messages array is required and must not be empty", now)
	case errors.Is(err, ErrEmptyResponse):
		return http.StatusInternalServerError, newErrorResponse(CodeInvalidResponse,
			"Received invalid response from AI service", now)
	}

	var apiErr *llm.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.StatusCode
		if status == 0 {
			status = http.StatusInternalServerError
		}
		msg := "The AI service is temporarily unavailable"
		if dev {
			msg = "AI service error: " + apiErr.Message
		}
		return status, newErrorResponse(CodeAIService, msg, now)
	}

	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(strings.ToLower(err.Error()), "timeout") {
		return http.StatusGatewayTimeout, newErrorResponse(CodeTimeout, "Request timed out. Please try again.", now)
	}

	msg := "An unexpected error occurred. Please try again later."
	if dev {
		msg = err.Error()
	}
	return http.StatusInternalServerError, newErrorResponse(CodeInternal, msg, now)
}
