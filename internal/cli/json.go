package cli

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/rileyhilliard/lui/internal/errors"
)

// Machine mode flag - when true, outputs JSON and suppresses human-friendly decorations
var machineMode bool

// MachineMode returns true if machine-readable output is enabled
func MachineMode() bool {
	return machineMode
}

// JSONEnvelope wraps command output in a consistent structure for machine parsing.
// All --json output should use this envelope.
type JSONEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *JSONError  `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
	Details    interface{} `json:"details,omitempty"`
}

// Error codes for machine-readable output.
const (
	ErrCodeConfigNotFound  = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid   = "CONFIG_INVALID"
	ErrCodeDeviceFailed    = "DEVICE_FAILED"
	ErrCodePushFailed      = "PUSH_FAILED"
	ErrCodeWrongCode       = "WRONG_CODE"
	ErrCodeLockFailed      = "LOCK_FAILED"
	ErrCodeFlyoutRejected  = "FLYOUT_REJECTED"
	ErrCodeSimulatorFailed = "SIMULATOR_FAILED"
	ErrCodeUnknown         = "UNKNOWN"
)

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data interface{}) error {
	return writeJSONEnvelope(w, JSONEnvelope{
		Success: true,
		Data:    data,
	})
}

// WriteJSONError writes an error response to the writer.
func WriteJSONError(w io.Writer, code, message, suggestion string, details interface{}) error {
	return writeJSONEnvelope(w, JSONEnvelope{
		Success: false,
		Error: &JSONError{
			Code:       code,
			Message:    message,
			Suggestion: suggestion,
			Details:    details,
		},
	})
}

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	return writeJSONEnvelope(w, JSONEnvelope{
		Success: false,
		Error:   ErrorToJSON(err),
	})
}

// writeJSONEnvelope writes the envelope with consistent formatting.
func writeJSONEnvelope(w io.Writer, env JSONEnvelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// ErrorToJSON converts a Go error to a JSONError with appropriate code mapping.
// Wrapped structured errors are found through the chain.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	var luiErr *errors.Error
	if errors.As(err, &luiErr) {
		out := &JSONError{
			Code:       mapErrorCode(luiErr.Code, luiErr.Message),
			Message:    luiErr.Message,
			Suggestion: luiErr.Suggestion,
		}
		if luiErr.Cause != nil {
			out.Details = map[string]string{"cause": luiErr.Cause.Error()}
		}
		return out
	}

	return &JSONError{
		Code:    ErrCodeUnknown,
		Message: err.Error(),
	}
}

// mapErrorCode maps internal error codes to machine-readable codes.
func mapErrorCode(internalCode, message string) string {
	msgLower := strings.ToLower(message)

	switch internalCode {
	case errors.ErrConfig:
		if strings.Contains(msgLower, "not found") || strings.Contains(msgLower, "couldn't find") {
			return ErrCodeConfigNotFound
		}
		return ErrCodeConfigInvalid
	case errors.ErrDevice:
		return ErrCodeDeviceFailed
	case errors.ErrPush:
		return ErrCodePushFailed
	case errors.ErrLock:
		if strings.Contains(msgLower, "not correct") {
			return ErrCodeWrongCode
		}
		return ErrCodeLockFailed
	case errors.ErrFlyout:
		return ErrCodeFlyoutRejected
	case errors.ErrSim:
		return ErrCodeSimulatorFailed
	}

	return ErrCodeUnknown
}
