package vastcap

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind categorizes service error codes. Every kind is itself an error,
// so callers match with errors.Is(err, vastcap.ErrIPBanned).
type ErrorKind int

const (
	ErrUnknown               ErrorKind = iota // code outside the known table
	ErrInvalidAPIKey                          // ERROR_KEY_DOES_NOT_EXIST
	ErrInsufficientBalance                    // ERROR_INSUFFICIENT_BALANCE
	ErrValidationFailed                       // ERROR_VALIDATION_FAILED
	ErrNoSlotAvailable                        // ERROR_NO_SLOT_AVAILABLE
	ErrIPBanned                               // ERROR_IP_BANNED
	ErrTaskNotFound                           // ERROR_TASK_NOT_FOUND
	ErrCaptchaUnsolvable                      // ERROR_CAPTCHA_UNSOLVABLE
	ErrProxyConnectionFailed                  // ERROR_PROXY_CONNECTION_FAILED
)

var kindMessages = map[ErrorKind]string{
	ErrUnknown:               "Unknown error",
	ErrInvalidAPIKey:         "Invalid API key",
	ErrInsufficientBalance:   "Insufficient balance",
	ErrValidationFailed:      "Invalid request parameters",
	ErrNoSlotAvailable:       "No available slots",
	ErrIPBanned:              "Your IP address is banned",
	ErrTaskNotFound:          "Task not found",
	ErrCaptchaUnsolvable:     "Captcha unsolvable",
	ErrProxyConnectionFailed: "Proxy connection failed",
}

// Error returns the fixed human-readable message for the kind.
func (k ErrorKind) Error() string {
	if msg, ok := kindMessages[k]; ok {
		return msg
	}
	return fmt.Sprintf("error kind %d", int(k))
}

// classifyError maps a service error code to its kind.
func classifyError(code string) ErrorKind {
	switch code {
	case "ERROR_KEY_DOES_NOT_EXIST":
		return ErrInvalidAPIKey
	case "ERROR_INSUFFICIENT_BALANCE":
		return ErrInsufficientBalance
	case "ERROR_VALIDATION_FAILED":
		return ErrValidationFailed
	case "ERROR_NO_SLOT_AVAILABLE":
		return ErrNoSlotAvailable
	case "ERROR_IP_BANNED":
		return ErrIPBanned
	case "ERROR_TASK_NOT_FOUND":
		return ErrTaskNotFound
	case "ERROR_CAPTCHA_UNSOLVABLE":
		return ErrCaptchaUnsolvable
	case "ERROR_PROXY_CONNECTION_FAILED":
		return ErrProxyConnectionFailed
	}
	return ErrUnknown
}

// APIError is an error object reported by the service for a request.
type APIError struct {
	Kind        ErrorKind
	ID          int
	Code        string
	Description string
}

// newAPIError builds an APIError, filling missing code and description
// with "Unknown error".
func newAPIError(id int, code, description string) *APIError {
	if code == "" {
		code = kindMessages[ErrUnknown]
	}
	if description == "" {
		description = kindMessages[ErrUnknown]
	}
	return &APIError{
		Kind:        classifyError(code),
		ID:          id,
		Code:        code,
		Description: description,
	}
}

func (e *APIError) Error() string {
	if e.Kind != ErrUnknown {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s (%s)", e.Description, e.Code)
}

// Unwrap exposes the mapped kind for known codes.
func (e *APIError) Unwrap() error {
	if e.Kind == ErrUnknown {
		return nil
	}
	return e.Kind
}

// Is reports ErrUnknown for unmapped codes.
func (e *APIError) Is(target error) bool {
	return e.Kind == ErrUnknown && target == ErrUnknown
}

// TaskFailedError is returned by Solve when the service gives up on a task.
type TaskFailedError struct {
	TaskID string
	Solver SolverError
}

func (e *TaskFailedError) Error() string {
	return fmt.Sprintf("task %s failed: %s", e.TaskID, e.Solver.ErrorDescription)
}

// Unwrap exposes the mapped kind when the failure code is known.
func (e *TaskFailedError) Unwrap() error {
	if k := classifyError(e.Solver.ErrorCode); k != ErrUnknown {
		return k
	}
	return nil
}

// ErrTimeout matches every TimeoutError.
var ErrTimeout = errors.New("solve timed out")

// TimeoutError is returned by Solve when the task is still processing at the deadline.
type TimeoutError struct {
	TaskID  string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("task %s timed out after %s", e.TaskID, e.Timeout)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// HTTPError is a non-2xx response that carried no service error object.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

var (
	// ErrSessionNotInitialized is returned by AsyncClient calls made before Open.
	ErrSessionNotInitialized = errors.New("session not initialized: call Open or use WithSession")
	// ErrSessionClosed is returned by AsyncClient calls made after Close.
	ErrSessionClosed = errors.New("session closed")
	// ErrInvalidTask matches every ValidationError.
	ErrInvalidTask = errors.New("invalid task")
)

// ValidationError is a task rejected client-side before any request is sent.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid task: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidTask }
